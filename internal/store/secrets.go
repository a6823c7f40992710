package store

import (
	"database/sql"
	"fmt"
)

// Secret is a sealed credential, typically a model provider API key. Value
// holds the vault-sealed ciphertext; the store never sees plaintext.
type Secret struct {
	ID       string
	Name     string
	Provider string
	Value    []byte
}

func (s *Store) SaveSecret(sec *Secret) error {
	_, err := s.db.Exec(`
		INSERT INTO secrets (id, name, provider, value)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			provider = excluded.provider,
			value = excluded.value`,
		sec.ID, sec.Name, sec.Provider, sec.Value)
	if err != nil {
		return fmt.Errorf("save secret: %w", err)
	}
	return nil
}

func (s *Store) GetSecret(id string) (*Secret, error) {
	sec := &Secret{}
	err := s.db.QueryRow(`
		SELECT id, name, provider, value FROM secrets WHERE id = ?`, id).
		Scan(&sec.ID, &sec.Name, &sec.Provider, &sec.Value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get secret: %w", err)
	}
	return sec, nil
}

// SecretForProvider returns the newest secret stored for a provider, or nil
// when none exists.
func (s *Store) SecretForProvider(provider string) (*Secret, error) {
	sec := &Secret{}
	err := s.db.QueryRow(`
		SELECT id, name, provider, value FROM secrets
		WHERE provider = ? ORDER BY rowid DESC LIMIT 1`, provider).
		Scan(&sec.ID, &sec.Name, &sec.Provider, &sec.Value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("secret for provider: %w", err)
	}
	return sec, nil
}

func (s *Store) ListSecrets() ([]Secret, error) {
	rows, err := s.db.Query(`SELECT id, name, provider, value FROM secrets ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list secrets: %w", err)
	}
	defer rows.Close()

	var secrets []Secret
	for rows.Next() {
		var sec Secret
		if err := rows.Scan(&sec.ID, &sec.Name, &sec.Provider, &sec.Value); err != nil {
			return nil, fmt.Errorf("scan secret: %w", err)
		}
		secrets = append(secrets, sec)
	}
	return secrets, rows.Err()
}

func (s *Store) DeleteSecret(id string) error {
	_, err := s.db.Exec(`DELETE FROM secrets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete secret: %w", err)
	}
	return nil
}
