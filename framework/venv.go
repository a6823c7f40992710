package framework

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// CreateVirtualenv creates a Python virtual environment at envDir and, when
// requirementsFile is non-empty, installs the listed packages into it. The
// directory must not already exist.
func CreateVirtualenv(envDir, requirementsFile string) error {
	if _, err := os.Stat(envDir); err == nil {
		return fmt.Errorf("directory %s already exists; choose another location or remove it", envDir)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat %s: %w", envDir, err)
	}

	slog.Info("creating virtual environment", "path", envDir)
	cmd := exec.Command("python3", "-m", "venv", envDir)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("create venv: %w: %s", err, out)
	}

	if requirementsFile == "" {
		return nil
	}

	slog.Info("installing requirements", "file", requirementsFile)
	pip := venvPython(envDir)
	cmd = exec.Command(pip, "-m", "pip", "install", "-r", requirementsFile)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("pip install: %w", err)
	}
	slog.Info("packages installed", "env", envDir)
	return nil
}

func venvPython(envDir string) string {
	if runtime.GOOS == "windows" {
		return filepath.Join(envDir, "Scripts", "python")
	}
	return filepath.Join(envDir, "bin", "python")
}
