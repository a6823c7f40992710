package chart

import "errors"

// ErrInvalidRelationship is returned by AddRelationship when the input is
// malformed: a missing agent id or an unknown relationship type.
var ErrInvalidRelationship = errors.New("invalid relationship")
