package usecase

import (
	"errors"

	"github.com/riskibarqy/redzone/external/espn"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNoSnapshot   = errors.New("no snapshot published yet")

	// Provider failures keep their identity all the way up so the HTTP
	// layer can tell "fix your cookies" apart from "try again later".
	ErrCredentialsExpired    = espn.ErrCredentialsExpired
	ErrDependencyUnavailable = espn.ErrUnavailable
)
