package main

import (
	"errors"

	"github.com/ogurasousui/hiring-insights/internal/core/ingest"
)

type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string {
	return e.err.Error()
}

func (e *cliError) Unwrap() error {
	return e.err
}

const (
	exitOK         = 0
	exitValidation = 2
	exitUsage      = 3
	exitDB         = 4
	exitDBWrite    = 5
)

func withCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &cliError{code: code, err: err}
}

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ce *cliError
	if errors.As(err, &ce) {
		return ce.code
	}
	return 1
}

// ingestExitCode は取り込みエラーの種類ごとに終了コードを決めます。
func ingestExitCode(err error) int {
	switch {
	case errors.Is(err, ingest.ErrPersistence):
		return exitDBWrite
	case errors.Is(err, ingest.ErrUnsupportedKind), errors.Is(err, ingest.ErrMissingSource):
		return exitUsage
	case errors.Is(err, ingest.ErrRowConstruction):
		return exitValidation
	default:
		return 1
	}
}
