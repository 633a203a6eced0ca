package main

import (
	"errors"

	gkerrors "github.com/odvcencio/gridkit/pkg/errors"
)

const (
	exitFailure = 1
	exitUsage   = 2
	exitConfig  = 3
	exitVerify  = 4
	exitBackend = 5
)

type exitCoder interface {
	ExitCode() int
}

type exitError struct {
	code int
	err  error
}

func (e exitError) Error() string {
	if e.err == nil {
		return ""
	}
	return e.err.Error()
}

func (e exitError) Unwrap() error {
	return e.err
}

func (e exitError) ExitCode() int {
	if e.code == 0 {
		return exitFailure
	}
	return e.code
}

func withExitCode(err error, code int) error {
	if err == nil {
		return nil
	}
	return exitError{code: code, err: err}
}

// exitCodeForError prefers an explicit exit code, then maps gridkit error
// codes, then falls back to 1.
func exitCodeForError(err error) int {
	if err == nil {
		return 0
	}
	var coded exitCoder
	if errors.As(err, &coded) {
		return coded.ExitCode()
	}
	switch gkerrors.GetCode(err) {
	case gkerrors.ErrCodeConfigLoad, gkerrors.ErrCodeConfigParse, gkerrors.ErrCodeConfigInvalid:
		return exitConfig
	case gkerrors.ErrCodeVerifyFailed:
		return exitVerify
	case gkerrors.ErrCodeBackendInit:
		return exitBackend
	}
	return exitFailure
}
