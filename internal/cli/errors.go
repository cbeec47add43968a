package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/Makepad-fr/tada/internal/ui"
)

// Exit codes: 0 ok, 1 error, 2 usage.
const (
	codeOK    = 0
	codeFail  = 1
	codeUsage = 2
)

// exitError carries the process exit code. A quiet error has already been
// reported to the user.
type exitError struct {
	code  int
	err   error
	quiet bool
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func usageErr(format string, args ...any) error {
	return &exitError{code: codeUsage, err: fmt.Errorf(format, args...)}
}

func failErr(err error) error {
	return &exitError{code: codeFail, err: err}
}

func reported(code int, err error) error {
	return &exitError{code: code, err: err, quiet: true}
}

// exitCode reports err on w and maps it to a process exit code.
func exitCode(w io.Writer, err error) int {
	if err == nil {
		return codeOK
	}
	var xe *exitError
	if errors.As(err, &xe) {
		if !xe.quiet {
			ui.Fail(w, xe.Error())
		}
		return xe.code
	}
	ui.Fail(w, err.Error())
	return codeFail
}
