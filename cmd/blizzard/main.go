package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for different failure modes
const (
	ExitSuccess    = 0 // Run produced a validated verdict
	ExitUnresolved = 1 // Run completed but no validated verdict was reached
	ExitError      = 2 // Configuration or runtime error
)

// UnresolvedError indicates that the run completed and was persisted, but
// the conversation never produced a validated verdict.
type UnresolvedError struct {
	Message string
}

func (e *UnresolvedError) Error() string {
	return e.Message
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		// Check error type to determine exit code
		var unresolvedErr *UnresolvedError
		if errors.As(err, &unresolvedErr) {
			os.Exit(ExitUnresolved)
		}

		// All other errors are configuration/runtime errors
		os.Exit(ExitError)
	}
}
