package main

import (
	"fmt"
	"os"
	"time"

	"github.com/blizzardhq/blizzard/internal/orchestration"
	"github.com/blizzardhq/blizzard/internal/spinner"
)

func verboseProgressListener(event orchestration.ProgressEvent) {
	switch event.EventType {
	case orchestration.EventRunStart:
		fmt.Println("Starting conversation...")
	case orchestration.EventTurnStart:
		fmt.Printf("[%d] %s is thinking...", event.Iteration, event.Agent)
	case orchestration.EventTurnComplete:
		duration := time.Duration(event.DurationMs) * time.Millisecond
		reason := ""
		if r, ok := event.Details["reason"].(string); ok && r != "" {
			reason = fmt.Sprintf(" (%s)", r)
		}
		fmt.Printf(" done in %v%s\n", duration, reason)
	case orchestration.EventRunComplete:
		duration := time.Duration(event.DurationMs) * time.Millisecond
		fmt.Printf("Conversation finished: %s after %d turn(s) in %v\n",
			event.State, event.Iteration, duration)
	}
}

// newSimpleProgressListener shows a spinner for whichever agent is currently
// speaking. It is stateful, so each run needs its own listener.
func newSimpleProgressListener() orchestration.ProgressListener {
	var stopSpinner func()

	return func(event orchestration.ProgressEvent) {
		switch event.EventType {
		case orchestration.EventTurnStart:
			stopSpinner = spinner.Start(os.Stderr, fmt.Sprintf("%s is thinking...", event.Agent))
		case orchestration.EventTurnComplete:
			if stopSpinner != nil {
				stopSpinner()
				stopSpinner = nil
			}
		case orchestration.EventRunComplete:
			if stopSpinner != nil {
				stopSpinner()
				stopSpinner = nil
			}
		}
	}
}
