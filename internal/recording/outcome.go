package recording

import (
	"fmt"
	"strings"

	"hauski/internal/process"
)

// Kind discriminates the result of a Start or Stop call.
type Kind string

const (
	KindStarted        Kind = "started"
	KindAlreadyRunning Kind = "already_running"
	KindOutputExists   Kind = "output_exists"
	KindStopped        Kind = "stopped"
	KindNoState        Kind = "no_state"
	KindStaleCleared   Kind = "stale_cleared"
)

// Outcome reports what Start or Stop did, or would have done in dry-run mode.
// Only the fields relevant to Kind are populated.
type Outcome struct {
	Kind    Kind
	DryRun  bool
	PID     int
	Output  string
	Command []string
	Signal  process.Signal
	Force   bool
	// Replaced lists prior claims Start cleared (or would clear) before
	// launching. A zero PID stands for an unreadable claim file.
	Replaced []Replacement
}

// Replacement describes a prior claim that Start removed.
type Replacement struct {
	PID    int  `json:"pid"`
	Alive  bool `json:"alive"`
	Killed bool `json:"killed"`
}

// ExitCode maps the outcome to the process exit status of the CLI tools.
func (o Outcome) ExitCode() int {
	switch o.Kind {
	case KindAlreadyRunning, KindOutputExists, KindNoState:
		return 1
	default:
		return 0
	}
}

// Lines renders the outcome for a terminal, one message per line.
func (o Outcome) Lines() []string {
	var lines []string
	for _, r := range o.Replaced {
		lines = append(lines, replacementLine(r, o.DryRun))
	}
	switch o.Kind {
	case KindStarted:
		if o.DryRun {
			lines = append(lines, "Would run: "+strings.Join(o.Command, " "))
			lines = append(lines, "Output: "+o.Output)
			break
		}
		lines = append(lines, fmt.Sprintf("Recording started (pid %d): %s", o.PID, o.Output))
	case KindAlreadyRunning:
		lines = append(lines, fmt.Sprintf("Recording already running (pid %d). Use rec-stop or --force.", o.PID))
	case KindOutputExists:
		lines = append(lines, fmt.Sprintf("Output file already exists: %s (use --force to overwrite)", o.Output))
	case KindStopped:
		if o.DryRun {
			lines = append(lines, fmt.Sprintf("Would send SIG%s to recorder pid %d (force=%t)", o.Signal, o.PID, o.Force))
			break
		}
		lines = append(lines, fmt.Sprintf("Sent SIG%s to recorder pid %d", o.Signal, o.PID))
	case KindNoState:
		lines = append(lines, "No recorder PID state found")
	case KindStaleCleared:
		if o.DryRun {
			lines = append(lines, fmt.Sprintf("Recorder pid %d is not running; would clear stale state", o.PID))
			break
		}
		lines = append(lines, fmt.Sprintf("Recorder pid %d is not running; cleared stale state", o.PID))
	}
	return lines
}

func replacementLine(r Replacement, dryRun bool) string {
	verb := "Cleared"
	if dryRun {
		verb = "Would clear"
	}
	switch {
	case r.PID == 0:
		return verb + " unreadable recorder state"
	case r.Alive && dryRun:
		return fmt.Sprintf("Would stop running recorder pid %d", r.PID)
	case r.Alive && r.Killed:
		return fmt.Sprintf("Stopped running recorder pid %d", r.PID)
	case r.Alive:
		return fmt.Sprintf("Could not stop recorder pid %d; claim cleared anyway", r.PID)
	default:
		return fmt.Sprintf("%s stale recorder state (pid %d)", verb, r.PID)
	}
}

type startPayload struct {
	Status   string        `json:"status"`
	DryRun   bool          `json:"dry_run"`
	Output   string        `json:"output"`
	Command  []string      `json:"command"`
	PID      int           `json:"pid,omitempty"`
	Replaced []Replacement `json:"replaced,omitempty"`
}

type stopPayload struct {
	Status string `json:"status"`
	DryRun bool   `json:"dry_run"`
	PID    int    `json:"pid"`
	Signal string `json:"signal"`
	Force  bool   `json:"force"`
}

type pidPayload struct {
	Status string `json:"status"`
	DryRun bool   `json:"dry_run,omitempty"`
	PID    int    `json:"pid"`
}

type messagePayload struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Output  string `json:"output,omitempty"`
}

// Payload returns the flat JSON object for the outcome variant.
func (o Outcome) Payload() any {
	switch o.Kind {
	case KindStarted:
		return startPayload{
			Status:   string(o.Kind),
			DryRun:   o.DryRun,
			Output:   o.Output,
			Command:  o.Command,
			PID:      o.PID,
			Replaced: o.Replaced,
		}
	case KindStopped:
		return stopPayload{
			Status: string(o.Kind),
			DryRun: o.DryRun,
			PID:    o.PID,
			Signal: o.Signal.String(),
			Force:  o.Force,
		}
	case KindAlreadyRunning, KindStaleCleared:
		return pidPayload{Status: string(o.Kind), DryRun: o.DryRun, PID: o.PID}
	default:
		msg := ""
		if lines := o.Lines(); len(lines) > 0 {
			msg = lines[len(lines)-1]
		}
		return messagePayload{Status: string(o.Kind), Message: msg, Output: o.Output}
	}
}
