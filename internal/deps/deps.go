package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"hauski/internal/config"
)

// Requirement defines an external program the host tools rely on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string `json:"name"`
	Command     string `json:"command"`
	Description string `json:"description,omitempty"`
	Optional    bool   `json:"optional"`
	Available   bool   `json:"available"`
	Detail      string `json:"detail,omitempty"`
}

// HostRequirements lists the programs the configured tools invoke.
func HostRequirements(cfg *config.Config) []Requirement {
	reqs := []Requirement{{
		Name:        "Recorder",
		Command:     cfg.Recording.Binary,
		Description: "Captures audio for rec-start",
	}}
	if len(cfg.Audio.RestartCommand) > 0 {
		reqs = append(reqs, Requirement{
			Name:        "Mopidy restart",
			Command:     cfg.Audio.RestartCommand[0],
			Description: "Restarts Mopidy after audio-mode switches",
			Optional:    true,
		})
	}
	if len(cfg.Audio.PipeWireUnits) > 0 && (len(cfg.Audio.RestartCommand) == 0 || cfg.Audio.RestartCommand[0] != "systemctl") {
		reqs = append(reqs, Requirement{
			Name:        "systemctl",
			Command:     "systemctl",
			Description: "Controls PipeWire user units",
			Optional:    true,
		})
	}
	return reqs
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		resolved, err := exec.LookPath(cmd)
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		if resolved != cmd {
			status.Detail = resolved
		}
		results = append(results, status)
	}
	return results
}

// MissingRequired reports the unavailable non-optional dependencies.
func MissingRequired(results []Status) []Status {
	var missing []Status
	for _, s := range results {
		if !s.Available && !s.Optional {
			missing = append(missing, s)
		}
	}
	return missing
}
