// Package deps verifies the external binaries the exporter shells out to.
package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"presenvid/internal/config"
)

// Requirement defines an external binary the application relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
}

// Status reports the availability of a requirement.
type Status struct {
	Name        string
	Command     string
	Description string
	Available   bool
	Detail      string
}

// Requirements lists the binaries exports and audio normalization need,
// resolved through the configured overrides.
func Requirements(cfg *config.Config) []Requirement {
	return []Requirement{
		{
			Name:        "FFmpeg",
			Command:     cfg.FFmpegBinary(),
			Description: "Renders slide clips and concatenates the final video",
		},
		{
			Name:        "FFprobe",
			Command:     cfg.FFprobeBinary(),
			Description: "Measures the duration of recorded audio takes",
		},
	}
}

// Check is a convenience wrapper combining Requirements and CheckBinaries.
func Check(cfg *config.Config) []Status {
	return CheckBinaries(Requirements(cfg))
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
		}
		switch {
		case cmd == "":
			status.Detail = "command not configured"
		default:
			if _, err := exec.LookPath(cmd); err != nil {
				status.Detail = fmt.Sprintf("binary %q not found", cmd)
			} else {
				status.Available = true
			}
		}
		results = append(results, status)
	}
	return results
}

// AllAvailable reports whether every requirement resolved.
func AllAvailable(statuses []Status) bool {
	for _, s := range statuses {
		if !s.Available {
			return false
		}
	}
	return true
}
