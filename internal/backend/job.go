// Package backend builds and runs invocations of the FastreeR backend tool.
package backend

import (
	"fmt"
	"strings"

	appErrors "fastreer-gui/internal/errors"
)

// Mode is the operation name passed to the backend as its first argument.
type Mode string

const (
	ModeVCF2Dist   Mode = "VCF2DIST"
	ModeFASTA2Dist Mode = "FASTA2DIST"
	ModeDist2Tree  Mode = "DIST2TREE"
)

var modes = []Mode{ModeVCF2Dist, ModeFASTA2Dist, ModeDist2Tree}

// Modes returns the supported modes in display order.
func Modes() []Mode {
	out := make([]Mode, len(modes))
	copy(out, modes)
	return out
}

// ParseMode accepts a mode name case-insensitively.
func ParseMode(s string) (Mode, error) {
	candidate := Mode(strings.ToUpper(strings.TrimSpace(s)))
	for _, m := range modes {
		if m == candidate {
			return m, nil
		}
	}
	return "", appErrors.New(appErrors.CodeInvalidJob, fmt.Sprintf("unknown mode %q (expected one of %s)", s, joinModes()), nil)
}

func joinModes() string {
	names := make([]string, len(modes))
	for i, m := range modes {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}

// Job describes one backend run. It is built fresh from the current
// selections and passed by value.
type Job struct {
	Mode   Mode
	Inputs []string
	Output string
}

// NewJob copies inputs so later changes to the caller's slice do not leak
// into the job.
func NewJob(mode Mode, inputs []string, output string) Job {
	in := make([]string, len(inputs))
	copy(in, inputs)
	return Job{Mode: mode, Inputs: in, Output: output}
}

// Validate checks the preconditions the runner relies on.
func (j Job) Validate() error {
	if _, err := ParseMode(string(j.Mode)); err != nil {
		return err
	}
	if len(j.Inputs) == 0 {
		return appErrors.New(appErrors.CodeInvalidJob, "no input files selected", nil)
	}
	for i, in := range j.Inputs {
		if strings.TrimSpace(in) == "" {
			return appErrors.New(appErrors.CodeInvalidJob, fmt.Sprintf("input %d is empty", i+1), nil)
		}
	}
	if strings.TrimSpace(j.Output) == "" {
		return appErrors.New(appErrors.CodeInvalidJob, "no output file selected", nil)
	}
	return nil
}
