package backend

import (
	"fmt"
	"path/filepath"
	"strings"
)

// DefaultJava is the launcher used for .jar backends.
const DefaultJava = "java"

// Tool locates the backend executable.
type Tool struct {
	// Path is an executable or a .jar bundle.
	Path string
	// Java launches .jar bundles; DefaultJava when empty.
	Java string
}

// Invocation returns the leading tokens that start the backend.
func (t Tool) Invocation() []string {
	if strings.EqualFold(filepath.Ext(t.Path), ".jar") {
		java := strings.TrimSpace(t.Java)
		if java == "" {
			java = DefaultJava
		}
		return []string{java, "-jar", t.Path}
	}
	return []string{t.Path}
}

// BuildArgs returns the argument vector for job:
//
//	<invocation...> <mode> -i <in1> -i <in2> ... -o <output>
//
// Inputs keep their order and each path is a single token; nothing is
// quoted or split.
func BuildArgs(job Job, tool Tool) []string {
	invocation := tool.Invocation()
	args := make([]string, 0, len(invocation)+1+2*len(job.Inputs)+2)
	args = append(args, invocation...)
	args = append(args, string(job.Mode))
	for _, in := range job.Inputs {
		args = append(args, "-i", in)
	}
	args = append(args, "-o", job.Output)
	return args
}

// DisplayString joins args with spaces for logs. It is not a shell command
// and must never be executed or re-split.
func DisplayString(args []string) string {
	return strings.Join(args, " ")
}

// DisplayTokens lists every argument with its index, one per line.
func DisplayTokens(args []string) []string {
	lines := make([]string, len(args))
	for i, a := range args {
		lines[i] = fmt.Sprintf("[%d] %s", i, a)
	}
	return lines
}
