package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrintVersion(t *testing.T) {
	tests := []struct {
		name          string
		version       string
		build         string
		buildTime     string
		expectContain []string
	}{
		{
			name:          "dev build",
			version:       "dev",
			build:         "unknown",
			buildTime:     "",
			expectContain: []string{"fastreer-gui version dev", "Go version:", "OS/Arch:"},
		},
		{
			name:          "release build with commit",
			version:       "1.1.0",
			build:         "abc1234",
			buildTime:     "2026-04-02_12:00:00",
			expectContain: []string{"fastreer-gui version 1.1.0", "(build: abc1234)", "[2026-04-02_12:00:00]", "Go version:", "OS/Arch:"},
		},
		{
			name:          "release build without buildtime",
			version:       "1.0.0",
			build:         "def5678",
			buildTime:     "",
			expectContain: []string{"fastreer-gui version 1.0.0", "(build: def5678)", "Go version:", "OS/Arch:"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			origVersion := Version
			origBuild := Build
			origBuildTime := BuildTime
			defer func() {
				Version = origVersion
				Build = origBuild
				BuildTime = origBuildTime
			}()

			Version = tt.version
			Build = tt.build
			BuildTime = tt.buildTime

			var buf bytes.Buffer
			printVersion(&buf)
			output := buf.String()

			for _, expected := range tt.expectContain {
				if !strings.Contains(output, expected) {
					t.Errorf("Expected output to contain %q, but got:\n%s", expected, output)
				}
			}
		})
	}
}

func TestPrintVersionOmitsUnknownBuild(t *testing.T) {
	origBuild := Build
	defer func() { Build = origBuild }()
	Build = "unknown"

	var buf bytes.Buffer
	printVersion(&buf)
	if strings.Contains(buf.String(), "(build:") {
		t.Errorf("unexpected build info in %q", buf.String())
	}
}
