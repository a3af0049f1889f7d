//go:build !windows

package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApp_Run(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantOut  string
		wantCode int
	}{
		{"finishes in time", []string{"timebox", "5", "true"}, "killed 0\n", 0},
		{"propagates exit code", []string{"timebox", "5", "sh", "-c", "exit 4"}, "killed 0\n", 4},
		{"deadline fires", []string{"timebox", "1", "sleep", "10"}, "killed 1\n", 137},
		{"signal override", []string{"timebox", "-15", "1", "sleep", "10"}, "killed 1\n", 143},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, stdout, stderr := newTestApp()

			code := app.Run(tt.args)

			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantOut, stdout.String(), "exactly one report line")
			assert.Empty(t, stderr.String())
		})
	}
}

func TestApp_LaunchFailure(t *testing.T) {
	app, stdout, stderr := newTestApp()

	code := app.Run([]string{"timebox", "5", "timebox-no-such-command", "arg"})

	assert.Equal(t, 1, code)
	assert.Equal(t, "timebox-no-such-command: executable file not found in $PATH\n", stderr.String())
	assert.Equal(t, "killed 0\n", stdout.String())
}

func TestApp_Verbose(t *testing.T) {
	app, stdout, stderr := newTestApp()

	code := app.Run([]string{"timebox", "--verbose", "5", "true"})

	assert.Equal(t, 0, code)
	assert.Equal(t, "killed 0\n", stdout.String())
	assert.Contains(t, stderr.String(), "started worker")
	assert.Contains(t, stderr.String(), "worker completed")
}
