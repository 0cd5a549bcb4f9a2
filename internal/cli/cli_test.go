package cli

import (
	"errors"
	"os"
	"testing"

	"github.com/retroenv/retrogolib/assert"

	"github.com/blkerby/smartdiff/internal/options"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want options.Program
	}{
		{
			name: "default flags",
			args: []string{"prog"},
			want: options.Program{
				Parameters: options.Parameters{
					ProjectRoot: ".",
					Reference:   "HEAD",
					Output:      "smartdiff-out",
				},
				Flags: options.Flags{Baseline: 0.3},
			},
		},
		{
			name: "all flags",
			args: []string{"prog", "-p", "levels", "-r", "v1.0", "-o", "out",
				"-baseline", "0.5", "-list", "-debug", "-q"},
			want: options.Program{
				Parameters: options.Parameters{
					ProjectRoot: "levels",
					Reference:   "v1.0",
					Output:      "out",
				},
				Flags: options.Flags{
					Baseline: 0.5,
					ListOnly: true,
					Debug:    true,
					Quiet:    true,
				},
			},
		},
		{
			name: "room name",
			args: []string{"prog", "Landing Site"},
			want: options.Program{
				Parameters: options.Parameters{
					ProjectRoot: ".",
					Reference:   "HEAD",
					Output:      "smartdiff-out",
					Room:        "Landing Site",
				},
				Flags: options.Flags{Baseline: 0.3},
			},
		},
		{
			name: "flags before room name",
			args: []string{"prog", "-r", "main", "Landing Site"},
			want: options.Program{
				Parameters: options.Parameters{
					ProjectRoot: ".",
					Reference:   "main",
					Output:      "smartdiff-out",
					Room:        "Landing Site",
				},
				Flags: options.Flags{Baseline: 0.3},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldArgs := os.Args
			t.Cleanup(func() { os.Args = oldArgs })

			os.Args = tt.args

			got, err := ParseFlags()
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFlagsErrors(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		usageError bool
	}{
		{
			name:       "two room names",
			args:       []string{"prog", "Landing", "Crateria"},
			usageError: true,
		},
		{
			name:       "flag after room name",
			args:       []string{"prog", "Landing", "-debug"},
			usageError: true,
		},
		{
			name: "baseline above one",
			args: []string{"prog", "-baseline", "1.5"},
		},
		{
			name: "negative baseline",
			args: []string{"prog", "-baseline", "-0.1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldArgs := os.Args
			t.Cleanup(func() { os.Args = oldArgs })

			os.Args = tt.args

			_, err := ParseFlags()
			assert.True(t, err != nil)

			var usageErr *UsageError
			assert.Equal(t, tt.usageError, errors.As(err, &usageErr))
		})
	}
}
