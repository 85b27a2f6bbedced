package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/face-reader/internal/config"
)

func newServeFlagsCmd() *cobra.Command {
	c := &cobra.Command{}
	c.Flags().Int("port", 0, "")
	c.Flags().String("host", "", "")
	return c
}

func TestResolveServeHostPort(t *testing.T) {
	cfg := &config.Config{Web: config.WebConfig{Host: "0.0.0.0", Port: 8080}}

	tests := []struct {
		name     string
		flags    map[string]string
		wantPort int
		wantHost string
	}{
		{"config defaults", nil, 8080, "0.0.0.0"},
		{"port flag", map[string]string{"port": "9000"}, 9000, "0.0.0.0"},
		{"both flags", map[string]string{"port": "3000", "host": "127.0.0.1"}, 3000, "127.0.0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newServeFlagsCmd()
			for k, v := range tt.flags {
				if err := c.Flags().Set(k, v); err != nil {
					t.Fatalf("failed to set --%s: %v", k, err)
				}
			}

			port, host := resolveServeHostPort(c, cfg)
			if port != tt.wantPort || host != tt.wantHost {
				t.Errorf("expected %s:%d, got %s:%d", tt.wantHost, tt.wantPort, host, port)
			}
		})
	}
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	versionCmd.Run(versionCmd, nil)

	if !strings.HasPrefix(out.String(), "face-reader dev\n") {
		t.Errorf("unexpected version output %q", out.String())
	}
}
