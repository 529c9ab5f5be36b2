package cli

import (
	"testing"

	"github.com/spf13/cobra"
)

func TestCommandDefinitions(t *testing.T) {
	tests := []struct {
		use string
		cmd *cobra.Command
	}{
		{"serve", NewServeCmd()},
		{"migrate", NewMigrateCmd()},
		{"validate [copy text]", NewValidateCmd()},
	}
	for _, tt := range tests {
		t.Run(tt.use, func(t *testing.T) {
			if tt.cmd == nil {
				t.Fatal("constructor returned nil")
			}
			if tt.cmd.Use != tt.use {
				t.Fatalf("Use = %q, want %q", tt.cmd.Use, tt.use)
			}
			if tt.cmd.Short == "" || tt.cmd.RunE == nil {
				t.Fatalf("command %q missing Short or RunE", tt.use)
			}
		})
	}
}
