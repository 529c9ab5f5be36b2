package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yungbote/adcopy-backend/internal/cli"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "adcopy",
		Short:   "Adaptive example retrieval and compliance engine for ad copy generation",
		Version: version,
	}
	rootCmd.SilenceUsage = true

	rootCmd.AddCommand(cli.NewServeCmd())
	rootCmd.AddCommand(cli.NewMigrateCmd())
	rootCmd.AddCommand(cli.NewValidateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
