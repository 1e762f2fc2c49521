package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/valens-periods/internal/periods"
)

var rootCmd = &cobra.Command{
	Use:           "valens",
	Short:         "Life-period calculator (Valens Book IV)",
	Long:          "Valens computes the Afeta, the three cycles of planetary main periods and the subperiods active at a given age.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorMessage(err))
		os.Exit(1)
	}
}

// errorMessage hides chart validation details behind the single user-facing message.
func errorMessage(err error) string {
	if periods.IsValidation(err) {
		return periods.ValidationMessage
	}
	if errors.Is(err, periods.ErrInvalidAge) {
		return err.Error()
	}
	return "Error: " + err.Error()
}
