// Package cli defines the interviewctl commands for working with the catalog,
// interview records and reports offline.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"vocalhire/interview/internal/models"
)

var version = "dev" // set via ldflags at build time

// NewRootCommand builds the command tree writing to out.
func NewRootCommand(out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "interviewctl",
		Short: "VocalHire interview tooling",
		Long: `interviewctl previews catalog questions, renders PDF reports from
exported interview records and prints the offline feedback for a record.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.SetOut(out)

	root.AddCommand(newQuestionsCmd())
	root.AddCommand(newRenderCmd())
	root.AddCommand(newFeedbackCmd())
	return root
}

// Execute runs the root command. Called from main.
func Execute() {
	if err := NewRootCommand(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// readRecords accepts a single record or an array of records.
func readRecords(path string) ([]models.InterviewRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var many []models.InterviewRecord
	if err := json.Unmarshal(data, &many); err == nil {
		if len(many) == 0 {
			return nil, fmt.Errorf("%s contains no interviews", path)
		}
		return many, nil
	}

	var one models.InterviewRecord
	if err := json.Unmarshal(data, &one); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return []models.InterviewRecord{one}, nil
}
