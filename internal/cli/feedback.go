package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"vocalhire/interview/internal/feedback"
	"vocalhire/interview/internal/models"
)

func newFeedbackCmd() *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "feedback",
		Short: "Print the offline feedback for an interview record",
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := readRecords(input)
			if err != nil {
				return err
			}

			out := make([]*models.DetailedFeedback, 0, len(records))
			for _, record := range records {
				out = append(out, feedback.Fallback(record))
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if len(out) == 1 {
				return enc.Encode(out[0])
			}
			return enc.Encode(out)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "interview record JSON file")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
