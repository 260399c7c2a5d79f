package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"vocalhire/interview/internal/report"
)

func newRenderCmd() *cobra.Command {
	var input, output string
	var summary, compress bool

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a PDF report from an interview record file",
		Long: `Render reads a JSON interview record (or an array of records) and writes
the interview report PDF. With --summary the records are combined into one
summary report.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := readRecords(input)
			if err != nil {
				return err
			}
			if !summary && len(records) > 1 {
				return fmt.Errorf("%s holds %d interviews, use --summary to combine them", input, len(records))
			}

			var buf bytes.Buffer
			name := report.FileName(records[0])
			if summary {
				name = report.SummaryFileName(time.Now())
				err = report.GenerateSummaryPDF(&buf, records, report.WithCompression(compress))
			} else {
				err = report.GenerateInterviewPDF(&buf, records[0], report.WithCompression(compress))
			}
			if err != nil {
				return err
			}

			if output == "" {
				output = name
			} else if info, err := os.Stat(output); err == nil && info.IsDir() {
				output = filepath.Join(output, name)
			}
			if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%s)\n", output, report.FormatSize(int64(buf.Len())))
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "interview record JSON file")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file or directory (default: report file name)")
	cmd.Flags().BoolVar(&summary, "summary", false, "render a summary report across all records")
	cmd.Flags().BoolVar(&compress, "compress", true, "compress PDF streams")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
