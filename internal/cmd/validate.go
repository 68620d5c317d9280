package cmd

import (
	"errors"

	"github.com/cyphera/cyphera-metrics/internal/result"
	"github.com/cyphera/cyphera-metrics/internal/types/business"
	"github.com/cyphera/cyphera-metrics/internal/validation"
	"github.com/spf13/cobra"
)

// DocumentShape is what the CLI accepts as a metrics document.
var DocumentShape = validation.Shape[business.MetricsDocument]{Name: "document"}

// ErrInvalidDocument is returned when validate finds problems.
var ErrInvalidDocument = errors.New("document is invalid")

func newValidateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <document.json|->",
		Short: "Check a metrics document against the data model",
		Long: `Check that a metrics document decodes strictly and satisfies the data model:
known store location, four-digit years, month names, two-digit days and finite
numbers, with no duplicate years, months or days.

On success prints {"success":true,...}. On failure prints the validation errors and exits 1.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			parsed := validation.Parse(raw, DocumentShape)
			summary := result.Map(parsed, summarize)
			if err := writeJSON(cmd.OutOrStdout(), summary, opts.pretty); err != nil {
				return err
			}
			if !parsed.IsOk() {
				return ErrInvalidDocument
			}
			return nil
		},
	}
}

// DocumentSummary counts what a valid document contains.
type DocumentSummary struct {
	StoreLocation string `json:"storeLocation"`
	Years         int    `json:"years"`
	Months        int    `json:"months"`
	Days          int    `json:"days"`
}

func summarize(doc business.MetricsDocument) DocumentSummary {
	s := DocumentSummary{StoreLocation: string(doc.StoreLocation), Years: len(doc.FinancialMetrics)}
	for _, y := range doc.FinancialMetrics {
		s.Months += len(y.MonthlyMetrics)
		for _, m := range y.MonthlyMetrics {
			s.Days += len(m.DailyMetrics)
		}
	}
	return s
}
