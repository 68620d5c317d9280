package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cyphera/cyphera-metrics/internal/apperrors"
	"github.com/cyphera/cyphera-metrics/internal/constants"
	"github.com/cyphera/cyphera-metrics/internal/result"
	"github.com/cyphera/cyphera-metrics/internal/types/business"
	"github.com/cyphera/cyphera-metrics/internal/validation"
	"github.com/cyphera/cyphera-metrics/internal/worker"
	"github.com/spf13/cobra"
)

// ErrDerivationFailed is returned when derive prints a failed response.
var ErrDerivationFailed = errors.New("derivation failed")

type deriveOptions struct {
	date     string
	location string
	view     string
	currency string
	locale   string
}

func newDeriveCommand(root *rootOptions) *cobra.Command {
	opts := &deriveOptions{}

	cmd := &cobra.Command{
		Use:   "derive <document.json|->",
		Short: "Derive charts, calendars and cards for one dashboard view",
		Long: `Run the worker protocol in-process against a metrics document and print the
response envelope.

--date defaults to the latest day present in the document and --location to
the document's own store location.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			resp := opts.derive(cmd.Context(), raw)
			if err := writeJSON(cmd.OutOrStdout(), resp, root.pretty); err != nil {
				return err
			}
			if !resp.IsOk() {
				return ErrDerivationFailed
			}
			return nil
		},
	}

	opts.bindFlags(cmd)
	return cmd
}

func (o *deriveOptions) bindFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.date, "date", "", "Selected date as YYYY-MM-DD")
	cmd.Flags().StringVar(&o.location, "location", "", "Store location")
	cmd.Flags().StringVar(&o.view, "view", string(constants.CalendarViewDaily), "Calendar view: Daily, Monthly or Yearly")
	cmd.Flags().StringVar(&o.currency, "currency", constants.USDCurrency, "ISO 4217 currency for card values")
	cmd.Flags().StringVar(&o.locale, "locale", constants.DefaultLocale, "BCP 47 locale for card values")
}

func (o *deriveOptions) request(doc business.MetricsDocument) (worker.Request, error) {
	location := doc.StoreLocation
	if o.location != "" {
		location = constants.StoreLocation(o.location)
	}

	var date business.SelectedDate
	if o.date == "" {
		latest, ok := LatestDate(doc)
		if !ok {
			return worker.Request{}, fmt.Errorf("document has no daily metrics, pass --date")
		}
		date = latest
	} else {
		t, err := time.Parse(constants.ISODateLayout, o.date)
		if err != nil {
			return worker.Request{}, fmt.Errorf("--date must be YYYY-MM-DD: %w", err)
		}
		date = business.NewSelectedDate(t)
	}

	return worker.Request{
		Document:      doc,
		SelectedDate:  date,
		StoreLocation: location,
		CalendarView:  constants.CalendarView(o.view),
		FormattingParams: business.FormattingParams{
			Currency: o.currency,
			Locale:   o.locale,
		},
	}, nil
}

// LatestDate returns the last calendar day the document has daily metrics for.
func LatestDate(doc business.MetricsDocument) (business.SelectedDate, bool) {
	var latest time.Time
	for _, y := range doc.FinancialMetrics {
		for _, m := range y.MonthlyMetrics {
			for _, d := range m.DailyMetrics {
				t, err := (business.SelectedDate{Year: y.Year, Month: m.Month, Day: d.Day}).Time()
				if err == nil && t.After(latest) {
					latest = t
				}
			}
		}
	}
	if latest.IsZero() {
		return business.SelectedDate{}, false
	}
	return business.NewSelectedDate(latest), true
}

// derive decodes the document, builds the request from the flags and runs the
// worker handler on its wire form.
func (o *deriveOptions) derive(ctx context.Context, raw []byte) worker.Response {
	parsed := validation.Parse(raw, DocumentShape)
	doc, ok := parsed.Value()
	if !ok {
		f, _ := parsed.Failure()
		return result.Fail[worker.DashboardPayload](f).WithMessage(worker.MsgParsing)
	}

	req, err := o.request(doc)
	if err != nil {
		return result.Err[worker.DashboardPayload](apperrors.KindValidation, err.Error(), worker.MsgParsing)
	}
	encoded, err := json.Marshal(req)
	if err != nil {
		return result.Err[worker.DashboardPayload](apperrors.KindUnknown, err.Error(), worker.MsgParsing)
	}
	return worker.Handle(ctx, encoded)
}
