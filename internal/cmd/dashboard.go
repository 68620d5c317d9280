package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/cyphera/cyphera-metrics/internal/lifecycle"
	"github.com/cyphera/cyphera-metrics/internal/result"
	"github.com/cyphera/cyphera-metrics/internal/validation"
	"github.com/cyphera/cyphera-metrics/internal/worker"
	"github.com/spf13/cobra"
)

type dashboardOptions struct {
	deriveOptions
	workers int
	stream  bool
}

func newDashboardCommand(root *rootOptions) *cobra.Command {
	opts := &dashboardOptions{}

	cmd := &cobra.Command{
		Use:   "dashboard <document.json|->",
		Short: "Generate a dashboard through the worker pool and print its state",
		Long: `Mount a dashboard controller backed by an in-process worker pool, generate
once and print the final state. With --stream every state transition is printed
as one JSON line.

Accepts the same selection flags as derive.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			parsed := validation.Parse(raw, DocumentShape)
			doc, ok := parsed.Value()
			if !ok {
				f, _ := parsed.Failure()
				return fmt.Errorf("%w: %s", ErrInvalidDocument, f.Error())
			}
			req, err := opts.request(doc)
			if err != nil {
				return err
			}

			pool := worker.NewPool(opts.workers, 1, 1)
			pool.Start()
			defer pool.Stop()

			client := worker.NewClient(pool.Open())
			defer client.Close()

			var fault *result.Failure
			controller := lifecycle.NewController(cmd.Context(), client, func(f result.Failure) {
				fault = &f
			})
			defer controller.Unmount()

			out := cmd.OutOrStdout()
			var printed chan struct{}
			if opts.stream {
				states := controller.Subscribe()
				printed = make(chan struct{})
				go func() {
					defer close(printed)
					enc := json.NewEncoder(out)
					for state := range states {
						_ = enc.Encode(state)
					}
				}()
			}

			controller.Generate(req)
			controller.Wait()

			if opts.stream {
				controller.Unmount()
				<-printed
			} else if err := writeJSON(out, controller.State(), root.pretty); err != nil {
				return err
			}

			if fault != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), fault.Error())
				return ErrDerivationFailed
			}
			return nil
		},
	}

	opts.bindFlags(cmd)
	cmd.Flags().IntVar(&opts.workers, "workers", 1, "Worker goroutines in the pool")
	cmd.Flags().BoolVar(&opts.stream, "stream", false, "Print every state transition")
	return cmd
}
