package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ripple-ui/ripple/pkg/devtools"
	"github.com/ripple-ui/ripple/pkg/reactive"
)

func inspectCmd() *cobra.Command {
	var (
		addr     string
		ringSize int
		demo     bool
		trace    bool
		verbose  bool
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Run the live inspector server",
		Long: `Run the Ripple inspector: an HTTP server exposing a JSON snapshot
of recent engine events (/graph), a live WebSocket event stream
(/events), and Prometheus metrics (/metrics).

Install the server's observer in your application to feed it:

    srv := devtools.NewServer()
    reactive.SetObserver(srv.Observer())

With --demo the inspector runs a small reactive workload of its own,
useful for trying the endpoints without wiring an application.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
			slog.SetDefault(logger)

			opts := []devtools.ServerOption{
				devtools.WithAddr(addr),
				devtools.WithRingSize(ringSize),
				devtools.WithLogger(logger),
				devtools.WithMetrics(devtools.NewMetrics()),
			}
			if trace {
				opts = append(opts, devtools.WithTracer(devtools.NewTracer()))
			}

			srv := devtools.NewServer(opts...)
			reactive.SetObserver(srv.Observer())
			defer reactive.SetObserver(nil)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			printBanner()
			fmt.Println()
			fmt.Printf("  Inspector:  http://%s/graph\n", addr)
			fmt.Printf("  Events:     ws://%s/events\n", addr)
			fmt.Printf("  Metrics:    http://%s/metrics\n", addr)
			fmt.Println()

			if demo {
				go runDemo(ctx, logger)
			}

			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:9321", "Listen address")
	cmd.Flags().IntVar(&ringSize, "ring-size", 512, "Recent events kept for /graph")
	cmd.Flags().BoolVar(&demo, "demo", false, "Run a demo reactive workload")
	cmd.Flags().BoolVar(&trace, "trace", false, "Record OpenTelemetry spans")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	return cmd
}

// runDemo drives a small reactive graph so the inspector has live
// traffic: a counter ref, a derived computed, a watcher on a reactive
// object, and periodic batched writes.
func runDemo(ctx context.Context, logger *slog.Logger) {
	counter := reactive.NewRef(0)
	doubled := reactive.NewComputed(func() int {
		return counter.Get() * 2
	})

	state := reactive.Reactive(map[string]any{
		"tick":    0,
		"doubled": 0,
	}).(*reactive.Object)

	stop := reactive.Watch(state, func(newValue, oldValue any) {
		logger.Debug("demo state changed")
	}, reactive.FlushPost())
	defer stop.Stop()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	logger.Info("demo workload running")

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			reactive.Batch(func() {
				counter.Update(func(n int) int { return n + 1 })
				state.Set("tick", counter.Peek())
				state.Set("doubled", doubled.Get())
			})
			reactive.NextTick()
		}
	}
}
