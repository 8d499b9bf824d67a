package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/RMahshie/sweepplot/internal/app"
	"github.com/RMahshie/sweepplot/internal/processing"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		stop()
		log.Fatal().Err(err).Msg("Bandwidth plot failed")
	}
}

func run(ctx context.Context) error {
	a, err := app.New(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	report, err := a.Plots.PlotBandwidth(ctx)
	if err != nil {
		return err
	}

	if err := printSummary(os.Stdout, report); err != nil {
		return err
	}

	return a.Display(ctx, report)
}

// printSummary writes the bandwidth line, the only output on stdout
func printSummary(w io.Writer, report *processing.Report) error {
	_, err := fmt.Fprintln(w, report.Summary())
	return err
}
