package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"cfp-engine/internal/delivery"
	"cfp-engine/internal/email"
	"cfp-engine/internal/service"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var workerOnce bool

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Deliver scheduled emails",
	Long: `worker polls the scheduled email queue and sends every due message
over SMTP. With --once it drains a single batch and exits.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase()
		if err != nil {
			return err
		}
		defer db.Close()

		worker := delivery.NewWorker(
			service.NewNotificationService(db.DB),
			email.NewService(&settings.Email),
			&settings.Delivery,
		)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if workerOnce {
			stats, err := worker.RunOnce(ctx)
			if err != nil {
				return fmt.Errorf("deliver batch: %w", err)
			}
			printStats(stats)
			return nil
		}

		printStatus("•", fmt.Sprintf("Polling every %s, press Ctrl+C to stop", settings.Delivery.PollInterval), color.FgCyan)
		worker.Run(ctx)
		printStatus("✓", "Worker stopped", color.FgGreen)
		return nil
	},
}

func printStats(stats delivery.Stats) {
	attr := color.FgGreen
	if stats.Failed > 0 {
		attr = color.FgYellow
	}
	printStatus("✓", fmt.Sprintf("sent=%d failed=%d", stats.Sent, stats.Failed), attr)
}

func init() {
	workerCmd.Flags().BoolVar(&workerOnce, "once", false, "Process one batch and exit")
}
