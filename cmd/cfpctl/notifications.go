package main

import (
	"fmt"
	"strconv"
	"time"

	"cfp-engine/internal/models"
	"cfp-engine/internal/service"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	pendingLimit  int
	pendingWithin time.Duration
)

var notificationsCmd = &cobra.Command{
	Use:     "notifications",
	Aliases: []string{"emails"},
	Short:   "Inspect and manage the scheduled email queue",
}

var notificationsPendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List emails awaiting delivery",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase()
		if err != nil {
			return err
		}
		defer db.Close()

		emails, err := service.NewNotificationService(db.DB).ListPending(cmd.Context(), time.Now().Add(pendingWithin), pendingLimit)
		if err != nil {
			return err
		}
		if len(emails) == 0 {
			printStatus("✓", "No pending emails", color.FgGreen)
			return nil
		}
		for _, e := range emails {
			printPending(e)
		}
		return nil
	},
}

var notificationsSentCmd = &cobra.Command{
	Use:   "mark-sent ID",
	Short: "Mark a scheduled email as delivered",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		db, err := openDatabase()
		if err != nil {
			return err
		}
		defer db.Close()

		if _, err := service.NewNotificationService(db.DB).MarkSent(cmd.Context(), id); err != nil {
			return err
		}
		printStatus("✓", fmt.Sprintf("Email %d marked as sent", id), color.FgGreen)
		return nil
	},
}

var notificationsCancelCmd = &cobra.Command{
	Use:   "cancel ID",
	Short: "Cancel a scheduled email",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		db, err := openDatabase()
		if err != nil {
			return err
		}
		defer db.Close()

		if _, err := service.NewNotificationService(db.DB).Cancel(cmd.Context(), id); err != nil {
			return err
		}
		printStatus("✓", fmt.Sprintf("Email %d cancelled", id), color.FgGreen)
		return nil
	},
}

func printPending(e models.ScheduledEmail) {
	line := fmt.Sprintf("#%d %-28s %-32s %s", e.ID, e.Template, e.Recipient, e.FireAt.Format(time.RFC3339))
	if e.Attempts == 0 {
		printStatus("•", line, color.FgCyan)
		return
	}
	lastErr := ""
	if e.LastError != nil {
		lastErr = *e.LastError
	}
	printStatus("!", fmt.Sprintf("%s attempts=%d %s", line, e.Attempts, lastErr), color.FgYellow)
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return uint(id), nil
}

func init() {
	notificationsPendingCmd.Flags().IntVar(&pendingLimit, "limit", 100, "Maximum number of emails to list")
	notificationsPendingCmd.Flags().DurationVar(&pendingWithin, "within", 0, "Include emails due within this window from now")

	notificationsCmd.AddCommand(notificationsPendingCmd)
	notificationsCmd.AddCommand(notificationsSentCmd)
	notificationsCmd.AddCommand(notificationsCancelCmd)
}
