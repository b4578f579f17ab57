package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/peakflow-tools/spconf/pkg/audit"
	"github.com/peakflow-tools/spconf/pkg/cli"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "View audit logs",
	Long: `View audit logs of apply, commit and snapshot runs.

Every run is logged with:
  - Timestamp
  - User and appliance
  - Entity and the commands generated for it
  - Success/failure status

Examples:
  spconf audit list --appliance sp-leader
  spconf audit list --last 24h
  spconf audit list --entity Cust1 --failures`,
}

var (
	auditHost     string
	auditUser     string
	auditEntity   string
	auditLast     string
	auditLimit    int
	auditFailures bool
)

var auditListCmd = &cobra.Command{
	Use:   "list",
	Short: "List audit events",
	RunE: func(cmd *cobra.Command, args []string) error {
		filter := audit.Filter{
			Host:        auditHost,
			User:        auditUser,
			Entity:      auditEntity,
			Last:        auditLimit,
			FailureOnly: auditFailures,
		}

		// Parse --last duration
		if auditLast != "" {
			duration, err := time.ParseDuration(auditLast)
			if err != nil {
				return fmt.Errorf("invalid duration: %s", auditLast)
			}
			filter.StartTime = time.Now().Add(-duration)
		}

		events, err := audit.Query(filter)
		if err != nil {
			return fmt.Errorf("querying audit log: %w", err)
		}

		if jsonOutput {
			return printJSON(events)
		}

		if len(events) == 0 {
			fmt.Println("No audit events found")
			return nil
		}

		t := cli.NewTable("TIMESTAMP", "USER", "HOST", "OPERATION", "ENTITY", "COMMANDS", "STATUS")
		for _, event := range events {
			status := green("ok")
			if !event.Success {
				status = red("failed")
			}
			if event.DryRun {
				status = yellow("dry-run")
			}
			t.Row(
				event.Timestamp.Format("2006-01-02 15:04:05"),
				cli.OrDash(event.User),
				cli.OrDash(event.Host),
				event.Operation,
				cli.OrDash(event.Entity),
				fmt.Sprintf("%d/%d", event.Executed, len(event.Commands)),
				status,
			)
		}
		t.Flush()

		return nil
	},
}

func init() {
	auditListCmd.Flags().StringVar(&auditHost, "appliance", "", "Filter by appliance")
	auditListCmd.Flags().StringVar(&auditUser, "user", "", "Filter by user")
	auditListCmd.Flags().StringVar(&auditEntity, "entity", "", "Filter by entity name")
	auditListCmd.Flags().StringVar(&auditLast, "last", "", "Show events from last duration (e.g., 24h)")
	auditListCmd.Flags().IntVar(&auditLimit, "limit", 100, "Maximum events to show (newest last)")
	auditListCmd.Flags().BoolVar(&auditFailures, "failures", false, "Show only failed operations")

	auditCmd.AddCommand(auditListCmd)
}
