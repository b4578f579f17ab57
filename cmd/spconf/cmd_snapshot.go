package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/peakflow-tools/spconf/pkg/audit"
	"github.com/peakflow-tools/spconf/pkg/cli"
	"github.com/peakflow-tools/spconf/pkg/snapshot"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Cache configuration dumps in Redis",
	Long: `Fetch the appliance configuration once and cache it in Redis, so
query commands can run against it with --cached.

Examples:
  spconf -H sp-leader snapshot fetch
  spconf snapshot list
  spconf -H sp-leader --cached mo list
  spconf snapshot delete sp-leader`,
}

var snapshotFetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch and cache the configuration of the selected appliance",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		start := time.Now()

		s, err := connect(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		event := audit.NewEvent(username, s.Host(), audit.OperationSnapshot).WithExecuteMode(true)
		var snap *snapshot.Snapshot
		dump, err := s.FetchConfig(ctx)
		if err == nil {
			snap = snapshot.New(s.Host(), dump)
			err = putSnapshot(ctx, snap)
		}
		event.WithDuration(time.Since(start))
		if err != nil {
			audit.Log(event.WithError(err))
			return err
		}
		audit.Log(event.WithSuccess())

		fmt.Printf("%s cached %d lines from %s\n", green("✓"), snap.Lines, s.Host())
		return nil
	},
}

func putSnapshot(ctx context.Context, snap *snapshot.Snapshot) error {
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.Put(ctx, snap)
}

var snapshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached snapshots",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		hosts, err := store.List(ctx)
		if err != nil {
			return err
		}
		var snaps []*snapshot.Snapshot
		for _, host := range hosts {
			snap, err := store.Get(ctx, host)
			if err != nil {
				return err
			}
			snaps = append(snaps, snap)
		}

		if jsonOutput {
			type entry struct {
				Host      string    `json:"host"`
				FetchedAt time.Time `json:"fetched_at"`
				Lines     int       `json:"lines"`
			}
			out := make([]entry, 0, len(snaps))
			for _, snap := range snaps {
				out = append(out, entry{snap.Host, snap.FetchedAt, snap.Lines})
			}
			return printJSON(out)
		}
		if len(snaps) == 0 {
			fmt.Println("No snapshots cached")
			return nil
		}

		t := cli.NewTable("HOST", "FETCHED", "AGE", "LINES")
		for _, snap := range snaps {
			t.Row(snap.Host, snap.FetchedAt.Local().Format("2006-01-02 15:04:05"),
				snap.Age().Truncate(time.Second).String(), fmt.Sprintf("%d", snap.Lines))
		}
		t.Flush()
		return nil
	},
}

var snapshotShowCmd = &cobra.Command{
	Use:   "show [host]",
	Short: "Print a cached configuration dump",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		host, err := hostArg(args)
		if err != nil {
			return err
		}
		ctx := context.Background()
		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		snap, err := store.Get(ctx, host)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(snap)
		}
		fmt.Print(snap.Dump)
		return nil
	},
}

var snapshotDeleteCmd = &cobra.Command{
	Use:   "delete [host]",
	Short: "Remove a cached snapshot",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		host, err := hostArg(args)
		if err != nil {
			return err
		}
		ctx := context.Background()
		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Delete(ctx, host); err != nil {
			return err
		}
		fmt.Printf("Deleted snapshot for %s\n", host)
		return nil
	},
}

// hostArg prefers an explicit argument over -H.
func hostArg(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	return requireHost()
}

func init() {
	snapshotCmd.AddCommand(snapshotFetchCmd)
	snapshotCmd.AddCommand(snapshotListCmd)
	snapshotCmd.AddCommand(snapshotShowCmd)
	snapshotCmd.AddCommand(snapshotDeleteCmd)
}
