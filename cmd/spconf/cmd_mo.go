package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/peakflow-tools/spconf/pkg/cli"
	"github.com/peakflow-tools/spconf/pkg/config"
)

var moCmd = &cobra.Command{
	Use:     "mo",
	Aliases: []string{"managed-objects"},
	Short:   "Show managed objects",
	Long: `Show managed objects parsed from the appliance configuration.

Examples:
  spconf -H sp-leader mo list
  spconf -f dump.txt mo show Cust1
  spconf --cached -H sp-leader mo list --json`,
}

var moListCmd = &cobra.Command{
	Use:   "list",
	Short: "List managed objects in configuration order",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := loadDump(context.Background())
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(d.ManagedObjects)
		}
		if len(d.ManagedObjects) == 0 {
			fmt.Println("No managed objects found")
			return nil
		}

		t := cli.NewTable("NAME", "PARENT", "FAMILY", "TAGS", "MATCH")
		for _, mo := range d.ManagedObjects {
			t.Row(mo.Name, cli.OrDash(mo.Parent), cli.OrDash(mo.Family),
				cli.OrDash(strings.Join(mo.Tags.Sorted(), ",")), describeMatch(mo.Match))
		}
		t.Flush()
		return nil
	},
}

var moShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show one managed object and its source lines",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := loadDump(context.Background())
		if err != nil {
			return err
		}
		mo := d.ManagedObject(args[0])
		if mo == nil {
			return fmt.Errorf("managed object %q not found", args[0])
		}
		if jsonOutput {
			return printJSON(mo)
		}

		fmt.Printf("Managed Object: %s\n", bold(mo.Name))
		fmt.Printf("  Parent:      %s\n", cli.OrDash(mo.Parent))
		fmt.Printf("  Description: %s\n", cli.OrDash(mo.Description))
		fmt.Printf("  Family:      %s\n", cli.OrDash(mo.Family))
		fmt.Printf("  Tags:        %s\n", cli.OrDash(strings.Join(mo.Tags.Sorted(), ", ")))
		fmt.Printf("  Match:       %s\n", describeMatch(mo.Match))
		printSourceLines(mo.ConfigLines, d.ErrorsFor(mo.Name))
		return nil
	},
}

func describeMatch(rule config.MatchRule) string {
	switch r := rule.(type) {
	case nil:
		return "-"
	case config.ASPath:
		return fmt.Sprintf("%s %s", r.Kind(), r.Pattern)
	case config.CIDRBlocks:
		return fmt.Sprintf("%s %s", r.Kind(), strings.Join(r.Prefixes.Sorted(), ","))
	case config.CIDRv6Blocks:
		return fmt.Sprintf("%s %s", r.Kind(), strings.Join(r.Prefixes.Sorted(), ","))
	default:
		return fmt.Sprintf("%s %s", rule.Kind(), rule.Value())
	}
}

func printSourceLines(lines []string, errs []error) {
	fmt.Printf("\n  Configuration (%d lines):\n", len(lines))
	for _, line := range lines {
		fmt.Printf("    %s\n", line)
	}
	if len(errs) > 0 {
		fmt.Println("\n  " + red("Problems:"))
		for _, err := range errs {
			fmt.Printf("    %v\n", err)
		}
	}
}

func init() {
	moCmd.AddCommand(moListCmd)
	moCmd.AddCommand(moShowCmd)
}
