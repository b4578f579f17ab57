package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/peakflow-tools/spconf/pkg/cli"
	"github.com/peakflow-tools/spconf/pkg/config"
)

var rulesDetail bool

var rulesCmd = &cobra.Command{
	Use:     "rules",
	Aliases: []string{"interface-rules"},
	Short:   "Show interface auto-configuration rules",
	Long: `Show interface auto-configuration rules, lowest precedence first.

Examples:
  spconf -H sp-leader rules list
  spconf -f dump.txt rules list --detail
  spconf -H sp-leader rules show uplinks`,
}

var rulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List interface rules in precedence order",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := loadDump(context.Background())
		if err != nil {
			return err
		}
		rules := config.SortByPrecedence(d.InterfaceRules)
		if jsonOutput {
			return printJSON(rules)
		}
		if len(rules) == 0 {
			fmt.Println("No interface rules found")
			return nil
		}

		if rulesDetail {
			for _, r := range rules {
				printRuleDetail(r)
			}
			return nil
		}

		t := cli.NewTable("PRECEDENCE", "NAME", "TYPE", "ASN", "MANAGED OBJECTS")
		for _, r := range rules {
			t.Row(formatPrecedence(r.Precedence), r.Name, actionType(r), actionASN(r),
				cli.OrDash(strings.Join(r.ActionManagedObjects, ",")))
		}
		t.Flush()
		return nil
	},
}

var rulesShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show one interface rule and its source lines",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := loadDump(context.Background())
		if err != nil {
			return err
		}
		r := d.InterfaceRule(args[0])
		if r == nil {
			return fmt.Errorf("interface rule %q not found", args[0])
		}
		if jsonOutput {
			return printJSON(r)
		}
		printRuleDetail(r)
		printSourceLines(r.ConfigLines, d.ErrorsFor(r.Name))
		return nil
	},
}

func printRuleDetail(r *config.InterfaceRule) {
	fmt.Println()
	fmt.Println(bold("-- "+r.Name+" ") + strings.Repeat("-", max(0, 72-len(r.Name))))
	if r.Description != "" {
		fmt.Println(r.Description)
	}
	fmt.Printf("  Precedence: %s\n", formatPrecedence(r.Precedence))
	fmt.Println("  -- Match --")
	fmt.Printf("     %s: %s\n", cli.DotPad("Routers", 12), cli.OrDash(strings.Join(r.MatchRouters, ", ")))
	fmt.Printf("     %s: %s\n", cli.DotPad("IF Subnet", 12), cli.OrDash(r.MatchInterfaceSubnet))
	fmt.Printf("     %s: %s\n", cli.DotPad("IF Descr", 12), cli.OrDash(r.MatchInterfaceDescriptionRegex))
	fmt.Println("  -- Actions --")
	fmt.Printf("     %s: %s (%s)\n", cli.DotPad("Type", 12), cli.OrDash(r.ActionSetType), cli.OnOff(r.ActionTypeEnabled))
	fmt.Printf("     %s: %s (%s)\n", cli.DotPad("ASNs", 12), formatPrecedence(r.ActionSetASN), cli.OnOff(r.ActionASNEnabled))
	fmt.Printf("     %s: %s %s\n", cli.DotPad("MOs", 12), cli.OrDash(r.ActionManagedObjectType),
		strings.Join(r.ActionManagedObjects, ", "))
	fmt.Printf("     %s: %s / %s\n", cli.DotPad("Thresholds", 12),
		formatFloat(r.ActionHighThreshold), formatFloat(r.ActionLowThreshold))
}

func actionType(r *config.InterfaceRule) string {
	if !r.ActionTypeEnabled {
		return "-"
	}
	return cli.OrDash(r.ActionSetType)
}

func actionASN(r *config.InterfaceRule) string {
	if !r.ActionASNEnabled {
		return "-"
	}
	return formatPrecedence(r.ActionSetASN)
}

// formatPrecedence renders an optional integer.
func formatPrecedence(n *int) string {
	if n == nil {
		return "-"
	}
	return strconv.Itoa(*n)
}

func formatFloat(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func init() {
	rulesListCmd.Flags().BoolVar(&rulesDetail, "detail", false, "Show every rule in full")

	rulesCmd.AddCommand(rulesListCmd)
	rulesCmd.AddCommand(rulesShowCmd)
}
