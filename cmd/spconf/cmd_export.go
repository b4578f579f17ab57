package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/peakflow-tools/spconf/pkg/config"
)

var exportCmd = &cobra.Command{
	Use:   "export [mo|rules] [name]",
	Short: "Print the CLI commands that recreate entities",
	Long: `Print the CLI commands that recreate the parsed entities.

With no arguments every managed object and interface rule is exported.

Examples:
  spconf -H sp-leader export
  spconf -f dump.txt export mo
  spconf -f dump.txt export rules uplinks`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, name := "", ""
		if len(args) > 0 {
			kind = args[0]
			if kind != "mo" && kind != "rules" {
				return fmt.Errorf("unknown entity kind %q (want mo or rules)", kind)
			}
		}
		if len(args) > 1 {
			name = args[1]
		}

		d, err := loadDump(context.Background())
		if err != nil {
			return err
		}

		var mos []*config.ManagedObject
		var rules []*config.InterfaceRule
		switch {
		case kind == "mo" && name != "":
			mo := d.ManagedObject(name)
			if mo == nil {
				return fmt.Errorf("managed object %q not found", name)
			}
			mos = append(mos, mo)
		case kind == "rules" && name != "":
			r := d.InterfaceRule(name)
			if r == nil {
				return fmt.Errorf("interface rule %q not found", name)
			}
			rules = append(rules, r)
		default:
			if kind != "rules" {
				mos = d.ManagedObjects
			}
			if kind != "mo" {
				rules = config.SortByPrecedence(d.InterfaceRules)
			}
		}

		for _, mo := range mos {
			cmds, err := mo.Commands()
			if err != nil {
				return fmt.Errorf("managed object %s: %w", mo.Name, err)
			}
			printCommands(cmds)
		}
		for _, r := range rules {
			cmds, err := r.Commands()
			if err != nil {
				return fmt.Errorf("interface rule %s: %w", r.Name, err)
			}
			printCommands(cmds)
		}
		return nil
	},
}
