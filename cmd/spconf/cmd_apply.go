package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/peakflow-tools/spconf/pkg/audit"
	"github.com/peakflow-tools/spconf/pkg/device"
	"github.com/peakflow-tools/spconf/pkg/spec"
	"github.com/peakflow-tools/spconf/pkg/util"
)

var applyCmd = &cobra.Command{
	Use:   "apply [file.yaml|dir]",
	Short: "Replay a desired-state file as CLI commands",
	Long: `Replay managed objects and interface rules from a desired-state YAML
file (or every .yaml file in a directory) as CLI commands. With no
argument the spec_dir setting is used.

Without -x the commands are printed only. With -x they are sent to the
appliance one by one, stopping at the first failure; -s writes the
configuration afterwards.

Examples:
  spconf apply desired.yaml
  spconf -H sp-leader apply desired.yaml -x
  spconf -H sp-leader apply specs/ -xs`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source := userSettings.GetSpecDir()
		if len(args) == 1 {
			source = args[0]
		}
		doc, err := loadDocument(source)
		if err != nil {
			return err
		}
		mos, rules, err := doc.Entities()
		if err != nil {
			return err
		}

		type batch struct {
			kind, name string
			commands   []string
		}
		var batches []batch
		for _, mo := range mos {
			cmds, err := mo.Commands()
			if err != nil {
				return fmt.Errorf("managed object %s: %w", mo.Name, err)
			}
			batches = append(batches, batch{"managed_object", mo.Name, cmds})
		}
		for _, r := range rules {
			cmds, err := r.Commands()
			if err != nil {
				return fmt.Errorf("interface rule %s: %w", r.Name, err)
			}
			batches = append(batches, batch{"interface_rule", r.Name, cmds})
		}

		if !executeMode {
			for _, b := range batches {
				fmt.Printf("# %s %s\n", b.kind, b.name)
				printCommands(b.commands)
			}
			for _, b := range batches {
				audit.Log(audit.NewEvent(username, hostName, audit.OperationApply).
					WithEntity(b.kind, b.name).
					WithSource(source).
					WithCommands(b.commands, 0).
					WithExecuteMode(false).
					WithSuccess())
			}
			printDryRunNotice()
			return nil
		}

		ctx := context.Background()
		s, err := connect(ctx)
		if err != nil {
			return err
		}
		defer s.Close()
		log := util.WithDevice(s.Host())

		for _, b := range batches {
			start := time.Now()
			n, err := device.Save(ctx, s, b.commands)
			event := audit.NewEvent(username, s.Host(), audit.OperationApply).
				WithEntity(b.kind, b.name).
				WithSource(source).
				WithCommands(b.commands, n).
				WithExecuteMode(true).
				WithDuration(time.Since(start))
			if err != nil {
				audit.Log(event.WithError(err))
				return fmt.Errorf("%s %s: %w", b.kind, b.name, err)
			}
			audit.Log(event.WithSuccess())
			log.Infof("applied %s %s (%d commands)", b.kind, b.name, n)
			fmt.Printf("%s %s %s\n", green("✓"), b.kind, b.name)
		}

		if saveMode {
			start := time.Now()
			err := device.Commit(ctx, s)
			event := audit.NewEvent(username, s.Host(), audit.OperationCommit).
				WithSource(source).
				WithExecuteMode(true).
				WithDuration(time.Since(start))
			if err != nil {
				audit.Log(event.WithError(err))
				return fmt.Errorf("writing configuration: %w", err)
			}
			audit.Log(event.WithSaved(true).WithSuccess())
			fmt.Println(green("Configuration written."))
		}
		return nil
	},
}

// loadDocument reads a single file or merges a directory of files.
func loadDocument(path string) (*spec.Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return spec.LoadDir(path)
	}
	return spec.LoadFile(path)
}
