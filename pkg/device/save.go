package device

import (
	"bufio"
	"context"
	"errors"
	"strings"

	"github.com/peakflow-tools/spconf/pkg/util"
)

// Executor runs one appliance command. *Session implements it.
type Executor interface {
	Exec(ctx context.Context, cmd string) (string, error)
}

// Save runs commands in order and stops at the first failure. It returns the
// number of commands that succeeded. A failure is reported as a
// *util.CommandError; a command whose output carries an error line counts
// as failed even when the transport succeeded.
func Save(ctx context.Context, ex Executor, commands []string) (int, error) {
	for i, cmd := range commands {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		out, err := ex.Exec(ctx, cmd)
		if err == nil {
			err = outputError(out)
		}
		if err != nil {
			return i, &util.CommandError{Index: i, Command: cmd, Output: out, Err: err}
		}
		util.WithField("command", cmd).Debugf("executed %d/%d", i+1, len(commands))
	}
	return len(commands), nil
}

// Commit writes the running configuration.
func Commit(ctx context.Context, ex Executor) error {
	out, err := ex.Exec(ctx, WriteConfigCommand)
	if err == nil {
		err = outputError(out)
	}
	if err != nil {
		return &util.CommandError{Command: WriteConfigCommand, Output: out, Err: err}
	}
	return nil
}

// outputError detects the "Error: ..." lines the appliance CLI prints for
// a rejected command.
func outputError(out string) error {
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if strings.HasPrefix(strings.ToLower(line), "error") {
			return errors.New(line)
		}
	}
	return nil
}
