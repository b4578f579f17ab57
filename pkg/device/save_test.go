package device

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/peakflow-tools/spconf/pkg/util"
)

// fakeExecutor records commands and fails on the ones listed in fail.
type fakeExecutor struct {
	ran    []string
	fail   map[string]error
	output map[string]string
}

func (f *fakeExecutor) Exec(ctx context.Context, cmd string) (string, error) {
	f.ran = append(f.ran, cmd)
	return f.output[cmd], f.fail[cmd]
}

func TestSave(t *testing.T) {
	t.Run("all succeed", func(t *testing.T) {
		ex := &fakeExecutor{}
		cmds := []string{"a", "b", "c"}
		n, err := Save(context.Background(), ex, cmds)
		if err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if n != 3 || !reflect.DeepEqual(ex.ran, cmds) {
			t.Errorf("Save() = %d, ran %q", n, ex.ran)
		}
	})

	t.Run("stops at transport failure", func(t *testing.T) {
		boom := errors.New("channel closed")
		ex := &fakeExecutor{fail: map[string]error{"b": boom}}
		n, err := Save(context.Background(), ex, []string{"a", "b", "c"})
		if n != 1 {
			t.Errorf("Save() = %d, want 1", n)
		}
		if !reflect.DeepEqual(ex.ran, []string{"a", "b"}) {
			t.Errorf("ran %q, want [a b]", ex.ran)
		}
		var ce *util.CommandError
		if !errors.As(err, &ce) {
			t.Fatalf("error = %v, want CommandError", err)
		}
		if ce.Index != 1 || ce.Command != "b" || ce.Cause() != boom {
			t.Errorf("CommandError = %+v", ce)
		}
		if !errors.Is(err, util.ErrCommandFailed) {
			t.Error("error should wrap ErrCommandFailed")
		}
	})

	t.Run("stops at rejected output", func(t *testing.T) {
		ex := &fakeExecutor{output: map[string]string{"b": "\nError: unknown managed object\n"}}
		n, err := Save(context.Background(), ex, []string{"a", "b", "c"})
		if n != 1 || err == nil {
			t.Fatalf("Save() = %d, %v; want 1 and an error", n, err)
		}
		if !strings.Contains(err.Error(), "unknown managed object") {
			t.Errorf("error %q should carry the device message", err)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		ex := &fakeExecutor{}
		n, err := Save(ctx, ex, []string{"a"})
		if n != 0 || !errors.Is(err, context.Canceled) || len(ex.ran) != 0 {
			t.Errorf("Save() = %d, %v, ran %q", n, err, ex.ran)
		}
	})

	t.Run("empty", func(t *testing.T) {
		n, err := Save(context.Background(), &fakeExecutor{}, nil)
		if n != 0 || err != nil {
			t.Errorf("Save(nil) = %d, %v", n, err)
		}
	})
}

func TestCommit(t *testing.T) {
	ex := &fakeExecutor{}
	if err := Commit(context.Background(), ex); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	if !reflect.DeepEqual(ex.ran, []string{WriteConfigCommand}) {
		t.Errorf("ran %q, want [%s]", ex.ran, WriteConfigCommand)
	}

	ex = &fakeExecutor{output: map[string]string{WriteConfigCommand: "error: disk full"}}
	if err := Commit(context.Background(), ex); !errors.Is(err, util.ErrCommandFailed) {
		t.Errorf("Commit() error = %v, want ErrCommandFailed", err)
	}
}

func TestOutputError(t *testing.T) {
	tests := []struct {
		out     string
		wantErr bool
	}{
		{"", false},
		{"Configuration saved.\n", false},
		{"Error: bad value", true},
		{"ok\n  ERROR invalid\n", true},
	}
	for _, tt := range tests {
		if err := outputError(tt.out); (err != nil) != tt.wantErr {
			t.Errorf("outputError(%q) = %v, wantErr %v", tt.out, err, tt.wantErr)
		}
	}
}

func TestSessionNotConnected(t *testing.T) {
	s := &Session{host: "sp1"}
	if _, err := s.Exec(context.Background(), "config show"); !errors.Is(err, util.ErrNotConnected) {
		t.Errorf("Exec() error = %v, want ErrNotConnected", err)
	}
	if _, err := s.FetchConfig(context.Background()); !errors.Is(err, util.ErrNotConnected) {
		t.Errorf("FetchConfig() error = %v, want ErrNotConnected", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	var _ Executor = s
}

func TestDialRequiresHost(t *testing.T) {
	if _, err := Dial(context.Background(), Options{}); err == nil {
		t.Error("Dial() without host should fail")
	}
}
