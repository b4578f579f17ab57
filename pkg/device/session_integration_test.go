//go:build integration

package device_test

import (
	"testing"

	"github.com/peakflow-tools/spconf/internal/testutil"
	"github.com/peakflow-tools/spconf/pkg/config"
	"github.com/peakflow-tools/spconf/pkg/device"
)

func TestFetchConfig(t *testing.T) {
	host, user, password := testutil.ApplianceEnv(t)
	ctx := testutil.Context(t)

	s, err := device.Dial(ctx, device.Options{Host: host, Username: user, Password: password})
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer s.Close()

	dump, err := s.FetchConfig(ctx)
	if err != nil {
		t.Fatalf("FetchConfig failed: %v", err)
	}
	d := config.Parse(dump)
	t.Logf("%s: %d managed objects, %d interface rules, %d errors",
		host, len(d.ManagedObjects), len(d.InterfaceRules), len(d.Errors))
}

func TestCloseTwice(t *testing.T) {
	host, user, password := testutil.ApplianceEnv(t)
	ctx := testutil.Context(t)

	s, err := device.Dial(ctx, device.Options{Host: host, Username: user, Password: password})
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("first Close failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
}
