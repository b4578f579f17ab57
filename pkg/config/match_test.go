package config

import (
	"errors"
	"testing"

	"github.com/peakflow-tools/spconf/pkg/util"
)

func TestNewMatchRule(t *testing.T) {
	tests := []struct {
		name  string
		kind  string
		value string
		want  MatchRule
	}{
		{"as path decoded", "asregexp_uri", "%5E65001_", ASPath{Pattern: "^65001_"}},
		{"cidr dedup", "cidr_blocks", "10.0.0.0/8,10.0.0.0/8,192.168.0.0/16",
			CIDRBlocks{Prefixes: NewStringSet("10.0.0.0/8", "192.168.0.0/16")}},
		{"cidr v6", "cidr_v6_blocks", "2001:db8::/32", CIDRv6Blocks{Prefixes: NewStringSet("2001:db8::/32")}},
		{"peer as range kept verbatim", "peer_as", "65001-65010", PeerAS{ASN: "65001-65010"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewMatchRule(tt.kind, tt.value)
			if err != nil {
				t.Fatalf("NewMatchRule() error = %v", err)
			}
			if got.Kind() != MatchKind(tt.kind) {
				t.Errorf("Kind() = %q, want %q", got.Kind(), tt.kind)
			}
			if !got.Equal(tt.want) {
				t.Errorf("NewMatchRule() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestNewMatchRuleErrors(t *testing.T) {
	tests := []struct {
		name  string
		kind  string
		value string
		want  error
	}{
		{"unknown kind", "community", "65001:100", util.ErrUnknownMatchKind},
		{"empty value", "peer_as", "", util.ErrFieldCoercion},
		{"bad escape", "asregexp_uri", "%zz", util.ErrFieldCoercion},
		{"only commas", "cidr_blocks", ",,", util.ErrFieldCoercion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, err := NewMatchRule(tt.kind, tt.value)
			if rule != nil {
				t.Errorf("NewMatchRule() rule = %#v, want nil", rule)
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("NewMatchRule() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestMatchRuleValue(t *testing.T) {
	tests := []struct {
		rule MatchRule
		want string
	}{
		{ASPath{Pattern: "^65001 .*"}, "%5E65001%20.%2A"},
		{CIDRBlocks{Prefixes: NewStringSet("192.168.0.0/16", "10.0.0.0/8")}, `"10.0.0.0/8,192.168.0.0/16"`},
		{PeerAS{ASN: "65001"}, "65001"},
		{PeerAS{ASN: "65001 65002"}, `"65001 65002"`},
	}
	for _, tt := range tests {
		if got := tt.rule.Value(); got != tt.want {
			t.Errorf("%s Value() = %q, want %q", tt.rule.Kind(), got, tt.want)
		}
	}
}

func TestMatchRuleEqualAcrossKinds(t *testing.T) {
	v4 := CIDRBlocks{Prefixes: NewStringSet("10.0.0.0/8")}
	v6 := CIDRv6Blocks{Prefixes: NewStringSet("10.0.0.0/8")}
	if v4.Equal(v6) || v6.Equal(v4) {
		t.Error("rules of different kinds should not be equal")
	}
}
