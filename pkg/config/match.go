package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/peakflow-tools/spconf/pkg/util"
)

// MatchKind is the keyword following "match set" on a managed object line.
type MatchKind string

const (
	MatchASPath       MatchKind = "asregexp_uri"
	MatchCIDRBlocks   MatchKind = "cidr_blocks"
	MatchCIDRv6Blocks MatchKind = "cidr_v6_blocks"
	MatchPeerAS       MatchKind = "peer_as"
)

// MatchKinds lists every supported kind in serialization order.
var MatchKinds = []MatchKind{MatchASPath, MatchCIDRBlocks, MatchCIDRv6Blocks, MatchPeerAS}

// MatchRule is the traffic criterion of a managed object. It is a closed
// set: ASPath, CIDRBlocks, CIDRv6Blocks and PeerAS are the only implementations.
type MatchRule interface {
	Kind() MatchKind
	// Value renders the rule as it appears after "match set <kind> ".
	Value() string
	Equal(other MatchRule) bool
	isMatchRule()
}

// ASPath matches on an AS-path regular expression (stored decoded).
type ASPath struct {
	Pattern string `json:"pattern"`
}

// CIDRBlocks matches on a set of IPv4 prefixes.
type CIDRBlocks struct {
	Prefixes StringSet `json:"prefixes"`
}

// CIDRv6Blocks matches on a set of IPv6 prefixes.
type CIDRv6Blocks struct {
	Prefixes StringSet `json:"prefixes"`
}

// PeerAS matches on a peer AS expression, which may be a list or range.
type PeerAS struct {
	ASN string `json:"asn"`
}

func (ASPath) isMatchRule()       {}
func (CIDRBlocks) isMatchRule()   {}
func (CIDRv6Blocks) isMatchRule() {}
func (PeerAS) isMatchRule()       {}

func (ASPath) Kind() MatchKind       { return MatchASPath }
func (CIDRBlocks) Kind() MatchKind   { return MatchCIDRBlocks }
func (CIDRv6Blocks) Kind() MatchKind { return MatchCIDRv6Blocks }
func (PeerAS) Kind() MatchKind       { return MatchPeerAS }

func (r ASPath) Value() string {
	return url.PathEscape(r.Pattern)
}

func (r CIDRBlocks) Value() string {
	return util.Quote(strings.Join(r.Prefixes.Sorted(), ","))
}

func (r CIDRv6Blocks) Value() string {
	return util.Quote(strings.Join(r.Prefixes.Sorted(), ","))
}

func (r PeerAS) Value() string {
	return util.QuoteIfNeeded(r.ASN)
}

func (r ASPath) Equal(other MatchRule) bool {
	o, ok := other.(ASPath)
	return ok && o.Pattern == r.Pattern
}

func (r CIDRBlocks) Equal(other MatchRule) bool {
	o, ok := other.(CIDRBlocks)
	return ok && o.Prefixes.Equal(r.Prefixes)
}

func (r CIDRv6Blocks) Equal(other MatchRule) bool {
	o, ok := other.(CIDRv6Blocks)
	return ok && o.Prefixes.Equal(r.Prefixes)
}

func (r PeerAS) Equal(other MatchRule) bool {
	o, ok := other.(PeerAS)
	return ok && o.ASN == r.ASN
}

// matchBuilders maps each kind keyword to its constructor. Values arrive
// with surrounding quotes already stripped.
var matchBuilders = map[MatchKind]func(value string) (MatchRule, error){
	MatchASPath: func(value string) (MatchRule, error) {
		pattern, err := url.PathUnescape(value)
		if err != nil {
			return nil, fmt.Errorf("%w: as-path %q: %v", util.ErrFieldCoercion, value, err)
		}
		return ASPath{Pattern: pattern}, nil
	},
	MatchCIDRBlocks: func(value string) (MatchRule, error) {
		prefixes, err := prefixSet(value)
		if err != nil {
			return nil, err
		}
		return CIDRBlocks{Prefixes: prefixes}, nil
	},
	MatchCIDRv6Blocks: func(value string) (MatchRule, error) {
		prefixes, err := prefixSet(value)
		if err != nil {
			return nil, err
		}
		return CIDRv6Blocks{Prefixes: prefixes}, nil
	},
	MatchPeerAS: func(value string) (MatchRule, error) {
		return PeerAS{ASN: value}, nil
	},
}

// NewMatchRule builds the rule for a "match set <kind> <value>" line.
// Unknown kinds return an error wrapping util.ErrUnknownMatchKind.
func NewMatchRule(kind, value string) (MatchRule, error) {
	build, ok := matchBuilders[MatchKind(kind)]
	if !ok {
		return nil, fmt.Errorf("%w %q", util.ErrUnknownMatchKind, kind)
	}
	if value == "" {
		return nil, fmt.Errorf("%w: %s has no value", util.ErrFieldCoercion, kind)
	}
	return build(value)
}

// prefixSet splits a comma-separated prefix list into a deduplicated set.
// Prefixes are opaque strings; no CIDR validation is done.
func prefixSet(value string) (StringSet, error) {
	parts := util.SplitCommaSeparated(value)
	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: empty prefix list %q", util.ErrFieldCoercion, value)
	}
	return NewStringSet(parts...), nil
}

func matchEmpty(r MatchRule) bool {
	switch v := r.(type) {
	case ASPath:
		return v.Pattern == ""
	case CIDRBlocks:
		return v.Prefixes.Len() == 0
	case CIDRv6Blocks:
		return v.Prefixes.Len() == 0
	case PeerAS:
		return v.ASN == ""
	}
	return true
}

// matchRuleJSON is the tagged encoding of a MatchRule.
type matchRuleJSON struct {
	Kind     MatchKind `json:"kind"`
	Pattern  string    `json:"pattern,omitempty"`
	Prefixes []string  `json:"prefixes,omitempty"`
	ASN      string    `json:"asn,omitempty"`
}

func encodeMatchRule(r MatchRule) *matchRuleJSON {
	if r == nil {
		return nil
	}
	enc := &matchRuleJSON{Kind: r.Kind()}
	switch v := r.(type) {
	case ASPath:
		enc.Pattern = v.Pattern
	case CIDRBlocks:
		enc.Prefixes = v.Prefixes.Sorted()
	case CIDRv6Blocks:
		enc.Prefixes = v.Prefixes.Sorted()
	case PeerAS:
		enc.ASN = v.ASN
	}
	return enc
}
