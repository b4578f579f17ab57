// Package spec loads desired-state YAML files describing managed objects
// and interface rules.
package spec

// Document is one desired-state file.
type Document struct {
	ManagedObjects []ManagedObjectSpec `yaml:"managed_objects"`
	InterfaceRules []InterfaceRuleSpec `yaml:"interface_rules"`

	// Source is the file the document was read from.
	Source string `yaml:"-"`
}

// ManagedObjectSpec describes one managed object.
type ManagedObjectSpec struct {
	Name        string    `yaml:"name"`
	Parent      string    `yaml:"parent,omitempty"`
	Description string    `yaml:"description,omitempty"`
	Family      string    `yaml:"family,omitempty"`
	Tags        []string  `yaml:"tags,omitempty"`
	Match       MatchSpec `yaml:"match,omitempty"`
}

// MatchSpec holds at most one match criterion.
type MatchSpec struct {
	ASPath       string   `yaml:"as_path,omitempty"`
	CIDRBlocks   []string `yaml:"cidr_blocks,omitempty"`
	CIDRv6Blocks []string `yaml:"cidr_v6_blocks,omitempty"`
	PeerAS       string   `yaml:"peer_as,omitempty"`
}

// InterfaceRuleSpec describes one interface auto-configuration rule. An
// empty ActionType or nil PeerASN leaves that action disabled.
type InterfaceRuleSpec struct {
	Name             string               `yaml:"name"`
	Description      string               `yaml:"description,omitempty"`
	Precedence       *int                 `yaml:"precedence,omitempty"`
	Routers          []string             `yaml:"routers,omitempty"`
	Subnet           string               `yaml:"subnet,omitempty"`
	DescriptionRegex string               `yaml:"description_regex,omitempty"`
	ActionType       string               `yaml:"action_type,omitempty"`
	PeerASN          *int                 `yaml:"peer_asn,omitempty"`
	ManagedObjects   *ManagedObjectAction `yaml:"managed_objects,omitempty"`
	HighThreshold    *float64             `yaml:"high_threshold,omitempty"`
	LowThreshold     *float64             `yaml:"low_threshold,omitempty"`
}

// ManagedObjectAction assigns interfaces matching a rule to managed objects.
type ManagedObjectAction struct {
	Type string   `yaml:"type"`
	Add  []string `yaml:"add,omitempty"`
}
