package spec

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/peakflow-tools/spconf/pkg/config"
	"github.com/peakflow-tools/spconf/pkg/util"
)

// LoadFile reads and decodes a desired-state file. Unknown keys are
// rejected; an empty file is an empty document.
func LoadFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading spec %s: %w", path, err)
	}
	defer f.Close()

	var doc Document
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing spec %s: %w", path, err)
	}
	doc.Source = path
	return &doc, nil
}

// LoadDir reads every .yaml and .yml file in dir in name order and merges
// them into one document.
func LoadDir(dir string) (*Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading spec dir %s: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		ext := filepath.Ext(e.Name())
		if e.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	merged := &Document{Source: dir}
	for _, name := range names {
		doc, err := LoadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		merged.ManagedObjects = append(merged.ManagedObjects, doc.ManagedObjects...)
		merged.InterfaceRules = append(merged.InterfaceRules, doc.InterfaceRules...)
	}
	return merged, nil
}

// Entities validates the document and converts it into config entities
// ready for serialization. All problems are reported together.
func (d *Document) Entities() ([]*config.ManagedObject, []*config.InterfaceRule, error) {
	v := &util.ValidationBuilder{}

	seen := make(map[string]bool)
	mos := make([]*config.ManagedObject, 0, len(d.ManagedObjects))
	for i, s := range d.ManagedObjects {
		ref := entityRef("managed_objects", i, s.Name)
		v.Add(s.Name != "", ref+": name is required")
		v.Add(s.Name == "" || !seen[s.Name], ref+": duplicate name")
		seen[s.Name] = true

		mo := config.NewManagedObject(s.Name)
		mo.SetParent(s.Parent)
		mo.SetDescription(s.Description)
		mo.SetFamily(s.Family)
		for _, tag := range s.Tags {
			mo.AddTag(tag)
		}
		rule, err := s.Match.rule()
		if err != nil {
			v.AddErrorf("%s: %v", ref, err)
		}
		mo.SetMatch(rule)
		mos = append(mos, mo)
	}

	seen = make(map[string]bool)
	rules := make([]*config.InterfaceRule, 0, len(d.InterfaceRules))
	for i, s := range d.InterfaceRules {
		ref := entityRef("interface_rules", i, s.Name)
		v.Add(s.Name != "", ref+": name is required")
		v.Add(s.Name == "" || !seen[s.Name], ref+": duplicate name")
		seen[s.Name] = true

		r := config.NewInterfaceRule(s.Name)
		r.SetDescription(s.Description)
		r.Precedence = s.Precedence
		for _, router := range s.Routers {
			r.AddRouter(router)
		}
		r.SetInterfaceSubnet(s.Subnet)
		r.SetDescriptionRegex(s.DescriptionRegex)
		if s.ActionType != "" {
			r.EnableActionType(s.ActionType)
		}
		if s.PeerASN != nil {
			r.EnableActionASN(*s.PeerASN)
		}
		if a := s.ManagedObjects; a != nil {
			v.Add(validMOType(a.Type), fmt.Sprintf("%s: managed object type %q must be one of %s",
				ref, a.Type, strings.Join(config.ManagedObjectTypes, ", ")))
			r.SetManagedObjects(a.Type, a.Add...)
		}
		r.ActionHighThreshold = s.HighThreshold
		r.ActionLowThreshold = s.LowThreshold
		rules = append(rules, r)
	}

	if err := v.Build(); err != nil {
		return nil, nil, fmt.Errorf("%s: %w", d.Source, err)
	}
	return mos, rules, nil
}

// rule converts the single populated criterion into a MatchRule. An empty
// MatchSpec yields nil.
func (m MatchSpec) rule() (config.MatchRule, error) {
	var rules []config.MatchRule
	if m.ASPath != "" {
		rules = append(rules, config.ASPath{Pattern: m.ASPath})
	}
	if len(m.CIDRBlocks) > 0 {
		rules = append(rules, config.CIDRBlocks{Prefixes: config.NewStringSet(m.CIDRBlocks...)})
	}
	if len(m.CIDRv6Blocks) > 0 {
		rules = append(rules, config.CIDRv6Blocks{Prefixes: config.NewStringSet(m.CIDRv6Blocks...)})
	}
	if m.PeerAS != "" {
		rules = append(rules, config.PeerAS{ASN: m.PeerAS})
	}
	switch len(rules) {
	case 0:
		return nil, nil
	case 1:
		return rules[0], nil
	default:
		return nil, fmt.Errorf("match sets %d criteria, at most one is allowed", len(rules))
	}
}

func validMOType(t string) bool {
	for _, known := range config.ManagedObjectTypes {
		if t == known {
			return true
		}
	}
	return false
}

func entityRef(section string, i int, name string) string {
	if name == "" {
		return fmt.Sprintf("%s[%d]", section, i)
	}
	return fmt.Sprintf("%s[%d] %q", section, i, name)
}
