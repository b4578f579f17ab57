package config

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/peakflow-tools/spconf/pkg/util"
)

// ManagedObject is a traffic-classification target on the appliance.
// Empty strings mean the field is not set.
type ManagedObject struct {
	Name        string
	Parent      string
	Description string
	Family      string
	Tags        StringSet
	Match       MatchRule

	// ConfigLines holds the source lines this object was built from.
	ConfigLines []string
}

// NewManagedObject returns an empty object ready for the setters.
func NewManagedObject(name string) *ManagedObject {
	return &ManagedObject{Name: name, Tags: NewStringSet()}
}

func (mo *ManagedObject) SetParent(parent string)           { mo.Parent = parent }
func (mo *ManagedObject) SetDescription(description string) { mo.Description = description }
func (mo *ManagedObject) SetFamily(family string)           { mo.Family = family }
func (mo *ManagedObject) AddTag(tag string)                 { mo.Tags.Add(tag) }
func (mo *ManagedObject) RemoveTag(tag string)              { mo.Tags.Remove(tag) }

// SetMatch replaces any existing match rule; nil clears it.
func (mo *ManagedObject) SetMatch(rule MatchRule) {
	mo.Match = rule
}

// BuildManagedObject folds one entity's lines into a ManagedObject with last
// write wins per field. The returned errors are per-line problems; the object
// is still usable. Without an add line the object is nil and the only error
// wraps util.ErrMissingName.
func BuildManagedObject(lines []string) (*ManagedObject, []error) {
	classified, name, parent := classifyGroup(ManagedObjects, lines)
	if name == "" {
		return nil, []error{missingName(classified)}
	}

	mo := NewManagedObject(name)
	mo.Parent = parent

	var errs []error
	for _, cl := range classified {
		if cl.Entity != name {
			continue
		}
		mo.ConfigLines = append(mo.ConfigLines, cl.Line)
		if cl.Kind != LineField {
			continue
		}
		switch cl.Field {
		case FieldDescription:
			mo.Description = cl.Value
		case FieldFamily:
			mo.Family = cl.Value
		case FieldTag:
			mo.Tags.Add(cl.Value)
		case FieldMatch:
			rule, err := NewMatchRule(cl.Selector, cl.Value)
			mo.Match = rule
			if err != nil {
				errs = append(errs, util.NewLineError(name, string(FieldMatch), cl.Line, err))
			}
		}
	}
	if len(errs) > 0 {
		util.WithEntity(ManagedObjects.Kind(), name).Debugf("%d line(s) not applied", len(errs))
	}
	return mo, errs
}

// Commands returns the command sequence that recreates mo on a fresh
// configuration: add, tags, description, family, then match.
func (mo *ManagedObject) Commands() ([]string, error) {
	if err := mo.validate(); err != nil {
		return nil, err
	}

	g := ManagedObjects
	var cmds []string
	if mo.Parent != "" {
		cmds = append(cmds, fmt.Sprintf("%s add_with_parent %s", g.prefix, util.Quote(mo.Parent+"|"+mo.Name)))
	} else {
		cmds = append(cmds, g.addLine(mo.Name))
	}
	for _, tag := range mo.Tags.Sorted() {
		cmds = append(cmds, g.editLine(mo.Name, "tags add %s", util.Quote(tag)))
	}
	if mo.Description != "" {
		cmds = append(cmds, g.editLine(mo.Name, "description set %s", util.Quote(mo.Description)))
	}
	if mo.Family != "" {
		cmds = append(cmds, g.editLine(mo.Name, "family set %s", util.QuoteIfNeeded(mo.Family)))
	}
	if mo.Match != nil {
		cmds = append(cmds, g.editLine(mo.Name, "match set %s %s", mo.Match.Kind(), mo.Match.Value()))
	}
	return cmds, nil
}

func (mo *ManagedObject) validate() error {
	v := &util.ValidationBuilder{}
	v.Add(mo.Name != "", "managed object name is required")
	v.Add(!strings.ContainsAny(mo.Name, `"|`), fmt.Sprintf("managed object name %q must not contain '\"' or '|'", mo.Name))
	v.Add(!strings.Contains(mo.Parent, `"`), fmt.Sprintf("parent %q must not contain '\"'", mo.Parent))
	for _, tag := range mo.Tags.Sorted() {
		v.Add(tag != "" && !strings.Contains(tag, `"`), fmt.Sprintf("tag %q is not a valid quoted token", tag))
	}
	if mo.Match != nil {
		v.Add(!matchEmpty(mo.Match), fmt.Sprintf("%s match has no value", mo.Match.Kind()))
	}
	return v.Build()
}

// Equal compares field values; tag and prefix order and config lines are
// ignored.
func (mo *ManagedObject) Equal(other *ManagedObject) bool {
	if mo == nil || other == nil {
		return mo == other
	}
	if mo.Name != other.Name || mo.Parent != other.Parent ||
		mo.Description != other.Description || mo.Family != other.Family {
		return false
	}
	if !mo.Tags.Equal(other.Tags) {
		return false
	}
	if mo.Match == nil || other.Match == nil {
		return mo.Match == nil && other.Match == nil
	}
	return mo.Match.Equal(other.Match)
}

// MarshalJSON renders the object with a tagged match rule.
func (mo *ManagedObject) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name        string         `json:"name"`
		Parent      string         `json:"parent,omitempty"`
		Description string         `json:"description,omitempty"`
		Family      string         `json:"family,omitempty"`
		Tags        []string       `json:"tags"`
		Match       *matchRuleJSON `json:"match,omitempty"`
		ConfigLines []string       `json:"config_lines,omitempty"`
	}{
		Name:        mo.Name,
		Parent:      mo.Parent,
		Description: mo.Description,
		Family:      mo.Family,
		Tags:        mo.Tags.Sorted(),
		Match:       encodeMatchRule(mo.Match),
		ConfigLines: mo.ConfigLines,
	})
}

// classifyGroup classifies every line and returns the name and parent set by
// the first create line. Later create lines cannot rename the entity.
func classifyGroup(g *Grammar, lines []string) ([]ClassifiedLine, string, string) {
	classified := make([]ClassifiedLine, len(lines))
	var name, parent string
	for i, line := range lines {
		classified[i] = g.Classify(line)
		if name == "" && classified[i].Kind == LineCreate {
			name = classified[i].Entity
			parent = classified[i].Parent
		}
	}
	return classified, name, parent
}

func missingName(classified []ClassifiedLine) error {
	var ref string
	for _, cl := range classified {
		if cl.Entity != "" {
			ref = cl.Entity
			break
		}
	}
	return util.NewLineError(ref, "", "", util.ErrMissingName)
}
