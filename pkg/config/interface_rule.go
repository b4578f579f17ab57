package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/peakflow-tools/spconf/pkg/util"
)

// Managed object types an interface rule can assign.
const (
	MOTypeSimple   = "simple"
	MOTypeBackbone = "backbone"
	MOTypeFacing   = "managed-object-facing"
)

// ManagedObjectTypes lists the accepted action_managed_object_type values.
var ManagedObjectTypes = []string{MOTypeSimple, MOTypeBackbone, MOTypeFacing}

// InterfaceRule is an auto-configuration rule that classifies router
// interfaces. Empty strings and nil pointers mean the field is not set.
type InterfaceRule struct {
	Name        string
	Description string
	Precedence  *int

	MatchRouters                   []string
	MatchInterfaceSubnet           string
	MatchInterfaceDescriptionRegex string

	ActionTypeEnabled       bool
	ActionSetType           string
	ActionASNEnabled        bool
	ActionSetASN            *int
	ActionManagedObjectType string
	ActionManagedObjects    []string
	ActionHighThreshold     *float64
	ActionLowThreshold      *float64

	ConfigLines []string
}

// NewInterfaceRule returns an empty rule ready for the setters.
func NewInterfaceRule(name string) *InterfaceRule {
	return &InterfaceRule{Name: name}
}

func (r *InterfaceRule) SetDescription(description string) { r.Description = description }
func (r *InterfaceRule) SetPrecedence(precedence int)      { r.Precedence = &precedence }
func (r *InterfaceRule) AddRouter(router string)           { r.MatchRouters = append(r.MatchRouters, router) }
func (r *InterfaceRule) SetInterfaceSubnet(subnet string)  { r.MatchInterfaceSubnet = subnet }
func (r *InterfaceRule) SetDescriptionRegex(regex string)  { r.MatchInterfaceDescriptionRegex = regex }
func (r *InterfaceRule) SetHighThreshold(v float64)        { r.ActionHighThreshold = &v }
func (r *InterfaceRule) SetLowThreshold(v float64)         { r.ActionLowThreshold = &v }

// EnableActionType turns on the type action with the given interface type.
func (r *InterfaceRule) EnableActionType(setType string) {
	r.ActionTypeEnabled = true
	r.ActionSetType = setType
}

// DisableActionType turns off the type action. The stored type is kept but
// never serialized while disabled.
func (r *InterfaceRule) DisableActionType() {
	r.ActionTypeEnabled = false
}

// EnableActionASN turns on the peer ASN action.
func (r *InterfaceRule) EnableActionASN(asn int) {
	r.ActionASNEnabled = true
	r.ActionSetASN = &asn
}

// DisableActionASN turns off the peer ASN action.
func (r *InterfaceRule) DisableActionASN() {
	r.ActionASNEnabled = false
}

// SetManagedObjects assigns the managed-object action. An empty moType and
// no targets disables it.
func (r *InterfaceRule) SetManagedObjects(moType string, targets ...string) {
	r.ActionManagedObjectType = moType
	r.ActionManagedObjects = append([]string(nil), targets...)
}

// ManagedObjectsEnabled reports whether the managed-object action is active.
func (r *InterfaceRule) ManagedObjectsEnabled() bool {
	return r.ActionManagedObjectType != "" || len(r.ActionManagedObjects) > 0
}

// BuildInterfaceRule folds one entity's lines into an InterfaceRule. Error
// semantics match BuildManagedObject: numeric fields that fail to convert
// stay unset and are reported, the line is kept.
func BuildInterfaceRule(lines []string) (*InterfaceRule, []error) {
	classified, name, _ := classifyGroup(InterfaceRules, lines)
	if name == "" {
		return nil, []error{missingName(classified)}
	}

	r := NewInterfaceRule(name)
	var errs []error
	fail := func(cl ClassifiedLine, err error) {
		errs = append(errs, util.NewLineError(name, string(cl.Field), cl.Line, err))
	}

	for _, cl := range classified {
		if cl.Entity != name {
			continue
		}
		r.ConfigLines = append(r.ConfigLines, cl.Line)
		if cl.Kind != LineField {
			continue
		}
		switch cl.Field {
		case FieldPrecedence:
			n, err := parseInt(cl.Value)
			if err != nil {
				fail(cl, err)
				continue
			}
			r.Precedence = &n
		case FieldDescription:
			r.Description = cl.Value
		case FieldRegexpURI:
			regex, err := url.PathUnescape(cl.Value)
			if err != nil {
				fail(cl, fmt.Errorf("%w: %v", util.ErrFieldCoercion, err))
				continue
			}
			r.MatchInterfaceDescriptionRegex = regex
		case FieldActionType:
			r.ActionTypeEnabled = cl.Value == "enable"
		case FieldSetType:
			r.ActionSetType = cl.Value
		case FieldActionASNs:
			r.ActionASNEnabled = cl.Value == "enable"
		case FieldPeers:
			n, err := parseInt(cl.Value)
			if err != nil {
				fail(cl, err)
				continue
			}
			r.ActionSetASN = &n
		case FieldMOType:
			r.ActionManagedObjectType = cl.Value
		case FieldMOAdd:
			r.ActionManagedObjects = append(r.ActionManagedObjects, cl.Value)
		case FieldMOClear:
			r.ActionManagedObjectType = ""
			r.ActionManagedObjects = nil
		case FieldMOState:
			if cl.Value == "disable" {
				r.ActionManagedObjectType = ""
				r.ActionManagedObjects = nil
			}
		case FieldRouter:
			r.MatchRouters = append(r.MatchRouters, cl.Value)
		case FieldSubnet:
			r.MatchInterfaceSubnet = cl.Value
		case FieldHighThreshold:
			v, err := parseFloat(cl.Value)
			if err != nil {
				fail(cl, err)
				continue
			}
			r.ActionHighThreshold = &v
		case FieldLowThreshold:
			v, err := parseFloat(cl.Value)
			if err != nil {
				fail(cl, err)
				continue
			}
			r.ActionLowThreshold = &v
		}
	}
	if len(errs) > 0 {
		util.WithEntity(InterfaceRules.Kind(), name).Debugf("%d line(s) not applied", len(errs))
	}
	return r, errs
}

// Commands returns the command sequence that recreates r. Order: add,
// description, precedence, action type, action asns, managed objects,
// thresholds, routers, subnet, then the description regex.
func (r *InterfaceRule) Commands() ([]string, error) {
	if err := r.validate(); err != nil {
		return nil, err
	}

	g := InterfaceRules
	edit := func(format string, args ...interface{}) string {
		return g.editLine(r.Name, format, args...)
	}

	cmds := []string{g.addLine(r.Name)}
	if r.Description != "" {
		cmds = append(cmds, edit("description set %s", util.Quote(r.Description)))
	}
	if r.Precedence != nil {
		cmds = append(cmds, edit("precedence set %d", *r.Precedence))
	}

	if r.ActionTypeEnabled {
		cmds = append(cmds, edit("action type enable"))
		if r.ActionSetType != "" {
			cmds = append(cmds, edit("type set %s", util.QuoteIfNeeded(r.ActionSetType)))
		}
	} else {
		cmds = append(cmds, edit("action type disable"))
	}

	if r.ActionASNEnabled {
		cmds = append(cmds, edit("action asns enable"))
		if r.ActionSetASN != nil {
			cmds = append(cmds, edit("peers set %d", *r.ActionSetASN))
		}
	} else {
		cmds = append(cmds, edit("action asns disable"))
	}

	if r.ManagedObjectsEnabled() {
		cmds = append(cmds, edit("managed_objects enable"))
		if r.ActionManagedObjectType != "" {
			cmds = append(cmds, edit("managed_objects type set %s", r.ActionManagedObjectType))
		}
		for _, mo := range r.ActionManagedObjects {
			cmds = append(cmds, edit("managed_objects add %s", util.Quote(mo)))
		}
	} else {
		cmds = append(cmds, edit("managed_objects clear"))
	}

	if r.ActionHighThreshold != nil {
		cmds = append(cmds, edit("threshold high set %s", formatFloat(*r.ActionHighThreshold)))
	}
	if r.ActionLowThreshold != nil {
		cmds = append(cmds, edit("threshold low set %s", formatFloat(*r.ActionLowThreshold)))
	}
	for _, router := range r.MatchRouters {
		cmds = append(cmds, edit("routers add %s", util.Quote(router)))
	}
	if r.MatchInterfaceSubnet != "" {
		cmds = append(cmds, edit("subnet set %s", r.MatchInterfaceSubnet))
	}
	if r.MatchInterfaceDescriptionRegex != "" {
		cmds = append(cmds, edit("regexp_uri set %s", url.PathEscape(r.MatchInterfaceDescriptionRegex)))
	}
	return cmds, nil
}

func (r *InterfaceRule) validate() error {
	v := &util.ValidationBuilder{}
	v.Add(r.Name != "", "interface rule name is required")
	v.Add(!strings.ContainsAny(r.Name, `"|`), fmt.Sprintf("interface rule name %q must not contain '\"' or '|'", r.Name))
	v.Add(!strings.ContainsAny(r.ActionManagedObjectType, " \t\""), fmt.Sprintf("managed object type %q is not a single token", r.ActionManagedObjectType))
	v.Add(!strings.ContainsAny(r.MatchInterfaceSubnet, " \t\""), fmt.Sprintf("subnet %q is not a single token", r.MatchInterfaceSubnet))
	for _, mo := range r.ActionManagedObjects {
		v.Add(mo != "" && !strings.Contains(mo, `"`), fmt.Sprintf("managed object %q is not a valid quoted token", mo))
	}
	for _, router := range r.MatchRouters {
		v.Add(router != "" && !strings.Contains(router, `"`), fmt.Sprintf("router %q is not a valid quoted token", router))
	}
	return v.Build()
}

// Equal compares field values. The stored type and peer ASN of a disabled
// action are ignored since they are never serialized.
func (r *InterfaceRule) Equal(other *InterfaceRule) bool {
	if r == nil || other == nil {
		return r == other
	}
	switch {
	case r.Name != other.Name,
		r.Description != other.Description,
		!intPtrEqual(r.Precedence, other.Precedence),
		!stringsEqual(r.MatchRouters, other.MatchRouters),
		r.MatchInterfaceSubnet != other.MatchInterfaceSubnet,
		r.MatchInterfaceDescriptionRegex != other.MatchInterfaceDescriptionRegex,
		r.ActionTypeEnabled != other.ActionTypeEnabled,
		r.ActionASNEnabled != other.ActionASNEnabled,
		r.ActionManagedObjectType != other.ActionManagedObjectType,
		!stringsEqual(r.ActionManagedObjects, other.ActionManagedObjects),
		!floatPtrEqual(r.ActionHighThreshold, other.ActionHighThreshold),
		!floatPtrEqual(r.ActionLowThreshold, other.ActionLowThreshold):
		return false
	}
	if r.ActionTypeEnabled && r.ActionSetType != other.ActionSetType {
		return false
	}
	if r.ActionASNEnabled && !intPtrEqual(r.ActionSetASN, other.ActionSetASN) {
		return false
	}
	return true
}

// MarshalJSON renders the rule with snake_case keys.
func (r *InterfaceRule) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name                           string   `json:"name"`
		Description                    string   `json:"description,omitempty"`
		Precedence                     *int     `json:"precedence,omitempty"`
		MatchRouters                   []string `json:"match_routers,omitempty"`
		MatchInterfaceSubnet           string   `json:"match_interface_subnet,omitempty"`
		MatchInterfaceDescriptionRegex string   `json:"match_interface_description_regex,omitempty"`
		ActionTypeEnabled              bool     `json:"action_type_enabled"`
		ActionSetType                  string   `json:"action_set_type,omitempty"`
		ActionASNEnabled               bool     `json:"action_asn_enabled"`
		ActionSetASN                   *int     `json:"action_set_asn,omitempty"`
		ActionManagedObjectType        string   `json:"action_managed_object_type,omitempty"`
		ActionManagedObjects           []string `json:"action_managed_objects,omitempty"`
		ActionHighThreshold            *float64 `json:"action_high_threshold,omitempty"`
		ActionLowThreshold             *float64 `json:"action_low_threshold,omitempty"`
		ConfigLines                    []string `json:"config_lines,omitempty"`
	}{
		Name:                           r.Name,
		Description:                    r.Description,
		Precedence:                     r.Precedence,
		MatchRouters:                   r.MatchRouters,
		MatchInterfaceSubnet:           r.MatchInterfaceSubnet,
		MatchInterfaceDescriptionRegex: r.MatchInterfaceDescriptionRegex,
		ActionTypeEnabled:              r.ActionTypeEnabled,
		ActionSetType:                  r.ActionSetType,
		ActionASNEnabled:               r.ActionASNEnabled,
		ActionSetASN:                   r.ActionSetASN,
		ActionManagedObjectType:        r.ActionManagedObjectType,
		ActionManagedObjects:           r.ActionManagedObjects,
		ActionHighThreshold:            r.ActionHighThreshold,
		ActionLowThreshold:             r.ActionLowThreshold,
		ConfigLines:                    r.ConfigLines,
	})
}

// SortByPrecedence returns a copy of rules ordered by precedence, lowest
// first. Rules without precedence go last; ties keep input order.
func SortByPrecedence(rules []*InterfaceRule) []*InterfaceRule {
	sorted := append([]*InterfaceRule(nil), rules...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Precedence, sorted[j].Precedence
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a < *b
		}
	})
	return sorted
}

func parseInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an integer", util.ErrFieldCoercion, s)
	}
	return n, nil
}

func parseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", util.ErrFieldCoercion, s)
	}
	return v, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func floatPtrEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func stringsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
