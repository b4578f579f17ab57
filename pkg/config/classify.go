// Package config maps the appliance's flat CLI configuration dump to typed
// managed objects and interface rules, and serializes them back to commands.
package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/peakflow-tools/spconf/pkg/util"
)

// LineKind classifies a single configuration line.
type LineKind int

const (
	LineUnrecognized LineKind = iota // no known command shape
	LineCreate                       // ... add "NAME" / add_with_parent "P|NAME"
	LineField                        // ... edit "NAME" <field> <value>
)

func (k LineKind) String() string {
	switch k {
	case LineCreate:
		return "create"
	case LineField:
		return "field"
	default:
		return "unrecognized"
	}
}

// FieldID names the entity field a classified line assigns.
type FieldID string

// Managed object fields
const (
	FieldDescription FieldID = "description"
	FieldFamily      FieldID = "family"
	FieldTag         FieldID = "tags"
	FieldMatch       FieldID = "match"
)

// Interface rule fields
const (
	FieldPrecedence    FieldID = "precedence"
	FieldRegexpURI     FieldID = "regexp_uri"
	FieldActionType    FieldID = "action type"
	FieldSetType       FieldID = "type"
	FieldActionASNs    FieldID = "action asns"
	FieldPeers         FieldID = "peers"
	FieldMOType        FieldID = "managed_objects type"
	FieldMOAdd         FieldID = "managed_objects add"
	FieldMOState       FieldID = "managed_objects state"
	FieldMOClear       FieldID = "managed_objects clear"
	FieldRouter        FieldID = "routers"
	FieldSubnet        FieldID = "subnet"
	FieldHighThreshold FieldID = "threshold high"
	FieldLowThreshold  FieldID = "threshold low"
)

// ClassifiedLine is the lexical reading of one configuration line.
//
// Entity is the normalized entity name (last "|" segment) and is set for
// Unrecognized lines too whenever the "add"/"edit" prefix matched.
type ClassifiedLine struct {
	Kind     LineKind
	Entity   string
	Parent   string  // add_with_parent only
	Field    FieldID // LineField only
	Selector string  // match kind for FieldMatch
	Value    string  // quotes stripped
	Line     string  // verbatim input
}

type fieldPattern struct {
	field FieldID
	re    *regexp.Regexp
}

// Grammar is the ordered table of line shapes for one entity kind.
type Grammar struct {
	kind   string
	prefix string
	entity *regexp.Regexp
	fields []fieldPattern
}

func newGrammar(kind, prefix string, verbs []string, fields []fieldPattern) *Grammar {
	expr := fmt.Sprintf(`^%s (%s) "([^"]+)"(?:\s+(.*?))?\s*$`,
		regexp.QuoteMeta(prefix), strings.Join(verbs, "|"))
	return &Grammar{
		kind:   kind,
		prefix: prefix,
		entity: regexp.MustCompile(expr),
		fields: fields,
	}
}

func field(id FieldID, expr string) fieldPattern {
	return fieldPattern{field: id, re: regexp.MustCompile(expr)}
}

// ManagedObjects is the grammar for "services sp managed_objects" lines.
var ManagedObjects = newGrammar("managed_object", "services sp managed_objects",
	[]string{"add_with_parent", "add", "edit"},
	[]fieldPattern{
		field(FieldDescription, `^description set (.+)$`),
		field(FieldFamily, `^family set (.+)$`),
		field(FieldTag, `^tags add (.+)$`),
		field(FieldMatch, `^match set (\S+)(?:\s+(.*))?$`),
	})

// InterfaceRules is the grammar for "services sp auto-config interface rules" lines.
var InterfaceRules = newGrammar("interface_rule", "services sp auto-config interface rules",
	[]string{"add", "edit"},
	[]fieldPattern{
		field(FieldPrecedence, `^precedence set (.+)$`),
		field(FieldDescription, `^description set (.+)$`),
		field(FieldRegexpURI, `^regexp_uri set (.+)$`),
		field(FieldActionType, `^action type (.+)$`),
		field(FieldSetType, `^type set (.+)$`),
		field(FieldActionASNs, `^action asns (.+)$`),
		field(FieldPeers, `^peers set (.+)$`),
		field(FieldMOType, `^managed_objects type set (.+)$`),
		field(FieldMOAdd, `^managed_objects add (.+)$`),
		field(FieldMOClear, `^managed_objects clear$`),
		field(FieldMOState, `^managed_objects (enable|disable)$`),
		field(FieldRouter, `^routers add (.+)$`),
		field(FieldSubnet, `^subnet set (.+)$`),
		field(FieldHighThreshold, `^threshold high set (.+)$`),
		field(FieldLowThreshold, `^threshold low set (.+)$`),
	})

// Kind returns the entity kind label used in logs ("managed_object", ...).
func (g *Grammar) Kind() string {
	return g.kind
}

// Classify matches line against the grammar. The first matching field
// pattern wins; patterns are anchored so at most one can match.
func (g *Grammar) Classify(line string) ClassifiedLine {
	cl := ClassifiedLine{Kind: LineUnrecognized, Line: line}

	m := g.entity.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return cl
	}
	verb, raw, rest := m[1], m[2], m[3]
	cl.Entity = util.LastSegment(raw, "|")

	if verb != "edit" {
		if rest != "" {
			return cl
		}
		cl.Kind = LineCreate
		if verb == "add_with_parent" {
			if i := strings.LastIndex(raw, "|"); i > 0 {
				cl.Parent = raw[:i]
			}
		}
		return cl
	}

	for _, fp := range g.fields {
		fm := fp.re.FindStringSubmatch(rest)
		if fm == nil {
			continue
		}
		cl.Kind = LineField
		cl.Field = fp.field
		switch {
		case fp.field == FieldMatch:
			cl.Selector = fm[1]
			cl.Value = util.Unquote(fm[2])
		case len(fm) > 1:
			cl.Value = util.Unquote(fm[1])
		}
		return cl
	}
	return cl
}

// EntityName returns the normalized entity name of line, or "" when the
// line does not belong to this grammar.
func (g *Grammar) EntityName(line string) string {
	return g.Classify(line).Entity
}

func (g *Grammar) addLine(name string) string {
	return fmt.Sprintf("%s add %s", g.prefix, util.Quote(name))
}

func (g *Grammar) editLine(name, format string, args ...interface{}) string {
	return fmt.Sprintf("%s edit %s ", g.prefix, util.Quote(name)) + fmt.Sprintf(format, args...)
}
