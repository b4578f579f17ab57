package config

import "testing"

func TestClassifyManagedObjects(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		kind     LineKind
		entity   string
		parent   string
		field    FieldID
		selector string
		value    string
	}{
		{
			name:   "add",
			line:   `services sp managed_objects add "Cust1"`,
			kind:   LineCreate,
			entity: "Cust1",
		},
		{
			name:   "add with parent",
			line:   `services sp managed_objects add_with_parent "Region|Cust1"`,
			kind:   LineCreate,
			entity: "Cust1",
			parent: "Region",
		},
		{
			name:   "description keeps inner spaces",
			line:   `services sp managed_objects edit "Cust1" description set "Gold customer"`,
			kind:   LineField,
			entity: "Cust1",
			field:  FieldDescription,
			value:  "Gold customer",
		},
		{
			name:   "family unquoted",
			line:   `services sp managed_objects edit "Cust1" family set customer`,
			kind:   LineField,
			entity: "Cust1",
			field:  FieldFamily,
			value:  "customer",
		},
		{
			name:   "tag",
			line:   `services sp managed_objects edit "Cust1" tags add "gold"`,
			kind:   LineField,
			entity: "Cust1",
			field:  FieldTag,
			value:  "gold",
		},
		{
			name:     "match",
			line:     `services sp managed_objects edit "Cust1" match set cidr_blocks "10.0.0.0/8"`,
			kind:     LineField,
			entity:   "Cust1",
			field:    FieldMatch,
			selector: "cidr_blocks",
			value:    "10.0.0.0/8",
		},
		{
			name:   "edit on parented name",
			line:   `services sp managed_objects edit "Region|Cust1" family set customer`,
			kind:   LineField,
			entity: "Cust1",
			field:  FieldFamily,
			value:  "customer",
		},
		{
			name:   "unknown edit keeps entity",
			line:   `services sp managed_objects edit "Cust1" dos_profiling enable`,
			kind:   LineUnrecognized,
			entity: "Cust1",
		},
		{
			name: "other command family",
			line: `services sp alerts add "x"`,
			kind: LineUnrecognized,
		},
		{
			name: "blank",
			line: "",
			kind: LineUnrecognized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cl := ManagedObjects.Classify(tt.line)
			if cl.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", cl.Kind, tt.kind)
			}
			if cl.Entity != tt.entity {
				t.Errorf("Entity = %q, want %q", cl.Entity, tt.entity)
			}
			if cl.Parent != tt.parent {
				t.Errorf("Parent = %q, want %q", cl.Parent, tt.parent)
			}
			if cl.Field != tt.field {
				t.Errorf("Field = %q, want %q", cl.Field, tt.field)
			}
			if cl.Selector != tt.selector {
				t.Errorf("Selector = %q, want %q", cl.Selector, tt.selector)
			}
			if cl.Value != tt.value {
				t.Errorf("Value = %q, want %q", cl.Value, tt.value)
			}
			if cl.Line != tt.line {
				t.Errorf("Line = %q, want verbatim input", cl.Line)
			}
		})
	}
}

func TestClassifyInterfaceRules(t *testing.T) {
	const prefix = `services sp auto-config interface rules edit "uplinks" `
	tests := []struct {
		rest  string
		field FieldID
		value string
	}{
		{"precedence set 10", FieldPrecedence, "10"},
		{`description set "Core uplinks"`, FieldDescription, "Core uplinks"},
		{"regexp_uri set %5Eae", FieldRegexpURI, "%5Eae"},
		{"action type enable", FieldActionType, "enable"},
		{"type set peer", FieldSetType, "peer"},
		{"action asns disable", FieldActionASNs, "disable"},
		{"peers set 65001", FieldPeers, "65001"},
		{"managed_objects type set simple", FieldMOType, "simple"},
		{`managed_objects add "Cust1"`, FieldMOAdd, "Cust1"},
		{"managed_objects enable", FieldMOState, "enable"},
		{"managed_objects clear", FieldMOClear, ""},
		{`routers add "edge1"`, FieldRouter, "edge1"},
		{"subnet set 10.0.0.0/8", FieldSubnet, "10.0.0.0/8"},
		{"threshold high set 1.5", FieldHighThreshold, "1.5"},
		{"threshold low set 0.25", FieldLowThreshold, "0.25"},
	}

	for _, tt := range tests {
		t.Run(tt.rest, func(t *testing.T) {
			cl := InterfaceRules.Classify(prefix + tt.rest)
			if cl.Kind != LineField {
				t.Fatalf("Kind = %v, want field", cl.Kind)
			}
			if cl.Entity != "uplinks" {
				t.Errorf("Entity = %q, want uplinks", cl.Entity)
			}
			if cl.Field != tt.field {
				t.Errorf("Field = %q, want %q", cl.Field, tt.field)
			}
			if cl.Value != tt.value {
				t.Errorf("Value = %q, want %q", cl.Value, tt.value)
			}
		})
	}
}

func TestClassifyCreateWithTrailingText(t *testing.T) {
	cl := InterfaceRules.Classify(`services sp auto-config interface rules add "uplinks" extra`)
	if cl.Kind != LineUnrecognized {
		t.Errorf("Kind = %v, want unrecognized", cl.Kind)
	}
	if cl.Entity != "uplinks" {
		t.Errorf("Entity = %q, want uplinks", cl.Entity)
	}
}

func TestClassifyGrammarsAreDisjoint(t *testing.T) {
	mo := `services sp managed_objects add "Cust1"`
	ir := `services sp auto-config interface rules add "uplinks"`

	if got := InterfaceRules.EntityName(mo); got != "" {
		t.Errorf("interface rule grammar claimed %q", mo)
	}
	if got := ManagedObjects.EntityName(ir); got != "" {
		t.Errorf("managed object grammar claimed %q", ir)
	}
}

func TestLineKindString(t *testing.T) {
	tests := map[LineKind]string{
		LineCreate:       "create",
		LineField:        "field",
		LineUnrecognized: "unrecognized",
	}
	for kind, want := range tests {
		if got := kind.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", kind, got, want)
		}
	}
}
