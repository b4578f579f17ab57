package config

import (
	"errors"
	"strings"
	"testing"

	"github.com/peakflow-tools/spconf/pkg/util"
)

const sampleDump = `services sp managed_objects add "Cust1"
services sp managed_objects edit "Cust1" family set customer
services sp managed_objects edit "Cust1" tags add "gold"
services sp auto-config interface rules add "uplinks"
services sp managed_objects edit "Cust1" match set peer_as 65001
services sp managed_objects edit "ghost" description set "x"
services sp managed_objects add_with_parent "Cust1|Cust1-east"
services sp managed_objects edit "Cust1-east" match set asregexp_uri %5E65001_
services sp auto-config interface rules edit "uplinks" precedence set 20
services sp auto-config interface rules add "edge"
services sp auto-config interface rules edit "edge" precedence set 5
services sp auto-config interface rules edit "edge" action type enable
services sp auto-config interface rules edit "edge" type set customer
services sp managed_objects edit "Cust1-east" match set community 1:1
services sp alerts edit "noise" enable
`

func TestParse(t *testing.T) {
	d := Parse(strings.ReplaceAll(sampleDump, "\n", "\r\n"))

	if len(d.ManagedObjects) != 2 {
		t.Fatalf("ManagedObjects = %d, want 2", len(d.ManagedObjects))
	}
	if d.ManagedObjects[0].Name != "Cust1" || d.ManagedObjects[1].Name != "Cust1-east" {
		t.Errorf("order = %q, %q; want Cust1, Cust1-east", d.ManagedObjects[0].Name, d.ManagedObjects[1].Name)
	}
	if d.ManagedObject("ghost") != nil {
		t.Error("edit without add must not create an object")
	}

	cust := d.ManagedObject("Cust1")
	want := &ManagedObject{
		Name:   "Cust1",
		Family: "customer",
		Tags:   NewStringSet("gold"),
		Match:  PeerAS{ASN: "65001"},
	}
	if !cust.Equal(want) {
		t.Errorf("Cust1 = %+v, want %+v", cust, want)
	}
	if len(cust.ConfigLines) != 4 {
		t.Errorf("Cust1 ConfigLines = %d, want 4", len(cust.ConfigLines))
	}

	east := d.ManagedObject("Cust1-east")
	if east.Parent != "Cust1" || east.Match != nil {
		t.Errorf("Cust1-east = %+v, want parent Cust1 and lost match", east)
	}

	if len(d.InterfaceRules) != 2 {
		t.Fatalf("InterfaceRules = %d, want 2", len(d.InterfaceRules))
	}
	if d.InterfaceRules[0].Name != "uplinks" {
		t.Errorf("first rule = %q, want file order", d.InterfaceRules[0].Name)
	}
	edge := d.InterfaceRule("edge")
	if edge == nil || !edge.ActionTypeEnabled || edge.ActionSetType != "customer" {
		t.Errorf("edge = %+v", edge)
	}
	if sorted := SortByPrecedence(d.InterfaceRules); sorted[0].Name != "edge" {
		t.Errorf("lowest precedence = %q, want edge", sorted[0].Name)
	}
}

func TestParseErrors(t *testing.T) {
	d := Parse(sampleDump)

	var missing, unknown int
	for _, err := range d.Errors {
		switch {
		case errors.Is(err, util.ErrMissingName):
			missing++
		case errors.Is(err, util.ErrUnknownMatchKind):
			unknown++
		default:
			t.Errorf("unexpected error %v", err)
		}
	}
	if missing != 1 || unknown != 1 {
		t.Errorf("missing/unknown = %d/%d, want 1/1", missing, unknown)
	}

	if errs := d.ErrorsFor("Cust1-east"); len(errs) != 1 {
		t.Errorf("ErrorsFor(Cust1-east) = %v, want 1 error", errs)
	}
	if errs := d.ErrorsFor("Cust1"); len(errs) != 0 {
		t.Errorf("ErrorsFor(Cust1) = %v, want none", errs)
	}
}

func TestParseRoundTrip(t *testing.T) {
	first := Parse(sampleDump)

	var regenerated []string
	for _, mo := range first.ManagedObjects {
		cmds, err := mo.Commands()
		if err != nil {
			t.Fatalf("%s Commands() error = %v", mo.Name, err)
		}
		regenerated = append(regenerated, cmds...)
	}
	for _, r := range first.InterfaceRules {
		cmds, err := r.Commands()
		if err != nil {
			t.Fatalf("%s Commands() error = %v", r.Name, err)
		}
		regenerated = append(regenerated, cmds...)
	}

	second := Parse(strings.Join(regenerated, "\n"))
	if len(second.Errors) != 0 {
		t.Errorf("reparse errors = %v", second.Errors)
	}
	for _, mo := range first.ManagedObjects {
		if got := second.ManagedObject(mo.Name); !got.Equal(mo) {
			t.Errorf("managed object %s = %+v, want %+v", mo.Name, got, mo)
		}
	}
	for _, r := range first.InterfaceRules {
		if got := second.InterfaceRule(r.Name); !got.Equal(r) {
			t.Errorf("interface rule %s = %+v, want %+v", r.Name, got, r)
		}
	}
}

func TestParseEmpty(t *testing.T) {
	d := Parse("")
	if len(d.ManagedObjects) != 0 || len(d.InterfaceRules) != 0 || len(d.Errors) != 0 {
		t.Errorf("Parse(\"\") = %+v, want empty", d)
	}
}
