package config

import (
	"reflect"
	"testing"
)

func TestGroupLines(t *testing.T) {
	lines := []string{
		`services sp managed_objects add "B"`,
		`services sp managed_objects add "A"`,
		`services sp alerts add "noise"`,
		`services sp managed_objects edit "B" family set customer`,
		`services sp managed_objects edit "Root|A" tags add "x"`,
		`services sp auto-config interface rules add "r1"`,
	}

	groups := GroupLines(ManagedObjects, lines)

	want := []Group{
		{Name: "B", Lines: []string{lines[0], lines[3]}},
		{Name: "A", Lines: []string{lines[1], lines[4]}},
	}
	if !reflect.DeepEqual(groups, want) {
		t.Errorf("GroupLines() = %#v, want %#v", groups, want)
	}
}

func TestGroupLinesEmpty(t *testing.T) {
	if groups := GroupLines(InterfaceRules, nil); len(groups) != 0 {
		t.Errorf("GroupLines(nil) = %v, want empty", groups)
	}
}

func TestSplitLines(t *testing.T) {
	got := SplitLines("a\r\n\nb\n   \nc")
	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitLines() = %q, want %q", got, want)
	}
}
