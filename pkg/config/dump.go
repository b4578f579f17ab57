package config

import "github.com/peakflow-tools/spconf/pkg/util"

// Dump is the typed view of one configuration dump.
type Dump struct {
	ManagedObjects []*ManagedObject
	InterfaceRules []*InterfaceRule

	// Errors collects every per-line problem from both pipelines,
	// including groups dropped for lacking an add line.
	Errors []error
}

// Parse runs the managed-object and interface-rule pipelines over dump.
// Entities keep the order in which their names first appear.
func Parse(dump string) *Dump {
	lines := SplitLines(dump)
	d := &Dump{}

	mos, errs := ParseManagedObjects(lines)
	d.ManagedObjects = mos
	d.Errors = append(d.Errors, errs...)

	rules, errs := ParseInterfaceRules(lines)
	d.InterfaceRules = rules
	d.Errors = append(d.Errors, errs...)
	return d
}

// ParseManagedObjects groups and builds every managed object in lines.
func ParseManagedObjects(lines []string) ([]*ManagedObject, []error) {
	var out []*ManagedObject
	var errs []error
	for _, g := range GroupLines(ManagedObjects, lines) {
		mo, buildErrs := BuildManagedObject(g.Lines)
		errs = append(errs, buildErrs...)
		if mo == nil {
			util.WithEntity(ManagedObjects.Kind(), g.Name).Debugf("dropping %d orphan line(s)", len(g.Lines))
			continue
		}
		out = append(out, mo)
	}
	return out, errs
}

// ParseInterfaceRules groups and builds every interface rule in lines.
func ParseInterfaceRules(lines []string) ([]*InterfaceRule, []error) {
	var out []*InterfaceRule
	var errs []error
	for _, g := range GroupLines(InterfaceRules, lines) {
		r, buildErrs := BuildInterfaceRule(g.Lines)
		errs = append(errs, buildErrs...)
		if r == nil {
			util.WithEntity(InterfaceRules.Kind(), g.Name).Debugf("dropping %d orphan line(s)", len(g.Lines))
			continue
		}
		out = append(out, r)
	}
	return out, errs
}

// ManagedObject returns the managed object with the given name, or nil.
func (d *Dump) ManagedObject(name string) *ManagedObject {
	for _, mo := range d.ManagedObjects {
		if mo.Name == name {
			return mo
		}
	}
	return nil
}

// InterfaceRule returns the interface rule with the given name, or nil.
func (d *Dump) InterfaceRule(name string) *InterfaceRule {
	for _, r := range d.InterfaceRules {
		if r.Name == name {
			return r
		}
	}
	return nil
}

// ErrorsFor returns the errors recorded against the named entity.
func (d *Dump) ErrorsFor(name string) []error {
	var out []error
	for _, err := range d.Errors {
		if le, ok := err.(*util.LineError); ok && le.Entity == name {
			out = append(out, err)
		}
	}
	return out
}
