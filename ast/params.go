package ast

import (
	"bytes"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/cloudcmds/quill/errz"
	"github.com/cloudcmds/quill/internal/token"
)

// Decl describes one formal parameter as declared in source, before slot
// assignment.
type Decl struct {
	Name    string
	Default Expr      // nil when the parameter is required
	NamePos token.Pos // position of the name, for diagnostics
}

// Param is one formal parameter with its assigned slot.
type Param struct {
	Name    string
	Default Expr // nil when the parameter is required
	Slot    int
}

// DefaultedParam pairs a parameter slot with its default expression.
type DefaultedParam struct {
	Slot    int
	Default Expr
}

// Params is an ordered formal-parameter list plus lookup structures derived
// once at construction. Slots are assigned 0..N-1 in declaration order. The
// derived views never diverge from the parameter list because neither is
// written after NewParams returns.
//
// A default expression may reference the slot of any parameter in the same
// list, including later ones; slots for the whole list are allocated before
// defaults are resolved. Whether such a reference is usable at call time is
// the evaluator's concern.
type Params struct {
	params     []Param
	nameToSlot map[string]int
	required   []int // ascending, equals declaration order of defaultless entries
	defaulted  []DefaultedParam
}

// NewParams assigns slots to the declared parameters and computes the
// derived lookup structures. It fails if two declarations share a name;
// every duplicate in the list is reported.
func NewParams(decls []Decl) (*Params, error) {
	p := &Params{
		nameToSlot: make(map[string]int, len(decls)),
	}
	var errs *multierror.Error
	for i, d := range decls {
		if _, seen := p.nameToSlot[d.Name]; seen {
			errs = multierror.Append(errs, errz.NewDuplicateParam(d.Name, d.NamePos))
			continue
		}
		p.nameToSlot[d.Name] = i
		p.params = append(p.params, Param{Name: d.Name, Default: d.Default, Slot: i})
		if d.Default == nil {
			p.required = append(p.required, i)
		} else {
			p.defaulted = append(p.defaulted, DefaultedParam{Slot: i, Default: d.Default})
		}
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return p, nil
}

// MustParams is like NewParams but panics on error. Intended for tests and
// for trees assembled from literals known to be well formed.
func MustParams(decls []Decl) *Params {
	p, err := NewParams(decls)
	if err != nil {
		panic(err)
	}
	return p
}

// Len returns the number of parameters. Slots cover exactly 0..Len()-1.
func (p *Params) Len() int {
	if p == nil {
		return 0
	}
	return len(p.params)
}

// At returns the parameter at slot i.
func (p *Params) At(i int) Param { return p.params[i] }

// Slot returns the slot for a parameter name. The mapping is a bijection
// between names and 0..Len()-1.
func (p *Params) Slot(name string) (int, bool) {
	if p == nil {
		return 0, false
	}
	slot, ok := p.nameToSlot[name]
	return slot, ok
}

// Required returns the slots whose parameters have no default, in ascending
// order. The returned slice is a copy.
func (p *Params) Required() []int {
	if p == nil {
		return nil
	}
	out := make([]int, len(p.required))
	copy(out, p.required)
	return out
}

// Defaulted returns the slots carrying default expressions in declaration
// order. The returned slice is a copy; the expressions themselves are the
// shared immutable nodes.
func (p *Params) Defaulted() []DefaultedParam {
	if p == nil {
		return nil
	}
	out := make([]DefaultedParam, len(p.defaulted))
	copy(out, p.defaulted)
	return out
}

// IsRequired reports whether the parameter at the given slot has no default.
func (p *Params) IsRequired(slot int) bool {
	return p.params[slot].Default == nil
}

// Names returns the parameter names in declaration order.
func (p *Params) Names() []string {
	if p == nil {
		return nil
	}
	names := make([]string, len(p.params))
	for i, prm := range p.params {
		names[i] = prm.Name
	}
	return names
}

// String renders the list in source form, e.g. "(a, b=2)".
func (p *Params) String() string {
	var out bytes.Buffer
	out.WriteString("(")
	if p != nil {
		parts := make([]string, 0, len(p.params))
		for _, prm := range p.params {
			s := prm.Name
			if prm.Default != nil {
				s += "=" + prm.Default.String()
			}
			parts = append(parts, s)
		}
		out.WriteString(strings.Join(parts, ", "))
	}
	out.WriteString(")")
	return out.String()
}

// Arg is one call argument; positional when Name is empty.
type Arg struct {
	Name  string // empty for positional arguments
	Value Expr
}

// Args is the ordered argument list of an Apply node. Binding arguments to
// parameter slots happens at evaluation time.
type Args []Arg

// Positional returns the values of the positional arguments in order.
func (a Args) Positional() []Expr {
	var out []Expr
	for _, arg := range a {
		if arg.Name == "" {
			out = append(out, arg.Value)
		}
	}
	return out
}

// Named returns the named arguments in order.
func (a Args) Named() []Arg {
	var out []Arg
	for _, arg := range a {
		if arg.Name != "" {
			out = append(out, arg)
		}
	}
	return out
}

// String renders the argument list in source form, e.g. "(1, b=x0)".
func (a Args) String() string {
	parts := make([]string, 0, len(a))
	for _, arg := range a {
		if arg.Name != "" {
			parts = append(parts, arg.Name+"="+arg.Value.String())
		} else {
			parts = append(parts, arg.Value.String())
		}
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
