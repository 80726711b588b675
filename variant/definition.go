package variant

import "fmt"

// Value is a field assignment: either a literal integer or an expression
// evaluated against the definition's symbols.
type Value struct {
	expr      string
	literal   int64
	isLiteral bool
}

// Literal returns a value holding n.
func Literal(n int64) Value {
	return Value{literal: n, isLiteral: true}
}

// Expr returns a value evaluated from the expression s.
func Expr(s string) Value {
	return Value{expr: s}
}

// String returns the literal in hexadecimal or the expression text.
func (v Value) String() string {
	if v.isLiteral {
		return fmt.Sprintf("0x%X", v.literal)
	}
	return v.expr
}

// Resolve returns the integer the value stands for.
func (v Value) Resolve(syms Symbols) (int64, error) {
	if v.isLiteral {
		return v.literal, nil
	}
	return Eval(v.expr, syms)
}

// Variant is a named set of field assignments.
type Variant struct {
	// Name identifies the variant, e.g. in output file names
	Name string

	values map[string]Value
	order  []string
}

// NewVariant returns a variant without assignments.
func NewVariant(name string) *Variant {
	return &Variant{Name: name, values: make(map[string]Value)}
}

// Set assigns val to the named field.
func (v *Variant) Set(field string, val Value) {
	if _, ok := v.values[field]; !ok {
		v.order = append(v.order, field)
	}
	v.values[field] = val
}

// Value returns the assignment for the named field.
func (v *Variant) Value(field string) (Value, bool) {
	val, ok := v.values[field]
	return val, ok
}

// Fields returns the assigned field names in assignment order.
func (v *Variant) Fields() []string {
	out := make([]string, len(v.order))
	copy(out, v.order)
	return out
}

// Definition is a complete variant definition: symbols, layout and variants.
type Definition struct {
	// Defines is the symbol table for value expressions
	Defines Symbols

	// Layout holds the configuration fields
	Layout *Layout

	// Variants in definition order
	Variants []*Variant

	// Fallback holds assignments shared by all variants (optional). It is
	// consulted before the field default.
	Fallback *Variant
}

// NewDefinition returns an empty definition.
func NewDefinition() *Definition {
	return &Definition{
		Defines: make(Symbols),
		Layout:  NewLayout(),
	}
}

// Variant returns the named variant.
func (d *Definition) Variant(name string) (*Variant, bool) {
	for _, v := range d.Variants {
		if v.Name == name {
			return v, true
		}
	}
	return nil, false
}
