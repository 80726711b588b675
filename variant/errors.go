package variant

import (
	"fmt"

	"github.com/moffa90/go-blpatch/ihex"
)

// FieldOverlapError indicates that two layout fields claim the same byte.
type FieldOverlapError struct {
	// First is the field declared earlier
	First string

	// Second is the field whose declaration caused the conflict
	Second string

	// Address is the first byte both fields claim
	Address uint32
}

func (e *FieldOverlapError) Error() string {
	return fmt.Sprintf("layout invalid: address 0x%X already used by %s and should be used by %s as well",
		e.Address, e.First, e.Second)
}

// FieldWidthError indicates a field size other than 1, 2 or 4 bytes.
type FieldWidthError struct {
	Field string
	Size  int
}

func (e *FieldWidthError) Error() string {
	return fmt.Sprintf("field %s: unsupported width %d (must be 1, 2 or 4 bytes)", e.Field, e.Size)
}

// FieldRangeError indicates a field that does not fit the addressable range.
type FieldRangeError struct {
	Field   string
	Address uint32
	Size    int
}

func (e *FieldRangeError) Error() string {
	return fmt.Sprintf("field %s: %d byte(s) at 0x%X exceed the address space (maximum 0x%X)",
		e.Field, e.Size, e.Address, ihex.MaxAddress)
}

// DuplicateFieldError indicates a field name declared twice.
type DuplicateFieldError struct {
	Field string
}

func (e *DuplicateFieldError) Error() string {
	return fmt.Sprintf("field %s declared more than once", e.Field)
}

// MissingFieldError indicates a variant without a value for a field that
// has no default.
type MissingFieldError struct {
	Variant string
	Field   string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("value %s is required but not defined for variant %s", e.Field, e.Variant)
}

// UndefinedSymbolError indicates an expression naming an unknown symbol.
type UndefinedSymbolError struct {
	Variant string
	Field   string
	Symbol  string
}

func (e *UndefinedSymbolError) Error() string {
	if e.Variant == "" {
		return fmt.Sprintf("undefined symbol %q", e.Symbol)
	}
	return fmt.Sprintf("variant %s, field %s: undefined symbol %q", e.Variant, e.Field, e.Symbol)
}

// ExpressionError indicates an expression that cannot be evaluated.
type ExpressionError struct {
	Variant string
	Field   string
	Expr    string
	Reason  string
}

func (e *ExpressionError) Error() string {
	if e.Variant == "" {
		return fmt.Sprintf("invalid expression %q: %s", e.Expr, e.Reason)
	}
	return fmt.Sprintf("variant %s, field %s: invalid expression %q: %s",
		e.Variant, e.Field, e.Expr, e.Reason)
}

// ValueRangeError indicates a value that does not fit the field width.
type ValueRangeError struct {
	Variant string
	Field   string
	Value   int64
	Size    int
}

func (e *ValueRangeError) Error() string {
	return fmt.Sprintf("variant %s, field %s: value %d does not fit in %d unsigned byte(s)",
		e.Variant, e.Field, e.Value, e.Size)
}

// SyntaxError indicates a malformed entry in a definition file.
type SyntaxError struct {
	Section string
	Key     string
	Reason  string
}

func (e *SyntaxError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("[%s]: %s", e.Section, e.Reason)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Section, e.Key, e.Reason)
}
