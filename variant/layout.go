package variant

import (
	"sort"

	"github.com/moffa90/go-blpatch/ihex"
)

// Field is a named, fixed address, fixed width slot in the configuration region.
type Field struct {
	// Name is the field name (lower case when loaded from a file)
	Name string

	// Address is the byte offset of the field
	Address uint32

	// Size is the width in bytes: 1, 2 or 4
	Size int

	// Default is used when a variant has no value for the field (optional)
	Default *int64
}

// End returns the address just past the field.
func (f Field) End() uint32 {
	return f.Address + uint32(f.Size)
}

// Layout is an ordered set of non-overlapping fields.
type Layout struct {
	fields []Field
	byName map[string]int
	owner  map[uint32]string
}

// NewLayout returns an empty layout.
func NewLayout() *Layout {
	return &Layout{
		byName: make(map[string]int),
		owner:  make(map[uint32]string),
	}
}

// Add appends a field to the layout. It fails when the width is not 1, 2
// or 4, when the field reaches beyond the 1 MiB address space, when the
// name is already taken, or when any byte of the field is already claimed
// by an earlier field.
func (l *Layout) Add(f Field) error {
	switch f.Size {
	case 1, 2, 4:
	default:
		return &FieldWidthError{Field: f.Name, Size: f.Size}
	}

	if uint64(f.Address)+uint64(f.Size) > ihex.MaxAddress+1 {
		return &FieldRangeError{Field: f.Name, Address: f.Address, Size: f.Size}
	}

	if _, ok := l.byName[f.Name]; ok {
		return &DuplicateFieldError{Field: f.Name}
	}

	for a := f.Address; a < f.End(); a++ {
		if old, ok := l.owner[a]; ok {
			return &FieldOverlapError{First: old, Second: f.Name, Address: a}
		}
	}
	for a := f.Address; a < f.End(); a++ {
		l.owner[a] = f.Name
	}

	l.byName[f.Name] = len(l.fields)
	l.fields = append(l.fields, f)
	return nil
}

// Fields returns the fields in declaration order.
func (l *Layout) Fields() []Field {
	out := make([]Field, len(l.fields))
	copy(out, l.fields)
	return out
}

// Field returns the named field.
func (l *Layout) Field(name string) (Field, bool) {
	i, ok := l.byName[name]
	if !ok {
		return Field{}, false
	}
	return l.fields[i], true
}

// Len returns the number of fields.
func (l *Layout) Len() int {
	return len(l.fields)
}

// sorted returns the fields in ascending address order.
func (l *Layout) sorted() []Field {
	out := l.Fields()
	sort.Slice(out, func(i, j int) bool { return out[i].Address < out[j].Address })
	return out
}
