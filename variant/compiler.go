package variant

import (
	"encoding/binary"
	"errors"
)

// Block is the compiled configuration region of one variant.
type Block struct {
	// Variant is the name of the compiled variant
	Variant string

	// Address is the address of the lowest field in the layout
	Address uint32

	// Data spans from the lowest field start to the highest field end
	Data []byte
}

// Compile compiles every variant of def, in definition order.
//
// Example:
//
//	blocks, err := variant.Compile(def)
//	if err != nil {
//	    log.Fatal(err)
//	}
func Compile(def *Definition) ([]Block, error) {
	blocks := make([]Block, 0, len(def.Variants))
	for _, v := range def.Variants {
		b, err := CompileVariant(def, v)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, b)
	}
	return blocks, nil
}

// CompileVariant compiles a single variant against the layout of def.
//
// Fields are packed little-endian in ascending address order. The block
// starts at the first field; gaps between fields are filled with zeros.
func CompileVariant(def *Definition, v *Variant) (Block, error) {
	fields := def.Layout.sorted()
	block := Block{Variant: v.Name}
	if len(fields) == 0 {
		return block, nil
	}

	block.Address = fields[0].Address
	cursor := block.Address
	for _, f := range fields {
		n, err := resolve(def, v, f)
		if err != nil {
			return Block{}, err
		}

		if f.Address > cursor {
			block.Data = append(block.Data, make([]byte, f.Address-cursor)...)
		}
		block.Data = append(block.Data, pack(n, f.Size)...)
		cursor = f.End()
	}

	return block, nil
}

// resolve finds the value of f for variant v: the variant's own value,
// then the shared fallback, then the field default.
func resolve(def *Definition, v *Variant, f Field) (int64, error) {
	val, ok := v.Value(f.Name)
	if !ok && def.Fallback != nil {
		val, ok = def.Fallback.Value(f.Name)
	}

	var n int64
	switch {
	case ok:
		var err error
		n, err = val.Resolve(def.Defines)
		if err != nil {
			return 0, annotate(err, v.Name, f.Name)
		}
	case f.Default != nil:
		n = *f.Default
	default:
		return 0, &MissingFieldError{Variant: v.Name, Field: f.Name}
	}

	if n < 0 || uint64(n) > maxValue(f.Size) {
		return 0, &ValueRangeError{Variant: v.Name, Field: f.Name, Value: n, Size: f.Size}
	}
	return n, nil
}

// annotate attaches the variant and field to expression errors.
func annotate(err error, variantName, field string) error {
	var ue *UndefinedSymbolError
	if errors.As(err, &ue) {
		ue.Variant, ue.Field = variantName, field
		return ue
	}
	var ee *ExpressionError
	if errors.As(err, &ee) {
		ee.Variant, ee.Field = variantName, field
		return ee
	}
	return err
}

func maxValue(size int) uint64 {
	return 1<<(8*uint(size)) - 1
}

func pack(n int64, size int) []byte {
	b := make([]byte, size)
	switch size {
	case 1:
		b[0] = byte(n)
	case 2:
		binary.LittleEndian.PutUint16(b, uint16(n))
	case 4:
		binary.LittleEndian.PutUint32(b, uint32(n))
	}
	return b
}
