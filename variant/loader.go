package variant

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/ini.v1"
)

// Section names with a fixed meaning in a definition file.
const (
	// SectionDefines holds the expression symbols
	SectionDefines = "DEFINES"

	// SectionLayout holds the field layout
	SectionLayout = "CONFIG_SECTION"
)

var loadOptions = ini.LoadOptions{
	InsensitiveKeys: true,
}

// Load parses a definition file from the given path.
//
// Example:
//
//	def, err := variant.Load("variants.ini")
//	if err != nil {
//	    log.Fatal(err)
//	}
func Load(path string) (*Definition, error) {
	f, err := ini.LoadSources(loadOptions, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load definition: %w", err)
	}
	return fromINI(f)
}

// Parse parses a definition from any io.Reader.
func Parse(r io.Reader) (*Definition, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read definition: %w", err)
	}
	f, err := ini.LoadSources(loadOptions, data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse definition: %w", err)
	}
	return fromINI(f)
}

func fromINI(f *ini.File) (*Definition, error) {
	def := NewDefinition()

	if sec, err := f.GetSection(SectionDefines); err == nil {
		for _, key := range sec.Keys() {
			n, err := parseDefine(key.String(), def.Defines)
			if err != nil {
				return nil, &SyntaxError{Section: SectionDefines, Key: key.Name(), Reason: err.Error()}
			}
			def.Defines[key.Name()] = n
		}
	}

	sec, err := f.GetSection(SectionLayout)
	if err != nil {
		return nil, &SyntaxError{Section: SectionLayout, Reason: "section missing"}
	}
	for _, key := range sec.Keys() {
		field, err := parseField(key.Name(), key.String())
		if err != nil {
			return nil, err
		}
		if err := def.Layout.Add(field); err != nil {
			return nil, err
		}
	}

	for _, sec := range f.Sections() {
		switch sec.Name() {
		case SectionDefines, SectionLayout:
			continue
		case ini.DefaultSection:
			if len(sec.Keys()) > 0 {
				def.Fallback = sectionVariant(sec)
			}
			continue
		}
		def.Variants = append(def.Variants, sectionVariant(sec))
	}

	return def, nil
}

func sectionVariant(sec *ini.Section) *Variant {
	v := NewVariant(sec.Name())
	for _, key := range sec.Keys() {
		v.Set(key.Name(), Expr(key.String()))
	}
	return v
}

// parseDefine reads a DEFINES value. A bare number is hexadecimal, with or
// without 0x prefix. Anything else is an expression over earlier defines.
func parseDefine(s string, defines Symbols) (int64, error) {
	if n, err := parseHex(s, 63); err == nil {
		return int64(n), nil
	}
	return Eval(s, defines)
}

// parseField parses "address, size[, default]" with hexadecimal numbers.
func parseField(name, spec string) (Field, error) {
	fail := func(reason string) (Field, error) {
		return Field{}, &SyntaxError{Section: SectionLayout, Key: name, Reason: reason}
	}

	parts := strings.Split(spec, ",")
	if len(parts) < 2 || len(parts) > 3 {
		return fail(fmt.Sprintf("expected \"address, size[, default]\", got %q", spec))
	}

	addr, err := parseHex(parts[0], 32)
	if err != nil {
		return fail(fmt.Sprintf("invalid address %q", strings.TrimSpace(parts[0])))
	}
	size, err := parseHex(parts[1], 8)
	if err != nil {
		return fail(fmt.Sprintf("invalid size %q", strings.TrimSpace(parts[1])))
	}

	field := Field{Name: name, Address: uint32(addr), Size: int(size)}
	if len(parts) == 3 {
		d, err := parseHex(parts[2], 32)
		if err != nil {
			return fail(fmt.Sprintf("invalid default %q", strings.TrimSpace(parts[2])))
		}
		def := int64(d)
		field.Default = &def
	}

	return field, nil
}

// parseHex parses a hexadecimal number with an optional 0x prefix.
func parseHex(s string, bits int) (uint64, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "0x")
	return strconv.ParseUint(s, 16, bits)
}
