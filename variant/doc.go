// Package variant compiles bootloader configuration variants into binary blocks.
//
// # Definition File Format
//
// A variant definition is an INI file with three kinds of sections:
//
//	[DEFINES]
//	; symbols usable in variant expressions
//	port_0 = 0x00
//	pin_led = 0x07
//
//	[CONFIG_SECTION]
//	; name = address, size[, default]   (hexadecimal)
//	led_port = 0, 1
//	led_pin  = 1, 1
//	timeout  = 4, 2, 1F4
//
//	[bcu1]
//	led_port = port_0
//	led_pin  = pin_led | 0x10
//
// DEFINES values are hexadecimal numbers with an optional 0x prefix, so
// "10" is sixteen, or expressions over earlier DEFINES names. CONFIG_SECTION
// declares the layout: each field has a byte address, a width of 1, 2 or 4
// bytes and an optional default. Every other section is a variant whose
// values are expressions over integer literals (decimal unless prefixed)
// and DEFINES names. Keys are case insensitive; values missing from a
// variant fall back to the INI DEFAULT section and then to the field
// default.
//
// # Compiled Blocks
//
// Compile produces one Block per variant. A block starts at the lowest
// field address and ends at the end of the highest field. Each field is
// packed little-endian in its declared width and gaps between fields are
// zero filled.
//
// For the layout above, variant bcu1 compiles to:
//
//	00 17 00 00 F4 01
//
// # Usage
//
//	def, err := variant.Load("variants.ini")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	blocks, err := variant.Compile(def)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, b := range blocks {
//	    fmt.Printf("%s: % X\n", b.Variant, b.Data)
//	}
//
// # Expressions
//
// Expressions are evaluated by a closed evaluator: integer literals,
// DEFINES names, parentheses, unary + - ~ and binary + - * / // % << >> & | ^
// where | binds loosest, then ^, &, shifts, + and -, with * / // %
// binding tightest. Note that a + b << 8 shifts the sum. / and // are floor divisions. There are no
// function calls or any other access to the environment.
package variant
