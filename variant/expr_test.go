package variant

import (
	"errors"
	"strings"
	"testing"
)

func TestEval(t *testing.T) {
	syms := Symbols{
		"port_a":  0x10,
		"pin_led": 7,
		"big":     0x12345678,
	}

	tests := []struct {
		name    string
		expr    string
		want    int64
		wantErr bool
		errMsg  string
	}{
		{name: "decimal", expr: "42", want: 42},
		{name: "hex", expr: "0x1F", want: 0x1F},
		{name: "uppercase hex", expr: "0XFF", want: 0xFF},
		{name: "binary", expr: "0b1010", want: 10},
		{name: "symbol", expr: "port_a", want: 0x10},
		{name: "symbol case insensitive", expr: "PORT_A", want: 0x10},
		{name: "bitwise or", expr: "port_a | pin_led", want: 0x17},
		{name: "shift", expr: "1 << pin_led", want: 0x80},
		{name: "precedence", expr: "2 + 3 * 4", want: 14},
		{name: "parentheses", expr: "(2 + 3) * 4", want: 20},
		{name: "mask", expr: "big & 0xFFFF", want: 0x5678},
		{name: "right shift", expr: "big >> 16", want: 0x1234},
		{name: "xor", expr: "0xFF ^ 0x0F", want: 0xF0},
		{name: "complement", expr: "~0 & 0xFF", want: 0xFF},
		{name: "and complement", expr: "0xFF &~0x0F", want: 0xF0},
		{name: "unary minus", expr: "-3 + 5", want: 2},
		{name: "floor division", expr: "7 // 2", want: 3},
		{name: "negative floor division", expr: "-7 / 2", want: -4},
		{name: "floor modulo", expr: "-7 % 3", want: 2},
		{name: "whitespace", expr: "  0x10  ", want: 0x10},
		{name: "empty", expr: "   ", wantErr: true, errMsg: "empty expression"},
		{name: "unknown symbol", expr: "port_b | 1", wantErr: true, errMsg: `undefined symbol "port_b"`},
		{name: "syntax error", expr: "1 +", wantErr: true, errMsg: "syntax error"},
		{name: "function call", expr: "len(port_a)", wantErr: true, errMsg: "unsupported construct"},
		{name: "selector", expr: "os.args", wantErr: true, errMsg: "unsupported construct"},
		{name: "string literal", expr: `"abc"`, wantErr: true, errMsg: "unsupported literal"},
		{name: "float literal", expr: "1.5", wantErr: true, errMsg: "unsupported literal"},
		{name: "comparison", expr: "1 == 1", wantErr: true, errMsg: "unsupported operator"},
		{name: "logical not", expr: "!port_a", wantErr: true, errMsg: "unsupported operator"},
		{name: "division by zero", expr: "1 / 0", wantErr: true, errMsg: "division by zero"},
		{name: "negative shift", expr: "1 << -1", wantErr: true, errMsg: "invalid shift count"},
		{name: "comment", expr: "1 # 2", wantErr: true, errMsg: "comments are not allowed"},
		{name: "bad literal", expr: "08", wantErr: true, errMsg: `invalid expression "08"`},
		{name: "leading zero", expr: "010", wantErr: true, errMsg: "leading zeros"},
		{name: "zero", expr: "00", want: 0},
		{name: "octal prefix", expr: "0o17", want: 15},
		{name: "digit separators", expr: "1_000", want: 1000},
		{name: "trailing separator", expr: "1_", wantErr: true, errMsg: "invalid integer literal"},
		{name: "power", expr: "2 ** 3", wantErr: true, errMsg: "unsupported operator **"},
		{name: "keyword", expr: "not port_a", wantErr: true, errMsg: "unsupported construct"},
		{name: "indexing", expr: "port_a[0]", wantErr: true, errMsg: "unsupported construct"},
		{name: "unbalanced", expr: "(1 + 2", wantErr: true, errMsg: "missing ')'"},
		{name: "trailing token", expr: "1 2", wantErr: true, errMsg: "syntax error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Eval(tt.expr, syms)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error containing %q, got %d", tt.errMsg, got)
				}
				if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("error = %v, want substring %q", err, tt.errMsg)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Eval(%q) = %d, want %d", tt.expr, got, tt.want)
			}
		})
	}
}

// Shifts bind looser than + and -, and & ^ | are separate levels.
func TestEvalPrecedence(t *testing.T) {
	syms := Symbols{"base": 0x10, "flag": 0x01, "off": 0x02, "mask": 0x0F}

	tests := []struct {
		expr string
		want int64
	}{
		{"1 << 2 + 1", 8},
		{"base + off << 8", 0x1200},
		{"base + flag & 0xF", 1},
		{"base | flag & mask", 0x11},
		{"1 | 2 ^ 3", 1},
		{"6 ^ 3 & 5", 7},
		{"1 | 6 & 3", 3},
		{"8 >> 1 + 1", 2},
		{"2 * 3 << 1", 12},
		{"2 + 3 * 4 % 5", 4},
		{"-2 * 3", -6},
		{"~flag + 1", -1},
		{"-7 // 2 * 2", -8},
		{"10 - 4 - 3", 3},
		{"64 // 4 // 2", 8},
		{"1 << 2 << 3", 32},
		{"(1 | 2) ^ 3", 0},
		{"base + off << 8 | flag", 0x1201},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := Eval(tt.expr, syms)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Eval(%q) = %d, want %d", tt.expr, got, tt.want)
			}
		})
	}
}

func TestEvalSyntaxBeforeLookup(t *testing.T) {
	_, err := Eval("missing +", Symbols{})
	var ee *ExpressionError
	if !errors.As(err, &ee) {
		t.Fatalf("error = %v, want *ExpressionError", err)
	}
}

func TestEvalErrorTypes(t *testing.T) {
	_, err := Eval("missing", Symbols{})
	var ue *UndefinedSymbolError
	if !errors.As(err, &ue) {
		t.Fatalf("error = %T, want *UndefinedSymbolError", err)
	}
	if ue.Symbol != "missing" {
		t.Errorf("Symbol = %q, want missing", ue.Symbol)
	}

	_, err = Eval("1 +", Symbols{})
	var ee *ExpressionError
	if !errors.As(err, &ee) {
		t.Fatalf("error = %T, want *ExpressionError", err)
	}
}
