package ihex

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		opts    []Option
		want    map[uint32]byte
		start   []byte
		wantErr bool
		errMsg  string
	}{
		{
			name: "single data record",
			input: ":0300300002337A1E\n" +
				":00000001FF\n",
			want: map[uint32]byte{0x30: 0x02, 0x31: 0x33, 0x32: 0x7A},
		},
		{
			name: "extended segment address",
			input: ":020000021000EC\n" +
				":01000000AA55\n" +
				":0300300002337A1E\n" +
				":00000001FF\n",
			want: map[uint32]byte{0x10000: 0xAA, 0x10030: 0x02, 0x10031: 0x33, 0x10032: 0x7A},
		},
		{
			name: "start segment address",
			input: ":01000000AA55\n" +
				":0400000312345678E5\n" +
				":00000001FF\n",
			want:  map[uint32]byte{0x00: 0xAA},
			start: []byte{0x12, 0x34, 0x56, 0x78},
		},
		{
			name: "lines after end of file are ignored",
			input: ":01000000AA55\n" +
				":00000001FF\n" +
				"not a record\n",
			want: map[uint32]byte{0x00: 0xAA},
		},
		{
			name: "empty lines and CRLF",
			input: "\r\n" +
				":01000000AA55\r\n" +
				"\r\n" +
				":00000001FF\r\n",
			want: map[uint32]byte{0x00: 0xAA},
		},
		{
			name:  "missing end of file",
			input: ":01000000AA55\n",
			want:  map[uint32]byte{0x00: 0xAA},
		},
		{
			name: "unknown record type skipped",
			input: ":020000040000FA\n" +
				":01000000AA55\n" +
				":00000001FF\n",
			want: map[uint32]byte{0x00: 0xAA},
		},
		{
			name:  "empty input",
			input: "",
			want:  map[uint32]byte{},
		},
		{
			name: "checksum not verified",
			input: ":01000000AA00\n" +
				":00000001FF\n",
			opts: []Option{WithChecksumVerification(false)},
			want: map[uint32]byte{0x00: 0xAA},
		},
		{
			name: "checksum mismatch",
			input: ":01000000AA55\n" +
				":0300300002337A1F\n",
			wantErr: true,
			errMsg:  "line 2: checksum mismatch: expected 0x1E, got 0x1F",
		},
		{
			name:    "malformed record",
			input:   ":01000000AA55\n:0400300002337A1E\n",
			wantErr: true,
			errMsg:  "line 2: malformed record",
		},
		{
			name:    "unknown record type in strict mode",
			input:   ":020000040000FA\n",
			opts:    []Option{WithStrictRecordTypes(true)},
			wantErr: true,
			errMsg:  "unsupported record type 0x04",
		},
		{
			name:    "short extended segment address",
			input:   ":0100000210ED\n",
			wantErr: true,
			errMsg:  "extended segment address needs 2 data bytes",
		},
		{
			name:    "short start segment address",
			input:   ":020000031234B5\n",
			wantErr: true,
			errMsg:  "start segment address needs 4 data bytes",
		},
		{
			name: "address beyond 1 MiB",
			input: ":02000002FFFFFE\n" +
				":01000F00AA46\n" +
				":01001000AA45\n",
			wantErr: true,
			errMsg:  "line 3: address 0x100000 is out of range",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(strings.NewReader(tt.input), tt.opts...)

			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tt.errMsg)
				}
				if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("error = %v, want substring %q", err, tt.errMsg)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got.Len() != len(tt.want) {
				t.Fatalf("Len() = %d, want %d", got.Len(), len(tt.want))
			}
			for addr, want := range tt.want {
				b, ok := got.Get(addr)
				if !ok {
					t.Errorf("address 0x%05X missing", addr)
					continue
				}
				if b != want {
					t.Errorf("[0x%05X] = 0x%02X, want 0x%02X", addr, b, want)
				}
			}

			start, ok := got.Start()
			if ok != (tt.start != nil) {
				t.Fatalf("Start() ok = %v, want %v", ok, tt.start != nil)
			}
			if !bytes.Equal(start, tt.start) {
				t.Errorf("Start() = % X, want % X", start, tt.start)
			}
		})
	}
}

func TestDecodeErrorTypes(t *testing.T) {
	_, err := Decode(strings.NewReader(":01000000AA00\n"))
	var ce *ChecksumMismatchError
	if !errors.As(err, &ce) {
		t.Fatalf("error type = %T, want *ChecksumMismatchError", err)
	}
	if ce.Line != 1 || ce.Expected != 0x55 || ce.Actual != 0x00 {
		t.Errorf("ChecksumMismatchError = %+v", ce)
	}

	_, err = Decode(strings.NewReader("\n:XYZ\n"))
	var me *MalformedRecordError
	if !errors.As(err, &me) {
		t.Fatalf("error type = %T, want *MalformedRecordError", err)
	}
	if me.Line != 2 {
		t.Errorf("Line = %d, want 2", me.Line)
	}

	_, err = Decode(strings.NewReader(":020000040000FA\n"), WithStrictRecordTypes(true))
	var ue *UnsupportedRecordError
	if !errors.As(err, &ue) {
		t.Fatalf("error type = %T, want *UnsupportedRecordError", err)
	}
	if ue.Type != 0x04 {
		t.Errorf("Type = 0x%02X, want 0x04", byte(ue.Type))
	}
}

func TestDecodeHighestAddress(t *testing.T) {
	input := ":02000002FFFFFE\n" +
		":01000F00AA46\n" +
		":00000001FF\n"

	img, err := Decode(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b, ok := img.Get(MaxAddress); !ok || b != 0xAA {
		t.Fatalf("[0x%05X] = 0x%02X (%v), want 0xAA", MaxAddress, b, ok)
	}

	// What decodes must also encode.
	if _, err := EncodeToBytes(img); err != nil {
		t.Errorf("EncodeToBytes() error = %v", err)
	}

	_, err = Decode(strings.NewReader(":02000002FFFFFE\n:02000F00AABB8A\n"))
	var re *AddressRangeError
	if !errors.As(err, &re) {
		t.Fatalf("error type = %T, want *AddressRangeError", err)
	}
	if re.Line != 2 || re.Address != 0x100000 {
		t.Errorf("AddressRangeError = %+v", re)
	}
}

func TestDecodeWriteOrder(t *testing.T) {
	input := ":0100100011DE\n" +
		":0100000022DD\n" +
		":00000001FF\n"

	img, err := Decode(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	order := img.WriteOrder()
	if len(order) != 2 || order[0] != 0x10 || order[1] != 0x00 {
		t.Errorf("WriteOrder() = %v, want [16 0]", order)
	}
	addrs := img.Addresses()
	if addrs[0] != 0x00 || addrs[1] != 0x10 {
		t.Errorf("Addresses() = %v, want [0 16]", addrs)
	}
}

func TestDecodeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bootloader.hex")
	if err := os.WriteFile(path, []byte(":0300300002337A1E\n:00000001FF\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	img, err := DecodeFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if img.Len() != 3 {
		t.Errorf("Len() = %d, want 3", img.Len())
	}

	if _, err := DecodeFile(filepath.Join(t.TempDir(), "missing.hex")); err == nil {
		t.Error("expected error for missing file")
	}
}

func BenchmarkDecode(b *testing.B) {
	img := NewImage()
	for i := 0; i < 16*1024; i++ {
		img.Set(uint32(i), byte(i))
	}
	data, err := EncodeToBytes(img)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Decode(bytes.NewReader(data))
	}
}
