package ihex

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// Record is a single Intel HEX record.
type Record struct {
	// Type is the record type
	Type RecordType

	// Address is the 16-bit address field
	Address uint16

	// Data holds the record payload
	Data []byte

	// Checksum is the checksum byte as read from the input, or as computed
	// by NewRecord
	Checksum byte
}

// NewRecord builds a record and computes its checksum.
func NewRecord(t RecordType, addr uint16, data []byte) Record {
	r := Record{
		Type:    t,
		Address: addr,
		Data:    make([]byte, len(data)),
	}
	copy(r.Data, data)
	r.Checksum = r.ComputeChecksum()
	return r
}

// body returns count, address and type bytes followed by the data.
func (r Record) body() []byte {
	b := make([]byte, 0, RecordHeaderSize+len(r.Data))
	b = append(b, byte(len(r.Data)), byte(r.Address>>8), byte(r.Address), byte(r.Type))
	return append(b, r.Data...)
}

// ComputeChecksum returns the checksum the record should carry.
func (r Record) ComputeChecksum() byte {
	return Checksum(r.body())
}

// Valid reports whether the stored checksum matches the record contents.
func (r Record) Valid() bool {
	return r.Checksum == r.ComputeChecksum()
}

// String renders the record as an uppercase text line without line ending.
func (r Record) String() string {
	b := append(r.body(), r.Checksum)
	return string(StartCode) + strings.ToUpper(hex.EncodeToString(b))
}

// ParseRecord parses a single record line. Surrounding whitespace is
// ignored. The checksum is read but not verified; use Valid for that.
//
// Example:
//
//	rec, err := ihex.ParseRecord(":00000001FF")
//	// rec.Type == ihex.RecordEOF
func ParseRecord(line string) (Record, error) {
	line = strings.TrimSpace(line)

	if len(line) < MinimumRecordLength {
		return Record{}, &MalformedRecordError{
			Reason: fmt.Sprintf("record too short: got %d characters, minimum is %d", len(line), MinimumRecordLength),
		}
	}
	if line[0] != StartCode {
		return Record{}, &MalformedRecordError{Reason: "record must start with ':'"}
	}

	raw, err := hex.DecodeString(line[1:])
	if err != nil {
		return Record{}, &MalformedRecordError{Reason: fmt.Sprintf("invalid hex data: %v", err)}
	}

	count := int(raw[0])
	expectedLen := RecordHeaderSize + count + 1
	if len(raw) != expectedLen {
		return Record{}, &MalformedRecordError{
			Reason: fmt.Sprintf("data length mismatch: got %d bytes, expected %d (header=%d + data=%d + checksum=1)",
				len(raw), expectedLen, RecordHeaderSize, count),
		}
	}

	rec := Record{
		Type:     RecordType(raw[3]),
		Address:  uint16(raw[1])<<8 | uint16(raw[2]),
		Data:     make([]byte, count),
		Checksum: raw[len(raw)-1],
	}
	copy(rec.Data, raw[RecordHeaderSize:RecordHeaderSize+count])

	return rec, nil
}
