package ihex

import "fmt"

// MalformedRecordError indicates that a line cannot be parsed as a record.
type MalformedRecordError struct {
	// Line is the 1-based line number (0 when parsing a single record)
	Line int

	// Reason describes what is wrong with the record
	Reason string
}

func (e *MalformedRecordError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("malformed record: %s", e.Reason)
	}
	return fmt.Sprintf("line %d: malformed record: %s", e.Line, e.Reason)
}

// ChecksumMismatchError indicates that a record checksum does not match its contents.
type ChecksumMismatchError struct {
	Line     int
	Expected byte
	Actual   byte
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("line %d: checksum mismatch: expected 0x%02X, got 0x%02X",
		e.Line, e.Expected, e.Actual)
}

// UnsupportedRecordError indicates a record type this package does not handle.
// It is only returned when strict record type checking is enabled.
type UnsupportedRecordError struct {
	Line int
	Type RecordType
}

func (e *UnsupportedRecordError) Error() string {
	return fmt.Sprintf("line %d: unsupported record type 0x%02X", e.Line, byte(e.Type))
}

// NonContiguousImageError indicates a gap in the image while gaps are rejected.
type NonContiguousImageError struct {
	// Expected is the address that would have continued the run
	Expected uint32

	// Actual is the next address present in the image
	Actual uint32
}

func (e *NonContiguousImageError) Error() string {
	return fmt.Sprintf("non-contiguous image: expected address 0x%05X, next is 0x%05X",
		e.Expected, e.Actual)
}

// AddressRangeError indicates an address that segment addressing cannot reach.
type AddressRangeError struct {
	// Line is the 1-based line number when decoding (0 when encoding)
	Line int

	Address uint32
}

func (e *AddressRangeError) Error() string {
	msg := fmt.Sprintf("address 0x%X is out of range: maximum is 0x%05X", e.Address, MaxAddress)
	if e.Line == 0 {
		return msg
	}
	return fmt.Sprintf("line %d: %s", e.Line, msg)
}
