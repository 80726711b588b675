package ihex

// RecordType identifies the kind of an Intel HEX record.
type RecordType byte

// Record types handled by this package.
const (
	// RecordData carries data bytes at an offset within the current segment
	RecordData RecordType = 0x00

	// RecordEOF terminates the file
	RecordEOF RecordType = 0x01

	// RecordExtendedSegmentAddress sets the segment base (value * 16)
	RecordExtendedSegmentAddress RecordType = 0x02

	// RecordStartSegmentAddress holds the CS:IP start address
	RecordStartSegmentAddress RecordType = 0x03
)

// String returns the conventional name of the record type.
func (t RecordType) String() string {
	switch t {
	case RecordData:
		return "data"
	case RecordEOF:
		return "end of file"
	case RecordExtendedSegmentAddress:
		return "extended segment address"
	case RecordStartSegmentAddress:
		return "start segment address"
	default:
		return "unknown"
	}
}

// Constants for record framing.
const (
	// StartCode prefixes every record line
	StartCode = ':'

	// MinimumRecordLength is the length of a record with no data, colon included
	MinimumRecordLength = 11

	// RecordHeaderSize is the size of count + address + type in bytes
	RecordHeaderSize = 4

	// DefaultRecordSize is the number of data bytes per encoded Data record
	DefaultRecordSize = 16

	// MaxRecordSize is the largest byte count a record can declare
	MaxRecordSize = 255

	// StartAddressSize is the payload size of a Start Segment Address record
	StartAddressSize = 4

	// SegmentSize is the span addressable from one segment base
	SegmentSize = 0x10000

	// MaxAddress is the highest address reachable with segment addressing
	MaxAddress = 0xFFFFF
)
