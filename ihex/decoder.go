package ihex

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// DecodeFile decodes an Intel HEX file from the given path.
//
// Example:
//
//	img, err := ihex.DecodeFile("bootloader.hex")
//	if err != nil {
//	    log.Fatal(err)
//	}
func DecodeFile(path string, opts ...Option) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return Decode(f, opts...)
}

// Decode reads Intel HEX records from r into a new Image.
//
// Data records are placed at the current segment base plus their address
// field. Extended Segment Address records move the segment base, the Start
// Segment Address payload is kept on the image, and decoding stops at the
// first End Of File record. Unknown record types are skipped unless
// WithStrictRecordTypes is set.
func Decode(r io.Reader, opts ...Option) (*Image, error) {
	cfg := newConfig(opts)
	img := NewImage()
	scanner := bufio.NewScanner(r)

	var segmentBase uint32
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines
		if line == "" {
			continue
		}

		rec, err := ParseRecord(line)
		if err != nil {
			var me *MalformedRecordError
			if errors.As(err, &me) {
				me.Line = lineNum
			}
			return nil, err
		}

		if cfg.VerifyChecksums && !rec.Valid() {
			return nil, &ChecksumMismatchError{
				Line:     lineNum,
				Expected: rec.ComputeChecksum(),
				Actual:   rec.Checksum,
			}
		}

		switch rec.Type {
		case RecordData:
			start := segmentBase + uint32(rec.Address)
			// Segment FFFF reaches past 1 MiB, which Encode cannot express.
			if end := start + uint32(len(rec.Data)); len(rec.Data) > 0 && end-1 > MaxAddress {
				return nil, &AddressRangeError{Line: lineNum, Address: end - 1}
			}
			img.Write(start, rec.Data)

		case RecordEOF:
			return img, nil

		case RecordExtendedSegmentAddress:
			if len(rec.Data) != 2 {
				return nil, &MalformedRecordError{
					Line:   lineNum,
					Reason: fmt.Sprintf("extended segment address needs 2 data bytes, got %d", len(rec.Data)),
				}
			}
			segmentBase = (uint32(rec.Data[0])<<8 | uint32(rec.Data[1])) << 4

		case RecordStartSegmentAddress:
			if len(rec.Data) != StartAddressSize {
				return nil, &MalformedRecordError{
					Line: lineNum,
					Reason: fmt.Sprintf("start segment address needs %d data bytes, got %d",
						StartAddressSize, len(rec.Data)),
				}
			}
			img.SetStart(rec.Data)

		default:
			if cfg.StrictRecordTypes {
				return nil, &UnsupportedRecordError{Line: lineNum, Type: rec.Type}
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	return img, nil
}
