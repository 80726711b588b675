// Package ihex provides decoding and encoding of Intel HEX firmware images.
//
// # Intel HEX Format
//
// An Intel HEX file is a sequence of text records, one per line, all
// hex-encoded and prefixed with a colon.
//
// Record Format:
//
//	:[ByteCount(2)][Address(4)][RecordType(2)][Data(2*ByteCount)][Checksum(2)]
//
// Example record:
//
//	:0300300002337A1E
//	  03 = Byte count (3 data bytes)
//	  0030 = Address offset (0x0030)
//	  00 = Record type (Data)
//	  02337A = Data
//	  1E = Checksum
//
// Supported record types:
//   - 00 Data
//   - 01 End Of File
//   - 02 Extended Segment Address (segment base = value * 16)
//   - 03 Start Segment Address (carried through as an opaque payload)
//
// Linear addressing records (04, 05) are not supported. Addresses are
// therefore limited to the 1 MiB reachable with segment addressing.
//
// # Usage
//
// Decode a file from disk:
//
//	img, err := ihex.DecodeFile("bootloader.hex")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	lo, hi, _ := img.Bounds()
//	fmt.Printf("Image spans 0x%05X-0x%05X (%d bytes)\n", lo, hi, img.Len())
//
// Encode an image back to text:
//
//	var buf bytes.Buffer
//	if err := ihex.Encode(&buf, img); err != nil {
//	    log.Fatal(err)
//	}
//
// Decoding and encoding accept functional options:
//
//	img, err := ihex.Decode(r, ihex.WithStrictRecordTypes(true))
//	err = ihex.Encode(w, img, ihex.WithRecordSize(32), ihex.WithGapPolicy(ihex.RejectGaps))
//
// # Error Handling
//
// Decode and Encode return typed errors:
//   - MalformedRecordError: a line is not a well formed record
//   - ChecksumMismatchError: a record checksum is wrong
//   - UnsupportedRecordError: unknown record type in strict mode
//   - NonContiguousImageError: a gap in the image with RejectGaps
//   - AddressRangeError: an address beyond segment addressing
//
// Decode errors carry the line number of the offending record.
package ihex
