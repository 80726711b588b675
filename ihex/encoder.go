package ihex

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
)

// Encode writes img to w as Intel HEX text, one record per line.
//
// Bytes are emitted in ascending address order, grouped into Data records
// of up to RecordSize bytes. If the lowest address lies beyond the first
// 16 bytes, a single Extended Segment Address record precedes the first
// Data record and Data record offsets are relative to that segment. A new
// segment record is only emitted when an address leaves the current 64 KiB
// window. The output always ends with a Start Segment Address record
// (four zero bytes if the image has no start payload) and an End Of File
// record.
//
// Gaps in the image either start a new Data record (SplitOnGap, the
// default) or fail with a NonContiguousImageError (RejectGaps).
func Encode(w io.Writer, img *Image, opts ...Option) error {
	records, err := Records(img, opts...)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	for _, rec := range records {
		if _, err := bw.WriteString(rec.String() + "\n"); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write record: %w", err)
	}

	return nil
}

// EncodeToBytes returns the Intel HEX text for img.
func EncodeToBytes(img *Image, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, img, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Records returns the records Encode would write for img.
func Records(img *Image, opts ...Option) ([]Record, error) {
	cfg := newConfig(opts)
	addrs := img.Addresses()

	if n := len(addrs); n > 0 && addrs[n-1] > MaxAddress {
		return nil, &AddressRangeError{Address: addrs[n-1]}
	}

	e := &recordEncoder{}
	for i, addr := range addrs {
		switch {
		case i == 0:
			if addr>>4 != 0 {
				e.segment(addr)
			}
			e.lineAddr = addr

		case addr != e.next:
			if cfg.GapPolicy == RejectGaps {
				return nil, &NonContiguousImageError{Expected: e.next, Actual: addr}
			}
			e.flush()
			e.lineAddr = addr
		}

		if addr-e.base >= SegmentSize {
			e.flush()
			e.segment(addr)
			e.lineAddr = addr
		}

		b, _ := img.Get(addr)
		e.line = append(e.line, b)
		e.next = addr + 1

		// A record never crosses the end of its segment window.
		if len(e.line) == cfg.RecordSize || e.next-e.base == SegmentSize {
			e.flush()
			e.lineAddr = e.next
		}
	}
	e.flush()

	start, ok := img.Start()
	if !ok {
		start = make([]byte, StartAddressSize)
	}
	e.records = append(e.records,
		NewRecord(RecordStartSegmentAddress, 0, start),
		NewRecord(RecordEOF, 0, nil),
	)

	return e.records, nil
}

// recordEncoder accumulates records while walking an image.
type recordEncoder struct {
	records  []Record
	base     uint32
	line     []byte
	lineAddr uint32
	next     uint32
}

// segment emits an Extended Segment Address record whose window starts at
// the paragraph containing addr.
func (e *recordEncoder) segment(addr uint32) {
	seg := addr >> 4
	e.base = seg << 4
	e.records = append(e.records,
		NewRecord(RecordExtendedSegmentAddress, 0, []byte{byte(seg >> 8), byte(seg)}))
}

func (e *recordEncoder) flush() {
	if len(e.line) == 0 {
		return
	}
	e.records = append(e.records, NewRecord(RecordData, uint16(e.lineAddr-e.base), e.line))
	e.line = nil
}
