package ihex

import (
	"bytes"
	"sort"
)

// Image is a sparse, byte addressed memory image.
//
// Addresses are remembered in the order they were first written, but every
// accessor that walks the image (Addresses, Runs, Encode) does so in
// ascending address order.
//
// An Image is not safe for concurrent modification. Concurrent readers are
// fine as long as nobody writes.
type Image struct {
	data  map[uint32]byte
	order []uint32
	start []byte
}

// Run is a contiguous range of bytes in an Image.
type Run struct {
	// Address is the address of the first byte
	Address uint32

	// Data holds the bytes of the run
	Data []byte
}

// End returns the address just past the run.
func (r Run) End() uint32 {
	return r.Address + uint32(len(r.Data))
}

// NewImage returns an empty image.
func NewImage() *Image {
	return &Image{data: make(map[uint32]byte)}
}

// Set writes b at addr. A second write to the same address replaces the
// value but keeps the address's original position in write order.
func (m *Image) Set(addr uint32, b byte) {
	if _, ok := m.data[addr]; !ok {
		m.order = append(m.order, addr)
	}
	m.data[addr] = b
}

// Write stores data at consecutive addresses starting at addr.
func (m *Image) Write(addr uint32, data []byte) {
	for i, b := range data {
		m.Set(addr+uint32(i), b)
	}
}

// Get returns the byte at addr and whether it is present.
func (m *Image) Get(addr uint32) (byte, bool) {
	b, ok := m.data[addr]
	return b, ok
}

// Len returns the number of bytes in the image.
func (m *Image) Len() int {
	return len(m.data)
}

// WriteOrder returns the addresses in the order they were first written.
func (m *Image) WriteOrder() []uint32 {
	out := make([]uint32, len(m.order))
	copy(out, m.order)
	return out
}

// Addresses returns all addresses in ascending order.
func (m *Image) Addresses() []uint32 {
	out := m.WriteOrder()
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Bounds returns the lowest address and the highest address of the image.
// ok is false for an empty image.
func (m *Image) Bounds() (lo, hi uint32, ok bool) {
	if len(m.order) == 0 {
		return 0, 0, false
	}
	lo, hi = m.order[0], m.order[0]
	for _, a := range m.order[1:] {
		if a < lo {
			lo = a
		}
		if a > hi {
			hi = a
		}
	}
	return lo, hi, true
}

// Runs splits the image into maximal contiguous runs, in ascending order.
func (m *Image) Runs() []Run {
	var runs []Run
	for _, addr := range m.Addresses() {
		if n := len(runs); n > 0 && runs[n-1].End() == addr {
			runs[n-1].Data = append(runs[n-1].Data, m.data[addr])
			continue
		}
		runs = append(runs, Run{Address: addr, Data: []byte{m.data[addr]}})
	}
	return runs
}

// Start returns the Start Segment Address payload and whether one is set.
func (m *Image) Start() ([]byte, bool) {
	if m.start == nil {
		return nil, false
	}
	out := make([]byte, len(m.start))
	copy(out, m.start)
	return out, true
}

// SetStart stores the opaque Start Segment Address payload. A nil payload
// clears it.
func (m *Image) SetStart(payload []byte) {
	if payload == nil {
		m.start = nil
		return
	}
	m.start = make([]byte, len(payload))
	copy(m.start, payload)
}

// Clone returns a fully independent copy of the image.
func (m *Image) Clone() *Image {
	c := &Image{
		data:  make(map[uint32]byte, len(m.data)),
		order: make([]uint32, len(m.order)),
	}
	for a, b := range m.data {
		c.data[a] = b
	}
	copy(c.order, m.order)
	c.SetStart(m.start)
	return c
}

// Equal reports whether both images hold the same address to byte mapping
// and the same start payload. A missing start payload equals four zero
// bytes, which is what Encode writes for it. Write order is not compared.
func (m *Image) Equal(other *Image) bool {
	if other == nil || len(m.data) != len(other.data) {
		return false
	}
	for a, b := range m.data {
		if ob, ok := other.data[a]; !ok || ob != b {
			return false
		}
	}
	return bytes.Equal(m.startOrZero(), other.startOrZero())
}

func (m *Image) startOrZero() []byte {
	if m.start == nil {
		return make([]byte, StartAddressSize)
	}
	return m.start
}
