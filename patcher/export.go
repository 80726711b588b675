package patcher

import (
	"fmt"

	"github.com/marcinbor85/gohex"
	"github.com/snksoft/crc"

	"github.com/moffa90/go-blpatch/ihex"
)

// FlatImage is a memory image laid out as one contiguous byte slice.
type FlatImage struct {
	// Address is the address of Data[0]
	Address uint32

	// Data spans from the lowest to the highest address of the image
	Data []byte
}

// Flatten lays img out from its lowest to its highest address, filling gaps
// with fill. An empty image flattens to an empty slice.
func Flatten(img *ihex.Image, fill byte) (FlatImage, error) {
	lo, hi, ok := img.Bounds()
	if !ok {
		return FlatImage{}, nil
	}

	mem := gohex.NewMemory()
	for _, run := range img.Runs() {
		if err := mem.AddBinary(run.Address, run.Data); err != nil {
			return FlatImage{}, fmt.Errorf("flatten image at 0x%X: %w", run.Address, err)
		}
	}

	return FlatImage{
		Address: lo,
		Data:    mem.ToBinary(lo, hi-lo+1, fill),
	}, nil
}

// Checksum returns the CRC-32 (IEEE) of data, the checksum the bootloader
// uses to validate application images.
func Checksum(data []byte) uint32 {
	return uint32(crc.CalculateCRC(crc.CRC32, data))
}
