package ihex

// Checksum computes the Intel HEX checksum of the given record bytes
// (count, address, type and data). The result is the two's complement of
// the low byte of their sum, so that all bytes of a valid record including
// the checksum add up to zero.
func Checksum(data []byte) byte {
	var sum byte
	for _, b := range data {
		sum += b
	}
	return ^sum + 1
}
