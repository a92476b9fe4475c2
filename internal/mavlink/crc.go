package mavlink

// CRC-16/MCRF4XX, the accumulator MAVLink uses for its frame checksum.
// Reflected polynomial 0x8408, init 0xFFFF, no final xor.

const crcInit uint16 = 0xFFFF

func crcAccumulate(crc uint16, b byte) uint16 {
	tmp := b ^ byte(crc&0xFF)
	tmp ^= tmp << 4
	return (crc >> 8) ^ (uint16(tmp) << 8) ^ (uint16(tmp) << 3) ^ (uint16(tmp) >> 4)
}

func crcBytes(crc uint16, p []byte) uint16 {
	for _, b := range p {
		crc = crcAccumulate(crc, b)
	}
	return crc
}

// Checksum computes the checksum over the CRC domain of one frame:
// everything from the payload-length byte through the end of the
// payload, followed by the dialect's extra-CRC seed for the message id.
func Checksum(crcDomain []byte, extraCRC byte) uint16 {
	return crcAccumulate(crcBytes(crcInit, crcDomain), extraCRC)
}
