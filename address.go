package seep

// Parts above this capacity take a two-byte word address; at or below it the
// word address is the low 8 bits of the offset. [AT24C02D|5.2] vs [24LC256|5.0]
const wideThreshold = 2048

// WordAddress returns the address-setup bytes that select byte offset off:
// one byte (offset & 0xFF) for 8-bit parts, high byte then low byte for
// 16-bit parts. Deterministic, no I/O.
func (w Width) WordAddress(off int) []byte {
	if w == Addr16 {
		return []byte{byte(off >> 8), byte(off)}
	}
	return []byte{byte(off)}
}

// WordAddress resolves off against the profile's address width.
func (p Profile) WordAddress(off int) []byte {
	return p.Width.WordAddress(off)
}
