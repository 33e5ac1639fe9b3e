package permission

// Mask64 is a 64-bit permission bitmask. Bit positions are assigned by a
// [Registry]; the pharmacy permission set fits comfortably in 64 bits.
type Mask64 uint64

// Has reports whether bit is set. Out-of-range bits are never set.
func (m Mask64) Has(bit int) bool {
	if bit < 0 || bit >= 64 {
		return false
	}
	return m&(1<<bit) != 0
}

// Set sets bit. Out-of-range bits are ignored.
func (m *Mask64) Set(bit int) {
	if bit < 0 || bit >= 64 {
		return
	}
	*m |= 1 << bit
}

// Clear clears bit. Out-of-range bits are ignored.
func (m *Mask64) Clear(bit int) {
	if bit < 0 || bit >= 64 {
		return
	}
	*m &^= 1 << bit
}

// Raw returns the mask as a plain uint64.
func (m Mask64) Raw() uint64 { return uint64(m) }
