// Package bits provides small bit-manipulation helpers shared by the cpu and ppu
// packages, factored out of code that used to duplicate this logic inline.
package bits

// PageCrossed reports whether addresses a and b fall in different 256-byte pages.
func PageCrossed(a, b uint16) bool {
	return (a & 0xFF00) != (b & 0xFF00)
}

// IsSet reports whether bit n (0-7) is set in v.
func IsSet(v uint8, n uint) bool {
	return v&(1<<n) != 0
}

// Set returns v with bit n set.
func Set(v uint8, n uint) uint8 {
	return v | (1 << n)
}

// Clear returns v with bit n cleared.
func Clear(v uint8, n uint) uint8 {
	return v &^ (1 << n)
}
