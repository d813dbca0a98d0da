package adsb

// DecodeAltitude decodes the barometric altitude field (ME bits 9..20,
// i.e. ME bytes 1..2 / frame bytes 5..6) from an airborne-position message
// (type code 9..18), per spec.md §4.6.3. ok is false when the 12-bit code
// is zero or the Q-bit (ME byte1 bit 0) is unset — the 100-ft Gillham
// encoding selected by Q=0 is not decoded here (out of scope).
func DecodeAltitude(f Frame) (altitudeFt int, ok bool) {
	me1, me2 := f[5], f[6]

	if me1 == 0 && me2&0xF0 == 0 {
		return 0, false
	}
	if me1&0x01 == 0 {
		return 0, false
	}

	altCode := int(me1&0xFE)<<3 | int(me2&0xF0)>>4
	return altCode*25 - 1000, true
}
