package adsb

// Frame is a raw 112-bit Mode-S extended-squitter frame as delivered by the
// framing parser through a FIFO slot.
type Frame [14]byte

// NewFrame assembles a signed DF17 extended-squitter frame from an ICAO
// address and a 7-byte ME field, computing and stamping its CRC-24. Useful
// for building test fixtures and for a simulated/replay transport.
func NewFrame(icao uint32, me [7]byte) Frame {
	var f Frame
	f[0] = dfExtendedSquitter << 3
	f[1] = byte(icao >> 16)
	f[2] = byte(icao >> 8)
	f[3] = byte(icao)
	copy(f[4:11], me[:])
	return Sign(f)
}

// df extracts the downlink format: top 5 bits of byte 0.
func (f Frame) df() uint8 {
	return (f[0] >> 3) & 0x1F
}

// cf extracts the control field: low 3 bits of byte 0 (meaningful for
// DF18/19 only).
func (f Frame) cf() uint8 {
	return f[0] & 0x07
}

// ICAO extracts the 24-bit ICAO address from bytes 1..3.
func (f Frame) ICAO() uint32 {
	return uint32(f[1])<<16 | uint32(f[2])<<8 | uint32(f[3])
}

// typeCode extracts the ME type code: top 5 bits of ME byte 0 (frame byte 4).
func (f Frame) typeCode() uint8 {
	return (f[4] >> 3) & 0x1F
}

// eligible reports whether this frame's DF/CF combination is one the
// dispatcher accepts: DF==17 (any CF), DF==18 with CF&6==0, or DF==19 with
// CF==0. All others are rejected silently (spec.md §4.6 step 1).
func (f Frame) eligible() bool {
	df, cf := f.df(), f.cf()
	switch {
	case df == dfExtendedSquitter:
		return true
	case df == dfExtendedSquitterTCA && cf&6 == 0:
		return true
	case df == dfExtendedSquitterMil && cf == 0:
		return true
	default:
		return false
	}
}
