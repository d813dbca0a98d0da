package adsb

import "math"

// VerticalRate is the decoded climb/descent rate from an airborne-velocity
// message, valid for any accepted subtype (1..4).
type VerticalRate struct {
	MagnitudeFtMin int
	Up             bool
}

// velocitySubtype returns ME0 & 7 (frame byte 4 & 0x07).
func velocitySubtype(f Frame) uint8 {
	return f[4] & 0x07
}

// DecodeVerticalRate decodes the 9-bit vertical-rate magnitude code at ME
// bits 38..46 (frame bytes 8..9), common to all accepted velocity subtypes,
// per spec.md §4.6.4. ok is false when the code is zero.
func DecodeVerticalRate(f Frame) (vr VerticalRate, ok bool) {
	code := int(f[8]&0x07)<<6 | int(f[9]&0xFC)>>2
	if code == 0 {
		return VerticalRate{}, false
	}
	return VerticalRate{
		MagnitudeFtMin: (code - 1) * 64,
		Up:             f[8]&0x08 == 0,
	}, true
}

// DecodeVelocitySubtype1Bearing decodes the ground-track bearing from a
// subtype-1 airborne-velocity message's E/W and N/S velocity components,
// per spec.md §4.6.4. ok is false unless both the E/W and N/S magnitude
// codes are non-zero (the corrected guard — the reference decoder's
// "ewVelocityCode != 0 && ewVelocityCode != 0" duplicated the E/W check
// instead of also testing N/S).
func DecodeVelocitySubtype1Bearing(f Frame) (bearingDeg float64, ok bool) {
	if velocitySubtype(f) != 1 {
		return 0, false
	}

	isWest := f[5]&0x04 != 0
	ewCode := int(f[5]&0x03)<<8 | int(f[6])
	isSouth := f[7]&0x80 != 0
	nsCode := int(f[7]&0x7F)<<3 | int(f[8]&0xE0)>>5

	if ewCode == 0 || nsCode == 0 {
		return 0, false
	}

	ewVel := ewCode - 1
	if isWest {
		ewVel = -ewVel
	}
	nsVel := nsCode - 1
	if isSouth {
		nsVel = -nsVel
	}

	bearing := 90 - math.Atan2(float64(nsVel), float64(ewVel))*180/math.Pi
	bearing = math.Mod(bearing, 360)
	if bearing < 0 {
		bearing += 360
	}
	return bearing, true
}
