// Package adsb decodes Mode-S extended-squitter ADS-B frames: CRC-24
// validation, CPR position resolution, and the per-type field decoders for
// identification, barometric altitude and airborne velocity.
package adsb

// identCharset maps a 6-bit identification character code to ASCII, per
// DO-260B: 0->' ', 1..26->'A'..'Z', 27..47->' ', 48..57->'0'..'9', 58..63->' '.
const identCharset = " ABCDEFGHIJKLMNOPQRSTUVWXYZ                     0123456789      "

// CPR field widths.
const (
	cprLatBits = 17
	cprLonBits = 17
	cprMax     = 1 << 17 // 2^17, shared by lat (yz) and lon (xz) fields
)

// Downlink formats this engine accepts.
const (
	dfExtendedSquitter    = 17
	dfExtendedSquitterTCA = 18
	dfExtendedSquitterMil = 19
)
