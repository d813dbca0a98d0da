package adsb

// ExtractCPR pulls the parity bit and the raw 17-bit latitude/longitude CPR
// codes out of an airborne-position message's ME field (type code 9..18),
// per spec.md §4.6.2. parity is 0 for an even frame, 1 for odd.
func ExtractCPR(f Frame) (parity int, frame CPRFrame) {
	parity = int(f[6]&0x04) >> 2
	yz := int(f[6]&0x03)<<15 | int(f[7])<<7 | int(f[8])>>1
	xz := int(f[8]&0x01)<<16 | int(f[9])<<8 | int(f[10])
	return parity, CPRFrame{Valid: true, Yz: yz, Xz: xz}
}
