package adsb

import "strings"

// EncodeIdentification is the inverse of DecodeIdentification: it packs an
// 8-character callsign (space-padded/truncated as needed) into an
// identification message's ME field for the given type code.
func EncodeIdentification(typeCode uint8, callsign string) [7]byte {
	var codes [8]byte
	for i := range codes {
		ch := byte(' ')
		if i < len(callsign) {
			ch = callsign[i]
		}
		codes[i] = byte(strings.IndexByte(identCharset, ch))
	}

	var me [7]byte
	me[0] = typeCode << 3
	me[1] = codes[0]<<2 | codes[1]>>4
	me[2] = codes[1]<<4 | codes[2]>>2
	me[3] = codes[2]<<6 | codes[3]
	me[4] = codes[4]<<2 | codes[5]>>4
	me[5] = codes[5]<<4 | codes[6]>>2
	me[6] = codes[6]<<6 | codes[7]
	return me
}

// DecodeIdentification decodes the 8-character callsign from an
// identification message (type code 1..4): ME bits 9..56 as eight 6-bit
// characters, per spec.md §4.6.1.
func DecodeIdentification(f Frame) string {
	// ME byte 0 (frame byte 4) carries only the type code; the callsign
	// field starts at ME byte 1 (frame byte 5).
	me := f[5:11]
	codes := [8]byte{
		(me[0] & 0xFC) >> 2,
		((me[0] & 0x03) << 4) | (me[1] >> 4),
		((me[1] & 0x0F) << 2) | (me[2] >> 6),
		me[2] & 0x3F,
		(me[3] & 0xFC) >> 2,
		((me[3] & 0x03) << 4) | (me[4] >> 4),
		((me[4] & 0x0F) << 2) | (me[5] >> 6),
		me[5] & 0x3F,
	}

	out := make([]byte, 8)
	for i, c := range codes {
		out[i] = identCharset[c]
	}
	return string(out)
}
