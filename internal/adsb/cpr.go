package adsb

import "math"

// airDLat gives the even/odd CPR latitude zone size in degrees, indexed by
// parity (0 = even, 1 = odd).
var airDLat = [2]float64{6.0, 360.0 / 59.0}

// CPRFrame is one parity slot (even or odd) of a plane's most recently
// received airborne-position field.
type CPRFrame struct {
	Valid bool
	Yz    int // 17-bit CPR-encoded latitude
	Xz    int // 17-bit CPR-encoded longitude
}

// EncodeCPR packs a latitude/longitude into the CPR zone convention for the
// given parity, the inverse of the values ExtractCPR pulls off the wire.
// Used to build test fixtures and by a simulated transport.
func EncodeCPR(lat, lon float64, parity int) CPRFrame {
	dLat := airDLat[parity]
	yz := int(pmod(lat, dLat) / dLat * cprMax)

	ni := nl(lat) - parity
	if ni < 1 {
		ni = 1
	}
	dLon := 360.0 / float64(ni)
	xz := int(pmod(lon, dLon) / dLon * cprMax)

	return CPRFrame{Valid: true, Yz: yz, Xz: xz}
}

// LocalDecode resolves a CPR position using a recent prior position,
// per spec.md §4.6.2's local-unambiguous algorithm. ok is false if the
// result fails the sanity gate (|Δlat| >= 1° or |Δlon| >= dlon/6); on
// failure the caller must not update the stored position and must clear
// pos_local_valid so the next frame re-enters global mode.
func LocalDecode(prev Position, parity int, frame CPRFrame) (pos Position, ok bool) {
	dLat := airDLat[parity]
	yz := float64(frame.Yz) / cprMax

	j := math.Floor(prev.Lat/dLat) +
		math.Floor(0.5+pmod(prev.Lat, dLat)/dLat-yz)
	lat := corrLat(dLat * (j + yz))

	ni := float64(nl(lat) - parity)
	if ni < 1 {
		ni = 1
	}
	dLon := 360.0 / ni
	xz := float64(frame.Xz) / cprMax

	m := math.Floor(prev.Lon/dLon) +
		math.Floor(0.5+pmod(prev.Lon, dLon)/dLon-xz)
	lon := corrLon(dLon * (m + xz))

	ok = math.Abs(prev.Lat-lat) < 1 && math.Abs(prev.Lon-lon) < dLon/6
	if !ok {
		return Position{}, false
	}
	return Position{Lat: lat, Lon: lon}, true
}

// GlobalDecode resolves a CPR position from a matched even/odd frame pair,
// per spec.md §4.6.2's global-unambiguous algorithm. parity selects which
// of the two frames is "current" (its longitude zone count and the
// resulting latitude are reported for that parity). ok is false if the
// even and odd frames fall in different NL zones.
func GlobalDecode(even, odd CPRFrame, parity int) (pos Position, ok bool) {
	yzEven := float64(even.Yz) / cprMax
	yzOdd := float64(odd.Yz) / cprMax

	j := math.Floor((59*float64(even.Yz)-60*float64(odd.Yz))/cprMax + 0.5)
	lat0 := corrLat(airDLat[0] * (pmod(j, 60) + yzEven))
	lat1 := corrLat(airDLat[1] * (pmod(j, 59) + yzOdd))

	nlEven := nl(lat0)
	if nlEven != nl(lat1) {
		return Position{}, false
	}

	ni := float64(nlEven - parity)
	if ni < 1 {
		ni = 1
	}
	dLon := 360.0 / ni

	xzEven := float64(even.Xz)
	xzOdd := float64(odd.Xz)
	m := math.Floor((xzEven*float64(nlEven-1)-xzOdd*float64(nlEven))/cprMax + 0.5)

	var xzCurrent float64
	if parity == 1 {
		xzCurrent = xzOdd / cprMax
	} else {
		xzCurrent = xzEven / cprMax
	}
	lon := corrLon(dLon * (pmod(m, ni) + xzCurrent))

	lat := lat0
	if parity == 1 {
		lat = lat1
	}
	return Position{Lat: lat, Lon: lon}, true
}
