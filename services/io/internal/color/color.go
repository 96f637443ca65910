// Package color holds the pure 24-bit colour arithmetic used by the lighting
// engine. Colours are packed 0xC1C2C3; logical colours are 0xRRGGBB.
package color

import (
	"arcadeio/services/io/internal/topology"
	"arcadeio/x/mathx"
)

// Gamma is the cheap square-law curve ((x+1)^2-1)>>8.
func Gamma(x uint8) uint8 {
	v := uint32(x) + 1
	return uint8((v*v - 1) >> 8)
}

// Pack joins three channels, applying Gamma to each first when gamma is set.
func Pack(c1, c2, c3 uint8, gamma bool) uint32 {
	if gamma {
		c1, c2, c3 = Gamma(c1), Gamma(c2), Gamma(c3)
	}
	return uint32(c1)<<16 | uint32(c2)<<8 | uint32(c3)
}

// Split returns the three channels of c, high byte first.
func Split(c uint32) (uint8, uint8, uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// FromRGB reorders r,g,b to the wire order and packs.
func FromRGB(order topology.Order, r, g, b uint8, gamma bool) uint32 {
	if order == topology.OrderGRB {
		return Pack(g, r, b, gamma)
	}
	return Pack(r, g, b, gamma)
}

// Gray is FromRGB with all channels equal; order does not matter.
func Gray(v uint8, gamma bool) uint32 { return Pack(v, v, v, gamma) }

// FromHSV converts h,s,v (all 0..255) to a logical 0xRRGGBB colour using
// the six-region integer algorithm. No gamma.
func FromHSV(h, s, v uint8) uint32 {
	if s == 0 {
		return Gray(v, false)
	}
	region := uint32(h) / 43
	rem := (uint32(h) % 43) * 6
	vv, ss := uint32(v), uint32(s)

	p := uint8((vv * (255 - ss)) >> 8)
	q := uint8((vv * (255 - ((ss * rem) >> 8))) >> 8)
	t := uint8((vv * (255 - ((ss * (255 - rem)) >> 8))) >> 8)

	switch region {
	case 0:
		return Pack(v, t, p, false)
	case 1:
		return Pack(q, v, p, false)
	case 2:
		return Pack(p, v, t, false)
	case 3:
		return Pack(p, q, v, false)
	case 4:
		return Pack(t, p, v, false)
	default:
		return Pack(v, p, q, false)
	}
}

// Lerp interpolates each channel independently; t is 0..255.
func Lerp(a, b uint32, t uint8) uint32 {
	a1, a2, a3 := Split(a)
	b1, b2, b3 := Split(b)
	return Pack(mathx.LerpU8(a1, b1, t), mathx.LerpU8(a2, b2, t), mathx.LerpU8(a3, b3, t), false)
}

// ApplyLevel scales each channel by level/255.
func ApplyLevel(c uint32, level uint8) uint32 {
	c1, c2, c3 := Split(c)
	return Pack(mathx.ScaleU8(c1, level), mathx.ScaleU8(c2, level), mathx.ScaleU8(c3, level), false)
}
