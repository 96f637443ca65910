package color

import (
	"testing"

	"arcadeio/services/io/internal/topology"
)

func TestGamma(t *testing.T) {
	cases := []struct{ in, want uint8 }{
		{0, 0},
		{1, 0},
		{15, 0},
		{16, 1},
		{127, 63},
		{255, 255},
	}
	for _, c := range cases {
		if got := Gamma(c.in); got != c.want {
			t.Errorf("Gamma(%d) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestFromRGBOrder(t *testing.T) {
	if got := FromRGB(topology.OrderRGB, 0x11, 0x22, 0x33, false); got != 0x112233 {
		t.Fatalf("RGB = %06x", got)
	}
	if got := FromRGB(topology.OrderGRB, 0x11, 0x22, 0x33, false); got != 0x221133 {
		t.Fatalf("GRB = %06x", got)
	}
	// Gamma is applied per channel so it commutes with the reorder.
	if got := FromRGB(topology.OrderGRB, 255, 127, 0, true); got != 0x3FFF00 {
		t.Fatalf("GRB gamma = %06x", got)
	}
	if got := Gray(0x40, false); got != 0x404040 {
		t.Fatalf("Gray = %06x", got)
	}
}

func TestFromHSVZeroSaturationIsGray(t *testing.T) {
	for h := 0; h < 256; h++ {
		for v := 0; v < 256; v++ {
			want := uint32(v)<<16 | uint32(v)<<8 | uint32(v)
			if got := FromHSV(uint8(h), 0, uint8(v)); got != want {
				t.Fatalf("FromHSV(%d,0,%d) = %06x, want %06x", h, v, got, want)
			}
		}
	}
}

func TestFromHSVRegions(t *testing.T) {
	cases := []struct {
		h, s, v uint8
		want    uint32
	}{
		{0, 255, 255, 0xFF0000},
		{10, 255, 255, 0xFF3C00},
		{43, 255, 255, 0xFEFF00},
		{50, 255, 255, 0xD5FF00},
		{86, 255, 255, 0x00FF00},
		{129, 255, 255, 0x00FEFF},
		{172, 255, 255, 0x0000FF},
		{215, 255, 255, 0xFF00FE},
	}
	for _, c := range cases {
		if got := FromHSV(c.h, c.s, c.v); got != c.want {
			t.Errorf("FromHSV(%d,%d,%d) = %06x, want %06x", c.h, c.s, c.v, got, c.want)
		}
	}
}

func TestLerpIdentities(t *testing.T) {
	colors := []uint32{0x000000, 0xFFFFFF, 0xFF0000, 0x123456, 0xA0B0C0, 0x00FF7F}
	for _, a := range colors {
		for tt := 0; tt < 256; tt++ {
			if got := Lerp(a, a, uint8(tt)); got != a {
				t.Fatalf("Lerp(%06x,%06x,%d) = %06x", a, a, tt, got)
			}
		}
		for _, b := range colors {
			if got := Lerp(a, b, 0); got != a {
				t.Fatalf("Lerp(%06x,%06x,0) = %06x", a, b, got)
			}
			if got := Lerp(a, b, 255); got != b {
				t.Fatalf("Lerp(%06x,%06x,255) = %06x", a, b, got)
			}
		}
	}
}

func TestApplyLevel(t *testing.T) {
	cases := []struct {
		c     uint32
		level uint8
		want  uint32
	}{
		{0xFF0000, 255, 0xFF0000},
		{0xFF0000, 0, 0x000000},
		{0xFF8040, 128, 0x804020},
		{0x123456, 255, 0x123456},
	}
	for _, c := range cases {
		if got := ApplyLevel(c.c, c.level); got != c.want {
			t.Errorf("ApplyLevel(%06x,%d) = %06x, want %06x", c.c, c.level, got, c.want)
		}
	}
}
