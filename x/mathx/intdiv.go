package mathx

// ScaleU8 returns x*k/255, i.e. x scaled by k in [0..255] (255 == 1.0).
func ScaleU8(x, k uint8) uint8 {
	return uint8(uint16(x) * uint16(k) / 255)
}

// RoundDiv returns floor((a + b/2)/b), classic rounding for positives.
func RoundDiv[T ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64](a, b T) T {
	if b == 0 {
		return 0
	}
	return (a + b/2) / b
}
