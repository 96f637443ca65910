package mathx

// LerpU8 returns a + (b-a)*t/255 with t in [0..255] (Q8, 255 == 1.0).
// Result is in [min(a,b), max(a,b)]; t==0 gives a, t==255 gives b.
func LerpU8(a, b, t uint8) uint8 {
	d := int32(b) - int32(a)
	return uint8(int32(a) + (d*int32(t))/255)
}
