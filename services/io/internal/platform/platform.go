// Package platform supplies the raw pin reader and LED transmission sink.
// Host builds get in-memory fakes; rp2040 and rp2350 builds drive the real
// hardware.
package platform

// GPIOMax is the highest GPIO number handed out on any build.
const GPIOMax = 29

// Pull selects the input bias.
type Pull uint8

const (
	PullNone Pull = iota
	PullUp
	PullDown
)

// Pin is one raw digital input.
type Pin interface {
	ConfigureInput(p Pull) error
	Get() bool
	Number() int
}

// PinFactory hands out pins by GPIO number.
type PinFactory interface {
	ByNumber(n int) (Pin, bool)
}
