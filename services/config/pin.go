package config

import (
	"encoding/json"

	"arcadeio/errcode"
)

// MaxGPIO is the highest user GPIO on the RP2040.
const MaxGPIO = 29

// legacyUnset is the flash encoding of "no override".
const legacyUnset = 0xff

// PinOverride is an optional GPIO assignment for one button channel.
// The zero value means "use the board default".
type PinOverride struct {
	gpio uint8
	set  bool
}

// Pin returns an override pointing at gpio.
func Pin(gpio uint8) PinOverride { return PinOverride{gpio: gpio, set: true} }

// Unset returns the "use default" override.
func Unset() PinOverride { return PinOverride{} }

// Get returns the override and whether one is set.
func (o PinOverride) Get() (uint8, bool) { return o.gpio, o.set }

// Resolve returns the GPIO to drive. An unset override, or one above max,
// falls back to def.
func (o PinOverride) Resolve(def, max int) int {
	if !o.set || int(o.gpio) > max {
		return def
	}
	return int(o.gpio)
}

func (o PinOverride) MarshalJSON() ([]byte, error) {
	if !o.set {
		return []byte("null"), nil
	}
	return json.Marshal(o.gpio)
}

// UnmarshalJSON accepts null, or a number where 255 is the legacy "unset".
func (o *PinOverride) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*o = Unset()
		return nil
	}
	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	switch {
	case n == legacyUnset:
		*o = Unset()
	case n < 0 || n > legacyUnset:
		return errcode.UnknownPin
	default:
		*o = Pin(uint8(n))
	}
	return nil
}
