package errcode

import (
	"errors"
	"testing"
)

func TestOf(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Code
	}{
		{"nil", nil, OK},
		{"code", UnknownMember, UnknownMember},
		{"wrapped", &E{C: HardwareInit, Op: "debounce.init", Err: errors.New("no pin")}, HardwareInit},
		{"foreign", errors.New("boom"), Error},
	}
	for _, tc := range cases {
		if got := Of(tc.err); got != tc.want {
			t.Errorf("%s: Of = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestEError(t *testing.T) {
	e := &E{C: UnknownPin, Op: "platform.pin", Msg: "gpio 31"}
	if got := e.Error(); got != "platform.pin: unknown_pin: gpio 31" {
		t.Fatalf("Error() = %q", got)
	}
	cause := errors.New("cause")
	if !errors.Is(&E{C: Error, Err: cause}, cause) {
		t.Fatal("Unwrap should expose cause")
	}
}

func TestFatal(t *testing.T) {
	if !Fatal(&E{C: HardwareInit}) {
		t.Fatal("hardware init must be fatal")
	}
	for _, c := range []Code{UnknownMember, UnknownSlot, InvalidIndex, UnknownPin} {
		if Fatal(c) {
			t.Errorf("%q must not be fatal", c)
		}
	}
}
