package config

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"arcadeio/bus"
	"arcadeio/errcode"
	"arcadeio/types"
)

var testDefaults = []int{1, 0, 4, 5, 8, 9, 3, 2, 12, 11, 10, 14}

func TestLoadEmbedded(t *testing.T) {
	for _, board := range []string{"mai_pico", "azamai"} {
		s, err := Load(board, testDefaults)
		if err != nil {
			t.Fatalf("%s: Load: %v", board, err)
		}
		c := s.Snapshot()
		if len(c.Buttons) != len(testDefaults) {
			t.Fatalf("%s: %d overrides, want %d", board, len(c.Buttons), len(testDefaults))
		}
		for i, o := range c.Buttons {
			if _, set := o.Get(); set {
				t.Fatalf("%s: channel %d unexpectedly overridden", board, i)
			}
		}
		if c.PerButton < MinLEDsPerSlot || c.PerAux < MinLEDsPerSlot {
			t.Fatalf("%s: LED counts not clamped: %+v", board, c)
		}
	}
}

func TestLoadUnknownBoard(t *testing.T) {
	if _, err := Load("nope", testDefaults); errcode.Of(err) != errcode.InvalidParams {
		t.Fatalf("Load(nope) err = %v", err)
	}
}

func TestLoadLookupOverride(t *testing.T) {
	old := EmbeddedConfigLookup
	defer func() { EmbeddedConfigLookup = old }()
	EmbeddedConfigLookup = func(string) ([]byte, bool) {
		return []byte(`{"level":9,"per_button":40,"buttons":[255,7,null,31]}`), true
	}

	s, err := Load("x", testDefaults)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	c := s.Snapshot()
	if c.Level != 9 || c.PerButton != MaxLEDsPerSlot || c.PerAux != MinLEDsPerSlot {
		t.Fatalf("unexpected config %+v", c)
	}
	if _, set := c.Buttons[0].Get(); set {
		t.Fatal("255 must decode as unset")
	}
	if g, set := c.Buttons[1].Get(); !set || g != 7 {
		t.Fatalf("channel 1 = %d,%v", g, set)
	}
	if _, set := c.Buttons[2].Get(); set {
		t.Fatal("null must decode as unset")
	}
	// 31 is stored but resolves to the default.
	if got := c.Buttons[3].Resolve(testDefaults[3], MaxGPIO); got != testDefaults[3] {
		t.Fatalf("Resolve(31) = %d, want default %d", got, testDefaults[3])
	}
}

func TestPinOverrideJSON(t *testing.T) {
	b, err := json.Marshal([]PinOverride{Unset(), Pin(12)})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "[null,12]" {
		t.Fatalf("marshal = %s", b)
	}
	var o PinOverride
	if err := json.Unmarshal([]byte("300"), &o); err == nil {
		t.Fatal("expected error for 300")
	}
}

func TestSetButtonPin(t *testing.T) {
	s := New(Config{}, testDefaults)

	if err := s.SetButtonPin(0, 20); err != nil {
		t.Fatalf("SetButtonPin: %v", err)
	}
	if g, set := s.Snapshot().Override(0).Get(); !set || g != 20 {
		t.Fatalf("override = %d,%v", g, set)
	}

	// Assigning the default clears the override.
	if err := s.SetButtonPin(0, testDefaults[0]); err != nil {
		t.Fatal(err)
	}
	if _, set := s.Snapshot().Override(0).Get(); set {
		t.Fatal("default pin must be stored as unset")
	}

	if err := s.SetButtonPin(0, 30); err != errcode.UnknownPin {
		t.Fatalf("gpio 30 err = %v", err)
	}
	if err := s.SetButtonPin(len(testDefaults), 3); err != errcode.InvalidIndex {
		t.Fatalf("bad index err = %v", err)
	}
}

func TestResetPins(t *testing.T) {
	s := New(Config{}, testDefaults)
	_ = s.SetButtonPin(2, 20)
	_ = s.SetButtonPin(5, 21)
	s.ResetPins()
	for i, o := range s.Snapshot().Buttons {
		if _, set := o.Get(); set {
			t.Fatalf("channel %d still overridden", i)
		}
	}
}

func TestValidatedSetters(t *testing.T) {
	s := New(Config{PerButton: 3, PerAux: 2}, testDefaults)

	if err := s.SetLEDCounts(0, 4); err != errcode.InvalidParams {
		t.Fatalf("SetLEDCounts(0,4) err = %v", err)
	}
	if err := s.SetLEDCounts(4, 17); err != errcode.InvalidParams {
		t.Fatalf("SetLEDCounts(4,17) err = %v", err)
	}
	if c := s.Snapshot(); c.PerButton != 3 || c.PerAux != 2 {
		t.Fatalf("failed setter changed state: %+v", c)
	}
	if err := s.SetLEDCounts(16, 1); err != nil {
		t.Fatal(err)
	}
	if err := s.SetInputDelay(MaxInputDelay + 1); err != errcode.InvalidParams {
		t.Fatalf("SetInputDelay err = %v", err)
	}
	_ = s.SetInputDelay(2)
	s.SetLevel(200)
	s.SetGamma(true)
	s.SetActiveHigh(true, false)

	c := s.Snapshot()
	if c.PerButton != 16 || c.PerAux != 1 || c.InputDelay != 2 || c.Level != 200 ||
		!c.Gamma || !c.MainActiveHigh || c.AuxActiveHigh {
		t.Fatalf("unexpected config %+v", c)
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	s := New(Config{}, testDefaults)
	c := s.Snapshot()
	c.Buttons[0] = Pin(22)
	if _, set := s.Snapshot().Override(0).Get(); set {
		t.Fatal("mutating a snapshot leaked into the store")
	}
}

func TestLightingDoesNotAllocate(t *testing.T) {
	s := New(Config{Level: 90, PerButton: 3, PerAux: 2, Gamma: true}, testDefaults)
	want := Lighting{Level: 90, PerButton: 3, PerAux: 2, Gamma: true}
	if got := s.Lighting(); got != want {
		t.Fatalf("Lighting = %+v, want %+v", got, want)
	}
	if n := testing.AllocsPerRun(100, func() { _ = s.Lighting() }); n != 0 {
		t.Fatalf("Lighting allocs = %v", n)
	}
}

func TestStartPublishesRetained(t *testing.T) {
	b := bus.NewBus(4)
	conn := b.NewConnection("config")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := New(Config{Level: 50}, testDefaults)
	s.Start(ctx, conn)

	sub := b.NewConnection("test").Subscribe(bus.T(types.TokConfig, types.TokIO))
	select {
	case m := <-sub.Channel():
		if c, ok := m.Payload.(Config); !ok || c.Level != 50 {
			t.Fatalf("retained payload = %#v", m.Payload)
		}
	case <-time.After(time.Second):
		t.Fatal("no retained config")
	}

	s.SetLevel(60)
	select {
	case m := <-sub.Channel():
		if c := m.Payload.(Config); c.Level != 60 {
			t.Fatalf("update level = %d", c.Level)
		}
	case <-time.After(time.Second):
		t.Fatal("no config update")
	}
}
