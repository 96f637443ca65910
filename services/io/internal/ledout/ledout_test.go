package ledout

import (
	"errors"
	"testing"
	"time"

	"arcadeio/services/config"
	"arcadeio/services/io/internal/platform"
	"arcadeio/services/io/internal/topology"
	"arcadeio/x/timex"
)

func TestPushFlatRepeatsAndReorders(t *testing.T) {
	b := topology.MaiPico()
	sink := &platform.RecordingSink{}
	d := New(b, sink, &timex.Manual{})

	colors := make([]uint32, 20)
	colors[0] = 0xFF0000
	colors[8] = 0x0000FF
	cfg := config.Lighting{PerButton: 2, PerAux: 1}

	ok, err := d.Push(4*time.Millisecond, colors, cfg)
	if !ok || err != nil {
		t.Fatalf("Push = %v,%v", ok, err)
	}
	frame := sink.Frame(0)
	if len(frame) != 8*2+12*1 {
		t.Fatalf("frame len = %d", len(frame))
	}
	// GRB: red lands in the middle byte.
	if frame[0] != 0x00FF00 || frame[1] != 0x00FF00 || frame[2] != 0 {
		t.Fatalf("button words = %06x", frame[:3])
	}
	if frame[16] != 0x0000FF {
		t.Fatalf("aux word = %06x", frame[16])
	}
}

func TestPushTreeChains(t *testing.T) {
	b := topology.AzaMai()
	sink := &platform.RecordingSink{}
	d := New(b, sink, &timex.Manual{})

	colors := make([]uint32, len(b.Slots()))
	colors[12] = 0x102030
	if _, err := d.Push(time.Second, colors, config.Lighting{PerButton: 9, PerAux: 9}); err != nil {
		t.Fatal(err)
	}
	if n := len(sink.Frame(0)); n != 16 {
		t.Fatalf("chain 0 len = %d", n)
	}
	if n := len(sink.Frame(1)); n != 4 {
		t.Fatalf("chain 1 len = %d", n)
	}
	reader := sink.Frame(2)
	if len(reader) != 2 || reader[0] != 0x201030 || reader[1] != 0x201030 {
		t.Fatalf("chain 2 = %06x", reader)
	}
}

func TestPushThrottle(t *testing.T) {
	b := topology.MaiPico()
	sink := &platform.RecordingSink{}
	d := New(b, sink, &timex.Manual{})
	cfg := config.Lighting{PerButton: 1, PerAux: 1}
	colors := make([]uint32, 20)

	if ok, _ := d.Push(10*time.Millisecond, colors, cfg); !ok {
		t.Fatal("first push skipped")
	}
	if ok, _ := d.Push(13*time.Millisecond, colors, cfg); ok {
		t.Fatal("push within 4 ms not throttled")
	}
	if ok, _ := d.Push(14*time.Millisecond, colors, cfg); !ok {
		t.Fatal("push at 4 ms skipped")
	}
	if sink.Writes() != 2 {
		t.Fatalf("writes = %d", sink.Writes())
	}
}

func TestPushGamma(t *testing.T) {
	b := topology.MaiPico()
	sink := &platform.RecordingSink{}
	d := New(b, sink, &timex.Manual{})
	colors := make([]uint32, 20)
	colors[0] = 0x7F0000
	if _, err := d.Push(time.Second, colors, config.Lighting{PerButton: 1, PerAux: 1, Gamma: true}); err != nil {
		t.Fatal(err)
	}
	if got := sink.Frame(0)[0]; got != 0x003F00 {
		t.Fatalf("gamma word = %06x", got)
	}
}

func TestPushSinkError(t *testing.T) {
	boom := errors.New("boom")
	sink := &platform.RecordingSink{Err: boom}
	d := New(topology.MaiPico(), sink, &timex.Manual{})
	if _, err := d.Push(time.Second, make([]uint32, 20), config.Lighting{}); !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
}
