package relay

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"arcadeio/bus"
	"arcadeio/types"
)

// fakePort delivers queued chunks and records writes.
type fakePort struct {
	in chan []byte

	mu  sync.Mutex
	out bytes.Buffer
	err error
}

func newFakePort() *fakePort { return &fakePort{in: make(chan []byte, 64)} }

func (p *fakePort) RecvSomeContext(ctx context.Context, buf []byte) (int, error) {
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case b := <-p.in:
		return copy(buf, b), nil
	}
}

func (p *fakePort) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return 0, p.err
	}
	return p.out.Write(b)
}

func (p *fakePort) written() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.out.String()
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timeout waiting for %s", what)
		}
		time.Sleep(2 * time.Millisecond)
	}
}

func TestRelayBothDirections(t *testing.T) {
	b := bus.NewBus(8)
	stateSub := b.NewConnection("test").Subscribe(topicState)

	uart, host := newFakePort(), newFakePort()
	s := New(uart, host, b.NewConnection("relay"))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() { s.Run(ctx); close(done) }()

	uart.in <- []byte("card:")
	uart.in <- []byte("1234")
	host.in <- []byte("poll")

	waitFor(t, "uart->host", func() bool { return host.written() == "card:1234" })
	waitFor(t, "host->uart", func() bool { return uart.written() == "poll" })

	st := s.Stats()
	if st.UpBytes != 9 || st.DownBytes != 4 || st.Drops != 0 {
		t.Fatalf("stats = %+v", st)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return")
	}

	var levels []string
	for len(levels) < 2 {
		select {
		case m := <-stateSub.Channel():
			levels = append(levels, m.Payload.(types.RelayState).Level)
		case <-time.After(time.Second):
			t.Fatalf("states = %v", levels)
		}
	}
	if levels[0] != "running" || levels[1] != "stopped" {
		t.Fatalf("states = %v", levels)
	}
}

func TestFillDropsWhenRingFull(t *testing.T) {
	src := newFakePort()
	s := New(src, newFakePort(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.fill(ctx, src, s.up)

	chunk := bytes.Repeat([]byte{0xAA}, chunkSize)
	for i := 0; i < ringSize/chunkSize+2; i++ {
		src.in <- chunk
	}
	waitFor(t, "drops", func() bool { return s.Stats().Drops == 2*chunkSize })
	if got := s.up.Available(); got != ringSize {
		t.Fatalf("ring holds %d, want %d", got, ringSize)
	}
}

func TestWriteErrorPublishesState(t *testing.T) {
	b := bus.NewBus(8)
	stateSub := b.NewConnection("test").Subscribe(topicState)

	uart, host := newFakePort(), newFakePort()
	host.err = errors.New("usb gone")
	s := New(uart, host, b.NewConnection("relay"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)
	uart.in <- []byte("x")

	deadline := time.After(2 * time.Second)
	for {
		select {
		case m := <-stateSub.Channel():
			st := m.Payload.(types.RelayState)
			if st.Level == "error" {
				if st.Status != "write_failed" || st.Error != "usb gone" {
					t.Fatalf("state = %+v", st)
				}
				return
			}
		case <-deadline:
			t.Fatal("no error state")
		}
	}
}
