// Package relay forwards bytes between the card-reader UART and the host
// serial interface, through one bounded ring per direction.
package relay

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"arcadeio/bus"
	"arcadeio/types"
	"arcadeio/x/shmring"
)

const (
	Baud     = 9600
	DataBits = 8
	StopBits = 1

	ringSize  = 1024
	chunkSize = 64
	retryWait = 10 * time.Millisecond
	fullWait  = time.Millisecond
)

var topicState = bus.T(types.TokRelay, types.TokState)

// Port is one side of the relay.
type Port interface {
	Write(p []byte) (int, error)
	RecvSomeContext(ctx context.Context, p []byte) (int, error)
}

type Service struct {
	uart Port
	host Port
	conn *bus.Connection

	up   *shmring.Ring // uart -> host
	down *shmring.Ring // host -> uart

	upBytes   atomic.Uint32
	downBytes atomic.Uint32
	drops     atomic.Uint32
}

// New creates a relay between uart and host. conn may be nil.
func New(uart, host Port, conn *bus.Connection) *Service {
	return &Service{
		uart: uart,
		host: host,
		conn: conn,
		up:   shmring.New(ringSize),
		down: shmring.New(ringSize),
	}
}

func (s *Service) publishState(level, status string, err error) {
	if s.conn == nil {
		return
	}
	st := types.RelayState{Level: level, Status: status}
	if err != nil {
		st.Error = err.Error()
	}
	s.conn.Publish(s.conn.NewMessage(topicState, st, true))
}

// Stats returns byte and drop counters since start.
func (s *Service) Stats() types.RelayStats {
	return types.RelayStats{
		UpBytes:   s.upBytes.Load(),
		DownBytes: s.downBytes.Load(),
		Drops:     s.drops.Load(),
	}
}

// Run pumps both directions until ctx is done.
func (s *Service) Run(ctx context.Context) {
	s.publishState("running", "relay_started", nil)

	var wg sync.WaitGroup
	wg.Add(4)
	go func() { defer wg.Done(); s.fill(ctx, s.uart, s.up) }()
	go func() { defer wg.Done(); s.drain(ctx, s.up, s.host, &s.upBytes) }()
	go func() { defer wg.Done(); s.fill(ctx, s.host, s.down) }()
	go func() { defer wg.Done(); s.drain(ctx, s.down, s.uart, &s.downBytes) }()
	wg.Wait()

	s.publishState("stopped", "context_done", nil)
}

// fill reads from src into r. When r is full it waits briefly for the
// consumer, then drops what still does not fit.
func (s *Service) fill(ctx context.Context, src Port, r *shmring.Ring) {
	buf := make([]byte, chunkSize)
	for {
		n, err := src.RecvSomeContext(ctx, buf)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			if !errors.Is(err, context.DeadlineExceeded) {
				s.publishState("error", "read_failed", err)
				if !sleep(ctx, retryWait) {
					return
				}
			}
			continue
		}
		p := buf[:n]
		p = p[r.TryWriteFrom(p):]
		if len(p) > 0 {
			select {
			case <-ctx.Done():
				return
			case <-r.Writable():
			case <-time.After(fullWait):
			}
			p = p[r.TryWriteFrom(p):]
			s.drops.Add(uint32(len(p)))
		}
	}
}

// drain copies everything buffered in r to dst.
func (s *Service) drain(ctx context.Context, r *shmring.Ring, dst Port, count *atomic.Uint32) {
	buf := make([]byte, chunkSize)
	for {
		n := r.TryReadInto(buf)
		if n == 0 {
			select {
			case <-ctx.Done():
				return
			case <-r.Readable():
			}
			continue
		}
		p := buf[:n]
		for len(p) > 0 {
			w, err := dst.Write(p)
			if err != nil {
				s.publishState("error", "write_failed", err)
				s.drops.Add(uint32(len(p)))
				if !sleep(ctx, retryWait) {
					return
				}
				break
			}
			count.Add(uint32(w))
			p = p[w:]
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
