//go:build rp2040

package relay

import (
	"context"
	"machine"
	"time"

	"arcadeio/errcode"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"
)

// Card reader daughterboard wiring.
const (
	uartTX = machine.GPIO8
	uartRX = machine.GPIO9
)

// ---- uartPort: adapts uartx to Port ----
type uartPort struct{ u *uartx.UART }

func (p *uartPort) Write(b []byte) (int, error) { return p.u.Write(b) }
func (p *uartPort) RecvSomeContext(ctx context.Context, buf []byte) (int, error) {
	return p.u.RecvSomeContext(ctx, buf)
}

// OpenUART configures UART1 at 9600 8N1.
func OpenUART() (Port, error) {
	hw := uartx.UART1
	if err := hw.Configure(uartx.UARTConfig{
		BaudRate: Baud,
		TX:       uartTX,
		RX:       uartRX,
	}); err != nil {
		return nil, &errcode.E{C: errcode.HardwareInit, Op: "relay.uart", Err: err}
	}
	hw.SetBaudRate(Baud)
	if err := hw.SetFormat(DataBits, StopBits, uartx.ParityNone); err != nil {
		return nil, &errcode.E{C: errcode.HardwareInit, Op: "relay.uart", Err: err}
	}
	return &uartPort{u: hw}, nil
}

// ---- cdcPort: USB CDC, polled at 1 kHz ----
type cdcPort struct{}

func (cdcPort) Write(b []byte) (int, error) { return machine.Serial.Write(b) }

func (cdcPort) RecvSomeContext(ctx context.Context, buf []byte) (int, error) {
	for machine.Serial.Buffered() == 0 {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(time.Millisecond):
		}
	}
	n := 0
	for n < len(buf) && machine.Serial.Buffered() > 0 {
		b, err := machine.Serial.ReadByte()
		if err != nil {
			break
		}
		buf[n] = b
		n++
	}
	return n, nil
}

// OpenHost returns the USB CDC side.
func OpenHost() (Port, error) {
	if err := machine.Serial.Configure(machine.UARTConfig{}); err != nil {
		return nil, &errcode.E{C: errcode.HardwareInit, Op: "relay.cdc", Err: err}
	}
	return cdcPort{}, nil
}
