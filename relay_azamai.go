//go:build rp2040 && board_azamai

package main

import (
	"context"

	"arcadeio/bus"
	"arcadeio/services/relay"
)

// startRelay bridges the card reader UART to USB. Failure leaves the
// controller running without the reader.
func startRelay(ctx context.Context, conn *bus.Connection) {
	uart, err := relay.OpenUART()
	if err != nil {
		println("[relay] uart:", err.Error())
		return
	}
	host, err := relay.OpenHost()
	if err != nil {
		println("[relay] cdc:", err.Error())
		return
	}
	go relay.New(uart, host, conn).Run(ctx)
}
