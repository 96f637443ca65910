//go:build !(rp2040 && board_azamai)

package main

import (
	"context"

	"arcadeio/bus"
)

func startRelay(context.Context, *bus.Connection) {}
