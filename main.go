package main

import (
	"context"
	"time"

	"arcadeio/bus"
	"arcadeio/errcode"
	"arcadeio/services/config"
	"arcadeio/services/heartbeat"
	ioservice "arcadeio/services/io"
)

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(500 * time.Millisecond)
	println("[main] boot")

	ctx := context.Background()
	b := bus.NewBus(8)
	board := ioservice.SelectedBoard()

	store, err := config.Load(board.Name, board.ButtonPins)
	if err != nil {
		halt(err)
	}
	store.Start(ctx, b.NewConnection("config"))

	loops := &heartbeat.Counter{}
	svc := ioservice.New(ioservice.Options{
		Board:  board,
		Config: store,
		Conn:   b.NewConnection("io"),
		Loops:  loops,
	})
	if err := svc.Init(); err != nil {
		halt(err)
	}

	hb := &heartbeat.Service{Counter: loops}
	_ = hb.Start(ctx, b.NewConnection("heartbeat"))

	startRelay(ctx, b.NewConnection("relay"))

	println("[main] board", board.Name, "stuck", svc.Stuck())
	svc.Run(ctx)
}

// halt parks the firmware after an unrecoverable startup error.
func halt(err error) {
	for {
		println("[main] fatal:", string(errcode.Of(err)), err.Error())
		time.Sleep(5 * time.Second)
	}
}
