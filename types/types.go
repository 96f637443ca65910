package types

// ------------------------
// Topic tokens
// ------------------------

const (
	TokInput     = "input"
	TokButtons   = "buttons"
	TokStuck     = "stuck"
	TokHost      = "host"
	TokActive    = "active"
	TokConfig    = "config"
	TokIO        = "io"
	TokHeartbeat = "heartbeat"
	TokRates     = "rates"
	TokRelay     = "relay"
	TokState     = "state"
)

// ------------------------
// Input
// ------------------------

// ButtonsValue is the debounced button bitmask; bit i is channel i.
type ButtonsValue struct {
	Mask uint16 `json:"mask"`
}

// StuckValue is the power-on self-test result (flat boards only).
type StuckValue struct {
	Stuck bool `json:"stuck"`
}

// HostActive is published by the HID layer while a game drives the lights.
type HostActive struct {
	Active bool `json:"active"`
}

// ------------------------
// Monitoring
// ------------------------

// LoopRates reports iterations per second of each execution context.
type LoopRates struct {
	InputHz    uint32 `json:"input_hz"`
	LightingHz uint32 `json:"lighting_hz"`
}

type HeartbeatConfig struct {
	IntervalMs uint32 `json:"interval_ms"`
}

// ------------------------
// Relay
// ------------------------

type RelayState struct {
	Level  string `json:"level"`  // "idle", "running", "stopped", "error"
	Status string `json:"status"` // short code
	Error  string `json:"error,omitempty"`
}

type RelayStats struct {
	UpBytes   uint32 `json:"up_bytes"`   // uart -> usb
	DownBytes uint32 `json:"down_bytes"` // usb -> uart
	Drops     uint32 `json:"drops"`
}
