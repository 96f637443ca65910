package config

// -----------------------------------------------------------------------------
// Embedded configuration
//
// Factory defaults per board. Key: board name (topology.Board.Name).
// Buttons may be omitted or null entries, meaning "board default pin".
// -----------------------------------------------------------------------------

const cfgMaiPico = `{
  "level": 127,
  "per_button": 1,
  "per_aux": 1,
  "main_button_active_high": false,
  "aux_button_active_high": false,
  "gamma": false,
  "input_delay": 0,
  "buttons": []
}`

const cfgAzaMai = `{
  "level": 127,
  "per_button": 1,
  "per_aux": 1,
  "main_button_active_high": false,
  "aux_button_active_high": false,
  "gamma": false,
  "input_delay": 0,
  "buttons": []
}`

var embeddedConfigs = map[string][]byte{
	"mai_pico": []byte(cfgMaiPico),
	"azamai":   []byte(cfgAzaMai),
}
