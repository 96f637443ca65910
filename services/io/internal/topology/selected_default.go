//go:build !board_azamai

package topology

// Selected returns the board this firmware image was built for.
func Selected() Board { return MaiPico() }
