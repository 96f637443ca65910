//go:build board_azamai

package topology

func Selected() Board { return AzaMai() }
