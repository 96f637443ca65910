package topology

// MaiPico is the single-strip board on GPIO 13. The ring is wired in reverse
// pairs, hence the button map; cabinet lights follow at slot 8.
func MaiPico() Board {
	buttonMap := []int{5, 4, 3, 2, 1, 0, 7, 6, 8, 9, 10, 11}
	btn := make([]Ref, len(buttonMap))
	for i, slot := range buttonMap {
		btn[i] = Index(slot)
	}
	cabs := make([]Ref, 3)
	for k := range cabs {
		cabs[k] = Index(8 + k)
	}
	return Board{
		Name:        "mai_pico",
		ButtonPins:  []int{1, 0, 4, 5, 8, 9, 3, 2, 12, 11, 10, 14},
		MainButtons: 8,
		Order:       OrderGRB,
		StuckCheck:  true,
		Layout: Layout{
			Kind:      KindFlat,
			Pin:       13,
			Count:     20,
			ButtonMap: buttonMap,
			CabBase:   8,
			CabCount:  3,
		},
		Buttons: btn,
		Cabs:    cabs,
	}
}

// AzaMai is the tree board: button ring on GPIO 22, cabinet lights on 15 and
// the card reader light on 28.
func AzaMai() Board {
	ring := []Member{
		{3, 2}, {2, 2}, {1, 2}, {0, 2}, {7, 2}, {6, 2}, {5, 2}, {4, 2},
	}
	btn := make([]Ref, 8)
	for i := range btn {
		btn[i] = MemberRef(0, uint8(i))
	}
	cabs := make([]Ref, 4)
	for k := range cabs {
		cabs[k] = MemberRef(1, uint8(k))
	}
	reader := MemberRef(2, 0)
	return Board{
		Name:        "azamai",
		ButtonPins:  []int{4, 5, 21, 20, 27, 26, 6, 7, 10, 11, 12, 13},
		MainButtons: 8,
		Order:       OrderGRB,
		Layout: Layout{
			Kind: KindTree,
			Groups: []PinGroup{
				{Pin: 22, Members: ring},
				{Pin: 15, Members: []Member{{0, 1}, {1, 1}, {2, 1}, {3, 1}}},
				{Pin: 28, Members: []Member{{0, 2}}},
			},
		},
		Buttons: btn,
		Cabs:    cabs,
		Reader:  &reader,
	}
}
