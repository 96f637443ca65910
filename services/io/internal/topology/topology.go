// Package topology describes the physical shape of a controller board: which
// GPIOs carry the buttons and how the addressable LEDs are chained.
package topology

import "arcadeio/errcode"

// GPIOMax is the highest GPIO a button may be remapped to.
const GPIOMax = 29

// Order is the wire channel order of the LED chips.
type Order uint8

const (
	OrderRGB Order = iota
	OrderGRB
)

// Kind tags the layout variant.
type Kind uint8

const (
	KindFlat Kind = iota
	KindTree
)

// Member is one named light within a tree pin group.
type Member struct {
	Name uint8
	LEDs int
}

// PinGroup is one physical LED data pin and its chain, in wire order.
type PinGroup struct {
	Pin     int
	Members []Member
}

// Layout is the LED side of a board. Flat uses Pin/Count/ButtonMap/CabBase,
// tree uses Groups.
type Layout struct {
	Kind Kind

	// flat
	Pin       int
	Count     int
	ButtonMap []int // logical button -> slot
	CabBase   int
	CabCount  int

	// tree
	Groups []PinGroup
}

// Ref identifies one LED slot: a flat index, or a (group, member name) pair.
type Ref struct {
	Group int
	Name  uint8
	Index int
	Tree  bool
}

// Index returns a flat slot reference.
func Index(i int) Ref { return Ref{Index: i} }

// MemberRef returns a tree member reference.
func MemberRef(group int, name uint8) Ref { return Ref{Group: group, Name: name, Tree: true} }

// Board is an immutable hardware description.
type Board struct {
	Name        string
	ButtonPins  []int // default GPIO per channel
	MainButtons int   // channels [0, MainButtons) belong to the main group
	Order       Order
	StuckCheck  bool
	Layout      Layout

	// Logical lights. Reader is nil when the board has no reader light.
	Buttons []Ref
	Cabs    []Ref
	Reader  *Ref
}

// Slot is one entry of the flattened transmission order.
type Slot struct {
	Ref   Ref
	Chain int // index into Chains()
	LEDs  int // fixed repeat; 0 means "taken from config"
	Aux   bool
}

// Chains returns the LED data pins in transmission order.
func (b Board) Chains() []int {
	if b.Layout.Kind == KindFlat {
		return []int{b.Layout.Pin}
	}
	pins := make([]int, len(b.Layout.Groups))
	for i, g := range b.Layout.Groups {
		pins[i] = g.Pin
	}
	return pins
}

// Slots flattens the layout: group order then member order for trees,
// index order for flat strips.
func (b Board) Slots() []Slot {
	l := b.Layout
	if l.Kind == KindFlat {
		out := make([]Slot, l.Count)
		for i := range out {
			out[i] = Slot{Ref: Index(i), Aux: i >= 8}
		}
		return out
	}
	var out []Slot
	for gi, g := range l.Groups {
		for _, m := range g.Members {
			out = append(out, Slot{Ref: MemberRef(gi, m.Name), Chain: gi, LEDs: m.LEDs})
		}
	}
	return out
}

// Find returns the slot position of ref within Slots().
func (b Board) Find(ref Ref) (int, error) {
	l := b.Layout
	if l.Kind == KindFlat {
		if ref.Tree || ref.Index < 0 || ref.Index >= l.Count {
			return -1, errcode.UnknownSlot
		}
		return ref.Index, nil
	}
	if !ref.Tree || ref.Group < 0 || ref.Group >= len(l.Groups) {
		return -1, errcode.UnknownMember
	}
	pos := 0
	for gi := 0; gi < ref.Group; gi++ {
		pos += len(l.Groups[gi].Members)
	}
	for mi, m := range l.Groups[ref.Group].Members {
		if m.Name == ref.Name {
			return pos + mi, nil
		}
	}
	return -1, errcode.UnknownMember
}

// Button returns the light of logical button n.
func (b Board) Button(n int) (Ref, bool) {
	if n < 0 || n >= len(b.Buttons) {
		return Ref{}, false
	}
	return b.Buttons[n], true
}

// Cab returns the light of cabinet position k.
func (b Board) Cab(k int) (Ref, bool) {
	if k < 0 || k >= len(b.Cabs) {
		return Ref{}, false
	}
	return b.Cabs[k], true
}

// Main reports whether channel ch is in the main button group.
func (b Board) Main(ch int) bool { return ch < b.MainButtons }
