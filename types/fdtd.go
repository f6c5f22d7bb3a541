package types

import (
	"fmt"
	"strings"
)

// Direction identifies one face of the simulation box
type Direction uint8

const (
	West Direction = iota
	East
	South
	North
	Down
	Up
)

var Directions = []Direction{West, East, South, North, Down, Up}

var directionNames = []string{"west", "east", "south", "north", "down", "up"}

var DirectionNameMap = map[string]Direction{
	"west":  West,
	"east":  East,
	"south": South,
	"north": North,
	"down":  Down,
	"up":    Up,
	"xlow":  West,
	"xhigh": East,
	"ylow":  South,
	"yhigh": North,
	"zlow":  Down,
	"zhigh": Up,
}

func NewDirection(label string) (dir Direction, err error) {
	var ok bool
	if dir, ok = DirectionNameMap[strings.ToLower(strings.TrimSpace(label))]; !ok {
		err = fmt.Errorf("unknown direction %q", label)
	}
	return
}

func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return fmt.Sprintf("Direction(%d)", d)
}

// Normal is the axis perpendicular to the face
func (d Direction) Normal() int { return int(d) / 2 }

// IsHigh is true for the faces at the upper end of their axis
func (d Direction) IsHigh() bool { return int(d)%2 == 1 }

// Transverse returns the two tangential axes in cyclic order after the normal
func (d Direction) Transverse() (t1, t2 int) {
	n := d.Normal()
	t1, t2 = (n+1)%3, (n+2)%3
	return
}

// DirectionsForRank lists the faces that exist in a grid of the given rank
func DirectionsForRank(rank int) (dirs []Direction) {
	if rank < 1 || rank > 3 {
		panic(fmt.Errorf("unsupported spatial rank %d", rank))
	}
	return append(dirs, Directions[:2*rank]...)
}

// CheckDirection panics when the face does not exist for the rank
func CheckDirection(d Direction, rank int) {
	if d.Normal() >= rank {
		panic(fmt.Errorf("direction %s is not available in %d dimensions", d, rank))
	}
}

// FieldComponent names one of the six Yee grid field components
type FieldComponent uint8

const (
	Ex FieldComponent = iota
	Ey
	Ez
	Bx
	By
	Bz
)

var fieldComponentNames = []string{"Ex", "Ey", "Ez", "Bx", "By", "Bz"}

var FieldComponentNameMap = map[string]FieldComponent{
	"ex": Ex, "ey": Ey, "ez": Ez,
	"bx": Bx, "by": By, "bz": Bz,
}

func NewFieldComponent(label string) (fc FieldComponent, err error) {
	var ok bool
	if fc, ok = FieldComponentNameMap[strings.ToLower(strings.TrimSpace(label))]; !ok {
		err = fmt.Errorf("unknown field component %q", label)
	}
	return
}

func (fc FieldComponent) String() string {
	if int(fc) < len(fieldComponentNames) {
		return fieldComponentNames[fc]
	}
	return fmt.Sprintf("FieldComponent(%d)", fc)
}

func (fc FieldComponent) IsMagnetic() bool { return fc >= Bx }

// Axis is the vector direction of the component
func (fc FieldComponent) Axis() int { return int(fc) % 3 }

/*
Stagger returns the Yee grid offsets of the component for a grid of the given rank.
E components sit half a cell off along their own axis, B components half a cell off along the two
other axes. Axes at or beyond the rank are never staggered.
*/
func (fc FieldComponent) Stagger(rank int) (stagger [3]bool) {
	a := fc.Axis()
	for d := 0; d < rank; d++ {
		if fc.IsMagnetic() {
			stagger[d] = d != a
		} else {
			stagger[d] = d == a
		}
	}
	return
}

// ElectricStagger is the stagger shared by E and the electric current density of the same axis
func ElectricStagger(axis, rank int) [3]bool { return FieldComponent(axis).Stagger(rank) }

// MagneticStagger is the stagger shared by B and the magnetic current density of the same axis
func MagneticStagger(axis, rank int) [3]bool { return FieldComponent(axis + 3).Stagger(rank) }

// BoundaryKind selects the treatment of one axis of the simulation box
type BoundaryKind uint8

const (
	BoundaryWall BoundaryKind = iota
	BoundaryPeriodic
	BoundaryCPML
)

var BoundaryNameMap = map[string]BoundaryKind{
	"wall":     BoundaryWall,
	"pec":      BoundaryWall,
	"periodic": BoundaryPeriodic,
	"cpml":     BoundaryCPML,
	"pml":      BoundaryCPML,
}

func NewBoundaryKind(label string) (bk BoundaryKind, err error) {
	var ok bool
	if bk, ok = BoundaryNameMap[strings.ToLower(strings.TrimSpace(label))]; !ok {
		err = fmt.Errorf("unknown boundary type %q", label)
	}
	return
}

func (bk BoundaryKind) String() string {
	switch bk {
	case BoundaryWall:
		return "wall"
	case BoundaryPeriodic:
		return "periodic"
	case BoundaryCPML:
		return "cpml"
	}
	return fmt.Sprintf("BoundaryKind(%d)", bk)
}
