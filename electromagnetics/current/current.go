package current

import (
	"github.com/notargets/gofdtd/decomposition"
	"github.com/notargets/gofdtd/grid"
	"github.com/notargets/gofdtd/types"
)

/*
Current produces the three components of a current density over a sub-range of the local grid.
Magnetic currents implement the same interface and enter the B update the way electric currents
enter the E update.
*/
type Current interface {
	// Init allocates the components, a current that has no local cells stays invalid
	Init()
	StepSchemeInit(dt float64)
	StepScheme(dt float64)
	Components() [3]*grid.Field
	Valid() bool
}

// Factory creates currents and hands them to a container
type Factory interface {
	InitCurrents(container *Container)
}

// Base stores the components and provides the validity rule shared by all currents
type Base struct {
	J [3]*grid.Field
}

func (b *Base) Components() [3]*grid.Field { return b.J }

// Valid is true when all three components exist and hold at least one cell
func (b *Base) Valid() bool {
	for _, f := range b.J {
		if f == nil || f.Empty() {
			return false
		}
	}
	return true
}

func (b *Base) StepSchemeInit(dt float64) {}

/*
Allocate creates the three components over r as private fields with the stagger of the field they
drive: E stagger for electric currents, B stagger for magnetic currents.
*/
func (b *Base) Allocate(d *decomposition.Decomposition, name string, r grid.Range, magnetic bool) {
	var (
		rank = d.Dimension()
	)
	for axis := 0; axis < 3; axis++ {
		fc := types.FieldComponent(axis)
		if magnetic {
			fc += types.Bx
		}
		b.J[axis] = d.NewField(name+fc.String(), r, fc.Stagger(rank))
	}
}
