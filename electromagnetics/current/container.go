package current

import (
	"github.com/notargets/gofdtd/decomposition"
	"github.com/notargets/gofdtd/grid"
	"github.com/notargets/gofdtd/types"
)

/*
Container owns the electric and magnetic current lists and reduces each list into one ambient
current density per half step.
*/
type Container struct {
	currents    []Current
	magCurrents []Current
	J, M        [3]*grid.Field
}

// NewContainer registers the ambient fields Jx,Jy,Jz and Mx,My,Mz with the decomposition
func NewContainer(d *decomposition.Decomposition) (c *Container) {
	var (
		rank = d.Dimension()
	)
	c = &Container{}
	for axis := 0; axis < 3; axis++ {
		c.J[axis] = d.RegisterField([]string{"Jx", "Jy", "Jz"}[axis], types.ElectricStagger(axis, rank))
		c.M[axis] = d.RegisterField([]string{"Mx", "My", "Mz"}[axis], types.MagneticStagger(axis, rank))
	}
	return
}

// AddCurrent initialises the current and keeps it only if it is valid on this rank
func (c *Container) AddCurrent(cur Current) {
	cur.Init()
	if cur.Valid() {
		c.currents = append(c.currents, cur)
	}
}

func (c *Container) AddMagCurrent(cur Current) {
	cur.Init()
	if cur.Valid() {
		c.magCurrents = append(c.magCurrents, cur)
	}
}

func (c *Container) NumCurrents() int { return len(c.currents) }

func (c *Container) NumMagCurrents() int { return len(c.magCurrents) }

func (c *Container) SumCurrents() { sumInto(c.J, c.currents) }

func (c *Container) SumMagCurrents() { sumInto(c.M, c.magCurrents) }

func sumInto(ambient [3]*grid.Field, list []Current) {
	for axis := 0; axis < 3; axis++ {
		ambient[axis].Clear()
	}
	for _, cur := range list {
		comps := cur.Components()
		for axis := 0; axis < 3; axis++ {
			ambient[axis].AddField(comps[axis])
		}
	}
}

func (c *Container) StepCurrentsInit(dt float64) {
	for _, cur := range c.currents {
		cur.StepSchemeInit(dt)
	}
}

func (c *Container) StepCurrents(dt float64) {
	for _, cur := range c.currents {
		cur.StepScheme(dt)
	}
}

func (c *Container) StepMagCurrentsInit(dt float64) {
	for _, cur := range c.magCurrents {
		cur.StepSchemeInit(dt)
	}
}

func (c *Container) StepMagCurrents(dt float64) {
	for _, cur := range c.magCurrents {
		cur.StepScheme(dt)
	}
}
