package fdtd

import (
	"github.com/notargets/gofdtd/decomposition"
	"github.com/notargets/gofdtd/grid"
	"github.com/notargets/gofdtd/types"
)

// EMFields holds the six Yee grid components of one rank
type EMFields struct {
	E, B [3]*grid.Field
}

// RegisterEMFields registers Ex,Ey,Ez,Bx,By,Bz with their Yee staggers
func RegisterEMFields(d *decomposition.Decomposition) (em *EMFields) {
	var (
		rank = d.Dimension()
	)
	em = &EMFields{}
	for axis := 0; axis < 3; axis++ {
		fe, fb := types.FieldComponent(axis), types.FieldComponent(axis)+types.Bx
		em.E[axis] = d.RegisterField(fe.String(), fe.Stagger(rank))
		em.B[axis] = d.RegisterField(fb.String(), fb.Stagger(rank))
	}
	return
}

func (em *EMFields) Component(fc types.FieldComponent) *grid.Field {
	if fc.IsMagnetic() {
		return em.B[fc.Axis()]
	}
	return em.E[fc.Axis()]
}

func (em *EMFields) All() []*grid.Field {
	return []*grid.Field{em.E[0], em.E[1], em.E[2], em.B[0], em.B[1], em.B[2]}
}
