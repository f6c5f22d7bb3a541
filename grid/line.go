package grid

import "fmt"

// Line is a one dimensional coefficient array indexed by the global index along one axis
type Line struct {
	Name   string
	Axis   int
	Lo, Hi int
	data   []float64
}

func NewLine(name string, axis, lo, hi int, val float64) (l *Line) {
	if hi < lo {
		panic(fmt.Errorf("line %s has an empty range [%d,%d]", name, lo, hi))
	}
	l = &Line{
		Name: name,
		Axis: axis,
		Lo:   lo,
		Hi:   hi,
		data: make([]float64, hi-lo+1),
	}
	l.Fill(val)
	return
}

func (l *Line) Get(i int) float64 { return l.data[i-l.Lo] }

func (l *Line) Set(i int, val float64) { l.data[i-l.Lo] = val }

func (l *Line) Fill(val float64) {
	for i := range l.data {
		l.data[i] = val
	}
}

func (l *Line) Contains(i int) bool { return i >= l.Lo && i <= l.Hi }
