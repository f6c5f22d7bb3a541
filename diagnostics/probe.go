package diagnostics

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"math/cmplx"
	"strconv"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"

	"github.com/notargets/gofdtd/grid"
)

// Probe records the time series of one field component at one global index
type Probe struct {
	Name   string
	Index  grid.Index
	field  *grid.Field
	owned  bool
	Times  []float64
	Values []float64
}

// NewProbe attaches to f; the probe is inactive on ranks that do not own the index
func NewProbe(name string, f *grid.Field, ind grid.Index) (p *Probe) {
	p = &Probe{
		Name:  name,
		Index: ind,
		field: f,
		owned: f.InnerRange().Contains(ind),
	}
	return
}

func (p *Probe) Owned() bool { return p.owned }

func (p *Probe) Record(t float64) {
	if !p.owned {
		return
	}
	p.Times = append(p.Times, t)
	p.Values = append(p.Values, p.field.Get(p.Index))
}

// MaxAbs is the largest magnitude recorded
func (p *Probe) MaxAbs() float64 {
	if len(p.Values) == 0 {
		return 0
	}
	return floats.Norm(p.Values, math.Inf(1))
}

/*
Spectrum returns the one sided amplitude spectrum of the recorded signal, assuming samples
spaced by dt. Frequencies are in Hz.
*/
func (p *Probe) Spectrum(dt float64) (freq, amp []float64) {
	var (
		n = len(p.Values)
	)
	if n == 0 {
		return
	}
	coeffs := fft.FFTReal(p.Values)
	half := n/2 + 1
	freq = make([]float64, half)
	amp = make([]float64, half)
	for i := 0; i < half; i++ {
		freq[i] = float64(i) / (float64(n) * dt)
		amp[i] = cmplx.Abs(coeffs[i]) / float64(n)
		if i != 0 && 2*i != n {
			amp[i] *= 2
		}
	}
	return
}

// PeakFrequency is the frequency of the largest non-constant spectral line
func (p *Probe) PeakFrequency(dt float64) (f float64) {
	freq, amp := p.Spectrum(dt)
	if len(amp) < 2 {
		return
	}
	return freq[1+floats.MaxIdx(amp[1:])]
}

// WriteCSV writes the owned probes as columns time,name,value
func WriteCSV(w io.Writer, probes []*Probe) (err error) {
	cw := csv.NewWriter(w)
	if err = cw.Write([]string{"time", "probe", "value"}); err != nil {
		return
	}
	for _, p := range probes {
		for i := range p.Values {
			rec := []string{
				strconv.FormatFloat(p.Times[i], 'g', -1, 64),
				p.Name,
				strconv.FormatFloat(p.Values[i], 'g', -1, 64),
			}
			if err = cw.Write(rec); err != nil {
				return fmt.Errorf("writing probe %s: %w", p.Name, err)
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
