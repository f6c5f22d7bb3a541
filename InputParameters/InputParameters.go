package InputParameters

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/ghodss/yaml"

	"github.com/notargets/gofdtd/electromagnetics/cpml"
	"github.com/notargets/gofdtd/types"
	"github.com/notargets/gofdtd/utils"
)

// Parameters obtained from the YAML input file
type InputParametersFDTD struct {
	Title          string             `json:"Title"`
	Dimension      int                `json:"Dimension"`
	GridSize       [3]int             `json:"GridSize"`
	Dx             [3]float64         `json:"Dx"`
	CFL            float64            `json:"CFL"`
	FinalTime      float64            `json:"FinalTime"`
	ParallelDegree int                `json:"ParallelDegree"`
	LogFrequency   int                `json:"LogFrequency"`
	Boundaries     []string           `json:"Boundaries"` // one per axis: wall, periodic or cpml
	CPML           CPMLParameters     `json:"CPML"`
	Sources        []SourceParameters `json:"Sources"`
	Probes         []ProbeParameters  `json:"Probes"`
}

type CPMLParameters struct {
	Thickness int     `json:"Thickness"`
	KappaMax  float64 `json:"KappaMax"`
	AMax      float64 `json:"AMax"`
	SigmaMax  float64 `json:"SigmaMax"`
	Eps       float64 `json:"Eps"`
}

type SourceType uint8

const (
	PlaneWaveSource SourceType = iota
	PlaneGaussSource
	GaussBeamSource
	DipoleSource
)

var SourceNameMap = map[string]SourceType{
	"planewave":  PlaneWaveSource,
	"plane":      PlaneWaveSource,
	"planegauss": PlaneGaussSource,
	"gaussbeam":  GaussBeamSource,
	"beam":       GaussBeamSource,
	"dipole":     DipoleSource,
}

func NewSourceType(label string) (st SourceType, err error) {
	var ok bool
	if st, ok = SourceNameMap[strings.ToLower(strings.TrimSpace(label))]; !ok {
		err = fmt.Errorf("unknown source type %q", label)
	}
	return
}

func (st SourceType) String() string {
	return []string{"PlaneWave", "PlaneGauss", "GaussBeam", "Dipole"}[st]
}

/*
SourceParameters describe one source. Incident sources use K, B, Origin, Eps, Distance and Faces
plus the parameters of their shape. A dipole uses Index, Axis, Amplitude, Frequency and RiseTime.
*/
type SourceParameters struct {
	Type          string     `json:"Type"`
	K             [3]float64 `json:"K"`      // wave vector, 1/m
	B             [3]float64 `json:"B"`      // magnetic flux density amplitude, T
	Origin        [3]float64 `json:"Origin"` // m
	Eps           float64    `json:"Eps"`
	Distance      int        `json:"Distance"` // cells between the grid edge and the total field box
	Faces         []string   `json:"Faces"`    // empty for all faces
	Ramp          float64    `json:"Ramp"`     // plane wave switch on, radians of phase
	Width         float64    `json:"Width"`    // plane Gauss envelope, radians of phase
	Waist         float64    `json:"Waist"`
	Rise          float64    `json:"Rise"`
	Offset        float64    `json:"Offset"`
	Circ          float64    `json:"Circ"`
	SuperGaussian int        `json:"SuperGaussian"`
	Index         [3]int     `json:"Index"`
	Axis          int        `json:"Axis"`
	Amplitude     float64    `json:"Amplitude"` // A/m²
	Frequency     float64    `json:"Frequency"` // Hz
	RiseTime      float64    `json:"RiseTime"`  // dipole switch on, s
}

func DefaultSourceParameters() SourceParameters {
	return SourceParameters{
		Type:          "planewave",
		Eps:           1,
		Distance:      15,
		Ramp:          0.5,
		Width:         10,
		Waist:         10,
		Rise:          10,
		Offset:        40,
		SuperGaussian: 1,
	}
}

// UnmarshalJSON fills the fields missing from the input with their defaults
func (sp *SourceParameters) UnmarshalJSON(data []byte) (err error) {
	type plain SourceParameters
	p := plain(DefaultSourceParameters())
	if err = json.Unmarshal(data, &p); err != nil {
		return
	}
	*sp = SourceParameters(p)
	return
}

type ProbeParameters struct {
	Name  string   `json:"Name"`
	Field string   `json:"Field"` // Ex, Ey, Ez, Bx, By or Bz
	Index [3]int   `json:"Index"`
	Slice []string `json:"Slice"` // per axis index phrases such as ":", "end" or "10:20", replacing Index
}

func NewInputParametersFDTD() *InputParametersFDTD {
	cp := cpml.DefaultParams()
	return &InputParametersFDTD{
		Dimension:      1,
		GridSize:       [3]int{1, 1, 1},
		CFL:            0.99,
		ParallelDegree: 1,
		LogFrequency:   100,
		CPML: CPMLParameters{
			Thickness: cp.Thickness,
			KappaMax:  cp.KappaMax,
			AMax:      cp.AMax,
			SigmaMax:  cp.SigmaMax,
			Eps:       cp.Eps,
		},
	}
}

// Parse reads YAML over the current values, fields absent from data keep them
func (ip *InputParametersFDTD) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

func (ip *InputParametersFDTD) CPMLParams() cpml.Params {
	return cpml.Params{
		Thickness: ip.CPML.Thickness,
		KappaMax:  ip.CPML.KappaMax,
		AMax:      ip.CPML.AMax,
		SigmaMax:  ip.CPML.SigmaMax,
		Eps:       ip.CPML.Eps,
	}
}

// BoundaryKinds returns the treatment of every axis, axes without an entry are walls
func (ip *InputParametersFDTD) BoundaryKinds() (bks [3]types.BoundaryKind, err error) {
	if len(ip.Boundaries) > 3 {
		err = fmt.Errorf("at most three boundaries can be given, have %d", len(ip.Boundaries))
		return
	}
	for axis, label := range ip.Boundaries {
		if bks[axis], err = types.NewBoundaryKind(label); err != nil {
			return
		}
	}
	return
}

func (ip *InputParametersFDTD) Validate() (err error) {
	if ip.Dimension < 1 || ip.Dimension > 3 {
		return fmt.Errorf("dimension must be 1, 2 or 3, have %d", ip.Dimension)
	}
	for axis := 0; axis < 3; axis++ {
		if axis >= ip.Dimension {
			ip.GridSize[axis] = 1
			continue
		}
		if ip.GridSize[axis] < 1 {
			return fmt.Errorf("grid size along axis %d must be positive, have %d", axis, ip.GridSize[axis])
		}
		if ip.Dx[axis] <= 0 {
			return fmt.Errorf("grid spacing along axis %d must be positive, have %g", axis, ip.Dx[axis])
		}
	}
	switch {
	case ip.CFL <= 0 || ip.CFL > 1:
		return fmt.Errorf("CFL must be in (0,1], have %g", ip.CFL)
	case ip.FinalTime <= 0:
		return fmt.Errorf("final time must be positive, have %g", ip.FinalTime)
	case ip.ParallelDegree < 1:
		return fmt.Errorf("parallel degree must be at least 1, have %d", ip.ParallelDegree)
	case ip.LogFrequency < 0:
		return fmt.Errorf("log frequency must not be negative, have %d", ip.LogFrequency)
	}
	bks, err := ip.BoundaryKinds()
	if err != nil {
		return fmt.Errorf("boundaries: %w", err)
	}
	for axis := 0; axis < ip.Dimension; axis++ {
		if bks[axis] == types.BoundaryCPML && 2*ip.CPML.Thickness >= ip.GridSize[axis] {
			return fmt.Errorf("cpml layers of %d cells do not fit along axis %d of %d cells",
				ip.CPML.Thickness, axis, ip.GridSize[axis])
		}
	}
	if err = ip.CPMLParams().Validate(); err != nil {
		return fmt.Errorf("CPML: %w", err)
	}
	for i := range ip.Sources {
		if err = ip.validateSource(&ip.Sources[i]); err != nil {
			return fmt.Errorf("source %d: %w", i, err)
		}
	}
	probes, err := ip.ExpandProbes()
	if err != nil {
		return
	}
	for _, pp := range probes {
		if _, err = types.NewFieldComponent(pp.Field); err != nil {
			return fmt.Errorf("probe %s: %w", pp.Name, err)
		}
		if !ip.inGrid(pp.Index) {
			return fmt.Errorf("probe %s: index %v lies outside the grid", pp.Name, pp.Index)
		}
	}
	return
}

/*
ExpandProbes returns one probe per grid index. A probe with a Slice becomes a line, plane or block
of probes named after the probe and their index, axes beyond the Slice keep their Index.
*/
func (ip *InputParametersFDTD) ExpandProbes() (probes []ProbeParameters, err error) {
	for _, pp := range ip.Probes {
		if len(pp.Slice) == 0 {
			probes = append(probes, pp)
			continue
		}
		if len(pp.Slice) > ip.Dimension {
			return nil, fmt.Errorf("probe %s: %d slice entries for %d dimensions", pp.Name, len(pp.Slice), ip.Dimension)
		}
		var lo, hi [3]int
		for axis := 0; axis < 3; axis++ {
			lo[axis], hi[axis] = pp.Index[axis], pp.Index[axis]+1
			if axis >= len(pp.Slice) {
				continue
			}
			if lo[axis], hi[axis], err = utils.ParseDim(pp.Slice[axis], ip.GridSize[axis]); err != nil {
				return nil, fmt.Errorf("probe %s: %w", pp.Name, err)
			}
		}
		for i := lo[0]; i < hi[0]; i++ {
			for j := lo[1]; j < hi[1]; j++ {
				for k := lo[2]; k < hi[2]; k++ {
					probes = append(probes, ProbeParameters{
						Name:  fmt.Sprintf("%s[%d,%d,%d]", pp.Name, i, j, k),
						Field: pp.Field,
						Index: [3]int{i, j, k},
					})
				}
			}
		}
	}
	return
}

func (ip *InputParametersFDTD) inGrid(ind [3]int) bool {
	for axis := 0; axis < 3; axis++ {
		if ind[axis] < 0 || ind[axis] >= ip.GridSize[axis] {
			return false
		}
	}
	return true
}

func (ip *InputParametersFDTD) validateSource(sp *SourceParameters) (err error) {
	var (
		st SourceType
	)
	if st, err = NewSourceType(sp.Type); err != nil {
		return
	}
	if st == DipoleSource {
		switch {
		case !ip.inGrid(sp.Index):
			return fmt.Errorf("dipole index %v lies outside the grid", sp.Index)
		case sp.Axis < 0 || sp.Axis > 2:
			return fmt.Errorf("dipole axis must be 0, 1 or 2, have %d", sp.Axis)
		case sp.Frequency <= 0:
			return fmt.Errorf("dipole frequency must be positive, have %g", sp.Frequency)
		case sp.RiseTime < 0:
			return fmt.Errorf("dipole rise time must not be negative, have %g", sp.RiseTime)
		}
		return
	}
	if sp.K == [3]float64{} {
		return fmt.Errorf("%s needs a non zero wave vector K", st)
	}
	for axis := ip.Dimension; axis < 3; axis++ {
		if st == GaussBeamSource && sp.K[axis] != 0 {
			return fmt.Errorf("%s wave vector must lie in the grid, K[%d] = %g", st, axis, sp.K[axis])
		}
	}
	if sp.Eps <= 0 {
		return fmt.Errorf("permittivity must be positive, have %g", sp.Eps)
	}
	for axis := 0; axis < ip.Dimension; axis++ {
		if sp.Distance < 1 || 2*sp.Distance >= ip.GridSize[axis] {
			return fmt.Errorf("distance %d does not leave a total field box along axis %d of %d cells",
				sp.Distance, axis, ip.GridSize[axis])
		}
	}
	for _, label := range sp.Faces {
		var dir types.Direction
		if dir, err = types.NewDirection(label); err != nil {
			return
		}
		if dir.Normal() >= ip.Dimension {
			return fmt.Errorf("face %s does not exist in %d dimensions", dir, ip.Dimension)
		}
	}
	switch st {
	case PlaneWaveSource:
		if sp.Ramp <= 0 {
			return fmt.Errorf("ramp must be positive, have %g", sp.Ramp)
		}
	case PlaneGaussSource:
		if sp.Width <= 0 {
			return fmt.Errorf("width must be positive, have %g", sp.Width)
		}
	case GaussBeamSource:
		switch {
		case ip.Dimension < 2:
			return fmt.Errorf("%s needs at least two dimensions", st)
		case sp.Waist <= 0 || sp.Rise <= 0:
			return fmt.Errorf("waist and rise must be positive, have %g and %g", sp.Waist, sp.Rise)
		case sp.SuperGaussian < 1:
			return fmt.Errorf("superGaussian must be at least 1, have %d", sp.SuperGaussian)
		}
	}
	return
}

func (ip *InputParametersFDTD) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%d]\t\t\t\t= Dimension\n", ip.Dimension)
	fmt.Printf("%v\t\t\t= Grid Size\n", ip.GridSize[:ip.Dimension])
	fmt.Printf("%v\t\t\t= Dx\n", ip.Dx[:ip.Dimension])
	fmt.Printf("%8.5f\t\t= CFL\n", ip.CFL)
	fmt.Printf("%8.5g\t\t= FinalTime\n", ip.FinalTime)
	fmt.Printf("[%d]\t\t\t\t= Parallel Degree\n", ip.ParallelDegree)
	fmt.Printf("%v\t\t= Boundaries\n", ip.Boundaries)
	fmt.Printf("CPML = %+v\n", ip.CPML)
	for i, sp := range ip.Sources {
		fmt.Printf("Sources[%d] = [%s] K=%v B=%v Distance=%d\n", i, sp.Type, sp.K, sp.B, sp.Distance)
	}
	names := make([]string, len(ip.Probes))
	probes := make(map[string]ProbeParameters)
	for i, pp := range ip.Probes {
		names[i] = pp.Name
		probes[pp.Name] = pp
	}
	sort.Strings(names)
	for _, name := range names {
		pp := probes[name]
		if len(pp.Slice) != 0 {
			fmt.Printf("Probes[%s] = %s%v\n", name, pp.Field, pp.Slice)
			continue
		}
		fmt.Printf("Probes[%s] = %s%v\n", name, pp.Field, pp.Index)
	}
}
