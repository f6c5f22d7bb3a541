package main

import (
	"bufio"
	"encoding/csv"
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/notargets/gofdtd/model_problems/MaxwellFDTD"
)

var (
	csvFile string
	outFile string
	cells   = "20,40,80,160"
	CFL     = 0.5
)

func main() {
	csvFilePtr := flag.String("csvFile", csvFile, "file containing entries of a convergence study, skips the runs")
	outFilePtr := flag.String("out", outFile, "file receiving the entries of the study that is run")
	cellsPtr := flag.String("cells", cells, "comma separated numbers of cells per wavelength")
	CFLPtr := flag.Float64("CFL", CFL, "CFL of the runs")
	flag.Parse()
	csvFile, outFile, cells, CFL = *csvFilePtr, *outFilePtr, *cellsPtr, *CFLPtr
	var (
		studies map[string]*ConvergenceStudy
		err     error
	)
	if len(csvFile) != 0 {
		fmt.Printf("Input file: %v\n", csvFile)
		studies = readCSV(csvFile)
	} else {
		var cs *ConvergenceStudy
		if cs, err = RunStudy(cells, CFL); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
		studies = map[string]*ConvergenceStudy{cs.title: cs}
		if len(outFile) != 0 {
			if err = writeCSV(outFile, cs); err != nil {
				fmt.Printf("error: %s\n", err.Error())
				os.Exit(1)
			}
		}
	}
	for _, cs := range studies {
		fmt.Printf("Title = %s, CFL = %5.2f\n", cs.title, cs.CFL)
		orders := cs.Orders()
		for i := range cs.numPTS {
			fmt.Printf("%d, %v, %5.3f\n", cs.numPTS[i], cs.errRMS[i], orders[i])
		}
	}
}

type ConvergenceStudy struct {
	title  string
	numPTS []int
	CFL    float64
	errRMS []float64
}

func NewConvergenceStudy(title string, CFL float64) *ConvergenceStudy {
	return &ConvergenceStudy{
		title: title,
		CFL:   CFL,
	}
}

func (cs *ConvergenceStudy) Add(numPTS int, errRMS float64) {
	cs.numPTS = append(cs.numPTS, numPTS)
	cs.errRMS = append(cs.errRMS, errRMS)
}

// Orders are the observed orders between each entry and the previous one, NaN for the first
func (cs *ConvergenceStudy) Orders() (orders []float64) {
	orders = make([]float64, len(cs.numPTS))
	for i := range orders {
		if i == 0 {
			orders[i] = math.NaN()
			continue
		}
		orders[i] = math.Log(cs.errRMS[i-1]/cs.errRMS[i]) /
			math.Log(float64(cs.numPTS[i])/float64(cs.numPTS[i-1]))
	}
	return
}

func RunStudy(cellList string, cfl float64) (cs *ConvergenceStudy, err error) {
	cs = NewConvergenceStudy("Yee dispersion", cfl)
	for _, txt := range strings.Split(cellList, ",") {
		var (
			n   int
			rms float64
		)
		if n, err = strconv.Atoi(strings.TrimSpace(txt)); err != nil {
			return nil, fmt.Errorf("cells %q: %w", txt, err)
		}
		if rms, err = MaxwellFDTD.DispersionError(n, cfl); err != nil {
			return nil, err
		}
		cs.Add(n, rms)
	}
	return
}

func writeCSV(fileName string, cs *ConvergenceStudy) (err error) {
	var (
		f *os.File
	)
	if f, err = os.Create(fileName); err != nil {
		return
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	w := csv.NewWriter(bufio.NewWriter(f))
	if err = w.Write([]string{"title", "numPTS", "CFL", "errRMS"}); err != nil {
		return
	}
	for i := range cs.numPTS {
		rec := []string{
			cs.title,
			strconv.Itoa(cs.numPTS[i]),
			strconv.FormatFloat(cs.CFL, 'g', -1, 64),
			strconv.FormatFloat(cs.errRMS[i], 'g', -1, 64),
		}
		if err = w.Write(rec); err != nil {
			return
		}
	}
	w.Flush()
	return w.Error()
}

func readCSV(csvFile string) (studies map[string]*ConvergenceStudy) {
	var (
		records [][]string
		err     error
		f       *os.File
		ok      bool
		cs      *ConvergenceStudy
		cfl     float64
		errRMS  float64
	)
	studies = make(map[string]*ConvergenceStudy)
	if f, err = os.Open(csvFile); err != nil {
		panic(err)
	}
	defer f.Close()
	r := csv.NewReader(bufio.NewReader(f))
	if records, err = r.ReadAll(); err != nil {
		panic(err)
	}
	for i, rec := range records {
		if i == 0 {
			continue
		}
		title, nptstxt, cfltxt := rec[0], rec[1], rec[2]
		npts, _ := strconv.Atoi(nptstxt)
		_, _ = fmt.Sscanf(cfltxt, "%g", &cfl)
		combTitle := title + cfltxt
		if cs, ok = studies[combTitle]; !ok {
			cs = NewConvergenceStudy(title, cfl)
			studies[combTitle] = cs
		}
		_, _ = fmt.Sscanf(rec[3], "%g", &errRMS)
		cs.Add(npts, errRMS)
	}
	return
}
