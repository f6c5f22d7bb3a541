/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/gofdtd/InputParameters"
	"github.com/notargets/gofdtd/diagnostics"
	"github.com/notargets/gofdtd/model_problems/MaxwellFDTD"
)

type ModelFDTD struct {
	ICFile         string
	ProbeFile      string
	Profile        string // cpu, mem or empty
	ProfilePath    string
	ParallelDegree int // overrides the input file when positive
	Verbose        bool
}

const exampleFile = `
########################################
Title: "Plane wave in a box"
Dimension: 2
GridSize: [120, 80]
Dx: [1.0e-7, 1.0e-7]
CFL: 0.95
FinalTime: 2.0e-13
ParallelDegree: 4
LogFrequency: 100
Boundaries: [cpml, periodic] # wall, periodic or cpml per axis
CPML:
  Thickness: 8
Sources:
  - Type: PlaneWave # PlaneGauss, GaussBeam or Dipole
    K: [6.283185e+6, 0]
    B: [0, 0, 1.0e-6]
    Distance: 15
    Faces: [west, east]
Probes:
  - Name: center
    Field: Ez
    Index: [60, 40, 0]
########################################
`

// FDTDCmd represents the fdtd command
var FDTDCmd = &cobra.Command{
	Use:   "fdtd",
	Short: "Yee grid Maxwell solver with CPML borders and incident field sources",
	Long: `
Runs the simulation described by a YAML input file and optionally writes the probe time series as CSV,

gofdtd fdtd -I input.yaml -o probes.csv`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
		)
		m := &ModelFDTD{}
		if m.ICFile, err = cmd.Flags().GetString("inputConditionsFile"); err != nil {
			panic(err)
		}
		m.ProbeFile, _ = cmd.Flags().GetString("probeFile")
		m.Profile, _ = cmd.Flags().GetString("profile")
		m.ProfilePath, _ = cmd.Flags().GetString("profilePath")
		m.ParallelDegree = viper.GetInt("parallel")
		m.Verbose = viper.GetBool("verbose")
		if len(m.ICFile) == 0 {
			fmt.Printf("error: must supply an input parameters file (-I, --inputConditionsFile) in YAML format\n")
			fmt.Printf("Example File:%s\n", exampleFile)
			os.Exit(1)
		}
		ip, err := ReadInput(m.ICFile)
		if err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
		if err = RunFDTD(m, ip); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(FDTDCmd)
	FDTDCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for input parameters like:\n\t- GridSize\n\t- Sources")
	FDTDCmd.Flags().StringP("probeFile", "o", "", "CSV file receiving the probe time series")
	FDTDCmd.Flags().StringP("profile", "p", "", "profile the run: cpu or mem")
	FDTDCmd.Flags().String("profilePath", ".", "directory receiving the profile")
	FDTDCmd.Flags().IntP("parallel", "n", 0, "number of go routines, overrides ParallelDegree of the input file")
	FDTDCmd.Flags().BoolP("verbose", "v", false, "print the input and the progress of the run")
	_ = viper.BindPFlag("parallel", FDTDCmd.Flags().Lookup("parallel"))
	_ = viper.BindPFlag("verbose", FDTDCmd.Flags().Lookup("verbose"))
}

func ReadInput(fileName string) (ip *InputParameters.InputParametersFDTD, err error) {
	var (
		data []byte
	)
	if data, err = os.ReadFile(fileName); err != nil {
		return
	}
	ip = InputParameters.NewInputParametersFDTD()
	if err = ip.Parse(data); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", fileName, err)
	}
	return
}

func RunFDTD(m *ModelFDTD, ip *InputParameters.InputParametersFDTD) (err error) {
	switch m.Profile {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(m.ProfilePath), profile.Quiet).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath(m.ProfilePath), profile.Quiet).Stop()
	default:
		return fmt.Errorf("unknown profile %q, use cpu or mem", m.Profile)
	}
	if m.ParallelDegree > 0 {
		ip.ParallelDegree = m.ParallelDegree
	}
	var (
		c      *MaxwellFDTD.MaxwellFDTD
		probes []*diagnostics.Probe
	)
	if c, err = MaxwellFDTD.NewMaxwellFDTD(ip, m.Verbose); err != nil {
		return
	}
	if m.Verbose {
		ip.Print()
	}
	if probes, err = c.Solve(); err != nil {
		return
	}
	if len(m.ProbeFile) == 0 {
		return
	}
	var f *os.File
	if f, err = os.Create(m.ProbeFile); err != nil {
		return
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return diagnostics.WriteCSV(f, probes)
}
