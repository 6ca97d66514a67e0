/*
 * conf.go, part of gophonon.
 *
 *
 * Copyright 2024 Raul Mera A. (raulpuntomeraatusachpuntocl)
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 *
 * goPhonon is currently developed at the Universidad de Santiago de Chile
 * (USACH)
 *
 */

//Package conf reads calculation setups from TOML files, so programs built
//on gophonon can be driven without recompiling. Keys missing from the
//file keep sensible defaults; unknown keys are logged and ignored.
package conf

import (
	"fmt"
	"log"
	"strings"

	"github.com/BurntSushi/toml"
	phonon "github.com/rmera/gophonon"
	"github.com/rmera/gophonon/spf"
	v3 "github.com/rmera/gophonon/v3"
	"gonum.org/v1/gonum/floats"
)

//Calc describes one structure factor or S(Q,w) calculation. The zero
//values of most fields are not useful, use Load for proper defaults.
type Calc struct {
	Temperature float64 //K
	Scale       float64
	Bose        bool
	Mode        string //"loss" or "gain", for the one-sided structure factor
	FreqCutoff  float64
	Cpus        int //0 means all logical CPUs
	DWFile      string
	DWIso       bool
	QVectors    [][]float64 //Cartesian momentum transfer per q-point, 1/A
	EBins       Bins
	EWidth      float64 //meV, FWHM
	QWidth      float64
	Lengths     map[string]float64 //per-symbol coherent scattering lengths, fm
}

//Bins describes a set of equally-spaced bins by its extremes and how many
//bins fit between them.
type Bins struct {
	Min float64
	Max float64
	N   int
}

//Load reads a calculation setup from the TOML file name. Absent keys keep
//their default values. Unknown keys are not an error, but they are logged,
//as they usually mean a typo in the file.
func Load(name string) (*Calc, error) {
	C := &Calc{
		Temperature: 5.0,
		Scale:       1.0,
		Bose:        true,
		Mode:        "loss",
		FreqCutoff:  phonon.DefaultFreqCutoff,
	}
	meta, err := toml.DecodeFile(name, C)
	if err != nil {
		return nil, err
	}
	if und := meta.Undecoded(); len(und) > 0 {
		log.Printf("unknown keys in %s will be ignored: %v", name, und)
	}
	return C, nil
}

//Options turns the setup into a phonon.Options, opening the auxiliary
//Debye-Waller grid if one is given. The grid file stays open until
//whatever calculation is handed the options reads it through.
func (C *Calc) Options() (*phonon.Options, error) {
	o := phonon.DefaultOptions()
	o.Temperature(C.Temperature)
	o.Scale(C.Scale)
	o.Bose(C.Bose)
	switch strings.ToLower(C.Mode) {
	case "", "loss":
		o.Mode(phonon.EnergyLoss)
	case "gain":
		o.Mode(phonon.EnergyGain)
	default:
		return nil, fmt.Errorf("conf: unknown mode %q, want \"loss\" or \"gain\"", C.Mode)
	}
	o.FreqCutoff(C.FreqCutoff)
	if C.Cpus > 0 {
		o.Cpus(C.Cpus)
	}
	o.DWIso(C.DWIso)
	if C.EWidth > 0 {
		o.EWidth(C.EWidth)
	}
	if C.QWidth > 0 {
		o.QWidth(C.QWidth)
	}
	if C.QVectors != nil {
		raw := make([]float64, 0, 3*len(C.QVectors))
		for i, v := range C.QVectors {
			if len(v) != 3 {
				return nil, fmt.Errorf("conf: q-vector %d has %d components, want 3", i, len(v))
			}
			raw = append(raw, v...)
		}
		qv, err := v3.NewMatrix(raw)
		if err != nil {
			return nil, err
		}
		o.QVectors(qv)
	}
	if C.DWFile != "" {
		g, _, err := spf.New(C.DWFile)
		if err != nil {
			return nil, err
		}
		o.DW(g)
	}
	return o, nil
}

//BinEdges returns the EBins section as the N+1 edges of N equally-spaced
//energy bins, ready for SQwMap.
func (C *Calc) BinEdges() ([]float64, error) {
	if C.EBins.N <= 0 {
		return nil, fmt.Errorf("conf: the EBins section needs a positive number of bins, got %d", C.EBins.N)
	}
	if C.EBins.Max <= C.EBins.Min {
		return nil, fmt.Errorf("conf: the EBins section needs Max > Min, got %v and %v", C.EBins.Max, C.EBins.Min)
	}
	return floats.Span(make([]float64, C.EBins.N+1), C.EBins.Min, C.EBins.Max), nil
}

//ScatteringLengths returns the built-in coherent scattering lengths with
//whatever overrides the Lengths section carries, in fm. Overrides allow,
//say, deuterating a sample without touching the built-in table.
func (C *Calc) ScatteringLengths() map[string]float64 {
	sl := phonon.ScatteringLengths()
	for k, v := range C.Lengths {
		sl[k] = v
	}
	return sl
}
