/*
 * json.go, part of gophonon.
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
/***Dedicated to the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche***/

//Package phjson lets gophonon exchange crystals, phonon grids and computed
//maps with external programs (say, a lattice-dynamics code written in
//Python) as one JSON object per line.
package phjson

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	phonon "github.com/rmera/gophonon"
	v3 "github.com/rmera/gophonon/v3"
	"gonum.org/v1/gonum/mat"
)

//A ready-to-serialize container for a crystal.
type Crystal struct {
	CellVecs [][]float64 //the 3 rows of the cell matrix, in A
	FracPos  [][]float64 //fractional positions, one row per ion
	Symbols  []string
	Masses   []float64 //amu
}

//A ready-to-serialize container for the modes at one q-point. Each row of
//Evecs carries the polarization vector for one branch and ion as 6 numbers:
//Re(x) Im(x) Re(y) Im(y) Re(z) Im(z). The rows are ordered as in
//phonon.Modes, branch by branch.
type QPoint struct {
	Q      []float64 //fractional coordinates, 3 components
	Weight float64
	Freqs  []float64 //meV
	Evecs  [][]float64
}

//Info about a grid, to be sent or received before the q-points themselves.
type Info struct {
	NIons     int
	NBranches int
	NQpts     int
}

//A ready-to-serialize container for a structure factor table or S(Q,w) map.
type Map struct {
	EBins  []float64   //energy bin edges for S(Q,w) maps; plain structure factor tables leave it empty
	Values [][]float64 //one row per q-point
}

//An easily JSON-serializable error type,
type Error struct {
	deco          []string
	IsError       bool //If this is false (no error) all the other fields will be at their zero-values.
	InCrystal     bool //If error, was it in parsing the crystal?
	InGrid        bool //Was it in parsing the q-point grid?
	InProcess     bool
	InPostProcess bool   //was it in preparing the output?
	Function      string //which go function gave the error
	Message       string //the error itself
}

//Error implements the error interface
func (J *Error) Error() string {
	return J.Message
}

//Decorate will add the dec string to the decoration slice of strings of the error,
//and return the resulting slice.
func (err Error) Decorate(dec string) []string {
	if dec == "" {
		return err.deco
	}
	err.deco = append(err.deco, dec)
	return err.deco
}

//Serializes the error. Panics on failure.
func (J *Error) Marshal() []byte {
	ret, err2 := json.Marshal(J)
	if err2 != nil {
		panic(strings.Join([]string{J.Error(), err2.Error()}, " - ")) //an error while serializing your error, so the calling program gets neither.
	}
	return ret
}

//Takes an error and some additional info to create a json-marshal-ble error
func NewError(where, function string, err error) *Error {
	jerr := new(Error)
	jerr.IsError = true
	switch where {
	case "crystal":
		jerr.InCrystal = true
	case "grid":
		jerr.InGrid = true
	case "postprocess":
		jerr.InPostProcess = true
	default:
		jerr.InProcess = true
	}
	jerr.Function = function
	jerr.Message = err.Error()
	return jerr
}

//NewCrystal makes a ready-to-serialize container from a phonon.Crystal.
func NewCrystal(cry *phonon.Crystal) *Crystal {
	J := new(Crystal)
	cell := cry.CellVecs()
	pos := cry.FracPos()
	J.CellVecs = make([][]float64, 3)
	for i := 0; i < 3; i++ {
		J.CellVecs[i] = []float64{cell.At(i, 0), cell.At(i, 1), cell.At(i, 2)}
	}
	J.FracPos = make([][]float64, cry.Len())
	for i := 0; i < cry.Len(); i++ {
		J.FracPos[i] = []float64{pos.At(i, 0), pos.At(i, 1), pos.At(i, 2)}
	}
	J.Symbols = cry.Symbols()
	J.Masses = cry.Masses()
	return J
}

//Crystal converts the container into a phonon.Crystal, checking the shapes.
func (J *Crystal) Crystal() (*phonon.Crystal, *Error) {
	const funcname = "Crystal.Crystal"
	if len(J.CellVecs) != 3 {
		return nil, NewError("crystal", funcname, fmt.Errorf("cells have 3 vectors, got %d", len(J.CellVecs)))
	}
	if len(J.Symbols) != len(J.Masses) || len(J.Symbols) != len(J.FracPos) {
		return nil, NewError("crystal", funcname, fmt.Errorf("got %d symbols, %d masses and %d positions", len(J.Symbols), len(J.Masses), len(J.FracPos)))
	}
	rawcell := make([]float64, 0, 9)
	for i, v := range J.CellVecs {
		if len(v) != 3 {
			return nil, NewError("crystal", funcname, fmt.Errorf("cell vector %d has %d components", i, len(v)))
		}
		rawcell = append(rawcell, v...)
	}
	cell, err := v3.NewMatrix(rawcell)
	if err != nil {
		return nil, NewError("crystal", funcname, err)
	}
	rawpos := make([]float64, 0, 3*len(J.FracPos))
	for i, v := range J.FracPos {
		if len(v) != 3 {
			return nil, NewError("crystal", funcname, fmt.Errorf("position %d has %d components", i, len(v)))
		}
		rawpos = append(rawpos, v...)
	}
	pos, err := v3.NewMatrix(rawpos)
	if err != nil {
		return nil, NewError("crystal", funcname, err)
	}
	ions := make([]*phonon.Ion, len(J.Symbols))
	for i, s := range J.Symbols {
		ions[i] = &phonon.Ion{Symbol: s, Mass: J.Masses[i]}
	}
	cry, err := phonon.NewCrystal(ions, pos, cell)
	if err != nil {
		return nil, NewError("crystal", funcname, err)
	}
	return cry, nil
}

//NewQPoint makes a ready-to-serialize container from the modes at one q-point.
func NewQPoint(m *phonon.Modes) *QPoint {
	J := new(QPoint)
	J.Q = []float64{m.Q.At(0, 0), m.Q.At(0, 1), m.Q.At(0, 2)}
	J.Weight = m.Weight
	J.Freqs = make([]float64, len(m.Freqs))
	copy(J.Freqs, m.Freqs)
	n := m.Evecs.NVecs()
	J.Evecs = make([][]float64, n)
	for r := 0; r < n; r++ {
		v := m.Evecs.RawRowView(r)
		J.Evecs[r] = []float64{real(v[0]), imag(v[0]), real(v[1]), imag(v[1]), real(v[2]), imag(v[2])}
	}
	return J
}

//Modes converts the container into a phonon.Modes, checking the shapes
//against the given grid dimensions.
func (J *QPoint) Modes(nions, nbranches int) (*phonon.Modes, *Error) {
	const funcname = "QPoint.Modes"
	if len(J.Q) != 3 {
		return nil, NewError("grid", funcname, fmt.Errorf("q-points need 3 components, got %d", len(J.Q)))
	}
	if len(J.Freqs) != nbranches || len(J.Evecs) != nbranches*nions {
		return nil, NewError("grid", funcname, fmt.Errorf("expected %d frequencies and %d eigenvector rows, got %d and %d", nbranches, nbranches*nions, len(J.Freqs), len(J.Evecs)))
	}
	m := phonon.NewModes(nbranches, nions)
	m.Q.Set(0, 0, J.Q[0])
	m.Q.Set(0, 1, J.Q[1])
	m.Q.Set(0, 2, J.Q[2])
	m.Weight = J.Weight
	copy(m.Freqs, J.Freqs)
	for r, row := range J.Evecs {
		if len(row) != 6 {
			return nil, NewError("grid", funcname, fmt.Errorf("eigenvector rows carry 6 numbers, row %d has %d", r, len(row)))
		}
		dst := m.Evecs.RawRowView(r)
		dst[0] = complex(row[0], row[1])
		dst[1] = complex(row[2], row[3])
		dst[2] = complex(row[4], row[5])
	}
	return m, nil
}

//SendCrystal encodes a crystal and writes it to out as a single line.
func SendCrystal(cry *phonon.Crystal, out io.Writer) *Error {
	enc := json.NewEncoder(out)
	if err := enc.Encode(NewCrystal(cry)); err != nil {
		return NewError("postprocess", "SendCrystal", err)
	}
	return nil
}

//DecodeCrystal decodes one line from stream into a phonon.Crystal.
func DecodeCrystal(stream *bufio.Reader) (*phonon.Crystal, *Error) {
	const funcname = "DecodeCrystal"
	line, err := stream.ReadBytes('\n')
	if err != nil {
		return nil, NewError("crystal", funcname, err)
	}
	J := new(Crystal)
	if err := json.Unmarshal(line, J); err != nil {
		return nil, NewError("crystal", funcname, err)
	}
	return J.Crystal()
}

//SendDataset writes a whole grid to out: first an Info line with the
//dimensions, then one line per q-point.
func SendDataset(d *phonon.Dataset, out io.Writer) *Error {
	const funcname = "SendDataset"
	enc := json.NewEncoder(out)
	info := &Info{NIons: d.NIons(), NBranches: d.NBranches(), NQpts: d.NQpts()}
	if err := enc.Encode(info); err != nil {
		return NewError("postprocess", funcname, err)
	}
	for i := 0; i < d.NQpts(); i++ {
		if err := enc.Encode(NewQPoint(d.Qpt(i))); err != nil {
			return NewError("postprocess", funcname, err)
		}
	}
	return nil
}

//DecodeDataset decodes a grid written by SendDataset (or by anything else
//honoring the same framing) into an in-memory Dataset.
func DecodeDataset(stream *bufio.Reader) (*phonon.Dataset, *Error) {
	const funcname = "DecodeDataset"
	line, err := stream.ReadBytes('\n')
	if err != nil {
		return nil, NewError("grid", funcname, err)
	}
	info := new(Info)
	if err := json.Unmarshal(line, info); err != nil {
		return nil, NewError("grid", funcname, err)
	}
	d, err := phonon.NewDataset(info.NIons, info.NBranches)
	if err != nil {
		return nil, NewError("grid", funcname, err)
	}
	for i := 0; i < info.NQpts; i++ {
		line, err := stream.ReadBytes('\n')
		if err != nil {
			return nil, NewError("grid", funcname, fmt.Errorf("error reading the %d th q-point: %s", i+1, err.Error()))
		}
		J := new(QPoint)
		if err := json.Unmarshal(line, J); err != nil {
			return nil, NewError("grid", funcname, err)
		}
		m, jerr := J.Modes(info.NIons, info.NBranches)
		if jerr != nil {
			return nil, jerr
		}
		if err := d.AddQpt(m); err != nil {
			return nil, NewError("grid", funcname, err)
		}
	}
	return d, nil
}

//NewMap makes a ready-to-serialize container from a computed matrix and,
//optionally, the energy bin edges it was computed over.
func NewMap(m *mat.Dense, ebins []float64) *Map {
	r, c := m.Dims()
	J := new(Map)
	if ebins != nil {
		J.EBins = make([]float64, len(ebins))
		copy(J.EBins, ebins)
	}
	J.Values = make([][]float64, r)
	for i := 0; i < r; i++ {
		J.Values[i] = make([]float64, c)
		copy(J.Values[i], m.RawRowView(i))
	}
	return J
}

//Dense converts the values of the container back into a gonum matrix.
func (J *Map) Dense() (*mat.Dense, *Error) {
	const funcname = "Map.Dense"
	r := len(J.Values)
	if r == 0 {
		return nil, NewError("process", funcname, fmt.Errorf("empty map"))
	}
	c := len(J.Values[0])
	raw := make([]float64, 0, r*c)
	for i, row := range J.Values {
		if len(row) != c {
			return nil, NewError("process", funcname, fmt.Errorf("row %d has %d values, want %d", i, len(row), c))
		}
		raw = append(raw, row...)
	}
	return mat.NewDense(r, c, raw), nil
}

//SendMap encodes a computed structure factor table or S(Q,w) map and
//writes it to out as a single line.
func SendMap(m *mat.Dense, ebins []float64, out io.Writer) *Error {
	enc := json.NewEncoder(out)
	if err := enc.Encode(NewMap(m, ebins)); err != nil {
		return NewError("postprocess", "SendMap", err)
	}
	return nil
}

//DecodeMap decodes one line from stream into a Map.
func DecodeMap(stream *bufio.Reader) (*Map, *Error) {
	const funcname = "DecodeMap"
	line, err := stream.ReadBytes('\n')
	if err != nil {
		return nil, NewError("process", funcname, err)
	}
	J := new(Map)
	if err := json.Unmarshal(line, J); err != nil {
		return nil, NewError("process", funcname, err)
	}
	return J, nil
}
