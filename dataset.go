/*
 * dataset.go, part of gophonon.
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

package phonon

import (
	"fmt"

	v3 "github.com/rmera/gophonon/v3"
)

//Modes contains the lattice-dynamics solution at one q-point: the q-point
//itself in fractional coordinates of the reciprocal lattice, its weight in
//whole-Brillouin-zone averages, the frequency of each branch (in meV, sorted
//or not, negative values marking imaginary/soft modes) and the polarization
//(eigen) vectors. Evecs has one row per branch and ion: the vector for
//branch j and ion k is the row j*NIons+k.
type Modes struct {
	Q      *v3.Matrix //1x3, fractional
	Weight float64
	Freqs  []float64   //meV
	Evecs  *v3.CMatrix //(NBranches*NIons)x3
}

//NewModes returns a Modes with zeroed buffers for the given number of
//branches and ions, and weight 1.
func NewModes(branches, nions int) *Modes {
	r := new(Modes)
	r.Q = v3.Zeros(1)
	r.Weight = 1.0
	r.Freqs = make([]float64, branches)
	r.Evecs = v3.CZeros(branches * nions)
	return r
}

//NBranches returns the number of phonon branches in M.
func (M *Modes) NBranches() int {
	return len(M.Freqs)
}

//NIons returns the number of ions the polarization vectors of M refer to.
func (M *Modes) NIons() int {
	if M.Evecs == nil || len(M.Freqs) == 0 {
		return 0
	}
	return M.Evecs.NVecs() / len(M.Freqs)
}

//BranchVecs returns a view of the polarization vectors of the jth branch,
//one row per ion. Panics if out of range.
func (M *Modes) BranchVecs(j int) *v3.CMatrix {
	n := M.NIons()
	return M.Evecs.View(j*n, n)
}

//Copy copies the contents of A into the receiver, which must hold the
//same number of branches and ions.
func (M *Modes) Copy(A *Modes) error {
	if M.NBranches() != A.NBranches() || M.NIons() != A.NIons() {
		return newError(ErrShapeMismatch, fmt.Sprintf("cannot copy %dx%d modes into %dx%d", A.NBranches(), A.NIons(), M.NBranches(), M.NIons()), "Modes.Copy")
	}
	M.Q.Copy(A.Q)
	M.Weight = A.Weight
	copy(M.Freqs, A.Freqs)
	M.Evecs.CopyVecs(A.Evecs)
	return nil
}

//Dataset is an in-memory set of phonon modes over q-points, all with the
//same number of ions and branches. It is the main input for the structure
//factor functions.
type Dataset struct {
	nions     int
	nbranches int
	modes     []*Modes
}

//NewDataset returns an empty Dataset for the given numbers of ions and
//branches per q-point.
func NewDataset(nions, nbranches int) (*Dataset, error) {
	if nions <= 0 || nbranches <= 0 {
		return nil, newError(ErrBadValue, fmt.Sprintf("non-positive ions (%d) or branches (%d)", nions, nbranches), "NewDataset")
	}
	r := new(Dataset)
	r.nions = nions
	r.nbranches = nbranches
	return r, nil
}

/*Dataset methods*/

//AddQpt appends the modes of one q-point to the Dataset. The shapes of m
//must match the Dataset. The given structure is kept, not copied.
func (D *Dataset) AddQpt(m *Modes) error {
	if m == nil || m.Q == nil || m.Evecs == nil {
		return newError(ErrNilData, "nil modes, q-point or eigenvectors given", "AddQpt")
	}
	if m.Q.NVecs() != 1 {
		return newError(ErrShapeMismatch, fmt.Sprintf("q-point must be a single vector, got %d", m.Q.NVecs()), "AddQpt")
	}
	if len(m.Freqs) != D.nbranches {
		return newError(ErrShapeMismatch, fmt.Sprintf("%d frequencies given, dataset has %d branches", len(m.Freqs), D.nbranches), "AddQpt")
	}
	if m.Evecs.NVecs() != D.nbranches*D.nions {
		return newError(ErrShapeMismatch, fmt.Sprintf("%d eigenvector rows given, want %d", m.Evecs.NVecs(), D.nbranches*D.nions), "AddQpt")
	}
	if m.Weight < 0 {
		return newError(ErrBadValue, fmt.Sprintf("negative weight %f", m.Weight), "AddQpt")
	}
	D.modes = append(D.modes, m)
	return nil
}

//NQpts returns the number of q-points in the Dataset.
func (D *Dataset) NQpts() int {
	return len(D.modes)
}

//NIons returns the number of ions per q-point.
func (D *Dataset) NIons() int {
	return D.nions
}

//NBranches returns the number of phonon branches per q-point.
func (D *Dataset) NBranches() int {
	return D.nbranches
}

//Qpt returns the Modes of the ith q-point.
//Panics if out of range.
func (D *Dataset) Qpt(i int) *Modes {
	if i >= D.NQpts() {
		panic("Dataset: Requested q-point out of bounds")
	}
	return D.modes[i]
}

//Qpts returns a freshly allocated matrix with the fractional coordinates
//of all q-points, one per row.
func (D *Dataset) Qpts() *v3.Matrix {
	r := v3.Zeros(D.NQpts())
	for i, v := range D.modes {
		for j := 0; j < 3; j++ {
			r.Set(i, j, v.Q.At(0, j))
		}
	}
	return r
}

//Weights returns a freshly allocated slice with the weights of all q-points.
func (D *Dataset) Weights() []float64 {
	r := make([]float64, D.NQpts())
	for i, v := range D.modes {
		r[i] = v.Weight
	}
	return r
}

//Reader goes through the q-points of an in-memory Dataset, fulfilling the
//Grid interface so a Dataset can be used wherever streamed grids can, in
//particular as the auxiliary grid for the Debye-Waller average.
type Reader struct {
	d       *Dataset
	current int
}

//NewReader returns a Reader over the given Dataset, set before its first
//q-point.
func NewReader(d *Dataset) (*Reader, error) {
	if d == nil {
		return nil, newError(ErrNilData, "nil dataset given", "NewReader")
	}
	return &Reader{d: d}, nil
}

/*Reader methods*/

//Readable returns true if q-points remain to be read.
func (R *Reader) Readable() bool {
	return R.d != nil && R.current < R.d.NQpts()
}

//Next reads the modes of the next q-point into m, which must be allocated
//for the dataset's branches and ions (see NewModes). It returns an error
//implementing LastQpointError when the q-points are exhausted.
func (R *Reader) Next(m *Modes) error {
	if R.current >= R.d.NQpts() {
		return lastQpointError{deco: []string{"Reader.Next"}}
	}
	if m == nil {
		return newError(ErrNilData, "nil modes buffer given", "Reader.Next")
	}
	if err := m.Copy(R.d.modes[R.current]); err != nil {
		return errDecorate(err, "Reader.Next")
	}
	R.current++
	return nil
}

//NIons returns the number of ions per q-point.
func (R *Reader) NIons() int {
	return R.d.NIons()
}

//NBranches returns the number of phonon branches per q-point.
func (R *Reader) NBranches() int {
	return R.d.NBranches()
}

//Reset rewinds the Reader to the first q-point. Unlike file-backed grids,
//an in-memory Reader can be reused after exhaustion.
func (R *Reader) Reset() {
	R.current = 0
}
