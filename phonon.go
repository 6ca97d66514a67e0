/*
 * phonon.go, part of gophonon.
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

package phonon

import (
	"fmt"

	v3 "github.com/rmera/gophonon/v3"
)

//Ion represents one ion (atom site) in the crystal.
type Ion struct {
	Symbol string
	Mass   float64 //amu
}

//Copy returns a copy of the Ion object.
func (I *Ion) Copy() *Ion {
	if I == nil {
		return nil
	}
	r := new(Ion)
	*r = *I
	return r
}

//Crystal contains the static description of a crystal: the species and
//masses of its ions, their positions in fractional coordinates and the
//unit cell vectors. It says nothing about the dynamics, which live in
//a Dataset. The functions of this library never modify a Crystal after
//it has been built.
type Crystal struct {
	Ions    []*Ion
	fracPos *v3.Matrix //NxIons x 3, fractional
	cell    *v3.Matrix //3x3, rows are the cell vectors, Angstrom
}

//NewCrystal builds a Crystal from its ions, their fractional positions
//(one row per ion) and the 3x3 matrix whose rows are the cell vectors,
//in Angstrom. The matrices are used, not copied.
func NewCrystal(ions []*Ion, fracPos, cell *v3.Matrix) (*Crystal, error) {
	if ions == nil || len(ions) == 0 || fracPos == nil || cell == nil {
		return nil, newError(ErrNilData, "nil or empty ions, positions or cell given", "NewCrystal")
	}
	if fracPos.NVecs() != len(ions) {
		return nil, newError(ErrShapeMismatch, fmt.Sprintf("%d ions given, but positions for %d", len(ions), fracPos.NVecs()), "NewCrystal")
	}
	if cell.NVecs() != 3 {
		return nil, newError(ErrShapeMismatch, fmt.Sprintf("the cell must have 3 vectors, not %d", cell.NVecs()), "NewCrystal")
	}
	for i, v := range ions {
		if v == nil || v.Symbol == "" {
			return nil, newError(ErrNilData, fmt.Sprintf("ion %d is nil or has no symbol", i), "NewCrystal")
		}
		if v.Mass <= 0 {
			return nil, newError(ErrBadValue, fmt.Sprintf("ion %d (%s) has non-positive mass %f", i, v.Symbol, v.Mass), "NewCrystal")
		}
	}
	r := new(Crystal)
	r.Ions = ions
	r.fracPos = fracPos
	r.cell = cell
	return r, nil
}

/*Crystal methods*/

//Len returns the number of ions in the crystal.
func (C *Crystal) Len() int {
	return len(C.Ions)
}

//Ion returns the Ion corresponding to the index i.
//Panics if out of range.
func (C *Crystal) Ion(i int) *Ion {
	if i >= C.Len() {
		panic("Crystal: Requested Ion out of bounds")
	}
	return C.Ions[i]
}

//Masses returns a slice with the masses of all ions, in amu.
func (C *Crystal) Masses() []float64 {
	mass := make([]float64, C.Len())
	for i := range mass {
		mass[i] = C.Ions[i].Mass
	}
	return mass
}

//Symbols returns a slice with the species symbols of all ions.
func (C *Crystal) Symbols() []string {
	s := make([]string, C.Len())
	for i := range s {
		s[i] = C.Ions[i].Symbol
	}
	return s
}

//FracPos returns the fractional positions of the ions, one row per ion.
//The returned matrix is the one contained in the Crystal, so the caller
//should not modify it.
func (C *Crystal) FracPos() *v3.Matrix {
	return C.fracPos
}

//CellVecs returns the 3x3 matrix whose rows are the cell vectors, in
//Angstrom. The returned matrix is the one contained in the Crystal, so
//the caller should not modify it.
func (C *Crystal) CellVecs() *v3.Matrix {
	return C.cell
}
