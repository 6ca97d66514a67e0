/*
 * lattice.go, part of gophonon.
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
	"math"

	v3 "github.com/rmera/gophonon/v3"
)

//ReciprocalVectors returns the reciprocal lattice of the given cell, with
//the 2pi convention: the rows of the returned matrix are the reciprocal
//vectors b_i, so b_i dot a_j = 2pi delta_ij. The units of the result are
//the inverse of those of the input (the function itself is unit-agnostic).
func ReciprocalVectors(cell *v3.Matrix) (*v3.Matrix, error) {
	if cell == nil {
		return nil, newError(ErrNilData, "nil cell given", "ReciprocalVectors")
	}
	if cell.NVecs() != 3 {
		return nil, newError(ErrShapeMismatch, fmt.Sprintf("the cell must have 3 vectors, not %d", cell.NVecs()), "ReciprocalVectors")
	}
	a1 := cell.VecView(0)
	a2 := cell.VecView(1)
	a3 := cell.VecView(2)
	r := v3.Zeros(3)
	r.VecView(0).Cross(a2, a3)
	r.VecView(1).Cross(a3, a1)
	r.VecView(2).Cross(a1, a2)
	vol := a1.Dot(r.VecView(0)) //the signed cell volume
	if math.Abs(vol) < 1e-10 {
		return nil, newError(ErrBadValue, fmt.Sprintf("cell is singular, volume %g", vol), "ReciprocalVectors")
	}
	r.Scale(2*math.Pi/vol, r.Dense)
	return r, nil
}

//MonkhorstPack returns a Monkhorst-Pack grid of nh x nk x nl q-points in
//fractional coordinates of the reciprocal lattice, one per row, following
//Monkhorst and Pack, Phys. Rev. B 13, 5188 (1976): the rth point along an
//axis sampled q times is (2r-q-1)/2q. The points are centered around
//Gamma but, for even subdivisions, do not include it. These grids are
//meant as the auxiliary grid of the Debye-Waller average.
func MonkhorstPack(nh, nk, nl int) (*v3.Matrix, error) {
	if nh <= 0 || nk <= 0 || nl <= 0 {
		return nil, newError(ErrBadValue, fmt.Sprintf("non-positive subdivisions %d %d %d", nh, nk, nl), "MonkhorstPack")
	}
	r := v3.Zeros(nh * nk * nl)
	i := 0
	for h := 1; h <= nh; h++ {
		qh := float64(2*h-nh-1) / float64(2*nh)
		for k := 1; k <= nk; k++ {
			qk := float64(2*k-nk-1) / float64(2*nk)
			for l := 1; l <= nl; l++ {
				ql := float64(2*l-nl-1) / float64(2*nl)
				r.Set(i, 0, qh)
				r.Set(i, 1, qk)
				r.Set(i, 2, ql)
				i++
			}
		}
	}
	return r, nil
}
