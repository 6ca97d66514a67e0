/*
 * cmatrix.go, part of gophonon.
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
 * goPhonon is currently developed at the Universidad de Santiago de Chile
 * (USACH)
 *
 */

package v3

import (
	"fmt"
	"math/cmplx"
	"strings"

	"gonum.org/v1/gonum/mat"
)

//CMatrix is the complex-valued counterpart of Matrix: a set of complex
//3D row vectors, as needed for phonon polarization (eigen) vectors.
//It wraps gonum's mat.CDense, so all its methods are available.
type CMatrix struct {
	*mat.CDense
}

//NewCMatrix generates and returns a CMatrix with 3 columns from data,
//which is arranged in row-major order. The data is used, not copied.
func NewCMatrix(data []complex128) (*CMatrix, error) {
	const cols int = 3
	l := len(data)
	rows := l / cols
	if l%cols != 0 {
		return nil, Error{fmt.Sprintf("Input slice length %d not divisible by %d", l, cols), []string{"NewCMatrix"}, true}
	}
	r := mat.NewCDense(rows, cols, data)
	return &CMatrix{r}, nil
}

//CZeros returns a zero-filled CMatrix with vecs vectors and 3 in the other dimension.
func CZeros(vecs int) *CMatrix {
	const cols int = 3
	f := make([]complex128, cols*vecs)
	return &CMatrix{mat.NewCDense(vecs, cols, f)}
}

//NVecs returns the number of vectors in the CMatrix.
func (F *CMatrix) NVecs() int {
	r, c := F.Dims()
	if c != 3 {
		panic(ErrNotXx3Matrix)
	}
	return r
}

//VecView returns a view of the given vector of the matrix. Changes
//in the view are reflected in F and vice-versa.
func (F *CMatrix) VecView(i int) *CMatrix {
	raw := F.RawCMatrix()
	if i < 0 || i >= raw.Rows {
		panic(ErrIndexOutOfRange)
	}
	r := mat.NewCDense(1, 3, raw.Data[i*raw.Stride:i*raw.Stride+3])
	return &CMatrix{r}
}

//View returns a view of r consecutive vectors of F, starting from the ith.
//Changes in the view are reflected in F and vice-versa.
func (F *CMatrix) View(i, r int) *CMatrix {
	raw := F.RawCMatrix()
	if i < 0 || r < 1 || i+r > raw.Rows {
		panic(ErrIndexOutOfRange)
	}
	if raw.Stride != raw.Cols {
		//this package only ever produces contiguous layouts
		panic(ErrShape)
	}
	ret := mat.NewCDense(r, 3, raw.Data[i*raw.Stride:(i+r)*raw.Stride])
	return &CMatrix{ret}
}

//RawRowView returns the underlying data of the ith vector of the matrix.
//Changes to the returned slice are reflected in F.
func (F *CMatrix) RawRowView(i int) []complex128 {
	raw := F.RawCMatrix()
	if i < 0 || i >= raw.Rows {
		panic(ErrIndexOutOfRange)
	}
	return raw.Data[i*raw.Stride : i*raw.Stride+3]
}

//CopyVecs copies the vectors of A into the corresponding vectors of F.
//Panics if F has fewer vectors than A.
func (F *CMatrix) CopyVecs(A *CMatrix) {
	ar := A.NVecs()
	if F.NVecs() < ar {
		panic(ErrShape)
	}
	for i := 0; i < ar; i++ {
		copy(F.RawRowView(i), A.RawRowView(i))
	}
}

//Dot returns the Hermitian dot product between the first vecs of F and B,
//i.e. the elements of F are conjugated before multiplying.
func (F *CMatrix) Dot(B *CMatrix) complex128 {
	if F.NVecs() < 1 || B.NVecs() < 1 {
		panic(ErrNotEnoughElements)
	}
	var d complex128
	f := F.RawRowView(0)
	b := B.RawRowView(0)
	for i := 0; i < 3; i++ {
		d += cmplx.Conj(f[i]) * b[i]
	}
	return d
}

//String returns a neat string representation of the CMatrix.
func (F *CMatrix) String() string {
	r, _ := F.Dims()
	v := make([]string, r+2)
	v[0] = "\n["
	v[len(v)-1] = " ]"
	for i := 0; i < r; i++ {
		row := F.RawRowView(i)
		v[i+1] = fmt.Sprintf(" %6.2f %6.2f %6.2f\n", row[0], row[1], row[2])
	}
	v[len(v)-2] = strings.Replace(v[len(v)-2], "\n", "", 1)
	return strings.Join(v, "")
}
