/*
 * dataset_test.go, part of gophonon.
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
 */

package phonon

import (
	"fmt"
	"testing"

	v3 "github.com/rmera/gophonon/v3"
)

func TestCrystal(Te *testing.T) {
	fmt.Println("Crystal construction test!")
	cell, err := v3.NewMatrix([]float64{2.87, 0, 0, 0, 2.87, 0, 0, 0, 2.87})
	if err != nil {
		Te.Fatal(err)
	}
	pos, err := v3.NewMatrix([]float64{0, 0, 0, 0.5, 0.5, 0.5})
	if err != nil {
		Te.Fatal(err)
	}
	ions := []*Ion{{Symbol: "Fe", Mass: 55.845}, {Symbol: "Fe", Mass: 55.845}}
	cry, err := NewCrystal(ions, pos, cell)
	if err != nil {
		Te.Fatal(err)
	}
	if cry.Len() != 2 {
		Te.Errorf("wanted 2 ions, got %d", cry.Len())
	}
	if cry.Ion(1).Symbol != "Fe" {
		Te.Errorf("wrong ion: %v", cry.Ion(1))
	}
	m := cry.Masses()
	s := cry.Symbols()
	if len(m) != 2 || m[0] != 55.845 || len(s) != 2 || s[1] != "Fe" {
		Te.Errorf("wrong masses/symbols: %v %v", m, s)
	}
	//the returned slices are fresh, not internal state
	m[0] = 1.0
	s[0] = "H"
	if cry.Ion(0).Mass != 55.845 || cry.Ion(0).Symbol != "Fe" {
		Te.Error("Masses/Symbols should return copies")
	}
	c := cry.Ion(0).Copy()
	c.Mass = 2.014
	if cry.Ion(0).Mass != 55.845 {
		Te.Error("Ion.Copy should copy")
	}
	//bad inputs
	if _, err := NewCrystal(nil, pos, cell); err == nil {
		Te.Error("nil ions should be rejected")
	}
	if _, err := NewCrystal(ions[:1], pos, cell); err == nil {
		Te.Error("mismatched ions/positions should be rejected")
	}
	if _, err := NewCrystal(ions, pos, pos); err == nil {
		Te.Error("a 2-vector cell should be rejected")
	}
	bad := []*Ion{{Symbol: "Fe", Mass: 55.845}, {Symbol: "Fe", Mass: -1}}
	if _, err := NewCrystal(bad, pos, cell); err == nil {
		Te.Error("non-positive masses should be rejected")
	}
}

func TestDataset(Te *testing.T) {
	fmt.Println("Dataset construction test!")
	nions, nbranches := 2, 6
	d, err := NewDataset(nions, nbranches)
	if err != nil {
		Te.Fatal(err)
	}
	if _, err := NewDataset(0, 6); err == nil {
		Te.Error("datasets without ions should be rejected")
	}
	m := NewModes(nbranches, nions)
	if m.NBranches() != nbranches || m.NIons() != nions {
		Te.Errorf("wrong modes dimensions: %d %d", m.NBranches(), m.NIons())
	}
	m.Q.Set(0, 0, 0.25)
	m.Freqs[0] = 4.5
	m.Evecs.Set(0, 0, 1+1i)
	if err := d.AddQpt(m); err != nil {
		Te.Fatal(err)
	}
	if d.NQpts() != 1 || d.NIons() != nions || d.NBranches() != nbranches {
		Te.Errorf("wrong dataset dimensions: %d %d %d", d.NQpts(), d.NIons(), d.NBranches())
	}
	//shape mismatches are caught on insertion
	if err := d.AddQpt(NewModes(nbranches-1, nions)); err == nil {
		Te.Error("modes with missing branches should be rejected")
	}
	if err := d.AddQpt(NewModes(nbranches, nions+1)); err == nil {
		Te.Error("modes with extra ions should be rejected")
	}
	wrong := NewModes(nbranches, nions)
	wrong.Weight = -1
	if err := d.AddQpt(wrong); err == nil {
		Te.Error("negative weights should be rejected")
	}
	if err := d.AddQpt(nil); err == nil {
		Te.Error("nil modes should be rejected")
	}
	//the per-branch view walks the right rows
	bv := d.Qpt(0).BranchVecs(0)
	if bv.NVecs() != nions || bv.At(0, 0) != 1+1i {
		Te.Errorf("wrong branch view: %v", bv)
	}
	qs := d.Qpts()
	if qs.NVecs() != 1 || qs.At(0, 0) != 0.25 {
		Te.Errorf("wrong q-point list: %v", qs)
	}
	qs.Set(0, 0, 42) //the list is a copy
	if d.Qpt(0).Q.At(0, 0) != 0.25 {
		Te.Error("Qpts should return a copy")
	}
	ws := d.Weights()
	if len(ws) != 1 || ws[0] != 1.0 {
		Te.Errorf("wrong weights: %v", ws)
	}
}

func TestModesCopy(Te *testing.T) {
	fmt.Println("Modes copy test!")
	a := NewModes(2, 2)
	a.Q.Set(0, 2, -0.5)
	a.Weight = 3
	a.Freqs[1] = 7.25
	a.Evecs.Set(3, 2, 2-1i)
	b := NewModes(2, 2)
	if err := b.Copy(a); err != nil {
		Te.Fatal(err)
	}
	if b.Q.At(0, 2) != -0.5 || b.Weight != 3 || b.Freqs[1] != 7.25 || b.Evecs.At(3, 2) != 2-1i {
		Te.Errorf("copy differs from the original: %v %v", a, b)
	}
	b.Freqs[1] = 0
	b.Evecs.Set(3, 2, 0)
	if a.Freqs[1] != 7.25 || a.Evecs.At(3, 2) != 2-1i {
		Te.Error("the copy should not alias the original")
	}
	if err := b.Copy(NewModes(3, 2)); err == nil {
		Te.Error("copying into a differently shaped buffer should fail")
	}
}

func TestReader(Te *testing.T) {
	fmt.Println("In-memory grid reader test!")
	nions, nbranches := 2, 6
	d, err := NewDataset(nions, nbranches)
	if err != nil {
		Te.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		m := NewModes(nbranches, nions)
		m.Q.Set(0, 0, float64(i))
		if err := d.AddQpt(m); err != nil {
			Te.Fatal(err)
		}
	}
	r, err := NewReader(d)
	if err != nil {
		Te.Fatal(err)
	}
	if r.NIons() != nions || r.NBranches() != nbranches {
		Te.Errorf("wrong reader dimensions: %d %d", r.NIons(), r.NBranches())
	}
	m := NewModes(nbranches, nions)
	read := 0
	for {
		err := r.Next(m)
		if err != nil {
			if _, ok := err.(LastQpointError); !ok {
				Te.Fatal(err)
			}
			break
		}
		if m.Q.At(0, 0) != float64(read) {
			Te.Errorf("q-points read out of order: %v at position %d", m.Q.At(0, 0), read)
		}
		read++
	}
	if read != 3 {
		Te.Errorf("read %d q-points, wanted 3", read)
	}
	if r.Readable() {
		Te.Error("an exhausted reader should not be readable")
	}
	r.Reset()
	if !r.Readable() {
		Te.Error("a reset reader should be readable again")
	}
	if err := r.Next(m); err != nil || m.Q.At(0, 0) != 0 {
		Te.Errorf("reading after Reset should give the first q-point again: %v %v", err, m.Q.At(0, 0))
	}
	if err := r.Next(nil); err == nil {
		Te.Error("the in-memory reader needs a buffer to copy into")
	}
	//reading into a wrongly shaped buffer fails without advancing
	if err := r.Next(NewModes(nbranches, nions+1)); err == nil {
		Te.Error("reading into a wrongly shaped buffer should fail")
	}
	if err := r.Next(m); err != nil || m.Q.At(0, 0) != 1 {
		Te.Errorf("a failed read should not advance the reader: %v %v", err, m.Q.At(0, 0))
	}
}
