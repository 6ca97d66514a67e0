/*
 * spf_test.go, part of gophonon.
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

package spf

import (
	"fmt"
	"math"
	"testing"

	phonon "github.com/rmera/gophonon"
	v3 "github.com/rmera/gophonon/v3"
	"gonum.org/v1/gonum/mat"
)

//buildGrid fills a small in-memory grid with deterministic, full-precision
//values, so exact round-trips can be checked bit by bit.
func buildGrid(nq, nions, nbranches int) *phonon.Dataset {
	d, err := phonon.NewDataset(nions, nbranches)
	if err != nil {
		panic(err.Error())
	}
	for iq := 0; iq < nq; iq++ {
		m := phonon.NewModes(nbranches, nions)
		m.Q.Set(0, 0, 0.1*float64(iq))
		m.Q.Set(0, 1, math.Sqrt2/float64(iq+3))
		m.Q.Set(0, 2, -1.0/float64(iq+7))
		m.Weight = float64(1 + iq)
		for j := 0; j < nbranches; j++ {
			m.Freqs[j] = 0.9 + 3.7*float64(j) + 0.25*float64(iq)
			for k := 0; k < nions; k++ {
				for a := 0; a < 3; a++ {
					seed := float64(iq + 13*j + 31*k + 101*a)
					m.Evecs.Set(j*nions+k, a, complex(math.Sin(seed), math.Cos(seed)))
				}
			}
		}
		if err := d.AddQpt(m); err != nil {
			panic(err.Error())
		}
	}
	return d
}

func equalGrids(a, b *phonon.Dataset) error {
	if a.NQpts() != b.NQpts() || a.NIons() != b.NIons() || a.NBranches() != b.NBranches() {
		return fmt.Errorf("mismatched grid dimensions: %d/%d/%d vs %d/%d/%d", a.NQpts(), a.NIons(), a.NBranches(), b.NQpts(), b.NIons(), b.NBranches())
	}
	for i := 0; i < a.NQpts(); i++ {
		ma := a.Qpt(i)
		mb := b.Qpt(i)
		if ma.Weight != mb.Weight {
			return fmt.Errorf("weight of q-point %d: %v vs %v", i, ma.Weight, mb.Weight)
		}
		for c := 0; c < 3; c++ {
			if ma.Q.At(0, c) != mb.Q.At(0, c) {
				return fmt.Errorf("component %d of q-point %d: %v vs %v", c, i, ma.Q.At(0, c), mb.Q.At(0, c))
			}
		}
		for j := range ma.Freqs {
			if ma.Freqs[j] != mb.Freqs[j] {
				return fmt.Errorf("frequency %d of q-point %d: %v vs %v", j, i, ma.Freqs[j], mb.Freqs[j])
			}
		}
		for r := 0; r < ma.Evecs.NVecs(); r++ {
			ra := ma.Evecs.RawRowView(r)
			rb := mb.Evecs.RawRowView(r)
			for c := 0; c < 3; c++ {
				if ra[c] != rb[c] {
					return fmt.Errorf("polarization vector row %d of q-point %d: %v vs %v", r, i, ra[c], rb[c])
				}
			}
		}
	}
	return nil
}

//Round-trips a grid through every compression format and requires the
//recovered floats to match the originals exactly.
func TestSPFRoundTrip(Te *testing.T) {
	fmt.Println("SPF round-trip test!")
	d := buildGrid(3, 2, 6)
	dir := Te.TempDir()
	header := map[string]string{"system": "toy", "units": "meV"}
	for _, ext := range []string{"spf", "spz", "sps", "spr", "spl"} {
		name := dir + "/rt." + ext
		if err := WriteDataset(name, d, header); err != nil {
			Te.Fatal(err)
		}
		d2, h, err := ReadDataset(name)
		if err != nil {
			Te.Fatal(err)
		}
		if h["system"] != "toy" || h["units"] != "meV" {
			Te.Errorf("metadata did not survive the %s round-trip: %v", ext, h)
		}
		if err := equalGrids(d, d2); err != nil {
			Te.Errorf("%s: %s", ext, err.Error())
		}
		fmt.Println("round-trip ok for", name)
	}
}

//Tests streaming reads, including skipping records with a nil Modes
//and the normal-termination error at the end of the grid.
func TestSPFStream(Te *testing.T) {
	fmt.Println("SPF streaming test!")
	d := buildGrid(4, 3, 9)
	name := Te.TempDir() + "/stream.sps"
	w, err := NewWriter(name, d.NIons(), d.NBranches(), map[string]string{"comment": "a=b=c"})
	if err != nil {
		Te.Fatal(err)
	}
	for i := 0; i < d.NQpts(); i++ {
		if err := w.WNext(d.Qpt(i)); err != nil {
			Te.Fatal(err)
		}
	}
	w.Close()
	if err := w.WNext(d.Qpt(0)); err == nil {
		Te.Error("writing to a closed grid should fail")
	}
	r, h, err := New(name)
	if err != nil {
		Te.Fatal(err)
	}
	if h["comment"] != "a=b=c" {
		Te.Errorf("values with '=' in the header should survive: %v", h)
	}
	if r.NIons() != 3 || r.NBranches() != 9 {
		Te.Errorf("wrong grid dimensions read: %d ions, %d branches", r.NIons(), r.NBranches())
	}
	if !r.Readable() {
		Te.Error("freshly opened grid should be readable")
	}
	if err := r.Next(nil); err != nil { //skip the first q-point
		Te.Error(err)
	}
	m := phonon.NewModes(r.NBranches(), r.NIons())
	read := 0
	for {
		err := r.Next(m)
		if err != nil {
			if _, ok := err.(phonon.LastQpointError); ok {
				break
			}
			Te.Fatal(err)
		}
		if err := equalGrids(datasetFrom(Te, m), datasetFrom(Te, d.Qpt(read+1))); err != nil {
			Te.Error(err)
		}
		read++
	}
	if read != 3 {
		Te.Errorf("read %d q-points after skipping one, wanted 3", read)
	}
	if r.Readable() {
		Te.Error("exhausted grid should not be readable")
	}
	if err := r.Next(m); err == nil {
		Te.Error("reading an exhausted grid should fail")
	}
}

//datasetFrom wraps a single Modes in a Dataset so equalGrids can compare it.
func datasetFrom(Te *testing.T, m *phonon.Modes) *phonon.Dataset {
	d, err := phonon.NewDataset(m.NIons(), m.NBranches())
	if err != nil {
		Te.Fatal(err)
	}
	if err := d.AddQpt(m); err != nil {
		Te.Fatal(err)
	}
	return d
}

func TestSPFErrors(Te *testing.T) {
	fmt.Println("SPF error handling test!")
	if _, _, err := New("no_such_dir/no_such_file.spf"); err == nil {
		Te.Error("opening a missing file should fail")
	}
	if _, err := NewWriter(Te.TempDir()+"/bad.spf", 0, 6, nil); err == nil {
		Te.Error("a grid with no ions should be rejected")
	}
	name := Te.TempDir() + "/shape.sps"
	w, err := NewWriter(name, 2, 6, nil)
	if err != nil {
		Te.Fatal(err)
	}
	if err := w.WNext(nil); err == nil {
		Te.Error("writing nil modes should fail")
	}
	wrong := phonon.NewModes(3, 2) //3 branches instead of 6
	if err := w.WNext(wrong); err == nil {
		Te.Error("writing modes with the wrong shape should fail")
	}
	if err := w.WNext(phonon.NewModes(6, 2)); err != nil {
		Te.Error(err)
	}
	w.Close()
	r, _, err := New(name)
	if err != nil {
		Te.Fatal(err)
	}
	defer r.Close()
	err = r.Next(wrong)
	if err == nil {
		Te.Error("reading into a wrongly shaped buffer should fail")
	} else if _, ok := err.(phonon.GridError); !ok {
		Te.Error("spf errors should implement phonon.GridError")
	}
	if err := r.Next(phonon.NewModes(6, 2)); err != nil {
		Te.Error(err)
	}
}

//The Debye-Waller average must not care whether the grid comes from
//memory or is streamed from a file.
func TestSPFDWGrid(Te *testing.T) {
	fmt.Println("SPF Debye-Waller grid source test!")
	d := buildGrid(5, 2, 6)
	cell, err := v3.NewMatrix([]float64{4, 0, 0, 0, 4, 0, 0, 0, 4})
	if err != nil {
		Te.Fatal(err)
	}
	fpos, err := v3.NewMatrix([]float64{0, 0, 0, 0.5, 0.5, 0.5})
	if err != nil {
		Te.Fatal(err)
	}
	ions := []*phonon.Ion{{Symbol: "C", Mass: 12.011}, {Symbol: "O", Mass: 15.999}}
	cry, err := phonon.NewCrystal(ions, fpos, cell)
	if err != nil {
		Te.Fatal(err)
	}
	o := phonon.DefaultOptions()
	o.Temperature(300)
	mem, err := phonon.NewReader(d)
	if err != nil {
		Te.Fatal(err)
	}
	Bmem, err := phonon.DWCoeff(mem, cry, o)
	if err != nil {
		Te.Fatal(err)
	}
	name := Te.TempDir() + "/dw.sps"
	if err := WriteDataset(name, d, nil); err != nil {
		Te.Fatal(err)
	}
	rf, _, err := New(name)
	if err != nil {
		Te.Fatal(err)
	}
	defer rf.Close()
	Bspf, err := phonon.DWCoeff(rf, cry, o)
	if err != nil {
		Te.Fatal(err)
	}
	if len(Bmem) != len(Bspf) {
		Te.Fatalf("got %d tensors from memory and %d from the file", len(Bmem), len(Bspf))
	}
	for k := range Bmem {
		if !mat.Equal(Bmem[k], Bspf[k]) {
			Te.Errorf("Debye-Waller tensor for ion %d differs between the memory and file grids:\n%v\nvs\n%v", k, mat.Formatted(Bmem[k]), mat.Formatted(Bspf[k]))
		}
	}
}
