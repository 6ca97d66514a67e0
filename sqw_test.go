/*
 * sqw_test.go, part of gophonon.
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
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"
)

func TestSQwMap(Te *testing.T) {
	fmt.Println("S(Q,w) map test!")
	cry, sl := riggedCrystal()
	data, qv := riggedData(Te, []float64{5}) //meV
	o := DefaultOptions()
	o.QVectors(qv)
	o.Bose(false)
	sf, err := StructureFactor(data, cry, sl, o)
	if err != nil {
		Te.Fatal(err)
	}
	s := sf.At(0, 0)
	//with positive-only bins, the gain side falls out of range and only
	//the loss peak lands, in the bin holding 5 meV
	m, err := SQwMap(data, cry, sl, []float64{0, 2, 4, 6, 8}, o)
	if err != nil {
		Te.Fatal(err)
	}
	r, c := m.Dims()
	if r != 1 || c != 4 {
		Te.Fatalf("wrong dimensions %dx%d", r, c)
	}
	for j := 0; j < 4; j++ {
		want := 0.0
		if j == 2 {
			want = s
		}
		if m.At(0, j) != want {
			Te.Errorf("bin %d: got %v want %v", j, m.At(0, j), want)
		}
	}
	//with bins spanning negative energies both sides land, and without
	//Bose weighting they are identical
	ebins := []float64{-8, -6, -4, -2, 0, 2, 4, 6, 8}
	m, err = SQwMap(data, cry, sl, ebins, o)
	if err != nil {
		Te.Fatal(err)
	}
	if m.At(0, 6) != s || m.At(0, 1) != s {
		Te.Errorf("loss and gain peaks: got %v and %v, want %v for both", m.At(0, 6), m.At(0, 1), s)
	}
	for _, j := range []int{0, 2, 3, 4, 5, 7} {
		if m.At(0, j) != 0 {
			Te.Errorf("bin %d should be empty, got %v", j, m.At(0, j))
		}
	}
	//with Bose weighting each side gets its own population
	o.Bose(true)
	o.Temperature(300)
	m, err = SQwMap(data, cry, sl, ebins, o)
	if err != nil {
		Te.Fatal(err)
	}
	if math.Abs(m.At(0, 6)-m.At(0, 1)-s) > 1e-9*s {
		Te.Errorf("loss minus gain: got %v want %v", m.At(0, 6)-m.At(0, 1), s)
	}
	n := BoseFactor(5, 300, EnergyGain)
	if math.Abs(m.At(0, 1)/m.At(0, 6)-n/(n+1)) > 1e-9 {
		Te.Errorf("gain to loss ratio: got %v want %v", m.At(0, 1)/m.At(0, 6), n/(n+1))
	}
	fmt.Println("one-peak map at 300 K", m.RawRowView(0))
	//sub-cutoff branches leave no trace on either side
	soft, err := NewDataset(1, 2)
	if err != nil {
		Te.Fatal(err)
	}
	sm := NewModes(2, 1)
	sm.Freqs[0] = 1e-6 //under DefaultFreqCutoff
	sm.Freqs[1] = 5
	sm.Evecs.Set(0, 0, 1)
	sm.Evecs.Set(1, 0, 1)
	if err := soft.AddQpt(sm); err != nil {
		Te.Fatal(err)
	}
	m, err = SQwMap(soft, cry, sl, ebins, o)
	if err != nil {
		Te.Fatal(err)
	}
	if m.At(0, 4) != 0 || m.At(0, 3) != 0 {
		Te.Errorf("sub-cutoff peaks should be dropped: %v %v", m.At(0, 4), m.At(0, 3))
	}
	if m.At(0, 6) == 0 || m.At(0, 1) == 0 {
		Te.Error("the 5 meV peaks should still be there")
	}
	//bad bins are rejected
	for _, bad := range [][]float64{{1}, {0, 0, 1}, {0, 2, 1}} {
		if _, err := SQwMap(data, cry, sl, bad, o); err == nil {
			Te.Errorf("bin edges %v should be rejected", bad)
		} else if e, ok := err.(CError); !ok || e.Kind() != ErrBadValue {
			Te.Errorf("bin edges %v: got %v", bad, err)
		}
	}
	if _, err := SQwMap(nil, cry, sl, ebins, o); err == nil {
		Te.Error("a nil dataset should be rejected")
	}
}

func TestDigitize(Te *testing.T) {
	fmt.Println("Binning test!")
	edges := []float64{0, 2, 4, 6, 8}
	cases := []struct {
		x    float64
		want int
	}{
		{0, 0},    //lower edges belong to the bin
		{1.99, 0},
		{2, 1},
		{5, 2},
		{7.99, 3},
		{8, -1},    //the top edge is out
		{-0.1, -1},
		{100, -1},
	}
	for _, v := range cases {
		if got := digitize(v.x, edges); got != v.want {
			Te.Errorf("digitize(%v): got %d want %d", v.x, got, v.want)
		}
	}
}

func TestGaussian2D(Te *testing.T) {
	fmt.Println("Gaussian kernel test!")
	bins := floats.Span(make([]float64, 5), 0, 4) //bin width 1
	g, err := Gaussian2D(bins, bins, 2, 2)
	if err != nil {
		Te.Fatal(err)
	}
	r, c := g.Dims()
	if r != 11 || c != 11 {
		Te.Fatalf("wrong dimensions %dx%d, want 11x11", r, c)
	}
	ci, cj := r/2, c/2
	if math.Abs(g.At(ci, cj)-1) > 1e-12 {
		Te.Errorf("the center should be the maximum, 1: got %v", g.At(ci, cj))
	}
	for k := 1; k <= cj; k++ {
		if math.Abs(g.At(ci, cj-k)-g.At(ci, cj+k)) > 1e-12 {
			Te.Errorf("x asymmetry at %d: %v vs %v", k, g.At(ci, cj-k), g.At(ci, cj+k))
		}
		if math.Abs(g.At(ci-k, cj)-g.At(ci+k, cj)) > 1e-12 {
			Te.Errorf("y asymmetry at %d: %v vs %v", k, g.At(ci-k, cj), g.At(ci+k, cj))
		}
		if g.At(ci, cj-k) >= g.At(ci, cj-k+1) {
			Te.Error("the kernel should decay away from the center")
		}
	}
	//the rows run along y: a wide x and narrow y means more columns
	//than rows
	g, err = Gaussian2D(bins, bins, 4, 1)
	if err != nil {
		Te.Fatal(err)
	}
	r, c = g.Dims()
	if r != 7 || c != 21 {
		Te.Errorf("wrong dimensions %dx%d, want 7x21", r, c)
	}
	if r%2 != 1 || c%2 != 1 {
		Te.Error("the kernel dimensions should be odd")
	}
	//bad inputs
	if _, err := Gaussian2D(bins, bins, 0, 1); err == nil {
		Te.Error("a zero width should be rejected")
	}
	if _, err := Gaussian2D(bins[:1], bins, 1, 1); err == nil {
		Te.Error("a single bin edge should be rejected")
	}
	if _, err := Gaussian2D(bins, bins, 1, 1, -1); err == nil {
		Te.Error("a negative extent should be rejected")
	}
}

func TestVoigt(Te *testing.T) {
	fmt.Println("Pseudo-Voigt test!")
	ebins := floats.Span(make([]float64, 12), 0, 11) //11 bins, width 1
	gauss, err := Voigt(ebins, 2, 0)
	if err != nil {
		Te.Fatal(err)
	}
	if len(gauss) != 11 {
		Te.Fatalf("wanted 11 points, got %d", len(gauss))
	}
	lorentz, err := Voigt(ebins, 2, 1)
	if err != nil {
		Te.Fatal(err)
	}
	//both shapes peak at 1 in the center and, by the definition of the
	//FWHM, sit at 0.5 one half-width away, here one bin
	for _, v := range [][]float64{gauss, lorentz} {
		if math.Abs(v[5]-1) > 1e-12 {
			Te.Errorf("center: got %v want 1", v[5])
		}
		if math.Abs(v[4]-0.5) > 1e-12 || math.Abs(v[6]-0.5) > 1e-12 {
			Te.Errorf("half maximum: got %v and %v want 0.5", v[4], v[6])
		}
	}
	//the Lorentzian has the fatter tails
	if lorentz[8] <= gauss[8] || lorentz[0] <= gauss[0] {
		Te.Errorf("tails: Lorentzian %v should exceed Gaussian %v", lorentz[8], gauss[8])
	}
	mixed, err := Voigt(ebins, 2, 0.3)
	if err != nil {
		Te.Fatal(err)
	}
	wantail := 0.3*lorentz[8] + 0.7*gauss[8]
	if math.Abs(mixed[8]-wantail) > 1e-12 {
		Te.Errorf("mixed tail: got %v want %v", mixed[8], wantail)
	}
	if _, err := Voigt(ebins, 0, 0); err == nil {
		Te.Error("a zero width should be rejected")
	}
	if _, err := Voigt(ebins[:1], 2, 0); err == nil {
		Te.Error("a single bin edge should be rejected")
	}
}

func TestSQwMapBroadening(Te *testing.T) {
	fmt.Println("Resolution broadening test!")
	cry, sl := riggedCrystal()
	data, qv := riggedData(Te, []float64{5, 5, 5})
	for i := 0; i < 3; i++ {
		data.Qpt(i).Q.Set(0, 0, 0.1*float64(i+1)) //evenly spaced path
	}
	ebins := floats.Span(make([]float64, 11), 0, 10)
	o := DefaultOptions()
	o.QVectors(qv)
	o.Bose(false)
	sharp, err := SQwMap(data, cry, sl, ebins, o)
	if err != nil {
		Te.Fatal(err)
	}
	s := sharp.At(0, 5)
	if s == 0 || sharp.At(1, 5) != s || sharp.At(2, 5) != s {
		Te.Fatalf("unexpected sharp peaks: %v", sharp.RawRowView(0))
	}
	//energy-only broadening spreads each row around the peak but does not
	//move it, and touches no other row
	o.EWidth(1.5)
	b, err := SQwMap(data, cry, sl, ebins, o)
	if err != nil {
		Te.Fatal(err)
	}
	r, c := b.Dims()
	if r != 3 || c != 10 {
		Te.Fatalf("wrong dimensions %dx%d", r, c)
	}
	for i := 0; i < 3; i++ {
		row := b.RawRowView(i)
		max := 0
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				Te.Fatalf("non-finite intensity at %d,%d", i, j)
			}
			if v > row[max] {
				max = j
			}
		}
		if max != 5 {
			Te.Errorf("row %d peak moved to bin %d", i, max)
		}
		if math.Abs(row[5]-s)/s > 1e-6 {
			Te.Errorf("row %d peak: got %v want about %v", i, row[5], s)
		}
		if row[4] <= 0 || row[6] <= 0 {
			Te.Errorf("row %d shoulders should be populated: %v", i, row)
		}
		if floats.Sum(row) <= s {
			Te.Errorf("row %d should hold more than the bare peak after broadening", i)
		}
	}
	//q broadening mixes neighboring rows, so the middle one, with two
	//neighbors, ends up above the edges
	o.QWidth(0.4)
	b, err = SQwMap(data, cry, sl, ebins, o)
	if err != nil {
		Te.Fatal(err)
	}
	if b.At(1, 5) <= b.At(0, 5) {
		Te.Errorf("the middle row should collect its neighbors: %v vs %v", b.At(1, 5), b.At(0, 5))
	}
	if math.Abs(b.At(0, 5)-b.At(2, 5))/b.At(0, 5) > 1e-9 {
		Te.Errorf("the edge rows should match: %v vs %v", b.At(0, 5), b.At(2, 5))
	}
	//a single q-point still works
	one, oneqv := riggedData(Te, []float64{5})
	o = DefaultOptions()
	o.QVectors(oneqv)
	o.Bose(false)
	o.EWidth(1.5)
	b, err = SQwMap(one, cry, sl, ebins, o)
	if err != nil {
		Te.Fatal(err)
	}
	r, c = b.Dims()
	if r != 1 || c != 10 {
		Te.Fatalf("wrong dimensions %dx%d", r, c)
	}
	if math.Abs(b.At(0, 5)-s)/s > 1e-6 {
		Te.Errorf("lone-row peak: got %v want about %v", b.At(0, 5), s)
	}
}
