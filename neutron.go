/*
 * neutron.go, part of gophonon.
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
	"math"
	"math/cmplx"
	"runtime"

	v3 "github.com/rmera/gophonon/v3"
	"gonum.org/v1/gonum/mat"
)

//Mode selects the neutron process the Bose-Einstein population refers to.
type Mode int

const (
	//EnergyLoss means the neutron loses energy to the sample, creating a
	//phonon (the Stokes process). The population weight is <n>+1.
	EnergyLoss Mode = iota
	//EnergyGain means the neutron gains energy from the sample, absorbing
	//a phonon (anti-Stokes). The population weight is <n>.
	EnergyGain
)

//DefaultFreqCutoff is the default frequency cutoff, in meV. Modes with
//|frequency| under the cutoff are taken as elastic/degenerate and get zero
//one-phonon intensity instead of the diverging 1/frequency factor.
const DefaultFreqCutoff float64 = 1e-5

//Options contains various options for the structure factor functions.
type Options struct {
	temperature float64 //K
	scale       float64
	bose        bool
	mode        Mode
	dw          Grid //auxiliary grid for the Debye-Waller average, nil means no correction
	dwIso       bool
	freqCutoff  float64 //meV
	cpus        int
	qvecs       *v3.Matrix //Cartesian momentum transfer per q-point, 1/Angstrom
	ewidth      float64    //meV
	qwidth      float64
}

//DefaultOptions returns reasonable options for structure factor
//calculations: 5 K (a typical temperature for neutron experiments),
//no overall scaling, Bose weighting for the energy-loss side, the default
//frequency cutoff, no Debye-Waller correction, no resolution broadening
//and all logical CPUs.
func DefaultOptions() *Options {
	r := new(Options)
	r.temperature = 5.0
	r.scale = 1.0
	r.bose = true
	r.mode = EnergyLoss
	r.freqCutoff = DefaultFreqCutoff
	r.cpus = runtime.NumCPU()
	//all available CPUs
	return r
}

//Returns the temperature used for the Bose and Debye-Waller factors, in K,
//and sets it to a new value, if given. The value is checked by the
//calculation functions, not here.
func (O *Options) Temperature(T ...float64) float64 {
	if len(T) > 0 {
		O.temperature = T[0]
	}
	return O.temperature
}

//Returns the multiplicative factor applied to the final structure factor,
//and sets it to a new value, if given.
func (O *Options) Scale(s ...float64) float64 {
	if len(s) > 0 {
		O.scale = s[0]
	}
	return O.scale
}

//Returns whether the Bose factor is calculated and applied,
//and sets the option, if given.
func (O *Options) Bose(b ...bool) bool {
	if len(b) > 0 {
		O.bose = b[0]
	}
	return O.bose
}

//Returns the neutron process (energy loss or gain) whose Bose population
//is applied by StructureFactor, and sets it, if given. SQwMap ignores this
//option, as it always computes both sides of the spectrum.
func (O *Options) Mode(m ...Mode) Mode {
	if len(m) > 0 {
		O.mode = m[0]
	}
	return O.mode
}

//Returns the auxiliary grid over which the Debye-Waller tensors are
//averaged, and sets it to a new value, if given. A nil grid means the
//Debye-Waller correction is not applied at all, which is the default.
func (O *Options) DW(g ...Grid) Grid {
	if len(g) > 0 {
		O.dw = g[0]
	}
	return O.dw
}

//Returns whether the Debye-Waller factor is taken as isotropic, i.e. only
//the diagonal of each 3x3 tensor is used, and sets the option, if given.
func (O *Options) DWIso(b ...bool) bool {
	if len(b) > 0 {
		O.dwIso = b[0]
	}
	return O.dwIso
}

//Returns the frequency cutoff, in meV, and sets it to a new value, if
//given. Modes with |frequency| under the cutoff get zero intensity. A
//non-positive cutoff disables the policy, making exactly-zero frequencies
//an error instead.
func (O *Options) FreqCutoff(c ...float64) float64 {
	if len(c) > 0 {
		O.freqCutoff = c[0]
	}
	return O.freqCutoff
}

//Returns the number of goroutines to be used,
//and sets it to a new value, if given.
func (O *Options) Cpus(n ...int) int {
	if len(n) > 0 && n[0] > 0 {
		O.cpus = n[0]
	}
	return O.cpus
}

//Returns the Cartesian momentum transfer assigned to each q-point, in
//1/Angstrom, one vector per q-point, and sets it, if given. If nil (the
//default) the momentum transfer of each q-point is the q-point itself
//taken through the reciprocal lattice. Setting it allows computing at,
//say, q plus a reciprocal lattice vector.
func (O *Options) QVectors(q ...*v3.Matrix) *v3.Matrix {
	if len(q) > 0 {
		O.qvecs = q[0]
	}
	return O.qvecs
}

//Returns the FWHM, in meV, of the Gaussian energy resolution applied by
//SQwMap, and sets it to a new value, if given. Zero or less (the default)
//means no energy broadening.
func (O *Options) EWidth(w ...float64) float64 {
	if len(w) > 0 {
		O.ewidth = w[0]
	}
	return O.ewidth
}

//Returns the FWHM, in q-axis units, of the Gaussian q resolution applied
//by SQwMap, and sets it to a new value, if given. Zero or less (the
//default) means no q broadening.
func (O *Options) QWidth(w ...float64) float64 {
	if len(w) > 0 {
		O.qwidth = w[0]
	}
	return O.qwidth
}

//StructureFactor computes the one-phonon coherent inelastic neutron
//scattering intensity for every q-point and branch in data (see M. Dove,
//Structure and Dynamics, pg. 226). The returned matrix has one row per
//q-point and one column per branch. For each mode, the contributions of
//all ions (scattering length over square root of mass, times the phase
//factor for the ion position, times the projection of the polarization
//vector on the momentum transfer, times, optionally, the Debye-Waller
//attenuation) are summed coherently; the square modulus of the sum is
//divided by the mode frequency and, if o.Bose() is true, weighted by the
//Bose-Einstein population of the process selected by o.Mode().
//
//Frequencies in data are in meV, with negative values (imaginary modes)
//entering through their absolute value. The scattering lengths sl are in
//fm, per species symbol. Temperatures, cutoffs, parallelism and the rest
//of the knobs come from o; a nil o means DefaultOptions(). The input
//structures are never modified.
func StructureFactor(data *Dataset, cry *Crystal, sl map[string]float64, o *Options) (*mat.Dense, error) {
	if data == nil || cry == nil || sl == nil {
		return nil, newError(ErrNilData, "nil dataset, crystal or scattering-length table given", "StructureFactor")
	}
	if o == nil {
		o = DefaultOptions()
	}
	if o.temperature < 0 {
		return nil, newError(ErrInvalidTemperature, fmt.Sprintf("negative temperature %f K", o.temperature), "StructureFactor")
	}
	if data.NQpts() == 0 {
		return nil, newError(ErrNilData, "dataset has no q-points", "StructureFactor")
	}
	if cry.Len() != data.NIons() {
		return nil, newError(ErrShapeMismatch, fmt.Sprintf("crystal has %d ions but the eigenvectors are sized for %d", cry.Len(), data.NIons()), "StructureFactor")
	}
	norm, err := normFactors(cry, sl)
	if err != nil {
		return nil, errDecorate(err, "StructureFactor")
	}
	Q, err := cartesianQ(data, cry, o.qvecs)
	if err != nil {
		return nil, errDecorate(err, "StructureFactor")
	}
	rcart := cartesianPos(cry)
	var dw []*mat.SymDense
	if o.dw != nil {
		dw, err = DWCoeff(o.dw, cry, o)
		if err != nil {
			return nil, errDecorate(err, "StructureFactor")
		}
	}
	nq := data.NQpts()
	ret := mat.NewDense(nq, data.NBranches(), nil)
	cpus := o.cpus
	if cpus < 1 {
		cpus = 1
	}
	results := make([]chan *sfRow, cpus)
	for i := range results {
		results[i] = make(chan *sfRow)
	}
	//q-points are independent, so they are computed in sets of cpus and
	//the rows collected in order, which keeps the output deterministic.
	for start := 0; start < nq; start += cpus {
		n := cpus
		if start+n > nq {
			n = nq - start
		}
		for w := 0; w < n; w++ {
			go sfQpoint(data.Qpt(start+w), Q.RawRowView(start+w), rcart, norm, dw, o, results[w])
		}
		var firsterr error
		for w := 0; w < n; w++ {
			r := <-results[w]
			if r.err != nil {
				if firsterr == nil {
					firsterr = r.err
				}
				continue
			}
			ret.SetRow(start+w, r.row)
		}
		if firsterr != nil {
			return nil, errDecorate(firsterr, "StructureFactor")
		}
	}
	return ret, nil
}

type sfRow struct {
	row []float64
	err error
}

//The worker function for StructureFactor: computes the intensities of all
//branches at one q-point. q is the Cartesian momentum transfer in 1/Bohr,
//rcart the ion positions in Bohr and norm the per-ion scattering length
//over square root of mass, in atomic units.
func sfQpoint(m *Modes, q []float64, rcart *v3.Matrix, norm []float64, dw []*mat.SymDense, o *Options, out chan<- *sfRow) {
	row := make([]float64, len(m.Freqs))
	nions := m.NIons()
	for j, f := range m.Freqs {
		if o.freqCutoff > 0 && math.Abs(f) < o.freqCutoff {
			//a (near) elastic line, no one-phonon intensity
			continue
		}
		w := f * mevToHartree
		if w == 0 {
			out <- &sfRow{err: newError(ErrDegenerateFreq, fmt.Sprintf("zero frequency in branch %d while the frequency cutoff is disabled", j), "sfQpoint")}
			return
		}
		var F complex128
		for k := 0; k < nions; k++ {
			e := m.Evecs.RawRowView(j*nions + k)
			var edq complex128 //conj(polarization vector) dot Q
			var qr float64     //Q dot r
			for a := 0; a < 3; a++ {
				edq += cmplx.Conj(e[a]) * complex(q[a], 0)
				qr += q[a] * rcart.At(k, a)
			}
			t := complex(norm[k], 0) * cmplx.Rect(1, qr) * edq
			if dw != nil {
				t *= complex(dwAmplitude(dw[k], q, o.dwIso), 0)
			}
			F += t
		}
		sf := real(F*cmplx.Conj(F)) / math.Abs(w)
		if o.bose {
			x := w
			if o.mode == EnergyGain {
				x = -w
			}
			sf *= boseFactor(x, o.temperature)
		}
		row[j] = sf * o.scale
	}
	out <- &sfRow{row: row}
}

//dwAmplitude is the attenuation of the scattering amplitude of one ion
//from its Debye-Waller tensor B: exp(-Q^T B Q/2). With iso, only the
//diagonal of B is used.
func dwAmplitude(B *mat.SymDense, q []float64, iso bool) float64 {
	var s float64
	if iso {
		for a := 0; a < 3; a++ {
			s += B.At(a, a) * q[a] * q[a]
		}
	} else {
		for a := 0; a < 3; a++ {
			for b := 0; b < 3; b++ {
				s += B.At(a, b) * q[a] * q[b]
			}
		}
	}
	return math.Exp(-s / 2)
}

//DWCoeff computes the 3x3 Debye-Waller coefficient tensor of each ion in
//the crystal, averaged over the phonon modes of the given grid, at the
//temperature in o. The tensors are in atomic units (Bohr^2), ready for
//dwAmplitude-style contractions with momentum transfers in 1/Bohr. The
//grid should sample the whole Brillouin zone densely (say, a
//MonkhorstPack grid); near-Gamma q-points get their 3 acoustic branches
//masked out, as the 1/frequency factor diverges there while the true
//contribution vanishes. The grid is streamed, so arbitrarily dense grids
//can be used without holding them in memory.
func DWCoeff(g Grid, cry *Crystal, o *Options) ([]*mat.SymDense, error) {
	if g == nil || cry == nil {
		return nil, newError(ErrNilData, "nil grid or crystal given", "DWCoeff")
	}
	if o == nil {
		o = DefaultOptions()
	}
	if o.temperature < 0 {
		return nil, newError(ErrInvalidTemperature, fmt.Sprintf("negative temperature %f K", o.temperature), "DWCoeff")
	}
	nions := g.NIons()
	nbranches := g.NBranches()
	if nions <= 0 || nbranches <= 0 {
		return nil, newError(ErrBadValue, fmt.Sprintf("grid reports %d ions and %d branches", nions, nbranches), "DWCoeff")
	}
	if cry.Len() != nions {
		return nil, newError(ErrShapeMismatch, fmt.Sprintf("crystal has %d ions but the grid is sized for %d", cry.Len(), nions), "DWCoeff")
	}
	cpus := o.cpus
	if cpus < 1 {
		cpus = 1
	}
	chunk := make([]*Modes, cpus)
	for i := range chunk {
		chunk[i] = NewModes(nbranches, nions)
	}
	results := make([]chan *dwPartial, cpus)
	for i := range results {
		results[i] = make(chan *dwPartial)
	}
	acc := make([]float64, nions*9)
	var wsum float64
	var qread int
	var done bool
	for !done {
		n := 0
		for i := 0; i < cpus; i++ {
			err := g.Next(chunk[i])
			if err != nil {
				if _, ok := err.(LastQpointError); ok {
					done = true
					break
				}
				return nil, errDecorate(err, "DWCoeff")
			}
			n++
		}
		for w := 0; w < n; w++ {
			go dwQpoint(chunk[w], o.temperature, o.freqCutoff, results[w])
		}
		var firsterr error
		for w := 0; w < n; w++ {
			p := <-results[w]
			if p.err != nil {
				if firsterr == nil {
					firsterr = p.err
				}
				continue
			}
			for i, v := range p.t {
				acc[i] += v
			}
			wsum += p.w
			qread++
		}
		if firsterr != nil {
			return nil, errDecorate(firsterr, "DWCoeff")
		}
	}
	if qread == 0 || wsum <= 0 {
		return nil, newError(ErrNilData, fmt.Sprintf("the grid gave %d q-points with total weight %f", qread, wsum), "DWCoeff")
	}
	masses := cry.Masses()
	dw := make([]*mat.SymDense, nions)
	for k := range dw {
		d := make([]float64, 9)
		f := 1 / (2 * masses[k] * AmuEmass * wsum)
		for i := range d {
			d[i] = acc[k*9+i] * f
		}
		dw[k] = mat.NewSymDense(3, d)
	}
	return dw, nil
}

type dwPartial struct {
	t   []float64 //the nions x 3 x 3 weighted tensor sum, row-major
	w   float64
	err error
}

//The worker function for DWCoeff: accumulates the weighted tensor
//contribution of the modes at one q-point.
func dwQpoint(m *Modes, T, cutoff float64, out chan<- *dwPartial) {
	const tol = 1e-8 //|q|^2 under this is "the Gamma point"
	nions := m.NIons()
	t := make([]float64, nions*9)
	smallq := m.Q.Dot(m.Q) < tol
	for j, f := range m.Freqs {
		if smallq && j < 3 {
			//the acoustic branches carry no displacement at Gamma but
			//their 1/frequency factor diverges, so they are masked out.
			continue
		}
		if cutoff > 0 && math.Abs(f) < cutoff {
			continue
		}
		w := f * mevToHartree
		if w == 0 {
			out <- &dwPartial{err: newError(ErrDegenerateFreq, fmt.Sprintf("zero frequency in branch %d while the frequency cutoff is disabled", j), "dwQpoint")}
			return
		}
		var ft float64
		if T > 0 {
			ft = 1 / (w * math.Tanh(w/(2*BoltzmannEh*T)))
		} else {
			ft = 1 / w
		}
		ft *= m.Weight
		for k := 0; k < nions; k++ {
			e := m.Evecs.RawRowView(j*nions + k)
			for a := 0; a < 3; a++ {
				for b := 0; b < 3; b++ {
					t[k*9+3*a+b] += real(e[a]*cmplx.Conj(e[b])) * ft
				}
			}
		}
	}
	out <- &dwPartial{t: t, w: m.Weight}
}

//boseFactor is the phonon population weight entering the scattered
//intensity for a process that transfers energy x (in Hartree) to the
//sample: <n>+1 for x > 0 (phonon creation), <n> for x <= 0 (annihilation).
func boseFactor(x, T float64) float64 {
	var n float64
	if x > 0 {
		n = 1
	}
	if T > 0 {
		n += 1 / math.Expm1(math.Abs(x)/(BoltzmannEh*T))
	}
	return n
}

//BoseFactor returns the Bose-Einstein population weight for a phonon of
//energy e (in meV) at temperature T (in K): <n>+1 if the neutron loses
//energy creating the phonon, <n> if it gains energy absorbing it. At
//T = 0 those weights become 1 and 0 respectively. For e = 0 and T > 0 the
//weight diverges (+Inf is returned); the structure factor functions never
//request weights below their frequency cutoff.
func BoseFactor(e, T float64, mode Mode) float64 {
	x := e * mevToHartree
	if mode == EnergyGain {
		x = -x
	}
	return boseFactor(x, T)
}

//normFactors returns the coherent scattering length over the square root
//of the mass for each ion, in atomic units.
func normFactors(cry *Crystal, sl map[string]float64) ([]float64, error) {
	r := make([]float64, cry.Len())
	for i := 0; i < cry.Len(); i++ {
		ion := cry.Ion(i)
		b, ok := sl[ion.Symbol]
		if !ok {
			return nil, newError(ErrMissingLength, fmt.Sprintf("no coherent scattering length given for species %s", ion.Symbol), "normFactors")
		}
		r[i] = b * fmToBohr / math.Sqrt(ion.Mass*AmuEmass)
	}
	return r, nil
}

//cartesianQ returns the Cartesian momentum transfer of each q-point, in
//1/Bohr: either the q-points taken through the reciprocal lattice, or
//the user-given override converted from 1/Angstrom.
func cartesianQ(data *Dataset, cry *Crystal, override *v3.Matrix) (*v3.Matrix, error) {
	nq := data.NQpts()
	if override != nil {
		if override.NVecs() != nq {
			return nil, newError(ErrShapeMismatch, fmt.Sprintf("%d momentum-transfer vectors given for %d q-points", override.NVecs(), nq), "cartesianQ")
		}
		Q := v3.Zeros(nq)
		Q.Scale(invAngInvBohr, override)
		return Q, nil
	}
	cellBohr := v3.Zeros(3)
	cellBohr.Scale(angToBohr, cry.CellVecs())
	recip, err := ReciprocalVectors(cellBohr)
	if err != nil {
		return nil, errDecorate(err, "cartesianQ")
	}
	Q := v3.Zeros(nq)
	Q.Mul(data.Qpts(), recip)
	return Q, nil
}

//cartesianPos returns the positions of the ions in Bohr.
func cartesianPos(cry *Crystal) *v3.Matrix {
	cellBohr := v3.Zeros(3)
	cellBohr.Scale(angToBohr, cry.CellVecs())
	r := v3.Zeros(cry.Len())
	r.Mul(cry.FracPos(), cellBohr)
	return r
}
