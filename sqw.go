/*
 * sqw.go, part of gophonon.
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
	"sort"

	v3 "github.com/rmera/gophonon/v3"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

//SQwMap computes S(Q,w), the one-phonon inelastic neutron spectrum over a
//q-point/energy grid. The returned matrix has one row per q-point of data
//and one column per energy bin; ebins gives the bin edges in meV, which
//must increase strictly and may include negative energies. The intensity
//of each mode is summed into the bin its frequency falls in (on the
//neutron energy-loss side) and into the bin of minus its frequency (on
//the energy-gain side), each side weighted by its own Bose-Einstein
//population if o.Bose() is true; intensities outside the binned range are
//dropped. If o.EWidth() or o.QWidth() are set, the map is convolved with
//a 2D Gaussian resolution function of those FWHMs.
//
//Temperature, scaling, Debye-Waller correction and the rest of the knobs
//come from o, as in StructureFactor; o.Mode() is ignored since both sides
//of the spectrum are always computed.
func SQwMap(data *Dataset, cry *Crystal, sl map[string]float64, ebins []float64, o *Options) (*mat.Dense, error) {
	if data == nil || cry == nil || sl == nil {
		return nil, newError(ErrNilData, "nil dataset, crystal or scattering-length table given", "SQwMap")
	}
	if o == nil {
		o = DefaultOptions()
	}
	if len(ebins) < 2 {
		return nil, newError(ErrBadValue, fmt.Sprintf("at least 2 energy bin edges needed, %d given", len(ebins)), "SQwMap")
	}
	for i := 1; i < len(ebins); i++ {
		if ebins[i] <= ebins[i-1] {
			return nil, newError(ErrBadValue, "energy bin edges must increase strictly", "SQwMap")
		}
	}
	//both sides of the spectrum get their own Bose weight here, so the
	//plain structure factor is requested.
	op := *o
	op.bose = false
	sf, err := StructureFactor(data, cry, sl, &op)
	if err != nil {
		return nil, errDecorate(err, "SQwMap")
	}
	nq := data.NQpts()
	ret := mat.NewDense(nq, len(ebins)-1, nil)
	for i := 0; i < nq; i++ {
		m := data.Qpt(i)
		for j, f := range m.Freqs {
			if o.freqCutoff > 0 && math.Abs(f) < o.freqCutoff {
				continue
			}
			s := sf.At(i, j)
			pw, nw := 1.0, 1.0
			if o.bose {
				w := f * mevToHartree
				pw = boseFactor(w, o.temperature)
				nw = boseFactor(-w, o.temperature)
			}
			if b := digitize(f, ebins); b >= 0 {
				ret.Set(i, b, ret.At(i, b)+s*pw)
			}
			if b := digitize(-f, ebins); b >= 0 {
				ret.Set(i, b, ret.At(i, b)+s*nw)
			}
		}
	}
	if o.ewidth > 0 || o.qwidth > 0 {
		ret, err = broaden(ret, data.Qpts(), ebins, o.qwidth, o.ewidth)
		if err != nil {
			return nil, errDecorate(err, "SQwMap")
		}
	}
	return ret, nil
}

//digitize returns the index of the bin x falls in, given the (strictly
//increasing) bin edges, with each bin closed below and open above. It
//returns -1 for values outside the binned range.
func digitize(x float64, edges []float64) int {
	i := sort.Search(len(edges), func(k int) bool { return edges[k] > x })
	if i == 0 || i == len(edges) {
		return -1
	}
	return i - 1
}

//broaden convolves the map with a 2D Gaussian resolution kernel built on
//the same bin widths as the map itself. A width that is not set becomes
//small enough to give effectively no broadening along its axis.
func broaden(m *mat.Dense, qpts *v3.Matrix, ebins []float64, qwidth, ewidth float64) (*mat.Dense, error) {
	nq, _ := m.Dims()
	qbw := 1.0
	if nq > 1 {
		//the norm of the mean difference between consecutive q-points
		//(the sum of differences telescopes).
		var s float64
		for a := 0; a < 3; a++ {
			d := (qpts.At(nq-1, a) - qpts.At(0, a)) / float64(nq-1)
			s += d * d
		}
		qbw = math.Sqrt(s)
	}
	if qbw == 0 {
		qbw = 1.0
	}
	qbins := span(0, qbw*float64(nq)+qbw, nq+1)
	if qwidth <= 0 {
		qwidth = (qbins[1] - qbins[0]) / 10
	}
	if ewidth <= 0 {
		ewidth = (ebins[1] - ebins[0]) / 10
	}
	kernel, err := Gaussian2D(qbins, ebins, qwidth, ewidth)
	if err != nil {
		return nil, errDecorate(err, "broaden")
	}
	//the kernel has the energy axis on its rows, the map on its columns
	kt := mat.DenseCopyOf(kernel.T())
	return fftConvolveSame(m, kt), nil
}

//Gaussian2D returns a 2D Gaussian kernel with independent FWHMs in x and
//y, sampled with about the same bin widths as the given bin edges, over
//extent (default 6) standard deviations to each side. The rows of the
//returned matrix run along y and the columns along x. The kernel always
//has an odd number of bins on each axis, so its maximum, 1, sits exactly
//in the center.
func Gaussian2D(xbins, ybins []float64, xwidth, ywidth float64, extent ...float64) (*mat.Dense, error) {
	ext := 6.0
	if len(extent) > 0 {
		ext = extent[0]
	}
	if len(xbins) < 2 || len(ybins) < 2 {
		return nil, newError(ErrBadValue, "at least 2 bin edges needed on each axis", "Gaussian2D")
	}
	if xwidth <= 0 || ywidth <= 0 || ext <= 0 {
		return nil, newError(ErrBadValue, fmt.Sprintf("widths (%g, %g) and extent (%g) must be positive", xwidth, ywidth, ext), "Gaussian2D")
	}
	xbw := (xbins[len(xbins)-1] - xbins[0]) / float64(len(xbins)-1) //mean bin width
	ybw := (ybins[len(ybins)-1] - ybins[0]) / float64(len(ybins)-1)
	if xbw <= 0 || ybw <= 0 {
		return nil, newError(ErrBadValue, "bin edges must increase", "Gaussian2D")
	}
	//Gauss FWHM = 2*sigma*sqrt(2*ln2)
	xsigma := xwidth / (2 * math.Sqrt(2*math.Ln2))
	ysigma := ywidth / (2 * math.Sqrt(2*math.Ln2))
	nx := int(math.Ceil(2*ext*xsigma/xbw)/2)*2 + 1
	ny := int(math.Ceil(2*ext*ysigma/ybw)/2)*2 + 1
	x := span(-ext*xsigma, ext*xsigma, nx)
	y := span(-ext*ysigma, ext*ysigma, ny)
	gauss := mat.NewDense(len(y), len(x), nil)
	for i, yv := range y {
		for j, xv := range x {
			gauss.Set(i, j, math.Exp(-0.5*((xv/xsigma)*(xv/xsigma)+(yv/ysigma)*(yv/ysigma))))
		}
	}
	return gauss, nil
}

//Voigt returns a pseudo-Voigt resolution function, the linear combination
//of a Lorentzian and a Gaussian of the same FWHM (width, in the units of
//ebins), evaluated at the center of each of the len(ebins)-1 bins. mix
//balances the two shapes: 0 is fully Gaussian, 1 fully Lorentzian.
func Voigt(ebins []float64, width, mix float64) ([]float64, error) {
	if len(ebins) < 2 {
		return nil, newError(ErrBadValue, fmt.Sprintf("at least 2 energy bin edges needed, %d given", len(ebins)), "Voigt")
	}
	if width <= 0 {
		return nil, newError(ErrBadValue, fmt.Sprintf("the width must be positive, got %g", width), "Voigt")
	}
	ebw := (ebins[len(ebins)-1] - ebins[0]) / float64(len(ebins)-1)
	interval := ebins[len(ebins)-1] - ebins[0] - ebw
	x := span(-interval/2, interval/2, len(ebins)-1)
	sigma := width / (2 * math.Sqrt(2*math.Ln2))
	r := make([]float64, len(x))
	for i, v := range x {
		gauss := math.Exp(-0.5 * (v / sigma) * (v / sigma))
		lorentz := 1 / (1 + (v/(0.5*width))*(v/(0.5*width)))
		r[i] = mix*lorentz + (1-mix)*gauss
	}
	return r, nil
}

//span returns n points evenly spaced between l and u, inclusive. A single
//point lands in the middle, which keeps one-bin resolution kernels from
//sampling a far tail instead of the peak.
func span(l, u float64, n int) []float64 {
	if n == 1 {
		return []float64{(l + u) / 2}
	}
	return floats.Span(make([]float64, n), l, u)
}

//fftConvolveSame returns the 2D convolution of a with the kernel k,
//cropped to the shape of a around the center of the full convolution
//(like scipy's fftconvolve in 'same' mode).
func fftConvolveSame(a, k *mat.Dense) *mat.Dense {
	ar, ac := a.Dims()
	kr, kc := k.Dims()
	fr := ar + kr - 1
	fc := ac + kc - 1
	A := make([]complex128, fr*fc)
	K := make([]complex128, fr*fc)
	for i := 0; i < ar; i++ {
		for j := 0; j < ac; j++ {
			A[i*fc+j] = complex(a.At(i, j), 0)
		}
	}
	for i := 0; i < kr; i++ {
		for j := 0; j < kc; j++ {
			K[i*fc+j] = complex(k.At(i, j), 0)
		}
	}
	fft2(A, fr, fc, false)
	fft2(K, fr, fc, false)
	for i := range A {
		A[i] *= K[i]
	}
	fft2(A, fr, fc, true)
	sc := complex(1/float64(fr*fc), 0)
	ret := mat.NewDense(ar, ac, nil)
	ri := (kr - 1) / 2
	ci := (kc - 1) / 2
	for i := 0; i < ar; i++ {
		for j := 0; j < ac; j++ {
			ret.Set(i, j, real(A[(i+ri)*fc+(j+ci)]*sc))
		}
	}
	return ret
}

//fft2 replaces the fr x fc row-major data with its 2D discrete Fourier
//transform, or, with inverse, with the unnormalized inverse transform.
func fft2(data []complex128, fr, fc int, inverse bool) {
	rowfft := fourier.NewCmplxFFT(fc)
	for i := 0; i < fr; i++ {
		row := data[i*fc : (i+1)*fc]
		if inverse {
			rowfft.Sequence(row, row)
		} else {
			rowfft.Coefficients(row, row)
		}
	}
	colfft := fourier.NewCmplxFFT(fr)
	col := make([]complex128, fr)
	for j := 0; j < fc; j++ {
		for i := 0; i < fr; i++ {
			col[i] = data[i*fc+j]
		}
		if inverse {
			colfft.Sequence(col, col)
		} else {
			colfft.Coefficients(col, col)
		}
		for i := 0; i < fr; i++ {
			data[i*fc+j] = col[i]
		}
	}
}
