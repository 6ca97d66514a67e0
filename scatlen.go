/*
 * scatlen.go, part of gophonon.
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

//A map for assigning a bound coherent neutron scattering length, in fm,
//to each species. The values are the spin- and isotope-averaged ones from
//Sears, Neutron News 3, 26-37 (1992) (doi:10.1080/10448639208218770).
//Note that just the more common elements are present. "D" is deuterium.
var symbolScatLength = map[string]float64{
	"H":  -3.7390,
	"D":  6.671,
	"He": 3.26,
	"Li": -1.90,
	"Be": 7.79,
	"B":  5.30,
	"C":  6.6460,
	"N":  9.36,
	"O":  5.803,
	"F":  5.654,
	"Ne": 4.566,
	"Na": 3.63,
	"Mg": 5.375,
	"Al": 3.449,
	"Si": 4.1491,
	"P":  5.13,
	"S":  2.847,
	"Cl": 9.5770,
	"Ar": 1.909,
	"K":  3.67,
	"Ca": 4.70,
	"Ti": -3.438,
	"V":  -0.3824,
	"Cr": 3.635,
	"Mn": -3.73,
	"Fe": 9.45,
	"Co": 2.49,
	"Ni": 10.3,
	"Cu": 7.718,
	"Zn": 5.680,
	"Ga": 7.288,
	"Ge": 8.185,
	"As": 6.58,
	"Se": 7.970,
	"Br": 6.795,
	"Kr": 7.81,
	"Rb": 7.09,
	"Sr": 7.02,
	"Y":  7.75,
	"Zr": 7.16,
	"Nb": 7.054,
	"Mo": 6.715,
	"Ag": 5.922,
	"Cd": 4.87,
	"Sn": 6.225,
	"Sb": 5.57,
	"Te": 5.80,
	"I":  5.28,
	"Xe": 4.92,
	"Cs": 5.42,
	"Ba": 5.07,
	"La": 8.24,
	"W":  4.86,
	"Pt": 9.60,
	"Au": 7.63,
	"Pb": 9.405,
	"Bi": 8.532,
	"Th": 10.31,
	"U":  8.417,
}

//ScatteringLengths returns a map from species symbol to bound coherent
//neutron scattering length, in fm. The map is a fresh copy of the built-in
//table, so callers can add their own species or replace tabulated values
//(say, for isotopically enriched samples) without affecting the library.
func ScatteringLengths() map[string]float64 {
	r := make(map[string]float64, len(symbolScatLength))
	for k, v := range symbolScatLength {
		r[k] = v
	}
	return r
}
