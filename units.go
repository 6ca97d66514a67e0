/*
 * units.go, part of gophonon.
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

//The user-facing units of the library are meV for frequencies and energies,
//amu for masses, Angstrom for cell vectors and positions, fm for scattering
//lengths and K for temperatures. Internally, everything is converted to
//Hartree atomic units before computing. The factors are CODATA-2018.

const (
	//HartreeMeV is the Hartree energy, in meV.
	HartreeMeV float64 = 27211.386245988
	//BohrAngst is the Bohr radius, in Angstrom.
	BohrAngst float64 = 0.529177210903
	//AmuEmass is the unified atomic mass unit, in electron masses.
	AmuEmass float64 = 1822.888486209
	//BoltzmannEh is the Boltzmann constant, in Hartree/K.
	BoltzmannEh float64 = 3.1668115634556e-6
	//CmInvMeV is the energy of one spectroscopic wavenumber (1/cm), in meV.
	//Useful to prepare frequencies coming from programs that use 1/cm.
	CmInvMeV float64 = 0.12398419843320026
	//THzMeV is the energy equivalent of 1 THz, in meV.
	THzMeV float64 = 4.135667696923859
)

//internal conversion factors, derived from the previous block.
const (
	mevToHartree  float64 = 1 / HartreeMeV
	angToBohr     float64 = 1 / BohrAngst
	fmToBohr      float64 = 1e-5 / BohrAngst //1 fm = 1e-5 Angstrom
	invAngInvBohr float64 = BohrAngst        //1/Angstrom expressed in 1/Bohr
)
