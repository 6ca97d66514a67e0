/*
 * doc.go, part of gophonon.
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
/***Dedicated to the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche***/

/*Package phonon is the main package of the goPhonon library. It takes
pre-computed lattice-dynamics results (phonon frequencies and polarization
vectors over a set of q-points) and predicts what a coherent inelastic
neutron scattering experiment would see.



	**goPhonon Capabilities**


    Computes the one-phonon coherent inelastic neutron structure factor for
	every q-point and phonon branch, concurrently over q-points.

    Applies the Debye-Waller correction, with the 3x3 tensor of each ion
	averaged over an auxiliary q-point grid which is streamed, so it can be
	arbitrarily dense. Isotropic and anisotropic variants.

    Applies Bose-Einstein population weights for the neutron energy-loss
	(phonon creation) and energy-gain (phonon absorption) sides, at any
	temperature including 0 K.

    Bins the intensities into S(Q,w) maps over both sides of the spectrum,
	with optional 2D Gaussian resolution broadening (a pseudo-Voigt kernel
	is also available).

    Generates reciprocal lattices and Monkhorst-Pack q-point grids.

    Carries a built-in table of bound coherent neutron scattering lengths,
	which the caller can extend or override.

    Reads and writes its own compressed streaming format for mode grids
	(the spf subpackage) and a JSON interchange format (the phjson
	subpackage), and reads calculation setups from TOML files (the conf
	subpackage).

All the user-facing units are meV for energies/frequencies, Angstrom for
distances, amu for masses, fm for scattering lengths and K for
temperatures; conversions to atomic units happen internally.

goPhonon uses its own matrix types for sets of 3D vectors, v3.Matrix and
v3.CMatrix, based on gonum.org/v1/gonum/mat. Each row of a Matrix
represents one point or direction in space.*/
package phonon
