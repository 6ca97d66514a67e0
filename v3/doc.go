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

/*Package v3 implements Matrix and CMatrix types representing row-major 3D
matrices (i.e. Nx3 matrices), real and complex. They are used all over
goPhonon for sets of atomic positions, q-points, momentum transfer vectors
(Matrix) and phonon polarization vectors (CMatrix). Both are based on
gonum's (gonum.org/v1/gonum) Dense and CDense types, with some additional
restrictions because of the fixed number of columns and with some
additional functions that were found useful for the purposes of goPhonon.

*/
package v3
