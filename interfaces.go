/*
 * interfaces.go, part of gophonon.
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

// Grid is the interface for any source of phonon modes over a set of
// q-points, whether kept in memory (Dataset/Reader) or streamed from a
// file (spf.SpfR). Auxiliary grids for the Debye-Waller average can be
// large, so the modes are visited one q-point at a time.
type Grid interface {

	//Is the grid ready to be read?
	Readable() bool

	//Next reads the modes of the next q-point into m, which must be
	//allocated for the grid's number of branches and ions (see NewModes).
	//When the q-points are exhausted it returns an error implementing
	//LastQpointError.
	Next(m *Modes) error

	//Returns the number of ions per q-point
	NIons() int

	//Returns the number of branches per q-point
	NBranches() int
}

//Errors

//This error predates the "wrapping" error system of Go (i.e. the "%w" directive and the errors package). We should avoid
//using the Decorate method and/or make it use the "%w" directive internally.

// Error is the interface for errors that all packages in this library implement. The Decorate method allows to add and retrieve info from the
// error, without changing it's type or wrapping it around something else.
type Error interface {
	Error() string
	Decorate(string) []string //Adds information when the error is passed up. Each call also returns the "decoration" slice of strings resulting from the current call. If passed an empty string, it should just return the current value, not add the empty string to the slice.
	//The decorate slice should contain a list of functions in the calling stack, plus, for each function any relevant information, or nothing. If information is to be added to an element of the slice, it should be in this format: "FunctionName: Extra info"
}

// GridError is the interface for errors while reading grids of q-points.
type GridError interface {
	Error
	Critical() bool
	FileName() string
}

// LastQpointError has a useless function to distinguish the harmless errors (i.e. the grid simply ran
// out of q-points) so they can be filtered in a typeswitch that looks for this interface.
type LastQpointError interface {
	GridError
	NormalLastQpointTermination() //does nothing, just to separate this interface from other GridError's

}
