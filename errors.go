/*
 * errors.go, part of gophonon.
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

import "fmt"

//ErrorKind classifies the failure modes of the package so callers can
//react to them without parsing error messages.
type ErrorKind string

const (
	//The shapes of the given structures are inconsistent with each other
	//(say, a crystal with N ions and eigenvectors sized for N+1).
	ErrShapeMismatch ErrorKind = "ShapeMismatch"
	//A species in the crystal is absent from the scattering-length table.
	ErrMissingLength ErrorKind = "MissingScatteringLength"
	//A negative temperature was given.
	ErrInvalidTemperature ErrorKind = "InvalidTemperature"
	//A zero-frequency mode was found while the frequency cutoff was disabled.
	ErrDegenerateFreq ErrorKind = "DegenerateFrequency"
	//A needed structure is nil or empty.
	ErrNilData ErrorKind = "NilData"
	//A numerical input is out of its valid range (say, a non-positive mass).
	ErrBadValue ErrorKind = "BadValue"
)

//CError is the concrete error type for the phonon package. It fulfills
//the phonon.Error interface.
type CError struct {
	kind ErrorKind
	msg  string
	deco []string
}

func newError(kind ErrorKind, msg, caller string) CError {
	return CError{kind: kind, msg: msg, deco: []string{caller}}
}

func (err CError) Error() string {
	return fmt.Sprintf("%s: %s", string(err.kind), err.msg)
}

//Kind returns the classification of the error.
func (err CError) Kind() ErrorKind { return err.kind }

//Decorate adds new information to the error
func (err CError) Decorate(deco string) []string {
	//Even though this method does not use a pointer as a receiver, and tries to alter the receiver,
	//it should work, since err.deco is a slice, and hence a pointer itself.
	if deco != "" {
		err.deco = append(err.deco, deco)
	}
	return err.deco
}

//errDecorate is a helper function that asserts that the error
//implements phonon.Error and decorates the error with the caller's name before returning it.
//if used with a non-phonon.Error error, it will cause a panic.
func errDecorate(err error, caller string) error {
	err2 := err.(Error)
	err2.Decorate(caller)
	return err2
}

//lastQpointError implements phonon.LastQpointError. It is returned by the
//in-memory Reader when its q-points are exhausted.
type lastQpointError struct {
	deco []string
}

//NormalLastQpointTermination does nothing
func (E lastQpointError) NormalLastQpointTermination() {}

func (E lastQpointError) FileName() string { return "" }

func (E lastQpointError) Error() string { return "EOF" }

func (E lastQpointError) Critical() bool { return false }

func (E lastQpointError) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}
