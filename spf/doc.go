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
 *
 * goPhonon is currently developed at the Universidad de Santiago de Chile
 * (USACH)
 *

Package spf implements the simple phonon format, an internal format for goPhonon.
spf aims to produce reasonably small files and to be very easy to read and write,
so readers/writers can be easily implemented in other programing languages / for
other libraries or programs, while allowing large auxiliary grids to be streamed
one q-point at a time instead of being slurped into memory.


******************** Format Specification   ***************************************************


An SPF file is compressed. The compression format is given by the last letter of the
file name: 'l' for LZW, 'z' for gzip, 'r' for flate/deflate and 'f' or 's' (or anything
else) for z-standard (zstd), the recommended and default format.

A SPF file may only contain ASCII symbols. Once decompressed, it is organized in lines.

A SPF file has a "header" starting in the first line, and ending with a line that starts
with the characters "**" followed by one or more spaces, the number of ions per q-point,
one or more spaces, and the number of phonon branches per q-point. The header may be
empty, i.e. the "**" line can be the first line of the file.

Each line of the header before the "**" mark must be a pair key=value. The keys and their
meaning are left to the implementation; this package writes whatever metadata it is
handed, and hands back whatever metadata it finds. The "**" sequence may only be used as
a header termination, as described above, and can not appear anywhere else in the file.

After the header, the file contains one record per q-point. A record is:

 1. One line with the character "q", followed by 4 numbers: the 3 components of the
    q-point, in fractional coordinates of the reciprocal lattice, and the weight of
    the q-point in whole-Brillouin-zone averages.
 2. For each branch, in order: one line with the frequency of the branch in meV
    (negative for imaginary/soft modes) followed by one line per ion with 6 numbers,
    the real and imaginary parts of the x, y and z components of the polarization
    vector for that branch and ion, in that order.
 3. One line starting with the character "*" (no whitespaces before), terminating
    the record.

All numbers are whitespace-separated and written in any notation strconv.ParseFloat
accepts. Writers are encouraged to print floats with the smallest number of digits
that still recovers the exact float64 on reading (the %v verb of the fmt package),
which is what this package does.

Z-standard allows several 'levels' of compression that represent different tradeoffs
between compression/decompression speed and final file size. The level used in spf is
left to the implementation, but at least a default level must be provided. This package
always uses the best-compression level for zstd, and takes an optional 1-9 level for
flate and gzip, with a default of 9.

***************************************************************************************************/

package spf
