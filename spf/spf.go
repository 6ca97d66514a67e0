package spf

import (
	"bufio"
	"compress/flate"
	"compress/gzip"
	"compress/lzw"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	phonon "github.com/rmera/gophonon"
)

const (
	lzwLitwidth int = 8
)

//Write!
type SpfW struct {
	f         *os.File
	h         io.WriteCloser
	nions     int
	nbranches int
	filename  string
	writeable bool
}

func (S *SpfW) Close() {
	if S == nil {
		return
	}
	if S.writeable {
		S.h.Close()
		S.f.Close()
	}
	S.writeable = false
	return
}

//NIons returns the number of ions per q-point record.
func (S *SpfW) NIons() int {
	return S.nions
}

//NBranches returns the number of phonon branches per q-point record.
func (S *SpfW) NBranches() int {
	return S.nbranches
}

//WNext writes the modes of one q-point to the file. The numbers are
//written with enough digits to recover the original float64 values
//exactly on reading.
func (S *SpfW) WNext(m *phonon.Modes) error {
	if !S.writeable {
		return Error{GridUnIniWrite, S.filename, []string{"WNext"}, true}
	}
	if m == nil {
		return Error{NilModes, S.filename, []string{"WNext"}, true}
	}
	if m.NBranches() != S.nbranches || m.NIons() != S.nions {
		return Error{fmt.Sprintf("%dx%d modes given, but %dx%d expected", m.NBranches(), m.NIons(), S.nbranches, S.nions), S.filename, []string{"WNext"}, true}
	}
	S.h.Write([]byte(fmt.Sprintf("q %v %v %v %v\n", m.Q.At(0, 0), m.Q.At(0, 1), m.Q.At(0, 2), m.Weight)))
	for j := 0; j < S.nbranches; j++ {
		S.h.Write([]byte(fmt.Sprintf("%v\n", m.Freqs[j])))
		for k := 0; k < S.nions; k++ {
			v := m.Evecs.RawRowView(j*S.nions + k)
			S.h.Write([]byte(fmt.Sprintf("%v %v %v %v %v %v\n",
				real(v[0]), imag(v[0]), real(v[1]), imag(v[1]), real(v[2]), imag(v[2]))))
		}
	}
	S.h.Write([]byte("*\n"))
	return nil
}

//NewWriter opens the file name for writing a phonon grid with the given
//ions and branches per q-point, plus whatever metadata comes in header.
//The compression format is taken from the last letter of the file name
//(see the package documentation). compressionLevel, if given, is only
//honored by the flate and gzip formats, where it must be between 1 and 9.
func NewWriter(name string, nions, nbranches int, header map[string]string, compressionLevel ...int) (*SpfW, error) {
	var level int = 9 //the maximum allowed for flate and gzip
	if len(compressionLevel) > 0 {
		level = compressionLevel[0]
	}
	if nions <= 0 || nbranches <= 0 {
		return nil, Error{fmt.Sprintf("Grids need at least one ion and one branch, not %dx%d", nions, nbranches), name, []string{"NewWriter"}, true}
	}
	S := new(SpfW)
	var err error
	S.f, err = os.Create(name)
	if err != nil {
		return nil, err
	}
	format := strings.ToLower(name)[len(name)-1]
	zwriter := func(a io.Writer) (io.WriteCloser, error) {
		r, err := flate.NewWriter(a, level)
		return r, err
	}
	gzipwriter := func(a io.Writer) (io.WriteCloser, error) { return gzip.NewWriterLevel(a, level) }
	zstdwriter := func(a io.Writer) (io.WriteCloser, error) {
		return zstd.NewWriter(a, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	}
	var AnyNewWriter func(io.Writer) (io.WriteCloser, error)
	switch format {
	case 'l':
		AnyNewWriter = func(a io.Writer) (io.WriteCloser, error) { return lzw.NewWriter(a, lzw.MSB, lzwLitwidth), nil }
	case 'f':
		AnyNewWriter = zstdwriter
	case 'z':
		AnyNewWriter = gzipwriter
	case 's':
		AnyNewWriter = zstdwriter
	case 'r':
		AnyNewWriter = zwriter
	default:
		AnyNewWriter = zstdwriter

	}
	S.h, err = AnyNewWriter(S.f)
	if err != nil {
		return nil, Error{"Can't open compressed stream " + err.Error(), S.filename, []string{"NewWriter"}, true}
	}
	S.nions = nions
	S.nbranches = nbranches
	S.filename = name
	S.writeable = true
	for k, v := range header {
		S.h.Write([]byte(fmt.Sprintf("%s=%v\n", k, v)))
	}
	S.h.Write([]byte(fmt.Sprintf("** %d %d\n", S.nions, S.nbranches)))
	return S, nil
}

//Read!
type SpfR struct {
	f            *os.File
	zr           io.ReadCloser
	h            *bufio.Reader
	intermediate *bufio.Reader
	nions        int
	nbranches    int
	filename     string
	readable     bool
}

//*zstd.Decoder does not implement io.ReadCloser by itself, as its Close
//method returns nothing, so we have to dress it up a little. The extra
//indirection shouldn't matter next to the cost of the decompression.
type zstdql struct {
	closeql func()
	*zstd.Decoder
}

//Close closes the object. It can not be used after this call.
func (z zstdql) Close() error {
	z.closeql()
	return nil
}

//New opens a SPF grid for reading, and returns a pointer to the handle,
//a map with the metadata from the header (empty if there is none)
//and error or nil.
func New(name string) (*SpfR, map[string]string, error) {
	S := new(SpfR)
	S.nions = -1 //just so we know if things don't work
	S.nbranches = -1
	m := make(map[string]string)
	var err error
	S.filename = name
	S.f, err = os.Open(S.filename)
	if err != nil {
		return nil, nil, err
	}
	var AnyNewReader func(io.Reader) (io.ReadCloser, error)
	zreader := func(a io.Reader) (io.ReadCloser, error) {
		r := flate.NewReader(a)
		return r, nil
	}
	zstdreader := func(a io.Reader) (io.ReadCloser, error) {
		r, err := zstd.NewReader(a)
		var ql *zstdql
		ql = &zstdql{r.Close, r}
		return ql, err
	}
	gzreader := func(a io.Reader) (io.ReadCloser, error) { return gzip.NewReader(a) }
	switch strings.ToLower(name)[len(name)-1] {
	case 'l':
		AnyNewReader = func(a io.Reader) (io.ReadCloser, error) { return lzw.NewReader(a, lzw.MSB, lzwLitwidth), nil }
	case 'f':
		AnyNewReader = zstdreader
	case 'z':
		AnyNewReader = gzreader
	case 's':
		AnyNewReader = zstdreader
	case 'r':
		AnyNewReader = zreader
	default:
		AnyNewReader = zstdreader

	}
	S.intermediate = bufio.NewReader(S.f)
	S.zr, err = AnyNewReader(S.intermediate)
	if err != nil {
		return nil, nil, Error{"Can't read header " + err.Error(), S.filename, []string{"New"}, true}
	}
	S.h = bufio.NewReader(S.zr)
	for {
		str, err := S.h.ReadString('\n')
		if err != nil {
			return nil, nil, Error{"Can't read header " + err.Error(), S.filename, []string{"New"}, true}
		}
		str = strings.TrimSuffix(str, "\n")
		if strings.HasPrefix(str, "**") {
			dims := strings.Fields(str)
			if len(dims) < 3 {
				return nil, nil, Error{fmt.Sprintf("Can't read the grid dimensions from '%s'", str), S.filename, []string{"New"}, true}
			}
			S.nions, err = strconv.Atoi(dims[1])
			if err != nil {
				return nil, nil, Error{fmt.Sprintf("Can't read the ion number from '%s': %s", dims[1], err.Error()), S.filename, []string{"New"}, true}
			}
			S.nbranches, err = strconv.Atoi(dims[2])
			if err != nil {
				return nil, nil, Error{fmt.Sprintf("Can't read the branch number from '%s': %s", dims[2], err.Error()), S.filename, []string{"New"}, true}
			}
			break
		}
		kv := strings.SplitN(str, "=", 2)
		if len(kv) != 2 {
			return nil, nil, Error{"Malformed header line: " + str, S.filename, []string{"New"}, true}
		}
		m[kv[0]] = kv[1]
	}
	if S.nions <= 0 || S.nbranches <= 0 {
		return nil, nil, Error{fmt.Sprintf("%s: grids need at least one ion and one branch, not %dx%d", WrongFormat, S.nions, S.nbranches), S.filename, []string{"New"}, true}
	}
	S.readable = true
	return S, m, nil
}

//Readable returns true if the handle is readable (if it is possible to call Next on it)
func (S *SpfR) Readable() bool {
	return S.readable
}

//floatsDecode parses exactly len(temp) whitespace-separated numbers from str.
func floatsDecode(str string, temp []float64) error {
	s := strings.Fields(str)
	if len(s) < len(temp) {
		return fmt.Errorf("Ill formated line in spf: Too few fields: %s", str)
	}
	if len(s) > len(temp) {
		return fmt.Errorf("Ill formated line in spf: Too many fields: %s", str)
	}
	for i, v := range s {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("Can't parse number %d (%s). Error: %s", i, v, err.Error())
		}
		temp[i] = f
	}
	return nil
}

//Next puts in the given Modes the q-point, weight, frequencies and
//polarization vectors for the next q-point of the grid. If m is nil the
//record is read, and checked for correctness, but not kept.
//If the returned error implements phonon.LastQpointError, the end of the
//grid has been reached, not an actual error.
func (S *SpfR) Next(m *phonon.Modes) error {
	if !S.readable {
		return Error{GridUnIniRead, S.filename, []string{"Next"}, true}
	}
	if m != nil && (m.NBranches() != S.nbranches || m.NIons() != S.nions) {
		return Error{fmt.Sprintf("%dx%d modes buffer given, but %dx%d expected", m.NBranches(), m.NIons(), S.nbranches, S.nions), S.filename, []string{"Next"}, true}
	}
	str, err := S.h.ReadString('\n')
	if err != nil {
		// EOF should only happen when reading the q-point line
		if err == io.EOF {
			//nothing bad happened here, the grid just ended.
			S.Close()
			return newLastQpointError(S.filename, "Next")
		}
		return Error{message: err.Error(), filename: S.filename, critical: true}
	}
	fields := strings.Fields(str)
	if len(fields) != 5 || fields[0] != "q" {
		return Error{fmt.Sprintf("%s: bad q-point line: %s", WrongFormat, str), S.filename, []string{"Next"}, true}
	}
	var qw [4]float64
	for i, v := range fields[1:] {
		qw[i], err = strconv.ParseFloat(v, 64)
		if err != nil {
			return Error{message: err.Error(), filename: S.filename, critical: true}
		}
	}
	if m != nil {
		m.Q.Set(0, 0, qw[0])
		m.Q.Set(0, 1, qw[1])
		m.Q.Set(0, 2, qw[2])
		m.Weight = qw[3]
	}
	var ftemp [1]float64
	var etemp [6]float64
	for j := 0; j < S.nbranches; j++ {
		str, err = S.h.ReadString('\n')
		if err != nil {
			return Error{ReadError + ": " + err.Error(), S.filename, []string{"Next"}, true}
		}
		if err = floatsDecode(str, ftemp[:]); err != nil {
			return Error{message: err.Error(), filename: S.filename, critical: true}
		}
		if m != nil {
			m.Freqs[j] = ftemp[0]
		}
		for k := 0; k < S.nions; k++ {
			str, err = S.h.ReadString('\n')
			if err != nil {
				return Error{ReadError + ": " + err.Error(), S.filename, []string{"Next"}, true}
			}
			if err = floatsDecode(str, etemp[:]); err != nil {
				return Error{message: err.Error(), filename: S.filename, critical: true}
			}
			if m == nil {
				continue //We ignore this whole q-point, reading the content but not saving it.
				//Note that we still check the record for correctness.
			}
			row := m.Evecs.RawRowView(j*S.nions + k)
			row[0] = complex(etemp[0], etemp[1])
			row[1] = complex(etemp[2], etemp[3])
			row[2] = complex(etemp[4], etemp[5])
		}
	}
	str, err = S.h.ReadString('\n')
	if err != nil {
		return Error{"Can't read the q-point termination mark " + err.Error(), S.filename, []string{"Next"}, true}
	}
	if str[0] != '*' {
		return Error{fmt.Sprintf("%s: wrong number of lines in q-point record", WrongFormat), S.filename, []string{"Next"}, true}
	}
	return nil
}

//Close closes the object, and marks it as unreadable
func (S *SpfR) Close() {
	if !S.readable {
		return
	}
	S.zr.Close()
	S.f.Close()
	S.readable = false
	return
}

//NIons returns the number of ions per q-point of the grid.
func (S *SpfR) NIons() int {
	return S.nions
}

//NBranches returns the number of phonon branches per q-point of the grid.
func (S *SpfR) NBranches() int {
	return S.nbranches
}

//WriteDataset writes a whole in-memory Dataset to the file name, with the
//given metadata. It is a convenience around NewWriter/WNext.
func WriteDataset(name string, d *phonon.Dataset, header map[string]string, compressionLevel ...int) error {
	w, err := NewWriter(name, d.NIons(), d.NBranches(), header, compressionLevel...)
	if err != nil {
		return errDecorate(err, "WriteDataset")
	}
	defer w.Close()
	for i := 0; i < d.NQpts(); i++ {
		if err := w.WNext(d.Qpt(i)); err != nil {
			return errDecorate(err, "WriteDataset")
		}
	}
	return nil
}

//ReadDataset slurps a whole grid file into memory, returning it together
//with the metadata from the header. Large auxiliary grids are better
//streamed with New/Next instead.
func ReadDataset(name string) (*phonon.Dataset, map[string]string, error) {
	r, h, err := New(name)
	if err != nil {
		return nil, nil, err
	}
	d, err := phonon.NewDataset(r.NIons(), r.NBranches())
	if err != nil {
		return nil, nil, errDecorate(err, "ReadDataset")
	}
	for {
		m := phonon.NewModes(r.NBranches(), r.NIons())
		err := r.Next(m)
		if err != nil {
			if _, ok := err.(phonon.LastQpointError); ok {
				break
			}
			return nil, nil, errDecorate(err, "ReadDataset")
		}
		if err := d.AddQpt(m); err != nil {
			return nil, nil, errDecorate(err, "ReadDataset")
		}
	}
	return d, h, nil
}

//Errors

//errDecorate is a helper function that asserts that the error
//implements phonon.Error and decorates the error with the caller's name before returning it.
//if used with a non-phonon.Error error, it will cause a panic.
func errDecorate(err error, caller string) error {
	err2 := err.(phonon.Error) //I know this is the type returned by the functions here
	err2.Decorate(caller)
	return err2
}

//Error is the general structure for SPF grid errors. It fullfills phonon.Error and phonon.GridError
type Error struct {
	message  string
	filename string //the input file that has problems, or empty string if none.
	deco     []string
	critical bool
}

func (err Error) Error() string {
	return fmt.Sprintf("spf file %s error: %s", err.filename, err.message)
}

//Decorate Adds new information to the error
func (E Error) Decorate(deco string) []string {
	//Even though this method does not use a pointer as a receiver, and tries to alter the received,
	//it should work, since E.deco is a slice, and hence a pointer itself.
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

//FileName returns the file to which the failing grid was associated
func (err Error) FileName() string { return err.filename }

//Critical returns true if the error is critical, false otherwise
func (err Error) Critical() bool { return err.critical }

const (
	GridUnIniRead  = "Grid object uninitialized to read"
	GridUnIniWrite = "Grid object uninitialized to write"
	ReadError      = "Error reading q-point"
	UnableToOpen   = "Unable to open file"
	NilModes       = "Given nil modes"
	WrongFormat    = "Wrong format in the SPF file or q-point record"
	EOF            = "EOF"
)

//lastQpointError implements phonon.LastQpointError
type lastQpointError struct {
	deco     []string
	fileName string
}

//NormalLastQpointTermination does nothing
func (E lastQpointError) NormalLastQpointTermination() {}

func (E lastQpointError) FileName() string { return E.fileName }

func (E lastQpointError) Error() string { return "EOF" }

func (E lastQpointError) Critical() bool { return false }

func (E lastQpointError) Decorate(deco string) []string {
	//Even though this method does not use a pointer as a receiver, and tries to alter the received,
	//it should work, since E.deco is a slice, and hence a pointer itself.
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

func newLastQpointError(filename string, caller string) *lastQpointError {
	e := new(lastQpointError)
	e.fileName = filename
	e.deco = []string{caller}
	return e
}
