package tiff

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/ostafen/digler/internal/jhove/bin"
	"github.com/ostafen/digler/internal/jhove/rational"
)

// ReadByte reads a single BYTE/SBYTE/UNDEFINED value, inline or
// out-of-line, mirroring IFD.java's readByte.
func ReadByte(src bin.Source, order binary.ByteOrder, e Entry) (uint8, error) {
	rd := bin.New(src)
	return rd.ReadU8(e.ValueOffset())
}

// ReadByteArray reads count BYTE/SBYTE/UNDEFINED values starting at the
// entry's value offset.
func ReadByteArray(src bin.Source, order binary.ByteOrder, e Entry) ([]byte, error) {
	rd := bin.New(src)
	return rd.ReadBytes(e.ValueOffset(), int(e.Count))
}

// ReadShort reads a single SHORT value.
func ReadShort(src bin.Source, order binary.ByteOrder, e Entry) (uint16, error) {
	rd := bin.New(src)
	return rd.ReadU16(e.ValueOffset(), order)
}

// ReadShortArray reads count SHORT values.
func ReadShortArray(src bin.Source, order binary.ByteOrder, e Entry) ([]uint16, error) {
	rd := bin.New(src)
	out := make([]uint16, e.Count)
	off := e.ValueOffset()
	for i := range out {
		v, err := rd.ReadU16(off+int64(i)*2, order)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// ReadLong reads a single LONG/IFD value.
func ReadLong(src bin.Source, order binary.ByteOrder, e Entry) (uint32, error) {
	rd := bin.New(src)
	return rd.ReadU32(e.ValueOffset(), order)
}

// ReadLongArray reads count LONG/IFD values.
func ReadLongArray(src bin.Source, order binary.ByteOrder, e Entry) ([]uint32, error) {
	rd := bin.New(src)
	out := make([]uint32, e.Count)
	off := e.ValueOffset()
	for i := range out {
		v, err := rd.ReadU32(off+int64(i)*4, order)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// ReadDouble reads a single DOUBLE value.
func ReadDouble(src bin.Source, order binary.ByteOrder, e Entry) (float64, error) {
	rd := bin.New(src)
	return rd.ReadF64(e.ValueOffset(), order)
}

// ReadDoubleArray reads count DOUBLE values.
func ReadDoubleArray(src bin.Source, order binary.ByteOrder, e Entry) ([]float64, error) {
	rd := bin.New(src)
	out := make([]float64, e.Count)
	off := e.ValueOffset()
	for i := range out {
		v, err := rd.ReadF64(off+int64(i)*8, order)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// ReadRational reads a single RATIONAL value (numerator then
// denominator, each a uint32).
func ReadRational(src bin.Source, order binary.ByteOrder, e Entry) (rational.Rational, error) {
	rd := bin.New(src)
	off := e.ValueOffset()
	num, err := rd.ReadU32(off, order)
	if err != nil {
		return rational.Rational{}, err
	}
	den, err := rd.ReadU32(off+4, order)
	if err != nil {
		return rational.Rational{}, err
	}
	return rational.New(int64(num), int64(den)), nil
}

// ReadRationalArray reads count RATIONAL values laid out as
// num[0] den[0] num[1] den[1] ..., in that order — grounded on
// IFD.java's readRationalArray, which reads numerator then denominator
// per element; it does not duplicate the numerator into the denominator
// slot, and this function pins that behavior.
func ReadRationalArray(src bin.Source, order binary.ByteOrder, e Entry) ([]rational.Rational, error) {
	rd := bin.New(src)
	off := e.ValueOffset()
	out := make([]rational.Rational, e.Count)
	for i := range out {
		num, err := rd.ReadU32(off+int64(i)*8, order)
		if err != nil {
			return nil, err
		}
		den, err := rd.ReadU32(off+int64(i)*8+4, order)
		if err != nil {
			return nil, err
		}
		out[i] = rational.New(int64(num), int64(den))
	}
	return out, nil
}

// ReadSignedRational reads a single SRATIONAL value.
func ReadSignedRational(src bin.Source, order binary.ByteOrder, e Entry) (rational.Rational, error) {
	rd := bin.New(src)
	off := e.ValueOffset()
	num, err := rd.ReadI32(off, order)
	if err != nil {
		return rational.Rational{}, err
	}
	den, err := rd.ReadI32(off+4, order)
	if err != nil {
		return rational.Rational{}, err
	}
	return rational.New(int64(num), int64(den)), nil
}

// ReadSignedRationalArray reads count SRATIONAL values, numerator then
// denominator per element, matching IFD.java's readSignedRationalArray.
func ReadSignedRationalArray(src bin.Source, order binary.ByteOrder, e Entry) ([]rational.Rational, error) {
	rd := bin.New(src)
	off := e.ValueOffset()
	out := make([]rational.Rational, e.Count)
	for i := range out {
		num, err := rd.ReadI32(off+int64(i)*8, order)
		if err != nil {
			return nil, err
		}
		den, err := rd.ReadI32(off+int64(i)*8+4, order)
		if err != nil {
			return nil, err
		}
		out[i] = rational.New(int64(num), int64(den))
	}
	return out, nil
}

// ReadASCII reads an entry's ASCII value as a single NUL-terminated (or
// count-bounded) string, percent-escaping any non-ASCII byte as %XX
// uppercase hex, matching IFD.java's readASCII/byteToHex.
func ReadASCII(src bin.Source, order binary.ByteOrder, e Entry) (string, error) {
	rd := bin.New(src)
	raw, err := rd.ReadBytes(e.ValueOffset(), int(e.Count))
	if err != nil {
		return "", err
	}
	return escapeASCII(trimNUL(raw)), nil
}

// ReadASCIIArray splits an entry's ASCII value on NUL delimiters and
// returns one escaped string per delimited run.
//
// original_source's readASCIIArray declares a counter (nstrs) that is
// incremented while scanning for delimiters but never used to size the
// returned array — String[] strs = new String[nstrs] executes with
// nstrs still zero, so the Java method always returns a zero-length
// array no matter how many strings it actually split out. That is a
// bug in the counter, not an intended "return nothing" behavior: this
// function returns the strings the scan actually finds.
func ReadASCIIArray(src bin.Source, order binary.ByteOrder, e Entry) ([]string, error) {
	rd := bin.New(src)
	raw, err := rd.ReadBytes(e.ValueOffset(), int(e.Count))
	if err != nil {
		return nil, err
	}
	var out []string
	start := 0
	for i, b := range raw {
		if b == 0 {
			if i > start {
				out = append(out, escapeASCII(raw[start:i]))
			}
			start = i + 1
		}
	}
	if start < len(raw) {
		out = append(out, escapeASCII(raw[start:]))
	}
	return out, nil
}

func trimNUL(b []byte) []byte {
	if i := indexByte(b, 0); i >= 0 {
		return b[:i]
	}
	return b
}

func indexByte(b []byte, c byte) int {
	for i, v := range b {
		if v == c {
			return i
		}
	}
	return -1
}

func escapeASCII(b []byte) string {
	var sb strings.Builder
	for _, c := range b {
		if c < 0x20 || c > 0x7e {
			fmt.Fprintf(&sb, "%%%02X", c)
			continue
		}
		sb.WriteByte(c)
	}
	return sb.String()
}
