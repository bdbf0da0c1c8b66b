package byvalue

import (
	"math"
	"strconv"
)

// floatPrecision matches the default precision of a C "%lf" conversion.
const floatPrecision = 6

// MaxTextLen is the longest text any ByValue can render to:
// 29 bytes of punctuation and keys, three int32 values of at most 11 bytes,
// two float64 values of at most 317 bytes ("-" + 309 digits + "." + 6 digits).
const MaxTextLen = 29 + 3*11 + 2*317

// Marshal renders bv as
//
//	{"abcd":<int> "a":<int> "b":<float> "c":<float> "d":<int>}
//
// and returns a string owned by the caller.
func Marshal(bv ByValue) string {
	var scratch [MaxTextLen]byte
	return string(AppendText(scratch[:0], bv))
}

// AppendText appends the rendering of bv to dst and returns the extended slice.
func AppendText(dst []byte, bv ByValue) []byte {
	dst = append(dst, `{"abcd":`...)
	dst = strconv.AppendInt(dst, int64(bv.Abcd), 10)
	dst = append(dst, ` "a":`...)
	dst = strconv.AppendInt(dst, int64(bv.FirstStruct.A), 10)
	dst = append(dst, ` "b":`...)
	dst = appendFloat(dst, bv.FirstStruct.B)
	dst = append(dst, ` "c":`...)
	dst = appendFloat(dst, bv.SecondStruct.C)
	dst = append(dst, ` "d":`...)
	dst = strconv.AppendInt(dst, int64(bv.SecondStruct.D), 10)
	return append(dst, '}')
}

// RenderTo writes the rendering of bv into dst without growing it.
// It returns the number of bytes written and whether the text was cut short.
func RenderTo(dst []byte, bv ByValue) (n int, truncated bool) {
	var scratch [MaxTextLen]byte
	text := AppendText(scratch[:0], bv)
	n = copy(dst, text)
	return n, n < len(text)
}

// appendFloat renders f in fixed notation. Non-finite values use the glibc
// spellings: nan, -nan, inf, -inf.
func appendFloat(dst []byte, f float64) []byte {
	switch {
	case math.IsNaN(f):
		if math.Signbit(f) {
			return append(dst, "-nan"...)
		}
		return append(dst, "nan"...)
	case math.IsInf(f, 1):
		return append(dst, "inf"...)
	case math.IsInf(f, -1):
		return append(dst, "-inf"...)
	}
	return strconv.AppendFloat(dst, f, 'f', floatPrecision, 64)
}
