package main

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"

	"github.com/wippyai/byvalue"
	"github.com/wippyai/byvalue/codec"
	"github.com/wippyai/byvalue/layout"
)

// s32Flag is a flag.Value for int32 fields.
type s32Flag int32

func (f *s32Flag) String() string { return strconv.FormatInt(int64(*f), 10) }

func (f *s32Flag) Set(s string) error {
	v, err := parseS32(s)
	if err != nil {
		return err
	}
	*f = s32Flag(v)
	return nil
}

func parseS32(s string) (int32, error) {
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return int32(v), nil
}

// recordFromValues builds a record from one textual value per contract slot.
func recordFromValues(info layout.Info, values []string) (byvalue.ByValue, error) {
	if len(values) != len(info.Slots) {
		return byvalue.ByValue{}, fmt.Errorf("got %d values for %d fields", len(values), len(info.Slots))
	}

	raw := make([]byte, info.Size)
	for i, s := range info.Slots {
		dst := raw[s.Offset : s.Offset+s.Size()]
		switch s.Kind {
		case layout.ScalarS32:
			v, err := parseS32(values[i])
			if err != nil {
				return byvalue.ByValue{}, fmt.Errorf("%s: %w", s.Path, err)
			}
			binary.LittleEndian.PutUint32(dst, uint32(v))
		case layout.ScalarF64:
			v, err := strconv.ParseFloat(values[i], 64)
			if err != nil {
				return byvalue.ByValue{}, fmt.Errorf("%s: %w", s.Path, err)
			}
			binary.LittleEndian.PutUint64(dst, math.Float64bits(v))
		default:
			return byvalue.ByValue{}, fmt.Errorf("%s: unsupported kind %s", s.Path, s.Kind)
		}
	}
	return codec.Decode(raw)
}

// valuesFromRecord is the inverse of recordFromValues.
func valuesFromRecord(info layout.Info, bv byvalue.ByValue) []string {
	raw := codec.Encode(bv)
	values := make([]string, len(info.Slots))
	for i, s := range info.Slots {
		src := raw[s.Offset : s.Offset+s.Size()]
		switch s.Kind {
		case layout.ScalarS32:
			values[i] = strconv.FormatInt(int64(int32(binary.LittleEndian.Uint32(src))), 10)
		case layout.ScalarF64:
			values[i] = strconv.FormatFloat(math.Float64frombits(binary.LittleEndian.Uint64(src)), 'g', -1, 64)
		}
	}
	return values
}
