package codec

import (
	"encoding/binary"
	"math"
	"reflect"
	"strings"
	"sync"

	"github.com/wippyai/byvalue"
	"github.com/wippyai/byvalue/errors"
	"github.com/wippyai/byvalue/layout"
)

type accessor struct {
	kind layout.Scalar
	get  func(*byvalue.ByValue) uint64
	set  func(*byvalue.ByValue, uint64)
}

// accessors binds contract slot paths to Go fields. Values travel as raw bits.
var accessors = map[string]accessor{
	"abcd": {
		kind: layout.ScalarS32,
		get:  func(bv *byvalue.ByValue) uint64 { return uint64(uint32(bv.Abcd)) },
		set:  func(bv *byvalue.ByValue, v uint64) { bv.Abcd = int32(uint32(v)) },
	},
	"first-struct.a": {
		kind: layout.ScalarS32,
		get:  func(bv *byvalue.ByValue) uint64 { return uint64(uint32(bv.FirstStruct.A)) },
		set:  func(bv *byvalue.ByValue, v uint64) { bv.FirstStruct.A = int32(uint32(v)) },
	},
	"first-struct.b": {
		kind: layout.ScalarF64,
		get:  func(bv *byvalue.ByValue) uint64 { return math.Float64bits(bv.FirstStruct.B) },
		set:  func(bv *byvalue.ByValue, v uint64) { bv.FirstStruct.B = math.Float64frombits(v) },
	},
	"second-struct.c": {
		kind: layout.ScalarF64,
		get:  func(bv *byvalue.ByValue) uint64 { return math.Float64bits(bv.SecondStruct.C) },
		set:  func(bv *byvalue.ByValue, v uint64) { bv.SecondStruct.C = math.Float64frombits(v) },
	},
	"second-struct.d": {
		kind: layout.ScalarS32,
		get:  func(bv *byvalue.ByValue) uint64 { return uint64(uint32(bv.SecondStruct.D)) },
		set:  func(bv *byvalue.ByValue, v uint64) { bv.SecondStruct.D = int32(uint32(v)) },
	},
}

type field struct {
	accessor
	slot layout.Slot
}

// Codec converts between ByValue and a compiled layout.
type Codec struct {
	goErr  error
	info   layout.Info
	fields []field
}

// New compiles a codec for the given contract layout. Every contract slot
// must be bound to a ByValue field of the same scalar kind.
func New(info layout.Info) (*Codec, error) {
	if len(info.Slots) != len(accessors) {
		return nil, errors.LayoutMismatch(nil, "contract and ByValue have different field counts")
	}

	fields := make([]field, 0, len(info.Slots))
	for _, s := range info.Slots {
		acc, ok := accessors[s.Path]
		if !ok {
			return nil, errors.LayoutMismatch(splitPath(s.Path), "no ByValue field for contract slot")
		}
		if s.Kind != acc.kind {
			return nil, errors.New(errors.PhaseLayout, errors.KindLayoutMismatch).
				Path(splitPath(s.Path)...).
				WitType(s.Kind.String()).
				Detail("ByValue field is %s", acc.kind).
				Build()
		}
		if s.Offset+s.Size() > info.Size {
			return nil, errors.OutOfBounds(errors.PhaseLayout, splitPath(s.Path), int(s.Offset+s.Size()), int(info.Size))
		}
		fields = append(fields, field{accessor: acc, slot: s})
	}

	c := &Codec{info: info, fields: fields}
	goInfo, err := layout.FromGo(reflect.TypeOf(byvalue.ByValue{}))
	if err != nil {
		c.goErr = err
	} else {
		c.goErr = layout.Compare(info, goInfo)
	}
	return c, nil
}

// Size returns the encoded size in bytes.
func (c *Codec) Size() uint32 { return c.info.Size }

// Align returns the required alignment of an encoded record.
func (c *Codec) Align() uint32 { return c.info.Align }

// Layout returns the compiled layout.
func (c *Codec) Layout() layout.Info { return c.info }

// Check reports whether the Go in-memory layout of ByValue matches the
// contract byte for byte. Field kinds are enforced by New; Check covers
// offsets, size and alignment, which the codec does not depend on.
func (c *Codec) Check() error { return c.goErr }

// Encode returns bv in contract layout.
func (c *Codec) Encode(bv byvalue.ByValue) []byte {
	buf := make([]byte, c.info.Size)
	c.put(buf, &bv)
	return buf
}

// EncodeTo writes bv into the first Size bytes of dst.
func (c *Codec) EncodeTo(dst []byte, bv byvalue.ByValue) error {
	if len(dst) < int(c.info.Size) {
		return errors.OutOfBounds(errors.PhaseEncode, nil, int(c.info.Size), len(dst))
	}
	c.put(dst, &bv)
	return nil
}

// Decode reads a record from the first Size bytes of src.
func (c *Codec) Decode(src []byte) (byvalue.ByValue, error) {
	if len(src) < int(c.info.Size) {
		return byvalue.ByValue{}, errors.OutOfBounds(errors.PhaseDecode, nil, int(c.info.Size), len(src))
	}
	var bv byvalue.ByValue
	for _, f := range c.fields {
		p := src[f.slot.Offset:]
		if f.slot.Size() == 8 {
			f.set(&bv, binary.LittleEndian.Uint64(p))
		} else {
			f.set(&bv, uint64(binary.LittleEndian.Uint32(p)))
		}
	}
	return bv, nil
}

// Lower copies bv into mem at ptr. The whole record, padding included, is
// written with a single Write.
func (c *Codec) Lower(mem byvalue.Memory, ptr uint32, bv byvalue.ByValue) error {
	if mem == nil {
		return errors.NotInitialized(errors.PhaseEncode, "memory")
	}
	if ptr%c.info.Align != 0 {
		return errors.New(errors.PhaseEncode, errors.KindInvalidInput).
			Value(ptr).
			Detail("pointer %d not aligned to %d", ptr, c.info.Align).
			Build()
	}

	buf := getBuf(int(c.info.Size))
	defer putBuf(buf)

	c.put(*buf, &bv)
	if err := mem.Write(ptr, *buf); err != nil {
		return errors.New(errors.PhaseEncode, errors.KindOutOfBounds).
			Value(ptr).
			Cause(err).
			Detail("write %d bytes at %d", c.info.Size, ptr).
			Build()
	}
	return nil
}

// Lift copies a record out of mem at ptr.
func (c *Codec) Lift(mem byvalue.Memory, ptr uint32) (byvalue.ByValue, error) {
	if mem == nil {
		return byvalue.ByValue{}, errors.NotInitialized(errors.PhaseDecode, "memory")
	}
	if ptr%c.info.Align != 0 {
		return byvalue.ByValue{}, errors.New(errors.PhaseDecode, errors.KindInvalidInput).
			Value(ptr).
			Detail("pointer %d not aligned to %d", ptr, c.info.Align).
			Build()
	}

	data, err := mem.Read(ptr, c.info.Size)
	if err != nil {
		return byvalue.ByValue{}, errors.New(errors.PhaseDecode, errors.KindOutOfBounds).
			Value(ptr).
			Cause(err).
			Detail("read %d bytes at %d", c.info.Size, ptr).
			Build()
	}
	return c.Decode(data)
}

func (c *Codec) put(dst []byte, bv *byvalue.ByValue) {
	clear(dst[:c.info.Size])
	for _, f := range c.fields {
		p := dst[f.slot.Offset:]
		if f.slot.Size() == 8 {
			binary.LittleEndian.PutUint64(p, f.get(bv))
		} else {
			binary.LittleEndian.PutUint32(p, uint32(f.get(bv)))
		}
	}
}

func splitPath(path string) []string {
	return strings.Split(path, ".")
}

var (
	defaultCodec *Codec
	defaultOnce  sync.Once
)

// Default returns the codec for the ByValue contract.
func Default() *Codec {
	defaultOnce.Do(func() {
		c, err := New(layout.ByValue())
		if err != nil {
			panic("codec: ByValue contract does not bind: " + err.Error())
		}
		defaultCodec = c
	})
	return defaultCodec
}

// Encode returns bv in contract layout using the default codec.
func Encode(bv byvalue.ByValue) []byte { return Default().Encode(bv) }

// Decode reads a record in contract layout using the default codec.
func Decode(src []byte) (byvalue.ByValue, error) { return Default().Decode(src) }

// Lower copies bv into mem at ptr using the default codec.
func Lower(mem byvalue.Memory, ptr uint32, bv byvalue.ByValue) error {
	return Default().Lower(mem, ptr, bv)
}

// Lift copies a record out of mem at ptr using the default codec.
func Lift(mem byvalue.Memory, ptr uint32) (byvalue.ByValue, error) {
	return Default().Lift(mem, ptr)
}
