package layout

import (
	"fmt"
	"strings"
)

// Scalar is the kind of a leaf value in a record.
type Scalar uint8

const (
	ScalarInvalid Scalar = iota
	ScalarBool
	ScalarS8
	ScalarU8
	ScalarS16
	ScalarU16
	ScalarS32
	ScalarU32
	ScalarS64
	ScalarU64
	ScalarF32
	ScalarF64
	ScalarChar
)

var scalarNames = [...]string{
	ScalarInvalid: "invalid",
	ScalarBool:    "bool",
	ScalarS8:      "s8",
	ScalarU8:      "u8",
	ScalarS16:     "s16",
	ScalarU16:     "u16",
	ScalarS32:     "s32",
	ScalarU32:     "u32",
	ScalarS64:     "s64",
	ScalarU64:     "u64",
	ScalarF32:     "f32",
	ScalarF64:     "f64",
	ScalarChar:    "char",
}

func (s Scalar) String() string {
	if int(s) < len(scalarNames) {
		return scalarNames[s]
	}
	return fmt.Sprintf("scalar(%d)", uint8(s))
}

// Size returns the width of the scalar in bytes.
func (s Scalar) Size() uint32 {
	switch s {
	case ScalarBool, ScalarS8, ScalarU8:
		return 1
	case ScalarS16, ScalarU16:
		return 2
	case ScalarS32, ScalarU32, ScalarF32, ScalarChar:
		return 4
	case ScalarS64, ScalarU64, ScalarF64:
		return 8
	default:
		return 0
	}
}

// Slot is one scalar leaf of a record at an absolute offset.
type Slot struct {
	Path   string // dotted field path, e.g. "first-struct.b"
	Kind   Scalar
	Offset uint32
}

// Size returns the width of the slot in bytes.
func (s Slot) Size() uint32 { return s.Kind.Size() }

// Info is the computed layout of a type.
type Info struct {
	FieldOffs map[string]uint32 // top-level field offsets
	Slots     []Slot            // scalar leaves in declaration order
	Size      uint32
	Align     uint32
}

// Slot returns the slot with the given path.
func (i Info) Slot(path string) (Slot, bool) {
	for _, s := range i.Slots {
		if s.Path == path {
			return s, true
		}
	}
	return Slot{}, false
}

// String renders the layout as a table of slots followed by size and alignment.
func (i Info) String() string {
	width := 0
	for _, s := range i.Slots {
		if len(s.Path) > width {
			width = len(s.Path)
		}
	}

	var b strings.Builder
	for _, s := range i.Slots {
		fmt.Fprintf(&b, "%-*s  offset %2d  size %d  %s\n", width, s.Path, s.Offset, s.Size(), s.Kind)
	}
	fmt.Fprintf(&b, "size %d, align %d", i.Size, i.Align)
	return b.String()
}

// AlignTo rounds offset up to a multiple of align, which must be a power of two.
func AlignTo(offset, align uint32) uint32 {
	if align == 0 {
		return offset
	}
	return (offset + align - 1) &^ (align - 1)
}

func joinPath(prefix, name string) string {
	switch {
	case prefix == "":
		return name
	case name == "":
		return prefix
	}
	return prefix + "." + name
}
