package byvalue

import "structs"

// BufferSize is the capacity, in bytes, of the fixed rendering buffer.
const BufferSize = 1024

// ByValue is the composite record passed across the boundary.
// Field order and widths are fixed: int32, {int32, float64}, {float64, int32}.
type ByValue struct {
	_            structs.HostLayout
	Abcd         int32
	FirstStruct  FirstPart
	SecondStruct SecondPart
}

// FirstPart is the first nested sub-record of ByValue.
type FirstPart struct {
	_ structs.HostLayout
	A int32
	B float64
}

// SecondPart is the second nested sub-record of ByValue.
type SecondPart struct {
	_ structs.HostLayout
	C float64
	D int32
}

// Memory is bounds-checked linear memory on the far side of a boundary.
type Memory interface {
	Read(offset uint32, length uint32) ([]byte, error)
	Write(offset uint32, data []byte) error
}

// MemorySizer provides the current size of linear memory in bytes.
type MemorySizer interface {
	Size() uint32
}
