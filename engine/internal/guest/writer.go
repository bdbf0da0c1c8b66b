package guest

import (
	"encoding/binary"
	"math/bits"
)

type writer struct {
	buf []byte
}

func (w *writer) Byte(b byte) {
	w.buf = append(w.buf, b)
}

func (w *writer) Bytes() []byte {
	return w.buf
}

func (w *writer) WriteBytes(b []byte) {
	w.buf = append(w.buf, b...)
}

// WriteU32 writes an unsigned LEB128 value.
func (w *writer) WriteU32(v uint32) {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		w.buf = append(w.buf, b)
		if v == 0 {
			return
		}
	}
}

// WriteS64 writes a signed LEB128 value.
func (w *writer) WriteS64(v int64) {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		done := (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0)
		if !done {
			b |= 0x80
		}
		w.buf = append(w.buf, b)
		if done {
			return
		}
	}
}

func (w *writer) WriteName(s string) {
	w.WriteU32(uint32(len(s)))
	w.buf = append(w.buf, s...)
}

func (w *writer) WriteU32LE(v uint32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

func (w *writer) WriteF32(bits uint32) {
	w.WriteU32LE(bits)
}

func (w *writer) WriteF64(bits uint64) {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, bits)
}

func writeSection(w *writer, id byte, content []byte) {
	w.Byte(id)
	w.WriteU32(uint32(len(content)))
	w.WriteBytes(content)
}

// log2 of a power-of-two alignment, as memarg expects.
func alignExp(size uint32) uint32 {
	return uint32(bits.TrailingZeros32(size))
}
