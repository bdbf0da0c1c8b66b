package guest

import (
	"github.com/wippyai/byvalue/errors"
	"github.com/wippyai/byvalue/layout"
)

const (
	magic   uint32 = 0x6D736100 // "\0asm"
	version uint32 = 1

	sectionType     byte = 1
	sectionImport   byte = 2
	sectionFunction byte = 3
	sectionMemory   byte = 5
	sectionExport   byte = 7
	sectionCode     byte = 10

	funcTypeByte byte = 0x60
	valI32       byte = 0x7F

	kindFunc   byte = 0x00
	kindMemory byte = 0x02

	opEnd      byte = 0x0B
	opCall     byte = 0x10
	opLocalGet byte = 0x20
	opI32Store byte = 0x36
	opI64Store byte = 0x37
	opF32Store byte = 0x38
	opF64Store byte = 0x39
	opI32Const byte = 0x41
	opI64Const byte = 0x42
	opF32Const byte = 0x43
	opF64Const byte = 0x44
	opPrefixFC byte = 0xFC

	memoryCopy uint32 = 10

	pageSize = 65536
)

// Names of the imports and exports of the generated module.
const (
	HostModule   = "env"
	HostFunc     = "byvalue_nested"
	ExportMemory = "memory"
	ExportCall   = "byvalue_nested"
	ExportLit    = "literal"
)

// Config describes the module to generate.
type Config struct {
	// Layout is the record contract the guest stores and copies.
	Layout layout.Info

	// Literal holds the raw bits stored by the "literal" export, one per
	// contract slot, in slot order.
	Literal []uint64

	// Frame is the guest-owned address the record is copied to before the
	// host call. It must be aligned to Layout.Align.
	Frame uint32

	// MinBytes is the amount of linear memory the caller needs; the memory
	// is sized up to whole pages.
	MinBytes uint32
}

// Build emits the guest module in WebAssembly binary format.
func Build(cfg Config) ([]byte, error) {
	info := cfg.Layout
	if len(info.Slots) == 0 {
		return nil, errors.InvalidInput(errors.PhaseLoad, "layout has no slots")
	}
	if len(cfg.Literal) != len(info.Slots) {
		return nil, errors.InvalidInput(errors.PhaseLoad, "literal does not cover every slot")
	}
	if info.Align == 0 || cfg.Frame%info.Align != 0 {
		return nil, errors.New(errors.PhaseLoad, errors.KindInvalidInput).
			Value(cfg.Frame).
			Detail("frame %d not aligned to %d", cfg.Frame, info.Align).
			Build()
	}

	minBytes := cfg.MinBytes
	if end := cfg.Frame + info.Size; end > minBytes {
		minBytes = end
	}
	pages := (uint64(minBytes) + pageSize - 1) / pageSize
	if pages == 0 {
		pages = 1
	}

	w := &writer{}
	w.WriteU32LE(magic)
	w.WriteU32LE(version)

	// Types: 0 = (i32 i32 i32) -> i32, 1 = (i32) -> ()
	sec := &writer{}
	sec.WriteU32(2)
	sec.Byte(funcTypeByte)
	sec.WriteU32(3)
	sec.WriteBytes([]byte{valI32, valI32, valI32})
	sec.WriteU32(1)
	sec.Byte(valI32)
	sec.Byte(funcTypeByte)
	sec.WriteU32(1)
	sec.Byte(valI32)
	sec.WriteU32(0)
	writeSection(w, sectionType, sec.Bytes())

	// Import: func 0
	sec = &writer{}
	sec.WriteU32(1)
	sec.WriteName(HostModule)
	sec.WriteName(HostFunc)
	sec.Byte(kindFunc)
	sec.WriteU32(0)
	writeSection(w, sectionImport, sec.Bytes())

	// Functions: 1 = forwarding call, 2 = literal
	sec = &writer{}
	sec.WriteU32(2)
	sec.WriteU32(0)
	sec.WriteU32(1)
	writeSection(w, sectionFunction, sec.Bytes())

	// Memory: min pages, no max
	sec = &writer{}
	sec.WriteU32(1)
	sec.Byte(0x00)
	sec.WriteU32(uint32(pages))
	writeSection(w, sectionMemory, sec.Bytes())

	sec = &writer{}
	sec.WriteU32(3)
	sec.WriteName(ExportMemory)
	sec.Byte(kindMemory)
	sec.WriteU32(0)
	sec.WriteName(ExportCall)
	sec.Byte(kindFunc)
	sec.WriteU32(1)
	sec.WriteName(ExportLit)
	sec.Byte(kindFunc)
	sec.WriteU32(2)
	writeSection(w, sectionExport, sec.Bytes())

	sec = &writer{}
	sec.WriteU32(2)
	writeBody(sec, forwardBody(cfg.Frame, info.Size))
	lit, err := literalBody(info, cfg.Literal)
	if err != nil {
		return nil, err
	}
	writeBody(sec, lit)
	writeSection(w, sectionCode, sec.Bytes())

	return w.Bytes(), nil
}

func writeBody(sec *writer, body []byte) {
	// no locals besides params
	sec.WriteU32(uint32(len(body) + 1))
	sec.WriteU32(0)
	sec.WriteBytes(body)
}

func forwardBody(frame, size uint32) []byte {
	b := &writer{}

	b.Byte(opI32Const)
	b.WriteS64(int64(int32(frame)))
	b.Byte(opLocalGet)
	b.WriteU32(0)
	b.Byte(opI32Const)
	b.WriteS64(int64(int32(size)))
	b.Byte(opPrefixFC)
	b.WriteU32(memoryCopy)
	b.Byte(0x00) // dst memory
	b.Byte(0x00) // src memory

	b.Byte(opI32Const)
	b.WriteS64(int64(int32(frame)))
	b.Byte(opLocalGet)
	b.WriteU32(1)
	b.Byte(opLocalGet)
	b.WriteU32(2)
	b.Byte(opCall)
	b.WriteU32(0)

	b.Byte(opEnd)
	return b.Bytes()
}

func literalBody(info layout.Info, bits []uint64) ([]byte, error) {
	b := &writer{}

	for i, s := range info.Slots {
		b.Byte(opLocalGet)
		b.WriteU32(0)

		var store byte
		switch s.Kind {
		case layout.ScalarS32, layout.ScalarU32, layout.ScalarChar:
			b.Byte(opI32Const)
			b.WriteS64(int64(int32(uint32(bits[i]))))
			store = opI32Store
		case layout.ScalarS64, layout.ScalarU64:
			b.Byte(opI64Const)
			b.WriteS64(int64(bits[i]))
			store = opI64Store
		case layout.ScalarF32:
			b.Byte(opF32Const)
			b.WriteF32(uint32(bits[i]))
			store = opF32Store
		case layout.ScalarF64:
			b.Byte(opF64Const)
			b.WriteF64(bits[i])
			store = opF64Store
		default:
			return nil, errors.New(errors.PhaseLoad, errors.KindUnsupported).
				Path(s.Path).
				WitType(s.Kind.String()).
				Detail("guest cannot store this slot").
				Build()
		}

		b.Byte(store)
		b.WriteU32(alignExp(s.Size()))
		b.WriteU32(s.Offset)
	}

	b.Byte(opEnd)
	return b.Bytes(), nil
}
