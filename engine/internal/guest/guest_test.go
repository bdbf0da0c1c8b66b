package guest

import (
	"bytes"
	"context"
	"math"
	"testing"

	"github.com/tetratelabs/wazero"

	"github.com/wippyai/byvalue/errors"
	"github.com/wippyai/byvalue/layout"
)

func literalBits() []uint64 {
	return []uint64{10, 5, math.Float64bits(4.0), math.Float64bits(3.0), 9}
}

func TestWriter_LEB128(t *testing.T) {
	tests := []struct {
		name string
		fn   func(w *writer)
		want []byte
	}{
		{"u32 zero", func(w *writer) { w.WriteU32(0) }, []byte{0x00}},
		{"u32 127", func(w *writer) { w.WriteU32(127) }, []byte{0x7F}},
		{"u32 128", func(w *writer) { w.WriteU32(128) }, []byte{0x80, 0x01}},
		{"u32 624485", func(w *writer) { w.WriteU32(624485) }, []byte{0xE5, 0x8E, 0x26}},
		{"s64 zero", func(w *writer) { w.WriteS64(0) }, []byte{0x00}},
		{"s64 63", func(w *writer) { w.WriteS64(63) }, []byte{0x3F}},
		{"s64 64", func(w *writer) { w.WriteS64(64) }, []byte{0xC0, 0x00}},
		{"s64 -1", func(w *writer) { w.WriteS64(-1) }, []byte{0x7F}},
		{"s64 -123456", func(w *writer) { w.WriteS64(-123456) }, []byte{0xC0, 0xBB, 0x78}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := &writer{}
			tc.fn(w)
			if !bytes.Equal(w.Bytes(), tc.want) {
				t.Errorf("got %x, want %x", w.Bytes(), tc.want)
			}
		})
	}
}

func TestBuild_Header(t *testing.T) {
	bin, err := Build(Config{Layout: layout.ByValue(), Literal: literalBits(), Frame: 1024})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if !bytes.HasPrefix(bin, []byte{0x00, 'a', 's', 'm', 0x01, 0x00, 0x00, 0x00}) {
		t.Errorf("bad header: %x", bin[:8])
	}

	// Section IDs must be strictly increasing.
	var ids []byte
	for p := 8; p < len(bin); {
		ids = append(ids, bin[p])
		p++
		size, n := readU32(bin[p:])
		p += n + int(size)
	}
	want := []byte{sectionType, sectionImport, sectionFunction, sectionMemory, sectionExport, sectionCode}
	if !bytes.Equal(ids, want) {
		t.Errorf("sections = %v, want %v", ids, want)
	}
}

func TestBuild_Compiles(t *testing.T) {
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)

	bin, err := Build(Config{Layout: layout.ByValue(), Literal: literalBits(), Frame: 1024, MinBytes: 3 * pageSize})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	compiled, err := rt.CompileModule(ctx, bin)
	if err != nil {
		t.Fatalf("CompileModule: %v", err)
	}
	defer compiled.Close(ctx)

	exports := compiled.ExportedFunctions()
	for _, name := range []string{ExportCall, ExportLit} {
		if _, ok := exports[name]; !ok {
			t.Errorf("missing export %q", name)
		}
	}
	imports := compiled.ImportedFunctions()
	if len(imports) != 1 {
		t.Fatalf("imports = %d, want 1", len(imports))
	}
	if mod, name, _ := imports[0].Import(); mod != HostModule || name != HostFunc {
		t.Errorf("import = %s.%s, want %s.%s", mod, name, HostModule, HostFunc)
	}
	mems := compiled.ExportedMemories()
	if mem, ok := mems[ExportMemory]; !ok || mem.Min() != 3 {
		t.Errorf("memory export missing or wrong size: %v", mems)
	}
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		cfg  Config
		name string
	}{
		{Config{Layout: layout.Info{}, Literal: nil, Frame: 0}, "empty layout"},
		{Config{Layout: layout.ByValue(), Literal: literalBits()[:2], Frame: 1024}, "short literal"},
		{Config{Layout: layout.ByValue(), Literal: literalBits(), Frame: 1028}, "misaligned frame"},
		{Config{
			Layout:  layout.Info{Size: 1, Align: 1, Slots: []layout.Slot{{Path: "flag", Kind: layout.ScalarBool}}},
			Literal: []uint64{1},
		}, "unsupported slot"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Build(tc.cfg)
			if err == nil {
				t.Fatal("expected error")
			}
			var e *errors.Error
			if !errors.As(err, &e) || e.Phase != errors.PhaseLoad {
				t.Errorf("error %v should be a load-phase error", err)
			}
		})
	}
}

func readU32(b []byte) (uint32, int) {
	var v uint32
	var shift uint
	for i, c := range b {
		v |= uint32(c&0x7f) << shift
		if c&0x80 == 0 {
			return v, i + 1
		}
		shift += 7
	}
	return v, len(b)
}
