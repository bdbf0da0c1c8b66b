//go:build cgo

package cabi

import (
	"math"
	"runtime"
	"testing"
	"unsafe"

	"github.com/google/go-cmp/cmp"

	"github.com/wippyai/byvalue"
	"github.com/wippyai/byvalue/layout"
)

func TestRender_MatchesGo(t *testing.T) {
	values := []byvalue.ByValue{
		Literal(),
		{},
		{Abcd: -7, FirstStruct: byvalue.FirstPart{A: math.MaxInt32, B: -2.5}, SecondStruct: byvalue.SecondPart{C: 0.0000005, D: math.MinInt32}},
		{FirstStruct: byvalue.FirstPart{B: 1e300}, SecondStruct: byvalue.SecondPart{C: 123456.7890125}},
		{FirstStruct: byvalue.FirstPart{B: math.Copysign(0, -1)}, SecondStruct: byvalue.SecondPart{C: 0.1}},
		{FirstStruct: byvalue.FirstPart{B: -math.MaxFloat64}, SecondStruct: byvalue.SecondPart{C: math.SmallestNonzeroFloat64}},
		{FirstStruct: byvalue.FirstPart{B: math.Inf(1)}, SecondStruct: byvalue.SecondPart{C: math.Inf(-1)}},
	}

	for _, bv := range values {
		if got, want := byvalue.Marshal(bv), Render(bv); got != want {
			t.Errorf("Marshal(%+v)\n got %s\n   C %s", bv, got, want)
		}
	}
}

func TestRender_NaN(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("NaN spelling is libc specific")
	}
	bv := byvalue.ByValue{FirstStruct: byvalue.FirstPart{B: math.NaN()}}
	if got, want := byvalue.Marshal(bv), Render(bv); got != want {
		t.Errorf("got %s, C %s", got, want)
	}
}

func TestRender_FitsBuffer(t *testing.T) {
	widest := byvalue.ByValue{
		Abcd:         math.MinInt32,
		FirstStruct:  byvalue.FirstPart{A: math.MinInt32, B: -math.MaxFloat64},
		SecondStruct: byvalue.SecondPart{C: -math.MaxFloat64, D: math.MinInt32},
	}
	if n := len(Render(widest)); n >= BufferSize {
		t.Fatalf("C output %d bytes was truncated", n)
	}
	if byvalue.MaxTextLen >= BufferSize {
		t.Errorf("MaxTextLen %d does not fit %d", byvalue.MaxTextLen, BufferSize)
	}
}

func TestLiteral(t *testing.T) {
	want := byvalue.ByValue{
		Abcd:         10,
		FirstStruct:  byvalue.FirstPart{A: 5, B: 4.0},
		SecondStruct: byvalue.SecondPart{C: 3.0, D: 9},
	}
	if diff := cmp.Diff(want, Literal()); diff != "" {
		t.Errorf("literal mismatch (-want +got):\n%s", diff)
	}
}

func TestLayout_MatchesContract(t *testing.T) {
	if unsafe.Sizeof(uintptr(0)) < 8 {
		t.Skip("32-bit C ABIs align f64 to 4 inside records")
	}
	if err := layout.Compare(layout.ByValue(), Layout()); err != nil {
		t.Errorf("C layout differs from contract: %v", err)
	}
}
