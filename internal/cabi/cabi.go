//go:build cgo

// Package cabi compiles the C rendition of the record and its renderer so the
// Go side can be checked against a real C compiler: same bytes, same text.
package cabi

/*
#include <stdio.h>
#include <stddef.h>

typedef struct {
  int abcd;
  struct {
    int a;
    double b;
  } first_struct;
  struct {
    double c;
    int d;
  } second_struct;
} ByValue;

static char json_buffer[1024];

static const char* byvalue_nested(ByValue bv) {
  snprintf(json_buffer, sizeof(json_buffer),
    "{\"abcd\":%d \"a\":%d \"b\":%lf \"c\":%lf \"d\":%d}",
    bv.abcd, bv.first_struct.a, bv.first_struct.b,
    bv.second_struct.c, bv.second_struct.d);
  return json_buffer;
}

static ByValue byvalue_literal(void) {
  ByValue bv = { 10, { 5, 4.0 }, { 3.0, 9 } };
  return bv;
}

static size_t byvalue_size(void) { return sizeof(ByValue); }
static size_t byvalue_align(void) { return _Alignof(ByValue); }
static size_t off_abcd(void) { return offsetof(ByValue, abcd); }
static size_t off_first(void) { return offsetof(ByValue, first_struct); }
static size_t off_a(void) { return offsetof(ByValue, first_struct.a); }
static size_t off_b(void) { return offsetof(ByValue, first_struct.b); }
static size_t off_second(void) { return offsetof(ByValue, second_struct); }
static size_t off_c(void) { return offsetof(ByValue, second_struct.c); }
static size_t off_d(void) { return offsetof(ByValue, second_struct.d); }
*/
import "C"

import (
	"sync"

	"github.com/wippyai/byvalue"
	"github.com/wippyai/byvalue/layout"
)

// BufferSize is the size of the C renderer's static buffer.
const BufferSize = 1024

// the C renderer writes into one static buffer
var renderMu sync.Mutex

// Render passes bv by value to the C renderer and copies the text out.
func Render(bv byvalue.ByValue) string {
	var cbv C.ByValue
	cbv.abcd = C.int(bv.Abcd)
	cbv.first_struct.a = C.int(bv.FirstStruct.A)
	cbv.first_struct.b = C.double(bv.FirstStruct.B)
	cbv.second_struct.c = C.double(bv.SecondStruct.C)
	cbv.second_struct.d = C.int(bv.SecondStruct.D)

	renderMu.Lock()
	defer renderMu.Unlock()
	return C.GoString(C.byvalue_nested(cbv))
}

// Literal returns the record built by a C initializer.
func Literal() byvalue.ByValue {
	cbv := C.byvalue_literal()
	return byvalue.ByValue{
		Abcd:         int32(cbv.abcd),
		FirstStruct:  byvalue.FirstPart{A: int32(cbv.first_struct.a), B: float64(cbv.first_struct.b)},
		SecondStruct: byvalue.SecondPart{C: float64(cbv.second_struct.c), D: int32(cbv.second_struct.d)},
	}
}

// Layout reports the C compiler's layout of the record in contract terms.
func Layout() layout.Info {
	return layout.Info{
		FieldOffs: map[string]uint32{
			"abcd":          uint32(C.off_abcd()),
			"first-struct":  uint32(C.off_first()),
			"second-struct": uint32(C.off_second()),
		},
		Slots: []layout.Slot{
			{Path: "abcd", Kind: layout.ScalarS32, Offset: uint32(C.off_abcd())},
			{Path: "first-struct.a", Kind: layout.ScalarS32, Offset: uint32(C.off_a())},
			{Path: "first-struct.b", Kind: layout.ScalarF64, Offset: uint32(C.off_b())},
			{Path: "second-struct.c", Kind: layout.ScalarF64, Offset: uint32(C.off_c())},
			{Path: "second-struct.d", Kind: layout.ScalarS32, Offset: uint32(C.off_d())},
		},
		Size:  uint32(C.byvalue_size()),
		Align: uint32(C.byvalue_align()),
	}
}
