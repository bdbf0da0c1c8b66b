// Package byvalue passes a fixed-layout composite record by value across
// foreign-call boundaries and renders it into a deterministic text form.
//
// The record mirrors this C declaration:
//
//	typedef struct {
//	  int abcd;
//	  struct { int a; double b; } first_struct;
//	  struct { double c; int d; } second_struct;
//	} ByValue;
//
// # Architecture Overview
//
//	byvalue/             Record types, text rendering, Memory interface
//	├── layout/          Layout contract: WIT declaration, size/align/offsets, drift checks
//	├── codec/           Lower/lift the record to/from contract bytes in linear memory
//	├── engine/          wazero boundary: host import + generated guest module
//	├── errors/          Structured error types
//	├── internal/cabi/   cgo boundary against the C fixture (cgo builds only)
//	└── cmd/byvalue/     Harness CLI
//
// # Quick Start
//
//	bv := byvalue.ByValue{
//	    Abcd:         10,
//	    FirstStruct:  byvalue.FirstPart{A: 5, B: 4.0},
//	    SecondStruct: byvalue.SecondPart{C: 3.0, D: 9},
//	}
//	fmt.Println(byvalue.Marshal(bv))
//	// {"abcd":10 "a":5 "b":4.000000 "c":3.000000 "d":9}
//
// The output is deliberately not JSON: fields are separated by a single
// space, no commas. Consumers compare it byte for byte.
//
// # Thread Safety
//
// Marshal, AppendText and RenderTo return or fill caller-owned memory and are
// safe for concurrent use. Buffer reuses one fixed array and must be used by a
// single goroutine.
package byvalue
