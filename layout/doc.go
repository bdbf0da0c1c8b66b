// Package layout describes the memory layout contract of the ByValue record.
//
// The record is declared once as a WIT record. Calculator turns that
// declaration into size, alignment, field offsets and a flattened list of
// scalar slots. FromGo derives the same description from a Go struct through
// reflection, and Compare reports every slot where two descriptions diverge.
//
// # Layout Rules
//
// Natural alignment, identical to C on the supported platforms and to the
// Component Model canonical ABI:
//   - Scalars: size equals alignment (s32=4, f64=8, ...)
//   - Records and tuples: fields laid out in order, each aligned to its own
//     alignment; the total is padded to the largest field alignment
//
// For ByValue this yields size 40, align 8:
//
//	abcd           0  s32
//	first-struct.a 8  s32
//	first-struct.b 16 f64
//	second-struct.c 24 f64
//	second-struct.d 32 s32
//
// # Usage
//
//	info := layout.NewCalculator().Calculate(layout.ByValueType())
//	goInfo, err := layout.FromGo(reflect.TypeOf(byvalue.ByValue{}))
//	if err := layout.Compare(info, goInfo); err != nil {
//	    // the two sides disagree
//	}
package layout
