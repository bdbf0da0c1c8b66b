package layout

import "go.bytecodealliance.org/wit"

// ByValueType returns the contract declaration of the ByValue record:
//
//	record first-part { a: s32, b: f64 }
//	record second-part { c: f64, d: s32 }
//	record by-value {
//	    abcd: s32,
//	    first-struct: first-part,
//	    second-struct: second-part,
//	}
//
// Each call returns fresh type definitions.
func ByValueType() *wit.TypeDef {
	first := record("first-part",
		wit.Field{Name: "a", Type: wit.S32{}},
		wit.Field{Name: "b", Type: wit.F64{}},
	)
	second := record("second-part",
		wit.Field{Name: "c", Type: wit.F64{}},
		wit.Field{Name: "d", Type: wit.S32{}},
	)
	return record("by-value",
		wit.Field{Name: "abcd", Type: wit.S32{}},
		wit.Field{Name: "first-struct", Type: first},
		wit.Field{Name: "second-struct", Type: second},
	)
}

// ByValue is the calculated contract layout of the ByValue record.
func ByValue() Info {
	return NewCalculator().Calculate(ByValueType())
}

func record(name string, fields ...wit.Field) *wit.TypeDef {
	return &wit.TypeDef{
		Name: &name,
		Kind: &wit.Record{Fields: fields},
	}
}
