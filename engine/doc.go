// Package engine runs the ByValue boundary inside a WebAssembly sandbox.
//
// An Engine owns a wazero runtime with two modules:
//
//	env    - host module exporting byvalue_nested(bv_ptr, out_ptr, out_cap) -> i32
//	guest  - module generated from the layout contract (see internal/guest)
//
// # Call Flow
//
//  1. Call lowers the caller's record into guest memory at the argument area
//  2. The guest export copies it into its own frame (memory.copy)
//  3. The guest calls the host import with the frame pointer
//  4. The host lifts the frame, renders it into at most out_cap bytes at
//     out_ptr and returns the byte count
//  5. Call reads the text back and reports truncation
//
// # Guest Memory Map
//
//	0    .. 1024   unused
//	1024 .. 1064   callee frame (guest copy of the record)
//	2048 .. 2088   argument area (host-lowered record)
//	4096 .. 4096+OutputCapacity   rendered text
//
// # Thread Safety
//
// Engine is safe for concurrent use; calls into the guest are serialized.
package engine
