// Package guest generates the WebAssembly module that sits on the far side
// of the engine's boundary.
//
// The module is emitted directly in binary form from a layout contract:
//
//	(module
//	  (import "env" "byvalue_nested" (func $host (param i32 i32 i32) (result i32)))
//	  (memory (export "memory") N)
//	  (func (export "byvalue_nested") (param $bv i32) (param $out i32) (param $cap i32) (result i32)
//	    (memory.copy (i32.const FRAME) (local.get $bv) (i32.const SIZE))
//	    (call $host (i32.const FRAME) (local.get $out) (local.get $cap)))
//	  (func (export "literal") (param $ptr i32)
//	    ;; one typed store per contract slot
//	    (i32.store offset=0 (local.get $ptr) (i32.const 10))
//	    ...))
//
// The export copies the caller's record into its own frame before calling
// the host, so the host only ever sees the callee's copy.
package guest
