// Package codec lowers ByValue records into the contract byte layout and
// lifts them back.
//
// Every scalar is written little endian at the offset the layout contract
// assigns to it; padding bytes are zero. The Go struct layout is never
// copied directly, so the codec stays correct on hosts where Go and the
// contract disagree (see Check).
//
//	buf := codec.Encode(bv)          // 40 bytes
//	bv2, err := codec.Decode(buf)
//
//	err := codec.Lower(mem, ptr, bv) // copy into linear memory
//	bv3, err := codec.Lift(mem, ptr)
package codec
