package byvalue

import (
	"bytes"
	"math"
	"strings"
	"sync"
	"testing"
)

func literal() ByValue {
	return ByValue{
		Abcd:         10,
		FirstStruct:  FirstPart{A: 5, B: 4.0},
		SecondStruct: SecondPart{C: 3.0, D: 9},
	}
}

func TestMarshal(t *testing.T) {
	tests := []struct {
		name string
		bv   ByValue
		want string
	}{
		{
			name: "literal",
			bv:   literal(),
			want: `{"abcd":10 "a":5 "b":4.000000 "c":3.000000 "d":9}`,
		},
		{
			name: "zero",
			bv:   ByValue{},
			want: `{"abcd":0 "a":0 "b":0.000000 "c":0.000000 "d":0}`,
		},
		{
			name: "negative",
			bv: ByValue{
				Abcd:         -1,
				FirstStruct:  FirstPart{A: -42, B: -0.5},
				SecondStruct: SecondPart{C: -3.25, D: math.MinInt32},
			},
			want: `{"abcd":-1 "a":-42 "b":-0.500000 "c":-3.250000 "d":-2147483648}`,
		},
		{
			name: "rounds to six digits",
			bv: ByValue{
				FirstStruct:  FirstPart{B: 4.123456789},
				SecondStruct: SecondPart{C: 0.0000004},
			},
			want: `{"abcd":0 "a":0 "b":4.123457 "c":0.000000 "d":0}`,
		},
		{
			name: "large magnitude",
			bv: ByValue{
				Abcd:         math.MaxInt32,
				FirstStruct:  FirstPart{B: 1e20},
				SecondStruct: SecondPart{C: -1e20},
			},
			want: `{"abcd":2147483647 "a":0 "b":100000000000000000000.000000 "c":-100000000000000000000.000000 "d":0}`,
		},
		{
			name: "negative zero",
			bv:   ByValue{FirstStruct: FirstPart{B: math.Copysign(0, -1)}},
			want: `{"abcd":0 "a":0 "b":-0.000000 "c":0.000000 "d":0}`,
		},
		{
			name: "non-finite",
			bv: ByValue{
				FirstStruct:  FirstPart{B: math.NaN()},
				SecondStruct: SecondPart{C: math.Inf(-1)},
			},
			want: `{"abcd":0 "a":0 "b":nan "c":-inf "d":0}`,
		},
		{
			name: "signed nan and inf",
			bv: ByValue{
				FirstStruct:  FirstPart{B: math.Copysign(math.NaN(), -1)},
				SecondStruct: SecondPart{C: math.Inf(1)},
			},
			want: `{"abcd":0 "a":0 "b":-nan "c":inf "d":0}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Marshal(tc.bv)
			if got != tc.want {
				t.Errorf("Marshal:\n got %s\nwant %s", got, tc.want)
			}
			if again := Marshal(tc.bv); again != got {
				t.Errorf("second Marshal differs: %s", again)
			}
		})
	}
}

func TestMarshal_FieldOrder(t *testing.T) {
	values := []ByValue{
		literal(),
		{Abcd: -7, FirstStruct: FirstPart{A: 1 << 30, B: -1e-9}, SecondStruct: SecondPart{C: 123456789.5, D: -1}},
		{Abcd: math.MinInt32, FirstStruct: FirstPart{A: math.MaxInt32, B: math.MaxFloat64}, SecondStruct: SecondPart{C: 0, D: 0}},
	}
	keys := []string{`"abcd":`, `"a":`, `"b":`, `"c":`, `"d":`}

	for _, bv := range values {
		s := Marshal(bv)
		last := -1
		for _, k := range keys {
			idx := strings.Index(s, k)
			if idx <= last {
				t.Fatalf("key %s out of order in %s", k, s)
			}
			last = idx
		}
		if strings.Contains(s, ",") {
			t.Errorf("rendering must not contain commas: %s", s)
		}
	}
}

func TestMarshal_ValueIndependence(t *testing.T) {
	bv := literal()
	got := Marshal(bv)

	bv.Abcd = 99
	bv.FirstStruct.B = -1
	bv.SecondStruct.D = 0

	if got != `{"abcd":10 "a":5 "b":4.000000 "c":3.000000 "d":9}` {
		t.Errorf("rendered text changed after caller mutation: %s", got)
	}
}

func TestByValue_CopySemantics(t *testing.T) {
	mutate := func(bv ByValue) string {
		bv.FirstStruct.A = 0
		bv.SecondStruct.C = 0
		return Marshal(bv)
	}

	bv := literal()
	inside := mutate(bv)

	if bv.FirstStruct.A != 5 || bv.SecondStruct.C != 3.0 {
		t.Errorf("callee mutation leaked into caller: %+v", bv)
	}
	if inside != `{"abcd":10 "a":0 "b":4.000000 "c":0.000000 "d":9}` {
		t.Errorf("callee rendering = %s", inside)
	}
}

func TestAppendText(t *testing.T) {
	prefix := []byte("out=")
	got := AppendText(prefix, literal())
	want := `out={"abcd":10 "a":5 "b":4.000000 "c":3.000000 "d":9}`
	if string(got) != want {
		t.Errorf("AppendText = %s, want %s", got, want)
	}
}

func TestMaxTextLen(t *testing.T) {
	widest := ByValue{
		Abcd:         math.MinInt32,
		FirstStruct:  FirstPart{A: math.MinInt32, B: -math.MaxFloat64},
		SecondStruct: SecondPart{C: -math.MaxFloat64, D: math.MinInt32},
	}
	got := Marshal(widest)
	if len(got) != MaxTextLen {
		t.Errorf("widest rendering is %d bytes, MaxTextLen is %d", len(got), MaxTextLen)
	}
	if MaxTextLen > BufferSize {
		t.Errorf("MaxTextLen %d exceeds BufferSize %d", MaxTextLen, BufferSize)
	}
}

func TestRenderTo(t *testing.T) {
	want := Marshal(literal())

	t.Run("fits", func(t *testing.T) {
		dst := make([]byte, BufferSize)
		n, truncated := RenderTo(dst, literal())
		if truncated {
			t.Error("unexpected truncation")
		}
		if string(dst[:n]) != want {
			t.Errorf("RenderTo = %s, want %s", dst[:n], want)
		}
	})

	t.Run("exact fit", func(t *testing.T) {
		dst := make([]byte, len(want))
		n, truncated := RenderTo(dst, literal())
		if truncated || n != len(want) {
			t.Errorf("n=%d truncated=%v, want n=%d truncated=false", n, truncated, len(want))
		}
	})

	t.Run("truncates without overflow", func(t *testing.T) {
		backing := bytes.Repeat([]byte{0xAA}, 32)
		dst := backing[:16:16]

		n, truncated := RenderTo(dst, literal())
		if !truncated {
			t.Error("expected truncation")
		}
		if n != 16 {
			t.Errorf("n = %d, want 16", n)
		}
		if string(dst) != want[:16] {
			t.Errorf("prefix = %q, want %q", dst, want[:16])
		}
		for i, b := range backing[16:] {
			if b != 0xAA {
				t.Fatalf("byte %d past the destination was overwritten", 16+i)
			}
		}
	})

	t.Run("empty destination", func(t *testing.T) {
		n, truncated := RenderTo(nil, literal())
		if n != 0 || !truncated {
			t.Errorf("n=%d truncated=%v, want 0 true", n, truncated)
		}
	})
}

func TestMarshal_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	errs := make(chan string, 64)

	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			bv := literal()
			bv.Abcd = int32(i)
			want := Marshal(bv)
			for j := 0; j < 100; j++ {
				if got := Marshal(bv); got != want {
					errs <- got
					return
				}
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for got := range errs {
		t.Errorf("concurrent Marshal produced %s", got)
	}
}
