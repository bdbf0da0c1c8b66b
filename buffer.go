package byvalue

// Buffer is a fixed BufferSize-byte rendering buffer that is overwritten on
// every Render. The slice returned by Render aliases the buffer and stays
// valid only until the next Render. A Buffer must not be shared between
// goroutines; use Marshal when the text has to outlive the next call.
type Buffer struct {
	data      [BufferSize]byte
	n         int
	truncated bool
}

// Render overwrites the buffer with the rendering of bv and returns a view of it.
func (b *Buffer) Render(bv ByValue) []byte {
	b.n, b.truncated = RenderTo(b.data[:], bv)
	return b.data[:b.n:b.n]
}

// Truncated reports whether the last Render did not fit.
func (b *Buffer) Truncated() bool {
	return b.truncated
}

// Len returns the number of bytes produced by the last Render.
func (b *Buffer) Len() int {
	return b.n
}

// String returns a copy of the current contents.
func (b *Buffer) String() string {
	return string(b.data[:b.n])
}
