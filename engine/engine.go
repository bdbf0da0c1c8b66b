package engine

import (
	"context"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/byvalue"
	"github.com/wippyai/byvalue/codec"
	"github.com/wippyai/byvalue/engine/internal/guest"
	"github.com/wippyai/byvalue/errors"
)

// Guest memory map, see package doc.
const (
	frameOffset uint32 = 1024
	argOffset   uint32 = 2048
	outOffset   uint32 = 4096

	// MaxOutputCapacity bounds Config.OutputCapacity.
	MaxOutputCapacity uint32 = 1 << 20
)

// Config holds engine configuration. The zero value is usable.
type Config struct {
	// MemoryLimitPages sets the maximum guest memory in pages (64KB each).
	// 0 means the wazero default.
	MemoryLimitPages uint32

	// OutputCapacity is the number of bytes the host may write for one
	// rendering. 0 means byvalue.BufferSize. Longer text is truncated.
	OutputCapacity uint32
}

// Result is the outcome of one call across the boundary.
type Result struct {
	Text      string
	Truncated bool
	// Total is the length of the full rendering, equal to len(Text) unless
	// Truncated.
	Total int
}

// Err returns a truncation error when the rendering did not fit, nil
// otherwise.
func (r Result) Err() error {
	if !r.Truncated {
		return nil
	}
	return errors.Truncated(errors.PhaseRender, len(r.Text), r.Total)
}

// Engine runs the host/guest pair. Create it with New.
type Engine struct {
	runtime  wazero.Runtime
	guest    api.Module
	callFn   api.Function
	literal  api.Function
	mem      *Memory
	codec    *codec.Codec
	mu       sync.Mutex
	capacity uint32
}

// Reference is the record the guest's "literal" export stores.
var Reference = byvalue.ByValue{
	Abcd:         10,
	FirstStruct:  byvalue.FirstPart{A: 5, B: 4.0},
	SecondStruct: byvalue.SecondPart{C: 3.0, D: 9},
}

type callState struct {
	err       error
	truncated bool
	total     int
}

type callStateKey struct{}

// New creates an engine with the host module and a freshly generated guest.
func New(ctx context.Context, cfg *Config) (*Engine, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	capacity := cfg.OutputCapacity
	if capacity == 0 {
		capacity = byvalue.BufferSize
	}
	if capacity > MaxOutputCapacity {
		return nil, errors.New(errors.PhaseRuntime, errors.KindInvalidInput).
			Value(capacity).
			Detail("output capacity %d exceeds %d", capacity, MaxOutputCapacity).
			Build()
	}

	runtimeCfg := wazero.NewRuntimeConfig()
	if cfg.MemoryLimitPages > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
	}

	e := &Engine{
		runtime:  wazero.NewRuntimeWithConfig(ctx, runtimeCfg),
		codec:    codec.Default(),
		capacity: capacity,
	}

	if err := e.init(ctx); err != nil {
		if closeErr := e.runtime.Close(ctx); closeErr != nil {
			Logger().Warn("close runtime after failed init", zap.Error(closeErr))
		}
		return nil, err
	}

	Logger().Debug("engine ready",
		zap.Uint32("record_size", e.codec.Size()),
		zap.Uint32("output_capacity", e.capacity),
		zap.Uint32("memory_bytes", e.mem.Size()))
	return e, nil
}

func (e *Engine) init(ctx context.Context) error {
	_, err := e.runtime.NewHostModuleBuilder(guest.HostModule).
		NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(e.hostByValueNested),
			[]api.ValueType{api.ValueTypeI32, api.ValueTypeI32, api.ValueTypeI32},
			[]api.ValueType{api.ValueTypeI32}).
		Export(guest.HostFunc).
		Instantiate(ctx)
	if err != nil {
		return errors.Registration(guest.HostModule, guest.HostFunc, err)
	}

	bin, err := buildGuest(e.codec, e.capacity)
	if err != nil {
		return err
	}

	mod, err := e.runtime.InstantiateWithConfig(ctx, bin, wazero.NewModuleConfig().WithName("guest"))
	if err != nil {
		return errors.Instantiation("guest", err)
	}
	e.guest = mod

	if e.callFn = mod.ExportedFunction(guest.ExportCall); e.callFn == nil {
		return errors.NotFound(errors.PhaseLoad, "export", guest.ExportCall)
	}
	if e.literal = mod.ExportedFunction(guest.ExportLit); e.literal == nil {
		return errors.NotFound(errors.PhaseLoad, "export", guest.ExportLit)
	}
	mem := mod.ExportedMemory(guest.ExportMemory)
	if mem == nil {
		return errors.NotFound(errors.PhaseLoad, "memory", guest.ExportMemory)
	}
	e.mem = NewMemory(mem)
	return nil
}

// Call passes bv by value to the guest, which hands its own copy to the host
// renderer. The returned text is owned by the caller.
func (e *Engine) Call(ctx context.Context, bv byvalue.ByValue) (Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.guest == nil {
		return Result{}, errors.NotInitialized(errors.PhaseRuntime, "engine")
	}

	if err := e.codec.Lower(e.mem, argOffset, bv); err != nil {
		return Result{}, err
	}

	st := &callState{}
	results, err := e.callFn.Call(context.WithValue(ctx, callStateKey{}, st),
		api.EncodeU32(argOffset), api.EncodeU32(outOffset), api.EncodeU32(e.capacity))
	if err != nil {
		return Result{}, errors.New(errors.PhaseRuntime, errors.KindInvalidData).
			Cause(err).
			Detail("call %s", guest.ExportCall).
			Build()
	}
	if st.err != nil {
		return Result{}, st.err
	}

	n := api.DecodeU32(results[0])
	if n > e.capacity {
		return Result{}, errors.OutOfBounds(errors.PhaseHost, nil, int(n), int(e.capacity))
	}
	text, err := e.mem.Read(outOffset, n)
	if err != nil {
		return Result{}, errors.Wrap(errors.PhaseDecode, errors.KindOutOfBounds, err, "read rendered text")
	}

	res := Result{Text: string(text), Truncated: st.truncated, Total: st.total}
	if res.Truncated {
		Logger().Debug("rendering truncated",
			zap.Uint32("written", n),
			zap.Uint32("capacity", e.capacity),
			zap.Int("total", res.Total))
	}
	return res, nil
}

// Literal asks the guest to build the reference record in its own memory and
// lifts it back.
func (e *Engine) Literal(ctx context.Context) (byvalue.ByValue, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.guest == nil {
		return byvalue.ByValue{}, errors.NotInitialized(errors.PhaseRuntime, "engine")
	}

	if _, err := e.literal.Call(ctx, api.EncodeU32(argOffset)); err != nil {
		return byvalue.ByValue{}, errors.New(errors.PhaseRuntime, errors.KindInvalidData).
			Cause(err).
			Detail("call %s", guest.ExportLit).
			Build()
	}
	return e.codec.Lift(e.mem, argOffset)
}

// Capacity returns the configured output capacity.
func (e *Engine) Capacity() uint32 { return e.capacity }

// Close releases the runtime and both modules.
func (e *Engine) Close(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.runtime == nil {
		return nil
	}
	err := e.runtime.Close(ctx)
	e.runtime = nil
	e.guest = nil
	e.callFn = nil
	e.literal = nil
	e.mem = nil
	return err
}

// hostByValueNested implements env.byvalue_nested(bv_ptr, out_ptr, out_cap) -> i32.
// The record is lifted from the callee's frame, never from the caller's copy.
func (e *Engine) hostByValueNested(ctx context.Context, mod api.Module, stack []uint64) {
	bvPtr := api.DecodeU32(stack[0])
	outPtr := api.DecodeU32(stack[1])
	outCap := api.DecodeU32(stack[2])

	st, _ := ctx.Value(callStateKey{}).(*callState)
	if st == nil {
		st = &callState{}
	}

	mem := NewMemory(mod.Memory())
	bv, err := e.codec.Lift(mem, bvPtr)
	if err != nil {
		st.err = err
		stack[0] = 0
		return
	}

	view, err := mem.Read(outPtr, outCap)
	if err != nil {
		st.err = errors.New(errors.PhaseHost, errors.KindOutOfBounds).
			Value(outPtr).
			Cause(err).
			Detail("output area %d+%d outside guest memory", outPtr, outCap).
			Build()
		stack[0] = 0
		return
	}

	var scratch [byvalue.MaxTextLen]byte
	text := byvalue.AppendText(scratch[:0], bv)
	n := copy(view, text)
	st.truncated = n < len(text)
	st.total = len(text)
	stack[0] = api.EncodeU32(uint32(n))
}

// buildGuest generates the guest module for c's contract with room for
// capacity bytes of output.
func buildGuest(c *codec.Codec, capacity uint32) ([]byte, error) {
	bin, err := guest.Build(guest.Config{
		Layout:   c.Layout(),
		Literal:  slotBits(c, Reference),
		Frame:    frameOffset,
		MinBytes: outOffset + capacity,
	})
	if err != nil {
		return nil, errors.Load("build guest module", err)
	}
	return bin, nil
}

// slotBits extracts the raw bits of every contract slot of bv.
func slotBits(c *codec.Codec, bv byvalue.ByValue) []uint64 {
	enc := c.Encode(bv)
	info := c.Layout()
	bits := make([]uint64, len(info.Slots))
	for i, s := range info.Slots {
		var v uint64
		for j := s.Size(); j > 0; j-- {
			v = v<<8 | uint64(enc[s.Offset+j-1])
		}
		bits[i] = v
	}
	return bits
}
