package engine

import (
	"context"
	"testing"

	"github.com/tetratelabs/wazero"
)

func TestMemory_Bounds(t *testing.T) {
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)

	// (module (memory (export "memory") 1))
	bin := []byte{
		0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
		0x05, 0x03, 0x01, 0x00, 0x01,
		0x07, 0x0a, 0x01, 0x06, 'm', 'e', 'm', 'o', 'r', 'y', 0x02, 0x00,
	}
	mod, err := rt.Instantiate(ctx, bin)
	if err != nil {
		t.Fatalf("Instantiate: %v", err)
	}

	m := NewMemory(mod.ExportedMemory("memory"))
	if m.Size() != 65536 {
		t.Errorf("Size = %d, want 65536", m.Size())
	}

	if err := m.Write(100, []byte("abc")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := m.Read(100, 3)
	if err != nil || string(got) != "abc" {
		t.Errorf("Read = %q, %v", got, err)
	}

	if err := m.Write(65535, []byte("ab")); err == nil {
		t.Error("Write past the end should fail")
	}
	if _, err := m.Read(65530, 10); err == nil {
		t.Error("Read past the end should fail")
	}

	var empty Memory
	if _, err := empty.Read(0, 1); err == nil {
		t.Error("Read on empty Memory should fail")
	}
	if empty.Size() != 0 {
		t.Error("empty Memory should have size 0")
	}
}
