package store

import "testing"

func openTestKV(t *testing.T) *KV {
	t.Helper()
	kv, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { kv.Close() })
	return kv
}

func TestGetSetRoundtrip(t *testing.T) {
	kv := openTestKV(t)

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	Set(kv, "roundtrip", payload{Name: "fuad", Count: 3})
	got := Get(kv, "roundtrip", payload{})
	if got.Name != "fuad" || got.Count != 3 {
		t.Fatalf("roundtrip mismatch: %+v", got)
	}
}

func TestGetMissingKeyReturnsDefault(t *testing.T) {
	kv := openTestKV(t)

	if got := Get(kv, "absent", "fallback"); got != "fallback" {
		t.Fatalf("expected default, got %q", got)
	}
}

func TestGetCorruptValueReturnsDefault(t *testing.T) {
	kv := openTestKV(t)

	Set(kv, "typed", "just a string")
	got := Get(kv, "typed", map[string]int{"ok": 1})
	if got["ok"] != 1 {
		t.Fatalf("corrupt decode should fall back to default, got %v", got)
	}
}

func TestNilKVIsSafe(t *testing.T) {
	var kv *KV

	Set(kv, "key", 42)
	if got := Get(kv, "key", 7); got != 7 {
		t.Fatalf("nil store must return the default, got %d", got)
	}
	if err := kv.Close(); err != nil {
		t.Fatalf("nil close: %v", err)
	}
}
