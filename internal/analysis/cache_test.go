package analysis

import (
	"os"
	"testing"
)

func TestCacheRoundTrip(t *testing.T) {
	cache, err := NewCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	imgHash := HashBytes([]byte("image"))
	cfgHash := HashBytes([]byte("config"))
	funcs := []*Function{
		{Address: 0x82000000, Size: 0x40, Name: "BootMain"},
		{Address: 0x82000100, Size: 0x20, Chunks: []Range{{Address: 0x82000200, Size: 8}}},
	}

	if err := cache.Store(imgHash, cfgHash, funcs); err != nil {
		t.Fatalf("Store: %v", err)
	}
	got, ok := cache.Load(imgHash, cfgHash)
	if !ok {
		t.Fatal("Load missed a just-stored entry")
	}
	if len(got) != 2 || got[0].Name != "BootMain" || got[1].Chunks[0].Address != 0x82000200 {
		t.Fatalf("Load = %+v", got)
	}
}

func TestCacheMissOnHashDrift(t *testing.T) {
	cache, err := NewCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	imgHash := HashBytes([]byte("image"))
	cfgHash := HashBytes([]byte("config"))
	if err := cache.Store(imgHash, cfgHash, []*Function{{Address: 0x82000000, Size: 4}}); err != nil {
		t.Fatal(err)
	}
	if _, ok := cache.Load(imgHash, HashBytes([]byte("other config"))); ok {
		t.Fatal("Load returned an entry for a different config hash")
	}
	if _, ok := cache.Load(HashBytes([]byte("other image")), cfgHash); ok {
		t.Fatal("Load returned an entry for a different image hash")
	}
}

func TestCacheIgnoresCorruptEntry(t *testing.T) {
	dir := t.TempDir()
	cache, err := NewCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	imgHash := HashBytes([]byte("image"))
	cfgHash := HashBytes([]byte("config"))
	if err := os.WriteFile(cache.path(imgHash, cfgHash), []byte("not msgpack"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, ok := cache.Load(imgHash, cfgHash); ok {
		t.Fatal("Load accepted a corrupt entry")
	}
}
