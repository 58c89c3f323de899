package store

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"playlink/internal/core"
)

func newTestCache(t *testing.T) *TrackCache {
	t.Helper()
	cache, err := NewTrackCache(":memory:", zap.NewNop())
	if err != nil {
		t.Fatalf("NewTrackCache() error = %v", err)
	}
	t.Cleanup(func() { cache.Close() })
	return cache
}

func TestTrackCache_PutGet(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	raw := &core.RawTrack{
		Track: "QAAAjQIAJF",
		Info: core.RawTrackInfo{
			Title:      "Song",
			Identifier: "dQw4w9WgXcQ",
			Author:     "X",
			Length:     200000,
			IsSeekable: true,
			URI:        "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		},
	}

	if _, ok, err := cache.Get(ctx, "X - Song"); err != nil || ok {
		t.Fatalf("Get(miss) = ok=%v err=%v, want miss", ok, err)
	}

	if err := cache.Put(ctx, "X - Song", raw); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, ok, err := cache.Get(ctx, "X - Song")
	if err != nil || !ok {
		t.Fatalf("Get(hit) = ok=%v err=%v, want hit", ok, err)
	}
	if got.Track != raw.Track || got.Info != raw.Info {
		t.Errorf("Get() = %+v, want %+v", got, raw)
	}

	n, err := cache.Size(ctx)
	if err != nil || n != 1 {
		t.Errorf("Size() = %d err=%v, want 1", n, err)
	}
}

func TestTrackCache_Replace(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	first := &core.RawTrack{Track: "enc1", Info: core.RawTrackInfo{Title: "Old"}}
	second := &core.RawTrack{Track: "enc2", Info: core.RawTrackInfo{Title: "New"}}

	if err := cache.Put(ctx, "q", first); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := cache.Put(ctx, "q", second); err != nil {
		t.Fatalf("Put(replace) error = %v", err)
	}

	got, ok, err := cache.Get(ctx, "q")
	if err != nil || !ok {
		t.Fatalf("Get() = ok=%v err=%v", ok, err)
	}
	if got.Info.Title != "New" {
		t.Errorf("Get() title = %q, want %q", got.Info.Title, "New")
	}

	if n, _ := cache.Size(ctx); n != 1 {
		t.Errorf("Size() = %d, want 1", n)
	}
}

func TestTrackCache_PutNil(t *testing.T) {
	cache := newTestCache(t)

	if err := cache.Put(context.Background(), "q", nil); err == nil {
		t.Error("Put(nil) should fail")
	}
}
