package core

import (
	"testing"

	"go.uber.org/zap"
)

func sampleRaw() *RawTrack {
	return &RawTrack{
		Track: "QAAAjQIAJF",
		Info: RawTrackInfo{
			Title:      "Song",
			Identifier: "dQw4w9WgXcQ",
			Author:     "X",
			Length:     200000,
			IsSeekable: true,
			URI:        "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		},
	}
}

func TestCapabilityTags(t *testing.T) {
	b := NewBuilder(zap.NewNop())

	track, err := b.Build(sampleRaw(), "user-1")
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if !IsTrack(track) {
		t.Error("built track should pass IsTrack")
	}
	if IsUnresolvedTrack(track) {
		t.Error("built track should not pass IsUnresolvedTrack")
	}

	unresolved, err := b.BuildUnresolvedQuery("never gonna give you up", nil)
	if err != nil {
		t.Fatalf("BuildUnresolvedQuery() error = %v", err)
	}
	if !IsUnresolvedTrack(unresolved) {
		t.Error("unresolved track should pass IsUnresolvedTrack")
	}
	if IsTrack(unresolved) {
		t.Error("unresolved track should not pass IsTrack")
	}
}

func TestCapabilityTags_Spoofing(t *testing.T) {
	// Values that merely look like tracks must fail both checks.
	lookalikes := []any{
		nil,
		"track",
		42,
		&Track{},
		&UnresolvedTrack{},
		TrackData{Title: "Song", Encoded: "blob"},
		map[string]any{"track": "blob", "title": "Song"},
	}

	for _, v := range lookalikes {
		if IsTrack(v) {
			t.Errorf("IsTrack(%#v) = true, want false", v)
		}
		if IsUnresolvedTrack(v) {
			t.Errorf("IsUnresolvedTrack(%#v) = true, want false", v)
		}
	}
}

func TestValidateTracks(t *testing.T) {
	b := NewBuilder(zap.NewNop())
	track, _ := b.Build(sampleRaw(), nil)
	unresolved, _ := b.BuildUnresolvedQuery("some song", nil)

	tests := []struct {
		name    string
		input   any
		wantErr bool
	}{
		{"single track", track, false},
		{"single unresolved", unresolved, false},
		{"mixed slice", []any{track, unresolved}, false},
		{"typed track slice", []*Track{track}, false},
		{"empty slice", []any{}, true},
		{"empty typed slice", []*Track{}, true},
		{"nil", nil, true},
		{"plain value", "song", true},
		{"slice with lookalike", []any{track, TrackData{}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTracks(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTracks() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTrack_Accessors(t *testing.T) {
	b := NewBuilder(zap.NewNop())
	track, err := b.Build(sampleRaw(), "requester")
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if track.Title() != "Song" {
		t.Errorf("Title() = %q", track.Title())
	}
	if track.Author() != "X" {
		t.Errorf("Author() = %q", track.Author())
	}
	if track.Duration() != 200000 {
		t.Errorf("Duration() = %d", track.Duration())
	}
	if track.Requester() != "requester" {
		t.Errorf("Requester() = %v", track.Requester())
	}
	if !track.IsSeekable() {
		t.Error("IsSeekable() = false")
	}
	if track.Thumbnail() != "https://img.youtube.com/vi/dQw4w9WgXcQ/default.jpg" {
		t.Errorf("Thumbnail() = %q", track.Thumbnail())
	}
}

func TestTrack_DisplayThumbnail(t *testing.T) {
	b := NewBuilder(zap.NewNop())

	youtube, _ := b.Build(sampleRaw(), nil)

	other := sampleRaw()
	other.Info.URI = "https://soundcloud.com/artist/song"
	nonYoutube, _ := b.Build(other, nil)

	tests := []struct {
		name     string
		track    *Track
		size     string
		expected string
	}{
		{"explicit size", youtube, "maxresdefault", "https://img.youtube.com/vi/dQw4w9WgXcQ/maxresdefault.jpg"},
		{"numeric size", youtube, "2", "https://img.youtube.com/vi/dQw4w9WgXcQ/2.jpg"},
		{"unknown size falls back", youtube, "giant", "https://img.youtube.com/vi/dQw4w9WgXcQ/default.jpg"},
		{"empty size falls back", youtube, "", "https://img.youtube.com/vi/dQw4w9WgXcQ/default.jpg"},
		{"non-youtube source", nonYoutube, "maxresdefault", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.track.DisplayThumbnail(tt.size); got != tt.expected {
				t.Errorf("DisplayThumbnail(%q) = %q, want %q", tt.size, got, tt.expected)
			}
		})
	}
}
