package core

import (
	"fmt"
	"strings"
)

// capTag is a process-unique capability marker. Cells carrying one can
// only be minted inside this package, so values that merely look like
// tracks never pass the capability checks.
type capTag struct {
	name string
}

var (
	resolvedTag   = &capTag{name: "resolved"}
	unresolvedTag = &capTag{name: "unresolved"}
)

// TrackData holds the concrete fields of a track.
type TrackData struct {
	Encoded    string // backend-opaque payload used for playback
	Title      string
	Identifier string
	Author     string
	Duration   int64 // milliseconds
	IsSeekable bool
	IsStream   bool
	URI        string
	Thumbnail  string
	Requester  any // caller-supplied, identifies who queued the track
}

// cell is the shared indirection holding a track's current state.
// Resolution swaps the contents in place, so every handle over the same
// cell observes the transition without re-fetching anything.
type cell struct {
	tag  *capTag
	data TrackData
}

// Track is a handle on a resolved, playable track.
type Track struct {
	cell *cell
}

// UnresolvedTrack is a handle on a placeholder track pending a backend
// lookup. After a successful Resolve the same handle reads the resolved
// fields and passes IsTrack.
type UnresolvedTrack struct {
	cell *cell
}

func (t *Track) Encoded() string    { return t.cell.data.Encoded }
func (t *Track) Title() string      { return t.cell.data.Title }
func (t *Track) Identifier() string { return t.cell.data.Identifier }
func (t *Track) Author() string     { return t.cell.data.Author }
func (t *Track) Duration() int64    { return t.cell.data.Duration }
func (t *Track) IsSeekable() bool   { return t.cell.data.IsSeekable }
func (t *Track) IsStream() bool     { return t.cell.data.IsStream }
func (t *Track) URI() string        { return t.cell.data.URI }
func (t *Track) Thumbnail() string  { return t.cell.data.Thumbnail }
func (t *Track) Requester() any     { return t.cell.data.Requester }

// Data returns a copy of the track's current fields.
func (t *Track) Data() TrackData { return t.cell.data }

var thumbnailSizes = map[string]bool{
	"0":             true,
	"1":             true,
	"2":             true,
	"3":             true,
	"default":       true,
	"mqdefault":     true,
	"hqdefault":     true,
	"maxresdefault": true,
}

// DisplayThumbnail returns a thumbnail URL at the requested size for
// YouTube-sourced tracks. Unrecognized sizes fall back to "default";
// non-YouTube sources always return "".
func (t *Track) DisplayThumbnail(size string) string {
	return displayThumbnail(t.cell.data, size)
}

func displayThumbnail(d TrackData, size string) string {
	if !strings.Contains(d.URI, "youtube") || d.Identifier == "" {
		return ""
	}
	if !thumbnailSizes[size] {
		size = "default"
	}
	return fmt.Sprintf("https://img.youtube.com/vi/%s/%s.jpg", d.Identifier, size)
}

func (u *UnresolvedTrack) Title() string   { return u.cell.data.Title }
func (u *UnresolvedTrack) Author() string  { return u.cell.data.Author }
func (u *UnresolvedTrack) Duration() int64 { return u.cell.data.Duration }
func (u *UnresolvedTrack) Requester() any  { return u.cell.data.Requester }

// AsTrack returns a resolved-track handle over the same cell. It only
// passes IsTrack once the cell has actually been resolved.
func (u *UnresolvedTrack) AsTrack() *Track {
	return &Track{cell: u.cell}
}

func tagOf(v any) *capTag {
	switch h := v.(type) {
	case *Track:
		if h != nil && h.cell != nil {
			return h.cell.tag
		}
	case *UnresolvedTrack:
		if h != nil && h.cell != nil {
			return h.cell.tag
		}
	}
	return nil
}

// IsTrack reports whether v carries the resolved capability.
func IsTrack(v any) bool {
	return tagOf(v) == resolvedTag
}

// IsUnresolvedTrack reports whether v carries the unresolved capability.
func IsUnresolvedTrack(v any) bool {
	return tagOf(v) == unresolvedTag
}

// ValidateTracks checks that v is a track handle or a non-empty slice of
// track handles. An empty slice is rejected.
func ValidateTracks(v any) error {
	if v == nil {
		return fmt.Errorf("%w: track", ErrMissingArgument)
	}

	switch arg := v.(type) {
	case []any:
		return validateSlice(arg)
	case []*Track:
		if len(arg) == 0 {
			return fmt.Errorf("%w: empty track list", ErrInvalidArgument)
		}
		for _, t := range arg {
			if !IsTrack(t) {
				return fmt.Errorf("%w: element is not a track", ErrInvalidArgument)
			}
		}
		return nil
	case []*UnresolvedTrack:
		if len(arg) == 0 {
			return fmt.Errorf("%w: empty track list", ErrInvalidArgument)
		}
		for _, t := range arg {
			if !IsUnresolvedTrack(t) && !IsTrack(t) {
				return fmt.Errorf("%w: element is not a track", ErrInvalidArgument)
			}
		}
		return nil
	default:
		if IsTrack(v) || IsUnresolvedTrack(v) {
			return nil
		}
		return fmt.Errorf("%w: not a track or unresolved track", ErrInvalidArgument)
	}
}

func validateSlice(items []any) error {
	if len(items) == 0 {
		return fmt.Errorf("%w: empty track list", ErrInvalidArgument)
	}
	for _, item := range items {
		if !IsTrack(item) && !IsUnresolvedTrack(item) {
			return fmt.Errorf("%w: element is not a track", ErrInvalidArgument)
		}
	}
	return nil
}
