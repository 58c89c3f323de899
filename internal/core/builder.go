package core

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// RawTrack is a candidate record as returned by a search backend.
type RawTrack struct {
	Track string       `json:"track"`
	Info  RawTrackInfo `json:"info"`
}

// RawTrackInfo carries the describable part of a raw track.
type RawTrackInfo struct {
	Title      string `json:"title"`
	Identifier string `json:"identifier"`
	Author     string `json:"author"`
	Length     int64  `json:"length"`
	IsSeekable bool   `json:"isSeekable"`
	IsStream   bool   `json:"isStream"`
	URI        string `json:"uri"`
}

// UnresolvedQuery describes a track that still needs a backend lookup.
// Title is required; Author and Duration sharpen the closest-match
// selection when present.
type UnresolvedQuery struct {
	Title    string
	Author   string
	Duration int64
}

// Builder constructs capability-tagged tracks from raw backend data and
// unresolved placeholders from bare queries.
type Builder struct {
	partial *TrackPartial
	logger  *zap.Logger
}

func NewBuilder(logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{
		partial: &TrackPartial{},
		logger:  logger,
	}
}

// SetTrackPartial installs the field whitelist applied to every track
// built from now on. Previously built tracks are unaffected.
func (b *Builder) SetTrackPartial(fields []string) error {
	return b.partial.Set(fields)
}

// Build turns raw backend data into a tagged, projected Track.
func (b *Builder) Build(raw *RawTrack, requester any) (*Track, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: raw track data", ErrMissingArgument)
	}
	if err := validateRaw(raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTrack, err)
	}

	data := TrackData{
		Encoded:    raw.Track,
		Title:      raw.Info.Title,
		Identifier: raw.Info.Identifier,
		Author:     raw.Info.Author,
		Duration:   raw.Info.Length,
		IsSeekable: raw.Info.IsSeekable,
		IsStream:   raw.Info.IsStream,
		URI:        raw.Info.URI,
		Requester:  requester,
	}
	if strings.Contains(data.URI, "youtube") && data.Identifier != "" {
		data.Thumbnail = fmt.Sprintf("https://img.youtube.com/vi/%s/default.jpg", data.Identifier)
	}

	// Projection happens once, before tagging.
	data = b.partial.Apply(data)

	return &Track{cell: &cell{tag: resolvedTag, data: data}}, nil
}

// BuildUnresolved constructs a tagged placeholder from a partial
// descriptor. No I/O happens until the track is resolved.
func (b *Builder) BuildUnresolved(q UnresolvedQuery, requester any) (*UnresolvedTrack, error) {
	if q.Title == "" {
		return nil, fmt.Errorf("%w: query title", ErrMissingArgument)
	}
	if q.Duration < 0 {
		return nil, fmt.Errorf("%w: duration must not be negative", ErrInvalidArgument)
	}

	data := TrackData{
		Title:     q.Title,
		Author:    q.Author,
		Duration:  q.Duration,
		Requester: requester,
	}
	return &UnresolvedTrack{cell: &cell{tag: unresolvedTag, data: data}}, nil
}

// BuildUnresolvedQuery is the bare-string form of BuildUnresolved: the
// whole query becomes the title.
func (b *Builder) BuildUnresolvedQuery(query string, requester any) (*UnresolvedTrack, error) {
	return b.BuildUnresolved(UnresolvedQuery{Title: query}, requester)
}

func validateRaw(raw *RawTrack) error {
	if raw.Track == "" {
		return errors.New("missing encoded payload")
	}
	if raw.Info.Title == "" {
		return errors.New("missing title")
	}
	if raw.Info.Length < 0 {
		return errors.New("negative length")
	}
	return nil
}
