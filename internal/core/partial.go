package core

import (
	"fmt"
	"strings"
)

// Field keys accepted by the track partial.
const (
	FieldTrack      = "track"
	FieldTitle      = "title"
	FieldIdentifier = "identifier"
	FieldAuthor     = "author"
	FieldDuration   = "duration"
	FieldIsSeekable = "isSeekable"
	FieldIsStream   = "isStream"
	FieldURI        = "uri"
	FieldThumbnail  = "thumbnail"
	FieldRequester  = "requester"
)

// TrackPartial restricts which fields survive on newly built tracks.
// It is meant to be configured once at startup; tracks built before the
// whitelist was set keep all of their fields.
type TrackPartial struct {
	keep map[string]bool
	set  bool
}

// Set installs the field whitelist. The opaque payload field ("track") is
// always kept and is prepended when absent. Empty field names are
// rejected; unknown names are ignored since they match nothing.
func (p *TrackPartial) Set(fields []string) error {
	if fields == nil {
		return fmt.Errorf("%w: field list must be a string slice", ErrInvalidArgument)
	}
	for _, f := range fields {
		if strings.TrimSpace(f) == "" {
			return fmt.Errorf("%w: field names must be non-empty strings", ErrInvalidArgument)
		}
	}

	keep := make(map[string]bool, len(fields)+1)
	keep[FieldTrack] = true
	for _, f := range fields {
		keep[f] = true
	}

	p.keep = keep
	p.set = true
	return nil
}

// Apply strips d down to the whitelisted fields. A partial that was never
// set passes data through unchanged.
func (p *TrackPartial) Apply(d TrackData) TrackData {
	if p == nil || !p.set {
		return d
	}

	out := TrackData{Encoded: d.Encoded}
	if p.keep[FieldTitle] {
		out.Title = d.Title
	}
	if p.keep[FieldIdentifier] {
		out.Identifier = d.Identifier
	}
	if p.keep[FieldAuthor] {
		out.Author = d.Author
	}
	if p.keep[FieldDuration] {
		out.Duration = d.Duration
	}
	if p.keep[FieldIsSeekable] {
		out.IsSeekable = d.IsSeekable
	}
	if p.keep[FieldIsStream] {
		out.IsStream = d.IsStream
	}
	if p.keep[FieldURI] {
		out.URI = d.URI
	}
	if p.keep[FieldThumbnail] {
		out.Thumbnail = d.Thumbnail
	}
	if p.keep[FieldRequester] {
		out.Requester = d.Requester
	}
	return out
}
