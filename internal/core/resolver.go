package core

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// LoadType classifies a search provider's response.
type LoadType string

const (
	LoadTypeTrackLoaded    LoadType = "TRACK_LOADED"
	LoadTypePlaylistLoaded LoadType = "PLAYLIST_LOADED"
	LoadTypeSearchResult   LoadType = "SEARCH_RESULT"
	LoadTypeLoadFailed     LoadType = "LOAD_FAILED"
	LoadTypeNoMatches      LoadType = "NO_MATCHES"
)

// Severity grades a search provider failure.
type Severity string

const (
	SeverityCommon     Severity = "COMMON"
	SeveritySuspicious Severity = "SUSPICIOUS"
	SeverityFault      Severity = "FAULT"
)

// SearchException is the failure payload a provider may attach to a
// non-search result.
type SearchException struct {
	Message  string   `json:"message"`
	Cause    string   `json:"cause"`
	Severity Severity `json:"severity"`
}

// SearchResult is a provider response: a load type, an ordered candidate
// list, and an optional exception payload.
type SearchResult struct {
	LoadType  LoadType         `json:"loadType"`
	Tracks    []RawTrack       `json:"tracks"`
	Exception *SearchException `json:"exception,omitempty"`
}

// SearchProvider turns a text query into ranked candidate tracks.
type SearchProvider interface {
	Search(ctx context.Context, query string, requester any) (*SearchResult, error)
}

// durationToleranceMillis is how far a candidate's length may deviate
// from a requested duration and still count as the same track.
const durationToleranceMillis = 1500

// Resolver turns unresolved tracks into concrete playable ones by
// querying a search provider and picking the closest candidate.
type Resolver struct {
	provider SearchProvider
	builder  *Builder
	logger   *zap.Logger
}

func NewResolver(provider SearchProvider, builder *Builder, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		provider: provider,
		builder:  builder,
		logger:   logger,
	}
}

// Resolve queries the search provider and repopulates target's shared
// cell with the best-matching candidate. Every holder of the handle sees
// the resolved content afterwards. On failure the cell stays cleared and
// the error is returned; there is no partial success.
//
// Concurrent Resolve calls on the same handle race by design; callers
// that care must serialize per track.
func (r *Resolver) Resolve(ctx context.Context, target *UnresolvedTrack) (*Track, error) {
	if r == nil || r.provider == nil || r.builder == nil {
		return nil, ErrNotInitialized
	}
	if !IsUnresolvedTrack(target) {
		return nil, fmt.Errorf("%w: resolve target must be an unresolved track", ErrInvalidArgument)
	}

	pending := target.cell.data
	query := buildQuery(pending.Author, pending.Title)

	// The pending fields are cleared up front; a failed resolution leaves
	// the handle in this cleared state.
	target.cell.data = TrackData{}

	r.logger.Debug("resolving track", zap.String("query", query))

	res, err := r.provider.Search(ctx, query, pending.Requester)
	if err != nil {
		return nil, fmt.Errorf("search provider failed: %w", err)
	}

	candidate := closestCandidate(res, pending)
	if candidate == nil {
		if res != nil && res.Exception != nil {
			return nil, &SearchError{
				Message:  res.Exception.Message,
				Cause:    res.Exception.Cause,
				Severity: res.Exception.Severity,
			}
		}
		return nil, &SearchError{Message: "No tracks found.", Severity: SeverityCommon}
	}

	resolved, err := r.builder.Build(candidate, pending.Requester)
	if err != nil {
		return nil, err
	}

	// In-place state transition: the unresolved handle now behaves as a
	// resolved track for every capability check.
	target.cell.data = resolved.cell.data
	target.cell.tag = resolvedTag

	return &Track{cell: target.cell}, nil
}

// Resolve is the handle-side convenience for Resolver.Resolve.
func (u *UnresolvedTrack) Resolve(ctx context.Context, r *Resolver) (*Track, error) {
	if r == nil {
		return nil, ErrNotInitialized
	}
	return r.Resolve(ctx, u)
}

func buildQuery(author, title string) string {
	var parts []string
	if author != "" {
		parts = append(parts, author)
	}
	if title != "" {
		parts = append(parts, title)
	}
	return strings.Join(parts, " - ")
}

// closestCandidate applies the selection policy over the candidate list:
// author exact match (including the "<author> - Topic" channel form) or
// title exact match first, then duration within tolerance, then the
// provider's first-ranked candidate. Ties break by list order. The last
// rule trusts the provider to rank by relevance.
func closestCandidate(res *SearchResult, pending TrackData) *RawTrack {
	if res == nil || res.LoadType != LoadTypeSearchResult || len(res.Tracks) == 0 {
		return nil
	}
	tracks := res.Tracks

	if pending.Author != "" {
		for i := range tracks {
			info := tracks[i].Info
			if strings.EqualFold(info.Author, pending.Author) ||
				strings.EqualFold(info.Author, pending.Author+" - Topic") ||
				strings.EqualFold(info.Title, pending.Title) {
				return &tracks[i]
			}
		}
	}

	if pending.Duration > 0 {
		for i := range tracks {
			length := tracks[i].Info.Length
			if length >= pending.Duration-durationToleranceMillis &&
				length <= pending.Duration+durationToleranceMillis {
				return &tracks[i]
			}
		}
	}

	return &tracks[0]
}
