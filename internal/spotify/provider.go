// Package spotify adapts the Spotify Web API to the search provider
// contract. Spotify has no encoded playback payload, so the track URI
// doubles as the opaque blob.
package spotify

import (
	"context"
	"fmt"
	"strings"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"go.uber.org/zap"
	"golang.org/x/oauth2/clientcredentials"

	"playlink/internal/core"
)

const defaultSearchLimit = 10

type Provider struct {
	client *spotify.Client
	logger *zap.Logger
	limit  int
}

// NewProvider authenticates with the client-credentials flow. Search-only
// access needs no user consent.
func NewProvider(ctx context.Context, cfg *core.SpotifyConfig, logger *zap.Logger) (*Provider, error) {
	if cfg == nil || cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("%w: spotify client credentials", core.ErrMissingArgument)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	auth := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}
	token, err := auth.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate with Spotify: %w", err)
	}

	httpClient := spotifyauth.New().Client(ctx, token)

	limit := cfg.SearchLimit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	return &Provider{
		client: spotify.New(httpClient),
		logger: logger,
		limit:  limit,
	}, nil
}

// Search implements core.SearchProvider. API failures surface as a
// LOAD_FAILED result rather than a transport error so the resolver can
// carry the exception payload to its caller.
func (p *Provider) Search(ctx context.Context, query string, _ any) (*core.SearchResult, error) {
	results, err := p.client.Search(ctx, query, spotify.SearchTypeTrack, spotify.Limit(p.limit))
	if err != nil {
		p.logger.Warn("spotify search failed", zap.String("query", query), zap.Error(err))
		return &core.SearchResult{
			LoadType: core.LoadTypeLoadFailed,
			Exception: &core.SearchException{
				Message:  err.Error(),
				Severity: core.SeverityFault,
			},
		}, nil
	}

	if results.Tracks == nil || len(results.Tracks.Tracks) == 0 {
		return &core.SearchResult{LoadType: core.LoadTypeNoMatches}, nil
	}

	tracks := make([]core.RawTrack, 0, len(results.Tracks.Tracks))
	for _, t := range results.Tracks.Tracks {
		tracks = append(tracks, convertTrack(t))
	}

	p.logger.Debug("spotify search",
		zap.String("query", query),
		zap.Int("tracks", len(tracks)))

	return &core.SearchResult{
		LoadType: core.LoadTypeSearchResult,
		Tracks:   tracks,
	}, nil
}

func convertTrack(t spotify.FullTrack) core.RawTrack {
	return core.RawTrack{
		Track: string(t.URI),
		Info: core.RawTrackInfo{
			Title:      t.Name,
			Identifier: t.ID.String(),
			Author:     joinArtists(t.Artists),
			Length:     int64(t.Duration),
			IsSeekable: true,
			URI:        t.ExternalURLs["spotify"],
		},
	}
}

func joinArtists(artists []spotify.SimpleArtist) string {
	names := make([]string, 0, len(artists))
	for _, a := range artists {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}
