// Package main provides the playlink CLI: a one-shot track resolver and
// a small resolve daemon.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"playlink/internal/core"
	httpserver "playlink/internal/http"
	"playlink/internal/lavalink"
	"playlink/internal/spotify"
	"playlink/internal/store"
	"playlink/pkg/duration"
)

var (
	cfgFile string
	config  *core.Config
	logger  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "playlink",
	Short: "playlink - track resolution for media queues",
	Long: `playlink resolves free-form track references (title, author, duration)
into concrete playable tracks by querying a search backend and picking the
closest match.`,
	RunE: runServe,
}

var resolveCmd = &cobra.Command{
	Use:   "resolve <query>",
	Short: "Resolve a single query and print the best match",
	Args:  cobra.ExactArgs(1),
	RunE:  runResolve,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("provider", "lavalink", "search provider (lavalink, spotify)")
	rootCmd.PersistentFlags().String("node-host", "127.0.0.1", "search node host")
	rootCmd.PersistentFlags().Int("node-port", 2333, "search node port")
	rootCmd.PersistentFlags().String("node-password", "", "search node password")
	rootCmd.PersistentFlags().Bool("node-secure", false, "use HTTPS towards the node")
	rootCmd.PersistentFlags().String("search-prefix", "ytsearch:", "prefix applied to bare queries")
	rootCmd.PersistentFlags().String("spotify-client-id", "", "Spotify client ID")
	rootCmd.PersistentFlags().String("spotify-client-secret", "", "Spotify client secret")
	rootCmd.PersistentFlags().Int("server-port", 8080, "HTTP server port")
	rootCmd.PersistentFlags().String("cache-path", "./playlink_tracks.db", "resolved-track cache path")
	rootCmd.PersistentFlags().StringSlice("track-partial", nil, "field whitelist applied to built tracks")

	resolveCmd.Flags().String("author", "", "author hint for closest-match selection")
	resolveCmd.Flags().String("duration", "", "duration hint, e.g. \"3m30s\" or \"3:30\"")

	rootCmd.AddCommand(resolveCmd)

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bind flags: %v\n", err)
		os.Exit(1)
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(".env")
		viper.SetConfigType("env")
	}

	viper.SetEnvPrefix("PLAYLINK")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
			os.Exit(1)
		}
	}

	config = buildConfig()
	logger = buildLogger(config.Log.Level)
}

func buildConfig() *core.Config {
	cfg := core.DefaultConfig()

	cfg.Node.Host = viper.GetString("node-host")
	cfg.Node.Port = viper.GetInt("node-port")
	cfg.Node.Password = viper.GetString("node-password")
	cfg.Node.Secure = viper.GetBool("node-secure")
	cfg.Node.SearchPrefix = viper.GetString("search-prefix")

	cfg.Spotify.ClientID = viper.GetString("spotify-client-id")
	cfg.Spotify.ClientSecret = viper.GetString("spotify-client-secret")

	cfg.Server.Port = viper.GetInt("server-port")

	cfg.Cache.Path = viper.GetString("cache-path")
	if cfg.Cache.Path == "" {
		cfg.Cache.Path = "./playlink_tracks.db"
	}

	cfg.Log.Level = viper.GetString("log-level")

	return cfg
}

func buildLogger(level string) *zap.Logger {
	var zapLevel zapcore.Level
	switch strings.ToLower(level) {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)

	builtLogger, err := cfg.Build()
	if err != nil {
		panic(fmt.Sprintf("Failed to build logger: %v", err))
	}
	return builtLogger
}

// buildProvider selects the search backend. Roles beyond the provider are
// resolved through the structure registry so consumer overrides installed
// with Extend are honored.
func buildProvider(ctx context.Context) (core.SearchProvider, error) {
	switch viper.GetString("provider") {
	case "lavalink", "":
		return lavalink.NewClient(&config.Node, logger.Named("lavalink"))
	case "spotify":
		return spotify.NewProvider(ctx, &config.Spotify, logger.Named("spotify"))
	default:
		return nil, fmt.Errorf("unsupported search provider: %s", viper.GetString("provider"))
	}
}

func buildPipeline(ctx context.Context) (*core.Builder, *core.Resolver, error) {
	builder := core.NewBuilder(logger.Named("builder"))
	if fields := viper.GetStringSlice("track-partial"); len(fields) > 0 {
		if err := builder.SetTrackPartial(fields); err != nil {
			return nil, nil, fmt.Errorf("invalid track-partial: %w", err)
		}
	}

	provider, err := buildProvider(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create search provider: %w", err)
	}

	return builder, core.NewResolver(provider, builder, logger.Named("resolver")), nil
}

func runServe(_ *cobra.Command, _ []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Info("starting playlink",
		zap.String("provider", viper.GetString("provider")),
		zap.String("node", fmt.Sprintf("%s:%d", config.Node.Host, config.Node.Port)))

	builder, resolver, err := buildPipeline(ctx)
	if err != nil {
		return err
	}

	cache, err := store.NewTrackCache(config.Cache.Path, logger.Named("cache"))
	if err != nil {
		return err
	}
	defer cache.Close()

	seen := store.NewSeenStore(config.Cache.MaxTracks, config.Cache.BloomFalsePositiveRate)

	registry := core.NewRegistry()
	queueCtor, err := registry.Get(core.RoleQueue)
	if err != nil {
		return err
	}
	queue := queueCtor.(func() *core.Queue)()
	logger.Info("queue structure ready", zap.String("duration", queue.DurationString()))

	server := httpserver.NewServer(&config.Server, builder, resolver, cache, seen, nil, logger.Named("http"))

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return server.Start(gCtx)
	})

	g.Go(func() error {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()

		for {
			select {
			case <-gCtx.Done():
				return nil
			case <-ticker.C:
				server.SetUniqueTracks(seen.Size())
			}
		}
	})

	logger.Info("playlink started",
		zap.String("http_addr", fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)))

	if err := g.Wait(); err != nil {
		logger.Error("playlink stopped with error", zap.Error(err))
		return err
	}

	logger.Info("playlink stopped gracefully")
	return nil
}

func runResolve(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	builder, resolver, err := buildPipeline(ctx)
	if err != nil {
		return err
	}

	q := core.UnresolvedQuery{Title: args[0]}
	q.Author, _ = cmd.Flags().GetString("author")
	if text, _ := cmd.Flags().GetString("duration"); text != "" {
		ms, ok := duration.Parse(text)
		if !ok {
			return fmt.Errorf("could not parse duration %q", text)
		}
		q.Duration = ms
	}

	unresolved, err := builder.BuildUnresolved(q, nil)
	if err != nil {
		return err
	}

	track, err := unresolved.Resolve(ctx, resolver)
	if err != nil {
		var searchErr *core.SearchError
		if errors.As(err, &searchErr) {
			return fmt.Errorf("%s (severity: %s)", searchErr.Message, searchErr.Severity)
		}
		return err
	}

	text, err := duration.Format(track.Duration(), false)
	if err != nil {
		text = "N/A"
	}

	out, err := json.MarshalIndent(map[string]any{
		"track":        track.Encoded(),
		"title":        track.Title(),
		"author":       track.Author(),
		"duration":     track.Duration(),
		"durationText": text,
		"uri":          track.URI(),
		"thumbnail":    track.Thumbnail(),
	}, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
