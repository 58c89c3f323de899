package core

import (
	"time"
)

type Config struct {
	Node    NodeConfig
	Spotify SpotifyConfig
	Server  ServerConfig
	Cache   CacheConfig
	Log     LogConfig
}

type NodeConfig struct {
	Host           string
	Port           int
	Password       string
	Secure         bool
	SearchPrefix   string
	RequestTimeout time.Duration
}

type SpotifyConfig struct {
	ClientID     string
	ClientSecret string
	SearchLimit  int
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type CacheConfig struct {
	Path                   string
	MaxTracks              int
	BloomFalsePositiveRate float64
	SearchCacheSize        int
}

type LogConfig struct {
	Level  string
	Format string
}

func DefaultConfig() *Config {
	return &Config{
		Node: NodeConfig{
			Host:           "127.0.0.1",
			Port:           2333,
			SearchPrefix:   "ytsearch:",
			RequestTimeout: 10 * time.Second,
		},
		Spotify: SpotifyConfig{
			SearchLimit: 10,
		},
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Cache: CacheConfig{
			Path:                   "./playlink_tracks.db",
			MaxTracks:              10000,
			BloomFalsePositiveRate: 0.001,
			SearchCacheSize:        512,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
