package ops

import (
	"encoding/json"
	"fmt"
	"os"

	"main/pkg/conn"
)

const (
	defaultPublicEndpoint  = "wss://stream.bybit.com/v5/public/linear"
	defaultPrivateEndpoint = "wss://stream.bybit.com/v5/private"
	defaultBookDepth       = 50
	defaultViewDepth       = 10
	defaultQueueSize       = 1024
)

// FileConfig mirrors the JSON config layout.
type FileConfig struct {
	Feed     FeedConfig      `json:"feed"`
	Postgres *PostgresConfig `json:"postgres"`
	Profiler ProfilerConfig  `json:"profiler"`
}

// FeedConfig describes what to subscribe and where.
type FeedConfig struct {
	PublicEndpoint  string   `json:"publicEndpoint"`
	PrivateEndpoint string   `json:"privateEndpoint"`
	Symbols         []string `json:"symbols"`
	BookDepth       int      `json:"bookDepth"`
	ViewDepth       int      `json:"viewDepth"`
	QueueSize       int      `json:"queueSize"`
	APIKey          string   `json:"apiKey"`
	APISecret       string   `json:"apiSecret"`
}

// PostgresConfig describes the optional archive database.
type PostgresConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Database string `json:"database"`
	SSLMode  string `json:"sslMode"`
}

// ProfilerConfig enables continuous profiling.
type ProfilerConfig struct {
	Enable        bool   `json:"enable"`
	ServerAddress string `json:"serverAddress"`
}

// Loaded is the resolved configuration ready for use.
type Loaded struct {
	Feed     FeedSpec
	Postgres *conn.Option
	Profiler ProfilerConfig
}

// FeedSpec is the resolved feed definition with defaults filled in.
type FeedSpec struct {
	PublicEndpoint  string
	PrivateEndpoint string
	Symbols         []string
	BookDepth       int
	ViewDepth       int
	QueueSize       int
	APIKey          string
	APISecret       string
}

// Load reads a JSON config file and resolves defaults.
func Load(path string) (Loaded, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Loaded{}, err
	}
	var cfg FileConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Loaded{}, err
	}
	feed, err := resolveFeed(cfg.Feed)
	if err != nil {
		return Loaded{}, err
	}
	loaded := Loaded{
		Feed:     feed,
		Profiler: cfg.Profiler,
	}
	if cfg.Postgres != nil {
		loaded.Postgres = resolvePostgres(*cfg.Postgres)
	}
	return loaded, nil
}

func resolveFeed(cfg FeedConfig) (FeedSpec, error) {
	if len(cfg.Symbols) == 0 {
		return FeedSpec{}, fmt.Errorf("feed symbols are empty")
	}
	for _, symbol := range cfg.Symbols {
		if symbol == "" {
			return FeedSpec{}, fmt.Errorf("feed symbol is empty")
		}
	}
	spec := FeedSpec{
		PublicEndpoint:  cfg.PublicEndpoint,
		PrivateEndpoint: cfg.PrivateEndpoint,
		Symbols:         cfg.Symbols,
		BookDepth:       cfg.BookDepth,
		ViewDepth:       cfg.ViewDepth,
		QueueSize:       cfg.QueueSize,
		APIKey:          cfg.APIKey,
		APISecret:       cfg.APISecret,
	}
	if spec.PublicEndpoint == "" {
		spec.PublicEndpoint = defaultPublicEndpoint
	}
	if spec.PrivateEndpoint == "" {
		spec.PrivateEndpoint = defaultPrivateEndpoint
	}
	if spec.BookDepth == 0 {
		spec.BookDepth = defaultBookDepth
	}
	if spec.BookDepth < 0 {
		return FeedSpec{}, fmt.Errorf("feed bookDepth must be > 0")
	}
	if spec.ViewDepth == 0 {
		spec.ViewDepth = defaultViewDepth
	}
	if spec.ViewDepth < 0 {
		return FeedSpec{}, fmt.Errorf("feed viewDepth must be > 0")
	}
	if spec.QueueSize == 0 {
		spec.QueueSize = defaultQueueSize
	}
	if spec.QueueSize < 0 {
		return FeedSpec{}, fmt.Errorf("feed queueSize must be > 0")
	}
	return spec, nil
}

func resolvePostgres(cfg PostgresConfig) *conn.Option {
	return &conn.Option{
		Host:     cfg.Host,
		Port:     cfg.Port,
		User:     cfg.User,
		Password: cfg.Password,
		Database: cfg.Database,
		SSLMode:  cfg.SSLMode,
	}
}
