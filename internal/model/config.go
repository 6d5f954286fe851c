package model

import "time"

// Config holds all tunable settings for the pipeline. The numeric policy
// constants (signal weights, fuzzy threshold, trend thresholds) are
// configuration defaults, not hard invariants.
type Config struct {
	Catalog  CatalogConfig  `mapstructure:"catalog" yaml:"catalog"`
	Detector DetectorConfig `mapstructure:"detector" yaml:"detector"`
	Resolver ResolverConfig `mapstructure:"resolver" yaml:"resolver"`
	Scoring  ScoringConfig  `mapstructure:"scoring" yaml:"scoring"`
	Dedupe   DedupeConfig   `mapstructure:"dedupe" yaml:"dedupe"`
	Risk     RiskConfig     `mapstructure:"risk" yaml:"risk"`
	Alerts   AlertConfig    `mapstructure:"alerts" yaml:"alerts"`
	Store    StoreConfig    `mapstructure:"store" yaml:"store"`
}

// CatalogConfig points at the externally maintained territory catalog.
type CatalogConfig struct {
	Path string `mapstructure:"path" yaml:"path"` // YAML catalog file
}

// DetectorConfig configures the toponym provider chain.
type DetectorConfig struct {
	// Provider selects the AI extraction provider: "openai" or "" (disabled).
	Provider string `mapstructure:"provider" yaml:"provider"`
	APIKey   string `mapstructure:"api_key" yaml:"api_key"`
	BaseURL  string `mapstructure:"base_url" yaml:"base_url"` // custom OpenAI-compatible endpoint
	Model    string `mapstructure:"model" yaml:"model"`

	// NERURL points at an external statistical NER service ("" disables it).
	NERURL string `mapstructure:"ner_url" yaml:"ner_url"`

	Timeout           time.Duration `mapstructure:"timeout" yaml:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second" yaml:"requests_per_second"`
	MaxBodyChars      int           `mapstructure:"max_body_chars" yaml:"max_body_chars"`
	ContextWindow     int           `mapstructure:"context_window" yaml:"context_window"`

	// CacheDir enables the layered extraction cache for external providers
	// ("" keeps the cache memory-only).
	CacheDir string        `mapstructure:"cache_dir" yaml:"cache_dir"`
	CacheTTL time.Duration `mapstructure:"cache_ttl" yaml:"cache_ttl"`
}

// ResolverConfig tunes the fuzzy tier of candidate resolution.
type ResolverConfig struct {
	FuzzyThreshold float64 `mapstructure:"fuzzy_threshold" yaml:"fuzzy_threshold"`
	TieEpsilon     float64 `mapstructure:"tie_epsilon" yaml:"tie_epsilon"`
}

// ScoringConfig carries the six signal weights. They must sum to 1.
type ScoringConfig struct {
	Position     float64 `mapstructure:"position" yaml:"position"`
	Method       float64 `mapstructure:"method" yaml:"method"`
	Confidence   float64 `mapstructure:"confidence" yaml:"confidence"`
	Frequency    float64 `mapstructure:"frequency" yaml:"frequency"`
	SourceRegion float64 `mapstructure:"source_region" yaml:"source_region"`
	Level        float64 `mapstructure:"level" yaml:"level"`

	MaxTerritories int `mapstructure:"max_territories" yaml:"max_territories"`
}

// DedupeConfig tunes the near-duplicate filter.
type DedupeConfig struct {
	HammingThreshold int           `mapstructure:"hamming_threshold" yaml:"hamming_threshold"`
	WindowTTL        time.Duration `mapstructure:"window_ttl" yaml:"window_ttl"`
	WindowSize       int           `mapstructure:"window_size" yaml:"window_size"` // max fingerprints kept
}

// RiskConfig tunes the aggregation window and the derived statistics.
type RiskConfig struct {
	WindowDays        int     `mapstructure:"window_days" yaml:"window_days"`
	LogisticK         float64 `mapstructure:"logistic_k" yaml:"logistic_k"`
	LogisticMidpoint  float64 `mapstructure:"logistic_midpoint" yaml:"logistic_midpoint"`
	RisingThreshold   float64 `mapstructure:"rising_threshold" yaml:"rising_threshold"`
	FallingThreshold  float64 `mapstructure:"falling_threshold" yaml:"falling_threshold"`
	AnomalyMinHistory int     `mapstructure:"anomaly_min_history" yaml:"anomaly_min_history"`
	AnomalySigma      float64 `mapstructure:"anomaly_sigma" yaml:"anomaly_sigma"`
}

// AlertConfig tunes alert deduplication and outbound delivery.
type AlertConfig struct {
	Cooldown   time.Duration `mapstructure:"cooldown" yaml:"cooldown"`
	NotifyURLs []string      `mapstructure:"notify_urls" yaml:"notify_urls"` // shoutrrr-style URLs
}

// StoreConfig locates the persistence layer.
type StoreConfig struct {
	Path string `mapstructure:"path" yaml:"path"` // SQLite database file
}

// DefaultConfig returns the reference defaults.
func DefaultConfig() Config {
	return Config{
		Catalog: CatalogConfig{
			Path: "catalog.yaml",
		},
		Detector: DetectorConfig{
			Provider:          "",
			Model:             "gpt-4o-mini",
			Timeout:           30 * time.Second,
			RequestsPerSecond: 2,
			MaxBodyChars:      3000,
			ContextWindow:     50,
			CacheTTL:          6 * time.Hour,
		},
		Resolver: ResolverConfig{
			FuzzyThreshold: 0.92,
			TieEpsilon:     0.005,
		},
		Scoring: ScoringConfig{
			Position:       0.25,
			Method:         0.15,
			Confidence:     0.15,
			Frequency:      0.20,
			SourceRegion:   0.15,
			Level:          0.10,
			MaxTerritories: 3,
		},
		Dedupe: DedupeConfig{
			HammingThreshold: 3,
			WindowTTL:        24 * time.Hour,
			WindowSize:       150,
		},
		Risk: RiskConfig{
			WindowDays:        7,
			LogisticK:         0.7,
			LogisticMidpoint:  6.0,
			// The window score is a sum of per-document scores (each 0..10),
			// so trend swings below 5 points are treated as noise.
			RisingThreshold:  5,
			FallingThreshold: -5,
			AnomalyMinHistory: 5,
			AnomalySigma:      2.0,
		},
		Alerts: AlertConfig{
			Cooldown: time.Hour,
		},
		Store: StoreConfig{
			Path: "vigia.db",
		},
	}
}
