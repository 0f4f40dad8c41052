package config

import "time"

// Default configuration values.
const (
	defaultServiceName        = "veracity"
	defaultServiceVersion     = "1.0.0"
	defaultServicePort        = 8090
	defaultMLServiceURL       = "http://ml-service:8000"
	defaultMLTimeout          = 10 * time.Second
	defaultPerSourceLimit     = 5
	defaultSourceTimeout      = 8 * time.Second
	defaultAggregationTimeout = 15 * time.Second
	defaultSourceRPS          = 5
	defaultRedditSubreddit    = "news"
	defaultGoogleNewsFeedURL  = "https://news.google.com/rss/search"
	defaultRedditBaseURL      = "https://oauth.reddit.com"
	defaultRedditAuthURL      = "https://www.reddit.com/api/v1/access_token"
	defaultTwitterBaseURL     = "https://api.twitter.com/2"
	defaultCacheTTL           = 24 * time.Hour
	defaultLogLevel           = "info"
)

// Config holds all configuration for the veracity service.
type Config struct {
	Service     ServiceConfig     `yaml:"service"`
	ML          MLConfig          `yaml:"ml"`
	Sources     SourcesConfig     `yaml:"sources"`
	Aggregation AggregationConfig `yaml:"aggregation"`
	Redis       RedisConfig       `yaml:"redis"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// ServiceConfig holds service-level configuration.
type ServiceConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Port    int    `env:"VERACITY_PORT" yaml:"port"`
	Debug   bool   `env:"APP_DEBUG"     yaml:"debug"`
}

// MLConfig holds the ML sidecar endpoint configuration.
type MLConfig struct {
	URL     string        `env:"ML_SERVICE_URL" yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// SourcesConfig holds the connector configuration. Enabled lists the
// connectors to run, in priority order; aggregated results follow this
// order regardless of which connector finishes first.
type SourcesConfig struct {
	Enabled        []string         `env:"SOURCES_ENABLED" yaml:"enabled"`
	PerSourceLimit int              `yaml:"per_source_limit"`
	RequestTimeout time.Duration    `yaml:"request_timeout"`
	RequestsPerSec int              `yaml:"requests_per_sec"`
	GoogleNews     GoogleNewsConfig `yaml:"google_news"`
	Reddit         RedditConfig     `yaml:"reddit"`
	Twitter        TwitterConfig    `yaml:"twitter"`
}

// GoogleNewsConfig holds the Google News RSS connector configuration.
type GoogleNewsConfig struct {
	FeedURL string `yaml:"feed_url"`
}

// RedditConfig holds the Reddit connector configuration. All three
// credential fields must be set for the connector to attempt network I/O.
type RedditConfig struct {
	ClientID     string `env:"REDDIT_CLIENT_ID"     yaml:"client_id"`
	ClientSecret string `env:"REDDIT_CLIENT_SECRET" yaml:"client_secret"`
	UserAgent    string `env:"REDDIT_USER_AGENT"    yaml:"user_agent"`
	Subreddit    string `yaml:"subreddit"`
	BaseURL      string `yaml:"base_url"`
	AuthURL      string `yaml:"auth_url"`
}

// TwitterConfig holds the Twitter connector configuration.
type TwitterConfig struct {
	BearerToken string `env:"TWITTER_BEARER_TOKEN" yaml:"bearer_token"`
	BaseURL     string `yaml:"base_url"`
}

// AggregationConfig holds the aggregation ceiling configuration.
type AggregationConfig struct {
	Timeout time.Duration `yaml:"timeout"`
}

// RedisConfig holds the optional classification cache configuration.
// An empty URL disables caching entirely.
type RedisConfig struct {
	URL                    string        `env:"REDIS_URL"      yaml:"url"`
	Password               string        `env:"REDIS_PASSWORD" yaml:"password"`
	Database               int           `yaml:"database"`
	ClassificationCacheTTL time.Duration `yaml:"classification_cache_ttl"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `env:"LOG_LEVEL" yaml:"level"`
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	setServiceDefaults(&cfg.Service)
	setMLDefaults(&cfg.ML)
	setSourcesDefaults(&cfg.Sources)
	setAggregationDefaults(&cfg.Aggregation)
	setRedisDefaults(&cfg.Redis)
	setLoggingDefaults(&cfg.Logging)
}

func setServiceDefaults(s *ServiceConfig) {
	if s.Name == "" {
		s.Name = defaultServiceName
	}
	if s.Version == "" {
		s.Version = defaultServiceVersion
	}
	if s.Port == 0 {
		s.Port = defaultServicePort
	}
}

func setMLDefaults(m *MLConfig) {
	if m.URL == "" {
		m.URL = defaultMLServiceURL
	}
	if m.Timeout == 0 {
		m.Timeout = defaultMLTimeout
	}
}

func setSourcesDefaults(s *SourcesConfig) {
	// Twitter stays off the default list; enable it explicitly once
	// credentials are provisioned.
	if len(s.Enabled) == 0 {
		s.Enabled = []string{"reddit", "google_news"}
	}
	if s.PerSourceLimit == 0 {
		s.PerSourceLimit = defaultPerSourceLimit
	}
	if s.RequestTimeout == 0 {
		s.RequestTimeout = defaultSourceTimeout
	}
	if s.RequestsPerSec == 0 {
		s.RequestsPerSec = defaultSourceRPS
	}
	if s.GoogleNews.FeedURL == "" {
		s.GoogleNews.FeedURL = defaultGoogleNewsFeedURL
	}
	if s.Reddit.Subreddit == "" {
		s.Reddit.Subreddit = defaultRedditSubreddit
	}
	if s.Reddit.BaseURL == "" {
		s.Reddit.BaseURL = defaultRedditBaseURL
	}
	if s.Reddit.AuthURL == "" {
		s.Reddit.AuthURL = defaultRedditAuthURL
	}
	if s.Twitter.BaseURL == "" {
		s.Twitter.BaseURL = defaultTwitterBaseURL
	}
}

func setAggregationDefaults(a *AggregationConfig) {
	if a.Timeout == 0 {
		a.Timeout = defaultAggregationTimeout
	}
}

func setRedisDefaults(r *RedisConfig) {
	if r.ClassificationCacheTTL == 0 {
		r.ClassificationCacheTTL = defaultCacheTTL
	}
}

func setLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = defaultLogLevel
	}
}
