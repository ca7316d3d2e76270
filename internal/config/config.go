// Package config loads ContentGuard settings from defaults, an optional YAML
// file, CONTENTGUARD_* environment variables and bound command-line flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"contentguard/internal/crawler"
	"contentguard/internal/filter"
)

const EnvPrefix = "CONTENTGUARD"

// DefaultSitemaps are the post sitemaps of the reference deployment.
var DefaultSitemaps = []string{
	"https://www.bluehost.com/blog/post-sitemap.xml",
	"https://www.bluehost.com/blog/post-sitemap2.xml",
	"https://www.bluehost.com/blog/post-sitemap3.xml",
	"https://www.bluehost.com/blog/post-sitemap4.xml",
	"https://www.bluehost.com/blog/post-sitemap5.xml",
	"https://www.bluehost.com/blog/post-sitemap6.xml",
	"https://www.bluehost.com/blog/post-sitemap7.xml",
	"https://www.bluehost.com/blog/post-sitemap8.xml",
	"https://www.bluehost.com/blog/post-sitemap9.xml",
	"https://www.bluehost.com/blog/post-sitemap10.xml",
}

type Config struct {
	Sitemaps            []string
	CacheTTL            time.Duration
	RequestTimeout      time.Duration
	RetryAttempts       int
	RetryBackoff        time.Duration
	SimilarityThreshold float64
	FetchConcurrency    int
	MaxBodyBytes        int64
	UserAgent           string
	FilterInclude       []string
	FilterExclude       []string
	EnrichTitles        bool
	ServerAddr          string
	Debug               bool
}

// New returns a viper instance with defaults and environment binding set up.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("sitemaps", DefaultSitemaps)
	v.SetDefault("cache_ttl_seconds", 86400)
	v.SetDefault("request_timeout_seconds", 15)
	v.SetDefault("retry.attempts", 3)
	v.SetDefault("retry.backoff_seconds", 2)
	v.SetDefault("similarity_threshold", 0.7)
	v.SetDefault("fetch_concurrency", 4)
	v.SetDefault("max_body_bytes", 20<<20)
	v.SetDefault("user_agent", crawler.DefaultUserAgent)
	v.SetDefault("filter.include", filter.DefaultInclude)
	v.SetDefault("filter.exclude", filter.DefaultExclude)
	v.SetDefault("enrich_titles", false)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("debug", false)
}

// Load reads the config file (file, or ./contentguard.yaml when file is
// empty and it exists) into v and returns the validated settings.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("contentguard")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return FromViper(v)
}

// FromViper converts already loaded settings without touching the filesystem.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Sitemaps:            stringList(v, "sitemaps"),
		CacheTTL:            seconds(v.GetFloat64("cache_ttl_seconds")),
		RequestTimeout:      seconds(v.GetFloat64("request_timeout_seconds")),
		RetryAttempts:       v.GetInt("retry.attempts"),
		RetryBackoff:        seconds(v.GetFloat64("retry.backoff_seconds")),
		SimilarityThreshold: v.GetFloat64("similarity_threshold"),
		FetchConcurrency:    v.GetInt("fetch_concurrency"),
		MaxBodyBytes:        v.GetInt64("max_body_bytes"),
		UserAgent:           v.GetString("user_agent"),
		FilterInclude:       stringList(v, "filter.include"),
		FilterExclude:       stringList(v, "filter.exclude"),
		EnrichTitles:        v.GetBool("enrich_titles"),
		ServerAddr:          v.GetString("server.addr"),
		Debug:               v.GetBool("debug"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if len(c.Sitemaps) == 0 {
		errs = append(errs, errors.New("at least one sitemap is required"))
	}
	if c.RetryAttempts < 1 {
		errs = append(errs, fmt.Errorf("retry.attempts must be >= 1, got %d", c.RetryAttempts))
	}
	if c.RetryBackoff < 0 {
		errs = append(errs, errors.New("retry.backoff_seconds must not be negative"))
	}
	if c.SimilarityThreshold < 0 || c.SimilarityThreshold > 1 {
		errs = append(errs, fmt.Errorf("similarity_threshold must be within [0,1], got %v", c.SimilarityThreshold))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request_timeout_seconds must be positive"))
	}
	if c.FetchConcurrency < 1 {
		errs = append(errs, fmt.Errorf("fetch_concurrency must be >= 1, got %d", c.FetchConcurrency))
	}
	if len(c.FilterInclude) == 0 {
		errs = append(errs, errors.New("filter.include must not be empty"))
	}
	return errors.Join(errs...)
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// stringList accepts YAML lists as well as comma or whitespace separated
// strings, which is how lists arrive from the environment.
func stringList(v *viper.Viper, key string) []string {
	out := []string{}
	for _, item := range v.GetStringSlice(key) {
		for _, part := range strings.FieldsFunc(item, func(r rune) bool { return r == ',' || r == ' ' || r == '\n' || r == '\t' }) {
			out = append(out, part)
		}
	}
	return out
}
