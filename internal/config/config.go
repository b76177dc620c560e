package config

import (
	"fmt"
	"net/url"
	"time"
)

type Config struct {
	Run           RunConfig           `yaml:"run"`
	Session       SessionConfig       `yaml:"session"`
	Rod           RodConfig           `yaml:"rod"`
	HTTP          HttpConfig          `yaml:"http"`
	Backoff       BackoffConfig       `yaml:"backoff"`
	RateLimit     RateLimitConfig     `yaml:"rate_limit"`
	Translation   TranslationConfig   `yaml:"translation"`
	Normalize     NormalizeConfig     `yaml:"normalize"`
	SelectorsFile string              `yaml:"selectors_file"`
	Observability ObservabilityConfig `yaml:"observability"`
}

type RunConfig struct {
	ListingURL      string `yaml:"listing_url"`
	Articles        int    `yaml:"articles"`
	Paragraphs      int    `yaml:"paragraphs"`
	RepeatThreshold int    `yaml:"repeat_threshold"`
	SourceLang      string `yaml:"source_lang"`
	TargetLang      string `yaml:"target_lang"`
	PreviewChars    int    `yaml:"preview_chars"`
}

type SessionConfig struct {
	Driver           string `yaml:"driver"`
	ReadyTimeoutMS   int    `yaml:"ready_timeout_ms"`
	SettleDelayMS    int    `yaml:"settle_delay_ms"`
	ConsentSelector  string `yaml:"consent_selector"`
	ConsentTimeoutMS int    `yaml:"consent_timeout_ms"`
}

type RodConfig struct {
	ChromePath   string `yaml:"chrome_path"`
	ShowBrowser  bool   `yaml:"show_browser"`
	WindowWidth  int    `yaml:"window_width"`
	WindowHeight int    `yaml:"window_height"`
	PageTimeoutS int    `yaml:"page_timeout_s"`
}

type HttpConfig struct {
	UserAgent        string `yaml:"user_agent"`
	ConnectTimeoutMS int    `yaml:"connect_timeout_ms"`
	TotalTimeoutMS   int    `yaml:"total_timeout_ms"`
	MaxRetries       int    `yaml:"max_retries"`
	AcceptLanguage   string `yaml:"accept_language"`
}

type BackoffConfig struct {
	MinMS     int `yaml:"min_ms"`
	MaxMS     int `yaml:"max_ms"`
	JitterPct int `yaml:"jitter_pct"`
}

type RateLimitConfig struct {
	RPM   int `yaml:"rpm"`
	Burst int `yaml:"burst"`
}

type TranslationConfig struct {
	Endpoint     string `yaml:"endpoint"`
	Host         string `yaml:"host"`
	APIKeyEnv    string `yaml:"api_key_env"`
	DelayMS      int    `yaml:"delay_ms"`
	MaxPerMinute int    `yaml:"max_per_minute"`
	TimeoutMS    int    `yaml:"timeout_ms"`

	// APIKey is filled from the environment only.
	APIKey string `yaml:"-"`
}

type NormalizeConfig struct {
	TrimNBSP       bool `yaml:"trim_nbsp"`
	CollapseSpaces bool `yaml:"collapse_spaces"`
}

type ObservabilityConfig struct {
	LogPath    string `yaml:"log_path"`
	LogLevel   string `yaml:"log_level"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

const (
	DriverRod    = "rod"
	DriverStatic = "static"

	DefaultAPIKeyEnv = "TRANSLATE_API_KEY"
)

// Default returns the configuration used when no file overrides it.
func Default() *Config {
	return &Config{
		Run: RunConfig{
			ListingURL:      "https://elpais.com/opinion/",
			Articles:        5,
			Paragraphs:      3,
			RepeatThreshold: 2,
			SourceLang:      "es",
			TargetLang:      "en",
			PreviewChars:    200,
		},
		Session: SessionConfig{
			Driver:           DriverRod,
			ReadyTimeoutMS:   15000,
			SettleDelayMS:    3000,
			ConsentSelector:  "#didomi-notice-agree-button",
			ConsentTimeoutMS: 2000,
		},
		Rod: RodConfig{
			WindowWidth:  1366,
			WindowHeight: 900,
			PageTimeoutS: 60,
		},
		HTTP: HttpConfig{
			UserAgent:        "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0 Safari/537.36",
			ConnectTimeoutMS: 10000,
			TotalTimeoutMS:   30000,
			MaxRetries:       2,
			AcceptLanguage:   "es-ES,es;q=0.9",
		},
		Backoff: BackoffConfig{
			MinMS:     250,
			MaxMS:     2000,
			JitterPct: 20,
		},
		RateLimit: RateLimitConfig{
			RPM:   30,
			Burst: 1,
		},
		Translation: TranslationConfig{
			Endpoint:     "https://rapid-translate-multi-traduction.p.rapidapi.com/t",
			Host:         "rapid-translate-multi-traduction.p.rapidapi.com",
			APIKeyEnv:    DefaultAPIKeyEnv,
			DelayMS:      1000,
			MaxPerMinute: 50,
			TimeoutMS:    10000,
		},
		Normalize: NormalizeConfig{
			TrimNBSP:       true,
			CollapseSpaces: true,
		},
		Observability: ObservabilityConfig{
			LogLevel:   "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 7,
		},
	}
}

// Validation
func (c *Config) Validate() error {
	if c.Run.ListingURL == "" {
		return fmt.Errorf("run.listing_url is required")
	}
	if u, err := url.Parse(c.Run.ListingURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("run.listing_url must be an absolute URL: %q", c.Run.ListingURL)
	}
	if c.Run.Articles <= 0 {
		return fmt.Errorf("run.articles must be > 0")
	}
	if c.Run.Paragraphs <= 0 {
		return fmt.Errorf("run.paragraphs must be > 0")
	}
	if c.Run.RepeatThreshold < 0 {
		return fmt.Errorf("run.repeat_threshold must be >= 0")
	}
	if c.Run.SourceLang == "" || c.Run.TargetLang == "" {
		return fmt.Errorf("run.source_lang and run.target_lang are required")
	}
	if c.Run.PreviewChars <= 0 {
		return fmt.Errorf("run.preview_chars must be > 0")
	}
	if c.Session.Driver != DriverRod && c.Session.Driver != DriverStatic {
		return fmt.Errorf("session.driver must be '%s' or '%s'", DriverRod, DriverStatic)
	}
	if c.Session.ReadyTimeoutMS <= 0 {
		return fmt.Errorf("session.ready_timeout_ms must be > 0")
	}
	if c.Session.SettleDelayMS < 0 {
		return fmt.Errorf("session.settle_delay_ms must be >= 0")
	}
	if c.Session.ConsentTimeoutMS < 0 {
		return fmt.Errorf("session.consent_timeout_ms must be >= 0")
	}
	if c.Session.Driver == DriverRod {
		if c.Rod.WindowWidth <= 0 || c.Rod.WindowHeight <= 0 {
			return fmt.Errorf("rod.window_width and rod.window_height must be > 0")
		}
		if c.Rod.PageTimeoutS <= 0 {
			return fmt.Errorf("rod.page_timeout_s must be > 0")
		}
	}
	if c.HTTP.UserAgent == "" {
		return fmt.Errorf("http.user_agent is required")
	}
	if c.HTTP.ConnectTimeoutMS <= 0 {
		return fmt.Errorf("http.connect_timeout_ms must be > 0")
	}
	if c.HTTP.TotalTimeoutMS <= 0 {
		return fmt.Errorf("http.total_timeout_ms must be > 0")
	}
	if c.HTTP.MaxRetries < 0 {
		return fmt.Errorf("http.max_retries must be >= 0")
	}
	if c.Backoff.MinMS <= 0 {
		return fmt.Errorf("backoff.min_ms must be > 0")
	}
	if c.Backoff.MaxMS <= 0 {
		return fmt.Errorf("backoff.max_ms must be > 0")
	}
	if c.Backoff.MinMS > c.Backoff.MaxMS {
		return fmt.Errorf("backoff.min_ms must be <= backoff.max_ms")
	}
	if c.Backoff.JitterPct < 0 || c.Backoff.JitterPct > 100 {
		return fmt.Errorf("backoff.jitter_pct must be between 0 and 100")
	}
	if c.RateLimit.RPM <= 0 {
		return fmt.Errorf("rate_limit.rpm must be > 0")
	}
	if c.RateLimit.Burst <= 0 {
		return fmt.Errorf("rate_limit.burst must be > 0")
	}
	if c.Translation.Endpoint == "" {
		return fmt.Errorf("translation.endpoint is required")
	}
	if c.Translation.DelayMS < 0 {
		return fmt.Errorf("translation.delay_ms must be >= 0")
	}
	if c.Translation.MaxPerMinute < 0 {
		return fmt.Errorf("translation.max_per_minute must be >= 0")
	}
	if c.Translation.TimeoutMS <= 0 {
		return fmt.Errorf("translation.timeout_ms must be > 0")
	}
	if c.Observability.LogLevel == "" {
		return fmt.Errorf("observability.log_level is required")
	}
	return nil
}

// Getters
func (c *Config) GetConnectTimeout() time.Duration {
	return time.Duration(c.HTTP.ConnectTimeoutMS) * time.Millisecond
}

func (c *Config) GetTotalTimeout() time.Duration {
	return time.Duration(c.HTTP.TotalTimeoutMS) * time.Millisecond
}

func (c *Config) GetBackoffMin() time.Duration {
	return time.Duration(c.Backoff.MinMS) * time.Millisecond
}

func (c *Config) GetBackoffMax() time.Duration {
	return time.Duration(c.Backoff.MaxMS) * time.Millisecond
}

func (c *Config) GetReadyTimeout() time.Duration {
	return time.Duration(c.Session.ReadyTimeoutMS) * time.Millisecond
}

func (c *Config) GetSettleDelay() time.Duration {
	return time.Duration(c.Session.SettleDelayMS) * time.Millisecond
}

func (c *Config) GetConsentTimeout() time.Duration {
	return time.Duration(c.Session.ConsentTimeoutMS) * time.Millisecond
}

func (c *Config) GetRodPageTimeout() time.Duration {
	return time.Duration(c.Rod.PageTimeoutS) * time.Second
}

func (c *Config) GetTranslationDelay() time.Duration {
	return time.Duration(c.Translation.DelayMS) * time.Millisecond
}

func (c *Config) GetTranslationTimeout() time.Duration {
	return time.Duration(c.Translation.TimeoutMS) * time.Millisecond
}
