package shared

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// DefaultOrigins are the browser origins allowed without configuration.
var DefaultOrigins = []string{
	"https://spytech.am",
	"http://localhost:5173",
	"http://localhost:8080",
	"http://localhost:3000",
	"http://127.0.0.1:5173",
	"http://127.0.0.1:8080",
}

type Config struct {
	AppEnv      string `envconfig:"APP_ENV" default:"prod"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	Port        string `envconfig:"PORT" default:"3001"`
	HTTPAddr    string `envconfig:"HTTP_ADDR"`
	HTTPSAddr   string `envconfig:"HTTPS_ADDR" default:":3443"`
	MetricsAddr string `envconfig:"METRICS_ADDR"`

	TelegramToken      string        `envconfig:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID     string        `envconfig:"TELEGRAM_CHAT_ID"`
	TelegramBase       string        `envconfig:"TELEGRAM_API_BASE" default:"https://api.telegram.org"`
	TelegramParseMode  string        `envconfig:"TELEGRAM_PARSE_MODE" default:"HTML"`
	TelegramTimeout    time.Duration `envconfig:"TELEGRAM_TIMEOUT" default:"10s"`
	TelegramRPS        int           `envconfig:"TELEGRAM_RPS" default:"1"`
	TelegramMaxRetries int           `envconfig:"TELEGRAM_MAX_RETRIES" default:"0"`

	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS"`
	FrontendURL    string   `envconfig:"FRONTEND_URL"`

	TrustProxy      bool          `envconfig:"TRUST_PROXY" default:"false"`
	RateLimitMax    int           `envconfig:"RATE_LIMIT_MAX" default:"100"`
	RateLimitWindow time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"15m"`
	RedisAddr       string        `envconfig:"REDIS_ADDR"`
	RedisPass       string        `envconfig:"REDIS_PASSWORD"`
	RedisDB         int           `envconfig:"REDIS_DB" default:"0"`

	TLSMode     string   `envconfig:"TLS_MODE" default:"off"`
	TLSCertFile string   `envconfig:"TLS_CERT_FILE"`
	TLSKeyFile  string   `envconfig:"TLS_KEY_FILE"`
	TLSHosts    []string `envconfig:"TLS_HOSTS" default:"api.spytech.am,localhost"`

	CatalogSource string `envconfig:"CATALOG_SOURCE" default:"embedded"`
	CatalogDir    string `envconfig:"CATALOG_DIR"`
	MySQLDSN      string `envconfig:"MYSQL_DSN" default:"root:root@tcp(localhost:3306)/relay?parseTime=true&charset=utf8mb4&loc=UTC"`

	MessageTimezone string `envconfig:"MESSAGE_TIMEZONE" default:"Asia/Yerevan"`
	ZoneLabel       string `envconfig:"MESSAGE_ZONE_LABEL" default:"Armenia Time"`
	SiteName        string `envconfig:"SITE_NAME" default:"SpyTech Exam Tools Website"`
	BodyLimitBytes  int64  `envconfig:"BODY_LIMIT_BYTES" default:"10240"`
	SyncWorkers     int    `envconfig:"SYNC_WORKERS" default:"4"`
}

// Load reads the environment. Missing messaging credentials are not fatal:
// the relay starts and reports a configuration error per request.
func Load() (Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return Config{}, errors.Wrap(err, "process env config")
	}
	if c.HTTPAddr == "" {
		c.HTTPAddr = ":" + c.Port
	}
	switch c.CatalogSource {
	case "embedded", "mysql":
	default:
		return Config{}, errors.Newf("CATALOG_SOURCE must be embedded or mysql, got %q", c.CatalogSource)
	}

	if c.RateLimitMax < 1 {
		return Config{}, errors.Newf("RATE_LIMIT_MAX must be positive, got %d", c.RateLimitMax)
	}
	if c.RateLimitWindow < time.Second {
		return Config{}, errors.Newf("RATE_LIMIT_WINDOW must be at least 1s, got %s", c.RateLimitWindow)
	}

	if c.TelegramToken == "" {
		log.Warn().Msg("TELEGRAM_BOT_TOKEN is empty")
	}
	if c.TelegramChatID == "" {
		log.Warn().Msg("TELEGRAM_CHAT_ID is empty")
	}
	return c, nil
}

func (c Config) IsDev() bool {
	return c.AppEnv == "dev" || c.AppEnv == "development"
}

// Origins is the CORS allow list: ALLOWED_ORIGINS (or the defaults) plus
// FRONTEND_URL, de-duplicated.
func (c Config) Origins() []string {
	base := c.AllowedOrigins
	if len(base) == 0 {
		base = DefaultOrigins
	}
	seen := make(map[string]bool, len(base)+1)
	out := make([]string, 0, len(base)+1)
	for _, o := range append(append([]string{}, base...), c.FrontendURL) {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "" || seen[o] {
			continue
		}
		seen[o] = true
		out = append(out, o)
	}
	return out
}
