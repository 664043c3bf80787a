package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	AppPort       string
	AppBaseURL    string
	UploadDir     string
	CORSOrigins   string
	DBDSN         string
	JWTSecret     string
	JWTExpiresMin int
	CookieSecure  bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	MailFrom     string

	OTPTTL          time.Duration
	ResetTTL        time.Duration
	NotifyQueueSize int

	GoogleClientID  string
	GoogleSecret    string
	GoogleRedirect  string
	FrontendBaseURL string
}

// Load panics on a missing required variable, like the rest of startup.
func Load() Config {
	cfg, err := LoadE()
	if err != nil {
		panic(err)
	}
	return cfg
}

func LoadE() (Config, error) {
	var missing []string
	must := func(k string) string {
		v := os.Getenv(k)
		if v == "" {
			missing = append(missing, k)
		}
		return v
	}

	cfg := Config{
		AppPort:         get("APP_PORT", "8080"),
		AppBaseURL:      get("APP_BASE_URL", ""),
		UploadDir:       get("UPLOAD_DIR", "./uploads"),
		CORSOrigins:     get("CORS_ORIGINS", "http://127.0.0.1:3000, http://localhost:3000"),
		DBDSN:           must("DB_DSN"),
		JWTSecret:       must("JWT_SECRET"),
		JWTExpiresMin:   getInt("JWT_EXPIRES_MIN", 10080),
		CookieSecure:    getBool("COOKIE_SECURE", false),
		RedisAddr:       get("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   get("REDIS_PASSWORD", ""),
		RedisDB:         getInt("REDIS_DB", 0),
		SMTPHost:        get("SMTP_HOST", ""),
		SMTPPort:        getInt("SMTP_PORT", 587),
		SMTPUser:        get("SMTP_USER", ""),
		SMTPPassword:    get("SMTP_PASSWORD", ""),
		MailFrom:        get("MAIL_FROM", "no-reply@freelance.local"),
		OTPTTL:          time.Duration(getInt("OTP_TTL_MIN", 5)) * time.Minute,
		ResetTTL:        time.Duration(getInt("RESET_TTL_MIN", 60)) * time.Minute,
		NotifyQueueSize: getInt("NOTIFY_QUEUE_SIZE", 256),
		GoogleClientID:  get("GOOGLE_CLIENT_ID", ""),
		GoogleSecret:    get("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirect:  get("GOOGLE_REDIRECT_URL", ""),
		FrontendBaseURL: strings.TrimRight(get("FRONTEND_BASE_URL", "http://localhost:3000"), "/"),
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing env: %s", strings.Join(missing, ", "))
	}
	return cfg, nil
}

// GoogleEnabled reports whether Google sign-in is configured.
func (c Config) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleSecret != "" && c.GoogleRedirect != ""
}

func get(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func getInt(k string, def int) int {
	n, err := strconv.Atoi(get(k, strconv.Itoa(def)))
	if err != nil {
		return def
	}
	return n
}

func getBool(k string, def bool) bool {
	b, err := strconv.ParseBool(get(k, strconv.FormatBool(def)))
	if err != nil {
		return def
	}
	return b
}
