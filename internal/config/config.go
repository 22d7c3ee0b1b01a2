package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort           string
	AppEnv            string
	AWSRegion         string
	AWSEndpointURL    string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID    string
	AWSSecretKey      string
	DynamoTables      DynamoTables
	JWTPrivateKeyPath string
	JWTPublicKeyPath  string
	UserTokenTTL      time.Duration
	StudentTokenTTL   time.Duration
	OTPTTL            time.Duration
	ResetTokenTTL     time.Duration
	SMTPHost          string
	SMTPPort          string
	SMTPFrom          string
	SMTPUsername      string
	SMTPPassword      string
	FrontendURL       string
	AllowedOrigins    []string // CORS allowed origins
	// TrustedProxies lists proxy IPs/CIDRs whose X-Forwarded-For is believed.
	TrustedProxies []string
	// AllowSkipVerification lets signup create verified accounts when the client asks for it.
	AllowSkipVerification bool
	LoginCodeStore        string // "dynamo" | "badger"
	BadgerPath            string
	LogLevel              string
	LogFormat             string
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Users        string
	Students     string
	Sessions     string
	Candidates   string
	Votes        string
	StudentVotes string
	LoginCodes   string
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort:        getEnv("APP_PORT", "3000"),
		AppEnv:         getEnv("APP_ENV", "development"),
		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Users:        getEnv("DYNAMO_TABLE_USERS", "users"),
			Students:     getEnv("DYNAMO_TABLE_STUDENTS", "students"),
			Sessions:     getEnv("DYNAMO_TABLE_SESSIONS", "sessions"),
			Candidates:   getEnv("DYNAMO_TABLE_CANDIDATES", "candidates"),
			Votes:        getEnv("DYNAMO_TABLE_VOTES", "votes"),
			StudentVotes: getEnv("DYNAMO_TABLE_STUDENT_VOTES", "student_votes"),
			LoginCodes:   getEnv("DYNAMO_TABLE_LOGIN_CODES", "login_codes"),
		},
		JWTPrivateKeyPath:     getEnv("JWT_PRIVATE_KEY_PATH", "./private_key.pem"),
		JWTPublicKeyPath:      getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),
		UserTokenTTL:          getEnvDuration("USER_TOKEN_TTL", 2*time.Hour),
		StudentTokenTTL:       getEnvDuration("STUDENT_TOKEN_TTL", time.Hour),
		OTPTTL:                getEnvDuration("OTP_TTL", 10*time.Minute),
		ResetTokenTTL:         getEnvDuration("RESET_TOKEN_TTL", time.Hour),
		SMTPHost:              getEnv("SMTP_HOST", "localhost"),
		SMTPPort:              getEnv("SMTP_PORT", "1025"),
		SMTPFrom:              getEnv("SMTP_FROM", "noreply@example.com"),
		SMTPUsername:          getEnv("SMTP_USERNAME", ""),
		SMTPPassword:          getEnv("SMTP_PASSWORD", ""),
		FrontendURL:           strings.TrimRight(getEnv("FRONTEND_URL", "https://vote-r.vercel.app"), "/"),
		AllowedOrigins:        splitList(getEnv("ALLOWED_ORIGINS", "https://vote-r.vercel.app,http://localhost:5173")),
		TrustedProxies:        splitList(getEnv("TRUSTED_PROXIES", "")),
		AllowSkipVerification: getEnvBool("ALLOW_SKIP_VERIFICATION", true),
		LoginCodeStore:        getEnv("LOGIN_CODE_STORE", "dynamo"),
		BadgerPath:            getEnv("BADGER_PATH", "./data/login-codes"),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		LogFormat:             getEnv("LOG_FORMAT", "json"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// getEnvDuration accepts Go duration strings ("90m") or a bare number of seconds.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		if n := getEnvInt(key, -1); n >= 0 {
			return time.Duration(n) * time.Second
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
