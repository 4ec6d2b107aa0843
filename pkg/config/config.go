package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Password PasswordConfig
	Stripe   StripeConfig
	Checkout CheckoutConfig
	Mail     MailConfig
	Outbox   OutboxConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"GATEPASS_APP_ENV" required:"true"`
	Port         string `envconfig:"GATEPASS_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"GATEPASS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"GATEPASS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"GATEPASS_DB_DSN"`
	Driver string `envconfig:"GATEPASS_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"GATEPASS_DB_HOST"`
	Port     int    `envconfig:"GATEPASS_DB_PORT" default:"5432"`
	User     string `envconfig:"GATEPASS_DB_USER"`
	Password string `envconfig:"GATEPASS_DB_PASSWORD"`
	Name     string `envconfig:"GATEPASS_DB_NAME"`
	SSLMode  string `envconfig:"GATEPASS_DB_SSLMODE" default:"disable"`

	AutoMigrate bool `envconfig:"GATEPASS_DB_AUTO_MIGRATE" default:"false"`

	MaxOpenConns    int           `envconfig:"GATEPASS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"GATEPASS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"GATEPASS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"GATEPASS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"GATEPASS_REDIS_URL" required:"true"`
	Address      string        `envconfig:"GATEPASS_REDIS_ADDR"`
	Password     string        `envconfig:"GATEPASS_REDIS_PASSWORD"`
	DB           int           `envconfig:"GATEPASS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"GATEPASS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"GATEPASS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"GATEPASS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GATEPASS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"GATEPASS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"GATEPASS_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"GATEPASS_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"GATEPASS_JWT_EXPIRATION_MINUTES" required:"true"`
	SessionTTLMinutes int    `envconfig:"GATEPASS_SESSION_TTL_MINUTES" default:"43200"`
}

// SessionTTL returns the Redis session TTL configured in minutes.
func (j JWTConfig) SessionTTL() time.Duration {
	if j.SessionTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.SessionTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"GATEPASS_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"GATEPASS_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"GATEPASS_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"GATEPASS_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"GATEPASS_ARGON_KEY_LEN" default:"32"`
}

type StripeConfig struct {
	APIKey              string `envconfig:"GATEPASS_STRIPE_API_KEY"`
	PaymentSecret       string `envconfig:"GATEPASS_STRIPE_PAYMENT_WEBHOOK_SECRET"`
	RefundSecret        string `envconfig:"GATEPASS_STRIPE_REFUND_WEBHOOK_SECRET"`
	Env                 string `envconfig:"GATEPASS_STRIPE_ENV" default:"test"`
	StatementDescriptor string `envconfig:"GATEPASS_STRIPE_STATEMENT_DESCRIPTOR" default:"GatePass Event Ticket"`
}

// Environment returns the normalized Stripe environment (test/live).
func (s StripeConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "test"
	}
	return env
}

// CheckoutConfig carries the redirect targets handed to Stripe Checkout.
type CheckoutConfig struct {
	SuccessURL    string `envconfig:"GATEPASS_CHECKOUT_SUCCESS_URL" required:"true"`
	CancelURL     string `envconfig:"GATEPASS_CHECKOUT_CANCEL_URL" required:"true"`
	TicketBaseURL string `envconfig:"GATEPASS_TICKET_BASE_URL" required:"true"`
	OnboardingURL string `envconfig:"GATEPASS_STRIPE_ONBOARDING_RETURN_URL" required:"true"`
}

type MailConfig struct {
	Provider           string `envconfig:"GATEPASS_MAIL_PROVIDER" default:"noop"`
	FromAddress        string `envconfig:"GATEPASS_MAIL_FROM_ADDRESS"`
	FromName           string `envconfig:"GATEPASS_MAIL_FROM_NAME" default:"GatePass"`
	SESRegion          string `envconfig:"GATEPASS_SES_REGION" default:"us-east-1"`
	SESAccessKeyID     string `envconfig:"GATEPASS_SES_ACCESS_KEY_ID"`
	SESSecretAccessKey string `envconfig:"GATEPASS_SES_SECRET_ACCESS_KEY"`
}

type OutboxConfig struct {
	BatchSize      int           `envconfig:"GATEPASS_OUTBOX_BATCH_SIZE" default:"50"`
	PollInterval   time.Duration `envconfig:"GATEPASS_OUTBOX_POLL_INTERVAL" default:"500ms"`
	MaxAttempts    int           `envconfig:"GATEPASS_OUTBOX_MAX_ATTEMPTS" default:"10"`
	IdempotencyTTL time.Duration `envconfig:"GATEPASS_WEBHOOK_IDEMPOTENCY_TTL" default:"720h"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range fallbackDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
