package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	FeatureFlags  FeatureFlagsConfig
	AuthRateLimit AuthRateLimitConfig
	Pricing       PricingConfig
	Editor        EditorConfig
	Checkout      CheckoutConfig
	Media         MediaConfig
	GCP           GCPConfig
	GCS           GCSConfig
	PubSub        PubSubConfig
	Outbox        OutboxConfig
	Eventing      EventingConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Editor.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"FLAMOURE_APP_ENV" required:"true"`
	Port         string `envconfig:"FLAMOURE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"FLAMOURE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"FLAMOURE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"FLAMOURE_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"FLAMOURE_DB_DSN"`
	Driver string `envconfig:"FLAMOURE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"FLAMOURE_DB_HOST"`
	LegacyPort     int    `envconfig:"FLAMOURE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"FLAMOURE_DB_USER"`
	LegacyPassword string `envconfig:"FLAMOURE_DB_PASSWORD"`
	LegacyName     string `envconfig:"FLAMOURE_DB_NAME"`
	LegacySSLMode  string `envconfig:"FLAMOURE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"FLAMOURE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"FLAMOURE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"FLAMOURE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"FLAMOURE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"FLAMOURE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"FLAMOURE_REDIS_ADDR"`
	Password     string        `envconfig:"FLAMOURE_REDIS_PASSWORD"`
	DB           int           `envconfig:"FLAMOURE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"FLAMOURE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"FLAMOURE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"FLAMOURE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"FLAMOURE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"FLAMOURE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"FLAMOURE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"FLAMOURE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"FLAMOURE_JWT_EXPIRATION_MINUTES" required:"true"`
}

// Expiration returns the access token lifetime.
func (j JWTConfig) Expiration() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"FLAMOURE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"FLAMOURE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"FLAMOURE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"FLAMOURE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"FLAMOURE_ARGON_KEY_LEN" default:"32"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"FLAMOURE_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"FLAMOURE_AUTO_MIGRATE" default:"false"`
}

// PricingConfig carries the photostrip bundle rule. Prices are in the
// store currency's minor-less unit (IDR has no subunit in practice).
type PricingConfig struct {
	BundleSize          int   `envconfig:"FLAMOURE_PRICING_BUNDLE_SIZE" default:"4"`
	BundlePrice         int64 `envconfig:"FLAMOURE_PRICING_BUNDLE_PRICE" default:"10000"`
	PhotostripUnitPrice int64 `envconfig:"FLAMOURE_PRICING_PHOTOSTRIP_UNIT_PRICE" default:"3000"`
}

type EditorConfig struct {
	SlotCount    int           `envconfig:"FLAMOURE_EDITOR_SLOT_COUNT" default:"3"`
	HistoryDepth int           `envconfig:"FLAMOURE_EDITOR_HISTORY_DEPTH" default:"20"`
	SessionTTL   time.Duration `envconfig:"FLAMOURE_EDITOR_SESSION_TTL" default:"2h"`
}

func (e EditorConfig) validate() error {
	if e.SlotCount < minEditorSlots || e.SlotCount > maxEditorSlots {
		return fmt.Errorf("editor slot count must be between %d and %d, got %d", minEditorSlots, maxEditorSlots, e.SlotCount)
	}
	if e.HistoryDepth < 1 {
		return fmt.Errorf("editor history depth must be positive, got %d", e.HistoryDepth)
	}
	return nil
}

type AuthRateLimitConfig struct {
	LoginWindow     time.Duration `envconfig:"FLAMOURE_AUTH_LOGIN_WINDOW" default:"10m"`
	LoginIPLimit    int           `envconfig:"FLAMOURE_AUTH_LOGIN_IP_LIMIT" default:"20"`
	LoginEmailLimit int           `envconfig:"FLAMOURE_AUTH_LOGIN_EMAIL_LIMIT" default:"10"`
}

type CheckoutConfig struct {
	AdminWhatsApp string        `envconfig:"FLAMOURE_CHECKOUT_ADMIN_WHATSAPP" required:"true"`
	CartTTL       time.Duration `envconfig:"FLAMOURE_CHECKOUT_CART_TTL" default:"168h"`
	UploadWorkers int           `envconfig:"FLAMOURE_CHECKOUT_UPLOAD_WORKERS" default:"4"`
}

type MediaConfig struct {
	MaxUploadMB      int           `envconfig:"FLAMOURE_MAX_UPLOAD_MB" default:"20"`
	PendingUploadTTL time.Duration `envconfig:"FLAMOURE_UPLOAD_PENDING_TTL" default:"24h"`
	SweepInterval    time.Duration `envconfig:"FLAMOURE_UPLOAD_SWEEP_INTERVAL" default:"1h"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"FLAMOURE_GCP_PROJECT_ID" required:"true"`
	CredentialsJSON        string `envconfig:"FLAMOURE_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"FLAMOURE_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName        string        `envconfig:"FLAMOURE_GCS_BUCKET_NAME" required:"true"`
	UploadURLExpiry   time.Duration `envconfig:"FLAMOURE_GCS_UPLOAD_URL_EXPIRY" default:"15m"`
	DownloadURLExpiry time.Duration `envconfig:"FLAMOURE_GCS_DOWNLOAD_URL_EXPIRY" default:"24h"`
}

type PubSubConfig struct {
	OrdersTopic        string `envconfig:"FLAMOURE_PUBSUB_ORDERS_TOPIC" required:"true"`
	OrdersSubscription string `envconfig:"FLAMOURE_PUBSUB_ORDERS_SUBSCRIPTION" required:"true"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"FLAMOURE_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"FLAMOURE_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"FLAMOURE_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

type EventingConfig struct {
	OutboxIdempotencyTTL time.Duration `envconfig:"FLAMOURE_EVENTING_IDEMPOTENCY_TTL" default:"720h"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
