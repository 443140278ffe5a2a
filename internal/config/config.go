package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/krasavchik01/rbbb-sub002/internal/secrets"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Remote    RemoteConfig
	Local     LocalConfig
	Redis     RedisConfig
	Storage   StorageConfig
	Secrets   SecretsConfig
	Logging   LoggingConfig
	Server    ServerConfig
	CORS      CORSConfig
	Security  SecurityConfig
	RateLimit RateLimitConfig
	Jobs      JobsConfig
}

type AppConfig struct {
	Name        string
	Environment string
	Port        int
}

// RemoteConfig holds the connection settings of the managed postgres mirror.
// When Enabled is false the store runs cache-only.
type RemoteConfig struct {
	Enabled         bool
	Host            string
	Port            int
	Name            string
	User            string
	Password        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
	// ProbeTimeout bounds the reachability probe (seconds)
	ProbeTimeout int
}

// LocalConfig configures the persistent local cache
type LocalConfig struct {
	// Backend is "sqlite" or "redis"
	Backend          string
	SQLitePath       string
	Namespace        string
	MaxDocumentBytes int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type StorageConfig struct {
	Mode                  string
	LocalBasePath         string
	CloudConnectionString string
	CloudContainer        string
	MaxUploadSizeMB       int64
}

type SecretsConfig struct {
	// Source determines where secrets are loaded from: "environment", "vault", or "auto"
	Source       string
	KeyVaultName string
	CacheEnabled bool
	CacheTTL     int // seconds
}

type LoggingConfig struct {
	Level  string
	Format string
}

type ServerConfig struct {
	ReadTimeout    int
	WriteTimeout   int
	RequestTimeout int
	EnableSwagger  bool
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	// MaxAge is the max age (in seconds) for preflight cache
	MaxAge int
}

// SecurityConfig holds security header configuration
type SecurityConfig struct {
	EnableHSTS            bool
	HSTSMaxAge            int
	ContentSecurityPolicy string
	FrameOptions          string
	ContentTypeNosniff    bool
	ReferrerPolicy        string
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled bool
	// RequestsPerMinute is the limit for anonymous requests (per IP)
	RequestsPerMinute int
	// RequestsPerMinuteUser is the limit for requests carrying an identity (per user)
	RequestsPerMinuteUser int
	WhitelistPaths        []string
}

// JobsConfig configures background jobs
type JobsConfig struct {
	// NotificationPollSeconds is the notification refresh interval
	NotificationPollSeconds int
	// SyncSchedule is a cron expression (with seconds) for the scheduled force sync; empty disables it
	SyncSchedule string
}

// ConnectionString builds PostgreSQL connection string
func (d *RemoteConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

// URL builds the postgres URL used by goose
func (d *RemoteConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}

// ConnMaxLifetimeDuration returns connection max lifetime as duration
func (d *RemoteConfig) ConnMaxLifetimeDuration() time.Duration {
	return time.Duration(d.ConnMaxLifetime) * time.Second
}

// ProbeTimeoutDuration returns the probe timeout as duration
func (d *RemoteConfig) ProbeTimeoutDuration() time.Duration {
	return time.Duration(d.ProbeTimeout) * time.Second
}

// ReadTimeoutDuration returns read timeout as duration
func (s *ServerConfig) ReadTimeoutDuration() time.Duration {
	return time.Duration(s.ReadTimeout) * time.Second
}

// WriteTimeoutDuration returns write timeout as duration
func (s *ServerConfig) WriteTimeoutDuration() time.Duration {
	return time.Duration(s.WriteTimeout) * time.Second
}

// RequestTimeoutDuration returns request timeout as duration
func (s *ServerConfig) RequestTimeoutDuration() time.Duration {
	return time.Duration(s.RequestTimeout) * time.Second
}

// NotificationPollInterval returns the notification refresh interval
func (j *JobsConfig) NotificationPollInterval() time.Duration {
	return time.Duration(j.NotificationPollSeconds) * time.Second
}

// Load loads configuration from file and environment variables.
// Use LoadWithSecrets to also resolve the remote password from Key Vault.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Environment variables override config file
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Secrets.KeyVaultName == "" {
		cfg.Secrets.KeyVaultName = v.GetString("AZURE_KEY_VAULT_NAME")
	}

	return &cfg, nil
}

// LoadWithSecrets loads configuration and resolves the remote database
// credentials and storage connection string from the configured secret source.
//
// Key Vault is used when USE_AZURE_KEY_VAULT=true and the environment is
// staging or production; otherwise environment variables are used.
func LoadWithSecrets(ctx context.Context, logger *zap.Logger) (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	useKeyVault := strings.ToLower(os.Getenv("USE_AZURE_KEY_VAULT")) == "true"
	isValidEnv := cfg.App.Environment == "staging" || cfg.App.Environment == "production"

	if !useKeyVault {
		logger.Info("USE_AZURE_KEY_VAULT not enabled, using environment variables for secrets",
			zap.String("environment", cfg.App.Environment),
		)
		return cfg, nil
	}

	if !isValidEnv {
		logger.Warn("USE_AZURE_KEY_VAULT is enabled but environment is not staging or production, using environment variables",
			zap.String("environment", cfg.App.Environment),
		)
		return cfg, nil
	}

	if cfg.Secrets.KeyVaultName == "" {
		return nil, fmt.Errorf("AZURE_KEY_VAULT_NAME is required when USE_AZURE_KEY_VAULT=true")
	}

	provider, err := secrets.NewProvider(&secrets.ProviderConfig{
		Source:       secrets.SourceVault,
		VaultName:    cfg.Secrets.KeyVaultName,
		Environment:  cfg.App.Environment,
		CacheEnabled: cfg.Secrets.CacheEnabled,
		CacheTTL:     time.Duration(cfg.Secrets.CacheTTL) * time.Second,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize secrets provider: %w", err)
	}

	if err := ApplySecrets(ctx, cfg, provider); err != nil {
		return nil, err
	}

	logger.Info("Secrets loaded from vault successfully",
		zap.String("keyVaultName", cfg.Secrets.KeyVaultName),
	)
	return cfg, nil
}

// SecretSource resolves a secret by vault name with an environment fallback
type SecretSource interface {
	GetSecretOrEnv(ctx context.Context, secretName, envVar string) (string, error)
}

// ApplySecrets overrides credential fields with values from the secret source.
// Missing secrets keep the configured values.
func ApplySecrets(ctx context.Context, cfg *Config, src SecretSource) error {
	if host, err := src.GetSecretOrEnv(ctx, "REMOTE-DB-HOST", "REMOTE_HOST"); err == nil && host != "" {
		cfg.Remote.Host = host
	}
	if user, err := src.GetSecretOrEnv(ctx, "REMOTE-DB-USER", "REMOTE_USER"); err == nil && user != "" {
		cfg.Remote.User = user
	}
	password, err := src.GetSecretOrEnv(ctx, "REMOTE-DB-PASSWORD", "REMOTE_PASSWORD")
	if err != nil && cfg.Remote.Enabled && cfg.Remote.Password == "" {
		return fmt.Errorf("failed to resolve remote database password: %w", err)
	}
	if password != "" {
		cfg.Remote.Password = password
	}
	if connStr, err := src.GetSecretOrEnv(ctx, "storage-connection-string", "STORAGE_CLOUDCONNECTIONSTRING"); err == nil && connStr != "" {
		cfg.Storage.CloudConnectionString = connStr
	}
	if redisPassword, err := src.GetSecretOrEnv(ctx, "REDIS-PASSWORD", "REDIS_PASSWORD"); err == nil && redisPassword != "" {
		cfg.Redis.Password = redisPassword
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "RBBB Engagement API")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.port", 8080)

	// Remote mirror (managed postgres); disabled means cache-only
	v.SetDefault("remote.enabled", false)
	v.SetDefault("remote.host", "localhost")
	v.SetDefault("remote.port", 5432)
	v.SetDefault("remote.name", "rbbb")
	v.SetDefault("remote.user", "rbbb_user")
	v.SetDefault("remote.password", "")
	v.SetDefault("remote.sslMode", "disable")
	v.SetDefault("remote.maxOpenConns", 10)
	v.SetDefault("remote.maxIdleConns", 2)
	v.SetDefault("remote.connMaxLifetime", 300)
	v.SetDefault("remote.probeTimeout", 5)

	v.SetDefault("local.backend", "sqlite")
	v.SetDefault("local.sqlitePath", "./data/cache.db")
	v.SetDefault("local.namespace", "rbbb")
	v.SetDefault("local.maxDocumentBytes", 5*1024*1024)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)

	v.SetDefault("secrets.source", "auto")
	v.SetDefault("secrets.cacheEnabled", true)
	v.SetDefault("secrets.cacheTTL", 300)

	v.SetDefault("storage.mode", "local")
	v.SetDefault("storage.localBasePath", "./storage")
	v.SetDefault("storage.cloudContainer", "project-files")
	v.SetDefault("storage.maxUploadSizeMB", 50)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("server.readTimeout", 30)
	v.SetDefault("server.writeTimeout", 30)
	v.SetDefault("server.requestTimeout", 60)
	v.SetDefault("server.enableSwagger", true)

	v.SetDefault("cors.allowedOrigins", []string{})
	v.SetDefault("cors.allowedMethods", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowedHeaders", []string{"Accept", "Content-Type", "X-Request-ID", "X-User-Id", "X-User-Name", "X-User-Role"})
	v.SetDefault("cors.exposedHeaders", []string{"Location", "X-Request-ID"})
	v.SetDefault("cors.allowCredentials", true)
	v.SetDefault("cors.maxAge", 300)

	v.SetDefault("security.enableHSTS", false)
	v.SetDefault("security.hstsMaxAge", 31536000)
	v.SetDefault("security.contentSecurityPolicy", "default-src 'self'")
	v.SetDefault("security.frameOptions", "DENY")
	v.SetDefault("security.contentTypeNosniff", true)
	v.SetDefault("security.referrerPolicy", "strict-origin-when-cross-origin")

	v.SetDefault("rateLimit.enabled", true)
	v.SetDefault("rateLimit.requestsPerMinute", 60)
	v.SetDefault("rateLimit.requestsPerMinuteUser", 240)
	v.SetDefault("rateLimit.whitelistPaths", []string{"/health", "/health/ready", "/metrics"})

	v.SetDefault("jobs.notificationPollSeconds", 30)
	v.SetDefault("jobs.syncSchedule", "0 */15 * * * *")
}
