package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Chain    ChainConfig
	Signing  SigningConfig
}

type ServerConfig struct {
	Host         string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port         int           `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeout  time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"10s"`
	WriteTimeout time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"30s"`
	Environment  string        `envconfig:"ENVIRONMENT" default:"development"`
	RateLimitRPS int           `envconfig:"RATE_LIMIT_RPS" default:"20"`
	RateBurst    int           `envconfig:"RATE_LIMIT_BURST" default:"40"`
	CORSOrigins  []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Host            string        `envconfig:"DB_HOST" default:"localhost"`
	Port            int           `envconfig:"DB_PORT" default:"3306"`
	User            string        `envconfig:"DB_USER" default:"app"`
	Password        string        `envconfig:"DB_PASSWORD" default:"apppassword"`
	Name            string        `envconfig:"DB_NAME" default:"permission_mw"`
	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"5m"`
}

type RedisConfig struct {
	Host        string        `envconfig:"REDIS_HOST" default:"localhost"`
	Port        int           `envconfig:"REDIS_PORT" default:"6379"`
	Password    string        `envconfig:"REDIS_PASSWORD" default:""`
	DB          int           `envconfig:"REDIS_DB" default:"0"`
	DialTimeout time.Duration `envconfig:"REDIS_DIAL_TIMEOUT" default:"5s"`
}

type ChainConfig struct {
	RPCURL              string        `envconfig:"CHAIN_RPC_URL" default:""`
	PermissionMwAddress string        `envconfig:"PERMISSION_MW_ADDRESS" default:""`
	RegistrarAddress    string        `envconfig:"REGISTRAR_ADDRESS" default:""`
	SubmitterPrivateKey string        `envconfig:"SUBMITTER_PRIVATE_KEY" default:""`
	CallTimeout         time.Duration `envconfig:"CHAIN_CALL_TIMEOUT" default:"10s"`
	TxTimeout           time.Duration `envconfig:"CHAIN_TX_TIMEOUT" default:"2m"`
}

// SigningConfig describes the EIP-712 domain, schema and signing key
type SigningConfig struct {
	DomainName        string        `envconfig:"EIP712_DOMAIN_NAME" default:"PermissionMw"`
	DomainVersion     string        `envconfig:"EIP712_DOMAIN_VERSION" default:"1"`
	ChainID           uint64        `envconfig:"EIP712_CHAIN_ID" default:"80001"`
	VerifyingContract string        `envconfig:"EIP712_VERIFYING_CONTRACT" default:""`
	SchemaVariant     string        `envconfig:"SCHEMA_VARIANT" default:"base"`
	MocaNode          string        `envconfig:"MOCA_NODE" default:""`
	MocaNodeName      string        `envconfig:"MOCA_NODE_NAME" default:"moca"`
	VConvention       string        `envconfig:"V_CONVENTION" default:"offset27"`
	SignerPrivateKey  string        `envconfig:"SIGNER_PRIVATE_KEY" default:""`
	DeadlineTTL       time.Duration `envconfig:"DEFAULT_DEADLINE_TTL" default:"15m"`
	NonceTTL          time.Duration `envconfig:"NONCE_RESERVATION_TTL" default:"15m"`
	NonceStore        string        `envconfig:"NONCE_STORE" default:"redis"`
	NonceStorePath    string        `envconfig:"NONCE_STORE_PATH" default:""`
	RequireLowS       bool          `envconfig:"REQUIRE_LOW_S" default:"false"`
}

// Validate checks values envconfig cannot
func (c *Config) Validate() error {
	if c.Signing.SignerPrivateKey == "" {
		return fmt.Errorf("SIGNER_PRIVATE_KEY is required")
	}
	if c.Signing.VerifyingContract == "" {
		return fmt.Errorf("EIP712_VERIFYING_CONTRACT is required")
	}
	if c.Signing.ChainID == 0 {
		return fmt.Errorf("EIP712_CHAIN_ID must be positive")
	}
	switch c.Signing.SchemaVariant {
	case "base", "hierarchical":
	default:
		return fmt.Errorf("unknown SCHEMA_VARIANT %q", c.Signing.SchemaVariant)
	}
	switch c.Signing.NonceStore {
	case "redis", "badger", "memory":
	default:
		return fmt.Errorf("unknown NONCE_STORE %q", c.Signing.NonceStore)
	}
	if c.Signing.DeadlineTTL < 0 || c.Signing.NonceTTL < 0 {
		return fmt.Errorf("TTL values must not be negative")
	}
	return nil
}

// PermissionMw returns the nonce oracle contract, falling back to the verifying contract
func (c ChainConfig) PermissionMw(signing SigningConfig) string {
	if c.PermissionMwAddress != "" {
		return c.PermissionMwAddress
	}
	return signing.VerifyingContract
}

func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}
