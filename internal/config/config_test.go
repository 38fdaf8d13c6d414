package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("SIGNER_PRIVATE_KEY", "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80")
	t.Setenv("EIP712_VERIFYING_CONTRACT", "0x78a4c35cccc4eca7d987fdc38811c73ed36c2321")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "PermissionMw", cfg.Signing.DomainName)
	assert.Equal(t, "1", cfg.Signing.DomainVersion)
	assert.Equal(t, uint64(80001), cfg.Signing.ChainID)
	assert.Equal(t, "base", cfg.Signing.SchemaVariant)
	assert.Equal(t, "offset27", cfg.Signing.VConvention)
	assert.Equal(t, "moca", cfg.Signing.MocaNodeName)
	assert.Equal(t, 15*time.Minute, cfg.Signing.DeadlineTTL)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 10*time.Second, cfg.Chain.CallTimeout)
	assert.Equal(t, 2*time.Minute, cfg.Chain.TxTimeout)
	assert.Empty(t, cfg.Chain.RPCURL)
	assert.Equal(t, 5*time.Second, cfg.Redis.DialTimeout)
	assert.Equal(t, "redis", cfg.Signing.NonceStore)
	assert.False(t, cfg.Signing.RequireLowS)
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("SCHEMA_VARIANT", "hierarchical")
	t.Setenv("EIP712_CHAIN_ID", "1")
	t.Setenv("V_CONVENTION", "raw")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "hierarchical", cfg.Signing.SchemaVariant)
	assert.Equal(t, uint64(1), cfg.Signing.ChainID)
	assert.Equal(t, "raw", cfg.Signing.VConvention)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
}

func TestLoad_MissingKey(t *testing.T) {
	t.Setenv("SIGNER_PRIVATE_KEY", "")
	t.Setenv("EIP712_VERIFYING_CONTRACT", "0x78a4c35cccc4eca7d987fdc38811c73ed36c2321")

	_, err := Load()
	assert.ErrorContains(t, err, "SIGNER_PRIVATE_KEY")
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{Signing: SigningConfig{
			SignerPrivateKey:  "0x01",
			VerifyingContract: "0x78a4c35cccc4eca7d987fdc38811c73ed36c2321",
			ChainID:           80001,
			SchemaVariant:     "base",
			NonceStore:        "redis",
		}}
	}

	assert.NoError(t, base().Validate())

	cfg := base()
	cfg.Signing.SchemaVariant = "subdomain"
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Signing.ChainID = 0
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Signing.VerifyingContract = ""
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Signing.NonceStore = "etcd"
	assert.ErrorContains(t, cfg.Validate(), "NONCE_STORE")
}

func TestPermissionMwFallback(t *testing.T) {
	signing := SigningConfig{VerifyingContract: "0xaa"}

	assert.Equal(t, "0xaa", ChainConfig{}.PermissionMw(signing))
	assert.Equal(t, "0xbb", ChainConfig{PermissionMwAddress: "0xbb"}.PermissionMw(signing))
}
