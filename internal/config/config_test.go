package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeFile(t, `
[server]
http_port = 9090

[storage]
driver = "postgres"

[database]
host = "db"
user = "smc"
password = "p@ss"
dbname = "events"

[auth]
jwt_secret = "secret"

[scheduling]
timezone = "Europe/Moscow"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, 10, cfg.Server.ReadTimeout)
	assert.Equal(t, StoragePostgres, cfg.Storage.Driver)
	assert.Equal(t, "postgres://smc:p%40ss@db:5432/events?sslmode=disable", cfg.Database.DSN())

	loc, err := cfg.Scheduling.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Moscow", loc.String())
}

func TestLoad_EnvironmentWins(t *testing.T) {
	path := writeFile(t, `
[auth]
jwt_secret = "from-file"
`)
	t.Setenv("SMC_AUTH_JWT_SECRET", "from-env")
	t.Setenv("SMC_SERVER_HTTP_PORT", "7000")
	t.Setenv("SMC_CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Auth.JWTSecret)
	assert.Equal(t, 7000, cfg.Server.HTTPPort)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("SMC_AUTH_JWT_SECRET", "secret")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, StorageMemory, cfg.Storage.Driver)
}

func TestLoad_MalformedFile(t *testing.T) {
	_, err := Load(writeFile(t, `[server`))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Auth.JWTSecret = "secret"
	require.NoError(t, cfg.Validate())

	cfg.Storage.Driver = "sqlite"
	cfg.Scheduling.Timezone = "Mars/Olympus"
	cfg.RabbitMQ.Enabled = true
	cfg.RabbitMQ.URL = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage.driver")
	assert.Contains(t, err.Error(), "scheduling.timezone")
	assert.Contains(t, err.Error(), "rabbitmq.url")
}
