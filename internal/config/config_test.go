package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
api:
  environment: "production"
  port: "8080"
  session_secret: "from-file"
  allowed_cors_domains:
    - "http://localhost:3000"
gin:
  mode: "release"
postgres:
  host: "db"
  port: "5432"
  user: "events"
  password: "secret"
  db: "events"
  sslmode: "disable"
redis:
  addr: ""
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	conf, err := Load(writeConfig(t, testConfig))
	require.NoError(t, err)

	assert.Equal(t, "8080", conf.API.Port)
	assert.Equal(t, "from-file", conf.API.SessionSecret)
	assert.Equal(t, []string{"http://localhost:3000"}, conf.API.AllowedCORSDomains)
	assert.Equal(t, 5.0, conf.API.RateLimitRPS)
	assert.Equal(t, 10, conf.API.RateLimitBurst)
	assert.Equal(t, "release", conf.Gin.Mode)
	assert.Equal(t, "host=db port=5432 user=events password=secret dbname=events sslmode=disable", conf.Postgres.DSN())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("SESSION_SECRET", "from-env")
	t.Setenv("DATABASE_URL", "postgres://u:p@host:5432/db")
	t.Setenv("GIN_MODE", "test")

	conf, err := Load(writeConfig(t, testConfig))
	require.NoError(t, err)

	assert.Equal(t, "9000", conf.API.Port)
	assert.Equal(t, "from-env", conf.API.SessionSecret)
	assert.Equal(t, "postgres://u:p@host:5432/db", conf.Postgres.DSN())
	assert.Equal(t, "test", conf.Gin.Mode)
}

func TestLoad_SessionSecretRequiredOutsideDevelopment(t *testing.T) {
	_, err := Load(writeConfig(t, `
api:
  environment: "production"
`))
	assert.ErrorIs(t, err, ErrMissingSessionSecret)

	conf, err := Load(writeConfig(t, `
api:
  environment: "development"
`))
	require.NoError(t, err)
	assert.NotEmpty(t, conf.API.SessionSecret)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}
