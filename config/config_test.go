package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/knadh/koanf/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
server:
  port: 9090
  mode: release
  read_timeout: 10
database:
  host: db.internal
  port: 5432
  username: fit
  database: challenges
  log_level: warn
jwt:
  secret: from-file
challenge:
  invite_code_attempts: 3
`

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o600))
	return path
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	path := writeConfig(t)
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("DATABASE_LOG_LEVEL", "silent")

	k = koanf.New(".")
	require.NoError(t, load(path))

	assert.Equal(t, 9090, Conf.Server.Port)
	assert.Equal(t, "release", Conf.Server.Mode)
	assert.Equal(t, 10*time.Second, Conf.Server.ReadTimeout)
	assert.Equal(t, "db.internal", Conf.Database.Host)
	assert.Equal(t, "silent", Conf.Database.LogLevel)
	assert.Equal(t, "from-env", Conf.JWT.Secret)
	assert.Equal(t, 3, Conf.Challenge.InviteCodeAttempts)
	assert.Equal(t, 60*time.Second, Conf.Challenge.RewardLockDuration())
	assert.Equal(t, "challenge-service", Conf.Log.Prefix)
}

func TestLoad_MissingFile(t *testing.T) {
	k = koanf.New(".")
	err := load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "database.host", envKey("DATABASE_HOST"))
	assert.Equal(t, "database.log_level", envKey("DATABASE_LOG_LEVEL"))
	assert.Equal(t, "challenge.invite_code_attempts", envKey("CHALLENGE_INVITE_CODE_ATTEMPTS"))
	assert.Equal(t, "path", envKey("PATH"))
}
