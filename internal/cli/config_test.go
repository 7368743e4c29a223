package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/evermind-migrate/pkg/types"
)

// clearEnv blanks every variable loadConfig reads and restores them after
// the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"EVERMIND_USER_ID", "EVERMIND_SECTION_ID", "EVERMIND_MONGODB_URI",
		"EVERMIND_DATABASE", "EVERMIND_COLLECTION", "EVERMIND_DATA_DIR",
		"EVERMIND_TIMEOUT", "MONGODB_URI", "MONGODB_URI_PROD",
	} {
		t.Setenv(name, "")
		// godotenv treats an empty variable as set; unset it so .env can fill it.
		os.Unsetenv(name)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	cfg, err := loadConfig(filepath.Join(dir, "config"), filepath.Join(dir, "data"))
	require.NoError(t, err)

	assert.Equal(t, types.DefaultDatabase, cfg.Database)
	assert.Equal(t, types.DefaultCollection, cfg.Collection)
	assert.Equal(t, types.DefaultTimeout, cfg.Timeout)
	assert.Equal(t, filepath.Join(dir, "data"), cfg.DataDir)
	assert.Empty(t, cfg.UserID)
	assert.Empty(t, cfg.MongoURI)
}

func TestLoadConfigFileAndEnvPrecedence(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	yaml := `user_id: 692edd208a4f05bc8c4544b5
section_id: 695aa324dc873b2b7a911e07
database: staging
collection: cards
timeout: 5s
data_dir: ` + filepath.Join(dir, "from-config") + `
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileExt), []byte(yaml), 0o644))
	t.Setenv("EVERMIND_COLLECTION", "questions_v2")

	cfg, err := loadConfig(dir, "")
	require.NoError(t, err)

	assert.Equal(t, "692edd208a4f05bc8c4544b5", cfg.UserID)
	assert.Equal(t, "695aa324dc873b2b7a911e07", cfg.SectionID)
	assert.Equal(t, "staging", cfg.Database)
	assert.Equal(t, "questions_v2", cfg.Collection, "env beats config.yaml")
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, filepath.Join(dir, "from-config"), cfg.DataDir)
}

func TestLoadConfigDataDirFlagWins(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileExt), []byte("data_dir: /from/config\n"), 0o644))

	cfg, err := loadConfig(dir, filepath.Join(dir, "flag"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "flag"), cfg.DataDir)
}

func TestLoadConfigDotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	dotenv := "MONGODB_URI_PROD=mongodb://prod.example:27017\nMONGODB_URI=mongodb://dev.example:27017\nEVERMIND_USER_ID=692edd208a4f05bc8c4544b5\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, dotEnvFile), []byte(dotenv), 0o600))

	cfg, err := loadConfig(dir, filepath.Join(dir, "data"))
	require.NoError(t, err)

	assert.Equal(t, "mongodb://prod.example:27017", cfg.MongoURI, "MONGODB_URI_PROD is preferred")
	assert.Equal(t, "692edd208a4f05bc8c4544b5", cfg.UserID)
}

func TestLoadConfigExplicitURIBeatsFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("MONGODB_URI", "mongodb://fallback:27017")
	t.Setenv("EVERMIND_MONGODB_URI", "mongodb://explicit:27017")
	dir := t.TempDir()

	cfg, err := loadConfig(dir, filepath.Join(dir, "data"))
	require.NoError(t, err)
	assert.Equal(t, "mongodb://explicit:27017", cfg.MongoURI)
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileExt), []byte("user_id: [unterminated\n"), 0o644))

	_, err := loadConfig(dir, filepath.Join(dir, "data"))
	assert.Error(t, err)
}

func TestInitWritesConfigOnce(t *testing.T) {
	env := newTestEnv(t)

	stdout, err := env.run("init")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Created")

	path := filepath.Join(env.configDir, configFileExt)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "user_id: "+testUserID)
	assert.Contains(t, string(data), "database: evermind")
	assert.Contains(t, string(data), "timeout: 30s")
	assert.NotContains(t, string(data), "mongodb_uri")

	_, err = os.Stat(filepath.Join(env.dataDir, "runs.db"))
	assert.NoError(t, err, "init creates the ledger")

	stdout, err = env.run("init")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Config already exists")

	cfg, err := loadConfig(env.configDir, env.dataDir)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
}

func TestLoadConfigLeavesDataDirUnresolved(t *testing.T) {
	clearEnv(t)
	t.Setenv("HOME", "")
	t.Setenv("XDG_DATA_HOME", "")

	cfg, err := loadConfig(t.TempDir(), "")
	require.NoError(t, err)
	assert.Empty(t, cfg.DataDir)
}
