package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/evermind-migrate/internal/paths"
	"github.com/mesh-intelligence/evermind-migrate/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"
	envPrefix      = "EVERMIND"
	dotEnvFile     = ".env"
)

// Config keys. Each is also read from EVERMIND_<KEY>.
const (
	cfgKeyUserID     = "user_id"
	cfgKeySectionID  = "section_id"
	cfgKeyMongoURI   = "mongodb_uri"
	cfgKeyDatabase   = "database"
	cfgKeyCollection = "collection"
	cfgKeyDataDir    = "data_dir"
	cfgKeyTimeout    = "timeout"
)

// Connection string variables used by the study app's own backend .env.
// Checked, in order, when no EVERMIND_MONGODB_URI or config value is set.
var fallbackURIEnv = []string{"MONGODB_URI_PROD", "MONGODB_URI"}

// loadConfig resolves the run configuration. Precedence, highest first:
// EVERMIND_* environment variables, config.yaml in configDir, built-in
// defaults. .env files in the working directory and in configDir are
// loaded into the environment first without overriding variables that are
// already set. A missing config.yaml or .env is not an error. DataDir is
// empty unless set by flag, environment or config.yaml.
func loadConfig(configDir, dataDirFlag string) (types.Config, error) {
	if err := loadDotEnv(dotEnvFile, filepath.Join(configDir, dotEnvFile)); err != nil {
		return types.Config{}, err
	}

	v := viper.New()
	v.SetDefault(cfgKeyDatabase, types.DefaultDatabase)
	v.SetDefault(cfgKeyCollection, types.DefaultCollection)
	v.SetDefault(cfgKeyTimeout, types.DefaultTimeout)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(envPrefix)
	for _, key := range []string{cfgKeyUserID, cfgKeySectionID, cfgKeyMongoURI, cfgKeyDatabase, cfgKeyCollection, cfgKeyDataDir, cfgKeyTimeout} {
		if err := v.BindEnv(key); err != nil {
			return types.Config{}, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return types.Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("decode config: %w", err)
	}

	if cfg.MongoURI == "" {
		for _, name := range fallbackURIEnv {
			if uri := os.Getenv(name); uri != "" {
				cfg.MongoURI = uri
				break
			}
		}
	}

	// The platform default is left for dataDir so commands that never open
	// the ledger do not depend on $HOME.
	if dataDirFlag != "" || cfg.DataDir != "" {
		dataDir, err := paths.ResolveDataDir(dataDirFlag, cfg.DataDir)
		if err != nil {
			return types.Config{}, fmt.Errorf("resolve data dir: %w", err)
		}
		cfg.DataDir = dataDir
	}

	return cfg, nil
}

// loadDotEnv loads each existing file in order. godotenv never overrides a
// variable that is already set, so earlier files win.
func loadDotEnv(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("stat %s: %w", f, err)
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}
