package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/evermind-migrate/internal/paths"
	"github.com/mesh-intelligence/evermind-migrate/pkg/types"
)

// configFile holds the structure written to config.yaml. The connection
// string is deliberately absent; it belongs in the environment or .env.
type configFile struct {
	UserID     string `yaml:"user_id"`
	SectionID  string `yaml:"section_id"`
	Database   string `yaml:"database"`
	Collection string `yaml:"collection"`
	Timeout    string `yaml:"timeout"`
}

const configHeader = `# evermind-migrate configuration
# user_id and section_id are the 24-character ObjectIDs of the owning user
# and section (see the users and sections collections).
# Set the connection string with EVERMIND_MONGODB_URI or MONGODB_URI in .env.
`

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create config.yaml and the run ledger",
		Long:  "Create the configuration directory with a default config.yaml, then create the run ledger in the data directory.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, err := paths.ResolveConfigDir(a.flags.configDir)
			if err != nil {
				return fmt.Errorf("resolve config dir: %w", err)
			}
			if err := os.MkdirAll(configDir, 0o755); err != nil {
				return fmt.Errorf("create config directory: %w", err)
			}

			configPath := filepath.Join(configDir, configFileExt)
			created, err := writeConfigIfMissing(configPath, a.cfg)
			if err != nil {
				return fmt.Errorf("write config: %w", err)
			}

			dataDir, err := a.dataDir()
			if err != nil {
				return err
			}
			l, err := a.openLedger()
			if err != nil {
				return err
			}
			if err := l.Close(); err != nil {
				return fmt.Errorf("close ledger: %w", err)
			}

			out := cmd.OutOrStdout()
			if created {
				fmt.Fprintln(out, "Created", configPath)
			} else {
				fmt.Fprintln(out, "Config already exists:", configPath)
			}
			fmt.Fprintln(out, "  ledger:", dataDir)
			return nil
		},
	}
}

// writeConfigIfMissing creates config.yaml from cfg if the file does not
// exist. It reports whether the file was written.
func writeConfigIfMissing(path string, cfg types.Config) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = types.DefaultTimeout
	}
	data, err := yaml.Marshal(&configFile{
		UserID:     cfg.UserID,
		SectionID:  cfg.SectionID,
		Database:   cfg.Database,
		Collection: cfg.Collection,
		Timeout:    timeout.String(),
	})
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, append([]byte(configHeader), data...), 0o644); err != nil {
		return false, err
	}
	return true, nil
}
