package viperutil

import (
	"strings"

	"github.com/kinetta/takeoffctl/internal/meta"
	"github.com/kinetta/takeoffctl/internal/util"
	v "github.com/spf13/viper"
)

// InitializeDefaultViper initializes a viper instance with default values and
// a path to a file. If the file does not exist it is created with the
// defaults so first runs start from a working configuration.
func InitializeDefaultViper(defaultValues map[string]any, path string) (*v.Viper, error) {
	if err := util.InitDir(path, 0o755); err != nil {
		return nil, err
	}

	rv := NewViper(path)

	if len(rv.AllSettings()) == 0 {
		// the loaded viper is empty, assume it's uninitialized: seed the
		// defaults and write them back to the file
		if err := rv.MergeConfigMap(defaultValues); err != nil {
			return nil, err
		}
		if err := rv.WriteConfig(); err != nil {
			return nil, err
		}
	}

	return rv, nil
}

// NewViperE builds a viper for path and fails when the file cannot be read.
func NewViperE(path string) (*v.Viper, error) {
	rv := newViper(path)
	if err := rv.ReadInConfig(); err != nil {
		return nil, err
	}
	return rv, nil
}

// NewViper builds a viper for path, ignoring read errors.
func NewViper(path string) *v.Viper {
	rv := newViper(path)
	_ = rv.ReadInConfig()
	return rv
}

func newViper(path string) *v.Viper {
	rv := v.New()
	rv.SetConfigFile(path)
	ConfigureEnvVars(rv, strings.ToUpper(meta.CLIName))
	return rv
}

// ConfigureEnvVars enables environment overrides with the given prefix,
// mapping dots and dashes in config keys to underscores.
func ConfigureEnvVars(rv *v.Viper, prefix string) {
	rv.AutomaticEnv()
	rv.SetEnvPrefix(prefix)
	rv.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
}
