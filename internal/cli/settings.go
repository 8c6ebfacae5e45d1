package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vk/wavegrid/internal/app"
)

const envPrefix = "WAVEGRID"

// newSettings returns a viper instance bound to cmd's flags, the WAVEGRID_*
// environment and the --config file. Precedence is flag, env, file; values
// left unset here fall back to the pipeline block, then to defaults.
func newSettings(cmd *cobra.Command) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}
	return v, nil
}

// appConfig builds and validates the application config for paths.
func appConfig(cmd *cobra.Command, paths []string) (*app.Config, error) {
	v, err := newSettings(cmd)
	if err != nil {
		return nil, err
	}

	return app.NewConfig(app.Config{
		PipelinePaths:   paths,
		Workers:         v.GetInt("workers"),
		TaskTimeout:     v.GetDuration("task-timeout"),
		LogFormat:       v.GetString("log-format"),
		LogLevel:        v.GetString("log-level"),
		HealthcheckPort: v.GetInt("healthcheck-port"),
		EventsURL:       v.GetString("events-url"),
		Trace:           v.GetBool("trace"),
	})
}
