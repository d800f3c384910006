package pacycle

import (
	"fmt"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config holds the user-tunable settings, read once per invocation from an
// optional YAML file
type Config struct {
	StateDir      string
	VolumeStep    float32
	Notifications bool

	logger *zap.SugaredLogger
	viper  *viper.Viper
}

const (
	configName = "config"
	configType = "yaml"

	configKey_StateDir      = "state_dir"
	configKey_VolumeStep    = "volume_step"
	configKey_Notifications = "notifications"

	default_VolumeStep    = 0.05
	default_Notifications = false
)

// NewConfig sets up a viper instance for pacycle's optional config file
// under the user config directory
func NewConfig(logger *zap.SugaredLogger) *Config {
	return newConfigAt(logger, filepath.Join(xdg.ConfigHome, "pacycle"))
}

func newConfigAt(logger *zap.SugaredLogger, dir string) *Config {
	logger = logger.Named("config")

	v := viper.New()
	v.SetConfigName(configName)
	v.SetConfigType(configType)
	v.AddConfigPath(dir)

	v.SetDefault(configKey_StateDir, filepath.Join(xdg.StateHome, "pacycle"))
	v.SetDefault(configKey_VolumeStep, default_VolumeStep)
	v.SetDefault(configKey_Notifications, default_Notifications)

	return &Config{
		logger: logger,
		viper:  v,
	}
}

// Load reads the config file if one exists and populates the fields. A
// missing file is fine; a malformed one is not.
func (c *Config) Load() error {
	if err := c.viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			c.logger.Warnw("Viper failed to read config", "error", err)
			return fmt.Errorf("read config: %w", err)
		}

		c.logger.Debug("No config file found, using defaults")
	}

	c.StateDir = c.viper.GetString(configKey_StateDir)
	c.VolumeStep = float32(c.viper.GetFloat64(configKey_VolumeStep))
	c.Notifications = c.viper.GetBool(configKey_Notifications)

	if c.VolumeStep <= 0 || c.VolumeStep > 1 {
		c.logger.Warnw("Volume step out of range, using default", "value", c.VolumeStep)
		c.VolumeStep = default_VolumeStep
	}

	c.logger.Debugw("Loaded config",
		"stateDir", c.StateDir,
		"volumeStep", c.VolumeStep,
		"notifications", c.Notifications)

	return nil
}
