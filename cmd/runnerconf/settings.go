package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hairizuan-noorazman/runnerconf/logger"
	"github.com/hairizuan-noorazman/runnerconf/runner"
	"github.com/hairizuan-noorazman/runnerconf/storage"
	"github.com/spf13/viper"
)

// settings holds the CLI's own configuration: logging and artifact storage.
// They live in the same file as the runner configuration under `log` and `storage`.
var settings *viper.Viper

func initSettings() error {
	settings = viper.New()

	settings.SetDefault("log.level", "warn")
	settings.SetDefault("log.format", "text")

	settings.SetDefault("storage.type", "local")
	settings.SetDefault("storage.base_dir", "./artifacts")
	settings.SetDefault("storage.s3_bucket", "")
	settings.SetDefault("storage.s3_region", "us-east-1")
	settings.SetDefault("storage.s3_prefix", "")
	settings.SetDefault("storage.s3_endpoint", "")
	settings.SetDefault("storage.s3_presign_expiry", "15m")

	settings.SetEnvPrefix(runner.EnvPrefix)
	settings.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	settings.AutomaticEnv()

	if flagConfig != "" {
		settings.SetConfigFile(flagConfig)
	} else {
		settings.SetConfigName(runner.ConfigName)
		settings.SetConfigType("yaml")
		settings.AddConfigPath(".")
	}

	if err := settings.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// CLI flags take highest priority
	if flagLogLevel != "" {
		settings.Set("log.level", flagLogLevel)
	}

	return nil
}

func newLogger() logger.Logger {
	return logger.NewLogrusLogger(
		settings.GetString("log.level"),
		logger.WithFormat(logger.Format(settings.GetString("log.format"))),
	)
}

// configFileUsed returns the file the settings were read from, if any.
func configFileUsed() string {
	return settings.ConfigFileUsed()
}

func loadRunnerConfig(log logger.Logger) (runner.Config, error) {
	opts := []runner.LoadOption{
		runner.WithHeaded(flagHeaded),
		runner.WithLogger(log),
	}
	if flagConfig != "" {
		opts = append(opts, runner.WithConfigFile(flagConfig))
	} else {
		opts = append(opts, runner.WithSearchPaths("."))
	}
	return runner.Load(opts...)
}

func storageConfig() storage.Config {
	return storage.Config{
		Type:          storage.Type(settings.GetString("storage.type")),
		BaseDir:       settings.GetString("storage.base_dir"),
		Bucket:        settings.GetString("storage.s3_bucket"),
		Region:        settings.GetString("storage.s3_region"),
		Prefix:        settings.GetString("storage.s3_prefix"),
		Endpoint:      settings.GetString("storage.s3_endpoint"),
		PresignExpiry: settings.GetDuration("storage.s3_presign_expiry"),
	}
}
