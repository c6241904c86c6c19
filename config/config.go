package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
	"hermannm.dev/wrap"
)

type Config struct {
	Engine     Engine
	ClickHouse ClickHouse
}

// Engine configures how the GCAM ModelInterface query engine is invoked.
type Engine struct {
	// Path to the java executable used to run the ModelInterface.
	JavaPath string `env:"GCAMQUERY_JAVA_PATH" envDefault:"java"`

	// Directory containing ModelInterface.jar and its jars/ directory. Used to build the
	// default classpath when ClassPath is not set explicitly.
	ModelInterfaceDir string `env:"GCAMQUERY_MODEL_INTERFACE_DIR" envDefault:""`

	// Full java classpath for the ModelInterface. Overrides ModelInterfaceDir when set.
	ClassPath string `env:"GCAMQUERY_CLASSPATH" envDefault:""`

	// Java heap ceiling passed as -Xmx, e.g. "4g" or "512m".
	MaxMemory string `env:"GCAMQUERY_MAX_MEMORY" envDefault:"4g"`

	// Maximum duration of a single query. Zero means no timeout.
	QueryTimeout time.Duration `env:"GCAMQUERY_QUERY_TIMEOUT" envDefault:"0"`

	// Suppresses the console output the ModelInterface normally produces while running.
	SuppressEngineOutput bool `env:"GCAMQUERY_SUPPRESS_ENGINE_OUTPUT" envDefault:"true"`
}

type ClickHouse struct {
	Address      string `env:"CLICKHOUSE_ADDRESS" envDefault:"localhost:9000"`
	DatabaseName string `env:"CLICKHOUSE_DB_NAME" envDefault:"default"`
	Username     string `env:"CLICKHOUSE_USERNAME" envDefault:"default"`
	Password     string `env:"CLICKHOUSE_PASSWORD" envDefault:""`
	Debug        bool   `env:"CLICKHOUSE_DEBUG_ENABLED" envDefault:"false"`
}

func ReadFromEnv() (Config, error) {
	// Unlike a server deployment, a .env file is optional for CLI use.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, wrap.Error(err, "failed to load .env file")
	}

	var config Config
	if err := env.Parse(&config.Engine); err != nil {
		return Config{}, wrap.Error(err, "failed to parse engine config from env")
	}
	if err := env.Parse(&config.ClickHouse); err != nil {
		return Config{}, wrap.Error(err, "failed to parse ClickHouse config from env")
	}

	return config, nil
}

// ResolveClassPath returns the java classpath for the ModelInterface: the explicitly
// configured one if set, otherwise one derived from the ModelInterface directory as
// {dir}/jars/* plus {dir}/ModelInterface.jar.
func (engine Engine) ResolveClassPath() (string, error) {
	if engine.ClassPath != "" {
		return engine.ClassPath, nil
	}
	if engine.ModelInterfaceDir == "" {
		return "", errors.New(
			"neither GCAMQUERY_CLASSPATH nor GCAMQUERY_MODEL_INTERFACE_DIR is configured",
		)
	}

	dir, err := filepath.Abs(engine.ModelInterfaceDir)
	if err != nil {
		return "", wrap.Error(err, "failed to resolve ModelInterface directory")
	}

	return filepath.Join(dir, "jars", "*") +
		string(os.PathListSeparator) +
		filepath.Join(dir, "ModelInterface.jar"), nil
}
