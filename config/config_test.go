package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadFromEnvDefaults(t *testing.T) {
	conf, err := ReadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "java", conf.Engine.JavaPath)
	assert.Equal(t, "4g", conf.Engine.MaxMemory)
	assert.True(t, conf.Engine.SuppressEngineOutput)
	assert.Zero(t, conf.Engine.QueryTimeout)
	assert.Equal(t, "localhost:9000", conf.ClickHouse.Address)
}

func TestReadFromEnvOverrides(t *testing.T) {
	t.Setenv("GCAMQUERY_JAVA_PATH", "/opt/java/bin/java")
	t.Setenv("GCAMQUERY_MAX_MEMORY", "8g")
	t.Setenv("GCAMQUERY_QUERY_TIMEOUT", "2m")
	t.Setenv("GCAMQUERY_SUPPRESS_ENGINE_OUTPUT", "false")

	conf, err := ReadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "/opt/java/bin/java", conf.Engine.JavaPath)
	assert.Equal(t, "8g", conf.Engine.MaxMemory)
	assert.Equal(t, 2*time.Minute, conf.Engine.QueryTimeout)
	assert.False(t, conf.Engine.SuppressEngineOutput)
}

func TestResolveClassPath(t *testing.T) {
	t.Run("explicit classpath wins", func(t *testing.T) {
		engine := Engine{ClassPath: "custom.jar", ModelInterfaceDir: "/opt/mi"}

		classPath, err := engine.ResolveClassPath()
		require.NoError(t, err)
		assert.Equal(t, "custom.jar", classPath)
	})

	t.Run("derived from ModelInterface directory", func(t *testing.T) {
		engine := Engine{ModelInterfaceDir: "/opt/mi"}

		classPath, err := engine.ResolveClassPath()
		require.NoError(t, err)

		entries := strings.Split(classPath, string(os.PathListSeparator))
		require.Len(t, entries, 2)
		assert.Equal(t, filepath.Join("/opt/mi", "jars", "*"), entries[0])
		assert.Equal(t, filepath.Join("/opt/mi", "ModelInterface.jar"), entries[1])
	})

	t.Run("errors when nothing is configured", func(t *testing.T) {
		_, err := Engine{}.ResolveClassPath()
		require.Error(t, err)
	})
}
