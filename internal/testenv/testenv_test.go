package testenv

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDatabaseName(t *testing.T) {
	valid := regexp.MustCompile(`^test_[a-z0-9_]+_[0-9a-f]{8}$`)

	t.Run("Nested/Case-1", func(t *testing.T) {
		name := Database(t)
		assert.Regexp(t, valid, name)
		assert.Contains(t, name, "test_testdatabasename_nested_case_1_")
		assert.NotEqual(t, name, Database(t), "each call gets a fresh suffix")
	})
}

func TestGetEnvFallback(t *testing.T) {
	t.Setenv(EnvPostgresDSN, "")
	assert.Equal(t, DefaultPostgresDSN, PostgresDSN())

	t.Setenv(EnvPostgresDSN, "postgres://elsewhere")
	assert.Equal(t, "postgres://elsewhere", PostgresDSN())
}
