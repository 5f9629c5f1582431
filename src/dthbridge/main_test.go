package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/fx"
	"go.uber.org/goleak"
)

func TestDependenciesAreSatisfied(t *testing.T) {
	assert.NoError(t, fx.ValidateApp(opts("")))
	assert.NoError(t, fx.ValidateApp(opts("config")))
}

func TestFlags(t *testing.T) {
	flag := rootCmd.Flags().Lookup("config-dir")
	if assert.NotNil(t, flag) {
		assert.Empty(t, flag.DefValue)
	}
	assert.Equal(t, _version, rootCmd.Version)
}

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
