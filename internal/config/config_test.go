package config

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

func TestBindFlags_DefaultsApplyWithoutEnv(t *testing.T) {
	cfg := &Config{}
	cmd := &cobra.Command{Use: "test"}
	BindFlags(cmd, cfg)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "", cfg.SessionSecret)
	assert.Equal(t, 10, cfg.ShutdownDrainSecs)
}

func TestBindFlags_EnvVarOverridesDefault(t *testing.T) {
	t.Setenv("BEATTRACK_PORT", "9090")
	t.Setenv("BEATTRACK_SESSION_SECRET", "s3cr3t")

	cfg := &Config{}
	cmd := &cobra.Command{Use: "test"}
	BindFlags(cmd, cfg)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "s3cr3t", cfg.SessionSecret)
}

func TestBindFlags_ExplicitFlagWinsOverEnv(t *testing.T) {
	t.Setenv("BEATTRACK_PORT", "9090")

	cfg := &Config{}
	cmd := &cobra.Command{Use: "test"}
	BindFlags(cmd, cfg)
	flags := cmd.Flags()
	_ = flags.Set("port", "7070")

	assert.Equal(t, "7070", cfg.Port)
}
