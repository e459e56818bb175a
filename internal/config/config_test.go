package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeybbq/biosconfig/pkg/bcerrors"
)

func TestDefaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, Config{
		Backend:  "hprcu",
		HPRCU:    "hprcu",
		Advanced: true,
		Conrep:   "conrep",
		HWDef:    "/opt/hp/hp-scripting-tools/etc/conrep.xml",
		Facts:    true,
		Timeout:  5 * time.Minute,
		LogLevel: "info",
	}, cfg)
}

func TestOverrides(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"BIOSCTL_BACKEND":        "Conrep",
		"BIOSCTL_CONREP":         "/usr/sbin/conrep",
		"BIOSCTL_HWDEF":          "/etc/hwdef.xml",
		"BIOSCTL_HPRCU_ADVANCED": "false",
		"BIOSCTL_FACTS":          "false",
		"BIOSCTL_CHECK":          "true",
		"BIOSCTL_TIMEOUT":        "30s",
		"BIOSCTL_LOG_LEVEL":      "debug",
		"HPRCU":                  "/ignored/without/prefix",
	})
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "conrep", cfg.Backend)
	assert.Equal(t, "/usr/sbin/conrep", cfg.Conrep)
	assert.Equal(t, "/etc/hwdef.xml", cfg.HWDef)
	assert.Equal(t, "hprcu", cfg.HPRCU)
	assert.False(t, cfg.Advanced)
	assert.False(t, cfg.Facts)
	assert.True(t, cfg.Check)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadRejectsUnparsableValues(t *testing.T) {
	tests := map[string]map[string]string{
		"bool":     {"BIOSCTL_FACTS": "sometimes"},
		"duration": {"BIOSCTL_TIMEOUT": "soon"},
	}
	for name, environ := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadFrom(environ)
			require.Error(t, err)
			assert.True(t, bcerrors.Is(err, bcerrors.KindUsage))
		})
	}
}

func TestValidate(t *testing.T) {
	tests := map[string]map[string]string{
		"backend":  {"BIOSCTL_BACKEND": "ilorest"},
		"negative": {"BIOSCTL_TIMEOUT": "-1s"},
	}
	for name, environ := range tests {
		t.Run(name, func(t *testing.T) {
			cfg, err := LoadFrom(environ)
			require.NoError(t, err)

			err = cfg.Validate()
			require.Error(t, err)
			assert.True(t, bcerrors.Is(err, bcerrors.KindUsage))
		})
	}
}

func TestValidateAfterOverride(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{"BIOSCTL_BACKEND": "ilorest"})
	require.NoError(t, err)
	assert.Equal(t, "ilorest", cfg.Backend)

	cfg.Backend = " CONREP "
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "conrep", cfg.Backend)
}

func TestLoadUsesProcessEnvironment(t *testing.T) {
	t.Setenv("BIOSCTL_HPRCU", "/opt/hp/hprcu")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/opt/hp/hprcu", cfg.HPRCU)
}
