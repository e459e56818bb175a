package conrep

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/honeybbq/biosconfig/pkg/bcerrors"
)

var current = map[string]string{
	"Intel_Hyperthreading": "Enabled",
	"PowerMonitoring":      "Enabled",
	"ServerName":           "node01",
}

func TestCheck(t *testing.T) {
	cfg := &Config{Settings: map[string]string{"PowerMonitoring": "Disabled"}}
	require.NoError(t, cfg.Check(current))

	cfg = &Config{Settings: map[string]string{"Intel_Turbo_Boost_Optimization_Gen8": "Disabled", "PowerMonitoring": "Disabled"}}
	err := cfg.Check(current)
	require.Error(t, err)
	assert.True(t, bcerrors.Is(err, bcerrors.KindUnknownSetting))
	assert.Contains(t, err.Error(), `"Intel_Turbo_Boost_Optimization_Gen8"`)
	assert.Contains(t, err.Error(), "hardware definition file")
}

func TestChangedAndDiff(t *testing.T) {
	cfg := &Config{Settings: map[string]string{
		"PowerMonitoring":      "Disabled",
		"Intel_Hyperthreading": "Disabled",
		"ServerName":           "node01",
	}}

	changed := cfg.Changed(current)
	assert.Equal(t, map[string]string{
		"PowerMonitoring":      "Disabled",
		"Intel_Hyperthreading": "Disabled",
	}, changed)

	before, after := DiffLines(current, changed)
	assert.Equal(t, "Intel_Hyperthreading => Enabled\nPowerMonitoring => Enabled\n", before)
	assert.Equal(t, "Intel_Hyperthreading => Disabled\nPowerMonitoring => Disabled\n", after)

	merged := Merge(current, changed)
	assert.Equal(t, "Disabled", merged["PowerMonitoring"])
	assert.Equal(t, "node01", merged["ServerName"])
	assert.Equal(t, "Enabled", current["PowerMonitoring"])
}

func TestNothingChanged(t *testing.T) {
	cfg := &Config{Settings: map[string]string{"ServerName": "node01"}}
	changed := cfg.Changed(current)
	assert.Empty(t, changed)

	before, after := DiffLines(current, changed)
	assert.Empty(t, before)
	assert.Empty(t, after)
}

func TestFromProto(t *testing.T) {
	msg, err := structpb.NewStruct(map[string]any{"PowerMonitoring": "Disabled"})
	require.NoError(t, err)

	cfg, err := FromProto(msg)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"PowerMonitoring": "Disabled"}, cfg.Settings)
}
