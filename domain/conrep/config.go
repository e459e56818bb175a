package conrep

import (
	"fmt"
	"strings"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/honeybbq/biosconfig/domain/utils"
	"github.com/honeybbq/biosconfig/pkg/bcerrors"
)

// Config is the desired conrep state keyed by section name.
type Config struct {
	Settings map[string]string
}

// FromProto builds the model from a settings Struct.
func FromProto(msg *structpb.Struct) (*Config, error) {
	settings, err := utils.SettingsFromStruct(msg)
	if err != nil {
		return nil, err
	}
	return &Config{Settings: settings}, nil
}

// Check fails on the first setting (in name order) that the current dump does not
// contain.
func (c *Config) Check(current map[string]string) error {
	for _, k := range utils.SortedKeys(c.Settings) {
		if _, ok := current[k]; !ok {
			return bcerrors.Newf(bcerrors.KindUnknownSetting,
				"setting %q (value: %s) isn't known by conrep - perhaps you need a special hardware definition file?",
				k, c.Settings[k])
		}
	}
	return nil
}

// Changed returns the settings whose value differs from current.
func (c *Config) Changed(current map[string]string) map[string]string {
	out := make(map[string]string)
	for k, v := range c.Settings {
		if current[k] != v {
			out[k] = v
		}
	}
	return out
}

// DiffLines renders "name => value" lines for every changed setting, sorted by
// name, once with the current values and once with the new ones.
func DiffLines(current, changed map[string]string) (before, after string) {
	var b, a strings.Builder
	for _, k := range utils.SortedKeys(changed) {
		fmt.Fprintf(&b, "%s => %s\n", k, current[k])
		fmt.Fprintf(&a, "%s => %s\n", k, changed[k])
	}
	return b.String(), a.String()
}

// Merge overlays changed on current.
func Merge(current, changed map[string]string) map[string]string {
	out := make(map[string]string, len(current)+len(changed))
	for k, v := range current {
		out[k] = v
	}
	for k, v := range changed {
		out[k] = v
	}
	return out
}
