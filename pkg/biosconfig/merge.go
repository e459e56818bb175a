package biosconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"

	"github.com/honeybbq/biosconfig/pkg/bcerrors"
)

// MergeSettings merges layered name -> value settings with later layers overriding
// earlier ones (base -> site -> host).
//
// Example:
//
//	base:   {"Intel(R) Hyperthreading Options": "Enabled", "Server Name": "node"}
//	host:   {"Server Name": "node01"}
//	result: {"Intel(R) Hyperthreading Options": "Enabled", "Server Name": "node01"}
func MergeSettings(layers ...map[string]string) (map[string]string, error) {
	result := make(map[string]string)
	for i, layer := range layers {
		if len(layer) == 0 {
			continue
		}
		if err := mergo.Merge(&result, layer, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("merge settings layer %d: %w", i, err)
		}
	}
	return result, nil
}

// LoadSettingsFile reads a YAML (or JSON) mapping of setting name -> value.
// Scalar values of any type are converted to their text form; nested values are
// rejected.
func LoadSettingsFile(path string) (map[string]string, error) {
	path = filepath.Clean(path)
	// path is operator supplied on the command line
	data, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("read settings file: %w", err)
	}
	return ParseSettings(data)
}

// ParseSettings decodes a YAML (or JSON) mapping of setting name -> value.
func ParseSettings(data []byte) (map[string]string, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, bcerrors.New(bcerrors.KindParse, fmt.Errorf("decode settings: %w", err))
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		s, err := scalarString(v)
		if err != nil {
			return nil, bcerrors.New(bcerrors.KindValidation, fmt.Errorf("setting %q: %w", k, err))
		}
		out[k] = s
	}
	return out, nil
}

func scalarString(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		return val, nil
	case bool:
		return strconv.FormatBool(val), nil
	case int:
		return strconv.Itoa(val), nil
	case int64:
		return strconv.FormatInt(val, 10), nil
	case uint64:
		return strconv.FormatUint(val, 10), nil
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("unsupported value type %T", v)
	}
}
