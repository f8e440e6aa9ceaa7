package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes environment overrides.
const EnvPrefix = "OTN_"

//go:embed embedded/defaults.toml
var defaultConfig []byte

type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}

// Load layers the defaults, the file at path (skipped when path is empty)
// and the environment, then applies overrides, a flat map of dotted keys
// such as command line flags.
func Load(path string, overrides map[string]interface{}) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, fmt.Errorf("config: defaults: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("config: load %s: %w", path, err)
		}
	}

	known := k.Copy()
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return envKey(known, s)
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("config: environment: %w", err)
	}

	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, fmt.Errorf("config: overrides: %w", err)
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				stringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	return &cfg, nil
}

// stringToSliceHookFunc splits sep-separated strings from the environment
// or the command line into a slice of any element type. Weak typing then
// converts each element, so "0,1" decodes into []int.
func stringToSliceHookFunc(sep string) mapstructure.DecodeHookFuncKind {
	return func(f, t reflect.Kind, data interface{}) (interface{}, error) {
		if f != reflect.String || t != reflect.Slice {
			return data, nil
		}
		raw, _ := data.(string)
		if strings.TrimSpace(raw) == "" {
			return []string{}, nil
		}
		parts := strings.Split(raw, sep)
		for i, p := range parts {
			parts[i] = strings.TrimSpace(p)
		}
		return parts, nil
	}
}

// envKey maps OTN_COLLAPSE_ENABLED to collapse.enabled. Keys such as
// inputs.pigtail_schema contain underscores themselves, so the longest
// known key is preferred over splitting at every underscore.
func envKey(k *koanf.Koanf, name string) string {
	parts := strings.Split(strings.ToLower(strings.TrimPrefix(name, EnvPrefix)), "_")
	return resolveKey(k, "", parts)
}

func resolveKey(k *koanf.Koanf, prefix string, parts []string) string {
	join := func(seg string) string {
		if prefix == "" {
			return seg
		}
		return prefix + "." + seg
	}
	for n := len(parts); n >= 1; n-- {
		key := join(strings.Join(parts[:n], "_"))
		if !k.Exists(key) {
			continue
		}
		if n == len(parts) {
			return key
		}
		return resolveKey(k, key, parts[n:])
	}
	return join(strings.Join(parts, "."))
}
