package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/arthur-debert/gostage/pkg/logging"
)

var log = logging.GetLogger("config")

// FileName is the optional per-package config file under debian/
const FileName = "gostage.toml"

// Load resolves the configuration for a build rooted at sourceDir.
// Layering is defaults < debian/gostage.toml < environment.
func Load(sourceDir string) (*Config, error) {
	k := koanf.New(".")

	// 1. Built-in defaults
	if err := k.Load(confmap.Provider(systemDefaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. debian/gostage.toml if present
	filePath := filepath.Join(sourceDir, "debian", FileName)
	fileVals, err := readConfigFile(filePath)
	if err != nil {
		return nil, err
	}
	if fileVals != nil {
		if err := k.Load(confmap.Provider(fileVals, "."), nil); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", filePath, err)
		}
	}

	// 3. Environment. Only the variables envKeyValue knows about
	// survive; everything else in the build environment is dropped.
	if err := k.Load(env.ProviderWithValue("", ".", envKeyValue), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Unmarshal
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				stringToFieldsHookFunc(),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	applyBuildOptions(&cfg, os.Getenv(EnvBuildOptions))

	log.Debug().
		Str("importPath", cfg.ImportPath).
		Str("builddir", cfg.BuildDir).
		Bool("installAll", cfg.InstallAll).
		Strs("excludes", cfg.Excludes).
		Int("parallel", cfg.Parallel).
		Msg("Configuration resolved")

	return &cfg, nil
}

// readConfigFile parses an optional TOML config file into a map.
// A missing file is not an error.
func readConfigFile(path string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var vals map[string]interface{}
	if err := toml.Unmarshal(data, &vals); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return vals, nil
}

// envKeyValue maps a recognized environment variable to its config key.
// Unknown variables are dropped, as are empty values, so a variable set
// to the empty string behaves like an unset one.
func envKeyValue(key, value string) (string, interface{}) {
	if value == "" {
		return "", nil
	}
	switch key {
	case EnvImportPath:
		return "import_path", value
	case EnvInstallExtra:
		return "install_extra", value
	case EnvInstallAll:
		return "install_all", value
	case EnvBuildPkg:
		return "buildpkg", value
	case EnvExcludes:
		return "excludes", value
	case EnvExcludesAll:
		return "excludes_all", value
	case EnvGoGenerate:
		return "go_generate", value
	case EnvBuildDir:
		return "builddir", value
	case EnvDestDir:
		return "destdir", value
	case EnvHostGnuType:
		return "host_gnu_type", value
	case EnvBuildGnuType:
		return "build_gnu_type", value
	case EnvHostArch:
		return "host_arch", value
	case EnvHostArchOS:
		return "host_arch_os", value
	case EnvHostArchCPU:
		return "host_arch_cpu", value
	}
	return "", nil
}

// stringToFieldsHookFunc splits whitespace separated env values into
// string slices, so DH_GOLANG_EXCLUDES="a b" decodes like ["a", "b"].
func stringToFieldsHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if f.Kind() != reflect.String || t.Kind() != reflect.Slice || t.Elem().Kind() != reflect.String {
			return data, nil
		}
		raw := data.(string)
		if raw == "" {
			return []string{}, nil
		}
		return strings.Fields(raw), nil
	}
}

// applyBuildOptions folds DEB_BUILD_OPTIONS flags into the config.
// The variable is a space separated list like "parallel=4 nocheck".
// Unknown flags are ignored, as are malformed parallel values.
func applyBuildOptions(cfg *Config, opts string) {
	for _, opt := range strings.Fields(opts) {
		switch {
		case strings.HasPrefix(opt, "parallel="):
			if n, err := strconv.Atoi(strings.TrimPrefix(opt, "parallel=")); err == nil && n > 0 {
				cfg.Parallel = n
			}
		case opt == "nocheck":
			cfg.NoCheck = true
		}
	}
}
