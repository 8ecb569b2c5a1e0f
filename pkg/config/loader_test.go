package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearBuildEnv blanks every variable the loader recognizes so tests
// are immune to whatever the invoking environment carries.
func clearBuildEnv(t *testing.T) {
	t.Helper()
	vars := []string{
		EnvImportPath, EnvInstallExtra, EnvInstallAll, EnvBuildPkg,
		EnvExcludes, EnvExcludesAll, EnvGoGenerate, EnvBuildDir,
		EnvBuildOptions, EnvDestDir, EnvHostGnuType, EnvBuildGnuType,
		EnvHostArch, EnvHostArchOS, EnvHostArchCPU,
	}
	for _, v := range vars {
		t.Setenv(v, "")
	}
}

func writeConfigFile(t *testing.T, sourceDir, content string) {
	t.Helper()
	debianDir := filepath.Join(sourceDir, "debian")
	require.NoError(t, os.MkdirAll(debianDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(debianDir, FileName), []byte(content), 0644))
}

func TestLoadDefaults(t *testing.T) {
	clearBuildEnv(t)
	sourceDir := t.TempDir()

	cfg, err := Load(sourceDir)
	require.NoError(t, err)

	assert.Equal(t, DefaultBuildDir, cfg.BuildDir)
	assert.True(t, cfg.ExcludesAll)
	assert.False(t, cfg.InstallAll)
	assert.False(t, cfg.GoGenerate)
	assert.False(t, cfg.NoCheck)
	assert.Equal(t, 0, cfg.Parallel)
	assert.Empty(t, cfg.ImportPath)
	assert.Empty(t, cfg.InstallExtra)
	assert.Empty(t, cfg.BuildPkg)
	assert.Empty(t, cfg.Excludes)
}

func TestLoadConfigFile(t *testing.T) {
	clearBuildEnv(t)
	sourceDir := t.TempDir()
	writeConfigFile(t, sourceDir, `
import_path = "github.com/example/project"
install_extra = ["data/schema.sql", "templates"]
excludes = ["examples/"]
excludes_all = false
builddir = "build-go"
`)

	cfg, err := Load(sourceDir)
	require.NoError(t, err)

	assert.Equal(t, "github.com/example/project", cfg.ImportPath)
	assert.Equal(t, []string{"data/schema.sql", "templates"}, cfg.InstallExtra)
	assert.Equal(t, []string{"examples/"}, cfg.Excludes)
	assert.False(t, cfg.ExcludesAll)
	assert.Equal(t, "build-go", cfg.BuildDir)
}

func TestLoadConfigFileInvalid(t *testing.T) {
	clearBuildEnv(t)
	sourceDir := t.TempDir()
	writeConfigFile(t, sourceDir, `import_path = [not toml`)

	_, err := Load(sourceDir)
	assert.Error(t, err)
}

func TestLoadEnvironment(t *testing.T) {
	tests := []struct {
		name  string
		env   map[string]string
		check func(t *testing.T, cfg *Config)
	}{
		{
			name: "import path override",
			env:  map[string]string{EnvImportPath: "github.com/example/override"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "github.com/example/override", cfg.ImportPath)
			},
		},
		{
			name: "whitespace separated excludes",
			env:  map[string]string{EnvExcludes: "examples/ internal/gen"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []string{"examples/", "internal/gen"}, cfg.Excludes)
			},
		},
		{
			name: "install extra list",
			env:  map[string]string{EnvInstallExtra: "data/fixture.json assets"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []string{"data/fixture.json", "assets"}, cfg.InstallExtra)
			},
		},
		{
			name: "boolean flags",
			env: map[string]string{
				EnvInstallAll: "1",
				EnvGoGenerate: "true",
			},
			check: func(t *testing.T, cfg *Config) {
				assert.True(t, cfg.InstallAll)
				assert.True(t, cfg.GoGenerate)
			},
		},
		{
			name: "excludes_all can be disabled",
			env:  map[string]string{EnvExcludesAll: "0"},
			check: func(t *testing.T, cfg *Config) {
				assert.False(t, cfg.ExcludesAll)
			},
		},
		{
			name: "builddir override",
			env:  map[string]string{EnvBuildDir: "/tmp/gobuild"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/tmp/gobuild", cfg.BuildDir)
			},
		},
		{
			name: "buildpkg targets",
			env:  map[string]string{EnvBuildPkg: "github.com/example/project/cmd/..."},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, []string{"github.com/example/project/cmd/..."}, cfg.BuildPkg)
			},
		},
		{
			name: "destdir from debhelper",
			env:  map[string]string{EnvDestDir: "/src/pkg/debian/example-tool"},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/src/pkg/debian/example-tool", cfg.DestDir)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearBuildEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load(t.TempDir())
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	clearBuildEnv(t)
	sourceDir := t.TempDir()
	writeConfigFile(t, sourceDir, `import_path = "github.com/example/fromfile"`)
	t.Setenv(EnvImportPath, "github.com/example/fromenv")

	cfg, err := Load(sourceDir)
	require.NoError(t, err)

	assert.Equal(t, "github.com/example/fromenv", cfg.ImportPath)
}

func TestLoadEmptyEnvDoesNotOverride(t *testing.T) {
	clearBuildEnv(t)
	sourceDir := t.TempDir()
	writeConfigFile(t, sourceDir, `builddir = "build-go"`)
	t.Setenv(EnvBuildDir, "")

	cfg, err := Load(sourceDir)
	require.NoError(t, err)

	// An env var set to "" behaves like an unset one
	assert.Equal(t, "build-go", cfg.BuildDir)
}

func TestApplyBuildOptions(t *testing.T) {
	tests := []struct {
		name         string
		opts         string
		wantParallel int
		wantNoCheck  bool
	}{
		{"empty", "", 0, false},
		{"parallel only", "parallel=4", 4, false},
		{"nocheck only", "nocheck", 0, true},
		{"both", "parallel=8 nocheck", 8, true},
		{"malformed parallel ignored", "parallel=lots", 0, false},
		{"zero parallel ignored", "parallel=0", 0, false},
		{"unknown flags ignored", "nostrip hardening=+all", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg Config
			applyBuildOptions(&cfg, tt.opts)
			assert.Equal(t, tt.wantParallel, cfg.Parallel)
			assert.Equal(t, tt.wantNoCheck, cfg.NoCheck)
		})
	}
}

func TestEffectiveImportPath(t *testing.T) {
	cfg := &Config{}
	assert.Equal(t, "github.com/example/ctrl", cfg.EffectiveImportPath("github.com/example/ctrl"))

	cfg.ImportPath = "github.com/example/override"
	assert.Equal(t, "github.com/example/override", cfg.EffectiveImportPath("github.com/example/ctrl"))
}

func TestIsCrossCompiling(t *testing.T) {
	tests := []struct {
		name  string
		host  string
		build string
		want  bool
	}{
		{"no arch info", "", "", false},
		{"native", "x86_64-linux-gnu", "x86_64-linux-gnu", false},
		{"cross", "aarch64-linux-gnu", "x86_64-linux-gnu", true},
		{"host only", "aarch64-linux-gnu", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{HostGnuType: tt.host, BuildGnuType: tt.build}
			assert.Equal(t, tt.want, cfg.IsCrossCompiling())
		})
	}
}

func TestBuildRoot(t *testing.T) {
	tests := []struct {
		name     string
		buildDir string
		want     string
	}{
		{"default", "", "/src/pkg/_build"},
		{"relative", "build-go", "/src/pkg/build-go"},
		{"absolute", "/tmp/gobuild", "/tmp/gobuild"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{BuildDir: tt.buildDir}
			assert.Equal(t, tt.want, cfg.BuildRoot("/src/pkg"))
		})
	}
}
