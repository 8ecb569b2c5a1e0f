package style

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/gostage/pkg/errors"
	"github.com/arthur-debert/gostage/pkg/phases"
	"github.com/arthur-debert/gostage/pkg/workspace"
)

func TestJSONRendererConfigure(t *testing.T) {
	renderer := NewJSONRenderer()

	out := renderer.RenderConfigure(&phases.ConfigureResult{
		ImportPath: "example.com/tool",
		BuildRoot:  "/pkg/_build",
		Staged:     12,
		Skipped:    3,
		Overlay: []workspace.OverlayResult{
			{Rel: "github.com/pkg/errors", Action: workspace.OverlayLinked},
		},
	})

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))

	assert.Equal(t, "example.com/tool", decoded["importPath"])
	assert.Equal(t, "/pkg/_build", decoded["buildRoot"])
	assert.Equal(t, float64(12), decoded["staged"])
	assert.Equal(t, float64(3), decoded["skipped"])

	overlay, ok := decoded["overlay"].([]interface{})
	require.True(t, ok)
	require.Len(t, overlay, 1)
	link := overlay[0].(map[string]interface{})
	assert.Equal(t, "github.com/pkg/errors", link["rel"])
	assert.Equal(t, "linked", link["action"])
}

func TestJSONRendererSubstvars(t *testing.T) {
	renderer := NewJSONRenderer()

	out := renderer.RenderSubstvars(&phases.SubstvarsResult{
		Refs:     []string{"golang-github-spf13-cobra (= 1.8.0-1)"},
		Packages: []string{"example-tool"},
	})

	var decoded struct {
		Refs     []string `json:"refs"`
		Packages []string `json:"packages"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, []string{"golang-github-spf13-cobra (= 1.8.0-1)"}, decoded.Refs)
	assert.Equal(t, []string{"example-tool"}, decoded.Packages)
}

func TestJSONRendererError(t *testing.T) {
	renderer := NewJSONRenderer()

	t.Run("coded error carries the code", func(t *testing.T) {
		out := renderer.RenderError(errors.New(errors.ErrConfigLoad, "bad toml"))

		var decoded map[string]string
		require.NoError(t, json.Unmarshal([]byte(out), &decoded))
		assert.Equal(t, "CONFIG_LOAD", decoded["code"])
		assert.Contains(t, decoded["error"], "bad toml")
	})

	t.Run("plain error has no code", func(t *testing.T) {
		out := renderer.RenderError(assert.AnError)

		var decoded map[string]string
		require.NoError(t, json.Unmarshal([]byte(out), &decoded))
		assert.NotContains(t, decoded, "code")
		assert.NotEmpty(t, decoded["error"])
	})

	t.Run("nil error renders empty", func(t *testing.T) {
		assert.Equal(t, "", renderer.RenderError(nil))
	})
}
