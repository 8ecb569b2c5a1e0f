package style

import (
	"encoding/json"
	stderrors "errors"
	"fmt"

	"github.com/arthur-debert/gostage/pkg/errors"
	"github.com/arthur-debert/gostage/pkg/phases"
)

// JSONRenderer implements Renderer with machine-readable JSON output
type JSONRenderer struct{}

// NewJSONRenderer creates a new JSON renderer
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

func renderJSON(result interface{}) string {
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"error": %q}`, err.Error())
	}
	return string(out)
}

// RenderConfigure renders the staging outcome as JSON
func (r *JSONRenderer) RenderConfigure(res *phases.ConfigureResult) string {
	return renderJSON(res)
}

// RenderBuild renders the compiled targets as JSON
func (r *JSONRenderer) RenderBuild(res *phases.BuildResult) string {
	return renderJSON(res)
}

// RenderTest renders the test outcome as JSON
func (r *JSONRenderer) RenderTest(res *phases.TestResult) string {
	return renderJSON(res)
}

// RenderInstall renders the install outcome as JSON
func (r *JSONRenderer) RenderInstall(res *phases.InstallResult) string {
	return renderJSON(res)
}

// RenderSubstvars renders the provenance outcome as JSON
func (r *JSONRenderer) RenderSubstvars(res *phases.SubstvarsResult) string {
	return renderJSON(res)
}

// RenderClean renders the clean outcome as JSON
func (r *JSONRenderer) RenderClean(res *phases.CleanResult) string {
	return renderJSON(res)
}

// RenderError renders an error as a JSON object, with the error code
// when one is attached
func (r *JSONRenderer) RenderError(err error) string {
	if err == nil {
		return ""
	}

	obj := map[string]string{"error": err.Error()}
	var gerr *errors.GostageError
	if stderrors.As(err, &gerr) {
		obj["code"] = string(gerr.Code)
	}
	return renderJSON(obj)
}
