package style

import (
	"strings"
	"testing"

	"github.com/arthur-debert/gostage/pkg/errors"
	"github.com/arthur-debert/gostage/pkg/workspace"
)

func TestRenderOpResult(t *testing.T) {
	tests := []struct {
		name     string
		result   workspace.OpResult
		base     string
		contains []string
	}{
		{
			name: "copy done",
			result: workspace.OpResult{
				Op:     workspace.Op{Kind: workspace.OpCopy, Dst: "/pkg/_build/src/example.com/tool/main.go"},
				Status: workspace.StatusDone,
			},
			base:     "/pkg/_build",
			contains: []string{"copy", "src/example.com/tool/main.go", "staged"},
		},
		{
			name: "copy dry run",
			result: workspace.OpResult{
				Op:     workspace.Op{Kind: workspace.OpCopy, Dst: "/pkg/_build/src/example.com/tool/main.go"},
				Status: workspace.StatusWould,
			},
			base:     "/pkg/_build",
			contains: []string{"copy", "will stage"},
		},
		{
			name: "symlink done",
			result: workspace.OpResult{
				Op:     workspace.Op{Kind: workspace.OpSymlink, Dst: "/pkg/_build/src/example.com/tool/alias.go"},
				Status: workspace.StatusDone,
			},
			base:     "/pkg/_build",
			contains: []string{"symlink", "linked"},
		},
		{
			name: "mkdir dry run",
			result: workspace.OpResult{
				Op:     workspace.Op{Kind: workspace.OpMkdir, Dst: "/pkg/_build/src/example.com"},
				Status: workspace.StatusWould,
			},
			base:     "/pkg/_build",
			contains: []string{"mkdir", "will create"},
		},
		{
			name: "failed with error",
			result: workspace.OpResult{
				Op:     workspace.Op{Kind: workspace.OpCopy, Dst: "/pkg/_build/src/example.com/tool/main.go"},
				Status: workspace.StatusFailed,
				Error:  errors.New(errors.ErrStageExecute, "disk full"),
			},
			base:     "/pkg/_build",
			contains: []string{"copy", "failed", "disk full"},
		},
		{
			name: "no base keeps absolute path",
			result: workspace.OpResult{
				Op:     workspace.Op{Kind: workspace.OpChmodExec, Dst: "/pkg/_build/bin/tool"},
				Status: workspace.StatusDone,
			},
			contains: []string{"chmod-exec", "/pkg/_build/bin/tool", "marked executable"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := RenderOpResult(tt.result, tt.base)
			for _, want := range tt.contains {
				if !strings.Contains(line, want) {
					t.Errorf("Expected %q in %q", want, line)
				}
			}
		})
	}
}

func TestRenderOpResultOutsideBase(t *testing.T) {
	res := workspace.OpResult{
		Op:     workspace.Op{Kind: workspace.OpCopy, Dst: "/elsewhere/file.go"},
		Status: workspace.StatusDone,
	}

	line := RenderOpResult(res, "/pkg/_build")
	if !strings.Contains(line, "/elsewhere/file.go") {
		t.Errorf("Paths outside the base should stay absolute, got %q", line)
	}
}

func TestRenderOverlayResult(t *testing.T) {
	tests := []struct {
		name     string
		result   workspace.OverlayResult
		contains []string
	}{
		{
			name:     "linked",
			result:   workspace.OverlayResult{Rel: "github.com/lib", Action: workspace.OverlayLinked},
			contains: []string{"github.com/lib", "linked from system tree"},
		},
		{
			name:     "recursed",
			result:   workspace.OverlayResult{Rel: "github.com", Action: workspace.OverlayRecursed},
			contains: []string{"github.com", "merged with system tree"},
		},
		{
			name:     "package wins",
			result:   workspace.OverlayResult{Rel: "example.com/tool/vendor", Action: workspace.OverlaySkippedExisting},
			contains: []string{"kept from package"},
		},
		{
			name:     "installed self ignored",
			result:   workspace.OverlayResult{Rel: "example.com/tool", Action: workspace.OverlaySkippedSelf},
			contains: []string{"installed copy of this package"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := RenderOverlayResult(tt.result)
			for _, want := range tt.contains {
				if !strings.Contains(line, want) {
					t.Errorf("Expected %q in %q", want, line)
				}
			}
		})
	}
}

func TestAggregateOpStatus(t *testing.T) {
	tests := []struct {
		name     string
		results  []workspace.OpResult
		expected workspace.OpStatus
	}{
		{
			name:     "empty is done",
			results:  nil,
			expected: workspace.StatusDone,
		},
		{
			name: "all done",
			results: []workspace.OpResult{
				{Status: workspace.StatusDone},
				{Status: workspace.StatusDone},
			},
			expected: workspace.StatusDone,
		},
		{
			name: "all dry run",
			results: []workspace.OpResult{
				{Status: workspace.StatusWould},
				{Status: workspace.StatusWould},
			},
			expected: workspace.StatusWould,
		},
		{
			name: "one failure poisons the run",
			results: []workspace.OpResult{
				{Status: workspace.StatusDone},
				{Status: workspace.StatusFailed},
			},
			expected: workspace.StatusFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AggregateOpStatus(tt.results); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestStatusStyle(t *testing.T) {
	// Every state must map to a usable style
	for _, status := range []workspace.OpStatus{
		workspace.StatusDone,
		workspace.StatusFailed,
		workspace.StatusWould,
		workspace.OpStatus("unknown"),
	} {
		if StatusStyle(status) == nil {
			t.Errorf("Expected a style for status %q", status)
		}
	}
}
