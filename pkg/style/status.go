package style

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pterm/pterm"

	"github.com/arthur-debert/gostage/pkg/workspace"
)

// OpVerbs defines done and dry-run tense verbs for each staging
// operation kind
var OpVerbs = map[workspace.OpKind]struct {
	Done  string
	Would string
}{
	workspace.OpMkdir:     {Done: "created", Would: "will create"},
	workspace.OpCopy:      {Done: "staged", Would: "will stage"},
	workspace.OpSymlink:   {Done: "linked", Would: "will link"},
	workspace.OpChmodExec: {Done: "marked executable", Would: "will mark executable"},
}

// OverlayVerbs describes each overlay merge decision in one phrase
var OverlayVerbs = map[workspace.OverlayAction]string{
	workspace.OverlayLinked:          "linked from system tree",
	workspace.OverlayRecursed:        "merged with system tree",
	workspace.OverlaySkippedExisting: "kept from package",
	workspace.OverlayLeafStop:        "package copy wins",
	workspace.OverlaySkippedSelf:     "installed copy of this package, ignored",
}

// StatusStyle returns the appropriate pterm style for an executed
// operation state
func StatusStyle(status workspace.OpStatus) *pterm.Style {
	switch status {
	case workspace.StatusDone:
		return pterm.NewStyle(pterm.FgGreen)
	case workspace.StatusFailed:
		return pterm.NewStyle(pterm.FgRed, pterm.Bold)
	case workspace.StatusWould:
		return pterm.NewStyle(pterm.FgYellow)
	default:
		return pterm.NewStyle(pterm.FgGray)
	}
}

// RenderOpResult renders a single executed operation line. Paths under
// base are shown relative to it.
func RenderOpResult(res workspace.OpResult, base string) string {
	kind := fmt.Sprintf("%-10s", string(res.Op.Kind))
	styledKind := StatusStyle(res.Status).Sprint(kind)

	target := res.Op.Dst
	if base != "" {
		if rel, err := filepath.Rel(base, res.Op.Dst); err == nil && !strings.HasPrefix(rel, "..") {
			target = rel
		}
	}

	var statusMsg string
	verbs, ok := OpVerbs[res.Op.Kind]
	switch {
	case res.Status == workspace.StatusFailed:
		statusMsg = "failed"
		if res.Error != nil {
			statusMsg = fmt.Sprintf("failed: %v", res.Error)
		}
	case res.Status == workspace.StatusWould && ok:
		statusMsg = verbs.Would
	case ok:
		statusMsg = verbs.Done
	}

	return fmt.Sprintf("    %s : %s : %s", styledKind, target, statusMsg)
}

// RenderOverlayResult renders one overlay merge decision line
func RenderOverlayResult(res workspace.OverlayResult) string {
	verb, ok := OverlayVerbs[res.Action]
	if !ok {
		verb = string(res.Action)
	}
	return fmt.Sprintf("    %s : %s", OverlayStyle.Render(res.Rel), verb)
}

// AggregateOpStatus determines the overall state of an executed plan
func AggregateOpStatus(results []workspace.OpResult) workspace.OpStatus {
	hasFailed := false
	allWould := len(results) > 0

	for _, r := range results {
		switch r.Status {
		case workspace.StatusFailed:
			hasFailed = true
			allWould = false
		case workspace.StatusDone:
			allWould = false
		}
	}

	if hasFailed {
		return workspace.StatusFailed
	}
	if allWould {
		return workspace.StatusWould
	}
	return workspace.StatusDone
}
