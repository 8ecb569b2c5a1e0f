package style

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/pterm/pterm"

	"github.com/arthur-debert/gostage/pkg/errors"
	"github.com/arthur-debert/gostage/pkg/phases"
)

// Renderer defines the interface for rendering phase results
type Renderer interface {
	RenderConfigure(res *phases.ConfigureResult) string
	RenderBuild(res *phases.BuildResult) string
	RenderTest(res *phases.TestResult) string
	RenderInstall(res *phases.InstallResult) string
	RenderSubstvars(res *phases.SubstvarsResult) string
	RenderClean(res *phases.CleanResult) string
	RenderError(err error) string
}

// TerminalRenderer implements Renderer with rich terminal output
type TerminalRenderer struct {
	width int
}

// NewTerminalRenderer creates a new terminal renderer
func NewTerminalRenderer() *TerminalRenderer {
	return &TerminalRenderer{
		width: 80, // Default width, can be updated
	}
}

// SetWidth updates the terminal width for rendering
func (r *TerminalRenderer) SetWidth(width int) {
	r.width = width
}

// RenderConfigure renders the outcome of staging the workspace
func (r *TerminalRenderer) RenderConfigure(res *phases.ConfigureResult) string {
	var result strings.Builder

	if res.Staged == 0 && res.Skipped > 0 {
		result.WriteString(MutedStyle.Render("Workspace already configured") + "\n")
	} else {
		result.WriteString(TitleStyle.Render("Workspace configured") + "\n\n")
	}

	result.WriteString(fmt.Sprintf("%s %s %s\n", InfoIndicator, StageStyle.Render("import path"), PathStyle.Render(res.ImportPath)))
	result.WriteString(fmt.Sprintf("%s %s %s\n", InfoIndicator, StageStyle.Render("build root"), PathStyle.Render(res.BuildRoot)))
	result.WriteString(fmt.Sprintf("%s %d operations applied, %d already in place\n", InfoIndicator, res.Staged, res.Skipped))

	if len(res.Overlay) > 0 {
		result.WriteString(SubtitleStyle.Render("System sources") + "\n")
		for _, link := range res.Overlay {
			result.WriteString(RenderOverlayResult(link) + "\n")
		}
	}

	return strings.TrimRight(result.String(), "\n")
}

// RenderBuild renders the compiled target list
func (r *TerminalRenderer) RenderBuild(res *phases.BuildResult) string {
	var result strings.Builder
	result.WriteString(TitleStyle.Render("Build finished") + "\n\n")

	if res.Generated {
		result.WriteString(fmt.Sprintf("%s go generate ran over the targets first\n", InfoIndicator))
	}
	for _, target := range res.Targets {
		result.WriteString(fmt.Sprintf("%s %s\n", SuccessIndicator, CompileStyle.Render(target)))
	}

	return strings.TrimRight(result.String(), "\n")
}

// RenderTest renders the test phase outcome
func (r *TerminalRenderer) RenderTest(res *phases.TestResult) string {
	if res.Skipped {
		return fmt.Sprintf("%s %s", WarningIndicator, MutedStyle.Render("Tests skipped (nocheck or cross build)"))
	}

	var result strings.Builder
	result.WriteString(TitleStyle.Render("Tests passed") + "\n\n")
	for _, target := range res.Targets {
		result.WriteString(fmt.Sprintf("%s %s\n", SuccessIndicator, CompileStyle.Render(target)))
	}

	return strings.TrimRight(result.String(), "\n")
}

// RenderInstall renders where the build artifacts landed
func (r *TerminalRenderer) RenderInstall(res *phases.InstallResult) string {
	var result strings.Builder
	result.WriteString(TitleStyle.Render("Installed into "+res.DestDir) + "\n\n")

	for _, bin := range res.Binaries {
		result.WriteString(fmt.Sprintf("%s %s %s\n", SuccessIndicator, CompileStyle.Render("binary"), PathStyle.Render(bin)))
	}
	if res.SourceFiles > 0 {
		result.WriteString(fmt.Sprintf("%s %s %d files under %s\n", SuccessIndicator, StageStyle.Render("sources"), res.SourceFiles, PathStyle.Render(phases.GocodeDir)))
	}
	for _, alias := range res.Aliases {
		result.WriteString(fmt.Sprintf("%s %s %s\n", SuccessIndicator, OverlayStyle.Render("alias"), PathStyle.Render(alias)))
	}
	if len(res.Binaries) == 0 && res.SourceFiles == 0 && len(res.Aliases) == 0 {
		result.WriteString(MutedStyle.Render("Nothing to install") + "\n")
	}

	return strings.TrimRight(result.String(), "\n")
}

// RenderSubstvars renders the provenance written into the substvars files
func (r *TerminalRenderer) RenderSubstvars(res *phases.SubstvarsResult) string {
	var result strings.Builder
	result.WriteString(TitleStyle.Render("Built-Using provenance") + "\n\n")

	if len(res.Refs) == 0 {
		result.WriteString(MutedStyle.Render("No external Go dependencies") + "\n")
	}
	for _, ref := range res.Refs {
		result.WriteString(fmt.Sprintf("%s %s\n", InfoIndicator, ProvenanceStyle.Render(ref)))
	}
	for _, pkg := range res.Packages {
		result.WriteString(fmt.Sprintf("%s %s\n", SuccessIndicator, PathStyle.Render("debian/"+pkg+".substvars")))
	}

	return strings.TrimRight(result.String(), "\n")
}

// RenderClean renders the clean phase outcome
func (r *TerminalRenderer) RenderClean(res *phases.CleanResult) string {
	if res.Removed == "" {
		return MutedStyle.Render("Nothing to clean")
	}
	return fmt.Sprintf("%s Removed %s", SuccessIndicator, PathStyle.Render(res.Removed))
}

// RenderError renders an error message
func (r *TerminalRenderer) RenderError(err error) string {
	if err == nil {
		return ""
	}

	var gerr *errors.GostageError
	if stderrors.As(err, &gerr) {
		return fmt.Sprintf("%s Error [%s]: %s",
			pterm.Error.Prefix.Text,
			pterm.Error.MessageStyle.Sprint(string(gerr.Code)),
			err.Error())
	}

	// Generic error
	return fmt.Sprintf("%s %s", pterm.Error.Prefix.Text, pterm.Error.MessageStyle.Sprint(err.Error()))
}

// PlainRenderer implements Renderer with plain text output (no styling)
type PlainRenderer struct{}

// NewPlainRenderer creates a new plain text renderer
func NewPlainRenderer() *PlainRenderer {
	return &PlainRenderer{}
}

// RenderConfigure renders a plain staging summary
func (r *PlainRenderer) RenderConfigure(res *phases.ConfigureResult) string {
	var result strings.Builder
	result.WriteString(fmt.Sprintf("Workspace %s configured for %s\n", res.BuildRoot, res.ImportPath))
	result.WriteString(fmt.Sprintf("  %d operations applied, %d already in place\n", res.Staged, res.Skipped))
	for _, link := range res.Overlay {
		result.WriteString(fmt.Sprintf("  overlay %s: %s\n", link.Rel, link.Action))
	}
	return strings.TrimRight(result.String(), "\n")
}

// RenderBuild renders a plain target list
func (r *PlainRenderer) RenderBuild(res *phases.BuildResult) string {
	var result strings.Builder
	result.WriteString("Built:\n")
	for _, target := range res.Targets {
		result.WriteString(fmt.Sprintf("  %s\n", target))
	}
	return strings.TrimRight(result.String(), "\n")
}

// RenderTest renders a plain test summary
func (r *PlainRenderer) RenderTest(res *phases.TestResult) string {
	if res.Skipped {
		return "Tests skipped"
	}
	var result strings.Builder
	result.WriteString("Tested:\n")
	for _, target := range res.Targets {
		result.WriteString(fmt.Sprintf("  %s\n", target))
	}
	return strings.TrimRight(result.String(), "\n")
}

// RenderInstall renders a plain install summary
func (r *PlainRenderer) RenderInstall(res *phases.InstallResult) string {
	var result strings.Builder
	result.WriteString(fmt.Sprintf("Installed into %s\n", res.DestDir))
	for _, bin := range res.Binaries {
		result.WriteString(fmt.Sprintf("  binary %s\n", bin))
	}
	if res.SourceFiles > 0 {
		result.WriteString(fmt.Sprintf("  %d source files under %s\n", res.SourceFiles, phases.GocodeDir))
	}
	for _, alias := range res.Aliases {
		result.WriteString(fmt.Sprintf("  alias %s\n", alias))
	}
	return strings.TrimRight(result.String(), "\n")
}

// RenderSubstvars renders plain provenance output
func (r *PlainRenderer) RenderSubstvars(res *phases.SubstvarsResult) string {
	var result strings.Builder
	if len(res.Refs) == 0 {
		result.WriteString("No external Go dependencies\n")
	} else {
		result.WriteString("misc:Built-Using:\n")
		for _, ref := range res.Refs {
			result.WriteString(fmt.Sprintf("  %s\n", ref))
		}
	}
	for _, pkg := range res.Packages {
		result.WriteString(fmt.Sprintf("  wrote debian/%s.substvars\n", pkg))
	}
	return strings.TrimRight(result.String(), "\n")
}

// RenderClean renders a plain clean summary
func (r *PlainRenderer) RenderClean(res *phases.CleanResult) string {
	if res.Removed == "" {
		return "Nothing to clean"
	}
	return fmt.Sprintf("Removed %s", res.Removed)
}

// RenderError renders a plain error message
func (r *PlainRenderer) RenderError(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %s", err.Error())
}
