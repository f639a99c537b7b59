package main

import (
	"fmt"
	"io"
	"runtime"

	"github.com/charmbracelet/lipgloss"

	"github.com/fremvaerk/horalis/internal/buildinfo"
)

// Styles for daemon version output (matching CLI styles).
var (
	dStyleBrand   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "30", Dark: "45"})
	dStyleVersion = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "28", Dark: "40"})
	dStyleLabel   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "242", Dark: "240"})
	dStyleValue   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "0", Dark: "15"})
	dStyleHint    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "242", Dark: "240"})
)

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "  %s %s %s\n",
		dStyleBrand.Render("horalisd"),
		dStyleVersion.Render(buildinfo.Version),
		dStyleHint.Render("("+buildinfo.Codename+")"),
	)
	fmt.Fprintf(w, "    %s  %s\n", dStyleLabel.Render("Commit"), dStyleValue.Render(buildinfo.CommitHash))
	fmt.Fprintf(w, "    %s   %s\n", dStyleLabel.Render("Built"), dStyleValue.Render(buildinfo.BuildDate))
	fmt.Fprintf(w, "    %s %s\n", dStyleLabel.Render("OS/Arch"), dStyleValue.Render(runtime.GOOS+"/"+runtime.GOARCH))
	fmt.Fprintf(w, "    %s      %s\n", dStyleLabel.Render("Go"), dStyleValue.Render(runtime.Version()))
}
