package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Ankur-Sura/Nivesh-Copilot/internal/research"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F59E0B")).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#3B82F6")).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3B82F6")).
			Padding(0, 2)

	sectionTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#10B981"))

	completedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	degradedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3B82F6"))

	warningBlockStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#EF4444")).
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("#EF4444")).
				Padding(0, 2)
)

// displayWelcomeBanner shows the startup banner.
func displayWelcomeBanner() {
	fmt.Println(titleStyle.Render("Nivesh Copilot"))
	fmt.Println(infoStyle.Render("Automated equity and sector research for Indian markets (NSE/BSE)"))
	fmt.Println()
}

// displayRunHeader prints the routing decision before the pipeline runs.
func displayRunHeader(res *research.Result) {
	entity := res.Entity
	if res.Ticker != "" {
		entity = fmt.Sprintf("%s (%s)", entity, res.Ticker)
	}
	kind := string(res.Kind)
	if kind != "" {
		kind = strings.ToUpper(kind[:1]) + kind[1:]
	}
	fmt.Println(headerStyle.Render(fmt.Sprintf("%s analysis: %s", kind, entity)))
	fmt.Println()
}

// displayStages prints the per-stage outcome of a run.
func displayStages(stages []research.StageStatus) {
	fmt.Println(sectionTitleStyle.Render("Pipeline"))
	for _, st := range stages {
		if st.OK {
			fmt.Printf("  %s %s\n", completedStyle.Render("ok"), st.Name)
		} else {
			fmt.Printf("  %s %s (%v)\n", degradedStyle.Render("degraded"), st.Name, st.Err)
		}
	}
	fmt.Println()
}

// displayReport renders the composite report section by section.
func displayReport(res *research.Result) {
	displayRunHeader(res)
	for _, s := range res.Sections {
		fmt.Println(sectionTitleStyle.Render("== " + s.Title + " =="))
		fmt.Println()
		fmt.Println(s.Body)
		fmt.Println()
	}
	if res.ReportPath != "" {
		fmt.Println(infoStyle.Render("Report saved to " + res.ReportPath))
	}
}

// displayError prints an error line.
func displayError(err error) {
	fmt.Println(errorStyle.Render("Error: " + err.Error()))
}

// displayWarnings prints a bordered block when the run surfaced risk
// warnings, so they are impossible to miss in the terminal.
func displayWarnings(res *research.Result) {
	for _, s := range res.Sections {
		if !strings.Contains(s.Body, "RISK WARNING") {
			continue
		}
		fmt.Println(warningBlockStyle.Render("This analysis carries risk warnings. Read the technical section carefully."))
		fmt.Println()
		return
	}
}
