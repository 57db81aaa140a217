package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"agentkit/internal/registry"
)

// View renders the whole console frame: header, a bordered main panel, a
// bordered side panel, and the footer hints.
func (a *App) View() string {
	width := a.width
	if width <= 0 {
		width = 100
	}
	rightWidth := max(32, width/3)
	leftWidth := width - rightWidth - 4
	if leftWidth < 40 {
		leftWidth = width - 4
		rightWidth = 0
	}

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FF6B6B")).
		MarginBottom(1).
		Render("⬡ AGENTKIT")

	var content string
	switch a.state {
	case stateRoute:
		content = a.renderRoute(leftWidth - 4)
	case stateChains:
		content = a.chainList.View()
	}
	leftBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1).
		Width(max(20, leftWidth)).
		Render(content)

	body := leftBox
	if rightWidth > 0 {
		rightBox := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1).
			Width(max(20, rightWidth)).
			Render(a.renderSidePanel())
		body = lipgloss.JoinHorizontal(lipgloss.Top, leftBox, rightBox)
	}

	footer := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")).
		MarginTop(1).
		Render(a.footerText())

	sections := []string{header, body}
	if panel := a.renderLogPanel(width - 2); panel != "" {
		sections = append(sections, panel)
	}
	sections = append(sections, footer)
	return strings.Join(sections, "\n")
}

func (a *App) renderRoute(width int) string {
	heading := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))

	sections := []string{
		heading.Render("TASK"),
		a.taskInput.View(),
		"",
		heading.Render("FILES (comma separated)"),
		a.filesInput.View(),
		"",
		a.renderPlan(),
	}
	return lipgloss.NewStyle().Width(max(20, width)).Render(strings.Join(sections, "\n"))
}

func (a *App) renderPlan() string {
	heading := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	body := lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))

	title := "PLAN · parallel preferred"
	if !a.preferParallel {
		title = "PLAN · sequential"
	}
	if a.result.Chain != "" {
		title = "PLAN · chain: " + a.result.Chain
	}
	lines := []string{heading.Render(title)}
	for i, g := range a.result.Phases {
		flag := ""
		if g.Parallel {
			flag = "  [parallel]"
		}
		lines = append(lines, body.Render(fmt.Sprintf("%d. %s%s", i+1, joinAgents(g.Agents), flag)))
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderSidePanel() string {
	if a.state == stateChains {
		return a.renderChainDetail()
	}
	return a.renderCalls()
}

func (a *App) renderCalls() string {
	heading := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	body := lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))

	lines := []string{heading.Render(fmt.Sprintf("CALLS (%d)", len(a.calls)))}
	if len(a.calls) == 0 {
		lines = append(lines, body.Render("Nothing to call yet."))
		return strings.Join(lines, "\n")
	}
	for i, c := range a.calls {
		flag := ""
		if c.Parallel {
			flag = "  [parallel]"
		}
		lines = append(lines, body.Render(fmt.Sprintf("%d. %s%s", i+1, c.Agent, flag)))
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderChainDetail() string {
	heading := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	body := lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))

	item, ok := a.chainList.SelectedItem().(chainItem)
	if !ok {
		return body.Render("No chain selected.")
	}
	lines := []string{heading.Render(strings.ToUpper(item.chain.Name))}
	if item.chain.Description != "" {
		lines = append(lines, body.Render(item.chain.Description), "")
	}
	for i, g := range item.chain.Phases {
		flag := ""
		if g.Parallel {
			flag = "  [parallel]"
		}
		lines = append(lines, body.Render(fmt.Sprintf("%d. %s%s", i+1, joinAgents(g.Agents), flag)))
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderLogPanel(width int) string {
	if a.logbook == nil {
		return ""
	}
	lines := a.logbook.Tail(8)
	if len(lines) == 0 {
		return ""
	}
	heading := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	body := lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))

	content := heading.Render("LOG · "+a.logbook.Name()) + "\n" + body.Render(strings.Join(lines, "\n"))
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1).
		Width(max(20, width)).
		Render(content)
}

func (a *App) footerText() string {
	var hints string
	switch a.state {
	case stateRoute:
		hints = "tab focus · enter route · ctrl+p parallel · ctrl+b chains · ctrl+x clear chain · esc quit"
	case stateChains:
		hints = "enter apply · / filter · esc back"
	}
	if a.statusMsg == "" {
		return hints
	}
	return hints + "\n" + a.statusMsg
}

func joinAgents(ids []registry.AgentID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}
	return strings.Join(parts, ", ")
}
