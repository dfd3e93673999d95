package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dsablic/healthlog/internal/model"
	"github.com/dsablic/healthlog/internal/trend"
)

// DashboardModel is the interactive dashboard. Left and right cycle the
// focused metric; q, esc and ctrl+c quit.
type DashboardModel struct {
	dash   model.Dashboard
	metric int
	width  int
}

// NewDashboardModel creates the bubbletea model for d.
func NewDashboardModel(d model.Dashboard) DashboardModel {
	return DashboardModel{dash: d, width: defaultBarWidth + 10}
}

// Metric returns the focused metric.
func (m DashboardModel) Metric() model.MetricKey {
	return model.MetricKeys[m.metric]
}

func (m DashboardModel) Init() tea.Cmd {
	return nil
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "right", "l", "tab":
			m.metric = (m.metric + 1) % len(model.MetricKeys)
		case "left", "h", "shift+tab":
			m.metric = (m.metric - 1 + len(model.MetricKeys)) % len(model.MetricKeys)
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width - 10
		if m.width > 60 {
			m.width = 60
		}
	}
	return m, nil
}

func (m DashboardModel) View() string {
	var tabs []string
	for i, k := range model.MetricKeys {
		if i == m.metric {
			tabs = append(tabs, selectedTab.Render(string(k)))
		} else {
			tabs = append(tabs, tabStyle.Render(string(k)))
		}
	}

	key := m.Metric()
	var rows strings.Builder
	for _, p := range m.dash.Trend {
		v, _ := p.Value(key)
		if p.Placeholder {
			rows.WriteString(fmt.Sprintf("%s  %s\n", p.Date, infoStyle.Render("no log")))
			continue
		}
		rows.WriteString(fmt.Sprintf("%s  %g\n", p.Date, v))
	}
	rows.WriteString(fmt.Sprintf("\naverage %.1f   change %s\n",
		trend.Average(m.dash.Trend, key), styleChange(m.dash.Changes[key])))

	return RenderDashboard(m.dash, m.width-20) +
		strings.Join(tabs, " ") + "\n" +
		panelStyle.Render(Sparkline(m.dash.Trend, key)+"\n\n"+rows.String()) + "\n" +
		infoStyle.Render("←/→ metric • q quit") + "\n"
}

// RunDashboard shows d interactively until the user quits.
func RunDashboard(d model.Dashboard) error {
	_, err := tea.NewProgram(NewDashboardModel(d), tea.WithAltScreen()).Run()
	return err
}
