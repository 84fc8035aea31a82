package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sort"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"ais-reporter/internal/reporter"
)

var dashboardAddr string

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Terminal dashboard for a running reporter",
	Long:  "dashboard polls the admin API of a running reporter and renders per-endpoint transmission statistics.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return fmt.Errorf("dashboard requires a terminal")
		}
		m := newDashboardModel(dashboardAddr)
		p := tea.NewProgram(m, tea.WithAltScreen())
		_, err := p.Run()
		return err
	},
}

type snapshotMsg struct {
	snap reporter.Snapshot
	err  error
}

type dashboardModel struct {
	addr  string
	table table.Model
	snap  reporter.Snapshot
	err   error
	width int
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func newDashboardModel(addr string) dashboardModel {
	columns := []table.Column{
		{Title: "Endpoint", Width: 22},
		{Title: "Pos", Width: 8},
		{Title: "Pos/h", Width: 8},
		{Title: "Pos/d", Width: 8},
		{Title: "Static", Width: 8},
		{Title: "Static/h", Width: 8},
		{Title: "Bytes", Width: 12},
		{Title: "Last report", Width: 22},
	}
	t := table.New(table.WithColumns(columns), table.WithHeight(12))
	return dashboardModel{addr: addr, table: t}
}

func (m dashboardModel) Init() tea.Cmd {
	return pollStatus(m.addr)
}

func pollStatus(addr string) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		resp, err := http.Get("http://" + addr + "/status")
		if err != nil {
			return snapshotMsg{err: err}
		}
		defer resp.Body.Close()
		var snap reporter.Snapshot
		if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
			return snapshotMsg{err: err}
		}
		return snapshotMsg{snap: snap}
	})
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case snapshotMsg:
		m.err = msg.err
		if msg.err == nil {
			m.snap = msg.snap
			m.table.SetRows(statusRows(msg.snap))
		}
		return m, pollStatus(m.addr)
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func statusRows(snap reporter.Snapshot) []table.Row {
	names := make([]string, 0, len(snap.Endpoints))
	for name := range snap.Endpoints {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([]table.Row, 0, len(names))
	for _, name := range names {
		ep := snap.Endpoints[name]
		rows = append(rows, table.Row{
			name,
			fmt.Sprintf("%d", ep.Position.TotalReports),
			fmt.Sprintf("%d", ep.Position.ReportsInLastHour),
			fmt.Sprintf("%d", ep.Position.ReportsInLastDay),
			fmt.Sprintf("%d", ep.Static.TotalReports),
			fmt.Sprintf("%d", ep.Static.ReportsInLastHour),
			fmt.Sprintf("%d", ep.TotalBytes),
			lastReport(ep),
		})
	}
	return rows
}

func lastReport(ep reporter.EndpointStatus) string {
	last := ep.Position.LastReport
	if last == "never" {
		last = ep.Static.LastReport
	}
	return last
}

func (m dashboardModel) View() string {
	header := titleStyle.Render("ais-reporter") + "  " +
		statusStyle.Render(fmt.Sprintf("state=%s tick=%d endpoints=%d", m.snap.State, m.snap.Tick, len(m.snap.Endpoints)))
	body := m.table.View()
	footer := helpStyle.Render("q: quit")
	if m.err != nil {
		footer = errStyle.Render("poll failed: "+m.err.Error()) + "\n" + footer
	}
	view := header + "\n\n" + body + "\n" + footer
	if m.width > 0 {
		view = wordwrap.String(view, m.width)
	}
	return view
}

func init() {
	dashboardCmd.Flags().StringVar(&dashboardAddr, "addr", "localhost:8080", "Admin API address of the running reporter")
}
