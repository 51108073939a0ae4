package main

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/notalib/scorelib/timemap"
	"github.com/notalib/scorelib/unroll"
)

// entryItem is one unrolled position shown in the explorer list.
type entryItem struct {
	entry timemap.Entry
}

func (i entryItem) Title() string {
	return fmt.Sprintf("position %d -> measure %d", i.entry.UnrolledPosition, i.entry.OriginalMeasureIndex+1)
}

func (i entryItem) Description() string {
	return fmt.Sprintf("%.0f ms @ %.0f ms | %g BPM | %d/%d",
		i.entry.DurationMS, i.entry.StartMS, i.entry.TempoBPM, i.entry.Beats, i.entry.BeatType)
}

func (i entryItem) FilterValue() string { return i.Title() }

var exploreTitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("15")).
	Background(lipgloss.Color("62")).
	Padding(0, 1)

type exploreModel struct {
	list list.Model
}

func (m exploreModel) Init() tea.Cmd { return nil }

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height-1)
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m exploreModel) View() string {
	return m.list.View()
}

// exploreCommand opens a terminal browser over the unrolled play order
// and timemap of a score's first part, for inspecting repeat and jump
// behavior without a host application.
func exploreCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "explore <score.(musicxml|mxl)>",
		Short: "Browse the unrolled play order and timemap interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			score, err := loadScore(args[0])
			if err != nil {
				return fail(err)
			}
			if score.IsEmpty() {
				return fail(fmt.Errorf("score has no parts"))
			}
			part := &score.Parts[0]
			entries := unroll.Unroll(part)
			tm := timemap.Build(part, entries)

			items := make([]list.Item, len(tm))
			for i, e := range tm {
				items[i] = entryItem{entry: e}
			}
			l := list.New(items, list.NewDefaultDelegate(), 0, 0)
			title := score.Title
			if title == "" {
				title = part.Name
			}
			if title == "" {
				title = args[0]
			}
			l.Title = fmt.Sprintf("%s - %d measures unrolled to %d", title, len(part.Measures), len(tm))
			l.Styles.Title = exploreTitleStyle

			p := tea.NewProgram(exploreModel{list: l}, tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}
}
