package main

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mrdg/audiograph/audio"
)

type state int

const (
	statePending state = iota
	statePlaying
	stateFinished
)

func (s state) String() string {
	switch s {
	case statePending:
		return "pending"
	case statePlaying:
		return "playing"
	default:
		return "finished"
	}
}

type voiceRow struct {
	name   string
	kind   string
	source string
	node   string
	state  state
	freq   string
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	stateStyles = map[state]lipgloss.Style{
		statePending:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		statePlaying:  lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		stateFinished: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
)

func (e *env) state(v *voice) state {
	b, ok := e.binder.Lookup(v.request)
	if !ok {
		return statePending
	}
	if e.engine.Playing(b.Node) {
		return statePlaying
	}
	return stateFinished
}

func (e *env) listVoices() []voiceRow {
	rows := make([]voiceRow, 0, len(e.voices))
	for _, v := range e.voices {
		row := voiceRow{
			name:   v.name,
			kind:   v.kind,
			source: v.source,
			node:   "-",
			state:  e.state(v),
			freq:   "-",
		}
		if b, ok := e.binder.Lookup(v.request); ok {
			row.node = b.Node.String()
			if ctl, ok := b.Control.(audio.ToneControl); ok {
				row.freq = fmt.Sprintf("%.2f", ctl.Frequency())
			}
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].name < rows[j].name })
	return rows
}

func renderVoices(rows []voiceRow) string {
	if len(rows) == 0 {
		return "no sounds"
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers("NAME", "KIND", "SOURCE", "NODE", "STATE", "FREQ").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, r := range rows {
		t.Row(r.name, r.kind, r.source, r.node, stateStyles[r.state].Render(r.state.String()), r.freq)
	}
	return t.String()
}
