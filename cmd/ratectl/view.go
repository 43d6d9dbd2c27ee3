// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/audio-rating/engine"
	"github.com/danielhkuo/audio-rating/models"
)

const barWidth = 24

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#7C3AED")).Bold(true)
	ratedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")).Bold(true)
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801")).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
)

func progressBar(entry models.ProgressEntry) string {
	bar := progress.New(progress.WithDefaultGradient(), progress.WithWidth(barWidth), progress.WithoutPercentage())
	return fmt.Sprintf("%s %3d/%-3d %5.1f%%", bar.ViewAs(entry.Percentage/100), entry.Rated, entry.Total, entry.Percentage)
}

func renderOverview(o *engine.Overview) string {
	degraded := make(map[int]bool, len(o.Degraded))
	for _, id := range o.Degraded {
		degraded[id] = true
	}

	var b strings.Builder
	for _, p := range o.Participants {
		fmt.Fprintf(&b, "%4d  %-24s %s", p.ID, p.Name, progressBar(o.Progress[p.ID]))
		if degraded[p.ID] {
			b.WriteString("  " + errorStyle.Render("(unavailable)"))
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\n%s  %s\n", titleStyle.Render("Overall"), progressBar(o.Overall))
	return b.String()
}

func renderSnapshot(s engine.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n\n", titleStyle.Render(fmt.Sprintf("%d %s", s.Participant.ID, s.Participant.Name)), progressBar(s.Progress))

	if len(s.Items) == 0 {
		b.WriteString(dimStyle.Render("No audio clips") + "\n")
		return b.String()
	}

	for _, item := range s.Items {
		fmt.Fprintf(&b, "  %-32s %s", item.Name, renderState(item))
		if !item.SavedAt.IsZero() {
			b.WriteString("  " + dimStyle.Render("saved "+humanize.Time(item.SavedAt)))
		}
		if item.LastError != nil {
			b.WriteString("  " + errorStyle.Render("not saved: "+item.LastError.Error()))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func renderState(item engine.ItemView) string {
	switch item.State {
	case engine.Rated:
		return ratedStyle.Render(fmt.Sprintf("%s %d", stars(item.Value), item.Value))
	case engine.Pending:
		return pendingStyle.Render(fmt.Sprintf("%s %d (saving)", stars(item.Tentative), item.Tentative))
	default:
		return dimStyle.Render(stars(0) + " -")
	}
}

func stars(n int) string {
	n = max(0, min(n, models.MaxRating))
	return strings.Repeat("★", n) + strings.Repeat("☆", models.MaxRating-n)
}
