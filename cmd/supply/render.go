package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hpungsan/supply/internal/list"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	onListStyle  = lipgloss.NewStyle().Bold(true)

	boxChecked   = "☑"
	boxUnchecked = "☐"
)

// swatch renders a colored block for a category's hex color.
func swatch(color string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("■")
}

func printOK(w io.Writer, msg string) {
	fmt.Fprintln(w, successStyle.Render("✔ "+msg))
}

// renderSections prints items grouped by category. With showFlag, each item
// carries a box showing whether it is on the shopping list.
func renderSections(w io.Writer, secs []list.Section, showFlag bool) {
	if len(secs) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No items."))
		return
	}
	for i, sec := range secs {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s %s %s\n", swatch(sec.Color), titleStyle.Render(sec.Name), mutedStyle.Render(fmt.Sprintf("(%d)", sec.Count)))
		for _, it := range sec.Items {
			name := it.Name
			prefix := "  •"
			if showFlag {
				prefix = "  " + boxUnchecked
				if it.IsOnShoppingList {
					prefix = "  " + boxChecked
					name = onListStyle.Render(name)
				}
			}
			fmt.Fprintf(w, "%s %s %s\n", prefix, name, mutedStyle.Render(it.ID))
			if notes := strings.TrimSpace(it.Notes); notes != "" {
				for _, line := range strings.Split(notes, "\n") {
					fmt.Fprintf(w, "      %s\n", mutedStyle.Render(line))
				}
			}
		}
	}
}

func renderCategories(w io.Writer, cats []list.CategorySummary) {
	if len(cats) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No categories."))
		return
	}
	for _, cat := range cats {
		fmt.Fprintf(w, "%s %s %s\n", swatch(cat.Color), titleStyle.Render(fmt.Sprintf("%-20s", cat.Name)),
			mutedStyle.Render(fmt.Sprintf("id=%s order=%d items=%d", cat.ID, cat.SortOrder, cat.ItemCount)))
	}
}

func renderSummary(w io.Writer, s list.Summary) {
	modified := "never"
	if !s.LastModified.IsZero() {
		modified = s.LastModified.UTC().Format("2006-01-02 15:04")
	}
	rows := [][2]string{
		{"Categories", fmt.Sprint(s.Categories)},
		{"Items", fmt.Sprint(s.TotalItems)},
		{"On shopping list", fmt.Sprint(s.ShoppingItems)},
		{"Last modified", modified},
		{"Format version", s.Version},
	}
	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, mutedStyle.Render(fmt.Sprintf("%-17s", r[0]))+" "+r[1])
	}
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(0, 1)
	fmt.Fprintln(w, border.Render(strings.Join(lines, "\n")))
}
