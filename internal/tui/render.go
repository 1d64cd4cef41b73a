package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/elclub/papyrus/internal/colombia"
	"github.com/elclub/papyrus/internal/form"
	"github.com/elclub/papyrus/internal/format"
	"github.com/elclub/papyrus/internal/listing"
	"github.com/elclub/papyrus/internal/notify"
)

const (
	cellWidth  = 22
	valueWidth = 60
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorText    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	loadingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Italic(true)
	activeField  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
)

var severityStyles = map[notify.Severity]lipgloss.Style{
	notify.Info:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	notify.Success: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	notify.Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	notify.Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
}

var fieldLabels = map[string]string{
	form.FieldCustomerName: "Cliente",
	form.FieldPhoneNumber:  "Teléfono",
	form.FieldGuideNumber:  "Guía",
}

func newPackageTable() table.Model {
	t := table.New(table.WithFocused(true))
	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).Foreground(lipgloss.Color("12"))
	styles.Selected = styles.Selected.Bold(true)
	t.SetStyles(styles)
	return t
}

func (a *App) renderHeader() string {
	title := titleStyle.Render("PAPYRUS - Paquetes El Club")
	if a.store.IsAuthenticated() {
		u, _ := a.store.User()
		name := u.FullName
		if name == "" {
			name = u.Username
		}
		title += mutedStyle.Render(fmt.Sprintf("  %s (%s)", name, a.store.Role()))
	} else {
		title += mutedStyle.Render("  sin sesión")
	}
	title += mutedStyle.Render("  " + colombia.FormatDateTime(colombia.Now()))
	if a.store.Loading() || a.services.Packages.State() == listing.Loading {
		title += "  " + loadingStyle.Render("cargando...")
	}
	return title
}

func (a *App) renderPackages() string {
	list := a.services.Packages
	cols := a.columns()
	if list.State() == listing.Uninitialized {
		return "\n" + mutedStyle.Render("sin datos")
	}
	if len(cols) == 0 {
		return "\n" + mutedStyle.Render("no hay paquetes")
	}

	var b strings.Builder
	rows := a.syncTable()
	b.WriteString(a.table.View() + "\n")
	if len(rows) == 0 {
		b.WriteString(mutedStyle.Render("ningún paquete coincide con la búsqueda") + "\n")
	}

	footer := fmt.Sprintf("Página %d/%d  ·  %d de %d paquetes", list.Page(), list.TotalPages(), list.Len(), len(list.Items()))
	if term := list.SearchTerm(); term != "" || a.mode == modeSearch {
		footer += fmt.Sprintf("  ·  búsqueda: %q", term)
	}
	b.WriteString(mutedStyle.Render(footer))
	if a.mode == modeSort || a.mode == modeSearch {
		b.WriteString("\n" + a.prompt.View())
	}
	return b.String()
}

// syncTable loads the current page into the table, keeping the cursor,
// and returns that page.
func (a *App) syncTable() []listing.Item {
	cols := a.columns()
	items := a.services.Packages.Paginated()
	sortBy, dir := a.services.Packages.SortState()
	columns := make([]table.Column, len(cols))
	for i, col := range cols {
		title := col
		if i < 9 {
			title = fmt.Sprintf("%d:%s", i+1, col)
		}
		if col == sortBy {
			if dir == listing.Desc {
				title += " ▼"
			} else {
				title += " ▲"
			}
		}
		columns[i] = table.Column{Title: title, Width: cellWidth}
	}
	rows := make([]table.Row, len(items))
	for i, item := range items {
		row := make(table.Row, len(cols))
		for j, col := range cols {
			row[j] = cellText(col, item[col], false)
		}
		rows[i] = row
	}

	a.table.SetColumns(columns)
	a.table.SetRows(rows)
	a.table.SetWidth(len(cols) * (cellWidth + 2))
	a.table.SetHeight(len(rows) + 3)
	switch c := a.table.Cursor(); {
	case len(rows) == 0:
	case c < 0:
		a.table.SetCursor(0)
	case c >= len(rows):
		a.table.SetCursor(len(rows) - 1)
	}
	return items
}

func (a *App) renderTracking() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Rastrear paquete") + "\n")
	b.WriteString(a.prompt.View() + "\n")
	if a.tracking == nil {
		return b.String()
	}
	b.WriteString("\n")
	if st := listing.Stringify(a.tracking["status"]); st != "" {
		b.WriteString(format.StatusIcon(st) + " " + headerStyle.Render(format.StatusLabel(st)) + "\n")
	}
	keys := make([]string, 0, len(a.tracking))
	for k := range a.tracking {
		if k != "status" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "%-20s %s\n", k, truncate(cellText(k, a.tracking[k], true), valueWidth))
	}
	b.WriteString("\n" + helpLine(a.keys.TrackHelp()))
	return b.String()
}

func (a *App) renderAnnouncement() string {
	ann := a.announce
	var b strings.Builder
	b.WriteString(titleStyle.Render("Anunciar paquete") + "\n")
	errs := ann.form.Errors()
	for i, field := range form.AnnouncementFields {
		marker := "  "
		if i == ann.focus {
			marker = activeField.Render("> ")
		}
		b.WriteString(marker + ann.inputs[i].View() + "\n")
		if msg, ok := errs[field]; ok {
			b.WriteString("    " + errorText.Render(msg) + "\n")
		}
	}
	if ann.sending {
		b.WriteString(loadingStyle.Render("enviando...") + "\n")
	}
	b.WriteString(helpLine(a.keys.FormHelp()))
	return b.String()
}

func (a *App) renderNotifications() string {
	items := a.store.Notifications()
	if len(items) == 0 {
		return ""
	}
	var b strings.Builder
	for _, n := range items {
		style, ok := severityStyles[n.Severity]
		if !ok {
			style = severityStyles[notify.Info]
		}
		b.WriteString(style.Render(fmt.Sprintf("[%s] %s", n.Severity, n.Message)))
		b.WriteString(mutedStyle.Render("  " + colombia.FormatTimeOnly(n.CreatedAt)))
		b.WriteString("\n")
	}
	return b.String()
}

func (a *App) renderFooter() string {
	out := ""
	if a.status != "" {
		out += a.status + "\n"
	}
	return out + helpLine(a.keys.ShortHelp())
}

// helpLine renders bindings as "[key] desc" pairs.
func helpLine(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, fmt.Sprintf("[%s] %s", h.Key, h.Desc))
	}
	return mutedStyle.Render(strings.Join(parts, "  "))
}

// cellText renders one field value for display. Timestamps use the long
// es-CO form when full is set and "15/1/2024 10:30 a. m." otherwise;
// values that are not timestamps are shown as they are.
func cellText(column string, v any, full bool) string {
	if v == nil {
		return ""
	}
	col := strings.ToLower(column)
	switch {
	case col == "status":
		s := listing.Stringify(v)
		return format.StatusIcon(s) + " " + format.StatusLabel(s)
	case strings.HasSuffix(col, "_at") || strings.HasSuffix(col, "_date") || col == "date":
		t, err := colombia.ToColombiaLocal(v)
		if err != nil {
			return listing.Stringify(v)
		}
		if full {
			return colombia.FormatDateTime(t)
		}
		return format.Date(t, "short") + " " + colombia.FormatTimeOnly(t)
	case strings.Contains(col, "phone"):
		s := listing.Stringify(v)
		switch {
		case format.ValidColombianPhone(s):
			return format.ColombianPhone(s)
		case format.ValidPhone(s):
			return format.Phone(s)
		}
		return s
	case strings.Contains(col, "email"):
		s := listing.Stringify(v)
		if s != "" && !format.ValidEmail(s) {
			return s + " ⚠"
		}
		return s
	case strings.Contains(col, "price") || strings.Contains(col, "amount") || strings.Contains(col, "cost"):
		if f, ok := v.(float64); ok {
			return format.Currency(f, "COP")
		}
	}
	return listing.Stringify(v)
}

func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "…")
}
