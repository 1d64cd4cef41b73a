package tui

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/elclub/papyrus/internal/api"
	"github.com/elclub/papyrus/internal/colombia"
	"github.com/elclub/papyrus/internal/config"
	"github.com/elclub/papyrus/internal/form"
	"github.com/elclub/papyrus/internal/format"
	"github.com/elclub/papyrus/internal/listing"
	"github.com/elclub/papyrus/internal/notify"
	"github.com/elclub/papyrus/internal/state"
)

const (
	msgCopied        = "Copiado al portapapeles"
	msgCopyFailed    = "Error al copiar"
	msgLoggedOut     = "Sesión cerrada"
	msgLandlinePhone = "El teléfono no parece un celular colombiano"
)

// App ties together views.
type App struct {
	ctx      context.Context
	cfg      config.Config
	store    *state.Store
	services Services
	keys     keyMap
	mode     inputMode
	prompt   textinput.Model
	table    table.Model
	status   string
	tracked  string
	tracking map[string]any
	announce *announcement
}

// Services are the backends the UI drives.
type Services struct {
	// Packages lists packages from the plain client.
	Packages *listing.Controller[listing.Item]
	// Client is the tracked client used for lookups and submissions.
	Client *api.Client
	// Clipboard receives copied codes. Nil means the system clipboard.
	Clipboard func(string) error
}

type inputMode string

const (
	modeNormal   inputMode = ""
	modeSearch   inputMode = "search"
	modeSort     inputMode = "sort"
	modeTrack    inputMode = "track"
	modeAnnounce inputMode = "announce"
)

// Pages recorded in the store as the user moves around.
const (
	pagePackages = "packages"
	pageTracking = "tracking"
	pageAnnounce = "announce"
)

// announcement is an open announcement form. result is written by the
// form's success hook, which runs on the submit goroutine.
type announcement struct {
	form    *form.Form
	inputs  []textinput.Model
	focus   int
	sending bool
	result  map[string]any
}

func New(ctx context.Context, cfg config.Config, store *state.Store, services Services) *App {
	store.SetCurrentPage(pagePackages)
	if services.Clipboard == nil {
		services.Clipboard = clipboard.WriteAll
	}
	return &App{
		ctx:      ctx,
		cfg:      cfg,
		store:    store,
		services: services,
		keys:     newKeyMap(),
		table:    newPackageTable(),
	}
}

func (a *App) Init() tea.Cmd {
	return a.loadPackages()
}

func (a *App) loadPackages() tea.Cmd {
	return func() tea.Msg {
		if err := a.services.Packages.Load(a.ctx); err != nil {
			return errMsg{err}
		}
		return packagesMsg{}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.KeyMsg:
		switch a.mode {
		case modeSearch:
			return a.handleSearchKey(m)
		case modeSort, modeTrack:
			return a.handlePromptKey(m)
		case modeAnnounce:
			return a.handleAnnounceKey(m)
		}
		a.syncTable()
		switch {
		case key.Matches(m, a.keys.Quit):
			return a, tea.Quit
		case key.Matches(m, a.keys.Search):
			a.mode = modeSearch
			return a, a.openPrompt("Buscar: ", a.services.Packages.SearchTerm())
		case key.Matches(m, a.keys.Sort):
			a.mode = modeSort
			return a, a.openPrompt("Ordenar por columna: ", "")
		case key.Matches(m, a.keys.Track):
			a.mode = modeTrack
			a.store.SetCurrentPage(pageTracking)
			cmd := a.openPrompt("Número de seguimiento: ", "")
			a.prompt.Placeholder = format.TrackingNumber(colombia.Now())
			return a, cmd
		case key.Matches(m, a.keys.Announce):
			return a, a.openAnnouncement()
		case key.Matches(m, a.keys.Reload):
			a.status = "recargando..."
			return a, a.loadPackages()
		case key.Matches(m, a.keys.Up):
			a.table.MoveUp(1)
		case key.Matches(m, a.keys.Down):
			a.table.MoveDown(1)
		case key.Matches(m, a.keys.NextPage):
			a.services.Packages.NextPage()
			a.table.SetCursor(0)
		case key.Matches(m, a.keys.PrevPage):
			a.services.Packages.PrevPage()
			a.table.SetCursor(0)
		case key.Matches(m, a.keys.Copy):
			return a, a.copyCmd(a.selectedCode())
		case key.Matches(m, a.keys.Logout):
			a.logout()
		case key.Matches(m, a.keys.Dismiss):
			if n := a.store.Notifications(); len(n) > 0 {
				a.store.Bus().Dismiss(n[0].ID)
			}
		case key.Matches(m, a.keys.Save):
			return a, a.saveConfigCmd()
		case key.Matches(m, a.keys.Column):
			idx, _ := strconv.Atoi(m.String())
			if cols := a.columns(); idx >= 1 && idx <= len(cols) {
				a.services.Packages.Sort(cols[idx-1])
			}
		}
	case packagesMsg:
		a.status = fmt.Sprintf("%d paquetes", a.services.Packages.Len())
	case trackingMsg:
		a.tracking = map[string]any(m)
		a.status = ""
	case announcedMsg:
		a.closeAnnouncement()
		a.status = "anuncio registrado"
		if code := listing.Stringify(m["tracking_code"]); code != "" {
			a.status += ": " + code
		}
		return a, a.loadPackages()
	case announceFailedMsg:
		if a.announce != nil {
			a.announce.sending = false
		}
		a.status = "error: " + m.Error()
	case NotificationsChanged:
		// re-render only
	case statusMsg:
		a.status = string(m)
	case errMsg:
		a.status = "error: " + m.Error()
	}
	return a, nil
}

func (a *App) View() string {
	var body string
	switch a.mode {
	case modeTrack:
		body = a.renderTracking()
	case modeAnnounce:
		body = a.renderAnnouncement()
	default:
		body = a.renderPackages()
	}
	return a.renderHeader() + "\n" + body + "\n" + a.renderNotifications() + a.renderFooter()
}

// columns is the column set of the loaded packages; number keys index it.
func (a *App) columns() []string {
	return listing.Columns(a.services.Packages.Items())
}

func (a *App) openPrompt(label, value string) tea.Cmd {
	a.prompt = textinput.New()
	a.prompt.Prompt = label
	a.prompt.SetValue(value)
	return a.prompt.Focus()
}

func (a *App) handleSearchKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(m, a.keys.Cancel):
		a.prompt.SetValue("")
		a.services.Packages.Search("")
		a.mode = modeNormal
		return a, nil
	case key.Matches(m, a.keys.Confirm):
		a.mode = modeNormal
		return a, nil
	}
	var cmd tea.Cmd
	a.prompt, cmd = a.prompt.Update(m)
	a.services.Packages.Search(a.prompt.Value())
	return a, cmd
}

// handlePromptKey drives the single-line prompts: sort column and tracking
// number.
func (a *App) handlePromptKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case a.mode == modeTrack && key.Matches(m, a.keys.Copy):
		return a, a.copyCmd(a.trackedCode())
	case key.Matches(m, a.keys.Cancel):
		if a.mode == modeTrack {
			a.store.SetCurrentPage(pagePackages)
			a.tracking = nil
			a.tracked = ""
		}
		a.mode = modeNormal
		return a, nil
	case key.Matches(m, a.keys.Confirm):
		text := strings.TrimSpace(a.prompt.Value())
		if text == "" {
			a.status = "ingresa un valor"
			return a, nil
		}
		if a.mode == modeSort {
			a.mode = modeNormal
			col, ok := listing.ResolveColumn(a.columns(), text)
			if !ok {
				a.status = "columna desconocida: " + text
				return a, nil
			}
			a.services.Packages.Sort(col)
			_, dir := a.services.Packages.SortState()
			a.status = fmt.Sprintf("ordenado por %s (%s)", col, dir)
			return a, nil
		}
		code := strings.ToUpper(format.SanitizeSearchTerm(text))
		if !format.ValidTrackingNumber(code) {
			a.status = "número de seguimiento inválido: " + code
			return a, nil
		}
		a.status = "buscando " + code + "..."
		a.tracked = code
		a.tracking = nil
		return a, a.trackCmd(code)
	}
	var cmd tea.Cmd
	a.prompt, cmd = a.prompt.Update(m)
	return a, cmd
}

func (a *App) openAnnouncement() tea.Cmd {
	ann := &announcement{}
	ann.form = form.New(a.services.Client, a.store.Bus(), form.Config{
		Endpoint:  a.cfg.API.AnnouncementsPath,
		Validate:  form.AnnouncementValidator,
		OnSuccess: func(r map[string]any) { ann.result = r },
	})
	for _, field := range form.AnnouncementFields {
		inp := textinput.New()
		inp.Prompt = fmt.Sprintf("%-10s ", fieldLabels[field])
		ann.inputs = append(ann.inputs, inp)
	}
	a.announce = ann
	a.mode = modeAnnounce
	a.store.SetCurrentPage(pageAnnounce)
	return ann.inputs[0].Focus()
}

func (a *App) closeAnnouncement() {
	a.announce = nil
	a.mode = modeNormal
	a.store.SetCurrentPage(pagePackages)
}

// move shifts the focused field by dir, wrapping around.
func (ann *announcement) move(dir int) tea.Cmd {
	ann.inputs[ann.focus].Blur()
	ann.focus = (ann.focus + dir + len(ann.inputs)) % len(ann.inputs)
	return ann.inputs[ann.focus].Focus()
}

func (a *App) handleAnnounceKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	ann := a.announce
	if ann.sending {
		return a, nil
	}
	switch {
	case key.Matches(m, a.keys.Cancel):
		a.closeAnnouncement()
		return a, nil
	case key.Matches(m, a.keys.NextField):
		return a, ann.move(1)
	case key.Matches(m, a.keys.PrevField):
		return a, ann.move(-1)
	case key.Matches(m, a.keys.Confirm):
		if ann.focus < len(ann.inputs)-1 {
			return a, ann.move(1)
		}
		normalized := form.NormalizeAnnouncement(ann.form.Data())
		for i, field := range form.AnnouncementFields {
			ann.form.Set(field, normalized[field])
			ann.inputs[i].SetValue(listing.Stringify(normalized[field]))
		}
		if !ann.form.Validate() {
			a.status = "revisa los campos del formulario"
			return a, nil
		}
		if !format.ValidColombianPhone(listing.Stringify(normalized[form.FieldPhoneNumber])) {
			a.store.Notify(msgLandlinePhone, notify.Warning)
		}
		ann.sending = true
		a.status = "enviando..."
		return a, a.submitAnnouncementCmd(ann)
	}
	var cmd tea.Cmd
	ann.inputs[ann.focus], cmd = ann.inputs[ann.focus].Update(m)
	ann.form.Set(form.AnnouncementFields[ann.focus], ann.inputs[ann.focus].Value())
	return a, cmd
}

// selectedCode is the tracking code of the highlighted package row, or its
// guide number when it has none.
func (a *App) selectedCode() string {
	rows := a.services.Packages.Paginated()
	i := a.table.Cursor()
	if i < 0 || i >= len(rows) {
		return ""
	}
	if code := listing.Stringify(rows[i]["tracking_code"]); code != "" {
		return code
	}
	return listing.Stringify(rows[i]["guide_number"])
}

// trackedCode is the code shown in the tracking view once a lookup succeeded.
func (a *App) trackedCode() string {
	if a.tracking == nil {
		return ""
	}
	if code := listing.Stringify(a.tracking["tracking_code"]); code != "" {
		return code
	}
	return a.tracked
}

func (a *App) logout() {
	if !a.store.IsAuthenticated() {
		a.status = "no hay sesión activa"
		return
	}
	a.store.Logout()
	a.store.SetCurrentPage(pagePackages)
	a.store.Notify(msgLoggedOut, notify.Info)
	a.status = "sesión cerrada"
}

// commands
func (a *App) copyCmd(code string) tea.Cmd {
	if code == "" {
		a.status = "nada que copiar"
		return nil
	}
	write := a.services.Clipboard
	return func() tea.Msg {
		if err := write(code); err != nil {
			log.Printf("clipboard: %v", err)
			a.store.Notify(msgCopyFailed, notify.Error)
			return statusMsg("no se pudo copiar " + code)
		}
		a.store.Notify(msgCopied, notify.Success)
		return statusMsg("copiado: " + code)
	}
}

func (a *App) trackCmd(code string) tea.Cmd {
	path := strings.TrimRight(a.cfg.API.TrackingPath, "/") + "/" + url.PathEscape(code) + "/"
	return func() tea.Msg {
		obj, err := a.services.Client.FetchObject(a.ctx, path)
		if err != nil {
			return errMsg{err}
		}
		if inner, ok := obj["data"].(map[string]any); ok {
			obj = inner
		}
		return trackingMsg(obj)
	}
}

func (a *App) submitAnnouncementCmd(ann *announcement) tea.Cmd {
	return func() tea.Msg {
		if err := ann.form.Submit(a.ctx); err != nil {
			return announceFailedMsg{err}
		}
		return announcedMsg(ann.result)
	}
}

func (a *App) saveConfigCmd() tea.Cmd {
	cfg := a.cfg
	cfg.UI.SortBy, _ = a.services.Packages.SortState()
	cfg.UI.ItemsPerPage = a.services.Packages.ItemsPerPage()
	return func() tea.Msg {
		if err := config.Save(cfg); err != nil {
			return errMsg{err}
		}
		return statusMsg("configuración guardada en " + config.Path())
	}
}

type packagesMsg struct{}

type trackingMsg map[string]any

type announcedMsg map[string]any

type announceFailedMsg struct{ error }

// NotificationsChanged tells the program the notification bus changed.
// cmd/papyrus sends it from the bus change hook.
type NotificationsChanged struct{}

type statusMsg string

type errMsg struct{ error }
