// Package pages holds the Avala views as templ components backed by
// embedded html/template files sharing one layout.
package pages

import (
	"embed"
	"html/template"
	"time"

	"github.com/a-h/templ"

	"github.com/PauloHFS/avala/internal/flags"
	"github.com/PauloHFS/avala/internal/view"
)

//go:embed templates/*.html
var templateFS embed.FS

var (
	dashboardTmpl = parse("dashboard.html")
	flagsTmpl     = parse("flags.html")
	submitTmpl    = parse("submit.html")
	notFoundTmpl  = parse("notfound.html")
)

func parse(page string) *template.Template {
	return template.Must(template.New("layout.html").ParseFS(templateFS, "templates/layout.html", "templates/"+page))
}

// Page is the layout model shared by every view.
type Page struct {
	Title     string
	Nav       []view.NavItem
	Player    string
	AssetsURL string
	EventsURL string // live updates, empty to disable
	Flash     string
	Content   any
}

type DashboardData struct {
	Overview    flags.Overview
	Started     bool
	NextTick    time.Time
	MaxAccepted int
}

type FlagsData struct {
	Action      string
	Filter      flags.Filter
	Flags       []flags.Flag
	Pagination  view.Pagination
	PageURLs    map[int]string
	Statuses    []flags.Status
	ShowOptions []int
	Error       string
}

type SubmitData struct {
	Action     string
	CSRFToken  string
	FlagFormat string
	Text       string
	Error      string
}

type NotFoundData struct {
	Path  string
	Links []view.NavItem
}

func Dashboard(p Page, d DashboardData) templ.Component {
	p.Content = d
	return templ.FromGoHTML(dashboardTmpl, p)
}

func Flags(p Page, d FlagsData) templ.Component {
	p.Content = d
	return templ.FromGoHTML(flagsTmpl, p)
}

func Submit(p Page, d SubmitData) templ.Component {
	p.Content = d
	return templ.FromGoHTML(submitTmpl, p)
}

func NotFound(p Page, d NotFoundData) templ.Component {
	p.Content = d
	return templ.FromGoHTML(notFoundTmpl, p)
}
