package view

import (
	"context"

	"github.com/PauloHFS/avala/internal/contextkeys"
	"github.com/PauloHFS/avala/internal/routes"
)

// CSRFToken retorna o token do contexto
func CSRFToken(ctx context.Context) string {
	if token, ok := ctx.Value(contextkeys.CSRFTokenKey).(string); ok {
		return token
	}
	return ""
}

// WithRoutes stores the table used for symbolic links in ctx.
func WithRoutes(ctx context.Context, t *routes.Table) context.Context {
	return context.WithValue(ctx, contextkeys.RoutesKey, t)
}

// WithCurrentRoute marks d as the route being rendered.
func WithCurrentRoute(ctx context.Context, d routes.Descriptor) context.Context {
	return context.WithValue(ctx, contextkeys.RouteKey, d)
}

// Routes returns the table from ctx, falling back to the registered one.
func Routes(ctx context.Context) *routes.Table {
	if t, ok := ctx.Value(contextkeys.RoutesKey).(*routes.Table); ok {
		return t
	}
	return routes.Current()
}

func CurrentRoute(ctx context.Context) (routes.Descriptor, bool) {
	d, ok := ctx.Value(contextkeys.RouteKey).(routes.Descriptor)
	return d, ok
}

// URL resolves a route name against the table in ctx.
func URL(ctx context.Context, name string) string {
	t := Routes(ctx)
	if t == nil {
		return ""
	}
	return t.URL(name)
}

var titles = map[string]string{
	routes.DashboardName: "Dashboard",
	routes.FlagsName:     "Flags",
	routes.SubmitName:    "Manual submission",
}

func Title(name string) string {
	if t, ok := titles[name]; ok {
		return t
	}
	return name
}

type NavItem struct {
	Name   string
	Title  string
	URL    string
	Active bool
}

// Nav lists every route of the table in declaration order.
func Nav(ctx context.Context) []NavItem {
	t := Routes(ctx)
	if t == nil {
		return nil
	}
	current, _ := CurrentRoute(ctx)

	entries := t.Entries()
	items := make([]NavItem, 0, len(entries))
	for _, d := range entries {
		items = append(items, NavItem{
			Name:   d.Name,
			Title:  Title(d.Name),
			URL:    t.URL(d.Name),
			Active: d.Name == current.Name,
		})
	}
	return items
}
