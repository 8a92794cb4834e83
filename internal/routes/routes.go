package routes

// Nomes simbólicos das views de navegação.
const (
	DashboardName = "dashboard"
	FlagsName     = "flags"
	SubmitName    = "submit"
)

// View paths, relative to the base path.
const (
	Dashboard = "/"
	Flags     = "/flags"
	Submit    = "/submit"
)

// Infrastructure endpoints. Events and Assets live under the base path,
// Health and Metrics are always served from the domain root.
const (
	Events  = "/events"
	Assets  = "/assets/"
	Health  = "/health"
	Metrics = "/metrics"
)

// Views holds the renderable units mounted by the Avala route table.
type Views struct {
	Dashboard View
	Flags     View
	Submit    View
}

// Build returns the Avala route table anchored at base. It panics with a
// *ConfigurationError if the table ever stops satisfying its invariants.
func Build(base string, v Views) *Table {
	return MustNew(base,
		Descriptor{Path: Dashboard, Name: DashboardName, View: v.Dashboard},
		Descriptor{Path: Flags, Name: FlagsName, View: v.Flags},
		Descriptor{Path: Submit, Name: SubmitName, View: v.Submit},
	)
}
