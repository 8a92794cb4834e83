package routes

import (
	"errors"
	"net/http"
	"reflect"
	"testing"
)

func stubView(name string) View {
	return ViewFunc(func(w http.ResponseWriter, r *http.Request) error {
		_, err := w.Write([]byte(name))
		return err
	})
}

func testViews() Views {
	return Views{
		Dashboard: stubView("dashboard"),
		Flags:     stubView("flags"),
		Submit:    stubView("submit"),
	}
}

func TestBuild(t *testing.T) {
	table := Build("", testViews())

	t.Run("ExactlyThreeEntries", func(t *testing.T) {
		if table.Len() != 3 {
			t.Fatalf("expected 3 entries, got %d", table.Len())
		}
	})

	t.Run("DistinctPathsAndNames", func(t *testing.T) {
		paths := map[string]bool{}
		names := map[string]bool{}
		for _, d := range table.Entries() {
			if paths[d.Path] {
				t.Errorf("duplicate path %s", d.Path)
			}
			if names[d.Name] {
				t.Errorf("duplicate name %s", d.Name)
			}
			paths[d.Path] = true
			names[d.Name] = true
		}
	})

	t.Run("Idempotent", func(t *testing.T) {
		other := Build("", testViews())
		a, b := table.Entries(), other.Entries()
		for i := range a {
			if a[i].Path != b[i].Path || a[i].Name != b[i].Name {
				t.Errorf("entry %d differs: %+v vs %+v", i, a[i], b[i])
			}
		}
		if table.Base() != other.Base() {
			t.Errorf("base differs: %q vs %q", table.Base(), other.Base())
		}
	})

	t.Run("EntriesIsACopy", func(t *testing.T) {
		entries := table.Entries()
		entries[0].Name = "mutated"
		if d, _ := table.ByPath("/"); d.Name != DashboardName {
			t.Errorf("table was mutated through Entries(): %s", d.Name)
		}
	})
}

func TestLookups(t *testing.T) {
	table := Build("", testViews())

	want := []struct {
		name string
		path string
	}{
		{"dashboard", "/"},
		{"flags", "/flags"},
		{"submit", "/submit"},
	}

	for i, tt := range want {
		t.Run(tt.name, func(t *testing.T) {
			byName, ok := table.ByName(tt.name)
			if !ok {
				t.Fatalf("name %s not found", tt.name)
			}
			if byName.Path != tt.path {
				t.Errorf("ByName(%s).Path = %s, want %s", tt.name, byName.Path, tt.path)
			}

			byPath, ok := table.ByPath(tt.path)
			if !ok {
				t.Fatalf("path %s not found", tt.path)
			}
			if byPath.Name != tt.name {
				t.Errorf("ByPath(%s).Name = %s, want %s", tt.path, byPath.Name, tt.name)
			}

			if got := table.Entries()[i].Name; got != tt.name {
				t.Errorf("entry %d = %s, want %s", i, got, tt.name)
			}
		})
	}

	if _, ok := table.ByName("unknown"); ok {
		t.Error("unexpected descriptor for unknown name")
	}
}

func TestMatch(t *testing.T) {
	tests := []struct {
		base     string
		path     string
		wantName string
		wantOK   bool
	}{
		{"", "/", "dashboard", true},
		{"", "/flags", "flags", true},
		{"", "/flags/", "flags", true},
		{"", "/submit", "submit", true},
		{"", "/unknown", "", false},
		{"", "/flags/extra", "", false},
		{"/avala", "/avala/flags", "flags", true},
		{"/avala", "/avala", "dashboard", true},
		{"/avala", "/avala/", "dashboard", true},
		{"/avala", "/flags", "", false},
		{"/avala", "/avalanche/flags", "", false},
		{"avala/", "/avala/submit", "submit", true},
	}

	for _, tt := range tests {
		t.Run(tt.base+tt.path, func(t *testing.T) {
			table := Build(tt.base, testViews())
			d, ok := table.Match(tt.path)
			if ok != tt.wantOK {
				t.Fatalf("Match(%s) ok = %v, want %v", tt.path, ok, tt.wantOK)
			}
			if d.Name != tt.wantName {
				t.Errorf("Match(%s) = %s, want %s", tt.path, d.Name, tt.wantName)
			}
		})
	}
}

func TestURL(t *testing.T) {
	root := Build("", testViews())
	if got := root.URL(FlagsName); got != "/flags" {
		t.Errorf("URL(flags) = %s, want /flags", got)
	}
	if got := root.URL(DashboardName); got != "/" {
		t.Errorf("URL(dashboard) = %s, want /", got)
	}

	sub := Build("/avala/", testViews())
	if got := sub.URL(SubmitName); got != "/avala/submit" {
		t.Errorf("URL(submit) = %s, want /avala/submit", got)
	}
	if got := sub.URL(DashboardName); got != "/avala/" {
		t.Errorf("URL(dashboard) = %s, want /avala/", got)
	}
	if got := sub.URL("nope"); got != "" {
		t.Errorf("URL(nope) = %s, want empty", got)
	}
}

func TestNormalizeBase(t *testing.T) {
	tests := map[string]string{
		"":         "",
		"/":        "",
		"  ":       "",
		"avala":    "/avala",
		"/avala/":  "/avala",
		"/a/b///":  "/a/b",
		"/already": "/already",
	}
	for in, want := range tests {
		if got := NormalizeBase(in); got != want {
			t.Errorf("NormalizeBase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNewConfigurationError(t *testing.T) {
	v := stubView("x")

	_, err := New("",
		Descriptor{Path: "/", Name: "home", View: v},
		Descriptor{Path: "/", Name: "root", View: v},
		Descriptor{Path: "/a", Name: "home", View: v},
		Descriptor{Path: "/b", Name: "home", View: v},
		Descriptor{Path: "no-slash", Name: "bad", View: v},
		Descriptor{Path: "/c", Name: "", View: v},
		Descriptor{Path: "/d", Name: "noview"},
	)

	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *ConfigurationError, got %v", err)
	}
	if !reflect.DeepEqual(cfgErr.Paths, []string{"/"}) {
		t.Errorf("Paths = %v, want [/]", cfgErr.Paths)
	}
	if !reflect.DeepEqual(cfgErr.Names, []string{"home"}) {
		t.Errorf("Names = %v, want [home]", cfgErr.Names)
	}
	if len(cfgErr.Invalid) != 3 {
		t.Errorf("expected 3 invalid descriptors, got %v", cfgErr.Invalid)
	}
	if err.Error() == "" {
		t.Error("expected a message")
	}
}

func TestMustNewPanics(t *testing.T) {
	defer func() {
		r := recover()
		if _, ok := r.(*ConfigurationError); !ok {
			t.Errorf("expected panic with *ConfigurationError, got %v", r)
		}
	}()
	v := stubView("x")
	MustNew("", Descriptor{Path: "/", Name: "a", View: v}, Descriptor{Path: "/", Name: "b", View: v})
}

func TestRegister(t *testing.T) {
	t.Cleanup(func() { current.Store(nil) })
	current.Store(nil)

	if Current() != nil {
		t.Fatal("expected no table before Register")
	}

	table := Build("", testViews())
	if err := Register(table); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if Current() != table {
		t.Error("Current() did not return the registered table")
	}
	if err := Register(Build("", testViews())); !errors.Is(err, ErrAlreadyRegistered) {
		t.Errorf("expected ErrAlreadyRegistered, got %v", err)
	}
	if err := Register(nil); err == nil {
		t.Error("expected error registering nil table")
	}
}
