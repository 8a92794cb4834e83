package benchmarks

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/PauloHFS/avala/internal/db"
	"github.com/PauloHFS/avala/internal/flags"
	"github.com/PauloHFS/avala/internal/routes"
	"github.com/PauloHFS/avala/internal/view"
	"github.com/PauloHFS/avala/internal/view/pages"
)

const driverName = "sqlite3"

// setupStore abre um banco em disco (WAL de verdade) com seed de flags.
func setupStore(b *testing.B, poolMode string, seed int) *flags.Store {
	var opts []func(*db.PoolConfig)
	if poolMode == "single" {
		opts = append(opts, db.WithReadPoolSize(1, 1))
	}

	pool, err := db.NewDualPool(driverName, filepath.Join(b.TempDir(), "bench.db"), opts...)
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() { pool.Close() })

	ctx := context.Background()
	if err := db.RunMigrations(ctx, pool.Write); err != nil {
		b.Fatal(err)
	}

	store := flags.NewStore(pool.Read, pool.Write)
	const batch = 500
	for i := 0; i < seed; i += batch {
		values := make([]string, 0, batch)
		for j := i; j < min(i+batch, seed); j++ {
			values = append(values, fmt.Sprintf("SEED%027d=", j))
		}
		if _, err := store.Enqueue(ctx, flags.Submission{
			Values: values, Exploit: fmt.Sprintf("exploit%d", i%7), Target: "10.0.0.2", Player: "bench", Tick: i/batch + 1,
		}); err != nil {
			b.Fatal(err)
		}
	}
	return store
}

func BenchmarkTableMatch(b *testing.B) {
	noop := routes.ViewFunc(func(http.ResponseWriter, *http.Request) error { return nil })
	paths := []string{"/avala/", "/avala/flags", "/avala/submit/", "/avala/unknown", "/other"}

	for _, base := range []string{"", "/avala"} {
		table := routes.Build(base, routes.Views{Dashboard: noop, Flags: noop, Submit: noop})
		b.Run("base="+base, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_, _ = table.Match(paths[i%len(paths)])
			}
		})
	}
}

func BenchmarkEnqueue(b *testing.B) {
	store := setupStore(b, "dual", 0)
	ctx := context.Background()
	lat := NewLatencies(b.N)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		values := make([]string, 10)
		for j := range values {
			values[j] = fmt.Sprintf("B%09dX%020d=", i, j)
		}
		lat.Time(func() {
			if _, err := store.Enqueue(ctx, flags.Submission{
				Values: values, Exploit: flags.ManualExploit, Target: flags.UnknownTarget, Player: "bench", Tick: 1,
			}); err != nil {
				b.Fatal(err)
			}
		})
	}
	lat.Report(b)
}

func benchmarkSearch(b *testing.B, poolMode string) {
	store := setupStore(b, poolMode, 5000)
	filter := flags.Filter{Exploit: "exploit3"}

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		ctx := context.Background()
		for pb.Next() {
			if _, err := store.Search(ctx, filter, db.PagingParams{Page: 2, PerPage: 25}); err != nil {
				b.Error(err)
			}
		}
	})
}

func BenchmarkSearch_Single(b *testing.B) { benchmarkSearch(b, "single") }
func BenchmarkSearch_Dual(b *testing.B)   { benchmarkSearch(b, "dual") }

func BenchmarkReadWriteMix(b *testing.B) {
	store := setupStore(b, "dual", 1000)
	var seq atomic.Int64

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		ctx := context.Background()
		for pb.Next() {
			// 80% leitura, 20% escrita
			n := seq.Add(1)
			if n%5 == 0 {
				_, err := store.Enqueue(ctx, flags.Submission{
					Values: []string{fmt.Sprintf("MIX%028d=", n)}, Exploit: "mix", Target: "10.0.0.9", Player: "bench", Tick: 2,
				})
				if err != nil {
					b.Error(err)
				}
				continue
			}
			if _, err := store.DashboardStats(ctx, 10*time.Minute); err != nil {
				b.Error(err)
			}
		}
	})
}

func BenchmarkDashboardRendering(b *testing.B) {
	store := setupStore(b, "dual", 2000)
	cache := flags.NewStatsCache(store, 10*time.Minute, time.Minute)
	ctx := context.Background()

	p := pages.Page{Title: "Dashboard", Nav: []view.NavItem{{Name: routes.DashboardName, Title: "Dashboard", URL: "/", Active: true}}}

	for _, cached := range []bool{false, true} {
		b.Run(fmt.Sprintf("cached=%v", cached), func(b *testing.B) {
			lat := NewLatencies(b.N)
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if !cached {
					cache.Invalidate()
				}
				lat.Time(func() {
					overview, err := cache.Overview(ctx, 4)
					if err != nil {
						b.Fatal(err)
					}
					w := httptest.NewRecorder()
					_ = pages.Dashboard(p, pages.DashboardData{Overview: overview, Started: true}).Render(ctx, w)
				})
			}
			lat.Report(b)
		})
	}
}
