package cmd

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"text/tabwriter"

	"github.com/PauloHFS/avala/internal/config"
	"github.com/PauloHFS/avala/internal/routes"
)

// RunRoutes imprime a tabela de rotas resolvida para o BASE_PATH atual.
func RunRoutes() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	if err := printRoutes(os.Stdout, cfg.BasePath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func printRoutes(out io.Writer, base string) error {
	noop := routes.ViewFunc(func(http.ResponseWriter, *http.Request) error { return nil })
	table := routes.Build(base, routes.Views{Dashboard: noop, Flags: noop, Submit: noop})

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tPATH\tURL")
	for _, d := range table.Entries() {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", d.Name, d.Path, table.URL(d.Name))
	}
	return tw.Flush()
}
