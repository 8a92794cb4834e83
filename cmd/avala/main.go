package main

import (
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"github.com/PauloHFS/avala/internal/cmd"
	"github.com/PauloHFS/avala/web/static/assets"
)

func main() {
	if len(os.Args) < 2 {
		cmd.RunServer(assets.FS)
		return
	}

	switch os.Args[1] {
	case "server":
		cmd.RunServer(assets.FS)
	case "migrate":
		cmd.RunMigrate()
	case "routes":
		cmd.RunRoutes()
	case "help":
		showHelp()
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		showHelp()
		os.Exit(1)
	}
}

func showHelp() {
	fmt.Println("Avala - flag submission web UI")
	fmt.Println("Usage: ./avala [command]")
	fmt.Println("\nAvailable commands:")
	fmt.Println("  server   Start the web server (default)")
	fmt.Println("  migrate  Run database migrations")
	fmt.Println("  routes   Print the route table for BASE_PATH")
	fmt.Println("  help     Show this help message")
}
