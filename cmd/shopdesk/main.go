// Command shopdesk is the counter terminal for the tailor shop server: customer
// lookup with the measurement sidebar, and the monthly bills screen.
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"tailorshop/internal/config"
	"tailorshop/internal/ui/shopapi"
)

func main() {
	if err := config.LoadEnv(); err != nil {
		log.Fatalf("failed to load .env: %v", err)
	}
	configPath := os.Getenv("TAILORSHOP_CONFIG")
	if configPath == "" {
		if _, err := os.Stat("tailorshop.yaml"); err == nil {
			configPath = "tailorshop.yaml"
		}
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if url := os.Getenv("TAILORSHOP_URL"); url != "" {
		cfg.Client.BaseURL = url
	}

	// The alternate screen owns the terminal, so logs go to a file or nowhere.
	if path := os.Getenv("TAILORSHOP_DESK_LOG"); path != "" {
		f, err := tea.LogToFile(path, "shopdesk")
		if err != nil {
			log.Fatalf("failed to open log file: %v", err)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	client := shopapi.New(cfg.Client.BaseURL, nil)
	sched := &loopScheduler{}
	p := tea.NewProgram(newModel(client, cfg.Shop.Name, cfg.Shop.Currency, sched, time.Now), tea.WithAltScreen())
	sched.attach(p)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "shopdesk: %v\n", err)
		os.Exit(1)
	}
}
