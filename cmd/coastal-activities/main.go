package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ngmaloney/coastal-activities/internal/app"
	"github.com/ngmaloney/coastal-activities/internal/config"
	"github.com/ngmaloney/coastal-activities/internal/ui"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file")
	location := flag.String("location", "", "Location to load directly (zipcode, city, state or lat,lon)")
	persona := flag.String("persona", "", "Visitor persona for the best-time section (e.g. family)")
	logPath := flag.String("log", "", "Write logs to this file (logs are discarded otherwise)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *persona != "" {
		cfg.Persona = *persona
	}

	// The TUI owns the terminal, so logs go to a file or nowhere
	var logOut io.Writer = io.Discard
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Printf("Error opening log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	logger := config.NewLogger(cfg.LogLevel, logOut)

	a, err := app.Build(context.Background(), cfg, logger)
	if err != nil {
		fmt.Printf("Error starting application: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	m := ui.NewModel(ui.Services{
		Geocoder:    a.Geocoder,
		Planner:     a.Planner,
		Stations:    a.Stations,
		Provisioner: a.Provisioner,
		Persona:     cfg.Persona,
		Query:       *location,
	})

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running application: %v\n", err)
		os.Exit(1)
	}
}
