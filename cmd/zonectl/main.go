// Command zonectl edits target zones of one dataset from the terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/haratakeru-crypto/Tab-button-game/internal/config"
	"github.com/haratakeru-crypto/Tab-button-game/internal/logging"
	"github.com/haratakeru-crypto/Tab-button-game/internal/models"
	"github.com/haratakeru-crypto/Tab-button-game/internal/services"
	"github.com/haratakeru-crypto/Tab-button-game/internal/ui/zoneedit"
	"github.com/haratakeru-crypto/Tab-button-game/internal/zone"
)

func main() {
	root := flag.String("root", ".", "project root containing config/config.yaml")
	app := flag.String("app", "word", "application: word, excel or powerpoint")
	mode := flag.String("mode", "button", "mode: tab or button")
	recenter := flag.Bool("recenter", false, "recenter the zone on the click when the width changes")
	noColor := flag.Bool("no-color", false, "disable colors")
	flag.Parse()

	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "zonectl needs an interactive terminal")
		os.Exit(2)
	}

	key, err := models.ParseDatasetKey(*app, *mode)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cfg, err := config.Load(*root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Console output would corrupt the UI, so only the file log is kept
	cfg.Logging.Level = "warn"
	log, err := logging.NewFileOnly(cfg.Logging)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	store := services.NewDatasetStore(cfg.Data.Dir, cfg.Runtime.Production(), log)
	if store.Production() {
		fmt.Fprintln(os.Stderr, "dataset writes are disabled in production mode")
		os.Exit(1)
	}
	questions, err := store.Load(context.Background(), key)
	if err != nil {
		log.Error("Failed to load dataset", zap.String("dataset", key.String()), zap.Error(err))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	policy := zone.WidthPolicyResize
	if *recenter {
		policy = zone.WidthPolicyRecenter
	}
	model := zoneedit.NewModel(store, key, questions, zoneedit.Options{NoColor: *noColor, Policy: policy})
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
