// Command copyassets copies PNG screenshots into the served assets directory.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/haratakeru-crypto/Tab-button-game/internal/config"
	"github.com/haratakeru-crypto/Tab-button-game/internal/logging"
	"github.com/haratakeru-crypto/Tab-button-game/internal/services"
)

func main() {
	root := flag.String("root", ".", "project root containing config/config.yaml")
	src := flag.String("src", "", "directory holding the source *.png screenshots")
	dest := flag.String("dest", "", "assets directory (defaults to data.assets_dir)")
	flag.Parse()

	if *src == "" {
		fmt.Fprintln(os.Stderr, "usage: copyassets -src <dir> [-dest <dir>] [-root <dir>]")
		os.Exit(2)
	}

	cfg, err := config.Load(*root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *dest != "" {
		cfg.Data.AssetsDir = *dest
	}

	log, err := logging.New(cfg.Logging)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	// Copying is an offline setup step, so production mode does not block it
	store, err := services.NewAssetStore(cfg.Data.AssetsDir, false, log)
	if err != nil {
		log.Fatal("Failed to open assets directory", zap.String("dir", cfg.Data.AssetsDir), zap.Error(err))
	}

	report, err := store.CopyPNGs(*src)
	if err != nil {
		log.Fatal("Copy failed", zap.String("source", *src), zap.Error(err))
	}

	for _, rec := range report.Copied {
		fmt.Printf("copied  %s (%d bytes)\n", rec.Path, rec.Bytes)
	}
	for _, f := range report.Failures {
		fmt.Printf("failed  %s: %s\n", f.Path, f.Error)
	}
	fmt.Printf("\n%d copied, %d failed\n", len(report.Copied), len(report.Failures))

	if len(report.Failures) > 0 {
		os.Exit(1)
	}
}
