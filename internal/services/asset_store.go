package services

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/haratakeru-crypto/Tab-button-game/internal/models"
)

const assetIndexFile = "assets.json"

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

// ErrInvalidAsset means an asset name or payload was rejected
var ErrInvalidAsset = errors.New("invalid asset")

// AssetStore manages the screenshot files served under /images/ and an
// assets.json index describing them
type AssetStore struct {
	mu         sync.RWMutex
	dir        string
	production bool
	log        *zap.Logger
	index      *models.AssetIndex
}

// CopyFailure is one file that could not be copied
type CopyFailure struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// CopyReport summarizes a bulk copy
type CopyReport struct {
	Copied   []models.AssetRecord `json:"copied"`
	Failures []CopyFailure        `json:"failures"`
}

// NewAssetStore creates an asset store over dir and loads its index
func NewAssetStore(dir string, production bool, log *zap.Logger) (*AssetStore, error) {
	store := &AssetStore{
		dir:        dir,
		production: production,
		log:        log,
		index:      &models.AssetIndex{Assets: make(map[string]*models.AssetRecord)},
	}
	if err := store.Load(); err != nil {
		return nil, fmt.Errorf("failed to load assets: %w", err)
	}
	return store, nil
}

// Production reports whether uploads are disabled
func (s *AssetStore) Production() bool {
	return s.production
}

// Dir returns the assets directory
func (s *AssetStore) Dir() string {
	return s.dir
}

// Load reads assets.json, keeping an empty index when the file is missing
// or unreadable
func (s *AssetStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	indexPath := filepath.Join(s.dir, assetIndexFile)
	data, err := os.ReadFile(indexPath)
	if errors.Is(err, fs.ErrNotExist) {
		s.log.Debug("Asset index not found, starting empty", zap.String("path", indexPath))
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read asset index: %w", err)
	}

	var index models.AssetIndex
	if err := json.Unmarshal(data, &index); err != nil {
		s.log.Warn("Failed to parse asset index, using empty index", zap.String("path", indexPath), zap.Error(err))
		return nil
	}
	if index.Assets == nil {
		index.Assets = make(map[string]*models.AssetRecord)
	}
	s.index = &index
	s.log.Info("Loaded asset index", zap.Int("assets", len(index.Assets)), zap.String("path", indexPath))
	return nil
}

// List returns the indexed assets ordered by path
func (s *AssetStore) List() []models.AssetRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.AssetRecord, 0, len(s.index.Assets))
	for _, rec := range s.index.Assets {
		out = append(out, *rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// cleanAssetName validates a relative PNG path such as "Word画像/Word画面.png"
func cleanAssetName(name string) (string, error) {
	name = strings.TrimPrefix(strings.ReplaceAll(name, "\\", "/"), "/")
	name = strings.TrimPrefix(name, "images/")
	if name == "" {
		return "", fmt.Errorf("%w: name is required", ErrInvalidAsset)
	}
	clean := path.Clean(name)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("%w: %q escapes the assets directory", ErrInvalidAsset, name)
	}
	if !strings.EqualFold(path.Ext(clean), ".png") {
		return "", fmt.Errorf("%w: %q is not a .png file", ErrInvalidAsset, name)
	}
	return clean, nil
}

// SaveImage writes PNG data under name and records it in the index
func (s *AssetStore) SaveImage(name string, data []byte, source string) (models.AssetRecord, error) {
	if s.production {
		return models.AssetRecord{}, ErrForbidden
	}
	clean, err := cleanAssetName(name)
	if err != nil {
		return models.AssetRecord{}, err
	}
	if !bytes.HasPrefix(data, pngSignature) {
		return models.AssetRecord{}, fmt.Errorf("%w: %s is not PNG data", ErrInvalidAsset, clean)
	}

	target := filepath.Join(s.dir, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return models.AssetRecord{}, fmt.Errorf("%w: failed to create directory: %v", ErrStorage, err)
	}
	if err := writeFileAtomic(target, data); err != nil {
		return models.AssetRecord{}, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	rec := models.AssetRecord{
		Path:      clean,
		Bytes:     int64(len(data)),
		Source:    source,
		UpdatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.index.Assets[clean] = &rec
	if err := s.saveIndexLocked(); err != nil {
		return models.AssetRecord{}, err
	}

	s.log.Info("Saved asset", zap.String("path", clean), zap.Int64("bytes", rec.Bytes), zap.String("source", source))
	return rec, nil
}

// SaveImageBase64 decodes a base64 PNG, optionally a data URL, and saves it
func (s *AssetStore) SaveImageBase64(name, imageBase64 string) (models.AssetRecord, error) {
	if s.production {
		return models.AssetRecord{}, ErrForbidden
	}
	if imageBase64 == "" {
		return models.AssetRecord{}, fmt.Errorf("%w: imageBase64 is required", ErrInvalidAsset)
	}
	encoded := strings.TrimPrefix(imageBase64, "data:image/png;base64,")
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return models.AssetRecord{}, fmt.Errorf("%w: failed to decode base64: %v", ErrInvalidAsset, err)
	}
	return s.SaveImage(name, data, "upload")
}

// CopyPNGs copies every *.png below srcDir into the assets directory,
// keeping relative paths. Per-file failures are reported, not returned.
func (s *AssetStore) CopyPNGs(srcDir string) (CopyReport, error) {
	report := CopyReport{Copied: []models.AssetRecord{}, Failures: []CopyFailure{}}

	info, err := os.Stat(srcDir)
	if err != nil {
		return report, fmt.Errorf("source directory: %w", err)
	}
	if !info.IsDir() {
		return report, fmt.Errorf("source %s is not a directory", srcDir)
	}

	err = filepath.WalkDir(srcDir, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			report.Failures = append(report.Failures, CopyFailure{Path: p, Error: walkErr.Error()})
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(p), ".png") {
			return nil
		}

		rel, err := filepath.Rel(srcDir, p)
		if err != nil {
			report.Failures = append(report.Failures, CopyFailure{Path: p, Error: err.Error()})
			return nil
		}
		data, err := os.ReadFile(p)
		if err != nil {
			report.Failures = append(report.Failures, CopyFailure{Path: rel, Error: err.Error()})
			return nil
		}
		rec, err := s.SaveImage(filepath.ToSlash(rel), data, "copy")
		if err != nil {
			s.log.Warn("Failed to copy asset", zap.String("path", rel), zap.Error(err))
			report.Failures = append(report.Failures, CopyFailure{Path: rel, Error: err.Error()})
			return nil
		}
		report.Copied = append(report.Copied, rec)
		return nil
	})
	if err != nil {
		return report, err
	}

	s.log.Info("Copied assets",
		zap.String("source", srcDir),
		zap.Int("copied", len(report.Copied)),
		zap.Int("failed", len(report.Failures)),
	)
	return report, nil
}

// saveIndexLocked writes assets.json. Must be called with lock held.
func (s *AssetStore) saveIndexLocked() error {
	data, err := json.MarshalIndent(s.index, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: failed to marshal asset index: %v", ErrStorage, err)
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("%w: failed to create assets directory: %v", ErrStorage, err)
	}
	if err := writeFileAtomic(filepath.Join(s.dir, assetIndexFile), data); err != nil {
		return fmt.Errorf("%w: %v", ErrStorage, err)
	}
	return nil
}
