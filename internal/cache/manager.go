package cache

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"mapdecor/internal/debug"
)

// Manager handles downloading and caching Natural Earth data
type Manager struct {
	cacheDir string
	files    []DataFile
	client   *http.Client

	// Progress receives one line per download; nil discards.
	Progress io.Writer
}

// DataFile represents a Natural Earth dataset to download
type DataFile struct {
	Name     string // Friendly name
	URL      string // Download URL
	Base     string // Base filename (without extension)
	Optional bool   // If true, failure to download won't stop the app
}

const naturalEarthCDN = "https://naciscdn.org/naturalearth/50m/"

// Natural Earth datasets at 1:50m. Coastlines are the only hard requirement;
// a map without them has nothing to decorate.
var NaturalEarthFiles = []DataFile{
	{
		Name: "Coastlines",
		URL:  naturalEarthCDN + "physical/ne_50m_coastline.zip",
		Base: "ne_50m_coastline",
	},
	{
		Name:     "Country Borders",
		URL:      naturalEarthCDN + "cultural/ne_50m_admin_0_boundary_lines_land.zip",
		Base:     "ne_50m_admin_0_boundary_lines_land",
		Optional: true,
	},
	{
		Name:     "States/Provinces",
		URL:      naturalEarthCDN + "cultural/ne_50m_admin_1_states_provinces.zip",
		Base:     "ne_50m_admin_1_states_provinces",
		Optional: true,
	},
	{
		Name:     "Rivers",
		URL:      naturalEarthCDN + "physical/ne_50m_rivers_lake_centerlines.zip",
		Base:     "ne_50m_rivers_lake_centerlines",
		Optional: true,
	},
	{
		Name:     "Populated Places",
		URL:      naturalEarthCDN + "cultural/ne_50m_populated_places.zip",
		Base:     "ne_50m_populated_places",
		Optional: true,
	},
}

// NewManager creates a new cache manager for the Natural Earth files.
// If cacheDir is empty, uses ~/.mapdecor/data
func NewManager(cacheDir string, timeout time.Duration) (*Manager, error) {
	return NewManagerFor(cacheDir, timeout, NaturalEarthFiles)
}

// NewManagerFor creates a cache manager for an arbitrary file list.
func NewManagerFor(cacheDir string, timeout time.Duration, files []DataFile) (*Manager, error) {
	if cacheDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		cacheDir = filepath.Join(home, ".mapdecor", "data")
	}

	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	return &Manager{
		cacheDir: cacheDir,
		files:    files,
		client:   &http.Client{Timeout: timeout},
	}, nil
}

func (m *Manager) printf(format string, args ...interface{}) {
	if m.Progress != nil {
		fmt.Fprintf(m.Progress, format, args...)
	}
}

// EnsureData ensures all required Natural Earth data is available.
// Downloads missing files; optional files that fail are skipped with a
// warning.
func (m *Manager) EnsureData(ctx context.Context) error {
	log := debug.Logger("cache")
	for _, file := range m.files {
		if err := m.ensureFile(ctx, file); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if file.Optional {
				log.Warn().Err(err).Str("file", file.Name).Msg("skipping optional dataset")
				m.printf("Warning: Skipping %s (optional): %v\n", file.Name, err)
				continue
			}
			return fmt.Errorf("failed to ensure %s: %w", file.Name, err)
		}
	}
	return nil
}

// ensureFile checks if a data file exists, downloads if needed
func (m *Manager) ensureFile(ctx context.Context, file DataFile) error {
	log := debug.Logger("cache")
	if m.Has(file.Base) {
		log.Debug().Str("file", file.Base).Msg("cached")
		return nil
	}

	m.printf("Downloading %s...\n", file.Name)
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.URL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; mapdecor/1.0)")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed with status: %s (URL: %s)", resp.Status, file.URL)
	}

	tmpFile, err := os.CreateTemp("", "ne_*.zip")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmpFile.Name())
	defer tmpFile.Close()

	n, err := io.Copy(tmpFile, resp.Body)
	if err != nil {
		return fmt.Errorf("failed to save download: %w", err)
	}

	tmpFile.Close()

	if err := extractZip(tmpFile.Name(), m.cacheDir); err != nil {
		return fmt.Errorf("failed to extract: %w", err)
	}
	if !m.Has(file.Base) {
		return fmt.Errorf("archive %s has no %s.shp", file.URL, file.Base)
	}

	log.Info().
		Str("file", file.Base).
		Int64("bytes", n).
		Dur("took", time.Since(start)).
		Msg("downloaded")
	m.printf("Downloaded and extracted %s\n", file.Name)
	return nil
}

// extractZip flattens the archive into destDir, skipping directories and
// dot files.
func extractZip(zipPath, destDir string) error {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		if f.FileInfo().IsDir() || strings.HasPrefix(filepath.Base(f.Name), ".") {
			continue
		}

		destPath := filepath.Join(destDir, filepath.Base(f.Name))
		rc, err := f.Open()

		if err != nil {
			return err
		}

		outFile, err := os.Create(destPath)
		if err != nil {
			rc.Close()
			return err
		}

		_, err = io.Copy(outFile, rc)
		outFile.Close()
		rc.Close()

		if err != nil {
			return err
		}
	}

	return nil
}

// Has reports whether base.shp is cached.
func (m *Manager) Has(base string) bool {
	_, err := os.Stat(m.GetDataPath(base))
	return err == nil
}

func (m *Manager) GetDataPath(base string) string {
	return filepath.Join(m.cacheDir, base+".shp")
}

func (m *Manager) GetCacheDir() string {
	return m.cacheDir
}
