// Package export writes simulated paths to disk as training datasets.
//
// Every combination of a sweep produces a data file gbm-<id>.<ext> and a
// paired parameter document gbm-<id>-params.json in the same directory.
// A manifest.json describing the whole run is written on Close.
package export

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"gbmsynth/internal/chunk"
	"gbmsynth/internal/gbm"
	"gbmsynth/internal/metrics"
	"gbmsynth/internal/store"
	"gbmsynth/internal/sweep"
)

type Format string

const (
	FormatCSV   Format = "csv"
	FormatJSONL Format = "jsonl"
	FormatChunk Format = "chunk"
)

var ErrUnknownFormat = errors.New("export: unknown format")

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatCSV, FormatJSONL, FormatChunk:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// ParamsDoc is the content of gbm-<id>-params.json.
type ParamsDoc struct {
	SimulationParameters sweep.SimulationParams `json:"simulation_parameters"`
	GBMParameters        sweep.GBMParams        `json:"gbm_parameters"`
	Seed                 int64                  `json:"seed"`
}

type ManifestEntry struct {
	ID     int     `json:"id"`
	Data   string  `json:"data"`
	Params string  `json:"params"`
	Seed   int64   `json:"seed"`
	N      int     `json:"n"`
	M      int     `json:"M"`
	Mu     float64 `json:"mu"`
	Sigma  float64 `json:"sigma"`
}

type Manifest struct {
	RunID     string          `json:"run_id"`
	Grid      string          `json:"grid"`
	Format    Format          `json:"format"`
	S0        float64         `json:"s0"`
	T         float64         `json:"t"`
	BaseSeed  int64           `json:"base_seed"`
	CreatedAt time.Time       `json:"created_at"`
	Entries   []ManifestEntry `json:"entries"`
}

const ManifestFile = "manifest.json"

// Dataset is a sweep.Sink that writes one directory of files.
type Dataset struct {
	Dir     string
	Format  Format
	Metrics *metrics.Metrics

	store    *store.Store
	manifest Manifest
}

func NewDataset(dir string, format Format, g sweep.Grid, baseSeed int64) (*Dataset, error) {
	d := &Dataset{
		Dir:    dir,
		Format: format,
		manifest: Manifest{
			RunID:     uuid.NewString(),
			Grid:      g.Name,
			Format:    format,
			S0:        g.S0,
			T:         g.T,
			BaseSeed:  baseSeed,
			CreatedAt: time.Now().UTC(),
		},
	}
	if format == FormatChunk {
		d.store = store.New(dir)
		if err := d.store.Init(); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (d *Dataset) RunID() string { return d.manifest.RunID }

// Store is the object store backing the chunk format, nil otherwise.
func (d *Dataset) Store() *store.Store { return d.store }

func DataName(id int, f Format) string {
	if f == FormatChunk {
		return fmt.Sprintf("gbm-%d", id)
	}
	return fmt.Sprintf("gbm-%d.%s", id, f)
}

func ParamsName(id int) string {
	return fmt.Sprintf("gbm-%d-params.json", id)
}

func (d *Dataset) Write(c sweep.Combination, p *gbm.Paths) error {
	name := DataName(c.ID, d.Format)

	var err error
	switch d.Format {
	case FormatCSV:
		err = writeAtomic(filepath.Join(d.Dir, name), func(w *bufio.Writer) error { return WriteCSV(w, p) })
	case FormatJSONL:
		err = writeAtomic(filepath.Join(d.Dir, name), func(w *bufio.Writer) error { return WriteJSONL(w, p) })
	case FormatChunk:
		err = d.writeChunks(name, p)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownFormat, d.Format)
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}

	params := ParamsName(c.ID)
	doc := ParamsDoc{SimulationParameters: c.Simulation, GBMParameters: c.GBM, Seed: c.Seed}
	if err := WriteJSONAtomic(filepath.Join(d.Dir, params), doc, "    "); err != nil {
		return fmt.Errorf("write %s: %w", params, err)
	}

	if d.Metrics != nil {
		d.Metrics.Samples.WithLabelValues(string(d.Format)).Add(float64(p.Rows() * p.Cols()))
	}

	d.manifest.Entries = append(d.manifest.Entries, ManifestEntry{
		ID:     c.ID,
		Data:   name,
		Params: params,
		Seed:   c.Seed,
		N:      c.Params.N,
		M:      c.Params.M,
		Mu:     c.Params.Mu,
		Sigma:  c.Params.Sigma,
	})
	return nil
}

// writeChunks stores every path as chunk objects and records them under the
// ref name, one line of space-separated hashes per path.
func (d *Dataset) writeChunks(ref string, p *gbm.Paths) error {
	lines := make([]string, p.Cols())
	for j := range lines {
		objects, err := chunk.EncodePath(p.Path(j))
		if err != nil {
			return fmt.Errorf("path %d: %w", j, err)
		}
		hashes := make([]string, len(objects))
		for k, obj := range objects {
			if hashes[k], err = d.store.Put(obj); err != nil {
				return fmt.Errorf("path %d: %w", j, err)
			}
		}
		lines[j] = strings.Join(hashes, " ")
	}
	return d.store.WriteRef(ref, lines)
}

// Close writes the run manifest.
func (d *Dataset) Close() error {
	return WriteJSONAtomic(filepath.Join(d.Dir, ManifestFile), d.manifest, "  ")
}

// ReadRefPaths loads every path recorded under a chunk ref.
func ReadRefPaths(s *store.Store, ref string) ([][]float64, error) {
	lines, err := s.ReadRef(ref)
	if err != nil {
		return nil, err
	}
	paths := make([][]float64, len(lines))
	for j, line := range lines {
		var objects [][]byte
		for _, h := range strings.Fields(line) {
			obj, err := s.Get(h)
			if err != nil {
				return nil, err
			}
			objects = append(objects, obj)
		}
		if paths[j], err = chunk.DecodePath(objects); err != nil {
			return nil, fmt.Errorf("ref %s path %d: %w", ref, j, err)
		}
	}
	return paths, nil
}

// WritePaths writes p to w as a single csv or jsonl document.
func WritePaths(w io.Writer, f Format, p *gbm.Paths) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, p)
	case FormatJSONL:
		return WriteJSONL(w, p)
	}
	return fmt.Errorf("%w: %q cannot be streamed", ErrUnknownFormat, f)
}

// SaveFile writes p to path atomically.
func SaveFile(path string, f Format, p *gbm.Paths) error {
	return writeAtomic(path, func(w *bufio.Writer) error { return WritePaths(w, f, p) })
}
