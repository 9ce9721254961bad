// Package storage keeps evaluated designs on disk, one directory per run.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/san-kum/uavsizer/internal/design"
)

const (
	metadataFile = "metadata.json"
	powerFile    = "power.csv"
	designFile   = "design.msgpack.zst"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID            string    `json:"id"`
	Label         string    `json:"label"`
	Timestamp     time.Time `json:"timestamp"`
	Configuration string    `json:"configuration"`
	Goal          string    `json:"goal"`
	MTOW          float64   `json:"mtow"`
	Motor         string    `json:"motor"`
	Endurance     float64   `json:"endurance_h"`
	Range         float64   `json:"range_km"`
	Warnings      int       `json:"warnings"`
}

// Save writes d under a fresh run id and returns the id.
func (s *Store) Save(label string, d *design.Design) (string, error) {
	runID := uuid.NewString()
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:            runID,
		Label:         label,
		Timestamp:     time.Now(),
		Configuration: string(d.Mission.Configuration),
		Goal:          string(d.Mission.Goal),
		MTOW:          d.Weight.MTOW,
		Motor:         d.Motor.Name,
		Endurance:     d.Performance.Endurance,
		Range:         d.Performance.Range,
		Warnings:      len(d.Warnings),
	}
	if err := writeMetadata(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writePower(filepath.Join(runDir, powerFile), d); err != nil {
		return "", err
	}
	if err := writeDesign(filepath.Join(runDir, designFile), d); err != nil {
		return "", err
	}
	return runID, nil
}

func writeMetadata(path string, meta RunMetadata) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func writePower(path string, d *design.Design) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"speed", "power_required", "power_available"}); err != nil {
		return err
	}
	env := d.Performance
	for i, v := range env.Speeds {
		row := []string{
			strconv.FormatFloat(v, 'f', 6, 64),
			strconv.FormatFloat(env.PowerRequired[i], 'f', 6, 64),
			strconv.FormatFloat(env.PowerContinuous[i], 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeDesign(path string, d *design.Design) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	zw, err := zstd.NewWriter(f)
	if err != nil {
		return err
	}
	if err := msgpack.NewEncoder(zw).Encode(d); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadDesign decodes the stored design of a run.
func (s *Store) LoadDesign(runID string) (*design.Design, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, designFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	zr, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	var d design.Design
	if err := msgpack.NewDecoder(zr).Decode(&d); err != nil {
		return nil, fmt.Errorf("decode %s: %w", runID, err)
	}
	return &d, nil
}

// LoadPower reads the power curves of a run.
func (s *Store) LoadPower(runID string) (speeds, required, available []float64, err error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, powerFile))
	if err != nil {
		return nil, nil, nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, nil, err
	}

	for _, record := range records[min(1, len(records)):] {
		var vals [3]float64
		for j := range vals {
			if vals[j], err = strconv.ParseFloat(record[j], 64); err != nil {
				return nil, nil, nil, fmt.Errorf("%s: %w", powerFile, err)
			}
		}
		speeds = append(speeds, vals[0])
		required = append(required, vals[1])
		available = append(available, vals[2])
	}
	return speeds, required, available, nil
}

func (s *Store) Delete(runID string) error {
	return os.RemoveAll(filepath.Join(s.baseDir, runID))
}
