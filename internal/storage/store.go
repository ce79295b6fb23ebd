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

	"github.com/san-kum/heatsim/internal/thermal"
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
	ID             string             `json:"id"`
	Scenario       string             `json:"scenario"`
	Timestamp      time.Time          `json:"timestamp"`
	Params         thermal.Params     `json:"params"`
	ElapsedSeconds float64            `json:"elapsed_seconds"`
	Steps          int                `json:"steps"`
	FinalTemp      float64            `json:"final_temp"`
	Stalled        bool               `json:"stalled"`
	Metrics        map[string]float64 `json:"metrics"`
}

func (s *Store) Save(scenario string, params thermal.Params, result *thermal.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", scenario, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:             runID,
		Scenario:       scenario,
		Timestamp:      time.Now(),
		Params:         params,
		ElapsedSeconds: result.ElapsedSeconds,
		Steps:          result.Steps,
		FinalTemp:      result.FinalTemp,
		Stalled:        result.Stalled,
		Metrics:        result.Metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "trace.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write([]string{"time", "temperature"}); err != nil {
		return "", err
	}
	for _, sample := range result.Trace {
		row := []string{
			strconv.FormatFloat(sample.Time, 'f', 6, 64),
			strconv.FormatFloat(sample.Temperature, 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0, len(entries))
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

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) LoadTrace(runID string) ([]thermal.Sample, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, "trace.csv"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 1 {
		return nil, fmt.Errorf("empty trace for run %s", runID)
	}

	samples := make([]thermal.Sample, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) < 2 {
			continue
		}
		t, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			return nil, err
		}
		temp, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, err
		}
		samples = append(samples, thermal.Sample{Time: t, Temperature: temp})
	}
	return samples, nil
}
