package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/sandbox/internal/physics"
	"github.com/san-kum/sandbox/internal/sim"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
)

var ErrRunNotFound = errors.New("storage: run not found")

var framesHeader = []string{"frame", "time", "id", "x", "y", "vx", "vy", "radius", "mass", "rotation"}

type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Scene     string             `json:"scene"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Dt        float64            `json:"dt"`
	Frames    int                `json:"frames"`
	SimTime   float64            `json:"sim_time"`
	Bodies    int                `json:"bodies"`
	Bounces   int                `json:"bounces"`
	Width     float64            `json:"width"`
	Height    float64            `json:"height"`
	Metrics   map[string]float64 `json:"metrics"`
}

// Sample is one body at one recorded frame.
type Sample struct {
	Frame    int
	Time     float64
	ID       int
	Position physics.Vec2
	Velocity physics.Vec2
	Radius   float64
	Mass     float64
	Rotation float64
}

// Save writes the metadata and any recorded frames of result under a new
// run directory and returns its ID.
func (s *Store) Save(scene string, seed int64, dt float64, result *sim.Result) (string, error) {
	now := s.now()
	runID := fmt.Sprintf("%s_%d", scene, now.UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Scene:     scene,
		Timestamp: now,
		Seed:      seed,
		Dt:        dt,
		Frames:    result.FramesRun,
		SimTime:   result.SimTime,
		Bodies:    result.BodyCount,
		Bounces:   result.Bounces,
		Width:     result.Bounds.W,
		Height:    result.Bounds.H,
		Metrics:   result.Metrics,
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}

	f, err := os.Create(filepath.Join(runDir, framesFile))
	if err != nil {
		return "", err
	}
	if err := WriteFramesCSV(f, result.Frames); err != nil {
		f.Close()
		return "", fmt.Errorf("write frames: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close frames: %w", err)
	}
	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := encodeJSON(f, v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteFramesCSV writes one row per body per frame.
func WriteFramesCSV(out io.Writer, frames []sim.Frame) error {
	w := csv.NewWriter(out)
	if err := w.Write(framesHeader); err != nil {
		return err
	}

	for _, f := range frames {
		for _, b := range f.Bodies {
			row := []string{
				strconv.Itoa(f.Index),
				formatFloat(f.Time),
				strconv.Itoa(b.ID),
				formatFloat(b.Position.X),
				formatFloat(b.Position.Y),
				formatFloat(b.Velocity.X),
				formatFloat(b.Velocity.Y),
				formatFloat(b.Radius),
				formatFloat(b.Mass),
				formatFloat(b.Rotation),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

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
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", runID, ErrRunNotFound)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("decode %s: %w", runID, err)
	}

	return &meta, nil
}

// LoadSamples reads back the recorded frames of a run.
func (s *Store) LoadSamples(runID string) ([]Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", runID, ErrRunNotFound)
		}
		return nil, err
	}
	defer file.Close()

	return ReadFramesCSV(file)
}

// ReadFramesCSV parses rows written by WriteFramesCSV. Malformed rows are
// reported with their line number.
func ReadFramesCSV(in io.Reader) ([]Sample, error) {
	r := csv.NewReader(in)
	r.FieldsPerRecord = len(framesHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []Sample{}, nil
	}

	samples := make([]Sample, 0, len(records)-1)
	for i, rec := range records[1:] {
		sm, err := parseSample(rec)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+2, err)
		}
		samples = append(samples, sm)
	}
	return samples, nil
}

func parseSample(rec []string) (Sample, error) {
	var sm Sample
	var err error

	if sm.Frame, err = strconv.Atoi(rec[0]); err != nil {
		return sm, err
	}
	if sm.ID, err = strconv.Atoi(rec[2]); err != nil {
		return sm, err
	}

	// indexed by column; nil columns are the integers parsed above
	floats := []*float64{
		nil, &sm.Time, nil,
		&sm.Position.X, &sm.Position.Y,
		&sm.Velocity.X, &sm.Velocity.Y,
		&sm.Radius, &sm.Mass, &sm.Rotation,
	}
	for i, dst := range floats {
		if dst == nil {
			continue
		}
		if *dst, err = strconv.ParseFloat(rec[i], 64); err != nil {
			return sm, err
		}
	}
	return sm, nil
}

// Trajectory returns the samples of one body in frame order.
func Trajectory(samples []Sample, id int) []Sample {
	out := make([]Sample, 0)
	for _, sm := range samples {
		if sm.ID == id {
			out = append(out, sm)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Frame < out[j].Frame })
	return out
}
