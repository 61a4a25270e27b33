package storage

import (
	"io"
	"os"

	"github.com/san-kum/sandbox/internal/sim"
)

type ExportData struct {
	Scene   string             `json:"scene"`
	Seed    int64              `json:"seed"`
	Dt      float64            `json:"dt"`
	Frames  int                `json:"frames"`
	SimTime float64            `json:"sim_time"`
	Bounces int                `json:"bounces"`
	Metrics map[string]float64 `json:"metrics"`
	Final   []sim.BodyView     `json:"final,omitempty"`
}

func NewExportData(scene string, seed int64, dt float64, result *sim.Result) ExportData {
	data := ExportData{
		Scene:   scene,
		Seed:    seed,
		Dt:      dt,
		Frames:  result.FramesRun,
		SimTime: result.SimTime,
		Bounces: result.Bounces,
		Metrics: result.Metrics,
	}
	if n := len(result.Frames); n > 0 {
		data.Final = result.Frames[n-1].Bodies
	}
	return data
}

func ExportJSON(path string, data ExportData) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteJSON(file, data); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func WriteJSON(w io.Writer, data ExportData) error {
	return encodeJSON(w, data)
}
