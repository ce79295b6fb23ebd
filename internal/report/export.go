package report

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/heatsim/internal/thermal"
)

type ExportData struct {
	ID             string             `json:"id"`
	Scenario       string             `json:"scenario"`
	Params         thermal.Params     `json:"params"`
	ElapsedSeconds float64            `json:"elapsed_seconds"`
	ElapsedMinutes float64            `json:"elapsed_minutes"`
	ElapsedHours   float64            `json:"elapsed_hours"`
	Steps          int                `json:"steps"`
	FinalTemp      float64            `json:"final_temp"`
	Stalled        bool               `json:"stalled"`
	Trace          []thermal.Sample   `json:"trace,omitempty"`
	Metrics        map[string]float64 `json:"metrics,omitempty"`
}

func Export(id, scenario string, params thermal.Params, result *thermal.Result, trace []thermal.Sample) ExportData {
	elapsed := Breakdown(result.ElapsedSeconds)
	return ExportData{
		ID:             id,
		Scenario:       scenario,
		Params:         params,
		ElapsedSeconds: elapsed.Seconds,
		ElapsedMinutes: elapsed.Minutes,
		ElapsedHours:   elapsed.Hours,
		Steps:          result.Steps,
		FinalTemp:      result.FinalTemp,
		Stalled:        result.Stalled,
		Trace:          trace,
		Metrics:        result.Metrics,
	}
}

func WriteJSON(w io.Writer, data ExportData) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func ExportJSONStdout(data ExportData) error {
	return WriteJSON(os.Stdout, data)
}
