package output

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/episim/episim/sim"
)

// HeaderFile is the YAML run description written next to the CSV tables.
const HeaderFile = "run.yaml"

// RunHeader describes the run a set of tables belongs to.
type RunHeader struct {
	RunID        string          `yaml:"run_id"`
	Nodes        int             `yaml:"nodes"`
	Steps        int             `yaml:"steps"`
	StartTime    float64         `yaml:"start_time"`
	EndTime      float64         `yaml:"end_time"`
	Final        sim.Counts      `yaml:"final"`
	AttackRate   float64         `yaml:"attack_rate"`
	PeakInfected int             `yaml:"peak_infected"`
	PeakTime     float64         `yaml:"peak_time"`
	Parameters   *sim.Parameters `yaml:"parameters,omitempty"`
}

// NewRunHeader summarizes res. params may be nil.
func NewRunHeader(res *sim.Result, params *sim.Parameters) RunHeader {
	peak, at := res.PeakInfected()
	return RunHeader{
		RunID:        res.RunID,
		Nodes:        res.Nodes,
		Steps:        res.Steps,
		StartTime:    res.StartTime,
		EndTime:      res.EndTime,
		Final:        res.FinalCounts(),
		AttackRate:   res.AttackRate(),
		PeakInfected: peak,
		PeakTime:     at,
		Parameters:   params,
	}
}

// WriteHeader writes the run header YAML into dir.
func WriteHeader(dir string, res *sim.Result, params *sim.Parameters) error {
	data, err := yaml.Marshal(NewRunHeader(res, params))
	if err != nil {
		return fmt.Errorf("marshaling run header: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, HeaderFile), data, 0644); err != nil {
		return fmt.Errorf("writing run header: %w", err)
	}
	return nil
}

// LoadHeader reads a run header written by WriteHeader.
func LoadHeader(dir string) (*RunHeader, error) {
	data, err := os.ReadFile(filepath.Join(dir, HeaderFile))
	if err != nil {
		return nil, fmt.Errorf("reading run header: %w", err)
	}
	var h RunHeader
	if err := yaml.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("parsing run header: %w", err)
	}
	return &h, nil
}
