// Package tracking records experiment runs (embedding fits, evaluations,
// exports) as local JSON documents so results stay comparable across runs.
package tracking

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Run is one recorded experiment: configuration in, metrics out.
type Run struct {
	ID         string             `json:"id"`
	Project    string             `json:"project"`
	JobType    string             `json:"job_type"`
	Name       string             `json:"name"`
	Config     map[string]any     `json:"config,omitempty"`
	Metrics    map[string]float64 `json:"metrics,omitempty"`
	Artifacts  []string           `json:"artifacts,omitempty"`
	StartedAt  time.Time          `json:"started_at"`
	FinishedAt time.Time          `json:"finished_at"`
}

// Tracker writes run records under a directory, one JSON file per run.
type Tracker struct {
	dir     string
	project string
	logger  *logrus.Logger
}

func New(dir, project string, logger *logrus.Logger) *Tracker {
	return &Tracker{dir: dir, project: project, logger: logger}
}

// StartRun opens a run record. Names follow <jobtype>_<qualifier>_<ts>.
func (t *Tracker) StartRun(jobType, name string) *Run {
	return &Run{
		ID:        uuid.NewString(),
		Project:   t.project,
		JobType:   jobType,
		Name:      name,
		Config:    make(map[string]any),
		Metrics:   make(map[string]float64),
		StartedAt: time.Now().UTC(),
	}
}

// Finish stamps and persists the run. A tracking failure never fails the
// pipeline that produced the results; it is logged and dropped.
func (t *Tracker) Finish(run *Run) {
	run.FinishedAt = time.Now().UTC()
	if err := t.write(run); err != nil {
		t.logger.WithError(err).Warn("Failed to record experiment run")
		return
	}
	t.logger.WithFields(logrus.Fields{
		"project":  run.Project,
		"job_type": run.JobType,
		"name":     run.Name,
	}).Info("Experiment run recorded")
}

func (t *Tracker) write(run *Run) error {
	if err := os.MkdirAll(t.dir, 0o755); err != nil {
		return fmt.Errorf("create tracking dir: %w", err)
	}
	path := filepath.Join(t.dir, fmt.Sprintf("%s_%s_%s.json",
		run.StartedAt.Format("20060102-150405"), run.JobType, run.ID[:8]))
	data, err := json.MarshalIndent(run, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// BestRun scans all recorded runs of the project and returns the one with
// the best value for the given metric. Runs missing the metric are skipped.
func (t *Tracker) BestRun(metric string, maximize bool) (*Run, error) {
	entries, err := os.ReadDir(t.dir)
	if err != nil {
		return nil, fmt.Errorf("read tracking dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".json" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var best *Run
	var bestVal float64
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(t.dir, name))
		if err != nil {
			continue
		}
		var run Run
		if err := json.Unmarshal(data, &run); err != nil {
			t.logger.WithField("file", name).Warn("Skipping unreadable run record")
			continue
		}
		if run.Project != t.project {
			continue
		}
		val, ok := run.Metrics[metric]
		if !ok {
			continue
		}
		if best == nil || (maximize && val > bestVal) || (!maximize && val < bestVal) {
			run := run
			best, bestVal = &run, val
		}
	}
	if best == nil {
		return nil, fmt.Errorf("no run with metric %q in project %q", metric, t.project)
	}
	return best, nil
}
