package filestore

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	ipath "github.com/mlflow-go/filestore/internal/path"
)

// LogMetric appends a single sample to key's history on runID. Repeated
// identical samples are permitted; the store never deduplicates.
func (s *Store) LogMetric(runID, key string, value float64, timestamp, step int64) error {
	info, err := s.readRunInfo(runID)
	if err != nil {
		return err
	}
	if info.LifecycleStage != LifecycleStageActive {
		return errInvalid("Cannot log metric on run %s in non-active lifecycle stage", runID)
	}
	return s.appendMetric(info.ExperimentID, runID, key, value, timestamp, step)
}

func (s *Store) appendMetric(experimentID, runID, key string, value float64, timestamp, step int64) error {
	dir := ipath.MetricsDir(s.root, experimentID, runID)
	if err := ensureDir(dir); err != nil {
		return errInternal(err, "failed to create metrics directory for run %s", runID)
	}
	file, err := ipath.KeyFile(dir, key)
	if err != nil {
		return errInvalid("invalid metric key %q: %s", key, err)
	}
	f, err := os.OpenFile(file, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errInternal(err, "failed to open metric log %s", file)
	}
	defer f.Close()
	line := fmt.Sprintf("%d %s %d\n", timestamp, formatMetricValue(value), step)
	if _, err := f.WriteString(line); err != nil {
		return errInternal(err, "failed to append metric sample to %s", file)
	}
	return nil
}

func formatMetricValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// GetMetricHistory returns every sample logged for key on runID, in
// insertion order. Pagination is not supported: supplying pageToken or
// maxResults is an error.
func (s *Store) GetMetricHistory(runID, key string, pageToken *string, maxResults *int) ([]Metric, error) {
	if pageToken != nil || maxResults != nil {
		return nil, errInvalid("get_metric_history does not support pagination")
	}
	info, err := s.readRunInfo(runID)
	if err != nil {
		return nil, err
	}
	return readMetricFile(ipath.MetricsDir(s.root, info.ExperimentID, runID), key)
}

func readMetricFile(dir, key string) ([]Metric, error) {
	raw, found, err := readLeafFile(dir, key)
	if err != nil {
		return nil, errInternal(err, "failed to read metric %s", key)
	}
	if !found {
		return nil, nil
	}
	return parseMetricLines(key, raw)
}

func parseMetricLines(key, raw string) ([]Metric, error) {
	lines := strings.Split(raw, "\n")
	out := make([]Metric, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		m, err := parseMetricLine(key, line)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func parseMetricLine(key, line string) (Metric, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return Metric{}, errInternal(nil, "malformed metric sample %q for key %s", line, key)
	}
	ts, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return Metric{}, errInternal(err, "malformed metric timestamp in %q", line)
	}
	val, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return Metric{}, errInternal(err, "malformed metric value in %q", line)
	}
	var step int64
	if len(fields) >= 3 {
		step, err = strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			return Metric{}, errInternal(err, "malformed metric step in %q", line)
		}
	}
	return Metric{Key: key, Value: val, Timestamp: ts, Step: step}, nil
}

// latestMetric returns the sample with the max (step, timestamp, value)
// tuple among samples, per the lexicographic "latest" rule.
func latestMetric(samples []Metric) (Metric, bool) {
	if len(samples) == 0 {
		return Metric{}, false
	}
	best := samples[0]
	for _, m := range samples[1:] {
		if metricTupleLess(best, m) {
			best = m
		}
	}
	return best, true
}

func metricTupleLess(a, b Metric) bool {
	if a.Step != b.Step {
		return a.Step < b.Step
	}
	if a.Timestamp != b.Timestamp {
		return a.Timestamp < b.Timestamp
	}
	return a.Value < b.Value
}

func (s *Store) listLatestMetrics(experimentID, runID string) (map[string]float64, error) {
	dir := ipath.MetricsDir(s.root, experimentID, runID)
	files, err := listLeafFiles(dir)
	if err != nil {
		return nil, errInternal(err, "failed to read metrics for run %s", runID)
	}
	out := make(map[string]float64, len(files))
	for key, raw := range files {
		samples, err := parseMetricLines(key, raw)
		if err != nil {
			return nil, err
		}
		if latest, ok := latestMetric(samples); ok {
			out[key] = latest.Value
		}
	}
	return out, nil
}
