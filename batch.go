package filestore

import "strconv"

// BatchMetric is a metric sample as it arrives over the batch API,
// where the value is still an unparsed string (the wire contract this
// store was built against encodes all scalar values as strings;
// numeric validation happens here, not at the caller).
type BatchMetric struct {
	Key       string
	Value     string
	Timestamp int64
	Step      int64
}

// LogBatch atomically-looking logs a batch of metrics, params, and tags
// against runID. Metrics are written first, then params, then tags, in
// call order; duplicate param keys within the call are rejected before
// anything is written; duplicate tag keys are allowed, with the last
// value in the call winning. Replays with identical (key, value) pairs
// for params and tags are idempotent.
func (s *Store) LogBatch(runID string, metrics []BatchMetric, params []Param, tags Tags) error {
	info, err := s.readRunInfo(runID)
	if err != nil {
		return err
	}
	if info.LifecycleStage != LifecycleStageActive {
		return errInvalid("Cannot log batch on run %s in non-active lifecycle stage", runID)
	}

	seen := make(map[string]struct{}, len(params))
	for _, p := range params {
		if _, dup := seen[p.Key]; dup {
			return errInvalid("Duplicate parameter keys have been submitted: [%s]", p.Key)
		}
		seen[p.Key] = struct{}{}
	}

	for _, m := range metrics {
		value, err := strconv.ParseFloat(m.Value, 64)
		if err != nil {
			return errInvalid("Got invalid value %q for metric %q. Please specify a valid float value.", m.Value, m.Key)
		}
		if err := s.appendMetric(info.ExperimentID, runID, m.Key, value, m.Timestamp, m.Step); err != nil {
			if IsCode(err, CodeInvalidParameterValue) {
				return err
			}
			return errInternal(err, "log_batch: failed to write metric %s on run %s", m.Key, runID)
		}
	}

	for _, p := range params {
		if err := s.SetParam(runID, p.Key, p.Value); err != nil {
			if IsCode(err, CodeInvalidParameterValue) || IsCode(err, CodeResourceDoesNotExist) {
				return err
			}
			return errInternal(err, "log_batch: failed to write param %s on run %s", p.Key, runID)
		}
	}

	for _, t := range tags {
		if err := s.SetTag(runID, t.Key, t.Value); err != nil {
			if IsCode(err, CodeInvalidParameterValue) || IsCode(err, CodeResourceDoesNotExist) {
				return err
			}
			return errInternal(err, "log_batch: failed to write tag %s on run %s", t.Key, runID)
		}
	}
	return nil
}
