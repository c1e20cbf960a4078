package filestore

import (
	"strings"

	ipath "github.com/mlflow-go/filestore/internal/path"
	"github.com/mlflow-go/filestore/internal/query"
)

// experimentRecord adapts *Experiment to query.Record so the filter
// grammar never touches the filesystem directly.
type experimentRecord struct{ e *Experiment }

func (r experimentRecord) Attribute(name string) query.Value {
	switch name {
	case "experiment_id":
		return query.StringValue(r.e.ExperimentID)
	case "name":
		return query.StringValue(r.e.Name)
	case "artifact_location":
		return query.StringValue(r.e.ArtifactLocation)
	case "lifecycle_stage":
		return query.StringValue(string(r.e.LifecycleStage))
	case "creation_time":
		if r.e.CreationTime == nil {
			return query.Absent()
		}
		return query.NumberValue(float64(*r.e.CreationTime))
	case "last_update_time":
		if r.e.LastUpdateTime == nil {
			return query.Absent()
		}
		return query.NumberValue(float64(*r.e.LastUpdateTime))
	default:
		return query.Absent()
	}
}

func (r experimentRecord) Tag(key string) query.Value {
	if !r.e.Tags.Contains(key) {
		return query.Absent()
	}
	return query.StringValue(r.e.Tags.Get(key))
}

func (r experimentRecord) Param(string) query.Value  { return query.Absent() }
func (r experimentRecord) Metric(string) query.Value { return query.Absent() }

// runRecord adapts *Run to query.Record.
type runRecord struct{ r *Run }

func (r runRecord) Attribute(name string) query.Value {
	switch name {
	case "run_id":
		return query.StringValue(r.r.Info.RunID)
	case "run_name":
		return query.StringValue(r.r.Info.RunName)
	case "experiment_id":
		return query.StringValue(r.r.Info.ExperimentID)
	case "user_id":
		return query.StringValue(r.r.Info.UserID)
	case "status":
		return query.StringValue(string(r.r.Info.Status))
	case "artifact_uri":
		return query.StringValue(r.r.Info.ArtifactURI)
	case "lifecycle_stage":
		return query.StringValue(string(r.r.Info.LifecycleStage))
	case "start_time":
		if r.r.Info.StartTime == 0 {
			return query.Absent()
		}
		return query.NumberValue(float64(r.r.Info.StartTime))
	case "end_time":
		if r.r.Info.EndTime == 0 {
			return query.Absent()
		}
		return query.NumberValue(float64(r.r.Info.EndTime))
	default:
		return query.Absent()
	}
}

func (r runRecord) Tag(key string) query.Value {
	v, ok := r.r.Data.Tags[key]
	if !ok {
		return query.Absent()
	}
	return query.StringValue(v)
}

func (r runRecord) Param(key string) query.Value {
	v, ok := r.r.Data.Params[key]
	if !ok {
		return query.Absent()
	}
	return query.StringValue(v)
}

func (r runRecord) Metric(key string) query.Value {
	v, ok := r.r.Data.Metrics[key]
	if !ok {
		return query.Absent()
	}
	return query.NumberValue(v)
}

// normalizeExperimentAttribute canonicalizes an attribute field name
// parsed from a filter/order_by clause against an experiment.
func normalizeExperimentAttribute(name string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "_"))
}

// normalizeRunAttribute canonicalizes an attribute field name parsed
// from a filter/order_by clause against a run, resolving the aliases
// listed in the filter grammar (run_id/Run ID/Run Id, run_name/run
// name/Run Name, start_time/created, ...).
func normalizeRunAttribute(name string) string {
	key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "_"))
	switch key {
	case "run_id", "run id":
		return "run_id"
	case "run_name", "run name":
		return "run_name"
	case "created":
		return "start_time"
	default:
		return key
	}
}

var runIDOrderTiebreak = query.OrderClause{Field: query.Field{Kind: query.FieldAttribute, Name: "run_id"}, Desc: false}
var experimentIDOrderTiebreak = query.OrderClause{Field: query.Field{Kind: query.FieldAttribute, Name: "experiment_id"}, Desc: false}

var defaultExperimentOrder = []query.OrderClause{
	{Field: query.Field{Kind: query.FieldAttribute, Name: "last_update_time"}, Desc: true},
}

var defaultRunOrder = []query.OrderClause{
	{Field: query.Field{Kind: query.FieldAttribute, Name: "start_time"}, Desc: true},
}

func decodePageOffset(token *string) (int, error) {
	if token == nil {
		return 0, nil
	}
	return query.DecodeOffsetToken(*token)
}

// SearchExperiments returns experiments matching filterStr and viewType,
// ordered by orderBy (defaulting to last_update_time DESC, experiment_id
// ASC), paginated by pageToken/maxResults.
func (s *Store) SearchExperiments(filterStr string, viewType ViewType, maxResults *int, orderBy []string, pageToken *string) (*ExperimentPage, error) {
	filter, err := query.ParseFilter(filterStr)
	if err != nil {
		return nil, errInvalid("%s", err)
	}
	clauses, err := query.ParseOrderBy(orderBy)
	if err != nil {
		return nil, errInvalid("%s", err)
	}
	n, err := query.ValidateMaxResults(maxResults, s.opts.searchMaxResultsCeiling)
	if err != nil {
		return nil, errInvalid("%s", err)
	}
	offset, err := decodePageOffset(pageToken)
	if err != nil {
		return nil, errInvalid("%s", err)
	}

	ids, err := ipath.ListExperimentDirs(s.root)
	if err != nil {
		return nil, errInternal(err, "failed to list experiments")
	}

	matched := make([]*Experiment, 0, len(ids))
	for _, id := range ids {
		exp, err := s.GetExperiment(id)
		if err != nil {
			continue // malformed entries are silently excluded from search
		}
		if !matchesViewType(exp.LifecycleStage, viewType) {
			continue
		}
		ok, err := filter.Matches(experimentRecord{exp}, normalizeExperimentAttribute)
		if err != nil {
			return nil, errInvalid("%s", err)
		}
		if ok {
			matched = append(matched, exp)
		}
	}

	if len(clauses) == 0 {
		clauses = defaultExperimentOrder
	}
	query.Sort(matched, clauses, experimentIDOrderTiebreak, func(e *Experiment, f query.Field) query.Value {
		return query.FieldValue(experimentRecord{e}, f, normalizeExperimentAttribute)
	})

	page, nextToken := query.Page(matched, offset, n)
	return &ExperimentPage{Experiments: page, Token: nextToken}, nil
}

// SearchRuns returns runs under experimentIDs matching filterStr and
// viewType, ordered by orderBy (defaulting to start_time DESC, run_id
// ASC), paginated by pageToken/maxResults.
func (s *Store) SearchRuns(experimentIDs []string, filterStr string, viewType ViewType, maxResults *int, orderBy []string, pageToken *string) (*RunPage, error) {
	filter, err := query.ParseFilter(filterStr)
	if err != nil {
		return nil, errInvalid("%s", err)
	}
	clauses, err := query.ParseOrderBy(orderBy)
	if err != nil {
		return nil, errInvalid("%s", err)
	}
	n, err := query.ValidateMaxResults(maxResults, s.opts.searchMaxResultsCeiling)
	if err != nil {
		return nil, errInvalid("%s", err)
	}
	offset, err := decodePageOffset(pageToken)
	if err != nil {
		return nil, errInvalid("%s", err)
	}

	matched := make([]*Run, 0)
	for _, experimentID := range experimentIDs {
		runIDs, err := ipath.ListRunDirs(s.root, experimentID)
		if err != nil {
			continue
		}
		for _, runID := range runIDs {
			run, err := s.GetRun(runID)
			if err != nil {
				continue // malformed entries are silently excluded from search
			}
			if !matchesViewType(run.Info.LifecycleStage, viewType) {
				continue
			}
			ok, err := filter.Matches(runRecord{run}, normalizeRunAttribute)
			if err != nil {
				return nil, errInvalid("%s", err)
			}
			if ok {
				matched = append(matched, run)
			}
		}
	}

	if len(clauses) == 0 {
		clauses = defaultRunOrder
	}
	query.Sort(matched, clauses, runIDOrderTiebreak, func(r *Run, f query.Field) query.Value {
		return query.FieldValue(runRecord{r}, f, normalizeRunAttribute)
	})

	page, nextToken := query.Page(matched, offset, n)
	return &RunPage{Runs: page, Token: nextToken}, nil
}

func matchesViewType(stage LifecycleStage, vt ViewType) bool {
	switch vt {
	case ViewTypeActiveOnly, "":
		return stage == LifecycleStageActive
	case ViewTypeDeletedOnly:
		return stage == LifecycleStageDeleted
	case ViewTypeAll:
		return true
	default:
		return stage == LifecycleStageActive
	}
}
