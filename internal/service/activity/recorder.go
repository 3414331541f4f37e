// Package activity maintains the append-only financial activity ledger.
package activity

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/sowmensarker/ambika/internal/domain/models"
	"github.com/sowmensarker/ambika/internal/repository"
	"github.com/sowmensarker/ambika/internal/service/daterange"
)

// Mirror receives a copy of every stored record, e.g. a spreadsheet.
type Mirror interface {
	AppendActivity(ctx context.Context, record models.ActivityRecord) error
}

// Recorder writes and reads activity records.
type Recorder struct {
	repo   repository.ActivityRepository
	mirror Mirror
	clock  *daterange.Clock
	logger *zap.Logger
}

// NewRecorder wires a recorder. mirror may be nil.
func NewRecorder(repo repository.ActivityRepository, mirror Mirror, clock *daterange.Clock, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = daterange.NewClock(nil)
	}
	return &Recorder{repo: repo, mirror: mirror, clock: clock, logger: logger}
}

// Record appends one entry stamped with the current time.
func (r *Recorder) Record(ctx context.Context, typ models.ActivityType, description string, amount float64, date string) (models.ActivityRecord, error) {
	if strings.TrimSpace(string(typ)) == "" || strings.TrimSpace(description) == "" {
		return models.ActivityRecord{}, models.ValidationError("activity type and description are required")
	}

	record := models.ActivityRecord{
		Type:        typ,
		Description: description,
		Amount:      amount,
		Date:        date,
		Timestamp:   r.clock.Millis(),
	}

	if err := r.repo.InsertActivity(ctx, record); err != nil {
		return models.ActivityRecord{}, models.PersistenceError("failed to add activity", err)
	}

	if r.mirror != nil {
		if err := r.mirror.AppendActivity(ctx, record); err != nil {
			r.logger.Warn("activity mirror append failed", zap.String("type", string(typ)), zap.Error(err))
		}
	}

	return record, nil
}

// List returns the records of a range, newest first, optionally filtered by a
// case-insensitive search over type and description.
func (r *Recorder) List(ctx context.Context, rangeToken, search string) ([]models.ActivityRecord, error) {
	from, to, err := r.clock.Resolve(rangeToken)
	if err != nil {
		return nil, err
	}

	records, err := r.repo.ActivitiesInRange(ctx, from, to)
	if err != nil {
		return nil, models.PersistenceError("failed to get activity data", err)
	}

	return Filter(records, search), nil
}

// Filter sorts newest first and keeps records matching search.
func Filter(records []models.ActivityRecord, search string) []models.ActivityRecord {
	needle := strings.ToLower(strings.TrimSpace(search))
	out := make([]models.ActivityRecord, 0, len(records))
	for _, rec := range records {
		if needle != "" &&
			!strings.Contains(strings.ToLower(string(rec.Type)), needle) &&
			!strings.Contains(strings.ToLower(rec.Description), needle) {
			continue
		}
		out = append(out, rec)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp > out[j].Timestamp })
	return out
}

// LogFailure is what callers do with a recorder error: the primary write stands.
func LogFailure(logger *zap.Logger, typ models.ActivityType, err error) {
	if err == nil || logger == nil {
		return
	}
	logger.Error("failed to record activity", zap.String("type", string(typ)), zap.Error(err))
}
