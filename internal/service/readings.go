package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/thermolog-dev/thermolog/internal/aggregate"
	"github.com/thermolog-dev/thermolog/internal/model"
	"github.com/thermolog-dev/thermolog/internal/policy"
	"github.com/thermolog-dev/thermolog/internal/store"
	"github.com/thermolog-dev/thermolog/internal/timewindow"
	"github.com/thermolog-dev/thermolog/pkg/schema"
)

// ReadingService orchestrates ingestion and aggregation queries of
// sensor readings. Readings are immutable once stored.
type ReadingService struct {
	store store.Store
	now   func() time.Time
}

// NewReadingService wires a reading service.
func NewReadingService(st store.Store) *ReadingService {
	return &ReadingService{store: st, now: time.Now}
}

// Ingest stores one reading; admin only. The timestamp defaults to the
// ingestion time when the sensor did not supply one.
func (s *ReadingService) Ingest(ctx context.Context, actor policy.Actor, req schema.IngestRequest) (*model.Reading, error) {
	if !policy.Allow(actor, policy.IngestReading, policy.Resource{}) {
		return nil, permissionf("Admin privileges required")
	}
	if req.SensorID == "" || req.Temperature == nil {
		return nil, validationf("Missing required fields")
	}

	ts := s.now().UTC()
	if req.Timestamp != nil {
		ts = req.Timestamp.UTC()
	}
	reading := &model.Reading{
		ID:          uuid.NewString(),
		SensorID:    req.SensorID,
		Temperature: *req.Temperature,
		Humidity:    req.Humidity,
		Timestamp:   ts,
	}
	if err := s.store.InsertReading(ctx, reading); err != nil {
		return nil, err
	}
	return reading, nil
}

// Query aggregates one sensor's readings over the window selected by
// timeframe and date. An empty date means the window containing now.
func (s *ReadingService) Query(ctx context.Context, actor policy.Actor, sensorID, timeframe, date string) (*schema.QueryResult, error) {
	if !policy.Allow(actor, policy.QueryReadings, policy.Resource{}) {
		return nil, permissionf("Authentication required")
	}

	frame, err := timewindow.ParseTimeframe(timeframe)
	if err != nil {
		return nil, validationf("%s", err.Error())
	}
	ref := s.now().UTC()
	if date != "" {
		ref, err = timewindow.ParseDate(date)
		if err != nil {
			return nil, validationf("Invalid date format. Use YYYY-MM-DD")
		}
	}
	window := timewindow.New(frame, ref)

	readings, err := s.store.ReadingsBySensor(ctx, sensorID, window.Start, window.End)
	if err != nil {
		return nil, err
	}
	return &schema.QueryResult{
		SensorID:  sensorID,
		Timeframe: string(frame),
		StartDate: window.Start,
		EndDate:   window.End,
		Data:      aggregate.Summarize(window, readings),
	}, nil
}

// Sensors returns the distinct sensor identifiers seen so far.
func (s *ReadingService) Sensors(ctx context.Context, actor policy.Actor) ([]string, error) {
	if !policy.Allow(actor, policy.ListSensors, policy.Resource{}) {
		return nil, permissionf("Authentication required")
	}
	ids, err := s.store.SensorIDs(ctx)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}
