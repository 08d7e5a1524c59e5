package services

import (
	"context"
	"errors"

	"socialcal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ScheduleInput struct {
	Work      string `json:"work" validate:"required,max=255"`
	Place     string `json:"place" validate:"max=255"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime string `json:"start_time" validate:"required,datetime=15:04"`
	EndTime   string `json:"end_time" validate:"required,datetime=15:04"`
}

func (in ScheduleInput) validate() error {
	if err := validateStruct(in); err != nil {
		return &Error{Kind: ValidationError, Message: "invalid schedule entry", Err: err}
	}
	// HH:MM compares correctly as a string
	if in.EndTime < in.StartTime {
		return &Error{Kind: ValidationError, Message: "invalid schedule entry", Err: ValidationErrors{
			{Field: "end_time", Message: "must not be before start_time"},
		}}
	}
	return nil
}

type ScheduleResult struct {
	MutationResult
	Key string `json:"key,omitempty"`
}

// ScheduleService edits the caller's own schedule. Update and delete with an
// unknown key succeed without changing anything.
type ScheduleService struct {
	schedules ScheduleStore
	log       *zap.Logger
}

func NewScheduleService(schedules ScheduleStore, log *zap.Logger) *ScheduleService {
	return &ScheduleService{schedules: schedules, log: log}
}

func (s *ScheduleService) Create(ctx context.Context, id *Identity, in ScheduleInput) (*ScheduleResult, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	entry := entryFromInput(uuid.NewString(), in)

	err := s.schedules.AppendEntry(ctx, id.UserID, entry)
	if errors.Is(err, models.ErrNotFound) {
		if err = s.schedules.CreateEmpty(ctx, id.UserID); err != nil {
			return nil, storeFailure("create schedule", err)
		}
		err = s.schedules.AppendEntry(ctx, id.UserID, entry)
	}
	if err != nil {
		return nil, storeFailure("append schedule entry", err)
	}
	return &ScheduleResult{
		MutationResult: MutationResult{Success: true, Message: "Schedule created."},
		Key:            entry.Key,
	}, nil
}

func (s *ScheduleService) Update(ctx context.Context, id *Identity, key string, in ScheduleInput) (*MutationResult, error) {
	if key == "" {
		return nil, newError(ValidationError, "key is required")
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	found, err := s.schedules.ReplaceEntryByKey(ctx, id.UserID, entryFromInput(key, in))
	if err != nil {
		return nil, storeFailure("replace schedule entry", err)
	}
	if !found {
		s.log.Debug("schedule update matched no entry", zap.String("user_id", id.UserID), zap.String("key", key))
	}
	return &MutationResult{Success: true, Message: "Schedule updated."}, nil
}

func (s *ScheduleService) Delete(ctx context.Context, id *Identity, key string) (*MutationResult, error) {
	if key == "" {
		return nil, newError(ValidationError, "key is required")
	}
	found, err := s.schedules.RemoveEntryByKey(ctx, id.UserID, key)
	if err != nil {
		return nil, storeFailure("remove schedule entry", err)
	}
	if !found {
		s.log.Debug("schedule delete matched no entry", zap.String("user_id", id.UserID), zap.String("key", key))
	}
	return &MutationResult{Success: true, Message: "Schedule deleted."}, nil
}

func (s *ScheduleService) List(ctx context.Context, id *Identity) ([]models.ScheduleEntry, error) {
	schedule, err := s.schedules.FindByUserID(ctx, id.UserID)
	if errors.Is(err, models.ErrNotFound) {
		return []models.ScheduleEntry{}, nil
	}
	if err != nil {
		return nil, storeFailure("find schedule", err)
	}
	return schedule.Entries, nil
}

func entryFromInput(key string, in ScheduleInput) models.ScheduleEntry {
	return models.ScheduleEntry{
		Key:       key,
		Work:      in.Work,
		Place:     in.Place,
		Date:      in.Date,
		StartTime: in.StartTime,
		EndTime:   in.EndTime,
	}
}
