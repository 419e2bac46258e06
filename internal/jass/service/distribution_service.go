package service

import (
	"context"
	"fmt"
	"time"

	"github.com/SantiagoPrada3/jass-sub000/internal/jass/entity"
	"github.com/SantiagoPrada3/jass-sub000/internal/jass/repository"
	"github.com/google/uuid"
)

// DistributionService manages the weekly water distribution timetable.
type DistributionService struct {
	schedules *repository.DistributionRepository
	zones     *repository.ZoneRepository
}

func NewDistributionService(schedules *repository.DistributionRepository, zones *repository.ZoneRepository) *DistributionService {
	return &DistributionService{schedules: schedules, zones: zones}
}

type ScheduleRequest struct {
	OrganizationID string `json:"organization_id" binding:"required"`
	ZoneID         string `json:"zone_id" binding:"required"`
	DayOfWeek      string `json:"day_of_week" binding:"required"`
	StartTime      string `json:"start_time" binding:"required"`
	EndTime        string `json:"end_time" binding:"required"`
	ResponsibleID  string `json:"responsible_id"`
	Observations   string `json:"observations"`
}

func validateSchedule(req *ScheduleRequest) error {
	fields := map[string]string{}

	if !contains(entity.ValidScheduleDays, req.DayOfWeek) {
		fields["day_of_week"] = "unknown day: " + req.DayOfWeek
	}
	start, errStart := time.Parse("15:04", req.StartTime)
	if errStart != nil {
		fields["start_time"] = "must be HH:MM"
	}
	end, errEnd := time.Parse("15:04", req.EndTime)
	if errEnd != nil {
		fields["end_time"] = "must be HH:MM"
	}
	if errStart == nil && errEnd == nil && !end.After(start) {
		fields["end_time"] = "must be after start_time"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func (s *DistributionService) List(ctx context.Context, filters map[string]string) ([]entity.DistributionSchedule, error) {
	return s.schedules.FindAll(ctx, filters)
}

func (s *DistributionService) Get(ctx context.Context, id string) (*entity.DistributionSchedule, error) {
	return s.schedules.FindByID(ctx, id)
}

// WeeklyTimetable groups a zone's active schedules by day, in week order.
func (s *DistributionService) WeeklyTimetable(ctx context.Context, orgID string) (map[string][]entity.DistributionSchedule, error) {
	schedules, err := s.schedules.FindAll(ctx, map[string]string{"organization_id": orgID})
	if err != nil {
		return nil, err
	}
	timetable := make(map[string][]entity.DistributionSchedule, len(entity.ValidScheduleDays))
	for _, day := range entity.ValidScheduleDays {
		timetable[day] = []entity.DistributionSchedule{}
	}
	for _, schedule := range schedules {
		timetable[schedule.DayOfWeek] = append(timetable[schedule.DayOfWeek], schedule)
	}
	return timetable, nil
}

func (s *DistributionService) Create(ctx context.Context, req *ScheduleRequest) (*entity.DistributionSchedule, error) {
	if err := validateSchedule(req); err != nil {
		return nil, err
	}
	if _, err := s.zones.FindByID(ctx, req.ZoneID); err != nil {
		return nil, fmt.Errorf("zone lookup: %w", err)
	}

	schedule := &entity.DistributionSchedule{
		ID:             uuid.New().String()[:32],
		OrganizationID: req.OrganizationID,
		ZoneID:         req.ZoneID,
		DayOfWeek:      req.DayOfWeek,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		ResponsibleID:  req.ResponsibleID,
		Observations:   req.Observations,
		RecordStatus:   entity.RecordStatusActive,
	}
	if err := s.schedules.Create(ctx, schedule); err != nil {
		return nil, err
	}
	return schedule, nil
}

func (s *DistributionService) Update(ctx context.Context, id string, req *ScheduleRequest) (*entity.DistributionSchedule, error) {
	if err := validateSchedule(req); err != nil {
		return nil, err
	}
	schedule, err := s.schedules.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	schedule.ZoneID = req.ZoneID
	schedule.DayOfWeek = req.DayOfWeek
	schedule.StartTime = req.StartTime
	schedule.EndTime = req.EndTime
	schedule.ResponsibleID = req.ResponsibleID
	schedule.Observations = req.Observations
	if err := s.schedules.Update(ctx, schedule); err != nil {
		return nil, err
	}
	return schedule, nil
}

func (s *DistributionService) Delete(ctx context.Context, id string) error {
	return s.schedules.SetRecordStatus(ctx, id, entity.RecordStatusInactive)
}

func (s *DistributionService) Restore(ctx context.Context, id string) error {
	return s.schedules.SetRecordStatus(ctx, id, entity.RecordStatusActive)
}
