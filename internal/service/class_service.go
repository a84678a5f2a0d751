package service

import (
	"context"

	"fitbook/internal/domain"
	"fitbook/internal/events"
	"fitbook/internal/models"
	"fitbook/internal/timezone"

	"github.com/rs/zerolog"
)

// ClassService serves the class read and create paths. The read path goes
// through the class-list cache; the cache is an optimization only and any
// cache failure falls through to the store.
type ClassService struct {
	repo     domain.Repository
	cache    domain.ClassCache
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
}

func NewClassService(repo domain.Repository, cache domain.ClassCache, eventBus domain.EventPublisher, logger *zerolog.Logger) *ClassService {
	return &ClassService{
		repo:     repo,
		cache:    cache,
		eventBus: eventBus,
		logger:   logger,
	}
}

// ListClasses returns all classes ordered by start time, with start date and
// time localized to userTimezone. An empty or unknown zone falls back per the
// timezone package rules.
func (s *ClassService) ListClasses(ctx context.Context, userTimezone string) ([]models.ClassSummary, error) {
	if userTimezone == "" {
		userTimezone = models.DefaultZone
	}

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, userTimezone); err == nil && cached != nil {
			return cached, nil
		}
	}

	classes, err := s.repo.GetClasses(ctx)
	if err != nil {
		return nil, err
	}

	instructors, err := s.repo.GetInstructors(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*models.Instructor, len(instructors))
	for _, i := range instructors {
		byID[i.ID] = i
	}

	summaries := make([]models.ClassSummary, 0, len(classes))
	for _, c := range classes {
		date, clock := timezone.Present(c.StartsAt, userTimezone)
		summaries = append(summaries, models.ClassSummary{
			ID:              c.ID,
			ClassType:       c.ClassType,
			Description:     c.Description,
			Instructor:      byID[c.InstructorID],
			StartDate:       date,
			StartTime:       clock,
			DurationMinutes: c.DurationMinutes,
			TotalSlots:      c.TotalSlots,
			AvailableSlots:  c.AvailableSlots,
			DaysOfWeek:      c.DaysOfWeek,
		})
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, userTimezone, summaries); err != nil {
			s.logger.Warn().Err(err).Msg("failed to cache class list")
		}
	}

	return summaries, nil
}

// CreateClass validates bounds, checks the instructor exists and persists the
// class. A zero AvailableSlots on input means "open the full capacity".
func (s *ClassService) CreateClass(ctx context.Context, class *models.FitnessClass) error {
	if _, err := s.repo.GetInstructor(ctx, class.InstructorID); err != nil {
		return err
	}

	if class.AvailableSlots == 0 {
		class.AvailableSlots = class.TotalSlots
	}

	if err := s.repo.CreateClass(ctx, class); err != nil {
		return err
	}

	if s.eventBus != nil {
		_ = s.eventBus.PublishJSON(events.EventClassCreated, class)
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("failed to invalidate class list cache")
		}
	}

	s.logger.Info().
		Int64("class_id", class.ID).
		Str("class_type", class.ClassType).
		Msg("fitness class created")

	return nil
}

func (s *ClassService) GetClass(ctx context.Context, id int64) (*models.FitnessClass, error) {
	return s.repo.GetClass(ctx, id)
}
