package service

import (
	"context"

	"fitbook/internal/domain"
	"fitbook/internal/models"

	"github.com/rs/zerolog"
)

type InstructorService struct {
	repo   domain.Repository
	logger *zerolog.Logger
}

func NewInstructorService(repo domain.Repository, logger *zerolog.Logger) *InstructorService {
	return &InstructorService{repo: repo, logger: logger}
}

func (s *InstructorService) CreateInstructor(ctx context.Context, instructor *models.Instructor) error {
	if err := s.repo.CreateInstructor(ctx, instructor); err != nil {
		return err
	}
	s.logger.Info().Int64("instructor_id", instructor.ID).Str("name", instructor.Name).Msg("instructor created")
	return nil
}

func (s *InstructorService) ListInstructors(ctx context.Context) ([]*models.Instructor, error) {
	return s.repo.GetInstructors(ctx)
}
