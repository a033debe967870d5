package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/lshigami/Quizdesk/internal/auth"
	"github.com/lshigami/Quizdesk/internal/clock"
	"github.com/lshigami/Quizdesk/internal/dto"
	"github.com/lshigami/Quizdesk/internal/model"
	"github.com/lshigami/Quizdesk/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type AssignmentService interface {
	Assign(ctx context.Context, teacher auth.Teacher, quizID uint, req dto.AssignRequest) (*dto.AssignResponse, error)
	ListForQuiz(ctx context.Context, teacher auth.Teacher, quizID uint) ([]dto.AssignmentResponse, error)
	Update(ctx context.Context, teacher auth.Teacher, id uint, req dto.UpdateAssignmentRequest) (*dto.AssignmentResponse, error)
	Revoke(ctx context.Context, teacher auth.Teacher, id uint) error
	AssignedQuizzes(ctx context.Context, student auth.Student) ([]dto.AssignedQuizResponse, error)
}

type assignmentService struct {
	assignmentRepo repository.AssignmentRepository
	quizRepo       repository.QuizRepository
	userRepo       repository.UserRepository
	clock          clock.Clock
	db             *gorm.DB
}

func NewAssignmentService(
	assignmentRepo repository.AssignmentRepository,
	quizRepo repository.QuizRepository,
	userRepo repository.UserRepository,
	clk clock.Clock,
	db *gorm.DB,
) AssignmentService {
	return &assignmentService{
		assignmentRepo: assignmentRepo,
		quizRepo:       quizRepo,
		userRepo:       userRepo,
		clock:          clk,
		db:             db,
	}
}

// Assign get-or-creates one assignment per student and returns the ids of
// the rows this call created. Repeating a call is a no-op.
func (s *assignmentService) Assign(ctx context.Context, teacher auth.Teacher, quizID uint, req dto.AssignRequest) (*dto.AssignResponse, error) {
	studentIDs, err := parseStudentIDs(req.Students)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwnedQuiz(ctx, teacher, quizID); err != nil {
		return nil, err
	}

	students, err := s.userRepo.FindStudentsByIDs(ctx, studentIDs)
	if err != nil {
		return nil, fmt.Errorf("loading students: %w", err)
	}
	if len(students) != len(studentIDs) {
		known := make(map[uint]bool, len(students))
		for _, u := range students {
			known[u.ID] = true
		}
		var bad []string
		for _, id := range studentIDs {
			if !known[id] {
				bad = append(bad, strconv.FormatUint(uint64(id), 10))
			}
		}
		return nil, FieldError("students", "Invalid student ids: "+strings.Join(bad, ", "))
	}

	now := s.clock.Now()
	created := make([]uint, 0, len(studentIDs))
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.assignmentRepo.WithTx(tx)
		for _, studentID := range studentIDs {
			assignedBy := teacher.ID
			a := &model.Assignment{
				QuizID:       quizID,
				StudentID:    studentID,
				AssignedByID: &assignedBy,
				AssignedAt:   now,
				IsActive:     true,
			}
			ok, err := repo.CreateIfAbsent(ctx, a)
			if err != nil {
				return fmt.Errorf("assigning student %d: %w", studentID, err)
			}
			if ok {
				created = append(created, a.ID)
			}
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Uint("quizID", quizID).Msg("Failed to assign quiz")
		return nil, err
	}

	log.Info().Uint("quizID", quizID).Int("requested", len(studentIDs)).Int("created", len(created)).Msg("Quiz assigned")
	return &dto.AssignResponse{CreatedAssignments: created}, nil
}

func (s *assignmentService) ListForQuiz(ctx context.Context, teacher auth.Teacher, quizID uint) ([]dto.AssignmentResponse, error) {
	if err := s.requireOwnedQuiz(ctx, teacher, quizID); err != nil {
		return nil, err
	}
	assignments, err := s.assignmentRepo.FindByQuizID(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("listing assignments: %w", err)
	}
	out := make([]dto.AssignmentResponse, 0, len(assignments))
	for i := range assignments {
		out = append(out, toAssignmentResponse(&assignments[i]))
	}
	return out, nil
}

func (s *assignmentService) Update(ctx context.Context, teacher auth.Teacher, id uint, req dto.UpdateAssignmentRequest) (*dto.AssignmentResponse, error) {
	a, err := s.ownedAssignment(ctx, teacher, id)
	if err != nil {
		return nil, err
	}
	if req.IsActive != nil {
		a.IsActive = *req.IsActive
	}
	if req.ClearWindow {
		a.AvailableFrom = nil
		a.AvailableUntil = nil
	}
	if req.AvailableFrom != nil {
		a.AvailableFrom = req.AvailableFrom
	}
	if req.AvailableUntil != nil {
		a.AvailableUntil = req.AvailableUntil
	}
	if a.AvailableFrom != nil && a.AvailableUntil != nil && a.AvailableUntil.Before(*a.AvailableFrom) {
		return nil, FieldError("available_until", "Must not be earlier than available_from.")
	}
	if err := s.assignmentRepo.Update(ctx, a); err != nil {
		log.Error().Err(err).Uint("assignmentID", id).Msg("Failed to update assignment")
		return nil, fmt.Errorf("updating assignment: %w", err)
	}
	resp := toAssignmentResponse(a)
	return &resp, nil
}

func (s *assignmentService) Revoke(ctx context.Context, teacher auth.Teacher, id uint) error {
	if _, err := s.ownedAssignment(ctx, teacher, id); err != nil {
		return err
	}
	if err := s.assignmentRepo.Delete(ctx, id); err != nil {
		log.Error().Err(err).Uint("assignmentID", id).Msg("Failed to revoke assignment")
		return fmt.Errorf("revoking assignment: %w", err)
	}
	log.Info().Uint("assignmentID", id).Msg("Assignment revoked")
	return nil
}

func (s *assignmentService) AssignedQuizzes(ctx context.Context, student auth.Student) ([]dto.AssignedQuizResponse, error) {
	assignments, err := s.assignmentRepo.FindActiveByStudent(ctx, student.ID)
	if err != nil {
		return nil, fmt.Errorf("listing assignments: %w", err)
	}
	out := make([]dto.AssignedQuizResponse, 0, len(assignments))
	for _, a := range assignments {
		out = append(out, dto.AssignedQuizResponse{
			ID:               a.Quiz.ID,
			Title:            a.Quiz.Title,
			Description:      a.Quiz.Description,
			TimeLimitSeconds: a.Quiz.TimeLimitSeconds,
			QuestionCount:    len(a.Quiz.Questions),
			AssignedAt:       a.AssignedAt,
			AvailableFrom:    a.AvailableFrom,
			AvailableUntil:   a.AvailableUntil,
		})
	}
	return out, nil
}

func (s *assignmentService) requireOwnedQuiz(ctx context.Context, teacher auth.Teacher, quizID uint) error {
	quiz, err := s.quizRepo.FindByID(ctx, quizID)
	if err != nil {
		return notFoundOr(err, "Quiz", "loading quiz")
	}
	if quiz.CreatorID != teacher.ID {
		return NotFound("Quiz")
	}
	return nil
}

func (s *assignmentService) ownedAssignment(ctx context.Context, teacher auth.Teacher, id uint) (*model.Assignment, error) {
	a, err := s.assignmentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Assignment", "loading assignment")
	}
	if a.Quiz.CreatorID != teacher.ID {
		return nil, NotFound("Assignment")
	}
	return a, nil
}

// parseStudentIDs accepts a JSON list of ids. A missing field is an empty
// list. Duplicates are dropped and the result is sorted.
func parseStudentIDs(raw json.RawMessage) ([]uint, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return []uint{}, nil
	}
	var ids []uint
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, FieldError("students", "students must be a list of ids")
	}
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}
