package service

import (
	"context"
	"strings"

	"github.com/campusdesk/campusdesk/backend/internal/utils"
	"github.com/campusdesk/campusdesk/shared/domain"
	internal_errors "github.com/campusdesk/campusdesk/shared/errors"
)

type Grading struct {
	storage GradingStorage
}

type GradingStorage interface {
	GradingParameters(ctx context.Context) ([]domain.GradingParameter, error)
	GradingParameter(ctx context.Context, id domain.ParamId) (domain.GradingParameter, error)
	AddGradingParameter(ctx context.Context, name string, maxScore float64) (domain.ParamId, error)
	UpdateGradingParameter(ctx context.Context, p domain.GradingParameter) (bool, error)
	DeleteGradingParameter(ctx context.Context, id domain.ParamId) (bool, error)
	SetStudentScore(ctx context.Context, student domain.UserName, paramId domain.ParamId, score float64) (bool, error)
	StudentScores(ctx context.Context, student domain.UserName) ([]domain.StudentScore, error)
}

func NewGrading(storage GradingStorage) *Grading {
	return &Grading{storage: storage}
}

func (g *Grading) Parameters(ctx context.Context) ([]domain.GradingParameter, error) {
	return g.storage.GradingParameters(ctx)
}

// AddParameter returns InvalidId when the name is already used.
func (g *Grading) AddParameter(ctx context.Context, name string, maxScore float64) (domain.ParamId, error) {
	p := domain.GradingParameter{Name: strings.TrimSpace(name), MaxScore: maxScore}
	if err := utils.Validate(p); err != nil {
		return domain.InvalidId, err
	}
	return g.storage.AddGradingParameter(ctx, p.Name, p.MaxScore)
}

func (g *Grading) UpdateParameter(ctx context.Context, p domain.GradingParameter) (bool, error) {
	p.Name = strings.TrimSpace(p.Name)
	if err := utils.Validate(p); err != nil {
		return false, err
	}
	return g.storage.UpdateGradingParameter(ctx, p)
}

// DeleteParameter removes the parameter; the schema cascades to every score
// recorded against it.
func (g *Grading) DeleteParameter(ctx context.Context, id domain.ParamId) (bool, error) {
	return g.storage.DeleteGradingParameter(ctx, id)
}

func (g *Grading) SetScore(ctx context.Context, student domain.UserName, paramId domain.ParamId, score float64) (bool, error) {
	param, err := g.storage.GradingParameter(ctx, paramId)
	if internal_errors.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if score < 0 || score > param.MaxScore {
		return false, internal_errors.NewValidationError("Score must be between 0 and %g", param.MaxScore)
	}
	return g.storage.SetStudentScore(ctx, student, paramId, score)
}

// StudentScores lists every parameter; ungraded ones score zero.
func (g *Grading) StudentScores(ctx context.Context, student domain.UserName) ([]domain.StudentScore, error) {
	return g.storage.StudentScores(ctx, student)
}
