package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/campusdesk/campusdesk/shared/domain"
	internal_errors "github.com/campusdesk/campusdesk/shared/errors"
)

func (s *Storage) GradingParameters(ctx context.Context) ([]domain.GradingParameter, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, "SELECT id, name, max_score FROM grading_parameters ORDER BY id")
	if err != nil {
		return nil, internal_errors.WrapStore("GradingParameters", fmt.Errorf("failed to query grading parameters: %w", err))
	}
	defer rows.Close()

	params := []domain.GradingParameter{}
	for rows.Next() {
		var p domain.GradingParameter
		if err := rows.Scan(&p.Id, &p.Name, &p.MaxScore); err != nil {
			return nil, internal_errors.WrapStore("GradingParameters", fmt.Errorf("failed to scan grading parameter: %w", err))
		}
		params = append(params, p)
	}
	return params, internal_errors.WrapStore("GradingParameters", rows.Err())
}

func (s *Storage) GradingParameter(ctx context.Context, id domain.ParamId) (domain.GradingParameter, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	p := domain.GradingParameter{Id: id}
	err := s.db.QueryRowContext(ctx, "SELECT name, max_score FROM grading_parameters WHERE id = $1", id).Scan(&p.Name, &p.MaxScore)
	if err != nil {
		return domain.GradingParameter{}, notFoundOr("GradingParameter", "Grading parameter", fmt.Errorf("failed to query grading parameter: %w", err))
	}
	return p, nil
}

// AddGradingParameter returns InvalidId if the name is taken.
func (s *Storage) AddGradingParameter(ctx context.Context, name string, maxScore float64) (domain.ParamId, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	id := domain.InvalidId
	err := s.db.QueryRowContext(ctx,
		"INSERT INTO grading_parameters (name, max_score) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING RETURNING id",
		name, maxScore).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.InvalidId, nil
		}
		return domain.InvalidId, internal_errors.WrapStore("AddGradingParameter", fmt.Errorf("failed to insert grading parameter: %w", err))
	}
	return id, nil
}

func (s *Storage) UpdateGradingParameter(ctx context.Context, p domain.GradingParameter) (bool, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx,
		"UPDATE grading_parameters SET name = $1, max_score = $2 WHERE id = $3", p.Name, p.MaxScore, p.Id)
	if err != nil {
		return false, internal_errors.WrapStore("UpdateGradingParameter", fmt.Errorf("failed to update grading parameter: %w", err))
	}
	ok, err := affected(res)
	return ok, internal_errors.WrapStore("UpdateGradingParameter", err)
}

// DeleteGradingParameter is a single statement; the schema cascades the
// delete to every student score for the parameter.
func (s *Storage) DeleteGradingParameter(ctx context.Context, id domain.ParamId) (bool, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx, "DELETE FROM grading_parameters WHERE id = $1", id)
	if err != nil {
		return false, internal_errors.WrapStore("DeleteGradingParameter", fmt.Errorf("failed to delete grading parameter: %w", err))
	}
	ok, err := affected(res)
	return ok, internal_errors.WrapStore("DeleteGradingParameter", err)
}

// SetStudentScore upserts one score. False when the parameter is unknown.
func (s *Storage) SetStudentScore(ctx context.Context, student domain.UserName, paramId domain.ParamId, score float64) (bool, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO student_scores (student_user_name, param_id, score)
		SELECT $1::text, $2::bigint, $3::double precision
		WHERE EXISTS (SELECT 1 FROM grading_parameters WHERE id = $2)
		ON CONFLICT (student_user_name, param_id) DO UPDATE SET score = EXCLUDED.score`,
		student, paramId, score)
	if err != nil {
		return false, internal_errors.WrapStore("SetStudentScore", fmt.Errorf("failed to upsert score: %w", err))
	}
	ok, err := affected(res)
	return ok, internal_errors.WrapStore("SetStudentScore", err)
}

// StudentScores lists every parameter with the student's score, zero where
// none was recorded.
func (s *Storage) StudentScores(ctx context.Context, student domain.UserName) ([]domain.StudentScore, error) {
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT gp.id, gp.name, gp.max_score, COALESCE(ss.score, 0.0)
		FROM grading_parameters gp
		LEFT JOIN student_scores ss ON ss.param_id = gp.id AND ss.student_user_name = $1
		ORDER BY gp.id`,
		student)
	if err != nil {
		return nil, internal_errors.WrapStore("StudentScores", fmt.Errorf("failed to query scores: %w", err))
	}
	defer rows.Close()

	scores := []domain.StudentScore{}
	for rows.Next() {
		sc := domain.StudentScore{Student: student}
		if err := rows.Scan(&sc.Param.Id, &sc.Param.Name, &sc.Param.MaxScore, &sc.Score); err != nil {
			return nil, internal_errors.WrapStore("StudentScores", fmt.Errorf("failed to scan score: %w", err))
		}
		scores = append(scores, sc)
	}
	return scores, internal_errors.WrapStore("StudentScores", rows.Err())
}
