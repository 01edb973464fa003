package interviews

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"interview-backend/internal/shared/storage/db"
)

// PGInterviewRepo implements InterviewRepo using Postgres.
type PGInterviewRepo struct {
	DB *sql.DB
}

// PGQuestionRepo implements QuestionRepo using Postgres.
type PGQuestionRepo struct {
	DB *sql.DB
}

// Create inserts a new interview.
func (r *PGInterviewRepo) Create(ctx context.Context, interview Interview) error {
	const query = `
INSERT INTO interviews (id, user_id, title, position, cv_text, cv_key, status, score, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.DB.ExecContext(ctx, query,
		interview.ID,
		interview.UserID,
		interview.Title,
		interview.Position,
		nullString(interview.ResumeText),
		nullString(interview.ResumeKey),
		interview.Status,
		nullInt(interview.Score),
		interview.CreatedAt,
		interview.UpdatedAt,
	)
	return err
}

// GetByID returns an interview by ID.
func (r *PGInterviewRepo) GetByID(ctx context.Context, id string) (Interview, error) {
	const query = `
SELECT id, user_id, title, position, cv_text, cv_key, status, score, created_at, updated_at
FROM interviews
WHERE id = $1
LIMIT 1`
	var (
		i         Interview
		cvText    sql.NullString
		cvKey     sql.NullString
		scoreNull sql.NullInt64
	)
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&i.ID,
		&i.UserID,
		&i.Title,
		&i.Position,
		&cvText,
		&cvKey,
		&i.Status,
		&scoreNull,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Interview{}, ErrNotFound
		}
		return Interview{}, err
	}
	i.ResumeText = cvText.String
	i.ResumeKey = cvKey.String
	i.Score = intPtr(scoreNull)
	return i, nil
}

// ListByUser returns the user's interviews with progress counts, newest first.
func (r *PGInterviewRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Summary, error) {
	const query = `
SELECT i.id, i.title, i.position, i.status, i.score, i.created_at, i.updated_at,
       COUNT(q.id) AS question_count,
       COUNT(q.answer_text) AS answered_count
FROM interviews i
LEFT JOIN questions q ON q.interview_id = i.id
WHERE i.user_id = $1
GROUP BY i.id
ORDER BY i.created_at DESC, i.id DESC
LIMIT $2 OFFSET $3`
	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []Summary{}
	for rows.Next() {
		var (
			s         Summary
			scoreNull sql.NullInt64
		)
		if err := rows.Scan(
			&s.ID,
			&s.Title,
			&s.Position,
			&s.Status,
			&scoreNull,
			&s.CreatedAt,
			&s.UpdatedAt,
			&s.QuestionCount,
			&s.AnsweredCount,
		); err != nil {
			return nil, err
		}
		s.Score = intPtr(scoreNull)
		items = append(items, s)
	}
	return items, rows.Err()
}

// UpdateStatus moves the interview from one status to another.
func (r *PGInterviewRepo) UpdateStatus(ctx context.Context, id, from, to string, at time.Time) error {
	const query = `
UPDATE interviews
SET status = $3, updated_at = $4
WHERE id = $1 AND status = $2`
	res, err := r.DB.ExecContext(ctx, query, id, from, to, at)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		if err := r.exists(ctx, id); err != nil {
			return err
		}
		return ErrInvalidTransition
	}
	return nil
}

// Complete finalizes the interview unless it is already completed.
func (r *PGInterviewRepo) Complete(ctx context.Context, id string, score int, at time.Time) (bool, error) {
	const query = `
UPDATE interviews
SET status = 'completed', score = $2, updated_at = $3
WHERE id = $1 AND status <> 'completed'`
	res, err := r.DB.ExecContext(ctx, query, id, score, at)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected == 0 {
		return false, r.exists(ctx, id)
	}
	return true, nil
}

// Delete removes the interview; questions cascade.
func (r *PGInterviewRepo) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM interviews WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGInterviewRepo) exists(ctx context.Context, id string) error {
	const query = `SELECT 1 FROM interviews WHERE id = $1`
	var one int
	if err := r.DB.QueryRowContext(ctx, query, id).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// CreateBatch inserts all questions in one transaction.
func (r *PGQuestionRepo) CreateBatch(ctx context.Context, questions []Question) error {
	const query = `
INSERT INTO questions (id, interview_id, question_text, order_num, created_at)
VALUES ($1, $2, $3, $4, $5)`
	return db.WithTx(ctx, r.DB, func(tx *sql.Tx) error {
		for _, q := range questions {
			if _, err := tx.ExecContext(ctx, query, q.ID, q.InterviewID, q.Text, q.Order, q.CreatedAt); err != nil {
				return fmt.Errorf("insert question %d: %w", q.Order, err)
			}
		}
		return nil
	})
}

const selectQuestionColumns = `
SELECT id, interview_id, question_text, order_num, answer_text, score, feedback, created_at, answered_at
FROM questions`

// GetByID returns a question by ID.
func (r *PGQuestionRepo) GetByID(ctx context.Context, id string) (Question, error) {
	row := r.DB.QueryRowContext(ctx, selectQuestionColumns+`
WHERE id = $1
LIMIT 1`, id)
	q, err := scanQuestion(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Question{}, ErrNotFound
		}
		return Question{}, err
	}
	return q, nil
}

// ListByInterview returns the interview's questions ordered by index.
func (r *PGQuestionRepo) ListByInterview(ctx context.Context, interviewID string) ([]Question, error) {
	rows, err := r.DB.QueryContext(ctx, selectQuestionColumns+`
WHERE interview_id = $1
ORDER BY order_num ASC`, interviewID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Question{}
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

// RecordAnswer stores the scored answer if the question is still unanswered.
func (r *PGQuestionRepo) RecordAnswer(ctx context.Context, id string, answer string, score int, feedback string, at time.Time) error {
	const query = `
UPDATE questions
SET answer_text = $2, score = $3, feedback = $4, answered_at = $5
WHERE id = $1 AND answer_text IS NULL`
	res, err := r.DB.ExecContext(ctx, query, id, answer, score, feedback, at)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return ErrAlreadyAnswered
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuestion(row rowScanner) (Question, error) {
	var (
		q          Question
		answer     sql.NullString
		scoreNull  sql.NullInt64
		feedback   sql.NullString
		answeredAt sql.NullTime
	)
	if err := row.Scan(
		&q.ID,
		&q.InterviewID,
		&q.Text,
		&q.Order,
		&answer,
		&scoreNull,
		&feedback,
		&q.CreatedAt,
		&answeredAt,
	); err != nil {
		return Question{}, err
	}
	if answer.Valid {
		q.Answer = &answer.String
	}
	q.Score = intPtr(scoreNull)
	if feedback.Valid {
		q.Feedback = &feedback.String
	}
	if answeredAt.Valid {
		q.AnsweredAt = &answeredAt.Time
	}
	return q, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	out := int(v.Int64)
	return &out
}
