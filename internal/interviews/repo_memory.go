package interviews

import (
	"context"
	"sort"
	"sync"
	"time"
)

type memoryState struct {
	mu         sync.RWMutex
	interviews map[string]Interview
	questions  map[string]Question
}

// MemoryInterviewRepo stores interviews in memory and is safe for concurrent use.
type MemoryInterviewRepo struct {
	state *memoryState
}

// MemoryQuestionRepo stores questions in memory alongside a MemoryInterviewRepo.
type MemoryQuestionRepo struct {
	state *memoryState
}

// NewMemoryRepos constructs interview and question repos sharing one store,
// so deleting an interview removes its questions.
func NewMemoryRepos() (*MemoryInterviewRepo, *MemoryQuestionRepo) {
	state := &memoryState{
		interviews: make(map[string]Interview),
		questions:  make(map[string]Question),
	}
	return &MemoryInterviewRepo{state: state}, &MemoryQuestionRepo{state: state}
}

// Create stores the interview.
func (r *MemoryInterviewRepo) Create(ctx context.Context, interview Interview) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	r.state.interviews[interview.ID] = cloneInterview(interview)
	return nil
}

// GetByID returns an interview by its ID.
func (r *MemoryInterviewRepo) GetByID(ctx context.Context, id string) (Interview, error) {
	if err := ctx.Err(); err != nil {
		return Interview{}, err
	}
	r.state.mu.RLock()
	defer r.state.mu.RUnlock()
	interview, ok := r.state.interviews[id]
	if !ok {
		return Interview{}, ErrNotFound
	}
	return cloneInterview(interview), nil
}

// ListByUser returns the user's interviews, newest first.
func (r *MemoryInterviewRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.state.mu.RLock()
	defer r.state.mu.RUnlock()

	var items []Summary
	for _, interview := range r.state.interviews {
		if interview.UserID != userID {
			continue
		}
		summary := Summary{
			ID:        interview.ID,
			Title:     interview.Title,
			Position:  interview.Position,
			Status:    interview.Status,
			Score:     cloneInt(interview.Score),
			CreatedAt: interview.CreatedAt,
			UpdatedAt: interview.UpdatedAt,
		}
		for _, q := range r.state.questions {
			if q.InterviewID != interview.ID {
				continue
			}
			summary.QuestionCount++
			if q.Answered() {
				summary.AnsweredCount++
			}
		}
		items = append(items, summary)
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID > items[j].ID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})

	if offset >= len(items) {
		return []Summary{}, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(items) {
		end = len(items)
	}
	return items[offset:end], nil
}

// UpdateStatus moves the interview from one status to another.
func (r *MemoryInterviewRepo) UpdateStatus(ctx context.Context, id, from, to string, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	interview, ok := r.state.interviews[id]
	if !ok {
		return ErrNotFound
	}
	if interview.Status != from {
		return ErrInvalidTransition
	}
	interview.Status = to
	interview.UpdatedAt = at
	r.state.interviews[id] = interview
	return nil
}

// Complete finalizes the interview unless it is already completed.
func (r *MemoryInterviewRepo) Complete(ctx context.Context, id string, score int, at time.Time) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	interview, ok := r.state.interviews[id]
	if !ok {
		return false, ErrNotFound
	}
	if interview.Status == StatusCompleted {
		return false, nil
	}
	interview.Status = StatusCompleted
	interview.Score = &score
	interview.UpdatedAt = at
	r.state.interviews[id] = interview
	return true, nil
}

// Delete removes the interview and its questions.
func (r *MemoryInterviewRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	if _, ok := r.state.interviews[id]; !ok {
		return ErrNotFound
	}
	delete(r.state.interviews, id)
	for qid, q := range r.state.questions {
		if q.InterviewID == id {
			delete(r.state.questions, qid)
		}
	}
	return nil
}

// CreateBatch stores all questions or none.
func (r *MemoryQuestionRepo) CreateBatch(ctx context.Context, questions []Question) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.state.mu.Lock()
	defer r.state.mu.Unlock()

	type orderKey struct {
		interviewID string
		order       int
	}
	seen := make(map[orderKey]struct{}, len(questions))
	for _, q := range questions {
		if _, ok := r.state.interviews[q.InterviewID]; !ok {
			return ErrNotFound
		}
		if _, ok := r.state.questions[q.ID]; ok {
			return ErrInvalidInput
		}
		key := orderKey{interviewID: q.InterviewID, order: q.Order}
		if _, dup := seen[key]; dup || q.Order < 1 {
			return ErrInvalidInput
		}
		seen[key] = struct{}{}
	}
	for _, existing := range r.state.questions {
		if _, dup := seen[orderKey{interviewID: existing.InterviewID, order: existing.Order}]; dup {
			return ErrInvalidInput
		}
	}
	for _, q := range questions {
		r.state.questions[q.ID] = cloneQuestion(q)
	}
	return nil
}

// GetByID returns a question by its ID.
func (r *MemoryQuestionRepo) GetByID(ctx context.Context, id string) (Question, error) {
	if err := ctx.Err(); err != nil {
		return Question{}, err
	}
	r.state.mu.RLock()
	defer r.state.mu.RUnlock()
	q, ok := r.state.questions[id]
	if !ok {
		return Question{}, ErrNotFound
	}
	return cloneQuestion(q), nil
}

// ListByInterview returns the interview's questions ordered by index.
func (r *MemoryQuestionRepo) ListByInterview(ctx context.Context, interviewID string) ([]Question, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.state.mu.RLock()
	defer r.state.mu.RUnlock()
	out := []Question{}
	for _, q := range r.state.questions {
		if q.InterviewID == interviewID {
			out = append(out, cloneQuestion(q))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

// RecordAnswer stores the scored answer once.
func (r *MemoryQuestionRepo) RecordAnswer(ctx context.Context, id string, answer string, score int, feedback string, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	q, ok := r.state.questions[id]
	if !ok {
		return ErrNotFound
	}
	if q.Answered() {
		return ErrAlreadyAnswered
	}
	q.Answer = &answer
	q.Score = &score
	q.Feedback = &feedback
	q.AnsweredAt = &at
	r.state.questions[id] = q
	return nil
}

func cloneInterview(in Interview) Interview {
	in.Score = cloneInt(in.Score)
	return in
}

func cloneQuestion(q Question) Question {
	q.Score = cloneInt(q.Score)
	if q.Answer != nil {
		v := *q.Answer
		q.Answer = &v
	}
	if q.Feedback != nil {
		v := *q.Feedback
		q.Feedback = &v
	}
	if q.AnsweredAt != nil {
		v := *q.AnsweredAt
		q.AnsweredAt = &v
	}
	return q
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
