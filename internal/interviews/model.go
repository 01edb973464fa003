package interviews

import "time"

const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// Interview is one practice session owned by a user.
type Interview struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	Title      string    `json:"title"`
	Position   string    `json:"position"`
	ResumeText string    `json:"resumeText,omitempty"`
	ResumeKey  string    `json:"-"`
	Status     string    `json:"status"`
	Score      *int      `json:"score"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Question is one ordered prompt within an interview. Answer, Score and
// Feedback are either all nil or all set.
type Question struct {
	ID          string     `json:"id"`
	InterviewID string     `json:"interviewId"`
	Text        string     `json:"text"`
	Order       int        `json:"order"`
	Answer      *string    `json:"answer"`
	Score       *int       `json:"score"`
	Feedback    *string    `json:"feedback"`
	CreatedAt   time.Time  `json:"createdAt"`
	AnsweredAt  *time.Time `json:"answeredAt,omitempty"`
}

// Answered reports whether the question holds a scored answer.
func (q Question) Answered() bool {
	return q.Answer != nil
}

// Summary is an interview row with progress counts for listings.
type Summary struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Position      string    `json:"position"`
	Status        string    `json:"status"`
	Score         *int      `json:"score"`
	QuestionCount int       `json:"questionCount"`
	AnsweredCount int       `json:"answeredCount"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Detail is an interview with its questions in order.
type Detail struct {
	Interview      Interview  `json:"interview"`
	Questions      []Question `json:"questions"`
	QuestionSource string     `json:"questionSource,omitempty"`
}
