package progress

import (
	"time"

	"github.com/google/uuid"
)

type Progress struct {
	ID                    string    `json:"id"`
	StudentID             string    `json:"student_id"`
	ExerciseID            string    `json:"exercise_id"`
	Score                 float64   `json:"score"`
	PronunciationAccuracy float64   `json:"pronunciation_accuracy"`
	Feedback              *string   `json:"feedback,omitempty"`
	CompletedAt           time.Time `json:"completed_at"`
}

// SubmitProgressRequest carries no student id on purpose; the server stamps
// the authenticated student and ignores anything the client claims.
type SubmitProgressRequest struct {
	ExerciseID            string  `json:"exercise_id" binding:"required"`
	Score                 float64 `json:"score" binding:"min=0,max=100"`
	PronunciationAccuracy float64 `json:"pronunciation_accuracy" binding:"min=0,max=100"`
	Feedback              *string `json:"feedback"`
}

func NewFromSubmitRequest(req SubmitProgressRequest, studentID string) Progress {
	return Progress{
		ID:                    uuid.NewString(),
		StudentID:             studentID,
		ExerciseID:            req.ExerciseID,
		Score:                 req.Score,
		PronunciationAccuracy: req.PronunciationAccuracy,
		Feedback:              req.Feedback,
		CompletedAt:           time.Now().UTC(),
	}
}
