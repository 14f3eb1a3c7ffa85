package exercise

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("exercise not found")

type Exercise struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	ExerciseType     string    `json:"exercise_type"`
	Content          string    `json:"content"`
	CorrectAudioURL  *string   `json:"correct_audio_url,omitempty"`
	Difficulty       string    `json:"difficulty"`
	TeacherID        string    `json:"teacher_id"`
	VocabularyListID *string   `json:"vocabulary_list_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// CreateExerciseRequest doubles as the update payload; updates are
// full replacements of the mutable fields.
type CreateExerciseRequest struct {
	Title            string  `json:"title" binding:"required"`
	Description      string  `json:"description" binding:"required"`
	ExerciseType     string  `json:"exercise_type" binding:"required,oneof=word phrase listening"`
	Content          string  `json:"content" binding:"required"`
	CorrectAudioURL  *string `json:"correct_audio_url"`
	Difficulty       string  `json:"difficulty" binding:"required,oneof=easy medium hard"`
	VocabularyListID *string `json:"vocabulary_list_id"`
}

// NewFromCreateRequest stamps identity and creation time; teacherID always
// comes from the authenticated identity, never the payload.
func NewFromCreateRequest(req CreateExerciseRequest, teacherID string) Exercise {
	return Exercise{
		ID:               uuid.NewString(),
		Title:            req.Title,
		Description:      req.Description,
		ExerciseType:     req.ExerciseType,
		Content:          req.Content,
		CorrectAudioURL:  req.CorrectAudioURL,
		Difficulty:       req.Difficulty,
		TeacherID:        teacherID,
		VocabularyListID: req.VocabularyListID,
		CreatedAt:        time.Now().UTC(),
	}
}
