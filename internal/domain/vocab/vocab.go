package vocab

import (
	"time"

	"github.com/google/uuid"
)

type VocabularyList struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	TeacherID   string    `json:"teacher_id"`
	Words       []string  `json:"words"`
	CreatedAt   time.Time `json:"created_at"`
}

type CreateVocabularyListRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description" binding:"required"`
	Words       []string `json:"words" binding:"required,min=1,dive,required"`
}

func NewFromCreateRequest(req CreateVocabularyListRequest, teacherID string) VocabularyList {
	return VocabularyList{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		TeacherID:   teacherID,
		Words:       req.Words,
		CreatedAt:   time.Now().UTC(),
	}
}
