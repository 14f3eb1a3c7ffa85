package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mcarreira/lingohub/internal/config"
	"github.com/mcarreira/lingohub/internal/domain/progress"
	"github.com/mcarreira/lingohub/internal/domain/user"
	"github.com/mcarreira/lingohub/internal/http/middlewares"
)

type ProgressStore interface {
	Create(ctx context.Context, p progress.Progress) error
	ListByStudent(ctx context.Context, studentID string) ([]progress.Progress, error)
	ListByExercise(ctx context.Context, exerciseID string) ([]progress.Progress, error)
}

type ProgressHandler struct {
	repo ProgressStore
}

func NewProgressHandler(repo ProgressStore) *ProgressHandler {
	return &ProgressHandler{repo: repo}
}

// SubmitProgress stamps the authenticated student as the owner of the row.
// Any student id in the payload is ignored.
func (h *ProgressHandler) SubmitProgress(ctx *gin.Context) {
	var req progress.SubmitProgressRequest

	if !BindJSON(ctx, &req) {
		return
	}

	u, ok := middlewares.CurrentUser(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	p := progress.NewFromSubmitRequest(req, u.ID)

	cctx, cancel := config.WithTimeout(2 * time.Second)

	defer cancel()

	err := h.repo.Create(cctx, p)

	if err != nil {
		RespondInternal(ctx, "Could not save progress")
		return
	}

	ctx.JSON(http.StatusCreated, p)
}

// GetStudentProgress: a student may only read their own rows; a teacher may
// read any student's.
func (h *ProgressHandler) GetStudentProgress(ctx *gin.Context) {
	studentID := ctx.Param("id")

	u, ok := middlewares.CurrentUser(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	if u.Role == user.RoleStudent && u.ID != studentID {
		RespondForbidden(ctx, "Students can only view their own progress")
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)

	defer cancel()

	items, err := h.repo.ListByStudent(cctx, studentID)

	if err != nil {
		RespondInternal(ctx, "Could not list progress")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}

func (h *ProgressHandler) GetExerciseProgress(ctx *gin.Context) {
	exerciseID := ctx.Param("id")

	cctx, cancel := config.WithTimeout(2 * time.Second)

	defer cancel()

	items, err := h.repo.ListByExercise(cctx, exerciseID)

	if err != nil {
		RespondInternal(ctx, "Could not list progress")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}
