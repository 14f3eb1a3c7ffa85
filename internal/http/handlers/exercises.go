package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mcarreira/lingohub/internal/cache"
	"github.com/mcarreira/lingohub/internal/config"
	"github.com/mcarreira/lingohub/internal/domain/exercise"
	"github.com/mcarreira/lingohub/internal/http/middlewares"
)

type ExercisesStore interface {
	Create(ctx context.Context, e exercise.Exercise) error
	List(ctx context.Context) ([]exercise.Exercise, error)
	GetByID(ctx context.Context, id string) (exercise.Exercise, error)
	Update(ctx context.Context, id string, req exercise.CreateExerciseRequest) (exercise.Exercise, error)
	DeleteOwned(ctx context.Context, id, teacherID string) error
}

type ExercisesHandler struct {
	repo  ExercisesStore
	cache *cache.Cache[[]exercise.Exercise]
}

const exerciseListCacheKey = "exercises:list"

func NewExercisesHandler(repo ExercisesStore, c *cache.Cache[[]exercise.Exercise]) *ExercisesHandler {
	return &ExercisesHandler{repo: repo, cache: c}
}

func (h *ExercisesHandler) CreateExercise(ctx *gin.Context) {
	var req exercise.CreateExerciseRequest

	if !BindJSON(ctx, &req) {
		return
	}

	u, ok := middlewares.CurrentUser(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	e := exercise.NewFromCreateRequest(req, u.ID)

	cctx, cancel := config.WithTimeout(2 * time.Second)

	defer cancel()

	err := h.repo.Create(cctx, e)

	if err != nil {
		RespondInternal(ctx, "Could not create exercise")
		return
	}

	h.invalidate()

	ctx.JSON(http.StatusCreated, e)
}

func (h *ExercisesHandler) ListExercises(ctx *gin.Context) {
	if h.cache != nil {
		if items, ok := h.cache.Get(exerciseListCacheKey); ok {
			ctx.JSON(http.StatusOK, gin.H{
				"items": items,
				"count": len(items),
			})
			return
		}
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)

	defer cancel()

	exercises, err := h.repo.List(cctx)

	if err != nil {
		RespondInternal(ctx, "Could not list exercises")
		return
	}

	if h.cache != nil {
		h.cache.Set(exerciseListCacheKey, exercises)
	}

	ctx.JSON(http.StatusOK, gin.H{
		"items": exercises,
		"count": len(exercises),
	})
}

func (h *ExercisesHandler) GetExerciseByID(ctx *gin.Context) {
	id := ctx.Param("id")

	cctx, cancel := config.WithTimeout(2 * time.Second)

	defer cancel()

	e, err := h.repo.GetByID(cctx, id)

	if err != nil {
		if errors.Is(err, exercise.ErrNotFound) {
			RespondNotFound(ctx, "Exercise not found")
			return
		}
		RespondInternal(ctx, "Could not fetch exercise")
		return
	}

	ctx.JSON(http.StatusOK, e)
}

// UpdateExercise checks existence before ownership, so a teacher probing a
// random id learns whether it exists. That ordering is part of the observed
// contract and stays.
func (h *ExercisesHandler) UpdateExercise(ctx *gin.Context) {
	id := ctx.Param("id")

	var req exercise.CreateExerciseRequest

	if !BindJSON(ctx, &req) {
		return
	}

	u, ok := middlewares.CurrentUser(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)

	defer cancel()

	existing, err := h.repo.GetByID(cctx, id)

	if err != nil {
		if errors.Is(err, exercise.ErrNotFound) {
			RespondNotFound(ctx, "Exercise not found")
			return
		}
		RespondInternal(ctx, "Could not update exercise")
		return
	}

	if existing.TeacherID != u.ID {
		RespondForbidden(ctx, "You can only update your own exercises")
		return
	}

	updated, err := h.repo.Update(cctx, id, req)

	if err != nil {
		if errors.Is(err, exercise.ErrNotFound) {
			RespondNotFound(ctx, "Exercise not found")
			return
		}
		RespondInternal(ctx, "Could not update exercise")
		return
	}

	h.invalidate()

	ctx.JSON(http.StatusOK, updated)
}

// DeleteExercise deletes with an owner-scoped filter; a foreign exercise
// reads as not found, same as the original behavior.
func (h *ExercisesHandler) DeleteExercise(ctx *gin.Context) {
	id := ctx.Param("id")

	u, ok := middlewares.CurrentUser(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)

	defer cancel()

	err := h.repo.DeleteOwned(cctx, id, u.ID)

	if err != nil {
		if errors.Is(err, exercise.ErrNotFound) {
			RespondNotFound(ctx, "Exercise not found")
			return
		}
		RespondInternal(ctx, "Could not delete exercise")
		return
	}

	h.invalidate()

	ctx.Status(http.StatusNoContent)
}

func (h *ExercisesHandler) invalidate() {
	if h.cache != nil {
		h.cache.Delete(exerciseListCacheKey)
	}
}
