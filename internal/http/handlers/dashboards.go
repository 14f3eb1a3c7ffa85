package handlers

import (
	"context"
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mcarreira/lingohub/internal/config"
	"github.com/mcarreira/lingohub/internal/domain/progress"
	"github.com/mcarreira/lingohub/internal/domain/user"
	"github.com/mcarreira/lingohub/internal/http/middlewares"
)

type ProgressAggregator interface {
	ListByStudent(ctx context.Context, studentID string) ([]progress.Progress, error)
	ListAll(ctx context.Context) ([]progress.Progress, error)
}

type StudentLister interface {
	ListStudents(ctx context.Context) ([]user.User, error)
}

type ExerciseCounter interface {
	CountByTeacher(ctx context.Context, teacherID string) (int, error)
}

type DashboardHandler struct {
	progress  ProgressAggregator
	students  StudentLister
	exercises ExerciseCounter
}

func NewDashboardHandler(progress ProgressAggregator, students StudentLister, exercises ExerciseCounter) *DashboardHandler {
	return &DashboardHandler{
		progress:  progress,
		students:  students,
		exercises: exercises,
	}
}

type StudentDashboard struct {
	TotalExercisesCompleted int                 `json:"total_exercises_completed"`
	AverageScore            float64             `json:"average_score"`
	AveragePronunciation    float64             `json:"average_pronunciation"`
	RecentProgress          []progress.Progress `json:"recent_progress"`
}

type StudentPerformance struct {
	StudentID            string  `json:"student_id"`
	StudentName          string  `json:"student_name"`
	StudentEmail         string  `json:"student_email"`
	TotalExercises       int     `json:"total_exercises"`
	AverageScore         float64 `json:"average_score"`
	AveragePronunciation float64 `json:"average_pronunciation"`
}

type TeacherDashboard struct {
	TotalStudents         int                  `json:"total_students"`
	TotalExercisesCreated int                  `json:"total_exercises_created"`
	StudentPerformance    []StudentPerformance `json:"student_performance"`
}

// StudentDashboard aggregates only the caller's own progress.
func (h *DashboardHandler) StudentDashboard(ctx *gin.Context) {
	u, ok := middlewares.CurrentUser(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)

	defer cancel()

	items, err := h.progress.ListByStudent(cctx, u.ID)

	if err != nil {
		RespondInternal(ctx, "Could not build dashboard")
		return
	}

	avgScore, avgPron := averages(items)

	// rows come back newest-first, so recent is a prefix
	recent := items
	if len(recent) > 10 {
		recent = recent[:10]
	}

	ctx.JSON(http.StatusOK, StudentDashboard{
		TotalExercisesCompleted: len(items),
		AverageScore:            avgScore,
		AveragePronunciation:    avgPron,
		RecentProgress:          recent,
	})
}

// TeacherDashboard aggregates across all students system-wide; exercise count
// is scoped to the caller's own exercises.
func (h *DashboardHandler) TeacherDashboard(ctx *gin.Context) {
	u, ok := middlewares.CurrentUser(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	cctx, cancel := config.WithTimeout(5 * time.Second)

	defer cancel()

	students, err := h.students.ListStudents(cctx)

	if err != nil {
		RespondInternal(ctx, "Could not build dashboard")
		return
	}

	exerciseCount, err := h.exercises.CountByTeacher(cctx, u.ID)

	if err != nil {
		RespondInternal(ctx, "Could not build dashboard")
		return
	}

	allProgress, err := h.progress.ListAll(cctx)

	if err != nil {
		RespondInternal(ctx, "Could not build dashboard")
		return
	}

	byStudent := make(map[string][]progress.Progress, len(students))

	for _, p := range allProgress {
		byStudent[p.StudentID] = append(byStudent[p.StudentID], p)
	}

	performance := make([]StudentPerformance, 0, len(students))

	for _, s := range students {
		rows := byStudent[s.ID]
		avgScore, avgPron := averages(rows)

		performance = append(performance, StudentPerformance{
			StudentID:            s.ID,
			StudentName:          s.Name,
			StudentEmail:         s.Email,
			TotalExercises:       len(rows),
			AverageScore:         avgScore,
			AveragePronunciation: avgPron,
		})
	}

	ctx.JSON(http.StatusOK, TeacherDashboard{
		TotalStudents:         len(students),
		TotalExercisesCreated: exerciseCount,
		StudentPerformance:    performance,
	})
}

func averages(items []progress.Progress) (avgScore, avgPronunciation float64) {
	if len(items) == 0 {
		return 0, 0
	}

	var scoreSum, pronSum float64

	for _, p := range items {
		scoreSum += p.Score
		pronSum += p.PronunciationAccuracy
	}

	n := float64(len(items))

	return round2(scoreSum / n), round2(pronSum / n)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
