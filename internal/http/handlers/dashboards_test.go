package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mcarreira/lingohub/internal/domain/progress"
	"github.com/mcarreira/lingohub/internal/domain/user"
	"github.com/mcarreira/lingohub/internal/http/handlers"
)

type fakeStudentLister struct {
	listStudentsFn func(ctx context.Context) ([]user.User, error)
}

func (f *fakeStudentLister) ListStudents(ctx context.Context) ([]user.User, error) {
	if f.listStudentsFn != nil {
		return f.listStudentsFn(ctx)
	}
	return []user.User{}, nil
}

type fakeExerciseCounter struct {
	countFn func(ctx context.Context, teacherID string) (int, error)
}

func (f *fakeExerciseCounter) CountByTeacher(ctx context.Context, teacherID string) (int, error) {
	if f.countFn != nil {
		return f.countFn(ctx, teacherID)
	}
	return 0, nil
}

func TestStudentDashboard(t *testing.T) {
	studentID := newUUID()

	rows := []progress.Progress{
		{ID: "p1", StudentID: studentID, Score: 80, PronunciationAccuracy: 75},
		{ID: "p2", StudentID: studentID, Score: 90, PronunciationAccuracy: 70},
	}

	fakeRepo := &fakeProgressRepo{
		listByStudentFn: func(ctx context.Context, id string) ([]progress.Progress, error) {
			if id != studentID {
				t.Errorf("queried student %q, want %q", id, studentID)
			}
			return rows, nil
		},
	}

	h := handlers.NewDashboardHandler(fakeRepo, &fakeStudentLister{}, &fakeExerciseCounter{})

	r := gin.New()
	r.GET("/api/dashboard/student", withIdentity(studentIdentity(studentID)), h.StudentDashboard)

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/student", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}

	var resp handlers.StudentDashboard
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if resp.TotalExercisesCompleted != 2 {
		t.Fatalf("got total %d, want 2", resp.TotalExercisesCompleted)
	}

	if resp.AverageScore != 85 {
		t.Fatalf("got average_score %v, want 85", resp.AverageScore)
	}

	if resp.AveragePronunciation != 72.5 {
		t.Fatalf("got average_pronunciation %v, want 72.5", resp.AveragePronunciation)
	}

	if len(resp.RecentProgress) != 2 {
		t.Fatalf("got %d recent rows, want 2", len(resp.RecentProgress))
	}
}

func TestStudentDashboardEmpty(t *testing.T) {
	h := handlers.NewDashboardHandler(&fakeProgressRepo{}, &fakeStudentLister{}, &fakeExerciseCounter{})

	r := gin.New()
	r.GET("/api/dashboard/student", withIdentity(studentIdentity(newUUID())), h.StudentDashboard)

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/student", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}

	var resp handlers.StudentDashboard
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if resp.TotalExercisesCompleted != 0 || resp.AverageScore != 0 || resp.AveragePronunciation != 0 {
		t.Fatalf("expected zeroed dashboard, got %+v", resp)
	}
}

func TestStudentDashboardRecentCap(t *testing.T) {
	studentID := newUUID()

	rows := make([]progress.Progress, 15)
	for i := range rows {
		rows[i] = progress.Progress{ID: newUUID(), StudentID: studentID, Score: 50}
	}

	fakeRepo := &fakeProgressRepo{
		listByStudentFn: func(ctx context.Context, id string) ([]progress.Progress, error) {
			return rows, nil
		},
	}

	h := handlers.NewDashboardHandler(fakeRepo, &fakeStudentLister{}, &fakeExerciseCounter{})

	r := gin.New()
	r.GET("/api/dashboard/student", withIdentity(studentIdentity(studentID)), h.StudentDashboard)

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/student", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp handlers.StudentDashboard
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if resp.TotalExercisesCompleted != 15 {
		t.Fatalf("got total %d, want 15", resp.TotalExercisesCompleted)
	}

	if len(resp.RecentProgress) != 10 {
		t.Fatalf("got %d recent rows, want 10", len(resp.RecentProgress))
	}
}

func TestTeacherDashboard(t *testing.T) {
	teacherID := newUUID()
	activeStudent := newUUID()
	idleStudent := newUUID()

	students := []user.User{
		{ID: activeStudent, Name: "Ana", Email: "ana@example.com", Role: user.RoleStudent},
		{ID: idleStudent, Name: "Bruno", Email: "bruno@example.com", Role: user.RoleStudent},
	}

	allProgress := []progress.Progress{
		{ID: "p1", StudentID: activeStudent, Score: 80, PronunciationAccuracy: 75},
		{ID: "p2", StudentID: activeStudent, Score: 100, PronunciationAccuracy: 95},
	}

	fakeProg := &fakeProgressRepo{
		listAllFn: func(ctx context.Context) ([]progress.Progress, error) {
			return allProgress, nil
		},
	}

	fakeStudents := &fakeStudentLister{
		listStudentsFn: func(ctx context.Context) ([]user.User, error) {
			return students, nil
		},
	}

	fakeCounter := &fakeExerciseCounter{
		countFn: func(ctx context.Context, id string) (int, error) {
			if id != teacherID {
				t.Errorf("counted exercises for %q, want %q", id, teacherID)
			}
			return 7, nil
		},
	}

	h := handlers.NewDashboardHandler(fakeProg, fakeStudents, fakeCounter)

	r := gin.New()
	r.GET("/api/dashboard/teacher", withIdentity(teacherIdentity(teacherID)), h.TeacherDashboard)

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/teacher", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}

	var resp handlers.TeacherDashboard
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if resp.TotalStudents != 2 {
		t.Fatalf("got total_students %d, want 2", resp.TotalStudents)
	}

	if resp.TotalExercisesCreated != 7 {
		t.Fatalf("got total_exercises_created %d, want 7", resp.TotalExercisesCreated)
	}

	if len(resp.StudentPerformance) != 2 {
		t.Fatalf("got %d performance rows, want 2", len(resp.StudentPerformance))
	}

	perfByID := make(map[string]handlers.StudentPerformance, len(resp.StudentPerformance))
	for _, p := range resp.StudentPerformance {
		perfByID[p.StudentID] = p
	}

	active := perfByID[activeStudent]
	if active.TotalExercises != 2 || active.AverageScore != 90 || active.AveragePronunciation != 85 {
		t.Fatalf("unexpected active student performance: %+v", active)
	}
	if active.StudentName != "Ana" || active.StudentEmail != "ana@example.com" {
		t.Fatalf("unexpected active student identity: %+v", active)
	}

	// students with no progress still show up, zeroed
	idle := perfByID[idleStudent]
	if idle.TotalExercises != 0 || idle.AverageScore != 0 || idle.AveragePronunciation != 0 {
		t.Fatalf("unexpected idle student performance: %+v", idle)
	}
}

func TestTeacherDashboardRepoError(t *testing.T) {
	fakeStudents := &fakeStudentLister{
		listStudentsFn: func(ctx context.Context) ([]user.User, error) {
			return nil, errors.New("db error")
		},
	}

	h := handlers.NewDashboardHandler(&fakeProgressRepo{}, fakeStudents, &fakeExerciseCounter{})

	r := gin.New()
	r.GET("/api/dashboard/teacher", withIdentity(teacherIdentity(newUUID())), h.TeacherDashboard)

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard/teacher", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("got status %d, want 500, body=%s", w.Code, w.Body.String())
	}
}
