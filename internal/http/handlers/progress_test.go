package handlers_test

import (
	"bytes"
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

// Fake repository implementation of the handlers.ProgressStore interface

type fakeProgressRepo struct {
	createFn         func(ctx context.Context, p progress.Progress) error
	listByStudentFn  func(ctx context.Context, studentID string) ([]progress.Progress, error)
	listByExerciseFn func(ctx context.Context, exerciseID string) ([]progress.Progress, error)
	listAllFn        func(ctx context.Context) ([]progress.Progress, error)
}

func (f *fakeProgressRepo) Create(ctx context.Context, p progress.Progress) error {
	if f.createFn != nil {
		return f.createFn(ctx, p)
	}
	return nil
}

func (f *fakeProgressRepo) ListByStudent(ctx context.Context, studentID string) ([]progress.Progress, error) {
	if f.listByStudentFn != nil {
		return f.listByStudentFn(ctx, studentID)
	}
	return []progress.Progress{}, nil
}

func (f *fakeProgressRepo) ListByExercise(ctx context.Context, exerciseID string) ([]progress.Progress, error) {
	if f.listByExerciseFn != nil {
		return f.listByExerciseFn(ctx, exerciseID)
	}
	return []progress.Progress{}, nil
}

func (f *fakeProgressRepo) ListAll(ctx context.Context) ([]progress.Progress, error) {
	if f.listAllFn != nil {
		return f.listAllFn(ctx)
	}
	return []progress.Progress{}, nil
}

func studentIdentity(id string) user.User {
	return user.User{ID: id, Email: id + "@example.com", Name: "Student", Role: user.RoleStudent}
}

func TestSubmitProgressHandler(t *testing.T) {
	studentID := newUUID()

	tests := []struct {
		name           string
		body           string
		repoSetup      func(*fakeProgressRepo)
		wantStatusCode int
	}{
		{
			name:           "success",
			body:           `{"exercise_id": "ex-1", "score": 85, "pronunciation_accuracy": 72.5}`,
			repoSetup:      func(f *fakeProgressRepo) {},
			wantStatusCode: http.StatusCreated,
		},
		{
			name:           "missing_exercise_id",
			body:           `{"score": 85, "pronunciation_accuracy": 72.5}`,
			repoSetup:      func(f *fakeProgressRepo) {},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "score_out_of_range",
			body:           `{"exercise_id": "ex-1", "score": 140, "pronunciation_accuracy": 72.5}`,
			repoSetup:      func(f *fakeProgressRepo) {},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "negative_accuracy",
			body:           `{"exercise_id": "ex-1", "score": 85, "pronunciation_accuracy": -1}`,
			repoSetup:      func(f *fakeProgressRepo) {},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "repo_error",
			body: `{"exercise_id": "ex-1", "score": 85, "pronunciation_accuracy": 72.5}`,
			repoSetup: func(f *fakeProgressRepo) {
				f.createFn = func(ctx context.Context, p progress.Progress) error {
					return errors.New("db error")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			fakeRepo := &fakeProgressRepo{}

			if tt.repoSetup != nil {
				tt.repoSetup(fakeRepo)
			}

			h := handlers.NewProgressHandler(fakeRepo)

			r := gin.New()
			r.POST("/api/progress", withIdentity(studentIdentity(studentID)), h.SubmitProgress)

			req := httptest.NewRequest(http.MethodPost, "/api/progress", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}

// The server stamps the authenticated student; a spoofed student_id in the
// payload never reaches the store.
func TestSubmitProgressStampsIdentity(t *testing.T) {
	studentID := newUUID()

	var saved progress.Progress

	fakeRepo := &fakeProgressRepo{
		createFn: func(ctx context.Context, p progress.Progress) error {
			saved = p
			return nil
		},
	}

	h := handlers.NewProgressHandler(fakeRepo)

	r := gin.New()
	r.POST("/api/progress", withIdentity(studentIdentity(studentID)), h.SubmitProgress)

	body := `{"exercise_id": "ex-1", "score": 85, "pronunciation_accuracy": 72.5, "student_id": "someone-else"}`
	req := httptest.NewRequest(http.MethodPost, "/api/progress", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}

	if saved.StudentID != studentID {
		t.Fatalf("got student_id %q, want %q", saved.StudentID, studentID)
	}

	if saved.ID == "" {
		t.Fatal("expected generated progress id")
	}

	if saved.CompletedAt.IsZero() {
		t.Fatal("expected completed_at to be stamped")
	}
}

func TestGetStudentProgressHandler(t *testing.T) {
	selfID := newUUID()
	otherID := newUUID()

	tests := []struct {
		name           string
		identity       user.User
		targetID       string
		wantStatusCode int
	}{
		{
			name:           "student_reads_own",
			identity:       studentIdentity(selfID),
			targetID:       selfID,
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "student_reads_other_forbidden",
			identity:       studentIdentity(selfID),
			targetID:       otherID,
			wantStatusCode: http.StatusForbidden,
		},
		{
			name:           "teacher_reads_any",
			identity:       teacherIdentity(newUUID()),
			targetID:       otherID,
			wantStatusCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			fakeRepo := &fakeProgressRepo{
				listByStudentFn: func(ctx context.Context, studentID string) ([]progress.Progress, error) {
					if studentID != tt.targetID {
						t.Errorf("queried student %q, want %q", studentID, tt.targetID)
					}
					return []progress.Progress{{ID: "p1", StudentID: studentID}}, nil
				},
			}

			h := handlers.NewProgressHandler(fakeRepo)

			r := gin.New()
			r.GET("/api/progress/student/:id", withIdentity(tt.identity), h.GetStudentProgress)

			req := httptest.NewRequest(http.MethodGet, "/api/progress/student/"+tt.targetID, nil)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}

func TestGetExerciseProgressHandler(t *testing.T) {
	fakeRepo := &fakeProgressRepo{
		listByExerciseFn: func(ctx context.Context, exerciseID string) ([]progress.Progress, error) {
			return []progress.Progress{
				{ID: "p1", ExerciseID: exerciseID},
				{ID: "p2", ExerciseID: exerciseID},
			}, nil
		},
	}

	h := handlers.NewProgressHandler(fakeRepo)

	r := gin.New()
	r.GET("/api/progress/exercise/:id", withIdentity(teacherIdentity(newUUID())), h.GetExerciseProgress)

	req := httptest.NewRequest(http.MethodGet, "/api/progress/exercise/ex-1", nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Count int                 `json:"count"`
		Items []progress.Progress `json:"items"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}

	if resp.Count != 2 || len(resp.Items) != 2 {
		t.Fatalf("got count=%d items=%d, want 2/2", resp.Count, len(resp.Items))
	}
}
