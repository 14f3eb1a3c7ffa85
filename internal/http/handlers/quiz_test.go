package handlers_test

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mcarreira/lingohub/internal/http/handlers"
)

func TestQuizGetQuestion(t *testing.T) {
	h := handlers.NewQuizHandler(rand.New(rand.NewSource(1)))

	r := gin.New()
	r.GET("/api/quiz", h.GetQuestion)

	for i := 0; i < 50; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/quiz", nil))

		if w.Code != http.StatusOK {
			t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
		}

		var q handlers.QuizQuestion
		if err := json.Unmarshal(w.Body.Bytes(), &q); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}

		// question reads "How much is A + B?" and the answer is their sum
		rest := strings.TrimPrefix(q.Question, "How much is ")
		rest = strings.TrimSuffix(rest, "?")
		parts := strings.Split(rest, " + ")
		if len(parts) != 2 {
			t.Fatalf("unexpected question format: %q", q.Question)
		}

		a, err := strconv.Atoi(parts[0])
		if err != nil {
			t.Fatalf("bad operand in %q: %v", q.Question, err)
		}
		b, err := strconv.Atoi(parts[1])
		if err != nil {
			t.Fatalf("bad operand in %q: %v", q.Question, err)
		}

		if a < 1 || a > 10 || b < 1 || b > 10 {
			t.Fatalf("operands out of range in %q", q.Question)
		}

		if q.Answer != a+b {
			t.Fatalf("answer %d does not match %q", q.Answer, q.Question)
		}

		if len(q.Options) != 3 {
			t.Fatalf("got %d options, want 3", len(q.Options))
		}

		found := false
		for _, opt := range q.Options {
			if opt == q.Answer {
				found = true
			}
		}
		if !found {
			t.Fatalf("answer %d missing from options %v", q.Answer, q.Options)
		}
	}
}
