package handlers

import (
	"math/rand"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// QuizHandler serves the standalone arithmetic-quiz toy endpoint. No auth,
// no store; it generates a small addition question per request.
type QuizHandler struct {
	rng *rand.Rand
}

func NewQuizHandler(rng *rand.Rand) *QuizHandler {
	return &QuizHandler{rng: rng}
}

type QuizQuestion struct {
	Question string `json:"question"`
	Options  []int  `json:"options"`
	Answer   int    `json:"answer"`
}

func (h *QuizHandler) GetQuestion(ctx *gin.Context) {
	a := h.rng.Intn(10) + 1
	b := h.rng.Intn(10) + 1
	answer := a + b

	// two near-miss distractors plus the answer, order shuffled
	options := []int{answer - 1, answer, answer + 1}

	h.rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	ctx.JSON(http.StatusOK, QuizQuestion{
		Question: "How much is " + strconv.Itoa(a) + " + " + strconv.Itoa(b) + "?",
		Options:  options,
		Answer:   answer,
	})
}
