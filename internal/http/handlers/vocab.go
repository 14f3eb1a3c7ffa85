package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mcarreira/lingohub/internal/cache"
	"github.com/mcarreira/lingohub/internal/config"
	"github.com/mcarreira/lingohub/internal/domain/vocab"
	"github.com/mcarreira/lingohub/internal/http/middlewares"
)

type VocabListsStore interface {
	Create(ctx context.Context, vl vocab.VocabularyList) error
	List(ctx context.Context) ([]vocab.VocabularyList, error)
}

type VocabListsHandler struct {
	repo  VocabListsStore
	cache *cache.Cache[[]vocab.VocabularyList]
}

const vocabListCacheKey = "vocab:list"

func NewVocabListsHandler(repo VocabListsStore, c *cache.Cache[[]vocab.VocabularyList]) *VocabListsHandler {
	return &VocabListsHandler{repo: repo, cache: c}
}

func (h *VocabListsHandler) CreateVocabularyList(ctx *gin.Context) {
	var req vocab.CreateVocabularyListRequest

	if !BindJSON(ctx, &req) {
		return
	}

	u, ok := middlewares.CurrentUser(ctx)

	if !ok {
		RespondUnAuthorized(ctx, "unauthorized", "Missing identity")
		return
	}

	vl := vocab.NewFromCreateRequest(req, u.ID)

	cctx, cancel := config.WithTimeout(2 * time.Second)

	defer cancel()

	err := h.repo.Create(cctx, vl)

	if err != nil {
		RespondInternal(ctx, "Could not create vocabulary list")
		return
	}

	if h.cache != nil {
		h.cache.Delete(vocabListCacheKey)
	}

	ctx.JSON(http.StatusCreated, vl)
}

func (h *VocabListsHandler) ListVocabularyLists(ctx *gin.Context) {
	if h.cache != nil {
		if items, ok := h.cache.Get(vocabListCacheKey); ok {
			ctx.JSON(http.StatusOK, gin.H{
				"items": items,
				"count": len(items),
			})
			return
		}
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)

	defer cancel()

	lists, err := h.repo.List(cctx)

	if err != nil {
		RespondInternal(ctx, "Could not list vocabulary lists")
		return
	}

	if h.cache != nil {
		h.cache.Set(vocabListCacheKey, lists)
	}

	ctx.JSON(http.StatusOK, gin.H{
		"items": lists,
		"count": len(lists),
	})
}
