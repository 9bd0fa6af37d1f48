package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/bastiangx/morphindex/internal/logger"
	"github.com/bastiangx/morphindex/internal/utils"
	"github.com/gin-gonic/gin"
)

// HTTPHandler serves corpus queries as JSON.
type HTTPHandler struct {
	service *Service
}

// NewHTTPHandler creates the handler set for service.
func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// Router builds the gin engine with every route registered.
func (h *HTTPHandler) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/health", h.Health)
	r.GET("/corpora", h.Corpora)

	c := r.Group("/corpora/:name")
	{
		c.GET("/ngram", h.Ngram)
		c.GET("/morph-ngram", h.MorphNgram)
		c.GET("/morpheme", h.Morpheme)
		c.GET("/words/:word", h.Word)
		c.GET("/top", h.Top)
		c.GET("/stats", h.Stats)
	}
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no such route"})
	})
	return r
}

// Health reports liveness.
func (h *HTTPHandler) Health(c *gin.Context) {
	entries, hits := h.service.CacheStats()
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"requests":  h.service.Requests(),
		"cached":    entries,
		"cacheHits": hits,
	})
}

// Corpora lists the registered corpus names.
func (h *HTTPHandler) Corpora(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"corpora": h.service.Corpora()})
}

// Ngram handles GET /corpora/:name/ngram?p=&n=
func (h *HTTPHandler) Ngram(c *gin.Context) {
	limit, ok := limitParam(c)
	if !ok {
		return
	}
	words, total, err := h.service.Ngram(c.Param("name"), c.Query("p"), limit)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"words": words, "count": len(words), "total": total})
}

// MorphNgram handles GET /corpora/:name/morph-ngram?s=a,b&n=
func (h *HTTPHandler) MorphNgram(c *gin.Context) {
	limit, ok := limitParam(c)
	if !ok {
		return
	}
	segments := utils.SplitList(c.Query("s"))
	words, total, err := h.service.MorphNgram(c.Param("name"), segments, limit)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"words": words, "count": len(words), "total": total})
}

// Morpheme handles GET /corpora/:name/morpheme?m=&n=
func (h *HTTPHandler) Morpheme(c *gin.Context) {
	limit, ok := limitParam(c)
	if !ok {
		return
	}
	words, total, err := h.service.Morpheme(c.Param("name"), c.Query("m"), limit)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"words": words, "count": len(words), "total": total})
}

// Word handles GET /corpora/:name/words/:word
func (h *HTTPHandler) Word(c *gin.Context) {
	info, err := h.service.Word(c.Param("name"), c.Param("word"))
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"info": info, "segmentation": info.Segmentation()})
}

// Top handles GET /corpora/:name/top?prefix=&n=
func (h *HTTPHandler) Top(c *gin.Context) {
	limit, ok := limitParam(c)
	if !ok {
		return
	}
	words, err := h.service.Top(c.Param("name"), c.Query("prefix"), limit)
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"words": words, "count": len(words)})
}

// Stats handles GET /corpora/:name/stats
func (h *HTTPHandler) Stats(c *gin.Context) {
	report, err := h.service.Stats(c.Param("name"))
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func limitParam(c *gin.Context) (int, bool) {
	raw := c.Query("n")
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "n must be a non-negative integer"})
		return 0, false
	}
	return n, true
}

func abort(c *gin.Context, err error) {
	c.JSON(StatusCode(err), gin.H{"error": err.Error()})
}

func requestLogger() gin.HandlerFunc {
	l := logger.Default("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		l.Debug(c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"took", time.Since(start))
	}
}

// ListenAndServe runs the HTTP server on addr until ctx is cancelled, then
// shuts it down gracefully.
func (h *HTTPHandler) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
