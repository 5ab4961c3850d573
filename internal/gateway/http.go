package gateway

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rahul/sutra/internal/llm"
	"github.com/rahul/sutra/internal/observability"
	"github.com/rahul/sutra/internal/orchestrator"
	"github.com/rahul/sutra/internal/store"
)

//go:embed index.html
var indexHTML []byte

// HistoryAPI is the slice of the store the HTTP gateway needs.
type HistoryAPI interface {
	ListWorkflows(sessionID string) ([]store.WorkflowEntry, error)
	DeleteSession(sessionID string) error
	CountSessions() (int, error)
}

// HTTPGateway serves the browser UI and the workflow API.
type HTTPGateway struct {
	AppName string

	engine  *gin.Engine
	server  *http.Server
	runner  Runner
	history HistoryAPI
	logger  *observability.Logger
}

func NewHTTPGateway(appName string, port int, runner Runner, history HistoryAPI, logger *observability.Logger) *HTTPGateway {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	g := &HTTPGateway{
		AppName: appName,
		engine:  engine,
		runner:  runner,
		history: history,
		logger:  logger,
	}
	g.routes()

	g.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: engine,
	}
	return g
}

func (g *HTTPGateway) routes() {
	g.engine.GET("/", g.index)
	g.engine.GET("/health", g.health)
	g.engine.POST("/workflow", g.workflow)
	g.engine.GET("/sessions/:id/history", g.sessionHistory)
	g.engine.DELETE("/sessions/:id", g.deleteSession)
}

// Engine exposes the router for tests.
func (g *HTTPGateway) Engine() *gin.Engine {
	return g.engine
}

func (g *HTTPGateway) Start() error {
	if err := g.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (g *HTTPGateway) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return g.server.Shutdown(ctx)
}

func (g *HTTPGateway) index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
}

func (g *HTTPGateway) health(c *gin.Context) {
	sessions, err := g.history.CountSessions()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": err.Error()})
		return
	}

	stage, _, _ := observability.GetStatus()
	c.JSON(http.StatusOK, gin.H{
		"status":          "healthy",
		"message":         fmt.Sprintf("%s is running", g.AppName),
		"timestamp":       time.Now().UTC().Format(time.RFC3339),
		"uptime_seconds":  observability.Uptime().Seconds(),
		"active_sessions": sessions,
		"stage":           stage,
	})
}

func (g *HTTPGateway) workflow(c *gin.Context) {
	var req orchestrator.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := g.runner.Run(c.Request.Context(), req)
	if err != nil {
		g.writeRunError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// writeRunError maps pipeline failures onto response codes: invalid input
// is the caller's fault, rate limits get 429, everything upstream is a bad
// gateway.
func (g *HTTPGateway) writeRunError(c *gin.Context, err error) {
	var valErr *orchestrator.ValidationError
	if errors.As(err, &valErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": valErr.Reason})
		return
	}

	var stageErr *orchestrator.StageError
	if errors.As(err, &stageErr) {
		kind := llm.Classify(stageErr.Err)
		status := http.StatusBadGateway
		if kind == llm.KindRateLimit {
			status = http.StatusTooManyRequests
		}
		c.JSON(status, gin.H{
			"error": fmt.Sprintf("%s stage failed: %s", stageErr.Stage, llm.Describe(kind)),
			"stage": stageErr.Stage,
		})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func (g *HTTPGateway) sessionHistory(c *gin.Context) {
	id := c.Param("id")

	entries, err := g.history.ListWorkflows(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if entries == nil {
		entries = []store.WorkflowEntry{}
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id": id,
		"workflows":  entries,
	})
}

func (g *HTTPGateway) deleteSession(c *gin.Context) {
	id := c.Param("id")

	if err := g.history.DeleteSession(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	g.logger.LogSession(id, "deleted")

	c.JSON(http.StatusOK, gin.H{"message": "session cleared"})
}
