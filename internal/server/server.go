// Package server exposes the aggregation pipeline over HTTP.
//
// The handler layer is deliberately thin: it runs a cycle and serializes
// the envelope. All partial-failure absorption happens below; the only
// error a client can see is the envelope itself failing to be produced.
package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/buildyoursystem/topicradar/internal/aggregate"
	"github.com/buildyoursystem/topicradar/internal/logging"
	"github.com/buildyoursystem/topicradar/internal/topic"
)

// Pipeline is what the handlers need from the aggregation layer.
type Pipeline interface {
	Run(ctx context.Context) (topic.Envelope, aggregate.Report)
}

// Recorder persists cycle history. Optional.
type Recorder interface {
	RecordCycle(env topic.Envelope, report aggregate.Report) (string, error)
}

// Server wires the pipeline to a gin router.
type Server struct {
	pipeline Pipeline
	recorder Recorder
	engine   *gin.Engine
}

// New creates a Server. recorder may be nil to disable history.
func New(pipeline Pipeline, recorder Recorder) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		pipeline: pipeline,
		recorder: recorder,
		engine:   gin.New(),
	}
	s.engine.Use(gin.Recovery())

	s.engine.GET("/healthz", s.handleHealth)
	s.engine.GET("/api/topics", s.handleTopics)
	return s
}

// Handler returns the http.Handler for serving (and for tests).
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run starts the HTTP server on addr and blocks.
func (s *Server) Run(addr string) error {
	logging.Info("server listening", "addr", addr)
	return s.engine.Run(addr)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleTopics runs a fresh aggregation cycle and returns the envelope.
// Every call recomputes from live sources; the refresh action on the
// client is just another call here.
func (s *Server) handleTopics(c *gin.Context) {
	env, report := s.pipeline.Run(c.Request.Context())

	if s.recorder != nil {
		// History faults are logged, never surfaced.
		if _, err := s.recorder.RecordCycle(env, report); err != nil {
			logging.Error("failed to record cycle", "error", err)
		}
	}

	c.JSON(http.StatusOK, env)
}
