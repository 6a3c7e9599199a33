package server

import (
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/agenthands/linkgraph/internal/config"
	"github.com/agenthands/linkgraph/internal/core"
	"github.com/agenthands/linkgraph/internal/core/graph"
	"github.com/agenthands/linkgraph/internal/core/ingest"
	"github.com/agenthands/linkgraph/internal/core/model"
	"github.com/agenthands/linkgraph/internal/metrics"
)

type Server struct {
	Graph   *core.LinkGraph
	Limits  config.LimitsConfig
	Comma   rune
	Logger  *zap.Logger
	Metrics *metrics.Collector
}

func NewServer(g *core.LinkGraph, cfg *config.Config, logger *zap.Logger, m *metrics.Collector) *Server {
	return &Server{
		Graph:   g,
		Limits:  cfg.Limits,
		Comma:   cfg.Source.Comma(),
		Logger:  logger,
		Metrics: m,
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), AccessLog(s.Logger), Instrument(s.Metrics))

	r.SetHTMLTemplate(template.Must(template.ParseFS(webFS, "web/templates/*.html")))
	r.StaticFS("/static", staticFS())

	r.GET("/", s.Index)
	r.POST("/", s.Index)
	r.GET("/jsonData", s.JSONData)
	r.POST("/jsonData", s.JSONData)
	r.POST("/graph", s.Upload)
	r.GET("/healthz", s.Health)
	r.GET("/metrics", gin.WrapH(s.Metrics.Handler()))

	return r
}

// JSONData responds with the graph document built from the configured source.
func (s *Server) JSONData(c *gin.Context) {
	focus, err := s.focusFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doc, err := s.Graph.Document(c.Request.Context(), focus)
	s.observe(c, doc, err)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build graph"})
		return
	}

	c.JSON(http.StatusOK, doc)
}

// Index renders the visualization page with the document embedded.
func (s *Server) Index(c *gin.Context) {
	focus, err := s.focusFromQuery(c)
	if err != nil {
		c.HTML(http.StatusBadRequest, "error.html", gin.H{"Error": err.Error()})
		return
	}

	doc, err := s.Graph.Document(c.Request.Context(), focus)
	s.observe(c, doc, err)
	if err != nil {
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Error": "The graph could not be built."})
		return
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Error": "The graph could not be encoded."})
		return
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"Graph": template.JS(raw),
		"Query": c.Query("query"),
		"Nodes": len(doc.Nodes),
		"Links": len(doc.Links),
	})
}

// Upload builds a document from a delimited edge list sent as the request body.
func (s *Server) Upload(c *gin.Context) {
	focus, err := s.focusFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	records, err := ingest.ReadCSV(c.Request.Body, ingest.CSVOptions{
		Comma: s.Comma,
		Limits: ingest.Limits{
			MaxBytes:   s.Limits.MaxBytes,
			MaxRecords: s.Limits.MaxRecords,
		},
	})
	var doc *model.GraphDocument
	if err == nil {
		doc, err = core.Assemble(records, focus)
	}
	s.observe(c, doc, err)
	if err != nil {
		c.JSON(uploadStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, doc)
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// focusFromQuery reads the optional query and window parameters. No query
// means no focus.
func (s *Server) focusFromQuery(c *gin.Context) (*core.FocusWindow, error) {
	center := c.Query("query")
	if center == "" {
		return nil, nil
	}
	if err := graph.ValidateID(center); err != nil {
		return nil, errors.New("query must be an integer node id")
	}

	window := s.Limits.FocusWindow
	if w := c.Query("window"); w != "" {
		v, err := strconv.ParseInt(w, 10, 64)
		if err != nil || v < 0 {
			return nil, errors.New("window must be a non-negative integer")
		}
		window = v
	}

	return &core.FocusWindow{Center: center, Window: window}, nil
}

func (s *Server) observe(c *gin.Context, doc *model.GraphDocument, err error) {
	result := buildResult(err)
	if err != nil {
		s.Logger.Error("Failed to build graph",
			zap.String("path", c.Request.URL.Path),
			zap.String("result", result),
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.Error(err),
		)
		s.Metrics.ObserveBuild(result, 0, 0)
		return
	}
	s.Metrics.ObserveBuild(result, len(doc.Nodes), len(doc.Links))
}

func buildResult(err error) string {
	switch {
	case err == nil:
		return metrics.ResultOK
	case errors.Is(err, graph.ErrMalformedRecord):
		return metrics.ResultMalformed
	case errors.Is(err, graph.ErrParse):
		return metrics.ResultParse
	case errors.Is(err, ingest.ErrInputTooLarge):
		return metrics.ResultTooLarge
	default:
		return metrics.ResultSource
	}
}

func uploadStatus(err error) int {
	switch buildResult(err) {
	case metrics.ResultMalformed, metrics.ResultParse:
		return http.StatusUnprocessableEntity
	case metrics.ResultTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusBadRequest
	}
}
