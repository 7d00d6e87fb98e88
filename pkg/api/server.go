// Package api provides the REST API server for vst-param-cascade
package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/MikePehel/vst-param-cascade/pkg/host"
	"github.com/MikePehel/vst-param-cascade/pkg/render"
	"github.com/MikePehel/vst-param-cascade/pkg/sweep"
	"github.com/MikePehel/vst-param-cascade/pkg/vst"
)

// @title VST Param Cascade API
// @version 1.0
// @description API for batch-rendering audio from a plugin across MIDI note and CC sweeps
// @host localhost:8080
// @BasePath /api/v1

// SampleRates are the rates the render endpoint accepts.
var SampleRates = []int{44100, 48000, 88200, 96000, 192000}

// Server wires the hosting backend into the HTTP surface.
type Server struct {
	backend host.Host
}

// NewServer creates a server running renders against backend.
func NewServer(backend host.Host) *Server {
	return &Server{backend: backend}
}

// Start runs the API server on the specified port, blocking.
func (s *Server) Start(port int) error {
	return s.router().Run(fmt.Sprintf(":%d", port))
}

// router assembles the gin engine; split out so tests can serve it.
func (s *Server) router() *gin.Engine {
	r := gin.Default()

	// CORS middleware
	r.Use(corsMiddleware())

	// Health check
	r.GET("/health", healthCheck)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/rates", listRates)
		v1.GET("/plugins", s.handleListPlugins)
		v1.POST("/render", s.handleRender)
	}

	// Swagger docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// healthCheck godoc
// @Summary Health check endpoint
// @Description Returns the health status of the API
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "vst-param-cascade",
	})
}

// listRates godoc
// @Summary List supported sample rates
// @Description Returns the sample rates accepted by the render endpoint
// @Tags info
// @Produce json
// @Success 200 {object} map[string][]int
// @Router /api/v1/rates [get]
func listRates(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"sampleRates": SampleRates,
	})
}

// handleListPlugins godoc
// @Summary List plugins under a directory
// @Description Scans a directory tree for plugin binaries, resolving bundles
// @Tags plugins
// @Produce json
// @Param dir query string false "Directory to scan (default: platform plugin dir)"
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]string
// @Router /api/v1/plugins [get]
func (s *Server) handleListPlugins(c *gin.Context) {
	dir := c.DefaultQuery("dir", vst.DefaultPluginDir())

	plugins, err := vst.ListPlugins(dir)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"dir":     dir,
		"plugins": plugins,
	})
}

// RenderRequest is the JSON body of the render endpoint.
type RenderRequest struct {
	Plugin     string  `json:"plugin" binding:"required"`
	SampleRate int     `json:"sampleRate" binding:"required"`
	Duration   float64 `json:"duration" binding:"required"`
	NoteMin    int     `json:"noteMin"`
	NoteMax    int     `json:"noteMax"`
	OutputDir  string  `json:"outputDir" binding:"required"`
	// Empty mappings or values are accepted and render zero files.
	CCMappings []struct {
		Number int    `json:"number"`
		Label  string `json:"label"`
	} `json:"ccMappings"`
	CCValues []int `json:"ccValues"`
}

// handleRender godoc
// @Summary Run a batch render
// @Description Renders one .wav per note/CC/value combination into the output directory
// @Tags render
// @Accept json
// @Produce json
// @Param request body RenderRequest true "Render configuration"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/v1/render [post]
func (s *Server) handleRender(c *gin.Context) {
	var req RenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cfg := sweep.Config{
		SampleRate: req.SampleRate,
		Duration:   req.Duration,
		NoteMin:    req.NoteMin,
		NoteMax:    req.NoteMax,
		OutputDir:  req.OutputDir,
	}
	if err := cfg.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	mappings := make([]sweep.CCMapping, 0, len(req.CCMappings))
	for _, m := range req.CCMappings {
		mappings = append(mappings, sweep.CCMapping{Number: m.Number, Label: m.Label})
	}
	if err := sweep.ValidateMappings(mappings, req.CCValues); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Bundle paths are accepted; resolve to the inner binary when possible.
	pluginPath := req.Plugin
	if resolved := vst.ResolveBundle(pluginPath); resolved != "" {
		pluginPath = resolved
	}

	r := render.New(s.backend)
	if err := r.Load(pluginPath); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "stage": string(render.StageLoad)})
		return
	}
	defer func() { _ = r.Close() }()

	if err := r.Run(cfg, mappings, req.CCValues); err != nil {
		status := http.StatusInternalServerError
		resp := gin.H{"error": err.Error()}
		var stageErr *render.StageError
		if errors.As(err, &stageErr) {
			resp["stage"] = string(stageErr.Stage)
		}
		c.JSON(status, resp)
		return
	}

	jobs := sweep.New(cfg.NoteMin, cfg.NoteMax, mappings, req.CCValues).Len()
	c.JSON(http.StatusOK, gin.H{
		"files":     jobs,
		"outputDir": cfg.OutputDir,
	})
}
