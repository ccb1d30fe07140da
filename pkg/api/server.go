// Package api provides the REST API server for bsr2trip
package api

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"bsr2trip/internal/beatsaver"
	"bsr2trip/pkg/audiotrip"
	"bsr2trip/pkg/beatsaber"
	"bsr2trip/pkg/converter"
)

// @title bsr2trip API
// @version 1.0
// @description API for converting Beat Saber maps to Audio Trip choreographies
// @host localhost:8080
// @BasePath /api/v1

// StartServer starts the API server on the specified port
func StartServer(port int) error {
	return setupRouter().Run(fmt.Sprintf(":%d", port))
}

func setupRouter() *gin.Engine {
	r := gin.Default()

	// CORS middleware
	r.Use(corsMiddleware())

	// Health check
	r.GET("/health", healthCheck)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/options", listOptions)
		v1.POST("/convert", handleConvert)
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
		"service": "bsr2trip",
	})
}

// listOptions godoc
// @Summary List conversion defaults
// @Description Returns the default conversion options and supported source kinds
// @Tags info
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/v1/options [get]
func listOptions(c *gin.Context) {
	conv, err := converter.New(converter.DefaultOptions())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	kinds := make([]string, 0)
	for _, k := range conv.SupportedKinds() {
		kinds = append(kinds, k.String())
	}
	c.JSON(http.StatusOK, gin.H{
		"defaults":        converter.DefaultOptions(),
		"supported_kinds": kinds,
	})
}

// handleConvert godoc
// @Summary Convert a Beat Saber map zip
// @Description Upload a Beat Saber map zip and receive an .ats choreography file
// @Tags convert
// @Accept multipart/form-data
// @Produce application/octet-stream
// @Param file formData file true "Beat Saber map zip"
// @Param strict query bool false "Fail on unsupported event kinds"
// @Param gemSpeed query number false "Gem speed override"
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string
// @Router /api/v1/convert [post]
func handleConvert(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	defer func() { _ = file.Close() }()

	opts := converter.DefaultOptions()
	if v, err := strconv.ParseBool(c.DefaultQuery("strict", "false")); err == nil {
		opts.Strict = v
	}
	if v, err := strconv.ParseFloat(c.DefaultQuery("gemSpeed", "0"), 64); err == nil {
		opts.GemSpeed = v
	}

	workDir, err := os.MkdirTemp("", "bsr2trip-api-")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create work directory"})
		return
	}
	defer func() { _ = os.RemoveAll(workDir) }()

	zipPath := filepath.Join(workDir, "map.zip")
	if err := c.SaveUploadedFile(header, zipPath); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read upload"})
		return
	}

	mapDir := filepath.Join(workDir, "map")
	if err := beatsaver.Extract(zipPath, mapDir); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lvl, err := beatsaber.Load(mapDir)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	conv, err := converter.New(opts)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	doc, report, err := conv.ConvertLevel(lvl)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	data, err := audiotrip.Marshal(doc)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	outputName := audiotrip.FileName(lvl.Info.SongAuthorName, lvl.Info.SongName, lvl.Info.SongSubName, lvl.Info.LevelAuthorName)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", outputName))
	c.Header("X-Converted-Events", strconv.Itoa(report.TotalConverted()))
	c.Header("X-Dropped-Events", strconv.Itoa(report.TotalDropped()))
	c.Header("X-Failed-Events", strconv.Itoa(report.TotalFailed()))
	c.Data(http.StatusOK, "application/json", data)
}
