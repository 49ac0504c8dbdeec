package handlers

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BobKimani/Colovision-CRC-Detection/internal/auth"
	"github.com/BobKimani/Colovision-CRC-Detection/internal/imaging"
	"github.com/BobKimani/Colovision-CRC-Detection/internal/report"
	"github.com/BobKimani/Colovision-CRC-Detection/internal/usecase"
)

// MaxUploadSize caps a single uploaded image.
const MaxUploadSize = 15 << 20

// RegisterRoutes wires the HTTP handlers to the Gin router.
func RegisterRoutes(router *gin.Engine, uc *usecase.AnalysisUseCase, authMiddleware gin.HandlerFunc) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1", authMiddleware)

	api.POST("/segment", func(c *gin.Context) {
		userID, ok := auth.GetUserID(c.Request.Context())
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing identity"})
			return
		}

		files, err := uploadedImages(c)
		if err != nil {
			abortUploadError(c, err)
			return
		}

		results := make([]gin.H, 0, len(files))
		for _, file := range files {
			results = append(results, analyzeOne(c, uc, userID, file))
		}

		c.JSON(http.StatusOK, gin.H{
			"status":          "completed",
			"results":         results,
			"total_processed": len(results),
		})
	})

	api.POST("/report", func(c *gin.Context) {
		userID, ok := auth.GetUserID(c.Request.Context())
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing identity"})
			return
		}

		file, err := c.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
			return
		}
		if err := screenUpload(file); err != nil {
			abortUploadError(c, err)
			return
		}

		data, err := readUpload(file)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read image"})
			return
		}

		analysis, err := uc.Analyze(c.Request.Context(), userID, file.Filename, data)
		if err != nil {
			if errors.Is(err, imaging.ErrDecode) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "uploaded file is not a decodable image"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if !analysis.Accepted {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"status": "rejected",
				"reason": analysis.Reason,
			})
			return
		}

		pdfBytes, err := report.Build(analysis)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "report generation failed"})
			return
		}

		filename := fmt.Sprintf("crc_report_%s.pdf", analysis.RequestID)
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
		c.Data(http.StatusOK, "application/pdf", pdfBytes)
	})

	api.GET("/result/:id", func(c *gin.Context) {
		userID, ok := auth.GetUserID(c.Request.Context())
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing identity"})
			return
		}

		requestID := c.Param("id")
		if requestID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "id is required"})
			return
		}

		log, err := uc.GetResult(c.Request.Context(), userID, requestID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "result not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"request_id":          log.RequestID,
			"filename":            log.Filename,
			"accepted":            log.Accepted,
			"reason":              log.Reason,
			"positive_percentage": log.PositivePercentage,
			"risk_level":          log.RiskLevel,
			"model_version":       log.ModelVersion,
			"created_at":          log.CreatedAt,
		})
	})

	api.GET("/metrics", func(c *gin.Context) {
		summary, err := uc.GetMetricsSummary(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, summary)
	})
}

// analyzeOne runs the pipeline for a single upload and shapes the per-file
// response entry. Rejection and decode failure are per-file outcomes, not
// request-level faults.
func analyzeOne(c *gin.Context, uc *usecase.AnalysisUseCase, userID string, file *multipart.FileHeader) gin.H {
	data, err := readUpload(file)
	if err != nil {
		return gin.H{"filename": file.Filename, "status": "error", "error": "failed to read image"}
	}

	analysis, err := uc.Analyze(c.Request.Context(), userID, file.Filename, data)
	if err != nil {
		if errors.Is(err, imaging.ErrDecode) {
			return gin.H{"filename": file.Filename, "status": "error", "error": "not a decodable image"}
		}
		return gin.H{"filename": file.Filename, "status": "error", "error": err.Error()}
	}

	if !analysis.Accepted {
		return gin.H{
			"filename":   file.Filename,
			"request_id": analysis.RequestID,
			"status":     "rejected",
			"reason":     analysis.Reason,
		}
	}

	return gin.H{
		"filename":        file.Filename,
		"request_id":      analysis.RequestID,
		"status":          "success",
		"original":        dataURI(analysis.OriginalPNG),
		"overlay":         dataURI(analysis.OverlayPNG),
		"heatmap":         dataURI(analysis.HeatmapPNG),
		"statistics":      analysis.Statistics,
		"risk_level":      analysis.RiskLevel,
		"recommendations": analysis.Recommendations,
		"model_version":   analysis.ModelVersion,
	}
}

var (
	errUploadTooLarge  = errors.New("handlers: upload exceeds size limit")
	errUnsupportedType = errors.New("handlers: unsupported content type")
	errNoFiles         = errors.New("handlers: no image files uploaded")
)

// uploadedImages collects the multipart image parts, accepting both the
// multi-file "images" field and the single-file "image" field.
func uploadedImages(c *gin.Context) ([]*multipart.FileHeader, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, errNoFiles
	}

	files := form.File["images"]
	if len(files) == 0 {
		files = form.File["image"]
	}
	if len(files) == 0 {
		return nil, errNoFiles
	}

	for _, file := range files {
		if err := screenUpload(file); err != nil {
			return nil, err
		}
	}
	return files, nil
}

func screenUpload(file *multipart.FileHeader) error {
	if file.Size > MaxUploadSize {
		return errUploadTooLarge
	}
	contentType := file.Header.Get("Content-Type")
	if contentType != "" && !strings.HasPrefix(contentType, "image/") {
		return errUnsupportedType
	}
	return nil
}

func abortUploadError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errUploadTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image exceeds the upload size limit"})
	case errors.Is(err, errUnsupportedType):
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "only image uploads are supported"})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
	}
}

func readUpload(file *multipart.FileHeader) ([]byte, error) {
	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return io.ReadAll(src)
}

func dataURI(png []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
}
