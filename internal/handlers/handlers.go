// Package handlers wires the HTTP surface: the verification endpoint,
// liveness, metrics, and permissive CORS for browser clients.
package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/example/authenx/internal/usecase"
)

// RegisterRoutes attaches all routes to the Gin router. authMiddleware may
// be a passthrough when no auth secret is configured; metricsHandler may be
// nil to disable the metrics endpoint.
func RegisterRoutes(router *gin.Engine, uc *usecase.VerificationUseCase, metricsHandler http.Handler, authMiddleware gin.HandlerFunc) {
	router.Use(corsMiddleware())

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "🚀 AuthenX AI v4 running successfully"})
	})

	router.OPTIONS("/*path", preflight)

	if metricsHandler != nil {
		router.GET("/metrics", gin.WrapH(metricsHandler))
	}

	router.POST("/verify-image", authMiddleware, verifyImage(uc))
}

func verifyImage(uc *usecase.VerificationUseCase) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req usecase.VerifyRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": "Invalid request body"})
			return
		}

		result, err := uc.VerifyImage(c.Request.Context(), req)
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": inputErrorMessage(err)})
			return
		}

		var tool any
		if result.Editing.Tool != "" {
			tool = result.Editing.Tool
		}

		message := "❌ Possibly AI / manipulated"
		if result.IsReal {
			message = "✅ Real image"
		}

		c.JSON(http.StatusOK, gin.H{
			"success":            true,
			"is_real":            result.IsReal,
			"authenticity_score": result.AuthenticityScore,
			"realism_score":      result.RealismScore,
			"editing_detected":   result.Editing.Edited,
			"editing_tool":       tool,
			"geotag_valid":       result.Geotag.Valid,
			"geotag_reason":      result.Geotag.Reason,
			"metadata":           result.Metadata,
			"message":            message,
		})
	}
}

// inputErrorMessage maps input-resolution failures onto the user-facing
// messages of the verification API.
func inputErrorMessage(err error) string {
	var decodeErr *usecase.DecodeError
	var netErr *usecase.NetworkError
	switch {
	case errors.Is(err, usecase.ErrNoImage):
		return "No image provided"
	case errors.As(err, &decodeErr):
		return fmt.Sprintf("Invalid base64: %v", decodeErr.Unwrap())
	case errors.Is(err, usecase.ErrDownloadFailed):
		return "Image download failed"
	case errors.As(err, &netErr):
		return fmt.Sprintf("Network error: %v", netErr.Unwrap())
	default:
		return err.Error()
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "*")
		c.Next()
	}
}

// preflight acknowledges CORS preflights on any path with a static body.
func preflight(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "CORS preflight OK"})
}
