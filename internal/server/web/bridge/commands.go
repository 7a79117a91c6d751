package bridge

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pluely/gateway/internal/telemetry"
	"go.uber.org/zap"
)

type SystemPromptRequest struct {
	UserPrompt string `json:"user_prompt" binding:"required"`
}

type LicenseStatusResponse struct {
	Active bool `json:"active"`
}

func getModelsHandler(prod bool, gw Gateway, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		telemetry.Incr("pluely.bridge.get_models_handler.requests", nil, 1)

		models, err := gw.FetchModels(c.Request.Context())
		if err != nil {
			telemetry.Incr("pluely.bridge.get_models_handler.fetch_models_error", nil, 1)
			logError(log, "error when fetching models", prod, c.GetString(correlationId), err)
			JSON(c, errorStatus(err), err.Error())
			return
		}

		c.JSON(http.StatusOK, gin.H{"models": models})
	}
}

func getCreateSystemPromptHandler(prod bool, gw Gateway, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		telemetry.Incr("pluely.bridge.get_create_system_prompt_handler.requests", nil, 1)
		cid := c.GetString(correlationId)

		spr := &SystemPromptRequest{}
		err := c.ShouldBindJSON(spr)
		if err != nil {
			logError(log, "error when binding system prompt request", prod, cid, err)
			JSON(c, http.StatusBadRequest, "[PLUELY] user_prompt is required")
			return
		}

		res, err := gw.CreateSystemPrompt(c.Request.Context(), spr.UserPrompt)
		if err != nil {
			telemetry.Incr("pluely.bridge.get_create_system_prompt_handler.create_error", nil, 1)
			logError(log, "error when creating system prompt", prod, cid, err)
			JSON(c, errorStatus(err), err.Error())
			return
		}

		c.JSON(http.StatusOK, res)
	}
}

func getLicenseStatusHandler(gw Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, &LicenseStatusResponse{
			Active: gw.CheckLicenseStatus(c.Request.Context()),
		})
	}
}

func getActivityHandler(prod bool, gw Gateway, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		telemetry.Incr("pluely.bridge.get_activity_handler.requests", nil, 1)

		raw, err := gw.GetActivity(c.Request.Context())
		if err != nil {
			telemetry.Incr("pluely.bridge.get_activity_handler.get_activity_error", nil, 1)
			logError(log, "error when getting activity", prod, c.GetString(correlationId), err)
			JSON(c, errorStatus(err), err.Error())
			return
		}

		c.Data(http.StatusOK, "application/json", raw)
	}
}
