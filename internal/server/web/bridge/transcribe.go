package bridge

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pluely/gateway/internal/gateway"
	"github.com/pluely/gateway/internal/telemetry"
	"go.uber.org/zap"
)

type TranscribeRequest struct {
	AudioBase64 string `json:"audio_base64"`
}

func getTranscribeHandler(prod bool, gw Gateway, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		telemetry.Incr("pluely.bridge.get_transcribe_handler.requests", nil, 1)
		cid := c.GetString(correlationId)

		tr := &TranscribeRequest{}
		err := c.ShouldBindJSON(tr)
		if err != nil {
			telemetry.Incr("pluely.bridge.get_transcribe_handler.bind_error", nil, 1)
			logError(log, "error when binding transcribe request", prod, cid, err)
			c.JSON(http.StatusBadRequest, &gateway.AudioResponse{Error: "invalid transcription request"})
			return
		}

		res, err := gw.Transcribe(c.Request.Context(), tr.AudioBase64)
		if err != nil {
			telemetry.Incr("pluely.bridge.get_transcribe_handler.transcribe_error", nil, 1)
			logError(log, "error when transcribing audio", prod, cid, err)
			c.JSON(errorStatus(err), &gateway.AudioResponse{Error: err.Error()})
			return
		}

		c.JSON(http.StatusOK, res)
	}
}
