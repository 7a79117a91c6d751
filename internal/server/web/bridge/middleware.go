package bridge

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pluely/gateway/internal/gateway"
	"github.com/pluely/gateway/internal/telemetry"
	"github.com/pluely/gateway/internal/util"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

const correlationIdHeader = "X-CORRELATION-ID"

func getOtelMiddleware() gin.HandlerFunc {
	spanName := func(r *http.Request) string {
		return "HTTP " + r.Method + " " + r.URL.Path
	}

	return otelgin.Middleware(
		"pluely-bridge",
		otelgin.WithSpanNameFormatter(spanName),
		otelgin.WithPropagators(otel.GetTextMapPropagator()),
		otelgin.WithTracerProvider(otel.GetTracerProvider()),
	)
}

func getMiddleware(prod bool, log *zap.Logger, prefix string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c == nil || c.Request == nil {
			JSON(c, http.StatusInternalServerError, "[PLUELY] request is empty")
			c.Abort()
			return
		}

		cid := c.GetHeader(correlationIdHeader)
		if len(cid) == 0 {
			cid = util.NewUuid()
		}

		c.Set(correlationId, cid)
		c.Header(correlationIdHeader, cid)
		c.Request = c.Request.WithContext(gateway.WithCorrelationId(c.Request.Context(), cid))

		start := time.Now()
		c.Next()

		dur := time.Since(start)
		latency := int(dur.Milliseconds())

		telemetry.Timing("pluely.bridge.get_middleware.latency", dur, nil, 1)
		telemetry.Incr("pluely.bridge.get_middleware.responses", []string{
			"status:" + strconv.Itoa(c.Writer.Status()),
		}, 1)

		if prod {
			log.Info("response to bridge",
				zap.String(correlationId, cid),
				zap.Int("code", c.Writer.Status()),
				zap.String("method", c.Request.Method),
				zap.String("path", c.FullPath()),
				zap.Int("latencyInMs", latency),
			)
			return
		}

		log.Sugar().Infof("%s | %d | %s | %s | %dms", prefix, c.Writer.Status(), c.Request.Method, c.FullPath(), latency)
	}
}

// getTimeoutMiddleware bounds the request context. The x-request-timeout
// header overrides the default.
func getTimeoutMiddleware(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		parsedTimeout := timeout
		if timeoutHeader := c.GetHeader("x-request-timeout"); len(timeoutHeader) != 0 {
			parsed, err := time.ParseDuration(timeoutHeader)
			if err != nil {
				JSON(c, http.StatusBadRequest, "[PLUELY] invalid timeout")
				c.Abort()
				return
			}

			parsedTimeout = parsed
		}

		if parsedTimeout <= 0 {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), parsedTimeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
