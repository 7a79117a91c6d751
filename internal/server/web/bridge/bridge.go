package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pluely/gateway/internal/credential"
	"github.com/pluely/gateway/internal/gateway"
	"go.uber.org/zap"
)

const (
	correlationId string = "correlationId"
)

type Gateway interface {
	ChatStream(ctx context.Context, req *gateway.ChatRequest, emitter gateway.Emitter) (string, error)
	Transcribe(ctx context.Context, audioBase64 string) (*gateway.AudioResponse, error)
	FetchModels(ctx context.Context) ([]*credential.Model, error)
	CreateSystemPrompt(ctx context.Context, userPrompt string) (*gateway.SystemPromptResponse, error)
	CheckLicenseStatus(ctx context.Context) bool
	GetActivity(ctx context.Context) (json.RawMessage, error)
}

type Config struct {
	Mode                 string
	Port                 int
	ChatStreamTimeout    time.Duration
	TranscriptionTimeout time.Duration
	RequestTimeout       time.Duration
	MetricsHandler       http.Handler
}

// BridgeServer is the local http server the desktop ui talks to.
type BridgeServer struct {
	server *http.Server
	port   int
	log    *zap.Logger
}

func NewBridgeServer(log *zap.Logger, cfg Config, gw Gateway) *BridgeServer {
	router := gin.New()
	prod := cfg.Mode == "production"

	router.Use(getOtelMiddleware())
	router.Use(getMiddleware(prod, log, "bridge"))

	router.GET("/api/health", getGetHealthCheckHandler())
	router.POST("/api/chat", getTimeoutMiddleware(cfg.ChatStreamTimeout), getChatStreamHandler(prod, gw, log))
	router.POST("/api/transcribe", getTimeoutMiddleware(cfg.TranscriptionTimeout), getTranscribeHandler(prod, gw, log))
	router.GET("/api/models", getTimeoutMiddleware(cfg.RequestTimeout), getModelsHandler(prod, gw, log))
	router.POST("/api/prompt", getTimeoutMiddleware(cfg.RequestTimeout), getCreateSystemPromptHandler(prod, gw, log))
	router.GET("/api/license/status", getLicenseStatusHandler(gw))
	router.GET("/api/activity", getTimeoutMiddleware(cfg.RequestTimeout), getActivityHandler(prod, gw, log))

	if cfg.MetricsHandler != nil {
		router.GET("/metrics", gin.WrapH(cfg.MetricsHandler))
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}

	return &BridgeServer{
		log:    log,
		port:   cfg.Port,
		server: srv,
	}
}

func (bs *BridgeServer) Handler() http.Handler {
	return bs.server.Handler
}

func getGetHealthCheckHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Status(http.StatusOK)
	}
}

func (bs *BridgeServer) Run() {
	go func() {
		bs.log.Sugar().Infof("bridge server listening at %d", bs.port)
		bs.log.Sugar().Infof("PORT %d | POST  | /api/chat is ready for streaming chat completions", bs.port)
		bs.log.Sugar().Infof("PORT %d | POST  | /api/transcribe is ready for transcribing audio", bs.port)
		bs.log.Sugar().Infof("PORT %d | GET   | /api/models is ready for listing models", bs.port)
		bs.log.Sugar().Infof("PORT %d | POST  | /api/prompt is ready for generating system prompts", bs.port)
		bs.log.Sugar().Infof("PORT %d | GET   | /api/license/status is ready for checking the license", bs.port)
		bs.log.Sugar().Infof("PORT %d | GET   | /api/activity is ready for listing activity", bs.port)

		if err := bs.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			bs.log.Sugar().Fatalf("error bridge server listening: %v", err)
			return
		}
	}()
}

func (bs *BridgeServer) Shutdown(ctx context.Context) error {
	if err := bs.server.Shutdown(ctx); err != nil {
		bs.log.Sugar().Infof("error shutting down bridge server: %v", err)

		return err
	}

	return nil
}

func logError(log *zap.Logger, msg string, prod bool, id string, err error) {
	if prod {
		log.Debug(msg, zap.String(correlationId, id), zap.Error(err))
		return
	}

	log.Sugar().Debugf("correlationId:%s | %s | %v", id, msg, err)
}
