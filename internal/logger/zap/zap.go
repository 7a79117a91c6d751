package zap

import (
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

const prefix = "[PLUELY]"

var (
	levelColors = map[zapcore.Level]*color.Color{
		zapcore.DebugLevel: color.New(color.BgHiBlack),
		zapcore.InfoLevel:  color.New(color.BgBlue),
		zapcore.WarnLevel:  color.New(color.BgYellow),
	}
	errorColor = color.New(color.BgRed)

	levelNames = map[zapcore.Level]string{
		zapcore.DebugLevel: "DEBUG",
		zapcore.InfoLevel:  "INFO",
		zapcore.WarnLevel:  "WARN",
		zapcore.ErrorLevel: "ERROR",
		zapcore.FatalLevel: "FATAL",
	}
)

// tagEncoder writes a colored level tag in front of each console entry.
type tagEncoder struct {
	zapcore.Encoder
	cfg  zapcore.EncoderConfig
	pool buffer.Pool
}

func newTagEncoder(cfg zapcore.EncoderConfig) *tagEncoder {
	return &tagEncoder{
		Encoder: zapcore.NewConsoleEncoder(cfg),
		cfg:     cfg,
		pool:    buffer.NewPool(),
	}
}

func (e *tagEncoder) Clone() zapcore.Encoder {
	return &tagEncoder{
		Encoder: e.Encoder.Clone(),
		cfg:     e.cfg,
		pool:    e.pool,
	}
}

func (e *tagEncoder) EncodeEntry(entry zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	line, err := e.Encoder.EncodeEntry(entry, fields)
	if err != nil {
		return nil, err
	}
	defer line.Free()

	buf := e.pool.Get()
	buf.AppendString(levelColor(entry.Level).Sprint(prefix))
	buf.AppendByte(' ')
	buf.AppendString(toLevelPrefix(entry.Level))
	buf.AppendString(" | ")
	buf.AppendTime(entry.Time, "2006-01-02T15:04:05Z07:00")
	buf.AppendString(" | ")
	buf.Write(line.Bytes())

	return buf, nil
}

func levelColor(lvl zapcore.Level) *color.Color {
	if c, ok := levelColors[lvl]; ok {
		return c
	}

	return errorColor
}

func toLevelPrefix(lvl zapcore.Level) string {
	return levelNames[lvl]
}

// NewLogger returns a JSON logger at info level in production mode and a
// colored console logger at debug level otherwise.
func NewLogger(mode string) *zap.Logger {
	encCfg := zapcore.EncoderConfig{
		MessageKey:     "message",
		LevelKey:       "level",
		TimeKey:        "ts",
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.EpochTimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}

	if mode == "production" {
		return zap.New(zapcore.NewCore(
			zapcore.NewJSONEncoder(encCfg),
			zapcore.Lock(os.Stdout),
			zapcore.InfoLevel,
		), zap.ErrorOutput(zapcore.Lock(os.Stderr)))
	}

	encCfg.LevelKey = zapcore.OmitKey
	encCfg.TimeKey = zapcore.OmitKey

	return zap.New(zapcore.NewCore(
		newTagEncoder(encCfg),
		zapcore.AddSync(colorable.NewColorableStdout()),
		zapcore.DebugLevel,
	))
}
