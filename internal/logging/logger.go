package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"

	"eapmetrics/internal/config"
)

// Init installs a JSON slog logger as the process default, mirroring
// output to a rotating file when configured.
func Init(cfg config.LoggingConfig) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(writer(cfg), handlerOptions(cfg)))
	slog.SetDefault(logger)
	return logger
}

func writer(cfg config.LoggingConfig) io.Writer {
	if !cfg.LogToFile || cfg.Filename == "" {
		return os.Stdout
	}
	return io.MultiWriter(os.Stdout, &lumberjack.Logger{
		Filename:   cfg.Filename,
		MaxSize:    cfg.MaxSize,
		MaxAge:     cfg.MaxAge,
		MaxBackups: cfg.MaxBackups,
		Compress:   cfg.CompressOldLogs,
	})
}

func handlerOptions(cfg config.LoggingConfig) *slog.HandlerOptions {
	return &slog.HandlerOptions{
		Level:     LevelFromString(cfg.Level),
		AddSource: cfg.IncludeSrc,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.SourceKey {
				if source, ok := a.Value.Any().(*slog.Source); ok && source != nil {
					source.File = filepath.Base(source.File)
				}
			}
			return a
		},
	}
}

// LevelFromString maps debug/info/warn/error to a slog level, defaulting to info
func LevelFromString(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
