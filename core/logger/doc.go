// Package logger provides slog construction and attribute helpers shared by
// the batch runner, the scheduler and the fetch/download consumers.
//
// # Basic Usage
//
//	log := logger.New(
//		logger.WithLevel(slog.LevelDebug),
//		logger.WithAttr(logger.Component("downloader")),
//	)
//
//	log.Info("batch finished",
//		logger.RunID(runID),
//		logger.Count("failed", failed),
//		logger.Elapsed(start),
//	)
//
// Loggers can also be built from environment configuration:
//
//	var cfg logger.Config
//	config.MustLoad(&cfg)
//	log := logger.NewFromConfig(cfg)
//
// # Attribute Helpers
//
// Helpers return an empty slog.Attr for nil or empty input, so they can be
// passed unconditionally: log.Info("done", logger.Error(err)) omits the error
// key when err is nil.
package logger
