// Package logger wraps zerolog behind a small Logger interface used by every
// igprofile component.
//
// Console output is colorized and goes to stderr so the scrape result can be
// piped. When LoggingConfig.File is set, records are also written to a
// lumberjack-rotated file (MaxSize, MaxBackups, MaxAge, Compress).
//
//	if err := logger.Initialize(&cfg.Logging); err != nil {
//	    return err
//	}
//	logger.WithField("username", "instagram").Info("Scrape started")
//	logger.LogPostProgress(3, 12, "https://www.instagram.com/p/abc/")
//
// Tests use NewNopLogger or NewTestLogger, which records messages for
// assertions.
package logger
