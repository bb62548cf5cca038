// Package logger builds slog loggers for the Lettermint client and the
// webhook receiver, and defines the attribute keys both of them log with.
//
// New creates a *slog.Logger configured by Option functions: output format
// (text or json), minimum level, static attributes and ContextExtractor
// callbacks that pull request-scoped values out of context.Context on every
// record. Discard returns a logger that drops everything; library types use
// it when the caller does not configure one.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithTextFormatter(),
//	    logger.WithLevel(slog.LevelDebug),
//	    logger.WithService("billing"),
//	)
//	client, _ := lettermint.New(token, lettermint.WithLogger(log))
//
// Attribute helpers keep key names consistent:
//
//	log.InfoContext(ctx, "email sent",
//	    logger.MessageID(resp.MessageID),
//	    logger.StatusCode(resp.HTTPStatus),
//	    logger.Duration(time.Since(start)),
//	)
//
// Error, Errors, MessageID and IdempotencyKey return an empty attribute
// for nil or empty input, which slog omits from the output.
package logger
