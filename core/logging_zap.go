package core

import (
	"go.uber.org/zap"
)

type loggerFromZap struct {
	zapLogger *zap.Logger
}

// NewLoggerFromZap creates a Logger backed by a configured zap.Logger,
// the production logger used by the orchestrator when embedded in a
// service rather than a test harness.
func NewLoggerFromZap(zapLogger *zap.Logger) Logger {
	return &loggerFromZap{zapLogger}
}

func (l *loggerFromZap) Info(msg string, fields ...LogField) {
	l.zapLogger.Info(msg, convertLogFields(fields)...)
}

func (l *loggerFromZap) Debug(msg string, fields ...LogField) {
	l.zapLogger.Debug(msg, convertLogFields(fields)...)
}

func (l *loggerFromZap) Warn(msg string, fields ...LogField) {
	l.zapLogger.Warn(msg, convertLogFields(fields)...)
}

func (l *loggerFromZap) Error(msg string, fields ...LogField) {
	l.zapLogger.Error(msg, convertLogFields(fields)...)
}

func (l *loggerFromZap) WithFields(fields ...LogField) Logger {
	return &loggerFromZap{zapLogger: l.zapLogger.With(convertLogFields(fields)...)}
}

func (l *loggerFromZap) Named(name string) Logger {
	return &loggerFromZap{zapLogger: l.zapLogger.Named(name)}
}

func convertLogFields(fields []LogField) []zap.Field {
	zapFields := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		zapFields = append(zapFields, convertLogField(field))
	}
	return zapFields
}

func convertLogField(field LogField) zap.Field {
	switch field.Type {
	case StringLogFieldType:
		return zap.String(field.Key, field.String)
	case IntegerLogFieldType:
		return zap.Int64(field.Key, field.Integer)
	case BoolLogFieldType:
		return zap.Bool(field.Key, field.Bool)
	case ErrorLogFieldType:
		return zap.Error(field.Err)
	default:
		return zap.Skip()
	}
}
