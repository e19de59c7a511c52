// Package sl содержит вспомогательные функции для структурированных
// полей логгера slog.
package sl

import "log/slog"

// Err возвращает slog.Attr с ключом "error" и текстом ошибки.
//
// Пример:
//
//	log.Error("failed to approve payment", sl.Err(err))
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}

// Kind возвращает slog.Attr с видом уведомления.
func Kind(kind string) slog.Attr {
	return slog.Attr{
		Key:   "kind",
		Value: slog.StringValue(kind),
	}
}
