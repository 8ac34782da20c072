package models

import "errors"

var (
	// ErrValidation - некорректные входные данные (координаты, обязательные поля)
	ErrValidation = errors.New("validation error")
	// ErrNotFound - инцидент или пользователь не найден
	ErrNotFound = errors.New("not found")
	// ErrDuplicateVote - пользователь уже голосовал за инцидент
	ErrDuplicateVote = errors.New("already voted")
	// ErrConcurrencyConflict - оптимистичная запись проиграла гонку
	ErrConcurrencyConflict = errors.New("concurrent modification")
	// ErrDependencyUnavailable - хранилище или журнал наград недоступны
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	// ErrForbidden - у вызывающего нет нужной роли
	ErrForbidden = errors.New("forbidden")
)
