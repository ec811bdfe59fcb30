package apperrors

import "errors"

// Ожидаемые исходы операций ядра. Хендлеры сопоставляют их с HTTP-кодами
// через errors.Is; всё остальное считается внутренней ошибкой хранилища.
var (
	ErrNotFound     = errors.New("ресурс не найден")
	ErrForbidden    = errors.New("доступ запрещён")
	ErrSelfAction   = errors.New("действие над собственной учётной записью запрещено")
	ErrConflict     = errors.New("конфликт уникальности")
	ErrInvalidInput = errors.New("некорректные входные данные")
)
