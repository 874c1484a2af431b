package worker

import "context"

// Worker - фоновый обработчик, которым управляет WorkerManager
type Worker interface {
	// Start блокируется до остановки воркера или отмены ctx
	Start(ctx context.Context) error

	// Stop сигнализирует воркеру завершиться, повторный вызов безопасен
	Stop() error

	Name() string
}
