package worker

import (
	"context"
)

// Worker - фоновый обработчик, которым управляет WorkerManager.
// Start блокируется до остановки через Stop или отмену ctx
type Worker interface {
	Start(ctx context.Context) error
	Stop() error
	Name() string
}
