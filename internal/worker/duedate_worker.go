package worker

import (
	"context"
	"log"
	"time"

	"validtrack/internal/service"
)

// DueDateWorker периодически запускает проверку горящих записей.
// Сам прогон идемпотентен, поэтому частота таймера безопасна.
type DueDateWorker struct {
	service   service.NotificationService
	interval  time.Duration
	stopChan  chan struct{}
	isRunning bool
}

func NewDueDateWorker(service service.NotificationService, interval time.Duration) *DueDateWorker {
	return &DueDateWorker{
		service:  service,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

func (w *DueDateWorker) Name() string {
	return "duedate"
}

func (w *DueDateWorker) Start() {
	if w.isRunning {
		return
	}

	w.isRunning = true
	log.Printf("Due date worker started with interval %v", w.interval)

	go w.run()
}

func (w *DueDateWorker) Stop() {
	if !w.isRunning {
		return
	}

	close(w.stopChan)
	w.isRunning = false
	log.Println("Due date worker stopped")
}

func (w *DueDateWorker) run() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// Первый запуск сразу
	w.runCheck()

	for {
		select {
		case <-ticker.C:
			w.runCheck()
		case <-w.stopChan:
			return
		}
	}
}

func (w *DueDateWorker) runCheck() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	result, err := w.service.RunDueDateCheck(ctx, time.Now().UTC())
	if err != nil {
		log.Printf("Due date worker error: %v", err)
		return
	}

	if len(result.Sent) > 0 || len(result.Failed) > 0 {
		log.Printf("Due date worker: %d sent, %d failed", len(result.Sent), len(result.Failed))
	}
}
