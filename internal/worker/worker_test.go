package worker

import (
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestPool(t *testing.T) {
	logger := zap.NewNop()
	pool := NewPool(2, 10, logger)

	// Запускаем пул
	pool.Start()
	defer pool.Stop()

	// Ждем немного для запуска воркеров
	time.Sleep(100 * time.Millisecond)

	// Тестируем обработку задач
	var results sync.Map
	var wg sync.WaitGroup

	for i := 0; i < 5; i++ {
		wg.Add(1)
		jobID := i

		job := Job{
			TrackID: "track",
			Handler: func() error {
				defer wg.Done()
				results.Store(jobID, true)
				return nil
			},
		}

		if err := pool.Submit(job); err != nil {
			t.Errorf("Failed to submit job %d: %v", jobID, err)
		}
	}

	wg.Wait()

	// Проверяем результаты
	for i := 0; i < 5; i++ {
		if _, ok := results.Load(i); !ok {
			t.Errorf("Job %d was not processed", i)
		}
	}

	// Проверяем метрики
	if pool.GetProcessedJobs() != 5 {
		t.Errorf("Expected 5 processed jobs, got %d", pool.GetProcessedJobs())
	}
}

func TestPoolWithErrors(t *testing.T) {
	logger := zap.NewNop()
	pool := NewPool(1, 5, logger)

	pool.Start()
	defer pool.Stop()

	time.Sleep(100 * time.Millisecond)

	var wg sync.WaitGroup
	wg.Add(1)

	job := Job{
		TrackID: "broken-track",
		Handler: func() error {
			defer wg.Done()
			return &Error{msg: "test error"}
		},
	}

	if err := pool.Submit(job); err != nil {
		t.Errorf("Failed to submit job: %v", err)
	}

	wg.Wait()

	// Даем пулу время обновить метрики после wg.Done
	time.Sleep(50 * time.Millisecond)

	if pool.GetFailedJobs() != 1 {
		t.Errorf("Expected 1 failed job, got %d", pool.GetFailedJobs())
	}
}

func TestPoolQueueFull(t *testing.T) {
	logger := zap.NewNop()
	pool := NewPool(1, 1, logger)

	// Пул не запущен, воркеры не разбирают очередь
	blocked := Job{TrackID: "t", Handler: func() error { return nil }}
	if err := pool.Submit(blocked); err != nil {
		t.Fatalf("First submit should fit the queue: %v", err)
	}

	if err := pool.Submit(blocked); err != ErrQueueFull {
		t.Errorf("Expected ErrQueueFull, got %v", err)
	}
}

func TestPoolSubmitAfterStop(t *testing.T) {
	logger := zap.NewNop()
	pool := NewPool(1, 5, logger)

	pool.Start()
	pool.Stop()

	job := Job{TrackID: "t", Handler: func() error { return nil }}
	if err := pool.Submit(job); err != ErrPoolStopped {
		t.Errorf("Expected ErrPoolStopped, got %v", err)
	}
}
