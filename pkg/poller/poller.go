package poller

import (
	"context"
	"sync/atomic"
	"time"
)

// Task - одна итерация опроса. Task сам решает, что делать с ошибками:
// poller не ретраит, следующая попытка придёт со следующим тиком.
type Task func(ctx context.Context)

// Poller периодически запускает Task. Если предыдущий запуск ещё не
// завершился, очередной тик пропускается - параллельные запросы к одному
// endpoint не накапливаются.
type Poller struct {
	interval time.Duration
	task     Task

	inFlight atomic.Bool
	skipped  atomic.Int64
}

func New(interval time.Duration, task Task) *Poller {
	if interval <= 0 {
		interval = time.Second
	}
	return &Poller{
		interval: interval,
		task:     task,
	}
}

// Run блокирует до отмены контекста. Запускать в отдельной горутине.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !p.inFlight.CompareAndSwap(false, true) {
				p.skipped.Add(1)
				continue
			}
			go func() {
				defer p.inFlight.Store(false)
				p.task(ctx)
			}()
		}
	}
}

// Skipped возвращает число тиков, пропущенных из-за незавершённого запроса
func (p *Poller) Skipped() int64 {
	return p.skipped.Load()
}
