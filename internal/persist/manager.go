// Package persist implements the write-behind persistence pipeline: matrix
// mutations are queued and applied to storage by a managed worker pool, so
// request handling never waits on the database.
package persist

import (
	"context"
	"sync"
	"time"

	"github.com/fairyhunter13/brand-price-service/internal/config"
	"github.com/fairyhunter13/brand-price-service/internal/model"
	"github.com/fairyhunter13/brand-price-service/internal/obs"
	"github.com/fairyhunter13/brand-price-service/internal/storage"
)

// Manager coordinates workers applying queued operations and scaling.
type Manager struct {
	cfg    config.Config
	q      *Queue
	repo   storage.Repo
	ctx    context.Context
	cancel context.CancelFunc

	mu            sync.Mutex
	workerCancels []context.CancelFunc
}

// NewManager constructs a Manager over the given queue and storage repo.
func NewManager(cfg config.Config, q *Queue, repo storage.Repo) *Manager {
	return &Manager{cfg: cfg, q: q, repo: repo}
}

// Start begins processing and autoscaling in the background.
func (m *Manager) Start(parent context.Context) {
	m.ctx, m.cancel = context.WithCancel(parent)
	m.q.Start(m.ctx, m.cfg.QueueHighWatermark)
	m.addWorkers(m.cfg.InitialWorkerCount)
	go m.scaler()
}

// Stop cancels background routines and stops workers.
func (m *Manager) Stop() {
	if m.cancel != nil {
		m.cancel()
	}
	m.mu.Lock()
	for _, c := range m.workerCancels {
		c()
	}
	m.workerCancels = nil
	m.mu.Unlock()
}

// scaler adjusts worker count based on backlog and configuration.
func (m *Manager) scaler() {
	t := time.NewTicker(m.cfg.ScaleInterval)
	defer t.Stop()
	idleTicks := 0
	for {
		select {
		case <-m.ctx.Done():
			return
		case <-t.C:
			backlog := m.q.BacklogSize()
			wc := m.WorkerCount()
			if backlog > wc*m.cfg.ScaleUpBacklogPerWorker && wc < m.cfg.WorkerMax {
				m.addWorkers(1)
				idleTicks = 0
				continue
			}
			if backlog == 0 {
				idleTicks++
				if idleTicks >= m.cfg.ScaleDownIdleTicks && wc > m.cfg.WorkerMin {
					m.removeWorkers(1)
					idleTicks = 0
				}
			} else {
				idleTicks = 0
			}
		}
	}
}

// addWorkers spawns n workers.
func (m *Manager) addWorkers(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := 0; i < n; i++ {
		wctx, cancel := context.WithCancel(m.ctx)
		m.workerCancels = append(m.workerCancels, cancel)
		go m.worker(wctx)
	}
	obs.Logger.Info("persist workers scaled", "worker_count", len(m.workerCancels))
}

// removeWorkers stops up to n workers.
func (m *Manager) removeWorkers(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n > len(m.workerCancels) {
		n = len(m.workerCancels)
	}
	for i := 0; i < n; i++ {
		c := m.workerCancels[len(m.workerCancels)-1]
		m.workerCancels = m.workerCancels[:len(m.workerCancels)-1]
		c()
	}
	obs.Logger.Info("persist workers scaled", "worker_count", len(m.workerCancels))
}

// worker drains operations from the queue and applies them to storage.
func (m *Manager) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case op := <-m.q.Out():
			m.apply(op)
			m.q.MarkProcessed()
		}
	}
}

// apply performs one storage write. Failures are logged and not retried;
// the matrix remains the source of truth for readers.
func (m *Manager) apply(op Op) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var err error
	switch op.Kind {
	case OpSave:
		err = m.repo.Save(ctx, op.Brand, op.Seq)
	case OpDelete:
		err = m.repo.Delete(ctx, op.BrandID, op.Seq)
	}
	if err != nil {
		obs.Logger.Error("persist_failed", "kind", string(op.Kind), "brand_id", brandID(op), "sequence", op.Seq, "error", err)
	}
}

func brandID(op Op) uint64 {
	if op.Kind == OpSave {
		return op.Brand.ID
	}
	return op.BrandID
}

// EnqueueSave queues the post-mutation state of a brand for persistence.
// seq is the mutation sequence the matrix assigned while its lock was held;
// stamping happens there so enqueue order cannot invert mutation order for
// the same brand.
func (m *Manager) EnqueueSave(b model.Brand, seq uint64) bool {
	return m.q.Enqueue(Op{Seq: seq, Kind: OpSave, Brand: b})
}

// EnqueueDelete queues a brand removal for persistence.
func (m *Manager) EnqueueDelete(id uint64, seq uint64) bool {
	return m.q.Enqueue(Op{Seq: seq, Kind: OpDelete, BrandID: id})
}

// BacklogSize returns pending items in the queue.
func (m *Manager) BacklogSize() int { return m.q.BacklogSize() }

// QueueDepth returns backlog plus buffered output items.
func (m *Manager) QueueDepth() int { return m.q.QueueDepth() }

// WorkerCount returns the current number of workers.
func (m *Manager) WorkerCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.workerCancels)
}

// IsShuttingDown reports whether new enqueues are rejected.
func (m *Manager) IsShuttingDown() bool { return m.q.IsShuttingDown() }

// CloseIntake disallows future enqueues.
func (m *Manager) CloseIntake() { m.q.CloseIntake() }

// QueueMetrics exposes the underlying queue metrics.
func (m *Manager) QueueMetrics() (enq, proc uint64, backlog, depth int) {
	return m.q.Metrics()
}

// DrainUntil blocks until the queue is fully drained or context is done.
func (m *Manager) DrainUntil(ctx context.Context) bool {
	for {
		enq, proc, backlog, depth := m.q.Metrics()
		if backlog == 0 && depth == 0 && enq == proc {
			return true
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(50 * time.Millisecond):
		}
	}
}
