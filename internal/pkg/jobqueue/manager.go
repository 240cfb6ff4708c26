package jobqueue

import (
	"context"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/ManuelReschke/JobFox/internal/pkg/env"
)

// Manager manages the global job queue and scheduled background tasks
type Manager struct {
	queue          *Queue
	backupInterval time.Duration
	backupTicker   *time.Ticker
	stopCh         chan struct{}
	wg             sync.WaitGroup
	mu             sync.Mutex
	running        bool
}

var (
	globalManager *Manager
	managerOnce   sync.Once
)

// GetManager returns the global job queue manager (singleton)
func GetManager() *Manager {
	managerOnce.Do(func() {
		globalManager = NewManager(
			NewQueue(env.GetEnvInt("JOBQUEUE_WORKERS", 3)),
			env.GetEnvDuration("BACKUP_INTERVAL", 0),
		)
	})
	return globalManager
}

// NewManager wraps queue. A positive backupInterval schedules lead snapshots.
func NewManager(queue *Queue, backupInterval time.Duration) *Manager {
	return &Manager{
		queue:          queue,
		backupInterval: backupInterval,
		stopCh:         make(chan struct{}),
	}
}

// GetQueue returns the managed job queue
func (m *Manager) GetQueue() *Queue {
	return m.queue
}

// Start starts the job queue and background tasks
func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return
	}

	// Recreate stop channel for each start cycle so manager can be restarted safely.
	m.stopCh = make(chan struct{})
	m.running = true
	log.Info("[JobQueue Manager] Starting job queue and background tasks")

	m.queue.Start()

	if m.backupInterval > 0 {
		m.backupTicker = time.NewTicker(m.backupInterval)
		m.wg.Add(1)
		go m.backupWorker()
	}

	log.Info("[JobQueue Manager] Started successfully")
}

// Stop stops the job queue and background tasks
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}

	log.Info("[JobQueue Manager] Stopping job queue and background tasks...")

	if m.backupTicker != nil {
		m.backupTicker.Stop()
	}

	close(m.stopCh)
	m.running = false
	m.wg.Wait()

	m.queue.Stop()

	log.Info("[JobQueue Manager] Stopped successfully")
}

// backupWorker enqueues a scheduled lead snapshot on every tick
func (m *Manager) backupWorker() {
	defer m.wg.Done()
	log.Infof("[JobQueue Manager] Started backup scheduler (interval: %s)", m.backupInterval)

	for {
		select {
		case <-m.stopCh:
			log.Info("[JobQueue Manager] Backup scheduler stopping")
			return
		case <-m.backupTicker.C:
			payload := BackupLeadsJobPayload{Reason: "scheduled", RequestedBy: "scheduler"}
			if _, err := m.queue.EnqueueJob(context.Background(), JobTypeBackupLeads, payload.ToMap()); err != nil {
				log.Errorf("[JobQueue Manager] Error scheduling lead backup: %v", err)
			}
		}
	}
}

// IsRunning returns whether the manager is currently running
func (m *Manager) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}
