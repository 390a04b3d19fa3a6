package audit

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/veyralune/lifequest/model"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Entry holds one domain event to be journaled.
type Entry struct {
	TraceID   string
	UserID    string
	EventType string
	Payload   interface{}
}

// Service journals progression events asynchronously in batches so that
// command latency never waits on the event table.
type Service struct {
	db     *gorm.DB
	ch     chan *model.EventLog
	stopCh chan struct{}
	wg     sync.WaitGroup
	logger *zap.Logger
}

// New creates an audit Service and starts its background worker.
func New(db *gorm.DB, logger *zap.Logger) *Service {
	svc := &Service{
		db:     db,
		ch:     make(chan *model.EventLog, 1024),
		stopCh: make(chan struct{}),
		logger: logger,
	}
	svc.wg.Add(1)
	go svc.worker()
	return svc
}

// Record enqueues an event for async DB write. Drops (with a warning)
// rather than blocks when the journal is saturated.
func (svc *Service) Record(entry Entry) {
	payload, _ := json.Marshal(entry.Payload)
	record := &model.EventLog{
		TraceID:   entry.TraceID,
		UserID:    entry.UserID,
		EventType: entry.EventType,
		Payload:   datatypes.JSON(payload),
	}
	select {
	case svc.ch <- record:
	default:
		svc.logger.Warn("event journal full, dropping entry",
			zap.String("event_type", entry.EventType),
			zap.String("user_id", entry.UserID))
	}
}

// Stop flushes remaining entries and shuts down the worker.
// It blocks until the worker goroutine has finished.
func (svc *Service) Stop(_ context.Context) {
	select {
	case <-svc.stopCh:
	default:
		close(svc.stopCh)
	}
	svc.wg.Wait()
}

func (svc *Service) worker() {
	defer svc.wg.Done()
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	batch := make([]*model.EventLog, 0, 100)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := svc.db.Create(&batch).Error; err != nil {
			svc.logger.Error("event batch write failed", zap.Error(err))
		}
		batch = batch[:0]
	}

	for {
		select {
		case entry := <-svc.ch:
			batch = append(batch, entry)
			if len(batch) >= 100 {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-svc.stopCh:
			// Drain remaining entries.
			for {
				select {
				case entry := <-svc.ch:
					batch = append(batch, entry)
				default:
					flush()
					return
				}
			}
		}
	}
}
