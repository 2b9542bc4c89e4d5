package ticket

import (
	"context"
	"encoding/json"
	"time"

	"lokapasar-be/internal/logger"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

const (
	qrSize      = 256
	maxAttempts = 5
)

type issueJob struct {
	item      TicketItem
	unitIndex int
	attempts  int
}

// Issuer generates QR codes when orders turn paid. Failures never propagate
// to the caller; failed units go onto a bounded retry queue drained by a
// background worker.
type Issuer struct {
	repo  Repository
	queue chan issueJob
	done  chan struct{}
}

func NewIssuer(repo Repository, queueSize int) *Issuer {
	if queueSize <= 0 {
		queueSize = 256
	}
	return &Issuer{
		repo:  repo,
		queue: make(chan issueJob, queueSize),
		done:  make(chan struct{}),
	}
}

// Start launches the retry worker. Close stops it.
func (i *Issuer) Start() {
	go i.worker()
}

func (i *Issuer) Close() {
	close(i.done)
}

// IssueForOrder creates one QR per ticket unit of the order. Each unit is
// issued independently so one bad unit does not block the rest.
func (i *Issuer) IssueForOrder(ctx context.Context, orderID uint) {
	log := logger.FromCtx(ctx).With(zap.Uint("order_id", orderID))

	items, err := i.repo.TicketItems(ctx, orderID)
	if err != nil {
		log.Error("failed to load ticket items, nothing issued", zap.Error(err))
		return
	}
	if len(items) == 0 {
		return
	}

	for _, item := range items {
		for unit := 0; unit < item.Quantity; unit++ {
			if err := i.issueUnit(ctx, *item, unit); err != nil {
				log.Error("ticket unit failed, queuing for retry",
					zap.Uint("order_item_id", item.OrderItemID),
					zap.Int("unit_index", unit),
					zap.Error(err),
				)
				i.enqueue(issueJob{item: *item, unitIndex: unit, attempts: 1})
			}
		}
	}
}

type qrPayload struct {
	Serial      string `json:"serial"`
	OrderID     uint   `json:"orderId"`
	OrderItemID uint   `json:"orderItemId"`
	UnitIndex   int    `json:"unitIndex"`
	ProductName string `json:"productName"`
}

func (i *Issuer) issueUnit(ctx context.Context, item TicketItem, unitIndex int) error {
	serial := uuid.New()

	payload, err := json.Marshal(qrPayload{
		Serial:      serial.String(),
		OrderID:     item.OrderID,
		OrderItemID: item.OrderItemID,
		UnitIndex:   unitIndex,
		ProductName: item.ProductName,
	})
	if err != nil {
		return err
	}

	png, err := qrcode.Encode(string(payload), qrcode.Medium, qrSize)
	if err != nil {
		return err
	}

	return i.repo.Insert(ctx, &TicketQr{
		OrderID:     item.OrderID,
		OrderItemID: item.OrderItemID,
		Serial:      serial,
		UnitIndex:   unitIndex,
		QRImage:     png,
	})
}

func (i *Issuer) enqueue(job issueJob) {
	select {
	case i.queue <- job:
	default:
		logger.L().Error("ticket retry queue full, dropping unit",
			zap.Uint("order_item_id", job.item.OrderItemID),
			zap.Int("unit_index", job.unitIndex),
		)
	}
}

func (i *Issuer) worker() {
	for {
		select {
		case <-i.done:
			return
		case job := <-i.queue:
			i.retry(job)
		}
	}
}

func (i *Issuer) retry(job issueJob) {
	backoff := time.Duration(job.attempts) * time.Second
	select {
	case <-i.done:
		return
	case <-time.After(backoff):
	}

	err := i.issueUnit(context.Background(), job.item, job.unitIndex)
	if err == nil {
		logger.L().Info("ticket unit issued on retry",
			zap.Uint("order_item_id", job.item.OrderItemID),
			zap.Int("unit_index", job.unitIndex),
			zap.Int("attempts", job.attempts+1),
		)
		return
	}

	job.attempts++
	if job.attempts >= maxAttempts {
		logger.L().Error("ticket unit abandoned after max attempts",
			zap.Uint("order_item_id", job.item.OrderItemID),
			zap.Int("unit_index", job.unitIndex),
			zap.Error(err),
		)
		return
	}
	i.enqueue(job)
}
