package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"Child_Shield/internal/model"
	"Child_Shield/internal/pkg"
)

//go:generate mockgen -source=outbox_relayer.go -destination=../../mocks/outbox_relayer.go -package=mocks

type OutboxStore interface {
	List(ctx context.Context, batchSize, maxRetry int) ([]model.Outbox, error)
	MarkSent(ctx context.Context, id uint64) error
	MarkFailed(ctx context.Context, id uint64) error
}

// Sender delivers one outbox row. A returned error leaves the row for a retry.
type Sender func(ctx context.Context, ob *model.Outbox) error

const defaultMaxRetry = 5

// OutboxRelayer drains outbox rows in batches on a ticker.
type OutboxRelayer struct {
	repo      OutboxStore
	sender    Sender
	batchSize int
	interval  time.Duration
	maxRetry  int
	log       *slog.Logger
}

func NewOutboxRelayer(repo OutboxStore, sender Sender, batchSize int, interval time.Duration, log *slog.Logger) *OutboxRelayer {
	if batchSize <= 0 {
		batchSize = 200
	}
	if interval <= 0 {
		interval = time.Second
	}
	if log == nil {
		log = slog.Default()
	}
	return &OutboxRelayer{
		repo:      repo,
		sender:    sender,
		batchSize: batchSize,
		interval:  interval,
		maxRetry:  defaultMaxRetry,
		log:       log.With(slog.String("component", "outbox")),
	}
}

// Run blocks until ctx is cancelled.
func (r *OutboxRelayer) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.drainOnce(ctx)
		}
	}
}

// drainOnce relays one batch and reports how many rows were sent.
func (r *OutboxRelayer) drainOnce(ctx context.Context) int {
	rows, err := r.repo.List(ctx, r.batchSize, r.maxRetry)
	if err != nil {
		r.log.Error("outbox query failed", slog.String("err", err.Error()))
		return 0
	}

	sent := 0
	for i := range rows {
		ob := rows[i]
		if err := r.sender(ctx, &ob); err != nil {
			r.log.Warn("outbox send failed",
				slog.Uint64("id", ob.ID),
				slog.String("type", ob.EventType),
				slog.Int("retry", ob.Retry+1),
				slog.String("err", err.Error()),
			)
			if err := r.repo.MarkFailed(ctx, ob.ID); err != nil {
				r.log.Error("outbox mark failed", slog.Uint64("id", ob.ID), slog.String("err", err.Error()))
			}
			continue
		}
		if err := r.repo.MarkSent(ctx, ob.ID); err != nil {
			r.log.Error("outbox mark sent", slog.Uint64("id", ob.ID), slog.String("err", err.Error()))
			continue
		}
		sent++
	}
	return sent
}

// LogSender only logs; it is used when no broker is configured.
func LogSender(log *slog.Logger) Sender {
	return func(ctx context.Context, ob *model.Outbox) error {
		log.InfoContext(ctx, "outbox event",
			slog.String("type", ob.EventType),
			slog.Uint64("aggregate_id", ob.AggregateID),
			slog.String("payload", ob.Payload),
		)
		return nil
	}
}

type messageProducer interface {
	Send(ctx context.Context, key string, value []byte, headers map[string]string) error
}

// KafkaSender publishes rows keyed by report id so events of one report stay ordered.
func KafkaSender(p messageProducer) Sender {
	return func(ctx context.Context, ob *model.Outbox) error {
		return p.Send(ctx, pkg.MakeKeyFromID(ob.AggregateID), []byte(ob.Payload), map[string]string{
			"event_type": ob.EventType,
			"outbox_id":  strconv.FormatUint(ob.ID, 10),
		})
	}
}

// MailFunc sends an HTML message to a single recipient.
type MailFunc func(to, subject, htmlBody string) error

// AlertSender mails the safeguarding desk for every new report. Other event types pass.
func AlertSender(send MailFunc, to string) Sender {
	return func(ctx context.Context, ob *model.Outbox) error {
		if ob.EventType != model.EventReportCreated {
			return nil
		}

		var p struct {
			EventTime   time.Time `json:"event_time"`
			ReportAs    string    `json:"report_as"`
			TypeOfAbuse string    `json:"type_of_abuse"`
		}
		if err := json.Unmarshal([]byte(ob.Payload), &p); err != nil {
			return err
		}

		subject := "New case report #" + strconv.FormatUint(ob.AggregateID, 10)
		return send(to, subject, pkg.CaseReportAlertHTML(ob.AggregateID, p.TypeOfAbuse, p.ReportAs, p.EventTime))
	}
}

// MultiSender runs every sender and joins their errors. A row is only marked sent
// when all of them succeed.
func MultiSender(senders ...Sender) Sender {
	return func(ctx context.Context, ob *model.Outbox) error {
		var errs []error
		for _, s := range senders {
			if err := s(ctx, ob); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}
}
