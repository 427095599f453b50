// Package broadcast implements the fan-out engine: materializing
// recipient rows for a campaign, delivering the source message to each
// of them with bounded parallelism, and requeuing failures on demand.
package broadcast

import (
	"context"
	"sync"
	"time"

	"tgfilebot/backend/internal/config"
	"tgfilebot/backend/internal/models"

	"github.com/rs/zerolog"
)

// Storage is the persistence surface the engine works against.
type Storage interface {
	EligibleRecipientIDs(botID uint) ([]uint, error)
	CreateBroadcastWithRecipients(b *models.Broadcast, userIDs []uint) error
	GetBroadcastByID(id uint) (*models.Broadcast, error)
	SetBroadcastStatus(id uint, status string) error
	PendingBroadcastIDs() ([]uint, error)
	PendingRecipients(broadcastID uint, limit int) ([]models.BroadcastRecipient, error)
	FinishRecipient(id uint, status, errMsg string, sentAt *time.Time) (bool, error)
	RequeueFailed(broadcastID uint) (int64, error)
	BroadcastReport(broadcastID uint) (*models.DeliveryReport, error)
}

// Sender copies one source message to one recipient chat.
type Sender interface {
	CopyMessage(ctx context.Context, toChatID, fromChatID int64, messageID int) error
}

// SenderSource resolves the sender for the bot a broadcast belongs to.
type SenderSource interface {
	SenderFor(botToken string) (Sender, error)
}

// Engine runs broadcast fan-out on a worker pool separate from live
// update dispatch, so a long campaign never blocks user interaction.
type Engine struct {
	store   Storage
	senders SenderSource
	log     zerolog.Logger

	wake    chan uint
	workers int
	batch   int
}

func NewEngine(store Storage, senders SenderSource, log zerolog.Logger) *Engine {
	return &Engine{
		store:   store,
		senders: senders,
		log:     log,
		wake:    make(chan uint, 64),
		workers: config.BroadcastWorkers,
		batch:   config.BroadcastBatchSize,
	}
}

// Enqueue creates the broadcast in pending state together with one
// pending recipient row per eligible user of the bot, atomically, and
// wakes the delivery loop. Blocked users are excluded; nothing else is.
func (e *Engine) Enqueue(ctx context.Context, bot *models.Bot, fromChatID int64, messageID int) (*models.Broadcast, error) {
	userIDs, err := e.store.EligibleRecipientIDs(bot.ID)
	if err != nil {
		return nil, err
	}

	b := &models.Broadcast{
		BotID:         bot.ID,
		FromChatID:    fromChatID,
		MessageID:     messageID,
		ScheduledTime: time.Now(),
		Status:        models.BroadcastPending,
	}
	if err := e.store.CreateBroadcastWithRecipients(b, userIDs); err != nil {
		return nil, err
	}

	e.log.Info().Uint("broadcast", b.ID).Int("recipients", len(userIDs)).Msg("broadcast enqueued")
	e.signal(b.ID)
	return b, nil
}

// Requeue resets the failed recipients of a broadcast to pending and
// re-enqueues only those. Sent recipients are never touched.
func (e *Engine) Requeue(ctx context.Context, broadcastID uint) (int64, error) {
	if _, err := e.store.GetBroadcastByID(broadcastID); err != nil {
		return 0, err
	}
	requeued, err := e.store.RequeueFailed(broadcastID)
	if err != nil {
		return 0, err
	}
	if requeued > 0 {
		e.log.Info().Uint("broadcast", broadcastID).Int64("requeued", requeued).Msg("failed recipients requeued")
		e.signal(broadcastID)
	}
	return requeued, nil
}

// Report returns the derived delivery counts for a broadcast.
func (e *Engine) Report(broadcastID uint) (*models.DeliveryReport, error) {
	return e.store.BroadcastReport(broadcastID)
}

// Run is the delivery dispatcher. It resumes broadcasts left unfinished
// by a previous run, then drains each woken broadcast until the process
// context is cancelled.
func (e *Engine) Run(ctx context.Context) {
	ids, err := e.store.PendingBroadcastIDs()
	if err != nil {
		e.log.Error().Err(err).Msg("failed to load unfinished broadcasts on startup")
	}
	for _, id := range ids {
		e.signal(id)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case id := <-e.wake:
			e.Drain(ctx, id)
		}
	}
}

// Drain processes every pending recipient of one broadcast and then
// marks it completed. Batches run through a bounded worker pool; within
// a batch each recipient is handled by exactly one worker, so no
// recipient ever has two delivery attempts in flight.
func (e *Engine) Drain(ctx context.Context, broadcastID uint) {
	b, err := e.store.GetBroadcastByID(broadcastID)
	if err != nil {
		e.log.Error().Err(err).Uint("broadcast", broadcastID).Msg("cannot load broadcast for delivery")
		return
	}
	if time.Now().Before(b.ScheduledTime) {
		// Not due yet; it stays pending and is picked up on a later run.
		return
	}

	sender, err := e.senders.SenderFor(b.Bot.Token)
	if err != nil {
		e.log.Error().Err(err).Uint("broadcast", broadcastID).Msg("cannot resolve sender for broadcast bot")
		return
	}

	started := false
	for {
		if ctx.Err() != nil {
			return
		}
		batch, err := e.store.PendingRecipients(broadcastID, e.batch)
		if err != nil {
			e.log.Error().Err(err).Uint("broadcast", broadcastID).Msg("failed to load pending recipients")
			return
		}
		if len(batch) == 0 {
			break
		}
		if !started {
			started = true
			if err := e.store.SetBroadcastStatus(broadcastID, models.BroadcastInProgress); err != nil {
				e.log.Error().Err(err).Uint("broadcast", broadcastID).Msg("failed to mark broadcast in progress")
			}
		}

		var wg sync.WaitGroup
		sem := make(chan struct{}, e.workers)
		for _, rcpt := range batch {
			wg.Add(1)
			sem <- struct{}{}
			go func(rcpt models.BroadcastRecipient) {
				defer wg.Done()
				defer func() { <-sem }()
				e.deliver(ctx, sender, b, rcpt)
			}(rcpt)
		}
		wg.Wait()
	}

	if started || b.Status == models.BroadcastInProgress {
		if err := e.store.SetBroadcastStatus(broadcastID, models.BroadcastCompleted); err != nil {
			e.log.Error().Err(err).Uint("broadcast", broadcastID).Msg("failed to mark broadcast completed")
			return
		}
		e.log.Info().Uint("broadcast", broadcastID).Msg("broadcast completed")
	}
}

// deliver attempts one copy and records the outcome. A provider failure
// marks the row failed and is never retried automatically; retrying into
// a provider rate limit only makes the throttling worse, so failures
// wait for an explicit admin requeue.
func (e *Engine) deliver(ctx context.Context, sender Sender, b *models.Broadcast, rcpt models.BroadcastRecipient) {
	err := sender.CopyMessage(ctx, rcpt.User.TelegramID, b.FromChatID, b.MessageID)

	var (
		status string
		errMsg string
		sentAt *time.Time
	)
	if err != nil {
		status = models.RecipientFailed
		errMsg = err.Error()
		e.log.Warn().Err(err).
			Uint("broadcast", b.ID).
			Uint("recipient", rcpt.ID).
			Msg("delivery failed")
	} else {
		status = models.RecipientSent
		now := time.Now()
		sentAt = &now
	}

	claimed, err := e.store.FinishRecipient(rcpt.ID, status, errMsg, sentAt)
	if err != nil {
		e.log.Error().Err(err).Uint("recipient", rcpt.ID).Msg("failed to record delivery outcome")
		return
	}
	if !claimed {
		e.log.Warn().Uint("recipient", rcpt.ID).Msg("delivery outcome discarded, row already left pending")
	}
}

// signal wakes the dispatcher without ever blocking a caller.
func (e *Engine) signal(broadcastID uint) {
	select {
	case e.wake <- broadcastID:
	default:
		e.log.Warn().Uint("broadcast", broadcastID).Msg("wake queue full, broadcast will resume on next startup")
	}
}
