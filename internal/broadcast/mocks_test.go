package broadcast_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"tgfilebot/backend/internal/broadcast"
	"tgfilebot/backend/internal/models"
	"tgfilebot/backend/internal/storage"
)

// fakeStore is an in-memory stand-in for the broadcast tables. It keeps
// the same transition guarantees as the SQL implementation, including
// the pending-only claim in FinishRecipient.
type fakeStore struct {
	mu         sync.Mutex
	broadcasts map[uint]*models.Broadcast
	recipients map[uint]*models.BroadcastRecipient
	eligible   []models.User
	nextID     uint
}

func newFakeStore(eligible ...models.User) *fakeStore {
	return &fakeStore{
		broadcasts: make(map[uint]*models.Broadcast),
		recipients: make(map[uint]*models.BroadcastRecipient),
		eligible:   eligible,
	}
}

func (f *fakeStore) id() uint {
	f.nextID++
	return f.nextID
}

func (f *fakeStore) EligibleRecipientIDs(botID uint) ([]uint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []uint
	for _, u := range f.eligible {
		if u.BotID == botID && !u.IsBlocked {
			ids = append(ids, u.ID)
		}
	}
	return ids, nil
}

func (f *fakeStore) CreateBroadcastWithRecipients(b *models.Broadcast, userIDs []uint) error {
	if len(userIDs) == 0 {
		return storage.ErrNoRecipients
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	b.ID = f.id()
	f.broadcasts[b.ID] = b
	for _, uid := range userIDs {
		id := f.id()
		f.recipients[id] = &models.BroadcastRecipient{
			ID:          id,
			BroadcastID: b.ID,
			UserID:      uid,
			User:        f.userByID(uid),
			Status:      models.RecipientPending,
		}
	}
	return nil
}

func (f *fakeStore) userByID(id uint) models.User {
	for _, u := range f.eligible {
		if u.ID == id {
			return u
		}
	}
	return models.User{ID: id}
}

func (f *fakeStore) GetBroadcastByID(id uint) (*models.Broadcast, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.broadcasts[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copied := *b
	return &copied, nil
}

func (f *fakeStore) SetBroadcastStatus(id uint, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.broadcasts[id]
	if !ok {
		return storage.ErrNotFound
	}
	b.Status = status
	return nil
}

func (f *fakeStore) PendingBroadcastIDs() ([]uint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []uint
	for id, b := range f.broadcasts {
		due := !b.ScheduledTime.After(time.Now())
		if due && (b.Status == models.BroadcastPending || b.Status == models.BroadcastInProgress) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (f *fakeStore) PendingRecipients(broadcastID uint, limit int) ([]models.BroadcastRecipient, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.BroadcastRecipient
	for id := uint(1); id <= f.nextID && len(out) < limit; id++ {
		r, ok := f.recipients[id]
		if ok && r.BroadcastID == broadcastID && r.Status == models.RecipientPending {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeStore) FinishRecipient(id uint, status, errMsg string, sentAt *time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.recipients[id]
	if !ok || r.Status != models.RecipientPending {
		return false, nil
	}
	r.Status = status
	r.ErrorMessage = errMsg
	r.SentAt = sentAt
	return true, nil
}

func (f *fakeStore) RequeueFailed(broadcastID uint) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, r := range f.recipients {
		if r.BroadcastID == broadcastID && r.Status == models.RecipientFailed {
			r.Status = models.RecipientPending
			r.ErrorMessage = ""
			r.SentAt = nil
			n++
		}
	}
	if n > 0 {
		f.broadcasts[broadcastID].Status = models.BroadcastPending
	}
	return n, nil
}

func (f *fakeStore) BroadcastReport(broadcastID uint) (*models.DeliveryReport, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	report := &models.DeliveryReport{}
	for _, r := range f.recipients {
		if r.BroadcastID != broadcastID {
			continue
		}
		report.Total++
		switch r.Status {
		case models.RecipientSent:
			report.Sent++
		case models.RecipientFailed:
			report.Failed++
		case models.RecipientPending:
			report.Pending++
		}
	}
	return report, nil
}

// fakeSender records deliveries and fails the chat ids it is told to.
type fakeSender struct {
	mu       sync.Mutex
	sent     []int64
	failFor  map[int64]bool
	attempts map[int64]int
}

func newFakeSender(failFor ...int64) *fakeSender {
	fail := make(map[int64]bool, len(failFor))
	for _, id := range failFor {
		fail[id] = true
	}
	return &fakeSender{failFor: fail, attempts: make(map[int64]int)}
}

func (s *fakeSender) CopyMessage(ctx context.Context, toChatID, fromChatID int64, messageID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts[toChatID]++
	if s.failFor[toChatID] {
		return fmt.Errorf("forbidden: bot was blocked by the user")
	}
	s.sent = append(s.sent, toChatID)
	return nil
}

func (s *fakeSender) sentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sent)
}

func (s *fakeSender) attemptsFor(chatID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attempts[chatID]
}

// fakeSenders resolves every token to the same sender.
type fakeSenders struct {
	sender broadcast.Sender
}

func (f fakeSenders) SenderFor(botToken string) (broadcast.Sender, error) {
	return f.sender, nil
}
