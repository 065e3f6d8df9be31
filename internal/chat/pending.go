package chat

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/miguelguadarrama/school-mobile-app-sub000/internal/models"
	"github.com/miguelguadarrama/school-mobile-app-sub000/internal/observability"
)

// confirmTolerance is how far apart the client-generated and server-assigned
// timestamps may be for a pending message to count as confirmed. The two
// clocks are never bit-identical.
const confirmTolerance = 5 * time.Second

// NewTempID returns a client-generated message id of the form
// temp-<timestamp>-<random>.
func NewTempID() string {
	return fmt.Sprintf("temp-%d-%s", time.Now().UnixMilli(), strings.Split(uuid.NewString(), "-")[0])
}

// PendingStore holds optimistic messages awaiting server confirmation,
// keyed by conversation. It is the only shared mutable state in the client
// core; the poller goroutine and UI callers both touch it.
type PendingStore struct {
	mu      sync.Mutex
	pending map[models.ConversationKey][]models.Message
}

// NewPendingStore creates an empty PendingStore.
func NewPendingStore() *PendingStore {
	return &PendingStore{pending: make(map[models.ConversationKey][]models.Message)}
}

// AddPending appends a pending message for the conversation, preserving send
// order. The message is marked optimistic regardless of what the caller set.
func (s *PendingStore) AddPending(key models.ConversationKey, msg models.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg.IsOptimistic = true
	s.pending[key] = append(s.pending[key], msg)
	observability.SetPendingMessages(s.countLocked())
}

// RemovePending drops a pending message by id. Removing an id that is absent
// is a no-op.
func (s *PendingStore) RemovePending(key models.ConversationKey, messageID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := s.pending[key]
	for i, msg := range msgs {
		if msg.ID == messageID {
			s.pending[key] = append(msgs[:i], msgs[i+1:]...)
			break
		}
	}
	if len(s.pending[key]) == 0 {
		delete(s.pending, key)
	}
	observability.SetPendingMessages(s.countLocked())
}

// Pending returns a copy of the pending list for a conversation.
func (s *PendingStore) Pending(key models.ConversationKey) []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := s.pending[key]
	out := make([]models.Message, len(msgs))
	copy(out, msgs)
	return out
}

// MergedView returns the conversation with the server's confirmed messages
// followed by the still-pending optimistic tail, newest at the bottom.
//
// A pending message is considered confirmed, and dropped from the view, when
// a server message has the same sender role, the same content and a createdAt
// within confirmTolerance of the pending timestamp. Matching is heuristic:
// there is no server-issued idempotency key, so two distinct messages with
// identical content inside the window would both match. Removal by id
// (RemovePending) is exact and unaffected.
func (s *PendingStore) MergedView(conv models.Conversation) models.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := conv.Key()
	pending := s.pending[key]
	if len(pending) == 0 {
		return conv
	}

	still := pending[:0:0]
	for _, p := range pending {
		if !confirmedBy(conv.Messages, p) {
			still = append(still, p)
		}
	}
	s.pending[key] = still
	if len(still) == 0 {
		delete(s.pending, key)
	}
	observability.SetPendingMessages(s.countLocked())

	merged := conv
	merged.Messages = make([]models.Message, 0, len(conv.Messages)+len(still))
	merged.Messages = append(merged.Messages, conv.Messages...)
	merged.Messages = append(merged.Messages, still...)
	return merged
}

func confirmedBy(confirmed []models.Message, pending models.Message) bool {
	for _, msg := range confirmed {
		if msg.SenderRole != pending.SenderRole || msg.Content != pending.Content {
			continue
		}
		delta := msg.CreatedAt.Sub(pending.CreatedAt)
		if delta < 0 {
			delta = -delta
		}
		if delta <= confirmTolerance {
			return true
		}
	}
	return false
}

func (s *PendingStore) countLocked() int {
	total := 0
	for _, msgs := range s.pending {
		total += len(msgs)
	}
	return total
}
