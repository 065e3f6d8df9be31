package chat

import (
	"context"
	"log"
	"time"

	"github.com/miguelguadarrama/school-mobile-app-sub000/internal/models"
)

// Fetcher pulls the latest conversation snapshot from the backend.
type Fetcher interface {
	Conversations(ctx context.Context) ([]models.Conversation, error)
}

// Poller refreshes conversations on a fixed interval. The platform is pull
// based: there is no push channel, a periodic refetch stands in for
// real-time delivery.
type Poller struct {
	fetcher  Fetcher
	store    *PendingStore
	interval time.Duration
	onUpdate func([]models.Conversation)
}

// NewPoller constructs a Poller. onUpdate receives each snapshot with the
// optimistic tail already merged in.
func NewPoller(fetcher Fetcher, store *PendingStore, interval time.Duration, onUpdate func([]models.Conversation)) *Poller {
	return &Poller{fetcher: fetcher, store: store, interval: interval, onUpdate: onUpdate}
}

// Run polls until ctx is cancelled. The first fetch happens immediately.
// Fetch errors are logged and the loop keeps going; auth failures surface
// through the fetch client's callback, not here.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.refresh(ctx)
		}
	}
}

func (p *Poller) refresh(ctx context.Context) {
	convs, err := p.fetcher.Conversations(ctx)
	if err != nil {
		log.Printf("conversation refresh failed: %v", err)
		return
	}

	merged := make([]models.Conversation, 0, len(convs))
	for _, conv := range convs {
		merged = append(merged, p.store.MergedView(conv))
	}
	if p.onUpdate != nil {
		p.onUpdate(merged)
	}
}
