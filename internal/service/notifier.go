package service

import (
	"sync"

	"farm_miniapp/internal/model"
)

const subscriberBuffer = 8

// ChestNotifier fans chest views out to the websocket streams of a player.
// Slow subscribers drop updates rather than block the chest flow.
type ChestNotifier struct {
	mu   sync.RWMutex
	subs map[int64]map[chan model.ChestView]struct{}
}

func NewChestNotifier() *ChestNotifier {
	return &ChestNotifier{
		subs: make(map[int64]map[chan model.ChestView]struct{}),
	}
}

// Subscribe returns a channel of views and a func that closes it.
func (n *ChestNotifier) Subscribe(telegramID int64) (<-chan model.ChestView, func()) {
	ch := make(chan model.ChestView, subscriberBuffer)

	n.mu.Lock()
	if n.subs[telegramID] == nil {
		n.subs[telegramID] = make(map[chan model.ChestView]struct{})
	}
	n.subs[telegramID][ch] = struct{}{}
	n.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.subs[telegramID], ch)
			if len(n.subs[telegramID]) == 0 {
				delete(n.subs, telegramID)
			}
			n.mu.Unlock()
			close(ch)
		})
	}
}

func (n *ChestNotifier) Publish(telegramID int64, view model.ChestView) {
	n.mu.RLock()
	defer n.mu.RUnlock()

	for ch := range n.subs[telegramID] {
		select {
		case ch <- view:
		default:
		}
	}
}
