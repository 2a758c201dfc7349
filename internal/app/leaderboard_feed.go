package app

import (
	"sync"

	"quiz-service/internal/domain"
)

// LeaderboardFeed fans leaderboard snapshots out to in-process subscribers.
type LeaderboardFeed struct {
	mu sync.Mutex
	// value reports whether the subscriber has been sent a published snapshot.
	subscribers map[chan []domain.Score]bool
}

func NewLeaderboardFeed() *LeaderboardFeed {
	return &LeaderboardFeed{subscribers: make(map[chan []domain.Score]bool)}
}

// Subscribe registers a channel and then primes it with the snapshot returned by load.
// Registration comes first so a score saved while load runs is still published to the
// channel; in that case the published snapshot wins and the loaded one is dropped.
func (f *LeaderboardFeed) Subscribe(load func() ([]domain.Score, error)) (<-chan []domain.Score, func(), error) {
	ch := make(chan []domain.Score, 8)

	f.mu.Lock()
	f.subscribers[ch] = false
	f.mu.Unlock()

	cancel := func() {
		f.mu.Lock()
		if _, ok := f.subscribers[ch]; ok {
			delete(f.subscribers, ch)
			close(ch)
		}
		f.mu.Unlock()
	}

	initial, err := load()
	if err != nil {
		cancel()
		return nil, nil, err
	}

	f.mu.Lock()
	if published, ok := f.subscribers[ch]; ok && !published {
		deliver(ch, initial)
	}
	f.mu.Unlock()
	return ch, cancel, nil
}

// Publish delivers entries to every subscriber without blocking.
// A subscriber with a full buffer loses its oldest pending snapshot.
func (f *LeaderboardFeed) Publish(entries []domain.Score) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for ch := range f.subscribers {
		f.subscribers[ch] = true
		deliver(ch, entries)
	}
}

// Len reports the number of active subscribers.
func (f *LeaderboardFeed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subscribers)
}

// deliver must be called with the feed lock held.
func deliver(ch chan []domain.Score, entries []domain.Score) {
	select {
	case ch <- entries:
	default:
		select {
		case <-ch:
		default:
		}
		ch <- entries
	}
}
