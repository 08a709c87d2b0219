package realtime

import "sync"

// Broadcaster fans view frames out to stream subscribers. Slow subscribers
// lose intermediate frames; the latest one is replayed on Subscribe.
type Broadcaster struct {
	mu     sync.Mutex
	subs   map[chan []byte]struct{}
	latest []byte
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subs: make(map[chan []byte]struct{}),
	}
}

func (b *Broadcaster) Subscribe() chan []byte {
	ch, _ := b.SubscribeReplay()
	return ch
}

// SubscribeReplay is Subscribe that also reports whether the latest frame was
// queued on the new channel.
func (b *Broadcaster) SubscribeReplay() (chan []byte, bool) {
	ch := make(chan []byte, 10)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[ch] = struct{}{}
	if b.latest == nil {
		return ch, false
	}
	ch <- b.latest
	return ch, true
}

func (b *Broadcaster) Unsubscribe(ch chan []byte) {
	b.mu.Lock()
	if _, ok := b.subs[ch]; ok {
		delete(b.subs, ch)
		close(ch)
	}
	b.mu.Unlock()
}

func (b *Broadcaster) Publish(frame []byte) {
	b.mu.Lock()
	b.latest = frame
	for ch := range b.subs {
		select {
		case ch <- frame:
		default:
		}
	}
	b.mu.Unlock()
}

func (b *Broadcaster) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
