package repositoryImp

import (
	"sync"

	"farmops/entities"
)

// hub fans cycle changes out to in-process watchers. Sends never block: a
// watcher that has not drained its slot only sees the latest change, which
// is enough because readers recompute from the store.
type hub struct {
	mu   sync.Mutex
	subs map[string]map[chan entities.CycleChange]struct{}
}

func newHub() *hub { return &hub{subs: map[string]map[chan entities.CycleChange]struct{}{}} }

func (h *hub) subscribe(id string) (<-chan entities.CycleChange, func()) {
	ch := make(chan entities.CycleChange, 1)
	h.mu.Lock()
	if h.subs[id] == nil {
		h.subs[id] = map[chan entities.CycleChange]struct{}{}
	}
	h.subs[id][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs[id], ch)
			if len(h.subs[id]) == 0 {
				delete(h.subs, id)
			}
			h.mu.Unlock()
			close(ch)
		})
	}
}

func (h *hub) publish(ev entities.CycleChange) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs[ev.CycleID] {
		select {
		case ch <- ev:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- ev:
			default:
			}
		}
	}
}
