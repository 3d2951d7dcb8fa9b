package realtime

import (
	"encoding/json"
	"sync"
	"time"
)

// Event names sent to clients
const (
	EventGameJoined    = "game:joined"
	EventGameStarted   = "game:started"
	EventGameUpdated   = "game:updated"
	EventGameOver      = "game:over"
	EventMarblePlaced  = "board:marble:placed"
	EventWatchersCount = "game:watchers:count"
)

const defaultSubscriberBuf = 16

// Event is one message on a game's channel
type Event struct {
	Type    string          `json:"type"`
	Game    string          `json:"game"`
	Payload json.RawMessage `json:"payload,omitempty"`
	At      time.Time       `json:"at"`
}

// NewEvent encodes payload into an event for game
func NewEvent(game, typ string, payload any) (Event, error) {
	ev := Event{Type: typ, Game: game, At: time.Now().UTC()}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return Event{}, err
		}
		ev.Payload = raw
	}
	return ev, nil
}

type room struct {
	subs map[chan Event]struct{}
}

// Hub fans game events out to the subscribers watching each game
type Hub struct {
	mu    sync.RWMutex // guards rooms
	rooms map[string]*room
	buf   int
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]*room), buf: defaultSubscriberBuf}
}

// Subscribe registers a buffered channel on game and returns it with an unsubscribe function
func (h *Hub) Subscribe(game string) (<-chan Event, func()) {
	ch := make(chan Event, h.buf)

	h.mu.Lock()
	rm := h.rooms[game]
	if rm == nil {
		rm = &room{subs: make(map[chan Event]struct{})}
		h.rooms[game] = rm
	}
	rm.subs[ch] = struct{}{}
	h.mu.Unlock()
	h.publishWatchers(game)

	var once sync.Once
	unsub := func() {
		once.Do(func() {
			h.mu.Lock()
			if rm := h.rooms[game]; rm != nil {
				delete(rm.subs, ch)
				if len(rm.subs) == 0 {
					delete(h.rooms, game)
				}
			}
			h.mu.Unlock()
			h.publishWatchers(game)
		})
	}
	return ch, unsub
}

// Publish delivers ev to every subscriber of game; slow subscribers miss it
func (h *Hub) Publish(game string, ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	rm := h.rooms[game]
	if rm == nil {
		return
	}
	for ch := range rm.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Watchers returns how many subscribers follow game
func (h *Hub) Watchers(game string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if rm := h.rooms[game]; rm != nil {
		return len(rm.subs)
	}
	return 0
}

func (h *Hub) publishWatchers(game string) {
	ev, err := NewEvent(game, EventWatchersCount, map[string]int{"count": h.Watchers(game)})
	if err != nil {
		return
	}
	h.Publish(game, ev)
}
