package soundboard

import "github.com/google/uuid"

// Ledger maps live channel handles to the button that started them. A
// button may own several channels at once after a quick re-trigger.
type Ledger struct {
	entries map[uuid.UUID]*Button
}

func NewLedger() *Ledger {
	return &Ledger{entries: make(map[uuid.UUID]*Button)}
}

func (l *Ledger) Add(ch uuid.UUID, b *Button) {
	l.entries[ch] = b
}

func (l *Ledger) Remove(ch uuid.UUID) {
	delete(l.entries, ch)
}

func (l *Ledger) Owner(ch uuid.UUID) (*Button, bool) {
	b, ok := l.entries[ch]
	return b, ok
}

func (l *Ledger) Len() int {
	return len(l.entries)
}

// Channels returns a snapshot of every tracked channel.
func (l *Ledger) Channels() []uuid.UUID {
	chs := make([]uuid.UUID, 0, len(l.entries))
	for ch := range l.entries {
		chs = append(chs, ch)
	}
	return chs
}

// Playing reports whether any channel owned by b is still busy.
func (l *Ledger) Playing(b *Button, busy func(uuid.UUID) bool) bool {
	for ch, owner := range l.entries {
		if owner == b && busy(ch) {
			return true
		}
	}
	return false
}

// Reconcile drops every channel that is no longer busy and returns the
// buttons left without any busy channel. A button that still owns a busy
// channel is not returned even if another of its channels ended.
func (l *Ledger) Reconcile(busy func(uuid.UUID) bool) []*Button {
	var ended []uuid.UUID
	playing := make(map[*Button]bool)
	for ch, b := range l.entries {
		if busy(ch) {
			playing[b] = true
		} else {
			ended = append(ended, ch)
		}
	}

	var idle []*Button
	seen := make(map[*Button]bool)
	for _, ch := range ended {
		b := l.entries[ch]
		delete(l.entries, ch)
		if playing[b] || seen[b] {
			continue
		}
		seen[b] = true
		idle = append(idle, b)
	}
	return idle
}
