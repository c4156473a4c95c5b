package soundboard

import (
	"time"

	"github.com/mutax/soundpad/internal/grid"
)

// Clip is one decoded sound ready to be assigned to a cell.
type Clip struct {
	Name    string
	Sound   Sound
	FadeOut time.Duration
}

// LoadResult summarises one Load call.
type LoadResult struct {
	Assigned int
	Dropped  int
	// PagesNeeded is how many pages every clip seen so far would occupy,
	// including the ones dropped at the page ceiling.
	PagesNeeded int
}

// Store maps virtual coordinates to buttons and owns clip assignment.
type Store struct {
	buttons map[grid.Coord]*Button
	order   []*Button
	next    int
	pages   int
	seen    int
}

// NewStore returns an empty store with a single page.
func NewStore() *Store {
	return &Store{
		buttons: make(map[grid.Coord]*Button),
		pages:   1,
	}
}

// Load assigns clips, in order, to the next free cells in row-major order
// across pages. Clips past the last page are dropped.
func (s *Store) Load(clips []Clip) LoadResult {
	var res LoadResult
	for _, clip := range clips {
		s.seen++
		pos, ok := s.nextFree()
		if !ok {
			res.Dropped++
			continue
		}
		coord := grid.PositionToCoord(pos)
		b := &Button{
			position: coord,
			color:    ColorLoaded,
			sound:    clip.Sound,
			fadeOut:  clip.FadeOut,
			name:     clip.Name,
		}
		s.buttons[coord] = b
		s.order = append(s.order, b)
		s.pages = max(s.pages, 1+pos/grid.PageSize)
		s.next = pos + 1
		res.Assigned++
	}
	res.PagesNeeded = max(1, (s.seen+grid.PageSize-1)/grid.PageSize)
	return res
}

func (s *Store) nextFree() (int, bool) {
	for pos := s.next; pos < grid.Capacity; pos++ {
		if _, taken := s.buttons[grid.PositionToCoord(pos)]; !taken {
			return pos, true
		}
	}
	return 0, false
}

// Get returns the button at c, or nil if the cell is unassigned.
func (s *Store) Get(c grid.Coord) *Button {
	return s.buttons[c]
}

// Buttons returns every button in load order.
func (s *Store) Buttons() []*Button {
	return s.order
}

// Pages returns how many pages hold at least one button (minimum 1).
func (s *Store) Pages() int {
	return s.pages
}

// Len returns the number of assigned buttons.
func (s *Store) Len() int {
	return len(s.order)
}
