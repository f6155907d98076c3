package game

import (
	"log/slog"
	"math"

	"github.com/pthm-cable/driftfield/config"
)

// Section is a page section the camera can scroll to.
type Section struct {
	ID       string
	Title    string
	Key      string
	Progress float64 // Scroll progress in [0, 1] at which the section is shown
}

// Sections is the ordered section table and the current selection.
type Sections struct {
	list    []Section
	current int
}

// NewSections lays the configured sections out evenly over the scroll range.
func NewSections(cfgs []config.SectionConfig) *Sections {
	s := &Sections{list: make([]Section, len(cfgs))}
	for i, c := range cfgs {
		var p float64
		if len(cfgs) > 1 {
			p = float64(i) / float64(len(cfgs)-1)
		}
		s.list[i] = Section{ID: c.ID, Title: c.Title, Key: c.Key, Progress: p}
	}
	return s
}

// Len returns the number of sections.
func (s *Sections) Len() int {
	return len(s.list)
}

// Index returns the current section index.
func (s *Sections) Index() int {
	return s.current
}

// Current returns the current section, or a zero Section if there are none.
func (s *Sections) Current() Section {
	if len(s.list) == 0 {
		return Section{}
	}
	return s.list[s.current]
}

// Select makes section i current. It returns false if i is out of range.
func (s *Sections) Select(i int) (Section, bool) {
	if i < 0 || i >= len(s.list) {
		return Section{}, false
	}
	if i != s.current {
		slog.Info("section changed", "from", s.list[s.current].ID, "to", s.list[i].ID)
		s.current = i
	}
	return s.list[i], true
}

// Nearest returns the index of the section closest to a scroll progress.
func (s *Sections) Nearest(progress float64) int {
	n := len(s.list)
	if n <= 1 || math.IsNaN(progress) {
		return 0
	}
	p := min(max(progress, 0), 1)
	return int(math.Round(p * float64(n-1)))
}

// Follow selects the section nearest to a scroll progress.
func (s *Sections) Follow(progress float64) {
	if len(s.list) == 0 {
		return
	}
	s.Select(s.Nearest(progress))
}
