package state

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/five82/xivoverlay/internal/layout"
)

// MaxAlerts bounds the alert history kept in a snapshot.
const MaxAlerts = 20

// AlertLevel distinguishes errors from informational notices.
type AlertLevel int

const (
	LevelNotice AlertLevel = iota
	LevelError
)

// Alert is one message raised by the dispatcher.
type Alert struct {
	Seq     uint64
	Level   AlertLevel
	Message string
	At      time.Time
}

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	Overlays    []layout.Record
	Open        map[string]bool
	Detail      layout.Record
	HasDetail   bool
	DetailIsNew bool
	Alerts      []Alert
	Version     uint64
	LastUpdated time.Time
}

// IsOpen reports whether the overlay has a live window.
func (s Snapshot) IsOpen(name string) bool {
	return s.Open[name]
}

// LatestAlert returns the newest alert, if any.
func (s Snapshot) LatestAlert() (Alert, bool) {
	if len(s.Alerts) == 0 {
		return Alert{}, false
	}
	return s.Alerts[len(s.Alerts)-1], true
}

// Store coordinates concurrent updates to the snapshot. The dispatcher writes
// through the View methods; readers call Snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
	clock    clockwork.Clock
	seq      uint64
	updates  chan struct{}
	initOnce sync.Once
}

// NewStore returns a store stamping updates with clock.
func NewStore(clock clockwork.Clock) *Store {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Store{clock: clock}
}

func (s *Store) init() {
	s.initOnce.Do(func() {
		if s.clock == nil {
			s.clock = clockwork.NewRealClock()
		}
		s.updates = make(chan struct{}, 1)
	})
}

// Updates receives a value after each change. Signals coalesce, so readers
// should take a fresh Snapshot rather than count them.
func (s *Store) Updates() <-chan struct{} {
	s.init()
	return s.updates
}

func (s *Store) mutate(fn func(*Snapshot)) {
	s.init()
	s.mu.Lock()
	fn(&s.snapshot)
	s.snapshot.Version++
	s.snapshot.LastUpdated = s.clock.Now()
	s.mu.Unlock()

	select {
	case s.updates <- struct{}{}:
	default:
	}
}

// ShowOverlays replaces the overlay list and the open set.
func (s *Store) ShowOverlays(records []layout.Record, open map[string]bool) {
	s.mutate(func(snap *Snapshot) {
		snap.Overlays = cloneRecords(records)
		snap.Open = cloneOpen(open)
	})
}

// ShowDetail replaces the detail record.
func (s *Store) ShowDetail(r layout.Record, isNew bool) {
	s.mutate(func(snap *Snapshot) {
		snap.Detail = r
		snap.HasDetail = true
		snap.DetailIsNew = isNew
	})
}

// ClearDetail drops the detail record.
func (s *Store) ClearDetail() {
	s.mutate(func(snap *Snapshot) {
		snap.Detail = layout.Record{}
		snap.HasDetail = false
		snap.DetailIsNew = false
	})
}

// Alert records an error for the user.
func (s *Store) Alert(err error) {
	if err == nil {
		return
	}
	s.push(LevelError, err.Error())
}

// Notice records an informational message for the user.
func (s *Store) Notice(msg string) {
	s.push(LevelNotice, msg)
}

func (s *Store) push(level AlertLevel, msg string) {
	s.mutate(func(snap *Snapshot) {
		s.seq++
		snap.Alerts = append(snap.Alerts, Alert{
			Seq:     s.seq,
			Level:   level,
			Message: msg,
			At:      s.clock.Now(),
		})
		if over := len(snap.Alerts) - MaxAlerts; over > 0 {
			snap.Alerts = append([]Alert(nil), snap.Alerts[over:]...)
		}
	})
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Overlays = cloneRecords(s.snapshot.Overlays)
	snap.Open = cloneOpen(s.snapshot.Open)
	if len(s.snapshot.Alerts) > 0 {
		snap.Alerts = append([]Alert(nil), s.snapshot.Alerts...)
	}
	return snap
}

func cloneRecords(items []layout.Record) []layout.Record {
	if len(items) == 0 {
		return nil
	}
	dup := make([]layout.Record, len(items))
	copy(dup, items)
	return dup
}

func cloneOpen(open map[string]bool) map[string]bool {
	dup := make(map[string]bool, len(open))
	for k, v := range open {
		if v {
			dup[k] = true
		}
	}
	return dup
}
