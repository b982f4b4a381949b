package diag

import (
	"math"
	"sort"
	"sync"

	"fortio.org/safecast"
)

// Bag collects diagnostics up to a limit. A Bag is safe for concurrent use.
type Bag struct {
	mu      sync.Mutex
	items   []Diagnostic
	max     uint32
	dropped uint32
}

// NewBag returns a Bag holding at most max diagnostics; max <= 0 means no
// limit.
func NewBag(max int) *Bag {
	limit := uint32(math.MaxUint32)
	if max > 0 {
		if v, err := safecast.Conv[uint32](max); err == nil {
			limit = v
		}
	}
	return &Bag{max: limit}
}

// Add добавляет диагностику, учитывая лимит.
// Возвращает false, если диагностика не добавлена (достигнут лимит).
func (b *Bag) Add(d Diagnostic) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if uint32(len(b.items)) >= b.max {
		b.dropped++
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Cap() uint32 {
	return b.max
}

// Dropped returns how many diagnostics were refused because of the limit.
func (b *Bag) Dropped() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return int(b.dropped)
}

// HasErrors возвращает true, если есть хотя бы одна диагностика с Severity >= Error
func (b *Bag) HasErrors() bool {
	return b.CountAtLeast(SevError) > 0
}

// HasWarnings возвращает true, если есть хотя бы одна диагностика с Severity >= Warning
func (b *Bag) HasWarnings() bool {
	return b.CountAtLeast(SevWarning) > 0
}

// CountAtLeast returns the number of stored diagnostics with severity >= sev.
func (b *Bag) CountAtLeast(sev Severity) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for i := range b.items {
		if b.items[i].Severity >= sev {
			n++
		}
	}
	return n
}

// длина
func (b *Bag) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

// Items returns a copy of the stored diagnostics.
func (b *Bag) Items() []Diagnostic {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Diagnostic, len(b.items))
	copy(out, b.items)
	return out
}

// Sort сортирует диагностики по: path, line, severity (desc), code (asc)
// для стабильного и детерминированного порядка вывода.
func (b *Bag) Sort() {
	b.mu.Lock()
	defer b.mu.Unlock()
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.Origin.Path != dj.Origin.Path {
			return di.Origin.Path < dj.Origin.Path
		}
		if di.Origin.Line != dj.Origin.Line {
			return di.Origin.Line < dj.Origin.Line
		}
		// затем по severity (по убыванию: Error > Warning > Info)
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		return di.Code < dj.Code
	})
}
