// Package view derives the searched, filtered and paginated slice of the
// directory the operator is looking at.
package view

import (
	"sync"
	"time"

	"github.com/dmitrijs2005/userdir/internal/client/models"
	"github.com/dmitrijs2005/userdir/internal/common"
)

// Source is the collection being projected. Revision must change whenever
// the collection does.
type Source interface {
	All() []models.User
	Revision() uint64
}

// Page is one window of the filtered collection.
type Page struct {
	Items      []models.User
	Page       int
	TotalPages int
	TotalCount int
}

// Paginate cuts window page (1-based) of size out of items. The page is
// clamped to [1, max(1, TotalPages)].
func Paginate(items []models.User, page, size int) Page {
	if size < 1 {
		size = common.PageSize
	}
	n := len(items)
	total := (n + size - 1) / size
	page = clamp(page, total)

	start := (page - 1) * size
	end := min(start+size, n)
	out := make([]models.User, 0, max(end-start, 0))
	if start < n {
		out = append(out, items[start:end]...)
	}
	return Page{Items: out, Page: page, TotalPages: total, TotalCount: n}
}

func clamp(page, totalPages int) int {
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return page
}

// Projection keeps the view inputs and re-derives the filtered collection
// lazily when the source revision or an input changes.
type Projection struct {
	src          Source
	pageSize     int
	recentWindow time.Duration
	now          func() time.Time

	mu       sync.Mutex
	term     string
	filter   Filter
	page     int
	rev      uint64
	minute   time.Time
	derived  bool
	filtered []models.User
}

// New returns a projection over src starting on page 1 with no search or filter.
func New(src Source, recentWindow time.Duration) *Projection {
	return &Projection{
		src:          src,
		pageSize:     common.PageSize,
		recentWindow: recentWindow,
		now:          time.Now,
		page:         1,
	}
}

// SetSearchTerm changes the term and returns to page 1.
func (p *Projection) SetSearchTerm(term string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.term = term
	p.page = 1
	p.derived = false
}

// SetFilter changes the filter and returns to page 1.
func (p *Projection) SetFilter(f Filter) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.filter = f
	p.page = 1
	p.derived = false
}

// SetPage moves to page n, clamped to the available pages, and returns the
// page actually selected.
func (p *Projection) SetPage(n int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.refresh()
	p.page = clamp(n, p.totalPages())
	return p.page
}

// Next moves one page forward and returns the selected page.
func (p *Projection) Next() int {
	p.mu.Lock()
	n := p.page + 1
	p.mu.Unlock()
	return p.SetPage(n)
}

// Prev moves one page back and returns the selected page.
func (p *Projection) Prev() int {
	p.mu.Lock()
	n := p.page - 1
	p.mu.Unlock()
	return p.SetPage(n)
}

func (p *Projection) SearchTerm() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.term
}

func (p *Projection) Filter() Filter {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.filter
}

// Current returns the selected page. Any change to the collection returns
// the selection to page 1.
func (p *Projection) Current() Page {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.refresh()
	pg := Paginate(p.filtered, p.page, p.pageSize)
	p.page = pg.Page
	return pg
}

// refresh must be called with mu held. The Recent filter depends on the
// clock as well, so it is re-derived at least once a minute.
func (p *Projection) refresh() {
	rev := p.src.Revision()
	now := p.now()
	minute := now.Truncate(time.Minute)
	stale := rev != p.rev || (p.filter == FilterRecent && !minute.Equal(p.minute))
	if p.derived && !stale {
		return
	}
	if p.derived && rev != p.rev {
		p.page = 1
	}
	p.filtered = Apply(p.src.All(), p.term, p.filter, now, p.recentWindow)
	p.rev = rev
	p.minute = minute
	p.derived = true
	p.page = clamp(p.page, p.totalPages())
}

func (p *Projection) totalPages() int {
	return (len(p.filtered) + p.pageSize - 1) / p.pageSize
}
