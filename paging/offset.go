package paging

import (
	"context"
	"sync"
)

// FetchMoreFunc asks the owner to extend the buffer with more data.
// The owner is expected to call Refresh once the buffer has grown.
type FetchMoreFunc func(ctx context.Context) error

// Offset is the page controller for a locally buffered result set.
type Offset struct {
	mu        sync.Mutex
	page      int
	pageSize  int
	buffer    int
	hasMore   bool
	inFlight  bool
	fetchMore FetchMoreFunc
	onChange  ChangeFunc
}

// OffsetOption configures an Offset.
type OffsetOption func(*Offset)

// WithOffsetChange registers a page-change listener.
func WithOffsetChange(fn ChangeFunc) OffsetOption {
	return func(o *Offset) { o.onChange = fn }
}

// NewOffset creates a controller on page 1.
func NewOffset(pageSize int, fetchMore FetchMoreFunc, opts ...OffsetOption) *Offset {
	if pageSize <= 0 {
		pageSize = 10
	}
	o := &Offset{page: 1, pageSize: pageSize, fetchMore: fetchMore}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Page returns the current page.
func (o *Offset) Page() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.page
}

// PageSize returns the page size.
func (o *Offset) PageSize() int { return o.pageSize }

// Total returns the buffered length plus one page when more data may exist.
func (o *Offset) Total() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.total()
}

// MaxPage returns the highest requestable page, never less than 1.
func (o *Offset) MaxPage() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.maxPage()
}

// InFlight reports whether a fetch-more call is outstanding.
func (o *Offset) InFlight() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.inFlight
}

// Window returns the [lo, hi) bounds of the current page in the buffer.
func (o *Offset) Window() (lo, hi int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	lo = min((o.page-1)*o.pageSize, o.buffer)
	hi = min(lo+o.pageSize, o.buffer)
	return lo, hi
}

func (o *Offset) total() int {
	if o.hasMore {
		return o.buffer + o.pageSize
	}
	return o.buffer
}

func (o *Offset) maxPage() int {
	n := (o.total() + o.pageSize - 1) / o.pageSize
	if n < 1 {
		return 1
	}
	return n
}

// presentable reports whether page n is within bounds and has buffered rows.
// Page 1 is always presentable, even over an empty buffer.
func (o *Offset) presentable(n int) bool {
	if n < 1 || n > o.maxPage() {
		return false
	}
	return n == 1 || (n-1)*o.pageSize < o.buffer
}

// RequestPage moves to page n. It reports whether the page changed.
//
// Requests are ignored while a fetch is in flight or when n is out of range.
// Advancing to the last page while more data may exist awaits fetch-more
// first; the page is committed only if it is presentable afterwards.
func (o *Offset) RequestPage(ctx context.Context, n int) (bool, error) {
	o.mu.Lock()
	if o.inFlight || n < 1 || n > o.maxPage() {
		o.mu.Unlock()
		return false, nil
	}

	if n == o.maxPage() && n > o.page && o.hasMore && o.fetchMore != nil {
		o.inFlight = true
		o.mu.Unlock()

		err := o.fetchMore(ctx)

		o.mu.Lock()
		o.inFlight = false
		if err != nil {
			o.mu.Unlock()
			return false, err
		}
	}

	if n == o.page || !o.presentable(n) {
		o.mu.Unlock()
		return false, nil
	}
	change := Change{From: o.page, To: n, Direction: Next}
	if n < o.page {
		change.Direction = Prev
	}
	o.page = n
	fn := o.onChange
	o.mu.Unlock()

	if fn != nil {
		fn(change)
	}
	return true, nil
}

// Refresh records the buffer length and whether more data may exist. When the
// current page is no longer presentable it is reset to 1.
func (o *Offset) Refresh(buffer int, hasMore bool) {
	if buffer < 0 {
		buffer = 0
	}
	o.mu.Lock()
	o.buffer, o.hasMore = buffer, hasMore
	if o.page == 1 || o.presentable(o.page) {
		o.mu.Unlock()
		return
	}
	change := Change{From: o.page, To: 1, Direction: Prev}
	o.page = 1
	fn := o.onChange
	o.mu.Unlock()

	if fn != nil {
		fn(change)
	}
}

// Reset returns to page 1 without notifying, used when filters change.
func (o *Offset) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.page = 1
}

// Next implements Pager.
func (o *Offset) Next(ctx context.Context) error {
	_, err := o.RequestPage(ctx, o.Page()+1)
	return err
}

// Prev implements Pager.
func (o *Offset) Prev(ctx context.Context) error {
	_, err := o.RequestPage(ctx, o.Page()-1)
	return err
}
