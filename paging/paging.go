package paging

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const cursorPrefix = "offset:"

// ErrInvalidCursor is returned when a cursor cannot be decoded.
var ErrInvalidCursor = errors.New("invalid cursor")

// Direction tags a page change.
type Direction string

const (
	Prev Direction = "prev"
	Next Direction = "next"
)

// PageInfo is the remote pagination descriptor returned with each page.
type PageInfo struct {
	HasNextPage     bool   `json:"hasNextPage"`
	HasPreviousPage bool   `json:"hasPreviousPage"`
	StartCursor     string `json:"startCursor,omitempty"`
	EndCursor       string `json:"endCursor,omitempty"`
}

// Change describes a committed page change.
type Change struct {
	From      int       `json:"from"`
	To        int       `json:"to"`
	Direction Direction `json:"direction"`
}

// ChangeFunc receives page-change notifications.
type ChangeFunc func(Change)

// Pager is the page-change capability shared by both pagination strategies.
type Pager interface {
	Next(ctx context.Context) error
	Prev(ctx context.Context) error
}

// EncodeCursor encodes a result offset into an opaque cursor
func EncodeCursor(offset int) string {
	return base64.StdEncoding.EncodeToString([]byte(cursorPrefix + strconv.Itoa(offset)))
}

// DecodeCursor decodes a cursor produced by EncodeCursor
func DecodeCursor(cursor string) (int, error) {
	b, err := base64.StdEncoding.DecodeString(cursor)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	s, ok := strings.CutPrefix(string(b), cursorPrefix)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCursor, cursor)
	}
	offset, err := strconv.Atoi(s)
	if err != nil || offset < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCursor, cursor)
	}
	return offset, nil
}

// Args holds relay-style page arguments.
type Args struct {
	First  int
	Last   int
	After  string
	Before string
}

// Window is an offset/limit slice of the result set.
type Window struct {
	From int
	Size int
}

// NormalizeArgs ensures that page sizes are within an acceptable range
func NormalizeArgs(args Args, defaultSize int) Args {
	if defaultSize <= 0 || defaultSize > 1024 {
		defaultSize = 10
	}
	if args.First < 0 || args.First > 1024 {
		args.First = defaultSize
	}
	if args.Last < 0 || args.Last > 1024 {
		args.Last = defaultSize
	}
	if args.First == 0 && args.Last == 0 {
		args.First = defaultSize
	}
	return args
}

// ResolveWindow maps cursor arguments onto an offset window. Forward paging
// starts right after the after-cursor; backward paging ends right before the
// before-cursor. Without a before-cursor, last behaves like first.
func ResolveWindow(args Args, defaultSize int) (Window, error) {
	args = NormalizeArgs(args, defaultSize)

	from := 0
	if args.After != "" {
		pos, err := DecodeCursor(args.After)
		if err != nil {
			return Window{}, err
		}
		from = pos + 1
	}

	if args.Before == "" {
		size := args.First
		if size == 0 {
			size = args.Last
		}
		return Window{From: from, Size: size}, nil
	}

	end, err := DecodeCursor(args.Before)
	if err != nil {
		return Window{}, err
	}
	if end < from {
		end = from
	}
	if args.First > 0 {
		return Window{From: from, Size: min(args.First, end-from)}, nil
	}
	start := max(from, end-args.Last)
	return Window{From: start, Size: end - start}, nil
}

// NewPageInfo describes a window holding count items out of total.
func NewPageInfo(w Window, count int, total int64) PageInfo {
	info := PageInfo{
		HasPreviousPage: w.From > 0,
		HasNextPage:     int64(w.From+count) < total,
	}
	if count > 0 {
		info.StartCursor = EncodeCursor(w.From)
		info.EndCursor = EncodeCursor(w.From + count - 1)
	}
	return info
}

// Result holds one page of items.
type Result[T any] struct {
	Items    []T      `json:"items"`
	Total    int64    `json:"total"`
	PageInfo PageInfo `json:"pageInfo"`
}

// PagingFunc fetches size items starting at from and reports the total
type PagingFunc[T any] func(ctx context.Context, from, size int) (items []T, total int64, err error)

// Paginate resolves args into a window and applies the provided PagingFunc
func Paginate[T any](ctx context.Context, args Args, defaultSize int, fn PagingFunc[T]) (*Result[T], error) {
	w, err := ResolveWindow(args, defaultSize)
	if err != nil {
		return nil, err
	}

	var (
		items []T
		total int64
	)
	if w.Size > 0 {
		items, total, err = fn(ctx, w.From, w.Size)
		if err != nil {
			return nil, fmt.Errorf("pagination error: %w", err)
		}
	}
	if len(items) > w.Size {
		items = items[:w.Size]
	}

	if items == nil {
		items = make([]T, 0)
	}

	return &Result[T]{
		Items:    items,
		Total:    total,
		PageInfo: NewPageInfo(w, len(items), total),
	}, nil
}
