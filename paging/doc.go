// Package paging provides the two pagination strategies a table can use,
// behind one page-change capability.
//
// # Offset pagination
//
// Offset pages through a locally buffered result set whose remote total is
// unknown until the buffer is exhausted. While more data may exist, one extra
// page is assumed to be fetchable:
//
//	total   = buffer + (hasMore ? pageSize : 0)
//	maxPage = ceil(total / pageSize)
//
// Requesting the last page while more data may exist awaits the fetch-more
// collaborator before the page is committed:
//
//	p := paging.NewOffset(10, fetchMore)
//	p.Refresh(10, true)          // maxPage == 2
//	ok, err := p.RequestPage(ctx, 2)
//
// # Cursor pagination
//
// Cursor pages through a remote result set with opaque cursors. Each page
// change rewrites the fetch variables, mirrors the cursor into the location,
// saves a snapshot of the location for later return navigation and notifies
// the owner:
//
//	c := paging.NewCursor("orders", 20, loc, store, onChange)
//	c.SetPageInfo(info)
//	err := c.LoadNext(ctx)
//
// # Cursor encoding
//
// Backends that page by offset can hand out opaque cursors:
//
//	cursor := paging.EncodeCursor(42)
//	offset, err := paging.DecodeCursor(cursor)
//
//	w, err := paging.ResolveWindow(paging.Args{First: 20, After: cursor}, 20)
//	// w.From == 43, w.Size == 20
package paging
