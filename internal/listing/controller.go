// Package listing is a client-side data table: it loads a collection from
// a source, filters it by free text, sorts it by one column and slices it
// into pages.
package listing

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/cases"

	"github.com/elclub/papyrus/internal/notify"
)

// DefaultItemsPerPage is used when Config.ItemsPerPage is not positive.
const DefaultItemsPerPage = 10

const defaultLoadError = "Error cargando datos"

// Item is the shape JSON endpoints return.
type Item = map[string]any

// Source fetches the full collection.
type Source[T any] interface {
	Fetch(ctx context.Context) ([]T, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc[T any] func(ctx context.Context) ([]T, error)

func (f SourceFunc[T]) Fetch(ctx context.Context) ([]T, error) { return f(ctx) }

// Accessor reads fields out of an item.
type Accessor[T any] interface {
	// Value returns the raw value of column and whether it is present.
	Value(item T, column string) (any, bool)
	// Values returns every field value of item.
	Values(item T) []any
}

// MapAccessor reads map items.
type MapAccessor struct{}

func (MapAccessor) Value(item Item, column string) (any, bool) {
	v, ok := item[column]
	return v, ok
}

func (MapAccessor) Values(item Item) []any {
	out := make([]any, 0, len(item))
	for _, v := range item {
		out = append(out, v)
	}
	return out
}

// State is the lifecycle of a controller.
type State string

const (
	Uninitialized State = "uninitialized"
	Loading       State = "loading"
	Ready         State = "ready"
)

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

type Config struct {
	ItemsPerPage int
	// SortBy is applied as the initial sort column once data arrives.
	SortBy string
	// Compare orders two raw field values. Defaults to CompareValues.
	Compare func(a, b any) int
	// LoadErrorMessage is pushed to the sink when a load fails.
	LoadErrorMessage string
}

// Controller holds a collection and its filtered, sorted, paged view.
// The view is always sort(filter(items, search), sortBy, sortDir).
type Controller[T any] struct {
	src     Source[T]
	acc     Accessor[T]
	sink    notify.Sink
	compare func(a, b any) int
	loadMsg string

	mu      sync.Mutex
	state   State
	gen     uint64
	items   []T
	view    []T
	search  string
	page    int
	perPage int
	sortBy  string
	sortDir Direction
}

func New[T any](src Source[T], acc Accessor[T], sink notify.Sink, cfg Config) *Controller[T] {
	c := &Controller[T]{
		src:     src,
		acc:     acc,
		sink:    sink,
		compare: cfg.Compare,
		loadMsg: cfg.LoadErrorMessage,
		state:   Uninitialized,
		page:    1,
		perPage: cfg.ItemsPerPage,
		sortBy:  cfg.SortBy,
		sortDir: Asc,
	}
	if c.compare == nil {
		c.compare = CompareValues
	}
	if c.loadMsg == "" {
		c.loadMsg = defaultLoadError
	}
	if c.perPage <= 0 {
		c.perPage = DefaultItemsPerPage
	}
	return c
}

// Initialize starts a load. Every call starts a fresh one.
func (c *Controller[T]) Initialize(ctx context.Context) error {
	return c.Load(ctx)
}

// Load fetches the collection. On failure the previous collection is kept
// and an error notification is pushed. A load that finishes after a newer
// one has started is discarded.
func (c *Controller[T]) Load(ctx context.Context) error {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.state = Loading
	c.mu.Unlock()

	if c.sink != nil {
		c.sink.SetLoading(true)
	}
	defer func() {
		c.mu.Lock()
		current := gen == c.gen
		if current {
			c.state = Ready
		}
		c.mu.Unlock()
		if current && c.sink != nil {
			c.sink.SetLoading(false)
		}
	}()

	items, err := c.src.Fetch(ctx)

	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return nil
	}
	if err != nil {
		c.mu.Unlock()
		if c.sink != nil {
			c.sink.Push(c.loadMsg, notify.Error)
		}
		return fmt.Errorf("load list: %w", err)
	}
	c.items = items
	c.recompute()
	c.clampPage()
	c.mu.Unlock()
	return nil
}

// Search sets the search term and refilters.
func (c *Controller[T]) Search(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.search = term
	c.recompute()
	c.page = 1
}

// Filter recomputes the view from the current search term and resets the
// page to 1.
func (c *Controller[T]) Filter() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.recompute()
	c.page = 1
}

// Sort orders the view by column. Sorting the active column again flips
// the direction; a new column starts ascending.
func (c *Controller[T]) Sort(column string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sortBy == column {
		if c.sortDir == Asc {
			c.sortDir = Desc
		} else {
			c.sortDir = Asc
		}
	} else {
		c.sortBy = column
		c.sortDir = Asc
	}
	c.sortView()
}

// recompute rebuilds the view. Caller holds c.mu.
func (c *Controller[T]) recompute() {
	c.view = c.filtered()
	c.sortView()
}

func (c *Controller[T]) filtered() []T {
	if c.search == "" {
		out := make([]T, len(c.items))
		copy(out, c.items)
		return out
	}
	fold := cases.Fold()
	term := fold.String(c.search)
	out := make([]T, 0, len(c.items))
	for _, it := range c.items {
		for _, v := range c.acc.Values(it) {
			if strings.Contains(fold.String(Stringify(v)), term) {
				out = append(out, it)
				break
			}
		}
	}
	return out
}

func (c *Controller[T]) sortView() {
	if c.sortBy == "" {
		return
	}
	col, desc := c.sortBy, c.sortDir == Desc
	sort.SliceStable(c.view, func(i, j int) bool {
		a, _ := c.acc.Value(c.view[i], col)
		b, _ := c.acc.Value(c.view[j], col)
		if desc {
			return c.compare(a, b) > 0
		}
		return c.compare(a, b) < 0
	})
}

func (c *Controller[T]) totalPages() int {
	return (len(c.view) + c.perPage - 1) / c.perPage
}

func (c *Controller[T]) clampPage() {
	if tp := c.totalPages(); c.page > tp {
		c.page = tp
	}
	if c.page < 1 {
		c.page = 1
	}
}

// TotalPages is ceil(len(view)/itemsPerPage); 0 for an empty view.
func (c *Controller[T]) TotalPages() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalPages()
}

// Paginated returns the current page of the view.
func (c *Controller[T]) Paginated() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	start := (c.page - 1) * c.perPage
	if start >= len(c.view) {
		return nil
	}
	end := start + c.perPage
	if end > len(c.view) {
		end = len(c.view)
	}
	out := make([]T, end-start)
	copy(out, c.view[start:end])
	return out
}

func (c *Controller[T]) NextPage() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.page < c.totalPages() {
		c.page++
	}
}

func (c *Controller[T]) PrevPage() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.page > 1 {
		c.page--
	}
}

func (c *Controller[T]) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

func (c *Controller[T]) ItemsPerPage() int { return c.perPage }

func (c *Controller[T]) SearchTerm() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.search
}

// SortState returns the active sort column ("" for none) and direction.
func (c *Controller[T]) SortState() (string, Direction) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sortBy, c.sortDir
}

func (c *Controller[T]) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Items returns a copy of the full collection.
func (c *Controller[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// View returns a copy of the filtered, sorted view.
func (c *Controller[T]) View() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, len(c.view))
	copy(out, c.view)
	return out
}

// Len is the length of the view.
func (c *Controller[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.view)
}
