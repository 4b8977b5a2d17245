package pagination

const (
	// DefaultPage is the first page; pages are 1-based.
	DefaultPage = 1
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 30
	// MaxLimit caps how many items any page can request.
	MaxLimit = 100
)

// Params holds page/limit inputs from controllers or services.
type Params struct {
	Page  int
	Limit int
}

// Normalize fills unset values with defaults. It never clamps an oversized
// limit; callers reject those explicitly with ExceedsMax.
func (p Params) Normalize(defaultLimit int) Params {
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	if p.Page <= 0 {
		p.Page = DefaultPage
	}
	if p.Limit <= 0 {
		p.Limit = defaultLimit
	}
	return p
}

// ExceedsMax reports whether limit is above max (MaxLimit when max <= 0).
func ExceedsMax(limit, max int) bool {
	if max <= 0 {
		max = MaxLimit
	}
	return limit > max
}

// Window returns the half-open index range [start, end) covered by the page.
func (p Params) Window() (start, end int) {
	start = (p.Page - 1) * p.Limit
	return start, start + p.Limit
}

// Slice returns the items inside the page window, clipped to the slice bounds.
// The result never aliases items.
func Slice[T any](items []T, p Params) []T {
	start, end := p.Window()
	if start >= len(items) || start < 0 {
		return []T{}
	}
	if end > len(items) {
		end = len(items)
	}
	out := make([]T, end-start)
	copy(out, items[start:end])
	return out
}
