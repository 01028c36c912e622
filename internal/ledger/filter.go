package ledger

import (
	"strings"

	"github.com/mmynk/telecomsupply/internal/models"
)

// Filter selects invoices by effective status. FilterAll keeps everything.
type Filter string

// FilterAll is the "todos" sentinel of the status filter control.
const FilterAll Filter = "todos"

// ParseFilter accepts "todos", "all", the empty string or a status value.
func ParseFilter(s string) (Filter, error) {
	switch v := strings.ToLower(strings.TrimSpace(s)); v {
	case "", "all", string(FilterAll):
		return FilterAll, nil
	default:
		f := Filter(v)
		if !f.valid() {
			return "", ErrInvalidFilter
		}
		return f, nil
	}
}

func (f Filter) valid() bool {
	return f == FilterAll || models.Status(f).Valid()
}

func (f Filter) matches(s models.Status) bool {
	return f == FilterAll || models.Status(f) == s
}
