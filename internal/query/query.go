// Package query implements the catalog query engine: a pure
// filter/sort/paginate pipeline over a snapshot of the toy collection.
package query

import (
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/nivkatz/toystore/internal/models"
)

// Sort direction sentinels. Any other value disables sorting.
const (
	SortAsc  = 1
	SortDesc = -1
)

const (
	DefaultPageIdx  = 0
	DefaultPageSize = 3
)

// Recognized sort fields. An unrecognized field is a no-op.
const (
	FieldName      = "name"
	FieldPrice     = "price"
	FieldCreatedAt = "createdAt"
)

// Filter holds the predicates an item must satisfy to survive filtering.
// A zero Text, nil InStock or empty Labels means "not filtered on".
type Filter struct {
	Text     string
	InStock  *bool
	Labels   []string
	MinPrice float64
	MaxPrice float64
}

// Sort names the sort key and direction.
type Sort struct {
	Field string
	Dir   int
}

// Page selects a bounded window of the filtered, sorted sequence.
type Page struct {
	Index int
	Size  int
}

// Spec is the request-scoped value object driving a catalog query.
type Spec struct {
	Filter Filter
	Sort   Sort
	Page   Page
}

// ParseSpec builds a Spec from raw query parameters. Parsing is
// deliberately permissive: malformed numeric input falls back to the
// defaults instead of being rejected.
func ParseSpec(values url.Values) Spec {
	return Spec{
		Filter: Filter{
			Text:     strings.TrimSpace(values.Get("txt")),
			InStock:  parseBool(values.Get("inStock")),
			Labels:   parseLabels(values["labels"]),
			MinPrice: parseFloat(values.Get("minPrice"), 0),
			MaxPrice: parseFloat(values.Get("maxPrice"), math.Inf(1)),
		},
		Sort: Sort{
			Field: values.Get("sortField"),
			Dir:   parseInt(values.Get("sortDir"), 0),
		},
		Page: Page{
			Index: clampNonNegative(parseInt(values.Get("pageIdx"), DefaultPageIdx)),
			Size:  defaultIfNonPositive(parseInt(values.Get("pageSize"), DefaultPageSize), DefaultPageSize),
		},
	}
}

// Apply runs the engine over a snapshot: filter, then sort, then paginate.
// The order is fixed; changing it changes results whenever ties exist.
// Apply never mutates the snapshot and is a pure function of its inputs.
func Apply(snapshot []models.Toy, spec Spec) []models.Toy {
	filtered := filterToys(snapshot, spec.Filter)
	sortToys(filtered, spec.Sort)
	return paginate(filtered, spec.Page)
}

func filterToys(toys []models.Toy, f Filter) []models.Toy {
	out := make([]models.Toy, 0, len(toys))
	for _, toy := range toys {
		if matches(&toy, f) {
			out = append(out, toy)
		}
	}
	return out
}

func matches(toy *models.Toy, f Filter) bool {
	if f.Text != "" && !strings.Contains(strings.ToLower(toy.Name), strings.ToLower(f.Text)) {
		return false
	}

	if f.InStock != nil && toy.InStock != *f.InStock {
		return false
	}

	// Label filtering is a superset check: the toy must carry ALL
	// requested labels, not any of them.
	for _, label := range f.Labels {
		if !toy.HasLabel(label) {
			return false
		}
	}

	return toy.Price >= f.MinPrice && toy.Price <= f.MaxPrice
}

func sortToys(toys []models.Toy, s Sort) {
	if s.Dir != SortAsc && s.Dir != SortDesc {
		return
	}

	var cmp func(a, b *models.Toy) int

	switch s.Field {
	case FieldName:
		collator := collate.New(language.English)
		cmp = func(a, b *models.Toy) int {
			return collator.CompareString(a.Name, b.Name)
		}
	case FieldPrice:
		cmp = func(a, b *models.Toy) int {
			switch {
			case a.Price < b.Price:
				return -1
			case a.Price > b.Price:
				return 1
			default:
				return 0
			}
		}
	case FieldCreatedAt:
		cmp = func(a, b *models.Toy) int {
			return a.CreatedAt.Compare(b.CreatedAt)
		}
	default:
		// Unrecognized field: original order preserved.
		return
	}

	// Stable sort so equal keys retain input order in both directions.
	sort.SliceStable(toys, func(i, j int) bool {
		return cmp(&toys[i], &toys[j])*s.Dir < 0
	})
}

func paginate(toys []models.Toy, p Page) []models.Toy {
	if p.Index < 0 || p.Size <= 0 {
		return []models.Toy{}
	}

	// A huge index overflows the multiplication and wraps negative. A
	// wrapped start is out of range, which yields an empty page.
	start := p.Index * p.Size
	if start < 0 || start/p.Size != p.Index || start >= len(toys) {
		return []models.Toy{}
	}

	end := start + p.Size
	if end > len(toys) {
		end = len(toys)
	}

	return toys[start:end]
}

func parseBool(raw string) *bool {
	switch raw {
	case "true":
		v := true
		return &v
	case "false":
		v := false
		return &v
	default:
		return nil
	}
}

func parseLabels(raw []string) []string {
	labels := make([]string, 0, len(raw))
	for _, entry := range raw {
		for _, label := range strings.Split(entry, ",") {
			if label = strings.TrimSpace(label); label != "" {
				labels = append(labels, label)
			}
		}
	}
	return labels
}

func parseFloat(raw string, defaultVal float64) float64 {
	if raw == "" {
		return defaultVal
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(val) {
		return defaultVal
	}
	return val
}

func parseInt(raw string, defaultVal int) int {
	if raw == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return defaultVal
	}
	return val
}

func clampNonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

func defaultIfNonPositive(v, defaultVal int) int {
	if v <= 0 {
		return defaultVal
	}
	return v
}
