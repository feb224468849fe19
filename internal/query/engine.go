package query

import (
	"slices"

	"github.com/jacoelho/flame/internal/pathing"
	"github.com/jacoelho/flame/tree"
)

type entry struct {
	key   string
	sort  tree.Value
	value tree.Value
}

// Run projects the children of node through opts. Children are sorted
// ascending by sort key, filtered, and accumulated until the limit is
// reached; reverse mode only flips the order of what was accumulated. A
// result keyed "0".."n-1" becomes a sequence, and shallow replaces every
// value with true. An empty projection is Null. node itself is not modified.
func Run(node *tree.Container, opts *Options) tree.Value {
	entries := make([]entry, 0, node.Len())
	for key, value := range node.All() {
		entries = append(entries, entry{
			key:   key,
			sort:  opts.sortKey(key, value),
			value: value,
		})
	}
	slices.SortStableFunc(entries, func(a, b entry) int {
		return Compare(a.sort, b.sort)
	})

	kept := make([]entry, 0, len(entries))
	for _, e := range entries {
		if opts.HasLimit && len(kept) >= opts.Limit {
			break
		}
		if opts.keep(e) {
			kept = append(kept, e)
		}
	}
	if len(kept) == 0 {
		return tree.Null()
	}
	if opts.Reverse {
		slices.Reverse(kept)
	}

	result := tree.NewContainer()
	for _, e := range kept {
		if opts.Shallow {
			result.Set(e.key, tree.Bool(true))
			continue
		}
		result.Set(e.key, e.value)
	}
	result.SetSequence(result.Indexed())

	return tree.Object(result)
}

func (o *Options) sortKey(key string, value tree.Value) tree.Value {
	switch o.OrderBy {
	case OrderByKey:
		return keyValue(tree.String(key))
	case OrderByValue:
		return value
	default:
		return field(value, pathing.Segments(o.OrderBy))
	}
}

func (o *Options) keep(e entry) bool {
	if e.value.IsNull() {
		return false
	}
	if o.HasStartAt && Compare(e.sort, o.StartAt) < 0 {
		return false
	}
	if o.HasEqualTo && !tree.Equal(e.sort, o.EqualTo) {
		return false
	}
	return true
}

// field resolves a nested child field; anything missing sorts as Null.
func field(value tree.Value, keys []string) tree.Value {
	for _, key := range keys {
		c, ok := value.AsContainer()
		if !ok {
			return tree.Null()
		}
		value, _ = c.Get(key)
	}
	return value
}
