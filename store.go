package flame

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jacoelho/flame/internal/pathing"
	"github.com/jacoelho/flame/internal/pushid"
	"github.com/jacoelho/flame/internal/query"
	"github.com/jacoelho/flame/tree"
)

// Query is a read query such as {"orderBy": "$key", "limitToFirst": 3}.
type Query = query.Params

// ParseQuery decodes the REST query string encoding, e.g.
// orderBy="$key"&limitToFirst=3.
func ParseQuery(raw string) (Query, error) {
	return query.Parse(raw)
}

// Store is an in-memory hierarchical document store.
//
// A single lock serialises root replacement with push key generation.
// Values returned by reads are shared with the store and must not be
// modified; later writes never change them.
type Store struct {
	mu       sync.RWMutex
	id       string
	root     tree.Value
	ids      *pushid.Generator
	now      func() time.Time
	observer Observer
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		id:  uuid.NewString(),
		ids: pushid.New(),
		now: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID identifies the store instance, e.g. in logs.
func (s *Store) ID() string {
	return s.id
}

// UseObserver replaces the observer. nil disables observation.
func (s *Store) UseObserver(fn Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observer = fn
}

func (s *Store) observe(op Op, path string, arg any) {
	s.mu.RLock()
	fn := s.observer
	s.mu.RUnlock()
	if fn != nil {
		fn(op, path, arg)
	}
}

// Load replaces the root.
func (s *Store) Load(root tree.Value) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.root = root
}

// LoadJSON replaces the root with a decoded JSON document.
func (s *Store) LoadJSON(r io.Reader) error {
	root, err := tree.DecodeJSON(r)
	if err != nil {
		return fmt.Errorf("load JSON: %w", err)
	}
	s.Load(root)
	return nil
}

// LoadYAML replaces the root with a decoded YAML document.
func (s *Store) LoadYAML(r io.Reader) error {
	root, err := tree.DecodeYAML(r)
	if err != nil {
		return fmt.Errorf("load YAML: %w", err)
	}
	s.Load(root)
	return nil
}

// Snapshot returns the current root. It stays unchanged by later writes.
func (s *Store) Snapshot() tree.Value {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.root
}

// Get reads the value at path. Scalars are returned as stored; containers
// are projected through q, or ordered by key when q is nil. Missing values
// and empty containers read as Null.
func (s *Store) Get(path string, q Query) (tree.Value, error) {
	s.observe(OpGet, path, q)

	if err := q.Validate(); err != nil {
		return tree.Null(), err
	}

	node := lookup(s.Snapshot(), pathing.Head(path, 0))
	c, ok := node.AsContainer()
	if !ok {
		return node, nil
	}
	if c.Len() == 0 {
		return tree.Null(), nil
	}

	opts, err := query.Compile(q)
	if err != nil {
		return tree.Null(), err
	}
	return query.Run(c, opts), nil
}

// Put replaces the value at path and returns value. Putting Null deletes.
func (s *Store) Put(path string, value tree.Value) tree.Value {
	s.observe(OpPut, path, value)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(path, value)
	return value
}

// Patch merges the entries of value into the container at path, deleting
// keys whose new value is Null. When nothing but a scalar or Null is stored
// at path, Patch behaves like Put.
func (s *Store) Patch(path string, value tree.Value) (tree.Value, error) {
	s.observe(OpPatch, path, value)

	s.mu.Lock()
	defer s.mu.Unlock()

	keys := pathing.Head(path, 0)
	if _, ok := lookup(s.root, keys).AsContainer(); !ok {
		s.put(path, withoutNulls(value))
		return value, nil
	}

	patch, ok := value.AsContainer()
	if !ok {
		if value.IsNull() {
			return value, nil
		}
		return tree.Null(), fmt.Errorf("%w: cannot merge %s into %s", ErrInvalidPatch, value.Kind(), path)
	}

	node := s.writable(keys)
	for key, v := range patch.All() {
		setKey(node, key, v)
	}
	return value, nil
}

// Post stores value under a new push key below path and returns
// {"name": key}.
func (s *Store) Post(path string, value tree.Value) (tree.Value, error) {
	s.observe(OpPost, path, value)

	s.mu.Lock()
	defer s.mu.Unlock()

	name, err := s.ids.Generate(s.now().UnixMilli())
	if err != nil {
		return tree.Null(), fmt.Errorf("post %s: %w", path, err)
	}

	setKey(s.writable(pathing.Head(path, 0)), name, value)

	result := tree.NewContainer()
	result.Set("name", tree.String(name))
	return tree.Object(result), nil
}

// Remove deletes the value at path and returns Null.
func (s *Store) Remove(path string) tree.Value {
	s.observe(OpDelete, path, nil)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(path, tree.Null())
	return tree.Null()
}

// put must be called with s.mu held. The root path replaces the root.
func (s *Store) put(path string, value tree.Value) {
	name := pathing.Tail(path, 1)
	if len(name) == 0 {
		s.root = value
		return
	}
	setKey(s.writable(pathing.Head(path, 1)), name[0], value)
}

// writable clones the root and every container along keys, installs each
// clone in its parent, and returns the last one. Missing or scalar nodes on
// the way are replaced by empty containers. Must be called with s.mu held.
func (s *Store) writable(keys []string) *tree.Container {
	node := cloneContainer(s.root)
	s.root = tree.Object(node)
	for _, key := range keys {
		child, _ := node.Get(key)
		next := cloneContainer(child)
		node.Set(key, tree.Object(next))
		node = next
	}
	return node
}

// withoutNulls drops the Null children of a container, as merging into an
// empty container would.
func withoutNulls(v tree.Value) tree.Value {
	c, ok := v.AsContainer()
	if !ok {
		return v
	}
	out := tree.NewContainer()
	for key, item := range c.All() {
		setKey(out, key, item)
	}
	out.SetSequence(c.IsSequence() && out.Indexed())
	return tree.Object(out)
}

func cloneContainer(v tree.Value) *tree.Container {
	if c, ok := v.AsContainer(); ok {
		return c.Clone()
	}
	return tree.NewContainer()
}

// lookup walks keys from root. Missing and scalar intermediate nodes read as
// Null.
func lookup(root tree.Value, keys []string) tree.Value {
	node := root
	for _, key := range keys {
		c, ok := node.AsContainer()
		if !ok {
			return tree.Null()
		}
		node, _ = c.Get(key)
	}
	return node
}

func setKey(c *tree.Container, key string, value tree.Value) {
	if value.IsNull() {
		c.Delete(key)
		return
	}
	c.Set(key, value)
}
