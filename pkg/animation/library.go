package animation

import (
	"fmt"

	"github.com/marrowkit/marrow/pkg/skeleton"
)

// Library stores a skeleton definition's animations by name. It is
// immutable after loading and shared like the rest of the definition
// tables.
type Library struct {
	ordered []*Animation
	byName  map[string]*Animation
}

// NewLibrary returns a library holding the given animations.
func NewLibrary(animations ...*Animation) *Library {
	l := &Library{byName: make(map[string]*Animation, len(animations))}
	for _, a := range animations {
		l.Register(a)
	}
	return l
}

// Register adds an animation. A later registration under the same name
// replaces the earlier one.
func (l *Library) Register(a *Animation) {
	if _, exists := l.byName[a.Name]; !exists {
		l.ordered = append(l.ordered, a)
	}
	l.byName[a.Name] = a
}

// Find returns the animation with the given name.
func (l *Library) Find(name string) (*Animation, bool) {
	a, ok := l.byName[name]
	return a, ok
}

// Get returns the named animation or a wrapped skeleton.ErrNotFound.
func (l *Library) Get(name string) (*Animation, error) {
	if a, ok := l.byName[name]; ok {
		return a, nil
	}
	return nil, fmt.Errorf("animation %q: %w", name, skeleton.ErrNotFound)
}

// All returns the animations in registration order.
func (l *Library) All() []*Animation { return l.ordered }

// Len returns the number of animations.
func (l *Library) Len() int { return len(l.ordered) }
