package metadata

import (
	"oairepo/internal/content"
)

// Format is the contract every supported metadata output implements. Render
// returns the value serialized inside the record's <metadata> element; the
// value must carry its own element name and namespace declarations.
type Format interface {
	Prefix() string
	Namespace() string
	Schema() string
	Render(item *content.Item) (any, error)
}

// Registry holds the formats supported by the repository. It is populated at
// startup and read-only afterwards, so concurrent reads need no locking.
type Registry struct {
	order    []string
	byPrefix map[string]Format
}

func NewRegistry(formats ...Format) *Registry {
	r := &Registry{byPrefix: make(map[string]Format)}
	for _, f := range formats {
		r.Register(f)
	}
	return r
}

// Register adds a format. A format with a known prefix replaces the earlier
// one, keeping its position.
func (r *Registry) Register(f Format) {
	if _, ok := r.byPrefix[f.Prefix()]; !ok {
		r.order = append(r.order, f.Prefix())
	}
	r.byPrefix[f.Prefix()] = f
}

// Get returns the format registered under the given prefix.
func (r *Registry) Get(prefix string) (Format, bool) {
	f, ok := r.byPrefix[prefix]
	return f, ok
}

// All returns every registered format in registration order.
func (r *Registry) All() []Format {
	formats := make([]Format, 0, len(r.order))
	for _, prefix := range r.order {
		formats = append(formats, r.byPrefix[prefix])
	}
	return formats
}
