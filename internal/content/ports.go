package content

import (
	"context"
	"time"
)

// Query filters the public item listing. Exactly one of Collection,
// ItemType or TypeValues may be set; all may be empty for an unfiltered
// listing. Limit zero means no paging.
type Query struct {
	Collection *int64
	ItemType   *int64
	// TypeValues matches items whose dc:type equals any of the given
	// values exactly.
	TypeValues []string
	From       *time.Time
	Until      *time.Time
	Limit      int
	Offset     int
}

// Source is the narrow read interface the protocol engine uses to reach the
// backing repository. Every method sees public records only.
type Source interface {
	// Items returns one page of matching public items in stable id order
	// together with the total match count.
	Items(ctx context.Context, q Query) ([]Item, int, error)
	// Item returns one public item, or nil when the id is unknown or the
	// item is not public.
	Item(ctx context.Context, id int64) (*Item, error)
	// EarliestDate returns the added date of the oldest public item. The
	// zero time means the repository is empty.
	EarliestDate(ctx context.Context) (time.Time, error)

	// Collections returns public collections, optionally restricted to
	// those holding at least one public item.
	Collections(ctx context.Context, onlyWithItems bool) ([]Collection, error)
	// CollectionByIdentifier resolves a collection by its Dublin Core
	// identifier value. Returns nil when there is no exact match.
	CollectionByIdentifier(ctx context.Context, identifier string) (*Collection, error)
	// CollectionByTitle resolves a collection by its title.
	CollectionByTitle(ctx context.Context, title string) (*Collection, error)

	// ItemTypes returns the item types in use by public items, sorted by
	// name.
	ItemTypes(ctx context.Context) ([]ItemType, error)
	// ItemTypeByName resolves an item type by exact name.
	ItemTypeByName(ctx context.Context, name string) (*ItemType, error)

	// DistinctTypeValues returns the distinct dc:type values of public
	// items that are representable as set specs: at most 190 characters
	// and free of ":" and "_".
	DistinctTypeValues(ctx context.Context) ([]string, error)
}
