package content

import (
	"time"
)

// Item is one archival record exposed over OAI-PMH. Elements holds the
// Dublin Core element texts keyed by unqualified term name ("title",
// "creator", ...), each with zero or more values in source order.
type Item struct {
	ID           int64
	Public       bool
	Added        time.Time
	Modified     time.Time
	CollectionID *int64
	ItemTypeID   *int64
	ItemTypeName string
	Elements     map[string][]string
	// FileURLs are the web paths of the item's attached files, oldest
	// first. The first entry doubles as the thumbnail source.
	FileURLs     []string
	ThumbnailURL string
}

// ElementTexts returns the values for one Dublin Core term, never nil.
func (i *Item) ElementTexts(term string) []string {
	return i.Elements[term]
}

// Collection groups items into a harvestable set.
type Collection struct {
	ID         int64
	Public     bool
	Title      string
	Identifier string
	// Elements holds the collection's own Dublin Core values, used for
	// set descriptions.
	Elements map[string][]string
}

// ItemType is a coarse record category (Text, Still Image, ...).
type ItemType struct {
	ID          int64
	Name        string
	Description string
}
