package config

import (
	"time"
)

// Set exposure modes. They control which record subsets are published as
// OAI-PMH sets.
const (
	ExposeNone           = "none"
	ExposeItemSet        = "itemset"
	ExposeItemType       = "itemtype"
	ExposeDcType         = "dctype"
	ExposeItemSetType    = "itemset_itemtype"
	ExposeItemSetDcType  = "itemset_dctype"
)

// Set spec formats.
const (
	SetSpecFlat         = "flat"
	SetSpecHierarchical = "hierarchical"
)

// Item-set identifier choices.
const (
	ItemSetByID         = "itemset_id"
	ItemSetByIdentifier = "itemset_identifier"
	ItemSetByTitle      = "itemset_title"
)

// Item-type identifier choices.
const (
	ItemTypeByID   = "itemtype_id"
	ItemTypeByName = "itemtype_name"
)

// Toolkit describes the software hosting the repository, reported in the
// Identify response.
type Toolkit struct {
	Title   string
	Author  string
	Version string
	URL     string
}

// Config holds every option the protocol engine reads. It is built once at
// startup and passed by value; nothing mutates it afterwards.
type Config struct {
	// BaseURL is the public URL harvesters use to reach the repository.
	BaseURL string
	// SiteURL is the public URL of the item browse pages, used to build
	// dc:identifier links.
	SiteURL string

	RepositoryName string
	AdminEmail     string
	// NamespaceID is the domain-name namespace used to form globally
	// unique oai identifiers.
	NamespaceID string

	// ListLimit is the page size for list responses. Zero disables
	// pagination entirely.
	ListLimit int
	// TokenTTL is how long a resumption token stays valid.
	TokenTTL time.Duration

	// ExposeSet selects which subsets are published as sets.
	ExposeSet string
	// SetSpecFormat is flat or hierarchical.
	SetSpecFormat string
	// ItemSetIdentifier selects how collection sets are identified.
	ItemSetIdentifier string
	// ItemTypeIdentifier selects how item-type sets are identified.
	ItemTypeIdentifier string
	// ExposeEmptyCollections includes collections without public items in
	// ListSets.
	ExposeEmptyCollections bool

	// ExposeItemType prepends the item type name to dc:type values.
	ExposeItemType bool
	// ExposeFiles appends file URLs to dc:identifier.
	ExposeFiles bool
	// ExposeThumbnail appends the thumbnail URL to dc:relation.
	ExposeThumbnail bool

	// CustomOaiDc enables the vocabulary mapping pipeline for oai_dc.
	CustomOaiDc bool
	// DefaultLanguage tags untranslated values and sorts translations
	// first. Empty means no tagging.
	DefaultLanguage string

	// Compression lists the supported response compression encodings
	// advertised by Identify.
	Compression []string

	Toolkit Toolkit
}

// ExposesItemSets reports whether collection sets are published.
func (c Config) ExposesItemSets() bool {
	switch c.ExposeSet {
	case ExposeItemSet, ExposeItemSetType, ExposeItemSetDcType:
		return true
	}
	return false
}

// ExposesItemTypes reports whether item-type sets are published.
func (c Config) ExposesItemTypes() bool {
	switch c.ExposeSet {
	case ExposeItemType, ExposeItemSetType:
		return true
	}
	return false
}

// ExposesDcTypes reports whether dc:type value sets are published.
func (c Config) ExposesDcTypes() bool {
	switch c.ExposeSet {
	case ExposeDcType, ExposeItemSetDcType:
		return true
	}
	return false
}

// ExposesSets reports whether any set hierarchy is published at all.
func (c Config) ExposesSets() bool {
	return c.ExposeSet != "" && c.ExposeSet != ExposeNone
}

// FlatSetSpecs reports whether set specs use the flat format.
func (c Config) FlatSetSpecs() bool {
	return c.SetSpecFormat != SetSpecHierarchical
}
