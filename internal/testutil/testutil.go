package testutil

import (
	"time"

	"oairepo/internal/config"
	"oairepo/internal/content"
	"oairepo/internal/token"
	"oairepo/internal/vocab"
)

// Config returns repository settings used across tests: flat set specs,
// collection sets exposed, paging by two.
func Config() config.Config {
	return config.Config{
		BaseURL:        "http://example.org/oai",
		SiteURL:        "http://example.org",
		RepositoryName: "Test Archive",
		AdminEmail:     "admin@example.org",
		NamespaceID:    "example.org",

		ListLimit: 2,
		TokenTTL:  10 * time.Minute,

		ExposeSet:              config.ExposeItemSet,
		SetSpecFormat:          config.SetSpecFlat,
		ItemSetIdentifier:      config.ItemSetByID,
		ItemTypeIdentifier:     config.ItemTypeByID,
		ExposeEmptyCollections: true,

		Toolkit: config.Toolkit{
			Title:   "oairepo",
			Author:  "Test",
			Version: "test",
		},
	}
}

// Date builds a UTC timestamp from a date string, panicking on bad input so
// fixtures stay terse.
func Date(s string) time.Time {
	t, err := time.Parse("2006-01-02T15:04:05Z", s)
	if err != nil {
		panic(err)
	}
	return t
}

func int64p(v int64) *int64 { return &v }

// Source returns an in-memory archive with two collections, two item types
// and five public items (ids 1 through 5), added oldest first.
func Source() *content.Memory {
	m := content.NewMemory()
	m.CollectionList = []content.Collection{
		{
			ID: 1, Public: true,
			Title:      "Manuscrits",
			Identifier: "MSS",
			Elements: map[string][]string{
				"title":       {"Manuscrits"},
				"identifier":  {"MSS"},
				"description": {"Manuscrits de la bibliothèque"},
			},
		},
		{
			ID: 2, Public: true,
			Title:      "Photographs",
			Identifier: "PHOTO",
			Elements: map[string][]string{
				"title":      {"Photographs"},
				"identifier": {"PHOTO"},
			},
		},
	}
	m.ItemTypeList = []content.ItemType{
		{ID: 1, Name: "Text", Description: "Written resources."},
		{ID: 2, Name: "Still Image", Description: "Static images."},
	}
	m.ItemList = []content.Item{
		{
			ID: 1, Public: true,
			Added:        Date("1999-03-12T09:00:00Z"),
			Modified:     Date("1999-03-12T09:00:00Z"),
			CollectionID: int64p(1),
			ItemTypeID:   int64p(1),
			ItemTypeName: "Text",
			Elements: map[string][]string{
				"title":   {"Lettres de Sorbonne"},
				"creator": {"Dupont, Marie"},
				"type":    {"Manuscrit"},
			},
			FileURLs:     []string{"/files/original/lettres.pdf"},
			ThumbnailURL: "/files/original/lettres.pdf",
		},
		{
			ID: 2, Public: true,
			Added:        Date("2004-07-02T14:30:00Z"),
			Modified:     Date("2004-07-02T14:30:00Z"),
			CollectionID: int64p(1),
			ItemTypeID:   int64p(1),
			ItemTypeName: "Text",
			Elements: map[string][]string{
				"title": {"Registre des délibérations"},
				"type":  {"Texte imprimé"},
			},
		},
		{
			ID: 3, Public: true,
			Added:        Date("2010-11-20T08:15:00Z"),
			Modified:     Date("2010-11-20T08:15:00Z"),
			CollectionID: int64p(2),
			ItemTypeID:   int64p(2),
			ItemTypeName: "Still Image",
			Elements: map[string][]string{
				"title":   {"Vue du quartier latin"},
				"creator": {"Atget, Eugène"},
				"type":    {"Photographie"},
			},
		},
		{
			ID: 4, Public: true,
			Added:        Date("2015-05-01T16:45:00Z"),
			Modified:     Date("2015-05-01T16:45:00Z"),
			CollectionID: int64p(2),
			ItemTypeID:   int64p(2),
			ItemTypeName: "Still Image",
			Elements: map[string][]string{
				"title": {"Portrait d'inconnu"},
				"type":  {"Carte postale"},
			},
		},
		{
			ID: 5, Public: true,
			Added:      Date("2020-01-15T12:00:00Z"),
			Modified:   Date("2020-01-15T12:00:00Z"),
			ItemTypeID: int64p(1),
			Elements: map[string][]string{
				"title": {"Uncatalogued pamphlet"},
				"type":  {"Document d'archives"},
			},
		},
	}
	return m
}

// Tokens returns an empty in-memory token store.
func Tokens() *token.Memory {
	return token.NewMemory()
}

// Pipeline loads the embedded vocabulary table with the given default
// language.
func Pipeline(defaultLanguage string) *vocab.Pipeline {
	table, err := vocab.Load()
	if err != nil {
		panic(err)
	}
	return vocab.NewPipeline(table, defaultLanguage)
}
