package content

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PG implements Source on top of Postgres.
type PG struct {
	db *pgxpool.Pool
}

func NewPG(db *pgxpool.Pool) *PG {
	return &PG{db: db}
}

// maxSetValueLen mirrors the set_spec column width: longer dc:type values
// cannot be addressed as sets.
const maxSetValueLen = 190

func (r *PG) Items(ctx context.Context, q Query) ([]Item, int, error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	where = append(where, "i.public")
	if q.Collection != nil {
		where = append(where, "i.collection_id = "+arg(*q.Collection))
	}
	if q.ItemType != nil {
		where = append(where, "i.item_type_id = "+arg(*q.ItemType))
	}
	if len(q.TypeValues) > 0 {
		where = append(where, `EXISTS (
			SELECT 1 FROM element_texts et
			WHERE et.record_type = 'Item' AND et.record_id = i.id
			AND et.term = 'type' AND et.text = ANY(`+arg(q.TypeValues)+`))`)
	}
	if q.From != nil {
		p := arg(*q.From)
		where = append(where, fmt.Sprintf("(i.modified >= %s OR i.added >= %s)", p, p))
	}
	if q.Until != nil {
		p := arg(*q.Until)
		where = append(where, fmt.Sprintf("(i.modified < %s OR i.added < %s)", p, p))
	}

	query := `
	SELECT i.id, i.public, i.added, i.modified, i.collection_id, i.item_type_id,
		COALESCE(t.name, ''), count(*) OVER() AS total
	FROM items i
	LEFT JOIN item_types t ON t.id = i.item_type_id
	WHERE ` + strings.Join(where, " AND ") + `
	ORDER BY i.id`
	if q.Limit > 0 {
		query += " LIMIT " + arg(q.Limit) + " OFFSET " + arg(q.Offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var (
		items []Item
		total int
	)
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.Public, &it.Added, &it.Modified,
			&it.CollectionID, &it.ItemTypeID, &it.ItemTypeName, &total); err != nil {
			return nil, 0, err
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if err := r.loadItemDetails(ctx, items); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *PG) Item(ctx context.Context, id int64) (*Item, error) {
	query := `
	SELECT i.id, i.public, i.added, i.modified, i.collection_id, i.item_type_id,
		COALESCE(t.name, '')
	FROM items i
	LEFT JOIN item_types t ON t.id = i.item_type_id
	WHERE i.id = $1 AND i.public`

	var it Item
	err := r.db.QueryRow(ctx, query, id).Scan(&it.ID, &it.Public, &it.Added,
		&it.Modified, &it.CollectionID, &it.ItemTypeID, &it.ItemTypeName)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	items := []Item{it}
	if err := r.loadItemDetails(ctx, items); err != nil {
		return nil, err
	}
	return &items[0], nil
}

// loadItemDetails fills Elements and FileURLs for a page of items with two
// batched queries.
func (r *PG) loadItemDetails(ctx context.Context, items []Item) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]int64, len(items))
	index := make(map[int64]*Item, len(items))
	for i := range items {
		ids[i] = items[i].ID
		index[items[i].ID] = &items[i]
		items[i].Elements = make(map[string][]string)
	}

	rows, err := r.db.Query(ctx, `
	SELECT record_id, term, text FROM element_texts
	WHERE record_type = 'Item' AND record_id = ANY($1)
	ORDER BY record_id, term, position`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			id         int64
			term, text string
		)
		if err := rows.Scan(&id, &term, &text); err != nil {
			return err
		}
		it := index[id]
		it.Elements[term] = append(it.Elements[term], text)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = r.db.Query(ctx, `
	SELECT item_id, url FROM files
	WHERE item_id = ANY($1)
	ORDER BY item_id, position`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			id  int64
			url string
		)
		if err := rows.Scan(&id, &url); err != nil {
			return err
		}
		it := index[id]
		it.FileURLs = append(it.FileURLs, url)
		if it.ThumbnailURL == "" {
			it.ThumbnailURL = url
		}
	}
	return rows.Err()
}

func (r *PG) EarliestDate(ctx context.Context) (time.Time, error) {
	var earliest *time.Time
	err := r.db.QueryRow(ctx,
		`SELECT min(added) FROM items WHERE public`).Scan(&earliest)
	if err != nil {
		return time.Time{}, err
	}
	if earliest == nil {
		return time.Time{}, nil
	}
	return *earliest, nil
}

func (r *PG) Collections(ctx context.Context, onlyWithItems bool) ([]Collection, error) {
	query := `
	SELECT c.id, c.public, c.title, c.identifier
	FROM collections c
	WHERE c.public`
	if onlyWithItems {
		query += ` AND EXISTS (
		SELECT 1 FROM items i WHERE i.collection_id = c.id AND i.public)`
	}
	query += " ORDER BY c.id"

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var collections []Collection
	for rows.Next() {
		var c Collection
		if err := rows.Scan(&c.ID, &c.Public, &c.Title, &c.Identifier); err != nil {
			return nil, err
		}
		collections = append(collections, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range collections {
		if err := r.loadCollectionElements(ctx, &collections[i]); err != nil {
			return nil, err
		}
	}
	return collections, nil
}

func (r *PG) loadCollectionElements(ctx context.Context, c *Collection) error {
	c.Elements = make(map[string][]string)
	rows, err := r.db.Query(ctx, `
	SELECT term, text FROM element_texts
	WHERE record_type = 'Collection' AND record_id = $1
	ORDER BY term, position`, c.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var term, text string
		if err := rows.Scan(&term, &text); err != nil {
			return err
		}
		c.Elements[term] = append(c.Elements[term], text)
	}
	return rows.Err()
}

func (r *PG) CollectionByIdentifier(ctx context.Context, identifier string) (*Collection, error) {
	return r.collectionByElement(ctx, "identifier", identifier)
}

func (r *PG) CollectionByTitle(ctx context.Context, title string) (*Collection, error) {
	return r.collectionByElement(ctx, "title", title)
}

func (r *PG) collectionByElement(ctx context.Context, term, text string) (*Collection, error) {
	if text == "" {
		return nil, nil
	}
	var c Collection
	err := r.db.QueryRow(ctx, `
	SELECT c.id, c.public, c.title, c.identifier
	FROM collections c
	JOIN element_texts et ON et.record_type = 'Collection' AND et.record_id = c.id
	WHERE c.public AND et.term = $1 AND et.text = $2
	ORDER BY c.id
	LIMIT 1`, term, text).Scan(&c.ID, &c.Public, &c.Title, &c.Identifier)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *PG) ItemTypes(ctx context.Context) ([]ItemType, error) {
	rows, err := r.db.Query(ctx, `
	SELECT t.id, t.name, t.description
	FROM item_types t
	WHERE EXISTS (SELECT 1 FROM items i WHERE i.item_type_id = t.id AND i.public)
	ORDER BY t.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []ItemType
	for rows.Next() {
		var t ItemType
		if err := rows.Scan(&t.ID, &t.Name, &t.Description); err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, rows.Err()
}

func (r *PG) ItemTypeByName(ctx context.Context, name string) (*ItemType, error) {
	var t ItemType
	err := r.db.QueryRow(ctx, `
	SELECT id, name, description FROM item_types WHERE name = $1`, name).
		Scan(&t.ID, &t.Name, &t.Description)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *PG) DistinctTypeValues(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx, `
	SELECT DISTINCT et.text
	FROM element_texts et
	JOIN items i ON i.id = et.record_id
	WHERE et.record_type = 'Item' AND et.term = 'type' AND i.public
	AND length(et.text) <= $1
	AND et.text NOT LIKE '%:%' AND et.text NOT LIKE '%\_%'
	ORDER BY et.text`, maxSetValueLen)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}
