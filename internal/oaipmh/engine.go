package oaipmh

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"time"

	"oairepo/internal/config"
	"oairepo/internal/content"
	"oairepo/internal/metadata"
	"oairepo/internal/token"
	"oairepo/internal/vocab"
)

// maxSetValueLen is the longest dc:type value representable as a set spec.
const maxSetValueLen = 190

const untitledName = "[Untitled]"

// Engine answers OAI-PMH requests. It owns the verb dispatch and builds one
// response document per request; the HTTP layer only does framing.
type Engine struct {
	cfg     config.Config
	source  content.Source
	tokens  token.Store
	formats *metadata.Registry
	// pipeline is nil when the vocabulary mapping is disabled.
	pipeline *vocab.Pipeline
	ns       Namespace
	logger   *log.Logger

	// now is the clock, replaceable in tests.
	now func() time.Time
}

func NewEngine(
	cfg config.Config,
	source content.Source,
	tokens token.Store,
	formats *metadata.Registry,
	pipeline *vocab.Pipeline,
	logger *log.Logger,
) *Engine {
	return &Engine{
		cfg:      cfg,
		source:   source,
		tokens:   tokens,
		formats:  formats,
		pipeline: pipeline,
		ns:       NewNamespace(cfg.NamespaceID),
		logger:   logger,
		now:      time.Now,
	}
}

// Handle runs one request through validation and verb dispatch. Protocol
// errors end up inside the document; the returned error reports collaborator
// failures only and maps to an HTTP 500.
func (e *Engine) Handle(ctx context.Context, req Request) (*Document, error) {
	doc := newDocument(e.cfg.BaseURL, FormatUTC(e.now().UTC()))

	a, errs := e.validate(req)
	if len(errs) > 0 {
		for _, pe := range errs {
			doc.Errors = append(doc.Errors, ErrorNode(pe))
		}
		return doc, nil
	}

	// The request arguments are echoed back only once they validated.
	doc.Request.Verb = string(a.verb)
	doc.Request.Identifier = a.identifier
	doc.Request.MetadataPrefix = a.metadataPrefix
	doc.Request.From = a.fromRaw
	doc.Request.Until = a.untilRaw
	doc.Request.Set = a.set
	doc.Request.ResumptionToken = a.resumptionToken

	var err error
	switch {
	case a.resumptionToken != "":
		err = e.resumeList(ctx, doc, a)
	case a.verb == VerbIdentify:
		err = e.identify(ctx, doc)
	case a.verb == VerbGetRecord:
		err = e.getRecord(ctx, doc, a)
	case a.verb == VerbListMetadataFormats:
		e.listMetadataFormats(doc, a)
	case a.verb == VerbListSets:
		err = e.listSets(ctx, doc)
	case a.verb == VerbListIdentifiers || a.verb == VerbListRecords:
		var until *time.Time
		if a.until != nil {
			bounded := UntilBound(*a.until, a.untilGran)
			until = &bounded
		}
		err = e.listResponse(ctx, doc, a.verb, a.metadataPrefix, 0, a.set, a.from, until)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", a.verb, err)
	}
	return doc, nil
}

func (e *Engine) fail(doc *Document, code ErrorCode, message string) {
	doc.Errors = append(doc.Errors, ErrorNode(newError(code, message)))
}

func (e *Engine) identify(ctx context.Context, doc *Document) error {
	earliest, err := e.source.EarliestDate(ctx)
	if err != nil {
		return err
	}
	if earliest.IsZero() {
		earliest = time.Unix(0, 0)
	}

	node := &IdentifyNode{
		RepositoryName:    e.cfg.RepositoryName,
		BaseURL:           e.cfg.BaseURL,
		ProtocolVersion:   ProtocolVersion,
		AdminEmail:        e.cfg.AdminEmail,
		EarliestDatestamp: FormatUTC(earliest.UTC()),
		DeletedRecord:     "no",
		Granularity:       GranularityString,
		Compression:       e.cfg.Compression,
	}
	node.Descriptions = append(node.Descriptions, DescriptionNode{
		OaiIdentifier: newOaiIdentifierNode(e.ns),
	})
	if tk := e.cfg.Toolkit; tk.Title != "" {
		node.Descriptions = append(node.Descriptions, DescriptionNode{
			Toolkit: &ToolkitNode{
				Xmlns:          toolkitNamespaceURI,
				XmlnsXsi:       xsiNamespaceURI,
				SchemaLocation: toolkitNamespaceURI + " " + toolkitSchemaURI,
				Title:          tk.Title,
				Author:         tk.Author,
				Version:        tk.Version,
				URL:            tk.URL,
			},
		})
	}

	doc.Identify = node
	return nil
}

func (e *Engine) getRecord(ctx context.Context, doc *Document, a args) error {
	itemID, ok := e.ns.OaiIDToItem(a.identifier)
	if !ok {
		e.fail(doc, ErrIdDoesNotExist, "")
		return nil
	}

	item, err := e.source.Item(ctx, itemID)
	if err != nil {
		return err
	}
	if item == nil {
		e.fail(doc, ErrIdDoesNotExist, "")
		return nil
	}

	collections, err := e.collectionsByID(ctx)
	if err != nil {
		return err
	}
	record, err := e.buildRecord(item, a.metadataPrefix, collections)
	if err != nil {
		return err
	}
	doc.GetRecord = &GetRecordNode{Record: record}
	return nil
}

// listMetadataFormats reports every registered format. The identifier only
// has its syntax checked; no item lookup happens.
func (e *Engine) listMetadataFormats(doc *Document, a args) {
	if a.identifier != "" {
		if _, ok := e.ns.OaiIDToItem(a.identifier); !ok {
			e.fail(doc, ErrIdDoesNotExist, "")
			return
		}
	}

	node := &ListFormatsNode{}
	for _, f := range e.formats.All() {
		node.Formats = append(node.Formats, FormatNode{
			MetadataPrefix:    f.Prefix(),
			Schema:            f.Schema(),
			MetadataNamespace: f.Namespace(),
		})
	}
	doc.ListMetadataFormats = node
}

func (e *Engine) listSets(ctx context.Context, doc *Document) error {
	if !e.cfg.ExposesSets() {
		e.fail(doc, ErrNoSetHierarchy, "")
		return nil
	}

	flat := e.cfg.FlatSetSpecs()
	var sets []SetNode

	if e.cfg.ExposesItemSets() {
		collections, err := e.source.Collections(ctx, !e.cfg.ExposeEmptyCollections)
		if err != nil {
			return err
		}
		for i := range collections {
			col := &collections[i]
			name := collectionName(col)
			spec, ok := e.collectionSpec(col, flat)
			if !ok {
				continue
			}
			sets = append(sets, SetNode{
				Spec:        QualifySetSpec(flat, CategoryItemSet, spec),
				Name:        name,
				Description: e.collectionDescription(col),
			})
		}
	}

	if e.cfg.ExposesItemTypes() {
		itemTypes, err := e.source.ItemTypes(ctx)
		if err != nil {
			return err
		}
		for i := range itemTypes {
			it := &itemTypes[i]
			spec, ok := e.itemTypeSpec(it, flat)
			if !ok {
				continue
			}
			var desc *SetDescriptionNode
			if it.Description != "" {
				dc := metadata.NewDC()
				dc.Add("description", "", it.Description)
				desc = &SetDescriptionNode{Body: dc}
			}
			sets = append(sets, SetNode{
				Spec:        QualifySetSpec(flat, CategoryType, spec),
				Name:        it.Name,
				Description: desc,
			})
		}
	}

	if e.cfg.ExposesDcTypes() {
		values, err := e.source.DistinctTypeValues(ctx)
		if err != nil {
			return err
		}
		list := make(map[string]string)
		for _, value := range values {
			spec, ok := CleanSetString(value)
			if !ok {
				e.logf("level=warn msg=\"skipped dc:type value, not representable as a set spec\" value=%q", value)
				continue
			}
			list[spec] = value
		}
		e.completeTypeSetList(list)
		for _, spec := range sortedKeys(list) {
			sets = append(sets, SetNode{
				Spec: QualifySetSpec(flat, CategoryType, spec),
				Name: list[spec],
			})
		}
	}

	if len(sets) == 0 {
		e.fail(doc, ErrNoSetHierarchy, "")
		return nil
	}
	doc.ListSets = &ListSetsNode{Sets: sets}
	return nil
}

// completeTypeSetList adds a set for every vocabulary companion of the
// dc:type values already listed. Existing entries win on spec collisions.
func (e *Engine) completeTypeSetList(list map[string]string) {
	if e.pipeline == nil {
		return
	}
	for _, spec := range sortedKeys(list) {
		for _, syn := range e.pipeline.Synonyms("type", list[spec]) {
			if len(syn.Text) > maxSetValueLen || strings.ContainsAny(syn.Text, ":_") {
				continue
			}
			synSpec, ok := CleanSetString(syn.Text)
			if !ok {
				continue
			}
			if _, exists := list[synSpec]; !exists {
				list[synSpec] = syn.Text
			}
		}
	}
}

// collectionDescription builds the setDescription body from the
// collection's own Dublin Core values. The first title is dropped since it
// already appears as the setName.
func (e *Engine) collectionDescription(col *content.Collection) *SetDescriptionNode {
	dc := metadata.NewDC()
	for _, term := range metadata.DCTerms() {
		texts := col.Elements[term]
		if term == "title" && len(texts) > 0 {
			texts = texts[1:]
		}
		for _, text := range texts {
			dc.Add(term, "", text)
		}
	}
	if len(dc.Elements) == 0 {
		return nil
	}
	return &SetDescriptionNode{Body: dc}
}

// resumeList continues a paginated list from a stored token. Expired and
// foreign-verb tokens are rejected the same way as unknown ones.
func (e *Engine) resumeList(ctx context.Context, doc *Document, a args) error {
	if err := e.tokens.PurgeExpired(ctx); err != nil {
		return err
	}
	t, err := e.tokens.Find(ctx, a.resumptionToken)
	if err != nil {
		return err
	}
	if t == nil || t.Verb != string(a.verb) {
		e.fail(doc, ErrBadResumptionToken, "")
		return nil
	}
	return e.listResponse(ctx, doc, a.verb, t.MetadataPrefix, t.Cursor, t.Set, t.From, t.Until)
}

// listResponse serves ListIdentifiers and ListRecords, first page and
// resumed pages alike. The until bound is already exclusive here.
func (e *Engine) listResponse(
	ctx context.Context,
	doc *Document,
	verb Verb,
	metadataPrefix string,
	cursor int,
	set string,
	from, until *time.Time,
) error {
	q := content.Query{
		From:   from,
		Until:  until,
		Limit:  e.cfg.ListLimit,
		Offset: cursor,
	}
	if set != "" {
		ok, err := e.resolveSet(ctx, set, &q)
		if err != nil {
			return err
		}
		if !ok {
			e.fail(doc, ErrNoRecordsMatch, "")
			return nil
		}
	}

	items, total, err := e.source.Items(ctx, q)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		e.fail(doc, ErrNoRecordsMatch, "")
		return nil
	}

	collections, err := e.collectionsByID(ctx)
	if err != nil {
		return err
	}

	node := &ListNode{}
	for i := range items {
		item := &items[i]
		if verb == VerbListIdentifiers {
			node.Headers = append(node.Headers, e.buildHeader(item, collections))
			continue
		}
		record, err := e.buildRecord(item, metadataPrefix, collections)
		if err != nil {
			return err
		}
		node.Records = append(node.Records, record)
	}

	limit := e.cfg.ListLimit
	switch {
	case limit == 0:
		// Whole list in one response, no flow control.
	case total > cursor+limit:
		t, err := e.tokens.Create(ctx, token.Token{
			Verb:           string(verb),
			MetadataPrefix: metadataPrefix,
			Cursor:         cursor + limit,
			Set:            set,
			From:           from,
			Until:          until,
			Expiration:     e.now().UTC().Add(e.cfg.TokenTTL),
		})
		if err != nil {
			return err
		}
		c := cursor
		node.ResumptionToken = &ResumptionTokenNode{
			ExpirationDate:   FormatUTC(t.Expiration),
			CompleteListSize: total,
			Cursor:           &c,
			Value:            t.ID,
		}
	case cursor != 0:
		// The final page of a paginated list carries an empty token.
		node.ResumptionToken = &ResumptionTokenNode{}
	}

	if verb == VerbListIdentifiers {
		doc.ListIdentifiers = node
	} else {
		doc.ListRecords = node
	}
	return nil
}

// resolveSet translates the set argument into a query filter. It reports
// false when the argument matches no exposed set, which the caller turns
// into noRecordsMatch.
func (e *Engine) resolveSet(ctx context.Context, set string, q *content.Query) (bool, error) {
	flat := e.cfg.FlatSetSpecs()
	category, rest := SplitSetSpec(flat, set)

	hasItemSet := e.cfg.ExposesItemSets() && (flat || category == CategoryItemSet)
	hasItemType := e.cfg.ExposesItemTypes() && (flat || category == CategoryType)
	hasDcType := e.cfg.ExposesDcTypes() && (flat || category == CategoryType)

	if hasItemSet {
		switch e.cfg.ItemSetIdentifier {
		case config.ItemSetByID:
			if idStr, ok := setNumericID(flat, CategoryItemSet, rest); ok {
				if id, err := strconv.ParseInt(idStr, 10, 64); err == nil {
					q.Collection = &id
					return true, nil
				}
			}
		case config.ItemSetByIdentifier:
			// Identifiers never contain a space, so no underscore mangling
			// to undo.
			col, err := e.source.CollectionByIdentifier(ctx, rest)
			if err != nil {
				return false, err
			}
			if col != nil {
				q.Collection = &col.ID
				return true, nil
			}
		case config.ItemSetByTitle:
			col, err := e.source.CollectionByTitle(ctx, UnspaceSetValue(rest))
			if err != nil {
				return false, err
			}
			if col != nil {
				q.Collection = &col.ID
				return true, nil
			}
		}
	}

	if hasItemType {
		switch e.cfg.ItemTypeIdentifier {
		case config.ItemTypeByID:
			if idStr, ok := setNumericID(flat, CategoryType, rest); ok {
				if id, err := strconv.ParseInt(idStr, 10, 64); err == nil {
					q.ItemType = &id
					return true, nil
				}
			}
		case config.ItemTypeByName:
			it, err := e.source.ItemTypeByName(ctx, UnspaceSetValue(rest))
			if err != nil {
				return false, err
			}
			if it != nil {
				q.ItemType = &it.ID
				return true, nil
			}
		}
	}

	if hasDcType {
		value := UnspaceSetValue(rest)
		if len(value) <= maxSetValueLen && !strings.Contains(value, ":") {
			values := []string{value}
			// The spec is a cleaned form, so map it back to the stored
			// values that produce it. Exact storage matching happens on
			// those originals.
			stored, err := e.source.DistinctTypeValues(ctx)
			if err != nil {
				return false, err
			}
			for _, v := range stored {
				if s, ok := CleanSetString(v); ok && s == rest && !containsFold(values, v) {
					values = append(values, v)
				}
			}
			if e.pipeline != nil {
				for _, candidate := range append([]string(nil), values...) {
					for _, v := range e.pipeline.SearchValues("type", candidate) {
						if !containsFold(values, v) {
							values = append(values, v)
						}
					}
				}
			}
			q.TypeValues = values
			return true, nil
		}
	}

	return false, nil
}

// setNumericID extracts the numeric part of an id-based set spec. Flat
// specs carry a category prefix ("itemset_12"), hierarchical ones are the
// bare number.
func setNumericID(flat bool, category, rest string) (string, bool) {
	if flat {
		return strings.CutPrefix(rest, category+"_")
	}
	if rest == "" {
		return "", false
	}
	for _, r := range rest {
		if r < '0' || r > '9' {
			return "", false
		}
	}
	return rest, true
}

func (e *Engine) buildRecord(item *content.Item, metadataPrefix string, collections map[int64]content.Collection) (RecordNode, error) {
	format, ok := e.formats.Get(metadataPrefix)
	if !ok {
		return RecordNode{}, fmt.Errorf("unregistered metadata prefix %q", metadataPrefix)
	}
	body, err := format.Render(item)
	if err != nil {
		return RecordNode{}, err
	}
	return RecordNode{
		Header:   e.buildHeader(item, collections),
		Metadata: &MetadataNode{Body: body},
	}, nil
}

// buildHeader assembles the identifier, datestamp and every set spec the
// item belongs to under the current exposure mode.
func (e *Engine) buildHeader(item *content.Item, collections map[int64]content.Collection) HeaderNode {
	flat := e.cfg.FlatSetSpecs()
	var specs []string

	if e.cfg.ExposesItemSets() && item.CollectionID != nil {
		if col, ok := collections[*item.CollectionID]; ok {
			if spec, ok := e.collectionSpec(&col, flat); ok {
				specs = append(specs, QualifySetSpec(flat, CategoryItemSet, spec))
			}
		}
	}

	if e.cfg.ExposesItemTypes() && item.ItemTypeID != nil {
		it := content.ItemType{ID: *item.ItemTypeID, Name: item.ItemTypeName}
		if spec, ok := e.itemTypeSpec(&it, flat); ok {
			specs = append(specs, QualifySetSpec(flat, CategoryType, spec))
		}
	}

	if e.cfg.ExposesDcTypes() {
		list := make(map[string]string)
		for _, value := range item.ElementTexts("type") {
			if len(value) > maxSetValueLen || strings.ContainsAny(value, ":_") {
				continue
			}
			if spec, ok := CleanSetString(value); ok {
				list[spec] = value
			}
		}
		e.completeTypeSetList(list)
		for _, spec := range sortedKeys(list) {
			specs = append(specs, QualifySetSpec(flat, CategoryType, spec))
		}
	}

	return HeaderNode{
		Identifier: e.ns.ItemToOaiID(item.ID),
		Datestamp:  FormatUTC(item.Modified.UTC()),
		SetSpecs:   specs,
	}
}

// collectionSpec derives the bare set spec for a collection under the
// configured identifier mode. Collections whose identifying value cannot
// form a clean spec are unreachable as sets and are skipped.
func (e *Engine) collectionSpec(col *content.Collection, flat bool) (string, bool) {
	switch e.cfg.ItemSetIdentifier {
	case config.ItemSetByIdentifier:
		return CleanSetString(col.Identifier)
	case config.ItemSetByTitle:
		return CleanSetString(collectionName(col))
	default:
		spec := strconv.FormatInt(col.ID, 10)
		if flat {
			spec = CategoryItemSet + "_" + spec
		}
		return spec, true
	}
}

func (e *Engine) itemTypeSpec(it *content.ItemType, flat bool) (string, bool) {
	if e.cfg.ItemTypeIdentifier == config.ItemTypeByName {
		return CleanSetString(it.Name)
	}
	spec := strconv.FormatInt(it.ID, 10)
	if flat {
		spec = CategoryType + "_" + spec
	}
	return spec, true
}

// collectionsByID loads the public collections once per request for header
// building. Modes without collection sets skip the lookup.
func (e *Engine) collectionsByID(ctx context.Context) (map[int64]content.Collection, error) {
	if !e.cfg.ExposesItemSets() {
		return nil, nil
	}
	collections, err := e.source.Collections(ctx, false)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]content.Collection, len(collections))
	for _, col := range collections {
		byID[col.ID] = col
	}
	return byID, nil
}

func collectionName(col *content.Collection) string {
	if col.Title == "" {
		return untitledName
	}
	return col.Title
}

func (e *Engine) logf(format string, args ...any) {
	if e.logger != nil {
		e.logger.Printf(format, args...)
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
