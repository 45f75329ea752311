package oaipmh

import (
	"fmt"
	"strconv"
	"strings"
)

// oai-identifier description constants.
const (
	identifierScheme       = "oai"
	identifierNamespaceURI = "http://www.openarchives.org/OAI/2.0/oai-identifier"
	identifierSchemaURI    = "http://www.openarchives.org/OAI/2.0/oai-identifier.xsd"
)

// Namespace forms and resolves globally unique oai identifiers of the shape
// oai:<namespace>:<id>. The namespace is a registered domain name.
type Namespace struct {
	id string
}

func NewNamespace(id string) Namespace {
	return Namespace{id: id}
}

// ID returns the namespace identifier itself.
func (n Namespace) ID() string {
	return n.id
}

// ItemToOaiID builds the oai identifier for an internal item id.
func (n Namespace) ItemToOaiID(itemID int64) string {
	return fmt.Sprintf("%s:%s:%d", identifierScheme, n.id, itemID)
}

// OaiIDToItem resolves an oai identifier back to the internal item id. The
// second return value is false when the scheme or namespace does not match
// exactly or the id part is not numeric; resolution failures are soft.
func (n Namespace) OaiIDToItem(oaiID string) (int64, bool) {
	rest, ok := strings.CutPrefix(oaiID, identifierScheme+":"+n.id+":")
	if !ok {
		return 0, false
	}
	itemID, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || itemID <= 0 {
		return 0, false
	}
	return itemID, true
}

// SampleIdentifier is reported in the Identify oai-identifier description.
func (n Namespace) SampleIdentifier() string {
	return n.ItemToOaiID(1)
}
