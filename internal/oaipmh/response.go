package oaipmh

import (
	"encoding/xml"
)

// Protocol constants.
const (
	ProtocolVersion = "2.0"
	namespaceURI    = "http://www.openarchives.org/OAI/2.0/"
	schemaURI       = "http://www.openarchives.org/OAI/2.0/OAI-PMH.xsd"
	xsiNamespaceURI = "http://www.w3.org/2001/XMLSchema-instance"

	toolkitNamespaceURI = "http://oai.dlib.vt.edu/OAI/metadata/toolkit"
	toolkitSchemaURI    = "http://oai.dlib.vt.edu/OAI/metadata/toolkit.xsd"
)

// Document is the complete OAI-PMH response tree. It is built in memory and
// serialized once, which keeps the element ordering the schema requires.
// Exactly one verb field is set on success; Errors is set otherwise.
type Document struct {
	XMLName        xml.Name `xml:"OAI-PMH"`
	Xmlns          string   `xml:"xmlns,attr"`
	XmlnsXsi       string   `xml:"xmlns:xsi,attr"`
	SchemaLocation string   `xml:"xsi:schemaLocation,attr"`

	ResponseDate string      `xml:"responseDate"`
	Request      RequestNode `xml:"request"`

	Errors []ErrorNode `xml:"error"`

	Identify            *IdentifyNode    `xml:"Identify"`
	GetRecord           *GetRecordNode   `xml:"GetRecord"`
	ListMetadataFormats *ListFormatsNode `xml:"ListMetadataFormats"`
	ListSets            *ListSetsNode    `xml:"ListSets"`
	ListIdentifiers     *ListNode        `xml:"ListIdentifiers"`
	ListRecords         *ListNode        `xml:"ListRecords"`
}

func newDocument(baseURL, responseDate string) *Document {
	return &Document{
		Xmlns:          namespaceURI,
		XmlnsXsi:       xsiNamespaceURI,
		SchemaLocation: namespaceURI + " " + schemaURI,
		ResponseDate:   responseDate,
		Request:        RequestNode{BaseURL: baseURL},
	}
}

// Serialize renders the document with the XML declaration.
func (d *Document) Serialize() ([]byte, error) {
	body, err := xml.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(xml.Header)+len(body)+1)
	out = append(out, xml.Header...)
	out = append(out, body...)
	out = append(out, '\n')
	return out, nil
}

// HasErrors reports whether any protocol error was raised.
func (d *Document) HasErrors() bool {
	return len(d.Errors) > 0
}

// RequestNode echoes the request back to the harvester. Attributes are only
// filled in when the request validated cleanly.
type RequestNode struct {
	Verb            string `xml:"verb,attr,omitempty"`
	Identifier      string `xml:"identifier,attr,omitempty"`
	MetadataPrefix  string `xml:"metadataPrefix,attr,omitempty"`
	From            string `xml:"from,attr,omitempty"`
	Until           string `xml:"until,attr,omitempty"`
	Set             string `xml:"set,attr,omitempty"`
	ResumptionToken string `xml:"resumptionToken,attr,omitempty"`
	BaseURL         string `xml:",chardata"`
}

type ErrorNode struct {
	Code    ErrorCode `xml:"code,attr"`
	Message string    `xml:",chardata"`
}

// IdentifyNode carries the repository identity in the field order the
// schema requires.
type IdentifyNode struct {
	RepositoryName    string            `xml:"repositoryName"`
	BaseURL           string            `xml:"baseURL"`
	ProtocolVersion   string            `xml:"protocolVersion"`
	AdminEmail        string            `xml:"adminEmail"`
	EarliestDatestamp string            `xml:"earliestDatestamp"`
	DeletedRecord     string            `xml:"deletedRecord"`
	Granularity       string            `xml:"granularity"`
	Compression       []string          `xml:"compression"`
	Descriptions      []DescriptionNode `xml:"description"`
}

// DescriptionNode wraps one of the Identify description blocks.
type DescriptionNode struct {
	OaiIdentifier *OaiIdentifierNode `xml:"oai-identifier"`
	Toolkit       *ToolkitNode       `xml:"toolkit"`
}

// OaiIdentifierNode describes the identifier scheme of the repository.
type OaiIdentifierNode struct {
	Xmlns                string `xml:"xmlns,attr"`
	XmlnsXsi             string `xml:"xmlns:xsi,attr"`
	SchemaLocation       string `xml:"xsi:schemaLocation,attr"`
	Scheme               string `xml:"scheme"`
	RepositoryIdentifier string `xml:"repositoryIdentifier"`
	Delimiter            string `xml:"delimiter"`
	SampleIdentifier     string `xml:"sampleIdentifier"`
}

func newOaiIdentifierNode(ns Namespace) *OaiIdentifierNode {
	return &OaiIdentifierNode{
		Xmlns:                identifierNamespaceURI,
		XmlnsXsi:             xsiNamespaceURI,
		SchemaLocation:       identifierNamespaceURI + " " + identifierSchemaURI,
		Scheme:               identifierScheme,
		RepositoryIdentifier: ns.ID(),
		Delimiter:            ":",
		SampleIdentifier:     ns.SampleIdentifier(),
	}
}

// ToolkitNode is the self-description of the software hosting the
// repository.
type ToolkitNode struct {
	Xmlns          string `xml:"xmlns,attr"`
	XmlnsXsi       string `xml:"xmlns:xsi,attr"`
	SchemaLocation string `xml:"xsi:schemaLocation,attr"`
	Title          string `xml:"title"`
	Author         string `xml:"author>name"`
	Version        string `xml:"version"`
	URL            string `xml:"URL"`
}

type GetRecordNode struct {
	Record RecordNode `xml:"record"`
}

type ListFormatsNode struct {
	Formats []FormatNode `xml:"metadataFormat"`
}

type FormatNode struct {
	MetadataPrefix    string `xml:"metadataPrefix"`
	Schema            string `xml:"schema"`
	MetadataNamespace string `xml:"metadataNamespace"`
}

type ListSetsNode struct {
	Sets []SetNode `xml:"set"`
}

type SetNode struct {
	Spec        string              `xml:"setSpec"`
	Name        string              `xml:"setName"`
	Description *SetDescriptionNode `xml:"setDescription"`
}

// SetDescriptionNode holds an arbitrary description payload, typically an
// oai_dc:dc container.
type SetDescriptionNode struct {
	Body any
}

// ListNode is the shared shape of ListIdentifiers and ListRecords.
// Exactly one of Headers or Records is populated.
type ListNode struct {
	Headers         []HeaderNode         `xml:"header"`
	Records         []RecordNode         `xml:"record"`
	ResumptionToken *ResumptionTokenNode `xml:"resumptionToken"`
}

type HeaderNode struct {
	Identifier string   `xml:"identifier"`
	Datestamp  string   `xml:"datestamp"`
	SetSpecs   []string `xml:"setSpec"`
}

type RecordNode struct {
	Header   HeaderNode    `xml:"header"`
	Metadata *MetadataNode `xml:"metadata"`
}

// MetadataNode wraps the format-specific payload produced by the metadata
// format plugin.
type MetadataNode struct {
	Body any
}

// ResumptionTokenNode is the flow-control element of list responses. A
// terminal token has no attributes and an empty body.
type ResumptionTokenNode struct {
	ExpirationDate   string `xml:"expirationDate,attr,omitempty"`
	CompleteListSize int    `xml:"completeListSize,attr,omitempty"`
	Cursor           *int   `xml:"cursor,attr,omitempty"`
	Value            string `xml:",chardata"`
}
