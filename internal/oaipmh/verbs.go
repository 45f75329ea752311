package oaipmh

// Verb is one of the six OAI-PMH request types.
type Verb string

const (
	VerbIdentify            Verb = "Identify"
	VerbGetRecord           Verb = "GetRecord"
	VerbListIdentifiers     Verb = "ListIdentifiers"
	VerbListMetadataFormats Verb = "ListMetadataFormats"
	VerbListRecords         Verb = "ListRecords"
	VerbListSets            Verb = "ListSets"
)

// verbArgs describes the legal argument set for one verb.
type verbArgs struct {
	required []string
	optional []string
}

// verbTable is the closed set of verbs with their argument rules. Dispatch
// runs off this table; there is no name-to-method resolution.
var verbTable = map[Verb]verbArgs{
	VerbIdentify:  {},
	VerbGetRecord: {required: []string{"identifier", "metadataPrefix"}},
	VerbListIdentifiers: {
		required: []string{"metadataPrefix"},
		optional: []string{"from", "until", "set"},
	},
	VerbListRecords: {
		required: []string{"metadataPrefix"},
		optional: []string{"from", "until", "set"},
	},
	VerbListSets:            {},
	VerbListMetadataFormats: {optional: []string{"identifier"}},
}

// parseVerb returns the verb and whether it is one of the six legal ones.
func parseVerb(s string) (Verb, bool) {
	v := Verb(s)
	_, ok := verbTable[v]
	return v, ok
}
