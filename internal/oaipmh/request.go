package oaipmh

import (
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Request is one inbound OAI-PMH query, already parsed out of the HTTP
// framing by the surrounding server layer.
type Request struct {
	Method string
	Query  url.Values
}

// args is the validated argument set of one request.
type args struct {
	verb            Verb
	identifier      string
	metadataPrefix  string
	set             string
	resumptionToken string

	from      *time.Time
	until     *time.Time
	fromRaw   string
	untilRaw  string
	untilGran Granularity
}

// validate checks the request against the protocol's argument rules and
// returns the parsed arguments together with every violation found. All
// simultaneous argument errors are reported, not just the first.
func (e *Engine) validate(req Request) (args, []Error) {
	var (
		a    args
		errs []Error
	)
	fail := func(code ErrorCode, message string) {
		errs = append(errs, newError(code, message))
	}

	if req.Method != http.MethodGet && req.Method != http.MethodPost {
		fail(ErrBadArgument, fmt.Sprintf(
			"The OAI-PMH protocol version 2.0 supports only GET and POST requests, not %q.", req.Method))
	}

	verbValue := req.Query.Get("verb")
	if verbValue == "" {
		fail(ErrBadVerb, "No verb specified.")
		return a, errs
	}

	var rules verbArgs
	verb, known := parseVerb(verbValue)
	if known {
		a.verb = verb
		rules = verbTable[verb]
	} else {
		fail(ErrBadVerb, fmt.Sprintf("Illegal OAI-PMH verb %q.", verbValue))
	}

	a.resumptionToken = req.Query.Get("resumptionToken")
	if a.resumptionToken != "" {
		// The token stands in for every other argument.
		rules = verbArgs{required: []string{"resumptionToken"}}
	}

	// Browsers and harvesters may repeat arguments; the protocol forbids
	// it. Multi-valued queries surface repeats directly. POST bodies are
	// not checked.
	if req.Method == http.MethodGet {
		for _, vals := range req.Query {
			if len(vals) > 1 {
				fail(ErrBadArgument, "Duplicate arguments in request.")
				break
			}
		}
	}

	allowed := map[string]bool{"verb": true}
	for _, name := range rules.required {
		allowed[name] = true
		if req.Query.Get(name) == "" {
			fail(ErrBadArgument, fmt.Sprintf("Missing required argument %s.", name))
		}
	}
	for _, name := range rules.optional {
		allowed[name] = true
	}
	for name := range req.Query {
		if !allowed[name] {
			fail(ErrBadArgument, fmt.Sprintf("Unknown argument %s.", name))
		}
	}

	a.identifier = req.Query.Get("identifier")
	a.set = req.Query.Get("set")
	a.fromRaw = req.Query.Get("from")
	a.untilRaw = req.Query.Get("until")

	var fromGran, untilGran Granularity
	if a.fromRaw != "" {
		t, g, err := ParseDate(a.fromRaw)
		if err != nil {
			fail(ErrBadArgument, "Invalid date/time argument.")
		} else {
			a.from = &t
			fromGran = g
		}
	}
	if a.untilRaw != "" {
		t, g, err := ParseDate(a.untilRaw)
		if err != nil {
			fail(ErrBadArgument, "Invalid date/time argument.")
		} else {
			a.until = &t
			a.untilGran = g
			untilGran = g
		}
	}
	if fromGran != GranularityNone && untilGran != GranularityNone && fromGran != untilGran {
		fail(ErrBadArgument, "Date/time arguments of differing granularity.")
	}

	a.metadataPrefix = req.Query.Get("metadataPrefix")
	if a.metadataPrefix != "" {
		if _, ok := e.formats.Get(a.metadataPrefix); !ok {
			fail(ErrCannotDisseminateFormat, "")
		}
	}

	return a, errs
}
