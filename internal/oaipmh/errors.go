package oaipmh

// ErrorCode is one of the protocol error conditions defined by OAI-PMH 2.0.
type ErrorCode string

const (
	ErrBadArgument             ErrorCode = "badArgument"
	ErrBadResumptionToken      ErrorCode = "badResumptionToken"
	ErrBadVerb                 ErrorCode = "badVerb"
	ErrCannotDisseminateFormat ErrorCode = "cannotDisseminateFormat"
	ErrIdDoesNotExist          ErrorCode = "idDoesNotExist"
	ErrNoRecordsMatch          ErrorCode = "noRecordsMatch"
	ErrNoSetHierarchy          ErrorCode = "noSetHierarchy"
)

// defaultMessages are used when a handler raises a condition without its own
// message.
var defaultMessages = map[ErrorCode]string{
	ErrBadArgument:             "The request includes illegal arguments.",
	ErrBadResumptionToken:      "The resumption token is invalid or expired.",
	ErrBadVerb:                 "The verb is illegal or missing.",
	ErrCannotDisseminateFormat: "The metadata format is not supported by this repository.",
	ErrIdDoesNotExist:          "The given identifier does not exist in this repository.",
	ErrNoRecordsMatch:          "No records match the given criteria.",
	ErrNoSetHierarchy:          "This repository does not support sets.",
}

// Error is one protocol-level error reported to the harvester. It is a
// response element, not a Go error: requests that hit one still produce a
// well-formed OAI-PMH document.
type Error struct {
	Code    ErrorCode
	Message string
}

func newError(code ErrorCode, message string) Error {
	if message == "" {
		message = defaultMessages[code]
	}
	return Error{Code: code, Message: message}
}
