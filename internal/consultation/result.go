package consultation

import (
	"github.com/nexconsult/justice-tools/internal/identifier"
	"github.com/nexconsult/justice-tools/internal/webjustice"
)

// Status tells a successful Result from a failed one.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Tool names reported in every Result.
const (
	ToolProcess  = "process_consultation"
	ToolDocument = "document_consultation"
)

// ErrorCode classifies a failed consultation.
type ErrorCode string

const (
	// CodeNoIdentifier means the text had no valid identifier of the
	// requested kind.
	CodeNoIdentifier ErrorCode = "NO_IDENTIFIER_FOUND"
	// CodeInitiationFailed means the API accepted the search but returned no
	// job id.
	CodeInitiationFailed ErrorCode = "SEARCH_INITIATION_FAILED"
	// CodeConsultation covers known failures: API errors, request and polling
	// timeouts, authentication and cancellation.
	CodeConsultation ErrorCode = "CONSULTATION_ERROR"
	CodeUnexpected   ErrorCode = "UNEXPECTED_ERROR"
	// CodeMissingInput is used by entry points that received no text at all.
	CodeMissingInput ErrorCode = "MISSING_INPUT"
)

// Query echoes what was searched.
type Query struct {
	Identifier string                `json:"identifier"`
	Digits     string                `json:"digits"`
	Type       identifier.Kind       `json:"identifier_type"`
	SearchType webjustice.SearchType `json:"search_type"`
}

// SearchInfo echoes the job metadata returned when the search was started.
type SearchInfo struct {
	JobID    string `json:"job_id"`
	UserID   string `json:"user_id,omitempty"`
	UserRole string `json:"user_role,omitempty"`
}

// Summary is derived from the result payload.
type Summary struct {
	TotalProcesses    int    `json:"total_processes"`
	DocumentSearched  string `json:"document_searched"`
	SearchCompletedAt string `json:"search_completed_at,omitempty"`
}

// ErrorInfo describes why a consultation failed.
type ErrorInfo struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// Result is the outcome of one consultation. A success carries Query,
// SearchInfo, Data and Summary; an error carries only Error. Data is always
// serialized, as null on errors.
type Result struct {
	Status     Status                `json:"status"`
	Tool       string                `json:"tool"`
	Query      *Query                `json:"query,omitempty"`
	SearchInfo *SearchInfo           `json:"search_info,omitempty"`
	Data       *webjustice.ResultSet `json:"data"`
	Summary    *Summary              `json:"summary,omitempty"`
	Error      *ErrorInfo            `json:"error,omitempty"`
}

// Succeeded reports whether the consultation produced data.
func (r *Result) Succeeded() bool {
	return r != nil && r.Status == StatusSuccess
}

// ErrorResult builds a failed Result.
func ErrorResult(tool string, code ErrorCode, message string) *Result {
	return &Result{
		Status: StatusError,
		Tool:   tool,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	}
}

func successResult(id identifier.Identifier, searchType webjustice.SearchType, initiated *webjustice.InitiateResponse, results *webjustice.ResultSet) *Result {
	if results == nil {
		results = &webjustice.ResultSet{}
	}
	details := results.Details

	searched := details.Documento
	if searched == "" {
		searched = id.Formatted
	}

	return &Result{
		Status: StatusSuccess,
		Tool:   ToolFor(id.Kind),
		Query: &Query{
			Identifier: id.Formatted,
			Digits:     id.Digits,
			Type:       id.Kind,
			SearchType: searchType,
		},
		SearchInfo: &SearchInfo{
			JobID:    string(initiated.JobID),
			UserID:   string(initiated.UserID),
			UserRole: initiated.UserRole,
		},
		Data: results,
		Summary: &Summary{
			TotalProcesses:    details.TotalProcessos,
			DocumentSearched:  searched,
			SearchCompletedAt: details.SearchCompletedAt,
		},
	}
}

// ToolFor names the tool that consults identifiers of kind. Process numbers
// go to the process tool; everything else is a document consultation.
func ToolFor(kind identifier.Kind) string {
	if kind == identifier.KindCNJ {
		return ToolProcess
	}
	return ToolDocument
}

func searchTarget(id identifier.Identifier) (string, webjustice.SearchType) {
	if id.Kind == identifier.KindCNJ {
		return id.Formatted, webjustice.SearchTypeProcess
	}
	return id.Digits, webjustice.SearchTypeDocument
}

// NoIdentifier is the Result of a consultation whose text held no valid
// identifier of kind.
func NoIdentifier(kind identifier.Kind) *Result {
	return ErrorResult(ToolFor(kind), CodeNoIdentifier, noIdentifierMessage(kind))
}

func noIdentifierMessage(kind identifier.Kind) string {
	switch {
	case kind == identifier.KindCNJ:
		return "No valid process number found in your message. Please provide a process number in the format: NNNNNNN-DD.AAAA.J.TR.OOOO"
	case kind.Has(identifier.KindCNJ):
		return "No valid CPF, CNPJ or process number found in your message."
	default:
		return "No valid CPF or CNPJ found in your message. Please provide a valid CPF (XXX.XXX.XXX-XX) or CNPJ (XX.XXX.XXX/XXXX-XX)."
	}
}
