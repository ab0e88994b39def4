package webjustice

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// SearchType tells the API how to interpret the searched value.
type SearchType string

const (
	SearchTypeDocument SearchType = "document"
	SearchTypeProcess  SearchType = "process"
)

// FlexString decodes JSON strings, numbers and null into a string. The API
// is not consistent about the type of identifiers such as user_id.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

// InitiateResponse is returned by POST /api/ai-agent/initiate-search.
type InitiateResponse struct {
	JobID    FlexString `json:"job_id"`
	UserID   FlexString `json:"user_id"`
	UserRole string     `json:"user_role"`
	Status   string     `json:"status,omitempty"`
	Message  string     `json:"message,omitempty"`
}

// SearchStatus is returned by GET /api/searches/{job_id}/detailed-status.
type SearchStatus struct {
	JobID                  FlexString `json:"job_id,omitempty"`
	CurrentStatus          string     `json:"current_status"`
	ProgressPercentage     float64    `json:"progress_percentage"`
	CurrentPhase           string     `json:"current_phase"`
	IsReadyForConsultation bool       `json:"is_ready_for_consultation"`
}

// Documento is a court document attached to a process.
type Documento struct {
	IDDocumento        int64  `json:"id_documento,omitempty"`
	DataJuntada        string `json:"data_juntada,omitempty"`
	NomeArquivo        string `json:"nome_arquivo,omitempty"`
	LinkTexto          string `json:"link_texto,omitempty"`
	SequenciaDocumento int64  `json:"sequencia_documento,omitempty"`
	IDOrigemDocumento  int64  `json:"id_origem_documento,omitempty"`
	HashDocumento      string `json:"hash_documento,omitempty"`
	TextoExtraido      string `json:"texto_extraido,omitempty"`
}

// Processo is a legal process as returned by the API.
type Processo struct {
	NumeroProcesso   string      `json:"numero_processo"`
	Tribunal         string      `json:"tribunal,omitempty"`
	Vara             string      `json:"vara,omitempty"`
	DataDistribuicao string      `json:"data_distribuicao,omitempty"`
	Status           string      `json:"status,omitempty"`
	StatusAtual      string      `json:"status_atual,omitempty"`
	ValorAcao        *float64    `json:"valor_acao,omitempty"`
	PoloAtivo        []string    `json:"polo_ativo,omitempty"`
	PoloPassivo      []string    `json:"polo_passivo,omitempty"`
	Movimentos       []string    `json:"movimentos,omitempty"`
	Assuntos         []string    `json:"assuntos,omitempty"`
	Documentos       []Documento `json:"documentos,omitempty"`
}

// ResultDetails is the part of a result payload the tools read.
type ResultDetails struct {
	TotalProcessos    int        `json:"total_processos"`
	Documento         string     `json:"documento,omitempty"`
	SearchCompletedAt string     `json:"search_completed_at,omitempty"`
	Processos         []Processo `json:"processos,omitempty"`
}

// ResultSet is the payload of GET /api/ai-agent/processos/{identifier}. Raw
// keeps the document exactly as received; Details is read from whichever of
// "data_details", "data" or the root object carries it.
type ResultSet struct {
	Raw     json.RawMessage
	Details ResultDetails
}

// MarshalJSON re-emits the payload as received.
func (r ResultSet) MarshalJSON() ([]byte, error) {
	if len(r.Raw) == 0 {
		return []byte("null"), nil
	}
	return r.Raw, nil
}

func (r *ResultSet) UnmarshalJSON(data []byte) error {
	details, err := normalizeDetails(data)
	if err != nil {
		return err
	}
	r.Raw = append(json.RawMessage(nil), data...)
	r.Details = details
	return nil
}

// normalizeDetails reconciles the two nesting conventions of the API. Any
// field with an unexpected type is left at its zero value.
func normalizeDetails(data []byte) (ResultDetails, error) {
	var root map[string]json.RawMessage
	if err := json.Unmarshal(data, &root); err != nil {
		return ResultDetails{}, err
	}

	fields := root
	for _, key := range []string{"data_details", "data"} {
		var nested map[string]json.RawMessage
		if raw, ok := root[key]; ok && json.Unmarshal(raw, &nested) == nil && len(nested) > 0 {
			fields = nested
			break
		}
	}

	var details ResultDetails
	details.TotalProcessos = lenientInt(fields["total_processos"])
	details.Documento = lenientString(fields["documento"])
	details.SearchCompletedAt = lenientString(fields["search_completed_at"])

	if raw, ok := fields["processos"]; ok {
		var processos []Processo
		if json.Unmarshal(raw, &processos) == nil {
			details.Processos = processos
		}
	}
	return details, nil
}

func lenientString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s FlexString
	if json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return string(s)
}

func lenientInt(raw json.RawMessage) int {
	s := strings.TrimSpace(lenientString(raw))
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}
