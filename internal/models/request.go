package models

// ConsultationRequest carries the free text a consultation extracts its
// identifier from
type ConsultationRequest struct {
	Text string `json:"text" binding:"required" example:"Qual a situação do processo 0001234-56.2020.8.26.0100?"`
}

// ExtractRequest asks for every identifier of a kind found in a text
type ExtractRequest struct {
	Text string `json:"text" binding:"required" example:"CPF 529.982.247-25 e CNPJ 11.222.333/0001-81"`
	// Kind is one of CPF, CNPJ, CNJ, DOCUMENT or ANY
	Kind string `json:"kind" example:"ANY"`
}

// BatchItem is one entry of a batch consultation
type BatchItem struct {
	Text string `json:"text" binding:"required" example:"CPF 529.982.247-25"`
	// Kind is one of CPF, CNPJ, CNJ, DOCUMENT or ANY
	Kind string `json:"kind" binding:"required" example:"DOCUMENT"`
}

// BatchRequest represents a batch consultation request
type BatchRequest struct {
	Items []BatchItem `json:"items" binding:"required,min=1,dive"`
}

// ToolExecuteRequest carries the arguments of an agent tool call
type ToolExecuteRequest struct {
	Arguments map[string]interface{} `json:"arguments" binding:"required"`
}
