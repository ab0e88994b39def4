// Package tools exposes consultations as named agent tools: a name, a
// description, a JSON schema for the arguments and an Execute entry point.
package tools

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/nexconsult/justice-tools/internal/consultation"
	"github.com/nexconsult/justice-tools/internal/identifier"
)

// InputParam is the single argument every consultation tool takes.
const InputParam = "user_input"

// ErrUnknownTool is returned by Registry.Execute for unregistered names.
var ErrUnknownTool = errors.New("unknown tool")

// Consulter runs a single consultation.
type Consulter interface {
	Consult(ctx context.Context, text string, kind identifier.Kind) (*consultation.Result, bool)
}

// Tool is a callable unit an agent can pick by name.
type Tool interface {
	Name() string
	Description() string
	Instructions() string
	// Parameters returns a JSON schema object describing the arguments.
	Parameters() map[string]interface{}
	// Execute always returns a Result; invalid arguments produce a
	// MISSING_INPUT error result.
	Execute(ctx context.Context, args map[string]interface{}) *consultation.Result
}

type consultTool struct {
	name         string
	description  string
	instructions string
	inputHelp    string
	kind         identifier.Kind
	consulter    Consulter
}

// NewProcessTool returns consult_legal_process, which consults CNJ process
// numbers.
func NewProcessTool(c Consulter) Tool {
	return &consultTool{
		name: "consult_legal_process",
		description: "Consulta informações de processo judicial usando número de processo CNJ. " +
			"Extract process numbers from user input and return detailed legal process information " +
			"including parties, movements, documents, and case status.",
		instructions: "Use this tool when the user provides or mentions a legal process number in CNJ format " +
			"(e.g., 0000000-00.2020.1.00.0000). The tool will automatically extract the process number " +
			"from the user's message and return comprehensive process information.",
		inputHelp: "User message containing a CNJ process number",
		kind:      identifier.KindCNJ,
		consulter: c,
	}
}

// NewDocumentTool returns consult_document, which consults CPF and CNPJ
// numbers.
func NewDocumentTool(c Consulter) Tool {
	return &consultTool{
		name: "consult_document",
		description: "Consulta processos judiciais vinculados a um CPF ou CNPJ. " +
			"Extract the document number from user input and return every legal process " +
			"associated with that person or company.",
		instructions: "Use this tool when the user provides a CPF (XXX.XXX.XXX-XX) or CNPJ " +
			"(XX.XXX.XXX/XXXX-XX) and wants to know the legal processes linked to it.",
		inputHelp: "User message containing a CPF or CNPJ",
		kind:      identifier.KindDocument,
		consulter: c,
	}
}

func (t *consultTool) Name() string { return t.name }
func (t *consultTool) Description() string { return t.description }
func (t *consultTool) Instructions() string { return t.instructions }

func (t *consultTool) Parameters() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			InputParam: map[string]interface{}{
				"type":        "string",
				"description": t.inputHelp,
			},
		},
		"required": []string{InputParam},
	}
}

func (t *consultTool) Execute(ctx context.Context, args map[string]interface{}) *consultation.Result {
	input, ok := args[InputParam].(string)
	if !ok || strings.TrimSpace(input) == "" {
		return MissingInput(consultation.ToolFor(t.kind))
	}

	result, _ := t.consulter.Consult(ctx, input, t.kind)
	return result
}

// MissingInput is the Result of a tool call made without text.
func MissingInput(tool string) *consultation.Result {
	return consultation.ErrorResult(tool, consultation.CodeMissingInput, "No input provided")
}

// Registry holds tools by name. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// NewRegistry creates a registry holding tools.
func NewRegistry(tools ...Tool) *Registry {
	r := &Registry{tools: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		r.Register(t)
	}
	return r
}

// Default registers the process and document tools.
func Default(c Consulter) *Registry {
	return NewRegistry(NewProcessTool(c), NewDocumentTool(c))
}

// Register adds or replaces a tool.
func (r *Registry) Register(t Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[t.Name()] = t
}

// Get returns the tool called name.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// List returns the tools sorted by name.
func (r *Registry) List() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]Tool, 0, len(r.tools))
	for _, t := range r.tools {
		list = append(list, t)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name() < list[j].Name() })
	return list
}

// Execute runs the tool called name.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]interface{}) (*consultation.Result, error) {
	t, ok := r.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	return t.Execute(ctx, args), nil
}
