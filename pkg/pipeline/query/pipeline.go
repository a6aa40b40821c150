package query

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/SoftwareEngineering-E-Complish/service-manager/pkg/pipeline"
	"github.com/SoftwareEngineering-E-Complish/service-manager/pkg/proxy/types"
	"github.com/SoftwareEngineering-E-Complish/service-manager/pkg/upstream"
)

// Caller-facing failure messages, one per stage.
const (
	MessageSchemaFailed = "Something went wrong with the inventory service. Initial request failed."
	MessageLLMFailed    = "Something went wrong with the LLM service."
	MessageSearchFailed = "Something went wrong with the inventory service. Querying properties failed."
)

// Stage names used for spans and failure metrics.
const (
	StageSchema    = "schema"
	StageTranslate = "translate"
	StageSearch    = "search"
)

// interpretationContract is the LLM response shape: {"content": "<json>"}.
var interpretationContract = upstream.MustContract("llm.interpretation", `{
	"type": "object",
	"required": ["content"],
	"properties": {
		"content": {"type": "string"}
	}
}`)

// Caller performs orchestration calls.
type Caller interface {
	Call(ctx context.Context, req *upstream.Request) (*upstream.Response, error)
}

// Config holds the backend locations and result shaping for the pipeline.
type Config struct {
	InventoryURL string
	LLMURL       string

	// EchoFilters adds the applied filters to the result under "filters".
	EchoFilters bool
}

// InterpretationRequest is the body sent to the LLM service.
type InterpretationRequest struct {
	Query            string          `json:"query"`
	APIDocumentation json.RawMessage `json:"api_documentation"`
}

// Interpretation is the LLM service's answer.
type Interpretation struct {
	Content string `json:"content"`
}

// Pipeline turns a free-text search into an inventory query.
type Pipeline struct {
	client    Caller
	schemaURL string
	llmURL    string
	searchURL string
	echo      bool
	stages    *pipeline.Stages
}

// New creates the query pipeline. recorder may be nil.
func New(client Caller, cfg Config, recorder pipeline.FailureRecorder) *Pipeline {
	inventory := strings.TrimRight(cfg.InventoryURL, "/")
	return &Pipeline{
		client:    client,
		schemaURL: inventory + "/schema/propertyQuery",
		llmURL:    strings.TrimRight(cfg.LLMURL, "/") + "/generates/query",
		searchURL: inventory + "/queryProperties",
		echo:      cfg.EchoFilters,
		stages:    pipeline.NewStages("query", recorder),
	}
}

// Run executes schema fetch, interpretation and search for userQuery and
// returns the inventory's JSON answer. Failures are *types.GatewayError.
func (p *Pipeline) Run(ctx context.Context, userQuery string) (json.RawMessage, error) {
	slog.InfoContext(ctx, "received user query", "query_length", len(userQuery))

	var schema json.RawMessage
	err := p.stages.Run(ctx, StageSchema, func(ctx context.Context) error {
		var err error
		schema, err = p.fetchSchema(ctx)
		return err
	})
	if err != nil {
		return nil, types.NewServerError(MessageSchemaFailed, err)
	}

	var filters Filters
	err = p.stages.Run(ctx, StageTranslate, func(ctx context.Context) error {
		var err error
		filters, err = p.translate(ctx, userQuery, schema)
		return err
	})
	if err != nil {
		return nil, types.NewGatewayError(upstream.StatusCode(err), MessageLLMFailed, err)
	}
	slog.DebugContext(ctx, "translated query into filters", "filters", len(filters))

	var result json.RawMessage
	err = p.stages.Run(ctx, StageSearch, func(ctx context.Context) error {
		var err error
		result, err = p.search(ctx, filters)
		return err
	})
	if err != nil {
		return nil, types.NewServerError(MessageSearchFailed, err)
	}

	if p.echo {
		return withFilters(result, filters)
	}
	return result, nil
}

func (p *Pipeline) fetchSchema(ctx context.Context) (json.RawMessage, error) {
	var schema json.RawMessage
	err := p.callJSON(ctx, &upstream.Request{
		Backend:      upstream.BackendInventory,
		URL:          p.schemaURL,
		ExpectStatus: http.StatusOK,
	}, &schema)
	return schema, err
}

func (p *Pipeline) translate(ctx context.Context, userQuery string, schema json.RawMessage) (Filters, error) {
	resp, err := p.client.Call(ctx, &upstream.Request{
		Backend: upstream.BackendLLM,
		Method:  http.MethodPost,
		URL:     p.llmURL,
		JSON: InterpretationRequest{
			Query:            userQuery,
			APIDocumentation: schema,
		},
		ExpectStatus: http.StatusOK,
	})
	if err != nil {
		return nil, err
	}

	var interpretation Interpretation
	if err := interpretationContract.Decode(upstream.BackendLLM, resp.Body, &interpretation); err != nil {
		return nil, err
	}

	filters, err := ParseFilters(interpretation.Content)
	if err != nil {
		return nil, &upstream.ContractError{
			Backend:     upstream.BackendLLM,
			Contract:    "llm.filters",
			RawResponse: interpretation.Content,
			Cause:       err,
		}
	}
	return filters, nil
}

func (p *Pipeline) search(ctx context.Context, filters Filters) (json.RawMessage, error) {
	var result json.RawMessage
	err := p.callJSON(ctx, &upstream.Request{
		Backend:      upstream.BackendInventory,
		URL:          p.searchURL,
		Query:        filters.Values(),
		ExpectStatus: http.StatusOK,
	}, &result)
	return result, err
}

func (p *Pipeline) callJSON(ctx context.Context, req *upstream.Request, out *json.RawMessage) error {
	resp, err := p.client.Call(ctx, req)
	if err != nil {
		return err
	}
	if !json.Valid(resp.Body) {
		return &upstream.ContractError{
			Backend:     req.Backend,
			Contract:    "json",
			RawResponse: string(resp.Body),
			Cause:       errors.New("response is not valid JSON"),
		}
	}
	*out = resp.Body
	return nil
}

// withFilters adds the filters to an object result. A result that is not an
// object is wrapped as {"results": ..., "filters": ...}.
func withFilters(result json.RawMessage, filters Filters) (json.RawMessage, error) {
	var object map[string]json.RawMessage
	if err := json.Unmarshal(result, &object); err != nil || object == nil {
		object = map[string]json.RawMessage{"results": result}
	}

	encoded, err := json.Marshal(filters)
	if err != nil {
		return nil, types.NewServerError(MessageSearchFailed, err)
	}
	object["filters"] = encoded

	return json.Marshal(object)
}
