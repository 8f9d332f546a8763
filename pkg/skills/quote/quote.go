// Package quote implements a thin stock-quote lookup skill over the
// injected gateway client: validate the symbol, forward the request,
// reformat the JSON reply as text.
package quote

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"

	skilltypes "github.com/parakeetlabs/skillet/pkg/types/skills"
)

// Error codes returned in the result envelope.
const (
	CodeInvalidSymbol = "INVALID_SYMBOL"
	CodeGateway       = "GATEWAY_ERROR"
)

// DefaultBaseURL is the Finnhub-compatible endpoint queried when no
// override is configured.
const DefaultBaseURL = "https://finnhub.io/api/v1"

// Skill is the stock-quote skill handler.
type Skill struct {
	baseURL string
}

// Input is the skill's parameter envelope.
type Input struct {
	Symbol string `json:"symbol" jsonschema:"description=Ticker symbol to look up, e.g. AAPL"`
}

// quoteResponse mirrors the provider's quote payload.
type quoteResponse struct {
	Current       float64 `json:"c"`
	High          float64 `json:"h"`
	Low           float64 `json:"l"`
	Open          float64 `json:"o"`
	PreviousClose float64 `json:"pc"`
}

// NewSkill creates the quote skill against the default endpoint.
func NewSkill() *Skill {
	return NewSkillWithBaseURL(DefaultBaseURL)
}

// NewSkillWithBaseURL creates the quote skill against a custom
// endpoint, mainly for tests.
func NewSkillWithBaseURL(baseURL string) *Skill {
	return &Skill{baseURL: strings.TrimRight(baseURL, "/")}
}

// Name returns the skill name.
func (s *Skill) Name() string {
	return "stock_quote"
}

// Description returns the skill description for the host catalog.
func (s *Skill) Description() string {
	return `Look up the latest stock quote for a ticker symbol. Requires "symbol", e.g. {"symbol": "AAPL"}.`
}

// GenerateSchema generates the JSON schema for the skill input.
func (s *Skill) GenerateSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v Input
	return reflector.Reflect(v)
}

// ValidateInput checks the parameters without calling the provider.
func (s *Skill) ValidateInput(_ skilltypes.Env, parameters string) error {
	var input Input
	if err := json.Unmarshal([]byte(parameters), &input); err != nil {
		return errors.Wrap(err, "invalid input")
	}
	if strings.TrimSpace(input.Symbol) == "" {
		return errors.New("symbol is required")
	}
	return nil
}

// TracingKVs returns span attributes for one invocation.
func (s *Skill) TracingKVs(parameters string) ([]attribute.KeyValue, error) {
	var input Input
	if err := json.Unmarshal([]byte(parameters), &input); err != nil {
		return nil, err
	}
	return []attribute.KeyValue{
		attribute.String("stock_quote.symbol", input.Symbol),
	}, nil
}

// Execute looks up the quote through the injected gateway.
func (s *Skill) Execute(ctx context.Context, env skilltypes.Env, parameters string) skilltypes.Result {
	var input Input
	if err := json.Unmarshal([]byte(parameters), &input); err != nil {
		return skilltypes.Errorf(CodeInvalidSymbol, "invalid parameters: %v", err)
	}

	symbol := strings.ToUpper(strings.TrimSpace(input.Symbol))
	if symbol == "" {
		return skilltypes.Errorf(CodeInvalidSymbol, "symbol is required and must be a non-empty string")
	}

	client := env.Gateway()
	if client == nil {
		return skilltypes.Errorf(CodeGateway, "gateway client is not configured")
	}

	var quote quoteResponse
	err := client.GetJSON(ctx, s.baseURL+"/quote", url.Values{"symbol": {symbol}}, &quote)
	if err != nil {
		return skilltypes.Errorf(CodeGateway, "quote lookup for %s failed: %v", symbol, err)
	}

	return skilltypes.Result{
		Result: fmt.Sprintf("%s: %.2f (open %.2f, high %.2f, low %.2f, previous close %.2f)",
			symbol, quote.Current, quote.Open, quote.High, quote.Low, quote.PreviousClose),
		Metadata: skilltypes.QuoteMetadata{
			Symbol:        symbol,
			Current:       quote.Current,
			High:          quote.High,
			Low:           quote.Low,
			Open:          quote.Open,
			PreviousClose: quote.PreviousClose,
		},
	}
}
