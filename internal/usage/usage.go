package usage

import (
	"sync"
)

// Scheme identifies how a model is billed
type Scheme int

const (
	// SchemePerMillionTokens bills prompt and completion tokens separately
	// at a rate per one million tokens
	SchemePerMillionTokens Scheme = iota

	// SchemePerCharacter bills synthesized text per character
	SchemePerCharacter
)

// Pricing describes the billing rates for one model
type Pricing struct {
	Scheme           Scheme
	InputPerMillion  float64 // USD per 1M prompt tokens
	OutputPerMillion float64 // USD per 1M completion tokens
	PerCharacter     float64 // USD per character of synthesized text
	Description      string
}

// defaultPricing is the published MiniMax price list
var defaultPricing = map[string]Pricing{
	"MiniMax-M1": {
		Scheme:           SchemePerMillionTokens,
		InputPerMillion:  0.4,
		OutputPerMillion: 2.2,
		Description:      "flagship reasoning model",
	},
	"MiniMax-Text-01": {
		Scheme:           SchemePerMillionTokens,
		InputPerMillion:  0.2,
		OutputPerMillion: 1.1,
		Description:      "fast general purpose model",
	},
	"speech-02-hd": {
		Scheme:       SchemePerCharacter,
		PerCharacter: 0.0001,
		Description:  "high quality speech synthesis",
	},
	"speech-02-turbo": {
		Scheme:       SchemePerCharacter,
		PerCharacter: 0.00006,
		Description:  "low latency speech synthesis",
	},
}

// fallbackPricing is assumed for models missing from the price list
var fallbackPricing = Pricing{
	Scheme:           SchemePerMillionTokens,
	InputPerMillion:  0.5,
	OutputPerMillion: 0.5,
	Description:      "unknown model, estimated rate",
}

// ModelUsage aggregates calls and units for a single model
type ModelUsage struct {
	Calls           int
	InputUnits      int // prompt tokens, or 0 for per-character models
	OutputUnits     int // completion tokens, or characters synthesized
	EstimatedCostUS float64
}

// Summary is a point-in-time snapshot of everything tracked so far
type Summary struct {
	TotalCalls         int
	TotalUnits         int
	EstimatedCostUS    float64
	Models             map[string]ModelUsage
	MostExpensiveModel string
	MostCalledModel    string
}

// Tracker accumulates per-model usage and running cost estimates. Safe for
// concurrent use.
type Tracker struct {
	mu      sync.Mutex
	pricing map[string]Pricing
	models  map[string]*ModelUsage
}

// NewTracker creates a tracker using the default MiniMax price list
func NewTracker() *Tracker {
	return &Tracker{
		pricing: defaultPricing,
		models:  make(map[string]*ModelUsage),
	}
}

// Record registers one API call against model and returns the incremental
// cost of that call in USD. For chat models pass prompt and completion token
// counts; for speech models pass 0 and the character count of the text.
func (t *Tracker) Record(model string, inputUnits, outputUnits int) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	pricing, ok := t.pricing[model]
	if !ok {
		pricing = fallbackPricing
	}

	var cost float64
	switch pricing.Scheme {
	case SchemePerCharacter:
		cost = float64(outputUnits) * pricing.PerCharacter
	default:
		cost = float64(inputUnits)/1_000_000*pricing.InputPerMillion +
			float64(outputUnits)/1_000_000*pricing.OutputPerMillion
	}

	usage, ok := t.models[model]
	if !ok {
		usage = &ModelUsage{}
		t.models[model] = usage
	}
	usage.Calls++
	usage.InputUnits += inputUnits
	usage.OutputUnits += outputUnits
	usage.EstimatedCostUS += cost

	return cost
}

// Summarize returns a snapshot of all usage recorded so far
func (t *Tracker) Summarize() Summary {
	t.mu.Lock()
	defer t.mu.Unlock()

	summary := Summary{Models: make(map[string]ModelUsage, len(t.models))}
	var maxCost float64
	var maxCalls int

	for model, usage := range t.models {
		summary.Models[model] = *usage
		summary.TotalCalls += usage.Calls
		summary.TotalUnits += usage.InputUnits + usage.OutputUnits
		summary.EstimatedCostUS += usage.EstimatedCostUS

		if usage.EstimatedCostUS > maxCost {
			maxCost = usage.EstimatedCostUS
			summary.MostExpensiveModel = model
		}
		if usage.Calls > maxCalls {
			maxCalls = usage.Calls
			summary.MostCalledModel = model
		}
	}

	return summary
}

// PricingFor returns the pricing entry used for model
func (t *Tracker) PricingFor(model string) Pricing {
	t.mu.Lock()
	defer t.mu.Unlock()

	if pricing, ok := t.pricing[model]; ok {
		return pricing
	}
	return fallbackPricing
}
