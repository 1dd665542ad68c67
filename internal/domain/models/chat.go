package models

// Requests for the advisor HTTP endpoints. Defined in domain for consistency and reuse.

type ChatRequest struct {
	Asset    string `json:"asset" validate:"required"`
	Question string `json:"question" validate:"required,min=2,max=500"`
}

type SetBiasRequest struct {
	Password string `json:"password" validate:"required"`
	Asset    string `json:"asset" validate:"required"`
	Bias     string `json:"bias" validate:"required"`
}

type SetBiasResponse struct {
	Success bool        `json:"success"`
	Asset   AssetSymbol `json:"asset"`
	Bias    BiasValue   `json:"bias"`
}

// Advice is the structured reply expected from the LLM.
type Advice struct {
	Advice     string `json:"advice"`
	Risk       string `json:"risk"`
	Disclaimer string `json:"disclaimer"`
}

// ChatResponse is the full payload returned for a valid chat request.
type ChatResponse struct {
	Asset    AssetSymbol    `json:"asset"`
	Question string         `json:"question"`
	Bias     BiasValue      `json:"bias"`
	Market   MarketSnapshot `json:"market"`
	Scores   ScoreResult    `json:"scores"`
	Reply    Advice         `json:"reply"`
	// RawReply is set instead of a structured Reply when the LLM output
	// could not be repaired into valid JSON.
	RawReply string `json:"raw_reply,omitempty"`
}
