package llm

import (
	"fmt"
	"strings"

	"BiasDesk/internal/domain/repository"
)

// Disclaimer appended to every reply, including raw-text fallbacks.
const Disclaimer = "This is not financial advice. Markets are volatile; never risk money you cannot afford to lose."

const systemPrompt = `You are a cautious trading-desk assistant. You answer one question about one asset at a time.

Rules:
1. Stay strictly within the asset and the directional bias provided in the user message. Do not recommend against the stated bias and do not discuss other assets.
2. Treat the confidence score and top probability as heuristic context, not as guarantees.
3. Keep the advice to 2-4 sentences, concrete and hedged.
4. Respond ONLY with a JSON object in this exact shape:

{"advice": "...", "risk": "...", "disclaimer": "..."}

- advice: your answer to the question, scoped to the asset and bias
- risk: the main risk that would invalidate the advice (1-2 sentences)
- disclaimer: a short reminder that this is not financial advice`

const userPromptTemplate = `Asset: {asset}
Question: {question}

Desk bias for this asset: {bias}

Market snapshot:
- last signal: {last_signal}
- ratio: {ratio}
- slow moving average: {slow_ma}
- price: {price}
- short-term realized price: {realized_price}

Server-computed heuristics:
- confidence score (0-100, signal/trend divergence): {confidence}
- top probability (0-90, local-top likelihood): {top_probability}

Answer the question for this asset only, consistent with the {bias} bias.`

// BuildUserPrompt renders the constrained user message for an advice request.
func BuildUserPrompt(req repository.AdviceRequest) string {
	r := strings.NewReplacer(
		"{asset}", string(req.Asset),
		"{question}", req.Question,
		"{bias}", string(req.Bias),
		"{last_signal}", string(req.Market.LastSignal),
		"{ratio}", fmtFloat(req.Market.Ratio),
		"{slow_ma}", fmtFloat(req.Market.SlowMA),
		"{price}", fmtFloat(req.Market.Price),
		"{realized_price}", fmtFloat(req.Market.ShortTermRealizedPrice),
		"{confidence}", fmt.Sprintf("%d", req.Scores.ConfidenceScore),
		"{top_probability}", fmt.Sprintf("%d", req.Scores.TopProbability),
	)
	return r.Replace(userPromptTemplate)
}

func fmtFloat(v *float64) string {
	if v == nil {
		return "unavailable"
	}
	return fmt.Sprintf("%.4f", *v)
}
