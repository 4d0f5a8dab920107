package gate

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"ai-policyassist-be/internal/constant"
	"ai-policyassist-be/internal/pkg/logger"
	"ai-policyassist-be/pkg/llm"
)

// Result is the fixed-shape classification outcome. FallbackText is
// non-empty whenever IntentDetected is false; the caller must answer with
// it verbatim and skip the downstream agent.
type Result struct {
	IsFollowup     bool   `json:"is_followup"`
	IntentDetected bool   `json:"intent_detected"`
	FallbackText   string `json:"fallback_text"`
}

// Gate decides whether a turn needs conversational context and whether it
// is answerable at all. The classification itself is delegated to the
// reasoning oracle; the gate owns the contract around it and fails closed
// when the oracle is unreachable.
type Gate struct {
	llmProvider llm.LLMProvider
	logger      logger.ILogger
}

func NewGate(llmProvider llm.LLMProvider, log logger.ILogger) *Gate {
	return &Gate{
		llmProvider: llmProvider,
		logger:      log,
	}
}

// Classify evaluates the query against the tool catalog with history as
// context. An empty catalog means nothing could answer the query; that
// case is decided locally without an oracle round trip.
func (g *Gate) Classify(ctx context.Context, history []llm.Message, query string, toolCatalog map[string]string) Result {
	if len(toolCatalog) == 0 {
		return Result{
			IsFollowup:     false,
			IntentDetected: false,
			FallbackText:   constant.GateNoToolsFallback,
		}
	}

	prompt := g.buildPrompt(history, query, toolCatalog)

	response, err := g.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.0))
	if err != nil {
		g.logger.Warn("gate", "classification backend unavailable, failing closed", map[string]interface{}{
			"error": err.Error(),
		})
		return g.failClosed()
	}

	result, err := g.parseResult(response)
	if err != nil {
		g.logger.Warn("gate", "classification output unparsable, failing closed", map[string]interface{}{
			"error": err.Error(),
		})
		return g.failClosed()
	}

	g.logger.Info("gate", "turn classified", map[string]interface{}{
		"is_followup":     result.IsFollowup,
		"intent_detected": result.IntentDetected,
	})

	return result
}

func (g *Gate) buildPrompt(history []llm.Message, query string, toolCatalog map[string]string) string {
	var prompt strings.Builder

	prompt.WriteString("<system>\n")
	prompt.WriteString("You are a query classifier. Your ONLY job is to decide two things about the user query.\n")
	prompt.WriteString("You do NOT answer the query itself.\n")
	prompt.WriteString("</system>\n\n")

	prompt.WriteString("<available_tools>\n")
	// Deterministic catalog order keeps the prompt stable across calls.
	names := make([]string, 0, len(toolCatalog))
	for name := range toolCatalog {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		prompt.WriteString(fmt.Sprintf("%s: %s\n", name, toolCatalog[name]))
	}
	prompt.WriteString("</available_tools>\n\n")

	prompt.WriteString("<conversation_history>\n")
	if len(history) == 0 {
		prompt.WriteString("(empty)\n")
	}
	for _, msg := range history {
		prompt.WriteString(fmt.Sprintf("%s: %s\n", msg.Role, msg.Content))
	}
	prompt.WriteString("</conversation_history>\n\n")

	prompt.WriteString("<user_query>\n")
	prompt.WriteString(query)
	prompt.WriteString("\n</user_query>\n\n")

	prompt.WriteString("<instructions>\n")
	prompt.WriteString("1. is_followup: true if answering the query correctly requires information carried only in the conversation history, false if the query is self-contained.\n")
	prompt.WriteString("2. intent_detected: true if the query can plausibly be answered using at least one of the available tools, given the history as context. ")
	prompt.WriteString("Return false ONLY if the query is unrelated to every tool. A follow-up to a tool-answerable topic is still answerable.\n")
	prompt.WriteString("3. fallback_text: when intent_detected is false, write a short reply suggesting the user pose a query related to the available capabilities. Empty string when intent is found.\n")
	prompt.WriteString("</instructions>\n\n")

	prompt.WriteString("<output_format>\n")
	prompt.WriteString("Respond with ONLY valid JSON:\n")
	prompt.WriteString("{\"is_followup\": false, \"intent_detected\": true, \"fallback_text\": \"\"}\n")
	prompt.WriteString("</output_format>")

	return prompt.String()
}

func (g *Gate) parseResult(response string) (Result, error) {
	jsonContent := extractJSON(response)
	if jsonContent == "" {
		return Result{}, fmt.Errorf("no JSON found in response")
	}

	var result Result
	if err := json.Unmarshal([]byte(jsonContent), &result); err != nil {
		return Result{}, fmt.Errorf("JSON unmarshal failed: %w", err)
	}

	// The contract requires a non-empty fallback whenever intent is absent.
	if !result.IntentDetected && strings.TrimSpace(result.FallbackText) == "" {
		result.FallbackText = constant.GateUnavailableFallback
	}

	return result, nil
}

func (g *Gate) failClosed() Result {
	return Result{
		IsFollowup:     false,
		IntentDetected: false,
		FallbackText:   constant.GateUnavailableFallback,
	}
}

func extractJSON(response string) string {
	startIdx := strings.Index(response, "{")
	endIdx := strings.LastIndex(response, "}")

	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return ""
	}

	return response[startIdx : endIdx+1]
}
