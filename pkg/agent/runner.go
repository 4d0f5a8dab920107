package agent

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"ai-policyassist-be/pkg/llm"
	"ai-policyassist-be/pkg/retrieval"
)

// Runner is the downstream reasoning/tool loop. It is an external
// collaborator: this core hands it the working context and records
// whatever answer comes back.
type Runner interface {
	Run(ctx context.Context, messages []llm.Message) (string, error)
}

// LLMRunner is the default Runner: a model call primed with the tool
// catalog, the shared-folder instructions, and reranked knowledge chunks
// retrieved for the latest user message. Tool scheduling beyond that is
// owned by whichever richer runner replaces it.
type LLMRunner struct {
	llmProvider llm.LLMProvider
	engine      *retrieval.Engine
	toolCatalog map[string]string
	topK        int
}

var _ Runner = &LLMRunner{}

func NewLLMRunner(llmProvider llm.LLMProvider, engine *retrieval.Engine, toolCatalog map[string]string, topK int) *LLMRunner {
	return &LLMRunner{
		llmProvider: llmProvider,
		engine:      engine,
		toolCatalog: toolCatalog,
		topK:        topK,
	}
}

func (r *LLMRunner) Run(ctx context.Context, messages []llm.Message) (string, error) {
	system := llm.Message{
		Role:    "system",
		Content: r.systemPrompt(),
	}
	full := []llm.Message{system}

	if knowledge := r.retrieveContext(ctx, messages); knowledge != "" {
		full = append(full, llm.Message{Role: "system", Content: knowledge})
	}
	full = append(full, messages...)

	answer, err := r.llmProvider.Chat(ctx, full)
	if err != nil {
		return "", fmt.Errorf("agent run: %w", err)
	}
	return answer, nil
}

// retrieveContext runs the two-stage retrieval for the latest user message
// and renders the reranked chunks as context blocks. An empty result (or a
// nil engine) contributes nothing; the model answers from the conversation
// alone.
func (r *LLMRunner) retrieveContext(ctx context.Context, messages []llm.Message) string {
	if r.engine == nil || len(messages) == 0 {
		return ""
	}

	query := messages[len(messages)-1].Content
	chunks := r.engine.Retrieve(ctx, query, r.topK, "", "")
	if len(chunks) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("<context>\nRelevant policy document excerpts, most relevant first:\n")
	for _, c := range chunks {
		b.WriteString(fmt.Sprintf("\n[source: %s | topic: %s | country: %s]\n%s\n", c.Source, c.Topic, c.Country, c.Content))
	}
	b.WriteString("</context>")
	return b.String()
}

func (r *LLMRunner) systemPrompt() string {
	var b strings.Builder
	b.WriteString("You are an environmental policy assistant.\n\nYou have access to the following tools:\n\n")

	names := make([]string, 0, len(r.toolCatalog))
	for name := range r.toolCatalog {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		b.WriteString(fmt.Sprintf("- %s: %s\n", name, r.toolCatalog[name]))
	}

	b.WriteString("\nWhen a tool produces a file, always reuse the exact filename the tool returned. ")
	b.WriteString("Never invent filenames. Save any files to the shared folder given in the query and include the filenames in your response.")
	return b.String()
}
