package llm

import "context"

// GenerationClient sends one system prompt and one user prompt to the text
// generation backend and returns the first text block of the reply.
//
// Implementations make exactly one upstream call per invocation; retries are
// the caller's business. Errors wrap domain.ErrUpstreamUnavailable or
// domain.ErrEmptyResponse and never include the API credential.
type GenerationClient interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)

	// Name identifies the backend in logs and metrics (e.g., "anthropic", "lorem")
	Name() string
}
