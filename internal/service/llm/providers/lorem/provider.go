package lorem

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"time"

	loremgen "github.com/bozaro/golorem"
)

// Provider implements llm.GenerationClient with lorem ipsum text.
// Used for local development and demos without an API key.
type Provider struct {
	// generator is not safe for concurrent use
	mu        sync.Mutex
	generator *loremgen.Lorem
	delay     time.Duration
}

// NewProvider creates a lorem provider. Models containing "slow" wait two
// seconds before answering to mimic a real backend.
func NewProvider(model string) *Provider {
	p := &Provider{generator: loremgen.New()}
	if strings.Contains(model, "slow") {
		p.delay = 2 * time.Second
	}
	return p
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "lorem"
}

// numbered section lines ("1. NOTICE OF LATE RENT") in a user prompt
var sectionHeader = regexp.MustCompile(`(?m)^\d+\. ([A-Z][A-Z0-9 \-/]+)$`)

// Complete returns a document with one placeholder paragraph under each section
// header requested by the prompt, followed by signature blanks.
func (p *Provider) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	headers := []string{"DOCUMENT"}
	if matches := sectionHeader.FindAllStringSubmatch(userPrompt, -1); len(matches) > 0 {
		headers = headers[:0]
		for _, m := range matches {
			headers = append(headers, m[1])
		}
	}

	var sb strings.Builder
	for _, header := range headers {
		sb.WriteString(header)
		sb.WriteString("\n\n")
		sb.WriteString(p.paragraph())
		sb.WriteString("\n\n")
	}
	sb.WriteString("Signature: [SIGNATURE]\nDate: [DATE]\n")
	return sb.String(), nil
}

func (p *Provider) paragraph() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.generator.Paragraph(2, 4)
}
