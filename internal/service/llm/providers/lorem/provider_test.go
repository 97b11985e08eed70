package lorem

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComplete_FollowsRequestedSections(t *testing.T) {
	p := NewProvider("lorem-fast")
	prompt := "Draft a notice.\n\nThe document must contain these sections, in this order:\n1. NOTICE OF LATE RENT\n2. AMOUNT DUE\n"

	text, err := p.Complete(context.Background(), "system", prompt)
	require.NoError(t, err)

	first := strings.Index(text, "NOTICE OF LATE RENT")
	second := strings.Index(text, "AMOUNT DUE")
	require.GreaterOrEqual(t, first, 0)
	assert.Greater(t, second, first)
	assert.Contains(t, text, "[SIGNATURE]")
}

func TestComplete_WithoutSections(t *testing.T) {
	text, err := NewProvider("lorem-fast").Complete(context.Background(), "", "anything")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(text, "DOCUMENT\n"))
}

func TestComplete_SlowHonorsContext(t *testing.T) {
	p := NewProvider("lorem-slow")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := p.Complete(ctx, "", "")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestComplete_ConcurrentCallsShareGenerator(t *testing.T) {
	p := NewProvider("lorem-fast")
	prompt := "1. NOTICE\n2. AMOUNT DUE\n"

	var wg sync.WaitGroup
	texts := make([]string, 8)
	errs := make([]error, 8)
	for i := range texts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			texts[i], errs[i] = p.Complete(context.Background(), "system", prompt)
		}()
	}
	wg.Wait()

	for i := range texts {
		require.NoError(t, errs[i])
		assert.Contains(t, texts[i], "NOTICE\n\n")
		assert.Contains(t, texts[i], "AMOUNT DUE\n\n")
	}
}
