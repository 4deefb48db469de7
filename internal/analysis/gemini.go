package analysis

import (
	"context"
	"strings"

	"google.golang.org/genai"

	"smartnotes/internal/plaintext"
)

const (
	summaryPrompt = `Summarize the following note in at most three sentences.
Reply with the summary only, no preamble.

Note:
%TEXT%`

	keywordsPrompt = `Extract the most important keywords and key phrases from
the following note. Reply with one keyword per line, ordered by where they
first appear in the text, at most five words each, no numbering and no
other text.

Note:
%TEXT%`
)

// GeminiAnalyzer implements the analysis capability on Google GenAI.
type GeminiAnalyzer struct {
	client *genai.Client
	model  string
}

func NewGeminiAnalyzer(ctx context.Context, apiKey, model string) (*GeminiAnalyzer, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, err
	}
	return &GeminiAnalyzer{client: client, model: model}, nil
}

func (g *GeminiAnalyzer) Summarize(ctx context.Context, text string) (string, error) {
	out, err := g.generate(ctx, summaryPrompt, text)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (g *GeminiAnalyzer) ExtractKeywords(ctx context.Context, text string) ([]string, error) {
	out, err := g.generate(ctx, keywordsPrompt, text)
	if err != nil {
		return nil, err
	}
	var keywords []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "-"))
		if line != "" {
			keywords = append(keywords, line)
		}
	}
	return keywords, nil
}

func (g *GeminiAnalyzer) generate(ctx context.Context, prompt, text string) (string, error) {
	clean := plaintext.Strip(text)
	if clean == "" {
		return "", ErrEmptyText
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model,
		genai.Text(strings.ReplaceAll(prompt, "%TEXT%", clean)), nil)
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", &CapabilityError{Message: "analysis model returned no content"}
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}
