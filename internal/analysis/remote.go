package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"smartnotes/internal/plaintext"
)

// RemoteAnalyzer delegates to an external NLP service exposing
// POST /summarize and POST /extract-keywords, both taking {"text": ...}.
type RemoteAnalyzer struct {
	baseURL string
	client  *http.Client
}

func NewRemoteAnalyzer(baseURL string, client *http.Client) *RemoteAnalyzer {
	if client == nil {
		client = http.DefaultClient
	}
	return &RemoteAnalyzer{baseURL: strings.TrimSuffix(baseURL, "/"), client: client}
}

func (r *RemoteAnalyzer) Summarize(ctx context.Context, text string) (string, error) {
	var result struct {
		Summary string `json:"summary"`
	}
	if err := r.post(ctx, "/summarize", text, &result); err != nil {
		return "", err
	}
	return result.Summary, nil
}

func (r *RemoteAnalyzer) ExtractKeywords(ctx context.Context, text string) ([]string, error) {
	var result struct {
		Keywords []string `json:"keywords"`
	}
	if err := r.post(ctx, "/extract-keywords", text, &result); err != nil {
		return nil, err
	}
	return result.Keywords, nil
}

func (r *RemoteAnalyzer) post(ctx context.Context, path, text string, out any) error {
	clean := plaintext.Strip(text)
	if clean == "" {
		return ErrEmptyText
	}
	body, err := json.Marshal(map[string]string{"text": clean})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+path, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// The service reports failures as {"error": msg}; pass that
		// message along when present.
		var failure struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&failure); err == nil && failure.Error != "" {
			return &CapabilityError{Message: failure.Error}
		}
		return fmt.Errorf("analysis service returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
