package moderation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"automod-bot/model"
)

const unavailableExplanation = "classification unavailable"

// policyPrompt instructs the model to answer with a leading verdict
// token so the response can be parsed without structured output support.
const policyPrompt = `You are a chat content moderation assistant. ` +
	`Judge whether the following message violates community rules ` +
	`(illegal content, doxxing, exploitation, harassment, discrimination, ` +
	`privacy violations, insults, or topics restricted by server policy). ` +
	`Respond with exactly ALLOW if the message is acceptable, or FILTER ` +
	`followed by a short reason if it should be removed.`

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// LLMClassifier calls the external content-analysis service. It never
// returns an error: any transport or protocol failure yields an ALLOW
// verdict, because an unreachable classifier must not block all chat.
type LLMClassifier struct {
	cfg    model.ClassifierConfig
	client *http.Client
}

// NewLLMClassifier creates a classifier adapter. The HTTP client has no
// timeout; a stuck call stalls only its own message's pipeline instance.
func NewLLMClassifier(cfg model.ClassifierConfig) *LLMClassifier {
	return &LLMClassifier{
		cfg:    cfg,
		client: &http.Client{},
	}
}

// Classify sends the message text with the policy prompt to the model
// and parses the leading ALLOW/FILTER token of the response.
func (c *LLMClassifier) Classify(ctx context.Context, text string) model.ClassificationResult {
	allowed := model.ClassificationResult{ShouldFilter: false, OriginalText: text}

	if c.cfg.APIURL == "" {
		return allowed
	}

	verdict, err := c.complete(ctx, text)
	if err != nil {
		log.Printf("Classifier unavailable, allowing message: %v", err)
		allowed.Explanation = unavailableExplanation
		return allowed
	}

	shouldFilter, explanation := parseVerdict(verdict)
	return model.ClassificationResult{
		ShouldFilter: shouldFilter,
		Explanation:  explanation,
		OriginalText: text,
	}
}

func (c *LLMClassifier) complete(ctx context.Context, text string) (string, error) {
	reqBody, err := json.Marshal(chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: policyPrompt},
			{Role: "user", Content: text},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal classifier request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.cfg.APIURL, bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to build classifier request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("classifier request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read classifier response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("classifier returned status %s: %s", resp.Status, string(body))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to parse classifier response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("classifier response contained no choices")
	}

	return parsed.Choices[0].Message.Content, nil
}

// parseVerdict interprets the model's free-text response. Only a
// response beginning with FILTER filters the message; anything else,
// including empty or malformed output, is treated as ALLOW. False
// negatives are preferred here because the tier mapping downstream is
// the second layer of judgment.
func parseVerdict(response string) (bool, string) {
	verdict := strings.TrimSpace(response)
	if !strings.HasPrefix(verdict, "FILTER") {
		return false, ""
	}
	explanation := strings.TrimSpace(strings.TrimPrefix(verdict, "FILTER"))
	return true, explanation
}
