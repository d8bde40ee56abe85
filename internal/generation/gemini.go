package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"
)

// GeminiProvider implements Provider using Google GenAI Gemini.
type GeminiProvider struct {
	client      *genai.Client
	model       string
	temperature float64
}

// GeminiConfig holds configuration for the Gemini provider.
type GeminiConfig struct {
	APIKey      string  // If empty, uses GEMINI_API_KEY env var
	Model       string  // e.g., "gemini-2.0-flash"
	Temperature float64 // Sampling temperature, recorded as generation metadata
}

// NewGeminiProvider creates a new Gemini provider.
func NewGeminiProvider(ctx context.Context, cfg GeminiConfig) (*GeminiProvider, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = os.Getenv("GEMINI_MODEL")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.9
	}

	return &GeminiProvider{
		client:      client,
		model:       model,
		temperature: temperature,
	}, nil
}

// GeneratePost asks Gemini for one post as a JSON object.
func (p *GeminiProvider) GeneratePost(ctx context.Context, prompt PostPrompt) (*GeneratedPost, error) {
	text, err := p.generate(ctx, buildPostPrompt(prompt), &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(float32(p.temperature)),
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return nil, err
	}

	var post GeneratedPost
	if err := json.Unmarshal([]byte(stripCodeFences(text)), &post); err != nil {
		return nil, fmt.Errorf("malformed post payload: %w", err)
	}
	return &post, nil
}

// GenerateComment asks Gemini for one short comment as plain text.
func (p *GeminiProvider) GenerateComment(ctx context.Context, prompt CommentPrompt) (string, error) {
	text, err := p.generate(ctx, buildCommentPrompt(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(p.temperature)),
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func (p *GeminiProvider) generate(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error) {
	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("gemini generate failed: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no response from gemini")
	}

	// Extract text from response
	var result string
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			result += part.Text
		}
	}

	return result, nil
}

// Model returns the model name.
func (p *GeminiProvider) Model() string {
	return p.model
}

// Temperature returns the sampling temperature.
func (p *GeminiProvider) Temperature() float64 {
	return p.temperature
}

func buildPostPrompt(prompt PostPrompt) string {
	var b strings.Builder
	a := prompt.Actor
	fmt.Fprintf(&b, "You are %s (@%s), a social media influencer in the %s niche.\n", a.DisplayName, a.Handle, a.Niche)
	if a.Bio != "" {
		fmt.Fprintf(&b, "Bio: %s\n", a.Bio)
	}
	if len(a.Personality) > 0 {
		fmt.Fprintf(&b, "Personality: %s\n", strings.Join(a.Personality, ", "))
	}
	if len(a.Interests) > 0 {
		fmt.Fprintf(&b, "Interests: %s\n", strings.Join(a.Interests, ", "))
	}
	if len(prompt.RecentPosts) > 0 {
		b.WriteString("\nYour recent posts, do not repeat their topics or phrasing:\n")
		for _, p := range prompt.RecentPosts {
			fmt.Fprintf(&b, "- %s\n", p)
		}
	}
	b.WriteString("\nWrite one new post in your voice. Respond with a JSON object with keys ")
	b.WriteString(`"content" (the post text), "image_description" (optional), "hashtags" (optional array), "mood" (optional).`)
	return b.String()
}

func buildCommentPrompt(prompt CommentPrompt) string {
	var b strings.Builder
	c := prompt.Commenter
	fmt.Fprintf(&b, "You are %s (@%s), a social media influencer in the %s niche.\n", c.DisplayName, c.Handle, c.Niche)
	if len(c.Personality) > 0 {
		fmt.Fprintf(&b, "Personality: %s\n", strings.Join(c.Personality, ", "))
	}
	fmt.Fprintf(&b, "You are a %s of %s.\n", prompt.Relationship, prompt.AuthorName)
	fmt.Fprintf(&b, "\n%s posted:\n%s\n", prompt.AuthorName, prompt.PostContent)
	b.WriteString("\nWrite one short, natural comment on this post in your voice. Respond with the comment text only.")
	return b.String()
}

// stripCodeFences removes a surrounding markdown code fence when the model
// wraps its JSON despite the response MIME type.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
