package gemini

import (
	"context"
	"fmt"
	"iter"
	"net/http"

	"google.golang.org/genai"
)

// ChatSession is a conversation with prior turns already seeded.
type ChatSession interface {
	SendMessageStream(ctx context.Context, parts ...genai.Part) iter.Seq2[*genai.GenerateContentResponse, error]
}

// Backend is the part of the Gemini API the adapter depends on.
type Backend interface {
	StartChat(ctx context.Context, model string, history []*genai.Content) (ChatSession, error)
	GenerateContentStream(ctx context.Context, model string, contents []*genai.Content) iter.Seq2[*genai.GenerateContentResponse, error]
}

// BackendFactory builds a Backend authenticated with the given credential.
type BackendFactory func(ctx context.Context, credential string) (Backend, error)

// Client talks to the Gemini API through the genai SDK.
type Client struct {
	client *genai.Client
}

// NewClientFactory returns a BackendFactory that creates one SDK client per
// credential. httpClient may be nil.
func NewClientFactory(httpClient *http.Client) BackendFactory {
	return func(ctx context.Context, credential string) (Backend, error) {
		return NewClient(ctx, credential, httpClient)
	}
}

// NewClient creates a Gemini API client for one credential.
func NewClient(ctx context.Context, credential string, httpClient *http.Client) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     credential,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Client{client: client}, nil
}

// StartChat opens a chat session on model seeded with history.
func (c *Client) StartChat(ctx context.Context, model string, history []*genai.Content) (ChatSession, error) {
	chat, err := c.client.Chats.Create(ctx, model, nil, history)
	if err != nil {
		return nil, fmt.Errorf("failed to start chat: %w", err)
	}
	return chat, nil
}

// GenerateContentStream sends a single generate-content request and streams the reply.
func (c *Client) GenerateContentStream(ctx context.Context, model string, contents []*genai.Content) iter.Seq2[*genai.GenerateContentResponse, error] {
	return c.client.Models.GenerateContentStream(ctx, model, contents, nil)
}
