package twitter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dghubble/oauth1"
)

const DefaultAPIURL = "https://api.twitter.com"

// Credentials are the OAuth 1.0a user-context keys of the posting account.
type Credentials struct {
	AccessToken       string
	AccessTokenSecret string
	APIKey            string
	APISecretKey      string
}

// Client posts tweets on behalf of a single account.
type Client struct {
	apiURL string
	http   *http.Client
}

func NewClient(apiURL string, creds Credentials) *Client {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	config := oauth1.NewConfig(creds.APIKey, creds.APISecretKey)
	token := oauth1.NewToken(creds.AccessToken, creds.AccessTokenSecret)
	return &Client{
		apiURL: strings.TrimRight(apiURL, "/"),
		http:   config.Client(oauth1.NoContext, token),
	}
}

type createTweetRequest struct {
	Text string `json:"text"`
}

type createTweetResponse struct {
	Data struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"data"`
}

// Publish creates a tweet with the given text.
func (c *Client) Publish(ctx context.Context, text string) error {
	_, err := c.CreateTweet(ctx, text)
	return err
}

// CreateTweet creates a tweet and returns its ID.
func (c *Client) CreateTweet(ctx context.Context, text string) (string, error) {
	body, err := json.Marshal(createTweetRequest{Text: text})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/2/tweets", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("twitter api error: status %s, body %s", resp.Status, string(respBody))
	}

	var out createTweetResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("failed to decode twitter response: %w", err)
	}
	return out.Data.ID, nil
}
