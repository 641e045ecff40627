package twitter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

var testCreds = Credentials{
	AccessToken:       "token",
	AccessTokenSecret: "token-secret",
	APIKey:            "key",
	APISecretKey:      "key-secret",
}

func TestCreateTweet(t *testing.T) {
	t.Parallel()
	var gotText, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/2/tweets" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		var req createTweetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode body: %v", err)
		}
		gotText = req.Text
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":"1445880548472328192","text":"Day 7 of the challenge"}}`))
	}))
	defer srv.Close()

	id, err := NewClient(srv.URL+"/", testCreds).CreateTweet(context.Background(), "Day 7 of the challenge")
	if err != nil {
		t.Fatalf("CreateTweet error: %v", err)
	}
	if id != "1445880548472328192" {
		t.Fatalf("id = %q", id)
	}
	if gotText != "Day 7 of the challenge" {
		t.Fatalf("text = %q", gotText)
	}
	if !strings.HasPrefix(gotAuth, "OAuth ") || !strings.Contains(gotAuth, `oauth_consumer_key="key"`) || !strings.Contains(gotAuth, `oauth_token="token"`) {
		t.Fatalf("unexpected Authorization header: %q", gotAuth)
	}
}

func TestPublishAPIError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"detail":"You are not allowed to create a Tweet with duplicate content."}`))
	}))
	defer srv.Close()

	err := NewClient(srv.URL, testCreds).Publish(context.Background(), "dup")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "403") || !strings.Contains(err.Error(), "duplicate content") {
		t.Fatalf("error lacks status/body: %v", err)
	}
}

func TestPublishCanceled(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := NewClient(srv.URL, testCreds).Publish(ctx, "hi"); err == nil {
		t.Fatal("expected error for canceled context")
	}
}
