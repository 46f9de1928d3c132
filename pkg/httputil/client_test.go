package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type echo struct {
	Value string `json:"value"`
}

func TestPostJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if got := r.Header.Get("X-Test"); got != "yes" {
			t.Errorf("X-Test header = %q, want %q", got, "yes")
		}
		var in echo
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Errorf("decode body: %v", err)
		}
		_ = json.NewEncoder(w).Encode(echo{Value: in.Value + "!"})
	}))
	defer srv.Close()

	c := NewClient(0, map[string]string{"X-Test": "yes"})
	var out echo
	if err := c.PostJSON(context.Background(), srv.URL, echo{Value: "hi"}, &out); err != nil {
		t.Fatalf("PostJSON() error: %v", err)
	}
	if out.Value != "hi!" {
		t.Errorf("PostJSON() value = %q, want %q", out.Value, "hi!")
	}
}

func TestPostJSONStatus(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		retryable bool
	}{
		{"server error", http.StatusInternalServerError, true},
		{"unavailable", http.StatusServiceUnavailable, true},
		{"rate limited", http.StatusTooManyRequests, true},
		{"bad request", http.StatusBadRequest, false},
		{"not found", http.StatusNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tt.status)
			}))
			defer srv.Close()

			var out echo
			err := NewClient(0, nil).PostJSON(context.Background(), srv.URL, echo{}, &out)
			if err == nil {
				t.Fatal("PostJSON() should fail")
			}
			if IsRetryable(err) != tt.retryable {
				t.Errorf("IsRetryable() = %v, want %v (err: %v)", IsRetryable(err), tt.retryable, err)
			}
			if !tt.retryable && !errors.Is(err, ErrStatus) {
				t.Errorf("err = %v, want ErrStatus", err)
			}
		})
	}
}

func TestPostJSONNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	var out echo
	err := NewClient(0, nil).PostJSON(context.Background(), url, echo{}, &out)
	if !IsRetryable(err) {
		t.Errorf("PostJSON() to closed server = %v, want retryable", err)
	}
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("PostJSON() = %v, want ErrNetwork", err)
	}
}
