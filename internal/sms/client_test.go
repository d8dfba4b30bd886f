package sms

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func validRequest() Request {
	return Request{
		UserName:       "user",
		Password:       "secret",
		FromNumber:     "3000",
		ToNumbers:      "09123456789",
		MessageContent: "your order is ready",
	}
}

func TestSend_MissingFields(t *testing.T) {
	c := NewClient()

	req := validRequest()
	req.Password = ""

	_, err := c.Send(context.Background(), req)
	if err != ErrMissingFields {
		t.Fatalf("error = %v, want ErrMissingFields", err)
	}
}

func TestSendPayamak_OK(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/SendBatchSms" {
			t.Fatalf("path = %s, want /SendBatchSms", r.URL.Path)
		}

		var body payamakRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body.UserName != "user" || body.MessageContent != "your order is ready" {
			t.Fatalf("unexpected body: %+v", body)
		}
		if body.IsFlash {
			t.Fatalf("isFlash must be false")
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"Result":0}`))
	}))
	defer ts.Close()

	c := NewClient()
	c.payamakURL = ts.URL + "/"

	resp, err := c.Send(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Send error: %v", err)
	}
	if resp == "" {
		t.Fatalf("expected raw provider response")
	}
}

func TestSendPayamak_ProviderError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"Result":11,"ErrorMessage":"invalid credentials"}`))
	}))
	defer ts.Close()

	c := NewClient()
	c.payamakURL = ts.URL + "/"

	_, err := c.Send(context.Background(), validRequest())
	if err == nil {
		t.Fatalf("expected provider error")
	}
}

func TestSendPayamak_ResponseWithoutResultIsSuccess(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"RecIds":[1]}`))
	}))
	defer ts.Close()

	c := NewClient()
	c.payamakURL = ts.URL + "/"

	if _, err := c.Send(context.Background(), validRequest()); err != nil {
		t.Fatalf("Send error: %v", err)
	}
}

func TestSendNiazpardaz_OK(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Fatalf("method = %s, want GET", r.Method)
		}

		q := r.URL.Query()
		if q.Get("username") != "user" || q.Get("to") != "09123456789" || q.Get("text") != "your order is ready" {
			t.Fatalf("unexpected query: %v", q)
		}

		_, _ = w.Write([]byte("1524"))
	}))
	defer ts.Close()

	c := NewClient()
	c.niazpardazURL = ts.URL

	req := validRequest()
	req.APIType = APITypeNiazpardaz

	resp, err := c.Send(context.Background(), req)
	if err != nil {
		t.Fatalf("Send error: %v", err)
	}
	if resp != "1524" {
		t.Fatalf("response = %q, want 1524", resp)
	}
}

func TestSendNiazpardaz_ErrorText(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "english error",
			body: "Error: invalid credentials",
		},
		{
			name: "persian error",
			body: "خطا در ارسال",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			c := NewClient()
			c.niazpardazURL = ts.URL

			req := validRequest()
			req.APIType = APITypeNiazpardaz

			if _, err := c.Send(context.Background(), req); err == nil {
				t.Fatalf("expected provider error for body %q", tt.body)
			}
		})
	}
}
