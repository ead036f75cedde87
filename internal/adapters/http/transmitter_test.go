package http

import (
	"compress/gzip"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bft-labs/telemship/pkg/log"
)

func TestSend_Gzip(t *testing.T) {
	payload := []byte(`[{"name":"event"}]`)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Method = %v, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %v, want application/json", ct)
		}
		if ce := r.Header.Get("Content-Encoding"); ce != "gzip" {
			t.Errorf("Content-Encoding = %v, want gzip", ce)
		}

		zr, err := gzip.NewReader(r.Body)
		if err != nil {
			t.Fatalf("gzip reader: %v", err)
		}
		body, err := io.ReadAll(zr)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		if string(body) != string(payload) {
			t.Errorf("body = %q, want %q", body, payload)
		}

		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	tr := NewTransmitter(http.DefaultClient, ts.URL, true, log.NewNoopLogger())

	resp, err := tr.Send(context.Background(), payload)
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	defer resp.Close()

	if resp.StatusCode() != http.StatusOK {
		t.Errorf("StatusCode() = %d, want 200", resp.StatusCode())
	}
}

func TestSend_Identity(t *testing.T) {
	payload := []byte(`[{"name":"event"}]`)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ce := r.Header.Get("Content-Encoding"); ce != "" {
			t.Errorf("Content-Encoding = %v, want unset", ce)
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != string(payload) {
			t.Errorf("body = %q, want %q", body, payload)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	tr := NewTransmitter(http.DefaultClient, ts.URL, false, log.NewNoopLogger())

	resp, err := tr.Send(context.Background(), payload)
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	defer resp.Close()
}

func TestSend_ConnectionRefused(t *testing.T) {
	// Reserve a port and close it so nothing is listening.
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := ts.URL
	ts.Close()

	tr := NewTransmitter(http.DefaultClient, url, true, log.NewNoopLogger())

	if _, err := tr.Send(context.Background(), []byte("x")); err == nil {
		t.Fatal("Send() error = nil, want transport failure")
	}
}

func TestSend_Timeout(t *testing.T) {
	blocked := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-blocked
	}))
	defer func() {
		close(blocked)
		ts.Close()
	}()

	client := NewHTTPClient(time.Second, 50*time.Millisecond)
	tr := NewTransmitter(client, ts.URL, true, log.NewNoopLogger())

	if _, err := tr.Send(context.Background(), []byte("x")); err == nil {
		t.Fatal("Send() error = nil, want timeout")
	}
}

func TestDetail_ConcatenatesLines(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, "first line\nsecond line\nthird")
	}))
	defer ts.Close()

	tr := NewTransmitter(http.DefaultClient, ts.URL, false, log.NewNoopLogger())
	resp, err := tr.Send(context.Background(), []byte("x"))
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	defer resp.Close()

	// Lines are joined without reinserting separators.
	if got := resp.Detail(); got != "first linesecond linethird" {
		t.Errorf("Detail() = %q, want %q", got, "first linesecond linethird")
	}
}

func TestDetail_EmptyBodyFallsBackToStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer ts.Close()

	tr := NewTransmitter(http.DefaultClient, ts.URL, false, log.NewNoopLogger())
	resp, err := tr.Send(context.Background(), []byte("x"))
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	defer resp.Close()

	if got := resp.Detail(); got != "403 Forbidden" {
		t.Errorf("Detail() = %q, want status line fallback", got)
	}
}
