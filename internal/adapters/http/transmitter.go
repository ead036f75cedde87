// Package http implements the Transport port over net/http.
package http

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/bft-labs/telemship/internal/ports"
	"github.com/bft-labs/telemship/pkg/log"
)

// Transmitter implements ports.Transport with a single POST per record.
type Transmitter struct {
	client   ports.HTTPClient
	endpoint string
	compress bool
	logger   log.Logger
}

// NewTransmitter creates a transmitter posting to the given endpoint URL.
// When compress is true, payloads are gzip-encoded and the request
// advertises Content-Encoding: gzip; if compression fails for a payload,
// the transmitter degrades to sending it uncompressed.
func NewTransmitter(client ports.HTTPClient, endpoint string, compress bool, logger log.Logger) *Transmitter {
	return &Transmitter{
		client:   client,
		endpoint: endpoint,
		compress: compress,
		logger:   logger,
	}
}

// Send transmits the payload and returns the server's response.
func (t *Transmitter) Send(ctx context.Context, payload []byte) (ports.Response, error) {
	body, encoded := t.encodeBody(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if encoded {
		req.Header.Set("Content-Encoding", "gzip")
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}

	return &response{raw: resp}, nil
}

// encodeBody compresses the payload when the capability is enabled.
// Returns the request body and whether gzip encoding was applied.
func (t *Transmitter) encodeBody(payload []byte) (*bytes.Buffer, bool) {
	if !t.compress {
		return bytes.NewBuffer(payload), false
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(payload); err != nil {
		t.logger.Warn("gzip encode failed, sending identity", log.Err(err))
		return bytes.NewBuffer(payload), false
	}
	if err := zw.Close(); err != nil {
		t.logger.Warn("gzip finalize failed, sending identity", log.Err(err))
		return bytes.NewBuffer(payload), false
	}
	return &buf, true
}

// NewHTTPClient builds an *http.Client with a separate connect timeout
// and an overall request deadline covering the response read.
func NewHTTPClient(connectTimeout, readTimeout time.Duration) *http.Client {
	dialer := &net.Dialer{Timeout: connectTimeout}
	return &http.Client{
		Timeout: readTimeout,
		Transport: &http.Transport{
			DialContext:       dialer.DialContext,
			ForceAttemptHTTP2: true,
		},
	}
}
