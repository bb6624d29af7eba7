package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
)

// RAGClient is a thin client for the optional document-indexing
// collaborator. The indexing pipeline itself is owned by the backend;
// this client only speaks its request/response contract, and the chat
// payload's useRag/ragNResults fields are the sole coupling to the
// core exchange.
type RAGClient struct {
	http    *http.Client
	baseURL string
}

// RAG returns a client for the backend's document-indexing endpoints.
func (c *Client) RAG() *RAGClient {
	return &RAGClient{http: c.http, baseURL: c.baseURL}
}

// Upload sends one document to the backend as a multipart form.
func (r *RAGClient) Upload(ctx context.Context, name string, data io.Reader) error {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("file", name)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, data); err != nil {
		return err
	}
	if err := form.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/rag/upload", &body)
	if err != nil {
		return &TransportError{Endpoint: "/rag/upload", Err: err}
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	return r.do(req, "/rag/upload", nil)
}

// Index asks the backend to (re)build its document index.
func (r *RAGClient) Index(ctx context.Context) error {
	return r.post(ctx, "/rag/index")
}

// Clear drops the backend's document index.
func (r *RAGClient) Clear(ctx context.Context) error {
	return r.post(ctx, "/rag/clear")
}

// Stats returns the backend's index statistics as reported.
func (r *RAGClient) Stats(ctx context.Context) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/rag/stats", nil)
	if err != nil {
		return nil, &TransportError{Endpoint: "/rag/stats", Err: err}
	}

	stats := make(map[string]any)
	if err := r.do(req, "/rag/stats", &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// Document fetches one indexed document by name.
func (r *RAGClient) Document(ctx context.Context, name string) ([]byte, error) {
	endpoint := "/rag/document/" + url.PathEscape(name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+endpoint, nil)
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint, Err: err}
	}

	resp, err := r.http.Do(req)
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &TransportError{Endpoint: endpoint, Status: resp.StatusCode, Detail: decodeErrorDetail(resp.Body)}
	}
	return io.ReadAll(resp.Body)
}

func (r *RAGClient) post(ctx context.Context, endpoint string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+endpoint, nil)
	if err != nil {
		return &TransportError{Endpoint: endpoint, Err: err}
	}
	return r.do(req, endpoint, nil)
}

// do runs the request and optionally decodes a JSON response into out.
func (r *RAGClient) do(req *http.Request, endpoint string, out any) error {
	resp, err := r.http.Do(req)
	if err != nil {
		return &TransportError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &TransportError{Endpoint: endpoint, Status: resp.StatusCode, Detail: decodeErrorDetail(resp.Body)}
	}
	if out == nil {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}
