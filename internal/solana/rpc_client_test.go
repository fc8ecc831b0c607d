package solana

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"solana-arb-scanner/internal/domain"
)

func TestHTTPClient_GetAccountBytes(t *testing.T) {
	raw := []byte{0x01, 0x02, 0x03, 0x04}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}

		if req.Method != "getAccountInfo" {
			t.Errorf("expected method getAccountInfo, got %s", req.Method)
		}

		if len(req.Params) == 0 || req.Params[0] != "pool111" {
			t.Errorf("expected address pool111 in params, got %v", req.Params)
		}

		resp := map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result": map[string]interface{}{
				"value": map[string]interface{}{
					"lamports": uint64(2039280),
					"owner":    domain.RaydiumV4ProgramID,
					"data":     []string{base64.StdEncoding.EncodeToString(raw), "base64"},
				},
			},
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL)

	acc, err := client.GetAccountBytes(context.Background(), "pool111")
	if err != nil {
		t.Fatalf("GetAccountBytes: %v", err)
	}

	if acc == nil {
		t.Fatal("expected account, got nil")
	}

	if acc.Owner != domain.RaydiumV4ProgramID {
		t.Errorf("expected owner %s, got %s", domain.RaydiumV4ProgramID, acc.Owner)
	}

	if len(acc.Data) != len(raw) {
		t.Errorf("expected %d data bytes, got %d", len(raw), len(acc.Data))
	}

	if acc.Lamports != 2039280 {
		t.Errorf("expected 2039280 lamports, got %d", acc.Lamports)
	}
}

func TestHTTPClient_GetAccountBytes_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		json.NewDecoder(r.Body).Decode(&req)

		resp := map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result": map[string]interface{}{
				"value": nil,
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL)

	acc, err := client.GetAccountBytes(context.Background(), "missing")
	if err != nil {
		t.Fatalf("GetAccountBytes: %v", err)
	}
	if acc != nil {
		t.Errorf("expected nil for missing account, got %+v", acc)
	}
}

func TestHTTPClient_RetriesAndSucceeds(t *testing.T) {
	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		var req rpcRequest
		json.NewDecoder(r.Body).Decode(&req)
		resp := map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
			"result": map[string]interface{}{
				"value": map[string]interface{}{
					"lamports": uint64(1),
					"owner":    "owner1",
					"data":     []string{"", "base64"},
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL,
		WithMaxRetries(3),
		WithRetryDelay(time.Millisecond))

	acc, err := client.GetAccountBytes(context.Background(), "pool")
	if err != nil {
		t.Fatalf("GetAccountBytes after retries: %v", err)
	}
	if acc == nil || acc.Owner != "owner1" {
		t.Errorf("unexpected account: %+v", acc)
	}
	if attempts.Load() != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts.Load())
	}
}

func TestHTTPClient_ExhaustedRetriesIsNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL,
		WithMaxRetries(1),
		WithRetryDelay(time.Millisecond))

	_, err := client.GetAccountBytes(context.Background(), "pool")
	if err == nil {
		t.Fatal("expected error after exhausted retries")
	}
	if !errors.Is(err, domain.ErrNetwork) {
		t.Errorf("expected ErrNetwork, got %v", err)
	}
}
