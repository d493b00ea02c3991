//go:build !integration

package http

import (
	"context"
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"walletsync/internal/application/dto"
	"walletsync/internal/domain/entities"
)

func TestGetAccountHistorySuccess(t *testing.T) {
	const address = "0x000000000000000000000000000000000000a11c"

	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.Method != nethttp.MethodGet {
			t.Fatalf("expected GET, got %s", r.Method)
		}
		if r.URL.Path != "/v1/accounts/"+address+"/history" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("sinceBlockNum"); got != "42" {
			t.Fatalf("expected sinceBlockNum=42, got %s", got)
		}
		json.NewEncoder(w).Encode(dto.AccountHistoryResult{
			Address:            address,
			SinceBlockNum:      42,
			LastBlock:          50,
			LastBlockTimestamp: 1_700_000_100,
			LastFinalizedBlock: 46,
			LastBalance:        "995000",
			TransferLogs:       []entities.TransferOp{},
		})
	}))
	defer server.Close()

	gateway := NewGateway(Config{BaseURL: server.URL})

	result, appErr := gateway.GetAccountHistory(context.Background(), dto.AccountHistoryQuery{
		Address:       address,
		SinceBlockNum: 42,
	})
	if appErr != nil {
		t.Fatalf("expected success, got %v", appErr)
	}
	if result.LastBlock != 50 || result.LastBalance != "995000" {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestGetAccountHistoryNonOKStatus(t *testing.T) {
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, _ *nethttp.Request) {
		nethttp.Error(w, "unavailable", nethttp.StatusServiceUnavailable)
	}))
	defer server.Close()

	gateway := NewGateway(Config{BaseURL: server.URL})

	_, appErr := gateway.GetAccountHistory(context.Background(), dto.AccountHistoryQuery{
		Address: "0x000000000000000000000000000000000000a11c",
	})
	if appErr == nil {
		t.Fatalf("expected status error")
	}
	if appErr.Code != "history_response_status_unexpected" {
		t.Fatalf("expected history_response_status_unexpected, got %s", appErr.Code)
	}
}

func TestGetAccountHistoryDecodeFailure(t *testing.T) {
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, _ *nethttp.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	gateway := NewGateway(Config{BaseURL: server.URL})

	_, appErr := gateway.GetAccountHistory(context.Background(), dto.AccountHistoryQuery{
		Address: "0x000000000000000000000000000000000000a11c",
	})
	if appErr == nil || appErr.Code != "history_response_decode_failed" {
		t.Fatalf("expected history_response_decode_failed, got %v", appErr)
	}
}

func TestGetAccountHistoryRequiresAddress(t *testing.T) {
	gateway := NewGateway(Config{BaseURL: "http://localhost:1"})

	_, appErr := gateway.GetAccountHistory(context.Background(), dto.AccountHistoryQuery{})
	if appErr == nil || appErr.Code != "history_address_missing" {
		t.Fatalf("expected history_address_missing, got %v", appErr)
	}
}
