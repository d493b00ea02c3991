package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"walletsync/internal/application/dto"
	portsout "walletsync/internal/application/ports/out"
	apperrors "walletsync/internal/shared_kernel/errors"
)

const (
	defaultHTTPTimeout = 10 * time.Second
	maxErrorBodyBytes  = 1024
)

type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Gateway is the client-side history RPC over HTTP. One GET per sync
// attempt; the response body is the full AccountHistoryResult.
type Gateway struct {
	baseURL string
	client  *nethttp.Client
}

var _ portsout.AccountHistoryGateway = (*Gateway)(nil)

func NewGateway(cfg Config) *Gateway {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}

	return &Gateway{
		baseURL: strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		client: &nethttp.Client{
			Timeout: timeout,
		},
	}
}

func (g *Gateway) GetAccountHistory(
	ctx context.Context,
	query dto.AccountHistoryQuery,
) (dto.AccountHistoryResult, *apperrors.AppError) {
	if g == nil || g.client == nil {
		return dto.AccountHistoryResult{}, apperrors.NewInternal(
			"history_gateway_not_configured",
			"history gateway is not configured",
			nil,
		)
	}
	if g.baseURL == "" {
		return dto.AccountHistoryResult{}, apperrors.NewInternal(
			"history_base_url_missing",
			"history api base url is missing",
			nil,
		)
	}

	address := strings.TrimSpace(query.Address)
	if address == "" {
		return dto.AccountHistoryResult{}, apperrors.NewValidation(
			"history_address_missing",
			"account address is required",
			nil,
		)
	}

	endpoint := fmt.Sprintf(
		"%s/v1/accounts/%s/history?sinceBlockNum=%s",
		g.baseURL,
		url.PathEscape(address),
		strconv.FormatInt(query.SinceBlockNum, 10),
	)

	request, err := nethttp.NewRequestWithContext(ctx, nethttp.MethodGet, endpoint, nil)
	if err != nil {
		return dto.AccountHistoryResult{}, apperrors.NewInternal(
			"history_request_build_failed",
			"failed to build history request",
			map[string]any{"error": err.Error()},
		)
	}
	request.Header.Set("Accept", "application/json")

	response, err := g.client.Do(request)
	if err != nil {
		return dto.AccountHistoryResult{}, apperrors.NewInternal(
			"history_request_failed",
			"failed to call history api",
			map[string]any{"error": err.Error(), "address": address},
		)
	}
	defer response.Body.Close()

	if response.StatusCode != nethttp.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(response.Body, maxErrorBodyBytes))
		return dto.AccountHistoryResult{}, apperrors.NewInternal(
			"history_response_status_unexpected",
			"history api returned unexpected status",
			map[string]any{
				"status":  response.StatusCode,
				"address": address,
				"body":    string(snippet),
			},
		)
	}

	var result dto.AccountHistoryResult
	if decodeErr := json.NewDecoder(response.Body).Decode(&result); decodeErr != nil {
		return dto.AccountHistoryResult{}, apperrors.NewInternal(
			"history_response_decode_failed",
			"failed to decode history response",
			map[string]any{"error": decodeErr.Error(), "address": address},
		)
	}

	return result, nil
}
