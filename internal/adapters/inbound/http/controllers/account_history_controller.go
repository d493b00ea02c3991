package controllers

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"walletsync/internal/application/dto"
	portsin "walletsync/internal/application/ports/in"
	apperrors "walletsync/internal/shared_kernel/errors"
)

type AccountHistoryController struct {
	historyUseCase portsin.GetAccountHistoryUseCase
	logger         *log.Logger
}

func NewAccountHistoryController(
	historyUseCase portsin.GetAccountHistoryUseCase,
	logger *log.Logger,
) *AccountHistoryController {
	return &AccountHistoryController{
		historyUseCase: historyUseCase,
		logger:         logger,
	}
}

// GetAccountHistory handles GET /v1/accounts/{address}/history.
func (c *AccountHistoryController) GetAccountHistory(w http.ResponseWriter, r *http.Request) {
	address := strings.TrimSpace(r.PathValue("address"))

	sinceBlockNum := int64(0)
	if raw := strings.TrimSpace(r.URL.Query().Get("sinceBlockNum")); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeAppError(w, apperrors.NewValidation(
				"since_block_num_invalid",
				"sinceBlockNum must be a base-10 integer",
				map[string]any{"sinceBlockNum": raw},
			))
			return
		}
		sinceBlockNum = parsed
	}

	result, appErr := c.historyUseCase.Execute(r.Context(), dto.AccountHistoryQuery{
		Address:       address,
		SinceBlockNum: sinceBlockNum,
	})
	if appErr != nil {
		c.logger.Printf("request error path=/v1/accounts/{address}/history method=%s code=%s message=%s", r.Method, appErr.Code, appErr.Message)
		writeAppError(w, appErr)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
