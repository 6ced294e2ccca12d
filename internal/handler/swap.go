package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/AlexZinkM/goldium-wallet/internal/model"
)

// Quote handles GET /swap/quote
// @Summary      Get swap quote
// @Description  Quotes converting amount of one allow-listed asset into another
// @Tags         swap
// @Produce      json
// @Param        from         query     string  true   "Input asset symbol"
// @Param        to           query     string  true   "Output asset symbol"
// @Param        amount       query     string  true   "Input amount"
// @Param        slippageBps  query     int     false  "Slippage tolerance in basis points"
// @Success      200          {object}  model.QuoteResult
// @Failure      400          {object}  model.ErrorResponse
// @Failure      502          {object}  model.ErrorResponse
// @Router       /swap/quote [get]
func (h *WalletHandler) Quote(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	q := r.URL.Query()
	bps, ok := parseSlippage(q.Get("slippageBps"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid slippageBps")
		return
	}

	resp, err := h.svc.Quote(r.Context(), q.Get("from"), q.Get("to"), q.Get("amount"), bps)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// ExecuteSwap handles POST /swap/execute
// @Summary      Execute swap
// @Description  Quotes and executes a swap from the connected wallet
// @Tags         swap
// @Accept       json
// @Produce      json
// @Param        request  body      model.SwapRequest  true  "Swap data"
// @Success      200      {object}  model.SwapResponse
// @Failure      400      {object}  model.ErrorResponse
// @Failure      409      {object}  model.ErrorResponse
// @Failure      422      {object}  model.ErrorResponse
// @Failure      502      {object}  model.ErrorResponse
// @Router       /swap/execute [post]
func (h *WalletHandler) ExecuteSwap(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var req model.SwapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.SlippageBps != nil && (*req.SlippageBps == 0 || *req.SlippageBps > 10000) {
		writeError(w, http.StatusBadRequest, "invalid slippageBps")
		return
	}

	resp, err := h.svc.Swap(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// SwapSettings handles GET and PUT /swap/settings
// @Summary      Slippage settings
// @Description  Reads or replaces the slippage tolerance and the auto-slippage flag
// @Tags         swap
// @Accept       json
// @Produce      json
// @Param        request  body      model.SwapSettings  false  "New settings (PUT only)"
// @Success      200      {object}  model.SwapSettings
// @Failure      400      {object}  model.ErrorResponse
// @Router       /swap/settings [get]
// @Router       /swap/settings [put]
func (h *WalletHandler) SwapSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.svc.SwapSettings())
	case http.MethodPut:
		var in model.SwapSettings
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		out, err := h.svc.UpdateSwapSettings(in)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, out)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPut)
	}
}

// Draft handles GET and POST /swap/draft
// @Summary      Live quote
// @Description  POST replaces the swap form input; the quote is fetched once the input settles. GET returns the latest result.
// @Tags         swap
// @Accept       json
// @Produce      json
// @Param        request  body      model.QuoteDraftRequest  false  "Form input (POST only)"
// @Success      200      {object}  model.QuoteDraft
// @Success      202      {object}  model.QuoteDraft
// @Router       /swap/draft [get]
// @Router       /swap/draft [post]
func (h *WalletHandler) Draft(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.svc.Draft())
	case http.MethodPost:
		var req model.QuoteDraftRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusAccepted, h.svc.UpdateDraft(req))
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

// parseSlippage reads an optional basis-point value. Empty means the current setting.
func parseSlippage(s string) (uint16, bool) {
	if s == "" {
		return 0, true
	}
	v, err := strconv.ParseUint(s, 10, 16)
	if err != nil || v == 0 || v > 10000 {
		return 0, false
	}
	return uint16(v), true
}
