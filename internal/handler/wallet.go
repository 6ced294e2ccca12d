package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/AlexZinkM/goldium-wallet/internal/model"
)

// Connect handles POST /wallet/connect
// @Summary      Connect wallet
// @Description  Decrypts the keystore with the startup password and loads balances
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.ConnectResponse
// @Failure      401  {object}  model.ErrorResponse
// @Failure      404  {object}  model.ErrorResponse
// @Router       /wallet/connect [post]
func (h *WalletHandler) Connect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	passwordBytes, err := h.password()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer clear(passwordBytes)

	resp, err := h.svc.Connect(r.Context(), passwordBytes)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Disconnect handles POST /wallet/disconnect
// @Summary      Disconnect wallet
// @Description  Drops the signing account and its balances
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.ConnectResponse
// @Router       /wallet/disconnect [post]
func (h *WalletHandler) Disconnect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	writeJSON(w, http.StatusOK, h.svc.Disconnect())
}

// Status handles GET /wallet/status
// @Summary      Connection status
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.ConnectResponse
// @Router       /wallet/status [get]
func (h *WalletHandler) Status(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	writeJSON(w, http.StatusOK, h.svc.Status())
}

// Generate handles POST /wallet/generate
// @Summary      Generate new wallet
// @Description  Generates a new keypair and saves it encrypted to the configured .cwt file
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.GenerateResponse
// @Failure      409  {object}  model.ErrorResponse
// @Router       /wallet/generate [post]
func (h *WalletHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	passwordBytes, err := h.password()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	defer clear(passwordBytes)

	resp, err := h.svc.Generate(passwordBytes)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetBalance handles GET /wallet/balances
// @Summary      Get balances
// @Description  Balances of every allow-listed asset, optionally valued in USDC
// @Tags         wallet
// @Produce      json
// @Param        withPrices  query     bool  false  "Value balances in USDC"
// @Success      200         {object}  model.BalanceResponse
// @Failure      409         {object}  model.ErrorResponse
// @Router       /wallet/balances [get]
func (h *WalletHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	var withPrices bool
	if v := r.URL.Query().Get("withPrices"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid withPrices: use true or false")
			return
		}
		withPrices = b
	}

	resp, err := h.svc.GetBalance(r.Context(), withPrices)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// RefreshBalance handles POST /wallet/balances/refresh
// @Summary      Refresh balances
// @Description  Fetches balances from the ledger now
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.BalanceResponse
// @Failure      409  {object}  model.ErrorResponse
// @Router       /wallet/balances/refresh [post]
func (h *WalletHandler) RefreshBalance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	resp, err := h.svc.RefreshBalance(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Transfer handles POST /wallet/transfer
// @Summary      Send asset
// @Description  Sends an allow-listed asset to the specified address
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        request  body      model.PayRequest  true  "Transfer data"
// @Success      200      {object}  model.PayResponse
// @Failure      400      {object}  model.ErrorResponse
// @Failure      409      {object}  model.ErrorResponse
// @Failure      422      {object}  model.ErrorResponse
// @Failure      502      {object}  model.ErrorResponse
// @Router       /wallet/transfer [post]
func (h *WalletHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var req model.PayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.svc.Pay(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// TransactionHistory handles GET /wallet/transactions
// @Summary      Get transfer history
// @Description  Lists transfers and swaps submitted from this wallet, newest first
// @Tags         wallet
// @Produce      json
// @Param        kind       query     string  false  "transfer or swap"
// @Param        status     query     string  false  "pending, confirmed or failed"
// @Param        symbol     query     string  false  "Asset symbol"
// @Param        signature  query     string  false  "Transaction signature"
// @Param        from       query     string  false  "Start date (YYYY-MM-DD)"
// @Param        to         query     string  false  "End date (YYYY-MM-DD)"
// @Param        minAmount  query     number  false  "Minimum amount"
// @Param        maxAmount  query     number  false  "Maximum amount"
// @Param        limit      query     int     false  "Maximum number of records"
// @Success      200        {object}  model.LogResponse
// @Failure      400        {object}  model.ErrorResponse
// @Router       /wallet/transactions [get]
func (h *WalletHandler) TransactionHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	req, msg := parseLogRequest(r)
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.svc.GetTransactions(req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// parseLogRequest reads the history filters. A non-empty message describes the first bad parameter.
func parseLogRequest(r *http.Request) (*model.LogRequest, string) {
	q := r.URL.Query()
	req := &model.LogRequest{}

	const dateLayout = "2006-01-02"
	if s := q.Get("from"); s != "" {
		t, err := time.Parse(dateLayout, s)
		if err != nil {
			return nil, "invalid from date: use YYYY-MM-DD (e.g. 2006-01-02)"
		}
		req.From = &t
	}
	if s := q.Get("to"); s != "" {
		t, err := time.Parse(dateLayout, s)
		if err != nil {
			return nil, "invalid to date: use YYYY-MM-DD (e.g. 2006-01-02)"
		}
		// inclusive end of day
		t = t.Add(24*time.Hour - time.Nanosecond)
		req.To = &t
	}

	if s := q.Get("kind"); s != "" {
		kind := model.TransferKind(s)
		req.Kind = &kind
	}
	if s := q.Get("status"); s != "" {
		status := model.TransferStatus(s)
		req.Status = &status
	}
	if s := q.Get("symbol"); s != "" {
		req.Symbol = &s
	}
	if s := q.Get("signature"); s != "" {
		req.Signature = &s
	}

	for _, p := range []struct {
		name string
		dst  **float64
	}{{"minAmount", &req.MinAmount}, {"maxAmount", &req.MaxAmount}} {
		s := q.Get(p.name)
		if s == "" {
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, "invalid " + p.name
		}
		*p.dst = &v
	}

	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, "invalid limit"
		}
		req.Limit = n
	}
	return req, ""
}

// Notifications handles GET /notifications
// @Summary      Recent notifications
// @Description  Outcome messages of balance refreshes, transfers and swaps, newest first
// @Tags         wallet
// @Produce      json
// @Success      200  {array}  model.Notification
// @Router       /notifications [get]
func (h *WalletHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	writeJSON(w, http.StatusOK, h.svc.Notifications())
}
