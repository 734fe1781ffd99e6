package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/AlexZinkM/wallet-core/internal/common"
	"github.com/AlexZinkM/wallet-core/internal/model"
	"github.com/AlexZinkM/wallet-core/wallet"
)

// WalletHandler exposes the wallet core over HTTP.
type WalletHandler struct {
	core *wallet.Core
}

// NewWalletHandler creates a new WalletHandler around a core handle.
func NewWalletHandler(core *wallet.Core) *WalletHandler {
	return &WalletHandler{core: core}
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps core errors to HTTP statuses and stable machine codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := "INTERNAL"
	switch {
	case errors.Is(err, model.ErrAlreadyExists):
		status, code = http.StatusConflict, "ALREADY_EXISTS"
	case errors.Is(err, model.ErrNotFound):
		status, code = http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, model.ErrAuthFailure):
		status, code = http.StatusUnauthorized, "AUTH_FAILURE"
	case errors.Is(err, model.ErrInvalidMnemonic):
		status, code = http.StatusBadRequest, "INVALID_MNEMONIC"
	case errors.Is(err, model.ErrUnknownNetwork):
		status, code = http.StatusBadRequest, "UNKNOWN_NETWORK"
	case errors.Is(err, model.ErrWalletNotInitialized):
		status, code = http.StatusPreconditionFailed, "WALLET_NOT_INITIALIZED"
	case errors.Is(err, model.ErrConflict):
		status, code = http.StatusConflict, "CONFLICT"
	case errors.Is(err, model.ErrRejected):
		status, code = http.StatusUnprocessableEntity, "REJECTED"
	case errors.Is(err, model.ErrNetworkUnavailable):
		status, code = http.StatusBadGateway, "NETWORK_UNAVAILABLE"
	case errors.Is(err, model.ErrSubmissionFailed):
		status, code = http.StatusBadGateway, "SUBMISSION_FAILED"
	}
	writeJSON(w, status, model.ErrorResponse{Error: err.Error(), Code: code})
}

// decodeBody parses the JSON request body into dst.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: err.Error(), Code: "BAD_REQUEST"})
		return false
	}
	return true
}

// CreateUser handles POST /users
// @Summary      Create user
// @Description  Creates a durable user record
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request  body      model.UserRequest  true  "User data"
// @Success      200      {object}  model.UserResponse
// @Failure      409      {object}  model.ErrorResponse
// @Router       /users [post]
func (h *WalletHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.UserRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.core.CreateNewUser(req.Username); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.UserResponse{
		Success:  true,
		Message:  "User created successfully",
		Username: req.Username,
	})
}

// InitializeUser handles POST /users/initialize
// @Summary      Initialize user
// @Description  Loads the user's persisted state and makes it active
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request  body      model.UserRequest  true  "User data"
// @Success      200      {object}  model.UserResponse
// @Failure      404      {object}  model.ErrorResponse
// @Router       /users/initialize [post]
func (h *WalletHandler) InitializeUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.UserRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.core.InitializeUser(req.Username); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.UserResponse{
		Success:  true,
		Message:  "User initialized successfully",
		Username: req.Username,
	})
}

// DeleteUser handles DELETE /users
// @Summary      Delete user
// @Description  Authenticates with the pin and irreversibly deletes the active user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request  body      model.DeleteUserRequest  true  "Pin"
// @Success      200      {object}  model.UserResponse
// @Failure      401      {object}  model.ErrorResponse
// @Failure      409      {object}  model.ErrorResponse
// @Router       /users [delete]
func (h *WalletHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed. Should be DELETE", http.StatusMethodNotAllowed)
		return
	}

	var req model.DeleteUserRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.core.DeleteUser(req.Pin); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.UserResponse{
		Success: true,
		Message: "User deleted successfully",
	})
}

// Kyc handles GET and POST /users/kyc
// @Summary      KYC flag
// @Description  Reads (GET) or sets (POST) a user's KYC verification flag
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        username  query     string            false  "Username (GET)"
// @Param        request   body      model.KycRequest  false  "KYC data (POST)"
// @Success      200       {object}  model.KycResponse
// @Router       /users/kyc [get]
func (h *WalletHandler) Kyc(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		username := r.URL.Query().Get("username")
		writeJSON(w, http.StatusOK, model.KycResponse{
			Username: username,
			Verified: h.core.IsKycVerified(username),
		})
	case http.MethodPost:
		var req model.KycRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if err := h.core.SetKycVerified(req.Username, req.Verified); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, model.KycResponse{
			Username: req.Username,
			Verified: req.Verified,
		})
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// SetPassword handles POST /wallet/password
// @Summary      Set or change wallet password
// @Description  Sets the wallet password on first call, rotates it afterwards
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        request  body      model.PasswordRequest  true  "Pin and password"
// @Success      200      {object}  model.UserResponse
// @Failure      401      {object}  model.ErrorResponse
// @Failure      409      {object}  model.ErrorResponse
// @Router       /wallet/password [post]
func (h *WalletHandler) SetPassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.PasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.core.SetWalletPassword(req.Pin, req.Password); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.UserResponse{
		Success: true,
		Message: "Password set successfully",
	})
}

// CreateWallet handles POST /wallet/create
// @Summary      Create wallet
// @Description  Creates the wallet from a supplied mnemonic, or generates one when the mnemonic is empty
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        request  body      model.CreateWalletRequest  true  "Pin and optional mnemonic"
// @Success      200      {object}  model.CreateWalletResponse
// @Failure      400      {object}  model.ErrorResponse
// @Failure      409      {object}  model.ErrorResponse
// @Router       /wallet/create [post]
func (h *WalletHandler) CreateWallet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.CreateWalletRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.Mnemonic != "" {
		if err := h.core.CreateWalletFromMnemonic(req.Pin, req.Mnemonic); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, model.CreateWalletResponse{Success: true})
		return
	}

	mnemonic, err := h.core.CreateNewWallet(req.Pin)
	if err != nil {
		writeError(w, err)
		return
	}
	// The only time the mnemonic leaves the engine. It is not stored.
	writeJSON(w, http.StatusOK, model.CreateWalletResponse{Success: true, Mnemonic: mnemonic})
}

// Networks handles GET /networks
// @Summary      List networks
// @Description  Returns the supported network catalog
// @Tags         networks
// @Produce      json
// @Success      200  {object}  model.NetworkList
// @Router       /networks [get]
func (h *WalletHandler) Networks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	serialized, err := h.core.GetNetworks()
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(serialized))
}

// SetNetwork handles POST /wallet/network
// @Summary      Select network
// @Description  Sets the active network for the wallet
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        request  body      model.NetworkRequest  true  "Network id"
// @Success      200      {object}  model.UserResponse
// @Failure      400      {object}  model.ErrorResponse
// @Router       /wallet/network [post]
func (h *WalletHandler) SetNetwork(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.NetworkRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.core.SetNetwork(req.NetworkID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.UserResponse{
		Success: true,
		Message: "Network set successfully",
	})
}

// GenerateAddress handles POST /wallet/address
// @Summary      Generate address
// @Description  Derives the next wallet address on the active network
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        request  body      model.AddressRequest  true  "Pin"
// @Success      200      {object}  model.AddressResponse
// @Failure      401      {object}  model.ErrorResponse
// @Router       /wallet/address [post]
func (h *WalletHandler) GenerateAddress(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.AddressRequest
	if !decodeBody(w, r, &req) {
		return
	}

	addr, err := h.core.GenerateNewAddress(req.Pin)
	if err != nil {
		writeError(w, err)
		return
	}

	qr, err := wallet.AddressQRCode(addr.Value)
	if err != nil {
		// The address is already allocated; the QR code is cosmetic.
		qr = ""
	}

	writeJSON(w, http.StatusOK, model.AddressResponse{
		Address: addr.Value,
		Index:   addr.Index,
		QR:      qr,
	})
}

// Balance handles GET /wallet/balance
// @Summary      Get wallet balance
// @Description  Sums confirmed balances over all wallet addresses on the active network
// @Tags         wallet
// @Produce      json
// @Param        X-Wallet-Pin  header    string  true  "Wallet pin"
// @Success      200           {object}  model.BalanceResponse
// @Failure      401           {object}  model.ErrorResponse
// @Router       /wallet/balance [get]
func (h *WalletHandler) Balance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	pin := r.Header.Get("X-Wallet-Pin")
	amount, err := h.core.GetWalletBalance(r.Context(), pin)
	if err != nil {
		writeError(w, err)
		return
	}

	networkDef, err := h.core.ActiveNetwork()
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.BalanceResponse{
		NetworkID: networkDef.ID,
		Amount:    amount,
		Display:   common.FormatUnits(amount, networkDef.Decimals),
	})
}

// Send handles POST /wallet/send
// @Summary      Send amount
// @Description  Signs and submits a transfer on the active network
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        request  body      model.SendRequest  true  "Transfer data"
// @Success      200      {object}  model.SendResponse
// @Failure      401      {object}  model.ErrorResponse
// @Failure      422      {object}  model.ErrorResponse
// @Failure      502      {object}  model.ErrorResponse
// @Router       /wallet/send [post]
func (h *WalletHandler) Send(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed. Should be POST", http.StatusMethodNotAllowed)
		return
	}

	var req model.SendRequest
	if !decodeBody(w, r, &req) {
		return
	}

	reference, err := h.core.SendAmount(r.Context(), req.Pin, req.ToAddress, req.Amount, req.Metadata)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.SendResponse{Reference: reference})
}

// Transactions handles GET /wallet/transactions
// @Summary      List wallet transactions
// @Description  Lists transactions sent from this wallet, with optional filtering
// @Tags         wallet
// @Produce      json
// @Param        networkId  query     string  false  "Filter by network id"
// @Param        from       query     string  false  "Start date (YYYY-MM-DD)"
// @Param        to         query     string  false  "End date (YYYY-MM-DD)"
// @Success      200        {object}  model.TxList
// @Router       /wallet/transactions [get]
func (h *WalletHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	var filter model.TxListFilter

	const dateLayout = "2006-01-02"
	if fromStr := r.URL.Query().Get("from"); fromStr != "" {
		t, err := time.Parse(dateLayout, fromStr)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, model.ErrorResponse{
				Error: "invalid from date: use YYYY-MM-DD (e.g. 2006-01-02)",
				Code:  "BAD_REQUEST",
			})
			return
		}
		filter.From = &t
	}
	if toStr := r.URL.Query().Get("to"); toStr != "" {
		t, err := time.Parse(dateLayout, toStr)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, model.ErrorResponse{
				Error: "invalid to date: use YYYY-MM-DD (e.g. 2006-01-02)",
				Code:  "BAD_REQUEST",
			})
			return
		}
		// End of day so filter is inclusive
		t = t.Add(24*time.Hour - time.Nanosecond)
		filter.To = &t
	}
	if networkID := r.URL.Query().Get("networkId"); networkID != "" {
		filter.NetworkID = &networkID
	}

	if err := filter.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: err.Error(), Code: "BAD_REQUEST"})
		return
	}

	list, err := h.core.GetWalletTxList(&filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, list)
}

// Rate handles GET /wallet/rate
// @Summary      Get exchange rate
// @Description  Gets the fiat exchange rate of the active network's native currency
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.RateResponse
// @Router       /wallet/rate [get]
func (h *WalletHandler) Rate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed. Should be GET", http.StatusMethodNotAllowed)
		return
	}

	rate, err := h.core.GetExchangeRate()
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, rate)
}
