package model

// ErrorResponse is the consistent JSON structure for all API error
// responses. Code is a stable machine-readable token derived from the core
// error taxonomy.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// UserRequest represents request for POST /users and POST /users/initialize
type UserRequest struct {
	Username string `json:"username" binding:"required"`
}

// UserResponse represents response for user lifecycle endpoints
type UserResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Username string `json:"username"`
}

// DeleteUserRequest represents request for DELETE /users
type DeleteUserRequest struct {
	Pin string `json:"pin" binding:"required"`
}

// PasswordRequest represents request for POST /wallet/password
type PasswordRequest struct {
	Pin      string `json:"pin" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// CreateWalletRequest represents request for POST /wallet/create. An empty
// mnemonic asks the server to generate one.
type CreateWalletRequest struct {
	Pin      string `json:"pin" binding:"required"`
	Mnemonic string `json:"mnemonic,omitempty"`
}

// CreateWalletResponse represents response for POST /wallet/create. Mnemonic
// is set only when the server generated it; it is never stored and cannot be
// retrieved again.
type CreateWalletResponse struct {
	Success  bool   `json:"success"`
	Mnemonic string `json:"mnemonic,omitempty"`
}

// AddressRequest represents request for POST /wallet/address
type AddressRequest struct {
	Pin string `json:"pin" binding:"required"`
}

// NetworkRequest represents request for POST /wallet/network
type NetworkRequest struct {
	NetworkID string `json:"networkId" binding:"required"`
}

// KycRequest represents request for POST /users/kyc
type KycRequest struct {
	Username string `json:"username" binding:"required"`
	Verified bool   `json:"verified"`
}

// KycResponse represents response for GET /users/kyc
type KycResponse struct {
	Username string `json:"username"`
	Verified bool   `json:"verified"`
}
