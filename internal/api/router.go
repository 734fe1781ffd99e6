package api

import (
	"net/http"

	"github.com/AlexZinkM/wallet-core/internal/handler"
	"github.com/AlexZinkM/wallet-core/wallet"

	httpSwagger "github.com/swaggo/http-swagger"
)

// SetupRouter sets up router with handlers
func SetupRouter(core *wallet.Core) (http.Handler, error) {
	walletHandler := handler.NewWalletHandler(core)

	mux := http.NewServeMux()

	// Swagger UI
	mux.HandleFunc("/swagger/", httpSwagger.WrapHandler)

	// User endpoints
	mux.HandleFunc("/users", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			walletHandler.CreateUser(w, r)
		case http.MethodDelete:
			walletHandler.DeleteUser(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/users/initialize", walletHandler.InitializeUser)
	mux.HandleFunc("/users/kyc", walletHandler.Kyc)

	// Network catalog
	mux.HandleFunc("/networks", walletHandler.Networks)

	// Wallet endpoints
	mux.HandleFunc("/wallet/password", walletHandler.SetPassword)
	mux.HandleFunc("/wallet/create", walletHandler.CreateWallet)
	mux.HandleFunc("/wallet/network", walletHandler.SetNetwork)
	mux.HandleFunc("/wallet/address", walletHandler.GenerateAddress)
	mux.HandleFunc("/wallet/balance", walletHandler.Balance)
	mux.HandleFunc("/wallet/send", walletHandler.Send)
	mux.HandleFunc("/wallet/transactions", walletHandler.Transactions)
	mux.HandleFunc("/wallet/rate", walletHandler.Rate)

	return mux, nil
}
