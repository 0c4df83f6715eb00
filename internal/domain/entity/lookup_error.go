package entity

// Lookup operation names, shared by logs, metrics and LookupError.
const (
	OperationBalance = "balance"
	OperationMarket  = "market"
	OperationHistory = "history"
	OperationRank    = "rank"
)

// LookupError represents a sub-lookup that failed while building a snapshot.
type LookupError struct {
	Operation     string `json:"operation"`
	WalletAddress string `json:"walletAddress,omitempty"`
	Message       string `json:"message"`
}

func (e LookupError) Error() string {
	if e.WalletAddress == "" {
		return e.Operation + ": " + e.Message
	}
	return e.Operation + " (" + e.WalletAddress + "): " + e.Message
}
