package sdk

import "context"

type Intent struct {
	Type string            `json:"type" yaml:"type"`
	Args map[string]string `json:"args" yaml:"args"`
}

type Sender struct {
	Address       Address   `json:"id"`
	RequiredAuths []Address `json:"required_auths"`
}

type ContractCallOptions struct {
	Intents []Intent `json:"intents,omitempty"`
}

// Env is the per-call environment a contract observes. Nested calls get their
// own Env with Sender and Caller set to the calling contract.
type Env struct {
	ContractId string
	TxId       string
	Timestamp  string
	Sender     Sender
	Caller     Address
	Intents    []Intent
}

// Host is everything a contract may touch while one call executes. All state
// and ledger mutations go through the call's transaction and vanish if the
// call fails.
type Host interface {
	// Env returns the environment of the running call.
	Env() Env
	// Context carries the deadline of the outer call.
	Context() context.Context

	// StateGet returns nil when the key is missing.
	StateGet(key string) *string
	StateSet(key string, value string)
	StateDelete(key string)

	// Balance reads the ledger balance of any address.
	Balance(addr Address, asset Asset) int64
	// Draw pulls amount from the sender into the running contract, bounded by
	// the sender's transfer.allow intent.
	Draw(amount int64, asset Asset) error
	// Transfer sends funds held by the running contract.
	Transfer(to Address, amount int64, asset Asset) error

	// ContractCall runs another contract synchronously inside the same transaction.
	ContractCall(contractID string, method string, payload string, opts *ContractCallOptions) (string, error)

	// Log records an event line for the call.
	Log(msg string)
}
