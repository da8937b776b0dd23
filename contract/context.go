package contract

import (
	"strconv"

	"collective_dao/sdk"
)

// Contract is the DAO bound to the host of a single call. It holds nothing
// between calls, everything durable goes through the host state.
type Contract struct {
	h      sdk.Host
	market Marketplace

	// memoized for the duration of one call
	cfg      *Config
	transfer *TransferAllow
}

// New binds the contract to h. A nil market falls back to HostMarketplace.
func New(h sdk.Host, market Marketplace) *Contract {
	if market == nil {
		market = HostMarketplace{}
	}
	return &Contract{h: h, market: market}
}

// TransferAllow represents arguments extracted from a transfer.allow intent.
type TransferAllow struct {
	Limit Amount
	Token sdk.Asset
}

// getFirstTransferAllow returns the first transfer.allow intent of the call, nil when none was sent.
func (c *Contract) getFirstTransferAllow() (*TransferAllow, error) {
	if c.transfer != nil {
		return c.transfer, nil
	}
	for _, intent := range c.h.Env().Intents {
		if intent.Type != "transfer.allow" {
			continue
		}
		token := sdk.Asset(intent.Args["token"])
		if !token.IsValid() {
			return nil, errInvalidPayload("invalid intent asset %q", token)
		}
		limit, err := strconv.ParseInt(intent.Args["limit"], 10, 64)
		if err != nil || limit < 0 {
			return nil, errInvalidPayload("invalid intent limit %q", intent.Args["limit"])
		}
		c.transfer = &TransferAllow{Limit: Amount(limit), Token: token}
		return c.transfer, nil
	}
	return nil, nil
}

// getSenderAddress returns the address of the current transaction sender.
func (c *Contract) getSenderAddress() sdk.Address {
	return c.h.Env().Sender.Address
}

// selfAddress is where the treasury sits on the host ledger.
func (c *Contract) selfAddress() sdk.Address {
	return sdk.ContractAddress(c.h.Env().ContractId)
}

// Balance is the live treasury balance.
func (c *Contract) Balance() (Amount, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return 0, err
	}
	return Amount(c.h.Balance(c.selfAddress(), cfg.Asset)), nil
}
