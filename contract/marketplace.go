package contract

import (
	"errors"
	"fmt"
	"strconv"

	"collective_dao/sdk"
)

var errNoMarketplace = errors.New("no marketplace configured")

// Order is what a passed acquire, list or cancel proposal asks the marketplace to do.
// Price is the total for acquisitions and the per unit price for listings.
type Order struct {
	Market   string
	AssetRef string
	Quantity uint64
	Price    Amount
	Asset    sdk.Asset
}

// Marketplace executes the external side of a passed proposal. It runs
// inside the call that passed the proposal, a returned error rolls that
// call back.
type Marketplace interface {
	Acquire(h sdk.Host, o Order) error
	List(h sdk.Host, o Order) error
	CancelListing(h sdk.Host, o Order) error
}

func (c *Contract) order(assetRef string, quantity uint64, price Amount) (Order, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return Order{}, err
	}
	return Order{
		Market:   cfg.Marketplace,
		AssetRef: assetRef,
		Quantity: quantity,
		Price:    price,
		Asset:    cfg.Asset,
	}, nil
}

// HostMarketplace talks to a marketplace contract deployed on the same host.
// The entrypoints follow the collect / swap / cancel_swap shape of the
// marketplace the first version of this DAO traded on.
type HostMarketplace struct{}

// Acquire calls collect with quantity|assetRef|price and lets the marketplace draw the price.
func (HostMarketplace) Acquire(h sdk.Host, o Order) error {
	if o.Market == "" {
		return errNoMarketplace
	}
	opts := &sdk.ContractCallOptions{Intents: []sdk.Intent{{
		Type: "transfer.allow",
		Args: map[string]string{
			"limit": strconv.FormatInt(int64(o.Price), 10),
			"token": o.Asset.String(),
		},
	}}}
	_, err := h.ContractCall(o.Market, "collect", fmt.Sprintf("%d|%s|%d", o.Quantity, o.AssetRef, o.Price), opts)
	return err
}

// List calls swap with quantity|assetRef|pricePerUnit.
func (HostMarketplace) List(h sdk.Host, o Order) error {
	if o.Market == "" {
		return errNoMarketplace
	}
	_, err := h.ContractCall(o.Market, "swap", fmt.Sprintf("%d|%s|%d", o.Quantity, o.AssetRef, o.Price), nil)
	return err
}

func (HostMarketplace) CancelListing(h sdk.Host, o Order) error {
	if o.Market == "" {
		return errNoMarketplace
	}
	_, err := h.ContractCall(o.Market, "cancel_swap", o.AssetRef, nil)
	return err
}
