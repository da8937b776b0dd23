// Package market holds the marketplaces the DAO can trade on: an on-host
// marketplace contract and a websocket gateway to an off-host one.
package market

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"collective_dao/sdk"
)

var (
	ErrNoListing   = errors.New("no such listing")
	ErrNoHoldings  = errors.New("insufficient holdings")
	ErrBadRequest  = errors.New("bad marketplace request")
	ErrUnsupported = errors.New("unsupported marketplace action")
)

// Stub is a minimal marketplace contract. It sells unlimited inventory for
// collect, escrows holdings for swap, and pays sellers on purchase. Contract
// sellers are paid through their receive entry point.
type Stub struct {
	// FailOn makes the named action fail with the mapped error.
	FailOn map[string]error
	// OnCall runs before every action with the host of that call.
	OnCall func(h sdk.Host, action, payload string) error
}

func NewStub() *Stub {
	return &Stub{FailOn: map[string]error{}}
}

func (s *Stub) Execute(h sdk.Host, action string, payload string) (string, error) {
	if err := s.FailOn[action]; err != nil {
		return "", err
	}
	if s.OnCall != nil {
		if err := s.OnCall(h, action, payload); err != nil {
			return "", err
		}
	}
	switch action {
	case "collect":
		return s.collect(h, payload)
	case "swap":
		return s.swap(h, payload)
	case "cancel_swap":
		return s.cancelSwap(h, payload)
	case "purchase":
		return s.purchase(h, payload)
	case "get_holdings":
		return s.getHoldings(h, payload)
	case "get_listing":
		return s.getListing(h, payload)
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupported, action)
}

// collect: quantity|assetRef|price, the price is drawn from the sender.
func (s *Stub) collect(h sdk.Host, payload string) (string, error) {
	qty, ref, price, err := parseTrade(payload)
	if err != nil {
		return "", err
	}
	buyer := h.Env().Sender.Address
	if price > 0 {
		if err := h.Draw(price, assetOf(h)); err != nil {
			return "", err
		}
	}
	held := getInt(h, holdingKey(buyer, ref))
	setInt(h, holdingKey(buyer, ref), held+int64(qty))
	h.Log(fmt.Sprintf("collect|by:%s|ref:%s|q:%d|p:%d", buyer, ref, qty, price))
	return strconv.FormatInt(held+int64(qty), 10), nil
}

// swap: quantity|assetRef|pricePerUnit, moves holdings into a listing.
func (s *Stub) swap(h sdk.Host, payload string) (string, error) {
	qty, ref, ppu, err := parseTrade(payload)
	if err != nil {
		return "", err
	}
	if ppu <= 0 {
		return "", fmt.Errorf("%w: price per unit must be positive", ErrBadRequest)
	}
	seller := h.Env().Sender.Address
	held := getInt(h, holdingKey(seller, ref))
	if held < int64(qty) {
		return "", fmt.Errorf("%w: %s holds %d of %s", ErrNoHoldings, seller, held, ref)
	}
	setInt(h, holdingKey(seller, ref), held-int64(qty))
	lq, _ := getListing(h, seller, ref)
	setListing(h, seller, ref, lq+int64(qty), ppu)
	h.Log(fmt.Sprintf("swap|by:%s|ref:%s|q:%d|ppu:%d", seller, ref, qty, ppu))
	return strconv.FormatInt(lq+int64(qty), 10), nil
}

// cancel_swap: assetRef, returns the listed quantity to the seller.
func (s *Stub) cancelSwap(h sdk.Host, payload string) (string, error) {
	ref := strings.TrimSpace(payload)
	seller := h.Env().Sender.Address
	lq, _ := getListing(h, seller, ref)
	if lq == 0 {
		return "", fmt.Errorf("%w: %s/%s", ErrNoListing, seller, ref)
	}
	h.StateDelete(listingKey(seller, ref))
	held := getInt(h, holdingKey(seller, ref))
	setInt(h, holdingKey(seller, ref), held+lq)
	h.Log(fmt.Sprintf("cancel|by:%s|ref:%s|q:%d", seller, ref, lq))
	return strconv.FormatInt(lq, 10), nil
}

// purchase: seller|assetRef|quantity, buys from a listing.
func (s *Stub) purchase(h sdk.Host, payload string) (string, error) {
	parts := strings.Split(payload, "|")
	if len(parts) != 3 {
		return "", fmt.Errorf("%w: want seller|assetRef|quantity", ErrBadRequest)
	}
	seller, ref := sdk.Address(strings.TrimSpace(parts[0])), strings.TrimSpace(parts[1])
	qty, err := strconv.ParseInt(strings.TrimSpace(parts[2]), 10, 64)
	if err != nil || qty <= 0 {
		return "", fmt.Errorf("%w: quantity %q", ErrBadRequest, parts[2])
	}
	lq, ppu := getListing(h, seller, ref)
	if lq < qty {
		return "", fmt.Errorf("%w: %s/%s has %d listed", ErrNoListing, seller, ref, lq)
	}
	cost := qty * ppu
	asset := assetOf(h)
	if err := h.Draw(cost, asset); err != nil {
		return "", err
	}
	if lq == qty {
		h.StateDelete(listingKey(seller, ref))
	} else {
		setListing(h, seller, ref, lq-qty, ppu)
	}
	buyer := h.Env().Sender.Address
	held := getInt(h, holdingKey(buyer, ref))
	setInt(h, holdingKey(buyer, ref), held+qty)

	if err := pay(h, seller, cost, asset); err != nil {
		return "", err
	}
	h.Log(fmt.Sprintf("purchase|by:%s|from:%s|ref:%s|q:%d|cost:%d", buyer, seller, ref, qty, cost))
	return strconv.FormatInt(cost, 10), nil
}

// pay hands proceeds to a user directly and to a contract through receive.
func pay(h sdk.Host, to sdk.Address, amount int64, asset sdk.Asset) error {
	id, ok := strings.CutPrefix(to.String(), "contract:")
	if !ok {
		return h.Transfer(to, amount, asset)
	}
	opts := &sdk.ContractCallOptions{Intents: []sdk.Intent{{
		Type: "transfer.allow",
		Args: map[string]string{"limit": strconv.FormatInt(amount, 10), "token": asset.String()},
	}}}
	_, err := h.ContractCall(id, "receive", strconv.FormatInt(amount, 10), opts)
	return err
}

// get_holdings: owner|assetRef
func (s *Stub) getHoldings(h sdk.Host, payload string) (string, error) {
	owner, ref, ok := strings.Cut(payload, "|")
	if !ok {
		return "", fmt.Errorf("%w: want owner|assetRef", ErrBadRequest)
	}
	return strconv.FormatInt(getInt(h, holdingKey(sdk.Address(owner), ref)), 10), nil
}

// get_listing: seller|assetRef, answers quantity|pricePerUnit
func (s *Stub) getListing(h sdk.Host, payload string) (string, error) {
	seller, ref, ok := strings.Cut(payload, "|")
	if !ok {
		return "", fmt.Errorf("%w: want seller|assetRef", ErrBadRequest)
	}
	q, p := getListing(h, sdk.Address(seller), ref)
	return fmt.Sprintf("%d|%d", q, p), nil
}

func parseTrade(payload string) (uint64, string, int64, error) {
	parts := strings.Split(payload, "|")
	if len(parts) != 3 {
		return 0, "", 0, fmt.Errorf("%w: want quantity|assetRef|price", ErrBadRequest)
	}
	qty, err := strconv.ParseUint(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil || qty == 0 {
		return 0, "", 0, fmt.Errorf("%w: quantity %q", ErrBadRequest, parts[0])
	}
	ref := strings.TrimSpace(parts[1])
	if ref == "" {
		return 0, "", 0, fmt.Errorf("%w: empty asset ref", ErrBadRequest)
	}
	price, err := strconv.ParseInt(strings.TrimSpace(parts[2]), 10, 64)
	if err != nil || price < 0 {
		return 0, "", 0, fmt.Errorf("%w: price %q", ErrBadRequest, parts[2])
	}
	return qty, ref, price, nil
}

// assetOf picks the token of the caller's intent, hive when none was sent.
func assetOf(h sdk.Host) sdk.Asset {
	for _, in := range h.Env().Intents {
		if in.Type == "transfer.allow" {
			return sdk.Asset(in.Args["token"])
		}
	}
	return sdk.AssetHive
}

func holdingKey(owner sdk.Address, ref string) string { return "h/" + owner.String() + "/" + ref }
func listingKey(owner sdk.Address, ref string) string { return "l/" + owner.String() + "/" + ref }

func getInt(h sdk.Host, key string) int64 {
	ptr := h.StateGet(key)
	if ptr == nil {
		return 0
	}
	v, _ := strconv.ParseInt(*ptr, 10, 64)
	return v
}

func setInt(h sdk.Host, key string, v int64) {
	if v == 0 {
		h.StateDelete(key)
		return
	}
	h.StateSet(key, strconv.FormatInt(v, 10))
}

func getListing(h sdk.Host, seller sdk.Address, ref string) (int64, int64) {
	ptr := h.StateGet(listingKey(seller, ref))
	if ptr == nil {
		return 0, 0
	}
	q, p, _ := strings.Cut(*ptr, "|")
	qty, _ := strconv.ParseInt(q, 10, 64)
	ppu, _ := strconv.ParseInt(p, 10, 64)
	return qty, ppu
}

func setListing(h sdk.Host, seller sdk.Address, ref string, qty, ppu int64) {
	h.StateSet(listingKey(seller, ref), fmt.Sprintf("%d|%d", qty, ppu))
}
