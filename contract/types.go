package contract

import (
	"fmt"
	"slices"
	"strings"

	"collective_dao/sdk"
)

// Amount is an integer count of the smallest unit of the treasury asset.
type Amount int64

// Phase is the lifecycle stage. It only moves forward.
type Phase uint8

// String prints the phase as lower-case text for events and queries.
// Example payload: PhaseLocked.String()
func (p Phase) String() string {
	switch p {
	case PhaseOpen:
		return "open"
	case PhaseLocked:
		return "locked"
	case PhaseClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// ProposalKind tags the proposal payload variants.
type ProposalKind uint8

func (k ProposalKind) String() string {
	switch k {
	case KindLock:
		return "lock"
	case KindClose:
		return "close"
	case KindAcquire:
		return "acquire"
	case KindList:
		return "list"
	case KindCancelListing:
		return "cancel"
	default:
		return "unknown"
	}
}

// ParseProposalKind accepts the names printed by String.
// Example payload: ParseProposalKind("acquire")
func ParseProposalKind(s string) (ProposalKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lock":
		return KindLock, nil
	case "close":
		return KindClose, nil
	case "acquire", "buy":
		return KindAcquire, nil
	case "list", "swap":
		return KindList, nil
	case "cancel", "cancel_listing", "cancel_swap":
		return KindCancelListing, nil
	}
	return 0, errInvalidPayload("unknown proposal kind %q", s)
}

// Config is fixed at contract_init.
type Config struct {
	Owners      []sdk.Address
	Marketplace string
	Asset       sdk.Asset
}

// N is the unanimity threshold.
func (c *Config) N() int {
	return len(c.Owners)
}

func (c *Config) IsOwner(addr sdk.Address) bool {
	return slices.Contains(c.Owners, addr)
}

// Totals are the running sums of both ledgers.
type Totals struct {
	Contributed Amount
	Liquidated  Amount
}

// Proposal is one entry of the registry. It is frozen once Passed is set.
type Proposal struct {
	Kind    ProposalKind
	ID      string
	Votes   VoteSet
	Passed  bool
	Payload Payload
}

// Payload is the kind-specific part of a proposal.
type Payload interface {
	Kind() ProposalKind
	// ID is the registry id for keyed kinds, empty when the registry assigns one.
	ID() string
	validate() error
	encode(w *binWriter)
	// onUnanimity runs after the proposal is stored as passed.
	onUnanimity(c *Contract, p *Proposal) error
}

type LockPayload struct{}

type ClosePayload struct{}

type AcquirePayload struct {
	AssetRef string
	Quantity uint64
	Price    Amount
}

type ListPayload struct {
	AssetRef     string
	Quantity     uint64
	PricePerUnit Amount
}

type CancelListingPayload struct {
	AssetRef string
}

func (LockPayload) Kind() ProposalKind          { return KindLock }
func (ClosePayload) Kind() ProposalKind         { return KindClose }
func (AcquirePayload) Kind() ProposalKind       { return KindAcquire }
func (ListPayload) Kind() ProposalKind          { return KindList }
func (CancelListingPayload) Kind() ProposalKind { return KindCancelListing }

func (LockPayload) ID() string            { return phaseProposalID }
func (ClosePayload) ID() string           { return phaseProposalID }
func (p AcquirePayload) ID() string       { return p.AssetRef }
func (ListPayload) ID() string            { return "" }
func (p CancelListingPayload) ID() string { return p.AssetRef }

func (LockPayload) validate() error  { return nil }
func (ClosePayload) validate() error { return nil }

func (p AcquirePayload) validate() error {
	if err := validateAssetRef(p.AssetRef); err != nil {
		return err
	}
	if p.Quantity == 0 {
		return errInvalidPayload("quantity must be positive")
	}
	if p.Price < 0 {
		return errInvalidPayload("price must not be negative")
	}
	return nil
}

func (p ListPayload) validate() error {
	if err := validateAssetRef(p.AssetRef); err != nil {
		return err
	}
	if p.Quantity == 0 {
		return errInvalidPayload("quantity must be positive")
	}
	if p.PricePerUnit <= 0 {
		return errInvalidPayload("price per unit must be positive")
	}
	return nil
}

func (p CancelListingPayload) validate() error {
	return validateAssetRef(p.AssetRef)
}

func validateAssetRef(ref string) error {
	if ref == "" {
		return errInvalidPayload("asset ref required")
	}
	if len(ref) > MaxAssetRefLength {
		return errInvalidPayload("asset ref longer than %d", MaxAssetRefLength)
	}
	if strings.ContainsAny(ref, "|\n") {
		return errInvalidPayload("asset ref %q contains a separator", ref)
	}
	return nil
}

// phaseAllows gates every proposal kind on the current phase.
func phaseAllows(kind ProposalKind, phase Phase) bool {
	switch kind {
	case KindLock:
		return phase == PhaseOpen
	case KindClose, KindAcquire, KindList:
		return phase == PhaseLocked
	case KindCancelListing:
		return phase == PhaseLocked || phase == PhaseClosed
	}
	return false
}

func (p *Proposal) String() string {
	return fmt.Sprintf("%s:%s", p.Kind, p.ID)
}
