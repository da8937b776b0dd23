////////////////////////////////////////////////////////////////////////////////
// Collective DAO: unanimous owner governance over a shared treasury
////////////////////////////////////////////////////////////////////////////////

package contract

import (
	"fmt"
	"sort"
	"strconv"

	"collective_dao/sdk"
)

// Handler exposes the DAO entry points to a host runtime.
type Handler struct {
	market Marketplace
}

// NewHandler returns a handler whose passed trades go through market. A nil
// market means HostMarketplace.
func NewHandler(market Marketplace) *Handler {
	return &Handler{market: market}
}

type entryFunc func(c *Contract, payload string) (string, error)

var entries = map[string]entryFunc{
	"contract_init": contractInit,

	"deposit":  deposit,
	"withdraw": withdraw,
	"receive":  receive,

	"vote_lock":  voteLock,
	"vote_close": voteClose,

	"acquire_vote": acquireVote,
	"acquire_undo": acquireUndo,
	"list_propose": listPropose,
	"list_vote":    listVote,
	"list_undo":    listUndo,
	"cancel_vote":  cancelVote,
	"cancel_undo":  cancelUndo,

	"proposal_vote": proposalVote,
	"proposal_undo": proposalUndo,

	"liquidate": liquidate,

	"get_status":   getStatus,
	"get_equity":   getEquity,
	"get_proposal": getProposal,
}

// Actions lists the entry point names.
func Actions() []string {
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Execute runs one entry point. A returned error means the host must
// discard every effect of the call.
func (hd *Handler) Execute(h sdk.Host, action string, payload string) (string, error) {
	fn, ok := entries[action]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	return fn(New(h, hd.market), payload)
}

// -----------------------------------------------------------------------------
// Contract Initialization
// -----------------------------------------------------------------------------

// Payload: "owner1,owner2,...|marketplace|asset"
func contractInit(c *Contract, payload string) (string, error) {
	owners, market, asset, err := decodeInitArgs(payload)
	if err != nil {
		return "", err
	}
	if err := c.Init(owners, market, asset); err != nil {
		return "", err
	}
	return fmt.Sprintf("initialized with %d owners", len(owners)), nil
}

// -----------------------------------------------------------------------------
// Treasury
// -----------------------------------------------------------------------------

// amountArg reads the amount from the payload, or from the transfer.allow
// limit when the payload is empty.
func amountArg(c *Contract, payload string) (Amount, error) {
	raw, err := unwrapPayload(payload, "amount required")
	if err == nil {
		return parseAmountField(raw, "amount")
	}
	ta, taErr := c.getFirstTransferAllow()
	if taErr != nil {
		return 0, taErr
	}
	if ta == nil {
		return 0, err
	}
	return ta.Limit, nil
}

// Payload: "amount" (optional, defaults to the intent limit)
func deposit(c *Contract, payload string) (string, error) {
	amount, err := amountArg(c, payload)
	if err != nil {
		return "", err
	}
	if err := c.Deposit(c.getSenderAddress(), amount); err != nil {
		return "", err
	}
	return strconv.FormatInt(int64(amount), 10), nil
}

// Payload: "amount"
func withdraw(c *Contract, payload string) (string, error) {
	raw, err := unwrapPayload(payload, "amount required")
	if err != nil {
		return "", err
	}
	amount, err := parseAmountField(raw, "amount")
	if err != nil {
		return "", err
	}
	if err := c.Withdraw(c.getSenderAddress(), amount); err != nil {
		return "", err
	}
	return strconv.FormatInt(int64(amount), 10), nil
}

// Payload: "amount" (optional, defaults to the intent limit)
func receive(c *Contract, payload string) (string, error) {
	amount, err := amountArg(c, payload)
	if err != nil {
		return "", err
	}
	if err := c.Receive(c.getSenderAddress(), amount); err != nil {
		return "", err
	}
	return strconv.FormatInt(int64(amount), 10), nil
}

// Payload: none
func liquidate(c *Contract, _ string) (string, error) {
	due, err := c.Liquidate(c.getSenderAddress())
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(int64(due), 10), nil
}

// -----------------------------------------------------------------------------
// Phase Votes
// -----------------------------------------------------------------------------

// Payload: "true" / "false", empty means true
func voteLock(c *Contract, payload string) (string, error) {
	inFavor, err := voteArg(payload)
	if err != nil {
		return "", err
	}
	return phaseResult(c, c.VoteLock(c.getSenderAddress(), inFavor))
}

// Payload: "true" / "false", empty means true
func voteClose(c *Contract, payload string) (string, error) {
	inFavor, err := voteArg(payload)
	if err != nil {
		return "", err
	}
	return phaseResult(c, c.VoteClose(c.getSenderAddress(), inFavor))
}

func voteArg(payload string) (bool, error) {
	raw, err := unwrapPayload(payload, "")
	if err != nil {
		return true, nil
	}
	return parseBoolField(raw, true)
}

func phaseResult(c *Contract, err error) (string, error) {
	if err != nil {
		return "", err
	}
	return c.Phase().String(), nil
}

// -----------------------------------------------------------------------------
// Trade Proposals
// -----------------------------------------------------------------------------

// Payload: "assetRef|quantity|price"
func acquireVote(c *Contract, payload string) (string, error) {
	p, err := decodeAcquireArgs(payload)
	if err != nil {
		return "", err
	}
	return c.Propose(c.getSenderAddress(), p)
}

// Payload: "assetRef"
func acquireUndo(c *Contract, payload string) (string, error) {
	return undoByRef(c, KindAcquire, payload)
}

// Payload: "assetRef|quantity|pricePerUnit"
func listPropose(c *Contract, payload string) (string, error) {
	p, err := decodeListArgs(payload)
	if err != nil {
		return "", err
	}
	return c.Propose(c.getSenderAddress(), p)
}

// Payload: "id|true" / "id|false"
func listVote(c *Contract, payload string) (string, error) {
	id, inFavor, err := decodeIDVote(payload, "list proposal id")
	if err != nil {
		return "", err
	}
	return id, c.Vote(c.getSenderAddress(), KindList, id, inFavor)
}

// Payload: "id"
func listUndo(c *Contract, payload string) (string, error) {
	return undoByRef(c, KindList, payload)
}

// Payload: "assetRef"
func cancelVote(c *Contract, payload string) (string, error) {
	ref, err := unwrapPayload(payload, "asset ref required")
	if err != nil {
		return "", err
	}
	return c.Propose(c.getSenderAddress(), CancelListingPayload{AssetRef: ref})
}

// Payload: "assetRef"
func cancelUndo(c *Contract, payload string) (string, error) {
	return undoByRef(c, KindCancelListing, payload)
}

func undoByRef(c *Contract, kind ProposalKind, payload string) (string, error) {
	id, err := unwrapPayload(payload, kind.String()+" proposal id required")
	if err != nil {
		return "", err
	}
	return id, c.UndoVote(c.getSenderAddress(), kind, id)
}

// -----------------------------------------------------------------------------
// Generic Proposal Access
// -----------------------------------------------------------------------------

// Payload: "kind|id|vote"
func proposalVote(c *Contract, payload string) (string, error) {
	kind, id, inFavor, err := decodeProposalRef(payload)
	if err != nil {
		return "", err
	}
	return id, c.Vote(c.getSenderAddress(), kind, id, inFavor)
}

// Payload: "kind|id"
func proposalUndo(c *Contract, payload string) (string, error) {
	kind, id, _, err := decodeProposalRef(payload)
	if err != nil {
		return "", err
	}
	return id, c.UndoVote(c.getSenderAddress(), kind, id)
}

// -----------------------------------------------------------------------------
// Queries
// -----------------------------------------------------------------------------

func getStatus(c *Contract, _ string) (string, error) {
	v, err := c.Status()
	if err != nil {
		return "", err
	}
	return toJSON(v)
}

// Payload: "address", empty means the sender
func getEquity(c *Contract, payload string) (string, error) {
	addr := c.getSenderAddress()
	if raw, err := unwrapPayload(payload, ""); err == nil {
		addr = sdk.Address(raw)
	}
	v, err := c.EquityOf(addr)
	if err != nil {
		return "", err
	}
	return toJSON(v)
}

// Payload: "kind|id"
func getProposal(c *Contract, payload string) (string, error) {
	kind, id, _, err := decodeProposalRef(payload)
	if err != nil {
		return "", err
	}
	v, err := c.Proposal(kind, id)
	if err != nil {
		return "", err
	}
	return toJSON(v)
}
