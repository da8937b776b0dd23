package contract

import (
	"fmt"

	"collective_dao/sdk"
)

// Propose opens a proposal with the proposer's vote already counted. List
// proposals always get a fresh sequential id. Keyed kinds (lock, close,
// acquire, cancel) reuse an open proposal with the same id, in which case
// the call is a vote in favour and the terms must match. Once every vote on
// it is undone the next proposer sets new terms.
func (c *Contract) Propose(owner sdk.Address, p Payload) (string, error) {
	cfg, err := c.requireOwner(owner)
	if err != nil {
		return "", err
	}
	if err := p.validate(); err != nil {
		return "", err
	}
	if err := c.requirePhase(p.Kind(), "propose "+p.Kind().String()); err != nil {
		return "", err
	}

	var prop *Proposal
	if p.Kind() == KindList {
		id := c.nextCount(ListProposalsCount)
		prop = &Proposal{Kind: KindList, ID: UInt64ToString(id), Payload: p}
	} else {
		prop, err = c.loadProposal(p.Kind(), p.ID())
		if err != nil {
			return "", err
		}
		if prop != nil {
			if prop.Passed {
				return prop.ID, fmt.Errorf("%w: %s", ErrAlreadyPassed, prop)
			}
			if prop.Payload != p {
				// with every vote withdrawn the terms are free again
				if prop.Votes.Size() > 0 {
					return prop.ID, errInvalidPayload("terms differ from open proposal %s", prop)
				}
				prop.Payload = p
			}
		} else {
			prop = &Proposal{Kind: p.Kind(), ID: p.ID(), Payload: p}
		}
	}
	if prop.Votes.Size() == 0 {
		c.emitProposalCreatedEvent(prop, owner)
	}
	return prop.ID, c.castVote(cfg, prop, owner, true)
}

// Vote adds or removes owner's vote. The lock and close proposals exist
// implicitly, every other kind must have been proposed first.
func (c *Contract) Vote(owner sdk.Address, kind ProposalKind, id string, inFavor bool) error {
	cfg, err := c.requireOwner(owner)
	if err != nil {
		return err
	}
	if err := c.requirePhase(kind, "vote on "+kind.String()); err != nil {
		return err
	}
	prop, err := c.loadProposal(kind, id)
	if err != nil {
		return err
	}
	if prop == nil {
		switch {
		case kind == KindLock && id == phaseProposalID:
			prop = &Proposal{Kind: KindLock, ID: id, Payload: LockPayload{}}
		case kind == KindClose && id == phaseProposalID:
			prop = &Proposal{Kind: KindClose, ID: id, Payload: ClosePayload{}}
		default:
			return fmt.Errorf("%w: %s:%s", ErrNoSuchProposal, kind, id)
		}
	}
	return c.castVote(cfg, prop, owner, inFavor)
}

// UndoVote removes owner's vote from an unpassed proposal.
func (c *Contract) UndoVote(owner sdk.Address, kind ProposalKind, id string) error {
	if _, err := c.requireOwner(owner); err != nil {
		return err
	}
	prop, err := c.loadProposal(kind, id)
	if err != nil {
		return err
	}
	// votes on a passed proposal are history, whatever the phase is now
	if prop != nil && prop.Passed {
		return fmt.Errorf("%w: %s", ErrAlreadyPassed, prop)
	}
	if err := c.requirePhase(kind, "undo vote on "+kind.String()); err != nil {
		return err
	}
	if prop == nil {
		if (kind == KindLock || kind == KindClose) && id == phaseProposalID {
			return fmt.Errorf("%w: %s has no %s vote", ErrNoSuchVote, owner, kind)
		}
		return fmt.Errorf("%w: %s:%s", ErrNoSuchProposal, kind, id)
	}
	if !prop.Votes.Remove(owner) {
		return fmt.Errorf("%w: %s has no vote on %s", ErrNoSuchVote, owner, prop)
	}
	if err := c.saveProposal(prop); err != nil {
		return err
	}
	c.emitUndoVoteEvent(prop, owner)
	return nil
}

// castVote is the shared unanimity engine. When the last vote lands the
// proposal is stored as passed before the kind action runs, so anything the
// action calls back into sees it frozen. If the action fails the host drops
// the whole call, the passed flag included.
func (c *Contract) castVote(cfg *Config, prop *Proposal, owner sdk.Address, inFavor bool) error {
	if prop.Passed {
		return fmt.Errorf("%w: %s", ErrAlreadyPassed, prop)
	}
	var changed bool
	if inFavor {
		changed = prop.Votes.Add(owner)
	} else {
		changed = prop.Votes.Remove(owner)
	}
	if !changed {
		return nil
	}
	c.emitVoteEvent(prop, owner, inFavor, cfg.N())

	if prop.Votes.Size() < cfg.N() {
		return c.saveProposal(prop)
	}
	prop.Passed = true
	if err := c.saveProposal(prop); err != nil {
		return err
	}
	c.emitProposalPassedEvent(prop)
	return prop.Payload.onUnanimity(c, prop)
}

func (LockPayload) onUnanimity(c *Contract, _ *Proposal) error {
	if err := c.setPhase(PhaseLocked); err != nil {
		return err
	}
	c.emitPhaseEvent(PhaseLocked)
	return nil
}

// onUnanimity for close captures the live balance as the payout anchor.
func (ClosePayload) onUnanimity(c *Contract, _ *Proposal) error {
	balance, err := c.Balance()
	if err != nil {
		return err
	}
	if err := c.setClosedSnapshot(balance); err != nil {
		return err
	}
	if err := c.setPhase(PhaseClosed); err != nil {
		return err
	}
	c.emitPhaseEvent(PhaseClosed)
	c.emitClosedEvent(balance)
	return nil
}

func (p AcquirePayload) onUnanimity(c *Contract, prop *Proposal) error {
	o, err := c.order(p.AssetRef, p.Quantity, p.Price)
	if err != nil {
		return err
	}
	if err := c.market.Acquire(c.h, o); err != nil {
		return fmt.Errorf("%w: acquire %s: %w", ErrExternalActionFailed, prop, err)
	}
	return nil
}

func (p ListPayload) onUnanimity(c *Contract, prop *Proposal) error {
	o, err := c.order(p.AssetRef, p.Quantity, p.PricePerUnit)
	if err != nil {
		return err
	}
	if err := c.market.List(c.h, o); err != nil {
		return fmt.Errorf("%w: list %s: %w", ErrExternalActionFailed, prop, err)
	}
	return nil
}

func (p CancelListingPayload) onUnanimity(c *Contract, prop *Proposal) error {
	o, err := c.order(p.AssetRef, 0, 0)
	if err != nil {
		return err
	}
	if err := c.market.CancelListing(c.h, o); err != nil {
		return fmt.Errorf("%w: cancel %s: %w", ErrExternalActionFailed, prop, err)
	}
	return nil
}
