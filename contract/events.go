package contract

import (
	"fmt"
	"strconv"
	"strings"

	"collective_dao/sdk"
)

// emitInitEvent logs the owner count and marketplace so indexers can bootstrap without reading state.
func (c *Contract) emitInitEvent(cfg *Config) {
	owners := make([]string, len(cfg.Owners))
	for i, o := range cfg.Owners {
		owners[i] = o.String()
	}
	c.h.Log(fmt.Sprintf(
		"in|ow:%s|mk:%s|as:%s",
		strings.Join(owners, ","),
		cfg.Marketplace,
		cfg.Asset,
	))
}

// emitProposalCreatedEvent keeps observers updated with a short pc line for every new proposal.
func (c *Contract) emitProposalCreatedEvent(p *Proposal, by sdk.Address) {
	c.h.Log(fmt.Sprintf(
		"pc|k:%s|id:%s|by:%s",
		p.Kind,
		p.ID,
		by,
	))
}

// emitVoteEvent carries the running tally so unanimity can be replayed from logs only.
func (c *Contract) emitVoteEvent(p *Proposal, by sdk.Address, inFavor bool, n int) {
	c.h.Log(fmt.Sprintf(
		"v|k:%s|id:%s|by:%s|f:%s|n:%d/%d",
		p.Kind,
		p.ID,
		by,
		strconv.FormatBool(inFavor),
		p.Votes.Size(),
		n,
	))
}

func (c *Contract) emitUndoVoteEvent(p *Proposal, by sdk.Address) {
	c.h.Log(fmt.Sprintf(
		"uv|k:%s|id:%s|by:%s",
		p.Kind,
		p.ID,
		by,
	))
}

// emitProposalPassedEvent fires before the kind-specific action runs.
func (c *Contract) emitProposalPassedEvent(p *Proposal) {
	c.h.Log(fmt.Sprintf(
		"pp|k:%s|id:%s",
		p.Kind,
		p.ID,
	))
}

func (c *Contract) emitPhaseEvent(phase Phase) {
	c.h.Log("ph|s:" + phase.String())
}

// emitClosedEvent records the snapshot every later payout is anchored on.
func (c *Contract) emitClosedEvent(snapshot Amount) {
	c.h.Log(fmt.Sprintf("cl|snap:%d", snapshot))
}

// emitDepositEvent tells indexing bots the new equity and the running total.
func (c *Contract) emitDepositEvent(by sdk.Address, amount Amount, equity Amount, total Amount) {
	c.h.Log(fmt.Sprintf(
		"dp|by:%s|am:%d|eq:%d|tc:%d",
		by,
		amount,
		equity,
		total,
	))
}

// emitWithdrawEvent mirrors the deposit line for pre-lock refunds.
func (c *Contract) emitWithdrawEvent(to sdk.Address, amount Amount, equity Amount, total Amount) {
	c.h.Log(fmt.Sprintf(
		"wd|to:%s|am:%d|eq:%d|tc:%d",
		to,
		amount,
		equity,
		total,
	))
}

// emitReceiveEvent marks funds arriving outside of deposits, mostly sale proceeds.
func (c *Contract) emitReceiveEvent(from sdk.Address, amount Amount) {
	c.h.Log(fmt.Sprintf("rc|from:%s|am:%d", from, amount))
}

// emitLiquidationEvent lets payouts be audited against the ledger totals.
func (c *Contract) emitLiquidationEvent(to sdk.Address, amount Amount, paid Amount, total Amount) {
	c.h.Log(fmt.Sprintf(
		"lq|to:%s|am:%d|pd:%d|tl:%d",
		to,
		amount,
		paid,
		total,
	))
}
