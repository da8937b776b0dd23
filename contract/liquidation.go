package contract

import (
	"fmt"
	"math"

	"collective_dao/sdk"

	"github.com/holiman/uint256"
)

// Liquidate pays owner the part of their proportional share not yet paid.
//
//	realTotal   = balance + TotalLiquidated
//	entitlement = floor(equity * realTotal / TotalContributed)
//	due         = entitlement - liquidated[owner]
//
// A payout lowers balance and raises TotalLiquidated by the same amount, so
// realTotal only moves when new funds arrive. Calling again without a sale in
// between therefore finds nothing due.
func (c *Contract) Liquidate(owner sdk.Address) (Amount, error) {
	cfg, err := c.requireOwner(owner)
	if err != nil {
		return 0, err
	}
	if phase := c.loadPhase(); phase != PhaseClosed {
		return 0, errInvalidPhase("liquidate", phase)
	}
	equity := c.getEquity(owner)
	if equity <= 0 {
		return 0, fmt.Errorf("%w: %s holds no equity", ErrNothingToLiquidate, owner)
	}
	totals, err := c.loadTotals()
	if err != nil {
		return 0, err
	}
	balance := Amount(c.h.Balance(c.selfAddress(), cfg.Asset))
	paid := c.getLiquidated(owner)

	due := amountDue(equity, balance, totals, paid)
	if due <= 0 {
		return 0, fmt.Errorf("%w: %s already received %d", ErrNothingToLiquidate, owner, paid)
	}

	paid += due
	totals.Liquidated += due
	c.setLiquidated(owner, paid)
	c.saveTotals(totals)
	if err := c.h.Transfer(owner, int64(due), cfg.Asset); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInsufficientFunds, err)
	}
	c.emitLiquidationEvent(owner, due, paid, totals.Liquidated)
	return due, nil
}

// amountDue evaluates the payout formula in 256 bits, equity*realTotal does
// not fit int64 for large treasuries.
func amountDue(equity, balance Amount, totals *Totals, paid Amount) Amount {
	if totals.Contributed <= 0 || equity <= 0 || balance < 0 {
		return 0
	}
	realTotal := new(uint256.Int).Add(uint256.NewInt(uint64(balance)), uint256.NewInt(uint64(totals.Liquidated)))
	e := new(uint256.Int).Mul(uint256.NewInt(uint64(equity)), realTotal)
	e.Div(e, uint256.NewInt(uint64(totals.Contributed)))
	if !e.IsUint64() || e.Uint64() > math.MaxInt64 {
		return 0
	}
	return Amount(e.Uint64()) - paid
}
