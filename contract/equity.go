package contract

import (
	"fmt"

	"collective_dao/sdk"
)

// Init fixes the owner set, the marketplace contract and the treasury asset.
func (c *Contract) Init(owners []sdk.Address, marketplace string, asset sdk.Asset) error {
	if c.isInitialized() {
		return ErrAlreadyInitialized
	}
	if len(owners) == 0 {
		return fmt.Errorf("%w: at least one owner required", ErrInvalidOwners)
	}
	if len(owners) > MaxOwners {
		return fmt.Errorf("%w: more than %d owners", ErrInvalidOwners, MaxOwners)
	}
	seen := NewVoteSet()
	for _, o := range owners {
		if !o.IsValid() {
			return fmt.Errorf("%w: %q is not a valid address", ErrInvalidOwners, o)
		}
		if !seen.Add(o) {
			return fmt.Errorf("%w: duplicate owner %s", ErrInvalidOwners, o)
		}
	}
	if asset == "" {
		asset = DefaultAsset
	}
	if !asset.IsValid() {
		return errInvalidPayload("unsupported asset %q", asset)
	}

	cfg := &Config{
		Owners:      owners,
		Marketplace: marketplace,
		Asset:       asset,
	}
	c.saveConfig(cfg)
	if err := c.setPhase(PhaseOpen); err != nil {
		return err
	}
	c.saveTotals(&Totals{})
	c.emitInitEvent(cfg)
	return nil
}

// Deposit draws amount from the sender into the treasury and credits owner's equity.
func (c *Contract) Deposit(owner sdk.Address, amount Amount) error {
	cfg, err := c.requireOwner(owner)
	if err != nil {
		return err
	}
	if phase := c.loadPhase(); phase != PhaseOpen {
		return errInvalidPhase("deposit", phase)
	}
	if amount <= 0 {
		return errInvalidPayload("deposit amount must be positive")
	}
	if err := c.requireAllowance(cfg.Asset, amount); err != nil {
		return err
	}
	if err := c.h.Draw(int64(amount), cfg.Asset); err != nil {
		return fmt.Errorf("%w: %w", ErrInsufficientFunds, err)
	}

	totals, err := c.loadTotals()
	if err != nil {
		return err
	}
	equity := c.getEquity(owner) + amount
	totals.Contributed += amount
	c.setEquity(owner, equity)
	c.saveTotals(totals)
	c.emitDepositEvent(owner, amount, equity, totals.Contributed)
	return nil
}

// Withdraw hands back uncommitted equity. Only possible while open.
func (c *Contract) Withdraw(owner sdk.Address, amount Amount) error {
	cfg, err := c.requireOwner(owner)
	if err != nil {
		return err
	}
	if phase := c.loadPhase(); phase != PhaseOpen {
		return errInvalidPhase("withdraw", phase)
	}
	if amount <= 0 {
		return errInvalidPayload("withdraw amount must be positive")
	}
	equity := c.getEquity(owner)
	if amount > equity {
		return fmt.Errorf("%w: %s has %d, asked for %d", ErrInsufficientFunds, owner, equity, amount)
	}

	totals, err := c.loadTotals()
	if err != nil {
		return err
	}
	equity -= amount
	totals.Contributed -= amount
	c.setEquity(owner, equity)
	c.saveTotals(totals)
	if err := c.h.Transfer(owner, int64(amount), cfg.Asset); err != nil {
		return fmt.Errorf("%w: %w", ErrInsufficientFunds, err)
	}
	c.emitWithdrawEvent(owner, amount, equity, totals.Contributed)
	return nil
}

// Receive accepts funds from anyone without touching equity, this is how
// sale proceeds land in the treasury.
func (c *Contract) Receive(from sdk.Address, amount Amount) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if amount <= 0 {
		return errInvalidPayload("amount must be positive")
	}
	if err := c.requireAllowance(cfg.Asset, amount); err != nil {
		return err
	}
	if err := c.h.Draw(int64(amount), cfg.Asset); err != nil {
		return fmt.Errorf("%w: %w", ErrInsufficientFunds, err)
	}
	c.emitReceiveEvent(from, amount)
	return nil
}

// requireAllowance checks the sender signed a transfer.allow covering amount of asset.
func (c *Contract) requireAllowance(asset sdk.Asset, amount Amount) error {
	ta, err := c.getFirstTransferAllow()
	if err != nil {
		return err
	}
	if ta == nil {
		return errInvalidPayload("transfer.allow intent required")
	}
	if ta.Token != asset {
		return errInvalidPayload("intent token %s, treasury holds %s", ta.Token, asset)
	}
	if ta.Limit < amount {
		return errInvalidPayload("intent limit %d below %d", ta.Limit, amount)
	}
	return nil
}

// Equity returns owner's contribution and what was already paid out to them.
func (c *Contract) Equity(owner sdk.Address) (contributed Amount, liquidated Amount) {
	return c.getEquity(owner), c.getLiquidated(owner)
}

// Totals returns the running ledger sums.
func (c *Contract) Totals() (*Totals, error) {
	return c.loadTotals()
}

// ClosedSnapshot is zero until the close transition.
func (c *Contract) ClosedSnapshot() Amount {
	return c.getClosedSnapshot()
}
