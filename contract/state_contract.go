package contract

import (
	"fmt"
	"strconv"

	"collective_dao/sdk"
)

// -----------------------------------------------------------------------------
// Contract Configuration State
// -----------------------------------------------------------------------------

func (c *Contract) isInitialized() bool {
	ptr := c.h.StateGet(configKey())
	return ptr != nil && *ptr != ""
}

// loadConfig fails with ErrNotInitialized before contract_init ran.
func (c *Contract) loadConfig() (*Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	ptr := c.h.StateGet(configKey())
	if ptr == nil || *ptr == "" {
		return nil, ErrNotInitialized
	}
	cfg, err := DecodeConfig([]byte(*ptr))
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	c.cfg = cfg
	return cfg, nil
}

func (c *Contract) saveConfig(cfg *Config) {
	c.h.StateSet(configKey(), string(EncodeConfig(cfg)))
	c.cfg = cfg
}

// requireOwner is the first check of every state-changing operation.
func (c *Contract) requireOwner(addr sdk.Address) (*Config, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.IsOwner(addr) {
		return nil, fmt.Errorf("%w: %s is not an owner", ErrNotAuthorized, addr)
	}
	return cfg, nil
}

// -----------------------------------------------------------------------------
// Phase
// -----------------------------------------------------------------------------

func (c *Contract) loadPhase() Phase {
	ptr := c.h.StateGet(phaseKey())
	if ptr == nil || len(*ptr) == 0 {
		return PhaseOpen
	}
	return Phase((*ptr)[0])
}

// setPhase refuses to move backwards.
func (c *Contract) setPhase(p Phase) error {
	if cur := c.loadPhase(); p < cur {
		return fmt.Errorf("%w: cannot move from %s back to %s", ErrInvalidPhase, cur, p)
	}
	c.h.StateSet(phaseKey(), string([]byte{byte(p)}))
	return nil
}

// requirePhase checks the gate of kind against the current phase.
func (c *Contract) requirePhase(kind ProposalKind, op string) error {
	if phase := c.loadPhase(); !phaseAllows(kind, phase) {
		return errInvalidPhase(op, phase)
	}
	return nil
}

// -----------------------------------------------------------------------------
// Closed Snapshot
// -----------------------------------------------------------------------------

func (c *Contract) getClosedSnapshot() Amount {
	ptr := c.h.StateGet(closedSnapshotKey())
	if ptr == nil {
		return 0
	}
	v, err := strconv.ParseInt(*ptr, 10, 64)
	if err != nil {
		return 0
	}
	return Amount(v)
}

// setClosedSnapshot writes once, a second capture is a bug.
func (c *Contract) setClosedSnapshot(v Amount) error {
	if c.h.StateGet(closedSnapshotKey()) != nil {
		return fmt.Errorf("%w: closed snapshot already taken", ErrInvalidPhase)
	}
	c.h.StateSet(closedSnapshotKey(), strconv.FormatInt(int64(v), 10))
	return nil
}
