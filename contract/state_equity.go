package contract

import (
	"fmt"
	"strconv"

	"collective_dao/sdk"
)

func (c *Contract) getAmount(key string) Amount {
	dataPtr := c.h.StateGet(key)
	if dataPtr == nil {
		return 0
	}
	v, err := strconv.ParseInt(*dataPtr, 10, 64)
	if err != nil {
		return 0
	}
	return Amount(v)
}

// setAmount drops the key once it reaches zero.
func (c *Contract) setAmount(key string, v Amount) {
	if v == 0 {
		c.h.StateDelete(key)
		return
	}
	c.h.StateSet(key, strconv.FormatInt(int64(v), 10))
}

// getEquity is what owner contributed, zero if absent.
func (c *Contract) getEquity(owner sdk.Address) Amount {
	return c.getAmount(equityKey(owner))
}

func (c *Contract) setEquity(owner sdk.Address, v Amount) {
	c.setAmount(equityKey(owner), v)
}

// getLiquidated is what owner was already paid out.
func (c *Contract) getLiquidated(owner sdk.Address) Amount {
	return c.getAmount(liquidatedKey(owner))
}

func (c *Contract) setLiquidated(owner sdk.Address, v Amount) {
	c.setAmount(liquidatedKey(owner), v)
}

func (c *Contract) loadTotals() (*Totals, error) {
	ptr := c.h.StateGet(totalsKey())
	if ptr == nil {
		return &Totals{}, nil
	}
	t, err := DecodeTotals([]byte(*ptr))
	if err != nil {
		return nil, fmt.Errorf("decode totals: %w", err)
	}
	return t, nil
}

func (c *Contract) saveTotals(t *Totals) {
	c.h.StateSet(totalsKey(), string(EncodeTotals(t)))
}
