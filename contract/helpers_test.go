package contract_test

import (
	"context"
	"fmt"
	"strconv"
	"testing"

	"collective_dao/contract"
	"collective_dao/internal/host"
	"collective_dao/internal/market"
	"collective_dao/internal/store"
	"collective_dao/sdk"

	"github.com/CosmWasm/tinyjson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	daoID    = "dao"
	marketID = "market"

	alice    = "hive:alice"
	bob      = "hive:bob"
	carol    = "hive:carol"
	outsider = "hive:outsider"

	startBalance = 200000
)

var daoAddress = sdk.ContractAddress(daoID)

type daoTest struct {
	t      *testing.T
	ctx    context.Context
	rt     *host.Runtime
	market *market.Stub
}

// setupDAO deploys the DAO next to a stub marketplace and initializes it
// with owners. Every owner and the outsider start with startBalance hive.
func setupDAO(t *testing.T, owners ...string) *daoTest {
	t.Helper()
	d := &daoTest{
		t:      t,
		ctx:    context.Background(),
		rt:     host.NewRuntime(store.NewMemory()),
		market: market.NewStub(),
	}
	require.NoError(t, d.rt.Register(marketID, d.market))
	require.NoError(t, d.rt.Register(daoID, contract.NewHandler(nil)))
	for _, who := range append([]string{outsider}, owners...) {
		require.NoError(t, d.rt.Mint(d.ctx, sdk.Address(who), startBalance, sdk.AssetHive))
	}
	if len(owners) > 0 {
		payload := ""
		for i, o := range owners {
			if i > 0 {
				payload += ","
			}
			payload += o
		}
		d.call(alice, "contract_init", payload+"|"+marketID+"|hive", nil, true)
	}
	return d
}

// allow builds the transfer.allow intent a deposit or purchase needs.
func allow(amount int64) []sdk.Intent {
	return []sdk.Intent{{
		Type: "transfer.allow",
		Args: map[string]string{"limit": strconv.FormatInt(amount, 10), "token": "hive"},
	}}
}

// call invokes the DAO and asserts the outcome.
func (d *daoTest) call(sender, action, payload string, intents []sdk.Intent, expectSuccess bool) host.Result {
	d.t.Helper()
	return d.callContract(daoID, sender, action, payload, intents, expectSuccess)
}

func (d *daoTest) callContract(id, sender, action, payload string, intents []sdk.Intent, expectSuccess bool) host.Result {
	d.t.Helper()
	res := d.rt.Call(d.ctx, host.CallRequest{
		ContractID: id,
		Action:     action,
		Payload:    payload,
		Sender:     sdk.Address(sender),
		Intents:    intents,
	})
	if expectSuccess {
		require.True(d.t, res.Success, "%s by %s failed: %v", action, sender, res.Err)
	} else {
		require.False(d.t, res.Success, "%s by %s did not fail", action, sender)
	}
	return res
}

// fail runs a call that must fail with target.
func (d *daoTest) fail(sender, action, payload string, target error) {
	d.t.Helper()
	res := d.call(sender, action, payload, nil, false)
	assert.ErrorIs(d.t, res.Err, target)
}

func (d *daoTest) deposit(owner string, amount int64) {
	d.t.Helper()
	d.call(owner, "deposit", strconv.FormatInt(amount, 10), allow(amount), true)
}

// receiveFrom sends sale proceeds into the treasury.
func (d *daoTest) receiveFrom(from string, amount int64) {
	d.t.Helper()
	d.call(from, "receive", strconv.FormatInt(amount, 10), allow(amount), true)
}

// allVote casts a vote_lock or vote_close for every owner.
func (d *daoTest) allVote(action string, owners ...string) {
	d.t.Helper()
	for _, o := range owners {
		d.call(o, action, "true", nil, true)
	}
}

func (d *daoTest) balance(addr sdk.Address) int64 {
	d.t.Helper()
	bal, err := d.rt.Balance(d.ctx, addr, sdk.AssetHive)
	require.NoError(d.t, err)
	return bal
}

func (d *daoTest) status() contract.StatusView {
	d.t.Helper()
	res := d.call(outsider, "get_status", "", nil, true)
	var v contract.StatusView
	require.NoError(d.t, tinyjson.Unmarshal([]byte(res.Ret), &v))
	return v
}

func (d *daoTest) equity(owner string) contract.EquityView {
	d.t.Helper()
	res := d.call(outsider, "get_equity", owner, nil, true)
	var v contract.EquityView
	require.NoError(d.t, tinyjson.Unmarshal([]byte(res.Ret), &v))
	return v
}

func (d *daoTest) proposal(kind, id string) contract.ProposalView {
	d.t.Helper()
	res := d.call(outsider, "get_proposal", fmt.Sprintf("%s|%s", kind, id), nil, true)
	var v contract.ProposalView
	require.NoError(d.t, tinyjson.Unmarshal([]byte(res.Ret), &v))
	return v
}

// holdings asks the stub marketplace what addr owns of ref.
func (d *daoTest) holdings(addr sdk.Address, ref string) int64 {
	d.t.Helper()
	res := d.callContract(marketID, outsider, "get_holdings", addr.String()+"|"+ref, nil, true)
	n, err := strconv.ParseInt(res.Ret, 10, 64)
	require.NoError(d.t, err)
	return n
}
