package contract_test

import (
	"testing"

	"collective_dao/contract"

	"github.com/stretchr/testify/assert"
)

func TestInitValidation(t *testing.T) {
	d := setupDAO(t)

	d.fail(alice, "contract_init", "", contract.ErrInvalidPayload)
	d.fail(alice, "contract_init", "hive:alice,hive:alice|market|hive", contract.ErrInvalidOwners)
	d.fail(alice, "contract_init", "alice|market|hive", contract.ErrInvalidOwners)
	d.fail(alice, "contract_init", "hive:alice|market|doge", contract.ErrInvalidPayload)
	d.fail(alice, "get_status", "", contract.ErrNotInitialized)
	d.fail(alice, "deposit", "10", contract.ErrNotInitialized)

	res := d.call(alice, "contract_init", `"hive:alice, hive:bob|market"`, nil, true)
	assert.Equal(t, "initialized with 2 owners", res.Ret)
	assert.Contains(t, res.Logs, "in|ow:hive:alice,hive:bob|mk:market|as:hive")
	st := d.status()
	assert.Equal(t, []string{alice, bob}, st.Owners)
	assert.Equal(t, "hive", st.Asset)
	assert.Equal(t, "open", st.Phase)

	d.fail(bob, "contract_init", "hive:bob|market|hive", contract.ErrAlreadyInitialized)
}

func TestOnlyOwnersAct(t *testing.T) {
	d := setupDAO(t, alice, bob)
	d.fail(outsider, "vote_lock", "true", contract.ErrNotAuthorized)
	res := d.call(outsider, "deposit", "10", allow(10), false)
	assert.ErrorIs(t, res.Err, contract.ErrNotAuthorized)
	d.fail(outsider, "withdraw", "10", contract.ErrNotAuthorized)
	d.fail(outsider, "liquidate", "", contract.ErrNotAuthorized)

	d.allVote("vote_lock", alice, bob)
	d.fail(outsider, "acquire_vote", "x|1|1", contract.ErrNotAuthorized)
	d.fail(outsider, "list_propose", "x|1|1", contract.ErrNotAuthorized)
	d.fail(outsider, "cancel_vote", "x", contract.ErrNotAuthorized)
}

func TestPhaseGates(t *testing.T) {
	d := setupDAO(t, alice, bob)

	// open
	d.fail(alice, "vote_close", "true", contract.ErrInvalidPhase)
	d.fail(alice, "acquire_vote", "x|1|1", contract.ErrInvalidPhase)
	d.fail(alice, "list_propose", "x|1|1", contract.ErrInvalidPhase)
	d.fail(alice, "cancel_vote", "x", contract.ErrInvalidPhase)
	d.fail(alice, "liquidate", "", contract.ErrInvalidPhase)

	d.deposit(alice, 5)
	d.allVote("vote_lock", alice, bob)

	// locked
	d.fail(alice, "vote_lock", "true", contract.ErrInvalidPhase)
	d.fail(alice, "withdraw", "5", contract.ErrInvalidPhase)
	d.fail(alice, "liquidate", "", contract.ErrInvalidPhase)

	d.allVote("vote_close", alice, bob)

	// closed
	d.fail(alice, "vote_close", "true", contract.ErrInvalidPhase)
	d.fail(alice, "acquire_vote", "x|1|1", contract.ErrInvalidPhase)
	d.fail(alice, "list_propose", "x|1|1", contract.ErrInvalidPhase)
	res := d.call(alice, "deposit", "1", allow(1), false)
	assert.ErrorIs(t, res.Err, contract.ErrInvalidPhase)
}

func TestLockVoteToggles(t *testing.T) {
	d := setupDAO(t, alice, bob, carol)

	d.call(alice, "vote_lock", "true", nil, true)
	d.call(alice, "vote_lock", "", nil, true)
	p := d.proposal("lock", "0")
	assert.Equal(t, []string{alice}, p.Votes)
	assert.Equal(t, 3, p.Threshold)

	d.call(alice, "vote_lock", "false", nil, true)
	d.call(alice, "vote_lock", "false", nil, true)
	assert.Empty(t, d.proposal("lock", "0").Votes)

	d.fail(bob, "proposal_undo", "lock|0", contract.ErrNoSuchVote)
	d.fail(bob, "vote_lock", "maybe", contract.ErrInvalidPayload)

	d.call(alice, "vote_lock", "true", nil, true)
	d.call(bob, "vote_lock", "true", nil, true)
	assert.Equal(t, "open", d.status().Phase)
	res := d.call(carol, "proposal_vote", "lock|0|true", nil, true)
	assert.Equal(t, "locked", d.status().Phase)
	assert.Contains(t, res.Logs, "pp|k:lock|id:0")
	assert.Contains(t, res.Logs, "ph|s:locked")
}

func TestUndoBeforePass(t *testing.T) {
	d := setupDAO(t, alice, bob)
	d.allVote("vote_lock", alice, bob)

	d.fail(alice, "acquire_undo", "nothing", contract.ErrNoSuchProposal)
	d.call(alice, "acquire_vote", "gem|2|0", nil, true)
	d.fail(bob, "acquire_undo", "gem", contract.ErrNoSuchVote)
	res := d.call(alice, "acquire_undo", "gem", nil, true)
	assert.Contains(t, res.Logs, "uv|k:acquire|id:gem|by:hive:alice")
	assert.Empty(t, d.proposal("acquire", "gem").Votes)

	// different terms under the same asset ref are refused
	d.call(alice, "acquire_vote", "gem|2|0", nil, true)
	d.fail(bob, "acquire_vote", "gem|3|0", contract.ErrInvalidPayload)
	d.fail(bob, "list_vote", "9|true", contract.ErrNoSuchProposal)
}

func TestAbandonedProposalTakesNewTerms(t *testing.T) {
	d := setupDAO(t, alice, bob)
	d.deposit(alice, 100)
	d.allVote("vote_lock", alice, bob)

	d.call(alice, "acquire_vote", "123|1|50", nil, true)
	d.call(alice, "acquire_undo", "123", nil, true)

	d.call(bob, "acquire_vote", "123|1|60", nil, true)
	p := d.proposal("acquire", "123")
	assert.Equal(t, int64(60), p.Price)
	assert.Equal(t, []string{bob}, p.Votes)

	// the old terms are gone now that bob holds a vote
	d.fail(alice, "acquire_vote", "123|1|50", contract.ErrInvalidPayload)
	d.call(alice, "acquire_vote", "123|1|60", nil, true)
	assert.True(t, d.proposal("acquire", "123").Passed)
	assert.Equal(t, int64(40), d.balance(daoAddress))
}

func TestListIDsAreSequential(t *testing.T) {
	d := setupDAO(t, alice, bob)
	d.allVote("vote_lock", alice, bob)

	assert.Equal(t, "0", d.call(alice, "list_propose", "a|1|5", nil, true).Ret)
	assert.Equal(t, "1", d.call(bob, "list_propose", "a|1|6", nil, true).Ret)
	assert.Equal(t, []string{bob}, d.proposal("list", "1").Votes)

	d.fail(alice, "list_propose", "a|0|5", contract.ErrInvalidPayload)
	d.fail(alice, "list_propose", "a|1|0", contract.ErrInvalidPayload)
	d.fail(alice, "list_propose", "a|x|5", contract.ErrInvalidPayload)
	d.fail(alice, "list_vote", "0|perhaps", contract.ErrInvalidPayload)

	// the stub has nothing to list, so the swap fails and the vote rolls back
	res := d.call(alice, "list_vote", "1|true", nil, false)
	assert.ErrorIs(t, res.Err, contract.ErrExternalActionFailed)
	assert.False(t, d.proposal("list", "1").Passed)
}

func TestWithdrawWhileOpen(t *testing.T) {
	d := setupDAO(t, alice, bob)
	d.deposit(alice, 50)

	d.call(alice, "withdraw", "20", nil, true)
	assert.Equal(t, int64(30), d.equity(alice).Contributed)
	assert.Equal(t, int64(30), d.balance(daoAddress))
	assert.Equal(t, int64(startBalance-30), d.balance(alice))

	d.fail(alice, "withdraw", "31", contract.ErrInsufficientFunds)
	d.fail(bob, "withdraw", "1", contract.ErrInsufficientFunds)
	d.fail(alice, "withdraw", "0", contract.ErrInvalidPayload)
}

func TestDepositNeedsIntent(t *testing.T) {
	d := setupDAO(t, alice, bob)

	d.fail(alice, "deposit", "10", contract.ErrInvalidPayload)
	res := d.call(alice, "deposit", "10", allow(5), false)
	assert.ErrorIs(t, res.Err, contract.ErrInvalidPayload)

	// an empty payload deposits the intent limit
	res = d.call(bob, "deposit", "", allow(25), true)
	assert.Equal(t, "25", res.Ret)
	assert.Contains(t, res.Logs, "dp|by:hive:bob|am:25|eq:25|tc:25")
	assert.Equal(t, int64(25), d.equity(bob).Contributed)

	// a quoted empty payload reads the same as an empty one
	res = d.call(alice, "deposit", `""`, allow(15), true)
	assert.Equal(t, "15", res.Ret)
	assert.Equal(t, int64(15), d.equity(alice).Contributed)

	res = d.call(bob, "get_equity", `""`, nil, true)
	assert.Contains(t, res.Ret, `"owner":"hive:bob"`)
}

func TestUnknownAction(t *testing.T) {
	d := setupDAO(t, alice)
	d.fail(alice, "self_destruct", "", contract.ErrUnknownAction)
	assert.Contains(t, contract.Actions(), "liquidate")
}

func TestSingleOwnerPassesAlone(t *testing.T) {
	d := setupDAO(t, alice)
	d.deposit(alice, 10)
	d.call(alice, "vote_lock", "", nil, true)
	assert.Equal(t, "locked", d.status().Phase)
	d.call(alice, "acquire_vote", "solo|1|10", nil, true)
	assert.Equal(t, int64(1), d.holdings(daoAddress, "solo"))
	d.call(alice, "vote_close", "", nil, true)
	d.fail(alice, "liquidate", "", contract.ErrNothingToLiquidate)
}
