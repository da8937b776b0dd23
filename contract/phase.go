package contract

import "collective_dao/sdk"

// VoteLock adds (inFavor) or removes owner from the lock votes. The last
// missing vote moves the contract from open to locked.
func (c *Contract) VoteLock(owner sdk.Address, inFavor bool) error {
	return c.Vote(owner, KindLock, phaseProposalID, inFavor)
}

// VoteClose is the locked to closed counterpart of VoteLock. The transition
// captures the treasury balance as the closed snapshot.
func (c *Contract) VoteClose(owner sdk.Address, inFavor bool) error {
	return c.Vote(owner, KindClose, phaseProposalID, inFavor)
}

// Phase is the current lifecycle stage.
func (c *Contract) Phase() Phase {
	return c.loadPhase()
}
