package contract

import "collective_dao/sdk"

// -----------------------------------------------------------------------------
// Supported Assets
// -----------------------------------------------------------------------------

// DefaultAsset is the treasury asset when contract_init names none.
const DefaultAsset = sdk.AssetHive

// -----------------------------------------------------------------------------
// Limits
// -----------------------------------------------------------------------------

const (
	// MaxOwners keeps the vote sets small enough to live in one proposal blob.
	MaxOwners = 64
	// MaxAssetRefLength bounds marketplace identifiers used as proposal ids.
	MaxAssetRefLength = 128
)

// -----------------------------------------------------------------------------
// Counter Keys
// -----------------------------------------------------------------------------

const (
	// ListProposalsCount hands out sequential ids to list proposals.
	ListProposalsCount = "count:list"
)

// -----------------------------------------------------------------------------
// Storage Key Prefixes
// -----------------------------------------------------------------------------

const (
	// kConfig stores the encoded Config (owners, marketplace, asset).
	kConfig byte = 0x01
	// kPhase is a single phase byte.
	kPhase byte = 0x02
	// kTotals holds TotalContributed and TotalLiquidated.
	kTotals byte = 0x03
	// kClosedSnapshot is the balance captured on the close transition.
	kClosedSnapshot byte = 0x04
	// kEquity maps owner to contributed amount.
	kEquity byte = 0x05
	// kLiquidated maps owner to the amount already paid out.
	kLiquidated byte = 0x06
	// kProposal contains encoded Proposal records keyed by kind and id.
	kProposal byte = 0x10
)

// -----------------------------------------------------------------------------
// Phases
// -----------------------------------------------------------------------------

const (
	PhaseOpen   Phase = 0
	PhaseLocked Phase = 1
	PhaseClosed Phase = 2
)

// -----------------------------------------------------------------------------
// Proposal Kinds
// -----------------------------------------------------------------------------

const (
	KindLock          ProposalKind = 1
	KindClose         ProposalKind = 2
	KindAcquire       ProposalKind = 3
	KindList          ProposalKind = 4
	KindCancelListing ProposalKind = 5
)

// phaseProposalID is the fixed id of the lock and close votes.
const phaseProposalID = "0"
