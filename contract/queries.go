package contract

import (
	"fmt"

	"collective_dao/sdk"

	tinyjson "github.com/CosmWasm/tinyjson"
)

//go:generate tinyjson -all queries.go

// StatusView is the get_status response.
type StatusView struct {
	Phase            string   `json:"phase"`
	Owners           []string `json:"owners"`
	Marketplace      string   `json:"marketplace"`
	Asset            string   `json:"asset"`
	Balance          int64    `json:"balance"`
	TotalContributed int64    `json:"contributed"`
	TotalLiquidated  int64    `json:"liquidated"`
	ClosedSnapshot   int64    `json:"snapshot"`
}

// EquityView is the get_equity response.
type EquityView struct {
	Owner       string `json:"owner"`
	Contributed int64  `json:"contributed"`
	Liquidated  int64  `json:"liquidated"`
}

// ProposalView is the get_proposal response. Terms are empty for lock and close.
type ProposalView struct {
	Kind      string   `json:"kind"`
	ID        string   `json:"id"`
	Passed    bool     `json:"passed"`
	Votes     []string `json:"votes"`
	Threshold int      `json:"threshold"`
	AssetRef  string   `json:"asset_ref,omitempty"`
	Quantity  uint64   `json:"quantity,omitempty"`
	Price     int64    `json:"price,omitempty"`
}

// Status collects config, phase and ledger totals.
func (c *Contract) Status() (*StatusView, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	totals, err := c.loadTotals()
	if err != nil {
		return nil, err
	}
	balance, err := c.Balance()
	if err != nil {
		return nil, err
	}
	owners := make([]string, len(cfg.Owners))
	for i, o := range cfg.Owners {
		owners[i] = o.String()
	}
	return &StatusView{
		Phase:            c.loadPhase().String(),
		Owners:           owners,
		Marketplace:      cfg.Marketplace,
		Asset:            cfg.Asset.String(),
		Balance:          int64(balance),
		TotalContributed: int64(totals.Contributed),
		TotalLiquidated:  int64(totals.Liquidated),
		ClosedSnapshot:   int64(c.getClosedSnapshot()),
	}, nil
}

// EquityOf reads owner's ledger rows. Unknown addresses read as zero.
func (c *Contract) EquityOf(owner sdk.Address) (*EquityView, error) {
	if _, err := c.loadConfig(); err != nil {
		return nil, err
	}
	contributed, liquidated := c.Equity(owner)
	return &EquityView{
		Owner:       owner.String(),
		Contributed: int64(contributed),
		Liquidated:  int64(liquidated),
	}, nil
}

// Proposal loads a single proposal. The implicit lock and close proposals
// read as empty until someone votes on them.
func (c *Contract) Proposal(kind ProposalKind, id string) (*ProposalView, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	prop, err := c.loadProposal(kind, id)
	if err != nil {
		return nil, err
	}
	if prop == nil {
		if (kind != KindLock && kind != KindClose) || id != phaseProposalID {
			return nil, fmt.Errorf("%w: %s:%s", ErrNoSuchProposal, kind, id)
		}
		prop = &Proposal{Kind: kind, ID: id}
	}
	view := &ProposalView{
		Kind:      prop.Kind.String(),
		ID:        prop.ID,
		Passed:    prop.Passed,
		Votes:     make([]string, 0, prop.Votes.Size()),
		Threshold: cfg.N(),
	}
	for _, v := range prop.Votes.Members() {
		view.Votes = append(view.Votes, v.String())
	}
	switch p := prop.Payload.(type) {
	case AcquirePayload:
		view.AssetRef, view.Quantity, view.Price = p.AssetRef, p.Quantity, int64(p.Price)
	case ListPayload:
		view.AssetRef, view.Quantity, view.Price = p.AssetRef, p.Quantity, int64(p.PricePerUnit)
	case CancelListingPayload:
		view.AssetRef = p.AssetRef
	}
	return view, nil
}

func toJSON(v tinyjson.Marshaler) (string, error) {
	b, err := tinyjson.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
