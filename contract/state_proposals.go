package contract

import "fmt"

// loadProposal returns nil, nil when no proposal sits under kind/id.
func (c *Contract) loadProposal(kind ProposalKind, id string) (*Proposal, error) {
	key, err := proposalKey(kind, id)
	if err != nil {
		return nil, err
	}
	ptr := c.h.StateGet(key)
	if ptr == nil || *ptr == "" {
		return nil, nil
	}
	p, err := DecodeProposal([]byte(*ptr))
	if err != nil {
		return nil, fmt.Errorf("decode proposal %s:%s: %w", kind, id, err)
	}
	return p, nil
}

func (c *Contract) saveProposal(p *Proposal) error {
	key, err := proposalKey(p.Kind, p.ID)
	if err != nil {
		return err
	}
	c.h.StateSet(key, string(EncodeProposal(p)))
	return nil
}
