package contract

import (
	"slices"

	"collective_dao/sdk"
)

// VoteSet is a set of owner identities kept sorted so encodings are stable.
type VoteSet struct {
	members []sdk.Address
}

func NewVoteSet(members ...sdk.Address) VoteSet {
	var s VoteSet
	for _, m := range members {
		s.Add(m)
	}
	return s
}

// Add reports whether the set changed.
func (s *VoteSet) Add(addr sdk.Address) bool {
	i, found := slices.BinarySearch(s.members, addr)
	if found {
		return false
	}
	s.members = slices.Insert(s.members, i, addr)
	return true
}

// Remove reports whether the set changed.
func (s *VoteSet) Remove(addr sdk.Address) bool {
	i, found := slices.BinarySearch(s.members, addr)
	if !found {
		return false
	}
	s.members = slices.Delete(s.members, i, i+1)
	return true
}

func (s *VoteSet) Contains(addr sdk.Address) bool {
	_, found := slices.BinarySearch(s.members, addr)
	return found
}

func (s *VoteSet) Size() int {
	return len(s.members)
}

// Members returns a copy in sorted order.
func (s *VoteSet) Members() []sdk.Address {
	return slices.Clone(s.members)
}
