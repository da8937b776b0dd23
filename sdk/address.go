package sdk

import "strings"

type AddressDomain string

const (
	AddressDomainUser     AddressDomain = "user"
	AddressDomainContract AddressDomain = "contract"
	AddressDomainSystem   AddressDomain = "system"
)

type AddressType string

const (
	AddressTypeEVM      AddressType = "evm"
	AddressTypeKey      AddressType = "key"
	AddressTypeHive     AddressType = "hive"
	AddressTypeTezos    AddressType = "tezos"
	AddressTypeContract AddressType = "contract"
	AddressTypeSystem   AddressType = "system"
	AddressTypeUnknown  AddressType = "unknown"
)

type Address string

// ContractAddress returns the ledger identity a contract holds funds under.
// Example payload: sdk.ContractAddress("dao")
func ContractAddress(contractID string) Address {
	return Address("contract:" + contractID)
}

// String returns the literal representation (like hive:alice) of the address.
// Example payload: sdk.Address("hive:foo").String()
func (a Address) String() string {
	return string(a)
}

// Domain checks the prefix to tell user, contract and system identities apart.
// Example payload: sdk.Address("contract:dao").Domain()
func (a Address) Domain() AddressDomain {
	s := a.String()
	switch {
	case strings.HasPrefix(s, "system:"):
		return AddressDomainSystem
	case strings.HasPrefix(s, "contract:"), strings.HasPrefix(s, "KT1"):
		return AddressDomainContract
	}
	return AddressDomainUser
}

// Type inspects the prefix to categorize the address (evm, key, hive, tezos,...).
// Example payload: sdk.Address("tz1VSUr8wwNhLAzempoch5d6hLRiTh8Cjcjb").Type()
func (a Address) Type() AddressType {
	s := a.String()
	switch {
	case strings.HasPrefix(s, "did:pkh:eip155"):
		return AddressTypeEVM
	case strings.HasPrefix(s, "did:key:"):
		return AddressTypeKey
	case strings.HasPrefix(s, "hive:"):
		return AddressTypeHive
	case strings.HasPrefix(s, "system:"):
		return AddressTypeSystem
	case strings.HasPrefix(s, "contract:"):
		return AddressTypeContract
	case isTezos(s):
		return AddressTypeTezos
	}
	return AddressTypeUnknown
}

// IsValid returns false if the address type detection failed, used as a light sanity check.
// Example payload: sdk.Address("foo").IsValid()
func (a Address) IsValid() bool {
	if a.Type() == AddressTypeUnknown {
		return false
	}
	// a bare prefix carries no identity
	s := a.String()
	return !strings.HasSuffix(s, ":")
}

// tz1/tz2/tz3 implicit accounts and KT1 originated contracts are 36 base58 chars.
func isTezos(s string) bool {
	if len(s) != 36 {
		return false
	}
	switch s[:3] {
	case "tz1", "tz2", "tz3", "KT1":
	default:
		return false
	}
	for i := 3; i < len(s); i++ {
		if !strings.ContainsRune(base58Alphabet, rune(s[i])) {
			return false
		}
	}
	return true
}

const base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"
