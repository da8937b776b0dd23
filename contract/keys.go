package contract

import (
	"strconv"

	"collective_dao/sdk"
)

// packU64LEInline sprinkles a uint64 into dst in little-endian order so our keys stay compact.
func packU64LEInline(x uint64, dst []byte) {
	dst[0] = byte(x)
	dst[1] = byte(x >> 8)
	dst[2] = byte(x >> 16)
	dst[3] = byte(x >> 24)
	dst[4] = byte(x >> 32)
	dst[5] = byte(x >> 40)
	dst[6] = byte(x >> 48)
	dst[7] = byte(x >> 56)
}

// packU64LE appends the encoded number to dst and returns the new slice.
func packU64LE(x uint64, dst []byte) []byte {
	var tmp [8]byte
	packU64LEInline(x, tmp[:])
	return append(dst, tmp[:]...)
}

func singleByteKey(prefix byte) string {
	return string([]byte{prefix})
}

func configKey() string         { return singleByteKey(kConfig) }
func phaseKey() string          { return singleByteKey(kPhase) }
func totalsKey() string         { return singleByteKey(kTotals) }
func closedSnapshotKey() string { return singleByteKey(kClosedSnapshot) }

// ownerKey appends the address bytes after the prefix, no nested maps in host storage.
func ownerKey(prefix byte, addr sdk.Address) string {
	s := addr.String()
	buf := make([]byte, 0, 1+len(s))
	buf = append(buf, prefix)
	buf = append(buf, s...)
	return string(buf)
}

func equityKey(addr sdk.Address) string     { return ownerKey(kEquity, addr) }
func liquidatedKey(addr sdk.Address) string { return ownerKey(kLiquidated, addr) }

// proposalKey lays out 0x10|kind|id. List ids are packed little-endian,
// the other kinds use the raw external reference.
func proposalKey(kind ProposalKind, id string) (string, error) {
	buf := make([]byte, 0, 2+len(id))
	buf = append(buf, kProposal, byte(kind))
	if kind == KindList {
		n, err := strconv.ParseUint(id, 10, 64)
		if err != nil {
			return "", errInvalidPayload("list proposal id %q", id)
		}
		buf = packU64LE(n, buf)
	} else {
		buf = append(buf, id...)
	}
	return string(buf), nil
}
