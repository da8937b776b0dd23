package contract

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"collective_dao/sdk"
)

type binWriter struct {
	buf bytes.Buffer
}

// newWriter spins up a fresh writer so we dont leak old bytes between encodes.
func newWriter() *binWriter { return &binWriter{} }

// bytes returns the accumulated buffer, tiny helper but keeps code tidy.
func (w *binWriter) bytes() []byte { return w.buf.Bytes() }

// writeBool squashes bools into a single byte flag for deterministic payloads.
func (w *binWriter) writeBool(v bool) {
	if v {
		w.buf.WriteByte(1)
	} else {
		w.buf.WriteByte(0)
	}
}

// writeUint64 writes big endian numbers so tooling can read them without guessing.
func (w *binWriter) writeUint64(v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	w.buf.Write(b[:])
}

func (w *binWriter) writeAmount(v Amount) {
	w.writeUint64(uint64(v))
}

// writeVarUint uses varints to keep counts and lens compact.
func (w *binWriter) writeVarUint(v uint64) {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], v)
	w.buf.Write(tmp[:n])
}

// writeString prefixes its length then dumps UTF-8 directly.
func (w *binWriter) writeString(s string) {
	w.writeVarUint(uint64(len(s)))
	w.buf.WriteString(s)
}

func (w *binWriter) writeAddresses(addrs []sdk.Address) {
	w.writeVarUint(uint64(len(addrs)))
	for _, a := range addrs {
		w.writeString(a.String())
	}
}

type binReader struct {
	data []byte
	pos  int
}

func newReader(data []byte) *binReader {
	return &binReader{data: data}
}

func (r *binReader) readByte() (byte, error) {
	if r.pos >= len(r.data) {
		return 0, errors.New("unexpected EOF")
	}
	b := r.data[r.pos]
	r.pos++
	return b, nil
}

// readBool restores bools stored via writeBool above.
func (r *binReader) readBool() (bool, error) {
	b, err := r.readByte()
	if err != nil {
		return false, err
	}
	return b == 1, nil
}

// readUint64 decodes big endian integers for ids and totals.
func (r *binReader) readUint64() (uint64, error) {
	if r.pos+8 > len(r.data) {
		return 0, errors.New("unexpected EOF")
	}
	val := binary.BigEndian.Uint64(r.data[r.pos : r.pos+8])
	r.pos += 8
	return val, nil
}

func (r *binReader) readAmount() (Amount, error) {
	v, err := r.readUint64()
	if err != nil {
		return 0, err
	}
	return Amount(v), nil
}

// readVarUint undoes the compact varint encoding for lengths/counts.
func (r *binReader) readVarUint() (uint64, error) {
	val, n := binary.Uvarint(r.data[r.pos:])
	if n <= 0 {
		return 0, errors.New("invalid varuint")
	}
	r.pos += n
	return val, nil
}

// readString reads the varint length then slices out the utf8 chunk.
func (r *binReader) readString() (string, error) {
	l, err := r.readVarUint()
	if err != nil {
		return "", err
	}
	if l > uint64(len(r.data)-r.pos) {
		return "", errors.New("unexpected EOF")
	}
	s := string(r.data[r.pos : r.pos+int(l)])
	r.pos += int(l)
	return s, nil
}

func (r *binReader) readAddresses() ([]sdk.Address, error) {
	n, err := r.readVarUint()
	if err != nil {
		return nil, err
	}
	if n > MaxOwners {
		return nil, fmt.Errorf("address list too long: %d", n)
	}
	out := make([]sdk.Address, 0, n)
	for i := uint64(0); i < n; i++ {
		s, err := r.readString()
		if err != nil {
			return nil, err
		}
		out = append(out, sdk.Address(s))
	}
	return out, nil
}

// EncodeConfig packs owners, marketplace id and asset.
func EncodeConfig(cfg *Config) []byte {
	w := newWriter()
	w.writeAddresses(cfg.Owners)
	w.writeString(cfg.Marketplace)
	w.writeString(cfg.Asset.String())
	return w.bytes()
}

func DecodeConfig(data []byte) (*Config, error) {
	r := newReader(data)
	owners, err := r.readAddresses()
	if err != nil {
		return nil, fmt.Errorf("config owners: %w", err)
	}
	market, err := r.readString()
	if err != nil {
		return nil, fmt.Errorf("config marketplace: %w", err)
	}
	asset, err := r.readString()
	if err != nil {
		return nil, fmt.Errorf("config asset: %w", err)
	}
	return &Config{Owners: owners, Marketplace: market, Asset: sdk.Asset(asset)}, nil
}

func EncodeTotals(t *Totals) []byte {
	w := newWriter()
	w.writeAmount(t.Contributed)
	w.writeAmount(t.Liquidated)
	return w.bytes()
}

func DecodeTotals(data []byte) (*Totals, error) {
	r := newReader(data)
	contributed, err := r.readAmount()
	if err != nil {
		return nil, err
	}
	liquidated, err := r.readAmount()
	if err != nil {
		return nil, err
	}
	return &Totals{Contributed: contributed, Liquidated: liquidated}, nil
}

func (LockPayload) encode(*binWriter)  {}
func (ClosePayload) encode(*binWriter) {}

func (p AcquirePayload) encode(w *binWriter) {
	w.writeString(p.AssetRef)
	w.writeUint64(p.Quantity)
	w.writeAmount(p.Price)
}

func (p ListPayload) encode(w *binWriter) {
	w.writeString(p.AssetRef)
	w.writeUint64(p.Quantity)
	w.writeAmount(p.PricePerUnit)
}

func (p CancelListingPayload) encode(w *binWriter) {
	w.writeString(p.AssetRef)
}

// EncodeProposal writes kind, id, passed flag, voters and the payload fields.
func EncodeProposal(p *Proposal) []byte {
	w := newWriter()
	w.buf.WriteByte(byte(p.Kind))
	w.writeString(p.ID)
	w.writeBool(p.Passed)
	w.writeAddresses(p.Votes.members)
	p.Payload.encode(w)
	return w.bytes()
}

func DecodeProposal(data []byte) (*Proposal, error) {
	r := newReader(data)
	kb, err := r.readByte()
	if err != nil {
		return nil, err
	}
	p := &Proposal{Kind: ProposalKind(kb)}
	if p.ID, err = r.readString(); err != nil {
		return nil, err
	}
	if p.Passed, err = r.readBool(); err != nil {
		return nil, err
	}
	voters, err := r.readAddresses()
	if err != nil {
		return nil, err
	}
	p.Votes = NewVoteSet(voters...)
	if p.Payload, err = decodePayload(r, p.Kind); err != nil {
		return nil, fmt.Errorf("proposal %s payload: %w", p, err)
	}
	return p, nil
}

func decodePayload(r *binReader, kind ProposalKind) (Payload, error) {
	switch kind {
	case KindLock:
		return LockPayload{}, nil
	case KindClose:
		return ClosePayload{}, nil
	case KindCancelListing:
		ref, err := r.readString()
		if err != nil {
			return nil, err
		}
		return CancelListingPayload{AssetRef: ref}, nil
	case KindAcquire, KindList:
		ref, err := r.readString()
		if err != nil {
			return nil, err
		}
		qty, err := r.readUint64()
		if err != nil {
			return nil, err
		}
		price, err := r.readAmount()
		if err != nil {
			return nil, err
		}
		if kind == KindAcquire {
			return AcquirePayload{AssetRef: ref, Quantity: qty, Price: price}, nil
		}
		return ListPayload{AssetRef: ref, Quantity: qty, PricePerUnit: price}, nil
	}
	return nil, fmt.Errorf("unknown proposal kind %d", kind)
}
