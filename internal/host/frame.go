package host

import (
	"context"
	"fmt"
	"strconv"

	"collective_dao/internal/store"
	"collective_dao/sdk"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// frame is the sdk.Host of one contract invocation. Nested calls get their
// own frame on the same tx.
type frame struct {
	rt    *Runtime
	tx    *store.Tx
	ctx   context.Context
	env   sdk.Env
	depth int
	logs  *[]string
	// drawn is what this frame already pulled per asset, bounded by the intent limit
	drawn map[sdk.Asset]int64
}

var _ sdk.Host = (*frame)(nil)

func (f *frame) run(action, payload string) (ret string, err error) {
	c, err := f.rt.contract(f.env.ContractId)
	if err != nil {
		return "", err
	}
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, p)
		}
	}()
	return c.Execute(f, action, payload)
}

func (f *frame) Env() sdk.Env { return f.env }

func (f *frame) Context() context.Context { return f.ctx }

func (f *frame) self() sdk.Address { return sdk.ContractAddress(f.env.ContractId) }

func (f *frame) StateGet(key string) *string {
	return f.tx.Get(stateNS(f.env.ContractId), key)
}

func (f *frame) StateSet(key string, value string) {
	f.tx.Set(stateNS(f.env.ContractId), key, value)
}

func (f *frame) StateDelete(key string) {
	f.tx.Delete(stateNS(f.env.ContractId), key)
}

func (f *frame) Balance(addr sdk.Address, asset sdk.Asset) int64 {
	return balance(f.tx, addr, asset)
}

// Draw moves amount from the sender to the running contract. The sum of all
// draws of this frame may not exceed the sender's transfer.allow limit.
func (f *frame) Draw(amount int64, asset sdk.Asset) error {
	if amount <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidAmount, amount)
	}
	limit, ok := f.allowance(asset)
	if !ok {
		return fmt.Errorf("%w: no %s intent", ErrAllowance, asset)
	}
	if f.drawn[asset]+amount > limit {
		return fmt.Errorf("%w: %d of %d already drawn, asked %d", ErrAllowance, f.drawn[asset], limit, amount)
	}
	if err := move(f.tx, f.env.Sender.Address, f.self(), asset, amount); err != nil {
		return err
	}
	f.drawn[asset] += amount
	return nil
}

func (f *frame) allowance(asset sdk.Asset) (int64, bool) {
	for _, in := range f.env.Intents {
		if in.Type != "transfer.allow" || sdk.Asset(in.Args["token"]) != asset {
			continue
		}
		limit, err := strconv.ParseInt(in.Args["limit"], 10, 64)
		if err != nil || limit < 0 {
			return 0, false
		}
		return limit, true
	}
	return 0, false
}

func (f *frame) Transfer(to sdk.Address, amount int64, asset sdk.Asset) error {
	return move(f.tx, f.self(), to, asset, amount)
}

// ContractCall runs the callee with this contract as sender. A failing
// callee leaves no trace, the caller decides whether to fail too.
func (f *frame) ContractCall(contractID string, method string, payload string, opts *sdk.ContractCallOptions) (string, error) {
	if f.depth+1 >= f.rt.maxDepth {
		return "", fmt.Errorf("%w: %d", ErrCallDepth, f.rt.maxDepth)
	}
	if _, err := f.rt.contract(contractID); err != nil {
		return "", err
	}
	ctx, span := f.rt.tracer.Start(f.ctx, "contract.nested_call", trace.WithAttributes(
		attribute.String("contract.id", contractID),
		attribute.String("contract.action", method),
		attribute.String("contract.caller", f.env.ContractId),
		attribute.Int("call.depth", f.depth+1),
	))
	defer span.End()

	var intents []sdk.Intent
	if opts != nil {
		intents = opts.Intents
	}
	self := f.self()
	child := &frame{
		rt:  f.rt,
		tx:  f.tx,
		ctx: ctx,
		env: sdk.Env{
			ContractId: contractID,
			TxId:       f.env.TxId,
			Timestamp:  f.env.Timestamp,
			Sender:     sdk.Sender{Address: self, RequiredAuths: []sdk.Address{self}},
			Caller:     self,
			Intents:    intents,
		},
		depth: f.depth + 1,
		logs:  f.logs,
		drawn: map[sdk.Asset]int64{},
	}

	mark := f.tx.Mark()
	nlogs := len(*f.logs)
	ret, err := child.run(method, payload)
	if err != nil {
		f.tx.RevertTo(mark)
		*f.logs = (*f.logs)[:nlogs]
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	return ret, nil
}

func (f *frame) Log(msg string) {
	*f.logs = append(*f.logs, msg)
}
