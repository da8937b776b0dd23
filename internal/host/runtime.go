// Package host runs contracts against a store backend. Every call executes
// inside one store.Tx and is committed only when it succeeds, nested
// contract calls share that tx and roll back to a savepoint on failure.
package host

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"collective_dao/internal/logging"
	"collective_dao/internal/store"
	"collective_dao/sdk"

	"github.com/google/uuid"
	"github.com/sasha-s/go-deadlock"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	ledgerNS = "ledger"

	DefaultMaxDepth = 8
)

var (
	ErrUnknownContract  = errors.New("unknown contract")
	ErrDuplicateID      = errors.New("contract id already registered")
	ErrCallDepth        = errors.New("call depth exceeded")
	ErrInsufficientFund = errors.New("insufficient balance")
	ErrAllowance        = errors.New("draw exceeds transfer.allow")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrPanic            = errors.New("contract panicked")
)

// Contract is anything the runtime can dispatch a call to.
type Contract interface {
	Execute(h sdk.Host, action string, payload string) (string, error)
}

// CallRequest is one externally signed call.
type CallRequest struct {
	ContractID string
	Action     string
	Payload    string
	Sender     sdk.Address
	Intents    []sdk.Intent
}

// Result reports the outcome. Logs are only kept for successful calls.
type Result struct {
	TxID    string
	Success bool
	Ret     string
	Err     error
	Logs    []string
}

type Runtime struct {
	mu        deadlock.Mutex
	backend   store.Backend
	contracts map[string]Contract
	tracer    trace.Tracer
	maxDepth  int
	now       func() time.Time
}

type Option func(*Runtime)

// WithTracerProvider replaces the global otel provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(r *Runtime) { r.tracer = tp.Tracer("collective_dao/host") }
}

func WithMaxDepth(n int) Option {
	return func(r *Runtime) { r.maxDepth = n }
}

func WithClock(now func() time.Time) Option {
	return func(r *Runtime) { r.now = now }
}

func NewRuntime(backend store.Backend, opts ...Option) *Runtime {
	r := &Runtime{
		backend:   backend,
		contracts: map[string]Contract{},
		tracer:    otel.Tracer("collective_dao/host"),
		maxDepth:  DefaultMaxDepth,
		now:       time.Now,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Register deploys c under id. Its funds live at sdk.ContractAddress(id).
func (r *Runtime) Register(id string, c Contract) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.contracts[id]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateID, id)
	}
	r.contracts[id] = c
	return nil
}

func (r *Runtime) contract(id string) (Contract, error) {
	c, ok := r.contracts[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownContract, id)
	}
	return c, nil
}

// Call executes req atomically. Calls are serialized.
func (r *Runtime) Call(ctx context.Context, req CallRequest) Result {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := Result{TxID: uuid.NewString()}
	ctx, span := r.tracer.Start(ctx, "contract.call", trace.WithAttributes(
		attribute.String("contract.id", req.ContractID),
		attribute.String("contract.action", req.Action),
		attribute.String("tx.id", res.TxID),
		attribute.String("tx.sender", req.Sender.String()),
	))
	defer span.End()

	tx := store.Begin(ctx, r.backend)
	var logs []string
	f := &frame{
		rt:  r,
		tx:  tx,
		ctx: ctx,
		env: sdk.Env{
			ContractId: req.ContractID,
			TxId:       res.TxID,
			Timestamp:  r.now().UTC().Format(time.RFC3339),
			Sender:     sdk.Sender{Address: req.Sender, RequiredAuths: []sdk.Address{req.Sender}},
			Caller:     req.Sender,
			Intents:    req.Intents,
		},
		logs:  &logs,
		drawn: map[sdk.Asset]int64{},
	}

	ret, err := f.run(req.Action, req.Payload)
	if err == nil {
		err = tx.Err()
	}
	if err == nil {
		err = tx.Commit()
	}
	if err != nil {
		res.Err = err
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logging.Logf(logging.Warn, "tx %s %s.%s failed: %v", res.TxID, req.ContractID, req.Action, err)
		return res
	}
	res.Success = true
	res.Ret = ret
	res.Logs = logs
	span.SetAttributes(attribute.Int("contract.logs", len(logs)))
	for _, l := range logs {
		logging.Logf(logging.Debug, "tx %s %s: %s", res.TxID, req.ContractID, l)
	}
	return res
}

// Mint credits funds out of thin air, the local stand-in for a chain deposit.
func (r *Runtime) Mint(ctx context.Context, to sdk.Address, amount int64, asset sdk.Asset) error {
	if amount <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidAmount, amount)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	tx := store.Begin(ctx, r.backend)
	if err := credit(tx, to, asset, amount); err != nil {
		return err
	}
	if err := tx.Err(); err != nil {
		return err
	}
	return tx.Commit()
}

// Transfer moves funds between two addresses outside any contract.
func (r *Runtime) Transfer(ctx context.Context, from, to sdk.Address, amount int64, asset sdk.Asset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx := store.Begin(ctx, r.backend)
	if err := move(tx, from, to, asset, amount); err != nil {
		return err
	}
	if err := tx.Err(); err != nil {
		return err
	}
	return tx.Commit()
}

// Balance reads committed state.
func (r *Runtime) Balance(ctx context.Context, addr sdk.Address, asset sdk.Asset) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tx := store.Begin(ctx, r.backend)
	bal := balance(tx, addr, asset)
	return bal, tx.Err()
}

// StateGet reads a committed contract key, nil when missing.
func (r *Runtime) StateGet(ctx context.Context, contractID, key string) (*string, error) {
	return r.backend.Get(ctx, stateNS(contractID), key)
}

func stateNS(contractID string) string {
	return "state/" + contractID
}

func ledgerKey(addr sdk.Address, asset sdk.Asset) string {
	return addr.String() + "/" + asset.String()
}

func balance(tx *store.Tx, addr sdk.Address, asset sdk.Asset) int64 {
	ptr := tx.Get(ledgerNS, ledgerKey(addr, asset))
	if ptr == nil {
		return 0
	}
	v, err := strconv.ParseInt(*ptr, 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func setBalance(tx *store.Tx, addr sdk.Address, asset sdk.Asset, v int64) {
	if v == 0 {
		tx.Delete(ledgerNS, ledgerKey(addr, asset))
		return
	}
	tx.Set(ledgerNS, ledgerKey(addr, asset), strconv.FormatInt(v, 10))
}

func credit(tx *store.Tx, to sdk.Address, asset sdk.Asset, amount int64) error {
	if !asset.IsValid() {
		return fmt.Errorf("unknown asset %q", asset)
	}
	bal := balance(tx, to, asset)
	if bal+amount < bal {
		return fmt.Errorf("%w: balance overflow", ErrInvalidAmount)
	}
	setBalance(tx, to, asset, bal+amount)
	return nil
}

func move(tx *store.Tx, from, to sdk.Address, asset sdk.Asset, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidAmount, amount)
	}
	if !to.IsValid() {
		return fmt.Errorf("invalid recipient %q", to)
	}
	bal := balance(tx, from, asset)
	if bal < amount {
		return fmt.Errorf("%w: %s holds %d %s, needs %d", ErrInsufficientFund, from, bal, asset, amount)
	}
	setBalance(tx, from, asset, bal-amount)
	return credit(tx, to, asset, amount)
}
