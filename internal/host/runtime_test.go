package host

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"

	"collective_dao/internal/store"
	"collective_dao/sdk"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// contractFunc adapts a plain function to Contract.
type contractFunc func(h sdk.Host, action, payload string) (string, error)

func (f contractFunc) Execute(h sdk.Host, action, payload string) (string, error) {
	return f(h, action, payload)
}

// counter keeps a number under "n" and can call another contract.
var counter = contractFunc(func(h sdk.Host, action, payload string) (string, error) {
	n := 0
	if p := h.StateGet("n"); p != nil {
		n, _ = strconv.Atoi(*p)
	}
	switch action {
	case "inc":
		n++
		h.StateSet("n", strconv.Itoa(n))
		h.Log("inc|" + strconv.Itoa(n))
		return strconv.Itoa(n), nil
	case "inc_fail":
		h.StateSet("n", strconv.Itoa(n+1))
		return "", errors.New("boom")
	case "panic":
		h.StateSet("n", "999")
		panic("kaboom")
	case "draw":
		amount, _ := strconv.ParseInt(payload, 10, 64)
		return "", h.Draw(amount, sdk.AssetHive)
	case "pay":
		to, amount, _ := strings.Cut(payload, "|")
		v, _ := strconv.ParseInt(amount, 10, 64)
		return "", h.Transfer(sdk.Address(to), v, sdk.AssetHive)
	case "call":
		// call id|action, swallowing the error
		id, act, _ := strings.Cut(payload, "|")
		h.StateSet("n", strconv.Itoa(n+100))
		ret, err := h.ContractCall(id, act, "", nil)
		if err != nil {
			return "callee failed: " + err.Error(), nil
		}
		return ret, nil
	case "whoami":
		return h.Env().Sender.Address.String() + "|" + h.Env().Caller.String(), nil
	case "recurse":
		_, err := h.ContractCall(h.Env().ContractId, "recurse", "", nil)
		return "", err
	}
	return "", errors.New("unknown")
})

func newTestRuntime(t *testing.T, opts ...Option) *Runtime {
	t.Helper()
	rt := NewRuntime(store.NewMemory(), opts...)
	require.NoError(t, rt.Register("a", counter))
	require.NoError(t, rt.Register("b", counter))
	return rt
}

func state(t *testing.T, rt *Runtime, id, key string) string {
	t.Helper()
	v, err := rt.StateGet(context.Background(), id, key)
	require.NoError(t, err)
	if v == nil {
		return ""
	}
	return *v
}

func TestCallCommitsOnSuccess(t *testing.T) {
	rt := newTestRuntime(t)
	res := rt.Call(context.Background(), CallRequest{ContractID: "a", Action: "inc", Sender: "hive:alice"})
	require.True(t, res.Success, res.Err)
	assert.NotEmpty(t, res.TxID)
	assert.Equal(t, "1", res.Ret)
	assert.Equal(t, []string{"inc|1"}, res.Logs)
	assert.Equal(t, "1", state(t, rt, "a", "n"))
	assert.Equal(t, "", state(t, rt, "b", "n"))
}

func TestCallDiscardsOnError(t *testing.T) {
	rt := newTestRuntime(t)
	res := rt.Call(context.Background(), CallRequest{ContractID: "a", Action: "inc_fail", Sender: "hive:alice"})
	require.False(t, res.Success)
	assert.EqualError(t, res.Err, "boom")
	assert.Empty(t, res.Logs)
	assert.Equal(t, "", state(t, rt, "a", "n"))

	res = rt.Call(context.Background(), CallRequest{ContractID: "a", Action: "panic"})
	require.False(t, res.Success)
	assert.ErrorIs(t, res.Err, ErrPanic)
	assert.Equal(t, "", state(t, rt, "a", "n"))

	res = rt.Call(context.Background(), CallRequest{ContractID: "zzz", Action: "inc"})
	assert.ErrorIs(t, res.Err, ErrUnknownContract)
}

func TestNestedFailureRevertsOnlyCallee(t *testing.T) {
	rt := newTestRuntime(t)
	res := rt.Call(context.Background(), CallRequest{ContractID: "a", Action: "call", Payload: "b|inc_fail", Sender: "hive:alice"})
	require.True(t, res.Success, res.Err)
	assert.Equal(t, "callee failed: boom", res.Ret)
	assert.Equal(t, "100", state(t, rt, "a", "n"))
	assert.Equal(t, "", state(t, rt, "b", "n"))
}

func TestNestedCallSender(t *testing.T) {
	rt := newTestRuntime(t)
	res := rt.Call(context.Background(), CallRequest{ContractID: "a", Action: "call", Payload: "b|whoami", Sender: "hive:alice"})
	require.True(t, res.Success, res.Err)
	assert.Equal(t, "contract:a|contract:a", res.Ret)

	res = rt.Call(context.Background(), CallRequest{ContractID: "a", Action: "whoami", Sender: "hive:alice"})
	assert.Equal(t, "hive:alice|hive:alice", res.Ret)
}

func TestCallDepthLimit(t *testing.T) {
	rt := newTestRuntime(t, WithMaxDepth(3))
	res := rt.Call(context.Background(), CallRequest{ContractID: "a", Action: "recurse"})
	require.False(t, res.Success)
	assert.ErrorIs(t, res.Err, ErrCallDepth)
}

func TestDrawRespectsIntent(t *testing.T) {
	rt := newTestRuntime(t)
	ctx := context.Background()
	require.NoError(t, rt.Mint(ctx, "hive:alice", 100, sdk.AssetHive))

	intents := []sdk.Intent{{Type: "transfer.allow", Args: map[string]string{"limit": "30", "token": "hive"}}}
	res := rt.Call(ctx, CallRequest{ContractID: "a", Action: "draw", Payload: "40", Sender: "hive:alice", Intents: intents})
	assert.ErrorIs(t, res.Err, ErrAllowance)

	res = rt.Call(ctx, CallRequest{ContractID: "a", Action: "draw", Payload: "30", Sender: "hive:alice"})
	assert.ErrorIs(t, res.Err, ErrAllowance)

	res = rt.Call(ctx, CallRequest{ContractID: "a", Action: "draw", Payload: "30", Sender: "hive:alice", Intents: intents})
	require.True(t, res.Success, res.Err)

	bal, err := rt.Balance(ctx, sdk.ContractAddress("a"), sdk.AssetHive)
	require.NoError(t, err)
	assert.Equal(t, int64(30), bal)
	bal, err = rt.Balance(ctx, "hive:alice", sdk.AssetHive)
	require.NoError(t, err)
	assert.Equal(t, int64(70), bal)
}

func TestTransferFromContract(t *testing.T) {
	rt := newTestRuntime(t)
	ctx := context.Background()
	require.NoError(t, rt.Mint(ctx, sdk.ContractAddress("a"), 10, sdk.AssetHive))

	res := rt.Call(ctx, CallRequest{ContractID: "a", Action: "pay", Payload: "hive:bob|11"})
	assert.ErrorIs(t, res.Err, ErrInsufficientFund)
	res = rt.Call(ctx, CallRequest{ContractID: "a", Action: "pay", Payload: "hive:bob|10"})
	require.True(t, res.Success, res.Err)

	bal, err := rt.Balance(ctx, "hive:bob", sdk.AssetHive)
	require.NoError(t, err)
	assert.Equal(t, int64(10), bal)

	require.Error(t, rt.Transfer(ctx, "hive:bob", "hive:carol", 11, sdk.AssetHive))
	require.NoError(t, rt.Transfer(ctx, "hive:bob", "hive:carol", 4, sdk.AssetHive))
	require.Error(t, rt.Mint(ctx, "hive:bob", 0, sdk.AssetHive))
	require.Error(t, rt.Mint(ctx, "hive:bob", 1, "doge"))
}

func TestRegisterTwice(t *testing.T) {
	rt := newTestRuntime(t)
	assert.ErrorIs(t, rt.Register("a", counter), ErrDuplicateID)
}

func TestCallSpans(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	rt := newTestRuntime(t, WithTracerProvider(tp))

	rt.Call(context.Background(), CallRequest{ContractID: "a", Action: "call", Payload: "b|inc", Sender: "hive:alice"})
	spans := sr.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "contract.nested_call", spans[0].Name())
	assert.Equal(t, "contract.call", spans[1].Name())
	assert.Equal(t, spans[1].SpanContext().TraceID(), spans[0].SpanContext().TraceID())
}
