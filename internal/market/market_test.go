package market

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"collective_dao/contract"
	"collective_dao/internal/host"
	"collective_dao/internal/store"
	"collective_dao/sdk"

	"github.com/CosmWasm/tinyjson"
	"github.com/gorilla/websocket"
	"github.com/sasha-s/go-deadlock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allow(amount int64) []sdk.Intent {
	return []sdk.Intent{{
		Type: "transfer.allow",
		Args: map[string]string{"limit": strconv.FormatInt(amount, 10), "token": "hive"},
	}}
}

func call(t *testing.T, rt *host.Runtime, id, sender, action, payload string, intents []sdk.Intent) host.Result {
	t.Helper()
	return rt.Call(context.Background(), host.CallRequest{
		ContractID: id, Action: action, Payload: payload, Sender: sdk.Address(sender), Intents: intents,
	})
}

func TestStubTrading(t *testing.T) {
	rt := host.NewRuntime(store.NewMemory())
	require.NoError(t, rt.Register("market", NewStub()))
	ctx := context.Background()
	require.NoError(t, rt.Mint(ctx, "hive:seller", 100, sdk.AssetHive))
	require.NoError(t, rt.Mint(ctx, "hive:buyer", 100, sdk.AssetHive))

	res := call(t, rt, "market", "hive:seller", "collect", "2|card|30", allow(30))
	require.True(t, res.Success, res.Err)

	res = call(t, rt, "market", "hive:seller", "swap", "3|card|25", nil)
	assert.ErrorIs(t, res.Err, ErrNoHoldings)
	res = call(t, rt, "market", "hive:seller", "swap", "2|card|25", nil)
	require.True(t, res.Success, res.Err)
	res = call(t, rt, "market", "hive:seller", "get_listing", "hive:seller|card", nil)
	assert.Equal(t, "2|25", res.Ret)

	res = call(t, rt, "market", "hive:buyer", "purchase", "hive:seller|card|1", allow(25))
	require.True(t, res.Success, res.Err)
	assert.Equal(t, "25", res.Ret)

	res = call(t, rt, "market", "hive:seller", "cancel_swap", "card", nil)
	require.True(t, res.Success, res.Err)
	assert.Equal(t, "1", res.Ret)
	res = call(t, rt, "market", "hive:seller", "cancel_swap", "card", nil)
	assert.ErrorIs(t, res.Err, ErrNoListing)

	res = call(t, rt, "market", "hive:buyer", "get_holdings", "hive:buyer|card", nil)
	assert.Equal(t, "1", res.Ret)

	bal, err := rt.Balance(ctx, "hive:seller", sdk.AssetHive)
	require.NoError(t, err)
	assert.Equal(t, int64(100-30+25), bal)

	res = call(t, rt, "market", "hive:buyer", "teleport", "", nil)
	assert.ErrorIs(t, res.Err, ErrUnsupported)
	res = call(t, rt, "market", "hive:buyer", "collect", "0|card|1", nil)
	assert.ErrorIs(t, res.Err, ErrBadRequest)
}

func TestStubFailOn(t *testing.T) {
	rt := host.NewRuntime(store.NewMemory())
	s := NewStub()
	s.FailOn["collect"] = errors.New("closed for maintenance")
	require.NoError(t, rt.Register("market", s))
	res := call(t, rt, "market", "hive:x", "collect", "1|a|0", nil)
	assert.EqualError(t, res.Err, "closed for maintenance")
}

// offHost records orders and rejects the ones for refused refs.
type offHost struct {
	mu      deadlock.Mutex
	orders  []OrderMessage
	refused string
}

func (o *offHost) decide(m OrderMessage) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.orders = append(o.orders, m)
	if m.AssetRef == o.refused {
		return errors.New("unknown asset")
	}
	return nil
}

func (o *offHost) seen() []OrderMessage {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]OrderMessage(nil), o.orders...)
}

func TestGatewayMarketplace(t *testing.T) {
	remote := &offHost{refused: "ghost"}
	srv := httptest.NewServer(GatewayHandler(remote.decide))
	defer srv.Close()

	gw := NewGateway("ws"+strings.TrimPrefix(srv.URL, "http"), "hive:escrow")
	gw.Timeout = 2 * time.Second
	defer gw.Close()

	rt := host.NewRuntime(store.NewMemory())
	require.NoError(t, rt.Register("dao", contract.NewHandler(gw)))
	ctx := context.Background()
	for _, o := range []sdk.Address{"hive:alice", "hive:bob"} {
		require.NoError(t, rt.Mint(ctx, o, 100, sdk.AssetHive))
	}
	mustCall := func(sender, action, payload string, intents []sdk.Intent) {
		t.Helper()
		res := call(t, rt, "dao", sender, action, payload, intents)
		require.True(t, res.Success, "%s: %v", action, res.Err)
	}
	mustCall("hive:alice", "contract_init", "hive:alice,hive:bob|remote|hive", nil)
	mustCall("hive:alice", "deposit", "40", allow(40))
	mustCall("hive:bob", "deposit", "40", allow(40))
	mustCall("hive:alice", "vote_lock", "", nil)
	mustCall("hive:bob", "vote_lock", "", nil)

	mustCall("hive:alice", "acquire_vote", "print|1|30", nil)
	mustCall("hive:bob", "acquire_vote", "print|1|30", nil)

	orders := remote.seen()
	require.Len(t, orders, 1)
	assert.Equal(t, "acquire", orders[0].Op)
	assert.Equal(t, "dao", orders[0].DAO)
	assert.Equal(t, "remote", orders[0].Market)
	assert.Equal(t, int64(30), orders[0].Price)

	escrow, err := rt.Balance(ctx, "hive:escrow", sdk.AssetHive)
	require.NoError(t, err)
	assert.Equal(t, int64(30), escrow)

	// a refused order undoes the escrow transfer with the vote
	mustCall("hive:alice", "acquire_vote", "ghost|1|30", nil)
	res := call(t, rt, "dao", "hive:bob", "acquire_vote", "ghost|1|30", nil)
	require.False(t, res.Success)
	assert.ErrorIs(t, res.Err, contract.ErrExternalActionFailed)
	assert.ErrorIs(t, res.Err, ErrRejected)

	escrow, err = rt.Balance(ctx, "hive:escrow", sdk.AssetHive)
	require.NoError(t, err)
	assert.Equal(t, int64(30), escrow)
	treasury, err := rt.Balance(ctx, sdk.ContractAddress("dao"), sdk.AssetHive)
	require.NoError(t, err)
	assert.Equal(t, int64(50), treasury)
}

func TestGatewayUnreachable(t *testing.T) {
	gw := NewGateway("ws://127.0.0.1:1", "hive:escrow")
	gw.Timeout = 200 * time.Millisecond
	rt := host.NewRuntime(store.NewMemory())
	require.NoError(t, rt.Register("dao", contract.NewHandler(gw)))

	require.True(t, call(t, rt, "dao", "hive:alice", "contract_init", "hive:alice|remote|hive", nil).Success)
	require.True(t, call(t, rt, "dao", "hive:alice", "vote_lock", "", nil).Success)
	res := call(t, rt, "dao", "hive:alice", "cancel_vote", "x", nil)
	require.False(t, res.Success)
	assert.ErrorIs(t, res.Err, contract.ErrExternalActionFailed)
}

func TestGatewaySkipsForeignReplies(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg OrderMessage
		if err := tinyjson.Unmarshal(raw, &msg); err != nil {
			return
		}
		_ = conn.WriteMessage(websocket.TextMessage, []byte("not json"))
		foreign, _ := tinyjson.Marshal(ReplyMessage{ID: "someone-else", OK: false, Error: "nope"})
		_ = conn.WriteMessage(websocket.TextMessage, foreign)
		ours, _ := tinyjson.Marshal(ReplyMessage{ID: msg.ID, OK: true})
		_ = conn.WriteMessage(websocket.TextMessage, ours)
	}))
	defer srv.Close()

	gw := NewGateway("ws"+strings.TrimPrefix(srv.URL, "http"), "hive:escrow")
	gw.Timeout = 2 * time.Second
	defer gw.Close()

	rt := host.NewRuntime(store.NewMemory())
	require.NoError(t, rt.Register("dao", contract.NewHandler(gw)))
	require.True(t, call(t, rt, "dao", "hive:alice", "contract_init", "hive:alice|remote|hive", nil).Success)
	require.True(t, call(t, rt, "dao", "hive:alice", "vote_lock", "", nil).Success)

	res := call(t, rt, "dao", "hive:alice", "cancel_vote", "x", nil)
	require.True(t, res.Success, "%v", res.Err)
}
