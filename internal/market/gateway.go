package market

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"collective_dao/contract"
	"collective_dao/internal/logging"
	"collective_dao/sdk"

	"github.com/CosmWasm/tinyjson"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sasha-s/go-deadlock"
)

//go:generate tinyjson -all gateway.go

const DefaultGatewayTimeout = 5 * time.Second

var ErrRejected = errors.New("order rejected by gateway")

// OrderMessage goes out for every passed trade proposal.
type OrderMessage struct {
	ID       string `json:"id"`
	Op       string `json:"op"`
	DAO      string `json:"dao"`
	Market   string `json:"market"`
	AssetRef string `json:"asset_ref"`
	Quantity uint64 `json:"quantity"`
	Price    int64  `json:"price"`
	Asset    string `json:"asset"`
}

// ReplyMessage answers an OrderMessage with the same ID.
type ReplyMessage struct {
	ID    string `json:"id"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// Gateway forwards orders to an off-host marketplace over a websocket. For
// acquisitions the price is moved to Escrow before the order is sent, a
// rejected order fails the call and with it the transfer.
//
// A reply that misses the timeout fails the call and rolls the escrow
// transfer back, even if the remote side went on to execute the order.
// Reconciling that case is left to whoever runs the escrow account.
type Gateway struct {
	URL     string
	Escrow  sdk.Address
	Timeout time.Duration

	mu   deadlock.Mutex
	conn *websocket.Conn
}

var _ contract.Marketplace = (*Gateway)(nil)

func NewGateway(url string, escrow sdk.Address) *Gateway {
	return &Gateway{URL: url, Escrow: escrow, Timeout: DefaultGatewayTimeout}
}

func (g *Gateway) Acquire(h sdk.Host, o contract.Order) error {
	if o.Price > 0 {
		if g.Escrow == "" {
			return errors.New("gateway has no escrow address")
		}
		if err := h.Transfer(g.Escrow, int64(o.Price), o.Asset); err != nil {
			return err
		}
	}
	return g.send(h, "acquire", o)
}

func (g *Gateway) List(h sdk.Host, o contract.Order) error {
	return g.send(h, "list", o)
}

func (g *Gateway) CancelListing(h sdk.Host, o contract.Order) error {
	return g.send(h, "cancel", o)
}

func (g *Gateway) send(h sdk.Host, op string, o contract.Order) error {
	msg := OrderMessage{
		ID:       uuid.NewString(),
		Op:       op,
		DAO:      h.Env().ContractId,
		Market:   o.Market,
		AssetRef: o.AssetRef,
		Quantity: o.Quantity,
		Price:    int64(o.Price),
		Asset:    o.Asset.String(),
	}
	data, err := tinyjson.Marshal(msg)
	if err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	conn, err := g.connect(h.Context())
	if err != nil {
		return err
	}
	deadline := time.Now().Add(g.timeout())
	if d, ok := h.Context().Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetWriteDeadline(deadline)
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		g.drop()
		return fmt.Errorf("send order: %w", err)
	}
	_ = conn.SetReadDeadline(deadline)
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			g.drop()
			return fmt.Errorf("await reply %s: %w", msg.ID, err)
		}
		var reply ReplyMessage
		if err := tinyjson.Unmarshal(raw, &reply); err != nil {
			logging.Logf(logging.Warn, "gateway: undecodable reply: %v", err)
			continue
		}
		if reply.ID != msg.ID {
			// not ours, the connection is dropped on timeout so this is never
			// a late reply to an earlier order
			logging.Logf(logging.Warn, "gateway: reply %s while awaiting %s", reply.ID, msg.ID)
			continue
		}
		if !reply.OK {
			return fmt.Errorf("%w: %s", ErrRejected, reply.Error)
		}
		return nil
	}
}

func (g *Gateway) connect(ctx context.Context) (*websocket.Conn, error) {
	if g.conn != nil {
		return g.conn, nil
	}
	dctx, cancel := context.WithTimeout(ctx, g.timeout())
	defer cancel()
	conn, _, err := websocket.DefaultDialer.DialContext(dctx, g.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial gateway: %w", err)
	}
	g.conn = conn
	return conn, nil
}

func (g *Gateway) drop() {
	if g.conn != nil {
		_ = g.conn.Close()
		g.conn = nil
	}
}

func (g *Gateway) timeout() time.Duration {
	if g.Timeout <= 0 {
		return DefaultGatewayTimeout
	}
	return g.Timeout
}

// Close hangs up the connection, the next order redials.
func (g *Gateway) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.conn == nil {
		return nil
	}
	err := g.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	g.drop()
	return err
}

// GatewayHandler is the server side of the gateway protocol. decide sees
// every order and rejects it by returning an error.
func GatewayHandler(decide func(OrderMessage) error) http.Handler {
	upgrader := websocket.Upgrader{}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logging.Logf(logging.Warn, "gateway: upgrade: %v", err)
			return
		}
		defer conn.Close()
		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var msg OrderMessage
			if err := tinyjson.Unmarshal(raw, &msg); err != nil {
				logging.Logf(logging.Warn, "gateway: bad order: %v", err)
				continue
			}
			reply := ReplyMessage{ID: msg.ID, OK: true}
			if err := decide(msg); err != nil {
				reply.OK = false
				reply.Error = err.Error()
			}
			out, err := tinyjson.Marshal(reply)
			if err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, out); err != nil {
				return
			}
		}
	})
}
