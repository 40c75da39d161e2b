package room

import (
	"fmt"
	"piratepoker-server/pkg/model"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Client is a client connected to the server via websockets
type Client struct {
	// Conn is the underlying websocket connection
	Conn *websocket.Conn

	// send is a channel for sending messages to the client
	send chan interface{}

	// Close is a channel for closing the client
	Close chan string

	// CloseError contains the reason why the connection was closed
	CloseError error

	dealer   *Dealer
	dealerMu sync.Mutex

	// seated is closed once the PitBoss has handed the client to a dealer
	seated chan struct{}

	identity model.Identity
	tableID  string
}

// NewClient returns a new client object
func NewClient(conn *websocket.Conn, identity model.Identity, tableID string) *Client {
	return &Client{
		send:     make(chan interface{}, 256),
		Close:    make(chan string, 1),
		seated:   make(chan struct{}),
		Conn:     conn,
		identity: identity,
		tableID:  tableID,
	}
}

// Send queues a message for the web client
// Returns false if the client has fallen too far behind
func (c *Client) Send(msg interface{}) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// SendChan returns a read-only channel
func (c *Client) SendChan() <-chan interface{} {
	return c.send
}

// Identity is who the client is connected as
func (c *Client) Identity() model.Identity {
	return c.identity
}

// String returns a traceable identifier for the player and table
func (c *Client) String() string {
	return fmt.Sprintf("%s:%s", c.identity, c.tableID)
}

// dealerWait is how long a message waits for the client to be handed to a dealer
var dealerWait = time.Second * 5

func (c *Client) setDealer(d *Dealer) {
	c.dealerMu.Lock()
	defer c.dealerMu.Unlock()

	if c.dealer == nil {
		close(c.seated)
	}
	c.dealer = d
}

func (c *Client) currentDealer() *Dealer {
	c.dealerMu.Lock()
	defer c.dealerMu.Unlock()

	return c.dealer
}

// ReceivedMessage is called when the server receives a message from a connected client
// A message that arrives before the client is handed to a dealer waits for it
func (c *Client) ReceivedMessage(msg *PayloadIn) {
	select {
	case <-c.seated:
	case <-time.After(dealerWait):
		c.Send(newErrorResponse(msg.Context, errNoDealer))
		return
	}

	c.currentDealer().ReceivedMessage(c, msg)
}
