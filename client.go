package main

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	pingPeriod        = (pongWait * 9) / 10
	maxMessageSize    = 4096
	sendBufSize       = 256
	maxMessagesPerSec = 120
)

// Client represents a WebSocket connection
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	remoteAddr string
	operator   bool // only touched by ReadPump
	msgCount   int
	msgResetAt time.Time
}

// NewClient creates a new Client
func NewClient(hub *Hub, conn *websocket.Conn, remoteAddr string) *Client {
	return &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, sendBufSize),
		remoteAddr: remoteAddr,
	}
}

// ReadPump reads messages from the WebSocket connection
func (c *Client) ReadPump() {
	defer func() {
		c.hub.TrackDisconnect(c.remoteAddr)
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		msgType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws error: %v", err)
			}
			break
		}

		// Rate limiting
		now := time.Now()
		if now.After(c.msgResetAt) {
			c.msgCount = 0
			c.msgResetAt = now.Add(time.Second)
		}
		c.msgCount++
		if c.msgCount > maxMessagesPerSec {
			log.Printf("rate limit exceeded for %s, disconnecting", c.remoteAddr)
			break
		}

		if msgType == websocket.BinaryMessage && len(message) == binInputLen && message[0] == binInputTag {
			c.handleBinaryInput(message)
		} else {
			c.handleMessage(message)
		}
	}
}

// WritePump writes messages to the WebSocket connection
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			// Check for binary marker (0xFF prefix from SendBinary)
			var err error
			if len(message) > 0 && message[0] == 0xFF {
				err = c.conn.WriteMessage(websocket.BinaryMessage, message[1:])
			} else {
				err = c.conn.WriteMessage(websocket.TextMessage, message)
			}
			if err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendJSON sends a JSON message to the client
func (c *Client) SendJSON(msg interface{}) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("marshal error: %v", err)
		return
	}
	c.SendRaw(data)
}

// SendRaw sends pre-marshaled bytes as a text message to the client
func (c *Client) SendRaw(data []byte) {
	defer func() { recover() }()
	select {
	case c.send <- data:
	default:
		// Client too slow, drop message
	}
}

// SendBinary sends pre-marshaled bytes as a binary WebSocket message
// Prefixes with 0xFF marker byte so WritePump can distinguish from text
func (c *Client) SendBinary(data []byte) {
	defer func() { recover() }()
	msg := make([]byte, len(data)+1)
	msg[0] = 0xFF // binary marker
	copy(msg[1:], data)
	select {
	case c.send <- msg:
	default:
	}
}

func (c *Client) sendError(msg string) {
	c.SendJSON(Envelope{T: MsgError, Data: ErrorMsg{Msg: msg}})
}

// handleMessage routes incoming messages (single-pass decode via InEnvelope)
func (c *Client) handleMessage(raw []byte) {
	var env InEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		log.Printf("unmarshal error: %v", err)
		return
	}

	switch env.T {
	case MsgInput:
		c.handleInput(env.D)
	case MsgControl:
		c.handleControl(env.D)
	case MsgLogin:
		c.handleLogin(env.D)
	case MsgAuth:
		c.handleAuth(env.D)
	case MsgCommand:
		c.handleCommand(env.D)
	case MsgRuns:
		c.handleRuns()
	}
}

func (c *Client) applyInput(in ClientInput) {
	st := c.hub.session.Input()
	st.SetAxis(in.AX, in.AY)
	st.SetAction(ActionShot, in.Shot)
	st.SetAction(ActionSlow, in.Slow)
	st.SetAction(ActionBomb, in.Bomb)
}

// handleBinaryInput decodes a compact 4-byte binary input message
func (c *Client) handleBinaryInput(msg []byte) {
	if !c.hub.IsController(c) {
		return
	}
	flags := msg[3]
	c.applyInput(ClientInput{
		AX:   float64(int8(msg[1])) / 127,
		AY:   float64(int8(msg[2])) / 127,
		Shot: flags&inputFlagShot != 0,
		Slow: flags&inputFlagSlow != 0,
		Bomb: flags&inputFlagBomb != 0,
	})
}

func (c *Client) handleInput(data json.RawMessage) {
	if !c.hub.IsController(c) {
		return
	}
	var input ClientInput
	if err := json.Unmarshal(data, &input); err != nil {
		return
	}
	c.applyInput(input)
}

func (c *Client) handleControl(data json.RawMessage) {
	var msg ControlMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	if c.hub.auth == nil {
		c.sendError("auth disabled")
		return
	}
	if _, err := c.hub.auth.ValidateToken(msg.Token); err != nil {
		c.sendError("invalid token")
		return
	}
	c.hub.SetController(c)
	c.SendJSON(Envelope{T: MsgControlOK})
}

func (c *Client) handleLogin(data json.RawMessage) {
	if c.hub.auth == nil {
		return
	}
	var msg LoginMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	token, err := c.hub.auth.Login(msg.Password, c.remoteAddr)
	if err != nil {
		c.sendError(err.Error())
		return
	}
	c.operator = true
	c.SendJSON(Envelope{T: MsgAuthOK, Data: AuthOKMsg{Token: token, Role: RoleOperator}})
}

func (c *Client) handleAuth(data json.RawMessage) {
	if c.hub.auth == nil {
		return
	}
	var msg AuthMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	role, err := c.hub.auth.ValidateToken(msg.Token)
	if err != nil || role != RoleOperator {
		c.sendError("invalid token")
		return
	}
	c.operator = true
	c.SendJSON(Envelope{T: MsgAuthOK, Data: AuthOKMsg{Token: msg.Token, Role: role}})
}

func (c *Client) handleCommand(data json.RawMessage) {
	if !c.operator {
		c.sendError("not authorized")
		return
	}
	var msg CommandMsg
	if err := json.Unmarshal(data, &msg); err != nil {
		return
	}
	if err := c.hub.session.Command(msg); err != nil {
		c.sendError(err.Error())
	}
}

func (c *Client) handleRuns() {
	if c.hub.db == nil {
		c.SendJSON(Envelope{T: MsgRunsData, Data: []RunRow{}})
		return
	}
	runs, err := c.hub.db.TopRuns(10)
	if err != nil {
		log.Printf("runs query: %v", err)
		c.sendError("history unavailable")
		return
	}
	c.SendJSON(Envelope{T: MsgRunsData, Data: runs})
}
