package chat

import (
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/SHANKAR-YADAVA/ChatApp/logger"
	"github.com/SHANKAR-YADAVA/ChatApp/tools/ids"
	"github.com/SHANKAR-YADAVA/ChatApp/tools/safe"
)

const (
	readLimit     = 1 << 20 // 1MB
	pongWait      = 60 * time.Second
	pingEvery     = 30 * time.Second
	writeDeadline = 5 * time.Second
	sendQueueSize = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// HandleWS upgrades the request and runs the connection's whole lifecycle:
// register -> presence publish -> serve events -> teardown on close.
// e.g. ws://localhost:5001/ws?userId=u1
func (s *Server) HandleWS(c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Infof("[HandleWS] upgrade websocket error: %v", err)
		return
	}

	userID := c.Query("userId")
	client := NewClient(ids.GenerateString(), userID, ws, sendQueueSize)

	if displaced := s.reg.Register(client); displaced != nil {
		// a reused conn ID must not leave the old client in any room
		s.rooms.LeaveAll(displaced.ConnID)
		displaced.close()
	}
	s.presence.Publish()
	logger.Infof("[HandleWS] connected conn=%s user=%s remote=%s", client.ConnID, userID, ws.RemoteAddr())

	safe.Go(func() { s.writePump(client) })

	ws.SetReadLimit(readLimit)
	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	// read loop: only reads; the write pump owns all writes
	for {
		mt, data, rerr := ws.ReadMessage()
		if rerr != nil {
			if websocket.IsCloseError(rerr,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
			) {
				logger.Infof("[HandleWS] peer closed conn=%s err=%v", client.ConnID, rerr)
			} else if ne, ok := rerr.(net.Error); ok && ne.Timeout() {
				logger.Infof("[HandleWS] read timeout conn=%s err=%v", client.ConnID, rerr)
			} else {
				logger.Infof("[HandleWS] read err conn=%s err=%v", client.ConnID, rerr)
			}
			break
		}
		if mt != websocket.TextMessage && mt != websocket.BinaryMessage {
			continue
		}

		frame, perr := ParseFrame(data)
		if perr != nil {
			sample := data
			if len(sample) > 256 {
				sample = sample[:256]
			}
			logger.Infof("[HandleWS] ParseFrame err conn=%s err=%v sample=%q", client.ConnID, perr, sample)
			continue
		}

		// a broken handler must not stop the loop
		safe.Call(func() {
			if derr := s.disp.Dispatch(&Context{S: s}, frame, client); derr != nil {
				logger.Infof("[HandleWS] dispatch event=%s conn=%s err=%v", frame.Event, client.ConnID, derr)
			}
		})
	}

	s.teardown(client)
}

// teardown order matters: membership cleanup first, then unregister, then
// presence publish, so a departing user's rooms never hold a dead connection
// at the moment presence is announced.
func (s *Server) teardown(client *Client) {
	s.rooms.LeaveAll(client.ConnID)
	s.reg.Unregister(client.ConnID)
	client.close()
	_ = client.WS.Close()
	s.presence.Publish()
	logger.Infof("[HandleWS] disconnected conn=%s user=%s", client.ConnID, client.UserID)
}

// writePump is the connection's single writer: drains the send queue and
// keeps the peer alive with pings.
func (s *Server) writePump(c *Client) {
	ticker := time.NewTicker(pingEvery)
	defer func() {
		ticker.Stop()
		_ = c.WS.Close()
	}()

	for {
		select {
		case <-c.done:
			return
		case data := <-c.Send:
			_ = c.WS.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.WS.WriteMessage(websocket.TextMessage, data); err != nil {
				logger.Infof("[writePump] write err conn=%s err=%v", c.ConnID, err)
				return
			}
		case <-ticker.C:
			if err := c.WS.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeDeadline)); err != nil {
				return
			}
		}
	}
}
