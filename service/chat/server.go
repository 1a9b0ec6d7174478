package chat

import (
	"github.com/SHANKAR-YADAVA/ChatApp/logger"
)

// Server is the realtime core: connection registry, room tracker, presence
// publisher and fan-out engine behind one facade. HTTP-side collaborators
// (message/group services) call the exported broadcast methods; websocket
// traffic comes in through HandleWS and the dispatcher.
type Server struct {
	reg      *Registry
	rooms    *RoomTracker
	fan      *Fanout
	presence *Presence
	disp     *Dispatcher
}

func NewServer() *Server {
	reg := NewRegistry()
	fan := NewFanout(0)
	return &Server{
		reg:      reg,
		rooms:    NewRoomTracker(),
		fan:      fan,
		presence: NewPresence(reg, fan),
		disp:     NewDispatcher(),
	}
}

func (s *Server) Registry() *Registry { return s.reg }
func (s *Server) Rooms() *RoomTracker { return s.rooms }
func (s *Server) Disp() *Dispatcher   { return s.disp }
func (s *Server) Presence() *Presence { return s.presence }

// DeliverDirect relays a stored message record to the recipient's live
// connections. Zero live connections means zero deliveries: live delivery is
// best-effort and durability belongs to storage.
func (s *Server) DeliverDirect(recipientID string, record any) {
	if recipientID == "" {
		return
	}
	conns := s.reg.Lookup(recipientID)
	if len(conns) == 0 {
		logger.Debugf("[chat] recipient offline, drop live delivery user=%s", recipientID)
		return
	}
	s.fan.Broadcast(conns, encodeFrame(EventNewMessage, record))
}

// BroadcastGroup emits a group envelope to every member of its room, the
// sender's own connection included. Envelopes without a room ID or without
// at least one of text/image are silently discarded.
func (s *Server) BroadcastGroup(env GroupEnvelope) {
	if env.RoomID == "" || (env.Text == "" && env.Image == "") {
		return
	}
	members := s.rooms.MembersOf(env.RoomID)
	if len(members) == 0 {
		return
	}
	s.fan.Broadcast(members, encodeFrame(EventGroupMessage, env))
}

// PropagateDelete tells everyone who could have seen the message to drop it.
// Callers must only invoke this after the backing record was removed from
// storage; broadcasting first would let clients discard messages that are
// still durably stored.
func (s *Server) PropagateDelete(messageID, senderID, receiverID, roomID string) {
	if messageID == "" {
		return
	}
	var targets []*Client
	if roomID != "" {
		targets = s.rooms.MembersOf(roomID)
	} else {
		// sender and receiver can be the same user (self-DM); dedupe so no
		// connection sees the notice twice
		seen := make(map[string]struct{})
		for _, c := range append(s.reg.Lookup(senderID), s.reg.Lookup(receiverID)...) {
			if _, ok := seen[c.ConnID]; ok {
				continue
			}
			seen[c.ConnID] = struct{}{}
			targets = append(targets, c)
		}
	}
	if len(targets) == 0 {
		return
	}
	s.fan.Broadcast(targets, encodeFrame(EventMessageDeleted, DeleteNotice{MessageID: messageID}))
}

// Close shuts the fan-out down and drops every connection.
func (s *Server) Close() {
	for _, c := range s.reg.All() {
		s.rooms.LeaveAll(c.ConnID)
		s.reg.Unregister(c.ConnID)
		c.close()
		if c.WS != nil {
			_ = c.WS.Close()
		}
	}
	s.fan.Close()
}
