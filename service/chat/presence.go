package chat

// Presence broadcasts the full online-user list to every connection after a
// register or unregister. Always a full snapshot, never a delta.
type Presence struct {
	reg *Registry
	fan *Fanout
}

func NewPresence(reg *Registry, fan *Fanout) *Presence {
	return &Presence{reg: reg, fan: fan}
}

// Publish takes the current registry snapshot and fans it out to all
// connected clients, anonymous ones included.
func (p *Presence) Publish() {
	payload := encodeFrame(EventOnlineUsers, p.reg.Snapshot())
	p.fan.Broadcast(p.reg.All(), payload)
}
