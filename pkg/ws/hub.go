package ws

// Hub tracks the websocket clients subscribed to each party's chat channel
// and fans messages out to them.

type clients map[*Client]bool

type Hub struct {
	channels map[string]clients

	register   chan *Client
	unregister chan *Client
}

func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		channels:   make(map[string]clients),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			if _, ok := h.channels[client.channel]; !ok {
				h.channels[client.channel] = make(clients)
			}
			h.channels[client.channel][client] = true
		case client := <-h.unregister:
			if _, ok := h.channels[client.channel][client]; ok {
				h.disconnect(client)
			}
		}
	}
}

// disconnect drops the client and releases the channel once it is empty.
func (h *Hub) disconnect(client *Client) {
	delete(h.channels[client.channel], client)
	if len(h.channels[client.channel]) == 0 {
		delete(h.channels, client.channel)
	}
	close(client.send)
}

// BroadCastByChannel delivers the message to every client of the channel. A
// client whose send buffer is full is dropped rather than blocking the rest.
func (h *Hub) BroadCastByChannel(channel string, message []byte) {
	for client := range h.channels[channel] {
		select {
		case client.send <- message:
		default:
			h.disconnect(client)
		}
	}
}
