package v1

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/vietanh2810/eventsplus-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/eventsplus-api/internal/api/reqctx"
	"github.com/vietanh2810/eventsplus-api/internal/domain"
)

const (
	liveWriteWait      = 10 * time.Second
	livePongWait       = 60 * time.Second
	livePingPeriod     = (livePongWait * 9) / 10
	liveMaxMessageSize = 512
	liveSendBuffer     = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type liveClient struct {
	conn    *websocket.Conn
	send    chan []byte
	eventID uint

	// published is set once the hub has queued a change for the client.
	// Guarded by LiveHub.mu.
	published bool
}

// LiveHub fans event status changes out to the websocket subscribers of
// each event.
type LiveHub struct {
	mu          sync.Mutex
	subscribers map[uint]map[*liveClient]struct{}
}

func NewLiveHub() *LiveHub {
	return &LiveHub{
		subscribers: make(map[uint]map[*liveClient]struct{}),
	}
}

// Publish never blocks. A subscriber whose buffer is full is dropped.
func (h *LiveHub) Publish(change domain.StatusChange) {
	message, err := json.Marshal(change)
	if err != nil {
		zap.L().Error("failed to encode status change", zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.subscribers[change.EventID] {
		select {
		case client.send <- message:
			client.published = true
		default:
			h.removeLocked(client)
		}
	}
}

// sendSnapshot queues the state read after subscribing. It is skipped when a
// published change already reached the client, since that change is at least
// as recent, and when the client has been dropped.
func (h *LiveHub) sendSnapshot(client *liveClient, change domain.StatusChange) {
	message, err := json.Marshal(change)
	if err != nil {
		zap.L().Error("failed to encode status change", zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if client.published {
		return
	}
	if _, ok := h.subscribers[client.eventID][client]; !ok {
		return
	}

	select {
	case client.send <- message:
	default:
		h.removeLocked(client)
	}
}

func (h *LiveHub) Subscribers(eventID uint) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.subscribers[eventID])
}

func (h *LiveHub) subscribe(client *liveClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.subscribers[client.eventID]
	if !ok {
		clients = make(map[*liveClient]struct{})
		h.subscribers[client.eventID] = clients
	}
	clients[client] = struct{}{}
}

func (h *LiveHub) unsubscribe(client *liveClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeLocked(client)
}

func (h *LiveHub) removeLocked(client *liveClient) {
	clients, ok := h.subscribers[client.eventID]
	if !ok {
		return
	}
	if _, ok = clients[client]; !ok {
		return
	}

	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.subscribers, client.eventID)
	}
}

type LiveHandler struct {
	hub    *LiveHub
	events EventService
}

func NewLiveHandler(hub *LiveHub, events EventService) *LiveHandler {
	return &LiveHandler{
		hub:    hub,
		events: events,
	}
}

// HandleLive godoc
// @Summary      Follow the status of an event
// @Description  Upgrades to a websocket that receives {"event_id","status","participant_count"} on every change.
// @Tags         events
// @Param        id       path       int  true  "event ID"
// @Success      101      {object}   domain.StatusChange
// @Failure      404      {object}   response.Err
// @Failure      500      {object}   response.Err
// @Router       /events/{id}/live [get]
func (h *LiveHandler) HandleLive(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		response.RenderErr(ctx, response.ErrNotFound("event", "id", ctx.Param("id")))
		return
	}

	event, err := h.events.GetEvent(ctx.Request.Context(), id, reqctx.CallerID(ctx))
	if err != nil {
		response.RenderErr(ctx, eventErr("v1.HandleLive -> h.events.GetEvent", id, err))
		return
	}

	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		// The upgrader has already answered the client.
		zap.L().Debug("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &liveClient{
		conn:    conn,
		send:    make(chan []byte, liveSendBuffer),
		eventID: event.ID,
	}
	h.hub.subscribe(client)

	// Read again once subscribed so a change committed since the first read
	// is either in this snapshot or published to the client.
	if current, err := h.events.GetEvent(ctx.Request.Context(), id, 0); err == nil {
		event = current
	} else {
		zap.L().Warn("reloading event for live snapshot", zap.Uint("event_id", id), zap.Error(err))
	}
	h.hub.sendSnapshot(client, event.Snapshot())

	go client.writePump()
	go client.readPump(h.hub)
}

func (c *liveClient) writePump() {
	ticker := time.NewTicker(livePingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump only watches for the peer going away.
func (c *liveClient) readPump(hub *LiveHub) {
	defer func() {
		hub.unsubscribe(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(liveMaxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(livePongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(livePongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				zap.L().Debug("live subscriber left", zap.Uint("event_id", c.eventID), zap.Error(err))
			}
			return
		}
	}
}
