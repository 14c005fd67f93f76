package v1

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/festivapp/festival-api/internal/api/handler/v1/response"
	"github.com/festivapp/festival-api/internal/domain"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Adjust this for production!
	},
}

type feedClient struct {
	conn    *websocket.Conn
	send    chan []byte
	standID uint
}

// FeedHandler streams committed transactions of a stand to its
// dashboard over a websocket. It doubles as the broadcaster the wallet
// service publishes into.
type FeedHandler struct {
	svc  StandService
	fSvc FestivalService
	uSvc UserService

	clientsMutex sync.RWMutex
	clients      map[uint]map[*feedClient]bool
	register     chan *feedClient
	unregister   chan *feedClient
	broadcast    chan feedMessage
}

type feedMessage struct {
	standID uint
	payload []byte
}

func NewFeedHandler(svc StandService, fSvc FestivalService, uSvc UserService) *FeedHandler {
	return &FeedHandler{
		svc:        svc,
		fSvc:       fSvc,
		uSvc:       uSvc,
		clients:    make(map[uint]map[*feedClient]bool),
		register:   make(chan *feedClient),
		unregister: make(chan *feedClient),
		broadcast:  make(chan feedMessage),
	}
}

func (h *FeedHandler) Run() {
	for {
		select {
		case client := <-h.register:
			h.clientsMutex.Lock()
			if h.clients[client.standID] == nil {
				h.clients[client.standID] = make(map[*feedClient]bool)
			}
			h.clients[client.standID][client] = true
			h.clientsMutex.Unlock()
		case client := <-h.unregister:
			h.clientsMutex.Lock()
			if _, ok := h.clients[client.standID][client]; ok {
				delete(h.clients[client.standID], client)
				close(client.send)
			}
			h.clientsMutex.Unlock()
		case message := <-h.broadcast:
			h.clientsMutex.Lock()
			for client := range h.clients[message.standID] {
				select {
				case client.send <- message.payload:
				default:
					close(client.send)
					delete(h.clients[message.standID], client)
				}
			}
			h.clientsMutex.Unlock()
		}
	}
}

// BroadcastTransaction pushes a ledger entry to everyone watching the
// stand's feed. It never blocks the caller.
func (h *FeedHandler) BroadcastTransaction(standID uint, entry domain.WalletTransaction) {
	payload, err := json.Marshal(entry)
	if err != nil {
		zap.L().Warn("failed to marshal feed entry", zap.Error(err))

		return
	}

	select {
	case h.broadcast <- feedMessage{standID: standID, payload: payload}:
	default:
		zap.L().Warn("feed broadcast dropped", zap.Uint("standID", standID))
	}
}

// HandleFeed godoc
// @Summary      Stream a stand's transactions over a websocket
// @Tags         stands
// @Produce      json
// @Param        standID   path      int  true "stand ID"
// @Success      101      {string}   string "Switching Protocols to WebSocket"
// @Failure      400      {object}   response.Err
// @Failure      403      {object}   response.Err
// @Failure      404      {object}   response.Err
// @Router       /stands/{standID}/feed [get]
// @Security     BearerAuth
func (h *FeedHandler) HandleFeed(ctx *gin.Context) {
	standID, respErr := parseIDParam(ctx, "standID")
	if respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	if respErr = h.checkFeedAccess(ctx, standID); respErr != nil {
		response.RenderErr(ctx, respErr)

		return
	}

	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		zap.L().Warn("websocket upgrade failed", zap.Error(err))

		return
	}

	client := &feedClient{
		conn:    conn,
		send:    make(chan []byte, 256),
		standID: standID,
	}
	h.register <- client

	go client.writePump()
	go client.readPump(h)
}

// checkFeedAccess allows the stand's staff, the festival's organizer
// and admins to watch the feed.
func (h *FeedHandler) checkFeedAccess(ctx *gin.Context, standID uint) *response.Err {
	stand, err := h.svc.GetStand(ctx.Request.Context(), standID)
	if err != nil {
		return response.ErrNotFound(err)
	}

	user, respErr := getUserFromContext(ctx, h.uSvc)
	if respErr != nil {
		return respErr
	}
	if user.Role == domain.RoleAdmin {
		return nil
	}

	isOrganizer, err := h.fSvc.IsOrganizer(ctx.Request.Context(), stand.FestivalID, user.ID)
	if err == nil && isOrganizer {
		return nil
	}

	stands, err := h.svc.GetUserStands(ctx.Request.Context(), user.ID)
	if err == nil {
		for _, s := range stands {
			if s.ID == standID {
				return nil
			}
		}
	}

	return response.ErrPermissionDenied()
}

func (c *feedClient) writePump() {
	defer func() {
		c.conn.Close()
	}()
	for message := range c.send {
		w, err := c.conn.NextWriter(websocket.TextMessage)
		if err != nil {
			return
		}
		w.Write(message)
		if err := w.Close(); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// readPump discards client messages; the feed is one-way. It exists to
// notice the peer going away.
func (c *feedClient) readPump(h *FeedHandler) {
	defer func() {
		h.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				zap.L().Debug("feed client read error", zap.Error(err))
			}
			break
		}
	}
}
