package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
	"xtreme_region_backend/internal/model"
	"xtreme_region_backend/pkg/logger"
	"xtreme_region_backend/pkg/monitoring"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	presenceTTL    = 2 * time.Minute // 在场状态过期时间
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WSMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type MeetingClient struct {
	Hub       *MeetingHub
	Conn      *websocket.Conn
	Send      chan []byte
	UserID    uint
	MeetingID string
	Limiter   *rate.Limiter
}

func (c *MeetingClient) readPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error { c.Conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.Error("WebSocket unexpected close", zap.Error(err), zap.Uint("userId", c.UserID))
			}
			break
		}

		// 限流校验 (每秒最多 30 条消息，允许突发 50 条)
		if !c.Limiter.Allow() {
			continue
		}

		var wsMsg WSMessage
		if err := json.Unmarshal(message, &wsMsg); err != nil {
			continue
		}

		monitoring.MeetingMessageCounter.WithLabelValues(wsMsg.Type, "in").Inc()

		// 瞬时事件直接在会议房间内转发，不落库
		switch wsMsg.Type {
		case "HAND_RAISED", "REACTION", "SLIDE_SYNC":
			data, ok := wsMsg.Data.(map[string]interface{})
			if !ok {
				continue
			}
			data["userId"] = c.UserID
			wsMsg.Data = data
			c.Hub.BroadcastToMeeting(c.MeetingID, wsMsg)
		}
	}
}

func (c *MeetingClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if n := len(c.Send); n > 0 {
				for i := 0; i < n; i++ {
					w.Write(<-c.Send)
				}
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// room 单个会议的所有本地连接
type room struct {
	clients map[uint]*MeetingClient
}

type MeetingHub struct {
	rooms      map[string]*room
	mu         sync.RWMutex
	register   chan *MeetingClient
	unregister chan *MeetingClient
	Redis      *redis.Client
	ctx        context.Context
}

func NewMeetingHub(rdb *redis.Client) *MeetingHub {
	return &MeetingHub{
		rooms:      make(map[string]*room),
		register:   make(chan *MeetingClient),
		unregister: make(chan *MeetingClient),
		Redis:      rdb,
		ctx:        context.Background(),
	}
}

type PubSubMessage struct {
	MeetingID string          `json:"meetingId"`
	Payload   json.RawMessage `json:"payload"`
}

func (h *MeetingHub) Run() {
	if h.Redis != nil {
		pubsub := h.Redis.Subscribe(h.ctx, "meeting_channel")
		go func() {
			ch := pubsub.Channel()
			for msg := range ch {
				var psMsg PubSubMessage
				if err := json.Unmarshal([]byte(msg.Payload), &psMsg); err != nil {
					logger.Log.Error("PubSub unmarshal error", zap.Error(err))
					continue
				}
				h.pushToLocalRoom(psMsg.MeetingID, psMsg.Payload)
			}
		}()
	}

	// 在场状态续期定时器
	heartbeatTicker := time.NewTicker(1 * time.Minute)
	defer heartbeatTicker.Stop()

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			r, ok := h.rooms[client.MeetingID]
			if !ok {
				r = &room{clients: make(map[uint]*MeetingClient)}
				h.rooms[client.MeetingID] = r
			}
			r.clients[client.UserID] = client
			h.mu.Unlock()
			h.setPresence(client.MeetingID, client.UserID, true)
			monitoring.MeetingConnections.Inc()
			h.BroadcastToMeeting(client.MeetingID, WSMessage{
				Type: "PARTICIPANT_JOINED",
				Data: map[string]interface{}{"userId": client.UserID},
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if r, ok := h.rooms[client.MeetingID]; ok {
				if _, ok := r.clients[client.UserID]; ok {
					delete(r.clients, client.UserID)
					close(client.Send)
					monitoring.MeetingConnections.Dec()
				}
				if len(r.clients) == 0 {
					delete(h.rooms, client.MeetingID)
				}
			}
			h.mu.Unlock()
			h.setPresence(client.MeetingID, client.UserID, false)
			h.BroadcastToMeeting(client.MeetingID, WSMessage{
				Type: "PARTICIPANT_LEFT",
				Data: map[string]interface{}{"userId": client.UserID},
			})

		case <-heartbeatTicker.C:
			h.refreshPresence()
		}
	}
}

func presenceKey(meetingID string, userID uint) string {
	return fmt.Sprintf("meeting:online:%s:%d", meetingID, userID)
}

func (h *MeetingHub) setPresence(meetingID string, userID uint, online bool) {
	if h.Redis == nil {
		return
	}
	key := presenceKey(meetingID, userID)
	var err error
	if online {
		err = h.Redis.Set(h.ctx, key, "true", presenceTTL).Err()
	} else {
		err = h.Redis.Del(h.ctx, key).Err()
	}
	if err != nil {
		logger.Log.Error("Redis presence update error", zap.Error(err))
	}
}

// refreshPresence 为本地连接的用户批量续期在场状态
func (h *MeetingHub) refreshPresence() {
	if h.Redis == nil {
		return
	}
	pipe := h.Redis.Pipeline()
	count := 0
	h.mu.RLock()
	for meetingID, r := range h.rooms {
		for userID := range r.clients {
			pipe.Expire(h.ctx, presenceKey(meetingID, userID), presenceTTL)
			count++
		}
	}
	h.mu.RUnlock()
	if count > 0 {
		pipe.Exec(h.ctx)
		logger.Log.Debug("Refreshed meeting presence", zap.Int("count", count))
	}
}

// BroadcastToMeeting 经Redis广播到会议内所有实例的所有连接
func (h *MeetingHub) BroadcastToMeeting(meetingID string, msg WSMessage) {
	msgBytes, _ := json.Marshal(msg)
	monitoring.MeetingMessageCounter.WithLabelValues(msg.Type, "out").Inc()

	if h.Redis == nil {
		h.pushToLocalRoom(meetingID, msgBytes)
		return
	}
	psMsg := PubSubMessage{
		MeetingID: meetingID,
		Payload:   msgBytes,
	}
	payload, _ := json.Marshal(psMsg)
	h.Redis.Publish(h.ctx, "meeting_channel", payload)
}

// BroadcastAgendaReplaced 议程整体替换后推送最新列表
func (h *MeetingHub) BroadcastAgendaReplaced(meetingID string, items []model.AgendaItem) {
	h.BroadcastToMeeting(meetingID, WSMessage{
		Type: "AGENDA_REPLACED",
		Data: map[string]interface{}{
			"meetingId":   meetingID,
			"agendaItems": items,
		},
	})
}

// BroadcastAgendaStatus 单条议程状态变更推送
func (h *MeetingHub) BroadcastAgendaStatus(meetingID, itemID string, status model.AgendaStatus) {
	h.BroadcastToMeeting(meetingID, WSMessage{
		Type: "AGENDA_STATUS",
		Data: map[string]interface{}{
			"meetingId": meetingID,
			"itemId":    itemID,
			"status":    status,
		},
	})
}

func (h *MeetingHub) pushToLocalRoom(meetingID string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	r, ok := h.rooms[meetingID]
	if !ok {
		return
	}
	for _, client := range r.clients {
		select {
		case client.Send <- payload:
		default:
		}
	}
}

// IsUserPresent 本地房间优先，多实例部署时回查Redis
func (h *MeetingHub) IsUserPresent(meetingID string, userID uint) bool {
	h.mu.RLock()
	if r, ok := h.rooms[meetingID]; ok {
		if _, ok := r.clients[userID]; ok {
			h.mu.RUnlock()
			return true
		}
	}
	h.mu.RUnlock()

	if h.Redis == nil {
		return false
	}
	val, err := h.Redis.Get(h.ctx, presenceKey(meetingID, userID)).Result()
	return err == nil && val == "true"
}

// Stop 关闭所有连接并清理在场状态
func (h *MeetingHub) Stop() {
	logger.Log.Info("MeetingHub stopping: clearing presence and closing connections...")

	type entry struct {
		meetingID string
		userID    uint
	}
	var all []entry
	h.mu.Lock()
	for meetingID, r := range h.rooms {
		for userID, client := range r.clients {
			all = append(all, entry{meetingID, userID})
			close(client.Send)
			delete(r.clients, userID)
		}
		delete(h.rooms, meetingID)
	}
	h.mu.Unlock()

	if len(all) > 0 && h.Redis != nil {
		pipe := h.Redis.Pipeline()
		for _, e := range all {
			pipe.Del(h.ctx, presenceKey(e.meetingID, e.userID))
		}
		pipe.Exec(h.ctx)
	}

	monitoring.MeetingConnections.Set(0)
	logger.Log.Info("MeetingHub stopped", zap.Int("closedConnections", len(all)))
}

func ServeMeetingWs(hub *MeetingHub, w http.ResponseWriter, r *http.Request, meetingID string, userID uint) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Error("WebSocket upgrade failed", zap.Error(err), zap.Uint("userId", userID))
		return
	}
	client := &MeetingClient{
		Hub:       hub,
		Conn:      conn,
		Send:      make(chan []byte, 256),
		UserID:    userID,
		MeetingID: meetingID,
		Limiter:   rate.NewLimiter(rate.Limit(30), 50),
	}
	client.Hub.register <- client

	go client.writePump()
	go client.readPump()
}
