package websocket

import (
	"sync"

	"github.com/dom/daily-checkin/internal/domain"
	"github.com/dom/daily-checkin/internal/logger"
	"github.com/dom/daily-checkin/internal/repository"
	"github.com/google/uuid"
)

// Hub fans schedule changes out to the clients watching the affected user.
// All subscription state is owned by Run.
type Hub struct {
	clients     map[*Client]bool
	subscribers map[uuid.UUID]map[*Client]bool
	register    chan *Client
	unregister  chan *Client
	subscribe   chan *SubscribeRequest
	broadcast   chan domain.ScheduleEvent
	stop        chan struct{}
	done        chan struct{} // closed when Run() exits
	stopped     bool
	userRepo    repository.UserRepository
	mu          sync.RWMutex
}

type SubscribeRequest struct {
	Client *Client
	UserID uuid.UUID
}

func NewHub(userRepo repository.UserRepository) *Hub {
	return &Hub{
		clients:     make(map[*Client]bool),
		subscribers: make(map[uuid.UUID]map[*Client]bool),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		subscribe:   make(chan *SubscribeRequest),
		broadcast:   make(chan domain.ScheduleEvent, 256),
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
		userRepo:    userRepo,
	}
}

func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.stop:
			h.mu.Lock()
			h.stopped = true
			for client := range h.clients {
				client.Close()
			}
			h.clients = make(map[*Client]bool)
			h.subscribers = make(map[uuid.UUID]map[*Client]bool)
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.clients[client] = true
			h.attach(client, client.subject)
			client.sendMessage(MessageTypeSubscribed, SubscribedPayload{UserID: client.subject.String()})

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.detach(client)
				delete(h.clients, client)
				client.Close()
			}

		case req := <-h.subscribe:
			if _, ok := h.clients[req.Client]; !ok {
				continue
			}
			h.detach(req.Client)
			h.attach(req.Client, req.UserID)
			req.Client.sendMessage(MessageTypeSubscribed, SubscribedPayload{UserID: req.UserID.String()})

		case event := <-h.broadcast:
			h.deliver(event)
		}
	}
}

func (h *Hub) attach(client *Client, userID uuid.UUID) {
	client.subject = userID
	subs, ok := h.subscribers[userID]
	if !ok {
		subs = make(map[*Client]bool)
		h.subscribers[userID] = subs
	}
	subs[client] = true
}

func (h *Hub) detach(client *Client) {
	subs, ok := h.subscribers[client.subject]
	if !ok {
		return
	}
	delete(subs, client)
	if len(subs) == 0 {
		delete(h.subscribers, client.subject)
	}
}

func (h *Hub) deliver(event domain.ScheduleEvent) {
	subs := h.subscribers[event.UserID]
	if len(subs) == 0 {
		return
	}

	msg, err := eventMessage(event)
	if err != nil {
		logger.Error("failed to encode schedule event", "type", event.Type, "err", err)
		return
	}

	for client := range subs {
		if !client.trySend(msg) {
			// Slow consumer; it can resync over HTTP after reconnecting.
			logger.Warn("dropping slow websocket client", "user_id", client.userID)
			h.detach(client)
			delete(h.clients, client)
			client.Close()
		}
	}
}

// NotifyScheduleChanged queues event for delivery. It never blocks the
// caller; events are dropped once the queue is full or the hub has stopped.
func (h *Hub) NotifyScheduleChanged(event domain.ScheduleEvent) {
	h.mu.RLock()
	stopped := h.stopped
	h.mu.RUnlock()
	if stopped {
		return
	}

	select {
	case h.broadcast <- event:
	default:
		logger.Warn("schedule event queue full, dropping event", "type", event.Type, "user_id", event.UserID)
	}
}

// Stop gracefully shuts down the hub and closes every client.
// It blocks until Run has returned.
func (h *Hub) Stop() {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return
	}
	h.mu.Unlock()

	close(h.stop)
	<-h.done
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		client.Close()
	}
}

// Unregister safely unregisters a client, handling the case where the hub may be stopped.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) Subscribe(client *Client, userID uuid.UUID) {
	select {
	case h.subscribe <- &SubscribeRequest{Client: client, UserID: userID}:
	case <-h.done:
	}
}
