package client

import (
	"encoding/json"

	"campus-results/result-queue-server/pkg/infra"
	"campus-results/result-queue-server/pkg/msg"
	"campus-results/result-queue-server/pkg/queue"

	"github.com/emirpasic/gods/maps/hashmap"
	"go.uber.org/zap"
)

// Hub fans reconciler notifications out to connected clients. All state
// is touched from the single run goroutine, so no lock on the client
// map.
type Hub struct {
	// Registered clients. Key value: client.id -> client.
	clients *hashmap.Map

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	reconciler *queue.Reconciler

	logger *zap.SugaredLogger
}

func ProvideHub(reconciler *queue.Reconciler, loggerFactory *infra.LoggerFactory) *Hub {
	return &Hub{
		clients:    hashmap.New(),
		register:   make(chan *Client, 1024),
		unregister: make(chan *Client, 1024),
		reconciler: reconciler,
		logger:     loggerFactory.Create("Hub").Sugar(),
	}
}

func (h *Hub) Run() {
	go h.run()
}

func (h *Hub) run() {
	for {
		select {
		case client := <-h.register:
			h.logger.Debugf("register client id[%v]", client.id)
			h.clients.Put(client.id, client)

		case client := <-h.unregister:
			h.logger.Debugf("unregister client id[%v]", client.id)
			if _, ok := h.clients.Get(client.id); !ok {
				continue
			}
			h.removeClient(client)

		case ticketId := <-h.reconciler.NotifyReady:
			h.logger.Debugf("queue ready ticketId[%v]", ticketId)
			rawEvent, err := json.Marshal(&msg.QueueReadyServerEvent{
				TicketId: string(ticketId),
			})
			if err != nil {
				h.logger.Errorf("cannot marshal QueueReadyServerEvent %v", err)
				continue
			}
			h.broadcast(&msg.WsMessage{
				EventCode: msg.QueueReadyCode,
				EventData: rawEvent,
			})

		case snapshot := <-h.reconciler.NotifyStats:
			rawEvent, err := json.Marshal(&msg.QueueStatsServerEvent{
				LineLength:  snapshot.LineLength,
				ActiveCount: snapshot.ActiveCount,
				AvgWaitMsec: snapshot.AvgWaitMsec,
			})
			if err != nil {
				h.logger.Errorf("cannot marshal QueueStatsServerEvent %v", err)
				continue
			}
			h.broadcast(&msg.WsMessage{
				EventCode: msg.QueueStatsCode,
				EventData: rawEvent,
			})
		}
	}
}

// broadcast sends to every client. A client whose send buffer is full
// is assumed dead or stuck and gets dropped, it can reconnect and fall
// back to polling either way.
func (h *Hub) broadcast(wsMessage *msg.WsMessage) {
	for _, value := range h.clients.Values() {
		client := value.(*Client)
		select {
		case client.sendWsMessage <- wsMessage:
		default:
			h.logger.Warnf("id[%v] send channel is full, closing it", client.id)
			h.removeClient(client)
		}
	}
}

func (h *Hub) removeClient(client *Client) {
	h.clients.Remove(client.id)
	client.TryClose() // Notify client it should close now.
}
