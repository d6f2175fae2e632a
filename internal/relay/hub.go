package relay

import (
	"encoding/json"

	"go.uber.org/zap"

	"github.com/d60-Lab/hint/pkg/logger"
	"github.com/d60-Lab/hint/pkg/metrics"
)

// TopicFeed 目前唯一的主题：feed 可能已过期，去重新拉取。
// 显式建模主题是为了以后分主题时不用改协议。
const TopicFeed = "feed"

// Envelope 广播出去的统一包装
type Envelope struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type message struct {
	topic   string
	origin  *Client // 为 nil 表示服务端自身发布，所有人都收
	payload []byte
}

// Hub 进程内广播组。客户端集合只在 run goroutine 里读写，
// 注册/注销/广播都走 channel，广播迭代期间不会有并发增删。
//
// 事件只是"有变化，去重拉"的提示：不保证送达、不保证跨端顺序、
// 掉线期间的事件不补发。
type Hub struct {
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan message
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan message, 64),
	}
}

// Run 事件循环，独占 clients 集合；随进程生命周期运行
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = struct{}{}
			metrics.RelayClients.Set(float64(len(h.clients)))
		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				metrics.RelayClients.Set(float64(len(h.clients)))
			}
		case msg := <-h.broadcast:
			metrics.RelayBroadcasts.Inc()
			for c := range h.clients {
				// 不回显给消息来源方
				if c == msg.origin {
					continue
				}
				select {
				case c.send <- msg.payload:
				default:
					// 消费不过来的客户端直接踢掉，不做背压
					metrics.RelayDropped.Inc()
					delete(h.clients, c)
					close(c.send)
				}
			}
		}
	}
}

// Publish 服务端发布（新帖/新评论落库后调用），广播给所有在线客户端
func (h *Hub) Publish(payload any) {
	h.publish(TopicFeed, nil, payload)
}

func (h *Hub) publish(topic string, origin *Client, payload any) {
	data, err := json.Marshal(Envelope{Type: "update", Data: payload})
	if err != nil {
		logger.Warn("relay marshal failed", zap.Error(err))
		return
	}
	h.broadcast <- message{topic: topic, origin: origin, payload: data}
}
