package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync/atomic"

	"golang.org/x/net/websocket"

	"github.com/lwmacct/251217-go-pkg-minactor/pkg/actor"
	"github.com/lwmacct/251217-go-pkg-minactor/pkg/channels"
)

// ============== 客户端管理协议 ==============

// managerMsg 客户端管理 Actor 的消息
type managerMsg interface {
	isManagerMsg()
}

type clientConnected struct {
	id     string
	writer actor.Address[channels.WriteLine]
}

type clientDisconnected struct {
	id  string
	err error
}

type lineRead struct {
	from    string
	payload string
}

type countClients struct {
	replyTo actor.Address[int]
}

func (clientConnected) isManagerMsg()    {}
func (clientDisconnected) isManagerMsg() {}
func (lineRead) isManagerMsg()           {}
func (countClients) isManagerMsg()       {}

// ═══════════════════════════════════════════════════════════════════════════
// Server
// ═══════════════════════════════════════════════════════════════════════════

// Server 聊天服务端
type Server struct {
	sys     *actor.System
	manager actor.Address[managerMsg]
	logger  *slog.Logger
	nextID  atomic.Int64
}

// NewServer 创建服务端并启动客户端管理 Actor
func NewServer(sys *actor.System) *Server {
	s := &Server{
		sys:    sys,
		logger: sys.Logger().With("component", "chat-server"),
	}
	s.manager = actor.SpawnNamed(sys, "client-manager", func(actor.Address[managerMsg]) actor.Behavior[managerMsg] {
		return clientManager(s.logger, make(map[string]actor.Address[channels.WriteLine]))
	})
	return s
}

// clientManager 客户端表只被管理 Actor 访问
func clientManager(logger *slog.Logger, clients map[string]actor.Address[channels.WriteLine]) actor.Behavior[managerMsg] {
	return actor.BehaviorFunc[managerMsg](func(msg managerMsg) actor.Effect[managerMsg] {
		switch m := msg.(type) {
		case clientConnected:
			clients[m.id] = m.writer
			logger.Info("client connected", "client", m.id, "clients", len(clients))
		case clientDisconnected:
			delete(clients, m.id)
			if m.err != nil {
				logger.Warn("client read failed", "client", m.id, "error", m.err)
			}
			logger.Info("client disconnected", "client", m.id, "clients", len(clients))
		case lineRead:
			logger.Debug("broadcast line", "from", m.from, "clients", len(clients))
			for _, w := range clients {
				w.Tell(channels.WriteLine{Payload: m.payload})
			}
		case countClients:
			m.replyTo.Tell(len(clients))
		default:
			return actor.Unhandled(msg)
		}
		return actor.Stay[managerMsg]()
	})
}

// Clients 返回当前连接数
func (s *Server) Clients(ctx context.Context) (int, error) {
	return actor.AskWithContext(ctx, s.sys, s.manager, func(reply actor.Address[int]) managerMsg {
		return countClients{replyTo: reply}
	})
}

// attach 接入一个连接，返回的通道在读取结束后关闭
func (s *Server) attach(kind string, r channels.LineReader, w channels.LineWriter, c io.Closer) <-chan struct{} {
	id := fmt.Sprintf("%s-%d", kind, s.nextID.Add(1))

	writer := actor.SpawnNamed(s.sys, id+"-writer", func(actor.Address[channels.WriteLine]) actor.Behavior[channels.WriteLine] {
		return channels.Writer(w, s.logger.With("client", id))
	})
	s.manager.Tell(clientConnected{id: id, writer: writer})

	return channels.ReadLines(r, s.manager,
		func(line string) managerMsg {
			return lineRead{from: id, payload: line}
		},
		func(err error) managerMsg {
			_ = c.Close()
			return clientDisconnected{id: id, err: err}
		})
}

// Serve 在 l 上接受 TCP 连接，直到 ctx 取消或 l 关闭
// ctx 取消时返回 nil
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	stop := context.AfterFunc(ctx, func() { _ = l.Close() })
	defer stop()

	s.logger.Info("chat server started", "addr", l.Addr().String())
	for {
		conn, err := l.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("chat: accept: %w", err)
		}
		s.attach("tcp", channels.ScanLines(conn), channels.Lines(conn), conn)
	}
}

// WebsocketHandler 返回 websocket 接入处理器
// 每个文本帧是一条消息，处理器阻塞到连接读取结束
func (s *Server) WebsocketHandler() websocket.Handler {
	return func(ws *websocket.Conn) {
		lines := wsLines{ws: ws}
		<-s.attach("ws", lines, lines, ws)
	}
}
