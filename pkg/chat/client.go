package chat

import (
	"fmt"
	"io"
	"log/slog"
	"net"

	"golang.org/x/net/websocket"

	"github.com/lwmacct/251217-go-pkg-minactor/pkg/actor"
	"github.com/lwmacct/251217-go-pkg-minactor/pkg/channels"
	"github.com/lwmacct/251217-go-pkg-minactor/pkg/codec"
)

// clientMsg 客户端 Actor 的消息
type clientMsg interface {
	isClientMsg()
}

// say 本地用户输入
type say struct {
	text string
}

// incoming 从服务端读到的一行
type incoming struct {
	payload string
}

// closed 服务端连接结束
type closed struct {
	err error
}

func (say) isClientMsg()      {}
func (incoming) isClientMsg() {}
func (closed) isClientMsg()   {}

// Client 聊天客户端
// 发出的消息编码为 JSON 行，收到的消息以 "user > text" 格式输出
type Client struct {
	user string
	addr actor.Address[clientMsg]
	done <-chan struct{}
	conn io.Closer
}

// NewClient 在给定连接上创建客户端
func NewClient(sys *actor.System, user string, r channels.LineReader, w channels.LineWriter, c io.Closer, out io.Writer) *Client {
	logger := sys.Logger().With("component", "chat-client", "user", user)

	writer := actor.Spawn(sys, func(actor.Address[channels.WriteLine]) actor.Behavior[channels.WriteLine] {
		return channels.Writer(w, logger)
	})
	addr := actor.Spawn(sys, func(actor.Address[clientMsg]) actor.Behavior[clientMsg] {
		return clientBehavior(user, writer, out, logger)
	})
	done := channels.ReadLines(r, addr,
		func(line string) clientMsg { return incoming{payload: line} },
		func(err error) clientMsg { return closed{err: err} })

	return &Client{user: user, addr: addr, done: done, conn: c}
}

func clientBehavior(user string, writer actor.Address[channels.WriteLine], out io.Writer, logger *slog.Logger) actor.Behavior[clientMsg] {
	return actor.BehaviorFunc[clientMsg](func(msg clientMsg) actor.Effect[clientMsg] {
		switch m := msg.(type) {
		case say:
			line, err := codec.Encode(Message{User: user, Text: m.text})
			if err != nil {
				logger.Error("encode message failed", "error", err)
				return actor.Stay[clientMsg]()
			}
			writer.Tell(channels.WriteLine{Payload: line})
		case incoming:
			message, err := codec.Decode[Message](m.payload)
			if err != nil {
				logger.Warn("malformed message ignored", "error", err)
				return actor.Stay[clientMsg]()
			}
			fmt.Fprintf(out, "%s > %s\n", message.User, message.Text)
		case closed:
			if m.err != nil {
				logger.Warn("connection lost", "error", m.err)
			}
			return actor.Die[clientMsg]()
		default:
			return actor.Unhandled(msg)
		}
		return actor.Stay[clientMsg]()
	})
}

// DialTCP 连接 TCP 聊天服务端
func DialTCP(sys *actor.System, addr, user string, out io.Writer) (*Client, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("chat: dial %s: %w", addr, err)
	}
	return NewClient(sys, user, channels.ScanLines(conn), channels.Lines(conn), conn, out), nil
}

// DialWebsocket 连接 websocket 聊天服务端
func DialWebsocket(sys *actor.System, url, origin, user string, out io.Writer) (*Client, error) {
	ws, err := websocket.Dial(url, "", origin)
	if err != nil {
		return nil, fmt.Errorf("chat: dial %s: %w", url, err)
	}
	lines := wsLines{ws: ws}
	return NewClient(sys, user, lines, lines, ws, out), nil
}

// User 返回用户名
func (c *Client) User() string {
	return c.user
}

// Say 发送一条消息
func (c *Client) Say(text string) {
	c.addr.Tell(say{text: text})
}

// Done 返回连接读取结束时关闭的通道
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Close 关闭连接
func (c *Client) Close() error {
	return c.conn.Close()
}
