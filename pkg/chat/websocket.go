package chat

import (
	"strings"

	"golang.org/x/net/websocket"

	"github.com/lwmacct/251217-go-pkg-minactor/pkg/channels"
)

// wsLines 以 websocket 文本帧作为行
type wsLines struct {
	ws *websocket.Conn
}

var (
	_ channels.LineReader = wsLines{}
	_ channels.LineWriter = wsLines{}
)

func (l wsLines) ReadLine() (string, error) {
	var s string
	if err := websocket.Message.Receive(l.ws, &s); err != nil {
		return "", err
	}
	return strings.TrimRight(s, "\r\n"), nil
}

func (l wsLines) WriteLine(line string) error {
	return websocket.Message.Send(l.ws, line)
}
