// Package chat 基于 Actor 的广播聊天
//
// 服务端由一个客户端管理 Actor 维护所有连接的写入 Actor，
// 任一连接读到的每一行都会广播给全部连接（包括发送者）。
// 连接可以是 TCP（每行一条消息）或 websocket（每帧一条消息）。
package chat

// Message 聊天消息，以单行 JSON 在连接上传输
type Message struct {
	User string `json:"user"`
	Text string `json:"text"`
}
