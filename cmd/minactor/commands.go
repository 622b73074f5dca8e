package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/lwmacct/251217-go-pkg-minactor/pkg/actor"
	"github.com/lwmacct/251217-go-pkg-minactor/pkg/chat"
	"github.com/lwmacct/251217-go-pkg-minactor/pkg/demo"
)

func newCommand() *cli.Command {
	a := &app{}

	return &cli.Command{
		Name:  "minactor",
		Usage: "minimal actor runtime demos",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML config file"},
			&cli.StringFlag{Name: "dispatcher", Aliases: []string{"d"}, Usage: "shared | dedicated"},
			&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Usage: "shared worker pool size"},
			&cli.StringFlag{Name: "log-level", Usage: "debug | info | warn | error"},
			&cli.StringFlag{Name: "metrics-addr", Usage: "serve Prometheus /metrics on this address"},
		},
		Before: a.load,
		Commands: []*cli.Command{
			helloCommand(a),
			pingPongCommand(a),
			vendingCommand(a),
			chatCommand(a),
		},
	}
}

func helloCommand(a *app) *cli.Command {
	return &cli.Command{
		Name:  "hello",
		Usage: "an actor that handles one message and dies",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return a.run(ctx, func(ctx context.Context, sys *actor.System) error {
				out, seen := watchOutput(os.Stdout, "got msg")
				addr := demo.Hello(sys, out)
				addr.Tell("foo")
				addr.Tell("bar")
				return waitDone(ctx, seen)
			})
		},
	}
}

func pingPongCommand(a *app) *cli.Command {
	return &cli.Command{
		Name:  "pingpong",
		Usage: "two actors exchanging pings until one dies",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "rounds", Value: demo.DefaultRounds, Usage: "pongs before the deadly one"},
			&cli.BoolFlag{Name: "stateful", Usage: "keep the ponger counter in a mutable field"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return a.run(ctx, func(ctx context.Context, sys *actor.System) error {
				done := demo.PingPong(sys, os.Stdout, cmd.Int("rounds"), cmd.Bool("stateful"))
				return waitDone(ctx, done)
			})
		},
	}
}

func vendingCommand(a *app) *cli.Command {
	return &cli.Command{
		Name:  "vending",
		Usage: "a vending machine state machine",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return a.run(ctx, func(ctx context.Context, sys *actor.System) error {
				out, vended := watchOutput(os.Stdout, "CHANGE:")
				vm := demo.VendingMachine(sys, out)
				vm.Tell(demo.Coin{Amount: 50})
				vm.Tell(demo.Coin{Amount: 40})
				vm.Tell(demo.Coin{Amount: 30})
				vm.Tell(demo.Choice{Product: "Chocolate"})
				return waitDone(ctx, vended)
			})
		},
	}
}

func chatCommand(a *app) *cli.Command {
	return &cli.Command{
		Name:  "chat",
		Usage: "broadcast chat over TCP and websocket",
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "run the chat server",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "tcp", Usage: "TCP listen address"},
					&cli.StringFlag{Name: "ws", Usage: "websocket listen address, empty to disable"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					if cmd.IsSet("tcp") {
						a.cfg.Chat.TCPAddr = cmd.String("tcp")
					}
					if cmd.IsSet("ws") {
						a.cfg.Chat.WSAddr = cmd.String("ws")
					}
					return a.run(ctx, a.serveChat)
				},
			},
			{
				Name:      "connect",
				Usage:     "connect to a chat server and send stdin lines",
				ArgsUsage: "<user>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "server", Usage: "TCP server address"},
					&cli.StringFlag{Name: "ws", Usage: "websocket URL, e.g. ws://127.0.0.1:8080/chat"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					user := cmd.Args().First()
					if user == "" {
						return errors.New("chat connect: missing <user>")
					}
					if cmd.IsSet("server") {
						a.cfg.Chat.Server = cmd.String("server")
					}
					wsURL := cmd.String("ws")
					return a.run(ctx, func(ctx context.Context, sys *actor.System) error {
						return connectChat(ctx, sys, user, a.cfg.Chat.Server, wsURL)
					})
				},
			},
		},
	}
}

// serveChat 同时运行 TCP 与 websocket 接入，直到 ctx 取消
func (a *app) serveChat(ctx context.Context, sys *actor.System) error {
	srv := chat.NewServer(sys)
	g, gctx := errgroup.WithContext(ctx)

	l, err := net.Listen("tcp", a.cfg.Chat.TCPAddr)
	if err != nil {
		return fmt.Errorf("chat: listen %s: %w", a.cfg.Chat.TCPAddr, err)
	}
	g.Go(func() error { return srv.Serve(gctx, l) })

	if a.cfg.Chat.WSAddr != "" {
		mux := http.NewServeMux()
		mux.Handle(a.cfg.Chat.WSPath, srv.WebsocketHandler())
		hs := &http.Server{Addr: a.cfg.Chat.WSAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

		g.Go(func() error {
			a.logger.Info("websocket chat started", "addr", hs.Addr, "path", a.cfg.Chat.WSPath)
			if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			// websocket 处理器在连接关闭前不会返回，这里只等待有限时间
			shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if err := hs.Shutdown(shutdownCtx); err != nil {
				_ = hs.Close()
			}
			return nil
		})
	}

	return g.Wait()
}

// connectChat 把标准输入的每一行作为消息发送
func connectChat(ctx context.Context, sys *actor.System, user, server, wsURL string) error {
	var (
		c   *chat.Client
		err error
	)
	if wsURL != "" {
		c, err = chat.DialWebsocket(sys, wsURL, "http://localhost/", user, os.Stdout)
	} else {
		c, err = chat.DialTCP(sys, server, user, os.Stdout)
	}
	if err != nil {
		return err
	}
	defer c.Close()

	fmt.Printf("Login............... %s\n", user)

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-c.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			if strings.TrimSpace(line) != "" {
				c.Say(line)
			}
		}
	}
}

// ============== 输出辅助 ==============

// watchWriter 在输出中首次出现 marker 时关闭通道
type watchWriter struct {
	w      io.Writer
	marker string
	once   sync.Once
	seen   chan struct{}
}

func watchOutput(w io.Writer, marker string) (io.Writer, <-chan struct{}) {
	ww := &watchWriter{w: w, marker: marker, seen: make(chan struct{})}
	return ww, ww.seen
}

func (w *watchWriter) Write(p []byte) (int, error) {
	n, err := w.w.Write(p)
	if strings.Contains(string(p), w.marker) {
		w.once.Do(func() { close(w.seen) })
	}
	return n, err
}

// waitDone 等待 done 关闭，给被丢弃的消息留出记录日志的时间
func waitDone(ctx context.Context, done <-chan struct{}) error {
	select {
	case <-done:
		time.Sleep(50 * time.Millisecond)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
