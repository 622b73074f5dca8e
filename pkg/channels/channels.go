// Package channels 连接 I/O 与 Actor
//
// 读取端把每一行以及最终的结束原因转换为 Tell，
// 写入端是一个按序写出 [WriteLine] 的行为。
package channels

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/lwmacct/251217-go-pkg-minactor/pkg/actor"
)

// WriteLine 写出一行，Payload 不含换行符
type WriteLine struct {
	Payload string
}

// LineReader 逐行读取
// 到达流末尾时返回 io.EOF
type LineReader interface {
	ReadLine() (string, error)
}

// LineWriter 逐行写入
type LineWriter interface {
	WriteLine(line string) error
}

// ============== io 适配 ==============

type scanner struct {
	s *bufio.Scanner
}

// ScanLines 以换行符分割 r
func ScanLines(r io.Reader) LineReader {
	return &scanner{s: bufio.NewScanner(r)}
}

func (s *scanner) ReadLine() (string, error) {
	if s.s.Scan() {
		return s.s.Text(), nil
	}
	if err := s.s.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

type lines struct {
	w io.Writer
}

// Lines 每次写入追加换行符
func Lines(w io.Writer) LineWriter {
	return &lines{w: w}
}

func (l *lines) WriteLine(line string) error {
	_, err := fmt.Fprintln(l.w, line)
	return err
}

// ═══════════════════════════════════════════════════════════════════════════
// 读取通知
// ═══════════════════════════════════════════════════════════════════════════

// ReadLines 在独立 goroutine 中读取 r，每行以 onLine(line) 通知 target
//
// 读取结束时以 onEnd(err) 通知 target，正常到达末尾时 err 为 nil；
// onEnd 为 nil 时不发送结束通知。返回的通道在读取结束后关闭。
func ReadLines[T any](r LineReader, target actor.Address[T], onLine func(line string) T, onEnd func(err error) T) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			line, err := r.ReadLine()
			if err != nil {
				if errors.Is(err, io.EOF) {
					err = nil
				}
				if onEnd != nil {
					target.Tell(onEnd(err))
				}
				return
			}
			target.Tell(onLine(line))
		}
	}()
	return done
}

// ═══════════════════════════════════════════════════════════════════════════
// 写入行为
// ═══════════════════════════════════════════════════════════════════════════

// Writer 返回按序写出 WriteLine 的行为
// 写入失败后记录日志并进入终止行为，之后的消息被丢弃；logger 为 nil 时使用 slog.Default()
func Writer(w LineWriter, logger *slog.Logger) actor.Behavior[WriteLine] {
	if logger == nil {
		logger = slog.Default()
	}
	return actor.BehaviorFunc[WriteLine](func(msg WriteLine) actor.Effect[WriteLine] {
		if err := w.WriteLine(msg.Payload); err != nil {
			logger.Warn("write failed, writer stopped", "error", err)
			return actor.Die[WriteLine]()
		}
		return actor.Stay[WriteLine]()
	})
}
