// Package codec 每行一个 JSON 值的文本编解码
package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyLine 空行
var ErrEmptyLine = errors.New("codec: empty line")

// Encode 编码为单行 JSON，不含换行符
func Encode(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("codec: encode %T: %w", v, err)
	}
	return string(data), nil
}

// Decode 解码单行 JSON，忽略首尾空白
func Decode[T any](line string) (T, error) {
	var v T
	line = strings.TrimSpace(line)
	if line == "" {
		return v, ErrEmptyLine
	}
	if err := json.Unmarshal([]byte(line), &v); err != nil {
		return v, fmt.Errorf("codec: decode %T: %w", v, err)
	}
	return v, nil
}
