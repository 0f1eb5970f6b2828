// Package logging はプロセス全体で使う zerolog ロガーの構築と、
// context.Context を介したロガーの受け渡しを提供します。
package logging

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type loggerKey struct{}

var defaultLogger = zerolog.New(os.Stderr).With().Timestamp().Logger()

// New は設定値からロガーを構築します。human が true の場合はコンソール形式で出力します。
func New(level string, human bool) zerolog.Logger {
	return NewWithWriter(os.Stderr, level, human)
}

// NewWithWriter は出力先を指定してロガーを構築します。
func NewWithWriter(w io.Writer, level string, human bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	out := w
	if human {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}

// SetDefault はコンテキストにロガーが無い場合に使われるロガーを差し替えます。
// 起動時にのみ呼び出してください。
func SetDefault(l zerolog.Logger) {
	defaultLogger = l
}

// WithLogger はロガーを格納したコンテキストを返します。
func WithLogger(ctx context.Context, l zerolog.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerKey{}, l)
}

// FromContext はコンテキストからロガーを取り出します。存在しなければ既定のロガーを返します。
func FromContext(ctx context.Context) zerolog.Logger {
	if ctx == nil {
		return defaultLogger
	}
	if l, ok := ctx.Value(loggerKey{}).(zerolog.Logger); ok {
		return l
	}
	return defaultLogger
}

// WithStr は文字列フィールドを追加したロガーを格納したコンテキストを返します。
func WithStr(ctx context.Context, key, value string) context.Context {
	l := FromContext(ctx).With().Str(key, value).Logger()
	return WithLogger(ctx, l)
}
