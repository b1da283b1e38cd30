package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

type Level int

const (
	Debug Level = iota
	Info
	Warn
	Error

	off
)

var levelNames = [...]string{Debug: "debug", Info: "info", Warn: "warn", Error: "error"}

var levelAliases = map[string]Level{
	"debug":   Debug,
	"info":    Info,
	"warn":    Warn,
	"warning": Warn,
	"error":   Error,
}

// ParseLevel acepta los nombres de LOG_LEVEL; cualquier otro valor es Info.
func ParseLevel(s string) Level {
	if lvl, ok := levelAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return lvl
	}
	return Info
}

func (l Level) String() string {
	if l < Debug || l > Error {
		return levelNames[Info]
	}
	return levelNames[l]
}

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

func ParseFormat(s string) Format {
	if strings.EqualFold(strings.TrimSpace(s), string(FormatJSON)) {
		return FormatJSON
	}
	return FormatText
}

// Logger es el logger estructurado que reciben services y adapters.
type Logger interface {
	With(fields map[string]any) Logger

	Debug(msg string, fields map[string]any)
	Info(msg string, fields map[string]any)
	Warn(msg string, fields map[string]any)
	Error(msg string, fields map[string]any)
}

type Options struct {
	Level  Level
	Format Format
	App    string

	// Output: default os.Stdout.
	Output io.Writer
}

// sink es el destino compartido entre un logger y sus derivados de With.
type sink struct {
	mu  sync.Mutex
	out io.Writer
}

func (s *sink) write(line []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = s.out.Write(append(line, '\n'))
}

type fieldLogger struct {
	sink   *sink
	level  Level
	encode func(lvl Level, ts time.Time, msg string, fields map[string]any) []byte
	fields map[string]any
	now    func() time.Time
}

func New(opts Options) Logger {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	l := &fieldLogger{
		sink:   &sink{out: out},
		level:  opts.Level,
		encode: encodeText,
		fields: map[string]any{},
		now:    time.Now,
	}
	if opts.Format == FormatJSON {
		l.encode = encodeJSON
	}
	if app := strings.TrimSpace(opts.App); app != "" {
		l.fields["app"] = app
	}
	return l
}

// Nop descarta todo (tests y default cuando no se inyecta logger).
func Nop() Logger {
	return New(Options{Level: off, Output: io.Discard})
}

func (l *fieldLogger) With(fields map[string]any) Logger {
	if len(fields) == 0 {
		return l
	}
	child := *l
	child.fields = merge(l.fields, fields)
	return &child
}

func (l *fieldLogger) Debug(msg string, fields map[string]any) { l.emit(Debug, msg, fields) }
func (l *fieldLogger) Info(msg string, fields map[string]any)  { l.emit(Info, msg, fields) }
func (l *fieldLogger) Warn(msg string, fields map[string]any)  { l.emit(Warn, msg, fields) }
func (l *fieldLogger) Error(msg string, fields map[string]any) { l.emit(Error, msg, fields) }

func (l *fieldLogger) emit(lvl Level, msg string, fields map[string]any) {
	if lvl < l.level {
		return
	}
	l.sink.write(l.encode(lvl, l.now(), msg, merge(l.fields, fields)))
}

// merge copia base y agrega extra; ignora claves vacías y pasa los error a
// string para que JSON no los serialice como {}.
func merge(base, extra map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		if strings.TrimSpace(k) == "" {
			continue
		}
		if err, ok := v.(error); ok {
			v = err.Error()
		}
		out[k] = v
	}
	return out
}

func encodeJSON(lvl Level, ts time.Time, msg string, fields map[string]any) []byte {
	entry := merge(fields, nil)
	entry["ts"] = ts.Format(time.RFC3339Nano)
	entry["level"] = lvl.String()
	entry["msg"] = msg

	b, err := json.Marshal(entry)
	if err != nil {
		b, _ = json.Marshal(map[string]any{"ts": entry["ts"], "level": entry["level"], "msg": msg, "log_error": err.Error()})
	}
	return b
}

// encodeText: ts, level y msg primero; el resto ordenado por clave.
func encodeText(lvl Level, ts time.Time, msg string, fields map[string]any) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "ts=%s level=%s msg=%q", ts.Format(time.RFC3339Nano), lvl, msg)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, fields[k])
	}
	return []byte(b.String())
}
