// Package logger writes structured JSON log lines. Values that look like
// email addresses are masked, since register recipient cells may carry
// contact addresses.
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"sync"
	"time"
)

// Level is the severity of an entry.
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "INFO"
	}
}

// ParseLevel maps a config value ("debug", "info", "warn", "error") to a
// Level. Unknown values yield INFO.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DEBUG
	case "warn", "warning":
		return WARN
	case "error":
		return ERROR
	default:
		return INFO
	}
}

type sink struct {
	mu     sync.Mutex
	level  Level
	out    io.Writer
	redact bool
}

var std = &sink{level: INFO, out: os.Stderr, redact: true}

// SetLevel sets the minimum level written.
func SetLevel(l Level) {
	std.mu.Lock()
	std.level = l
	std.mu.Unlock()
}

// SetOutput redirects all entries.
func SetOutput(w io.Writer) {
	std.mu.Lock()
	std.out = w
	std.mu.Unlock()
}

// SetRedactPII turns email masking on or off.
func SetRedactPII(on bool) {
	std.mu.Lock()
	std.redact = on
	std.mu.Unlock()
}

// Logger carries fields added to every entry it writes.
type Logger struct {
	fields []interface{}
}

// With returns a Logger that adds the key/value pairs to every entry.
func With(fields ...interface{}) *Logger {
	return &Logger{fields: fields}
}

// With extends l with more key/value pairs.
func (l *Logger) With(fields ...interface{}) *Logger {
	merged := make([]interface{}, 0, len(l.fields)+len(fields))
	merged = append(merged, l.fields...)
	return &Logger{fields: append(merged, fields...)}
}

func (l *Logger) Debug(msg string, fields ...interface{}) { l.write(DEBUG, msg, fields) }
func (l *Logger) Info(msg string, fields ...interface{}) { l.write(INFO, msg, fields) }
func (l *Logger) Warn(msg string, fields ...interface{}) { l.write(WARN, msg, fields) }
func (l *Logger) Error(msg string, fields ...interface{}) { l.write(ERROR, msg, fields) }

func (l *Logger) write(level Level, msg string, fields []interface{}) {
	all := fields
	if len(l.fields) > 0 {
		all = append(append(make([]interface{}, 0, len(l.fields)+len(fields)), l.fields...), fields...)
	}
	std.emit(level, msg, all)
}

// Debug writes a DEBUG entry with key/value fields.
func Debug(msg string, fields ...interface{}) { std.emit(DEBUG, msg, fields) }

// Info writes an INFO entry with key/value fields.
func Info(msg string, fields ...interface{}) { std.emit(INFO, msg, fields) }

// Warn writes a WARN entry with key/value fields.
func Warn(msg string, fields ...interface{}) { std.emit(WARN, msg, fields) }

// Error writes an ERROR entry with key/value fields.
func Error(msg string, fields ...interface{}) { std.emit(ERROR, msg, fields) }

func (s *sink) emit(level Level, msg string, fields []interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if level < s.level {
		return
	}

	entry := make(map[string]interface{}, 3+len(fields)/2)
	// an odd trailing key is dropped
	for i := 0; i+1 < len(fields); i += 2 {
		key := fmt.Sprint(fields[i])
		val := fmt.Sprint(fields[i+1])
		if s.redact {
			val = maskValue(key, val)
		}
		entry[key] = val
	}
	entry["time"] = time.Now().UTC().Format(time.RFC3339)
	entry["level"] = level.String()
	entry["msg"] = msg

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	s.out.Write(append(data, '\n'))
}

var addressPattern = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)

func maskValue(key, val string) string {
	if strings.Contains(strings.ToLower(key), "email") {
		return RedactEmail(val)
	}
	return addressPattern.ReplaceAllStringFunc(val, RedactEmail)
}

// RedactEmail keeps the first two characters of the local part:
// "john.doe@example.com" becomes "jo***@example.com". Shorter local parts are
// masked entirely.
func RedactEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 || strings.Contains(email[:at], "@") {
		return "***@***"
	}
	local, domain := email[:at], email[at+1:]
	if len(local) > 2 {
		return local[:2] + "***@" + domain
	}
	return "***@" + domain
}
