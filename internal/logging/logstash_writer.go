// Package logging ships request logs to a Logstash TCP input without ever
// blocking the request path.
package logging

import (
	"errors"
	"net"
	"strings"
	"sync"
	"time"
)

// LogstashWriter keeps a single TCP connection to Logstash open and drops
// writes while it is unreachable. Log shipping is best-effort; losing lines
// is preferable to stalling the API on a logging outage.
type LogstashWriter struct {
	addr          string
	dialTimeout   time.Duration
	writeTimeout  time.Duration
	retryInterval time.Duration

	mu        sync.Mutex
	conn      net.Conn
	nextRetry time.Time
	closed    bool
}

func NewLogstashWriter(addr string) (*LogstashWriter, error) {
	if strings.TrimSpace(addr) == "" {
		return nil, errors.New("logstash: empty address")
	}
	return &LogstashWriter{
		addr:          addr,
		dialTimeout:   2 * time.Second,
		writeTimeout:  time.Second,
		retryInterval: 5 * time.Second,
	}, nil
}

// Write implements io.Writer. It always reports success to the caller so a
// Logstash outage never surfaces as a logging error.
func (w *LogstashWriter) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return len(p), nil
	}
	if w.conn == nil {
		if time.Now().Before(w.nextRetry) {
			return len(p), nil
		}
		conn, err := net.DialTimeout("tcp", w.addr, w.dialTimeout)
		if err != nil {
			w.nextRetry = time.Now().Add(w.retryInterval)
			return len(p), nil
		}
		w.conn = conn
	}

	_ = w.conn.SetWriteDeadline(time.Now().Add(w.writeTimeout))
	if _, err := w.conn.Write(p); err != nil {
		_ = w.conn.Close()
		w.conn = nil
		w.nextRetry = time.Now().Add(w.retryInterval)
	}
	return len(p), nil
}

func (w *LogstashWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	if w.conn != nil {
		err := w.conn.Close()
		w.conn = nil
		return err
	}
	return nil
}
