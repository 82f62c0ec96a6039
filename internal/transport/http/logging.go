package http

import (
	"encoding/json"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// registerLogging emits one JSON line per request through the standard log
// package, so the output can be mirrored to Logstash by swapping the log
// writer.
func registerLogging(e *echo.Echo) {
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogMethod:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			userID := "anonymous"
			if id, ok := CurrentUserID(c); ok {
				userID = id
			}

			payload := struct {
				Time      string `json:"time"`
				UserID    string `json:"user_id"`
				LatencyMS int64  `json:"latency_ms"`
				Method    string `json:"method"`
				URI       string `json:"uri"`
				Status    int    `json:"status"`
				Error     string `json:"error,omitempty"`
			}{
				Time:      v.StartTime.Format(time.RFC3339),
				UserID:    userID,
				LatencyMS: v.Latency.Milliseconds(),
				Method:    v.Method,
				URI:       v.URI,
				Status:    v.Status,
			}
			if v.Error != nil {
				payload.Error = v.Error.Error()
			}

			buf, err := json.Marshal(payload)
			if err != nil {
				return err
			}
			log.Println(string(buf))
			return nil
		},
	}))
}
