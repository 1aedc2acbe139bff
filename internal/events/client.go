// Package events publishes assistant telemetry over NATS. The publisher is an
// optional collaborator: the assistant runs fine without a broker, callers
// just skip publishing when the client is nil.
package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// Subjects emitted by the assistant.
const (
	SubjectRegistered = "edu.atlas.registered"
	SubjectEscalation = "edu.atlas.escalation"
	SubjectFeedback   = "edu.atlas.feedback"
)

// EscalationSignal is emitted when repeated unanswerable queries route a
// session to human support, so advisors can follow up out of band.
type EscalationSignal struct {
	SessionID       string `json:"session_id"`
	Query           string `json:"query"`
	SimilarFailures int    `json:"similar_failures"`
	Timestamp       string `json:"timestamp"`
}

// FeedbackSignal is emitted when a caller rates a previous answer.
type FeedbackSignal struct {
	SessionID string `json:"session_id"`
	Input     string `json:"input"`
	Helpful   bool   `json:"helpful"`
	Rating    int    `json:"rating"`
}

type Client struct {
	conn   *nats.Conn
	logger *slog.Logger
}

func NewClient(url, token string, logger *slog.Logger) (*Client, error) {
	opts := []nats.Option{
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("nats reconnected")
		}),
	}
	if token != "" {
		opts = append(opts, nats.Token(token))
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	return &Client{conn: nc, logger: logger}, nil
}

func (c *Client) Publish(subject string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	return c.conn.Publish(subject, payload)
}

func (c *Client) Close() {
	c.conn.Close()
}
