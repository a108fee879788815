package notification

import (
	"context"
	"log"

	"github.com/google/uuid"
)

// LogDispatcher writes messages to the log instead of sending them. Development only.
type LogDispatcher struct{}

func NewLogDispatcher() *LogDispatcher {
	return &LogDispatcher{}
}

func (LogDispatcher) Send(_ context.Context, msg Message) Receipt {
	id := "log-" + uuid.NewString()
	log.Printf("mail not sent (log driver): message_id=%s to=%s subject=%q bytes=%d", id, msg.To, msg.Subject, len(msg.HTML))
	return Receipt{Success: true, MessageID: id}
}
