/*
Copyright 2022 Lee R. Boynton

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package wire

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws/protocol/eventstream"
)

const (
	EventTypeHeader   = ":event-type"
	MessageTypeHeader = ":message-type"
	ContentTypeHeader = ":content-type"

	EventMessageType = "event"
)

// NewEvent starts an event message with the headers every event carries.
func NewEvent(eventType, contentType string) eventstream.Message {
	var msg eventstream.Message
	msg.Headers.Set(EventTypeHeader, eventstream.StringValue(eventType))
	msg.Headers.Set(MessageTypeHeader, eventstream.StringValue(EventMessageType))
	msg.Headers.Set(ContentTypeHeader, eventstream.StringValue(contentType))
	return msg
}

// EventHeaderString returns the string value of an event header, or "" if it is absent.
func EventHeaderString(msg eventstream.Message, name string) string {
	v := msg.Headers.Get(name)
	if v == nil {
		return ""
	}
	if s, ok := v.(eventstream.StringValue); ok {
		return string(s)
	}
	return v.String()
}

// EventStreamWriter frames messages onto a stream. It is safe for concurrent use; messages are
// written whole, one at a time.
type EventStreamWriter struct {
	mu  sync.Mutex
	enc *eventstream.Encoder
	w   io.Writer
}

func NewEventStreamWriter(w io.Writer) *EventStreamWriter {
	return &EventStreamWriter{enc: eventstream.NewEncoder(), w: w}
}

func (w *EventStreamWriter) Send(ctx context.Context, msg eventstream.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.enc.Encode(w.w, msg); err != nil {
		return fmt.Errorf("cannot write event %q: %w", EventHeaderString(msg, EventTypeHeader), err)
	}
	return nil
}

// Close closes the underlying writer if it is an io.Closer.
func (w *EventStreamWriter) Close() error {
	if c, ok := w.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
