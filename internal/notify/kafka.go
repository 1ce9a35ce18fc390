package notify

import (
	"context"
	"strconv"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/segmentio/kafka-go"
)

// MessageWriter is the subset of *kafka.Writer used by Kafka.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Kafka publishes messages as JSON records keyed by booking id.
type Kafka struct {
	w MessageWriter
}

// NewKafka creates a publisher writing to topic on the given brokers.
func NewKafka(brokers []string, topic string) *Kafka {
	return NewKafkaWriter(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	})
}

// NewKafkaWriter wraps an existing writer.
func NewKafkaWriter(w MessageWriter) *Kafka {
	return &Kafka{w: w}
}

func (k *Kafka) Notify(ctx context.Context, m Message) error {
	msg := kafka.Message{
		Key:   []byte(strconv.Itoa(m.BookingID)),
		Value: Encode(m),
		Time:  m.At,
	}
	if err := k.w.WriteMessages(ctx, msg); err != nil {
		return errors.Wrap(err, "write message")
	}
	return nil
}

func (k *Kafka) Close() error {
	return k.w.Close()
}

// Encode renders m as a JSON object.
func Encode(m Message) []byte {
	e := jx.GetEncoder()
	defer jx.PutEncoder(e)

	e.ObjStart()
	e.FieldStart("event")
	e.Str(string(m.Event))
	e.FieldStart("booking_id")
	e.Int(m.BookingID)
	e.FieldStart("name")
	e.Str(m.Name)
	e.FieldStart("email")
	e.Str(m.Email)
	e.FieldStart("text")
	e.Str(m.Text)
	e.FieldStart("at")
	e.Str(m.At.UTC().Format(time.RFC3339))
	e.ObjEnd()

	return append([]byte(nil), e.Bytes()...)
}

// Decode parses a message produced by Encode.
func Decode(data []byte) (Message, error) {
	var m Message
	err := jx.DecodeBytes(data).ObjBytes(func(d *jx.Decoder, key []byte) error {
		var err error
		switch string(key) {
		case "event":
			var s string
			s, err = d.Str()
			m.Event = Event(s)
		case "booking_id":
			m.BookingID, err = d.Int()
		case "name":
			m.Name, err = d.Str()
		case "email":
			m.Email, err = d.Str()
		case "text":
			m.Text, err = d.Str()
		case "at":
			var s string
			if s, err = d.Str(); err == nil {
				m.At, err = time.Parse(time.RFC3339, s)
			}
		default:
			err = d.Skip()
		}
		return err
	})
	if err != nil {
		return Message{}, errors.Wrap(err, "decode message")
	}
	return m, nil
}
