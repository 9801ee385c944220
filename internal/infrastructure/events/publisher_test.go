package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ORiVS/Vegnbio-POS-sub000/internal/config"
	"github.com/ORiVS/Vegnbio-POS-sub000/internal/domain/entity"
	"github.com/ORiVS/Vegnbio-POS-sub000/internal/domain/enum"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func sampleRecord() *entity.PaymentRecord {
	return &entity.PaymentRecord{
		ID:               uuid.New(),
		RestaurantID:     uuid.MustParse("7f1c6a8e-3d38-4c55-9d0b-2b9f6f7f4a11"),
		OrderID:          "1203",
		Method:           enum.PaymentMethodCash,
		AmountRecorded:   1000,
		AmountGiven:      1000,
		PartialRemainder: 1350,
		Partial:          true,
		RemoteReference:  "pay_77",
		CreatedAt:        time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestKafkaPublisher_PublishPaymentRecorded(t *testing.T) {
	w := &fakeWriter{}
	p := NewKafkaPublisher(w)

	require.NoError(t, p.PublishPaymentRecorded(context.Background(), NewPaymentRecorded(sampleRecord())))
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "1203", string(msg.Key))

	var got map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, TypePaymentRecorded, got["type"])
	assert.Equal(t, "10.00", got["amount"])
	assert.Equal(t, "13.50", got["partial_remainder"])
	assert.Equal(t, "0.00", got["change_due"])
	assert.Equal(t, true, got["partial"])
	assert.Equal(t, "pay_77", got["remote_reference"])

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisher_WrapsWriteErrors(t *testing.T) {
	boom := errors.New("broker down")
	p := NewKafkaPublisher(&fakeWriter{err: boom})

	err := p.PublishPaymentRecorded(context.Background(), NewPaymentRecorded(sampleRecord()))
	assert.ErrorIs(t, err, boom)
}

func TestNewPublisher_DisabledWithoutBrokers(t *testing.T) {
	p := NewPublisher(config.KafkaConfig{PaymentsTopic: "pos.payments"})
	assert.IsType(t, NoopPublisher{}, p)
	assert.NoError(t, p.PublishPaymentRecorded(context.Background(), PaymentRecorded{}))
	assert.NoError(t, p.Close())
}
