package realtime

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
)

type stubPublishClient struct {
	published map[string][]byte
}

func (s *stubPublishClient) Publish(ctx context.Context, channel string, payload any) error {
	if s.published == nil {
		s.published = make(map[string][]byte)
	}
	s.published[channel] = payload.([]byte)
	return nil
}

func (s *stubPublishClient) ChannelKey(parts ...string) string {
	return "mosb:realtime:" + strings.Join(parts, ":")
}

func TestOrderChangedPublishesBothChannels(t *testing.T) {
	client := &stubPublishClient{}
	pub, err := NewPublisher(client)
	if err != nil {
		t.Fatalf("new publisher: %v", err)
	}

	orderID := uuid.New()
	locationID := uuid.New()
	msg := Message{
		Event:      EventOrderUpdated,
		OrderID:    orderID,
		LocationID: locationID,
		Status:     "preparing",
	}
	if err := pub.OrderChanged(context.Background(), msg); err != nil {
		t.Fatalf("order changed: %v", err)
	}

	orderChannel := "mosb:realtime:order:" + orderID.String()
	kitchenChannel := "mosb:realtime:kitchen:" + locationID.String()
	if _, ok := client.published[orderChannel]; !ok {
		t.Fatalf("missing publish on %s", orderChannel)
	}
	raw, ok := client.published[kitchenChannel]
	if !ok {
		t.Fatalf("missing publish on %s", kitchenChannel)
	}

	var decoded Message
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if decoded.Event != EventOrderUpdated || decoded.Status != "preparing" {
		t.Fatalf("unexpected payload %+v", decoded)
	}
	if decoded.At.IsZero() {
		t.Fatalf("expected timestamp to be stamped")
	}
}
