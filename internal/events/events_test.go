package events

import (
	"encoding/json"
	"testing"
)

func TestEventSellerID(t *testing.T) {
	var e Event
	if err := json.Unmarshal([]byte(`{"type":"campaign_reserved","payload":{"seller_id":"abc","count":2}}`), &e); err != nil {
		t.Fatal(err)
	}
	if e.SellerID() != "abc" {
		t.Errorf("SellerID() = %q, want abc", e.SellerID())
	}
	if (Event{Type: EventCapacityChanged}).SellerID() != "" {
		t.Error("event without payload should have empty seller id")
	}
}

func TestDecode_SetsChannel(t *testing.T) {
	e, err := decode(ChannelTraffic, `{"channel":"spoofed","type":"traffic_requested","payload":{"seller_id":"s1"}}`)
	if err != nil {
		t.Fatal(err)
	}
	if e.Channel != ChannelTraffic {
		t.Errorf("Channel = %q, want %q", e.Channel, ChannelTraffic)
	}
	if e.Type != EventTrafficRequested || e.SellerID() != "s1" {
		t.Errorf("unexpected event %+v", e)
	}

	if _, err := decode(ChannelTraffic, `not json`); err == nil {
		t.Error("expected error for malformed payload")
	}
}
