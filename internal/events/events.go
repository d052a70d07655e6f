package events

import "context"

// Channels
const (
	ChannelCampaign = "events:campaign"
	ChannelTraffic  = "events:traffic"
	ChannelReview   = "events:review"
)

var AllChannels = []string{ChannelCampaign, ChannelTraffic, ChannelReview}

// Event types
const (
	EventCampaignReserved      = "campaign_reserved"
	EventCampaignStatusChanged = "campaign_status_changed"
	EventCampaignCancelled     = "campaign_cancelled"
	EventCapacityChanged       = "capacity_changed"
	EventTrafficRequested      = "traffic_requested"
	EventTrafficConfirmed      = "traffic_confirmed"
	EventReviewSubmitted       = "review_submitted"
	EventReviewStatusChanged   = "review_status_changed"
)

type Event struct {
	Channel string         `json:"channel,omitempty"`
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
}

// SellerID returns the owning seller of the event, if any.
func (e Event) SellerID() string {
	s, _ := e.Payload["seller_id"].(string)
	return s
}

type Publisher interface {
	Publish(ctx context.Context, channel string, event Event) error
}

// Subscriber delivers events from the given channels until ctx is done.
// Each event arrives with Channel set.
type Subscriber interface {
	Subscribe(ctx context.Context, handler func(Event), channels ...string) error
}
