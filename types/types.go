package types

// ChatMessage is a raw inbound chat message from any source (web
// client, bridge channel) before normalization. Text or Image must be
// non-empty for a message to be relayed.
type ChatMessage struct {
	Text  string `json:"text"`
	Image string `json:"image,omitempty"`
}

type Player struct {
	UUID     string `json:"uuid"`
	Name     string `json:"name"`
	Online   bool   `json:"online"`
	LastSeen string `json:"last_seen"`
}

type Application struct {
	ID         int    `json:"id"`
	McName     string `json:"mcName"`
	DcName     string `json:"dcName"`
	Age        int    `json:"age"`
	HowFound   string `json:"howFound,omitempty"`
	Experience string `json:"experience,omitempty"`
	WhyJoin    string `json:"whyJoin"`
	CreatedAt  string `json:"createdAt"`
}
