package dto

// NetworkState is the client-side connectivity estimate. It is a side
// channel next to the account snapshot: repeated sync failures flip Status
// to offline, any successful RPC call flips it back to online.
type NetworkState struct {
	Status             string `json:"status"` // "online" | "offline"
	SyncAttemptsFailed int    `json:"syncAttemptsFailed"`
}

const (
	NetworkOnline  = "online"
	NetworkOffline = "offline"
)
