package output

// OnlineUserInfo describes one user connected over websocket.
type OnlineUserInfo struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}
