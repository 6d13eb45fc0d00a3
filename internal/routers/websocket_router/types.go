package websocket_router

// subscribeRequest selects the notebook a session wants events for.
type subscribeRequest struct {
	NotebookID int64 `json:"notebookId" binding:"required"`
}

// nodeModifyRequest is a node write sent over the socket instead of HTTP.
type nodeModifyRequest struct {
	NodeID   int64  `json:"nodeId" binding:"required"`
	Title    string `json:"title" binding:"required"`
	Category string `json:"category"`
	Content  string `json:"content"`
	Version  int64  `json:"version" binding:"required,min=1"`
}

// nodeDeleteRequest moves a node to the recycle bin over the socket.
type nodeDeleteRequest struct {
	NodeID int64 `json:"nodeId" binding:"required"`
}
