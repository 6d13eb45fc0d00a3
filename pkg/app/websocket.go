package app

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/lxzan/gws"
	"go.uber.org/zap"

	"github.com/notefield/notebook-service/global"
	"github.com/notefield/notebook-service/pkg/code"
)

type LogType string

const (
	WebSocketServerPingInterval         = 25
	WebSocketServerPingWait             = 40
	LogInfo                     LogType = "info"
	LogError                    LogType = "error"
	LogWarn                     LogType = "warn"
)

func log(t LogType, msg string, fields ...zap.Field) {
	switch t {
	case LogError:
		global.Logger.Error(msg, fields...)
	case LogWarn:
		global.Logger.Warn(msg, fields...)
	case LogInfo:
		global.Logger.Info(msg, fields...)
	}
}

// WebSocketMessage is one framed client message: "<Type>|<Data>".
type WebSocketMessage struct {
	Type string `json:"type"`
	Data []byte `json:"data"`
}

type WebsocketServerConfig struct {
	GWSOption    gws.ServerOption
	PingInterval time.Duration
	PingWait     time.Duration
}

// WebsocketClient stores one connection and its session state.
type WebsocketClient struct {
	conn      *gws.Conn
	done      chan struct{}
	closeOnce sync.Once
	Ctx       *gin.Context
	User      *UserEntity
	server    *WebsocketServer
	// notebooks this session is subscribed to
	notebooks map[int64]struct{}
	mu        sync.Mutex
}

// BindAndValid unmarshals a message payload into obj and validates it with
// the global validator.
func (c *WebsocketClient) BindAndValid(data []byte, obj any) (bool, ValidErrors) {
	var errs ValidErrors

	if err := json.Unmarshal(data, obj); err != nil {
		errs = append(errs, &ValidError{
			Key:     "body",
			Message: "Invalid message format",
		})
		return false, errs
	}

	if global.Validator == nil {
		return true, nil
	}

	if err := global.Validator.Struct(obj); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			trans, transOK := c.Ctx.Value("trans").(ut.Translator)
			for _, validationErr := range validationErrors {
				message := validationErr.Error()
				if transOK {
					message = validationErr.Translate(trans)
				}
				errs = append(errs, &ValidError{
					Key:     validationErr.Field(),
					Message: message,
				})
			}
		}
		return false, errs
	}
	return true, nil
}

// PingLoop sends a ping on a fixed interval until the session ends.
func (c *WebsocketClient) PingLoop(pingInterval time.Duration) {
	ticker := time.NewTicker(pingInterval * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-c.done:
			log(LogInfo, "WebsocketServer Client Close Ping")
			return
		case <-ticker.C:
			if c.conn == nil {
				return
			}
			if err := c.conn.WritePing(nil); err != nil {
				log(LogError, "WebsocketServer Client Ping err", zap.Error(err))
				return
			}
		}
	}
}

// ToResponse sends a result to this client only.
func (c *WebsocketClient) ToResponse(codeObj *code.Code, action ...string) {
	var actionType string
	if len(action) > 0 {
		actionType = action[0]
	}

	content := Res{
		Code:    codeObj.Code(),
		Status:  codeObj.Status(),
		Message: codeObj.Lang.GetMessage(),
		Data:    codeObj.Data(),
	}
	if codeObj.HaveDetails() {
		content.Details = strings.Join(codeObj.Details(), ",")
	}

	c.send(actionType, content)
}

// BroadcastToNotebook sends a result to every session subscribed to the
// notebook, optionally excluding this session.
func (c *WebsocketClient) BroadcastToNotebook(notebookID int64, codeObj *code.Code, excludeSelf bool, action ...string) {
	var actionType string
	if len(action) > 0 {
		actionType = action[0]
	}

	content := Res{
		Code:    codeObj.Code(),
		Status:  codeObj.Status(),
		Message: codeObj.Lang.GetMessage(),
		Data:    codeObj.Data(),
	}
	if codeObj.HaveDetails() {
		content.Details = strings.Join(codeObj.Details(), ",")
	}

	var exclude *gws.Conn
	if excludeSelf {
		exclude = c.conn
	}
	c.server.broadcastToNotebook(notebookID, actionType, content, exclude)
}

func (c *WebsocketClient) send(actionType string, content any) {
	responseBytes, _ := json.Marshal(content)
	if actionType != "" {
		responseBytes = []byte(fmt.Sprintf(`%s|%s`, actionType, string(responseBytes)))
	}
	_ = c.conn.WriteMessage(gws.OpcodeText, responseBytes)
}

func (c *WebsocketClient) finish() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

// Subscribed reports whether the session is subscribed to the notebook.
func (c *WebsocketClient) Subscribed(notebookID int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.notebooks[notebookID]
	return ok
}

// ------------------------------------> WebsocketServer

type ConnStorage = map[*gws.Conn]*WebsocketClient

// WebsocketServer runs the realtime sync endpoint. Sessions authenticate
// with a user token, then subscribe to notebooks; writes are broadcast to
// the notebook's subscribers.
type WebsocketServer struct {
	handlers        map[string]func(*WebsocketClient, *WebSocketMessage)
	tokenParser     func(token string) (*UserEntity, error)
	userDataHandler func(*WebsocketClient, int64) (*UserSelectEntity, error)
	clients         ConnStorage
	notebookClients map[int64]ConnStorage
	mu              sync.Mutex
	up              *gws.Upgrader
	config          *WebsocketServerConfig
}

func NewWebsocketServer(c WebsocketServerConfig) *WebsocketServer {
	if c.PingInterval == 0 {
		c.PingInterval = WebSocketServerPingInterval
	}
	if c.PingWait == 0 {
		c.PingWait = WebSocketServerPingWait
	}
	wss := WebsocketServer{
		handlers:        make(map[string]func(*WebsocketClient, *WebSocketMessage)),
		clients:         make(ConnStorage),
		notebookClients: make(map[int64]ConnStorage),
		config:          &c,
	}
	return &wss
}

func (w *WebsocketServer) Upgrade() {
	w.up = gws.NewUpgrader(w, &w.config.GWSOption)
}

func (w *WebsocketServer) Run() gin.HandlerFunc {
	return func(c *gin.Context) {
		w.Upgrade()
		socket, err := w.up.Upgrade(c.Writer, c.Request)
		if err != nil {
			log(LogError, "WebsocketServer Start err", zap.Error(err))
			return
		}
		client := &WebsocketClient{
			conn:      socket,
			done:      make(chan struct{}),
			Ctx:       c,
			server:    w,
			notebooks: make(map[int64]struct{}),
		}
		w.AddClient(client)
		log(LogInfo, "WebsocketServer Start", zap.String("type", "ReadLoop"))
		go socket.ReadLoop()
	}
}

// Use registers a handler for a message action.
func (w *WebsocketServer) Use(action string, handler func(*WebsocketClient, *WebSocketMessage)) {
	w.handlers[action] = handler
}

// TokenParserUse injects the user token parser.
func (w *WebsocketServer) TokenParserUse(parser func(token string) (*UserEntity, error)) {
	w.tokenParser = parser
}

// UserDataSelectUse injects the user lookup used to verify the account still
// exists and is active at session start.
func (w *WebsocketServer) UserDataSelectUse(handler func(*WebsocketClient, int64) (*UserSelectEntity, error)) {
	w.userDataHandler = handler
}

func (w *WebsocketServer) rejectAuthorization(c *WebsocketClient, err error) {
	log(LogError, "WebsocketServer Authorization FAILED", zap.Error(err))
	c.ToResponse(code.ErrorInvalidUserAuthToken, "Authorization")
	time.Sleep(2 * time.Second)
	_ = c.conn.WriteClose(1000, []byte("AuthorizationFailed"))
}

func (w *WebsocketServer) Authorization(c *WebsocketClient, msg *WebSocketMessage) {
	user, err := w.tokenParser(string(msg.Data))
	if err != nil {
		w.rejectAuthorization(c, err)
		return
	}

	userSelect, err := w.userDataHandler(c, user.UID)
	if userSelect == nil || err != nil {
		w.rejectAuthorization(c, fmt.Errorf("user not available: %w", err))
		return
	}

	user.Username = userSelect.Username
	c.User = user

	c.ToResponse(code.Success, "Authorization")
	log(LogInfo, "WebsocketServer User Enters",
		zap.Int64("uid", c.User.UID),
		zap.String("username", c.User.Username))
	go c.PingLoop(w.config.PingInterval)
}

// SubscribeNotebook adds the session to a notebook's broadcast set. The
// caller checks notebook access first.
func (w *WebsocketServer) SubscribeNotebook(c *WebsocketClient, notebookID int64) {
	w.mu.Lock()
	if w.notebookClients[notebookID] == nil {
		w.notebookClients[notebookID] = make(ConnStorage)
	}
	w.notebookClients[notebookID][c.conn] = c
	w.mu.Unlock()

	c.mu.Lock()
	c.notebooks[notebookID] = struct{}{}
	c.mu.Unlock()
}

// UnsubscribeNotebook removes the session from a notebook's broadcast set.
func (w *WebsocketServer) UnsubscribeNotebook(c *WebsocketClient, notebookID int64) {
	w.mu.Lock()
	if conns := w.notebookClients[notebookID]; conns != nil {
		delete(conns, c.conn)
		if len(conns) == 0 {
			delete(w.notebookClients, notebookID)
		}
	}
	w.mu.Unlock()

	c.mu.Lock()
	delete(c.notebooks, notebookID)
	c.mu.Unlock()
}

func (w *WebsocketServer) broadcastToNotebook(notebookID int64, actionType string, content any, exclude *gws.Conn) {
	responseBytes, _ := json.Marshal(content)
	if actionType != "" {
		responseBytes = []byte(fmt.Sprintf(`%s|%s`, actionType, string(responseBytes)))
	}

	b := gws.NewBroadcaster(gws.OpcodeText, responseBytes)
	defer b.Close()

	w.mu.Lock()
	conns := make([]*gws.Conn, 0, len(w.notebookClients[notebookID]))
	for conn := range w.notebookClients[notebookID] {
		if conn == exclude {
			continue
		}
		conns = append(conns, conn)
	}
	w.mu.Unlock()

	for _, conn := range conns {
		_ = b.Broadcast(conn)
	}
}

// BroadcastToNotebook pushes a result to every session subscribed to the
// notebook. Used by the HTTP handlers to fan out write events.
func (w *WebsocketServer) BroadcastToNotebook(notebookID int64, codeObj *code.Code, action ...string) {
	var actionType string
	if len(action) > 0 {
		actionType = action[0]
	}

	content := Res{
		Code:    codeObj.Code(),
		Status:  codeObj.Status(),
		Message: codeObj.Lang.GetMessage(),
		Data:    codeObj.Data(),
	}
	if codeObj.HaveDetails() {
		content.Details = strings.Join(codeObj.Details(), ",")
	}

	w.broadcastToNotebook(notebookID, actionType, content, nil)
}

func (w *WebsocketServer) GetClient(conn *gws.Conn) *WebsocketClient {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.clients[conn]
}

func (w *WebsocketServer) AddClient(c *WebsocketClient) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.clients[c.conn] = c
}

func (w *WebsocketServer) RemoveClient(conn *gws.Conn) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.clients, conn)
}

func (w *WebsocketServer) removeFromNotebooks(c *WebsocketClient) {
	c.mu.Lock()
	ids := make([]int64, 0, len(c.notebooks))
	for id := range c.notebooks {
		ids = append(ids, id)
	}
	c.mu.Unlock()

	w.mu.Lock()
	for _, id := range ids {
		if conns := w.notebookClients[id]; conns != nil {
			delete(conns, c.conn)
			if len(conns) == 0 {
				delete(w.notebookClients, id)
			}
		}
	}
	w.mu.Unlock()
}

func (w *WebsocketServer) OnOpen(conn *gws.Conn) {
	log(LogInfo, "WebsocketServer Client Connect", zap.Int("Count", len(w.clients)))
	_ = conn.SetDeadline(time.Now().Add(w.config.PingWait * time.Second))
}

func (w *WebsocketServer) OnClose(conn *gws.Conn, err error) {
	c := w.GetClient(conn)
	w.RemoveClient(conn)

	if c == nil {
		return
	}

	c.finish()
	w.removeFromNotebooks(c)
	if c.User != nil {
		log(LogInfo, "WebsocketServer User Leave", zap.Int64("uid", c.User.UID))
	}

	log(LogInfo, "WebsocketServer Client Leave", zap.Int("Count", len(w.clients)))
}

func (w *WebsocketServer) OnPing(socket *gws.Conn, payload []byte) {
	_ = socket.SetDeadline(time.Now().Add(w.config.PingWait * time.Second))
	_ = socket.WritePong(nil)
}

func (w *WebsocketServer) OnPong(socket *gws.Conn, payload []byte) {
	_ = socket.SetDeadline(time.Now().Add(w.config.PingWait * time.Second))
}

func (w *WebsocketServer) OnMessage(conn *gws.Conn, message *gws.Message) {
	defer message.Close()
	if message.Opcode != gws.OpcodeText {
		return
	}
	if message.Data.String() == "close" {
		_ = conn.WriteClose(1000, []byte("ClientClose"))
		return
	}

	c := w.GetClient(conn)
	if c == nil {
		return
	}

	messageStr := message.Data.String()
	index := strings.Index(messageStr, "|")

	var msg WebSocketMessage
	if index != -1 {
		msg.Type = messageStr[:index]
		msg.Data = []byte(messageStr[index+1:])
	} else {
		log(LogError, "WebsocketServer OnMessage", zap.String("type", "Illegal message type"))
		return
	}

	if msg.Type == "Authorization" {
		w.Authorization(c, &msg)
		return
	}

	if c.User == nil {
		c.ToResponse(code.ErrorNotUserAuthToken)
		return
	}

	handler, exists := w.handlers[msg.Type]
	if exists {
		log(LogInfo, "WebsocketServer OnMessage", zap.String("Type", msg.Type))
		handler(c, &msg)
	} else {
		log(LogError, "WebsocketServer OnMessage", zap.String("msg", "Unknown message type"))
	}
}
