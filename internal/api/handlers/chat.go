package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"ticket-ledger/internal/api/models"
	"ticket-ledger/internal/chatbot"
)

// ChatSessionTTL is how long an idle conversation is kept.
const ChatSessionTTL = 30 * time.Minute

type chatEntry struct {
	session chatbot.Session
	seen    time.Time
}

// ChatHandler exposes the investor bot. Sessions stay on the server and
// clients refer to them by ID, so expected answers never leave the process.
type ChatHandler struct {
	mu       sync.Mutex // guards sessions and the bot's rng
	bot      *chatbot.Bot
	sessions map[string]chatEntry
	now      func() time.Time
}

func NewChatHandler(bot *chatbot.Bot) *ChatHandler {
	return &ChatHandler{bot: bot, sessions: make(map[string]chatEntry), now: time.Now}
}

// Chat handles POST /api/v1/chat
func (h *ChatHandler) Chat(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, CodeInvalidRequest, err.Error())
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.now()
	h.prune(now)

	id := req.SessionID
	session := chatbot.Session{Phone: req.Phone, State: chatbot.Greeting{}}
	if id != "" {
		entry, ok := h.sessions[id]
		if !ok {
			respondError(c, http.StatusNotFound, CodeNotFound, "chat session not found or expired")
			return
		}
		session = entry.session
	} else {
		id = uuid.NewString()
	}

	reply, next := h.bot.Step(session, req.Message)
	h.sessions[id] = chatEntry{session: next, seen: now}

	c.JSON(http.StatusOK, models.ChatResponse{
		SessionID: id,
		Reply:     reply,
		Step:      next.StepName(),
		Options:   next.Options(),
	})
}

func (h *ChatHandler) prune(now time.Time) {
	for id, e := range h.sessions {
		if now.Sub(e.seen) > ChatSessionTTL {
			delete(h.sessions, id)
		}
	}
}
