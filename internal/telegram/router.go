package telegram

import (
	"context"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/Kemuni/TimeInData/internal/domain"
	"github.com/Kemuni/TimeInData/internal/store"
)

// Pending state keys used in conversational flows.
const (
	pendingActivity    = "await_activity_text"
	pendingNotifyHours = "await_notify_hours_text"
	pendingTZ          = "await_tz_text"
)

// sender is the slice of the bot API the router needs. *tgbotapi.BotAPI
// satisfies it.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Router wires Telegram updates to handlers and holds the in-memory
// conversation state: a pending-input marker and, for activity entry, the
// session owning the open-hour window. One session per chat; windows are
// never shared.
type Router struct {
	bot      sender
	log      *zap.Logger
	repo     store.Repo
	mu       sync.RWMutex
	pending  map[int64]string
	sessions map[int64]*domain.Session
}

// NewRouter creates a new Telegram router.
func NewRouter(bot sender, log *zap.Logger, repo store.Repo) *Router {
	return &Router{
		bot:      bot,
		log:      log,
		repo:     repo,
		pending:  make(map[int64]string),
		sessions: make(map[int64]*domain.Session),
	}
}

func (r *Router) setPending(chatID int64, s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending[chatID] = s
}

func (r *Router) getPending(chatID int64) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.pending[chatID]
}

func (r *Router) clearPending(chatID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pending, chatID)
}

func (r *Router) setSession(chatID int64, s *domain.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[chatID] = s
}

func (r *Router) getSession(chatID int64) *domain.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessions[chatID]
}

func (r *Router) clearSession(chatID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, chatID)
}

// HandleUpdate routes a single update to the appropriate handler.
func (r *Router) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if upd.Message == nil {
		return
	}
	msg := upd.Message
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	// Every update upserts the sender, so no handler ever reads a user
	// that is not in the store yet.
	if err := r.ensureUser(ctx, msg); err != nil {
		r.log.Error("ensureUser failed", zap.Int64("chat_id", chatID), zap.Error(err))
		r.sendText(chatID, profileErrorText)
		return
	}

	switch {
	case strings.HasPrefix(text, "/start"):
		r.handleStart(chatID)
	case strings.HasPrefix(text, "/set_activity"):
		r.handleSetActivity(ctx, chatID)
	case strings.HasPrefix(text, "/summary"):
		r.handleSummary(ctx, chatID)
	case strings.HasPrefix(text, "/set_notify_hours"):
		r.handleAskNotifyHours(ctx, chatID)
	case strings.HasPrefix(text, "/set_timezone"):
		r.handleAskTimezone(ctx, chatID)
	case strings.HasPrefix(text, "/settings"):
		r.handleSettings(ctx, chatID)
	case strings.HasPrefix(text, "/cancel"):
		r.handleCancel(chatID)
	default:
		r.handleFreeForm(ctx, chatID, text)
	}
}

// sendText sends a plain text message to the given chat.
func (r *Router) sendText(chatID int64, text string) {
	if _, err := r.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		r.log.Warn("send failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
