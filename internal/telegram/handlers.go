package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/Kemuni/TimeInData/internal/domain"
	"github.com/Kemuni/TimeInData/internal/store"
)

// ensureUser upserts the sender so later reads never miss. The router calls
// it for every update before dispatching.
func (r *Router) ensureUser(ctx context.Context, msg *tgbotapi.Message) error {
	username, language := "", "en"
	if msg.From != nil {
		username = msg.From.UserName
		if msg.From.LanguageCode != "" {
			language = msg.From.LanguageCode
		}
	}
	return r.repo.UpsertUser(ctx, msg.Chat.ID, username, language)
}

func (r *Router) handleStart(chatID int64) {
	r.sendText(chatID, startText)
}

// --- Activity entry flow ---

func (r *Router) handleSetActivity(ctx context.Context, chatID int64) {
	tzDelta, err := r.repo.TzDelta(ctx, chatID)
	if err != nil {
		r.log.Error("TzDelta failed", zap.Error(err))
		r.sendText(chatID, settingsErrorText)
		return
	}
	last, err := r.repo.LastActivity(ctx, chatID)
	if err != nil {
		r.log.Error("LastActivity failed", zap.Error(err))
		r.sendText(chatID, settingsErrorText)
		return
	}

	var lastTime *time.Time
	if last != nil {
		lastTime = &last.Time
	}
	now := time.Now().UTC()
	utcHours, firstTime := domain.OpenUTCHours(lastTime, now)
	if len(utcHours) == 0 {
		r.sendText(chatID, nothingToFillText)
		return
	}

	win := domain.NewOpenWindow(utcHours, now, tzDelta)
	r.setSession(chatID, domain.NewSession(chatID, win, firstTime))
	r.setPending(chatID, pendingActivity)
	r.sendText(chatID, activityPrompt(win.Hours(), firstTime))
}

func (r *Router) handleActivitySubmission(ctx context.Context, chatID int64, text string) {
	sess := r.getSession(chatID)
	if sess == nil {
		r.clearPending(chatID)
		return
	}

	err := sess.Submit(text, func(entries []domain.Entry) error {
		return r.repo.AddActivities(ctx, chatID, entries)
	})
	switch {
	case err == nil:
		r.clearSession(chatID)
		r.clearPending(chatID)
		r.log.Info("activities saved",
			zap.Int64("chat_id", chatID),
			zap.Bool("first_time", sess.FirstTime),
		)
		r.sendText(chatID, activitySavedText)

	case errors.Is(err, store.ErrConflict):
		// Some other client already recorded these hours;
		// the window is stale, so the session ends here.
		r.clearSession(chatID)
		r.clearPending(chatID)
		r.sendText(chatID, conflictText)

	case isValidationError(err):
		// Session window survives untouched; the user retries the whole
		// message.
		r.sendText(chatID, "⚠️ "+capitalize(err.Error())+". Try again!")

	default:
		r.log.Error("AddActivities failed", zap.Error(err), zap.Int64("chat_id", chatID))
		r.sendText(chatID, saveErrorText)
	}
}

// isValidationError reports whether the user can fix err by rewriting the
// message.
func isValidationError(err error) bool {
	var (
		formatErr  *domain.FormatError
		unknownErr *domain.UnknownActivityError
		hourErr    *domain.InvalidHourError
		notOpenErr *domain.HourNotOpenError
	)
	return errors.As(err, &formatErr) ||
		errors.As(err, &unknownErr) ||
		errors.As(err, &hourErr) ||
		errors.As(err, &notOpenErr) ||
		errors.Is(err, domain.ErrIncompleteSubmission) ||
		errors.Is(err, store.ErrFutureActivity)
}

// --- Summary ---

func (r *Router) handleSummary(ctx context.Context, chatID int64) {
	counts, err := r.repo.ActivitySummary(ctx, chatID)
	if err != nil {
		r.log.Error("ActivitySummary failed", zap.Error(err))
		r.sendText(chatID, settingsErrorText)
		return
	}
	r.sendText(chatID, summaryText(counts))
}

// --- Settings flows ---

func (r *Router) handleSettings(ctx context.Context, chatID int64) {
	tzDelta, err := r.repo.TzDelta(ctx, chatID)
	if err != nil {
		r.log.Error("TzDelta failed", zap.Error(err))
		r.sendText(chatID, settingsErrorText)
		return
	}
	utcHours, err := r.repo.NotifyHours(ctx, chatID)
	if err != nil {
		r.log.Error("NotifyHours failed", zap.Error(err))
		r.sendText(chatID, settingsErrorText)
		return
	}
	r.sendText(chatID, settingsSummary(domain.LocalizeHours(utcHours, tzDelta), tzDelta))
}

func (r *Router) handleAskNotifyHours(_ context.Context, chatID int64) {
	r.setPending(chatID, pendingNotifyHours)
	r.sendText(chatID, askNotifyHoursText)
}

func (r *Router) handleNotifyHoursInput(ctx context.Context, chatID int64, text string) {
	tzDelta, err := r.repo.TzDelta(ctx, chatID)
	if err != nil {
		r.log.Error("TzDelta failed", zap.Error(err))
		r.sendText(chatID, settingsErrorText)
		return
	}

	var localHours []int
	switch strings.ToLower(text) {
	case "clear":
		localHours = nil
	case "every":
		for h := 0; h < 24; h++ {
			localHours = append(localHours, h)
		}
	default:
		for _, field := range strings.Fields(text) {
			h, err := strconv.Atoi(field)
			if err != nil || h < 0 || h > 23 {
				r.sendText(chatID, invalidNotifyHoursText)
				return
			}
			localHours = append(localHours, h)
		}
	}

	// Reminders fire on the UTC clock; shift what the user typed out of
	// their local frame.
	utcHours := make([]int, len(localHours))
	for i, h := range localHours {
		utcHours[i] = domain.NormalizeHour(h - tzDelta)
	}

	if err := r.repo.SetNotifyHours(ctx, chatID, utcHours); err != nil {
		if errors.Is(err, store.ErrHourOutOfRange) {
			r.sendText(chatID, invalidNotifyHoursText)
			return
		}
		r.log.Error("SetNotifyHours failed", zap.Error(err))
		r.sendText(chatID, saveErrorText)
		return
	}
	r.clearPending(chatID)

	if len(localHours) == 0 {
		r.sendText(chatID, "Reminders turned off. 🔕")
		return
	}
	r.sendText(chatID, "Reminders set for: "+formatHours(localHours)+" 💾")
}

func (r *Router) handleAskTimezone(_ context.Context, chatID int64) {
	r.setPending(chatID, pendingTZ)
	r.sendText(chatID, askTimezoneText)
}

func (r *Router) handleTimezoneInput(ctx context.Context, chatID int64, text string) {
	delta, err := strconv.Atoi(strings.TrimPrefix(text, "+"))
	if err != nil {
		r.sendText(chatID, invalidTimezoneText)
		return
	}
	if err := r.repo.SetTzDelta(ctx, chatID, delta); err != nil {
		if errors.Is(err, store.ErrTzOutOfRange) {
			r.sendText(chatID, invalidTimezoneText)
			return
		}
		r.log.Error("SetTzDelta failed", zap.Error(err))
		r.sendText(chatID, saveErrorText)
		return
	}
	r.clearPending(chatID)

	now := time.Now().UTC()
	r.log.Info("timezone updated", zap.Int64("chat_id", chatID), zap.Int("tz_delta", delta))
	r.sendText(chatID, fmt.Sprintf(
		"Your time %d:%02d has been saved! 💾",
		domain.LocalHourOf(now, delta), now.Minute(),
	))
}

// --- Cancel and free-form dispatch ---

func (r *Router) handleCancel(chatID int64) {
	hadWork := r.getPending(chatID) != "" || r.getSession(chatID) != nil
	r.clearSession(chatID)
	r.clearPending(chatID)
	if hadWork {
		r.sendText(chatID, canceledText)
		return
	}
	r.sendText(chatID, nothingToCancel)
}

func (r *Router) handleFreeForm(ctx context.Context, chatID int64, text string) {
	switch r.getPending(chatID) {
	case pendingActivity:
		r.handleActivitySubmission(ctx, chatID, text)
	case pendingNotifyHours:
		r.handleNotifyHoursInput(ctx, chatID, text)
	case pendingTZ:
		r.handleTimezoneInput(ctx, chatID, text)
	default:
		// No pending flow: ignore free-form message
	}
}

// capitalize upper-cases the first byte for reply texts built from errors.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
