package telegram

import (
	"fmt"
	"strings"

	"github.com/Kemuni/TimeInData/internal/domain"
)

// UI texts in English.
const (
	startText = "👋 I help you track how you spend your time.\n\n" +
		"Log what you did each hour with /set_activity, and I will remind you " +
		"to fill the gaps.\n\n" +
		"Commands:\n" +
		"/set_activity — log your recent hours\n" +
		"/summary — your hours by activity\n" +
		"/settings — notify hours and timezone\n" +
		"/cancel — abandon the current entry"

	nothingToFillText = "⚠️ There are no hours to set activity right now."

	noSummaryText = "No activities logged yet. Start with /set_activity!"

	activitySavedText = "New activities saved! ✅"

	conflictText = "⚠️ Some of these hours are already recorded. " +
		"Start over with /set_activity."

	canceledText      = "Canceled ❌"
	nothingToCancel   = "Nothing to cancel."
	profileErrorText  = "Profile initialization error. Please try again later."
	settingsErrorText = "Error reading your settings. Please try again later."
	saveErrorText     = "Could not save. Please try again later."

	askNotifyHoursText = "Send the local hours when I should remind you, " +
		"separated by spaces (e.g. \"8 13 21\").\n" +
		"Send \"every\" for all 24 hours or \"clear\" to turn reminders off."

	askTimezoneText = "Let's configure your time zone 🌎\n" +
		"Send your offset from UTC in hours, e.g. +3 or -5."

	invalidNotifyHoursText = "⚠️ Hours must be whole numbers from 0 to 23. Try again!"
	invalidTimezoneText    = "⚠️ The offset must be a whole number from -12 to +12. Try again!"
)

var activityEmoji = map[domain.ActivityType]string{
	domain.ActivitySleep:    "🛏️",
	domain.ActivityWork:     "💵",
	domain.ActivityStudying: "🏫",
	domain.ActivityFamily:   "👪",
	domain.ActivityFriends:  "👥",
	domain.ActivityPassive:  "💆‍♂️",
	domain.ActivityExercise: "💪",
	domain.ActivityReading:  "📚",
}

// summaryText renders the all-time hour totals per activity type.
func summaryText(counts []domain.ActivityCount) string {
	if len(counts) == 0 {
		return noSummaryText
	}
	var b strings.Builder
	b.WriteString("📊 Your summary\n")
	for _, c := range counts {
		fmt.Fprintf(&b, "- %d hours of %s %s\n",
			c.Hours, activityEmoji[c.Type], capitalize(c.Type.String()))
	}
	return b.String()
}

// activityPrompt renders the entry instructions for an open window, hours
// shown in the user's local frame.
func activityPrompt(localHours []int, firstTime bool) string {
	var b strings.Builder
	if firstTime {
		b.WriteString("Welcome! Let's log your first day. 🎉\n")
	}
	b.WriteString("Now is time to set your activity for last hour(s)! 🕣\n")
	b.WriteString("You need to write your activity for ")
	b.WriteString(formatHours(localHours))
	b.WriteString(" 📝\n\n")
	b.WriteString("📌 Available activities: ")
	b.WriteString(domain.ActivityNamesList())
	b.WriteString("\n\n🗒 Write your activities in one message, for example:\n")
	b.WriteString("0-9 sleep\n10-15 work\n16 passive")
	return b.String()
}

// formatHours joins hours as "17:00, 18:00, 19:00".
func formatHours(hours []int) string {
	parts := make([]string, len(hours))
	for i, h := range hours {
		parts[i] = fmt.Sprintf("%d:00", h)
	}
	return strings.Join(parts, ", ")
}

// settingsSummary renders the current reminder configuration.
func settingsSummary(localNotifyHours []int, tzDelta int) string {
	hoursPart := "—"
	if len(localNotifyHours) > 0 {
		hoursPart = formatHours(localNotifyHours)
	}
	return fmt.Sprintf(
		"🧾 Your current settings:\n"+
			"• Notify hours (local): %s\n"+
			"• Timezone: UTC%+d\n\n"+
			"/set_notify_hours — change notify hours\n"+
			"/set_timezone — change timezone",
		hoursPart, tzDelta,
	)
}
