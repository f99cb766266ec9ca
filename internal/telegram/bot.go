package telegram

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"journal_bot/internal/calendar"
	"journal_bot/internal/journal"
	"journal_bot/internal/models"
	"journal_bot/internal/store"

	tele "gopkg.in/telebot.v3"
)

const timeLayout = "2006-01-02 15:04"

type Bot struct {
	bot       *tele.Bot
	journal   *journal.Service
	calendar  *calendar.Client
	adminID   int64
	startTime time.Time
}

func NewBot(token string, adminID int64, svc *journal.Service, cal *calendar.Client) (*Bot, error) {
	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, err
	}

	bot := &Bot{
		bot:       b,
		journal:   svc,
		calendar:  cal,
		adminID:   adminID,
		startTime: time.Now(),
	}

	bot.setupHandlers()
	return bot, nil
}

func (b *Bot) Start() {
	log.Println("📱 Telegram bot started")
	b.bot.Start()
}

func (b *Bot) Stop() {
	b.bot.Stop()
}

func (b *Bot) setupHandlers() {
	// Commands
	b.bot.Handle("/start", b.handleHelp)
	b.bot.Handle("/help", b.handleHelp)
	b.bot.Handle("/trade", b.handleTrade)
	b.bot.Handle("/journal", b.handleJournal)
	b.bot.Handle("/best", b.handleBest)
	b.bot.Handle("/worst", b.handleWorst)
	b.bot.Handle("/stats", b.handleStats(models.PeriodNone))
	b.bot.Handle("/daily", b.handleStats(models.PeriodDaily))
	b.bot.Handle("/weekly", b.handleStats(models.PeriodWeekly))
	b.bot.Handle("/monthly", b.handleStats(models.PeriodMonthly))
	b.bot.Handle("/lifetime", b.handleLifetime)
	b.bot.Handle("/streak", b.handleStreak)
	b.bot.Handle("/leaderboard", b.handleLeaderboard)
	b.bot.Handle("/reset", b.handleReset)
	b.bot.Handle("/resetall", b.handleResetAll)
	b.bot.Handle("/previousreset", b.handlePreviousReset)
	b.bot.Handle("/allresets", b.handleAllResets)
	b.bot.Handle("/removelast", b.handleRemoveLast)
	b.bot.Handle("/calendar", b.handleCalendar)
	b.bot.Handle("/ping", b.handlePing)

	// Buttons
	b.bot.Handle(&btnConfirmResetAll, b.handleResetAllConfirm)
	b.bot.Handle(&btnCancelResetAll, b.handleResetAllCancel)
}

var (
	btnConfirmResetAll = tele.Btn{Text: "⚠️ Yes, wipe everything", Unique: "confirm_reset_all"}
	btnCancelResetAll  = tele.Btn{Text: "🔙 Cancel", Unique: "cancel_reset_all"}
)

func (b *Bot) isAdmin(c tele.Context) bool {
	return c.Sender().ID == b.adminID
}

// replyError maps the typed failures to friendly replies. Anything
// unexpected is logged and degrades to a single generic message.
func (b *Bot) replyError(c tele.Context, err error) error {
	switch {
	case errors.Is(err, store.ErrInvalidGeometry):
		return c.Send("❌ Invalid trade parameters (assuming long position): stop loss < entry < take profit.")
	case errors.Is(err, store.ErrNoTrades):
		return c.Send("📭 No trades found.")
	case errors.Is(err, store.ErrNoSnapshot):
		return c.Send("📭 No previous reset found.")
	case errors.Is(err, journal.ErrNothingToReset):
		return c.Send("📭 No current trades to reset.")
	case errors.Is(err, journal.ErrPermissionDenied):
		return c.Send("⛔ Admin only.")
	default:
		log.Printf("⚠️ Command failed: %v", err)
		return c.Send("⚠️ Something went wrong, please try again later.")
	}
}

func (b *Bot) handleTrade(c tele.Context) error {
	args := c.Args()
	if len(args) != 4 {
		return c.Send("Usage: /trade <entry> <stop loss> <take profit> <exit>")
	}
	vals := make([]float64, 4)
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return c.Send(fmt.Sprintf("❌ %q is not a number.", a))
		}
		vals[i] = v
	}

	rec, err := b.journal.LogTrade(context.Background(), c.Sender().ID, vals[0], vals[1], vals[2], vals[3])
	if err != nil {
		return b.replyError(c, err)
	}

	win := "No"
	if rec.IsWin {
		win = "Yes"
	}
	return c.Send(fmt.Sprintf("✅ Trade logged! RR: %.2f, Profit: %.2f, Win: %s", rec.RiskReward, rec.Profit, win))
}

func (b *Bot) handleJournal(c tele.Context) error {
	trades, err := b.journal.RecentTrades(context.Background(), c.Sender().ID, journal.DefaultJournalLimit)
	if err != nil {
		return b.replyError(c, err)
	}
	if len(trades) == 0 {
		return c.Send("📭 No trades found.")
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📒 *Recent Trades (%d)*\n\n", len(trades)))
	for _, t := range trades {
		sb.WriteString(fmt.Sprintf("%s: Entry %.2f, Exit %.2f, Profit %+.2f, RR %.2f\n",
			t.Timestamp.Format(timeLayout), t.Entry, t.Exit, t.Profit, t.RiskReward))
	}
	return c.Send(sb.String(), tele.ModeMarkdown)
}

func (b *Bot) handleBest(c tele.Context) error {
	t, err := b.journal.BestTrade(context.Background(), c.Sender().ID)
	if err != nil {
		return b.replyError(c, err)
	}
	return c.Send(fmt.Sprintf("🏆 Best Trade: %s - Entry %.2f, Exit %.2f, Profit %+.2f, RR %.2f",
		t.Timestamp.Format(timeLayout), t.Entry, t.Exit, t.Profit, t.RiskReward))
}

func (b *Bot) handleWorst(c tele.Context) error {
	t, err := b.journal.WorstTrade(context.Background(), c.Sender().ID)
	if err != nil {
		return b.replyError(c, err)
	}
	return c.Send(fmt.Sprintf("📉 Worst Trade: %s - Entry %.2f, Exit %.2f, Profit %+.2f, RR %.2f",
		t.Timestamp.Format(timeLayout), t.Entry, t.Exit, t.Profit, t.RiskReward))
}

func (b *Bot) handleStats(p models.Period) tele.HandlerFunc {
	titles := map[models.Period]string{
		models.PeriodNone:    "Current",
		models.PeriodDaily:   "Daily",
		models.PeriodWeekly:  "Weekly",
		models.PeriodMonthly: "Monthly",
	}
	return func(c tele.Context) error {
		sum, err := b.journal.Stats(context.Background(), c.Sender().ID, p)
		if err != nil {
			return b.replyError(c, err)
		}
		return c.Send(formatSummary(titles[p]+" Stats", sum), tele.ModeMarkdown)
	}
}

func (b *Bot) handleLifetime(c tele.Context) error {
	sum, err := b.journal.LifetimeStats(context.Background(), c.Sender().ID)
	if err != nil {
		return b.replyError(c, err)
	}
	return c.Send(formatSummary("Lifetime Stats", sum), tele.ModeMarkdown)
}

func formatSummary(title string, s models.Summary) string {
	return fmt.Sprintf(`📊 *%s*

📅 Trades: %d
🏆 Wins: %d
📉 Losses: %d
💰 Profit: %+.2f
📐 Avg RR: %.2f
📊 Winrate: %.1f%%`,
		title, s.Total, s.Wins, s.Losses, s.TotalProfit, s.AvgRR, s.WinRate)
}

func (b *Bot) handleStreak(c tele.Context) error {
	streak, err := b.journal.Streak(context.Background(), c.Sender().ID)
	if err != nil {
		return b.replyError(c, err)
	}
	return c.Send(fmt.Sprintf("🔥 Current Win Streak: %d", streak))
}

func (b *Bot) handleLeaderboard(c tele.Context) error {
	entries, err := b.journal.Leaderboard(context.Background(), models.MetricProfit, journal.DefaultTopN)
	if err != nil {
		return b.replyError(c, err)
	}
	if len(entries) == 0 {
		return c.Send("📭 No leaderboard data.")
	}

	var sb strings.Builder
	sb.WriteString("🏆 *Leaderboard (Top 5 by Profit)*\n\n")
	for i, e := range entries {
		sb.WriteString(fmt.Sprintf("%d. %s: %+.2f\n", i+1, b.displayName(e.UserID), e.Value))
	}
	return c.Send(sb.String(), tele.ModeMarkdown)
}

// displayName resolves a user id through the platform, falling back to the
// raw id when the lookup fails.
func (b *Bot) displayName(userID int64) string {
	chat, err := b.bot.ChatByID(userID)
	if err != nil || chat == nil {
		return strconv.FormatInt(userID, 10)
	}
	switch {
	case chat.Username != "":
		return "@" + chat.Username
	case chat.FirstName != "":
		return chat.FirstName
	default:
		return strconv.FormatInt(userID, 10)
	}
}

func (b *Bot) handleReset(c tele.Context) error {
	snap, err := b.journal.ResetStats(context.Background(), c.Sender().ID)
	if err != nil {
		return b.replyError(c, err)
	}
	return c.Send(fmt.Sprintf("♻️ Stats reset! Archived: %d wins, %d losses, profit %+.2f, avg RR %.2f.",
		snap.Wins, snap.Losses, snap.TotalProfit, snap.AvgRR))
}

func (b *Bot) handleResetAll(c tele.Context) error {
	if !b.isAdmin(c) {
		return c.Send("⛔ Admin only.")
	}
	menu := &tele.ReplyMarkup{}
	menu.Inline(
		menu.Row(btnConfirmResetAll),
		menu.Row(btnCancelResetAll),
	)
	return c.Send("⚠️ This deletes *all* trades and *all* reset history for *every* user. Are you sure?",
		menu, tele.ModeMarkdown)
}

func (b *Bot) handleResetAllConfirm(c tele.Context) error {
	if err := b.journal.ResetAll(context.Background(), b.isAdmin(c)); err != nil {
		return b.replyError(c, err)
	}
	return c.Edit("🗑️ All trades and reset history cleared.")
}

func (b *Bot) handleResetAllCancel(c tele.Context) error {
	return c.Edit("🔙 Reset-all canceled.")
}

func (b *Bot) handlePreviousReset(c tele.Context) error {
	snap, err := b.journal.PreviousReset(context.Background(), c.Sender().ID)
	if err != nil {
		return b.replyError(c, err)
	}
	return c.Send(fmt.Sprintf("🗂️ Previous Reset (%s): Wins %d, Losses %d, Profit %+.2f, Avg RR %.2f",
		snap.ResetAt.Format(timeLayout), snap.Wins, snap.Losses, snap.TotalProfit, snap.AvgRR))
}

func (b *Bot) handleAllResets(c tele.Context) error {
	snaps, err := b.journal.AllResets(context.Background(), b.isAdmin(c))
	if err != nil {
		return b.replyError(c, err)
	}
	if len(snaps) == 0 {
		return c.Send("📭 No reset stats found.")
	}

	// Cap the rendered rows to keep the message within Telegram limits.
	if len(snaps) > 20 {
		snaps = snaps[:20]
	}
	var sb strings.Builder
	sb.WriteString("🗂️ *All Reset Stats*\n\n")
	for _, s := range snaps {
		sb.WriteString(fmt.Sprintf("%s (%s): Wins %d, Losses %d, Profit %+.2f\n",
			b.displayName(s.UserID), s.ResetAt.Format(timeLayout), s.Wins, s.Losses, s.TotalProfit))
	}
	return c.Send(sb.String(), tele.ModeMarkdown)
}

func (b *Bot) handleRemoveLast(c tele.Context) error {
	t, err := b.journal.RemoveLastTrade(context.Background(), c.Sender().ID)
	if err != nil {
		return b.replyError(c, err)
	}
	return c.Send(fmt.Sprintf("🗑️ Removed last trade: %s, Entry %.2f, Exit %.2f, Profit %+.2f",
		t.Timestamp.Format(timeLayout), t.Entry, t.Exit, t.Profit))
}

func (b *Bot) handleCalendar(c tele.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	events := b.calendar.Events(ctx)
	return c.Send("📅 Economic Calendar (Top 10):\n" + strings.Join(events, "\n"))
}

func (b *Bot) handlePing(c tele.Context) error {
	return c.Send(fmt.Sprintf("🏓 Pong! Uptime: %s", formatUptime(time.Since(b.startTime))))
}

func (b *Bot) handleHelp(c tele.Context) error {
	commands := []string{
		"/trade <entry> <sl> <tp> <exit>: Log a trade",
		"/journal: View recent trades",
		"/best: Best trade",
		"/worst: Worst trade",
		"/stats: Current stats",
		"/daily: Today's stats",
		"/weekly: This week's stats",
		"/monthly: This month's stats",
		"/lifetime: Lifetime stats",
		"/streak: Win streak",
		"/leaderboard: Top users by profit",
		"/reset: Reset current stats (archives trades)",
		"/previousreset: Previous reset stats",
		"/allresets: All resets (admin)",
		"/resetall: Wipe everything (admin)",
		"/removelast: Remove last trade",
		"/calendar: Economic calendar",
		"/ping: Bot uptime",
		"/help: This list",
	}
	return c.Send("📖 Available Commands:\n" + strings.Join(commands, "\n"))
}

func formatUptime(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}
