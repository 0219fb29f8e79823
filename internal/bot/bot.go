// Package bot dispatches chat commands to the report engine and ships the
// results back through Telegram.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/resto-ops/reportbot/internal/common"
	"github.com/resto-ops/reportbot/internal/engine"
	"github.com/resto-ops/reportbot/internal/rank"
	"github.com/resto-ops/reportbot/internal/service"
	"github.com/resto-ops/reportbot/internal/telegram"
)

const pollTimeout = 60 * time.Second

const helpText = `Доступные команды:
/analyze — отчёт за последний день
/forecast — прогноз на текущий месяц
/month [previous] — итоги месяца
/managers — рейтинг менеджеров
/help — эта справка`

// Bot owns the long-poll loop and the daily job.
type Bot struct {
	engine   *engine.Engine
	telegram *telegram.Client
	store    service.ReportStore
	logger   *slog.Logger
}

// New creates a bot. store may be nil when history is disabled.
func New(eng *engine.Engine, tg *telegram.Client, store service.ReportStore, logger *slog.Logger) *Bot {
	return &Bot{
		engine:   eng,
		telegram: tg,
		store:    store,
		logger:   logger,
	}
}

// Run long-polls for updates until the context is canceled. Only messages
// from the configured chat are handled.
func (b *Bot) Run(ctx context.Context) error {
	b.logger.Info("bot started", "chat_id", b.telegram.ChatID())

	var offset int64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		updates, err := b.telegram.GetUpdates(ctx, offset, pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			b.logger.Error("getUpdates failed", "error", err)
			time.Sleep(5 * time.Second)
			continue
		}

		for _, upd := range updates {
			if upd.UpdateID >= offset {
				offset = upd.UpdateID + 1
			}
			b.handleUpdate(ctx, upd)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, upd telegram.Update) {
	if upd.Message == nil {
		return
	}
	if strconv.FormatInt(upd.Message.Chat.ID, 10) != b.telegram.ChatID() {
		return
	}

	command, arg := splitCommand(upd.Message.Text)
	if command == "" {
		return
	}

	b.logger.Info("handling command", "command", command, "arg", arg)

	reply := b.dispatch(ctx, command, arg)
	if reply == "" {
		return
	}
	if err := b.telegram.Send(ctx, reply); err != nil {
		b.logger.Error("failed to send reply", "command", command, "error", err)
	}
}

// dispatch runs one command and returns the reply text. Hard errors become
// "❌ Ошибка: …" replies; the process keeps serving.
func (b *Bot) dispatch(ctx context.Context, command, arg string) string {
	var (
		rep engine.Report
		err error
	)

	switch command {
	case "/analyze":
		rep, err = b.engine.Daily(ctx)
	case "/forecast":
		rep, err = b.engine.Forecast(ctx)
	case "/month":
		if arg == "" {
			arg = "current"
		}
		rep, err = b.engine.Month(ctx, arg)
	case "/managers":
		weights := rank.DefaultWeights()
		if arg == "discount" {
			weights = rank.DiscountAwareWeights()
		}
		rep, err = b.engine.Managers(ctx, weights)
	case "/help", "/start":
		return helpText
	default:
		return ""
	}

	if err != nil {
		return errorReply(err)
	}

	b.record(ctx, rep, true)
	return rep.Text
}

// RunDaily generates and delivers the scheduled daily report. Failures are
// reported into the chat rather than swallowed.
func (b *Bot) RunDaily(ctx context.Context) {
	rep, err := b.engine.Daily(ctx)
	if err != nil {
		b.logger.Error("daily report failed", "error", err)
		if sendErr := b.telegram.Send(ctx, errorReply(err)); sendErr != nil {
			b.logger.Error("failed to send error reply", "error", sendErr)
		}
		return
	}

	if err := b.telegram.Send(ctx, rep.Text); err != nil {
		b.logger.Error("failed to deliver daily report", "error", err)
		b.record(ctx, rep, false)
		return
	}
	b.record(ctx, rep, true)
}

func (b *Bot) record(ctx context.Context, rep engine.Report, delivered bool) {
	if b.store == nil {
		return
	}
	run := rep.Run()
	run.Delivered = delivered
	if err := b.store.SaveRun(ctx, run); err != nil {
		b.logger.Error("failed to record report run", "kind", run.Kind, "error", err)
	}
}

// errorReply renders a hard error for the chat, preferring the user-facing
// message when one was attached.
func errorReply(err error) string {
	var userErr *common.UserError
	if errors.As(err, &userErr) {
		return fmt.Sprintf("❌ Ошибка: %s", userErr.UserMessage)
	}
	return fmt.Sprintf("❌ Ошибка: %v", err)
}

// splitCommand separates "/month previous" into its command and argument,
// stripping the @botname suffix Telegram appends in groups.
func splitCommand(text string) (string, string) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", ""
	}
	command, arg, _ := strings.Cut(text, " ")
	command, _, _ = strings.Cut(command, "@")
	return command, strings.TrimSpace(arg)
}
