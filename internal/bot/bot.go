package bot

import (
	"context"
	"errors"
	"fmt"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"cleancloak-bot/internal/booking"
	"cleancloak-bot/internal/catalog"
	"cleancloak-bot/internal/config"
	"cleancloak-bot/internal/session"
	"cleancloak-bot/internal/storage"
	"cleancloak-bot/internal/wizard"
	"cleancloak-bot/pkg/api"
)

type Bot struct {
	bot       *tgbotapi.BotAPI
	logger    *zap.Logger
	cat       *catalog.Catalog
	state     *StateStorage
	sessions  session.Provider
	submitter *booking.Submitter
	apiClient *api.Client
	storage   *storage.PostgresStorage
	cfg       *config.Config
	mu        sync.Mutex
}

func New(
	cat *catalog.Catalog,
	stateStorage *StateStorage,
	sessions session.Provider,
	submitter *booking.Submitter,
	apiClient *api.Client,
	pgStorage *storage.PostgresStorage,
	logger *zap.Logger,
	cfg *config.Config,
) (*Bot, error) {
	botAPI, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}

	logger.Info("Bot authorized",
		zap.String("username", botAPI.Self.UserName),
		zap.Int64("id", botAPI.Self.ID))

	return &Bot{
		bot:       botAPI,
		logger:    logger,
		cat:       cat,
		state:     stateStorage,
		sessions:  sessions,
		submitter: submitter,
		apiClient: apiClient,
		storage:   pgStorage,
		cfg:       cfg,
	}, nil
}

func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("Starting bot")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("Shutting down bot")
			return nil

		case update := <-updates:
			b.mu.Lock()
			if update.Message != nil {
				b.processMessage(ctx, update.Message)
			} else if update.CallbackQuery != nil {
				b.processCallback(ctx, update.CallbackQuery)
			}
			b.mu.Unlock()
		}
	}
}

// loadWizard hydrates the chat's wizard from redis. When no flow is in
// progress a fresh wizard is created, pre-seeded from the stored session if
// the user has signed in before.
func (b *Bot) loadWizard(ctx context.Context, chatID int64) *wizard.Wizard {
	st, err := b.state.Get(ctx, chatID)
	if err == nil {
		return wizard.Restore(b.cat, st)
	}
	if !errors.Is(err, ErrNoState) {
		b.logger.Error("Failed to get wizard state",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}

	w := wizard.New(b.cat)
	if sess, err := b.sessions.Load(ctx, chatID); err == nil && sess.UserType == string(wizard.UserClient) {
		w.PreSeed(sess.Name, sess.Phone)
	}
	return w
}

func (b *Bot) saveWizard(ctx context.Context, chatID int64, w *wizard.Wizard) {
	if err := b.state.Save(ctx, chatID, w.State()); err != nil {
		b.logger.Error("Failed to save wizard state",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}
}

func (b *Bot) processMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	b.logger.Debug("Processing message",
		zap.Int64("chat_id", chatID),
		zap.String("text", msg.Text))

	if msg.IsCommand() {
		b.handleCommand(ctx, chatID, msg.Command(), msg.CommandArguments())
		return
	}

	w := b.loadWizard(ctx, chatID)

	if msg.Contact != nil {
		b.handlePhoneInput(ctx, chatID, w, msg.Contact.PhoneNumber)
		return
	}
	if msg.Location != nil {
		b.handleLocationShare(ctx, chatID, w, msg.Location.Latitude, msg.Location.Longitude)
		return
	}

	b.handleTextInput(ctx, chatID, w, msg.Text)
}

func (b *Bot) processCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	chatID := callback.Message.Chat.ID
	data := callback.Data

	b.logger.Debug("Processing callback",
		zap.Int64("chat_id", chatID),
		zap.String("data", data))

	// Acknowledge immediately so the client stops its spinner.
	if _, err := b.bot.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		b.logger.Warn("Callback ack failed", zap.Error(err))
	}

	w := b.loadWizard(ctx, chatID)
	b.handleCallback(ctx, chatID, w, data)
}

func (b *Bot) sendMessage(msg tgbotapi.MessageConfig) {
	if _, err := b.bot.Send(msg); err != nil {
		b.logger.Error("Failed to send message",
			zap.Int64("chat_id", msg.ChatID),
			zap.String("text", msg.Text),
			zap.Error(err))
	}
}

func (b *Bot) sendError(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, "❌ "+text)
	b.sendMessage(msg)
}

func (b *Bot) isAdmin(chatID int64) bool {
	for _, id := range b.cfg.Admin.IDs {
		if id == chatID {
			return true
		}
	}
	return false
}
