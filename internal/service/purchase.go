package service

import (
	"context"
	"fmt"

	"farm_miniapp/pkg/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const (
	FarmPurchasePayload = "FARM_PURCHASE"
	starsCurrency       = "XTR"
)

type PaymentConfig struct {
	BotToken  string `mapstructure:"botToken"`
	Debug     bool   `mapstructure:"debug"`
	FarmPrice int    `mapstructure:"farmPrice"`
}

type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
}

// PurchaseService sells full farm accounts to guest players through
// Telegram Stars invoices.
type PurchaseService struct {
	bot   botAPI
	repo  PurchaseRepository
	price int

	// OnUpgraded runs after a guest farm has been upgraded.
	OnUpgraded func(ctx context.Context, telegramID int64)
}

func NewPurchaseService(config PaymentConfig, repo PurchaseRepository) (*PurchaseService, error) {
	bot, err := tgbotapi.NewBotAPI(config.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize bot: %w", err)
	}

	bot.Debug = config.Debug

	return newPurchaseService(bot, repo, config.FarmPrice), nil
}

func newPurchaseService(bot botAPI, repo PurchaseRepository, price int) *PurchaseService {
	if price <= 0 {
		price = 1
	}
	return &PurchaseService{
		bot:   bot,
		repo:  repo,
		price: price,
	}
}

// SendFarmInvoice sends the invoice to the player's private chat, whose id
// is the player's telegram id.
func (s *PurchaseService) SendFarmInvoice(ctx context.Context, telegramID int64) error {
	invoice := tgbotapi.NewInvoice(
		telegramID,
		"Buy your farm!",
		"Your very own farm NFT securely stores all your progress.",
		FarmPurchasePayload,
		"",
		"",
		starsCurrency,
		[]tgbotapi.LabeledPrice{{Label: "Farm", Amount: s.price}},
	)

	if _, err := s.bot.Send(invoice); err != nil {
		return fmt.Errorf("failed to send invoice: %w", err)
	}

	logger.Logger().Info("farm invoice sent", zap.Int64("telegram_id", telegramID))
	return nil
}

func (s *PurchaseService) HandlePreCheckoutQuery(query *tgbotapi.PreCheckoutQuery) error {
	answer := tgbotapi.PreCheckoutConfig{
		PreCheckoutQueryID: query.ID,
		OK:                 query.InvoicePayload == FarmPurchasePayload,
	}
	if !answer.OK {
		answer.ErrorMessage = "unknown purchase"
	}

	_, err := s.bot.Request(answer)
	return err
}

func (s *PurchaseService) HandleSuccessfulPayment(ctx context.Context, msg *tgbotapi.Message) error {
	payment := msg.SuccessfulPayment
	if payment.InvoicePayload != FarmPurchasePayload {
		return fmt.Errorf("unexpected invoice payload %q", payment.InvoicePayload)
	}

	if err := s.repo.UpgradeToFullAccount(ctx, msg.From.ID); err != nil {
		return fmt.Errorf("failed to upgrade farm: %w", err)
	}

	if s.OnUpgraded != nil {
		s.OnUpgraded(ctx, msg.From.ID)
	}

	confirmation := tgbotapi.NewMessage(msg.Chat.ID, "Thank you for your payment! Your farm is ready.")
	if _, err := s.bot.Send(confirmation); err != nil {
		return err
	}

	logger.Logger().Info("farm purchased",
		zap.Int64("telegram_id", msg.From.ID),
		zap.String("charge_id", payment.TelegramPaymentChargeID))

	return nil
}

func (s *PurchaseService) StartPaymentListener(ctx context.Context) {
	log := logger.Logger()

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60

	updates := s.bot.GetUpdatesChan(updateConfig)

	for {
		select {
		case update, ok := <-updates:
			if !ok {
				return
			}
			switch {
			case update.PreCheckoutQuery != nil:
				if err := s.HandlePreCheckoutQuery(update.PreCheckoutQuery); err != nil {
					log.Error("failed to handle pre-checkout query", zap.Error(err))
				}

			case update.Message != nil && update.Message.SuccessfulPayment != nil:
				if err := s.HandleSuccessfulPayment(ctx, update.Message); err != nil {
					log.Error("failed to handle successful payment", zap.Error(err))
				}
			}

		case <-ctx.Done():
			return
		}
	}
}
