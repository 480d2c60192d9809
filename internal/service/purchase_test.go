package service

import (
	"context"
	"testing"
	"time"

	"farm_miniapp/internal/service/mocks"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fakeBot struct {
	sent      []tgbotapi.Chattable
	requested []tgbotapi.Chattable
	sendErr   error
	updates   chan tgbotapi.Update
}

func (b *fakeBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	b.sent = append(b.sent, c)
	return tgbotapi.Message{}, b.sendErr
}

func (b *fakeBot) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	b.requested = append(b.requested, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (b *fakeBot) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return b.updates
}

func TestPurchaseService_SendFarmInvoice(t *testing.T) {
	bot := &fakeBot{}
	s := newPurchaseService(bot, &mocks.MockPurchaseRepository{}, 250)

	require.NoError(t, s.SendFarmInvoice(context.Background(), 42))
	require.Len(t, bot.sent, 1)

	invoice, ok := bot.sent[0].(tgbotapi.InvoiceConfig)
	require.True(t, ok)
	assert.Equal(t, int64(42), invoice.ChatID)
	assert.Equal(t, FarmPurchasePayload, invoice.Payload)
	assert.Equal(t, "XTR", invoice.Currency)
	assert.Equal(t, 250, invoice.Prices[0].Amount)
}

func TestPurchaseService_SendFarmInvoiceError(t *testing.T) {
	bot := &fakeBot{sendErr: assert.AnError}
	s := newPurchaseService(bot, &mocks.MockPurchaseRepository{}, 0)

	err := s.SendFarmInvoice(context.Background(), 42)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 1, s.price)
}

func TestPurchaseService_HandlePreCheckoutQuery(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		ok      bool
	}{
		{name: "Farm purchase", payload: FarmPurchasePayload, ok: true},
		{name: "Unknown payload", payload: "SOMETHING_ELSE", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bot := &fakeBot{}
			s := newPurchaseService(bot, &mocks.MockPurchaseRepository{}, 1)

			err := s.HandlePreCheckoutQuery(&tgbotapi.PreCheckoutQuery{ID: "q1", InvoicePayload: tt.payload})
			require.NoError(t, err)
			require.Len(t, bot.requested, 1)

			answer := bot.requested[0].(tgbotapi.PreCheckoutConfig)
			assert.Equal(t, "q1", answer.PreCheckoutQueryID)
			assert.Equal(t, tt.ok, answer.OK)
		})
	}
}

func paymentMessage(payload string) *tgbotapi.Message {
	return &tgbotapi.Message{
		From: &tgbotapi.User{ID: 42},
		Chat: &tgbotapi.Chat{ID: 42},
		SuccessfulPayment: &tgbotapi.SuccessfulPayment{
			InvoicePayload:          payload,
			TelegramPaymentChargeID: "charge",
		},
	}
}

func TestPurchaseService_HandleSuccessfulPayment(t *testing.T) {
	bot := &fakeBot{}
	repo := &mocks.MockPurchaseRepository{}
	repo.On("UpgradeToFullAccount", mock.Anything, int64(42)).Return(nil)

	s := newPurchaseService(bot, repo, 1)
	var upgraded int64
	s.OnUpgraded = func(_ context.Context, telegramID int64) { upgraded = telegramID }

	require.NoError(t, s.HandleSuccessfulPayment(context.Background(), paymentMessage(FarmPurchasePayload)))
	assert.Equal(t, int64(42), upgraded)
	assert.Len(t, bot.sent, 1)
	repo.AssertExpectations(t)
}

func TestPurchaseService_HandleSuccessfulPaymentErrors(t *testing.T) {
	t.Run("Unexpected payload", func(t *testing.T) {
		repo := &mocks.MockPurchaseRepository{}
		s := newPurchaseService(&fakeBot{}, repo, 1)

		assert.Error(t, s.HandleSuccessfulPayment(context.Background(), paymentMessage("OTHER")))
		repo.AssertNotCalled(t, "UpgradeToFullAccount", mock.Anything, mock.Anything)
	})

	t.Run("Upgrade failure", func(t *testing.T) {
		bot := &fakeBot{}
		repo := &mocks.MockPurchaseRepository{}
		repo.On("UpgradeToFullAccount", mock.Anything, int64(42)).Return(assert.AnError)
		s := newPurchaseService(bot, repo, 1)

		err := s.HandleSuccessfulPayment(context.Background(), paymentMessage(FarmPurchasePayload))
		assert.ErrorIs(t, err, assert.AnError)
		assert.Empty(t, bot.sent)
	})
}

func TestPurchaseService_StartPaymentListener(t *testing.T) {
	bot := &fakeBot{updates: make(chan tgbotapi.Update, 3)}
	repo := &mocks.MockPurchaseRepository{}
	repo.On("UpgradeToFullAccount", mock.Anything, int64(42)).Return(nil)
	s := newPurchaseService(bot, repo, 1)

	bot.updates <- tgbotapi.Update{PreCheckoutQuery: &tgbotapi.PreCheckoutQuery{ID: "q", InvoicePayload: FarmPurchasePayload}}
	bot.updates <- tgbotapi.Update{}
	bot.updates <- tgbotapi.Update{Message: paymentMessage(FarmPurchasePayload)}
	close(bot.updates)

	done := make(chan struct{})
	go func() {
		s.StartPaymentListener(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("listener did not stop after the updates channel closed")
	}

	assert.Len(t, bot.requested, 1)
	assert.Len(t, bot.sent, 1)
	repo.AssertExpectations(t)
}
