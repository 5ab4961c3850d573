package gateway

import (
	"context"
	"errors"
	"fmt"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rahul/sutra/internal/llm"
	"github.com/rahul/sutra/internal/orchestrator"
)

// TelegramGateway runs workflows from chat messages. Each chat is its own
// session, so history stays per conversation.
type TelegramGateway struct {
	Bot    *tgbotapi.BotAPI
	Runner Runner
}

func NewTelegramGateway(token string, runner Runner) (*TelegramGateway, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log.Printf("Authorized on account %s", bot.Self.UserName)

	return &TelegramGateway{
		Bot:    bot,
		Runner: runner,
	}, nil
}

func (tg *TelegramGateway) Start() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := tg.Bot.GetUpdatesChan(u)

	for update := range updates {
		if update.Message == nil || update.Message.Text == "" {
			continue
		}

		log.Printf("[%s] %s", update.Message.From.UserName, update.Message.Text)

		chatID := update.Message.Chat.ID
		if update.Message.Text == "/start" {
			tg.send(chatID, "Send me a task and I'll research it, plan it, and deliver the result.")
			continue
		}

		tg.send(chatID, "⏳ Running the workflow: research → planning → execution...")

		result, err := tg.Runner.Run(context.Background(), orchestrator.Request{
			Task:      update.Message.Text,
			SessionID: fmt.Sprintf("telegram-%d", chatID),
		})
		if err != nil {
			tg.send(chatID, translateRunError(err))
			continue
		}

		reply := fmt.Sprintf("✅ *Workflow completed* in %.1fs\n\n%s",
			result.TotalDuration, result.Execution.Digest())
		tg.send(chatID, reply)
	}
	return nil
}

func (tg *TelegramGateway) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	if _, err := tg.Bot.Send(msg); err != nil {
		log.Printf("Error sending telegram message: %v", err)
	}
}

func (tg *TelegramGateway) Stop() error {
	tg.Bot.StopReceivingUpdates()
	return nil
}

// translateRunError renders a pipeline failure as a chat message.
func translateRunError(err error) string {
	var valErr *orchestrator.ValidationError
	if errors.As(err, &valErr) {
		return "⚠️ " + valErr.Reason
	}

	var stageErr *orchestrator.StageError
	if errors.As(err, &stageErr) {
		return fmt.Sprintf("❌ The %s stage failed: %s", stageErr.Stage, llm.Describe(llm.Classify(stageErr.Err)))
	}

	return "❌ Something went wrong running the workflow. Please try again."
}
