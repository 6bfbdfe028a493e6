package bot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spendsapp/receipt-service/internal/domain"
	"github.com/spendsapp/receipt-service/internal/service"
)

// downloadTimeout bounds fetching a photo from Telegram's file servers
const downloadTimeout = 30 * time.Second

// Bot is the Telegram transport for receipt uploads. Each chat user maps to
// a service user with the "tg:" prefix.
type Bot struct {
	api            *tgbotapi.BotAPI
	receiptService service.ReceiptService
	authService    service.AuthService
	httpClient     *http.Client
}

// NewBot creates a bot on the given token
func NewBot(token string, receiptService service.ReceiptService, authService service.AuthService) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Telegram: %w", err)
	}

	return &Bot{
		api:            api,
		receiptService: receiptService,
		authService:    authService,
		httpClient:     &http.Client{Timeout: downloadTimeout},
	}, nil
}

// Run polls for updates until the context is cancelled
func (b *Bot) Run(ctx context.Context) error {
	log.Printf("Telegram bot authorized as @%s", b.api.Self.UserName)

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 30
	updates := b.api.GetUpdatesChan(updateConfig)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	switch {
	case message.IsCommand():
		b.handleCommand(message)
	case len(message.Photo) > 0:
		b.handlePhoto(ctx, message)
	default:
		b.reply(message, "Send me a photo of a receipt and I'll extract the items and total. Use /help for commands.")
	}
}

func (b *Bot) handleCommand(message *tgbotapi.Message) {
	switch message.Command() {
	case "start":
		b.reply(message, "Welcome! Send a photo of a receipt and I'll read it for you.")
	case "help":
		b.reply(message, "Commands:\n"+
			"/token - get an API token for the web API\n"+
			"/verify <token> - check whether a token is still valid\n\n"+
			"Or just send a receipt photo.")
	case "token":
		token, err := b.authService.GenerateToken(botUserID(message), message.From.UserName)
		if err != nil {
			b.reply(message, "Could not issue a token right now, try again later.")
			return
		}
		b.reply(message, token)
	case "verify":
		arg := strings.TrimSpace(message.CommandArguments())
		if arg == "" {
			b.reply(message, "Usage: /verify <token>")
			return
		}
		if _, err := b.authService.ValidateToken(arg); err != nil {
			b.reply(message, "Token is invalid or expired.")
			return
		}
		b.reply(message, "Token is valid.")
	default:
		b.reply(message, "Unknown command. Use /help.")
	}
}

// handlePhoto downloads the largest rendition of the photo and runs it
// through the upload pipeline
func (b *Bot) handlePhoto(ctx context.Context, message *tgbotapi.Message) {
	b.reply(message, "Reading your receipt...")

	// Telegram sends multiple sizes, the last one is the largest
	photo := message.Photo[len(message.Photo)-1]

	imageData, err := b.downloadFile(ctx, photo.FileID)
	if err != nil {
		log.Printf("Failed to download photo: %v", err)
		b.reply(message, "Could not download the photo, please try again.")
		return
	}

	receipt, err := b.receiptService.UploadReceipt(ctx, imageData, botUserID(message))
	if err != nil {
		var uploadErr *service.UploadError
		if errors.As(err, &uploadErr) {
			b.reply(message, fmt.Sprintf("I stored the photo but couldn't read the receipt.\nReference: %s", uploadErr.ReceiptID))
			return
		}
		log.Printf("Failed to process receipt: %v", err)
		b.reply(message, "Something went wrong while processing the receipt.")
		return
	}

	b.reply(message, formatReceiptMessage(receipt))
}

func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	fileURL, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve file URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected download status: %s", resp.Status)
	}

	return io.ReadAll(resp.Body)
}

func (b *Bot) reply(message *tgbotapi.Message, text string) {
	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	msg.ReplyToMessageID = message.MessageID
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Failed to send reply: %v", err)
	}
}

// botUserID derives a stable service user ID from the Telegram sender
func botUserID(message *tgbotapi.Message) string {
	return fmt.Sprintf("tg:%d", message.From.ID)
}

// formatReceiptMessage renders a processed receipt as a chat reply
func formatReceiptMessage(receipt *domain.Receipt) string {
	var sb strings.Builder

	if receipt.Status != domain.StatusCompleted {
		fmt.Fprintf(&sb, "Receipt stored (status: %s).\nReference: %s", receipt.Status, receipt.ReceiptID)
		return sb.String()
	}

	sb.WriteString("Here's what I found:\n\n")
	for _, item := range receipt.Items {
		fmt.Fprintf(&sb, "%s x%d - %s\n", item.Name, item.Quantity, item.Price.StringFixed(2))
	}
	fmt.Fprintf(&sb, "\nTotal: %s", receipt.TotalAmount.StringFixed(2))
	if !receipt.PurchaseDate.IsZero() {
		fmt.Fprintf(&sb, "\nDate: %s", receipt.PurchaseDate.Format("2006-01-02"))
	}
	fmt.Fprintf(&sb, "\nReference: %s", receipt.ReceiptID)

	return sb.String()
}
