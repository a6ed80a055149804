// Package linebot handles inbound LINE webhook events: follows,
// unfollows, and link-code claims.
package linebot

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/okanehq/moneta/internal/content"
	"github.com/okanehq/moneta/internal/database"
	"github.com/okanehq/moneta/internal/diagnosis"
	"github.com/okanehq/moneta/internal/line"
)

const welcomeText = "Thanks for adding us! 🎉\n\n" +
	"This is the Money Type Quiz account.\n\n" +
	"To link your quiz result, send the 8-character code shown after your diagnosis.\n\n" +
	"Example: A1B2C3D4"

const helpText = "💡 To link your quiz result, enter the 8-character code shown when you finished the quiz.\n\n" +
	"Example: A1B2C3D4\n\n" +
	"Haven't taken the quiz yet? Start here 👇\nhttps://moneta.example.com"

const invalidCodeText = "That code doesn't match an active diagnosis. " +
	"Codes expire after 24 hours — you can retake the quiz to get a new one."

// Handler processes LINE webhook requests.
type Handler struct {
	store         *database.Store
	client        *line.Client
	contentStore  *content.Store
	channelSecret string
	logger        *slog.Logger
}

// NewHandler creates a webhook Handler.
func NewHandler(store *database.Store, client *line.Client, contentStore *content.Store, channelSecret string, logger *slog.Logger) *Handler {
	return &Handler{
		store:         store,
		client:        client,
		contentStore:  contentStore,
		channelSecret: channelSecret,
		logger:        logger,
	}
}

// Webhook is the gin handler for POST /api/line/webhook. The platform
// expects a prompt 200; event-level failures are logged, never surfaced,
// so the channel does not retry the whole batch.
func (h *Handler) Webhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}

	signature := c.GetHeader("X-Line-Signature")
	if !line.VerifySignature(h.channelSecret, body, signature) {
		h.logger.Warn("Webhook signature verification failed")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
		return
	}

	var payload line.WebhookBody
	if err := json.Unmarshal(body, &payload); err != nil {
		h.logger.Warn("Webhook body is not valid JSON", "error", err.Error())
		c.JSON(http.StatusOK, gin.H{})
		return
	}

	for _, event := range payload.Events {
		h.handleEvent(c.Request.Context(), event)
	}

	c.JSON(http.StatusOK, gin.H{})
}

func (h *Handler) handleEvent(ctx context.Context, event line.Event) {
	userID := event.Source.UserID
	if userID == "" {
		return
	}

	switch event.Type {
	case "follow":
		h.handleFollow(ctx, userID, event.ReplyToken)
	case "unfollow":
		h.handleUnfollow(ctx, userID)
	case "message":
		if event.Message != nil && event.Message.Type == "text" {
			h.handleText(ctx, userID, event.Message.Text, event.ReplyToken)
		}
	default:
		h.logger.Debug("Unhandled webhook event type", "type", event.Type)
	}
}

func (h *Handler) handleFollow(ctx context.Context, userID, replyToken string) {
	h.logger.Info("New follower", "line_user_id", userID)

	if err := h.store.UpsertPendingUser(ctx, userID); err != nil {
		h.logger.Error("Failed to register follower", "line_user_id", userID, "error", err.Error())
	}

	h.reply(ctx, replyToken, welcomeText)
}

func (h *Handler) handleUnfollow(ctx context.Context, userID string) {
	h.logger.Info("User unfollowed", "line_user_id", userID)

	if err := h.store.MarkUnfollowed(ctx, userID); err != nil {
		h.logger.Error("Failed to mark unfollowed", "line_user_id", userID, "error", err.Error())
	}
}

func (h *Handler) handleText(ctx context.Context, userID, text, replyToken string) {
	code := strings.ToUpper(strings.TrimSpace(text))

	if !diagnosis.IsValidLinkCode(code) {
		h.reply(ctx, replyToken, helpText)
		return
	}

	record, err := h.store.ClaimLinkCode(ctx, userID, code)
	if err != nil {
		if err == database.ErrLinkCodeNotFound {
			h.reply(ctx, replyToken, invalidCodeText)
			return
		}
		h.logger.Error("Link code claim failed", "line_user_id", userID, "error", err.Error())
		h.reply(ctx, replyToken, invalidCodeText)
		return
	}

	typeName := record.Type
	if info := h.contentStore.Diagnosis.Type(record.Type); info != nil {
		typeName = info.Name
	}

	h.logger.Info("Linked diagnosis", "line_user_id", userID, "type", record.Type)
	h.reply(ctx, replyToken, "✅ You're linked!\n\nYour money type: "+typeName+"\n\n"+
		"For the next 10 days we'll send you one short lesson a day, tailored to your type 📚\n\nSee you tomorrow morning!")
}

func (h *Handler) reply(ctx context.Context, replyToken, text string) {
	if replyToken == "" {
		return
	}
	if err := h.client.Reply(ctx, replyToken, []line.Message{line.NewTextMessage(text)}); err != nil {
		h.logger.Error("Failed to send reply", "error", err.Error())
	}
}
