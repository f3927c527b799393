package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"
	"github.com/ytakahashi/taskboard/internal/models"
	"github.com/ytakahashi/taskboard/internal/services"
	"github.com/ytakahashi/taskboard/internal/session"
	"github.com/ytakahashi/taskboard/internal/sorting"
)

// Replier is the part of the LINE messaging client the webhook uses.
type Replier interface {
	ReplyMessage(req *messaging_api.ReplyMessageRequest) (*messaging_api.ReplyMessageResponse, error)
}

// WebhookHandler is a chat view over the same user documents, reached
// through the LINE user id linked in the profile.
type WebhookHandler struct {
	bot    Replier
	secret string
	data   *services.UserData
	todos  *services.Todos
	logger *slog.Logger
}

func NewWebhookHandler(bot Replier, secret string, data *services.UserData, todos *services.Todos, logger *slog.Logger) *WebhookHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &WebhookHandler{
		bot:    bot,
		secret: secret,
		data:   data,
		todos:  todos,
		logger: logger,
	}
}

func getUserID(source webhook.SourceInterface) string {
	switch s := source.(type) {
	case webhook.UserSource:
		return s.UserId
	case webhook.GroupSource:
		return s.UserId
	case webhook.RoomSource:
		return s.UserId
	default:
		return ""
	}
}

// POST /webhook
func (h *WebhookHandler) HandleWebhook(c echo.Context) error {
	cb, err := webhook.ParseRequest(h.secret, c.Request())
	if err != nil {
		if errors.Is(err, webhook.ErrInvalidSignature) {
			h.logger.Warn("Invalid signature")
			return c.NoContent(http.StatusBadRequest)
		}
		h.logger.Error("Parse request error", "error", err)
		return c.NoContent(http.StatusInternalServerError)
	}

	ctx := c.Request().Context()
	for _, event := range cb.Events {
		e, ok := event.(webhook.MessageEvent)
		if !ok {
			continue
		}
		message, ok := e.Message.(webhook.TextMessageContent)
		if !ok {
			continue
		}
		if err := h.handleText(ctx, e.ReplyToken, getUserID(e.Source), message.Text); err != nil {
			h.logger.Error("Error handling text message", "error", err)
		}
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

type commandKind int

const (
	cmdNone commandKind = iota
	cmdList
	cmdDone
	cmdHelp
)

type command struct {
	kind commandKind
	arg  string
}

var (
	listPattern = regexp.MustCompile(`(?i)^(?:todo[\s　]*)?(?:list|一覧)(?:[\s　]+(.+))?$`)
	donePattern = regexp.MustCompile(`(?i)^(?:todo[\s　]*)?(?:done|完了)[\s　]+["“]?([^"”]+)["”]?$`)
	helpPattern = regexp.MustCompile(`(?i)^(?:todo[\s　]*)?(?:help|ヘルプ)$`)
)

// parseCommand recognises the chat commands. Anything else is cmdNone
// and gets no reply.
func parseCommand(text string) command {
	text = strings.TrimSpace(text)
	if m := listPattern.FindStringSubmatch(text); m != nil {
		return command{kind: cmdList, arg: strings.TrimSpace(m[1])}
	}
	if m := donePattern.FindStringSubmatch(text); m != nil {
		return command{kind: cmdDone, arg: strings.TrimSpace(m[1])}
	}
	if helpPattern.MatchString(text) {
		return command{kind: cmdHelp}
	}
	return command{kind: cmdNone}
}

func (h *WebhookHandler) handleText(ctx context.Context, replyToken, lineUserID, text string) error {
	cmd := parseCommand(text)
	if cmd.kind == cmdNone {
		return nil
	}
	if cmd.kind == cmdHelp {
		return h.replyMessage(replyToken, helpText)
	}

	state := session.New()
	err := h.data.FetchByLineUser(ctx, lineUserID, state)
	if errors.Is(err, services.ErrNotFound) {
		return h.replyMessage(replyToken, "This LINE account is not linked yet. Set your LINE user id on the profile page.\nLINE user id: "+lineUserID)
	}
	if err != nil {
		h.logger.Error("Failed to fetch user data for LINE user", "lineUserId", lineUserID, "error", err)
		return h.replyMessage(replyToken, "Could not load your todos.")
	}

	switch cmd.kind {
	case cmdList:
		return h.showTodoList(replyToken, state, cmd.arg)
	case cmdDone:
		return h.completeTodo(ctx, replyToken, state, cmd.arg)
	}
	return nil
}

func (h *WebhookHandler) showTodoList(replyToken string, state *session.State, rawSpec string) error {
	if rawSpec == "" {
		rawSpec = models.DefaultSorting
	}
	spec, err := sorting.ParseSpec(rawSpec)
	if err != nil {
		return h.replyMessage(replyToken, fmt.Sprintf("Unknown ordering %q. Try e.g. \"list priority, Desc\".", rawSpec))
	}

	user, _ := state.Current()
	if len(user.Todos) == 0 {
		return h.replyMessage(replyToken, "No todos yet.")
	}
	todos := sorting.Sort(append([]models.Todo(nil), user.Todos...), spec)

	var items []string
	for i, todo := range todos {
		mark := "☐"
		if models.IsDone(todo.Status) {
			mark = "☑"
		}
		deadline := "no deadline"
		if todo.Deadline != "" {
			deadline = todo.Deadline
		}
		items = append(items, fmt.Sprintf("%d. %s %s [%s] (%s)", i+1, mark, todo.Title, todo.Priority, deadline))
	}

	return h.replyMessage(replyToken, fmt.Sprintf("📝 Todos (%d, %s)\n\n%s", len(todos), spec, strings.Join(items, "\n")))
}

func (h *WebhookHandler) completeTodo(ctx context.Context, replyToken string, state *session.State, title string) error {
	user, _ := state.Current()
	todo, ok := services.FindByTitle(user, title)
	if !ok {
		return h.replyMessage(replyToken, fmt.Sprintf("No todo titled %q.", title))
	}
	if models.IsDone(todo.Status) {
		return h.replyMessage(replyToken, fmt.Sprintf("%q is already done.", todo.Title))
	}

	if _, err := h.todos.ToggleStatus(ctx, state, todo.ID); err != nil {
		h.logger.Error("Failed to complete todo", "uid", user.UID, "todoId", todo.ID, "error", err)
		return h.replyMessage(replyToken, "Could not complete the todo.")
	}
	return h.replyMessage(replyToken, fmt.Sprintf("🎉 Completed %q.", todo.Title))
}

const helpText = `📝 Todo bot

📋 List todos:
・list / 一覧
・list priority, Desc

✅ Complete a todo:
・done "<title>" / 完了 "<title>"

❓ Help:
・help / ヘルプ`

func (h *WebhookHandler) replyMessage(replyToken, text string) error {
	_, err := h.bot.ReplyMessage(
		&messaging_api.ReplyMessageRequest{
			ReplyToken: replyToken,
			Messages:   []messaging_api.MessageInterface{&messaging_api.TextMessage{Text: text}},
		},
	)
	if err != nil {
		h.logger.Error("Failed to send reply message", "error", err)
	}
	return err
}
