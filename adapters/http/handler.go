package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/satriahrh/nova-ai/domain"
	"github.com/satriahrh/nova-ai/usecase"
	"github.com/satriahrh/nova-ai/utils/log"
)

const indexFile = "index.html"

// Error texts returned in the "error" field.
const (
	ErrTextNotJSON         = "Content-Type must be application/json"
	ErrTextNoJSONData      = "No JSON data provided"
	ErrTextInvalidJSON     = "Invalid JSON data provided"
	ErrTextNoMessage       = "No message provided"
	ErrTextEmptyMessage    = "No message provided: message is empty"
	ErrTextMessageNotText  = "Message must be a string"
	ErrTextNoModelResponse = "No response from AI model"
	ErrTextFileNotFound    = "File not found"
)

type ChatHandler struct {
	chatService *usecase.ChatService
	staticDir   string
}

type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse carries either Response or Error, never both.
type ChatResponse struct {
	Response string `json:"response,omitempty"`
	Error    string `json:"error,omitempty"`
}

type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func NewChatHandler(chatService *usecase.ChatService, staticDir string) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		staticDir:   staticDir,
	}
}

// Register mounts the relay routes on e.
func (h *ChatHandler) Register(e *echo.Echo) {
	e.GET("/", h.Index)
	e.GET("/test", h.Test)
	e.POST("/chat", h.Chat)
	e.GET("/*", h.File)
}

// Chat relays one message to the model as an independent single-turn request.
func (h *ChatHandler) Chat(c echo.Context) error {
	ctx := c.Request().Context()
	logger := log.WithCtx(ctx)
	logger.Info("New chat request")

	message, err := decodeMessage(c.Request())
	if err != nil {
		logger.Warn("Rejected chat request", zap.Error(err))
		return err
	}
	logger.Info("Chat request message", zap.String("message", usecase.Preview(message)))

	// the model call outlives a disconnecting client
	text, err := h.chatService.Relay(context.WithoutCancel(ctx), message)
	if errors.Is(err, domain.ErrEmptyResponse) {
		return echo.NewHTTPError(http.StatusInternalServerError, ErrTextNoModelResponse).SetInternal(err)
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, fmt.Sprintf("Server error: %s", err)).SetInternal(err)
	}

	return c.JSON(http.StatusOK, ChatResponse{Response: text})
}

// decodeMessage enforces the /chat preconditions in order: JSON content
// type, a body, a JSON object, a present, string and non-empty message.
func decodeMessage(r *http.Request) (string, error) {
	if !isJSON(r.Header.Get(echo.HeaderContentType)) {
		return "", echo.NewHTTPError(http.StatusBadRequest, ErrTextNotJSON)
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return "", he
		}
		return "", echo.NewHTTPError(http.StatusBadRequest, ErrTextInvalidJSON).SetInternal(err)
	}

	body = bytes.TrimSpace(body)
	if len(body) == 0 || string(body) == "null" {
		return "", echo.NewHTTPError(http.StatusBadRequest, ErrTextNoJSONData)
	}

	var data map[string]json.RawMessage
	if err := json.Unmarshal(body, &data); err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, ErrTextInvalidJSON).SetInternal(err)
	}

	raw, ok := data["message"]
	if !ok || string(raw) == "null" {
		return "", echo.NewHTTPError(http.StatusBadRequest, ErrTextNoMessage)
	}

	var req ChatRequest
	if err := json.Unmarshal(raw, &req.Message); err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, ErrTextMessageNotText).SetInternal(err)
	}
	if req.Message == "" {
		return "", echo.NewHTTPError(http.StatusBadRequest, ErrTextEmptyMessage)
	}
	return req.Message, nil
}

// isJSON accepts application/json and application/*+json.
func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == echo.MIMEApplicationJSON ||
		(strings.HasPrefix(mt, "application/") && strings.HasSuffix(mt, "+json"))
}

// Test is the liveness endpoint.
func (h *ChatHandler) Test(c echo.Context) error {
	return c.JSON(http.StatusOK, StatusResponse{
		Status:  "OK",
		Message: "Server is running",
	})
}

// Index serves index.html from the static directory.
func (h *ChatHandler) Index(c echo.Context) error {
	return h.serveFile(c, indexFile)
}

// File serves the named file below the static directory.
func (h *ChatHandler) File(c echo.Context) error {
	name, err := url.PathUnescape(c.Param("*"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, ErrTextFileNotFound)
	}
	return h.serveFile(c, name)
}

func (h *ChatHandler) serveFile(c echo.Context, name string) error {
	// cleaning against "/" keeps the result below staticDir
	full := filepath.Join(h.staticDir, filepath.FromSlash(path.Clean("/"+name)))

	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		log.WithCtx(c.Request().Context()).Debug("Static file not found", zap.String("name", name))
		return echo.NewHTTPError(http.StatusNotFound, ErrTextFileNotFound)
	}
	return c.File(full)
}
