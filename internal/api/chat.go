package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"

	apierrors "github.com/ollamachat/ollamachat/internal/errors"
	"github.com/ollamachat/ollamachat/internal/logx"
	"github.com/ollamachat/ollamachat/internal/models"
)

// Chat sends prompt to model as a single-turn conversation and returns the
// reply text.
func (c *Client) Chat(ctx context.Context, model, prompt string) (string, error) {
	log := logx.WithModel(c.log, model)

	payload, err := json.Marshal(models.NewSingleTurnRequest(model, prompt))
	if err != nil {
		return "", fmt.Errorf("failed to build payload: %w", err)
	}

	start := time.Now()
	body, err := c.do(ctx, "chat", http.MethodPost, models.EndpointChat, bytes.NewReader(payload), models.JSONHeaders())
	if err != nil {
		log.Warn("chat failed", "err", err, "elapsed", time.Since(start).String())
		return "", err
	}

	reply, err := parseChatReply(body)
	if err != nil {
		log.Warn("chat parse failed", "err", err)
		return "", err
	}

	log.Debug("chat", "prompt_len", len(prompt), "reply_len", len(reply), "elapsed", time.Since(start).String())
	return reply, nil
}

// parseChatReply extracts choices[0].message.content from body
func parseChatReply(body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", apierrors.NewParseError("response is not valid JSON", "")
	}

	choices := gjson.GetBytes(body, PathChoices)
	if !choices.IsArray() {
		return "", apierrors.NewParseError("missing choices array", PathChoices)
	}
	if len(choices.Array()) == 0 {
		return "", apierrors.NewParseError(apierrors.ErrNoContent.Error(), PathChoices)
	}

	content := gjson.GetBytes(body, PathReply)
	if content.Type != gjson.String {
		return "", apierrors.NewParseError("missing message content", PathReply)
	}

	return content.String(), nil
}
