// Package qa answers questions about an extracted voter list. Answers
// are grounded in the RecordSet: the full extracted data rides along
// with every question, and the model is told to answer from it alone.
package qa

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/boothworks/voterscan/internal/config"
	"github.com/boothworks/voterscan/internal/extract"
	"github.com/boothworks/voterscan/internal/model"
	"github.com/boothworks/voterscan/pkg/anthropic"
)

// FallbackText is shown in place of an answer when the QA call or its
// response validation fails. The user's question stays in the log
// either way.
const FallbackText = "Sorry, I encountered an error while processing your request. Please try again."

const qaSystem = `You are an assistant answering questions about an extracted voter list. Answer only from the voter data provided; never invent voters or figures. Respond with a single JSON object:
{"summary": "<answer text>", "voters": [<matching voter objects, same shape as the input voters, omit if none>]}
Return only the JSON object.`

const qaPrompt = `Voter list data:
%s

Question: %s`

// Controller runs QA turns against the configured chat model.
type Controller struct {
	client anthropic.Client
	cfg    config.AnthropicConfig
}

// New creates a QA controller.
func New(client anthropic.Client, cfg config.AnthropicConfig) *Controller {
	return &Controller{client: client, cfg: cfg}
}

// Ask appends the user's question to log, asks the model, and appends
// either the answer or the fallback message. It returns the updated
// log and whether the turn produced a real answer. The input log is
// not modified.
func (c *Controller) Ask(ctx context.Context, question string, rs *model.RecordSet, log []model.ChatMessage) ([]model.ChatMessage, bool) {
	out := make([]model.ChatMessage, len(log), len(log)+2)
	copy(out, log)
	out = append(out, model.ChatMessage{Role: model.RoleUser, Text: question})

	ans, err := c.ask(ctx, question, rs)
	if err != nil {
		zap.L().Warn("qa turn failed", zap.Error(err))
		return append(out, model.ChatMessage{Role: model.RoleModel, Text: FallbackText}), false
	}

	return append(out, model.ChatMessage{
		Role:   model.RoleModel,
		Text:   ans.Summary,
		Voters: ans.Voters,
	}), true
}

func (c *Controller) ask(ctx context.Context, question string, rs *model.RecordSet) (*model.ChatAnswer, error) {
	grounding, err := json.Marshal(rs)
	if err != nil {
		return nil, err
	}

	if c.cfg.TimeoutSecs > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(c.cfg.TimeoutSecs)*time.Second)
		defer cancel()
	}

	content := fmt.Sprintf(qaPrompt, grounding, question)

	resp, err := c.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     c.cfg.ChatModel,
		MaxTokens: c.cfg.MaxTokens,
		System:    []anthropic.SystemBlock{{Text: qaSystem}},
		Messages:  []anthropic.Message{{Role: "user", Content: content}},
	})
	if err != nil {
		return nil, err
	}
	resp.Usage.LogCost(c.cfg.ChatModel, "qa")

	return model.ParseChatAnswer(extract.CleanJSON(resp.Text()))
}
