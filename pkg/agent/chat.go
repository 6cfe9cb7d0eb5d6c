package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/hermesgpt/hermes/pkg/inference"
	"github.com/hermesgpt/hermes/pkg/retry"
	"github.com/hermesgpt/hermes/pkg/session"
)

// handleChat runs the plain / tool-calling path: append the user turn,
// run the round trip against the provider, append the assistant turn,
// and apply the unstable transform at the output edge.
func (a *App) handleChat(ctx context.Context, in Inbound) []Reply {
	a.activity.Typing(in.ChatID)

	text, err := a.converse(ctx, in, true)
	if err != nil {
		a.logger.Error("chat turn failed", "user_id", in.UserID, "error", err)
		return []Reply{{Text: msgProviderError}}
	}

	return []Reply{{Text: a.outputText(in.UserID, text)}}
}

// converse commits one full user turn: user append, provider round
// trip, assistant append. The per-user lock is held throughout so
// overlapping turns from one user serialize. On failure the user turn
// stays committed and no assistant turn is appended.
func (a *App) converse(ctx context.Context, in Inbound, declareTools bool) (string, error) {
	release := a.sessions.Acquire(in.UserID)
	defer release()

	prompt := persona(in.Private)
	a.sessions.History(in.UserID, prompt) // lazy system turn
	a.sessions.Append(in.UserID, session.Turn{Role: session.RoleUser, Content: formatInbound(in)})

	window := a.sessions.Window(in.UserID, session.ChatWindow, prompt)

	text, toolTurn, err := a.roundTrip(ctx, window, declareTools)
	if err != nil {
		return "", err
	}
	if toolTurn != nil {
		a.sessions.Append(in.UserID, *toolTurn)
	}
	a.sessions.Append(in.UserID, session.Turn{Role: session.RoleAssistant, Content: text})
	return text, nil
}

// roundTrip drives the tool-calling state machine over one user turn.
// It returns the final answer text and, when a tool ran, the
// tool-result turn for the caller to commit.
//
// Only one round of tool invocation is supported: a second tool
// request during the resubmission is not specially handled and its
// content surfaces as the final answer as-is.
func (a *App) roundTrip(ctx context.Context, window []session.Turn, declareTools bool) (string, *session.Turn, error) {
	messages := toMessages(window)

	req := &inference.ChatRequest{Messages: messages, Model: a.chatModel}
	if declareTools {
		req.Tools = chatTools()
	}

	resp, err := a.complete(ctx, req)
	if err != nil {
		return "", nil, err
	}

	if len(resp.Message.ToolCalls) == 0 {
		return resp.Message.Content, nil, nil
	}

	call := resp.Message.ToolCalls[0]
	a.logger.Debug("tool requested", "tool", call.Name)

	result, err := a.executeTool(ctx, call)
	if err != nil {
		return "", nil, err
	}

	// Resubmit: original assistant message plus the tool result, no
	// further tools declared.
	followup := append(messages,
		resp.Message,
		inference.NewToolMessage(call.ID, call.Name, result),
	)
	final, err := a.complete(ctx, &inference.ChatRequest{Messages: followup, Model: a.chatModel})
	if err != nil {
		return "", nil, err
	}

	toolTurn := &session.Turn{
		Role:       session.RoleTool,
		Content:    result,
		ToolName:   call.Name,
		ToolCallID: call.ID,
	}
	return final.Message.Content, toolTurn, nil
}

// complete issues one provider call under the retry policy.
func (a *App) complete(ctx context.Context, req *inference.ChatRequest) (*inference.ChatResponse, error) {
	return retry.Do(ctx, a.policy, func(ctx context.Context) (*inference.ChatResponse, error) {
		return a.provider.Chat(ctx, req)
	})
}

// outputText applies the unstable transform when the user's mode calls
// for it. History keeps the untransformed text; the distortion is an
// output-edge effect.
func (a *App) outputText(userID int64, text string) string {
	if a.sessions.Settings(userID).Mode == session.ModeUnstable {
		return unstableTransform(text)
	}
	return text
}

// formatInbound tags the user text with its chat context the way the
// model prompt expects.
func formatInbound(in Inbound) string {
	if in.Private {
		now := time.Now()
		return fmt.Sprintf("SYSTEM CONTEXT:\n\nCurrent Date: %s\nCurrent Time: %s\n\nPRIVATE CHAT, %s: %s",
			now.Format("01/02/2006"), now.Format("03:04 PM (MST)"), in.UserName, in.Text)
	}
	return fmt.Sprintf("GROUP CHAT (%s), User '%s' says: %s", in.GroupName, in.UserName, in.Text)
}

// toMessages converts stored turns to wire messages.
func toMessages(turns []session.Turn) []inference.Message {
	out := make([]inference.Message, 0, len(turns))
	for _, t := range turns {
		msg := inference.Message{
			Role:    inference.Role(t.Role),
			Content: t.Content,
		}
		if t.Role == session.RoleTool {
			msg.Name = t.ToolName
			msg.ToolCallID = t.ToolCallID
		}
		out = append(out, msg)
	}
	return out
}
