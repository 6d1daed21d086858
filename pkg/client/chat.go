package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/meshline/meshline-go/internal/realtime"
	"github.com/meshline/meshline-go/pkg/models"
)

// Chats lists the user's conversations. Failures downgrade to an empty
// list so the chat view stays renderable.
func (c *Client) Chats(ctx context.Context) ([]models.Chat, error) {
	var out []models.Chat
	if err := c.do(ctx, http.MethodGet, "/api/chats", nil, nil, &out); err != nil {
		logger.Error("client: fetch chats", "err", err)
		return []models.Chat{}, nil
	}
	if out == nil {
		out = []models.Chat{}
	}
	return out, nil
}

// CreateChat opens a conversation. chatType defaults to "direct".
func (c *Client) CreateChat(ctx context.Context, participantID, chatType, name, description string) (models.Chat, error) {
	var out models.Chat
	if participantID == "" {
		return out, fmt.Errorf("participant id is required")
	}
	if chatType == "" {
		chatType = "direct"
	}

	body := map[string]string{
		"participantId": participantID,
		"type":          chatType,
		"name":          name,
		"description":   description,
	}
	if err := c.do(ctx, http.MethodPost, "/api/chats", nil, body, &out); err != nil {
		return out, err
	}
	return out, nil
}

// Messages pages through a chat's history.
func (c *Client) Messages(ctx context.Context, chatID string, opts models.MessageOptions) ([]models.ChatMessage, error) {
	if chatID == "" {
		return nil, fmt.Errorf("chat id is required")
	}

	q := url.Values{}
	setInt(q, "limit", opts.Limit)
	setStr(q, "before", opts.Before)
	setStr(q, "after", opts.After)
	setStr(q, "lastMessageId", opts.LastMessageID)

	var out []models.ChatMessage
	if err := c.do(ctx, http.MethodGet, "/api/chats/"+chatID+"/messages", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// emitNewMessage mirrors a delivered message for other connected clients.
func (c *Client) emitNewMessage(chatID string, msg models.ChatMessage) {
	c.channel.Emit(realtime.EventNewMessage, map[string]any{
		"chatId":    chatID,
		"messageId": msg.ID,
		"senderId":  msg.SenderID,
		"content":   msg.Content,
	})
}

// SendMessage posts a message and, after the HTTP call succeeds, emits
// new_message so other clients update without re-polling.
func (c *Client) SendMessage(ctx context.Context, chatID string, message any) (models.ChatMessage, error) {
	var out models.ChatMessage
	if chatID == "" {
		return out, fmt.Errorf("chat id is required")
	}

	if err := c.do(ctx, http.MethodPost, "/api/chats/"+chatID+"/messages", nil, message, &out); err != nil {
		return out, err
	}
	c.emitNewMessage(chatID, out)
	return out, nil
}

// SendMessageWithAttachment posts a multipart message (text fields plus
// media) and emits new_message on success.
func (c *Client) SendMessageWithAttachment(ctx context.Context, chatID string, form *Form) (models.ChatMessage, error) {
	var out models.ChatMessage
	if chatID == "" {
		return out, fmt.Errorf("chat id is required")
	}

	if err := c.doMultipart(ctx, http.MethodPost, "/api/chats/"+chatID+"/messages", form, &out); err != nil {
		return out, err
	}
	c.emitNewMessage(chatID, out)
	return out, nil
}

// ReplyToMessage sends a threaded reply, optionally with an attachment.
func (c *Client) ReplyToMessage(ctx context.Context, chatID, messageID, content, messageType string, attachment io.Reader, filename string) (models.ChatMessage, error) {
	var out models.ChatMessage
	if chatID == "" || messageID == "" {
		return out, fmt.Errorf("chat id and message id are required")
	}
	if messageType == "" {
		messageType = "text"
	}

	form := NewForm().
		Set("content", content).
		Set("messageType", messageType).
		Set("replyTo", messageID)
	if attachment != nil {
		form.AddFile("media", filename, attachment)
	}

	if err := c.doMultipart(ctx, http.MethodPost, "/api/chats/"+chatID+"/messages", form, &out); err != nil {
		return out, err
	}
	c.emitNewMessage(chatID, out)
	return out, nil
}

// DeleteMessage removes a message and emits message_deleted on success.
func (c *Client) DeleteMessage(ctx context.Context, chatID, messageID string) error {
	if chatID == "" || messageID == "" {
		return fmt.Errorf("chat id and message id are required")
	}

	if err := c.do(ctx, http.MethodDelete, "/api/chats/"+chatID+"/messages/"+messageID, nil, nil, nil); err != nil {
		return err
	}
	c.channel.Emit(realtime.EventMessageDeleted, map[string]string{
		"chatId":    chatID,
		"messageId": messageID,
	})
	return nil
}

// ReactToMessage adds a reaction and emits message_reaction on success.
func (c *Client) ReactToMessage(ctx context.Context, chatID, messageID, reaction string) (models.Reaction, error) {
	var out models.Reaction
	if chatID == "" || messageID == "" {
		return out, fmt.Errorf("chat id and message id are required")
	}

	if err := c.do(ctx, http.MethodPost, "/api/chats/"+chatID+"/messages/"+messageID+"/react", nil, map[string]string{"reaction": reaction}, &out); err != nil {
		return out, err
	}
	c.channel.Emit(realtime.EventMessageReaction, map[string]string{
		"chatId":    chatID,
		"messageId": messageID,
		"reaction":  reaction,
		"userId":    out.UserID,
	})
	return out, nil
}

// RemoveReaction deletes the caller's reaction and emits reaction_removed.
func (c *Client) RemoveReaction(ctx context.Context, chatID, messageID string) (models.Reaction, error) {
	var out models.Reaction
	if chatID == "" || messageID == "" {
		return out, fmt.Errorf("chat id and message id are required")
	}

	if err := c.do(ctx, http.MethodDelete, "/api/chats/"+chatID+"/messages/"+messageID+"/react", nil, nil, &out); err != nil {
		return out, err
	}
	c.channel.Emit(realtime.EventReactionRemoved, map[string]string{
		"chatId":    chatID,
		"messageId": messageID,
		"userId":    out.UserID,
	})
	return out, nil
}

// startCall is shared by the audio and video variants.
func (c *Client) startCall(ctx context.Context, chatID, kind string) (models.Call, error) {
	var out models.Call
	if chatID == "" {
		return out, fmt.Errorf("chat id is required")
	}

	if err := c.do(ctx, http.MethodPost, "/api/calls/"+chatID+"/"+kind, nil, nil, &out); err != nil {
		return out, err
	}
	c.channel.Emit(realtime.EventCallStarted, map[string]any{
		"chatId":    chatID,
		"callId":    out.CallID,
		"type":      kind,
		"initiator": out.Initiator,
	})
	return out, nil
}

// StartAudioCall begins an audio call and emits call_started on success.
func (c *Client) StartAudioCall(ctx context.Context, chatID string) (models.Call, error) {
	return c.startCall(ctx, chatID, "audio")
}

// StartVideoCall begins a video call and emits call_started on success.
func (c *Client) StartVideoCall(ctx context.Context, chatID string) (models.Call, error) {
	return c.startCall(ctx, chatID, "video")
}

// AcceptCall accepts a ringing call and emits call_accepted on success.
func (c *Client) AcceptCall(ctx context.Context, callID string) (models.Call, error) {
	var out models.Call
	if callID == "" {
		return out, fmt.Errorf("call id is required")
	}

	if err := c.do(ctx, http.MethodPost, "/api/calls/"+callID+"/accept", nil, nil, &out); err != nil {
		return out, err
	}
	c.channel.Emit(realtime.EventCallAccepted, map[string]string{
		"callId":     callID,
		"acceptedBy": out.AcceptedBy,
	})
	return out, nil
}

// DeclineCall declines a ringing call and emits call_declined on success.
func (c *Client) DeclineCall(ctx context.Context, callID string) (models.Call, error) {
	var out models.Call
	if callID == "" {
		return out, fmt.Errorf("call id is required")
	}

	if err := c.do(ctx, http.MethodPost, "/api/calls/"+callID+"/decline", nil, nil, &out); err != nil {
		return out, err
	}
	c.channel.Emit(realtime.EventCallDeclined, map[string]string{
		"callId":     callID,
		"declinedBy": out.DeclinedBy,
	})
	return out, nil
}

// EndCall hangs up and emits call_ended on success.
func (c *Client) EndCall(ctx context.Context, callID string) (models.Call, error) {
	var out models.Call
	if callID == "" {
		return out, fmt.Errorf("call id is required")
	}

	if err := c.do(ctx, http.MethodPost, "/api/calls/"+callID+"/end", nil, nil, &out); err != nil {
		return out, err
	}
	c.channel.Emit(realtime.EventCallEnded, map[string]string{
		"callId":  callID,
		"endedBy": out.EndedBy,
	})
	return out, nil
}

// CreatePoll attaches a poll to a chat.
func (c *Client) CreatePoll(ctx context.Context, chatID string, poll any) (json.RawMessage, error) {
	if chatID == "" {
		return nil, fmt.Errorf("chat id is required")
	}
	var out json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/api/chats/"+chatID+"/polls", nil, poll, &out); err != nil {
		return nil, err
	}
	return out, nil
}
