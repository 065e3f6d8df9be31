package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/miguelguadarrama/school-mobile-app-sub000/internal/models"
)

// RegisterEmail announces the guardian's email to the backend before login.
func (c *Client) RegisterEmail(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return c.Do(ctx, http.MethodPost, "/users/email", body, nil, nil)
}

// Conversations fetches the latest snapshot of every thread visible to the
// authenticated guardian.
func (c *Client) Conversations(ctx context.Context) ([]models.Conversation, error) {
	var resp struct {
		Conversations []models.Conversation `json:"conversations"`
	}
	if err := c.Do(ctx, http.MethodGet, "/mobile/chat", nil, &resp, nil); err != nil {
		return nil, err
	}
	return resp.Conversations, nil
}

// ConversationMessages fetches one thread's messages.
func (c *Client) ConversationMessages(ctx context.Context, studentID string) (models.Conversation, error) {
	var conv models.Conversation
	err := c.Do(ctx, http.MethodGet, "/mobile/chat/"+studentID, nil, &conv, nil)
	return conv, err
}

// SendMessage posts a chat message and returns the confirmed copy.
func (c *Client) SendMessage(ctx context.Context, studentID string, req models.SendMessageRequest) (models.Message, error) {
	var msg models.Message
	err := c.Do(ctx, http.MethodPost, "/mobile/chat/"+studentID, req, &msg, nil)
	return msg, err
}

// MarkRead marks the student's thread as read.
func (c *Client) MarkRead(ctx context.Context, studentID string) error {
	return c.Do(ctx, http.MethodPut, fmt.Sprintf("/mobile/chat/%s/read", studentID), nil, nil, nil)
}

// RequestUploadURL asks the backend for a pre-signed blob upload URL.
func (c *Client) RequestUploadURL(ctx context.Context, meta models.AttachmentMeta) (models.UploadGrant, error) {
	var grant models.UploadGrant
	err := c.Do(ctx, http.MethodPost, "/mobile/chat/teacher/sas", meta, &grant, nil)
	return grant, err
}

// Posts fetches the announcement/social feed.
func (c *Client) Posts(ctx context.Context) ([]models.Post, error) {
	var resp struct {
		Posts []models.Post `json:"posts"`
	}
	if err := c.Do(ctx, http.MethodGet, "/mobile/posts", nil, &resp, nil); err != nil {
		return nil, err
	}
	return resp.Posts, nil
}

// Attendance fetches a student's attendance records.
func (c *Client) Attendance(ctx context.Context, studentID string) ([]models.AttendanceRecord, error) {
	var resp struct {
		Records []models.AttendanceRecord `json:"records"`
	}
	if err := c.Do(ctx, http.MethodGet, fmt.Sprintf("/mobile/students/%s/attendance", studentID), nil, &resp, nil); err != nil {
		return nil, err
	}
	return resp.Records, nil
}

// RegisterPushToken stores the device push token server-side.
func (c *Client) RegisterPushToken(ctx context.Context, token string) error {
	body := map[string]string{"token": token}
	return c.Do(ctx, http.MethodPost, "/mobile/push-tokens", body, nil, nil)
}

// UnregisterPushToken removes the device push token. Callers treat failure
// as non-fatal during logout.
func (c *Client) UnregisterPushToken(ctx context.Context, token string) error {
	body := map[string]string{"token": token}
	return c.Do(ctx, http.MethodDelete, "/mobile/push-tokens", body, nil, nil)
}
