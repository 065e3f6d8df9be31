package chat

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/miguelguadarrama/school-mobile-app-sub000/internal/api"
	"github.com/miguelguadarrama/school-mobile-app-sub000/internal/models"
	"github.com/miguelguadarrama/school-mobile-app-sub000/internal/observability"
)

// attachmentPlaceholder is the message text shown for binary attachments.
const attachmentPlaceholder = "attachment sent"

// API is the slice of the backend client the chat service needs.
type API interface {
	SendMessage(ctx context.Context, studentID string, req models.SendMessageRequest) (models.Message, error)
	RequestUploadURL(ctx context.Context, meta models.AttachmentMeta) (models.UploadGrant, error)
	MarkRead(ctx context.Context, studentID string) error
}

// Uploader PUTs attachment bytes to a pre-signed URL.
type Uploader interface {
	Upload(ctx context.Context, uploadURL, contentType string, r io.Reader, size int64) error
}

// LocalAttachment is a file the user picked for sending.
type LocalAttachment struct {
	Type     string
	FileName string
	MimeType string
	Size     int64
	Open     func() (io.ReadCloser, error)
}

// Service wires the optimistic store to the network send flows.
type Service struct {
	api     API
	uploads Uploader
	store   *PendingStore
	now     func() time.Time
}

// NewService constructs a chat Service.
func NewService(backend API, uploads Uploader, store *PendingStore) *Service {
	return &Service{api: backend, uploads: uploads, store: store, now: time.Now}
}

// Store exposes the pending store for merged-view consumers.
func (s *Service) Store() *PendingStore { return s.store }

// SendText inserts a pending message and posts it. On any failure the
// pending record is rolled back and the error surfaces to the caller; on
// success the record stays pending until a server fetch confirms it.
func (s *Service) SendText(ctx context.Context, key models.ConversationKey, content string) (string, error) {
	pending := models.Message{
		ID:         NewTempID(),
		SenderRole: models.RoleGuardian,
		Content:    content,
		CreatedAt:  s.now(),
	}
	s.store.AddPending(key, pending)

	_, err := s.api.SendMessage(ctx, key.StudentID, models.SendMessageRequest{Content: content})
	if err != nil {
		s.store.RemovePending(key, pending.ID)
		return "", err
	}
	return pending.ID, nil
}

// SendAttachment runs the three-step upload sequence: request a pre-signed
// URL, PUT the bytes, then post the message referencing the blob. Failure or
// cancellation at any step aborts the rest and rolls back the pending
// message; no partial message is ever sent.
func (s *Service) SendAttachment(ctx context.Context, key models.ConversationKey, att LocalAttachment) (string, error) {
	pending := models.Message{
		ID:         NewTempID(),
		SenderRole: models.RoleGuardian,
		Content:    attachmentPlaceholder,
		CreatedAt:  s.now(),
	}
	s.store.AddPending(key, pending)

	tempID, err := s.sendAttachment(ctx, key, att, pending)
	if err != nil {
		s.store.RemovePending(key, pending.ID)
		observability.IncUpload("failure")
		return "", err
	}
	observability.IncUpload("success")
	return tempID, nil
}

func (s *Service) sendAttachment(ctx context.Context, key models.ConversationKey, att LocalAttachment, pending models.Message) (string, error) {
	grant, err := s.api.RequestUploadURL(ctx, models.AttachmentMeta{
		Type:     att.Type,
		FileName: att.FileName,
		MimeType: att.MimeType,
		FileSize: att.Size,
	})
	if err != nil {
		return "", &api.Error{Kind: api.KindUpload, Endpoint: "sas", Err: err}
	}

	file, err := att.Open()
	if err != nil {
		return "", &api.Error{Kind: api.KindUpload, Endpoint: "open", Err: err}
	}
	defer file.Close()

	if err := s.uploads.Upload(ctx, grant.UploadURL, att.MimeType, file, att.Size); err != nil {
		return "", &api.Error{Kind: api.KindUpload, Endpoint: "put", Err: err}
	}

	_, err = s.api.SendMessage(ctx, key.StudentID, models.SendMessageRequest{
		Content: attachmentPlaceholder,
		Attachment: &models.Attachment{
			URL:      grant.BlobPath,
			Type:     att.Type,
			MimeType: att.MimeType,
			FileName: att.FileName,
			FileSize: att.Size,
		},
	})
	if err != nil {
		return "", &api.Error{Kind: api.KindUpload, Endpoint: "send", Err: fmt.Errorf("send after upload: %w", err)}
	}
	return pending.ID, nil
}

// MarkRead forwards the read receipt for a thread.
func (s *Service) MarkRead(ctx context.Context, key models.ConversationKey) error {
	return s.api.MarkRead(ctx, key.StudentID)
}
