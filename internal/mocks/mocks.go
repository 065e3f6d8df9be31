package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"github.com/miguelguadarrama/school-mobile-app-sub000/internal/api"
	"github.com/miguelguadarrama/school-mobile-app-sub000/internal/chat"
	"github.com/miguelguadarrama/school-mobile-app-sub000/internal/models"
	"github.com/miguelguadarrama/school-mobile-app-sub000/internal/session"
)

type ChatAPIMock struct {
	mock.Mock
}

func (m *ChatAPIMock) SendMessage(ctx context.Context, studentID string, req models.SendMessageRequest) (models.Message, error) {
	args := m.Called(ctx, studentID, req)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *ChatAPIMock) RequestUploadURL(ctx context.Context, meta models.AttachmentMeta) (models.UploadGrant, error) {
	args := m.Called(ctx, meta)
	var grant models.UploadGrant
	if val := args.Get(0); val != nil {
		grant = val.(models.UploadGrant)
	}
	return grant, args.Error(1)
}

func (m *ChatAPIMock) MarkRead(ctx context.Context, studentID string) error {
	args := m.Called(ctx, studentID)
	return args.Error(0)
}

type UploaderMock struct {
	mock.Mock
}

func (m *UploaderMock) Upload(ctx context.Context, uploadURL, contentType string, r io.Reader, size int64) error {
	args := m.Called(ctx, uploadURL, contentType, r, size)
	return args.Error(0)
}

type FetcherMock struct {
	mock.Mock
}

func (m *FetcherMock) Conversations(ctx context.Context) ([]models.Conversation, error) {
	args := m.Called(ctx)
	var convs []models.Conversation
	if val := args.Get(0); val != nil {
		convs = val.([]models.Conversation)
	}
	return convs, args.Error(1)
}

type TokenSourceMock struct {
	mock.Mock
}

func (m *TokenSourceMock) AccessToken(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *TokenSourceMock) Refresh(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

type RefresherMock struct {
	mock.Mock
}

func (m *RefresherMock) Refresh(ctx context.Context, idToken string) (session.Session, error) {
	args := m.Called(ctx, idToken)
	var sess session.Session
	if val := args.Get(0); val != nil {
		sess = val.(session.Session)
	}
	return sess, args.Error(1)
}

var _ chat.API = (*ChatAPIMock)(nil)
var _ chat.Uploader = (*UploaderMock)(nil)
var _ chat.Fetcher = (*FetcherMock)(nil)
var _ api.TokenSource = (*TokenSourceMock)(nil)
var _ session.Refresher = (*RefresherMock)(nil)
