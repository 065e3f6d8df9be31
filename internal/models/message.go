package models

import "time"

// SenderRole identifies which side of a conversation authored a message.
type SenderRole string

const (
	RoleStaff    SenderRole = "staff"
	RoleGuardian SenderRole = "guardian"
)

// StaffRole identifies the staff member's position in a conversation.
type StaffRole string

const (
	StaffAdmin   StaffRole = "admin"
	StaffTeacher StaffRole = "teacher"
)

// ConversationKey identifies a messaging thread between one guardian/student
// pair and one staff member.
type ConversationKey struct {
	StaffID   string `json:"staff_id"`
	StudentID string `json:"student_id"`
}

// Attachment describes a blob referenced by a message.
type Attachment struct {
	URL      string `json:"url"`
	Type     string `json:"type"`
	MimeType string `json:"mime_type"`
	FileName string `json:"file_name"`
	FileSize int64  `json:"file_size"`
}

// Message is a single chat entry. Confirmed messages carry a server-assigned
// id; pending ones carry a client-generated "temp-..." id and IsOptimistic=true.
type Message struct {
	ID           string      `json:"id"`
	SenderRole   SenderRole  `json:"sender_role"`
	Content      string      `json:"content"`
	CreatedAt    time.Time   `json:"created_at"`
	Attachment   *Attachment `json:"attachment,omitempty"`
	IsOptimistic bool        `json:"is_optimistic,omitempty"`
}

// Conversation is a server-fetched messaging thread. Messages are ordered
// chronologically; the client never persists conversations across sessions.
type Conversation struct {
	StaffID   string    `json:"staff_id"`
	StudentID string    `json:"student_id"`
	Role      StaffRole `json:"role"`
	Messages  []Message `json:"messages"`
	Unread    int       `json:"unread"`
}

// Key returns the conversation key for this thread.
func (c Conversation) Key() ConversationKey {
	return ConversationKey{StaffID: c.StaffID, StudentID: c.StudentID}
}

// SendMessageRequest is the payload for posting a chat message.
type SendMessageRequest struct {
	Content    string      `json:"content"`
	Attachment *Attachment `json:"attachment,omitempty"`
}
