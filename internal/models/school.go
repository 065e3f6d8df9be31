package models

import "time"

// Post is an entry in the school's announcement/social feed.
type Post struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	MediaURLs []string  `json:"media_urls,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// AttendanceRecord is one day's attendance entry for a student.
type AttendanceRecord struct {
	StudentID string    `json:"student_id"`
	Date      time.Time `json:"date"`
	Status    string    `json:"status"`
	Note      string    `json:"note,omitempty"`
}
