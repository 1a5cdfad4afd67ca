package model

import (
	"agency-cms/internal/shared/database"
)

// Submission kinds, used in events, metrics and stats
const (
	KindContact     = "contact"
	KindInquiry     = "inquiry"
	KindApplication = "application"
	KindSubscriber  = "subscriber"
)

// Collections
const (
	ContactCollection     = "contact_submissions"
	InquiryCollection     = "inquiry_submissions"
	ApplicationCollection = "job_applications"
	SubscriberCollection  = "subscribers"
)

// ContactSubmission is a message from the contact form
type ContactSubmission struct {
	database.Base `bson:",inline"`
	Name          string `json:"name" bson:"name"`
	Email         string `json:"email" bson:"email"`
	Phone         string `json:"phone,omitempty" bson:"phone,omitempty"`
	Subject       string `json:"subject,omitempty" bson:"subject,omitempty"`
	Service       string `json:"service,omitempty" bson:"service,omitempty"`
	Message       string `json:"message" bson:"message"`
	Read          bool   `json:"read" bson:"read"`
	EmailError    string `json:"email_error,omitempty" bson:"email_error,omitempty"`
}

// InquirySubmission is a project inquiry
type InquirySubmission struct {
	database.Base `bson:",inline"`
	Name          string `json:"name" bson:"name"`
	Email         string `json:"email" bson:"email"`
	Phone         string `json:"phone,omitempty" bson:"phone,omitempty"`
	Company       string `json:"company,omitempty" bson:"company,omitempty"`
	Service       string `json:"service,omitempty" bson:"service,omitempty"`
	Budget        string `json:"budget,omitempty" bson:"budget,omitempty"`
	Message       string `json:"message" bson:"message"`
	Read          bool   `json:"read" bson:"read"`
	EmailError    string `json:"email_error,omitempty" bson:"email_error,omitempty"`
}

// JobApplication is tied to a posting by its title only
type JobApplication struct {
	database.Base `bson:",inline"`
	JobTitle      string `json:"job_title" bson:"job_title"`
	Name          string `json:"name" bson:"name"`
	Email         string `json:"email" bson:"email"`
	Phone         string `json:"phone,omitempty" bson:"phone,omitempty"`
	ResumeURL     string `json:"resume_url,omitempty" bson:"resume_url,omitempty"`
	PortfolioURL  string `json:"portfolio_url,omitempty" bson:"portfolio_url,omitempty"`
	CoverLetter   string `json:"cover_letter,omitempty" bson:"cover_letter,omitempty"`
	EmailError    string `json:"email_error,omitempty" bson:"email_error,omitempty"`
}

// Subscriber is a newsletter signup
type Subscriber struct {
	database.Base `bson:",inline"`
	Email         string `json:"email" bson:"email"`
}

// Stats feeds the admin dashboard
type Stats struct {
	Contacts        int64            `json:"contacts"`
	UnreadContacts  int64            `json:"unread_contacts"`
	Inquiries       int64            `json:"inquiries"`
	UnreadInquiries int64            `json:"unread_inquiries"`
	Applications    int64            `json:"applications"`
	Subscribers     int64            `json:"subscribers"`
	Content         map[string]int64 `json:"content,omitempty"`
}
