package domain

// ContactMessage is a contact-form submission to be relayed by mail.
type ContactMessage struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// MailMessage is a rendered outbound email.
type MailMessage struct {
	FromName string
	ReplyTo  string
	Subject  string
	Body     string
}
