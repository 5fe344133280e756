package mailer

// EmailJob is the message published to the email queue. The worker renders
// the named template with Data and delivers the result.
type EmailJob struct {
	To       string         `json:"to"`
	Template string         `json:"template"`
	Data     map[string]any `json:"data"`
}
