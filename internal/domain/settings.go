package domain

import "time"

// SLAConfig holds per-priority response/resolution targets maintained by
// administrators.
type SLAConfig struct {
	ID              string
	Priority        TicketPriority
	ResponseHours   int
	ResolutionHours int
	UpdatedAt       time.Time
}

// GeneralSettings is the single general-configuration document.
type GeneralSettings struct {
	CompanyName      string `json:"company_name"`
	SupportEmail     string `json:"support_email"`
	MaxFileSizeMB    int    `json:"max_file_size_mb"`
	AllowedFileTypes string `json:"allowed_file_types"`
	AutoAssignment   bool   `json:"auto_assignment"`
	RequireApproval  bool   `json:"require_approval"`
}

// EmailSettings is the single notification-configuration document.
type EmailSettings struct {
	SMTPServer     string `json:"smtp_server"`
	SMTPPort       int    `json:"smtp_port"`
	SMTPUser       string `json:"smtp_user"`
	SMTPPassword   string `json:"smtp_password"`
	NotifyOnNew    bool   `json:"notify_on_new"`
	NotifyOnUpdate bool   `json:"notify_on_update"`
	NotifyOnClose  bool   `json:"notify_on_close"`
}

// DefaultGeneralSettings returns the settings used before an admin saves any.
func DefaultGeneralSettings() GeneralSettings {
	return GeneralSettings{
		CompanyName:      "HelpDesk Pro",
		SupportEmail:     "support@example.com",
		MaxFileSizeMB:    10,
		AllowedFileTypes: ".pdf,.doc,.docx,.jpg,.jpeg,.png",
		AutoAssignment:   true,
		RequireApproval:  false,
	}
}

// DefaultEmailSettings returns the notification defaults.
func DefaultEmailSettings() EmailSettings {
	return EmailSettings{
		SMTPServer:     "smtp.gmail.com",
		SMTPPort:       587,
		NotifyOnNew:    true,
		NotifyOnUpdate: true,
		NotifyOnClose:  true,
	}
}
