package models

import "time"

// Fixed names of the singleton settings documents.
const (
	SettingsGeneral    = "general"
	SettingsAppearance = "appearance"
	SettingsSEO        = "seo"
)

// SettingsDoc is the storage row for one singleton settings document. The
// payload is an opaque JSON blob; typed access and defaulting happen in the
// settings store, not in readers.
type SettingsDoc struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	Name      string    `gorm:"size:32;uniqueIndex;not null" json:"name"`
	Data      []byte    `gorm:"type:jsonb" json:"data"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Generation schedule frequencies.
const (
	FrequencyDaily  = "daily"
	FrequencyWeekly = "weekly"
)

// ScheduleSettings controls the automatic generation trigger.
type ScheduleSettings struct {
	// Frequency is "daily" or "weekly".
	Frequency string `json:"frequency"`
	// Time is the local wall-clock trigger time, "HH:mm".
	Time string `json:"time"`
}

// GeneralSettings is the `general` singleton document.
type GeneralSettings struct {
	BlogTitle   string           `json:"blog_title"`
	WebsiteName string           `json:"website_name"`
	LogoURL     string           `json:"logo_url"`
	Topic       string           `json:"topic"`
	BasePrompt  string           `json:"base_prompt"`
	Schedule    ScheduleSettings `json:"schedule"`
}

// DefaultGeneralSettings returns the defaults merged in by the settings store
// when fields are missing.
func DefaultGeneralSettings() GeneralSettings {
	return GeneralSettings{
		BlogTitle:   "Blog",
		WebsiteName: "Blog",
		Schedule: ScheduleSettings{
			Frequency: FrequencyDaily,
			Time:      "19:00",
		},
	}
}

// SocialLink is one footer social link.
type SocialLink struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// AppearanceSettings is the `appearance` singleton document.
type AppearanceSettings struct {
	PrimaryColor string       `json:"primary_color"`
	AccentColor  string       `json:"accent_color"`
	FooterText   string       `json:"footer_text"`
	SocialLinks  []SocialLink `json:"social_links"`
}

// DefaultAppearanceSettings returns the appearance defaults.
func DefaultAppearanceSettings() AppearanceSettings {
	return AppearanceSettings{
		PrimaryColor: "#1a1a2e",
		AccentColor:  "#e94560",
	}
}

// SEOSettings is the `seo` singleton document.
type SEOSettings struct {
	MetaTitle       string `json:"meta_title"`
	MetaDescription string `json:"meta_description"`
	AnalyticsID     string `json:"analytics_id"`
	RobotsRules     string `json:"robots_rules"`
}

// DefaultSEOSettings returns the SEO defaults.
func DefaultSEOSettings() SEOSettings {
	return SEOSettings{
		RobotsRules: "User-agent: *\nAllow: /",
	}
}
