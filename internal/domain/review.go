package domain

import "time"

// Review platforms accepted on write.
const (
	PlatformBooking = "booking"
	PlatformAirbnb  = "airbnb"
	PlatformDirect  = "direct"
)

func ValidPlatform(p string) bool {
	return p == PlatformBooking || p == PlatformAirbnb || p == PlatformDirect
}

type Review struct {
	ID           string    `json:"id"`
	GuestName    string    `json:"guestName"`
	Country      string    `json:"country"`
	Flag         string    `json:"flag"`
	Rating       int       `json:"rating"`
	ReviewText   string    `json:"reviewText"`
	Platform     string    `json:"platform"`
	StayDate     *string   `json:"stayDate"`
	StayDuration *string   `json:"stayDuration"`
	GuestCount   int       `json:"guestCount"`
	HostResponse *string   `json:"hostResponse"`
	PhotoURL     *string   `json:"photoUrl"`
	PhotoKey     *string   `json:"photoKey,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	IsActive     bool      `json:"-"`
}

// ReviewDetail is the single-review read model: the review plus the photo
// metadata joined in when a photo is linked.
type ReviewDetail struct {
	Review
	Photo *Photo `json:"photo,omitempty"`
}

// ReviewPatch carries a partial update; nil fields keep their prior value.
type ReviewPatch struct {
	GuestName    *string `json:"guestName"`
	Country      *string `json:"country"`
	Flag         *string `json:"flag"`
	Rating       *int    `json:"rating"`
	ReviewText   *string `json:"reviewText"`
	Platform     *string `json:"platform"`
	StayDate     *string `json:"stayDate"`
	StayDuration *string `json:"stayDuration"`
	GuestCount   *int    `json:"guestCount"`
	HostResponse *string `json:"hostResponse"`
	PhotoURL     *string `json:"photoUrl"`
	PhotoKey     *string `json:"photoKey"`
}

var countryFlags = map[string]string{
	"Chile":          "🇨🇱",
	"Argentina":      "🇦🇷",
	"Brasil":         "🇧🇷",
	"Perú":           "🇵🇪",
	"Estados Unidos": "🇺🇸",
	"Canadá":         "🇨🇦",
	"España":         "🇪🇸",
	"Alemania":       "🇩🇪",
	"Francia":        "🇫🇷",
	"Reino Unido":    "🇬🇧",
	"Australia":      "🇦🇺",
}

// CountryFlag returns the display glyph for a country, falling back to a
// generic globe for countries outside the table.
func CountryFlag(country string) string {
	if f, ok := countryFlags[country]; ok {
		return f
	}
	return "🌍"
}
