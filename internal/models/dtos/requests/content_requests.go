package requests

import "time"

type BlogPostRequest struct {
	Title       string `json:"title" validate:"required"`
	Summary     string `json:"summary"`
	Content     string `json:"content" validate:"required"`
	CoverURL    string `json:"cover_url"`
	IsPublished bool   `json:"is_published"`
}

type ItemRequest struct {
	Name        string   `json:"name" validate:"required"`
	Category    string   `json:"category" validate:"required"`
	SubCategory string   `json:"sub_category"`
	Description string   `json:"description"`
	Size        *int     `json:"size"`
	Grade       string   `json:"grade"`
	Price       *float64 `json:"price"`
	ImageURL    string   `json:"image_url"`
	IsAvailable *bool    `json:"is_available"`
}

type FleetShipRequest struct {
	ShipID                 uint       `json:"ship_id" validate:"required"`
	Name                   string     `json:"name"`
	PurchasedDate          *time.Time `json:"purchased_date"`
	Status                 string     `json:"status"`
	Notes                  string     `json:"notes"`
	IsAvailableForMissions *bool      `json:"is_available_for_missions"`
}

type SquadronRequest struct {
	Name         string `json:"name" validate:"required"`
	Callsign     string `json:"callsign" validate:"required"`
	Description  string `json:"description"`
	Motto        string `json:"motto"`
	Focus        string `json:"focus"`
	IsRecruiting *bool  `json:"is_recruiting"`
	MaxMembers   *int   `json:"max_members"`
	LogoURL      string `json:"logo_url"`
	ColorCode    string `json:"color_code"`
}

type ContactRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required"`
	Subject string `json:"subject"`
	Message string `json:"message" validate:"required"`
}
