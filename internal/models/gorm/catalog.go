package gorm

import (
	"encoding/json"
	"time"
)

// Manufacturer is a ship manufacturer synced from the catalog API.
// The code is the natural key used for get-or-create resolution.
type Manufacturer struct {
	ID          uint            `gorm:"column:id;primaryKey;autoIncrement"`
	Code        string          `gorm:"column:code;uniqueIndex;size:10"`
	Name        string          `gorm:"column:name;uniqueIndex;size:100"`
	Description string          `gorm:"column:description"`
	LogoURL     string          `gorm:"column:logo_url;size:500"`
	APIData     json.RawMessage `gorm:"column:api_data;type:jsonb"`
	LastSynced  time.Time       `gorm:"column:last_synced;autoUpdateTime"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (Manufacturer) TableName() string {
	return "ship_manufacturers"
}

// Ship is a catalog ship. Natural key is (manufacturer, model); when the
// upstream payload carries a numeric id it is stored in ExternalID and takes
// precedence during sync lookups.
type Ship struct {
	ID             uint            `gorm:"column:id;primaryKey;autoIncrement"`
	ExternalID     *int64          `gorm:"column:external_id;uniqueIndex"`
	ManufacturerID uint            `gorm:"column:manufacturer_id;uniqueIndex:idx_ships_mfr_model"`
	Model          string          `gorm:"column:model;uniqueIndex:idx_ships_mfr_model;size:100"`
	Name           string          `gorm:"column:name;index;size:200"`
	Type           string          `gorm:"column:type;index;size:50"`
	Size           string          `gorm:"column:size;index;size:20"`
	Focus          string          `gorm:"column:focus;size:100"`
	Description    string          `gorm:"column:description"`
	Length         *float64        `gorm:"column:length"`
	Beam           *float64        `gorm:"column:beam"`
	Height         *float64        `gorm:"column:height"`
	Mass           *float64        `gorm:"column:mass"`
	CrewMin        *int            `gorm:"column:crew_min"`
	CrewMax        *int            `gorm:"column:crew_max"`
	CargoCapacity  *int            `gorm:"column:cargo_capacity"`
	MaxSpeed       *int            `gorm:"column:max_speed"`
	Price          *float64        `gorm:"column:price"`
	ImageURL       string          `gorm:"column:image_url;size:500"`
	StoreURL       string          `gorm:"column:store_url;size:500"`
	IsFlightReady  bool            `gorm:"column:is_flight_ready;index;default:false"`
	IsConcept      bool            `gorm:"column:is_concept;default:false"`
	APIData        json.RawMessage `gorm:"column:api_data;type:jsonb"`
	LastSynced     time.Time       `gorm:"column:last_synced;autoUpdateTime"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`

	Manufacturer Manufacturer    `gorm:"foreignKey:ManufacturerID"`
	Components   []ShipComponent `gorm:"foreignKey:ShipID;constraint:OnDelete:CASCADE"`
}

func (Ship) TableName() string {
	return "ships"
}

// ShipComponent is an installed component slot on a ship
type ShipComponent struct {
	ID       uint   `gorm:"column:id;primaryKey;autoIncrement"`
	ShipID   uint   `gorm:"column:ship_id;index:idx_components_ship_type"`
	Type     string `gorm:"column:type;index:idx_components_ship_type;size:50"`
	Name     string `gorm:"column:name;size:200"`
	Size     string `gorm:"column:size;size:20"`
	Quantity int    `gorm:"column:quantity;default:1"`
}

func (ShipComponent) TableName() string {
	return "ship_components"
}
