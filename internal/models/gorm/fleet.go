package gorm

import "time"

// FleetShip is a ship owned by an organization member. Ships referenced by
// fleet rows must not be deleted; deleting the owner cascades.
type FleetShip struct {
	ID                     uint       `gorm:"column:id;primaryKey;autoIncrement"`
	ShipID                 uint       `gorm:"column:ship_id;index:idx_fleet_ship_status"`
	OwnerID                uint       `gorm:"column:owner_id;index:idx_fleet_owner_status"`
	Name                   string     `gorm:"column:name;size:200"`
	PurchasedDate          *time.Time `gorm:"column:purchased_date"`
	Status                 string     `gorm:"column:status;index:idx_fleet_ship_status,idx_fleet_owner_status;size:20;default:active"`
	Notes                  string     `gorm:"column:notes"`
	IsAvailableForMissions bool       `gorm:"column:is_available_for_missions;default:false"`
	CreatedAt              time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt              time.Time  `gorm:"column:updated_at;autoUpdateTime"`

	Ship Ship `gorm:"foreignKey:ShipID"`
}

func (FleetShip) TableName() string {
	return "fleet_ships"
}
