package models

import (
	"time"

	"gorm.io/gorm"
)

// Role labels carried by users. Nurses create orders, pharmacists review them.
const (
	RoleNurse      = "NURSE"
	RolePharmacist = "PHARMACIST"
)

// Ward is an organizational unit scoping users, patients and orders.
type Ward struct {
	ID        string    `gorm:"primaryKey;column:id" json:"id"`
	Name      string    `gorm:"size:100;not null;unique;column:name" json:"name"`
	CreatedAt time.Time `gorm:"autoCreateTime;column:created_at" json:"created_at"`
}

func (Ward) TableName() string {
	return "wards"
}

// User represents a user in the system. WardID is nil for unrestricted
// (administrative) identities.
type User struct {
	ID        string    `gorm:"primaryKey;column:id" json:"id"`
	Username  string    `gorm:"size:100;not null;unique;index;column:username" json:"username"`
	Password  string    `gorm:"size:255;not null;column:password" json:"-"`
	Email     string    `gorm:"size:255;column:email" json:"email"`
	FullName  string    `gorm:"size:255;not null;column:full_name" json:"full_name"`
	Role      string    `gorm:"size:50;not null;index;check:role IN ('NURSE', 'PHARMACIST');column:role" json:"role"`
	WardID    *string   `gorm:"index;column:ward_id" json:"ward_id"`
	Ward      *Ward     `gorm:"foreignKey:WardID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"ward,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime;column:created_at" json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

// SeedWards inserts initial wards into the database.
func SeedWards(db *gorm.DB) error {
	initialWards := []Ward{
		{ID: "ward-med", Name: "Medicine"},
		{ID: "ward-onco", Name: "Oncology"},
	}
	return db.Transaction(func(tx *gorm.DB) error {
		for _, ward := range initialWards {
			if err := tx.FirstOrCreate(&ward, Ward{ID: ward.ID}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
