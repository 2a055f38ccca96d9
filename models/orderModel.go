package models

import (
	"encoding/json"
	"log"
	"time"
)

// Order status values. PENDING is the only non-terminal state.
const (
	OrderStatusPending   = "PENDING"
	OrderStatusCompleted = "COMPLETED"
	OrderStatusRejected  = "REJECTED"
)

// Patient status values gating default listing.
const (
	PatientStatusActive    = "ACTIVE"
	PatientStatusCompleted = "COMPLETED"
)

// Notification types.
const (
	NotificationNewOrder    = "new_order"
	NotificationOrderStatus = "order_status"
)

// OrderDrug is one dosing entry embedded in an order. Name is only carried
// for free-text ("other") drugs; catalog drugs get their name at read time.
type OrderDrug struct {
	DrugID string `json:"drugId"`
	Dose   string `json:"dose"`
	Day    string `json:"day"`
	Name   string `json:"name,omitempty"`
}

// Attachment describes one uploaded file attached to an order.
type Attachment struct {
	FileName string `json:"fileName"`
	FileURL  string `json:"fileUrl"`
	FileType string `json:"fileType"`
	FileSize int64  `json:"fileSize"`
}

// Order is a chemotherapy drug order. Drugs and Attachments are stored as
// serialized JSON text; use ParseOrderDrugs/ParseAttachments to read them.
type Order struct {
	ID             string     `gorm:"primaryKey;column:id" json:"id"`
	PatientID      string     `gorm:"column:patient_id;not null;index" json:"patient_id"`
	WardID         string     `gorm:"column:ward_id;not null;index" json:"ward_id"`
	CreatedByID    string     `gorm:"column:created_by_id;not null;index" json:"created_by_id"`
	ApprovedByID   *string    `gorm:"column:approved_by_id" json:"approved_by_id"`
	RegimenID      string     `gorm:"column:regimen_id" json:"regimen_id"`
	Drugs          string     `gorm:"type:text;column:drugs" json:"-"`
	Attachments    string     `gorm:"type:text;column:attachments" json:"-"`
	Notes          string     `gorm:"type:text;column:notes" json:"notes"`
	Status         string     `gorm:"size:20;not null;index;check:status IN ('PENDING', 'COMPLETED', 'REJECTED');column:status" json:"status"`
	StartDate      *time.Time `gorm:"column:start_date" json:"start_date"`
	CompletionDate *time.Time `gorm:"column:completion_date" json:"completion_date"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime;index" json:"updated_at"`
	Patient        *Patient   `gorm:"foreignKey:PatientID;references:ID" json:"patient,omitempty"`
	CreatedBy      *User      `gorm:"foreignKey:CreatedByID;references:ID" json:"created_by,omitempty"`
	ApprovedBy     *User      `gorm:"foreignKey:ApprovedByID;references:ID" json:"approved_by,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// Patient is keyed internally by ID but identified by hospital number (HN);
// writes through the order path upsert on HN.
type Patient struct {
	ID        string    `gorm:"primaryKey;column:id" json:"id"`
	HN        string    `gorm:"size:50;not null;unique;index;column:hn" json:"hn"`
	AN        string    `gorm:"size:50;column:an" json:"an"`
	FullName  string    `gorm:"size:255;not null;column:full_name" json:"full_name"`
	WardID    string    `gorm:"column:ward_id;index" json:"ward_id"`
	Status    string    `gorm:"size:20;not null;default:ACTIVE;check:status IN ('ACTIVE', 'COMPLETED');column:status" json:"status"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	Orders    []Order   `gorm:"foreignKey:PatientID;references:ID" json:"orders,omitempty"`
}

func (Patient) TableName() string {
	return "patients"
}

// Notification is exclusively owned by its recipient. Rows are persisted
// before any realtime push so delivery failures never lose them.
type Notification struct {
	ID        string    `gorm:"primaryKey;column:id" json:"id"`
	UserID    string    `gorm:"column:user_id;not null;index" json:"user_id"`
	Message   string    `gorm:"type:text;not null;column:message" json:"message"`
	Type      string    `gorm:"size:20;not null;check:type IN ('new_order', 'order_status');column:type" json:"type"`
	Status    string    `gorm:"size:20;column:status" json:"status"`
	RelatedID string    `gorm:"column:related_id;index" json:"related_id"`
	IsRead    bool      `gorm:"not null;default:false;column:is_read" json:"is_read"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

// Drug is a catalog entry used to decorate stored drug references.
type Drug struct {
	ID          string `gorm:"primaryKey;column:id" json:"id"`
	Name        string `gorm:"size:255;not null;column:name" json:"name"`
	Description string `gorm:"type:text;column:description" json:"description"`
}

func (Drug) TableName() string {
	return "drugs"
}

// Regimen is a predefined multi-drug treatment protocol. Drugs, SideEffects
// and Precautions are stored as JSON text; handlers decode them into the
// response shape.
type Regimen struct {
	ID           string `gorm:"primaryKey;column:id" json:"id"`
	Name         string `gorm:"size:255;not null;column:name" json:"name"`
	Drugs        string `gorm:"type:text;column:drugs" json:"drugs"`
	Instructions string `gorm:"type:text;column:instructions" json:"instructions"`
	SideEffects  string `gorm:"type:text;column:side_effects" json:"side_effects"`
	Precautions  string `gorm:"type:text;column:precautions" json:"precautions"`
}

func (Regimen) TableName() string {
	return "regimens"
}

// ParseAttachments decodes a stored attachment column. Malformed JSON
// recovers to an empty list rather than failing the request.
func ParseAttachments(raw string) []Attachment {
	if raw == "" {
		return []Attachment{}
	}
	var attachments []Attachment
	if err := json.Unmarshal([]byte(raw), &attachments); err != nil {
		log.Printf("Error parsing attachments JSON: %v", err)
		return []Attachment{}
	}
	if attachments == nil {
		return []Attachment{}
	}
	return attachments
}

// ParseOrderDrugs decodes a stored drugs column with the same recovery
// semantics as ParseAttachments.
func ParseOrderDrugs(raw string) []OrderDrug {
	if raw == "" {
		return []OrderDrug{}
	}
	var drugs []OrderDrug
	if err := json.Unmarshal([]byte(raw), &drugs); err != nil {
		log.Printf("Error parsing drugs JSON: %v", err)
		return []OrderDrug{}
	}
	if drugs == nil {
		return []OrderDrug{}
	}
	return drugs
}

// EncodeJSON serializes embedded lists for storage. A nil slice encodes as
// an empty JSON array so the column is never NULL-ambiguous.
func EncodeJSON(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("Error encoding JSON column: %v", err)
		return "[]"
	}
	if string(data) == "null" {
		return "[]"
	}
	return string(data)
}
