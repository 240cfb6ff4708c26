package models

import (
	"encoding/json"
	"time"
)

type ContentType string

const (
	ContentProfile   ContentType = "profile"
	ContentJobAdvert ContentType = "jobAdvert"
)

func (c ContentType) IsValid() bool {
	return c == ContentProfile || c == ContentJobAdvert
}

// Draft holds unsaved edits for one content type of a lead.
type Draft struct {
	Content json.RawMessage `json:"content"`
	SavedAt time.Time       `json:"savedAt"`
}

// DraftRecord is the relational row for a draft (GORM lead store only).
type DraftRecord struct {
	LeadID      string      `gorm:"primaryKey;type:varchar(64)"`
	ContentType ContentType `gorm:"primaryKey;type:varchar(20)"`
	Content     string      `gorm:"type:mediumtext"`
	SavedAt     time.Time   `gorm:"autoCreateTime:false;autoUpdateTime:false"`
}

func (DraftRecord) TableName() string {
	return "lead_drafts"
}
