package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	MindMapStatusReady       = "ready"
	MindMapStatusPassThrough = "passthrough"

	MindMapSourceGenerate = "generate"
	MindMapSourceIngest   = "ingest"
)

// MindMap is one stored build. Graph holds the canonical graph for ready maps; Raw keeps
// the payload the graph was built from (or the untouched input for pass-through maps).
type MindMap struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index:idx_mind_map_user_created,priority:1" json:"user_id"`

	Subject string `gorm:"column:subject;not null" json:"subject"`
	Title   string `gorm:"column:title;not null" json:"title"`
	Source  string `gorm:"column:source;not null;index" json:"source"`
	Status  string `gorm:"column:status;not null;index" json:"status"`

	Graph    datatypes.JSON `gorm:"column:graph" json:"graph,omitempty"`
	Raw      datatypes.JSON `gorm:"column:raw" json:"raw,omitempty"`
	Warnings datatypes.JSON `gorm:"column:warnings" json:"warnings,omitempty"`

	NodeCount  int `gorm:"column:node_count;not null;default:0" json:"node_count"`
	TopicCount int `gorm:"column:topic_count;not null;default:0" json:"topic_count"`
	MaxDepth   int `gorm:"column:max_depth;not null;default:0" json:"max_depth"`

	Model             string `gorm:"column:model" json:"model,omitempty"`
	PromptFingerprint string `gorm:"column:prompt_fingerprint" json:"prompt_fingerprint,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime;index:idx_mind_map_user_created,priority:2" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (MindMap) TableName() string { return "mind_map" }

func (m *MindMap) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

func (m *MindMap) IsPassThrough() bool {
	return m != nil && m.Status == MindMapStatusPassThrough
}
