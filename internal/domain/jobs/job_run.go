package jobs

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	JobTypePriorityCacheRefresh = "priority_cache_refresh"

	JobStatusQueued    = "queued"
	JobStatusRunning   = "running"
	JobStatusSucceeded = "succeeded"
	JobStatusFailed    = "failed"
	JobStatusCanceled  = "canceled"
)

// JobRun is a durable background job row claimed by the worker pool.
type JobRun struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OrganizationID uuid.UUID `gorm:"type:uuid;not null;index" json:"organization_id"`
	JobType        string    `gorm:"column:job_type;not null;index" json:"job_type"`

	Status   string `gorm:"column:status;not null;index" json:"status"`
	Stage    string `gorm:"column:stage;not null" json:"stage"`
	Progress int    `gorm:"column:progress;not null;default:0" json:"progress"`
	Message  string `gorm:"column:message" json:"message,omitempty"`
	Attempts int    `gorm:"column:attempts;not null;default:0" json:"attempts"`
	Error    string `gorm:"column:error" json:"error,omitempty"`

	LockedAt    *time.Time `gorm:"column:locked_at;index" json:"locked_at,omitempty"`
	HeartbeatAt *time.Time `gorm:"column:heartbeat_at;index" json:"heartbeat_at,omitempty"`
	LastErrorAt *time.Time `gorm:"column:last_error_at;index" json:"last_error_at,omitempty"`

	Payload datatypes.JSON `gorm:"column:payload;type:jsonb" json:"payload"`
	Result  datatypes.JSON `gorm:"column:result;type:jsonb" json:"result"`

	CreatedAt time.Time      `gorm:"not null;default:now();index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now();index" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (JobRun) TableName() string { return "job_run" }
