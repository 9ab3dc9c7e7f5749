package model

// AgendaStatus 议程条目状态
type AgendaStatus string

const (
	AgendaPending   AgendaStatus = "pending"
	AgendaProgress  AgendaStatus = "progress"
	AgendaCompleted AgendaStatus = "completed"
	AgendaSkipped   AgendaStatus = "skipped"
)

// AgendaPriority 议程条目优先级
type AgendaPriority string

const (
	PriorityLow    AgendaPriority = "low"
	PriorityMedium AgendaPriority = "medium"
	PriorityHigh   AgendaPriority = "high"
)

// AgendaItem 会议议程中的一条。编辑时整组重建，id不跨编辑稳定；
// 顺序用显式 Position 字段持久化，不依赖插入顺序。
// 总时长只作参考，不与会议时长做服务端校验。
// swagger:model AgendaItem
type AgendaItem struct {
	UUIDBase
	Title       string         `gorm:"size:200;not null" json:"title"`
	Duration    int            `gorm:"not null" json:"duration"` // 分钟，≥1
	Description string         `gorm:"size:2000" json:"description"`
	Presenter   string         `gorm:"size:100" json:"presenter"`
	Status      AgendaStatus   `gorm:"size:10;default:'pending'" json:"status"`
	Priority    AgendaPriority `gorm:"size:10;default:'medium'" json:"priority"`
	Notes       string         `gorm:"size:2000" json:"notes"`
	MeetingID   string         `gorm:"size:36;index;not null" json:"meetingId"`
	Position    int            `json:"position"`
}

func (AgendaItem) TableName() string {
	return "agenda_items"
}

// ValidStatus 校验状态枚举
func ValidStatus(s AgendaStatus) bool {
	switch s {
	case AgendaPending, AgendaProgress, AgendaCompleted, AgendaSkipped:
		return true
	}
	return false
}

// ValidPriority 校验优先级枚举
func ValidPriority(p AgendaPriority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}
