package model

// CompletionType 完成记录指向的目标实体类型
type CompletionType string

const (
	CompletionLesson CompletionType = "LESSON"
	CompletionSlide  CompletionType = "SLIDE"
	CompletionCourse CompletionType = "COURSE"
)

// CompletionLevel 进度档位
type CompletionLevel string

const (
	LevelCompleted  CompletionLevel = "COMPLETED"
	LevelInProgress CompletionLevel = "IN_PROGRESS"
	LevelNotStarted CompletionLevel = "NOT_STARTED"
)

// CompletionRecord 记录用户完成了某个课时/幻灯片/课程。
// 目标以 (Type, TargetID) 标签联合表示；唯一索引保证同一目标
// 每用户至多一条记录，写入仍走先查后插。
// swagger:model CompletionRecord
type CompletionRecord struct {
	BaseModel
	UserID   uint            `gorm:"index:idx_user_completion,unique" json:"userId"`
	Type     CompletionType  `gorm:"size:10;index:idx_user_completion,unique" json:"type"`
	TargetID string          `gorm:"size:36;index:idx_user_completion,unique" json:"targetId"`
	Level    CompletionLevel `gorm:"size:15;default:'COMPLETED'" json:"level"`
}

func (CompletionRecord) TableName() string {
	return "completion_records"
}
