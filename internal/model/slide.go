package model

// NoteType 幻灯片内容块类型
type NoteType string

const (
	NoteText  NoteType = "text"
	NoteImage NoteType = "image"
	NoteVideo NoteType = "video"
)

// FinalSlide 课时内持久化的幻灯片。每次保存都会整体重建，id不跨保存稳定
// swagger:model FinalSlide
type FinalSlide struct {
	UUIDBase
	Title    string `gorm:"size:200;not null" json:"title"`
	LessonID string `gorm:"size:36;index;not null" json:"lessonId"`
	Position int    `json:"position"`

	Notes []Note `gorm:"foreignKey:FinalSlideID" json:"notes,omitempty"`
}

func (FinalSlide) TableName() string {
	return "final_slides"
}

// Note 幻灯片内的有序内容块
// swagger:model Note
type Note struct {
	UUIDBase
	Content      string   `gorm:"size:5000" json:"content"`
	Type         NoteType `gorm:"size:10;default:'text'" json:"type"`
	Source       string   `gorm:"size:500" json:"source"` // image/video 的资源地址
	FinalSlideID string   `gorm:"size:36;index;not null" json:"finalSlideId"`
	Order        int      `gorm:"column:sort_order" json:"order"` // 保存时按数组位置赋值
}

func (Note) TableName() string {
	return "notes"
}
