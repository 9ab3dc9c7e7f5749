package model

// swagger:model Lesson
type Lesson struct {
	UUIDBase
	Title       string  `gorm:"size:200;not null" json:"title"`
	Description string  `gorm:"size:5000" json:"description"`
	VideoURL    string  `gorm:"size:500" json:"videoUrl"`
	Thumbnail   string  `gorm:"size:500" json:"thumbnail"` // 上传视频时抓帧生成
	Duration    float64 `json:"duration"`                  // 视频时长（秒），上传时由ffmpeg探测
	Position    int     `json:"position"` // 课程内顺序
	CourseID    string  `gorm:"size:36;index;not null" json:"courseId"`
	UserID      uint    `gorm:"index;not null" json:"userId"`

	Slides []FinalSlide `gorm:"foreignKey:LessonID" json:"slides,omitempty"`
}

func (Lesson) TableName() string {
	return "lessons"
}

// LessonView 观看记录，用于分析统计，允许重复
type LessonView struct {
	BaseModel
	UserID   uint   `gorm:"index" json:"userId"`
	LessonID string `gorm:"size:36;index" json:"lessonId"`
}

func (LessonView) TableName() string {
	return "lesson_views"
}

// LessonLike 点赞，同一对(user, lesson)只允许一条
type LessonLike struct {
	BaseModel
	UserID   uint   `gorm:"index:idx_user_lesson_like,unique" json:"userId"`
	LessonID string `gorm:"size:36;index:idx_user_lesson_like,unique" json:"lessonId"`
}

func (LessonLike) TableName() string {
	return "lesson_likes"
}

// SlideComment 评论锚定到幻灯片id；幻灯片整体重建后锚点会失效（沿用现有行为）
type SlideComment struct {
	BaseModel
	UserID       uint   `gorm:"index" json:"userId"`
	LessonID     string `gorm:"size:36;index" json:"lessonId"`
	FinalSlideID string `gorm:"size:36;index" json:"finalSlideId"`
	Content      string `gorm:"size:2000;not null" json:"content"`
}

func (SlideComment) TableName() string {
	return "slide_comments"
}
