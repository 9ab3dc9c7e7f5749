package model

// AccessLevel 课程/公告的目标受众
type AccessLevel string

const (
	AccessPublic     AccessLevel = "public"
	AccessRegistered AccessLevel = "registered"
	AccessPremium    AccessLevel = "premium"
)

// swagger:model Course
type Course struct {
	UUIDBase
	Title       string      `gorm:"size:200;not null" json:"title"`
	Description string      `gorm:"size:5000" json:"description"`
	Thumbnail   string      `gorm:"size:255" json:"thumbnail"`
	AccessLevel AccessLevel `gorm:"size:20;default:'public'" json:"accessLevel"`
	Published   bool        `gorm:"default:false" json:"published"`
	ChannelID   string      `gorm:"size:36;index;not null" json:"channelId"`
	UserID      uint        `gorm:"index;not null" json:"userId"` // 课程所有者

	Lessons []Lesson `gorm:"foreignKey:CourseID" json:"lessons,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

// CourseRating 用户对课程的评分，同一对(user, course)只允许一条
type CourseRating struct {
	BaseModel
	UserID   uint   `gorm:"index:idx_user_course_rating,unique" json:"userId"`
	CourseID string `gorm:"size:36;index:idx_user_course_rating,unique" json:"courseId"`
	Stars    int    `gorm:"not null" json:"stars"` // 1-5
	Review   string `gorm:"size:2000" json:"review"`
}

func (CourseRating) TableName() string {
	return "course_ratings"
}
