package model

// NotificationPriority 公告优先级
type NotificationPriority string

const (
	NotifyLow    NotificationPriority = "LOW"
	NotifyNormal NotificationPriority = "NORMAL"
	NotifyHigh   NotificationPriority = "HIGH"
	NotifyUrgent NotificationPriority = "URGENT"
)

// 标题/正文长度上限在action边界校验，存储层不截断
const (
	NotificationTitleMax   = 200
	NotificationContentMax = 5000
)

// Notification 课程范围的公告
// swagger:model Notification
type Notification struct {
	UUIDBase
	Title            string               `gorm:"size:200;not null" json:"title"`
	Content          string               `gorm:"size:5000;not null" json:"content"`
	Priority         NotificationPriority `gorm:"size:10;default:'NORMAL'" json:"priority"`
	IsPinned         bool                 `gorm:"default:false" json:"isPinned"`
	Category         string               `gorm:"size:50" json:"category"`
	TargetedAudience AccessLevel          `gorm:"size:20;default:'public'" json:"targetedAudience"`
	AuthorID         uint                 `gorm:"index;not null" json:"authorId"`
	CourseID         string               `gorm:"size:36;index;not null" json:"courseId"`
}

func (Notification) TableName() string {
	return "notifications"
}

// NotificationView 每用户的已读回执，同一对(notification, user)至多一条
type NotificationView struct {
	BaseModel
	NotificationID string `gorm:"size:36;index:idx_notification_user,unique" json:"notificationId"`
	UserID         uint   `gorm:"index:idx_notification_user,unique" json:"userId"`
}

func (NotificationView) TableName() string {
	return "notification_views"
}

// ValidNotificationPriority 校验优先级枚举
func ValidNotificationPriority(p NotificationPriority) bool {
	switch p {
	case NotifyLow, NotifyNormal, NotifyHigh, NotifyUrgent:
		return true
	}
	return false
}
