package model

// Channel 内容发布者的顶层容器，下挂课程
// swagger:model Channel
type Channel struct {
	UUIDBase
	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:1000" json:"description"`
	Thumbnail   string `gorm:"size:255" json:"thumbnail"`
	UserID      uint   `gorm:"index;not null" json:"userId"` // 频道所有者

	Courses []Course `gorm:"foreignKey:ChannelID" json:"courses,omitempty"`
}

func (Channel) TableName() string {
	return "channels"
}

// Subscription 用户订阅频道，同一对(user, channel)只允许一条
type Subscription struct {
	BaseModel
	UserID    uint   `gorm:"index:idx_user_channel,unique" json:"userId"`
	ChannelID string `gorm:"size:36;index:idx_user_channel,unique" json:"channelId"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
