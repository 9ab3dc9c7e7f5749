package model

import "time"

// CollaboratorStatus 协作邀请状态
type CollaboratorStatus string

const (
	CollaboratorPending  CollaboratorStatus = "pending"
	CollaboratorAccepted CollaboratorStatus = "accepted"
)

// Meeting 一次预定的在线会议，有且仅有一个主持人
// swagger:model Meeting
type Meeting struct {
	UUIDBase
	Topic       string    `gorm:"size:200;not null" json:"topic"`
	Description string    `gorm:"size:5000" json:"description"`
	StartDate   time.Time `gorm:"index" json:"startDate"`
	StartTime   string    `gorm:"size:10" json:"startTime"` // "09:00"
	Duration    int       `json:"duration"`                 // 分钟
	EndDate     time.Time `json:"endDate"`
	TimeZone    string    `gorm:"size:50" json:"timeZone"`
	HostID      uint      `gorm:"index;not null" json:"hostId"`

	MuteVideo            bool `gorm:"default:false" json:"muteVideo"`
	MuteAudio            bool `gorm:"default:false" json:"muteAudio"`
	AgendaEnabled        bool `gorm:"default:true" json:"agendaEnabled"`
	TranscriptionEnabled bool `gorm:"default:false" json:"transcriptionEnabled"`

	Collaborators []MeetingCollaborator `gorm:"foreignKey:MeetingID" json:"collaborators,omitempty"`
	Participants  []MeetingParticipant  `gorm:"foreignKey:MeetingID" json:"participants,omitempty"`
	Files         []MeetingFile         `gorm:"foreignKey:MeetingID" json:"files,omitempty"`
	AgendaItems   []AgendaItem          `gorm:"foreignKey:MeetingID" json:"agendaItems,omitempty"`
}

func (Meeting) TableName() string {
	return "meetings"
}

// MeetingCollaborator 被邀请共同管理会议的用户
type MeetingCollaborator struct {
	BaseModel
	MeetingID string             `gorm:"size:36;index:idx_meeting_collab,unique" json:"meetingId"`
	UserID    uint               `gorm:"index:idx_meeting_collab,unique" json:"userId"`
	Status    CollaboratorStatus `gorm:"size:10;default:'pending'" json:"status"`
}

func (MeetingCollaborator) TableName() string {
	return "meeting_collaborators"
}

// MeetingParticipant 加入过会议的用户
type MeetingParticipant struct {
	BaseModel
	MeetingID string    `gorm:"size:36;index" json:"meetingId"`
	UserID    uint      `gorm:"index" json:"userId"`
	JoinedAt  time.Time `json:"joinedAt"`
}

func (MeetingParticipant) TableName() string {
	return "meeting_participants"
}

// MeetingFile 会议关联的文件元数据。
// 文件内容由客户端经预签名URL直传对象存储，服务端不校验对象是否真实写入。
type MeetingFile struct {
	BaseModel
	MeetingID string `gorm:"size:36;index" json:"meetingId"`
	Name      string `gorm:"size:255;not null" json:"name"`
	Type      string `gorm:"size:100" json:"type"`
	URL       string `gorm:"size:500" json:"url"`
	Uploader  string `gorm:"size:100" json:"uploader"`
}

func (MeetingFile) TableName() string {
	return "meeting_files"
}
