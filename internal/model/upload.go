package model

// UploadedFile 服务端签发预签名URL或代传文件时登记的元数据。
// 直传场景下对象可能从未被客户端写入，行依然存在。
type UploadedFile struct {
	BaseModel
	Key         string  `gorm:"size:500;index;not null" json:"key"`
	Name        string  `gorm:"size:255;not null" json:"name"`
	ContentType string  `gorm:"size:100" json:"contentType"`
	Size        int64   `json:"size"`
	URL         string  `gorm:"size:500" json:"url"`
	UploaderID  uint    `gorm:"index" json:"uploaderId"`
	Duration    float64 `json:"duration"` // 视频时长（秒），非视频为0
	Width       int     `json:"width"`
	Height      int     `json:"height"`
}

func (UploadedFile) TableName() string {
	return "uploaded_files"
}
