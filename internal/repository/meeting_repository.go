package repository

import (
	"time"
	"xtreme_region_backend/internal/model"

	"gorm.io/gorm"
)

type MeetingRepository struct {
	DB *gorm.DB
}

func NewMeetingRepository(db *gorm.DB) *MeetingRepository {
	return &MeetingRepository{DB: db}
}

func (r *MeetingRepository) Create(meeting *model.Meeting) error {
	return r.DB.Create(meeting).Error
}

func (r *MeetingRepository) FindByID(id string) (*model.Meeting, error) {
	var meeting model.Meeting
	err := r.DB.Where("id = ?", id).First(&meeting).Error
	return &meeting, err
}

func (r *MeetingRepository) FindByIDFull(id string) (*model.Meeting, error) {
	var meeting model.Meeting
	err := r.DB.
		Preload("Collaborators").
		Preload("Participants").
		Preload("Files").
		Preload("AgendaItems", func(db *gorm.DB) *gorm.DB {
			return db.Order("position")
		}).
		Where("id = ?", id).First(&meeting).Error
	return &meeting, err
}

// FindForUser 返回用户作为主持人/协作者/参会者的会议
func (r *MeetingRepository) FindForUser(userID uint, upcoming bool) ([]model.Meeting, error) {
	var meetings []model.Meeting

	sub := r.DB.Model(&model.MeetingCollaborator{}).
		Select("meeting_id").
		Where("user_id = ?", userID)
	subP := r.DB.Model(&model.MeetingParticipant{}).
		Select("meeting_id").
		Where("user_id = ?", userID)

	q := r.DB.Where("host_id = ? OR id IN (?) OR id IN (?)", userID, sub, subP)
	if upcoming {
		q = q.Where("start_date >= ?", time.Now().Truncate(24*time.Hour)).Order("start_date")
	} else {
		q = q.Where("start_date < ?", time.Now().Truncate(24*time.Hour)).Order("start_date DESC")
	}

	err := q.Find(&meetings).Error
	return meetings, err
}

// FindStartingBetween 供后台提醒任务使用
func (r *MeetingRepository) FindStartingBetween(from, to time.Time) ([]model.Meeting, error) {
	var meetings []model.Meeting
	err := r.DB.Preload("Collaborators").
		Where("start_date >= ? AND start_date < ?", from, to).
		Find(&meetings).Error
	return meetings, err
}

func (r *MeetingRepository) Update(meeting *model.Meeting) error {
	return r.DB.Save(meeting).Error
}

func (r *MeetingRepository) Delete(id string) error {
	return r.DB.Where("id = ?", id).Delete(&model.Meeting{}).Error
}

// CreateFile 每个文件单独一次插入，调用方按序逐个执行（非事务，保持既有语义）
func (r *MeetingRepository) CreateFile(file *model.MeetingFile) error {
	return r.DB.Create(file).Error
}

func (r *MeetingRepository) FindCollaborator(meetingID string, userID uint) (*model.MeetingCollaborator, error) {
	var collab model.MeetingCollaborator
	err := r.DB.Where("meeting_id = ? AND user_id = ?", meetingID, userID).First(&collab).Error
	return &collab, err
}

func (r *MeetingRepository) CreateCollaborator(collab *model.MeetingCollaborator) error {
	return r.DB.Create(collab).Error
}

func (r *MeetingRepository) UpdateCollaboratorStatus(id uint, status model.CollaboratorStatus) error {
	return r.DB.Model(&model.MeetingCollaborator{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *MeetingRepository) DeleteCollaborator(id uint) error {
	return r.DB.Delete(&model.MeetingCollaborator{}, id).Error
}

func (r *MeetingRepository) FindParticipant(meetingID string, userID uint) (*model.MeetingParticipant, error) {
	var p model.MeetingParticipant
	err := r.DB.Where("meeting_id = ? AND user_id = ?", meetingID, userID).First(&p).Error
	return &p, err
}

func (r *MeetingRepository) CreateParticipant(p *model.MeetingParticipant) error {
	return r.DB.Create(p).Error
}
