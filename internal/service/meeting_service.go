package service

import (
	"errors"
	"time"
	"xtreme_region_backend/internal/model"
	"xtreme_region_backend/internal/repository"
	"xtreme_region_backend/internal/util"
	"xtreme_region_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type MeetingService struct {
	MeetingRepo *repository.MeetingRepository
	UserRepo    *repository.UserRepository
	Mail        *MailService
}

func NewMeetingService(meetingRepo *repository.MeetingRepository, userRepo *repository.UserRepository, mail *MailService) *MeetingService {
	return &MeetingService{
		MeetingRepo: meetingRepo,
		UserRepo:    userRepo,
		Mail:        mail,
	}
}

type MeetingFileInput struct {
	Name string `json:"name"`
	Type string `json:"type"`
	URL  string `json:"url"`
}

type ScheduleInput struct {
	Topic                string             `json:"topic"`
	Description          string             `json:"description"`
	StartDate            string             `json:"date"`      // "2025-01-10"
	StartTime            string             `json:"time"`      // "09:00"
	Duration             int                `json:"duration"`  // 分钟
	EndDate              string             `json:"endDate"`
	TimeZone             string             `json:"timeZone"`
	MuteVideo            bool               `json:"muteVideo"`
	MuteAudio            bool               `json:"muteAudio"`
	AgendaEnabled        bool               `json:"agenda"`
	TranscriptionEnabled bool               `json:"transcription"`
	Files                []MeetingFileInput `json:"files"`
}

// Validate 必填字段缺失时按字段返回错误，校验失败不产生任何写入
func (in *ScheduleInput) Validate() util.FieldErrors {
	errs := util.FieldErrors{}
	if in.Topic == "" {
		errs["topic"] = "topic is required"
	}
	if in.StartDate == "" {
		errs["date"] = "date is required"
	}
	if in.StartTime == "" {
		errs["time"] = "time is required"
	}
	if in.Duration <= 0 {
		errs["duration"] = "duration is required"
	}
	if in.TimeZone == "" {
		errs["timeZone"] = "timeZone is required"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Schedule 创建会议并逐个挂接文件。文件是在会议行提交后逐条顺序插入的，
// 不在同一事务里：中途失败时会议已存在、文件只有部分挂上（沿用既有语义）。
func (s *MeetingService) Schedule(hostID uint, input ScheduleInput) (*model.Meeting, error) {
	if errs := input.Validate(); errs != nil {
		return nil, &ValidationError{Fields: errs}
	}

	startDate, err := time.Parse(util.DateFormat, input.StartDate)
	if err != nil {
		return nil, &ValidationError{Fields: util.FieldErrors{"date": "invalid date format, want YYYY-MM-DD"}}
	}

	var endDate time.Time
	if input.EndDate != "" {
		endDate, err = time.Parse(util.DateFormat, input.EndDate)
		if err != nil {
			return nil, &ValidationError{Fields: util.FieldErrors{"endDate": "invalid date format, want YYYY-MM-DD"}}
		}
	}

	meeting := &model.Meeting{
		Topic:                input.Topic,
		Description:          input.Description,
		StartDate:            startDate,
		StartTime:            input.StartTime,
		Duration:             input.Duration,
		EndDate:              endDate,
		TimeZone:             input.TimeZone,
		HostID:               hostID,
		MuteVideo:            input.MuteVideo,
		MuteAudio:            input.MuteAudio,
		AgendaEnabled:        input.AgendaEnabled,
		TranscriptionEnabled: input.TranscriptionEnabled,
	}

	if err := s.MeetingRepo.Create(meeting); err != nil {
		return nil, err
	}

	for _, f := range input.Files {
		file := &model.MeetingFile{
			MeetingID: meeting.ID,
			Name:      f.Name,
			Type:      f.Type,
			URL:       f.URL,
		}
		if err := s.MeetingRepo.CreateFile(file); err != nil {
			// 会议行保留，不回滚已写入的文件
			return meeting, err
		}
	}

	return meeting, nil
}

// Get 主持人、协作者或参会者可见
func (s *MeetingService) Get(userID uint, id string) (*model.Meeting, error) {
	meeting, err := s.MeetingRepo.FindByIDFull(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrMeetingNotFound
		}
		return nil, err
	}

	if !s.isMember(meeting, userID) {
		return nil, util.ErrPermissionDenied
	}
	return meeting, nil
}

func (s *MeetingService) isMember(meeting *model.Meeting, userID uint) bool {
	if meeting.HostID == userID {
		return true
	}
	for _, c := range meeting.Collaborators {
		if c.UserID == userID {
			return true
		}
	}
	for _, p := range meeting.Participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}

func (s *MeetingService) ListForUser(userID uint, upcoming bool) ([]model.Meeting, error) {
	return s.MeetingRepo.FindForUser(userID, upcoming)
}

type MeetingSettings struct {
	Topic                *string `json:"topic"`
	Description          *string `json:"description"`
	MuteVideo            *bool   `json:"muteVideo"`
	MuteAudio            *bool   `json:"muteAudio"`
	AgendaEnabled        *bool   `json:"agenda"`
	TranscriptionEnabled *bool   `json:"transcription"`
}

// UpdateSettings 仅主持人可改
func (s *MeetingService) UpdateSettings(userID uint, id string, settings MeetingSettings) (*model.Meeting, error) {
	meeting, err := s.MeetingRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrMeetingNotFound
		}
		return nil, err
	}
	if meeting.HostID != userID {
		return nil, util.ErrPermissionDenied
	}

	if settings.Topic != nil {
		meeting.Topic = *settings.Topic
	}
	if settings.Description != nil {
		meeting.Description = *settings.Description
	}
	if settings.MuteVideo != nil {
		meeting.MuteVideo = *settings.MuteVideo
	}
	if settings.MuteAudio != nil {
		meeting.MuteAudio = *settings.MuteAudio
	}
	if settings.AgendaEnabled != nil {
		meeting.AgendaEnabled = *settings.AgendaEnabled
	}
	if settings.TranscriptionEnabled != nil {
		meeting.TranscriptionEnabled = *settings.TranscriptionEnabled
	}

	if err := s.MeetingRepo.Update(meeting); err != nil {
		return nil, err
	}
	return meeting, nil
}

func (s *MeetingService) Delete(userID uint, id string) error {
	meeting, err := s.MeetingRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrMeetingNotFound
		}
		return err
	}
	if meeting.HostID != userID {
		return util.ErrPermissionDenied
	}
	return s.MeetingRepo.Delete(id)
}

// AttachFiles 供会议伴侣应用调用：逐条插入，单条失败即停，已插入的保留。
// 返回成功挂接的数量。
func (s *MeetingService) AttachFiles(meetingID, uploader string, files []MeetingFileInput) (int, error) {
	if _, err := s.MeetingRepo.FindByID(meetingID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, util.ErrMeetingNotFound
		}
		return 0, err
	}

	attached := 0
	for _, f := range files {
		file := &model.MeetingFile{
			MeetingID: meetingID,
			Name:      f.Name,
			Type:      f.Type,
			URL:       f.URL,
			Uploader:  uploader,
		}
		if err := s.MeetingRepo.CreateFile(file); err != nil {
			return attached, err
		}
		attached++
	}
	return attached, nil
}

// Invite 邀请协作者（pending状态），并向被邀请人发邮件
func (s *MeetingService) Invite(hostID uint, meetingID, email string) error {
	meeting, err := s.MeetingRepo.FindByID(meetingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrMeetingNotFound
		}
		return err
	}
	if meeting.HostID != hostID {
		return util.ErrPermissionDenied
	}

	invitee, err := s.UserRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrUserNotFound
		}
		return err
	}

	if _, err := s.MeetingRepo.FindCollaborator(meetingID, invitee.ID); err == nil {
		return util.ErrAlreadyInvited
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	collab := &model.MeetingCollaborator{
		MeetingID: meetingID,
		UserID:    invitee.ID,
		Status:    model.CollaboratorPending,
	}
	if err := s.MeetingRepo.CreateCollaborator(collab); err != nil {
		return err
	}

	host, err := s.UserRepo.FindByID(hostID)
	if err == nil {
		if err := s.Mail.SendMeetingInvite(invitee.Name, invitee.Email, host.Name, meeting.Topic, meeting.ID); err != nil {
			logger.Log.Error("failed to send meeting invite",
				zap.String("meeting_id", meetingID), zap.Error(err))
		}
	}

	return nil
}

// Respond 被邀请人接受或拒绝邀请；拒绝时直接删除记录
func (s *MeetingService) Respond(userID uint, meetingID string, accept bool) error {
	collab, err := s.MeetingRepo.FindCollaborator(meetingID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrInvitationNotFound
		}
		return err
	}

	if accept {
		return s.MeetingRepo.UpdateCollaboratorStatus(collab.ID, model.CollaboratorAccepted)
	}
	return s.MeetingRepo.DeleteCollaborator(collab.ID)
}

// Join 记录参会者；重复加入是no-op
func (s *MeetingService) Join(userID uint, meetingID string) error {
	if _, err := s.MeetingRepo.FindByID(meetingID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrMeetingNotFound
		}
		return err
	}

	if _, err := s.MeetingRepo.FindParticipant(meetingID, userID); err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return s.MeetingRepo.CreateParticipant(&model.MeetingParticipant{
		MeetingID: meetingID,
		UserID:    userID,
		JoinedAt:  time.Now(),
	})
}

// SendReminders 后台任务调用：给即将开始的会议发提醒邮件
func (s *MeetingService) SendReminders(from, to time.Time) error {
	meetings, err := s.MeetingRepo.FindStartingBetween(from, to)
	if err != nil {
		return err
	}

	for _, m := range meetings {
		host, err := s.UserRepo.FindByID(m.HostID)
		if err != nil {
			continue
		}

		recipients := []*model.User{host}
		for _, c := range m.Collaborators {
			if c.Status != model.CollaboratorAccepted {
				continue
			}
			if u, err := s.UserRepo.FindByID(c.UserID); err == nil {
				recipients = append(recipients, u)
			}
		}

		startAt := m.StartDate.Format(util.DateFormat) + " " + m.StartTime
		for _, u := range recipients {
			if err := s.Mail.SendMeetingReminder(u.Name, u.Email, m.Topic, startAt, m.ID); err != nil {
				logger.Log.Error("failed to send meeting reminder",
					zap.String("meeting_id", m.ID), zap.Error(err))
			}
		}
	}
	return nil
}

// ValidationError 携带字段级错误，控制器转成400应答
type ValidationError struct {
	Fields util.FieldErrors
}

func (e *ValidationError) Error() string {
	return "validation failed"
}
