package service

import (
	"errors"
	"fmt"
	"xtreme_region_backend/internal/model"
	"xtreme_region_backend/internal/repository"
	"xtreme_region_backend/internal/util"

	"gorm.io/gorm"
)

type AgendaService struct {
	AgendaRepo  *repository.AgendaRepository
	MeetingRepo *repository.MeetingRepository
	AI          *AIService
	Hub         *MeetingHub
}

func NewAgendaService(agendaRepo *repository.AgendaRepository, meetingRepo *repository.MeetingRepository, ai *AIService, hub *MeetingHub) *AgendaService {
	return &AgendaService{
		AgendaRepo:  agendaRepo,
		MeetingRepo: meetingRepo,
		AI:          ai,
		Hub:         hub,
	}
}

type AgendaItemInput struct {
	ID          string               `json:"id"`
	Title       string               `json:"title"`
	Duration    int                  `json:"duration"`
	Description string               `json:"description"`
	Presenter   string               `json:"presenter"`
	Status      model.AgendaStatus   `json:"status"`
	Priority    model.AgendaPriority `json:"priority"`
	Notes       string               `json:"notes"`
}

func validateAgendaItems(items []AgendaItemInput) util.FieldErrors {
	errs := util.FieldErrors{}
	for i, item := range items {
		if item.Title == "" {
			errs[fmt.Sprintf("agendaItems.%d.title", i)] = "title is required"
		}
		if item.Duration < 1 {
			errs[fmt.Sprintf("agendaItems.%d.duration", i)] = "duration must be at least 1 minute"
		}
		if !model.ValidStatus(item.Status) {
			errs[fmt.Sprintf("agendaItems.%d.status", i)] = "status must be one of pending, progress, completed, skipped"
		}
		if !model.ValidPriority(item.Priority) {
			errs[fmt.Sprintf("agendaItems.%d.priority", i)] = "priority must be one of low, medium, high"
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Replace 整体重建会议议程：删除全部旧条目后按输入顺序重建，新id与旧id无关。
// 空列表是刻意的no-op分支——不触碰现有议程，直接成功返回。
// 重建循环不包事务，单条失败时议程可能只重建了一部分（沿用既有语义）。
// 传入的id会被忽略；总时长不与会议时长做校验。
func (s *AgendaService) Replace(userID uint, meetingID string, items []AgendaItemInput) ([]model.AgendaItem, error) {
	meeting, err := s.MeetingRepo.FindByID(meetingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrMeetingNotFound
		}
		return nil, err
	}
	if meeting.HostID != userID {
		if _, err := s.MeetingRepo.FindCollaborator(meetingID, userID); err != nil {
			return nil, util.ErrPermissionDenied
		}
	}

	// 空数组表示"不要动"，不是"清空"
	if len(items) == 0 {
		return s.AgendaRepo.FindByMeeting(meetingID)
	}

	if errs := validateAgendaItems(items); errs != nil {
		return nil, &ValidationError{Fields: errs}
	}

	if err := s.AgendaRepo.DeleteByMeeting(meetingID); err != nil {
		return nil, err
	}

	created := make([]model.AgendaItem, 0, len(items))
	for i, in := range items {
		item := model.AgendaItem{
			Title:       in.Title,
			Duration:    in.Duration,
			Description: in.Description,
			Presenter:   in.Presenter,
			Status:      in.Status,
			Priority:    in.Priority,
			Notes:       in.Notes,
			MeetingID:   meetingID,
			Position:    i,
		}
		if err := s.AgendaRepo.Create(&item); err != nil {
			return created, err
		}
		created = append(created, item)
	}

	s.Hub.BroadcastAgendaReplaced(meetingID, created)
	return created, nil
}

func (s *AgendaService) List(meetingID string) ([]model.AgendaItem, error) {
	if _, err := s.MeetingRepo.FindByID(meetingID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrMeetingNotFound
		}
		return nil, err
	}
	return s.AgendaRepo.FindByMeeting(meetingID)
}

// UpdateStatus 会议进行中推进单条议程状态，并广播给房间内成员
func (s *AgendaService) UpdateStatus(userID uint, meetingID, itemID string, status model.AgendaStatus) (*model.AgendaItem, error) {
	if !model.ValidStatus(status) {
		return nil, &ValidationError{Fields: util.FieldErrors{
			"status": "status must be one of pending, progress, completed, skipped",
		}}
	}

	meeting, err := s.MeetingRepo.FindByID(meetingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrMeetingNotFound
		}
		return nil, err
	}
	if meeting.HostID != userID {
		if _, err := s.MeetingRepo.FindCollaborator(meetingID, userID); err != nil {
			return nil, util.ErrPermissionDenied
		}
	}

	item, err := s.AgendaRepo.FindByID(itemID)
	if err != nil || item.MeetingID != meetingID {
		return nil, util.ErrMeetingNotFound
	}

	if err := s.AgendaRepo.UpdateStatus(itemID, status); err != nil {
		return nil, err
	}
	item.Status = status

	s.Hub.BroadcastAgendaStatus(meetingID, itemID, status)
	return item, nil
}

// Generate 用AI按剩余时长生成议程草稿，不落库，由前端确认后走Replace
func (s *AgendaService) Generate(meetingID string, remainingMinutes int) ([]AgendaItemInput, error) {
	meeting, err := s.MeetingRepo.FindByID(meetingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrMeetingNotFound
		}
		return nil, err
	}

	existing, err := s.AgendaRepo.FindByMeeting(meetingID)
	if err != nil {
		return nil, err
	}

	return s.AI.GenerateAgenda(meeting.Topic, meeting.Description, meeting.Duration, remainingMinutes, existing)
}
