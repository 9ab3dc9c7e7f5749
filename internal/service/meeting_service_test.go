package service

import (
	"errors"
	"testing"
	"xtreme_region_backend/internal/model"
	"xtreme_region_backend/internal/repository"
	"xtreme_region_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newMeetingService(t *testing.T) (*MeetingService, *gorm.DB, *recordingSender) {
	t.Helper()
	db := setupTestDB(t)
	mail, sender := newTestMailService()
	svc := NewMeetingService(repository.NewMeetingRepository(db), repository.NewUserRepository(db), mail)
	return svc, db, sender
}

func validSchedule() ScheduleInput {
	return ScheduleInput{
		Topic:     "架构评审",
		StartDate: "2026-09-10",
		StartTime: "09:00",
		Duration:  60,
		TimeZone:  "Asia/Shanghai",
	}
}

func TestScheduleValidation(t *testing.T) {
	svc, db, _ := newMeetingService(t)
	host := createTestUser(t, db, "host@example.com", model.Creator)

	_, err := svc.Schedule(host.ID, ScheduleInput{Description: "缺了所有必填项"})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "topic")
	assert.Contains(t, vErr.Fields, "date")
	assert.Contains(t, vErr.Fields, "time")
	assert.Contains(t, vErr.Fields, "duration")
	assert.Contains(t, vErr.Fields, "timeZone")

	in := validSchedule()
	in.StartDate = "10/09/2026"
	_, err = svc.Schedule(host.ID, in)
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "date")

	// 校验失败不落库
	var count int64
	require.NoError(t, db.Model(&model.Meeting{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestScheduleWithFiles(t *testing.T) {
	svc, db, _ := newMeetingService(t)
	host := createTestUser(t, db, "host@example.com", model.Creator)

	in := validSchedule()
	in.Files = []MeetingFileInput{
		{Name: "评审稿.pdf", Type: "application/pdf", URL: "https://oss.example.com/a.pdf"},
		{Name: "数据.xlsx", Type: "application/vnd.ms-excel", URL: "https://oss.example.com/b.xlsx"},
	}

	meeting, err := svc.Schedule(host.ID, in)
	require.NoError(t, err)
	assert.NotEmpty(t, meeting.ID)
	assert.Equal(t, host.ID, meeting.HostID)

	var files []model.MeetingFile
	require.NoError(t, db.Where("meeting_id = ?", meeting.ID).Find(&files).Error)
	assert.Len(t, files, 2)
}

func TestScheduleSurvivesFileFailure(t *testing.T) {
	svc, db, _ := newMeetingService(t)
	host := createTestUser(t, db, "host@example.com", model.Creator)

	// 对特定文件名注入插入失败，模拟中途写入出错
	err := db.Callback().Create().Before("gorm:create").Register("reject_poison_file", func(tx *gorm.DB) {
		if f, ok := tx.Statement.Dest.(*model.MeetingFile); ok && f.Name == "坏文件.bin" {
			tx.AddError(errors.New("insert rejected"))
		}
	})
	require.NoError(t, err)

	in := validSchedule()
	in.Files = []MeetingFileInput{
		{Name: "第一份.pdf", Type: "application/pdf", URL: "https://oss.example.com/1.pdf"},
		{Name: "坏文件.bin", Type: "application/octet-stream", URL: "https://oss.example.com/2.bin"},
		{Name: "不会写入.pdf", Type: "application/pdf", URL: "https://oss.example.com/3.pdf"},
	}

	meeting, err := svc.Schedule(host.ID, in)
	require.Error(t, err)
	require.NotNil(t, meeting)

	// 文件挂接不在事务里：会议行保留，失败前的文件也保留
	var stored model.Meeting
	require.NoError(t, db.First(&stored, "id = ?", meeting.ID).Error)

	var files []model.MeetingFile
	require.NoError(t, db.Where("meeting_id = ?", meeting.ID).Find(&files).Error)
	require.Len(t, files, 1)
	assert.Equal(t, "第一份.pdf", files[0].Name)
}

func TestAttachFiles(t *testing.T) {
	svc, db, _ := newMeetingService(t)
	host := createTestUser(t, db, "host@example.com", model.Creator)
	meeting := createTestMeeting(t, db, host.ID)

	attached, err := svc.AttachFiles(meeting.ID, "会议伴侣", []MeetingFileInput{
		{Name: "白板截图.png", Type: "image/png", URL: "https://oss.example.com/wb.png"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, attached)

	var file model.MeetingFile
	require.NoError(t, db.Where("meeting_id = ?", meeting.ID).First(&file).Error)
	assert.Equal(t, "会议伴侣", file.Uploader)

	_, err = svc.AttachFiles("missing", "x", nil)
	assert.ErrorIs(t, err, util.ErrMeetingNotFound)
}

func TestInviteAndRespond(t *testing.T) {
	svc, db, sender := newMeetingService(t)
	host := createTestUser(t, db, "host@example.com", model.Creator)
	invitee := createTestUser(t, db, "invitee@example.com", model.Learner)
	meeting := createTestMeeting(t, db, host.ID)

	require.NoError(t, svc.Invite(host.ID, meeting.ID, invitee.Email))
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0], invitee.Email)

	// 重复邀请冲突
	err := svc.Invite(host.ID, meeting.ID, invitee.Email)
	assert.ErrorIs(t, err, util.ErrAlreadyInvited)

	err = svc.Invite(host.ID, meeting.ID, "nobody@example.com")
	assert.ErrorIs(t, err, util.ErrUserNotFound)

	err = svc.Invite(invitee.ID, meeting.ID, host.Email)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	require.NoError(t, svc.Respond(invitee.ID, meeting.ID, true))

	var collab model.MeetingCollaborator
	require.NoError(t, db.Where("meeting_id = ? AND user_id = ?", meeting.ID, invitee.ID).First(&collab).Error)
	assert.Equal(t, model.CollaboratorAccepted, collab.Status)

	// 没有待处理邀请时拒绝报未找到
	err = svc.Respond(host.ID, meeting.ID, false)
	assert.ErrorIs(t, err, util.ErrInvitationNotFound)
}

func TestRespondDeclineRemovesInvite(t *testing.T) {
	svc, db, _ := newMeetingService(t)
	host := createTestUser(t, db, "host@example.com", model.Creator)
	invitee := createTestUser(t, db, "invitee@example.com", model.Learner)
	meeting := createTestMeeting(t, db, host.ID)

	require.NoError(t, svc.Invite(host.ID, meeting.ID, invitee.Email))
	require.NoError(t, svc.Respond(invitee.ID, meeting.ID, false))

	var count int64
	require.NoError(t, db.Model(&model.MeetingCollaborator{}).
		Where("meeting_id = ?", meeting.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)

	// 拒绝后可以再次邀请
	require.NoError(t, svc.Invite(host.ID, meeting.ID, invitee.Email))
}

func TestJoinIdempotent(t *testing.T) {
	svc, db, _ := newMeetingService(t)
	host := createTestUser(t, db, "host@example.com", model.Creator)
	learner := createTestUser(t, db, "learner@example.com", model.Learner)
	meeting := createTestMeeting(t, db, host.ID)

	require.NoError(t, svc.Join(learner.ID, meeting.ID))
	require.NoError(t, svc.Join(learner.ID, meeting.ID))

	var count int64
	require.NoError(t, db.Model(&model.MeetingParticipant{}).
		Where("meeting_id = ? AND user_id = ?", meeting.ID, learner.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	assert.ErrorIs(t, svc.Join(learner.ID, "missing"), util.ErrMeetingNotFound)
}

func TestGetVisibility(t *testing.T) {
	svc, db, _ := newMeetingService(t)
	host := createTestUser(t, db, "host@example.com", model.Creator)
	stranger := createTestUser(t, db, "stranger@example.com", model.Learner)
	participant := createTestUser(t, db, "participant@example.com", model.Learner)
	meeting := createTestMeeting(t, db, host.ID)

	_, err := svc.Get(host.ID, meeting.ID)
	assert.NoError(t, err)

	_, err = svc.Get(stranger.ID, meeting.ID)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	require.NoError(t, svc.Join(participant.ID, meeting.ID))
	_, err = svc.Get(participant.ID, meeting.ID)
	assert.NoError(t, err)

	_, err = svc.Get(host.ID, "missing")
	assert.ErrorIs(t, err, util.ErrMeetingNotFound)
}

func TestUpdateSettingsHostOnly(t *testing.T) {
	svc, db, _ := newMeetingService(t)
	host := createTestUser(t, db, "host@example.com", model.Creator)
	other := createTestUser(t, db, "other@example.com", model.Learner)
	meeting := createTestMeeting(t, db, host.ID)

	topic := "改名后的会"
	mute := true
	_, err := svc.UpdateSettings(other.ID, meeting.ID, MeetingSettings{Topic: &topic})
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	updated, err := svc.UpdateSettings(host.ID, meeting.ID, MeetingSettings{Topic: &topic, MuteAudio: &mute})
	require.NoError(t, err)
	assert.Equal(t, topic, updated.Topic)
	assert.True(t, updated.MuteAudio)
	// 未提供的字段保持原值
	assert.Equal(t, 60, updated.Duration)
}
