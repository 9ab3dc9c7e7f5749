package service

import (
	"testing"
	"xtreme_region_backend/internal/model"
	"xtreme_region_backend/internal/repository"
	"xtreme_region_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAgendaService(t *testing.T) (*AgendaService, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	svc := NewAgendaService(
		repository.NewAgendaRepository(db),
		repository.NewMeetingRepository(db),
		nil,
		NewMeetingHub(nil),
	)
	return svc, db
}

func createTestMeeting(t *testing.T, db *gorm.DB, hostID uint) *model.Meeting {
	t.Helper()
	meeting := &model.Meeting{
		Topic:    "周会",
		Duration: 60,
		HostID:   hostID,
		TimeZone: "Asia/Shanghai",
	}
	require.NoError(t, db.Create(meeting).Error)
	return meeting
}

func pendingItem(title string, duration int) AgendaItemInput {
	return AgendaItemInput{
		Title:    title,
		Duration: duration,
		Status:   model.AgendaPending,
		Priority: model.PriorityMedium,
	}
}

func TestAgendaReplace(t *testing.T) {
	svc, db := newAgendaService(t)
	host := createTestUser(t, db, "host@example.com", model.Creator)
	meeting := createTestMeeting(t, db, host.ID)

	items, err := svc.Replace(host.ID, meeting.ID, []AgendaItemInput{
		pendingItem("开场", 5),
		pendingItem("评审", 30),
		pendingItem("答疑", 25),
	})
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "开场", items[0].Title)
	assert.Equal(t, 0, items[0].Position)
	assert.Equal(t, 2, items[2].Position)

	// 再次整体替换后旧id全部作废
	oldID := items[0].ID
	items, err = svc.Replace(host.ID, meeting.ID, []AgendaItemInput{pendingItem("只剩一项", 10)})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.NotEqual(t, oldID, items[0].ID)

	listed, err := svc.List(meeting.ID)
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestAgendaReplaceEmptyIsNoop(t *testing.T) {
	svc, db := newAgendaService(t)
	host := createTestUser(t, db, "host@example.com", model.Creator)
	meeting := createTestMeeting(t, db, host.ID)

	_, err := svc.Replace(host.ID, meeting.ID, []AgendaItemInput{pendingItem("保留我", 15)})
	require.NoError(t, err)

	// 空列表不清空现有议程
	items, err := svc.Replace(host.ID, meeting.ID, nil)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "保留我", items[0].Title)
}

func TestAgendaReplaceValidation(t *testing.T) {
	svc, db := newAgendaService(t)
	host := createTestUser(t, db, "host@example.com", model.Creator)
	meeting := createTestMeeting(t, db, host.ID)

	bad := pendingItem("", 0)
	bad.Status = "done"
	_, err := svc.Replace(host.ID, meeting.ID, []AgendaItemInput{pendingItem("合法项", 5), bad})

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "agendaItems.1.title")
	assert.Contains(t, vErr.Fields, "agendaItems.1.duration")
	assert.Contains(t, vErr.Fields, "agendaItems.1.status")
	assert.NotContains(t, vErr.Fields, "agendaItems.0.title")

	// 校验失败不落库
	items, err := svc.List(meeting.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestAgendaReplacePermissions(t *testing.T) {
	svc, db := newAgendaService(t)
	host := createTestUser(t, db, "host@example.com", model.Creator)
	stranger := createTestUser(t, db, "stranger@example.com", model.Learner)
	collaborator := createTestUser(t, db, "collab@example.com", model.Learner)
	meeting := createTestMeeting(t, db, host.ID)

	_, err := svc.Replace(stranger.ID, meeting.ID, []AgendaItemInput{pendingItem("越权", 5)})
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	require.NoError(t, db.Create(&model.MeetingCollaborator{
		MeetingID: meeting.ID,
		UserID:    collaborator.ID,
		Status:    model.CollaboratorAccepted,
	}).Error)

	_, err = svc.Replace(collaborator.ID, meeting.ID, []AgendaItemInput{pendingItem("协作者可改", 5)})
	assert.NoError(t, err)

	_, err = svc.Replace(host.ID, "missing-meeting", []AgendaItemInput{pendingItem("无会议", 5)})
	assert.ErrorIs(t, err, util.ErrMeetingNotFound)
}

func TestAgendaUpdateStatus(t *testing.T) {
	svc, db := newAgendaService(t)
	host := createTestUser(t, db, "host@example.com", model.Creator)
	meeting := createTestMeeting(t, db, host.ID)
	other := createTestMeeting(t, db, host.ID)

	items, err := svc.Replace(host.ID, meeting.ID, []AgendaItemInput{pendingItem("推进我", 20)})
	require.NoError(t, err)

	item, err := svc.UpdateStatus(host.ID, meeting.ID, items[0].ID, model.AgendaProgress)
	require.NoError(t, err)
	assert.Equal(t, model.AgendaProgress, item.Status)

	listed, err := svc.List(meeting.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AgendaProgress, listed[0].Status)

	_, err = svc.UpdateStatus(host.ID, meeting.ID, items[0].ID, "archived")
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)

	// 条目属于别的会议时按未找到处理
	_, err = svc.UpdateStatus(host.ID, other.ID, items[0].ID, model.AgendaCompleted)
	assert.ErrorIs(t, err, util.ErrMeetingNotFound)
}
