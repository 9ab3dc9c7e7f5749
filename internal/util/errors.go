package util

import "errors"

var (
	ErrUserNotFound         = errors.New("用户不存在")
	ErrEmailRegistered      = errors.New("该邮箱已被注册")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrAccountInactive      = errors.New("account not activated")
	ErrInvalidToken         = errors.New("invalid or expired token")
	ErrPermissionDenied     = errors.New("permission denied")
	ErrChannelNotFound      = errors.New("channel not found")
	ErrCourseNotFound       = errors.New("course not found")
	ErrLessonNotFound       = errors.New("lesson not found")
	ErrMeetingNotFound      = errors.New("meeting not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrAlreadySubscribed    = errors.New("already subscribed")
	ErrAlreadyInvited       = errors.New("user already invited to this meeting")
	ErrInvitationNotFound   = errors.New("invitation not found")
	ErrNoSlidesProvided     = errors.New("no slides provided")
	ErrInvalidFileType      = errors.New("invalid file type")
)
