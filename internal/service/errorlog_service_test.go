package service

import (
	"context"
	"errors"
	"testing"

	"redoma-support-be/internal/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportPersistsEntry(t *testing.T) {
	f := newFakeFactory()
	svc := NewErrorLogService(f, fakeLogger{})

	userId := uuid.New()
	svc.Report(context.Background(), &dto.ReportErrorRequest{
		Source:       "web",
		Environment:  "production",
		ErrorMessage: "TypeError: x is undefined",
		Route:        "/chat",
		UserId:       userId.String(),
		ExtraContext: map[string]interface{}{"build": "1.4.2"},
	})

	require.Len(t, f.uow.errorLogs.entries, 1)
	entry := f.uow.errorLogs.entries[0]
	assert.Equal(t, "web", entry.Source)
	assert.Equal(t, "TypeError: x is undefined", entry.ErrorMessage)
	require.NotNil(t, entry.Route)
	assert.Equal(t, "/chat", *entry.Route)
	require.NotNil(t, entry.UserId)
	assert.Equal(t, userId, *entry.UserId)
	// Empty optionals stay nil instead of pointing at "".
	assert.Nil(t, entry.ErrorCode)
}

func TestReportSwallowsMalformedUserIdAndSinkFailure(t *testing.T) {
	f := newFakeFactory()
	svc := NewErrorLogService(f, fakeLogger{})

	svc.Report(context.Background(), &dto.ReportErrorRequest{
		Source:       "web",
		ErrorMessage: "boom",
		UserId:       "not-a-uuid",
	})
	require.Len(t, f.uow.errorLogs.entries, 1)
	assert.Nil(t, f.uow.errorLogs.entries[0].UserId)

	// A broken sink must not panic or surface an error to the caller.
	f.uow.errorLogs.failErr = errors.New("database down")
	svc.Report(context.Background(), &dto.ReportErrorRequest{
		Source:       "web",
		ErrorMessage: "boom again",
	})
	assert.Len(t, f.uow.errorLogs.entries, 1)
}

func TestListMapsEntries(t *testing.T) {
	f := newFakeFactory()
	svc := NewErrorLogService(f, fakeLogger{})

	svc.Report(context.Background(), &dto.ReportErrorRequest{
		Source:       "web",
		Environment:  "staging",
		ErrorMessage: "boom",
		Route:        "/providers",
	})

	res, err := svc.List(context.Background(), 0, 0)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "staging", res[0].Environment)
	assert.Equal(t, "/providers", res[0].Route)
}
