package application

import (
	"context"
	"errors"
	"testing"

	"github.com/bnema/anyrouter-checkin/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterpretCheckin(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantSuccess bool
		wantAlready bool
		wantMessage string
		wantErr     error
	}{
		{name: "explicit success", raw: `{"success": true, "message": "签到成功"}`, wantSuccess: true, wantMessage: "签到成功"},
		{name: "already done in chinese", raw: `{"success": false, "message": "今天已经签到过啦"}`, wantSuccess: true, wantAlready: true, wantMessage: "今天已经签到过啦"},
		{name: "already done short form", raw: `{"success": false, "message": "已签到"}`, wantSuccess: true, wantAlready: true, wantMessage: "已签到"},
		{name: "already done in english", raw: `{"success": false, "message": "Already checked in today"}`, wantSuccess: true, wantAlready: true, wantMessage: "Already checked in today"},
		{name: "explicit rejection", raw: `{"success": false, "message": "未登录"}`, wantMessage: "未登录", wantErr: domain.ErrCheckinRejected},
		{name: "transport error", raw: `{"error": "Failed to fetch"}`, wantMessage: "Failed to fetch", wantErr: domain.ErrCheckinTransport},
		{name: "transport error saying already done", raw: `{"error": "already signed in"}`, wantSuccess: true, wantAlready: true, wantMessage: "already signed in"},
		{name: "null body", raw: `null`, wantErr: domain.ErrCheckinTransport},
		{name: "success flag is a string", raw: `{"success": "yes"}`, wantErr: domain.ErrCheckinAmbiguous},
		{name: "success flag absent", raw: `{"message": "ok"}`, wantMessage: "ok", wantErr: domain.ErrCheckinAmbiguous},
		{name: "not an object", raw: `[1, 2]`, wantErr: domain.ErrCheckinAmbiguous},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome, err := interpretCheckin([]byte(tt.raw))
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.False(t, outcome.Success)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantSuccess, outcome.Success)
			assert.Equal(t, tt.wantAlready, outcome.AlreadyDone)
			assert.Equal(t, tt.wantMessage, outcome.Message)
		})
	}
}

func TestCheckinIsIdempotent(t *testing.T) {
	page := newFakePage()
	calls := 0
	page.evaluate = func(script string, arg any) ([]byte, error) {
		require.Equal(t, pageFetchScript, script)
		request := decodeRequest(arg)
		assert.Equal(t, "POST", request.Method)
		assert.Equal(t, "https://anyrouter.top/api/user/sign_in", request.URL)
		calls++
		if calls == 1 {
			return []byte(`{"success": true, "message": "签到成功"}`), nil
		}
		return []byte(`{"success": false, "message": "今天已经签到过啦"}`), nil
	}
	confirmer := NewCheckinConfirmer(nil)

	first, err := confirmer.Checkin(context.Background(), page, "https://anyrouter.top/")
	require.NoError(t, err)
	second, err := confirmer.Checkin(context.Background(), page, "https://anyrouter.top")
	require.NoError(t, err)

	assert.True(t, first.Success)
	assert.False(t, first.AlreadyDone)
	assert.True(t, second.Success)
	assert.True(t, second.AlreadyDone)
}

func TestCheckinEvaluateFailure(t *testing.T) {
	page := newFakePage()
	page.evaluate = func(string, any) ([]byte, error) {
		return nil, errors.New("execution context was destroyed")
	}

	outcome, err := NewCheckinConfirmer(nil).Checkin(context.Background(), page, "https://anyrouter.top")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrCheckinTransport)
	assert.False(t, outcome.Success)
}

func TestFetchStatusConvertsQuota(t *testing.T) {
	page := newFakePage()
	page.evaluate = fetchResponder(map[string]string{
		statusPath: `{"success": true, "data": {"quota": 1000000, "used_quota": 250000, "bonus_quota": 50000000}}`,
	})

	status, err := NewCheckinConfirmer(nil).FetchStatus(context.Background(), page, "https://anyrouter.top", "4211")
	require.NoError(t, err)

	assert.InDelta(t, 2.0, status.Quota.Display(), 1e-9)
	assert.InDelta(t, 0.5, status.UsedQuota.Display(), 1e-9)
	assert.InDelta(t, 100.0, status.BonusQuota.Display(), 1e-9)

	require.Len(t, page.evaluations, 1)
	request := decodeRequest(page.evaluations[0])
	assert.Equal(t, "GET", request.Method)
	assert.Equal(t, "4211", request.Headers[sessionUserHeader])
}

func TestFetchStatusOmitsUnknownSessionUser(t *testing.T) {
	page := newFakePage()
	page.evaluate = fetchResponder(map[string]string{statusPath: `{"success": true, "data": {}}`})

	_, err := NewCheckinConfirmer(nil).FetchStatus(context.Background(), page, "https://anyrouter.top", "")
	require.NoError(t, err)

	request := decodeRequest(page.evaluations[0])
	_, sent := request.Headers[sessionUserHeader]
	assert.False(t, sent)
}

func TestFetchStatusFailure(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "refused", body: `{"success": false, "message": "无权进行此操作"}`},
		{name: "null", body: `null`},
		{name: "garbage", body: `"<html>"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := newFakePage()
			page.evaluate = fetchResponder(map[string]string{statusPath: tt.body})

			_, err := NewCheckinConfirmer(nil).FetchStatus(context.Background(), page, "https://anyrouter.top", "1")
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInfoFetch)
		})
	}
}
