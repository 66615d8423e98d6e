package application

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/bnema/anyrouter-checkin/internal/domain"
	"github.com/bnema/anyrouter-checkin/internal/ports"
	"go.uber.org/zap"
)

const (
	checkinPath = "/api/user/sign_in"
	statusPath  = "/api/user/self"

	sessionUserHeader = "new-api-user"
)

// pageFetchScript runs fetch inside the page so the request carries the
// session cookies of the browser context.
const pageFetchScript = `async (args) => {
	try {
		const response = await fetch(args.url, {
			method: args.method,
			headers: args.headers,
			credentials: "include"
		});
		return await response.json();
	} catch (e) {
		return { error: String((e && e.message) || e) };
	}
}`

var alreadyDoneMarkers = []string{"已经签到", "已签到", "already"}

type pageRequest struct {
	URL     string            `json:"url"`
	Method  string            `json:"method"`
	Headers map[string]string `json:"headers"`
}

type CheckinConfirmer struct {
	logger *zap.Logger
}

func NewCheckinConfirmer(logger *zap.Logger) *CheckinConfirmer {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &CheckinConfirmer{logger: logger.Named("checkin")}
}

// Checkin confirms today's check-in. An "already done" reply is a success. The
// returned error is non-nil exactly when the outcome is not a success.
func (c *CheckinConfirmer) Checkin(ctx context.Context, page ports.Page, baseURL string) (domain.CheckinOutcome, error) {
	if err := ctx.Err(); err != nil {
		return domain.CheckinOutcome{}, err
	}

	raw, err := page.Evaluate(ctx, pageFetchScript, pageRequest{
		URL:     strings.TrimRight(baseURL, "/") + checkinPath,
		Method:  "POST",
		Headers: map[string]string{"Content-Type": "application/json"},
	})
	if err != nil {
		c.logger.Warn("check-in request failed", zap.Error(err))
		return domain.CheckinOutcome{}, fmt.Errorf("post check-in: %w: %w", domain.ErrCheckinTransport, err)
	}

	outcome, err := interpretCheckin(raw)
	switch {
	case err == nil && outcome.AlreadyDone:
		c.logger.Info("check-in already done today", zap.String("message", outcome.Message))
	case err == nil:
		c.logger.Info("check-in confirmed", zap.String("message", outcome.Message))
	default:
		c.logger.Warn("check-in not confirmed", zap.Error(err), zap.ByteString("response", truncate(raw, 300)))
	}

	return outcome, err
}

func interpretCheckin(raw []byte) (domain.CheckinOutcome, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return domain.CheckinOutcome{}, fmt.Errorf("decode check-in response: %w: %w", domain.ErrCheckinAmbiguous, err)
	}
	if fields == nil {
		return domain.CheckinOutcome{}, fmt.Errorf("empty check-in response: %w", domain.ErrCheckinTransport)
	}

	message := stringField(fields, "message")

	successRaw, hasSuccess := fields["success"]
	if !hasSuccess {
		transportErr := stringField(fields, "error")
		if transportErr == "" {
			return domain.CheckinOutcome{Message: message}, fmt.Errorf("check-in response has no success flag: %w", domain.ErrCheckinAmbiguous)
		}
		if isAlreadyDone(transportErr) {
			return domain.CheckinOutcome{Success: true, Message: transportErr, AlreadyDone: true}, nil
		}
		return domain.CheckinOutcome{Message: transportErr}, fmt.Errorf("check-in request: %s: %w", transportErr, domain.ErrCheckinTransport)
	}

	var success bool
	if err := json.Unmarshal(successRaw, &success); err != nil {
		return domain.CheckinOutcome{Message: message}, fmt.Errorf("check-in success flag %s: %w", string(successRaw), domain.ErrCheckinAmbiguous)
	}

	if success {
		return domain.CheckinOutcome{Success: true, Message: message}, nil
	}
	if isAlreadyDone(message) {
		return domain.CheckinOutcome{Success: true, Message: message, AlreadyDone: true}, nil
	}

	return domain.CheckinOutcome{Message: message}, fmt.Errorf("check-in refused: %q: %w", message, domain.ErrCheckinRejected)
}

func isAlreadyDone(message string) bool {
	lowered := strings.ToLower(message)
	for _, marker := range alreadyDoneMarkers {
		if strings.Contains(lowered, marker) {
			return true
		}
	}

	return false
}

type statusResponse struct {
	Success *bool  `json:"success"`
	Message string `json:"message"`
	Data    struct {
		Quota      float64 `json:"quota"`
		UsedQuota  float64 `json:"used_quota"`
		BonusQuota float64 `json:"bonus_quota"`
	} `json:"data"`
}

// FetchStatus reads the account balance. sessionUserID is sent as the
// session user header when known.
func (c *CheckinConfirmer) FetchStatus(ctx context.Context, page ports.Page, baseURL, sessionUserID string) (domain.AccountStatus, error) {
	if err := ctx.Err(); err != nil {
		return domain.AccountStatus{}, err
	}

	headers := map[string]string{"Content-Type": "application/json"}
	if sessionUserID != "" {
		headers[sessionUserHeader] = sessionUserID
	}

	raw, err := page.Evaluate(ctx, pageFetchScript, pageRequest{
		URL:     strings.TrimRight(baseURL, "/") + statusPath,
		Method:  "GET",
		Headers: headers,
	})
	if err != nil {
		return domain.AccountStatus{}, fmt.Errorf("get account status: %w: %w", domain.ErrInfoFetch, err)
	}

	var response statusResponse
	if err := json.Unmarshal(raw, &response); err != nil {
		return domain.AccountStatus{}, fmt.Errorf("decode account status: %w: %w", domain.ErrInfoFetch, err)
	}
	if response.Success == nil || !*response.Success {
		message := response.Message
		if message == "" {
			message = "no response"
		}
		return domain.AccountStatus{}, fmt.Errorf("account status refused: %s: %w", message, domain.ErrInfoFetch)
	}

	status := domain.AccountStatus{
		Quota:      domain.Quota(math.Round(response.Data.Quota)),
		UsedQuota:  domain.Quota(math.Round(response.Data.UsedQuota)),
		BonusQuota: domain.Quota(math.Round(response.Data.BonusQuota)),
	}
	c.logger.Info("account status",
		zap.Float64("balance", status.Quota.Display()),
		zap.Float64("used", status.UsedQuota.Display()),
		zap.Float64("bonus", status.BonusQuota.Display()),
	)

	return status, nil
}

func stringField(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}

	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return strings.Trim(string(raw), `"`)
	}

	return value
}

func truncate(raw []byte, max int) []byte {
	if len(raw) <= max {
		return raw
	}
	return raw[:max]
}
