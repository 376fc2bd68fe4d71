package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/elC0mpa/ebs-reclaimer/model"
	"github.com/elC0mpa/ebs-reclaimer/service"
	"github.com/elC0mpa/ebs-reclaimer/service/input"
	"github.com/elC0mpa/ebs-reclaimer/service/orchestrator"
	"github.com/elC0mpa/ebs-reclaimer/service/reclaimer"
	"github.com/elC0mpa/ebs-reclaimer/service/settings"
	"github.com/google/uuid"
	"github.com/inconshreveable/log15"
)

// Response is the invocation result. Every response carries a report; runs
// that could not start or ended early have state aborted and the cause in
// Error.
type Response struct {
	StatusCode int           `json:"status_code"`
	Report     *model.Report `json:"report"`
	Error      string        `json:"error,omitempty"`
}

type handler struct {
	cfg       *settings.Settings
	cfgErr    error
	logger    log15.Logger
	identity  service.IdentityService
	newEngine orchestrator.EngineFactory
	observer  orchestrator.Observer
}

// Handle runs one reclamation pass. Bad input or configuration yields a 400,
// a run that aborted yields a 500. The error return stays nil in both cases
// so Lambda delivers the report instead of replacing it with an error object.
// The next scheduled invocation re-discovers anything left behind.
func (h *handler) Handle(ctx context.Context, payload json.RawMessage) (Response, error) {
	log := h.logger
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		log = log.New("request_id", lc.AwsRequestID)
	}

	var event events.CloudWatchEvent
	if err := json.Unmarshal(payload, &event); err == nil && event.DetailType != "" {
		log.Info("invoked by event", "detail_type", event.DetailType, "source", event.Source, "event_id", event.ID)
	}

	if h.cfgErr != nil {
		log.Error("configuration invalid", "error", h.cfgErr)
		return h.aborted(http.StatusBadRequest, h.cfg.RetentionDays, h.cfgErr), nil
	}

	in, err := input.Parse(payload, h.cfg.RetentionDays)
	if err != nil {
		log.Error("invalid invocation input", "error", err)
		return h.aborted(http.StatusBadRequest, h.cfg.RetentionDays, err), nil
	}
	if in.Defaulted {
		log.Debug("retention_days not supplied, using default", "retention_days", in.RetentionDays)
	}

	account, err := h.identity.GetAccountInfo(ctx)
	if err != nil {
		log.Error("resolving account failed", "error", err)
		resp := h.aborted(http.StatusInternalServerError, in.RetentionDays, fmt.Errorf("resolving account: %w", err))
		h.observe(ctx, log, resp.Report)
		return resp, nil
	}

	engine := h.newEngine(reclaimer.Options{
		AccountID:  account.AccountID,
		Region:     h.cfg.Region,
		DryRun:     h.cfg.DryRun,
		ProtectTag: h.cfg.ProtectTag,
	})

	report, runErr := engine.Run(ctx, in.RetentionDays)
	h.observe(ctx, log, report)

	if runErr != nil {
		return Response{StatusCode: http.StatusInternalServerError, Report: report, Error: runErr.Error()}, nil
	}

	return Response{StatusCode: http.StatusOK, Report: report}, nil
}

// aborted builds the report for a run that never reached the engine
func (h *handler) aborted(status, retentionDays int, err error) Response {
	report := model.NewReport(uuid.NewString(), retentionDays, time.Now())
	report.Region = h.cfg.Region
	report.DryRun = h.cfg.DryRun
	report.State = model.RunStateAborted
	report.Error = err.Error()
	report.Finish(0)

	return Response{StatusCode: status, Report: report, Error: err.Error()}
}

func (h *handler) observe(ctx context.Context, log log15.Logger, report *model.Report) {
	if h.observer == nil || report == nil {
		return
	}
	h.observer.Observe(report)
	if h.cfg.PushgatewayURL == "" {
		return
	}
	if err := h.observer.Push(ctx, h.cfg.PushgatewayURL); err != nil {
		log.Warn("metrics push failed", "run_id", report.RunID, "error", err)
	}
}
