package submission

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"nordclean/internal/metrics"
	"nordclean/internal/session"
	"nordclean/pkg/web3forms"

	"go.uber.org/zap"
)

const notifyTimeout = 15 * time.Second

type SelectionSource interface {
	Get(ctx context.Context, sessionID string) (session.Selection, error)
}

type Submitter interface {
	Submit(ctx context.Context, form url.Values) (web3forms.Response, error)
}

// Lead is a relayed submission, handed to the notifier afterwards.
type Lead struct {
	SessionID string
	Selection session.Selection
	Contact   Contact
	SentAt    time.Time
}

type LeadNotifier interface {
	NotifyLead(ctx context.Context, lead Lead) error
}

// Relay sends a visitor's final selection and contact details to the form endpoint.
type Relay struct {
	accessKey string
	source    SelectionSource
	submitter Submitter
	notifier  LeadNotifier
	logger    *zap.Logger
	wg        sync.WaitGroup
}

// NewRelay creates a relay. notifier may be nil.
func NewRelay(accessKey string, source SelectionSource, submitter Submitter, notifier LeadNotifier, logger *zap.Logger) *Relay {
	return &Relay{
		accessKey: accessKey,
		source:    source,
		submitter: submitter,
		notifier:  notifier,
		logger:    logger,
	}
}

func (r *Relay) Submit(ctx context.Context, sessionID string, contact Contact, captchaToken string) (web3forms.Response, error) {
	sel, err := r.source.Get(ctx, sessionID)
	if err != nil {
		metrics.Submissions.WithLabelValues("failed").Inc()
		return web3forms.Response{}, fmt.Errorf("load selection: %w", err)
	}

	form := BuildPayload(r.accessKey, sel, contact, captchaToken)

	start := time.Now()
	resp, err := r.submitter.Submit(ctx, form)
	metrics.RelayDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		result := "failed"
		if errors.Is(err, web3forms.ErrRejected) {
			result = "rejected"
		}
		metrics.Submissions.WithLabelValues(result).Inc()
		r.logger.Error("Failed to relay submission",
			zap.String("session_id", sessionID),
			zap.String("result", result),
			zap.Error(err))
		return resp, err
	}

	metrics.Submissions.WithLabelValues("success").Inc()
	r.logger.Info("Submission relayed",
		zap.String("session_id", sessionID),
		zap.String("cleaning_type", string(sel.CleaningType)),
		zap.Stringer("price", sel.Price))

	if r.notifier != nil {
		lead := Lead{SessionID: sessionID, Selection: sel, Contact: contact, SentAt: time.Now()}
		r.wg.Add(1)
		go r.notify(context.WithoutCancel(ctx), lead)
	}

	return resp, nil
}

// Wait blocks until in-flight lead notifications finish.
func (r *Relay) Wait() {
	r.wg.Wait()
}

func (r *Relay) notify(ctx context.Context, lead Lead) {
	defer r.wg.Done()

	ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()

	if err := r.notifier.NotifyLead(ctx, lead); err != nil {
		metrics.Notifications.WithLabelValues("failed").Inc()
		r.logger.Error("Failed to send lead notification",
			zap.String("session_id", lead.SessionID),
			zap.Error(err))
		return
	}
	metrics.Notifications.WithLabelValues("sent").Inc()
}
