package submission

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"nordclean/internal/session"
	"nordclean/pkg/web3forms"
)

type stubSource struct {
	sel session.Selection
	err error
}

func (s stubSource) Get(context.Context, string) (session.Selection, error) {
	return s.sel, s.err
}

type MockSubmitter struct {
	mock.Mock
}

func (m *MockSubmitter) Submit(ctx context.Context, form url.Values) (web3forms.Response, error) {
	args := m.Called(ctx, form)
	return args.Get(0).(web3forms.Response), args.Error(1)
}

type recordingNotifier struct {
	mu    sync.Mutex
	leads []Lead
	err   error
}

func (n *recordingNotifier) NotifyLead(_ context.Context, lead Lead) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.leads = append(n.leads, lead)
	return n.err
}

func TestRelay_Success(t *testing.T) {
	sel := session.DefaultSelection().WithHomeSize("120").Recompute()
	sub := &MockSubmitter{}
	sub.On("Submit", mock.Anything, mock.MatchedBy(func(form url.Values) bool {
		return form.Get(FieldPrice) == "1132" && form.Get(FieldName) == "Erik"
	})).Return(web3forms.Response{Success: true, Message: "ok"}, nil).Once()

	notifier := &recordingNotifier{}
	r := NewRelay("key", stubSource{sel: sel}, sub, notifier, zaptest.NewLogger(t))

	resp, err := r.Submit(context.Background(), "s1", Contact{Name: "Erik"}, "tok")
	require.NoError(t, err)
	assert.True(t, resp.Success)

	r.Wait()
	sub.AssertExpectations(t)
	require.Len(t, notifier.leads, 1)
	assert.Equal(t, "s1", notifier.leads[0].SessionID)
	assert.Equal(t, sel, notifier.leads[0].Selection)
}

func TestRelay_SubmitterError(t *testing.T) {
	sub := &MockSubmitter{}
	rejected := fmt.Errorf("web3forms.Submit: %w", web3forms.ErrRejected)
	sub.On("Submit", mock.Anything, mock.Anything).Return(web3forms.Response{Message: "bad key"}, rejected)

	notifier := &recordingNotifier{}
	r := NewRelay("key", stubSource{sel: session.DefaultSelection()}, sub, notifier, zaptest.NewLogger(t))

	_, err := r.Submit(context.Background(), "s1", Contact{}, "")
	assert.ErrorIs(t, err, web3forms.ErrRejected)

	r.Wait()
	assert.Empty(t, notifier.leads)
}

func TestRelay_SourceError(t *testing.T) {
	sub := &MockSubmitter{}
	r := NewRelay("key", stubSource{err: errors.New("redis down")}, sub, nil, zaptest.NewLogger(t))

	_, err := r.Submit(context.Background(), "s1", Contact{}, "")
	assert.ErrorContains(t, err, "load selection")
	sub.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
}

func TestRelay_NotifierFailureDoesNotFailSubmit(t *testing.T) {
	sub := &MockSubmitter{}
	sub.On("Submit", mock.Anything, mock.Anything).Return(web3forms.Response{Success: true}, nil)

	notifier := &recordingNotifier{err: errors.New("telegram down")}
	r := NewRelay("key", stubSource{sel: session.DefaultSelection()}, sub, notifier, zaptest.NewLogger(t))

	_, err := r.Submit(context.Background(), "s1", Contact{}, "")
	require.NoError(t, err)
	r.Wait()
	assert.Len(t, notifier.leads, 1)
}
