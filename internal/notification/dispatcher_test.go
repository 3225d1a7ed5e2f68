package notification_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"e-approval/internal/events"
	"e-approval/internal/notification"
	notificationMock "e-approval/internal/notification/mock"
	"e-approval/internal/request"
	requesterrors "e-approval/internal/request/errors"
	"e-approval/internal/user"
	usererrors "e-approval/internal/user/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

type fakeRequestReader struct {
	GetByIDFn        func(ctx context.Context, id string, viewer request.Viewer) (request.RequestResponse, error)
	RenderDocumentFn func(ctx context.Context, id string, viewer request.Viewer) ([]byte, string, error)
}

func (f *fakeRequestReader) GetByID(ctx context.Context, id string, viewer request.Viewer) (request.RequestResponse, error) {
	return f.GetByIDFn(ctx, id, viewer)
}

func (f *fakeRequestReader) RenderDocument(ctx context.Context, id string, viewer request.Viewer) ([]byte, string, error) {
	if f.RenderDocumentFn == nil {
		return nil, "", errors.New("render not expected")
	}
	return f.RenderDocumentFn(ctx, id, viewer)
}

type fakeDirectory map[string]user.Principal

func (d fakeDirectory) ResolvePrincipal(_ context.Context, id string) (user.Principal, error) {
	p, ok := d[id]
	if !ok {
		return user.Principal{}, usererrors.ErrUserNotFound
	}
	return p, nil
}

var directory = fakeDirectory{
	"staff-1":    {ID: "staff-1", Name: "Sari", Email: "sari@corp.test", Role: user.RoleStaff},
	"approver-1": {ID: "approver-1", Name: "Andi", Email: "andi@corp.test", Role: user.RoleApprover},
	"approver-2": {ID: "approver-2", Name: "Budi", Email: "budi@corp.test", Role: user.RoleApprover},
	"tech-1":     {ID: "tech-1", Name: "Tika", Email: "tika@corp.test", Role: user.RoleTechnician},
}

func purchaseRequest() request.RequestResponse {
	return request.RequestResponse{
		ID:              "req-1",
		SerialNumber:    "REQ-2026-0007",
		RequestorID:     "staff-1",
		StaffName:       "Sari",
		StaffDepartment: "Finance",
		RequestType:     request.TypePurchase,
		FinalStatus:     request.StatusPending,
		Approvals: []request.ApprovalResponse{
			{Level: 1, ApproverID: "approver-1", ApproverName: "Andi", Status: request.StatusApproved},
			{Level: 2, ApproverID: "approver-2", ApproverName: "Budi", Status: request.StatusRejected, Remark: "over budget"},
		},
	}
}

func setupDispatcher(t *testing.T, reader *fakeRequestReader) (*notification.Dispatcher, *notificationMock.MockNotifier) {
	ctrl := gomock.NewController(t)
	notifier := notificationMock.NewMockNotifier(ctrl)
	d := notification.NewDispatcher(directory, notifier, "https://approvals.corp.test/", zap.NewNop())
	d.SetRequestReader(reader)
	return d, notifier
}

func TestDispatcher_RequestCreated(t *testing.T) {
	reader := &fakeRequestReader{
		GetByIDFn: func(ctx context.Context, id string, viewer request.Viewer) (request.RequestResponse, error) {
			assert.Equal(t, request.SystemViewer, viewer)
			return purchaseRequest(), nil
		},
		RenderDocumentFn: func(ctx context.Context, id string, viewer request.Viewer) ([]byte, string, error) {
			return []byte("%PDF-1.4"), "REQ-2026-0007.pdf", nil
		},
	}
	d, notifier := setupDispatcher(t, reader)

	var sent []notification.Message
	notifier.EXPECT().Send(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, msg notification.Message) error {
			sent = append(sent, msg)
			return nil
		}).Times(2)

	err := d.Handle(context.Background(), events.RequestLifecycleEvent{
		EventType:    events.RequestCreated,
		RequestID:    "req-1",
		RecipientIDs: []string{"approver-1", "approver-2"},
	})

	require.NoError(t, err)
	require.Len(t, sent, 2)
	assert.Equal(t, []string{"andi@corp.test"}, sent[0].To)
	assert.Equal(t, []string{"budi@corp.test"}, sent[1].To)
	assert.Contains(t, sent[0].Subject, "REQ-2026-0007")
	assert.Contains(t, sent[0].HTMLBody, "https://approvals.corp.test/requests/req-1")
	require.Len(t, sent[0].Attachments, 1)
	assert.Equal(t, "REQ-2026-0007.pdf", sent[0].Attachments[0].Name)
	assert.Equal(t, "application/pdf", sent[0].Attachments[0].ContentType)
}

func TestDispatcher_RenderFailureStillSends(t *testing.T) {
	reader := &fakeRequestReader{
		GetByIDFn: func(ctx context.Context, id string, viewer request.Viewer) (request.RequestResponse, error) {
			r := purchaseRequest()
			r.FinalStatus = request.StatusApproved
			return r, nil
		},
		RenderDocumentFn: func(ctx context.Context, id string, viewer request.Viewer) ([]byte, string, error) {
			return nil, "", errors.New("renderer down")
		},
	}
	d, notifier := setupDispatcher(t, reader)

	notifier.EXPECT().Send(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, msg notification.Message) error {
			assert.Equal(t, []string{"sari@corp.test"}, msg.To)
			assert.Empty(t, msg.Attachments)
			return nil
		})

	err := d.Handle(context.Background(), events.RequestLifecycleEvent{
		EventType:    events.RequestFullyApproved,
		RequestID:    "req-1",
		RecipientIDs: []string{"staff-1"},
	})
	assert.NoError(t, err)
}

func TestDispatcher_RequestRejectedCarriesRemark(t *testing.T) {
	reader := &fakeRequestReader{
		GetByIDFn: func(ctx context.Context, id string, viewer request.Viewer) (request.RequestResponse, error) {
			return purchaseRequest(), nil
		},
	}
	d, notifier := setupDispatcher(t, reader)

	notifier.EXPECT().Send(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, msg notification.Message) error {
			assert.Contains(t, msg.Subject, "rejected")
			assert.Contains(t, msg.HTMLBody, "over budget")
			assert.Contains(t, msg.HTMLBody, "Budi")
			assert.Empty(t, msg.Attachments)
			return nil
		})

	err := d.Handle(context.Background(), events.RequestLifecycleEvent{
		EventType:    events.RequestRejected,
		RequestID:    "req-1",
		ActorID:      "approver-2",
		RecipientIDs: []string{"staff-1"},
	})
	assert.NoError(t, err)
}

func TestDispatcher_MaintenanceEvents(t *testing.T) {
	sla, minutes := 4, 130
	maintenance := request.RequestResponse{
		ID:           "req-9",
		SerialNumber: "REQ-2026-0009",
		RequestorID:  "staff-1",
		StaffName:    "Sari",
		RequestType:  request.TypeMaintenance,
		Priority:     request.PriorityUrgent,
		Details:      json.RawMessage(`{"issue":"AC leaking","location":"Room 301"}`),
		Maintenance: &request.MaintenanceResponse{
			TechnicianID:          "tech-1",
			Status:                request.MaintenanceCompleted,
			SLAHours:              &sla,
			TimeToCompleteMinutes: &minutes,
		},
	}
	reader := &fakeRequestReader{
		GetByIDFn: func(ctx context.Context, id string, viewer request.Viewer) (request.RequestResponse, error) {
			return maintenance, nil
		},
	}

	t.Run("technician assigned", func(t *testing.T) {
		d, notifier := setupDispatcher(t, reader)
		notifier.EXPECT().Send(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, msg notification.Message) error {
				assert.Equal(t, []string{"tika@corp.test"}, msg.To)
				assert.Contains(t, msg.HTMLBody, "AC leaking")
				assert.Contains(t, msg.HTMLBody, "Room 301")
				assert.Contains(t, msg.HTMLBody, "URGENT")
				assert.Contains(t, msg.HTMLBody, "4 hours")
				return nil
			})

		err := d.Handle(context.Background(), events.RequestLifecycleEvent{
			EventType:    events.TechnicianAssigned,
			RequestID:    "req-9",
			RecipientIDs: []string{"tech-1"},
		})
		assert.NoError(t, err)
	})

	t.Run("maintenance completed", func(t *testing.T) {
		d, notifier := setupDispatcher(t, reader)
		notifier.EXPECT().Send(gomock.Any(), gomock.Any()).
			DoAndReturn(func(ctx context.Context, msg notification.Message) error {
				assert.Equal(t, []string{"sari@corp.test"}, msg.To)
				assert.Contains(t, msg.HTMLBody, "130 minutes")
				return nil
			})

		err := d.Handle(context.Background(), events.RequestLifecycleEvent{
			EventType:    events.MaintenanceCompleted,
			RequestID:    "req-9",
			RecipientIDs: []string{"staff-1"},
		})
		assert.NoError(t, err)
	})
}

func TestDispatcher_DeliveryFailuresAreSwallowed(t *testing.T) {
	reader := &fakeRequestReader{
		GetByIDFn: func(ctx context.Context, id string, viewer request.Viewer) (request.RequestResponse, error) {
			return purchaseRequest(), nil
		},
	}
	d, notifier := setupDispatcher(t, reader)

	// unknown-user is skipped before send; approver-1 fails at smtp.
	notifier.EXPECT().Send(gomock.Any(), gomock.Any()).Return(errors.New("smtp down"))

	err := d.Handle(context.Background(), events.RequestLifecycleEvent{
		EventType:    events.RequestRejected,
		RequestID:    "req-1",
		RecipientIDs: []string{"unknown-user", "approver-1"},
	})
	assert.NoError(t, err)
}

func TestDispatcher_MissingRequestIsSkipped(t *testing.T) {
	reader := &fakeRequestReader{
		GetByIDFn: func(ctx context.Context, id string, viewer request.Viewer) (request.RequestResponse, error) {
			return request.RequestResponse{}, requesterrors.ErrRequestNotFound
		},
	}
	d, _ := setupDispatcher(t, reader)

	err := d.Handle(context.Background(), events.RequestLifecycleEvent{
		EventType:    events.RequestCreated,
		RequestID:    "gone",
		RecipientIDs: []string{"approver-1"},
	})
	assert.ErrorIs(t, err, events.ErrSkipEvent)
}

func TestDispatcher_LookupErrorIsReturned(t *testing.T) {
	reader := &fakeRequestReader{
		GetByIDFn: func(ctx context.Context, id string, viewer request.Viewer) (request.RequestResponse, error) {
			return request.RequestResponse{}, errors.New("db down")
		},
	}
	d, _ := setupDispatcher(t, reader)

	err := d.Publish(context.Background(), events.RequestLifecycleEvent{
		EventType: events.RequestCreated,
		RequestID: "req-1",
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, events.ErrSkipEvent)
}

func TestDispatcher_UnknownEventIgnored(t *testing.T) {
	d, _ := setupDispatcher(t, &fakeRequestReader{})

	err := d.Handle(context.Background(), events.RequestLifecycleEvent{EventType: "something_else"})
	assert.NoError(t, err)
}
