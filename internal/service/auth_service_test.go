package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"floradmin/internal/apiclient"
	"floradmin/internal/metrics"
	"floradmin/internal/model"
	"floradmin/internal/session"
)

// MockAuthenticator is a mock implementation of Authenticator.
type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Login(ctx context.Context, username, password string) (*apiclient.LoginResult, error) {
	args := m.Called(ctx, username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apiclient.LoginResult), args.Error(1)
}

// MockSessionManager is a mock implementation of SessionManager.
type MockSessionManager struct {
	mock.Mock
}

func (m *MockSessionManager) Login(ctx context.Context, sid, token string, identity model.Identity) (session.Session, error) {
	args := m.Called(ctx, sid, token, identity)
	return args.Get(0).(session.Session), args.Error(1)
}

func (m *MockSessionManager) Logout(ctx context.Context, sid string) error {
	args := m.Called(ctx, sid)
	return args.Error(0)
}

var storeUser = model.Identity{UserID: "u2", DisplayName: "maria", Role: model.RoleStoreUser, StoreID: "s1"}

func TestAuthService_Login(t *testing.T) {
	tests := []struct {
		name          string
		previousSID   string
		username      string
		password      string
		setupMock     func(*MockAuthenticator, *MockSessionManager)
		expectedError error
	}{
		{
			name:        "successful login rotates the session",
			previousSID: "old",
			username:    " maria ",
			password:    "secreto",
			setupMock: func(a *MockAuthenticator, s *MockSessionManager) {
				a.On("Login", mock.Anything, "maria", "secreto").
					Return(&apiclient.LoginResult{Token: "tok", User: storeUser}, nil)
				s.On("Login", mock.Anything, "new-sid", "tok", storeUser).
					Return(session.Session{ID: "new-sid", Token: "tok", Identity: storeUser}, nil)
				s.On("Logout", mock.Anything, "old").Return(nil)
			},
		},
		{
			name:          "blank username never reaches the backend",
			previousSID:   "old",
			username:      "   ",
			password:      "secreto",
			setupMock:     func(*MockAuthenticator, *MockSessionManager) {},
			expectedError: ErrInvalidCredentials,
		},
		{
			name:          "blank password never reaches the backend",
			username:      "maria",
			setupMock:     func(*MockAuthenticator, *MockSessionManager) {},
			expectedError: ErrInvalidCredentials,
		},
		{
			name:        "backend rejects credentials",
			previousSID: "old",
			username:    "maria",
			password:    "wrong",
			setupMock: func(a *MockAuthenticator, s *MockSessionManager) {
				a.On("Login", mock.Anything, "maria", "wrong").
					Return(nil, &apiclient.APIError{Status: http.StatusUnauthorized})
			},
			expectedError: ErrInvalidCredentials,
		},
		{
			name:     "backend unreachable",
			username: "maria",
			password: "secreto",
			setupMock: func(a *MockAuthenticator, s *MockSessionManager) {
				a.On("Login", mock.Anything, "maria", "secreto").Return(nil, apiclient.ErrTimeout)
			},
			expectedError: apiclient.ErrTimeout,
		},
		{
			name:        "account without store",
			previousSID: "old",
			username:    "maria",
			password:    "secreto",
			setupMock: func(a *MockAuthenticator, s *MockSessionManager) {
				id := model.Identity{DisplayName: "maria", Role: model.RoleStoreUser}
				a.On("Login", mock.Anything, "maria", "secreto").
					Return(&apiclient.LoginResult{Token: "tok", User: id}, nil)
				s.On("Login", mock.Anything, "new-sid", "tok", id).
					Return(session.Session{}, session.ErrIncompleteIdentity)
			},
			expectedError: ErrAccountNotUsable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockAuth := new(MockAuthenticator)
			mockSessions := new(MockSessionManager)
			tt.setupMock(mockAuth, mockSessions)

			svc := NewAuthService(mockAuth, mockSessions, metrics.New(), nil).(*authService)
			svc.newID = func() string { return "new-sid" }

			sess, err := svc.Login(context.Background(), tt.previousSID, tt.username, tt.password)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.True(t, errors.Is(err, tt.expectedError), "got %v", err)
				assert.Empty(t, sess.Token)
				mockSessions.AssertNotCalled(t, "Logout", mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "new-sid", sess.ID)
				assert.NotEmpty(t, sess.Token)
				assert.True(t, sess.Identity.Role.Valid())
			}

			mockAuth.AssertExpectations(t)
			mockSessions.AssertExpectations(t)
		})
	}
}

func TestAuthService_Logout(t *testing.T) {
	mockSessions := new(MockSessionManager)
	mockSessions.On("Logout", mock.Anything, "sid").Return(nil).Twice()

	svc := NewAuthService(new(MockAuthenticator), mockSessions, nil, nil)

	assert.NoError(t, svc.Logout(context.Background(), "sid"))
	assert.NoError(t, svc.Logout(context.Background(), "sid"))
	assert.NoError(t, svc.Logout(context.Background(), ""))

	mockSessions.AssertExpectations(t)
}
