// internal/core/services/auth_service_test.go
package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"github.com/pharmadesk/pharmadesk-be/internal/adapters/db"
	"github.com/pharmadesk/pharmadesk-be/internal/core/domain"
	"github.com/pharmadesk/pharmadesk-be/internal/core/services"
	"github.com/pharmadesk/pharmadesk-be/test/helpers"
	"github.com/pharmadesk/pharmadesk-be/test/mocks"
)

const testSecret = "test-signing-secret"

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestAuthService_Login(t *testing.T) {
	activeAccount := func(t *testing.T) *domain.Staff {
		return &domain.Staff{
			ID:           14,
			Username:     "jsmith",
			PasswordHash: hashPassword(t, "correct-horse"),
			FullName:     "Jordan Smith",
			Role:         domain.RolePharmacist,
			Active:       true,
		}
	}

	tests := []struct {
		name          string
		username      string
		password      string
		setupMocks    func(repo *mocks.MockStaffRepository)
		expectedError error
	}{
		{
			name:     "valid credentials issue a token",
			username: "jsmith",
			password: "correct-horse",
			setupMocks: func(repo *mocks.MockStaffRepository) {
				repo.EXPECT().FindByUsername(gomock.Any(), "jsmith").Return(activeAccount(t), nil)
			},
		},
		{
			name:          "empty username rejected without repository call",
			username:      "",
			password:      "whatever",
			setupMocks:    func(repo *mocks.MockStaffRepository) {},
			expectedError: services.ErrInvalidRequest,
		},
		{
			name:          "empty password rejected without repository call",
			username:      "jsmith",
			password:      "",
			setupMocks:    func(repo *mocks.MockStaffRepository) {},
			expectedError: services.ErrInvalidRequest,
		},
		{
			name:     "unknown username maps to invalid credentials",
			username: "ghost",
			password: "correct-horse",
			setupMocks: func(repo *mocks.MockStaffRepository) {
				repo.EXPECT().FindByUsername(gomock.Any(), "ghost").Return(nil, db.ErrNotFound)
			},
			expectedError: services.ErrInvalidCredentials,
		},
		{
			name:     "wrong password maps to invalid credentials",
			username: "jsmith",
			password: "incorrect-horse",
			setupMocks: func(repo *mocks.MockStaffRepository) {
				repo.EXPECT().FindByUsername(gomock.Any(), "jsmith").Return(activeAccount(t), nil)
			},
			expectedError: services.ErrInvalidCredentials,
		},
		{
			name:     "disabled account maps to invalid credentials",
			username: "jsmith",
			password: "correct-horse",
			setupMocks: func(repo *mocks.MockStaffRepository) {
				acct := activeAccount(t)
				acct.Active = false
				repo.EXPECT().FindByUsername(gomock.Any(), "jsmith").Return(acct, nil)
			},
			expectedError: services.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := mocks.NewMockStaffRepository(ctrl)
			tt.setupMocks(repo)

			svc := services.NewAuthService(repo, testSecret, time.Hour, bcrypt.MinCost, helpers.TestLogger())

			token, staff, err := svc.Login(context.Background(), tt.username, tt.password)

			if tt.expectedError != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Empty(t, token)
				assert.Nil(t, staff)
				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, token)
			require.NotNil(t, staff)
			assert.Equal(t, tt.username, staff.Username)
		})
	}
}

func TestAuthService_LoginTokenRoundTrip(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	account := &domain.Staff{
		ID:           9,
		Username:     "admin",
		PasswordHash: hashPassword(t, "s3cret-pass"),
		FullName:     "Site Admin",
		Role:         domain.RoleAdmin,
		Active:       true,
	}

	repo := mocks.NewMockStaffRepository(ctrl)
	repo.EXPECT().FindByUsername(gomock.Any(), "admin").Return(account, nil)

	svc := services.NewAuthService(repo, testSecret, time.Hour, bcrypt.MinCost, helpers.TestLogger())

	token, _, err := svc.Login(context.Background(), "admin", "s3cret-pass")
	require.NoError(t, err)

	claims, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "9", claims.Subject)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, string(domain.RoleAdmin), claims.Role)
	assert.Equal(t, "pharmadesk", claims.Issuer)
}

func TestAuthService_VerifyToken(t *testing.T) {
	newService := func(secret string) *services.AuthService {
		return services.NewAuthService(nil, secret, time.Hour, bcrypt.MinCost, helpers.TestLogger())
	}

	t.Run("garbage token rejected", func(t *testing.T) {
		_, err := newService(testSecret).VerifyToken("not.a.token")
		require.Error(t, err)
		assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	})

	t.Run("token signed with a different secret rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		account := &domain.Staff{
			ID:           1,
			Username:     "jsmith",
			PasswordHash: hashPassword(t, "correct-horse"),
			Role:         domain.RolePharmacist,
			Active:       true,
		}
		repo := mocks.NewMockStaffRepository(ctrl)
		repo.EXPECT().FindByUsername(gomock.Any(), "jsmith").Return(account, nil)

		issuer := services.NewAuthService(repo, "other-secret", time.Hour, bcrypt.MinCost, helpers.TestLogger())
		token, _, err := issuer.Login(context.Background(), "jsmith", "correct-horse")
		require.NoError(t, err)

		_, err = newService(testSecret).VerifyToken(token)
		require.Error(t, err)
		assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	})

	t.Run("expired token rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		account := &domain.Staff{
			ID:           1,
			Username:     "jsmith",
			PasswordHash: hashPassword(t, "correct-horse"),
			Role:         domain.RolePharmacist,
			Active:       true,
		}
		repo := mocks.NewMockStaffRepository(ctrl)
		repo.EXPECT().FindByUsername(gomock.Any(), "jsmith").Return(account, nil)

		svc := services.NewAuthService(repo, testSecret, -time.Minute, bcrypt.MinCost, helpers.TestLogger())
		token, _, err := svc.Login(context.Background(), "jsmith", "correct-horse")
		require.NoError(t, err)

		_, err = svc.VerifyToken(token)
		require.Error(t, err)
		assert.ErrorIs(t, err, services.ErrInvalidCredentials)
	})
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name          string
		staff         *domain.Staff
		password      string
		setupMocks    func(repo *mocks.MockStaffRepository)
		expectedError error
	}{
		{
			name:     "hashes the password and activates the account",
			staff:    &domain.Staff{Username: "newhire", FullName: "New Hire", Role: domain.RolePharmacist},
			password: "long-enough-password",
			setupMocks: func(repo *mocks.MockStaffRepository) {
				repo.EXPECT().
					Save(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, s *domain.Staff) error {
						assert.True(t, s.Active)
						assert.NotEqual(t, "long-enough-password", s.PasswordHash)
						assert.NoError(t, bcrypt.CompareHashAndPassword(
							[]byte(s.PasswordHash), []byte("long-enough-password")))
						return nil
					})
			},
		},
		{
			name:          "missing username rejected",
			staff:         &domain.Staff{FullName: "No Name", Role: domain.RolePharmacist},
			password:      "long-enough-password",
			setupMocks:    func(repo *mocks.MockStaffRepository) {},
			expectedError: services.ErrInvalidRequest,
		},
		{
			name:          "short password rejected",
			staff:         &domain.Staff{Username: "newhire", FullName: "New Hire", Role: domain.RolePharmacist},
			password:      "short",
			setupMocks:    func(repo *mocks.MockStaffRepository) {},
			expectedError: services.ErrInvalidRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := mocks.NewMockStaffRepository(ctrl)
			tt.setupMocks(repo)

			svc := services.NewAuthService(repo, testSecret, time.Hour, bcrypt.MinCost, helpers.TestLogger())

			err := svc.Register(context.Background(), tt.staff, tt.password)

			if tt.expectedError != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedError)
				return
			}
			require.NoError(t, err)
		})
	}
}
