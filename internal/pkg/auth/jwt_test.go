package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/schoolmanager/internal/pkg/apperrors"
)

func newService(exp time.Duration) *JWTService {
	return NewJWTService(JWTConfig{SecretKey: "test-secret", AccessTokenExp: exp, TokenIssuer: "schoolmanager.test"})
}

func TestTeacherTokenRoundTrip(t *testing.T) {
	svc := newService(time.Hour)
	school := int64(3)

	token, expiresIn, err := svc.GenerateTeacherToken(7, &school)
	require.NoError(t, err)
	assert.Equal(t, 3600, expiresIn)

	claims, err := svc.ValidateTeacherToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.TeacherID)
	require.NotNil(t, claims.SchoolID)
	assert.Equal(t, int64(3), *claims.SchoolID)
	assert.NotEmpty(t, claims.ID)
}

func TestTeacherTokenWithoutSchool(t *testing.T) {
	svc := newService(time.Hour)
	token, _, err := svc.GenerateTeacherToken(7, nil)
	require.NoError(t, err)

	claims, err := svc.ValidateTeacherToken(token)
	require.NoError(t, err)
	assert.Nil(t, claims.SchoolID)
}

func TestRejectedTokens(t *testing.T) {
	svc := newService(time.Hour)
	other := NewJWTService(JWTConfig{SecretKey: "another-secret", AccessTokenExp: time.Hour, TokenIssuer: "schoolmanager.test"})
	foreign, _, err := other.GenerateTeacherToken(7, nil)
	require.NoError(t, err)

	expired, _, err := newService(-time.Minute).GenerateTeacherToken(7, nil)
	require.NoError(t, err)

	_, err = svc.ValidateTeacherToken(foreign)
	assert.True(t, errors.Is(err, apperrors.ErrTokenInvalid))

	_, err = svc.ValidateTeacherToken(expired)
	assert.True(t, errors.Is(err, apperrors.ErrTokenExpired))

	_, err = svc.ValidateTeacherToken("")
	assert.True(t, errors.Is(err, apperrors.ErrTokenInvalid))

	_, err = svc.ValidateTeacherToken("not.a.jwt")
	assert.True(t, errors.Is(err, apperrors.ErrTokenInvalid))
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr bool
	}{
		{header: "Bearer a.b.c", want: "a.b.c"},
		{header: "a.b.c", want: "a.b.c"},
		{header: `"Bearer a.b.c"`, want: "a.b.c"},
		{header: "", wantErr: true},
		{header: "Basic dXNlcg==", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ExtractBearerToken(tt.header)
		if tt.wantErr {
			assert.Error(t, err, tt.header)
			continue
		}
		require.NoError(t, err, tt.header)
		assert.Equal(t, tt.want, got)
	}
}
