package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/t1112000/seatly-fe/internal/apiclient"
	"github.com/t1112000/seatly-fe/internal/apiclient/apiclienttest"
)

func TestClient_LoginWithGoogle(t *testing.T) {
	tr := apiclienttest.New().JSON(http.MethodPost, "/v1/auth/google", `{"data":{"id":"u1"}}`)
	c := NewClient(tr)

	require.NoError(t, c.LoginWithGoogle(context.Background(), "ya29.token"))
	calls := tr.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, map[string]string{"access_token": "ya29.token"}, calls[0].Body)

	err := c.LoginWithGoogle(context.Background(), "")
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.Len(t, tr.Calls(), 1)
}

func TestClient_Me(t *testing.T) {
	tr := apiclienttest.New().JSON(http.MethodGet, "/v1/auth/me", `{"data":{"id":"u1","email":"a@b.c"}}`)
	u, err := NewClient(tr).Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	require.NotNil(t, u.Email)
	assert.Equal(t, "a@b.c", *u.Email)

	tr.JSON(http.MethodGet, "/v1/auth/me", `{"id":"u2"}`)
	u, err = NewClient(tr).Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u2", u.ID)
}

func TestClient_MeUnauthenticated(t *testing.T) {
	tr := apiclienttest.New().Fail(http.MethodGet, "/v1/auth/me",
		&apiclient.Error{StatusCode: http.StatusUnauthorized, Message: "Unauthorized"})
	_, err := NewClient(tr).Me(context.Background())
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.Equal(t, "Unauthorized", apiclient.Message(err, ""))

	tr.Fail(http.MethodGet, "/v1/auth/me", errors.New("connection reset"))
	_, err = NewClient(tr).Me(context.Background())
	assert.NotErrorIs(t, err, ErrUnauthenticated)
}

func TestClient_Logout(t *testing.T) {
	tr := apiclienttest.New().Handle(http.MethodPost, "/v1/auth/logout", func(context.Context, any) (json.RawMessage, error) {
		return nil, nil
	})
	assert.NoError(t, NewClient(tr).Logout(context.Background()))
}
