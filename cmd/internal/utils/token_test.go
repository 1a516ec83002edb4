package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func echoContextWithAuth(header string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	return e.NewContext(req, httptest.NewRecorder())
}

func TestTokenRoundTrip(t *testing.T) {
	ConfigureTokens("round-trip-secret", time.Minute)

	token, err := GenerateToken(7, "marta", "doctor")
	require.NoError(t, err)

	data, err := ParseTokenDataCtx(echoContextWithAuth("Bearer " + token))
	require.NoError(t, err)
	require.Equal(t, 7, data.UserID)
	require.Equal(t, "marta", data.Username)
	require.Equal(t, "doctor", data.Role)
}

func TestParseRejectsMissingHeader(t *testing.T) {
	ConfigureTokens("round-trip-secret", time.Minute)

	_, err := ParseTokenDataCtx(echoContextWithAuth(""))
	require.Error(t, err)

	_, err = ParseTokenDataCtx(echoContextWithAuth("Basic abc"))
	require.Error(t, err)
}

func TestParseRejectsForeignSignature(t *testing.T) {
	ConfigureTokens("secret-one", time.Minute)
	token, err := GenerateToken(1, "x", "patient")
	require.NoError(t, err)

	ConfigureTokens("secret-two", time.Minute)
	_, err = ParseTokenDataCtx(echoContextWithAuth("Bearer " + token))
	require.Error(t, err)
}

func TestParseRejectsTamperedToken(t *testing.T) {
	ConfigureTokens("round-trip-secret", time.Minute)
	token, err := GenerateToken(1, "x", "patient")
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "zz"
	_, err = ParseTokenDataCtx(echoContextWithAuth("Bearer " + tampered))
	require.Error(t, err)
}
