package security

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	jwtlib "github.com/SHANKAR-YADAVA/ChatApp/tools/security"
)

func newAuthedRouter(opts jwtlib.Options) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/whoami", Middleware(opts), func(c *gin.Context) {
		c.String(http.StatusOK, UserID(c))
	})
	return r
}

func testOpts() jwtlib.Options {
	return jwtlib.DefaultOptions([]byte("test-secret"))
}

func TestMiddleware_AcceptsCookieToken(t *testing.T) {
	opts := testOpts()
	token, _, err := jwtlib.Generate(opts, "u1")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	newAuthedRouter(opts).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "u1", w.Body.String())
}

func TestMiddleware_AcceptsBearerHeader(t *testing.T) {
	opts := testOpts()
	token, _, err := jwtlib.Generate(opts, "u2")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	newAuthedRouter(opts).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "u2", w.Body.String())
}

func TestMiddleware_RejectsMissingToken(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	newAuthedRouter(testOpts()).ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMiddleware_RejectsGarbageToken(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "not.a.jwt"})
	newAuthedRouter(testOpts()).ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMiddleware_RejectsTokenSignedWithOtherSecret(t *testing.T) {
	other := testOpts()
	other.Secret = []byte("someone-else")
	token, _, err := jwtlib.Generate(other, "u1")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	newAuthedRouter(testOpts()).ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMiddleware_RejectsExpiredToken(t *testing.T) {
	opts := testOpts()
	opts.TTL = time.Millisecond
	token, _, err := jwtlib.Generate(opts, "u1")
	require.NoError(t, err)
	time.Sleep(50 * time.Millisecond)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	newAuthedRouter(opts).ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
