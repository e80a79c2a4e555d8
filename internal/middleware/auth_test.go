package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"wallet/internal/config"
	"wallet/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testUser = &models.User{Base: models.Base{ID: "01900000-0000-7000-8000-000000000001"}, Email: "auth@example.com"}

func protectedRouter() *gin.Engine {
	r := gin.New()
	r.GET("/me", AuthMiddleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString(UserIDKey), "email": c.GetString(EmailKey)})
	})
	return r
}

func callProtected(t *testing.T, header string) (int, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	protectedRouter().ServeHTTP(rec, req)

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body %q: %v", rec.Body.String(), err)
	}
	return rec.Code, body
}

func errorCode(body map[string]interface{}) interface{} {
	e, _ := body["error"].(map[string]interface{})
	return e["code"]
}

func TestAuthMiddleware(t *testing.T) {
	t.Run("valid access token", func(t *testing.T) {
		token, err := GenerateAccessToken(testUser)
		if err != nil {
			t.Fatalf("generate: %v", err)
		}

		code, body := callProtected(t, "Bearer "+token)

		if code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %v", code, body)
		}
		if body["user_id"] != testUser.ID || body["email"] != testUser.Email {
			t.Errorf("unexpected context values %v", body)
		}
	})

	t.Run("missing header", func(t *testing.T) {
		code, body := callProtected(t, "")
		if code != http.StatusUnauthorized || errorCode(body) != "UNAUTHORIZED" {
			t.Errorf("expected 401 UNAUTHORIZED, got %d %v", code, body)
		}
	})

	t.Run("malformed header", func(t *testing.T) {
		code, _ := callProtected(t, "Token abc")
		if code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", code)
		}
	})

	t.Run("refresh token rejected", func(t *testing.T) {
		token, _ := GenerateRefreshToken(testUser)
		code, body := callProtected(t, "Bearer "+token)
		if code != http.StatusUnauthorized || errorCode(body) != "INVALID_TOKEN" {
			t.Errorf("expected 401 INVALID_TOKEN, got %d %v", code, body)
		}
	})

	t.Run("expired token rejected", func(t *testing.T) {
		token, _ := generateToken(testUser, tokenTypeAccess, -time.Minute)
		code, _ := callProtected(t, "Bearer "+token)
		if code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", code)
		}
	})

	t.Run("foreign issuer rejected", func(t *testing.T) {
		claims := &JWTClaims{
			UserID:    testUser.ID,
			TokenType: tokenTypeAccess,
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "someone-else",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
			},
		}
		token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(config.Get().JWTSecret))
		code, _ := callProtected(t, "Bearer "+token)
		if code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", code)
		}
	})

	t.Run("wrong signing key rejected", func(t *testing.T) {
		claims := &JWTClaims{
			UserID:    testUser.ID,
			TokenType: tokenTypeAccess,
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    tokenIssuer,
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
			},
		}
		token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("not-the-secret"))
		code, _ := callProtected(t, "Bearer "+token)
		if code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d", code)
		}
	})
}

func TestValidateRefreshToken(t *testing.T) {
	refresh, _ := GenerateRefreshToken(testUser)
	claims, err := ValidateRefreshToken(refresh)
	if err != nil {
		t.Fatalf("expected valid refresh token: %v", err)
	}
	if claims.UserID != testUser.ID || claims.Subject != testUser.ID {
		t.Errorf("unexpected claims %+v", claims)
	}

	access, _ := GenerateAccessToken(testUser)
	if _, err := ValidateRefreshToken(access); err == nil {
		t.Error("access token must not validate as a refresh token")
	}
}

func TestHashToken(t *testing.T) {
	a, b := HashToken("one"), HashToken("two")
	if len(a) != 64 || a == b || a != HashToken("one") {
		t.Errorf("unexpected digests %s %s", a, b)
	}
}
