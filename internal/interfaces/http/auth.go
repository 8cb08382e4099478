package httpinterface

import (
	"crypto/subtle"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/thanhpk/randstr"
)

const (
	// APITokenFile is the name of the file holding the generated API token.
	APITokenFile = "api.token"

	apiTokenLen = 32
)

// LoadOrCreateAPIToken returns the token stored in datadir, generating it if
// it does not exist yet.
func LoadOrCreateAPIToken(datadir string) (string, error) {
	filename := filepath.Join(datadir, APITokenFile)
	buf, err := os.ReadFile(filename)
	if err == nil {
		if token := strings.TrimSpace(string(buf)); token != "" {
			return token, nil
		}
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("reading api token: %w", err)
	}

	token := randstr.Hex(apiTokenLen)
	if err := os.WriteFile(filename, []byte(token), 0600); err != nil {
		return "", fmt.Errorf("writing api token: %w", err)
	}
	return token, nil
}

// authMiddleware rejects requests without the bearer token. Browsers cannot
// set headers on websocket upgrades, so the token is also accepted as query
// param.
func authMiddleware(token string) gin.HandlerFunc {
	expected := []byte(token)
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}
		got := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if got == "" {
			got = c.Query("token")
		}
		if subtle.ConstantTimeCompare([]byte(got), expected) != 1 {
			c.AbortWithStatusJSON(
				http.StatusUnauthorized, gin.H{"error": "unauthorized"},
			)
			return
		}
		c.Next()
	}
}
