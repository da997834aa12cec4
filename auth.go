package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const tokenExpiry = 24 * time.Hour

// Auth issues rejoin tokens and gates dev-only debug commands. Rejoin
// tokens only bind a tank identity (id + color) inside the live process;
// there are no accounts and no cross-session profiles.
type Auth struct {
	jwtSecret []byte
	adminHash string // bcrypt hash; "" disables debug commands
}

// NewAuth creates the auth handler, persisting the JWT secret in the
// settings table so rejoin tokens survive a restart within the same deploy
func NewAuth(db *DB, adminHash string) *Auth {
	return &Auth{
		jwtSecret: loadOrCreateSecret(db),
		adminHash: adminHash,
	}
}

func loadOrCreateSecret(db *DB) []byte {
	if db != nil {
		if h := db.GetSetting("jwt_secret"); h != "" {
			if b, err := hex.DecodeString(h); err == nil && len(b) == 32 {
				return b
			}
		}
	}
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		panic("failed to generate JWT secret: " + err.Error())
	}
	if db != nil {
		if err := db.SetSetting("jwt_secret", hex.EncodeToString(secret)); err != nil {
			log.Printf("warning: could not persist JWT secret: %v", err)
		}
	}
	return secret
}

// IssueRejoinToken signs a token binding a tank id and color
func (a *Auth) IssueRejoinToken(playerID, color string) (string, error) {
	claims := jwt.MapClaims{
		"pid": playerID,
		"col": color,
		"exp": time.Now().Add(tokenExpiry).Unix(),
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.jwtSecret)
}

// ValidateRejoinToken returns the (playerID, color) a token binds
func (a *Auth) ValidateRejoinToken(tokenStr string) (string, string, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return a.jwtSecret, nil
	})
	if err != nil {
		return "", "", err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", "", fmt.Errorf("invalid token")
	}
	pid, ok := claims["pid"].(string)
	if !ok {
		return "", "", fmt.Errorf("invalid token claims")
	}
	color, ok := claims["col"].(string)
	if !ok {
		return "", "", fmt.Errorf("invalid token claims")
	}
	return pid, color, nil
}

// CheckAdmin verifies the admin password against the configured bcrypt
// hash. No hash configured means debug commands stay disabled.
func (a *Auth) CheckAdmin(password string) bool {
	if a.adminHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(a.adminHash), []byte(password)) == nil
}
