package main

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	operatorExpiry   = 7 * 24 * time.Hour
	controllerExpiry = 12 * time.Hour
	bcryptCost       = 12
	minPasswordLen   = 4
	loginRateWindow  = 60 * time.Second
	maxLoginAttempts = 10
)

// Bridge roles
const (
	RoleViewer     = "viewer"
	RoleController = "controller"
	RoleOperator   = "operator"
)

var errOperatorDisabled = errors.New("operator login disabled")

// Auth issues and checks controller and operator tokens
type Auth struct {
	jwtSecret    []byte
	operatorHash []byte

	// Rate limiting for login attempts (IP -> attempts)
	rateMu  sync.Mutex
	rateMap map[string]*rateEntry
}

type rateEntry struct {
	Count   int
	ResetAt time.Time
}

// NewAuth creates a new Auth handler. An empty operatorHash disables
// operator logins.
func NewAuth(db *DB, operatorHash string) *Auth {
	return &Auth{
		jwtSecret:    loadOrCreateSecret(db),
		operatorHash: []byte(operatorHash),
		rateMap:      make(map[string]*rateEntry),
	}
}

// loadOrCreateSecret loads the JWT secret from the database, or generates
// and persists a new one if none exists.
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

// HashPassword returns the bcrypt hash to put in the config file
func HashPassword(password string) (string, error) {
	if len(password) < minPasswordLen {
		return "", fmt.Errorf("password must be at least %d characters", minPasswordLen)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Login checks the operator password and returns an operator token
func (a *Auth) Login(password, ip string) (string, error) {
	if len(a.operatorHash) == 0 {
		return "", errOperatorDisabled
	}
	if !a.checkRate(ip) {
		return "", fmt.Errorf("too many login attempts, try again later")
	}
	if err := bcrypt.CompareHashAndPassword(a.operatorHash, []byte(password)); err != nil {
		return "", fmt.Errorf("invalid password")
	}
	return a.generateToken(RoleOperator, operatorExpiry)
}

// ControllerToken returns a token that lets a device attach as the input
func (a *Auth) ControllerToken() (string, error) {
	return a.generateToken(RoleController, controllerExpiry)
}

// ValidateToken validates a JWT and returns its role
func (a *Auth) ValidateToken(tokenStr string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return a.jwtSecret, nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid token")
	}
	role, ok := claims["role"].(string)
	if !ok || (role != RoleController && role != RoleOperator) {
		return "", fmt.Errorf("invalid token claims")
	}
	return role, nil
}

func (a *Auth) generateToken(role string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"role": role,
		"exp":  time.Now().Add(ttl).Unix(),
		"iat":  time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.jwtSecret)
}

func (a *Auth) checkRate(ip string) bool {
	a.rateMu.Lock()
	defer a.rateMu.Unlock()

	now := time.Now()
	entry, ok := a.rateMap[ip]
	if !ok || now.After(entry.ResetAt) {
		a.rateMap[ip] = &rateEntry{Count: 1, ResetAt: now.Add(loginRateWindow)}
		return true
	}
	entry.Count++
	return entry.Count <= maxLoginAttempts
}
