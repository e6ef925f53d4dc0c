package service

import (
	"LinkKeeper/internal/model"
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AdminActor — идентичность, под которой действует вошедший администратор.
const AdminActor = "admin"

const sessionTTL = 24 * time.Hour

// AuthService — вход администратора по паролю и выпуск JWT-сессии.
// JWT принимается мидлварью наравне с API-токенами.
type AuthService struct {
	secret       string
	passwordHash []byte // пустой срез = вход отключён
	activity     *ActivityService
	logger       *zap.SugaredLogger
}

// NewAuthService хеширует пароль администратора один раз при старте.
// Пустой пароль отключает логин целиком.
func NewAuthService(secret, adminPassword string, activity *ActivityService, logger *zap.SugaredLogger) *AuthService {
	s := &AuthService{secret: secret, activity: activity, logger: logger}
	if adminPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
		if err != nil {
			if logger != nil {
				logger.Errorw("auth: failed to hash admin password", "error", err)
			}
		} else {
			s.passwordHash = hash
		}
	}
	return s
}

type sessionClaims struct {
	jwt.RegisteredClaims
}

// Login проверяет пароль и возвращает подписанный JWT.
// Неудачные попытки попадают в журнал как login_failed с IP.
func (s *AuthService) Login(ctx context.Context, password, ip string) (string, error) {
	start := time.Now()

	token, err := s.login(password)

	action := model.ActionLoginSuccess
	if err != nil {
		action = model.ActionLoginFailed
	}
	s.activity.Record(ctx, Entry{
		Action:   action,
		Resource: "auth",
		Status:   statusOf(err),
		Duration: time.Since(start),
		Err:      err,
		IP:       ip,
	})
	return token, err
}

func (s *AuthService) login(password string) (string, error) {
	if len(s.passwordHash) == 0 {
		return "", fmt.Errorf("%w: admin login disabled", ErrLoginFailed)
	}
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		return "", ErrLoginFailed
	}

	now := time.Now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   AdminActor,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.secret))
}

// ParseToken валидирует JWT и возвращает subject сессии.
func (s *AuthService) ParseToken(tokenString string) (string, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.secret), nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
