package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"vetusrex/internal/logger"
	"vetusrex/internal/models"
	"vetusrex/internal/reqctx"
	"vetusrex/internal/services"
	helpers "vetusrex/internal/utils/helpres"
)

var (
	errNoToken    = errors.New("отсутствует access token")
	errBadToken   = errors.New("неверный или просроченный токен")
	errBadPayload = errors.New("недопустимый payload")
)

// Authenticator проверяет bearer-токены провайдера идентификации и
// превращает их в models.Session. Роль читается из profiles на каждом запросе,
// поэтому смена роли действует сразу.
type Authenticator struct {
	secret   []byte
	profiles services.ProfileLookup
}

func NewAuthenticator(secret string, profiles services.ProfileLookup) *Authenticator {
	return &Authenticator{secret: []byte(secret), profiles: profiles}
}

func (a *Authenticator) session(r *http.Request) (models.Session, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return models.Session{}, errNoToken
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return models.Session{}, errBadToken
	}

	userID, _ := claims["sub"].(string)
	if userID == "" {
		userID, _ = claims["user_id"].(string)
	}
	if userID == "" {
		return models.Session{}, errBadPayload
	}

	return services.ResolveSession(r.Context(), a.profiles, userID)
}

func (a *Authenticator) fail(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.WithCtx(r.Context())
	switch {
	case errors.Is(err, errNoToken), errors.Is(err, errBadToken), errors.Is(err, errBadPayload):
		log.Warn("JWTAuth: "+err.Error(), zap.String("path", r.URL.Path))
		helpers.Error(w, http.StatusUnauthorized, err.Error())
	default:
		log.Error("JWTAuth: профиль не получен", zap.Error(err))
		helpers.Error(w, http.StatusServiceUnavailable, "сервис временно недоступен, попробуйте ещё раз")
	}
}

// Required пропускает только запросы с валидным токеном.
func (a *Authenticator) Required(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		sess, err := a.session(r)
		if err != nil {
			a.fail(w, r, err)
			return
		}
		if rec, ok := w.(sessionRecorder); ok {
			rec.recordSession(sess)
		}
		ctx := reqctx.WithSession(r.Context(), sess)
		logger.WithCtx(ctx).Debug("JWTAuth: токен валиден", zap.String("role", sess.Role))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Optional прикладывает сессию, если токен есть и валиден; иначе запрос анонимный.
func (a *Authenticator) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := a.session(r)
		switch {
		case err == nil:
			if rec, ok := w.(sessionRecorder); ok {
				rec.recordSession(sess)
			}
			r = r.WithContext(reqctx.WithSession(r.Context(), sess))
		case !errors.Is(err, errNoToken):
			logger.WithCtx(r.Context()).Debug("JWTAuth: токен проигнорирован", zap.Error(err))
		}
		next.ServeHTTP(w, r)
	})
}
