package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pinduca/internal/config"
	"pinduca/internal/microservices/http-api/dto"
	"pinduca/internal/microservices/http-api/models"
	"pinduca/internal/microservices/http-api/service"
	"pinduca/internal/policy"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "server-test-secret-0123456789abcdef"

type MockComicService struct {
	mock.Mock
}

func (m *MockComicService) List(ctx context.Context, term string) ([]dto.ComicResponse, error) {
	args := m.Called(ctx, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]dto.ComicResponse), args.Error(1)
}

func (m *MockComicService) Get(ctx context.Context, id int64) (*dto.ComicResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ComicResponse), args.Error(1)
}

func (m *MockComicService) Create(ctx context.Context, req dto.ComicRequest, p *policy.Principal) (*dto.ComicResponse, error) {
	args := m.Called(ctx, req, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ComicResponse), args.Error(1)
}

func (m *MockComicService) Update(ctx context.Context, id int64, req dto.ComicRequest, p *policy.Principal) (*dto.ComicResponse, error) {
	args := m.Called(ctx, id, req, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ComicResponse), args.Error(1)
}

func (m *MockComicService) Delete(ctx context.Context, id int64, p *policy.Principal) error {
	args := m.Called(ctx, id, p)
	return args.Error(0)
}

type MockRatingService struct {
	mock.Mock
}

func (m *MockRatingService) ListByComic(ctx context.Context, comicID int64) ([]models.Rating, error) {
	args := m.Called(ctx, comicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Rating), args.Error(1)
}

func (m *MockRatingService) Create(ctx context.Context, comicID int64, score int, p *policy.Principal) (*models.Rating, error) {
	args := m.Called(ctx, comicID, score, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Rating), args.Error(1)
}

func (m *MockRatingService) Update(ctx context.Context, id, comicID int64, score int, p *policy.Principal) (*models.Rating, error) {
	args := m.Called(ctx, id, comicID, score, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Rating), args.Error(1)
}

func (m *MockRatingService) Delete(ctx context.Context, id int64, p *policy.Principal) error {
	args := m.Called(ctx, id, p)
	return args.Error(0)
}

type testAPI struct {
	router  *gin.Engine
	comics  *MockComicService
	ratings *MockRatingService
	pingErr error
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		GoEnv:          "test",
		JWTSecret:      testSecret,
		JWTExpiry:      time.Hour,
		BcryptCost:     4,
		RateLimitRPS:   100,
		RateLimitBurst: 100,
		RequestTimeout: 5 * time.Second,
		CORSOrigins:    []string{"http://localhost:3000"},
	}

	api := &testAPI{comics: new(MockComicService), ratings: new(MockRatingService)}
	svc := Services{
		// token verification needs no repositories
		Auth:    service.NewAuthService(nil, nil, cfg),
		Comics:  api.comics,
		Ratings: api.ratings,
		Ping:    func(context.Context) error { return api.pingErr },
	}
	api.router = NewRouter(svc, cfg, zap.NewNop())
	return api
}

func bearer(t *testing.T, userID int64, role policy.Role) string {
	t.Helper()
	now := time.Now()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, service.Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return "Bearer " + token
}

func (api *testAPI) do(method, path string, body any, auth string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)
	return w
}

func TestCreateComic_AuthRequired(t *testing.T) {
	api := newTestAPI(t)
	body := gin.H{"titulo": "Turma da Mônica", "ano": 1980}

	w := api.do(http.MethodPost, "/gibi", body, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	api.comics.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)

	want := dto.ComicRequest{Title: "Turma da Mônica", Year: 1980}
	api.comics.On("Create", mock.Anything, want, &policy.Principal{UserID: 3, Role: policy.RoleUser}).
		Return(&dto.ComicResponse{ID: 1, Title: "Turma da Mônica", Year: 1980, OwnerID: 3}, nil)

	w = api.do(http.MethodPost, "/gibi", body, bearer(t, 3, policy.RoleUser))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Turma da Mônica", got["titulo"])
	assert.Equal(t, float64(1980), got["ano"])
	assert.Equal(t, float64(3), got["usuarioId"])
	assert.Equal(t, false, got["excluido"])
}

func TestCreateComic_ValidationDetails(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodPost, "/gibi", gin.H{"titulo": "ab", "ano": 1800}, bearer(t, 3, policy.RoleUser))
	require.Equal(t, http.StatusBadRequest, w.Code)

	var got struct {
		Erro     string              `json:"erro"`
		Detalhes map[string][]string `json:"detalhes"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Contains(t, got.Detalhes, "titulo")
	assert.Contains(t, got.Detalhes, "ano")
}

func TestListComics_PassesQuery(t *testing.T) {
	api := newTestAPI(t)
	api.comics.On("List", mock.Anything, "1980").Return([]dto.ComicResponse{{ID: 1, Year: 1980}}, nil)
	api.comics.On("List", mock.Anything, "").Return([]dto.ComicResponse{}, nil)

	w := api.do(http.MethodGet, "/gibi?q=1980", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"id":1,"titulo":"","ano":1980,"sinopse":null,"capaUrl":null,"autor":null,`+
		`"usuarioId":0,"excluido":false,"createdAt":"0001-01-01T00:00:00Z","updatedAt":"0001-01-01T00:00:00Z"}]`,
		w.Body.String())

	w = api.do(http.MethodGet, "/gibi", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}

func TestComicErrorsMapToStatus(t *testing.T) {
	api := newTestAPI(t)
	user := bearer(t, 3, policy.RoleUser)
	req := gin.H{"titulo": "Pererê", "ano": 1960}

	api.comics.On("Get", mock.Anything, int64(404)).Return(nil, service.ErrComicNotFound)
	api.comics.On("Update", mock.Anything, int64(5), mock.Anything, mock.Anything).Return(nil, service.ErrComicDeleted)
	api.comics.On("Update", mock.Anything, int64(6), mock.Anything, mock.Anything).Return(nil, service.ErrComicTitleInUse)
	api.comics.On("Delete", mock.Anything, int64(7), mock.Anything).Return(nil)
	api.comics.On("Delete", mock.Anything, int64(8), mock.Anything).Return(errors.New("db down"))

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		erro   string
	}{
		{"not found", http.MethodGet, "/gibi/404", nil, http.StatusNotFound, "Gibi não encontrado."},
		{"bad id", http.MethodGet, "/gibi/abc", nil, http.StatusBadRequest, "ID inválido."},
		{"deleted", http.MethodPut, "/gibi/5", req, http.StatusForbidden, "Não é possível editar um gibi excluído."},
		{"conflict", http.MethodPut, "/gibi/6", req, http.StatusConflict, "Um gibi com este título já está cadastrado."},
		{"delete", http.MethodDelete, "/gibi/7", nil, http.StatusNoContent, ""},
		{"internal", http.MethodDelete, "/gibi/8", nil, http.StatusInternalServerError, "Erro interno do servidor."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := api.do(tt.method, tt.path, tt.body, user)
			assert.Equal(t, tt.status, w.Code)
			if tt.erro == "" {
				assert.Empty(t, w.Body.String())
				return
			}
			var got map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
			assert.Equal(t, tt.erro, got["erro"])
		})
	}
}

func TestCreateRating_ScoreBounds(t *testing.T) {
	api := newTestAPI(t)
	user := bearer(t, 3, policy.RoleUser)

	w := api.do(http.MethodPost, "/nota", gin.H{"gibiId": 1, "avaliacao": 6}, user)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodPost, "/nota", gin.H{"gibiId": 1, "avaliacao": 4.5}, user)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	api.ratings.On("Create", mock.Anything, int64(1), 5, &policy.Principal{UserID: 3, Role: policy.RoleUser}).
		Return(&models.Rating{ID: 9, ComicID: 1, UserID: 3, Score: 5}, nil)

	w = api.do(http.MethodPost, "/nota", gin.H{"gibiId": 1, "avaliacao": 5}, user)
	require.Equal(t, http.StatusCreated, w.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, float64(5), got["avaliacao"])
	assert.Equal(t, float64(1), got["gibiId"])
	api.ratings.AssertNumberOfCalls(t, "Create", 1)
}

func TestListRatings_Public(t *testing.T) {
	api := newTestAPI(t)
	api.ratings.On("ListByComic", mock.Anything, int64(1)).Return([]models.Rating{{ID: 1, ComicID: 1, Score: 3}}, nil)

	w := api.do(http.MethodGet, "/nota/1", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealthAndRoot(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(http.MethodGet, "/", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Pinduca")

	w = api.do(http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	api.pingErr = errors.New("connection refused")
	w = api.do(http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = api.do(http.MethodGet, "/nada", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
