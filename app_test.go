package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"lms/config"
	courseModels "lms/models/course"
	"lms/repository"
	"lms/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIdentity struct{}

func (fakeIdentity) Authenticate(ctx context.Context, username, password string) (*utils.IdentityProfile, error) {
	if password != "s3cret" {
		return nil, utils.ErrInvalidCredentials
	}
	return &utils.IdentityProfile{ID: username, Name: username + " da Silva", Username: username, Email: username + "@corp.com"}, nil
}

type fakeVideoHost struct {
	configured bool
	received   []byte
}

func (f *fakeVideoHost) Configured() bool { return f.configured }

func (f *fakeVideoHost) Put(ctx context.Context, name, contentType string, body io.Reader) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", errors.New("empty upload")
	}
	f.received = data
	return "https://video.corp/vod/" + name + "/index.m3u8", nil
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testApp struct {
	t     *testing.T
	app   *fiber.App
	store repository.Store
	video *fakeVideoHost

	// set by serve; requests then go over a real connection
	base   string
	client *http.Client
	agent  string
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	cfg := &config.Config{
		CORSOrigins:   "*",
		JWTKey:        "test-secret",
		JWTTTLHours:   1,
		AdminUsers:    []string{"boss"},
		RankingLimit:  10,
		XPCourseBonus: 10,
	}
	previous := config.AppConfig
	config.AppConfig = cfg
	t.Cleanup(func() { config.AppConfig = previous })

	store, err := repository.NewFileStore(t.TempDir())
	require.NoError(t, err)

	video := &fakeVideoHost{}
	application := newApplication(cfg, appDeps{Store: store, Identity: fakeIdentity{}, Video: video})
	return &testApp{t: t, app: application.http, store: store, video: video}
}

func (ta *testApp) call(method, path, token string, body interface{}) (int, envelope) {
	ta.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(ta.t, err)
		reader = bytes.NewReader(raw)
	}
	var req *http.Request
	if ta.client != nil {
		var err error
		req, err = http.NewRequest(method, ta.base+path, reader)
		require.NoError(ta.t, err)
	} else {
		req = httptest.NewRequest(method, path, reader)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if ta.agent != "" {
		req.Header.Set("User-Agent", ta.agent)
	}

	var resp *http.Response
	var err error
	if ta.client != nil {
		resp, err = ta.client.Do(req)
	} else {
		resp, err = ta.app.Test(req, -1)
	}
	require.NoError(ta.t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(ta.t, json.NewDecoder(resp.Body).Decode(&env))
	// drain so the keep-alive connection is reused
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, env
}

// serve starts the app on a loopback listener and sends every later call
// through a single keep-alive connection
func (ta *testApp) serve() {
	ta.t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(ta.t, err)
	go func() { _ = ta.app.Listener(ln) }()
	ta.t.Cleanup(func() { _ = ta.app.Shutdown() })

	transport := &http.Transport{MaxConnsPerHost: 1, MaxIdleConnsPerHost: 1}
	ta.t.Cleanup(transport.CloseIdleConnections)
	ta.client = &http.Client{Transport: transport}
	ta.base = "http://" + ln.Addr().String()
}

func (ta *testApp) login(username string) string {
	ta.t.Helper()
	status, env := ta.call("POST", "/users/login", "", fiber.Map{"username": username, "password": "s3cret"})
	require.Equal(ta.t, fiber.StatusOK, status, env.Message)

	var result struct {
		AccessToken string `json:"access_token"`
		User        struct {
			ID   string `json:"id"`
			Role string `json:"role"`
		} `json:"user"`
	}
	require.NoError(ta.t, json.Unmarshal(env.Data, &result))
	require.NotEmpty(ta.t, result.AccessToken)
	return result.AccessToken
}

func into[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func TestHealthAndUnknownRoute(t *testing.T) {
	ta := newTestApp(t)

	status, env := ta.call("GET", "/health", "", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.True(t, env.Status)

	status, env = ta.call("GET", "/nope", "", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.False(t, env.Status)
}

func TestLoginRelay(t *testing.T) {
	ta := newTestApp(t)

	status, env := ta.call("POST", "/users/login", "", fiber.Map{"username": "ana", "password": "s3cret"})
	require.Equal(t, fiber.StatusOK, status)
	result := into[struct {
		AccessToken string `json:"access_token"`
		User        struct {
			ID    string `json:"id"`
			Name  string `json:"nome"`
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
	}](t, env)
	assert.Equal(t, "ana", result.User.ID)
	assert.Equal(t, "ana da Silva", result.User.Name)
	assert.Equal(t, "student", result.User.Role)

	status, _ = ta.call("POST", "/users/login", "", fiber.Map{"username": "ana", "password": "wrong"})
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, env = ta.call("POST", "/users/login", "", fiber.Map{"username": "  ", "password": ""})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	errs := into[map[string]string](t, env)
	assert.Contains(t, errs, "username")
	assert.Contains(t, errs, "password")

	boss := ta.login("boss")
	status, env = ta.call("GET", "/users/ana/logins", boss, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, into[[]json.RawMessage](t, env), 1)
}

func TestRoutesRequireToken(t *testing.T) {
	ta := newTestApp(t)

	for _, path := range []string{"/courses", "/users", "/users/ranking", "/quizzes", "/progress", "/certificates"} {
		status, _ := ta.call("GET", path, "", nil)
		assert.Equal(t, fiber.StatusUnauthorized, status, path)
	}
}

func TestPermissions(t *testing.T) {
	ta := newTestApp(t)
	ana := ta.login("ana")
	ta.login("bob")

	tests := []struct {
		method string
		path   string
		body   interface{}
	}{
		{"POST", "/courses", fiber.Map{"title": "Hack"}},
		{"GET", "/users", nil},
		{"POST", "/users/bob/xp", fiber.Map{"amount": 100}},
		{"POST", "/users/bob/category", fiber.Map{"category": "tecnico"}},
		{"GET", "/progress", nil},
		{"GET", "/progress/bob", nil},
		{"GET", "/certificates", nil},
		{"GET", "/certificates/bob", nil},
		{"POST", "/quizzes", fiber.Map{"title": "x"}},
		{"GET", "/admin/reports/progress", nil},
		{"DELETE", "/users/bob", nil},
	}
	for _, tt := range tests {
		status, _ := ta.call(tt.method, tt.path, ana, tt.body)
		assert.Equal(t, fiber.StatusForbidden, status, tt.method+" "+tt.path)
	}

	// acting on oneself is allowed
	status, env := ta.call("POST", "/users/ana/category", ana, fiber.Map{"category": "tecnico"})
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "tecnico", into[struct {
		Category string `json:"category"`
	}](t, env).Category)

	status, _ = ta.call("GET", "/certificates?user_id=ana", ana, nil)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestCourseCompletionScenario(t *testing.T) {
	ta := newTestApp(t)
	boss := ta.login("boss")
	ana := ta.login("ana")

	status, env := ta.call("POST", "/courses", boss, fiber.Map{"title": "Fibra Óptica"})
	require.Equal(t, fiber.StatusCreated, status)
	course := into[courseModels.Course](t, env)

	status, env = ta.call("POST", "/courses/"+course.ID+"/modules", boss, nil)
	require.Equal(t, fiber.StatusCreated, status)
	module := into[courseModels.Module](t, env)
	assert.Equal(t, "Novo Módulo", module.Title)
	assert.Equal(t, 1, module.Order)

	lessonsPath := "/courses/" + course.ID + "/modules/" + module.ID + "/lessons"
	status, env = ta.call("POST", lessonsPath, boss, fiber.Map{"title": "Aula 1"})
	require.Equal(t, fiber.StatusCreated, status)
	l1 := into[courseModels.Lesson](t, env)
	status, env = ta.call("POST", lessonsPath, boss, fiber.Map{"title": "Aula 2"})
	require.Equal(t, fiber.StatusCreated, status)
	l2 := into[courseModels.Lesson](t, env)
	assert.Equal(t, 2, l2.Order)

	// a low score is recorded without completing the lesson
	status, env = ta.call("POST", "/progress/attempt", ana, fiber.Map{"user_id": "ana", "lesson_id": l1.ID, "score": 3})
	require.Equal(t, fiber.StatusOK, status)
	attempt := into[struct {
		Progress    courseModels.Progress     `json:"progress"`
		Certificate *courseModels.Certificate `json:"certificate"`
	}](t, env)
	assert.Equal(t, courseModels.ProgressInProgress, attempt.Progress.Status)
	assert.Nil(t, attempt.Certificate)

	status, env = ta.call("POST", "/progress/attempt", ana, fiber.Map{"user_id": "ana", "lesson_id": l1.ID, "score": 5})
	require.Equal(t, fiber.StatusOK, status)
	attempt.Certificate = nil
	require.NoError(t, json.Unmarshal(env.Data, &attempt))
	assert.Equal(t, courseModels.ProgressCompleted, attempt.Progress.Status)
	assert.Equal(t, 2, attempt.Progress.Attempts)
	assert.Nil(t, attempt.Certificate)

	// someone else's progress needs manage-users
	status, _ = ta.call("POST", "/progress", ana, fiber.Map{"user_id": "boss", "lesson_id": l2.ID})
	assert.Equal(t, fiber.StatusForbidden, status)

	status, env = ta.call("POST", "/progress", ana, fiber.Map{"user_id": "ana", "lesson_id": l2.ID})
	require.Equal(t, fiber.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &attempt))
	require.NotNil(t, attempt.Certificate)
	assert.Equal(t, course.ID, attempt.Certificate.CourseID)
	assert.Equal(t, "ana da Silva", attempt.Certificate.UserName)

	// completing again issues nothing new
	status, _ = ta.call("POST", "/progress", ana, fiber.Map{"user_id": "ana", "lesson_id": l2.ID})
	require.Equal(t, fiber.StatusOK, status)

	status, env = ta.call("GET", "/certificates/ana", ana, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, into[[]courseModels.Certificate](t, env), 1)

	status, env = ta.call("GET", "/users/ana", ana, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 10, into[struct {
		XP int `json:"xp"`
	}](t, env).XP)

	status, env = ta.call("GET", "/users/ranking?limit=1", ana, nil)
	require.Equal(t, fiber.StatusOK, status)
	ranking := into[[]struct {
		ID string `json:"id"`
	}](t, env)
	require.Len(t, ranking, 1)
	assert.Equal(t, "ana", ranking[0].ID)

	status, env = ta.call("GET", "/progress", boss, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, into[[]courseModels.Progress](t, env), 2)
}

func TestProgressUnknownReferences(t *testing.T) {
	ta := newTestApp(t)
	ana := ta.login("ana")

	status, _ := ta.call("POST", "/progress/attempt", ana, fiber.Map{"user_id": "ana", "lesson_id": "missing", "score": 5})
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = ta.call("POST", "/progress/attempt", ana, fiber.Map{"user_id": "ana", "lesson_id": "l1"})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
}

func TestReorderAndDelete(t *testing.T) {
	ta := newTestApp(t)
	boss := ta.login("boss")

	_, env := ta.call("POST", "/courses", boss, nil)
	course := into[courseModels.Course](t, env)
	assert.Equal(t, "Novo Curso", course.Title)

	var moduleIDs []string
	for i := 0; i < 3; i++ {
		_, env = ta.call("POST", "/courses/"+course.ID+"/modules", boss, fiber.Map{"title": "M"})
		moduleIDs = append(moduleIDs, into[courseModels.Module](t, env).ID)
	}

	status, env := ta.call("PATCH", "/courses/"+course.ID+"/modules/reorder", boss,
		fiber.Map{"ids": []string{moduleIDs[2], moduleIDs[0], moduleIDs[1]}})
	require.Equal(t, fiber.StatusOK, status)
	reordered := into[courseModels.Course](t, env)
	require.Len(t, reordered.Modules, 3)
	assert.Equal(t, moduleIDs[2], reordered.Modules[0].ID)
	assert.Equal(t, 1, reordered.Modules[0].Order)
	assert.Equal(t, moduleIDs[1], reordered.Modules[2].ID)

	status, _ = ta.call("PATCH", "/courses/"+course.ID+"/modules/reorder", boss, fiber.Map{"ids": []string{"foreign"}})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, env = ta.call("PUT", "/courses/"+course.ID, boss, fiber.Map{"description": "Atualizado"})
	require.Equal(t, fiber.StatusOK, status)
	updated := into[courseModels.Course](t, env)
	assert.Equal(t, "Novo Curso", updated.Title)
	assert.Equal(t, "Atualizado", updated.Description)

	status, _ = ta.call("DELETE", "/courses/"+course.ID+"/modules/"+moduleIDs[0], boss, nil)
	require.Equal(t, fiber.StatusOK, status)
	status, _ = ta.call("PUT", "/courses/"+course.ID+"/modules/"+moduleIDs[0], boss, fiber.Map{"title": "x"})
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = ta.call("DELETE", "/courses/"+course.ID, boss, nil)
	require.Equal(t, fiber.StatusOK, status)
	status, _ = ta.call("GET", "/courses/"+course.ID, boss, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestQuizBank(t *testing.T) {
	ta := newTestApp(t)
	boss := ta.login("boss")

	status, env := ta.call("POST", "/quizzes", boss, fiber.Map{
		"title": "Atendimento",
		"questions": []fiber.Map{
			{"text": "Primeiro passo?", "options": []string{"Ouvir", "Falar", "Sair"}, "correct_option_index": 0},
		},
	})
	require.Equal(t, fiber.StatusCreated, status)
	quiz := into[courseModels.Quiz](t, env)
	assert.Equal(t, "q100", quiz.ID)

	status, env = ta.call("GET", "/quizzes/"+quiz.ID, boss, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Atendimento", into[courseModels.Quiz](t, env).Title)

	status, _ = ta.call("GET", "/quizzes/q999", boss, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	if field != "" {
		part, err := w.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func (ta *testApp) upload(token string, body *bytes.Buffer, contentType string) (int, envelope) {
	ta.t.Helper()
	req := httptest.NewRequest("POST", "/uploads", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := ta.app.Test(req, -1)
	require.NoError(ta.t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(ta.t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func TestUploadRelay(t *testing.T) {
	ta := newTestApp(t)
	boss := ta.login("boss")

	body, ct := multipartBody(t, "file", "aula.mp4", []byte("video-bytes"))
	status, env := ta.upload(boss, body, ct)
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Equal(t, "Flussonic configuration missing", env.Message)

	ta.video.configured = true
	body, ct = multipartBody(t, "file", "aula.mp4", []byte("video-bytes"))
	status, env = ta.upload(boss, body, ct)
	require.Equal(t, fiber.StatusOK, status)
	url := into[struct {
		URL string `json:"url"`
	}](t, env).URL
	assert.Regexp(t, `^https://video\.corp/vod/[0-9a-f-]{36}\.mp4/index\.m3u8$`, url)
	assert.Equal(t, []byte("video-bytes"), ta.video.received)

	body, ct = multipartBody(t, "", "", nil)
	status, _ = ta.upload(boss, body, ct)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestProgressReport(t *testing.T) {
	ta := newTestApp(t)
	boss := ta.login("boss")

	req := httptest.NewRequest("GET", "/admin/reports/progress", nil)
	req.Header.Set("Authorization", "Bearer "+boss)
	resp, err := ta.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "spreadsheetml")
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("PK")))
}

func TestStoredIDsSurviveConnectionReuse(t *testing.T) {
	ta := newTestApp(t)
	ta.serve()
	ta.agent = "Mozilla/5.0 (X11; Linux x86_64) Treinamento/1.0"
	boss := ta.login("boss")
	ta.agent = ""

	status, env := ta.call("POST", "/courses", boss, fiber.Map{"title": "Fibra Óptica"})
	require.Equal(t, fiber.StatusCreated, status)
	course := into[courseModels.Course](t, env)

	status, env = ta.call("POST", "/courses/"+course.ID+"/modules", boss, fiber.Map{"title": "Básico"})
	require.Equal(t, fiber.StatusCreated, status)
	module := into[courseModels.Module](t, env)

	status, env = ta.call("POST", "/courses/"+course.ID+"/modules/"+module.ID+"/lessons", boss, fiber.Map{"title": "Aula 1"})
	require.Equal(t, fiber.StatusCreated, status)
	lesson := into[courseModels.Lesson](t, env)

	// later requests on the same connection overwrite the read buffer
	filler := "/users/" + strings.Repeat("z", 96)
	for i := 0; i < 20; i++ {
		status, _ = ta.call("GET", filler, boss, nil)
		require.Equal(t, fiber.StatusNotFound, status)
	}

	status, env = ta.call("GET", "/courses", boss, nil)
	require.Equal(t, fiber.StatusOK, status)
	courses := into[[]courseModels.Course](t, env)
	require.Len(t, courses, 1)
	require.Len(t, courses[0].Modules, 1)
	assert.Equal(t, course.ID, courses[0].Modules[0].CourseID)
	require.Len(t, courses[0].Modules[0].Lessons, 1)
	assert.Equal(t, module.ID, courses[0].Modules[0].Lessons[0].ModuleID)
	assert.Equal(t, lesson.ID, courses[0].Modules[0].Lessons[0].ID)

	status, env = ta.call("PUT", "/courses/"+course.ID+"/modules/"+module.ID, boss, fiber.Map{"title": "Avançado"})
	assert.Equal(t, fiber.StatusOK, status, env.Message)

	status, env = ta.call("GET", "/users/boss/logins", boss, nil)
	require.Equal(t, fiber.StatusOK, status)
	logins := into[[]struct {
		Device string `json:"device"`
	}](t, env)
	require.Len(t, logins, 1)
	assert.Equal(t, "Mozilla/5.0 (X11; Linux x86_64) Treinamento/1.0", logins[0].Device)
}
