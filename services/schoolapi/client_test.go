package schoolapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/school"
	inmemstore "github.com/trezcool/shule/storage/tokenstore/inmem"
	"github.com/trezcool/shule/tests"
)

const tokenKey = "token"

func setup(t *testing.T, handler http.HandlerFunc) (*Client, *inmemstore.Store) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	tokens := inmemstore.New()
	c := New(Options{
		BaseURL:  srv.URL + "/api/",
		Timeout:  2 * time.Second,
		Tokens:   tokens,
		TokenKey: tokenKey,
		Logger:   testutil.NewLogger(),
	})
	return c, tokens
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	return token
}

func TestGet(t *testing.T) {
	var got *http.Request
	c, tokens := setup(t, func(w http.ResponseWriter, r *http.Request) {
		got = r
		writeJSON(w, http.StatusOK, school.Student{ID: 7, Name: "Amani", SectionID: 2})
	})
	require.NoError(t, tokens.Set(context.Background(), tokenKey, "opaque-token"))

	stud, err := c.Students.Get(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 7, stud.ID)
	assert.Equal(t, "Amani", stud.Name)

	require.NotNil(t, got)
	assert.Equal(t, "/api/students/7", got.URL.Path)
	assert.Equal(t, "Bearer opaque-token", got.Header.Get("Authorization"))
	assert.NotEmpty(t, got.Header.Get(requestIDHeader))
	assert.Equal(t, "application/json", got.Header.Get("Accept"))
}

func TestGet_anonymous(t *testing.T) {
	var auth string
	c, _ := setup(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		writeJSON(w, http.StatusOK, []school.Class{})
	})

	_, err := c.Classes.List(context.Background(), ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, auth)
}

func TestWithToken(t *testing.T) {
	var auth string
	c, tokens := setup(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		writeJSON(w, http.StatusOK, school.Me{ID: 1})
	})
	require.NoError(t, tokens.Set(context.Background(), tokenKey, "stored"))

	_, err := c.Auth.Me(WithToken(context.Background(), "forwarded"))
	require.NoError(t, err)
	assert.Equal(t, "Bearer forwarded", auth)
}

func TestExpiredToken(t *testing.T) {
	var auth string
	c, tokens := setup(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		writeJSON(w, http.StatusOK, school.Me{})
	})
	ctx := context.Background()
	expired := signToken(t, jwt.MapClaims{"id": 1, "exp": time.Now().Add(-time.Hour).Unix()})
	require.NoError(t, tokens.Set(ctx, tokenKey, expired))

	_, err := c.Auth.Me(ctx)
	require.NoError(t, err)
	assert.Empty(t, auth)
	_, err = tokens.Get(ctx, tokenKey)
	assert.ErrorIs(t, err, core.ErrTokenNotFound)

	valid := signToken(t, jwt.MapClaims{"id": 1, "exp": time.Now().Add(time.Hour).Unix()})
	require.NoError(t, tokens.Set(ctx, tokenKey, valid))
	_, err = c.Auth.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Bearer "+valid, auth)
}

func TestUnauthorized(t *testing.T) {
	c, tokens := setup(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
	})
	ctx := context.Background()
	require.NoError(t, tokens.Set(ctx, tokenKey, "stale"))

	var events []AuthEvent
	unsubscribe := c.Events().Subscribe(func(ev AuthEvent) { events = append(events, ev) })
	defer unsubscribe()

	_, err := c.Students.Get(ctx, 1)
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	apiErr, _ := AsError(err)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "invalid token", apiErr.Message)

	_, err = tokens.Get(ctx, tokenKey)
	assert.ErrorIs(t, err, core.ErrTokenNotFound)

	require.Len(t, events, 1)
	assert.Equal(t, EventUnauthorized, events[0].Kind)
	assert.Equal(t, "/api/students/1", events[0].Path)
}

func TestErrorNormalization(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantKind    Kind
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "error field",
			status:      http.StatusBadRequest,
			body:        `{"error": "Admission number already exists"}`,
			wantKind:    KindServer,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Admission number already exists",
		},
		{
			name:        "message field",
			status:      http.StatusInternalServerError,
			body:        `{"message": "database unavailable"}`,
			wantKind:    KindServer,
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "database unavailable",
		},
		{
			name:        "no message",
			status:      http.StatusNotFound,
			body:        `not json`,
			wantKind:    KindServer,
			wantStatus:  http.StatusNotFound,
			wantMessage: "Request failed with status 404",
		},
		{
			name:        "undecodable success",
			status:      http.StatusOK,
			body:        `{"id": "seven"`,
			wantKind:    KindUnknown,
			wantStatus:  http.StatusOK,
			wantMessage: "An unexpected error occurred.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := setup(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			stud, err := c.Students.Get(context.Background(), 1)
			require.Error(t, err)
			assert.Equal(t, school.Student{}, stud)

			apiErr, ok := AsError(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantKind, apiErr.Kind)
			assert.Equal(t, tt.wantStatus, apiErr.Status)
			assert.Equal(t, tt.wantMessage, apiErr.Error())
		})
	}
}

func TestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	baseURL := srv.URL
	srv.Close()

	c := New(Options{BaseURL: baseURL, Timeout: time.Second})
	_, err := c.Students.Get(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, IsNetwork(err))
	assert.Equal(t, "Network error. Please check your connection.", err.Error())
}

func TestCancellation(t *testing.T) {
	started := make(chan struct{})
	c, _ := setup(t, func(w http.ResponseWriter, r *http.Request) {
		close(started)
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	_, err := c.Students.Get(ctx, 1)
	require.Error(t, err)
	assert.True(t, IsCanceled(err))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPage_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantIDs  []int
		wantPage *school.Pagination
	}{
		{name: "bare array", body: `[{"id": 1}, {"id": 2}]`, wantIDs: []int{1, 2}},
		{
			name:     "envelope",
			body:     `{"data": [{"id": 3}], "pagination": {"page": 1, "limit": 1, "total": 2, "pages": 2}}`,
			wantIDs:  []int{3},
			wantPage: &school.Pagination{Page: 1, Limit: 1, Total: 2, Pages: 2},
		},
		{name: "null", body: `null`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p Page[school.Student]
			require.NoError(t, json.Unmarshal([]byte(tt.body), &p))

			var ids []int
			for _, s := range p.Data {
				ids = append(ids, s.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
			assert.Equal(t, tt.wantPage, p.Pagination)
		})
	}
}

func TestAuth_LoginLogout(t *testing.T) {
	var logoutAuth string
	c, tokens := setup(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			var req school.LoginRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			if req.Password != "s3cret" {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
				return
			}
			writeJSON(w, http.StatusOK, school.LoginResponse{Token: "tok", User: school.Me{ID: 1, Username: req.Username}})
		case "/api/auth/logout":
			logoutAuth = r.Header.Get("Authorization")
			w.WriteHeader(http.StatusNoContent)
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	var kinds []EventKind
	c.Events().Subscribe(func(ev AuthEvent) { kinds = append(kinds, ev.Kind) })

	_, err := c.Auth.Login(ctx, school.LoginRequest{Username: "admin", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", err.Error())

	resp, err := c.Auth.Login(ctx, school.LoginRequest{Username: "admin", Password: "s3cret"})
	require.NoError(t, err)
	assert.Equal(t, "admin", resp.User.Username)
	token, err := tokens.Get(ctx, tokenKey)
	require.NoError(t, err)
	assert.Equal(t, "tok", token)

	require.NoError(t, c.Auth.Logout(ctx))
	assert.Equal(t, "Bearer tok", logoutAuth)
	_, err = tokens.Get(ctx, tokenKey)
	assert.ErrorIs(t, err, core.ErrTokenNotFound)

	assert.Equal(t, []EventKind{EventUnauthorized, EventLoggedIn, EventLoggedOut}, kinds)
}

func TestFiles_Upload(t *testing.T) {
	c, _ := setup(t, func(w http.ResponseWriter, r *http.Request) {
		f, hdr, err := r.FormFile("file")
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		writeJSON(w, http.StatusOK, school.UploadedFile{Filename: hdr.Filename, Size: int64(len(data)), URL: "/uploads/" + hdr.Filename})
	})

	got, err := c.Files.Upload(context.Background(), "marks.csv", strings.NewReader("id,marks\n1,80\n"))
	require.NoError(t, err)
	assert.Equal(t, "marks.csv", got.Filename)
	assert.Equal(t, int64(14), got.Size)
}

func TestFetcher_walksPages(t *testing.T) {
	var (
		mu    sync.Mutex
		pages []string
	)
	c, _ := setup(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		pages = append(pages, r.URL.Query().Get("page"))
		mu.Unlock()

		assert.Equal(t, "4", r.URL.Query().Get("class_id"))
		switch r.URL.Query().Get("page") {
		case "1":
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"data":       []school.Exam{{ID: 1}, {ID: 2}},
				"pagination": school.Pagination{Page: 1, Limit: 2, Total: 3, Pages: 2},
			})
		default:
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"data":       []school.Exam{{ID: 3}},
				"pagination": school.Pagination{Page: 2, Limit: 2, Total: 3, Pages: 2},
			})
		}
	})

	exams, err := NewFetcher(c).ClassExams(context.Background(), 4)
	require.NoError(t, err)
	assert.Len(t, exams, 3)
	assert.Equal(t, []string{"1", "2"}, pages)
}

// pagedBackend answers every list request in pages of two.
func pagedBackend[T any](t *testing.T, path string, items []T) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != path {
			http.NotFound(w, r)
			return
		}
		assert.Equal(t, "100", r.URL.Query().Get("limit"))
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if page < 1 {
			page = 1
		}
		const size = 2
		pages := (len(items) + size - 1) / size
		lo, hi := (page-1)*size, page*size
		if lo > len(items) {
			lo = len(items)
		}
		if hi > len(items) {
			hi = len(items)
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"data":       items[lo:hi],
			"pagination": school.Pagination{Page: page, Limit: size, Total: len(items), Pages: pages},
		})
	}
}

func TestFetcher_walksEveryList(t *testing.T) {
	ctx := context.Background()

	t.Run("exam results", func(t *testing.T) {
		c, _ := setup(t, pagedBackend(t, "/api/exams/1/results", []school.ExamResult{
			{ExamID: 1, StudentID: 1}, {ExamID: 1, StudentID: 2}, {ExamID: 1, StudentID: 3},
		}))
		results, err := NewFetcher(c).ExamResults(ctx, 1)
		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.Equal(t, 3, results[2].StudentID)
	})

	t.Run("section students", func(t *testing.T) {
		c, _ := setup(t, pagedBackend(t, "/api/sections/10/students", []school.Student{
			{ID: 1, SectionID: 10}, {ID: 2, SectionID: 10}, {ID: 3, SectionID: 10},
		}))
		students, err := NewFetcher(c).SectionStudents(ctx, 10)
		require.NoError(t, err)
		assert.Len(t, students, 3)
	})

	t.Run("section attendance", func(t *testing.T) {
		c, _ := setup(t, pagedBackend(t, "/api/attendance", []school.AttendanceRecord{
			{StudentID: 1}, {StudentID: 2}, {StudentID: 1}, {StudentID: 2}, {StudentID: 3},
		}))
		records, err := NewFetcher(c).SectionAttendance(ctx, 10)
		require.NoError(t, err)
		assert.Len(t, records, 5)
	})

	t.Run("class sections", func(t *testing.T) {
		c, _ := setup(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/api/classes/4" {
				writeJSON(w, http.StatusOK, school.Class{ID: 4})
				return
			}
			pagedBackend(t, "/api/classes/4/sections", []school.Section{
				{ID: 10, ClassID: 4}, {ID: 11, ClassID: 4}, {ID: 12, ClassID: 4},
			})(w, r)
		})
		cls, err := NewFetcher(c).Class(ctx, 4)
		require.NoError(t, err)
		assert.True(t, cls.HasSection(12))
	})
}

func TestPage_HasNext(t *testing.T) {
	tests := []struct {
		name string
		page Page[school.Student]
		want bool
	}{
		{name: "bare array", page: Page[school.Student]{}},
		{name: "first of two", page: Page[school.Student]{Pagination: &school.Pagination{Page: 1, Pages: 2}}, want: true},
		{name: "last", page: Page[school.Student]{Pagination: &school.Pagination{Page: 2, Pages: 2}}},
		{name: "empty", page: Page[school.Student]{Pagination: &school.Pagination{Page: 1, Pages: 0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.page.HasNext())
		})
	}
}

func TestFetcher_Class(t *testing.T) {
	c, _ := setup(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/classes/4":
			writeJSON(w, http.StatusOK, school.Class{ID: 4, Name: "Form 4"})
		case "/api/classes/4/sections":
			writeJSON(w, http.StatusOK, []school.Section{{ID: 10, ClassID: 4}, {ID: 11, ClassID: 4}})
		default:
			http.NotFound(w, r)
		}
	})

	cls, err := NewFetcher(c).Class(context.Background(), 4)
	require.NoError(t, err)
	assert.True(t, cls.HasSection(10))
	assert.True(t, cls.HasSection(11))
	assert.False(t, cls.HasSection(12))
}

func TestAuthEvents_Unsubscribe(t *testing.T) {
	bus := NewAuthEvents()
	var calls []string
	unsubA := bus.Subscribe(func(AuthEvent) { calls = append(calls, "a") })
	bus.Subscribe(func(AuthEvent) { calls = append(calls, "b") })

	bus.publish(AuthEvent{Kind: EventLoggedIn})
	unsubA()
	unsubA()
	bus.publish(AuthEvent{Kind: EventLoggedOut})

	assert.Equal(t, []string{"a", "b", "b"}, calls)
}

func TestIdentityFromToken(t *testing.T) {
	token := signToken(t, jwt.MapClaims{"id": 3, "username": "mwalimu", "email": "m@example.com", "role": "teacher"})

	id, err := IdentityFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, core.Identity{ID: 3, Username: "mwalimu", Email: "m@example.com", Role: "teacher"}, id)

	_, err = IdentityFromToken("not-a-jwt")
	assert.Error(t, err)
	assert.False(t, TokenExpired("not-a-jwt"))
}
