package views

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"frontend-go/models"
	"frontend-go/services"

	"github.com/gin-gonic/gin"
)

const testToken = "abc"

// memStore is an in-memory TokenStore.
type memStore struct {
	token string
	id    string
}

func (m *memStore) Token() string           { return m.token }
func (m *memStore) SetToken(t string) error { m.token = t; return nil }
func (m *memStore) ClearToken() error       { m.token = ""; return nil }
func (m *memStore) ID() string {
	if m.id == "" {
		m.id = "sid-1"
	}
	return m.id
}

// fakeBackend is a scripted stand-in for the remote REST API.
type fakeBackend struct {
	mu           sync.Mutex
	role         string
	appointments []models.Appointment
	users        []models.User
	messages     []models.ChatMessage
	nextID       int
	hits         map[string]int
	// forbidAdmin makes the admin-only endpoints answer 403.
	forbidAdmin bool
}

func newFakeBackend(t *testing.T) (*fakeBackend, *services.APIClient) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	fb := &fakeBackend{
		role: models.RoleUser,
		appointments: []models.Appointment{
			{ID: 1, Date: "2025-01-10", Time: "09:00", Description: "dentist"},
			{ID: 2, Date: "2025-01-11", Time: "10:30", Description: "checkup"},
		},
		users: []models.User{
			{ID: 1, Username: "alice", Role: models.RoleAdmin},
			{ID: 2, Username: "bob", Role: models.RoleUser},
		},
		messages: []models.ChatMessage{{Username: "bob", Message: "hello", Timestamp: "2025-01-01T10:00:00Z"}},
		nextID:   3,
		hits:     make(map[string]int),
	}

	r := gin.New()
	r.Use(func(c *gin.Context) {
		fb.mu.Lock()
		fb.hits[c.Request.Method+" "+c.FullPath()]++
		fb.mu.Unlock()
		c.Next()
	})
	auth := func(c *gin.Context) {
		if c.GetHeader("Authorization") != "Bearer "+testToken {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}

	r.POST("/login", func(c *gin.Context) {
		var creds models.Credentials
		_ = c.ShouldBindJSON(&creds)
		if creds.Username != "alice" || creds.Password != "Secret123!" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": testToken})
	})
	r.POST("/register", func(c *gin.Context) {
		var reg models.Registration
		_ = c.ShouldBindJSON(&reg)
		if reg.Username == "taken" {
			c.JSON(http.StatusConflict, gin.H{"error": "Username already exists"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{})
	})
	r.GET("/messages", func(c *gin.Context) {
		fb.mu.Lock()
		defer fb.mu.Unlock()
		c.JSON(http.StatusOK, fb.messages)
	})

	a := r.Group("/", auth)
	a.GET("/profile", func(c *gin.Context) {
		fb.mu.Lock()
		defer fb.mu.Unlock()
		c.JSON(http.StatusOK, models.User{ID: 1, Username: "alice", Role: fb.role})
	})
	a.PUT("/profile", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{})
	})
	a.GET("/dashboard", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Welcome, alice!"})
	})
	a.GET("/appointments", func(c *gin.Context) {
		fb.mu.Lock()
		defer fb.mu.Unlock()
		c.JSON(http.StatusOK, fb.appointments)
	})
	a.POST("/appointments", func(c *gin.Context) {
		var form models.AppointmentForm
		if err := c.ShouldBindJSON(&form); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
			return
		}
		fb.mu.Lock()
		defer fb.mu.Unlock()
		fb.appointments = append(fb.appointments, models.Appointment{
			ID: fb.nextID, Date: form.Date, Time: form.Time, Description: form.Description,
		})
		fb.nextID++
		c.JSON(http.StatusCreated, gin.H{"message": "created"})
	})
	a.PUT("/appointments/:id", func(c *gin.Context) {
		id, _ := strconv.Atoi(c.Param("id"))
		var form models.AppointmentForm
		_ = c.ShouldBindJSON(&form)
		fb.mu.Lock()
		defer fb.mu.Unlock()
		for i := range fb.appointments {
			if fb.appointments[i].ID == id {
				fb.appointments[i].Date = form.Date
				fb.appointments[i].Time = form.Time
				fb.appointments[i].Description = form.Description
				c.JSON(http.StatusOK, gin.H{})
				return
			}
		}
		c.JSON(http.StatusNotFound, gin.H{"message": "Appointment not found"})
	})
	a.DELETE("/appointments/:id", func(c *gin.Context) {
		id, _ := strconv.Atoi(c.Param("id"))
		fb.mu.Lock()
		defer fb.mu.Unlock()
		for i, ap := range fb.appointments {
			if ap.ID == id {
				fb.appointments = append(fb.appointments[:i], fb.appointments[i+1:]...)
				c.JSON(http.StatusOK, gin.H{})
				return
			}
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "Appointment not found"})
	})
	admin := func(c *gin.Context) {
		fb.mu.Lock()
		forbid := fb.forbidAdmin
		fb.mu.Unlock()
		if forbid {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		c.Next()
	}
	a.GET("/users", admin, func(c *gin.Context) {
		fb.mu.Lock()
		defer fb.mu.Unlock()
		c.JSON(http.StatusOK, fb.users)
	})
	a.PATCH("/users/:id/role", admin, func(c *gin.Context) {
		id, _ := strconv.Atoi(c.Param("id"))
		var upd models.RoleUpdate
		_ = c.ShouldBindJSON(&upd)
		fb.mu.Lock()
		defer fb.mu.Unlock()
		for i := range fb.users {
			if fb.users[i].ID == id {
				fb.users[i].Role = upd.Role
				c.JSON(http.StatusOK, gin.H{})
				return
			}
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	})
	a.DELETE("/users/:id", admin, func(c *gin.Context) {
		id, _ := strconv.Atoi(c.Param("id"))
		fb.mu.Lock()
		defer fb.mu.Unlock()
		for i, u := range fb.users {
			if u.ID == id {
				fb.users = append(fb.users[:i], fb.users[i+1:]...)
				c.JSON(http.StatusOK, gin.H{})
				return
			}
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return fb, services.NewAPIClient(srv.URL, srv.Client())
}

func (fb *fakeBackend) hitCount(key string) int {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.hits[key]
}

func (fb *fakeBackend) setRole(role string) {
	fb.mu.Lock()
	fb.role = role
	fb.mu.Unlock()
}

// removeBehindClient drops an appointment as another actor would.
func (fb *fakeBackend) removeBehindClient(id int) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	for i, ap := range fb.appointments {
		if ap.ID == id {
			fb.appointments = append(fb.appointments[:i], fb.appointments[i+1:]...)
			return
		}
	}
}

func loggedIn(api *services.APIClient) (*services.Session, *memStore) {
	store := &memStore{token: testToken}
	return services.NewSession(store, api), store
}

func ids(items []models.Appointment) []int {
	out := make([]int, 0, len(items))
	for _, a := range items {
		out = append(out, a.ID)
	}
	return out
}
