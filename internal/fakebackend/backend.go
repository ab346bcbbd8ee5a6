// Package fakebackend is an in-memory implementation of the learning platform REST API, used to
// exercise the client end to end through net/http/httptest.
package fakebackend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/jrsteele09/go-course-client/apiclient"
	"github.com/jrsteele09/go-course-client/users"
)

// Fault makes matching requests fail before they reach a handler.
type Fault struct {
	Method       string // "" matches any method
	Path         string // exact request path, "" matches any
	BodyContains string // substring of the raw request body, "" matches any
	Status       int
	Message      string
	Times        int // 0 fails forever
}

type account struct {
	password string
	user     users.User
}

type Course struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
}

type Module struct {
	ID          int64     `json:"id"`
	Course      int64     `json:"course"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Order       int       `json:"order"`
	Lessons     []*Lesson `json:"lessons"`
}

type Lesson struct {
	ID          int64  `json:"id"`
	Module      int64  `json:"module"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	ContentType string `json:"content_type"`
	Order       int    `json:"order"`
}

type Backend struct {
	router *mux.Router
	key    []byte
	ttl    time.Duration
	rotate bool

	accounts      map[string]*account // by username
	access        map[string]string   // access token -> username
	refresh       map[string]string   // refresh token -> username
	googleTokens  map[string]string   // external token -> username
	resetTokens   map[string]string   // reset token -> username
	pendingVerify map[string]bool     // email -> awaiting verification

	courses      map[int64]*Course
	modules      map[int64]*Module
	lessons      map[int64]*Lesson
	nextCourseID int64
	nextModuleID int64
	nextLessonID int64
	nextUserID   int64

	faults []*Fault
	delays map[string]time.Duration // "METHOD path" -> latency
	calls  []string
	lock   sync.Mutex
}

type Option func(*Backend)

// WithAccessTTL sets the lifetime written into minted access tokens.
func WithAccessTTL(ttl time.Duration) Option {
	return func(b *Backend) {
		b.ttl = ttl
	}
}

// WithRefreshRotation makes every refresh return a new refresh token.
func WithRefreshRotation() Option {
	return func(b *Backend) {
		b.rotate = true
	}
}

func New(options ...Option) *Backend {
	b := &Backend{
		router:        mux.NewRouter(),
		key:           []byte(uuid.NewString()),
		ttl:           15 * time.Minute,
		accounts:      make(map[string]*account),
		access:        make(map[string]string),
		refresh:       make(map[string]string),
		googleTokens:  make(map[string]string),
		resetTokens:   make(map[string]string),
		pendingVerify: make(map[string]bool),
		courses:       make(map[int64]*Course),
		modules:       make(map[int64]*Module),
		lessons:       make(map[int64]*Lesson),
		nextCourseID:  1,
		nextModuleID:  1,
		nextLessonID:  1,
		nextUserID:    1,
		delays:        make(map[string]time.Duration),
	}
	for _, opt := range options {
		opt(b)
	}
	b.initRoutes()
	return b
}

func (b *Backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	r.Body = io.NopCloser(bytes.NewReader(body))

	b.lock.Lock()
	b.calls = append(b.calls, r.Method+" "+r.URL.Path)
	fault := b.matchFault(r, body)
	delay := b.delays[r.Method+" "+r.URL.Path]
	b.lock.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}

	if fault != nil {
		writeJSON(w, fault.Status, map[string]string{"detail": fault.Message})
		return
	}
	b.router.ServeHTTP(w, r)
}

func (b *Backend) initRoutes() {
	b.router.HandleFunc(apiclient.RouteAuthLogin, b.handleLogin).Methods(http.MethodPost)
	b.router.HandleFunc(apiclient.RouteAuthRefresh, b.handleRefresh).Methods(http.MethodPost)
	b.router.HandleFunc(apiclient.RouteAuthRegister, b.handleRegister).Methods(http.MethodPost)
	b.router.HandleFunc(apiclient.RouteAuthResendVerification, b.handleResendVerification).Methods(http.MethodPost)
	b.router.HandleFunc(apiclient.RouteAuthPasswordReset, b.handlePasswordReset).Methods(http.MethodPost)
	b.router.HandleFunc(apiclient.RouteAuthPasswordResetConfirm, b.handlePasswordResetConfirm).Methods(http.MethodPost)
	b.router.HandleFunc(apiclient.RouteAuthGoogle, b.handleGoogle).Methods(http.MethodPost)

	b.router.HandleFunc(apiclient.RouteCurrentUser, b.requireAuth(b.handleCurrentUser)).Methods(http.MethodGet)

	b.router.HandleFunc(apiclient.RouteCourses, b.requireAuth(b.handleCreateCourse)).Methods(http.MethodPost)
	b.router.HandleFunc(apiclient.RouteModules, b.requireAuth(b.handleCreateModule)).Methods(http.MethodPost)
	b.router.HandleFunc(apiclient.RouteModule, b.requireAuth(b.handleUpdateModule)).Methods(http.MethodPatch)
	b.router.HandleFunc(apiclient.RouteModule, b.requireAuth(b.handleDeleteModule)).Methods(http.MethodDelete)
	b.router.HandleFunc(apiclient.RouteLessons, b.requireAuth(b.handleCreateLesson)).Methods(http.MethodPost)
	b.router.HandleFunc(apiclient.RouteLesson, b.requireAuth(b.handleUpdateLesson)).Methods(http.MethodPatch)
	b.router.HandleFunc(apiclient.RouteLesson, b.requireAuth(b.handleDeleteLesson)).Methods(http.MethodDelete)
	b.router.HandleFunc(apiclient.RouteCourseModules, b.requireAuth(b.handleListModules)).Methods(http.MethodGet)
	b.router.HandleFunc(apiclient.RouteCoursePublish, b.requireAuth(b.handlePublish("published"))).Methods(http.MethodPost)
	b.router.HandleFunc(apiclient.RouteCourseUnpublish, b.requireAuth(b.handlePublish("draft"))).Methods(http.MethodPost)
}

// AddUser registers a verified account.
func (b *Backend) AddUser(username, password, email string, role users.RoleType) users.User {
	b.lock.Lock()
	defer b.lock.Unlock()

	u := users.User{ID: b.nextUserID, Username: username, Email: email, Role: role, Verified: true}
	b.nextUserID++
	b.accounts[username] = &account{password: password, user: u}
	return u
}

// AddGoogleToken maps an external identity token to an existing username.
func (b *Backend) AddGoogleToken(token, username string) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.googleTokens[token] = username
}

// AddCourse stores a draft course and returns its id.
func (b *Backend) AddCourse(title, description string) int64 {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.addCourse(title, description)
}

// SetNextIDs sets the ids assigned to the next created module and lesson.
func (b *Backend) SetNextIDs(moduleID, lessonID int64) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.nextModuleID = moduleID
	b.nextLessonID = lessonID
}

// Inject adds a fault rule.
func (b *Backend) Inject(f Fault) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.faults = append(b.faults, &f)
}

// Delay holds every matching request for d before it is handled.
func (b *Backend) Delay(method, path string, d time.Duration) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.delays[method+" "+path] = d
}

// ClearFaults removes every fault rule.
func (b *Backend) ClearFaults() {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.faults = nil
}

// ExpireAccessTokens invalidates every issued access token, refresh tokens stay valid.
func (b *Backend) ExpireAccessTokens() {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.access = make(map[string]string)
}

// RevokeRefreshTokens invalidates every issued refresh token.
func (b *Backend) RevokeRefreshTokens() {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.refresh = make(map[string]string)
}

// Calls returns how many requests matched method and path.
func (b *Backend) Calls(method, path string) int {
	b.lock.Lock()
	defer b.lock.Unlock()

	n := 0
	for _, c := range b.calls {
		if c == method+" "+path {
			n++
		}
	}
	return n
}

// TotalCalls returns the number of requests received.
func (b *Backend) TotalCalls() int {
	b.lock.Lock()
	defer b.lock.Unlock()
	return len(b.calls)
}

// ResetToken returns the password reset token last issued for email.
func (b *Backend) ResetToken(email string) string {
	b.lock.Lock()
	defer b.lock.Unlock()
	for token, username := range b.resetTokens {
		if b.accounts[username].user.Email == email {
			return token
		}
	}
	return ""
}

// Course returns a copy of the stored course.
func (b *Backend) Course(id int64) (Course, bool) {
	b.lock.Lock()
	defer b.lock.Unlock()
	c, ok := b.courses[id]
	if !ok {
		return Course{}, false
	}
	return *c, true
}

// Modules returns the modules of a course sorted by order, lessons included.
func (b *Backend) Modules(courseID int64) []Module {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.courseModules(courseID)
}

func (b *Backend) matchFault(r *http.Request, body []byte) *Fault {
	for i, f := range b.faults {
		if f.Method != "" && f.Method != r.Method {
			continue
		}
		if f.Path != "" && f.Path != r.URL.Path {
			continue
		}
		if f.BodyContains != "" && !strings.Contains(string(body), f.BodyContains) {
			continue
		}
		if f.Times > 0 {
			f.Times--
			if f.Times == 0 {
				b.faults = append(b.faults[:i], b.faults[i+1:]...)
			}
		}
		return f
	}
	return nil
}

func (b *Backend) issueTokens(username string) map[string]string {
	access, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   username,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(b.ttl)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}).SignedString(b.key)
	refresh := uuid.NewString()
	b.access[access] = username
	b.refresh[refresh] = username
	return map[string]string{"access": access, "refresh": refresh}
}

func (b *Backend) requireAuth(next func(http.ResponseWriter, *http.Request, *account)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Authentication credentials were not provided."})
			return
		}

		b.lock.Lock()
		username, ok := b.access[parts[1]]
		acct := b.accounts[username]
		b.lock.Unlock()

		if !ok || acct == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Given token not valid for any token type"})
			return
		}
		if _, err := jwt.Parse(parts[1], func(*jwt.Token) (interface{}, error) { return b.key, nil }); err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Token is invalid or expired"})
			return
		}
		next(w, r, acct)
	}
}

func (b *Backend) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !decode(w, r, &req) {
		return
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	acct, ok := b.accounts[req.Username]
	if !ok || acct.password != req.Password {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"non_field_errors": {"Unable to log in with provided credentials."}})
		return
	}
	if b.pendingVerify[acct.user.Email] {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"non_field_errors": {"E-mail is not verified."}})
		return
	}
	writeJSON(w, http.StatusOK, b.issueTokens(req.Username))
}

func (b *Backend) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Refresh string `json:"refresh"`
	}
	if !decode(w, r, &req) {
		return
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	username, ok := b.refresh[req.Refresh]
	if !ok {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Token is invalid or expired"})
		return
	}
	tokens := b.issueTokens(username)
	delete(b.refresh, tokens["refresh"])
	if b.rotate {
		delete(b.refresh, req.Refresh)
		b.refresh[tokens["refresh"]] = username
		writeJSON(w, http.StatusOK, tokens)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"access": tokens["access"]})
}

func (b *Backend) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username  string `json:"username"`
		Email     string `json:"email"`
		Password1 string `json:"password1"`
		Password2 string `json:"password2"`
	}
	if !decode(w, r, &req) {
		return
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	if _, exists := b.accounts[req.Username]; exists {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"username": {"A user with that username already exists."}})
		return
	}
	if req.Password1 != req.Password2 {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"non_field_errors": {"The two password fields didn't match."}})
		return
	}
	b.accounts[req.Username] = &account{
		password: req.Password1,
		user:     users.User{ID: b.nextUserID, Username: req.Username, Email: req.Email, Role: users.RoleStudent},
	}
	b.nextUserID++
	b.pendingVerify[req.Email] = true
	writeJSON(w, http.StatusCreated, map[string]string{"detail": "Verification e-mail sent."})
}

func (b *Backend) handleResendVerification(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if !decode(w, r, &req) {
		return
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	if !b.pendingVerify[req.Email] {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"email": {"No pending verification for this e-mail."}})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"detail": "ok"})
}

func (b *Backend) handlePasswordReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if !decode(w, r, &req) {
		return
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	for username, acct := range b.accounts {
		if acct.user.Email == req.Email {
			b.resetTokens[uuid.NewString()] = username
		}
	}
	// unknown addresses succeed too, so accounts cannot be probed
	writeJSON(w, http.StatusOK, map[string]string{"detail": "Password reset e-mail has been sent."})
}

func (b *Backend) handlePasswordResetConfirm(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token       string `json:"token"`
		NewPassword string `json:"new_password"`
	}
	if !decode(w, r, &req) {
		return
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	username, ok := b.resetTokens[req.Token]
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"token": {"Invalid value"}})
		return
	}
	delete(b.resetTokens, req.Token)
	b.accounts[username].password = req.NewPassword
	writeJSON(w, http.StatusOK, map[string]string{"detail": "Password has been reset with the new password."})
}

func (b *Backend) handleGoogle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		AccessToken string `json:"access_token"`
	}
	if !decode(w, r, &req) {
		return
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	username, ok := b.googleTokens[req.AccessToken]
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"non_field_errors": {"Incorrect value"}})
		return
	}
	writeJSON(w, http.StatusOK, b.issueTokens(username))
}

func (b *Backend) handleCurrentUser(w http.ResponseWriter, _ *http.Request, acct *account) {
	writeJSON(w, http.StatusOK, acct.user)
}

func (b *Backend) handleCreateCourse(w http.ResponseWriter, r *http.Request, _ *account) {
	var req Course
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"title": {"This field may not be blank."}})
		return
	}

	b.lock.Lock()
	defer b.lock.Unlock()
	id := b.addCourse(req.Title, req.Description)
	writeJSON(w, http.StatusCreated, b.courses[id])
}

func (b *Backend) handleListModules(w http.ResponseWriter, r *http.Request, _ *account) {
	courseID, ok := pathID(w, r)
	if !ok {
		return
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	if _, ok := b.courses[courseID]; !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		return
	}
	writeJSON(w, http.StatusOK, b.courseModules(courseID))
}

func (b *Backend) handleCreateModule(w http.ResponseWriter, r *http.Request, _ *account) {
	var req Module
	if !decode(w, r, &req) {
		return
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	if _, ok := b.courses[req.Course]; !ok {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"course": {"Invalid pk - object does not exist."}})
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"title": {"This field may not be blank."}})
		return
	}
	m := &Module{ID: b.nextModuleID, Course: req.Course, Title: req.Title, Description: req.Description, Order: req.Order}
	b.nextModuleID++
	b.modules[m.ID] = m
	writeJSON(w, http.StatusCreated, m)
}

func (b *Backend) handleUpdateModule(w http.ResponseWriter, r *http.Request, _ *account) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Order       *int    `json:"order"`
	}
	if !decode(w, r, &req) {
		return
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	m, ok := b.modules[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		return
	}
	if req.Title != nil {
		m.Title = *req.Title
	}
	if req.Description != nil {
		m.Description = *req.Description
	}
	if req.Order != nil {
		m.Order = *req.Order
	}
	writeJSON(w, http.StatusOK, m)
}

func (b *Backend) handleDeleteModule(w http.ResponseWriter, r *http.Request, _ *account) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	if _, ok := b.modules[id]; !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		return
	}
	delete(b.modules, id)
	for lid, l := range b.lessons {
		if l.Module == id {
			delete(b.lessons, lid)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (b *Backend) handleCreateLesson(w http.ResponseWriter, r *http.Request, _ *account) {
	var req Lesson
	if !decode(w, r, &req) {
		return
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	if _, ok := b.modules[req.Module]; !ok {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"module": {"Invalid pk - object does not exist."}})
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"title": {"This field may not be blank."}})
		return
	}
	l := &Lesson{ID: b.nextLessonID, Module: req.Module, Title: req.Title, Content: req.Content, ContentType: req.ContentType, Order: req.Order}
	if l.ContentType == "" {
		l.ContentType = "text"
	}
	b.nextLessonID++
	b.lessons[l.ID] = l
	writeJSON(w, http.StatusCreated, l)
}

func (b *Backend) handleUpdateLesson(w http.ResponseWriter, r *http.Request, _ *account) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		Title       *string `json:"title"`
		Content     *string `json:"content"`
		ContentType *string `json:"content_type"`
		Order       *int    `json:"order"`
	}
	if !decode(w, r, &req) {
		return
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	l, ok := b.lessons[id]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		return
	}
	if req.Title != nil {
		l.Title = *req.Title
	}
	if req.Content != nil {
		l.Content = *req.Content
	}
	if req.ContentType != nil {
		l.ContentType = *req.ContentType
	}
	if req.Order != nil {
		l.Order = *req.Order
	}
	writeJSON(w, http.StatusOK, l)
}

func (b *Backend) handleDeleteLesson(w http.ResponseWriter, r *http.Request, _ *account) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	b.lock.Lock()
	defer b.lock.Unlock()

	if _, ok := b.lessons[id]; !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		return
	}
	delete(b.lessons, id)
	w.WriteHeader(http.StatusNoContent)
}

func (b *Backend) handlePublish(status string) func(http.ResponseWriter, *http.Request, *account) {
	return func(w http.ResponseWriter, r *http.Request, _ *account) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}

		b.lock.Lock()
		defer b.lock.Unlock()

		c, ok := b.courses[id]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
			return
		}
		c.Status = status
		writeJSON(w, http.StatusOK, c)
	}
}

func (b *Backend) addCourse(title, description string) int64 {
	id := b.nextCourseID
	b.nextCourseID++
	b.courses[id] = &Course{ID: id, Title: title, Description: description, Status: "draft"}
	return id
}

func (b *Backend) courseModules(courseID int64) []Module {
	out := make([]Module, 0)
	for _, m := range b.modules {
		if m.Course != courseID {
			continue
		}
		cp := *m
		cp.Lessons = make([]*Lesson, 0)
		for _, l := range b.lessons {
			if l.Module == m.ID {
				lc := *l
				cp.Lessons = append(cp.Lessons, &lc)
			}
		}
		sort.Slice(cp.Lessons, func(i, j int) bool {
			if cp.Lessons[i].Order == cp.Lessons[j].Order {
				return cp.Lessons[i].ID < cp.Lessons[j].ID
			}
			return cp.Lessons[i].Order < cp.Lessons[j].Order
		})
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order == out[j].Order {
			return out[i].ID < out[j].ID
		}
		return out[i].Order < out[j].Order
	})
	return out
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		return 0, false
	}
	return id, true
}

func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && err != io.EOF {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": fmt.Sprintf("JSON parse error - %v", err)})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
