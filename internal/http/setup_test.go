package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/library/internal/circulation"
	"github.com/mrlokans/library/internal/clock"
	"github.com/mrlokans/library/internal/config"
	"github.com/mrlokans/library/internal/database"
	"github.com/mrlokans/library/internal/database/books"
	"github.com/mrlokans/library/internal/database/borrowers"
	"github.com/mrlokans/library/internal/database/borrowings"
	"github.com/mrlokans/library/internal/reports"
)

func init() {
	gin.SetMode(gin.TestMode)
	RegisterValidators()
}

// testEnvelope mirrors Envelope with the payload left undecoded.
type testEnvelope struct {
	Status     string          `json:"status"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Pagination *Pagination     `json:"pagination"`
}

type testServer struct {
	db         *database.Database
	router     *gin.Engine
	clock      *clock.Fixed
	reportsDir string
}

// setupTestServer wires the router over a fresh SQLite database. The clock
// starts at the current time so due dates pass request validation.
func setupTestServer(t *testing.T, configure ...func(*RouterConfig)) *testServer {
	t.Helper()

	dir := t.TempDir()
	db, err := database.NewDatabase(config.Database{
		Driver:   config.DatabaseDriverSQLite,
		Path:     filepath.Join(dir, "library.db"),
		LogLevel: "silent",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	clk := clock.NewFixed(time.Now().UTC().Truncate(time.Second))
	reportsDir := filepath.Join(dir, "reports")

	booksRepo := books.NewRepository(db.DB)
	borrowersRepo := borrowers.NewRepository(db.DB)
	svc := circulation.NewService(
		booksRepo,
		borrowersRepo,
		borrowings.NewRepository(db.DB),
		reports.NewCSVExporter(reportsDir, clk),
		circulation.WithClock(clk),
	)

	cfg := RouterConfig{
		Books:       booksRepo,
		Borrowers:   borrowersRepo,
		Circulation: svc,
		Database:    db,
		ReportsDir:  reportsDir,
		Version:     "test",
	}
	for _, fn := range configure {
		fn(&cfg)
	}

	return &testServer{
		db:         db,
		router:     NewRouter(cfg),
		clock:      clk,
		reportsDir: reportsDir,
	}
}

// do sends a request with an optional JSON body and decodes the envelope.
func (s *testServer) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, testEnvelope) {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env testEnvelope
	if w.Code != http.StatusNoContent {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "body: %s", w.Body.String())
	}
	return w, env
}

// createBook adds a book through the API and returns its ID.
func (s *testServer) createBook(t *testing.T, title, isbn string, quantity int) uint {
	t.Helper()
	w, env := s.do(t, http.MethodPost, "/books", gin.H{
		"title":             title,
		"author":            "Test Author",
		"isbn":              isbn,
		"availableQuantity": quantity,
		"shelfLocation":     "A1",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var book struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &book))
	return book.ID
}

// createBorrower registers a borrower through the API and returns its ID.
func (s *testServer) createBorrower(t *testing.T, name, email string) uint {
	t.Helper()
	w, env := s.do(t, http.MethodPost, "/borrowers", gin.H{"name": name, "email": email})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var borrower struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &borrower))
	return borrower.ID
}
