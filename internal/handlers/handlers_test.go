package handlers

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"pokedex/internal/config"
	"pokedex/internal/database"
	"pokedex/internal/email"
	"pokedex/internal/models"

	"github.com/gin-gonic/gin"
	_ "github.com/mattn/go-sqlite3"
)

func setupTestServer(t *testing.T) (*gin.Engine, *sql.DB, *config.Config) {
	gin.SetMode(gin.TestMode)

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatal("Failed to open test database:", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatal("Failed to run migrations:", err)
	}

	cfg := &config.Config{
		JWTSecret:     "test-secret",
		TokenDuration: time.Hour,
		CatalogPath:   writeTestCatalog(t),
		Environment:   "development",
	}

	r := gin.New()
	SetupRoutes(r, db, cfg, email.NewService(cfg))
	return r, db, cfg
}

func writeTestCatalog(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "pokemon.csv")
	data := "name,attack,defense,hp,sp_attack,sp_defense,speed,height,weight,type1,type2\n" +
		"Bulbasaur,49,49,45,65,65,45,7,69,grass,poison\n" +
		"Charmander,52,43,39,60,50,65,6,85,fire,\n" +
		"Squirtle,48,65,44,50,64,43,5,90,water,\n" +
		"Pikachu,55,40,35,50,50,90,4,60,electric,\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal("Failed to write test catalog:", err)
	}
	return path
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal("Failed to encode request body:", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
	}
	return body
}

func signupAndLogin(t *testing.T, r *gin.Engine, username, emailAddr, password string) string {
	w := doJSON(t, r, http.MethodPost, "/signup", "", gin.H{
		"username": username, "email": emailAddr, "password": password,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Signup failed with %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPost, "/login", "", gin.H{
		"username": username, "password": password,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Login failed with %d: %s", w.Code, w.Body.String())
	}

	token, _ := decodeBody(t, w)["access_token"].(string)
	if token == "" {
		t.Fatal("Login response did not contain a token")
	}
	return token
}

func TestSignupLoginCaptureListScenario(t *testing.T) {
	r, _, _ := setupTestServer(t)

	if w := doJSON(t, r, http.MethodGet, "/init", "", nil); w.Code != http.StatusOK {
		t.Fatalf("Init failed with %d: %s", w.Code, w.Body.String())
	}

	token := signupAndLogin(t, r, "ash", "ash@x.com", "pikachu1")

	w := doJSON(t, r, http.MethodPost, "/mypokemon", token, gin.H{"pokemon_id": 1})
	if w.Code != http.StatusCreated {
		t.Fatalf("Capture failed with %d: %s", w.Code, w.Body.String())
	}
	if name := decodeBody(t, w)["name"]; name != "Bulbasaur" {
		t.Errorf("Expected default nickname 'Bulbasaur', got %v", name)
	}

	w = doJSON(t, r, http.MethodGet, "/mypokemon", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("List failed with %d: %s", w.Code, w.Body.String())
	}

	var views []models.UserPokemonView
	if err := json.Unmarshal(w.Body.Bytes(), &views); err != nil {
		t.Fatal("Failed to decode collection:", err)
	}
	if len(views) != 1 || views[0].PokemonID != 1 {
		t.Errorf("Expected one owned pokemon of species 1, got %+v", views)
	}
}

func TestSignupConflict(t *testing.T) {
	r, _, _ := setupTestServer(t)

	body := gin.H{"username": "ash", "email": "ash@x.com", "password": "pikachu1"}
	if w := doJSON(t, r, http.MethodPost, "/signup", "", body); w.Code != http.StatusCreated {
		t.Fatalf("First signup failed with %d", w.Code)
	}

	w := doJSON(t, r, http.MethodPost, "/signup", "", body)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for duplicate signup, got %d", w.Code)
	}
	if decodeBody(t, w)["error"] == nil {
		t.Error("Expected an error field in the conflict response")
	}
}

func TestLoginFailuresAreIdentical(t *testing.T) {
	r, _, _ := setupTestServer(t)

	w := doJSON(t, r, http.MethodPost, "/signup", "", gin.H{
		"username": "ash", "email": "ash@x.com", "password": "pikachu1",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Signup failed with %d", w.Code)
	}

	wrongPassword := doJSON(t, r, http.MethodPost, "/login", "", gin.H{"username": "ash", "password": "nope"})
	unknownUser := doJSON(t, r, http.MethodPost, "/login", "", gin.H{"username": "nobody", "password": "pikachu1"})

	if wrongPassword.Code != http.StatusUnauthorized || unknownUser.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401 for both failures, got %d and %d", wrongPassword.Code, unknownUser.Code)
	}
	if wrongPassword.Body.String() != unknownUser.Body.String() {
		t.Error("Wrong password and unknown user must return identical bodies")
	}
}

func TestProtectedRoutesRejectMissingAndBadTokens(t *testing.T) {
	r, _, _ := setupTestServer(t)

	if w := doJSON(t, r, http.MethodGet, "/mypokemon", "", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without a token, got %d", w.Code)
	}

	if w := doJSON(t, r, http.MethodGet, "/mypokemon", "garbage.token.here", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 with a garbage token, got %d", w.Code)
	}
}

func TestTokenAcceptedFromCookie(t *testing.T) {
	r, _, _ := setupTestServer(t)

	if w := doJSON(t, r, http.MethodGet, "/init", "", nil); w.Code != http.StatusOK {
		t.Fatalf("Init failed with %d", w.Code)
	}
	token := signupAndLogin(t, r, "ash", "ash@x.com", "pikachu1")

	req := httptest.NewRequest(http.MethodGet, "/mypokemon", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: token})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("Expected cookie credential to be accepted, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCaptureInvalidSpecies(t *testing.T) {
	r, _, _ := setupTestServer(t)

	if w := doJSON(t, r, http.MethodGet, "/init", "", nil); w.Code != http.StatusOK {
		t.Fatalf("Init failed with %d", w.Code)
	}
	token := signupAndLogin(t, r, "ash", "ash@x.com", "pikachu1")

	w := doJSON(t, r, http.MethodPost, "/mypokemon", token, gin.H{"pokemon_id": 999})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for invalid species, got %d", w.Code)
	}

	if w := doJSON(t, r, http.MethodGet, "/mypokemon", token, nil); w.Body.String() == "" || w.Code != http.StatusOK {
		t.Fatalf("List failed with %d", w.Code)
	} else {
		var views []models.UserPokemonView
		if err := json.Unmarshal(w.Body.Bytes(), &views); err != nil {
			t.Fatal("Failed to decode collection:", err)
		}
		if len(views) != 0 {
			t.Errorf("Failed capture must not create a row, got %+v", views)
		}
	}
}

func TestRenameAndReleaseLifecycle(t *testing.T) {
	r, _, _ := setupTestServer(t)

	if w := doJSON(t, r, http.MethodGet, "/init", "", nil); w.Code != http.StatusOK {
		t.Fatalf("Init failed with %d", w.Code)
	}
	token := signupAndLogin(t, r, "ash", "ash@x.com", "pikachu1")

	w := doJSON(t, r, http.MethodPost, "/mypokemon", token, gin.H{"pokemon_id": 4, "name": "Sparky"})
	if w.Code != http.StatusCreated {
		t.Fatalf("Capture failed with %d: %s", w.Code, w.Body.String())
	}
	id := int(decodeBody(t, w)["id"].(float64))
	path := "/mypokemon/" + strconv.Itoa(id)

	if w := doJSON(t, r, http.MethodPut, path, token, gin.H{"name": ""}); w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for empty nickname, got %d", w.Code)
	}

	if w := doJSON(t, r, http.MethodPut, path, token, gin.H{"name": "Zappy"}); w.Code != http.StatusOK {
		t.Errorf("Rename failed with %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, path, token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Get failed with %d", w.Code)
	}
	if name := decodeBody(t, w)["name"]; name != "Zappy" {
		t.Errorf("Expected nickname 'Zappy', got %v", name)
	}

	if w := doJSON(t, r, http.MethodDelete, path, token, nil); w.Code != http.StatusOK {
		t.Errorf("Release failed with %d: %s", w.Code, w.Body.String())
	}

	if w := doJSON(t, r, http.MethodDelete, path, token, nil); w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for second release, got %d", w.Code)
	}
}

func TestCrossUserAccessIsUnauthorized(t *testing.T) {
	r, _, _ := setupTestServer(t)

	if w := doJSON(t, r, http.MethodGet, "/init", "", nil); w.Code != http.StatusOK {
		t.Fatalf("Init failed with %d", w.Code)
	}

	ashToken := signupAndLogin(t, r, "ash", "ash@x.com", "pikachu1")
	mistyToken := signupAndLogin(t, r, "misty", "misty@x.com", "starmie1")

	w := doJSON(t, r, http.MethodPost, "/mypokemon", ashToken, gin.H{"pokemon_id": 3})
	if w.Code != http.StatusCreated {
		t.Fatalf("Capture failed with %d", w.Code)
	}
	id := int(decodeBody(t, w)["id"].(float64))
	path := "/mypokemon/" + strconv.Itoa(id)

	if w := doJSON(t, r, http.MethodPut, path, mistyToken, gin.H{"name": "Mine"}); w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 renaming another trainer's pokemon, got %d", w.Code)
	}
	if w := doJSON(t, r, http.MethodDelete, path, mistyToken, nil); w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 releasing another trainer's pokemon, got %d", w.Code)
	}
	if w := doJSON(t, r, http.MethodGet, path, mistyToken, nil); w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 reading another trainer's pokemon, got %d", w.Code)
	}

	// The owner still sees the row untouched.
	w = doJSON(t, r, http.MethodGet, path, ashToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Get failed with %d", w.Code)
	}
	if name := decodeBody(t, w)["name"]; name != "Squirtle" {
		t.Errorf("Expected nickname unchanged, got %v", name)
	}
}

func TestInitRejectsMalformedCatalog(t *testing.T) {
	r, db, cfg := setupTestServer(t)

	if w := doJSON(t, r, http.MethodGet, "/init", "", nil); w.Code != http.StatusOK {
		t.Fatalf("Init failed with %d", w.Code)
	}

	bad := "name,attack,defense,hp,sp_attack,sp_defense,speed,height,weight,type1,type2\n" +
		"Missingno,not-a-number,49,45,65,65,45,7,69,glitch,\n"
	if err := os.WriteFile(cfg.CatalogPath, []byte(bad), 0o644); err != nil {
		t.Fatal("Failed to write malformed catalog:", err)
	}

	if w := doJSON(t, r, http.MethodGet, "/init", "", nil); w.Code != http.StatusInternalServerError {
		t.Errorf("Expected malformed catalog to fail the import, got %d", w.Code)
	}

	// The previous catalog is untouched.
	entries, err := database.ListPokemon(db)
	if err != nil {
		t.Fatal("Failed to list catalog:", err)
	}
	if len(entries) != 4 {
		t.Errorf("Expected catalog unchanged after failed import, got %d entries", len(entries))
	}
}

func TestListCatalog(t *testing.T) {
	r, _, _ := setupTestServer(t)

	if w := doJSON(t, r, http.MethodGet, "/init", "", nil); w.Code != http.StatusOK {
		t.Fatalf("Init failed with %d", w.Code)
	}

	w := doJSON(t, r, http.MethodGet, "/pokemon", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("List catalog failed with %d", w.Code)
	}

	var entries []models.Pokemon
	if err := json.Unmarshal(w.Body.Bytes(), &entries); err != nil {
		t.Fatal("Failed to decode catalog:", err)
	}
	if len(entries) != 4 {
		t.Fatalf("Expected 4 catalog entries, got %d", len(entries))
	}
	if entries[0].Name != "Bulbasaur" || entries[0].Type2 == nil {
		t.Errorf("Unexpected first entry: %+v", entries[0])
	}
	if entries[1].Type2 != nil {
		t.Errorf("Expected Charmander to have no second type, got %v", *entries[1].Type2)
	}
}
