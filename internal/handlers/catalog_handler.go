package handlers

import (
	"net/http"
	"strings"

	"vocalhire/interview/internal/catalog"
	"vocalhire/interview/internal/models"
	"vocalhire/interview/internal/utils"
)

type CatalogHandler struct {
	catalog *catalog.Catalog
}

func NewCatalogHandler(cat *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: cat}
}

// CategoriesHandler handles GET /api/v1/catalog/categories. An optional q
// parameter filters roles by name.
func (ch *CatalogHandler) CategoriesHandler(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		utils.JSON(w, http.StatusOK, ch.catalog.Categories)
		return
	}
	roles := ch.catalog.SearchRoles(query)
	if roles == nil {
		roles = []string{}
	}
	utils.JSON(w, http.StatusOK, map[string][]string{"roles": roles})
}

type questionsResponse struct {
	Role       string   `json:"role"`
	Category   string   `json:"category"`
	Difficulty string   `json:"difficulty"`
	Questions  []string `json:"questions"`
}

// QuestionsHandler handles GET /api/v1/catalog/questions?role=&difficulty=
func (ch *CatalogHandler) QuestionsHandler(w http.ResponseWriter, r *http.Request) {
	role := utils.NormalizeRole(r.URL.Query().Get("role"))
	if !ch.catalog.RoleExists(role) {
		utils.Error(w, http.StatusNotFound, "unknown_role", "Role not found in catalog")
		return
	}
	difficulty := utils.NormalizeDifficulty(r.URL.Query().Get("difficulty"))
	if difficulty == "" {
		difficulty = models.DifficultyMedium
	}
	if !models.ValidDifficulties[difficulty] {
		utils.Error(w, http.StatusBadRequest, "invalid_difficulty", "Difficulty must be one of: easy, medium, hard")
		return
	}

	category, _ := ch.catalog.CategoryOf(role)
	utils.JSON(w, http.StatusOK, questionsResponse{
		Role:       role,
		Category:   category,
		Difficulty: difficulty,
		Questions:  ch.catalog.QuestionsForRole(role, difficulty),
	})
}
