package persons

import (
	"net/http"
	"strings"

	"movie-library/database"
	"movie-library/internal/catalog/resolve"
	"movie-library/internal/domain/catalog"
	"movie-library/internal/store"

	"github.com/gin-gonic/gin"
)

type CreatePersonRequest struct {
	Name string `json:"name" binding:"required"`
	// Career accepts a crew role or alias; it attaches the matching career
	// term ("star" counts as "actor").
	Career string `json:"career"`
}

// ------------------------------
// GET /persons
// ------------------------------
func ListPersons(c *gin.Context) {
	q := database.DB.Preload("Careers").Order("name ASC")
	if search := c.Query("search"); search != "" {
		q = q.Where("name ILIKE ?", "%"+search+"%")
	}

	var out []catalog.Person
	if err := q.Find(&out).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load persons"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"persons": out})
}

// ------------------------------
// GET /persons/:id
// ------------------------------
func GetPersonByID(c *gin.Context) {
	var p catalog.Person
	if err := database.DB.Preload("Careers").First(&p, "id = ?", c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Person not found"})
		return
	}

	// Filmography comes straight off the crew cross reference.
	var credits []catalog.CrewRelation
	if err := database.DB.Where("person_id = ?", p.ID).Find(&credits).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load credits"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"person": p, "credits": credits})
}

// ------------------------------
// POST /persons
// ------------------------------
func CreatePerson(c *gin.Context) {
	var req CreatePersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	st := store.New(database.DB)
	resolver := resolve.NewResolver(st, st, st, nil)

	if id, ok := resolver.ResolvePerson(req.Name); ok {
		c.JSON(http.StatusConflict, gin.H{
			"error":       "Person already exists",
			"existing_id": id,
		})
		return
	}

	id, err := resolver.FindOrCreatePerson(req.Name, req.Career)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create person", "details": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}
