package movies

import (
	"net/http"

	"movie-library/database"
	"movie-library/internal/catalog/dedupe"
	"movie-library/internal/catalog/resolve"
	"movie-library/internal/domain/catalog"
	"movie-library/internal/store"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ------------------------------
// GET /movies
// ------------------------------
func ListMovies(c *gin.Context) {
	q := database.DB.
		Preload("Terms").
		Preload("Crew.Person").
		Order("created_at DESC")
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var out []catalog.Movie
	if err := q.Find(&out).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load movies"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"movies": out})
}

// ------------------------------
// GET /movies/:id
// ------------------------------
func GetMovieByID(c *gin.Context) {
	var m catalog.Movie
	err := database.DB.
		Preload("Terms").
		Preload("Crew.Person").
		Preload("Poster").
		Preload("Carousel").
		Preload("Gallery.Asset").
		Preload("Comments", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		First(&m, "id = ?", c.Param("id")).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Movie not found"})
		return
	}
	c.JSON(http.StatusOK, m)
}

// ------------------------------
// POST /movies  (duplicate detection + merge)
// ------------------------------
func CreateMovie(c *gin.Context) {
	var req CreateMovieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.metaFallback()

	if err := validateCreate(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	st := store.New(database.DB)
	in := incomingFromCreate(req)

	decision, err := dedupe.New(st).Evaluate(in)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Duplicate detection failed", "details": err.Error()})
		return
	}

	switch decision.Action {
	case dedupe.ActionConflict:
		c.JSON(http.StatusConflict, gin.H{
			"error":       "Movie already exists",
			"existing_id": decision.Existing.ID,
			"reason":      "every provided field matches the existing movie",
			"suggestion":  "use PUT /movies/" + decision.Existing.ID + " to update it",
		})
	case dedupe.ActionMerge:
		mergeIntoExisting(c, req, in, decision.Existing)
	default:
		createNewMovie(c, req, in)
	}
}

func createNewMovie(c *gin.Context, req CreateMovieRequest, in dedupe.Incoming) {
	slug := catalog.MakeSlug(catalog.NormalizeTitle(req.Title))
	if slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		txStore := store.New(tx)

		existing, err := txStore.MovieBySlug(slug)
		if err != nil {
			return err
		}
		if existing != nil {
			c.JSON(http.StatusConflict, gin.H{
				"error":       "Movie already exists",
				"existing_id": existing.ID,
				"suggestion":  "use PUT /movies/" + existing.ID + " to update it",
			})
			return nil
		}

		m := &catalog.Movie{Title: req.Title, Slug: slug, Status: catalog.StatusDraft}
		dedupe.ApplyScalars(in, m)
		if req.Status != nil && *req.Status == catalog.StatusPublished {
			m.Status = catalog.StatusPublished
		}
		if err := txStore.CreateMovie(m); err != nil {
			return err
		}

		resolver := resolve.NewResolver(txStore, txStore, txStore, nil)
		if termIDs := resolveTermRefs(txStore, resolver, req.Taxonomies); len(termIDs) > 0 {
			if err := txStore.ReplaceMovieTerms(m.ID, termIDs); err != nil {
				return err
			}
		}
		crew, err := resolveCrew(resolver, m.ID, req.Crew)
		if err != nil {
			return err
		}
		if len(crew) > 0 {
			if err := txStore.ReplaceCrew(m.ID, crew); err != nil {
				return err
			}
		}

		c.JSON(http.StatusCreated, gin.H{"id": m.ID})
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create movie", "details": err.Error()})
	}
}

func mergeIntoExisting(c *gin.Context, req CreateMovieRequest, in dedupe.Incoming, existing *catalog.Movie) {
	var report dedupe.MergeReport
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		txStore := store.New(tx)

		var m catalog.Movie
		if err := tx.First(&m, "id = ?", existing.ID).Error; err != nil {
			return err
		}

		report = dedupe.ApplyScalars(in, &m)
		applyStatus(&report, req.Status, &m)
		if err := txStore.SaveMovie(&m); err != nil {
			return err
		}

		resolver := resolve.NewResolver(txStore, txStore, txStore, nil)
		mergeTaxonomies(&report, txStore, resolver, m.ID, req.Taxonomies)
		return mergeCrew(&report, txStore, resolver, m.ID, req.Crew)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to merge movie", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":        existing.ID,
		"merged":    true,
		"updated":   report.Updated,
		"preserved": report.Preserved,
	})
}

// ------------------------------
// PUT /movies/:id  (merge semantics)
// ------------------------------
func UpdateMovie(c *gin.Context) {
	var req UpdateMovieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.metaFallback()

	if err := validateUpdate(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var report dedupe.MergeReport
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		txStore := store.New(tx)

		var m catalog.Movie
		if err := tx.First(&m, "id = ?", c.Param("id")).Error; err != nil {
			return err
		}

		if req.Title != nil && catalog.NormalizeTitle(*req.Title) != "" {
			m.Title = *req.Title
			m.Slug = catalog.MakeSlug(catalog.NormalizeTitle(*req.Title))
			report.Updated = append(report.Updated, "title")
		} else {
			report.Preserved = append(report.Preserved, "title")
		}

		in := incomingFromUpdate(req, m.Title)
		scalars := dedupe.ApplyScalars(in, &m)
		report.Updated = append(report.Updated, scalars.Updated...)
		report.Preserved = append(report.Preserved, scalars.Preserved...)
		applyStatus(&report, req.Status, &m)

		if err := txStore.SaveMovie(&m); err != nil {
			return err
		}

		resolver := resolve.NewResolver(txStore, txStore, txStore, nil)
		mergeTaxonomies(&report, txStore, resolver, m.ID, req.Taxonomies)
		return mergeCrew(&report, txStore, resolver, m.ID, req.Crew)
	})
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Movie not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update movie", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":        c.Param("id"),
		"updated":   report.Updated,
		"preserved": report.Preserved,
	})
}

// ------------------------------
// DELETE /movies/:id
// ------------------------------
func DeleteMovie(c *gin.Context) {
	id := c.Param("id")
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var m catalog.Movie
		if err := tx.First(&m, "id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Model(&m).Association("Terms").Clear(); err != nil {
			return err
		}
		return tx.Delete(&m).Error
	})
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Movie not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete movie"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
