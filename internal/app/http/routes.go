package routes

import (
	moviesapi "movie-library/internal/api/movies"
	personsapi "movie-library/internal/api/persons"
	"movie-library/internal/app/http/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Read side is open.
	r.GET("/movies", moviesapi.ListMovies)
	r.GET("/movies/:id", moviesapi.GetMovieByID)
	r.GET("/persons", personsapi.ListPersons)
	r.GET("/persons/:id", personsapi.GetPersonByID)

	// Mutations are authenticated and pass input sanitization.
	auth := r.Group("/")
	auth.Use(middleware.AuthMiddleware(), middleware.SanitizeAndCleanInputMiddleware())

	auth.POST("/movies", moviesapi.CreateMovie)
	auth.PUT("/movies/:id", moviesapi.UpdateMovie)
	auth.DELETE("/movies/:id", moviesapi.DeleteMovie)

	auth.POST("/persons", personsapi.CreatePerson)
}
