package api

import (
	"github.com/gin-gonic/gin"

	"github.com/groundviewhq/groundview/internal/api/handler"
	"github.com/groundviewhq/groundview/internal/api/middleware"
	"github.com/groundviewhq/groundview/internal/config"
	"github.com/groundviewhq/groundview/internal/repository"
	"github.com/groundviewhq/groundview/internal/service"
)

// SetupRouter configures the Gin router with all routes
func SetupRouter(
	coordinator *service.StrategyCoordinator,
	images *repository.ImageRepository,
	collections *repository.CollectionRepository,
	index *repository.QdrantRepository,
	cfg *config.Config,
) *gin.Engine {
	switch cfg.Server.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.Server.CORS))

	healthHandler := handler.NewHealthHandler()
	searchHandler := handler.NewSearchHandler(coordinator)
	boardHandler := handler.NewBoardHandler(coordinator, collections)
	imageHandler := handler.NewImageHandler(images, index)
	collectionHandler := handler.NewCollectionHandler(collections)

	r.GET("/health", healthHandler.Health)

	v1 := r.Group("/api/v1")
	{
		// Retrieval
		v1.POST("/search", searchHandler.Search)
		v1.GET("/search", searchHandler.SearchGet)
		v1.POST("/search/similar", searchHandler.Similar)
		v1.POST("/search/object", searchHandler.Object)

		// Vision boards
		v1.POST("/board/analyze", boardHandler.Analyze)

		// Images
		v1.GET("/images/:id", imageHandler.Get)
		v1.DELETE("/images/:id", imageHandler.Delete)
		v1.POST("/images/favorite", imageHandler.Favorite)
		v1.POST("/images/notes", imageHandler.Notes)
		v1.GET("/folders", imageHandler.Folders)

		// Collections
		v1.GET("/collections", collectionHandler.List)
		v1.POST("/collections", collectionHandler.Create)
		v1.GET("/collections/:id", collectionHandler.Get)
		v1.POST("/collections/items", collectionHandler.AddItem)
		v1.DELETE("/collections/items", collectionHandler.RemoveItem)
	}

	return r
}
