package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/loc/inventory-service/docs"
	"github.com/loc/inventory-service/internal/api/gql"
	v1 "github.com/loc/inventory-service/internal/api/handler/v1"
	"github.com/loc/inventory-service/internal/api/middleware"
	"github.com/loc/inventory-service/internal/cache"
	"github.com/loc/inventory-service/internal/config"
	"github.com/loc/inventory-service/internal/repository"
	"github.com/loc/inventory-service/internal/repository/dao"
	"github.com/loc/inventory-service/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

// NewServer wires the inventory stack on top of db. rdb may be nil, in which
// case Idempotency-Key headers are ignored.
func NewServer(conf *config.AppConfig, db *gorm.DB, rdb *redis.Client) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	svc := s.initInventoryService(db)
	inventoryHandler := v1.NewInventoryHandler(svc)

	var idempotency gin.HandlerFunc
	if rdb != nil {
		idempotency = middleware.Idempotency(cache.NewIdempotencyStore(rdb, conf.Redis.IdempotencyTTL))
	}

	s.MountHandlers(inventoryHandler, idempotency)
	s.Router.POST("/graphql", gql.Handler(gql.NewSchema(svc)))

	return s
}

func (s *Server) initInventoryService(db *gorm.DB) *service.InventoryService {
	inventoryDAO := dao.NewInventoryDAO(db)
	repo := repository.NewInventoryRepository(inventoryDAO)

	return service.NewInventoryService(repo)
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.Tracing())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(inventoryHandler *v1.InventoryHandler, idempotency gin.HandlerFunc) {
	const basePath = "/api/inventory"

	create := []gin.HandlerFunc{inventoryHandler.HandleCreate}
	createMany := []gin.HandlerFunc{inventoryHandler.HandleCreateMany}
	if idempotency != nil {
		create = append([]gin.HandlerFunc{idempotency}, create...)
		createMany = append([]gin.HandlerFunc{idempotency}, createMany...)
	}

	inventory := s.Router.Group(basePath)
	{
		inventory.GET("", inventoryHandler.HandleGetAll)
		inventory.GET("/", inventoryHandler.HandleGetAll)
		inventory.GET("/simple", inventoryHandler.HandleIsInStock)
		inventory.GET("/check-stock", inventoryHandler.HandleIsInStock)
		inventory.GET("/:id", inventoryHandler.HandleGetByID)

		inventory.POST("", create...)
		inventory.POST("/", create...)
		inventory.POST("/add", create...)
		inventory.POST("/bulk", createMany...)

		inventory.PUT("/:id", inventoryHandler.HandleUpdate)
		inventory.DELETE("/:id", inventoryHandler.HandleDelete)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "Inventory Service API"
	docs.SwaggerInfo.Description = "Stock levels per SKU."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
