package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/UniqueClone/traitors-game/internal/auth"
	"github.com/UniqueClone/traitors-game/internal/config"
	"github.com/UniqueClone/traitors-game/internal/database"
	"github.com/UniqueClone/traitors-game/internal/game"
	"github.com/UniqueClone/traitors-game/internal/handler"
	"github.com/UniqueClone/traitors-game/internal/store"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func init() {
	config.LoadConfig()
}

// @title           Traitors Game API
// @version         1.0
// @description     Coordination backend for in-person Traitors game nights.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	// Postgres when configured, in-memory otherwise. The memory store keeps
	// local development and demos free of a database dependency.
	var st store.Store
	if config.AppConfig.DatabaseURL != "" {
		database.Connect(config.AppConfig.DatabaseURL)
		st = store.NewGorm(database.DB)
	} else {
		log.Println("DATABASE_URL not set, using in-memory store")
		st = store.NewMemory()
	}

	svc := game.NewService(st, game.NewTimeShuffler(), nil)
	handler.Init(st, svc)

	router := gin.Default()

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// API v1 routes
	apiV1 := router.Group("/api/v1")
	{
		// Auth routes
		authRoutes := apiV1.Group("/auth")
		{
			authRoutes.POST("/register", handler.RegisterUser)
			authRoutes.POST("/login", handler.LoginUser)
		}

		// User routes (protected)
		userRoutes := apiV1.Group("/users")
		userRoutes.Use(auth.AuthMiddleware())
		{
			userRoutes.GET("/me", handler.GetMe)
		}

		// Game browsing works without a token so a wall display can poll it
		gameReadRoutes := apiV1.Group("/games")
		gameReadRoutes.Use(auth.OptionalAuthMiddleware())
		{
			gameReadRoutes.GET("", handler.GetGames)
			gameReadRoutes.GET("/:id", handler.GetGameByID)
		}

		// Game lifecycle routes (protected)
		gameRoutes := apiV1.Group("/games")
		gameRoutes.Use(auth.AuthMiddleware())
		{
			gameRoutes.POST("", handler.CreateGame)
			gameRoutes.POST("/:id/activate", handler.ActivateGame)
			gameRoutes.POST("/:id/end", handler.EndGame)

			// Players and roles
			gameRoutes.GET("/:id/players", handler.GetPlayers)
			gameRoutes.POST("/:id/players/:playerID/shield", handler.ToggleShield)
			gameRoutes.POST("/:id/players/:playerID/eliminate", handler.EliminatePlayer)
			gameRoutes.POST("/:id/roles/assign", handler.AssignRoles)
			gameRoutes.POST("/:id/roles/clear", handler.ClearRoles)

			// Round control
			gameRoutes.POST("/:id/rounds", handler.StartRound)
			gameRoutes.GET("/:id/rounds", handler.GetRounds)
			gameRoutes.POST("/:id/rounds/close", handler.CloseCurrentRound)
			gameRoutes.POST("/:id/reveal", handler.RevealResults)
			gameRoutes.POST("/:id/kitchen-call", handler.CallToKitchen)
			gameRoutes.POST("/:id/minigame", handler.StartMinigame)
			gameRoutes.POST("/:id/endgame-vote", handler.StartEndgameVote)
		}

		// Round routes (protected)
		roundRoutes := apiV1.Group("/rounds")
		roundRoutes.Use(auth.AuthMiddleware())
		{
			roundRoutes.GET("/:id/results", handler.GetRoundResults)
			roundRoutes.POST("/:id/votes", handler.CastVote)
			roundRoutes.POST("/:id/endgame-votes", handler.CastEndgameVote)
			roundRoutes.POST("/:id/winning-group", handler.MarkWinningGroup)
		}

		// Player-facing views of the active game (protected)
		playerRoutes := apiV1.Group("")
		playerRoutes.Use(auth.AuthMiddleware())
		{
			playerRoutes.POST("/join", handler.JoinGame)
			playerRoutes.GET("/voting", handler.GetVotingContext)
			playerRoutes.GET("/reveal", handler.GetRevealedResults)
			playerRoutes.GET("/minigame", handler.GetMinigamePlacement)
			playerRoutes.GET("/signals", handler.GetSignals)
			playerRoutes.POST("/signals/next", handler.NextDestination)
		}
	}

	addr := ":" + config.AppConfig.Port
	fmt.Println("Server is running on " + addr)
	fmt.Println("Swagger UI is available at http://localhost:8080/swagger/index.html")
	log.Fatal(router.Run(addr))
}
